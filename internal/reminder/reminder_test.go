package reminder

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"barbercash/backend/internal/domain"
	"barbercash/backend/internal/syncer"
)

var now = time.Date(2024, time.March, 20, 14, 0, 30, 0, time.Local)

func appt(id string, date string, at string, status domain.AppointmentStatus) domain.Appointment {
	return domain.Appointment{ID: id, ClientName: "JOAO", ServiceName: "COMBO", Date: date, Time: at, Status: status, Phone: "+5511999990000"}
}

func TestUpcomingWindow(t *testing.T) {
	appts := []domain.Appointment{
		appt("exact-now", "2024-03-20", "14:00", domain.StatusScheduled),
		appt("edge", "2024-03-20", "14:30", domain.StatusScheduled),
		appt("soon", "2024-03-20", "14:10", domain.StatusScheduled),
		appt("too-late", "2024-03-20", "14:31", domain.StatusScheduled),
		appt("tomorrow", "2024-03-21", "14:10", domain.StatusScheduled),
		appt("cancelled", "2024-03-20", "14:15", domain.StatusCancelled),
	}
	got := Upcoming(appts, now, DefaultLead)
	if len(got) != 2 || got[0].ID != "soon" || got[1].ID != "edge" {
		t.Fatalf("unexpected upcoming set: %+v", got)
	}
}

type fakeSource struct {
	mu    sync.Mutex
	appts []domain.Appointment
}

func (f *fakeSource) ListAppointments() []domain.Appointment {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Appointment(nil), f.appts...)
}

type fakeSender struct {
	sent []string
	err  error
}

func (f *fakeSender) Send(_ context.Context, phone string, _ string) error {
	f.sent = append(f.sent, phone)
	return f.err
}

func TestTickNotifiesEachAppointmentOnce(t *testing.T) {
	source := &fakeSource{appts: []domain.Appointment{appt("a1", "2024-03-20", "14:20", domain.StatusScheduled)}}
	sender := &fakeSender{}
	notices := syncer.NewNoticeFeed(10)
	clock := now
	s := NewScheduler(source, notices, sender, Options{Now: func() time.Time { return clock }})

	if got := s.Tick(context.Background()); len(got) != 1 {
		t.Fatalf("expected one fresh reminder, got %d", len(got))
	}
	if got := s.Tick(context.Background()); len(got) != 0 {
		t.Fatalf("expected no repeat, got %d", len(got))
	}
	if len(sender.sent) != 1 {
		t.Fatalf("expected one message, got %d", len(sender.sent))
	}
	if len(notices.Since(0)) != 1 {
		t.Fatalf("expected one notice, got %+v", notices.Since(0))
	}

	clock = now.Add(time.Hour)
	if got := s.Tick(context.Background()); got != nil {
		t.Fatalf("expected nothing upcoming, got %+v", got)
	}
	clock = now
	if got := s.Tick(context.Background()); len(got) != 1 {
		t.Fatalf("expected a fresh reminder after the window cleared, got %d", len(got))
	}
}

func TestTickReportsSendFailure(t *testing.T) {
	source := &fakeSource{appts: []domain.Appointment{appt("a1", "2024-03-20", "14:20", domain.StatusScheduled)}}
	notices := syncer.NewNoticeFeed(10)
	s := NewScheduler(source, notices, &fakeSender{err: errors.New("twilio down")}, Options{Now: func() time.Time { return now }})

	s.Tick(context.Background())
	var errorsSeen int
	for _, n := range notices.Since(0) {
		if n.Level == syncer.LevelError {
			errorsSeen++
		}
	}
	if errorsSeen != 1 {
		t.Fatalf("expected one error notice, got %+v", notices.Since(0))
	}
}

func TestSchedulerRejectsBadSchedule(t *testing.T) {
	s := NewScheduler(&fakeSource{}, syncer.NewNoticeFeed(1), nil, Options{Schedule: "not a schedule"})
	if err := s.Start(); err == nil {
		t.Fatalf("expected schedule parse error")
	}

	ok := NewScheduler(&fakeSource{}, syncer.NewNoticeFeed(1), nil, Options{})
	if err := ok.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	ok.Stop()
}

type recordingAPI struct {
	params *twilioApi.CreateMessageParams
}

func (r *recordingAPI) CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error) {
	r.params = params
	sid := "SM123"
	return &twilioApi.ApiV2010Message{Sid: &sid}, nil
}

func TestTwilioSenderRouting(t *testing.T) {
	api := &recordingAPI{}
	sender := &TwilioSender{api: api, from: "+15550000000", whatsapp: "+15551111111"}

	if err := sender.Send(context.Background(), "+5511999990000", "hi"); err != nil {
		t.Fatalf("send: %v", err)
	}
	if *api.params.To != "whatsapp:+5511999990000" || *api.params.From != "whatsapp:+15551111111" {
		t.Fatalf("expected whatsapp routing, got to=%s from=%s", *api.params.To, *api.params.From)
	}

	if err := sender.Send(context.Background(), "11999990000", "hi"); err != nil {
		t.Fatalf("send: %v", err)
	}
	if *api.params.To != "11999990000" || *api.params.From != "+15550000000" {
		t.Fatalf("expected sms routing, got to=%s from=%s", *api.params.To, *api.params.From)
	}

	if (TwilioConfig{AccountSID: "AC1", AuthToken: "t"}).Enabled() {
		t.Fatalf("config without a sender number must be disabled")
	}
}
