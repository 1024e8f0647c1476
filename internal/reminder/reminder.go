// Package reminder watches the agenda for appointments about to start.
package reminder

import (
	"context"
	"fmt"
	"log"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"barbercash/backend/internal/domain"
	"barbercash/backend/internal/syncer"
)

const (
	DefaultLead     = 30 * time.Minute
	DefaultSchedule = "* * * * *"
)

type Source interface {
	ListAppointments() []domain.Appointment
}

// Sender delivers a reminder text to a client phone number.
type Sender interface {
	Send(ctx context.Context, phone string, body string) error
}

// Upcoming returns today's scheduled appointments starting after now and no
// later than now+lead, compared at minute precision.
func Upcoming(appointments []domain.Appointment, now time.Time, lead time.Duration) []domain.Appointment {
	today := domain.FormatDate(now)
	nowOfDay := time.Duration(now.Hour())*time.Hour + time.Duration(now.Minute())*time.Minute

	var upcoming []domain.Appointment
	for _, appt := range appointments {
		if appt.Date != today || appt.Status != domain.StatusScheduled {
			continue
		}
		start, err := domain.ParseTimeOfDay(appt.Time)
		if err != nil {
			continue
		}
		diff := start - nowOfDay
		if diff > 0 && diff <= lead {
			upcoming = append(upcoming, appt)
		}
	}
	slices.SortStableFunc(upcoming, func(a, b domain.Appointment) int {
		return strings.Compare(a.Time, b.Time)
	})
	return upcoming
}

type Options struct {
	Lead     time.Duration
	Schedule string
	Now      func() time.Time
}

// Scheduler posts one notice per upcoming appointment and texts the client
// when a sender is configured.
type Scheduler struct {
	source  Source
	notices *syncer.NoticeFeed
	sender  Sender
	lead    time.Duration
	spec    string
	now     func() time.Time

	cron *cron.Cron

	mu       sync.Mutex
	notified map[string]struct{}
}

func NewScheduler(source Source, notices *syncer.NoticeFeed, sender Sender, opts Options) *Scheduler {
	if opts.Lead <= 0 {
		opts.Lead = DefaultLead
	}
	if opts.Schedule == "" {
		opts.Schedule = DefaultSchedule
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Scheduler{
		source:   source,
		notices:  notices,
		sender:   sender,
		lead:     opts.Lead,
		spec:     opts.Schedule,
		now:      opts.Now,
		cron:     cron.New(),
		notified: make(map[string]struct{}),
	}
}

func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.spec, func() { s.Tick(context.Background()) }); err != nil {
		return fmt.Errorf("reminder schedule %q: %w", s.spec, err)
	}
	s.cron.Start()
	log.Printf("[reminder] scheduler started schedule=%q lead=%s", s.spec, s.lead)
	return nil
}

// Stop waits for a running tick to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

// Tick checks the agenda once and returns the appointments notified now.
func (s *Scheduler) Tick(ctx context.Context) []domain.Appointment {
	upcoming := Upcoming(s.source.ListAppointments(), s.now(), s.lead)

	s.mu.Lock()
	if len(upcoming) == 0 {
		clear(s.notified)
		s.mu.Unlock()
		return nil
	}
	var fresh []domain.Appointment
	for _, appt := range upcoming {
		if _, seen := s.notified[appt.ID]; seen {
			continue
		}
		s.notified[appt.ID] = struct{}{}
		fresh = append(fresh, appt)
	}
	s.mu.Unlock()

	for _, appt := range fresh {
		s.notices.Infof("upcoming appointment: %s - %s at %s", appt.ClientName, appt.ServiceName, appt.Time)
		if s.sender == nil || strings.TrimSpace(appt.Phone) == "" {
			continue
		}
		body := fmt.Sprintf("Olá %s! Lembrete do seu horário de %s hoje às %s.", appt.ClientName, appt.ServiceName, appt.Time)
		if err := s.sender.Send(ctx, appt.Phone, body); err != nil {
			log.Printf("[reminder] WARN: send to appointment=%s failed: %v", appt.ID, err)
			s.notices.Errorf("could not text %s about the %s appointment", appt.ClientName, appt.Time)
		}
	}
	return fresh
}
