package service

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"barbercash/backend/internal/domain"
	"barbercash/backend/internal/store"
	"barbercash/backend/internal/xid"
)

func (s *Service) ListAppointments() []domain.Appointment {
	return s.ledger.Appointments.All()
}

// Agenda returns the appointments of one day ordered by time.
func (s *Service) Agenda(date string) []domain.Appointment {
	var day []domain.Appointment
	for _, appt := range s.ledger.Appointments.All() {
		if appt.Date == date {
			day = append(day, appt)
		}
	}
	slices.SortStableFunc(day, func(a, b domain.Appointment) int {
		return strings.Compare(a.Time, b.Time)
	})
	return day
}

// SaveAppointment books a new appointment when id is empty and edits the
// details of an existing one otherwise. A missing price is taken from the
// service catalog.
func (s *Service) SaveAppointment(ctx context.Context, id string, req domain.AppointmentRequest) (domain.AppointmentResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	appt := domain.Appointment{
		ID:          id,
		ClientName:  domain.NormalizeName(req.ClientName),
		ServiceName: domain.NormalizeName(req.ServiceName),
		PriceCents:  req.PriceCents,
		Date:        strings.TrimSpace(req.Date),
		Time:        strings.TrimSpace(req.Time),
		Status:      domain.StatusScheduled,
		Phone:       strings.TrimSpace(req.Phone),
		Notes:       strings.TrimSpace(req.Notes),
	}
	if id != "" {
		existing, ok := s.ledger.Appointments.Get(id)
		if !ok {
			return domain.AppointmentResponse{}, store.ErrNotFound
		}
		appt.Status = existing.Status
		appt.TransactionID = existing.TransactionID
	} else {
		appt.ID = xid.New("apt")
	}

	if appt.PriceCents == 0 {
		if entry, ok := s.ledger.Catalog.Get(appt.ServiceName); ok {
			appt.PriceCents = entry.PriceCents
		}
	}
	if err := appt.Validate(); err != nil {
		return domain.AppointmentResponse{}, err
	}
	if appt.PriceCents <= 0 {
		return domain.AppointmentResponse{}, &domain.ValidationError{Field: "price", Reason: "is required for services outside the catalog"}
	}

	s.ledger.Appointments.Upsert(ctx, appt)
	s.logAudit(ctx, "appointment_save", "appointment", appt.ID, fmt.Sprintf("date=%s time=%s", appt.Date, appt.Time))
	return domain.AppointmentResponse{Appointment: appt, Status: s.done("appointment saved")}, nil
}

func (s *Service) CancelAppointment(ctx context.Context, id string) (domain.AppointmentResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	appt, ok := s.ledger.Appointments.Get(id)
	if !ok {
		return domain.AppointmentResponse{}, store.ErrNotFound
	}
	switch appt.Status {
	case domain.StatusCompleted:
		return domain.AppointmentResponse{}, ErrAppointmentCompleted
	case domain.StatusCancelled:
		return domain.AppointmentResponse{Appointment: appt, Status: "appointment already cancelled"}, nil
	}

	appt.Status = domain.StatusCancelled
	s.ledger.Appointments.Upsert(ctx, appt)
	s.logAudit(ctx, "appointment_cancel", "appointment", appt.ID, "")
	return domain.AppointmentResponse{Appointment: appt, Status: s.done("appointment cancelled")}, nil
}

func (s *Service) DeleteAppointment(ctx context.Context, id string) (domain.StatusResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.ledger.Appointments.Delete(ctx, id) {
		return domain.StatusResponse{}, store.ErrNotFound
	}
	s.logAudit(ctx, "appointment_delete", "appointment", id, "")
	return domain.StatusResponse{Status: s.done("appointment deleted")}, nil
}

// CompleteAppointment marks the appointment completed and posts its price as
// cash income. Completing twice never posts a second entry.
func (s *Service) CompleteAppointment(ctx context.Context, id string) (domain.CompletionResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	appt, ok := s.ledger.Appointments.Get(id)
	if !ok {
		return domain.CompletionResponse{}, store.ErrNotFound
	}
	if appt.Status == domain.StatusCancelled {
		return domain.CompletionResponse{}, ErrAppointmentCancelled
	}

	source := domain.AppointmentSource(appt.ID)
	posted, hasPosted := s.ledger.Transactions.Find(func(tx domain.Transaction) bool {
		return tx.Source == source
	})
	if appt.Status == domain.StatusCompleted || hasPosted {
		resp := domain.CompletionResponse{AlreadyCompleted: true, Status: "appointment already completed"}
		if hasPosted {
			resp.Transaction = &posted
			if appt.Status != domain.StatusCompleted || appt.TransactionID != posted.ID {
				appt.Status = domain.StatusCompleted
				appt.TransactionID = posted.ID
				s.ledger.Appointments.Upsert(ctx, appt)
			}
		}
		resp.Appointment = appt
		return resp, nil
	}

	tx := domain.Transaction{
		ID:            xid.New("tx"),
		Description:   appt.ServiceName,
		AmountCents:   appt.PriceCents,
		Kind:          domain.KindIncome,
		Category:      domain.CategoryForService(appt.ServiceName),
		Date:          appt.Date,
		PaymentMethod: domain.PaymentCash,
		Source:        source,
		CreatedAt:     s.now().UTC(),
	}
	if err := tx.Validate(); err != nil {
		return domain.CompletionResponse{}, err
	}

	appt.Status = domain.StatusCompleted
	appt.TransactionID = tx.ID
	s.ledger.Appointments.Upsert(ctx, appt)
	s.ledger.Transactions.Upsert(ctx, tx)
	s.logAudit(ctx, "appointment_complete", "appointment", appt.ID, "tx="+tx.ID)
	return domain.CompletionResponse{Appointment: appt, Transaction: &tx, Status: s.done("appointment completed")}, nil
}
