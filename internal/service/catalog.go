package service

import (
	"context"
	"fmt"

	"barbercash/backend/internal/domain"
	"barbercash/backend/internal/store"
)

func (s *Service) Catalog() []domain.ServiceCatalogEntry {
	return s.ledger.Catalog.All()
}

func (s *Service) UpsertCatalogEntry(ctx context.Context, req domain.CatalogRequest) (domain.CatalogResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := domain.ServiceCatalogEntry{Name: domain.NormalizeName(req.Name), PriceCents: req.PriceCents}
	if err := entry.Validate(); err != nil {
		return domain.CatalogResponse{}, err
	}

	s.ledger.Catalog.Upsert(ctx, entry)
	s.logAudit(ctx, "catalog_upsert", "service", entry.Name, fmt.Sprintf("price=%d", entry.PriceCents))
	return domain.CatalogResponse{Catalog: s.ledger.Catalog.All(), Status: s.done("service saved")}, nil
}

// RenameCatalogEntry moves an entry to a new name, keeping its price unless a
// new one is given.
func (s *Service) RenameCatalogEntry(ctx context.Context, name string, req domain.CatalogRenameRequest) (domain.CatalogResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.ledger.Catalog.Get(domain.NormalizeName(name))
	if !ok {
		return domain.CatalogResponse{}, store.ErrNotFound
	}
	next := domain.ServiceCatalogEntry{Name: domain.NormalizeName(req.NewName), PriceCents: current.PriceCents}
	if req.PriceCents != 0 {
		next.PriceCents = req.PriceCents
	}
	if err := next.Validate(); err != nil {
		return domain.CatalogResponse{}, err
	}
	if next.Name != current.Name {
		if _, taken := s.ledger.Catalog.Get(next.Name); taken {
			return domain.CatalogResponse{}, fmt.Errorf("service %q: %w", next.Name, store.ErrConflict)
		}
		s.ledger.Catalog.Delete(ctx, current.Name)
	}

	s.ledger.Catalog.Upsert(ctx, next)
	s.logAudit(ctx, "catalog_rename", "service", next.Name, "from="+current.Name)
	return domain.CatalogResponse{Catalog: s.ledger.Catalog.All(), Status: s.done("service renamed")}, nil
}

func (s *Service) DeleteCatalogEntry(ctx context.Context, name string) (domain.CatalogResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name = domain.NormalizeName(name)
	if !s.ledger.Catalog.Delete(ctx, name) {
		return domain.CatalogResponse{}, store.ErrNotFound
	}
	s.logAudit(ctx, "catalog_delete", "service", name, "")
	return domain.CatalogResponse{Catalog: s.ledger.Catalog.All(), Status: s.done("service removed")}, nil
}

func (s *Service) CardFees() domain.CardFeeSchedule {
	return s.ledger.Fees()
}

// SetCardFees replaces the fee schedule. Entries already posted keep the
// net amount computed when they were recorded.
func (s *Service) SetCardFees(ctx context.Context, fees domain.CardFeeSchedule) (domain.CardFeeResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := fees.Validate(); err != nil {
		return domain.CardFeeResponse{}, err
	}
	s.ledger.CardFees.Upsert(ctx, fees)
	s.logAudit(ctx, "card_fees_update", "card_fees", domain.CardFeeScheduleID, fmt.Sprintf("debit=%.2f credit=%.2f", fees.DebitPercent, fees.CreditPercent))
	return domain.CardFeeResponse{Fees: fees, Status: s.done("card fees saved")}, nil
}
