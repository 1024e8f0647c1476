package service

import (
	"context"
	"fmt"
	"strings"

	"barbercash/backend/internal/domain"
	"barbercash/backend/internal/pricing"
	"barbercash/backend/internal/store"
	"barbercash/backend/internal/xid"
)

func (s *Service) ListTransactions() []domain.Transaction {
	return s.ledger.Transactions.All()
}

func (s *Service) GetTransaction(id string) (domain.Transaction, error) {
	tx, ok := s.ledger.Transactions.Get(id)
	if !ok {
		return domain.Transaction{}, store.ErrNotFound
	}
	return tx, nil
}

// RecordTransaction posts a manual ledger entry. Card income is stored net of
// the configured fee.
func (s *Service) RecordTransaction(ctx context.Context, req domain.TransactionRequest) (domain.TransactionResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := s.transactionFromRequest(req)
	tx.ID = xid.New("tx")
	tx.CreatedAt = s.now().UTC()
	if err := tx.Validate(); err != nil {
		return domain.TransactionResponse{}, err
	}

	tx.AmountCents = pricing.NetAmount(tx.AmountCents, tx.Kind, tx.PaymentMethod, s.ledger.Fees())
	if err := tx.Validate(); err != nil {
		return domain.TransactionResponse{}, err
	}

	s.ledger.Transactions.Upsert(ctx, tx)
	s.logAudit(ctx, "transaction_create", "transaction", tx.ID, fmt.Sprintf("kind=%s amount=%d", tx.Kind, tx.AmountCents))
	return domain.TransactionResponse{Transaction: tx, Status: s.done("transaction saved")}, nil
}

// UpdateTransaction replaces the editable fields of an entry. The amount is
// stored exactly as given; no fee is deducted again.
func (s *Service) UpdateTransaction(ctx context.Context, id string, req domain.TransactionRequest) (domain.TransactionResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.ledger.Transactions.Get(id)
	if !ok {
		return domain.TransactionResponse{}, store.ErrNotFound
	}

	tx := s.transactionFromRequest(req)
	tx.ID = existing.ID
	tx.Source = existing.Source
	tx.CreatedAt = existing.CreatedAt
	if err := tx.Validate(); err != nil {
		return domain.TransactionResponse{}, err
	}

	s.ledger.Transactions.Upsert(ctx, tx)
	s.logAudit(ctx, "transaction_update", "transaction", tx.ID, fmt.Sprintf("amount=%d", tx.AmountCents))
	return domain.TransactionResponse{Transaction: tx, Status: s.done("transaction updated")}, nil
}

func (s *Service) DeleteTransaction(ctx context.Context, id string) (domain.StatusResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.ledger.Transactions.Delete(ctx, id) {
		return domain.StatusResponse{}, store.ErrNotFound
	}
	s.logAudit(ctx, "transaction_delete", "transaction", id, "")
	return domain.StatusResponse{Status: s.done("transaction deleted")}, nil
}

// QuickSale posts a catalog service at its catalog price.
func (s *Service) QuickSale(ctx context.Context, req domain.QuickSaleRequest) (domain.TransactionResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.ledger.Catalog.Get(domain.NormalizeName(req.ServiceName))
	if !ok {
		return domain.TransactionResponse{}, fmt.Errorf("service %q: %w", req.ServiceName, store.ErrNotFound)
	}

	method := normalizeMethod(req.PaymentMethod, domain.PaymentCash)
	date := strings.TrimSpace(req.Date)
	if date == "" {
		date = s.today()
	}

	tx := domain.Transaction{
		ID:            xid.New("tx"),
		Description:   entry.Name,
		AmountCents:   entry.PriceCents,
		Kind:          domain.KindIncome,
		Category:      domain.CategoryForService(entry.Name),
		Date:          date,
		PaymentMethod: method,
		CreatedAt:     s.now().UTC(),
	}
	if err := tx.Validate(); err != nil {
		return domain.TransactionResponse{}, err
	}
	tx.AmountCents = pricing.NetAmount(tx.AmountCents, tx.Kind, tx.PaymentMethod, s.ledger.Fees())
	if err := tx.Validate(); err != nil {
		return domain.TransactionResponse{}, err
	}

	s.ledger.Transactions.Upsert(ctx, tx)
	s.logAudit(ctx, "quick_sale", "transaction", tx.ID, "service="+entry.Name)
	return domain.TransactionResponse{Transaction: tx, Status: s.done(entry.Name + " recorded")}, nil
}

func (s *Service) transactionFromRequest(req domain.TransactionRequest) domain.Transaction {
	date := strings.TrimSpace(req.Date)
	if date == "" {
		date = s.today()
	}
	method := normalizeMethod(req.PaymentMethod, domain.PaymentCash)
	return domain.Transaction{
		Description:   domain.NormalizeName(req.Description),
		AmountCents:   req.AmountCents,
		Kind:          domain.TransactionKind(strings.ToUpper(strings.TrimSpace(string(req.Kind)))),
		Category:      domain.NormalizeName(req.Category),
		Date:          date,
		PaymentMethod: method,
	}
}

func normalizeMethod(method domain.PaymentMethod, fallback domain.PaymentMethod) domain.PaymentMethod {
	method = domain.PaymentMethod(strings.ToUpper(strings.TrimSpace(string(method))))
	if method == "" {
		return fallback
	}
	return method
}
