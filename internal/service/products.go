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

func (s *Service) ListProducts() []domain.Product {
	return s.ledger.Products.All()
}

// SaveProduct creates a product when id is empty and replaces it otherwise.
// A given price wins over a given margin; the other one is derived.
func (s *Service) SaveProduct(ctx context.Context, id string, req domain.ProductRequest) (domain.ProductResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name := domain.NormalizeName(req.Name)
	if id != "" {
		if _, ok := s.ledger.Products.Get(id); !ok {
			return domain.ProductResponse{}, store.ErrNotFound
		}
	}
	if _, taken := s.ledger.Products.Find(func(p domain.Product) bool {
		return p.ID != id && strings.EqualFold(p.Name, name)
	}); taken {
		return domain.ProductResponse{}, fmt.Errorf("product %q: %w", name, store.ErrConflict)
	}

	quote := pricing.Quote{CostCents: req.CostCents, MarginPercent: req.MarginPercent}
	edited := pricing.FieldMargin
	if req.PriceCents != nil {
		quote.PriceCents = *req.PriceCents
		edited = pricing.FieldPrice
	}
	quote = pricing.Triangulate(quote, edited)

	product := domain.Product{
		ID:            id,
		Name:          name,
		CostCents:     quote.CostCents,
		PriceCents:    quote.PriceCents,
		MarginPercent: quote.MarginPercent,
		Stock:         req.Stock,
		Category:      domain.CategoryProducts,
	}
	if product.ID == "" {
		product.ID = xid.New("prd")
	}
	if err := product.Validate(); err != nil {
		return domain.ProductResponse{}, err
	}

	s.ledger.Products.Upsert(ctx, product)
	s.logAudit(ctx, "product_save", "product", product.ID, fmt.Sprintf("price=%d stock=%d", product.PriceCents, product.Stock))
	return domain.ProductResponse{Product: product, Status: s.done("product saved")}, nil
}

func (s *Service) DeleteProduct(ctx context.Context, id string) (domain.StatusResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.ledger.Products.Delete(ctx, id) {
		return domain.StatusResponse{}, store.ErrNotFound
	}
	s.logAudit(ctx, "product_delete", "product", id, "")
	return domain.StatusResponse{Status: s.done("product deleted")}, nil
}

// SellProduct decrements stock by one and posts the sale as income. Nothing
// changes when the product is out of stock.
func (s *Service) SellProduct(ctx context.Context, productID string, req domain.SaleRequest) (domain.SaleResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	product, ok := s.ledger.Products.Get(productID)
	if !ok {
		return domain.SaleResponse{}, store.ErrNotFound
	}

	method := normalizeMethod(req.PaymentMethod, domain.PaymentPix)
	date := strings.TrimSpace(req.Date)
	if date == "" {
		date = s.today()
	}

	tx := domain.Transaction{
		ID:            xid.New("tx"),
		Description:   product.Name,
		AmountCents:   product.PriceCents,
		Kind:          domain.KindIncome,
		Category:      domain.CategoryProducts,
		Date:          date,
		PaymentMethod: method,
		Source:        domain.ProductSource(product.ID),
		CreatedAt:     s.now().UTC(),
	}
	if err := tx.Validate(); err != nil {
		return domain.SaleResponse{}, err
	}
	if product.Stock <= 0 {
		return domain.SaleResponse{}, fmt.Errorf("%w: %s", store.ErrStockExhausted, product.Name)
	}
	tx.AmountCents = pricing.NetAmount(tx.AmountCents, tx.Kind, tx.PaymentMethod, s.ledger.Fees())
	if err := tx.Validate(); err != nil {
		return domain.SaleResponse{}, err
	}

	product.Stock--
	s.ledger.Products.Upsert(ctx, product)
	s.ledger.Transactions.Upsert(ctx, tx)
	s.logAudit(ctx, "product_sale", "product", product.ID, fmt.Sprintf("tx=%s stock=%d", tx.ID, product.Stock))
	return domain.SaleResponse{Product: product, Transaction: tx, Status: s.done(product.Name + " sold")}, nil
}
