package httpapi

import (
	"errors"
	"io"
	"net/http"

	"barbercash/backend/internal/analytics"
	"barbercash/backend/internal/domain"
	"barbercash/backend/internal/pricing"
)

func (a *API) handleTransactions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		query := r.URL.Query()
		report, err := a.service.CashFlow(analytics.CashFlowFilter{
			From:  query.Get("from"),
			To:    query.Get("to"),
			Query: query.Get("q"),
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, report)
	case http.MethodPost:
		var req domain.TransactionRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		resp, err := a.service.RecordTransaction(r.Context(), req)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, resp)
	default:
		writeMethodNotAllowed(w)
	}
}

func (a *API) handleTransactionActions(w http.ResponseWriter, r *http.Request) {
	parts := pathTail(r, "/api/v1/transactions/")
	if len(parts) != 1 {
		writeError(w, http.StatusBadRequest, errors.New("transaction id required"))
		return
	}
	id := parts[0]

	switch r.Method {
	case http.MethodGet:
		tx, err := a.service.GetTransaction(id)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"transaction": tx})
	case http.MethodPatch, http.MethodPut:
		var req domain.TransactionRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		resp, err := a.service.UpdateTransaction(r.Context(), id, req)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	case http.MethodDelete:
		if !requireAdmin(w, r) {
			return
		}
		resp, err := a.service.DeleteTransaction(r.Context(), id)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	default:
		writeMethodNotAllowed(w)
	}
}

func (a *API) handleQuickSale(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w)
		return
	}
	var req domain.QuickSaleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	resp, err := a.service.QuickSale(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (a *API) handleProducts(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, map[string]any{"products": a.service.ListProducts()})
	case http.MethodPost:
		if !requireAdmin(w, r) {
			return
		}
		var req domain.ProductRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		resp, err := a.service.SaveProduct(r.Context(), "", req)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, resp)
	default:
		writeMethodNotAllowed(w)
	}
}

func (a *API) handleProductActions(w http.ResponseWriter, r *http.Request) {
	parts := pathTail(r, "/api/v1/products/")
	if len(parts) == 0 {
		writeError(w, http.StatusBadRequest, errors.New("product id required"))
		return
	}
	id := parts[0]

	if len(parts) == 2 && parts[1] == "sell" {
		if r.Method != http.MethodPost {
			writeMethodNotAllowed(w)
			return
		}
		var req domain.SaleRequest
		if err := decodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		resp, err := a.service.SellProduct(r.Context(), id, req)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
		return
	}
	if len(parts) != 1 {
		writeError(w, http.StatusBadRequest, errors.New("invalid product action path"))
		return
	}

	switch r.Method {
	case http.MethodPatch, http.MethodPut:
		if !requireAdmin(w, r) {
			return
		}
		var req domain.ProductRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		resp, err := a.service.SaveProduct(r.Context(), id, req)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	case http.MethodDelete:
		if !requireAdmin(w, r) {
			return
		}
		resp, err := a.service.DeleteProduct(r.Context(), id)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	default:
		writeMethodNotAllowed(w)
	}
}

type quoteRequest struct {
	pricing.Quote
	Edited pricing.Field `json:"edited"`
}

// handlePricingQuote recomputes the product form triple without saving.
func (a *API) handlePricingQuote(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w)
		return
	}
	var req quoteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	switch req.Edited {
	case pricing.FieldCost, pricing.FieldMargin, pricing.FieldPrice:
	default:
		writeError(w, http.StatusBadRequest, errors.New("edited must be cost, margin or price"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"quote": pricing.Triangulate(req.Quote, req.Edited)})
}

func (a *API) handleCatalog(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, map[string]any{"catalog": a.service.Catalog()})
	case http.MethodPost, http.MethodPut:
		if !requireAdmin(w, r) {
			return
		}
		var req domain.CatalogRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		resp, err := a.service.UpsertCatalogEntry(r.Context(), req)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	default:
		writeMethodNotAllowed(w)
	}
}

func (a *API) handleCatalogActions(w http.ResponseWriter, r *http.Request) {
	parts := pathTail(r, "/api/v1/catalog/")
	if len(parts) != 1 {
		writeError(w, http.StatusBadRequest, errors.New("service name required"))
		return
	}
	name := parts[0]

	switch r.Method {
	case http.MethodPatch:
		var req domain.CatalogRenameRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		resp, err := a.service.RenameCatalogEntry(r.Context(), name, req)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	case http.MethodDelete:
		resp, err := a.service.DeleteCatalogEntry(r.Context(), name)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	default:
		writeMethodNotAllowed(w)
	}
}

func (a *API) handleCardFees(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, map[string]any{"fees": a.service.CardFees()})
	case http.MethodPut:
		if !requireAdmin(w, r) {
			return
		}
		var req domain.CardFeeSchedule
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		resp, err := a.service.SetCardFees(r.Context(), req)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	default:
		writeMethodNotAllowed(w)
	}
}
