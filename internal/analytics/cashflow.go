package analytics

import (
	"sort"
	"strings"

	"barbercash/backend/internal/domain"
)

// CashFlowFilter bounds are inclusive ISO dates; an empty bound is open.
type CashFlowFilter struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Query string `json:"query"`
}

type CashFlowReport struct {
	Filter       CashFlowFilter       `json:"filter"`
	Transactions []domain.Transaction `json:"transactions"`
	IncomeCents  int64                `json:"income_cents"`
	ExpenseCents int64                `json:"expense_cents"`
	NetCents     int64                `json:"net_cents"`
}

// Validate rejects a bound that is not a calendar date.
func (f CashFlowFilter) Validate() error {
	if f.From != "" {
		if _, err := domain.ParseDate(f.From); err != nil {
			return &domain.ValidationError{Field: "from", Reason: "must be YYYY-MM-DD"}
		}
	}
	if f.To != "" {
		if _, err := domain.ParseDate(f.To); err != nil {
			return &domain.ValidationError{Field: "to", Reason: "must be YYYY-MM-DD"}
		}
	}
	return nil
}

// CashFlow filters and totals the ledger. The query is matched as typed,
// case-insensitively.
func CashFlow(txs []domain.Transaction, filter CashFlowFilter) (CashFlowReport, error) {
	filter.From = strings.TrimSpace(filter.From)
	filter.To = strings.TrimSpace(filter.To)
	if err := filter.Validate(); err != nil {
		return CashFlowReport{}, err
	}
	query := strings.ToLower(filter.Query)

	matched := make([]domain.Transaction, 0, len(txs))
	for _, tx := range txs {
		if filter.From != "" && tx.Date < filter.From {
			continue
		}
		if filter.To != "" && tx.Date > filter.To {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(tx.Description), query) {
			continue
		}
		matched = append(matched, tx)
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Date > matched[j].Date
	})

	report := CashFlowReport{Filter: filter, Transactions: matched}
	for _, tx := range matched {
		switch tx.Kind {
		case domain.KindIncome:
			report.IncomeCents += tx.AmountCents
		case domain.KindExpense:
			report.ExpenseCents += tx.AmountCents
		}
	}
	report.NetCents = report.IncomeCents - report.ExpenseCents
	return report, nil
}
