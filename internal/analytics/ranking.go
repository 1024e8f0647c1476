package analytics

import (
	"sort"

	"barbercash/backend/internal/domain"
)

const DefaultTopN = 3

type RankedItem struct {
	Name       string `json:"name"`
	Count      int    `json:"count"`
	TotalCents int64  `json:"total_cents"`
}

type TopItems struct {
	Services []RankedItem `json:"services"`
	Products []RankedItem `json:"products"`
}

// Top ranks the month's INCOME descriptions by occurrence, products
// (category PRODUCTS) apart from everything else. Equal counts keep the
// order in which the description was first seen.
func Top(txs []domain.Transaction, period Period, n int) TopItems {
	if n <= 0 {
		n = DefaultTopN
	}
	services := newTally()
	products := newTally()
	for _, tx := range txs {
		if tx.Kind != domain.KindIncome || !period.Contains(tx.Date) {
			continue
		}
		if domain.NormalizeName(tx.Category) == domain.CategoryProducts {
			products.add(tx)
		} else {
			services.add(tx)
		}
	}
	return TopItems{
		Services: services.top(n),
		Products: products.top(n),
	}
}

type tally struct {
	order []string
	items map[string]*RankedItem
}

func newTally() *tally {
	return &tally{items: make(map[string]*RankedItem)}
}

func (t *tally) add(tx domain.Transaction) {
	key := domain.NormalizeName(tx.Description)
	item, ok := t.items[key]
	if !ok {
		item = &RankedItem{Name: key}
		t.items[key] = item
		t.order = append(t.order, key)
	}
	item.Count++
	item.TotalCents += tx.AmountCents
}

func (t *tally) top(n int) []RankedItem {
	ranked := make([]RankedItem, 0, len(t.order))
	for _, key := range t.order {
		ranked = append(ranked, *t.items[key])
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

type MethodTotal struct {
	Method     domain.PaymentMethod `json:"method"`
	Count      int                  `json:"count"`
	TotalCents int64                `json:"total_cents"`
}

var methodOrder = []domain.PaymentMethod{
	domain.PaymentCash,
	domain.PaymentPix,
	domain.PaymentDebitCard,
	domain.PaymentCreditCard,
	domain.PaymentOther,
}

// ByPaymentMethod splits the month's INCOME by payment method. Methods with
// no income are omitted.
func ByPaymentMethod(txs []domain.Transaction, period Period) []MethodTotal {
	totals := make(map[domain.PaymentMethod]*MethodTotal)
	for _, tx := range txs {
		if tx.Kind != domain.KindIncome || !period.Contains(tx.Date) {
			continue
		}
		entry, ok := totals[tx.PaymentMethod]
		if !ok {
			entry = &MethodTotal{Method: tx.PaymentMethod}
			totals[tx.PaymentMethod] = entry
		}
		entry.Count++
		entry.TotalCents += tx.AmountCents
	}

	out := make([]MethodTotal, 0, len(totals))
	for _, method := range methodOrder {
		if entry, ok := totals[method]; ok {
			out = append(out, *entry)
		}
	}
	return out
}

type CategoryTotal struct {
	Category   string `json:"category"`
	Count      int    `json:"count"`
	TotalCents int64  `json:"total_cents"`
}

// ByCategory sums the month's transactions of one kind per category, largest
// first.
func ByCategory(txs []domain.Transaction, period Period, kind domain.TransactionKind) []CategoryTotal {
	order := make([]string, 0)
	totals := make(map[string]*CategoryTotal)
	for _, tx := range txs {
		if tx.Kind != kind || !period.Contains(tx.Date) {
			continue
		}
		key := domain.NormalizeName(tx.Category)
		entry, ok := totals[key]
		if !ok {
			entry = &CategoryTotal{Category: key}
			totals[key] = entry
			order = append(order, key)
		}
		entry.Count++
		entry.TotalCents += tx.AmountCents
	}

	out := make([]CategoryTotal, 0, len(order))
	for _, key := range order {
		out = append(out, *totals[key])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TotalCents > out[j].TotalCents
	})
	return out
}
