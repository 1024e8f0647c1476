package pricing

import (
	"github.com/shopspring/decimal"
)

type Field string

const (
	FieldCost   Field = "cost"
	FieldMargin Field = "margin"
	FieldPrice  Field = "price"
)

// Quote is the cost/margin/price triple edited on the product form.
type Quote struct {
	CostCents     int64    `json:"cost_cents"`
	MarginPercent *float64 `json:"margin_percent,omitempty"`
	PriceCents    int64    `json:"price_cents"`
}

// PriceFromMargin computes cost*(1+margin/100) rounded to the cent.
func PriceFromMargin(costCents int64, marginPercent float64) int64 {
	factor := decimal.NewFromInt(1).Add(decimal.NewFromFloat(marginPercent).Div(hundred))
	price := decimal.NewFromInt(costCents).Mul(factor).Round(0).IntPart()
	if price < 0 {
		return 0
	}
	return price
}

// MarginFromPrice computes (price/cost-1)*100 rounded to two decimals. The
// second result is false when cost is zero and no margin can be derived.
func MarginFromPrice(costCents int64, priceCents int64) (float64, bool) {
	if costCents <= 0 {
		return 0, false
	}
	ratio := decimal.NewFromInt(priceCents).Div(decimal.NewFromInt(costCents))
	margin := ratio.Sub(decimal.NewFromInt(1)).Mul(hundred).Round(2)
	return margin.InexactFloat64(), true
}

// Triangulate recomputes the dependent member of q after the caller edited
// the given field. A zero cost always leaves the margin unset.
func Triangulate(q Quote, edited Field) Quote {
	if q.CostCents <= 0 {
		q.MarginPercent = nil
		return q
	}

	switch edited {
	case FieldPrice:
		q.MarginPercent = marginPtr(q.CostCents, q.PriceCents)
	case FieldMargin, FieldCost:
		if q.MarginPercent != nil {
			q.PriceCents = PriceFromMargin(q.CostCents, *q.MarginPercent)
		} else if q.PriceCents > 0 {
			q.MarginPercent = marginPtr(q.CostCents, q.PriceCents)
		}
	}
	return q
}

func marginPtr(costCents int64, priceCents int64) *float64 {
	margin, ok := MarginFromPrice(costCents, priceCents)
	if !ok {
		return nil
	}
	return &margin
}
