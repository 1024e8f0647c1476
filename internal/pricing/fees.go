package pricing

import (
	"github.com/shopspring/decimal"

	"barbercash/backend/internal/domain"
)

var hundred = decimal.NewFromInt(100)

// NetAmount returns the amount recorded for a sale of grossCents after the
// card fee for method is deducted. Only INCOME paid by debit or credit card
// is adjusted; everything else passes through unchanged.
func NetAmount(grossCents int64, kind domain.TransactionKind, method domain.PaymentMethod, fees domain.CardFeeSchedule) int64 {
	if kind != domain.KindIncome || !method.IsCard() {
		return grossCents
	}
	pct := fees.PercentFor(method)
	if pct <= 0 {
		return grossCents
	}

	keep := decimal.NewFromInt(1).Sub(decimal.NewFromFloat(pct).Div(hundred))
	return decimal.NewFromInt(grossCents).Mul(keep).Round(0).IntPart()
}

// FeeCents is the part of grossCents withheld by NetAmount.
func FeeCents(grossCents int64, kind domain.TransactionKind, method domain.PaymentMethod, fees domain.CardFeeSchedule) int64 {
	return grossCents - NetAmount(grossCents, kind, method, fees)
}
