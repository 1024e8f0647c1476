package pricing

import (
	"math"
	"testing"

	"barbercash/backend/internal/domain"
)

func TestNetAmountDeductsCardFeeHalfUp(t *testing.T) {
	fees := domain.CardFeeSchedule{DebitPercent: 2.5, CreditPercent: 3.5}

	cases := []struct {
		gross  int64
		method domain.PaymentMethod
		want   int64
	}{
		{10000, domain.PaymentDebitCard, 9750},
		{999, domain.PaymentCreditCard, 964},
		{4500, domain.PaymentCreditCard, 4343},
		{4500, domain.PaymentCash, 4500},
		{4500, domain.PaymentPix, 4500},
	}
	for _, tc := range cases {
		got := NetAmount(tc.gross, domain.KindIncome, tc.method, fees)
		if got != tc.want {
			t.Fatalf("gross=%d method=%s: expected %d, got %d", tc.gross, tc.method, tc.want, got)
		}
	}

	if got := NetAmount(1, domain.KindIncome, domain.PaymentDebitCard, domain.CardFeeSchedule{DebitPercent: 50}); got != 1 {
		t.Fatalf("expected half cent to round up to 1, got %d", got)
	}
}

func TestNetAmountWithZeroFeeIsExact(t *testing.T) {
	for _, gross := range []int64{1, 99, 4500, 123456789} {
		got := NetAmount(gross, domain.KindIncome, domain.PaymentDebitCard, domain.CardFeeSchedule{})
		if got != gross {
			t.Fatalf("expected %d unchanged, got %d", gross, got)
		}
	}
}

func TestNetAmountNeverAdjustsExpenses(t *testing.T) {
	fees := domain.CardFeeSchedule{DebitPercent: 5, CreditPercent: 5}
	if got := NetAmount(10000, domain.KindExpense, domain.PaymentCreditCard, fees); got != 10000 {
		t.Fatalf("expected expense untouched, got %d", got)
	}
	if got := FeeCents(10000, domain.KindIncome, domain.PaymentCreditCard, fees); got != 500 {
		t.Fatalf("expected fee 500, got %d", got)
	}
}

func TestMarginRoundTrip(t *testing.T) {
	costs := []int64{100, 1000, 2599, 15000}
	margins := []float64{0, 10, 33.33, 50, 87.5, 150}
	for _, cost := range costs {
		for _, margin := range margins {
			price := PriceFromMargin(cost, margin)
			back, ok := MarginFromPrice(cost, price)
			if !ok {
				t.Fatalf("cost=%d: expected margin to be derivable", cost)
			}
			// price is rounded to the cent, so the recovered margin may drift by
			// half a cent relative to cost plus the two-decimal rounding.
			tolerance := 50/float64(cost) + 0.005
			if math.Abs(back-margin) > tolerance {
				t.Fatalf("cost=%d margin=%.2f: price=%d recovered %.4f", cost, margin, price, back)
			}
		}
	}
}

func TestMarginUndefinedForZeroCost(t *testing.T) {
	if _, ok := MarginFromPrice(0, 4500); ok {
		t.Fatalf("expected margin to be undefined for zero cost")
	}

	margin := 40.0
	q := Triangulate(Quote{CostCents: 0, MarginPercent: &margin, PriceCents: 4500}, FieldPrice)
	if q.MarginPercent != nil {
		t.Fatalf("expected margin unset, got %v", *q.MarginPercent)
	}
	if q.PriceCents != 4500 {
		t.Fatalf("expected price untouched, got %d", q.PriceCents)
	}
}

func TestTriangulate(t *testing.T) {
	margin := 50.0
	q := Triangulate(Quote{CostCents: 2000, MarginPercent: &margin}, FieldMargin)
	if q.PriceCents != 3000 {
		t.Fatalf("expected price 3000, got %d", q.PriceCents)
	}

	q = Triangulate(Quote{CostCents: 2000, MarginPercent: &margin, PriceCents: 2500}, FieldPrice)
	if q.MarginPercent == nil || *q.MarginPercent != 25 {
		t.Fatalf("expected margin 25, got %v", q.MarginPercent)
	}

	q = Triangulate(Quote{CostCents: 4000, MarginPercent: &margin, PriceCents: 2500}, FieldCost)
	if q.PriceCents != 6000 {
		t.Fatalf("expected price recomputed to 6000, got %d", q.PriceCents)
	}
}

func TestParseAndFormatAmount(t *testing.T) {
	cents, err := ParseAmount("45,90")
	if err != nil || cents != 4590 {
		t.Fatalf("expected 4590, got %d (%v)", cents, err)
	}
	cents, err = ParseAmount("0.005")
	if err != nil || cents != 1 {
		t.Fatalf("expected half-up to 1 cent, got %d (%v)", cents, err)
	}
	if _, err := ParseAmount("abc"); err == nil {
		t.Fatalf("expected invalid amount error")
	}
	if got := FormatCents(4590); got != "45.90" {
		t.Fatalf("expected 45.90, got %s", got)
	}
	if got := FormatCents(-5); got != "-0.05" {
		t.Fatalf("expected -0.05, got %s", got)
	}
}
