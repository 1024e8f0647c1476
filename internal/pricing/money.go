package pricing

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount converts a decimal currency string ("45.90", "45,90") into
// cents, rounding half-up past the second decimal.
func ParseAmount(value string) (int64, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(value), ",", ".")
	if cleaned == "" {
		return 0, fmt.Errorf("amount is required")
	}
	amount, err := decimal.NewFromString(cleaned)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", value)
	}
	return amount.Mul(hundred).Round(0).IntPart(), nil
}

func FormatCents(cents int64) string {
	return decimal.New(cents, -2).StringFixed(2)
}
