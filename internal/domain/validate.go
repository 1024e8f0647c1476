package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

var ErrValidation = errors.New("validation failed")

type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func invalid(field string, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// ParseDate parses a calendar date and returns it at local noon, so month and
// year lookups never slide across a midnight boundary.
func ParseDate(value string) (time.Time, error) {
	day, err := time.ParseInLocation(DateLayout, strings.TrimSpace(value), time.Local)
	if err != nil {
		return time.Time{}, invalid("date", "must be YYYY-MM-DD")
	}
	return NoonOf(day), nil
}

func NoonOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 12, 0, 0, 0, t.Location())
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

func ParseTimeOfDay(value string) (time.Duration, error) {
	parsed, err := time.Parse(TimeLayout, strings.TrimSpace(value))
	if err != nil {
		return 0, invalid("time", "must be HH:MM")
	}
	return time.Duration(parsed.Hour())*time.Hour + time.Duration(parsed.Minute())*time.Minute, nil
}

func (u User) Validate() error {
	if strings.TrimSpace(u.Name) == "" {
		return invalid("name", "is required")
	}
	if strings.TrimSpace(u.Username) == "" {
		return invalid("username", "is required")
	}
	if strings.ContainsAny(u.Username, " \t\r\n") {
		return invalid("username", "must not contain spaces")
	}
	if u.Role != RoleAdmin && u.Role != RoleStaff {
		return invalid("role", "must be ADMIN or STAFF")
	}
	return nil
}

func (t Transaction) Validate() error {
	if strings.TrimSpace(t.Description) == "" {
		return invalid("description", "is required")
	}
	if t.AmountCents <= 0 {
		return invalid("amount", "must be greater than zero")
	}
	if t.Kind != KindIncome && t.Kind != KindExpense {
		return invalid("kind", "must be INCOME or EXPENSE")
	}
	if strings.TrimSpace(t.Category) == "" {
		return invalid("category", "is required")
	}
	if _, err := ParseDate(t.Date); err != nil {
		return err
	}
	if !t.PaymentMethod.Valid() {
		return invalid("payment_method", "is not supported")
	}
	return nil
}

func (p Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return invalid("name", "is required")
	}
	if p.CostCents < 0 {
		return invalid("cost", "must not be negative")
	}
	if p.PriceCents < 0 {
		return invalid("price", "must not be negative")
	}
	if p.Stock < 0 {
		return invalid("stock", "must not be negative")
	}
	return nil
}

func (e ServiceCatalogEntry) Validate() error {
	if strings.TrimSpace(e.Name) == "" {
		return invalid("name", "is required")
	}
	if e.PriceCents <= 0 {
		return invalid("price", "must be greater than zero")
	}
	return nil
}

func (f CardFeeSchedule) Validate() error {
	if f.DebitPercent < 0 || f.DebitPercent >= 100 {
		return invalid("debit_percent", "must be in [0,100)")
	}
	if f.CreditPercent < 0 || f.CreditPercent >= 100 {
		return invalid("credit_percent", "must be in [0,100)")
	}
	return nil
}

func (a Appointment) Validate() error {
	if strings.TrimSpace(a.ClientName) == "" {
		return invalid("client_name", "is required")
	}
	if strings.TrimSpace(a.ServiceName) == "" {
		return invalid("service_name", "is required")
	}
	if a.PriceCents < 0 {
		return invalid("price", "must not be negative")
	}
	if _, err := ParseDate(a.Date); err != nil {
		return err
	}
	if _, err := ParseTimeOfDay(a.Time); err != nil {
		return err
	}
	switch a.Status {
	case StatusScheduled, StatusCompleted, StatusCancelled:
	default:
		return invalid("status", "is not supported")
	}
	return nil
}
