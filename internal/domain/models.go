package domain

import (
	"strings"
	"time"
)

const (
	RoleAdmin = "ADMIN"
	RoleStaff = "STAFF"
)

type TransactionKind string

const (
	KindIncome  TransactionKind = "INCOME"
	KindExpense TransactionKind = "EXPENSE"
)

type PaymentMethod string

const (
	PaymentCash       PaymentMethod = "CASH"
	PaymentPix        PaymentMethod = "PIX"
	PaymentDebitCard  PaymentMethod = "DEBIT_CARD"
	PaymentCreditCard PaymentMethod = "CREDIT_CARD"
	PaymentOther      PaymentMethod = "OTHER"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentPix, PaymentDebitCard, PaymentCreditCard, PaymentOther:
		return true
	}
	return false
}

func (m PaymentMethod) IsCard() bool {
	return m == PaymentDebitCard || m == PaymentCreditCard
}

type AppointmentStatus string

const (
	StatusScheduled AppointmentStatus = "SCHEDULED"
	StatusCompleted AppointmentStatus = "COMPLETED"
	StatusCancelled AppointmentStatus = "CANCELLED"
)

const (
	CategoryProducts = "PRODUCTS"
	CategoryHaircut  = "CORTE DE CABELO"
	CategoryBeard    = "BARBA"
	CategoryCombo    = "COMBO"
)

// CategoryForService maps a catalog service name onto the ledger category
// used for its income.
func CategoryForService(serviceName string) string {
	name := NormalizeName(serviceName)
	switch {
	case strings.Contains(name, CategoryCombo):
		return CategoryCombo
	case strings.Contains(name, CategoryBeard):
		return CategoryBeard
	default:
		return CategoryHaircut
	}
}

type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"password_hash,omitempty"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`

	// LegacyPassword holds a plaintext secret read from records written by
	// older clients. It is hashed and cleared on load.
	LegacyPassword string `json:"password,omitempty"`
}

type UserProfile struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func (u User) Profile() UserProfile {
	return UserProfile{
		ID:        u.ID,
		Name:      u.Name,
		Username:  u.Username,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

type Transaction struct {
	ID            string          `json:"id"`
	Description   string          `json:"description"`
	AmountCents   int64           `json:"amount_cents"`
	Kind          TransactionKind `json:"kind"`
	Category      string          `json:"category"`
	Date          string          `json:"date"`
	PaymentMethod PaymentMethod   `json:"payment_method"`
	Source        string          `json:"source,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

type Product struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	CostCents     int64    `json:"cost_cents"`
	PriceCents    int64    `json:"price_cents"`
	MarginPercent *float64 `json:"margin_percent,omitempty"`
	Stock         int      `json:"stock"`
	Category      string   `json:"category"`
}

type ServiceCatalogEntry struct {
	Name       string `json:"name"`
	PriceCents int64  `json:"price_cents"`
}

// CardFeeScheduleID is the document id of the singleton fee schedule.
const CardFeeScheduleID = "default"

type CardFeeSchedule struct {
	DebitPercent  float64 `json:"debit_percent"`
	CreditPercent float64 `json:"credit_percent"`
}

func (f CardFeeSchedule) PercentFor(method PaymentMethod) float64 {
	switch method {
	case PaymentDebitCard:
		return f.DebitPercent
	case PaymentCreditCard:
		return f.CreditPercent
	}
	return 0
}

type Appointment struct {
	ID            string            `json:"id"`
	ClientName    string            `json:"client_name"`
	ServiceName   string            `json:"service_name"`
	PriceCents    int64             `json:"price_cents"`
	Date          string            `json:"date"`
	Time          string            `json:"time"`
	Status        AppointmentStatus `json:"status"`
	Phone         string            `json:"phone,omitempty"`
	Notes         string            `json:"notes,omitempty"`
	TransactionID string            `json:"transaction_id,omitempty"`
}

// AppointmentSource is the Transaction.Source marker for income posted by
// completing the given appointment.
func AppointmentSource(appointmentID string) string {
	return "appointment:" + appointmentID
}

func ProductSource(productID string) string {
	return "product:" + productID
}

func NormalizeName(value string) string {
	return strings.ToUpper(strings.TrimSpace(value))
}

type Actor struct {
	UserID   string
	Username string
	Role     string
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string      `json:"access_token"`
	Role        string      `json:"role"`
	ExpiresAt   string      `json:"expires_at"`
	User        UserProfile `json:"user"`
}

type UserCreateRequest struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type PasswordChangeRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
	Confirmation    string `json:"confirmation"`
}

type TransactionRequest struct {
	Description   string          `json:"description"`
	AmountCents   int64           `json:"amount_cents"`
	Kind          TransactionKind `json:"kind"`
	Category      string          `json:"category"`
	Date          string          `json:"date"`
	PaymentMethod PaymentMethod   `json:"payment_method"`
}

type QuickSaleRequest struct {
	ServiceName   string        `json:"service_name"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	Date          string        `json:"date,omitempty"`
}

type ProductRequest struct {
	Name          string   `json:"name"`
	CostCents     int64    `json:"cost_cents"`
	PriceCents    *int64   `json:"price_cents,omitempty"`
	MarginPercent *float64 `json:"margin_percent,omitempty"`
	Stock         int      `json:"stock"`
}

type SaleRequest struct {
	PaymentMethod PaymentMethod `json:"payment_method,omitempty"`
	Date          string        `json:"date,omitempty"`
}

type CatalogRequest struct {
	Name       string `json:"name"`
	PriceCents int64  `json:"price_cents"`
}

type CatalogRenameRequest struct {
	NewName    string `json:"new_name"`
	PriceCents int64  `json:"price_cents,omitempty"`
}

type AppointmentRequest struct {
	ClientName  string `json:"client_name"`
	ServiceName string `json:"service_name"`
	PriceCents  int64  `json:"price_cents,omitempty"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Phone       string `json:"phone,omitempty"`
	Notes       string `json:"notes,omitempty"`
}

type TransactionResponse struct {
	Transaction Transaction `json:"transaction"`
	Status      string      `json:"status"`
}

type SaleResponse struct {
	Product     Product     `json:"product"`
	Transaction Transaction `json:"transaction"`
	Status      string      `json:"status"`
}

type ProductResponse struct {
	Product Product `json:"product"`
	Status  string  `json:"status"`
}

type AppointmentResponse struct {
	Appointment Appointment `json:"appointment"`
	Status      string      `json:"status"`
}

type CompletionResponse struct {
	Appointment      Appointment  `json:"appointment"`
	Transaction      *Transaction `json:"transaction,omitempty"`
	AlreadyCompleted bool         `json:"already_completed"`
	Status           string       `json:"status"`
}

type CatalogResponse struct {
	Catalog []ServiceCatalogEntry `json:"catalog"`
	Status  string                `json:"status"`
}

type CardFeeResponse struct {
	Fees   CardFeeSchedule `json:"fees"`
	Status string          `json:"status"`
}

type UserResponse struct {
	User   UserProfile `json:"user"`
	Status string      `json:"status"`
}

type StatusResponse struct {
	Status string `json:"status"`
}
