package core

import (
	"time"

	"github.com/shopspring/decimal"

	"invoicing-app/internal/rdbms"
)

// DefaultCurrency is the three-letter code used when a caller supplies none.
const DefaultCurrency = "KES"

// InvoiceStatus is the derived lifecycle state of an invoice. Status is
// never written directly from outside: it is recomputed from balances and
// the explicit sent/void markers.
type InvoiceStatus string

const (
	StatusDraft   InvoiceStatus = "draft"
	StatusSent    InvoiceStatus = "sent"
	StatusPaid    InvoiceStatus = "paid"
	StatusPartial InvoiceStatus = "partial"
	StatusOverdue InvoiceStatus = "overdue"
	StatusVoid    InvoiceStatus = "void"
)

// ValidStatus reports whether s is one of the known lifecycle states.
func ValidStatus(s InvoiceStatus) bool {
	switch s {
	case StatusDraft, StatusSent, StatusPaid, StatusPartial, StatusOverdue, StatusVoid:
		return true
	}
	return false
}

// User is a login principal. It owns customers, invoices (transitively),
// and sessions.
type User struct {
	ID           int
	Username     string
	Email        string
	PasswordHash string
	FullName     string
	CompanyName  string
	CreatedAt    time.Time
	LastLogin    time.Time // zero if the user has never logged in
	IsActive     bool
}

// Identity is the resolved owner of a session, attached to each request.
type Identity struct {
	UserID      int
	Username    string
	Email       string
	FullName    string
	CompanyName string
}

// Customer belongs to exactly one user and is never a login principal.
type Customer struct {
	ID        int
	UserID    int
	Name      string
	Email     string
	Phone     string
	Address   string
	City      string
	Country   string
	TaxID     string
	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Invoice carries a redundant UserID copy of the owning customer's user so
// authorization checks need no join. The service stamps it; callers cannot.
type Invoice struct {
	ID            int
	CustomerID    int
	UserID        int
	InvoiceNumber string
	IssueDate     time.Time
	DueDate       time.Time
	Subtotal      decimal.Decimal
	TaxAmount     decimal.Decimal
	TotalAmount   decimal.Decimal
	AmountPaid    decimal.Decimal
	BalanceDue    decimal.Decimal
	Status        InvoiceStatus
	Currency      string
	Notes         string
	Terms         string
	Version       int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// InvoiceItem's Amount, TaxAmount and TotalAmount are derived from
// Quantity, UnitPrice and TaxRate; the ledger keeps them in sync.
type InvoiceItem struct {
	ID          int
	InvoiceID   int
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	TaxRate     decimal.Decimal // percentage
	Amount      decimal.Decimal
	TaxAmount   decimal.Decimal
	TotalAmount decimal.Decimal
}

// Payment records money received against an invoice.
type Payment struct {
	ID              int
	InvoiceID       int
	Amount          decimal.Decimal
	PaymentMethod   string
	ReferenceNumber string
	PaymentDate     time.Time
	Notes           string
}

func userFromRow(r rdbms.Row) *User {
	return &User{
		ID:           r.Int("id"),
		Username:     r.String("username"),
		Email:        r.String("email"),
		PasswordHash: r.String("password_hash"),
		FullName:     r.String("full_name"),
		CompanyName:  r.String("company_name"),
		CreatedAt:    r.Time("created_at"),
		LastLogin:    r.Time("last_login"),
		IsActive:     r.Bool("is_active"),
	}
}

func customerFromRow(r rdbms.Row) *Customer {
	return &Customer{
		ID:        r.Int("id"),
		UserID:    r.Int("user_id"),
		Name:      r.String("name"),
		Email:     r.String("email"),
		Phone:     r.String("phone"),
		Address:   r.String("address"),
		City:      r.String("city"),
		Country:   r.String("country"),
		TaxID:     r.String("tax_id"),
		Notes:     r.String("notes"),
		CreatedAt: r.Time("created_at"),
		UpdatedAt: r.Time("updated_at"),
	}
}

func invoiceFromRow(r rdbms.Row) *Invoice {
	return &Invoice{
		ID:            r.Int("id"),
		CustomerID:    r.Int("customer_id"),
		UserID:        r.Int("user_id"),
		InvoiceNumber: r.String("invoice_number"),
		IssueDate:     r.Time("issue_date"),
		DueDate:       r.Time("due_date"),
		Subtotal:      r.Decimal("subtotal"),
		TaxAmount:     r.Decimal("tax_amount"),
		TotalAmount:   r.Decimal("total_amount"),
		AmountPaid:    r.Decimal("amount_paid"),
		BalanceDue:    r.Decimal("balance_due"),
		Status:        InvoiceStatus(r.String("status")),
		Currency:      r.String("currency"),
		Notes:         r.String("notes"),
		Terms:         r.String("terms"),
		Version:       r.Int("version"),
		CreatedAt:     r.Time("created_at"),
		UpdatedAt:     r.Time("updated_at"),
	}
}

func itemFromRow(r rdbms.Row) InvoiceItem {
	return InvoiceItem{
		ID:          r.Int("id"),
		InvoiceID:   r.Int("invoice_id"),
		Description: r.String("description"),
		Quantity:    r.Decimal("quantity"),
		UnitPrice:   r.Decimal("unit_price"),
		TaxRate:     r.Decimal("tax_rate"),
		Amount:      r.Decimal("amount"),
		TaxAmount:   r.Decimal("tax_amount"),
		TotalAmount: r.Decimal("total_amount"),
	}
}

func paymentFromRow(r rdbms.Row) Payment {
	return Payment{
		ID:              r.Int("id"),
		InvoiceID:       r.Int("invoice_id"),
		Amount:          r.Decimal("amount"),
		PaymentMethod:   r.String("payment_method"),
		ReferenceNumber: r.String("reference_number"),
		PaymentDate:     r.Time("payment_date"),
		Notes:           r.String("notes"),
	}
}
