package app

import "github.com/shopspring/decimal"

// RegisterRequest is the input for creating an account.
type RegisterRequest struct {
	Username    string
	Email       string
	Password    string
	FullName    string
	CompanyName string
}

// LoginRequest is the input for opening a session.
type LoginRequest struct {
	Email     string
	Password  string
	IPAddress string
	UserAgent string
}

// CustomerRequest is the input for creating or updating a customer.
type CustomerRequest struct {
	Name    string
	Email   string
	Phone   string
	Address string
	City    string
	Country string
	TaxID   string
	Notes   string
}

// ItemRequest is one requested invoice line.
type ItemRequest struct {
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	TaxRate     decimal.Decimal
}

// CreateInvoiceRequest is the input for creating an invoice. Dates are
// "2006-01-02" strings, matching the wire format.
type CreateInvoiceRequest struct {
	CustomerID int
	IssueDate  string
	DueDate    string
	Currency   string
	Notes      string
	Terms      string
	Items      []ItemRequest
}

// InvoiceListRequest narrows an invoice listing.
type InvoiceListRequest struct {
	Status string
	Search string
	Page   int
}

// PaymentRequest is the input for recording a payment. Date is a
// "2006-01-02" string; empty means today.
type PaymentRequest struct {
	Amount    decimal.Decimal
	Method    string
	Reference string
	Date      string
	Notes     string
}
