package app

import (
	"context"

	"invoicing-app/internal/core"
)

// Service is the single interface all outer adapters call. It decouples
// presentation from business logic: implementations contain no HTTP types
// and no display logic of any kind.
type Service interface {
	// Register creates a new account.
	Register(ctx context.Context, req RegisterRequest) (*UserResult, error)

	// Login verifies credentials and opens a session, returning its token.
	Login(ctx context.Context, req LoginRequest) (*LoginResult, error)

	// Logout invalidates a session token. Unknown tokens are fine.
	Logout(ctx context.Context, token string) error

	// ResolveSession maps a session token to the identity behind it.
	ResolveSession(ctx context.Context, token string) (*core.Identity, error)

	// CurrentUser returns the account behind an identity.
	CurrentUser(ctx context.Context, userID int) (*UserResult, error)

	// ListCustomers returns one page of the user's customers.
	ListCustomers(ctx context.Context, userID int, search string, page int) (*CustomerListResult, error)

	// GetCustomer returns one customer.
	GetCustomer(ctx context.Context, userID, customerID int) (*CustomerResult, error)

	// CreateCustomer adds a customer owned by the user.
	CreateCustomer(ctx context.Context, userID int, req CustomerRequest) (*CustomerResult, error)

	// UpdateCustomer rewrites a customer's mutable fields.
	UpdateCustomer(ctx context.Context, userID, customerID int, req CustomerRequest) (*CustomerResult, error)

	// DeleteCustomer removes a customer with no invoices.
	DeleteCustomer(ctx context.Context, userID, customerID int) error

	// ListInvoices returns one page of the user's invoices.
	ListInvoices(ctx context.Context, userID int, req InvoiceListRequest) (*InvoiceListResult, error)

	// GetInvoice returns the full detail of one invoice.
	GetInvoice(ctx context.Context, userID, invoiceID int) (*InvoiceDetailResult, error)

	// CreateInvoice creates a draft invoice with its initial items.
	CreateInvoice(ctx context.Context, userID int, req CreateInvoiceRequest) (*InvoiceDetailResult, error)

	// DeleteInvoice removes an invoice with its items and payments.
	DeleteInvoice(ctx context.Context, userID, invoiceID int) error

	// SetInvoiceItems replaces an invoice's item set and recomputes it.
	SetInvoiceItems(ctx context.Context, userID, invoiceID int, items []ItemRequest) (*InvoiceDetailResult, error)

	// SendInvoice transitions a draft to sent.
	SendInvoice(ctx context.Context, userID, invoiceID int) (*InvoiceDetailResult, error)

	// VoidInvoice voids an invoice. Idempotent.
	VoidInvoice(ctx context.Context, userID, invoiceID int) (*InvoiceDetailResult, error)

	// RecordPayment applies a payment to an invoice and recomputes it.
	RecordPayment(ctx context.Context, userID, invoiceID int, req PaymentRequest) (*InvoiceDetailResult, error)

	// ListPayments returns one page of the user's payments across invoices.
	ListPayments(ctx context.Context, userID, page int) (*PaymentListResult, error)

	// Dashboard returns the user's headline figures.
	Dashboard(ctx context.Context, userID int) (*DashboardResult, error)

	// Health reports whether the storage engine is reachable.
	Health(ctx context.Context) error
}
