package app

import "invoicing-app/internal/core"

// UserResult is returned by Register and CurrentUser.
type UserResult struct {
	User *core.User
}

// LoginResult is returned by Login.
type LoginResult struct {
	Token string
	User  *core.User
}

// CustomerResult is returned by single-customer operations.
type CustomerResult struct {
	Customer *core.Customer
}

// CustomerListResult is returned by ListCustomers.
type CustomerListResult struct {
	Customers []core.Customer
	Total     int
	Page      int
	PageSize  int
}

// InvoiceListResult is returned by ListInvoices.
type InvoiceListResult struct {
	Invoices []core.InvoiceSummary
	Total    int
	Page     int
	PageSize int
}

// InvoiceDetailResult is returned by invoice lifecycle operations.
type InvoiceDetailResult struct {
	Detail *core.InvoiceDetail
}

// PaymentListResult is returned by ListPayments.
type PaymentListResult struct {
	Payments []core.PaymentRecord
	Total    int
	Page     int
	PageSize int
}

// DashboardResult is returned by Dashboard.
type DashboardResult struct {
	Stats *core.DashboardStats
}
