package web

import (
	"invoicing-app/internal/core"
)

// View models rendered to JSON. All money travels as fixed two-decimal
// strings; floats never cross the wire.

const dateLayout = "2006-01-02"

type userView struct {
	ID          int    `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	FullName    string `json:"full_name"`
	CompanyName string `json:"company_name"`
}

type customerView struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	City    string `json:"city"`
	Country string `json:"country"`
	TaxID   string `json:"tax_id"`
	Notes   string `json:"notes"`
}

type invoiceView struct {
	ID            int    `json:"id"`
	CustomerID    int    `json:"customer_id"`
	InvoiceNumber string `json:"invoice_number"`
	IssueDate     string `json:"issue_date"`
	DueDate       string `json:"due_date"`
	Subtotal      string `json:"subtotal"`
	TaxAmount     string `json:"tax_amount"`
	TotalAmount   string `json:"total_amount"`
	AmountPaid    string `json:"amount_paid"`
	BalanceDue    string `json:"balance_due"`
	Status        string `json:"status"`
	Currency      string `json:"currency"`
	Notes         string `json:"notes,omitempty"`
	Terms         string `json:"terms,omitempty"`
}

type invoiceSummaryView struct {
	invoiceView
	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email"`
	ItemCount     int    `json:"item_count"`
}

type itemView struct {
	ID          int    `json:"id"`
	Description string `json:"description"`
	Quantity    string `json:"quantity"`
	UnitPrice   string `json:"unit_price"`
	TaxRate     string `json:"tax_rate"`
	Amount      string `json:"amount"`
	TaxAmount   string `json:"tax_amount"`
	TotalAmount string `json:"total_amount"`
}

type paymentView struct {
	ID              int    `json:"id"`
	InvoiceID       int    `json:"invoice_id"`
	Amount          string `json:"amount"`
	PaymentMethod   string `json:"payment_method"`
	ReferenceNumber string `json:"reference_number"`
	PaymentDate     string `json:"payment_date"`
	Notes           string `json:"notes,omitempty"`
}

type paymentRecordView struct {
	paymentView
	InvoiceNumber string `json:"invoice_number"`
	TotalAmount   string `json:"invoice_total"`
	BalanceDue    string `json:"invoice_balance_due"`
	CustomerName  string `json:"customer_name"`
}

type invoiceDetailView struct {
	Invoice  invoiceView   `json:"invoice"`
	Customer customerView  `json:"customer"`
	Items    []itemView    `json:"items"`
	Payments []paymentView `json:"payments"`
}

type pageView struct {
	Total    int `json:"total"`
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}

type dashboardView struct {
	CustomerCount    int    `json:"customer_count"`
	InvoiceCount     int    `json:"invoice_count"`
	TotalOutstanding string `json:"total_outstanding"`
	TotalPaid        string `json:"total_paid"`
}

func toUserView(u *core.User) userView {
	return userView{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		FullName:    u.FullName,
		CompanyName: u.CompanyName,
	}
}

func identityView(ident *core.Identity) userView {
	return userView{
		ID:          ident.UserID,
		Username:    ident.Username,
		Email:       ident.Email,
		FullName:    ident.FullName,
		CompanyName: ident.CompanyName,
	}
}

func toCustomerView(c *core.Customer) customerView {
	return customerView{
		ID:      c.ID,
		Name:    c.Name,
		Email:   c.Email,
		Phone:   c.Phone,
		Address: c.Address,
		City:    c.City,
		Country: c.Country,
		TaxID:   c.TaxID,
		Notes:   c.Notes,
	}
}

func toInvoiceView(inv *core.Invoice) invoiceView {
	return invoiceView{
		ID:            inv.ID,
		CustomerID:    inv.CustomerID,
		InvoiceNumber: inv.InvoiceNumber,
		IssueDate:     inv.IssueDate.Format(dateLayout),
		DueDate:       inv.DueDate.Format(dateLayout),
		Subtotal:      inv.Subtotal.StringFixed(2),
		TaxAmount:     inv.TaxAmount.StringFixed(2),
		TotalAmount:   inv.TotalAmount.StringFixed(2),
		AmountPaid:    inv.AmountPaid.StringFixed(2),
		BalanceDue:    inv.BalanceDue.StringFixed(2),
		Status:        string(inv.Status),
		Currency:      inv.Currency,
		Notes:         inv.Notes,
		Terms:         inv.Terms,
	}
}

func toItemView(it core.InvoiceItem) itemView {
	return itemView{
		ID:          it.ID,
		Description: it.Description,
		Quantity:    it.Quantity.StringFixed(2),
		UnitPrice:   it.UnitPrice.StringFixed(2),
		TaxRate:     it.TaxRate.StringFixed(2),
		Amount:      it.Amount.StringFixed(2),
		TaxAmount:   it.TaxAmount.StringFixed(2),
		TotalAmount: it.TotalAmount.StringFixed(2),
	}
}

func toPaymentView(p core.Payment) paymentView {
	return paymentView{
		ID:              p.ID,
		InvoiceID:       p.InvoiceID,
		Amount:          p.Amount.StringFixed(2),
		PaymentMethod:   p.PaymentMethod,
		ReferenceNumber: p.ReferenceNumber,
		PaymentDate:     p.PaymentDate.Format(dateLayout),
		Notes:           p.Notes,
	}
}

func toDetailView(d *core.InvoiceDetail) invoiceDetailView {
	view := invoiceDetailView{
		Invoice:  toInvoiceView(&d.Invoice),
		Customer: toCustomerView(&d.Customer),
		Items:    make([]itemView, 0, len(d.Items)),
		Payments: make([]paymentView, 0, len(d.Payments)),
	}
	for _, it := range d.Items {
		view.Items = append(view.Items, toItemView(it))
	}
	for _, p := range d.Payments {
		view.Payments = append(view.Payments, toPaymentView(p))
	}
	return view
}
