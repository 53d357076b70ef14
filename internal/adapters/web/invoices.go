package web

import (
	"net/http"

	"github.com/shopspring/decimal"

	"invoicing-app/internal/app"
)

type itemRequest struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
}

type createInvoiceRequest struct {
	CustomerID int           `json:"customer_id"`
	IssueDate  string        `json:"issue_date"`
	DueDate    string        `json:"due_date"`
	Currency   string        `json:"currency"`
	Notes      string        `json:"notes"`
	Terms      string        `json:"terms"`
	Items      []itemRequest `json:"items"`
}

type setItemsRequest struct {
	Items []itemRequest `json:"items"`
}

type paymentRequest struct {
	Amount    decimal.Decimal `json:"amount"`
	Method    string          `json:"payment_method"`
	Reference string          `json:"reference_number"`
	Date      string          `json:"payment_date"`
	Notes     string          `json:"notes"`
}

func toItemRequests(items []itemRequest) []app.ItemRequest {
	out := make([]app.ItemRequest, len(items))
	for i, it := range items {
		out[i] = app.ItemRequest{
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			TaxRate:     it.TaxRate,
		}
	}
	return out
}

func (h *Handler) listInvoices(w http.ResponseWriter, r *http.Request) {
	ident := identityFromContext(r.Context())
	q := r.URL.Query()

	res, err := h.svc.ListInvoices(r.Context(), ident.UserID, app.InvoiceListRequest{
		Status: q.Get("status"),
		Search: q.Get("search"),
		Page:   queryInt(r, "page", 1),
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	views := make([]invoiceSummaryView, 0, len(res.Invoices))
	for i := range res.Invoices {
		sum := &res.Invoices[i]
		views = append(views, invoiceSummaryView{
			invoiceView:   toInvoiceView(&sum.Invoice),
			CustomerName:  sum.CustomerName,
			CustomerEmail: sum.CustomerEmail,
			ItemCount:     sum.ItemCount,
		})
	}
	writeJSON(w, map[string]any{
		"invoices": views,
		"pagination": pageView{
			Total: res.Total, Page: res.Page, PageSize: res.PageSize,
		},
	})
}

func (h *Handler) getInvoice(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	ident := identityFromContext(r.Context())

	res, err := h.svc.GetInvoice(r.Context(), ident.UserID, id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, toDetailView(res.Detail))
}

func (h *Handler) createInvoice(w http.ResponseWriter, r *http.Request) {
	var req createInvoiceRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	ident := identityFromContext(r.Context())

	res, err := h.svc.CreateInvoice(r.Context(), ident.UserID, app.CreateInvoiceRequest{
		CustomerID: req.CustomerID,
		IssueDate:  req.IssueDate,
		DueDate:    req.DueDate,
		Currency:   req.Currency,
		Notes:      req.Notes,
		Terms:      req.Terms,
		Items:      toItemRequests(req.Items),
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, toDetailView(res.Detail))
}

func (h *Handler) deleteInvoice(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	ident := identityFromContext(r.Context())

	if err := h.svc.DeleteInvoice(r.Context(), ident.UserID, id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, map[string]string{"status": "deleted"})
}

func (h *Handler) setInvoiceItems(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var req setItemsRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	ident := identityFromContext(r.Context())

	res, err := h.svc.SetInvoiceItems(r.Context(), ident.UserID, id, toItemRequests(req.Items))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, toDetailView(res.Detail))
}

func (h *Handler) sendInvoice(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	ident := identityFromContext(r.Context())

	res, err := h.svc.SendInvoice(r.Context(), ident.UserID, id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, toDetailView(res.Detail))
}

func (h *Handler) voidInvoice(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	ident := identityFromContext(r.Context())

	res, err := h.svc.VoidInvoice(r.Context(), ident.UserID, id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, toDetailView(res.Detail))
}

func (h *Handler) recordPayment(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var req paymentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	ident := identityFromContext(r.Context())

	res, err := h.svc.RecordPayment(r.Context(), ident.UserID, id, app.PaymentRequest{
		Amount:    req.Amount,
		Method:    req.Method,
		Reference: req.Reference,
		Date:      req.Date,
		Notes:     req.Notes,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, toDetailView(res.Detail))
}

func (h *Handler) listPayments(w http.ResponseWriter, r *http.Request) {
	ident := identityFromContext(r.Context())

	res, err := h.svc.ListPayments(r.Context(), ident.UserID, queryInt(r, "page", 1))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	views := make([]paymentRecordView, 0, len(res.Payments))
	for _, p := range res.Payments {
		views = append(views, paymentRecordView{
			paymentView:   toPaymentView(p.Payment),
			InvoiceNumber: p.InvoiceNumber,
			TotalAmount:   p.TotalAmount.StringFixed(2),
			BalanceDue:    p.BalanceDue.StringFixed(2),
			CustomerName:  p.CustomerName,
		})
	}
	writeJSON(w, map[string]any{
		"payments": views,
		"pagination": pageView{
			Total: res.Total, Page: res.Page, PageSize: res.PageSize,
		},
	})
}

func (h *Handler) dashboardStats(w http.ResponseWriter, r *http.Request) {
	ident := identityFromContext(r.Context())

	res, err := h.svc.Dashboard(r.Context(), ident.UserID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, dashboardView{
		CustomerCount:    res.Stats.CustomerCount,
		InvoiceCount:     res.Stats.InvoiceCount,
		TotalOutstanding: res.Stats.TotalOutstanding.StringFixed(2),
		TotalPaid:        res.Stats.TotalPaid.StringFixed(2),
	})
}
