package web

import (
	"net/http"

	"invoicing-app/internal/app"
)

type customerRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	City    string `json:"city"`
	Country string `json:"country"`
	TaxID   string `json:"tax_id"`
	Notes   string `json:"notes"`
}

func (req customerRequest) toApp() app.CustomerRequest {
	return app.CustomerRequest{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
		City:    req.City,
		Country: req.Country,
		TaxID:   req.TaxID,
		Notes:   req.Notes,
	}
}

func (h *Handler) listCustomers(w http.ResponseWriter, r *http.Request) {
	ident := identityFromContext(r.Context())
	res, err := h.svc.ListCustomers(r.Context(), ident.UserID,
		r.URL.Query().Get("search"), queryInt(r, "page", 1))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	views := make([]customerView, 0, len(res.Customers))
	for i := range res.Customers {
		views = append(views, toCustomerView(&res.Customers[i]))
	}
	writeJSON(w, map[string]any{
		"customers": views,
		"pagination": pageView{
			Total: res.Total, Page: res.Page, PageSize: res.PageSize,
		},
	})
}

func (h *Handler) getCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	ident := identityFromContext(r.Context())

	res, err := h.svc.GetCustomer(r.Context(), ident.UserID, id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, map[string]any{"customer": toCustomerView(res.Customer)})
}

func (h *Handler) createCustomer(w http.ResponseWriter, r *http.Request) {
	var req customerRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	ident := identityFromContext(r.Context())

	res, err := h.svc.CreateCustomer(r.Context(), ident.UserID, req.toApp())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, map[string]any{"customer": toCustomerView(res.Customer)})
}

func (h *Handler) updateCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var req customerRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	ident := identityFromContext(r.Context())

	res, err := h.svc.UpdateCustomer(r.Context(), ident.UserID, id, req.toApp())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, map[string]any{"customer": toCustomerView(res.Customer)})
}

func (h *Handler) deleteCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	ident := identityFromContext(r.Context())

	if err := h.svc.DeleteCustomer(r.Context(), ident.UserID, id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, map[string]string{"status": "deleted"})
}
