package web_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invoicing-app/internal/adapters/web"
	"invoicing-app/internal/app"
	"invoicing-app/internal/core"
)

// stubService implements app.Service with overridable behavior per test.
// Unset methods fail loudly.
type stubService struct {
	app.Service

	resolve       func(ctx context.Context, token string) (*core.Identity, error)
	login         func(ctx context.Context, req app.LoginRequest) (*app.LoginResult, error)
	getInvoice    func(ctx context.Context, userID, invoiceID int) (*app.InvoiceDetailResult, error)
	recordPayment func(ctx context.Context, userID, invoiceID int, req app.PaymentRequest) (*app.InvoiceDetailResult, error)
	health        func(ctx context.Context) error
}

func (s *stubService) ResolveSession(ctx context.Context, token string) (*core.Identity, error) {
	return s.resolve(ctx, token)
}

func (s *stubService) Login(ctx context.Context, req app.LoginRequest) (*app.LoginResult, error) {
	return s.login(ctx, req)
}

func (s *stubService) GetInvoice(ctx context.Context, userID, invoiceID int) (*app.InvoiceDetailResult, error) {
	return s.getInvoice(ctx, userID, invoiceID)
}

func (s *stubService) RecordPayment(ctx context.Context, userID, invoiceID int, req app.PaymentRequest) (*app.InvoiceDetailResult, error) {
	return s.recordPayment(ctx, userID, invoiceID, req)
}

func (s *stubService) Health(ctx context.Context) error {
	if s.health == nil {
		return nil
	}
	return s.health(ctx)
}

func newServer(svc app.Service) http.Handler {
	return web.NewHandler(svc, zerolog.Nop(), nil)
}

func demoIdentity() *core.Identity {
	return &core.Identity{UserID: 1, Username: "demo", Email: "demo@example.com"}
}

func authedStub() *stubService {
	return &stubService{
		resolve: func(_ context.Context, token string) (*core.Identity, error) {
			if token == "good-token" {
				return demoIdentity(), nil
			}
			return nil, core.ErrNotFound
		},
	}
}

func doRequest(h http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.AddCookie(&http.Cookie{Name: web.SessionCookie, Value: token})
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

func sampleDetail() *app.InvoiceDetailResult {
	d := decimal.RequireFromString
	return &app.InvoiceDetailResult{Detail: &core.InvoiceDetail{
		Invoice: core.Invoice{
			ID: 1, CustomerID: 5, InvoiceNumber: "INV-20260830-0001",
			IssueDate:   time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC),
			DueDate:     time.Date(2026, 9, 29, 0, 0, 0, 0, time.UTC),
			Subtotal:    d("1500.00"), TaxAmount: d("150.00"),
			TotalAmount: d("1650.00"), AmountPaid: d("650.00"), BalanceDue: d("1000.00"),
			Status: core.StatusPartial, Currency: "KES",
		},
		Customer: core.Customer{ID: 5, Name: "Acme"},
		Items: []core.InvoiceItem{
			{ID: 1, Description: "Design", Quantity: d("1"), UnitPrice: d("1000"),
				TaxRate: d("10"), Amount: d("1000"), TaxAmount: d("100"), TotalAmount: d("1100")},
		},
		Payments: []core.Payment{
			{ID: 1, InvoiceID: 1, Amount: d("650.00"), PaymentMethod: "mpesa",
				PaymentDate: time.Date(2026, 8, 27, 0, 0, 0, 0, time.UTC)},
		},
	}}
}

func TestProtectedRoutesRequireSession(t *testing.T) {
	h := newServer(authedStub())

	rec := doRequest(h, http.MethodGet, "/api/invoices/1", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "UNAUTHENTICATED", decodeBody(t, rec)["code"])

	rec = doRequest(h, http.MethodGet, "/api/invoices/1", "bogus", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestExpiredSessionClearsCookie(t *testing.T) {
	svc := &stubService{
		resolve: func(context.Context, string) (*core.Identity, error) {
			return nil, core.ErrSessionExpired
		},
	}
	h := newServer(svc)

	rec := doRequest(h, http.MethodGet, "/api/customers", "stale", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "SESSION_EXPIRED", decodeBody(t, rec)["code"])

	cleared := false
	for _, c := range rec.Result().Cookies() {
		if c.Name == web.SessionCookie && c.MaxAge < 0 {
			cleared = true
		}
	}
	assert.True(t, cleared, "expired session must clear the cookie")
}

func TestLoginSetsHttpOnlyCookie(t *testing.T) {
	svc := authedStub()
	svc.login = func(_ context.Context, req app.LoginRequest) (*app.LoginResult, error) {
		if req.Email != "demo@example.com" || req.Password != "demo123" {
			return nil, core.ErrInvalidCredentials
		}
		return &app.LoginResult{Token: "good-token", User: &core.User{ID: 1, Username: "demo"}}, nil
	}
	h := newServer(svc)

	rec := doRequest(h, http.MethodPost, "/api/auth/login", "",
		`{"email":"demo@example.com","password":"demo123"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var sessionCookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == web.SessionCookie {
			sessionCookie = c
		}
	}
	require.NotNil(t, sessionCookie)
	assert.Equal(t, "good-token", sessionCookie.Value)
	assert.True(t, sessionCookie.HttpOnly)

	// Bad credentials: one uniform answer.
	rec = doRequest(h, http.MethodPost, "/api/auth/login", "",
		`{"email":"demo@example.com","password":"nope"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "INVALID_CREDENTIALS", decodeBody(t, rec)["code"])
}

func TestGetInvoice_RendersMoneyAsStrings(t *testing.T) {
	svc := authedStub()
	svc.getInvoice = func(_ context.Context, userID, invoiceID int) (*app.InvoiceDetailResult, error) {
		assert.Equal(t, 1, userID)
		assert.Equal(t, 1, invoiceID)
		return sampleDetail(), nil
	}
	h := newServer(svc)

	rec := doRequest(h, http.MethodGet, "/api/invoices/1", "good-token", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decodeBody(t, rec)
	invoice := body["invoice"].(map[string]any)
	assert.Equal(t, "1650.00", invoice["total_amount"])
	assert.Equal(t, "1000.00", invoice["balance_due"])
	assert.Equal(t, "partial", invoice["status"])
	assert.Equal(t, "2026-09-29", invoice["due_date"])

	items := body["items"].([]any)
	require.Len(t, items, 1)
	assert.Equal(t, "1100.00", items[0].(map[string]any)["total_amount"])
}

func TestGetInvoice_OtherUsersInvoiceIs404(t *testing.T) {
	svc := authedStub()
	svc.getInvoice = func(context.Context, int, int) (*app.InvoiceDetailResult, error) {
		return nil, core.ErrNotFound
	}
	h := newServer(svc)

	rec := doRequest(h, http.MethodGet, "/api/invoices/14", "good-token", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", decodeBody(t, rec)["code"])
}

func TestRecordPayment_ErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		status   int
		wantCode string
	}{
		{"overpayment", fmt.Errorf("%w: amount 2000.00, balance due 1000.00", core.ErrOverpayment),
			http.StatusUnprocessableEntity, "OVERPAYMENT_REJECTED"},
		{"conflict", core.ErrConflict, http.StatusConflict, "CONFLICT"},
		{"validation", &core.ValidationError{Field: "amount", Reason: "must be positive"},
			http.StatusBadRequest, "VALIDATION_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := authedStub()
			svc.recordPayment = func(context.Context, int, int, app.PaymentRequest) (*app.InvoiceDetailResult, error) {
				return nil, tt.err
			}
			h := newServer(svc)

			rec := doRequest(h, http.MethodPost, "/api/invoices/1/payments", "good-token",
				`{"amount":"2000.00","payment_method":"mpesa"}`)
			assert.Equal(t, tt.status, rec.Code)
			body := decodeBody(t, rec)
			assert.Equal(t, tt.wantCode, body["code"])
			assert.NotEmpty(t, body["request_id"])
		})
	}
}

func TestRecordPayment_Success(t *testing.T) {
	svc := authedStub()
	svc.recordPayment = func(_ context.Context, _, _ int, req app.PaymentRequest) (*app.InvoiceDetailResult, error) {
		assert.Equal(t, "650.00", req.Amount.StringFixed(2))
		assert.Equal(t, "mpesa", req.Method)
		return sampleDetail(), nil
	}
	h := newServer(svc)

	rec := doRequest(h, http.MethodPost, "/api/invoices/1/payments", "good-token",
		`{"amount":"650.00","payment_method":"mpesa"}`)
	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func TestInvalidJSONBody(t *testing.T) {
	h := newServer(authedStub())
	rec := doRequest(h, http.MethodPost, "/api/invoices/1/payments", "good-token", `{"amount":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "BAD_REQUEST", decodeBody(t, rec)["code"])
}

func TestInvalidIDParam(t *testing.T) {
	h := newServer(authedStub())
	rec := doRequest(h, http.MethodGet, "/api/invoices/abc", "good-token", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealth(t *testing.T) {
	svc := authedStub()
	h := newServer(svc)

	rec := doRequest(h, http.MethodGet, "/api/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decodeBody(t, rec)["status"])

	svc.health = func(context.Context) error { return fmt.Errorf("engine down") }
	rec = doRequest(h, http.MethodGet, "/api/health", "", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "degraded", decodeBody(t, rec)["status"])
}

func TestRequestIDPropagates(t *testing.T) {
	svc := authedStub()
	h := newServer(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("X-Request-ID", "trace-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "trace-123", rec.Header().Get("X-Request-ID"))
}
