package app

import (
	"context"
	"errors"
	"time"

	"invoicing-app/internal/core"
	"invoicing-app/internal/rdbms"
)

const dateLayout = "2006-01-02"

type appService struct {
	client    *rdbms.Client
	users     *core.UserService
	customers *core.CustomerService
	invoices  *core.InvoiceService
	ledger    *core.Ledger
	reports   *core.ReportingService
	sessions  *core.SessionStore
	scope     core.Scope
}

// New wires the core services over one storage client and returns the
// Service facade.
func New(client *rdbms.Client, sessionTTL time.Duration) Service {
	ledger := core.NewLedger(client)
	return &appService{
		client:    client,
		users:     core.NewUserService(client),
		customers: core.NewCustomerService(client),
		invoices:  core.NewInvoiceService(client, ledger),
		ledger:    ledger,
		reports:   core.NewReportingService(client),
		sessions:  core.NewSessionStore(client, sessionTTL),
		scope:     core.NewScope(client),
	}
}

func (s *appService) Register(ctx context.Context, req RegisterRequest) (*UserResult, error) {
	user, err := s.users.Register(ctx, core.RegisterInput{
		Username:    req.Username,
		Email:       req.Email,
		Password:    req.Password,
		FullName:    req.FullName,
		CompanyName: req.CompanyName,
	})
	if err != nil {
		return nil, err
	}
	return &UserResult{User: user}, nil
}

func (s *appService) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	user, err := s.users.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}
	token, err := s.sessions.Create(ctx, user.ID, req.IPAddress, req.UserAgent)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: token, User: user}, nil
}

func (s *appService) Logout(ctx context.Context, token string) error {
	return s.sessions.Invalidate(ctx, token)
}

func (s *appService) ResolveSession(ctx context.Context, token string) (*core.Identity, error) {
	ident, err := s.sessions.Resolve(ctx, token)
	if errors.Is(err, core.ErrSessionExpired) {
		// Lazy expiry: the dead row is removed on first touch.
		_ = s.sessions.Invalidate(ctx, token)
	}
	return ident, err
}

func (s *appService) CurrentUser(ctx context.Context, userID int) (*UserResult, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &UserResult{User: user}, nil
}

func (s *appService) ListCustomers(ctx context.Context, userID int, search string, page int) (*CustomerListResult, error) {
	if page < 1 {
		page = 1
	}
	customers, total, err := s.customers.List(ctx, userID, search, page)
	if err != nil {
		return nil, err
	}
	return &CustomerListResult{
		Customers: customers, Total: total, Page: page, PageSize: core.PageSize,
	}, nil
}

func (s *appService) GetCustomer(ctx context.Context, userID, customerID int) (*CustomerResult, error) {
	c, err := s.customers.Get(ctx, userID, customerID)
	if err != nil {
		return nil, err
	}
	return &CustomerResult{Customer: c}, nil
}

func (s *appService) CreateCustomer(ctx context.Context, userID int, req CustomerRequest) (*CustomerResult, error) {
	c, err := s.customers.Create(ctx, userID, customerInput(req))
	if err != nil {
		return nil, err
	}
	return &CustomerResult{Customer: c}, nil
}

func (s *appService) UpdateCustomer(ctx context.Context, userID, customerID int, req CustomerRequest) (*CustomerResult, error) {
	c, err := s.customers.Update(ctx, userID, customerID, customerInput(req))
	if err != nil {
		return nil, err
	}
	return &CustomerResult{Customer: c}, nil
}

func (s *appService) DeleteCustomer(ctx context.Context, userID, customerID int) error {
	return s.customers.Delete(ctx, userID, customerID)
}

func (s *appService) ListInvoices(ctx context.Context, userID int, req InvoiceListRequest) (*InvoiceListResult, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	invoices, total, err := s.invoices.List(ctx, userID, core.InvoiceFilter{
		Status: core.InvoiceStatus(req.Status),
		Search: req.Search,
		Page:   req.Page,
	})
	if err != nil {
		return nil, err
	}
	return &InvoiceListResult{
		Invoices: invoices, Total: total, Page: req.Page, PageSize: core.PageSize,
	}, nil
}

func (s *appService) GetInvoice(ctx context.Context, userID, invoiceID int) (*InvoiceDetailResult, error) {
	detail, err := s.invoices.Get(ctx, userID, invoiceID)
	if err != nil {
		return nil, err
	}
	return &InvoiceDetailResult{Detail: detail}, nil
}

func (s *appService) CreateInvoice(ctx context.Context, userID int, req CreateInvoiceRequest) (*InvoiceDetailResult, error) {
	issue, err := parseDate("issue_date", req.IssueDate)
	if err != nil {
		return nil, err
	}
	due, err := parseDate("due_date", req.DueDate)
	if err != nil {
		return nil, err
	}

	items := make([]core.ItemInput, len(req.Items))
	for i, it := range req.Items {
		items[i] = itemInput(it)
	}

	inv, err := s.invoices.Create(ctx, userID, core.InvoiceInput{
		CustomerID: req.CustomerID,
		IssueDate:  issue,
		DueDate:    due,
		Currency:   req.Currency,
		Notes:      req.Notes,
		Terms:      req.Terms,
		Items:      items,
	})
	if err != nil {
		return nil, err
	}
	return s.GetInvoice(ctx, userID, inv.ID)
}

func (s *appService) DeleteInvoice(ctx context.Context, userID, invoiceID int) error {
	return s.invoices.Delete(ctx, userID, invoiceID)
}

func (s *appService) SetInvoiceItems(ctx context.Context, userID, invoiceID int, reqs []ItemRequest) (*InvoiceDetailResult, error) {
	if err := s.scope.InvoiceOwned(ctx, userID, invoiceID); err != nil {
		return nil, err
	}
	items := make([]core.ItemInput, len(reqs))
	for i, it := range reqs {
		items[i] = itemInput(it)
	}
	if _, err := s.ledger.SetItems(ctx, invoiceID, items); err != nil {
		return nil, err
	}
	return s.GetInvoice(ctx, userID, invoiceID)
}

func (s *appService) SendInvoice(ctx context.Context, userID, invoiceID int) (*InvoiceDetailResult, error) {
	if err := s.scope.InvoiceOwned(ctx, userID, invoiceID); err != nil {
		return nil, err
	}
	if _, err := s.ledger.MarkSent(ctx, invoiceID); err != nil {
		return nil, err
	}
	return s.GetInvoice(ctx, userID, invoiceID)
}

func (s *appService) VoidInvoice(ctx context.Context, userID, invoiceID int) (*InvoiceDetailResult, error) {
	if err := s.scope.InvoiceOwned(ctx, userID, invoiceID); err != nil {
		return nil, err
	}
	if _, err := s.ledger.Void(ctx, invoiceID); err != nil {
		return nil, err
	}
	return s.GetInvoice(ctx, userID, invoiceID)
}

func (s *appService) RecordPayment(ctx context.Context, userID, invoiceID int, req PaymentRequest) (*InvoiceDetailResult, error) {
	if err := s.scope.InvoiceOwned(ctx, userID, invoiceID); err != nil {
		return nil, err
	}

	var date time.Time
	if req.Date != "" {
		var err error
		if date, err = parseDate("payment_date", req.Date); err != nil {
			return nil, err
		}
	}

	_, err := s.ledger.ApplyPayment(ctx, invoiceID, core.PaymentInput{
		Amount:    req.Amount,
		Method:    req.Method,
		Reference: req.Reference,
		Date:      date,
		Notes:     req.Notes,
	})
	if err != nil {
		return nil, err
	}
	return s.GetInvoice(ctx, userID, invoiceID)
}

func (s *appService) ListPayments(ctx context.Context, userID, page int) (*PaymentListResult, error) {
	if page < 1 {
		page = 1
	}
	payments, total, err := s.invoices.ListPayments(ctx, userID, page)
	if err != nil {
		return nil, err
	}
	return &PaymentListResult{
		Payments: payments, Total: total, Page: page, PageSize: core.PageSize,
	}, nil
}

func (s *appService) Dashboard(ctx context.Context, userID int) (*DashboardResult, error) {
	stats, err := s.reports.DashboardStats(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &DashboardResult{Stats: stats}, nil
}

func (s *appService) Health(ctx context.Context) error {
	return s.client.Health(ctx)
}

func customerInput(req CustomerRequest) core.CustomerInput {
	return core.CustomerInput{
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

func itemInput(req ItemRequest) core.ItemInput {
	return core.ItemInput{
		Description: req.Description,
		Quantity:    req.Quantity,
		UnitPrice:   req.UnitPrice,
		TaxRate:     req.TaxRate,
	}
}

func parseDate(field, value string) (time.Time, error) {
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, &core.ValidationError{Field: field, Reason: "must be a YYYY-MM-DD date"}
	}
	return t, nil
}
