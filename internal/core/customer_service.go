package core

import (
	"context"
	"fmt"
	"strings"
	"time"

	"invoicing-app/internal/rdbms"
)

// PageSize is the fixed page length for list operations.
const PageSize = 20

// CustomerInput is the payload for creating or updating a customer.
type CustomerInput struct {
	Name    string
	Email   string
	Phone   string
	Address string
	City    string
	Country string
	TaxID   string
	Notes   string
}

// CustomerService provides user-scoped customer CRUD. Every statement it
// issues carries the owning user's id; rows outside that scope do not exist
// as far as a caller is concerned.
type CustomerService struct {
	db    rdbms.Executor
	scope Scope
}

// NewCustomerService constructs a CustomerService over the shared storage client.
func NewCustomerService(db rdbms.Executor) *CustomerService {
	return &CustomerService{db: db, scope: NewScope(db)}
}

// List returns one page of the user's customers plus the total match count.
// search filters on name or email substring; page is 1-based.
func (s *CustomerService) List(ctx context.Context, userID int, search string, page int) ([]Customer, int, error) {
	if page < 1 {
		page = 1
	}
	where := fmt.Sprintf("WHERE user_id = %s", rdbms.Int(userID))
	if search = strings.TrimSpace(search); search != "" {
		where += fmt.Sprintf(" AND (name LIKE %s OR email LIKE %s)",
			rdbms.Like(search), rdbms.Like(search))
	}

	countRes, err := s.db.Execute(ctx, "SELECT COUNT(*) AS total FROM customers "+where)
	if err != nil {
		return nil, 0, fmt.Errorf("count customers: %w", err)
	}
	total := countRes.ScalarInt("total", "count")

	query := fmt.Sprintf("SELECT * FROM customers %s ORDER BY name LIMIT %d OFFSET %d",
		where, PageSize, (page-1)*PageSize)
	res, err := s.db.Execute(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("list customers: %w", err)
	}

	customers := make([]Customer, 0, len(res.Data))
	for _, row := range res.Data {
		customers = append(customers, *customerFromRow(row))
	}
	return customers, total, nil
}

// Get returns one customer, scoped to the user.
func (s *CustomerService) Get(ctx context.Context, userID, customerID int) (*Customer, error) {
	query := fmt.Sprintf("SELECT * FROM customers WHERE id = %s AND user_id = %s",
		rdbms.Int(customerID), rdbms.Int(userID))
	res, err := s.db.Execute(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("fetch customer %d: %w", customerID, err)
	}
	if len(res.Data) == 0 {
		return nil, ErrNotFound
	}
	return customerFromRow(res.Data[0]), nil
}

// Create inserts a customer stamped with the session user's id. Any
// caller-supplied owner is ignored by construction.
func (s *CustomerService) Create(ctx context.Context, userID int, in CustomerInput) (*Customer, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, validationf("name", "customer name is required")
	}

	idRes, err := s.db.Execute(ctx, "SELECT COALESCE(MAX(id), 0) + 1 AS next_id FROM customers")
	if err != nil {
		return nil, fmt.Errorf("allocate customer id: %w", err)
	}
	customerID := idRes.ScalarInt("next_id")
	if customerID <= 0 {
		customerID = 1
	}

	now := time.Now().UTC()
	insert := fmt.Sprintf(
		"INSERT INTO customers VALUES (%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s)",
		rdbms.Int(customerID),
		rdbms.Int(userID),
		rdbms.Quote(in.Name),
		rdbms.Quote(in.Email),
		rdbms.Quote(in.Phone),
		rdbms.Quote(in.Address),
		rdbms.Quote(in.City),
		rdbms.Quote(in.Country),
		rdbms.Quote(in.TaxID),
		rdbms.Quote(in.Notes),
		rdbms.Timestamp(now),
		rdbms.Timestamp(now),
	)
	if _, err := s.db.Execute(ctx, insert); err != nil {
		return nil, fmt.Errorf("create customer: %w", err)
	}

	return &Customer{
		ID: customerID, UserID: userID,
		Name: in.Name, Email: in.Email, Phone: in.Phone,
		Address: in.Address, City: in.City, Country: in.Country,
		TaxID: in.TaxID, Notes: in.Notes,
		CreatedAt: now, UpdatedAt: now,
	}, nil
}

// Update rewrites the customer's mutable fields, scoped to the user.
func (s *CustomerService) Update(ctx context.Context, userID, customerID int, in CustomerInput) (*Customer, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, validationf("name", "customer name is required")
	}
	if err := s.scope.CustomerOwned(ctx, userID, customerID); err != nil {
		return nil, err
	}

	update := fmt.Sprintf(
		"UPDATE customers SET name = %s, email = %s, phone = %s, address = %s, city = %s, country = %s, tax_id = %s, notes = %s, updated_at = %s WHERE id = %s",
		rdbms.Quote(in.Name),
		rdbms.Quote(in.Email),
		rdbms.Quote(in.Phone),
		rdbms.Quote(in.Address),
		rdbms.Quote(in.City),
		rdbms.Quote(in.Country),
		rdbms.Quote(in.TaxID),
		rdbms.Quote(in.Notes),
		rdbms.Timestamp(time.Now().UTC()),
		rdbms.Int(customerID),
	)
	if _, err := s.db.Execute(ctx, update); err != nil {
		return nil, fmt.Errorf("update customer %d: %w", customerID, err)
	}
	return s.Get(ctx, userID, customerID)
}

// Delete removes a customer, scoped to the user. A customer that still has
// invoices cannot be deleted: that would orphan them.
func (s *CustomerService) Delete(ctx context.Context, userID, customerID int) error {
	if err := s.scope.CustomerOwned(ctx, userID, customerID); err != nil {
		return err
	}

	probe := fmt.Sprintf("SELECT COUNT(*) AS total FROM invoices WHERE customer_id = %s",
		rdbms.Int(customerID))
	res, err := s.db.Execute(ctx, probe)
	if err != nil {
		return fmt.Errorf("check customer invoices: %w", err)
	}
	if res.ScalarInt("total", "count") > 0 {
		return validationf("id", "customer has invoices and cannot be deleted")
	}

	if _, err := s.db.Execute(ctx, fmt.Sprintf(
		"DELETE FROM customers WHERE id = %s", rdbms.Int(customerID))); err != nil {
		return fmt.Errorf("delete customer %d: %w", customerID, err)
	}
	return nil
}
