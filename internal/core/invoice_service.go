package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"invoicing-app/internal/rdbms"
)

// InvoiceInput is the payload for creating an invoice. Status, totals and
// the owning user are never taken from the caller.
type InvoiceInput struct {
	CustomerID int
	IssueDate  time.Time
	DueDate    time.Time
	Currency   string
	Notes      string
	Terms      string
	Items      []ItemInput
}

// InvoiceFilter narrows a listing.
type InvoiceFilter struct {
	Status InvoiceStatus // empty means all
	Search string        // invoice number or customer name substring
	Page   int           // 1-based
}

// InvoiceSummary is one listing row, with the customer denormalized in.
type InvoiceSummary struct {
	Invoice
	CustomerName  string
	CustomerEmail string
	ItemCount     int
}

// InvoiceDetail is the full view of one invoice.
type InvoiceDetail struct {
	Invoice  Invoice
	Customer Customer
	Items    []InvoiceItem
	Payments []Payment
}

// PaymentRecord is one row of the cross-invoice payment listing.
type PaymentRecord struct {
	Payment
	InvoiceNumber string
	TotalAmount   decimal.Decimal
	BalanceDue    decimal.Decimal
	CustomerName  string
}

// InvoiceService creates and reads invoices under the per-user scope rule;
// all monetary mutation goes through the Ledger.
type InvoiceService struct {
	db     rdbms.Executor
	ledger *Ledger
	scope  Scope
}

// NewInvoiceService constructs an InvoiceService over the shared storage
// client and ledger.
func NewInvoiceService(db rdbms.Executor, ledger *Ledger) *InvoiceService {
	return &InvoiceService{db: db, ledger: ledger, scope: NewScope(db)}
}

// Create inserts a draft invoice for one of the user's customers and sets
// its initial item set through the ledger. The invoice number is generated
// here and unique across the whole store.
func (s *InvoiceService) Create(ctx context.Context, userID int, in InvoiceInput) (*Invoice, error) {
	if len(in.Items) == 0 {
		return nil, validationf("items", "at least one item is required")
	}
	for i, item := range in.Items {
		if err := validateItem(i, item); err != nil {
			return nil, err
		}
	}
	if in.IssueDate.IsZero() {
		return nil, validationf("issue_date", "issue date is required")
	}
	if in.DueDate.IsZero() {
		return nil, validationf("due_date", "due date is required")
	}
	if in.DueDate.Before(in.IssueDate) {
		return nil, validationf("due_date", "due date cannot precede issue date")
	}
	currency := strings.ToUpper(strings.TrimSpace(in.Currency))
	if currency == "" {
		currency = DefaultCurrency
	}
	if len(currency) != 3 {
		return nil, validationf("currency", "currency must be a three-letter code")
	}

	// The customer must belong to the caller; anything else reads as absent.
	if err := s.scope.CustomerOwned(ctx, userID, in.CustomerID); err != nil {
		return nil, err
	}

	// Number collisions are possible when two invoices are created in the
	// same instant; the UNIQUE column catches them and we re-number.
	var invoiceID int
	for attempt := 0; ; attempt++ {
		number, err := s.nextInvoiceNumber(ctx, in.IssueDate)
		if err != nil {
			return nil, err
		}
		invoiceID, err = s.insertDraft(ctx, userID, number, in, currency)
		if err == nil {
			break
		}
		if errors.Is(err, rdbms.ErrConstraint) && attempt < 2 {
			continue
		}
		return nil, err
	}

	return s.ledger.SetItems(ctx, invoiceID, in.Items)
}

func (s *InvoiceService) insertDraft(ctx context.Context, userID int, number string, in InvoiceInput, currency string) (int, error) {
	idRes, err := s.db.Execute(ctx, "SELECT COALESCE(MAX(id), 0) + 1 AS next_id FROM invoices")
	if err != nil {
		return 0, fmt.Errorf("allocate invoice id: %w", err)
	}
	invoiceID := idRes.ScalarInt("next_id")
	if invoiceID <= 0 {
		invoiceID = 1
	}

	now := time.Now().UTC()
	insert := fmt.Sprintf(
		"INSERT INTO invoices VALUES (%s, %s, %s, %s, %s, %s, 0.00, 0.00, 0.00, 0.00, 0.00, 'draft', %s, %s, %s, 1, %s, %s)",
		rdbms.Int(invoiceID),
		rdbms.Int(in.CustomerID),
		rdbms.Int(userID),
		rdbms.Quote(number),
		rdbms.Date(in.IssueDate),
		rdbms.Date(in.DueDate),
		rdbms.Quote(currency),
		rdbms.Quote(in.Notes),
		rdbms.Quote(in.Terms),
		rdbms.Timestamp(now),
		rdbms.Timestamp(now),
	)
	if _, err := s.db.Execute(ctx, insert); err != nil {
		return 0, fmt.Errorf("create invoice: %w", err)
	}
	return invoiceID, nil
}

// nextInvoiceNumber produces INV-YYYYMMDD-NNNN, numbering within the issue
// date across all users.
func (s *InvoiceService) nextInvoiceNumber(ctx context.Context, issueDate time.Time) (string, error) {
	prefix := "INV-" + issueDate.Format("20060102")
	res, err := s.db.Execute(ctx, fmt.Sprintf(
		"SELECT COUNT(*) AS count FROM invoices WHERE invoice_number LIKE %s",
		rdbms.Quote(prefix+"-%")))
	if err != nil {
		return "", fmt.Errorf("count invoice numbers: %w", err)
	}
	return fmt.Sprintf("%s-%04d", prefix, res.ScalarInt("count", "total")+1), nil
}

// List returns one page of the user's invoices with customer names joined
// in, plus the total match count.
func (s *InvoiceService) List(ctx context.Context, userID int, f InvoiceFilter) ([]InvoiceSummary, int, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Status != "" && !ValidStatus(f.Status) {
		return nil, 0, validationf("status", "unknown status %q", f.Status)
	}

	where := fmt.Sprintf("WHERE i.user_id = %s", rdbms.Int(userID))
	if f.Status != "" {
		where += fmt.Sprintf(" AND i.status = %s", rdbms.Quote(string(f.Status)))
	}
	if search := strings.TrimSpace(f.Search); search != "" {
		where += fmt.Sprintf(" AND (i.invoice_number LIKE %s OR c.name LIKE %s)",
			rdbms.Like(search), rdbms.Like(search))
	}

	countRes, err := s.db.Execute(ctx,
		"SELECT COUNT(*) AS total FROM invoices i JOIN customers c ON i.customer_id = c.id "+where)
	if err != nil {
		return nil, 0, fmt.Errorf("count invoices: %w", err)
	}
	total := countRes.ScalarInt("total", "count")

	query := fmt.Sprintf(
		"SELECT i.*, c.name AS customer_name, c.email AS customer_email FROM invoices i JOIN customers c ON i.customer_id = c.id %s ORDER BY i.issue_date DESC, i.id DESC LIMIT %d OFFSET %d",
		where, PageSize, (f.Page-1)*PageSize)
	res, err := s.db.Execute(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("list invoices: %w", err)
	}

	summaries := make([]InvoiceSummary, 0, len(res.Data))
	for _, row := range res.Data {
		sum := InvoiceSummary{
			Invoice:       *invoiceFromRow(row),
			CustomerName:  row.String("customer_name"),
			CustomerEmail: row.String("customer_email"),
		}
		// The engine has no subqueries; item counts are fetched per row.
		itemRes, err := s.db.Execute(ctx, fmt.Sprintf(
			"SELECT COUNT(*) AS count FROM invoice_items WHERE invoice_id = %s",
			rdbms.Int(sum.ID)))
		if err == nil {
			sum.ItemCount = itemRes.ScalarInt("count", "total")
		}
		summaries = append(summaries, sum)
	}
	return summaries, total, nil
}

// Get returns the full detail of one invoice, scoped to the user.
func (s *InvoiceService) Get(ctx context.Context, userID, invoiceID int) (*InvoiceDetail, error) {
	res, err := s.db.Execute(ctx, fmt.Sprintf(
		"SELECT * FROM invoices WHERE id = %s AND user_id = %s",
		rdbms.Int(invoiceID), rdbms.Int(userID)))
	if err != nil {
		return nil, fmt.Errorf("fetch invoice %d: %w", invoiceID, err)
	}
	if len(res.Data) == 0 {
		return nil, ErrNotFound
	}
	detail := &InvoiceDetail{Invoice: *invoiceFromRow(res.Data[0])}

	custRes, err := s.db.Execute(ctx, fmt.Sprintf(
		"SELECT * FROM customers WHERE id = %s", rdbms.Int(detail.Invoice.CustomerID)))
	if err != nil {
		return nil, fmt.Errorf("fetch invoice customer: %w", err)
	}
	if len(custRes.Data) > 0 {
		detail.Customer = *customerFromRow(custRes.Data[0])
	}

	if detail.Items, err = s.ledger.FetchItems(ctx, invoiceID); err != nil {
		return nil, err
	}
	if detail.Payments, err = s.ledger.FetchPayments(ctx, invoiceID); err != nil {
		return nil, err
	}
	return detail, nil
}

// Delete removes an invoice and cascades to its items and payments. The
// children go first so a partial apply can never orphan them.
func (s *InvoiceService) Delete(ctx context.Context, userID, invoiceID int) error {
	if err := s.scope.InvoiceOwned(ctx, userID, invoiceID); err != nil {
		return err
	}
	batch := []string{
		fmt.Sprintf("DELETE FROM payments WHERE invoice_id = %s", rdbms.Int(invoiceID)),
		fmt.Sprintf("DELETE FROM invoice_items WHERE invoice_id = %s", rdbms.Int(invoiceID)),
		fmt.Sprintf("DELETE FROM invoices WHERE id = %s", rdbms.Int(invoiceID)),
	}
	if err := s.db.ExecuteBatch(ctx, batch); err != nil {
		return fmt.Errorf("delete invoice %d: %w", invoiceID, err)
	}
	return nil
}

// ListPayments returns one page of the user's payments across all
// invoices, newest first.
func (s *InvoiceService) ListPayments(ctx context.Context, userID, page int) ([]PaymentRecord, int, error) {
	if page < 1 {
		page = 1
	}

	countRes, err := s.db.Execute(ctx, fmt.Sprintf(
		"SELECT COUNT(*) AS total FROM payments p JOIN invoices i ON p.invoice_id = i.id WHERE i.user_id = %s",
		rdbms.Int(userID)))
	if err != nil {
		return nil, 0, fmt.Errorf("count payments: %w", err)
	}
	total := countRes.ScalarInt("total", "count")

	query := fmt.Sprintf(
		"SELECT p.*, i.invoice_number, i.total_amount, i.balance_due, c.name AS customer_name FROM payments p JOIN invoices i ON p.invoice_id = i.id JOIN customers c ON i.customer_id = c.id WHERE i.user_id = %s ORDER BY p.payment_date DESC, p.id DESC LIMIT %d OFFSET %d",
		rdbms.Int(userID), PageSize, (page-1)*PageSize)
	res, err := s.db.Execute(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("list payments: %w", err)
	}

	records := make([]PaymentRecord, 0, len(res.Data))
	for _, row := range res.Data {
		records = append(records, PaymentRecord{
			Payment:       paymentFromRow(row),
			InvoiceNumber: row.String("invoice_number"),
			TotalAmount:   row.Decimal("total_amount"),
			BalanceDue:    row.Decimal("balance_due"),
			CustomerName:  row.String("customer_name"),
		})
	}
	return records, total, nil
}
