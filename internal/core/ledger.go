package core

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"invoicing-app/internal/rdbms"
)

// ItemInput is one requested invoice line. Derived fields are computed by
// the ledger, never taken from the caller.
type ItemInput struct {
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	TaxRate     decimal.Decimal
}

// PaymentInput is a requested payment against an invoice.
type PaymentInput struct {
	Amount    decimal.Decimal
	Method    string
	Reference string
	Date      time.Time
	Notes     string
}

// Ledger keeps each invoice's derived monetary fields and status in sync
// with its items and payments, and rejects mutations that would violate an
// invariant. Mutations on the same invoice are serialized by an in-process
// keyed lock; a version column on the invoice row guards against writers in
// other processes and surfaces ErrConflict on a stale write.
type Ledger struct {
	db    rdbms.Executor
	locks *invoiceLocks
}

// NewLedger builds a ledger over the shared storage client.
func NewLedger(db rdbms.Executor) *Ledger {
	return &Ledger{db: db, locks: newInvoiceLocks()}
}

// RecomputeInvoiceTotals re-derives subtotal, tax_amount, total_amount from
// the invoice's current items and amount_paid/balance_due from its current
// payments, then advances the status machine. Idempotent.
func (l *Ledger) RecomputeInvoiceTotals(ctx context.Context, invoiceID int) (*Invoice, error) {
	unlock := l.locks.lock(invoiceID)
	defer unlock()
	return l.recomputeLocked(ctx, invoiceID)
}

// ApplyPayment records a payment and recomputes the invoice. A payment that
// would drive balance_due negative fails with ErrOverpayment and writes
// nothing.
func (l *Ledger) ApplyPayment(ctx context.Context, invoiceID int, in PaymentInput) (*Invoice, error) {
	if !in.Amount.IsPositive() {
		return nil, validationf("amount", "payment amount must be positive")
	}
	if in.Method == "" {
		return nil, validationf("payment_method", "payment method is required")
	}
	if in.Date.IsZero() {
		in.Date = time.Now().UTC()
	}
	if in.Reference == "" {
		in.Reference = "PAY-" + strings.ToUpper(uuid.NewString()[:8])
	}

	unlock := l.locks.lock(invoiceID)
	defer unlock()

	inv, err := l.fetchInvoice(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if inv.Status == StatusVoid {
		return nil, validationf("status", "cannot record a payment on a void invoice")
	}
	if in.Amount.GreaterThan(inv.BalanceDue) {
		return nil, fmt.Errorf("%w: amount %s, balance due %s",
			ErrOverpayment, in.Amount.StringFixed(2), inv.BalanceDue.StringFixed(2))
	}

	paymentID, err := l.nextID(ctx, "payments")
	if err != nil {
		return nil, err
	}
	items, err := l.FetchItems(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	payments, err := l.FetchPayments(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	// The payment is folded into the totals before its row exists; the
	// versioned totals write doubles as the claim on the invoice, so a
	// writer racing from another process fails with ErrConflict before any
	// payment row lands.
	payments = append(payments, Payment{
		ID:              paymentID,
		InvoiceID:       invoiceID,
		Amount:          in.Amount,
		PaymentMethod:   in.Method,
		ReferenceNumber: in.Reference,
		PaymentDate:     in.Date,
		Notes:           in.Notes,
	})
	updated, err := l.writeTotals(ctx, inv, items, payments)
	if err != nil {
		return nil, err
	}

	insert := fmt.Sprintf(
		"INSERT INTO payments VALUES (%s, %s, %s, %s, %s, %s, %s)",
		rdbms.Int(paymentID),
		rdbms.Int(invoiceID),
		rdbms.Money(in.Amount),
		rdbms.Quote(in.Method),
		rdbms.Quote(in.Reference),
		rdbms.Date(in.Date),
		rdbms.Quote(in.Notes),
	)
	if _, err := l.db.Execute(ctx, insert); err != nil {
		// The stored totals now anticipate a row that never landed; the
		// next recompute reconciles them.
		return nil, fmt.Errorf("insert payment: %w", err)
	}
	return updated, nil
}

// SetItems replaces the invoice's full item set in one logical operation.
// Validation happens before any write; the delete+insert batch either fully
// applies or surfaces the partial failure unmasked.
func (l *Ledger) SetItems(ctx context.Context, invoiceID int, items []ItemInput) (*Invoice, error) {
	for i, in := range items {
		if err := validateItem(i, in); err != nil {
			return nil, err
		}
	}

	unlock := l.locks.lock(invoiceID)
	defer unlock()

	inv, err := l.fetchInvoice(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if inv.Status == StatusVoid {
		return nil, validationf("status", "cannot modify items of a void invoice")
	}

	derived := make([]InvoiceItem, len(items))
	for i, in := range items {
		derived[i] = InvoiceItem{
			Quantity:  in.Quantity,
			UnitPrice: in.UnitPrice,
			TaxRate:   in.TaxRate,
		}
		DeriveItem(&derived[i])
	}
	// The new item set must still cover payments already taken, otherwise
	// the recompute would derive a negative balance.
	payments, err := l.FetchPayments(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if prospective := ComputeTotals(derived, payments); prospective.BalanceDue.IsNegative() {
		return nil, validationf("items", "items total %s is below the %s already paid",
			prospective.TotalAmount.StringFixed(2), prospective.AmountPaid.StringFixed(2))
	}

	nextItemID, err := l.nextID(ctx, "invoice_items")
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	batch := []string{
		fmt.Sprintf("DELETE FROM invoice_items WHERE invoice_id = %s", rdbms.Int(invoiceID)),
	}
	for i, in := range items {
		item := derived[i]
		batch = append(batch, fmt.Sprintf(
			"INSERT INTO invoice_items VALUES (%s, %s, %s, %s, %s, %s, %s, %s, %s, %s)",
			rdbms.Int(nextItemID+i),
			rdbms.Int(invoiceID),
			rdbms.Quote(in.Description),
			in.Quantity.StringFixed(2),
			rdbms.Money(in.UnitPrice),
			rdbms.Rate(in.TaxRate),
			rdbms.Money(item.Amount),
			rdbms.Money(item.TaxAmount),
			rdbms.Money(item.TotalAmount),
			rdbms.Timestamp(now),
		))
	}

	if err := l.db.ExecuteBatch(ctx, batch); err != nil {
		// A partial apply left the store inconsistent; report it rather
		// than retrying into an unknown state.
		return nil, fmt.Errorf("replace invoice items: %w", err)
	}

	return l.recomputeLocked(ctx, invoiceID)
}

// MarkSent is the explicit transition out of draft. Recompute alone never
// leaves draft.
func (l *Ledger) MarkSent(ctx context.Context, invoiceID int) (*Invoice, error) {
	unlock := l.locks.lock(invoiceID)
	defer unlock()

	inv, err := l.fetchInvoice(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if inv.Status != StatusDraft {
		return nil, validationf("status", "only a draft invoice can be marked as sent (current status %q)", inv.Status)
	}

	if err := l.writeStatus(ctx, inv, StatusSent); err != nil {
		return nil, err
	}
	// Settle the post-draft state immediately: a sent invoice may already
	// be overdue, or paid if its total is zero.
	return l.recomputeLocked(ctx, invoiceID)
}

// Void marks the invoice void. Terminal and sticky: recompute never
// overwrites it. Voiding an already-void invoice is a no-op.
func (l *Ledger) Void(ctx context.Context, invoiceID int) (*Invoice, error) {
	unlock := l.locks.lock(invoiceID)
	defer unlock()

	inv, err := l.fetchInvoice(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if inv.Status == StatusVoid {
		return inv, nil
	}

	if err := l.writeStatus(ctx, inv, StatusVoid); err != nil {
		return nil, err
	}
	return l.fetchInvoice(ctx, invoiceID)
}

// recomputeLocked does the actual recompute. Callers must hold the invoice
// lock.
func (l *Ledger) recomputeLocked(ctx context.Context, invoiceID int) (*Invoice, error) {
	inv, err := l.fetchInvoice(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	items, err := l.FetchItems(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	payments, err := l.FetchPayments(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	return l.writeTotals(ctx, inv, items, payments)
}

// writeTotals derives totals and status from the given items and payments
// and persists them under the optimistic version check. A negative derived
// balance means the store holds more payment than invoice; it is reported,
// never written. Callers must hold the invoice lock.
func (l *Ledger) writeTotals(ctx context.Context, inv *Invoice, items []InvoiceItem, payments []Payment) (*Invoice, error) {
	totals := ComputeTotals(items, payments)
	if totals.BalanceDue.IsNegative() {
		return nil, fmt.Errorf("%w: payments on invoice %d total %s against invoice total %s",
			ErrOverpayment, inv.ID, totals.AmountPaid.StringFixed(2), totals.TotalAmount.StringFixed(2))
	}
	status := NextStatus(inv.Status, totals, inv.DueDate, time.Now().UTC())

	update := fmt.Sprintf(`UPDATE invoices SET subtotal = %s, tax_amount = %s, total_amount = %s, amount_paid = %s, balance_due = %s, status = %s, version = %s, updated_at = %s WHERE id = %s AND version = %s`,
		rdbms.Money(totals.Subtotal),
		rdbms.Money(totals.TaxAmount),
		rdbms.Money(totals.TotalAmount),
		rdbms.Money(totals.AmountPaid),
		rdbms.Money(totals.BalanceDue),
		rdbms.Quote(string(status)),
		rdbms.Int(inv.Version+1),
		rdbms.Timestamp(time.Now().UTC()),
		rdbms.Int(inv.ID),
		rdbms.Int(inv.Version),
	)
	if _, err := l.db.Execute(ctx, update); err != nil {
		return nil, fmt.Errorf("write invoice totals: %w", err)
	}
	if err := l.verifyVersion(ctx, inv.ID, inv.Version+1); err != nil {
		return nil, err
	}

	inv.Subtotal = totals.Subtotal
	inv.TaxAmount = totals.TaxAmount
	inv.TotalAmount = totals.TotalAmount
	inv.AmountPaid = totals.AmountPaid
	inv.BalanceDue = totals.BalanceDue
	inv.Status = status
	inv.Version++
	return inv, nil
}

// writeStatus writes an explicit status marker with the same optimistic
// version discipline as recompute.
func (l *Ledger) writeStatus(ctx context.Context, inv *Invoice, status InvoiceStatus) error {
	update := fmt.Sprintf("UPDATE invoices SET status = %s, version = %s, updated_at = %s WHERE id = %s AND version = %s",
		rdbms.Quote(string(status)),
		rdbms.Int(inv.Version+1),
		rdbms.Timestamp(time.Now().UTC()),
		rdbms.Int(inv.ID),
		rdbms.Int(inv.Version),
	)
	if _, err := l.db.Execute(ctx, update); err != nil {
		return fmt.Errorf("write invoice status: %w", err)
	}
	return l.verifyVersion(ctx, inv.ID, inv.Version+1)
}

// verifyVersion confirms the versioned update landed. The engine does not
// report affected-row counts, so a re-read stands in for them.
func (l *Ledger) verifyVersion(ctx context.Context, invoiceID, want int) error {
	res, err := l.db.Execute(ctx, fmt.Sprintf(
		"SELECT version FROM invoices WHERE id = %s", rdbms.Int(invoiceID)))
	if err != nil {
		return fmt.Errorf("verify invoice version: %w", err)
	}
	if len(res.Data) == 0 {
		return ErrNotFound
	}
	if got := res.Data[0].Int("version"); got != want {
		return fmt.Errorf("%w: invoice %d at version %d, expected %d",
			ErrConflict, invoiceID, got, want)
	}
	return nil
}

func (l *Ledger) fetchInvoice(ctx context.Context, invoiceID int) (*Invoice, error) {
	res, err := l.db.Execute(ctx, fmt.Sprintf(
		"SELECT * FROM invoices WHERE id = %s", rdbms.Int(invoiceID)))
	if err != nil {
		return nil, fmt.Errorf("fetch invoice %d: %w", invoiceID, err)
	}
	if len(res.Data) == 0 {
		return nil, ErrNotFound
	}
	return invoiceFromRow(res.Data[0]), nil
}

func (l *Ledger) FetchItems(ctx context.Context, invoiceID int) ([]InvoiceItem, error) {
	res, err := l.db.Execute(ctx, fmt.Sprintf(
		"SELECT * FROM invoice_items WHERE invoice_id = %s ORDER BY id", rdbms.Int(invoiceID)))
	if err != nil {
		return nil, fmt.Errorf("fetch invoice items: %w", err)
	}
	items := make([]InvoiceItem, 0, len(res.Data))
	for _, row := range res.Data {
		items = append(items, itemFromRow(row))
	}
	return items, nil
}

func (l *Ledger) FetchPayments(ctx context.Context, invoiceID int) ([]Payment, error) {
	res, err := l.db.Execute(ctx, fmt.Sprintf(
		"SELECT * FROM payments WHERE invoice_id = %s ORDER BY id", rdbms.Int(invoiceID)))
	if err != nil {
		return nil, fmt.Errorf("fetch payments: %w", err)
	}
	payments := make([]Payment, 0, len(res.Data))
	for _, row := range res.Data {
		payments = append(payments, paymentFromRow(row))
	}
	return payments, nil
}

// nextID allocates the next primary key for a table. The engine has no
// sequences; MAX(id)+1 under the invoice lock matches how the store is
// actually operated.
func (l *Ledger) nextID(ctx context.Context, table string) (int, error) {
	res, err := l.db.Execute(ctx, fmt.Sprintf(
		"SELECT COALESCE(MAX(id), 0) + 1 AS next_id FROM %s", table))
	if err != nil {
		return 0, fmt.Errorf("allocate id for %s: %w", table, err)
	}
	id := res.ScalarInt("next_id")
	if id <= 0 {
		id = 1
	}
	return id, nil
}
