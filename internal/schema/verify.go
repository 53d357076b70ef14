package schema

import (
	"context"
	"errors"
	"fmt"
	"time"

	"invoicing-app/internal/core"
	"invoicing-app/internal/rdbms"
)

// Verify re-derives every invoice's totals from its stored items and
// payments and reports any row whose stored figures or status disagree.
// Draft and void invoices are checked for totals only, since their status
// does not follow the balance.
func Verify(ctx context.Context, db rdbms.Executor) error {
	res, err := db.Execute(ctx, "SELECT * FROM invoices ORDER BY id")
	if err != nil {
		return fmt.Errorf("list invoices: %w", err)
	}

	ledger := core.NewLedger(db)
	now := time.Now().UTC()
	var problems []error

	for _, row := range res.Data {
		id := row.Int("id")
		items, err := ledger.FetchItems(ctx, id)
		if err != nil {
			return err
		}
		payments, err := ledger.FetchPayments(ctx, id)
		if err != nil {
			return err
		}

		totals := core.ComputeTotals(items, payments)
		checks := []struct {
			field  string
			stored string
			want   string
		}{
			{"subtotal", row.Decimal("subtotal").StringFixed(2), totals.Subtotal.StringFixed(2)},
			{"tax_amount", row.Decimal("tax_amount").StringFixed(2), totals.TaxAmount.StringFixed(2)},
			{"total_amount", row.Decimal("total_amount").StringFixed(2), totals.TotalAmount.StringFixed(2)},
			{"amount_paid", row.Decimal("amount_paid").StringFixed(2), totals.AmountPaid.StringFixed(2)},
			{"balance_due", row.Decimal("balance_due").StringFixed(2), totals.BalanceDue.StringFixed(2)},
		}
		for _, c := range checks {
			if c.stored != c.want {
				problems = append(problems, fmt.Errorf(
					"invoice %d: %s is %s, derived %s", id, c.field, c.stored, c.want))
			}
		}

		stored := core.InvoiceStatus(row.String("status"))
		if stored != core.StatusDraft && stored != core.StatusVoid {
			want := core.NextStatus(stored, totals, row.Time("due_date"), now)
			if stored != want {
				problems = append(problems, fmt.Errorf(
					"invoice %d: status is %q, derived %q", id, stored, want))
			}
		}
	}

	return errors.Join(problems...)
}
