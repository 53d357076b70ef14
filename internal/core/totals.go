package core

import (
	"time"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// DeriveItem fills the derived monetary fields on an item:
// amount = quantity × unit_price, tax_amount = amount × tax_rate/100,
// total_amount = amount + tax_amount. All rounded to 2 fractional digits.
func DeriveItem(it *InvoiceItem) {
	it.Amount = it.Quantity.Mul(it.UnitPrice).Round(2)
	it.TaxAmount = it.Amount.Mul(it.TaxRate).Div(hundred).Round(2)
	it.TotalAmount = it.Amount.Add(it.TaxAmount)
}

// validateItem rejects malformed line input before any write happens.
func validateItem(pos int, in ItemInput) error {
	if in.Description == "" {
		return validationf("items", "item %d: description is required", pos+1)
	}
	if !in.Quantity.IsPositive() {
		return validationf("items", "item %d: quantity must be positive", pos+1)
	}
	if in.UnitPrice.IsNegative() {
		return validationf("items", "item %d: unit price cannot be negative", pos+1)
	}
	if in.TaxRate.IsNegative() {
		return validationf("items", "item %d: tax rate cannot be negative", pos+1)
	}
	return nil
}

// Totals is the full set of derived monetary fields for one invoice.
type Totals struct {
	Subtotal    decimal.Decimal
	TaxAmount   decimal.Decimal
	TotalAmount decimal.Decimal
	AmountPaid  decimal.Decimal
	BalanceDue  decimal.Decimal
}

// ComputeTotals derives the invoice ledger from its current items and
// payments. Deterministic and idempotent: same inputs, same totals.
func ComputeTotals(items []InvoiceItem, payments []Payment) Totals {
	t := Totals{
		Subtotal:    decimal.Zero,
		TaxAmount:   decimal.Zero,
		TotalAmount: decimal.Zero,
		AmountPaid:  decimal.Zero,
		BalanceDue:  decimal.Zero,
	}
	for i := range items {
		DeriveItem(&items[i])
		t.Subtotal = t.Subtotal.Add(items[i].Amount)
		t.TaxAmount = t.TaxAmount.Add(items[i].TaxAmount)
	}
	t.TotalAmount = t.Subtotal.Add(t.TaxAmount)
	for _, p := range payments {
		t.AmountPaid = t.AmountPaid.Add(p.Amount)
	}
	t.BalanceDue = t.TotalAmount.Sub(t.AmountPaid)
	return t
}

// NextStatus is the status transition function, evaluated after every
// recompute.
//
//   - void is terminal and sticky.
//   - draft is only left through an explicit mark-as-sent; recompute never
//     promotes out of it.
//   - from sent onward the state follows the balance: zero → paid, partially
//     paid → partial, untouched and past due → overdue (not sticky, it
//     reverts as soon as payments land), untouched and not yet due → sent.
func NextStatus(current InvoiceStatus, t Totals, dueDate, today time.Time) InvoiceStatus {
	switch current {
	case StatusVoid:
		return StatusVoid
	case StatusDraft:
		return StatusDraft
	}

	switch {
	case !t.BalanceDue.IsPositive():
		return StatusPaid
	case t.BalanceDue.LessThan(t.TotalAmount):
		return StatusPartial
	default:
		if dateOnly(dueDate).Before(dateOnly(today)) {
			return StatusOverdue
		}
		return StatusSent
	}
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
