package core_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"invoicing-app/internal/core"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestDeriveItem(t *testing.T) {
	it := core.InvoiceItem{
		Quantity:  dec("3"),
		UnitPrice: dec("199.99"),
		TaxRate:   dec("16"),
	}
	core.DeriveItem(&it)

	assert.Equal(t, "599.97", it.Amount.StringFixed(2))
	assert.Equal(t, "96.00", it.TaxAmount.StringFixed(2)) // 95.9952 rounded
	assert.Equal(t, "695.97", it.TotalAmount.StringFixed(2))
}

func TestComputeTotals(t *testing.T) {
	items := []core.InvoiceItem{
		{Quantity: dec("1"), UnitPrice: dec("1000"), TaxRate: dec("10")},
		{Quantity: dec("1"), UnitPrice: dec("500"), TaxRate: dec("10")},
	}
	payments := []core.Payment{
		{Amount: dec("650.00")},
	}

	got := core.ComputeTotals(items, payments)

	assert.Equal(t, "1500.00", got.Subtotal.StringFixed(2))
	assert.Equal(t, "150.00", got.TaxAmount.StringFixed(2))
	assert.Equal(t, "1650.00", got.TotalAmount.StringFixed(2))
	assert.Equal(t, "650.00", got.AmountPaid.StringFixed(2))
	assert.Equal(t, "1000.00", got.BalanceDue.StringFixed(2))
}

func TestComputeTotals_Idempotent(t *testing.T) {
	items := []core.InvoiceItem{
		{Quantity: dec("2"), UnitPrice: dec("490.00"), TaxRate: dec("10")},
	}
	first := core.ComputeTotals(items, nil)
	second := core.ComputeTotals(items, nil)

	assert.True(t, first.TotalAmount.Equal(second.TotalAmount))
	assert.True(t, first.BalanceDue.Equal(second.BalanceDue))
	assert.Equal(t, "1078.00", first.TotalAmount.StringFixed(2))
}

func TestComputeTotals_Empty(t *testing.T) {
	got := core.ComputeTotals(nil, nil)
	assert.Equal(t, "0.00", got.TotalAmount.StringFixed(2))
	assert.Equal(t, "0.00", got.BalanceDue.StringFixed(2))
}

func TestNextStatus(t *testing.T) {
	now := time.Now()
	past := now.AddDate(0, 0, -10)
	future := now.AddDate(0, 0, 10)

	totals := func(total, paid string) core.Totals {
		tot := dec(total)
		p := dec(paid)
		return core.Totals{
			TotalAmount: tot,
			AmountPaid:  p,
			BalanceDue:  tot.Sub(p),
		}
	}

	tests := []struct {
		name    string
		current core.InvoiceStatus
		totals  core.Totals
		due     time.Time
		want    core.InvoiceStatus
	}{
		{"void is sticky", core.StatusVoid, totals("100", "100"), past, core.StatusVoid},
		{"draft is never promoted", core.StatusDraft, totals("100", "100"), past, core.StatusDraft},
		{"sent unpaid before due stays sent", core.StatusSent, totals("1078.00", "0"), future, core.StatusSent},
		{"sent unpaid past due goes overdue", core.StatusSent, totals("1078.00", "0"), past, core.StatusOverdue},
		{"sent due today stays sent", core.StatusSent, totals("100", "0"), now, core.StatusSent},
		{"partial payment", core.StatusSent, totals("1650.00", "650.00"), future, core.StatusPartial},
		{"partial payment past due", core.StatusSent, totals("1650.00", "650.00"), past, core.StatusPartial},
		{"overdue reverts on full payment", core.StatusOverdue, totals("1078.00", "1078.00"), past, core.StatusPaid},
		{"overdue reverts to partial on payment", core.StatusOverdue, totals("1078.00", "500.00"), past, core.StatusPartial},
		{"paid stays paid", core.StatusPaid, totals("100", "100"), past, core.StatusPaid},
		{"sent with zero total resolves paid", core.StatusSent, totals("0", "0"), future, core.StatusPaid},
		{"overpaid never goes negative-pending", core.StatusSent, totals("100", "150"), future, core.StatusPaid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := core.NextStatus(tt.current, tt.totals, tt.due, now)
			assert.Equal(t, tt.want, got)
		})
	}
}
