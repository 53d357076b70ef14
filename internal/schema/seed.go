package schema

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"invoicing-app/internal/core"
	"invoicing-app/internal/rdbms"
)

// Demo account credentials baked into the seed.
const (
	DemoEmail    = "demo@example.com"
	DemoUsername = "demo"
	DemoPassword = "demo123"
)

type seedItem struct {
	description string
	quantity    string
	unitPrice   string
	taxRate     string
}

type seedPayment struct {
	amount  string
	method  string
	daysAgo int
}

type seedInvoice struct {
	customerID int
	issuedDays int // days before now
	dueDays    int // days after issue; negative due dates make overdue fixtures
	sent       bool
	void       bool
	notes      string
	items      []seedItem
	payments   []seedPayment
}

// Seed returns the INSERT statements for the demo dataset. Every stored
// total, balance and status is derived through the same functions the
// ledger uses at runtime, so the dataset is consistent by construction.
// Dates are anchored to now, keeping the overdue fixture overdue forever.
func Seed(now time.Time) ([]string, error) {
	now = now.UTC()
	hash, err := core.HashPassword(DemoPassword)
	if err != nil {
		return nil, fmt.Errorf("hash demo password: %w", err)
	}

	stmts := []string{
		fmt.Sprintf("INSERT INTO users VALUES (1, %s, %s, %s, 'Demo User', 'Demo Company Ltd', %s, NULL, TRUE)",
			rdbms.Quote(DemoUsername), rdbms.Quote(DemoEmail), rdbms.Quote(hash), rdbms.Timestamp(now)),
	}

	customers := []struct {
		id                  int
		name, email, phone  string
		city, country, note string
	}{
		{1, "Safari Traders Ltd", "accounts@safaritraders.co.ke", "+254700111222", "Nairobi", "Kenya", "Net 30 terms"},
		{2, "Mombasa Logistics", "billing@momlog.co.ke", "+254711333444", "Mombasa", "Kenya", ""},
		{3, "Rift Valley Coffee", "finance@rvcoffee.co.ke", "+254722555666", "Nakuru", "Kenya", "Prefers bank transfer"},
	}
	for _, c := range customers {
		stmts = append(stmts, fmt.Sprintf(
			"INSERT INTO customers VALUES (%d, 1, %s, %s, %s, '', %s, %s, '', %s, %s, %s)",
			c.id, rdbms.Quote(c.name), rdbms.Quote(c.email), rdbms.Quote(c.phone),
			rdbms.Quote(c.city), rdbms.Quote(c.country), rdbms.Quote(c.note),
			rdbms.Timestamp(now), rdbms.Timestamp(now)))
	}

	invoices := []seedInvoice{
		{ // draft, untouched by the status machine
			customerID: 1, issuedDays: 2, dueDays: 30,
			notes: "Quarterly consulting retainer",
			items: []seedItem{
				{"Consulting services", "10.00", "150.00", "16"},
				{"Travel expenses", "1.00", "85.50", "0"},
			},
		},
		{ // sent, not yet due, no payments; issued the same day as the
			// draft so the two share a date in their invoice numbers
			customerID: 2, issuedDays: 2, dueDays: 21, sent: true,
			notes: "Freight handling, August",
			items: []seedItem{
				{"Container handling", "4.00", "550.00", "16"},
			},
		},
		{ // partially paid
			customerID: 1, issuedDays: 10, dueDays: 30, sent: true,
			items: []seedItem{
				{"Website redesign", "1.00", "1000.00", "10"},
				{"Hosting, annual", "1.00", "500.00", "10"},
			},
			payments: []seedPayment{{"650.00", "mpesa", 3}},
		},
		{ // past due, untouched
			customerID: 3, issuedDays: 40, dueDays: 14, sent: true,
			items: []seedItem{
				{"Coffee tasting session", "2.00", "490.00", "10"},
			},
		},
		{ // settled in full
			customerID: 2, issuedDays: 60, dueDays: 30, sent: true,
			items: []seedItem{
				{"Customs clearance", "1.00", "750.00", "0"},
			},
			payments: []seedPayment{{"750.00", "bank_transfer", 35}},
		},
	}

	itemID, paymentID := 1, 1
	perDay := map[string]int{}
	for i, inv := range invoices {
		invoiceID := i + 1
		issue := now.AddDate(0, 0, -inv.issuedDays)
		due := issue.AddDate(0, 0, inv.dueDays)

		items := make([]core.InvoiceItem, 0, len(inv.items))
		for _, it := range inv.items {
			item := core.InvoiceItem{
				Quantity:  mustDecimal(it.quantity),
				UnitPrice: mustDecimal(it.unitPrice),
				TaxRate:   mustDecimal(it.taxRate),
			}
			core.DeriveItem(&item)
			items = append(items, item)
		}
		payments := make([]core.Payment, 0, len(inv.payments))
		for _, p := range inv.payments {
			payments = append(payments, core.Payment{Amount: mustDecimal(p.amount)})
		}

		totals := core.ComputeTotals(items, payments)
		status := core.StatusDraft
		if inv.sent {
			status = core.NextStatus(core.StatusSent, totals, due, now)
		}
		if inv.void {
			status = core.StatusVoid
		}

		// Sequence numbers restart per issue date, mirroring how the
		// runtime allocator numbers invoices.
		day := issue.Format("20060102")
		perDay[day]++
		number := fmt.Sprintf("INV-%s-%04d", day, perDay[day])
		stmts = append(stmts, fmt.Sprintf(
			"INSERT INTO invoices VALUES (%d, %d, 1, %s, %s, %s, %s, %s, %s, %s, %s, %s, 'KES', %s, '', 1, %s, %s)",
			invoiceID, inv.customerID,
			rdbms.Quote(number),
			rdbms.Date(issue), rdbms.Date(due),
			rdbms.Money(totals.Subtotal), rdbms.Money(totals.TaxAmount),
			rdbms.Money(totals.TotalAmount), rdbms.Money(totals.AmountPaid),
			rdbms.Money(totals.BalanceDue),
			rdbms.Quote(string(status)),
			rdbms.Quote(inv.notes),
			rdbms.Timestamp(issue), rdbms.Timestamp(now)))

		for j, it := range inv.items {
			stmts = append(stmts, fmt.Sprintf(
				"INSERT INTO invoice_items VALUES (%d, %d, %s, %s, %s, %s, %s, %s, %s, %s)",
				itemID, invoiceID,
				rdbms.Quote(it.description),
				items[j].Quantity.StringFixed(2),
				rdbms.Money(items[j].UnitPrice),
				rdbms.Rate(items[j].TaxRate),
				rdbms.Money(items[j].Amount),
				rdbms.Money(items[j].TaxAmount),
				rdbms.Money(items[j].TotalAmount),
				rdbms.Timestamp(issue)))
			itemID++
		}
		for _, p := range inv.payments {
			stmts = append(stmts, fmt.Sprintf(
				"INSERT INTO payments VALUES (%d, %d, %s, %s, %s, %s, '')",
				paymentID, invoiceID,
				p.amount,
				rdbms.Quote(p.method),
				rdbms.Quote(fmt.Sprintf("PAY-SEED-%04d", paymentID)),
				rdbms.Date(now.AddDate(0, 0, -p.daysAgo))))
			paymentID++
		}
	}

	return stmts, nil
}

func mustDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(fmt.Sprintf("bad seed literal %q: %v", s, err))
	}
	return d
}
