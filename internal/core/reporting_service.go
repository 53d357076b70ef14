package core

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"invoicing-app/internal/rdbms"
)

// DashboardStats is the per-user summary shown on the dashboard.
type DashboardStats struct {
	CustomerCount    int
	InvoiceCount     int
	TotalOutstanding decimal.Decimal
	TotalPaid        decimal.Decimal
}

// ReportingService aggregates per-user figures. Read-only; every query is
// scoped to the owning user.
type ReportingService struct {
	db rdbms.Executor
}

// NewReportingService constructs a ReportingService over the shared storage client.
func NewReportingService(db rdbms.Executor) *ReportingService {
	return &ReportingService{db: db}
}

// DashboardStats computes the headline numbers for one user. The engine
// has no nested selects, so each figure is its own query.
func (s *ReportingService) DashboardStats(ctx context.Context, userID int) (*DashboardStats, error) {
	stats := &DashboardStats{
		TotalOutstanding: decimal.Zero,
		TotalPaid:        decimal.Zero,
	}
	uid := rdbms.Int(userID)

	res, err := s.db.Execute(ctx, fmt.Sprintf(
		"SELECT COUNT(*) AS count FROM customers WHERE user_id = %s", uid))
	if err != nil {
		return nil, fmt.Errorf("count customers: %w", err)
	}
	stats.CustomerCount = res.ScalarInt("count", "total")

	res, err = s.db.Execute(ctx, fmt.Sprintf(
		"SELECT COUNT(*) AS count FROM invoices WHERE user_id = %s", uid))
	if err != nil {
		return nil, fmt.Errorf("count invoices: %w", err)
	}
	stats.InvoiceCount = res.ScalarInt("count", "total")

	res, err = s.db.Execute(ctx, fmt.Sprintf(
		"SELECT SUM(balance_due) AS total FROM invoices WHERE user_id = %s AND status != 'paid' AND status != 'void' AND status != 'draft'", uid))
	if err != nil {
		return nil, fmt.Errorf("sum outstanding: %w", err)
	}
	stats.TotalOutstanding = res.ScalarDecimal("total", "sum")

	res, err = s.db.Execute(ctx, fmt.Sprintf(
		"SELECT SUM(amount_paid) AS total FROM invoices WHERE user_id = %s AND status != 'void'", uid))
	if err != nil {
		return nil, fmt.Errorf("sum paid: %w", err)
	}
	stats.TotalPaid = res.ScalarDecimal("total", "sum")

	return stats, nil
}
