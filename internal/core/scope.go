package core

import (
	"context"
	"fmt"

	"invoicing-app/internal/rdbms"
)

// Scope is the authorization filter: every data access is bound to the
// session's user before it reaches storage. A row owned by someone else
// fails with ErrNotFound rather than Forbidden so existence is not leaked.
// Items and payments inherit their parent invoice's owner.
type Scope struct {
	db rdbms.Executor
}

// NewScope builds the filter over the shared storage client.
func NewScope(db rdbms.Executor) Scope {
	return Scope{db: db}
}

// CustomerOwned fails with ErrNotFound unless customerID belongs to userID.
func (s Scope) CustomerOwned(ctx context.Context, userID, customerID int) error {
	return s.owned(ctx, "customers", userID, customerID)
}

// InvoiceOwned fails with ErrNotFound unless invoiceID belongs to userID.
// The redundant user_id on the invoice row makes this a single-table probe.
func (s Scope) InvoiceOwned(ctx context.Context, userID, invoiceID int) error {
	return s.owned(ctx, "invoices", userID, invoiceID)
}

func (s Scope) owned(ctx context.Context, table string, userID, id int) error {
	query := fmt.Sprintf("SELECT id FROM %s WHERE id = %s AND user_id = %s",
		table, rdbms.Int(id), rdbms.Int(userID))
	res, err := s.db.Execute(ctx, query)
	if err != nil {
		return fmt.Errorf("ownership check on %s: %w", table, err)
	}
	if len(res.Data) == 0 {
		return ErrNotFound
	}
	return nil
}
