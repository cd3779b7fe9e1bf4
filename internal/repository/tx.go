package repository

import (
	"context"
	"database/sql"

	"github.com/andy/gstbill/internal/db"
)

// NewRepos binds every repository to q.
func NewRepos(q db.Querier) Repos {
	return Repos{
		Customers: NewCustomerRepo(q),
		Vendors:   NewVendorRepo(q),
		Products:  NewProductRepo(q),
		Invoices:  NewInvoiceRepo(q),
		Purchases: NewPurchaseRepo(q),
	}
}

// SQLTxRunner runs work inside a database transaction
type SQLTxRunner struct {
	db *db.DB
}

// NewTxRunner creates a new SQLTxRunner
func NewTxRunner(database *db.DB) *SQLTxRunner {
	return &SQLTxRunner{db: database}
}

// WithinTx commits when fn returns nil and rolls back otherwise. Errors that
// do not already carry a domain class are reported as persistence errors.
func (r *SQLTxRunner) WithinTx(ctx context.Context, fn func(repos Repos) error) error {
	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		return fn(NewRepos(tx))
	})
	if err != nil {
		return persistenceError("run transaction", err)
	}
	return nil
}
