package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/andy/gstbill/internal/db"
	"github.com/andy/gstbill/internal/domain"
)

// PurchaseRepo is a SQLite implementation of PurchaseRepository
type PurchaseRepo struct {
	db db.Querier
}

// NewPurchaseRepo creates a new PurchaseRepo
func NewPurchaseRepo(q db.Querier) *PurchaseRepo {
	return &PurchaseRepo{db: q}
}

const purchaseColumns = `p.id, p.bill_number, p.purchase_date, p.vendor_id, p.product_name, p.hsn_code, p.quantity,
	p.unit_price, p.gst_rate, p.taxable_value, p.tax_amount, p.line_total, p.created_at, v.name, v.gstin`

// Create inserts a new purchase
func (r *PurchaseRepo) Create(ctx context.Context, purchase *domain.Purchase) error {
	if err := purchase.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO purchases (
			bill_number, purchase_date, vendor_id, product_name, hsn_code, quantity,
			unit_price, gst_rate, taxable_value, tax_amount, line_total, created_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		purchase.BillNumber,
		formatDate(purchase.Date),
		purchase.VendorID,
		purchase.ProductName,
		purchase.HSNCode,
		purchase.Quantity,
		purchase.UnitPrice,
		int(purchase.Rate),
		purchase.TaxableValue,
		purchase.TaxAmount,
		purchase.LineTotal,
		purchase.CreatedAt.Format(timeLayout),
	)
	if err != nil {
		if cerr := constraintError(err, nil, domain.ErrUnknownParty); cerr != nil {
			return fmt.Errorf("vendor %d: %w", purchase.VendorID, cerr)
		}
		return persistenceError("create purchase", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return persistenceError("get purchase ID", err)
	}

	purchase.ID = id
	return nil
}

// GetByID retrieves a purchase by ID
func (r *PurchaseRepo) GetByID(ctx context.Context, id int64) (*domain.Purchase, error) {
	query := `
		SELECT ` + purchaseColumns + `
		FROM purchases p
		JOIN vendors v ON v.id = p.vendor_id
		WHERE p.id = ?
	`

	purchase, err := scanPurchase(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("purchase %d: %w", id, domain.ErrNotFound)
		}
		return nil, persistenceError("get purchase", err)
	}
	return purchase, nil
}

// List returns purchases dated within [from, to], oldest first
func (r *PurchaseRepo) List(ctx context.Context, from, to *time.Time) ([]*domain.Purchase, error) {
	where, args := dateRange("p.purchase_date", from, to)
	query := `
		SELECT ` + purchaseColumns + `
		FROM purchases p
		JOIN vendors v ON v.id = p.vendor_id
		WHERE 1 = 1` + where + `
		ORDER BY p.purchase_date, p.bill_number, p.id
	`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, persistenceError("list purchases", err)
	}
	defer rows.Close()

	var purchases []*domain.Purchase
	for rows.Next() {
		purchase, err := scanPurchase(rows)
		if err != nil {
			return nil, persistenceError("scan purchase", err)
		}
		purchases = append(purchases, purchase)
	}

	if err := rows.Err(); err != nil {
		return nil, persistenceError("iterate purchases", err)
	}
	return purchases, nil
}

// Delete removes a purchase
func (r *PurchaseRepo) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM purchases WHERE id = ?", id)
	if err != nil {
		return persistenceError("delete purchase", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return persistenceError("get rows affected", err)
	}
	if rows == 0 {
		return fmt.Errorf("purchase %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

func scanPurchase(row rowScanner) (*domain.Purchase, error) {
	p := &domain.Purchase{Vendor: &domain.Party{Kind: domain.PartyVendor}}
	var date, createdAt string
	var rate int

	if err := row.Scan(
		&p.ID,
		&p.BillNumber,
		&date,
		&p.VendorID,
		&p.ProductName,
		&p.HSNCode,
		&p.Quantity,
		&p.UnitPrice,
		&rate,
		&p.TaxableValue,
		&p.TaxAmount,
		&p.LineTotal,
		&createdAt,
		&p.Vendor.Name,
		&p.Vendor.GSTIN,
	); err != nil {
		return nil, err
	}
	p.Rate = domain.TaxRate(rate)
	p.Vendor.ID = p.VendorID

	var err error
	if p.Date, err = parseDate(date); err != nil {
		return nil, fmt.Errorf("failed to parse purchase_date: %w", err)
	}
	if p.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("failed to parse created_at: %w", err)
	}
	return p, nil
}
