package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/andy/gstbill/internal/db"
	"github.com/andy/gstbill/internal/domain"
)

// ReportRepo is a SQLite implementation of ReportRepository
type ReportRepo struct {
	db db.Querier
}

// NewReportRepo creates a new ReportRepo
func NewReportRepo(q db.Querier) *ReportRepo {
	return &ReportRepo{db: q}
}

// OutwardSupplies returns one row per invoice line for invoices dated in
// [from, to], ordered by date, invoice number, then line.
func (r *ReportRepo) OutwardSupplies(ctx context.Context, from, to time.Time) ([]domain.SupplyRow, error) {
	query := `
		SELECT i.invoice_number, i.invoice_date, c.gstin, c.name,
		       COALESCE(NULLIF(it.hsn_code, ''), p.hsn_code, ''),
		       it.quantity, it.unit_price, it.gst_rate, it.tax_amount, it.line_total
		FROM invoices i
		JOIN customers c ON c.id = i.customer_id
		JOIN invoice_items it ON it.invoice_id = i.id
		LEFT JOIN products p ON p.id = it.product_id
		WHERE i.invoice_date BETWEEN ? AND ?
		ORDER BY i.invoice_date, i.invoice_number, it.id
	`
	return r.supplyRows(ctx, "outward supplies", query, from, to)
}

// InwardSupplies returns one row per purchase dated in [from, to], ordered
// by date, bill number, then record.
func (r *ReportRepo) InwardSupplies(ctx context.Context, from, to time.Time) ([]domain.SupplyRow, error) {
	query := `
		SELECT p.bill_number, p.purchase_date, v.gstin, v.name, p.hsn_code,
		       p.quantity, p.unit_price, p.gst_rate, p.tax_amount, p.line_total
		FROM purchases p
		JOIN vendors v ON v.id = p.vendor_id
		WHERE p.purchase_date BETWEEN ? AND ?
		ORDER BY p.purchase_date, p.bill_number, p.id
	`
	return r.supplyRows(ctx, "inward supplies", query, from, to)
}

func (r *ReportRepo) supplyRows(ctx context.Context, what, query string, from, to time.Time) ([]domain.SupplyRow, error) {
	rows, err := r.db.QueryContext(ctx, query, formatDate(from), formatDate(to))
	if err != nil {
		return nil, persistenceError("query "+what, err)
	}
	defer rows.Close()

	out := []domain.SupplyRow{}
	for rows.Next() {
		var row domain.SupplyRow
		var date string
		var rate int
		if err := rows.Scan(
			&row.DocumentNumber,
			&date,
			&row.GSTIN,
			&row.PartyName,
			&row.HSNCode,
			&row.Quantity,
			&row.UnitPrice,
			&rate,
			&row.TaxAmount,
			&row.LineTotal,
		); err != nil {
			return nil, persistenceError("scan "+what, err)
		}
		row.Rate = domain.TaxRate(rate)
		if row.Date, err = parseDate(date); err != nil {
			return nil, persistenceError("scan "+what, fmt.Errorf("failed to parse date: %w", err))
		}
		out = append(out, row)
	}

	if err := rows.Err(); err != nil {
		return nil, persistenceError("iterate "+what, err)
	}
	return out, nil
}

// StockMovements merges sold lines (OUT) and purchases (IN), newest first.
// A limit of zero or less returns every movement.
func (r *ReportRepo) StockMovements(ctx context.Context, limit int) ([]domain.StockMovement, error) {
	query := `
		SELECT moved_on, product_name, direction, quantity, reference FROM (
			SELECT i.invoice_date AS moved_on, it.product_name AS product_name, 'OUT' AS direction,
			       it.quantity AS quantity, i.invoice_number AS reference, it.id AS seq
			FROM invoice_items it
			JOIN invoices i ON i.id = it.invoice_id
			UNION ALL
			SELECT p.purchase_date, p.product_name, 'IN', p.quantity, p.bill_number, p.id
			FROM purchases p
		)
		ORDER BY moved_on DESC, direction, seq DESC
	`
	var (
		rows *sql.Rows
		err  error
	)
	if limit > 0 {
		rows, err = r.db.QueryContext(ctx, query+" LIMIT ?", limit)
	} else {
		rows, err = r.db.QueryContext(ctx, query)
	}
	if err != nil {
		return nil, persistenceError("query stock movements", err)
	}
	defer rows.Close()

	var out []domain.StockMovement
	for rows.Next() {
		var m domain.StockMovement
		var date, dir string
		if err := rows.Scan(&date, &m.ProductName, &dir, &m.Quantity, &m.Reference); err != nil {
			return nil, persistenceError("scan stock movement", err)
		}
		m.Direction = domain.MovementDirection(dir)
		if m.Date, err = parseDate(date); err != nil {
			return nil, persistenceError("scan stock movement", fmt.Errorf("failed to parse date: %w", err))
		}
		out = append(out, m)
	}

	if err := rows.Err(); err != nil {
		return nil, persistenceError("iterate stock movements", err)
	}
	return out, nil
}
