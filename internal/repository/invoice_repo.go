package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/andy/gstbill/internal/db"
	"github.com/andy/gstbill/internal/domain"
)

// InvoiceRepo is a SQLite implementation of InvoiceRepository
type InvoiceRepo struct {
	db db.Querier
}

// NewInvoiceRepo creates a new InvoiceRepo
func NewInvoiceRepo(q db.Querier) *InvoiceRepo {
	return &InvoiceRepo{db: q}
}

const invoiceColumns = `id, invoice_number, invoice_date, customer_id, subtotal, cgst, sgst, igst, grand_total, status, created_at`

// Create inserts the invoice header followed by its line items
func (r *InvoiceRepo) Create(ctx context.Context, invoice *domain.Invoice) error {
	if err := invoice.Validate(); err != nil {
		return fmt.Errorf("invalid invoice: %w", err)
	}

	query := `
		INSERT INTO invoices (
			invoice_number, invoice_date, customer_id,
			subtotal, cgst, sgst, igst, grand_total, status, created_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		invoice.InvoiceNumber,
		formatDate(invoice.Date),
		invoice.CustomerID,
		invoice.Subtotal,
		invoice.CGST,
		invoice.SGST,
		invoice.IGST,
		invoice.GrandTotal,
		string(invoice.Status),
		invoice.CreatedAt.Format(timeLayout),
	)
	if err != nil {
		if cerr := constraintError(err, domain.ErrDuplicateInvoiceNumber, domain.ErrUnknownParty); cerr != nil {
			return fmt.Errorf("invoice %s: %w", invoice.InvoiceNumber, cerr)
		}
		return persistenceError("create invoice", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return persistenceError("get invoice ID", err)
	}
	invoice.ID = id

	for i := range invoice.LineItems {
		item := &invoice.LineItems[i]
		item.InvoiceID = id
		if err := r.addLineItem(ctx, item); err != nil {
			return err
		}
	}

	return nil
}

func (r *InvoiceRepo) addLineItem(ctx context.Context, item *domain.LineItem) error {
	query := `
		INSERT INTO invoice_items (
			invoice_id, product_id, product_name, hsn_code, quantity,
			unit_price, gst_rate, taxable_value, tax_amount, line_total
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		item.InvoiceID,
		item.ProductID,
		item.ProductName,
		item.HSNCode,
		item.Quantity,
		item.UnitPrice,
		int(item.Rate),
		item.TaxableValue,
		item.TaxAmount,
		item.LineTotal,
	)
	if err != nil {
		if cerr := constraintError(err, nil, domain.ErrProductNotFound); cerr != nil {
			return fmt.Errorf("line item %q: %w", item.ProductName, cerr)
		}
		return persistenceError("add line item", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return persistenceError("get line item ID", err)
	}
	item.ID = id
	return nil
}

// GetByNumber retrieves an invoice by invoice number
func (r *InvoiceRepo) GetByNumber(ctx context.Context, number string) (*domain.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE invoice_number = ?`
	return r.getOne(ctx, "invoice "+number, query, number)
}

func (r *InvoiceRepo) getOne(ctx context.Context, label, query string, arg any) (*domain.Invoice, error) {
	invoice, err := scanInvoice(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", label, domain.ErrInvoiceNotFound)
		}
		return nil, persistenceError("get invoice", err)
	}

	items, err := r.GetLineItems(ctx, invoice.ID)
	if err != nil {
		return nil, err
	}
	invoice.LineItems = items
	return invoice, nil
}

// List returns invoice headers dated within [from, to], oldest first.
// A nil bound is open.
func (r *InvoiceRepo) List(ctx context.Context, from, to *time.Time) ([]*domain.Invoice, error) {
	where, args := dateRange("invoice_date", from, to)
	query := `
		SELECT ` + invoiceColumns + `
		FROM invoices
		WHERE 1 = 1` + where + `
		ORDER BY invoice_date, invoice_number
	`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, persistenceError("list invoices", err)
	}
	defer rows.Close()

	var invoices []*domain.Invoice
	for rows.Next() {
		invoice, err := scanInvoice(rows)
		if err != nil {
			return nil, persistenceError("scan invoice", err)
		}
		invoices = append(invoices, invoice)
	}

	if err := rows.Err(); err != nil {
		return nil, persistenceError("iterate invoices", err)
	}
	return invoices, nil
}

// GetLineItems retrieves the line items of an invoice in insertion order
func (r *InvoiceRepo) GetLineItems(ctx context.Context, invoiceID int64) ([]domain.LineItem, error) {
	query := `
		SELECT id, invoice_id, product_id, product_name, hsn_code, quantity,
		       unit_price, gst_rate, taxable_value, tax_amount, line_total
		FROM invoice_items
		WHERE invoice_id = ?
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query, invoiceID)
	if err != nil {
		return nil, persistenceError("get line items", err)
	}
	defer rows.Close()

	var items []domain.LineItem
	for rows.Next() {
		var item domain.LineItem
		var rate int
		if err := rows.Scan(
			&item.ID,
			&item.InvoiceID,
			&item.ProductID,
			&item.ProductName,
			&item.HSNCode,
			&item.Quantity,
			&item.UnitPrice,
			&rate,
			&item.TaxableValue,
			&item.TaxAmount,
			&item.LineTotal,
		); err != nil {
			return nil, persistenceError("scan line item", err)
		}
		item.Rate = domain.TaxRate(rate)
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, persistenceError("iterate line items", err)
	}
	return items, nil
}

// NextInvoiceNumber returns the next number in the form PREFIX-YEAR-NNNNN.
// The sequence is the highest numeric suffix used so far for that prefix
// and year plus one, so it never goes backwards. Run it in the same
// transaction as Create.
func (r *InvoiceRepo) NextInvoiceNumber(ctx context.Context, prefix string, year int) (string, error) {
	stem := fmt.Sprintf("%s-%d-", prefix, year)

	rows, err := r.db.QueryContext(ctx, `
		SELECT invoice_number
		FROM invoices
		WHERE substr(invoice_number, 1, ?) = ?
	`, len(stem), stem)
	if err != nil {
		return "", persistenceError("get last invoice number", err)
	}
	defer rows.Close()

	last := 0
	for rows.Next() {
		var number string
		if err := rows.Scan(&number); err != nil {
			return "", persistenceError("scan invoice number", err)
		}
		seq, err := strconv.Atoi(strings.TrimPrefix(number, stem))
		if err != nil {
			// manually assigned numbers outside the sequence
			continue
		}
		if seq > last {
			last = seq
		}
	}
	if err := rows.Err(); err != nil {
		return "", persistenceError("iterate invoice numbers", err)
	}

	return fmt.Sprintf("%s%05d", stem, last+1), nil
}

func scanInvoice(row rowScanner) (*domain.Invoice, error) {
	invoice := &domain.Invoice{}
	var date, status, createdAt string

	if err := row.Scan(
		&invoice.ID,
		&invoice.InvoiceNumber,
		&date,
		&invoice.CustomerID,
		&invoice.Subtotal,
		&invoice.CGST,
		&invoice.SGST,
		&invoice.IGST,
		&invoice.GrandTotal,
		&status,
		&createdAt,
	); err != nil {
		return nil, err
	}
	invoice.Status = domain.InvoiceStatus(status)

	var err error
	if invoice.Date, err = parseDate(date); err != nil {
		return nil, fmt.Errorf("failed to parse invoice_date: %w", err)
	}
	if invoice.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("failed to parse created_at: %w", err)
	}
	return invoice, nil
}
