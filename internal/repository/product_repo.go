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

// ProductRepo is a SQLite implementation of ProductRepository
type ProductRepo struct {
	db db.Querier
}

// NewProductRepo creates a new ProductRepo
func NewProductRepo(q db.Querier) *ProductRepo {
	return &ProductRepo{db: q}
}

const productColumns = `id, name, hsn_code, gst_rate, price, stock_quantity, min_stock_level, created_at, updated_at`

// Create inserts a new product
func (r *ProductRepo) Create(ctx context.Context, product *domain.Product) error {
	if err := product.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO products (name, hsn_code, gst_rate, price, stock_quantity, min_stock_level, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		product.Name,
		product.HSNCode,
		int(product.Rate),
		product.Price,
		product.StockQuantity,
		product.MinStockLevel,
		product.CreatedAt.Format(timeLayout),
		product.UpdatedAt.Format(timeLayout),
	)
	if err != nil {
		if cerr := constraintError(err, domain.ErrDuplicateName, nil); cerr != nil {
			return fmt.Errorf("product %q: %w", product.Name, cerr)
		}
		return persistenceError("create product", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return persistenceError("get product ID", err)
	}

	product.ID = id
	return nil
}

// GetByID retrieves a product by ID
func (r *ProductRepo) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = ?`

	product, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("product %d: %w", id, domain.ErrProductNotFound)
		}
		return nil, persistenceError("get product", err)
	}
	return product, nil
}

// GetByName retrieves a product by its unique name
func (r *ProductRepo) GetByName(ctx context.Context, name string) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE name = ?`

	product, err := scanProduct(r.db.QueryRowContext(ctx, query, name))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("product %q: %w", name, domain.ErrProductNotFound)
		}
		return nil, persistenceError("get product", err)
	}
	return product, nil
}

// List returns every product ordered by name
func (r *ProductRepo) List(ctx context.Context) ([]*domain.Product, error) {
	return r.list(ctx, `SELECT `+productColumns+` FROM products ORDER BY name`)
}

// ListLowStock returns products at or below their minimum stock level
func (r *ProductRepo) ListLowStock(ctx context.Context) ([]*domain.Product, error) {
	return r.list(ctx, `
		SELECT `+productColumns+`
		FROM products
		WHERE stock_quantity <= min_stock_level
		ORDER BY stock_quantity, name
	`)
}

func (r *ProductRepo) list(ctx context.Context, query string) ([]*domain.Product, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, persistenceError("list products", err)
	}
	defer rows.Close()

	var products []*domain.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, persistenceError("scan product", err)
		}
		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, persistenceError("iterate products", err)
	}
	return products, nil
}

// Update updates an existing product. Line items already added to a ledger
// or invoice keep the price and rate they were captured with.
func (r *ProductRepo) Update(ctx context.Context, product *domain.Product) error {
	if err := product.Validate(); err != nil {
		return err
	}
	product.UpdatedAt = time.Now()

	query := `
		UPDATE products
		SET name = ?, hsn_code = ?, gst_rate = ?, price = ?, stock_quantity = ?, min_stock_level = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		product.Name,
		product.HSNCode,
		int(product.Rate),
		product.Price,
		product.StockQuantity,
		product.MinStockLevel,
		product.UpdatedAt.Format(timeLayout),
		product.ID,
	)
	if err != nil {
		if cerr := constraintError(err, domain.ErrDuplicateName, nil); cerr != nil {
			return fmt.Errorf("product %q: %w", product.Name, cerr)
		}
		return persistenceError("update product", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return persistenceError("get rows affected", err)
	}
	if rows == 0 {
		return fmt.Errorf("product %d: %w", product.ID, domain.ErrProductNotFound)
	}
	return nil
}

// Delete removes a product no invoice item references
func (r *ProductRepo) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM products WHERE id = ?", id)
	if err != nil {
		if cerr := constraintError(err, nil, domain.ErrProductInUse); cerr != nil {
			return fmt.Errorf("product %d: %w", id, cerr)
		}
		return persistenceError("delete product", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return persistenceError("get rows affected", err)
	}
	if rows == 0 {
		return fmt.Errorf("product %d: %w", id, domain.ErrProductNotFound)
	}
	return nil
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	product := &domain.Product{}
	var rate int
	var createdAt, updatedAt string

	if err := row.Scan(
		&product.ID,
		&product.Name,
		&product.HSNCode,
		&rate,
		&product.Price,
		&product.StockQuantity,
		&product.MinStockLevel,
		&createdAt,
		&updatedAt,
	); err != nil {
		return nil, err
	}
	product.Rate = domain.TaxRate(rate)

	var err error
	if product.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if product.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("failed to parse updated_at: %w", err)
	}
	return product, nil
}
