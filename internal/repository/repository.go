package repository

import (
	"context"
	"time"

	"github.com/andy/gstbill/internal/domain"
)

// PartyRepository manages customers or vendors, depending on Kind.
type PartyRepository interface {
	Kind() domain.PartyKind
	Create(ctx context.Context, party *domain.Party) error
	GetByID(ctx context.Context, id int64) (*domain.Party, error)
	GetByName(ctx context.Context, name string) (*domain.Party, error)
	List(ctx context.Context) ([]*domain.Party, error)
	Update(ctx context.Context, party *domain.Party) error
	Delete(ctx context.Context, id int64) error // ErrPartyInUse when referenced
}

// ProductRepository manages the product catalogue
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	GetByName(ctx context.Context, name string) (*domain.Product, error)
	List(ctx context.Context) ([]*domain.Product, error)
	ListLowStock(ctx context.Context) ([]*domain.Product, error)
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id int64) error // ErrProductInUse when referenced
}

// InvoiceRepository manages invoice headers and their line items
type InvoiceRepository interface {
	// Create writes the header and every line item. Call it inside a
	// transaction so the document is all-or-nothing.
	Create(ctx context.Context, invoice *domain.Invoice) error
	GetByNumber(ctx context.Context, number string) (*domain.Invoice, error)
	List(ctx context.Context, from, to *time.Time) ([]*domain.Invoice, error)
	GetLineItems(ctx context.Context, invoiceID int64) ([]domain.LineItem, error)
	NextInvoiceNumber(ctx context.Context, prefix string, year int) (string, error)
}

// PurchaseRepository manages inward supply records
type PurchaseRepository interface {
	Create(ctx context.Context, purchase *domain.Purchase) error
	GetByID(ctx context.Context, id int64) (*domain.Purchase, error)
	List(ctx context.Context, from, to *time.Time) ([]*domain.Purchase, error)
	Delete(ctx context.Context, id int64) error
}

// ReportRepository runs the read-only joins behind period reports
type ReportRepository interface {
	OutwardSupplies(ctx context.Context, from, to time.Time) ([]domain.SupplyRow, error)
	InwardSupplies(ctx context.Context, from, to time.Time) ([]domain.SupplyRow, error)
	StockMovements(ctx context.Context, limit int) ([]domain.StockMovement, error)
}

// Repos is a set of repositories bound to the same handle or transaction.
type Repos struct {
	Customers PartyRepository
	Vendors   PartyRepository
	Products  ProductRepository
	Invoices  InvoiceRepository
	Purchases PurchaseRepository
}

// TxRunner executes fn with repositories bound to one transaction.
type TxRunner interface {
	WithinTx(ctx context.Context, fn func(r Repos) error) error
}
