package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// StockStatus labels a product's stock position against its minimum level.
type StockStatus string

const (
	StockOK  StockStatus = "OK"
	StockLow StockStatus = "Low Stock"
)

type Product struct {
	ID            int64
	Name          string `validate:"required,max=200"`
	HSNCode       string `validate:"max=8"`
	Rate          TaxRate
	Price         decimal.Decimal
	StockQuantity int `validate:"gte=0"`
	MinStockLevel int `validate:"gte=0"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewProduct creates a product with the required pricing fields
func NewProduct(name, hsn string, rate TaxRate, price decimal.Decimal) *Product {
	now := time.Now()
	return &Product{
		Name:      strings.TrimSpace(name),
		HSNCode:   strings.TrimSpace(hsn),
		Rate:      rate,
		Price:     price,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Validate checks the product against the GST slab set and pricing rules
func (p *Product) Validate() error {
	p.Name = strings.TrimSpace(p.Name)
	if err := validateStruct(p); err != nil {
		return err
	}
	if !p.Rate.Valid() {
		return ErrInvalidRate
	}
	if !p.Price.IsPositive() {
		return ErrInvalidPrice
	}
	return nil
}

// Status reports Low Stock when the count is at or below the minimum.
// Stock is informational: nothing in billing changes it.
func (p *Product) Status() StockStatus {
	if p.StockQuantity <= p.MinStockLevel {
		return StockLow
	}
	return StockOK
}
