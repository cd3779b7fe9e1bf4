package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Purchase is an inward supply recorded against a vendor's bill.
type Purchase struct {
	ID           int64
	BillNumber   string
	Date         time.Time
	VendorID     int64
	ProductName  string
	HSNCode      string
	Quantity     int
	UnitPrice    decimal.Decimal
	Rate         TaxRate
	TaxableValue decimal.Decimal
	TaxAmount    decimal.Decimal
	LineTotal    decimal.Decimal
	CreatedAt    time.Time

	Vendor *Party
}

// NewPurchase computes the tax for a single purchased line.
func NewPurchase(billNumber string, vendorID int64, date time.Time, productName, hsn string, quantity int, unitPrice decimal.Decimal, rate TaxRate) (*Purchase, error) {
	p := &Purchase{
		BillNumber:  strings.TrimSpace(billNumber),
		Date:        date,
		VendorID:    vendorID,
		ProductName: strings.TrimSpace(productName),
		HSNCode:     strings.TrimSpace(hsn),
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		Rate:        rate,
		CreatedAt:   time.Now(),
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	c, err := Compute(unitPrice, quantity, rate)
	if err != nil {
		return nil, err
	}
	p.TaxableValue = c.TaxableValue
	p.TaxAmount = c.TaxAmount
	p.LineTotal = c.LineTotal
	return p, nil
}

func (p *Purchase) Validate() error {
	if p.BillNumber == "" {
		return &FieldError{Field: "bill_number", Reason: "is required"}
	}
	if p.VendorID <= 0 {
		return &FieldError{Field: "vendor", Reason: "is required"}
	}
	if p.ProductName == "" {
		return &FieldError{Field: "product_name", Reason: "is required"}
	}
	if p.Date.IsZero() {
		return &FieldError{Field: "date", Reason: "is required"}
	}
	return nil
}
