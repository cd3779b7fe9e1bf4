package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStatus is an open set; assembled invoices are always PAID.
type InvoiceStatus string

const (
	InvoiceStatusPaid InvoiceStatus = "PAID"
)

// DateLayout is the calendar-day form used for document dates.
const DateLayout = "2006-01-02"

type Invoice struct {
	ID            int64
	InvoiceNumber string
	Date          time.Time
	CustomerID    int64
	Subtotal      decimal.Decimal
	CGST          decimal.Decimal
	SGST          decimal.Decimal
	IGST          decimal.Decimal
	GrandTotal    decimal.Decimal
	Status        InvoiceStatus
	CreatedAt     time.Time

	// Related data (populated by repository)
	LineItems []LineItem
	Customer  *Party
}

// LineItem is one product line on a document. Name, HSN, price and rate are
// copies taken when the line was added.
type LineItem struct {
	ID           int64
	InvoiceID    int64
	ProductID    int64
	ProductName  string
	HSNCode      string
	Quantity     int
	UnitPrice    decimal.Decimal
	Rate         TaxRate
	TaxableValue decimal.Decimal
	TaxAmount    decimal.Decimal
	LineTotal    decimal.Decimal
}

// NewInvoice builds a PAID invoice from computed lines
func NewInvoice(number string, customerID int64, date time.Time, items []LineItem) *Invoice {
	t := SumLineItems(items)
	return &Invoice{
		InvoiceNumber: number,
		Date:          date,
		CustomerID:    customerID,
		Subtotal:      t.Subtotal,
		CGST:          t.CGST,
		SGST:          t.SGST,
		IGST:          t.IGST,
		GrandTotal:    t.GrandTotal,
		Status:        InvoiceStatusPaid,
		CreatedAt:     time.Now(),
		LineItems:     items,
	}
}

// TaxTotal is CGST + SGST + IGST.
func (i *Invoice) TaxTotal() decimal.Decimal {
	return i.CGST.Add(i.SGST).Add(i.IGST)
}

// Validate returns an error if the invoice is invalid
func (i *Invoice) Validate() error {
	if strings.TrimSpace(i.InvoiceNumber) == "" {
		return &FieldError{Field: "invoice_number", Reason: "is required"}
	}
	if i.CustomerID <= 0 {
		return &FieldError{Field: "customer", Reason: "is required"}
	}
	if i.Date.IsZero() {
		return &FieldError{Field: "date", Reason: "is required"}
	}
	if len(i.LineItems) == 0 {
		return ErrEmptyDocument
	}
	if !i.Subtotal.Add(i.TaxTotal()).Equal(i.GrandTotal) {
		return ErrUnbalanced
	}
	return nil
}
