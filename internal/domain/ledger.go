package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Totals are the document-level sums of a ledger or invoice.
type Totals struct {
	Subtotal   decimal.Decimal
	CGST       decimal.Decimal
	SGST       decimal.Decimal
	IGST       decimal.Decimal
	TaxTotal   decimal.Decimal
	GrandTotal decimal.Decimal
}

// Ledger accumulates line items for one document before it is assembled.
// Totals are always recomputed from the entries, so insertion order never
// affects them.
type Ledger struct {
	items []LineItem
}

func NewLedger() *Ledger {
	return &Ledger{}
}

// Add snapshots the product's current price, rate, name and HSN code.
// Later edits to the product do not affect entries already added.
func (l *Ledger) Add(product *Product, quantity int) (Totals, error) {
	if product == nil {
		return Totals{}, ErrProductNotFound
	}
	c, err := Compute(product.Price, quantity, product.Rate)
	if err != nil {
		return Totals{}, err
	}
	l.items = append(l.items, LineItem{
		ProductID:    product.ID,
		ProductName:  product.Name,
		HSNCode:      product.HSNCode,
		Quantity:     quantity,
		UnitPrice:    product.Price,
		Rate:         product.Rate,
		TaxableValue: c.TaxableValue,
		TaxAmount:    c.TaxAmount,
		LineTotal:    c.LineTotal,
	})
	return l.Totals(), nil
}

// Remove drops the entry at index.
func (l *Ledger) Remove(index int) (Totals, error) {
	if index < 0 || index >= len(l.items) {
		return Totals{}, &FieldError{Field: "index", Reason: fmt.Sprintf("must be between 0 and %d", len(l.items)-1)}
	}
	l.items = append(l.items[:index], l.items[index+1:]...)
	return l.Totals(), nil
}

func (l *Ledger) Totals() Totals {
	return SumLineItems(l.items)
}

// Items returns a copy of the entries in insertion order.
func (l *Ledger) Items() []LineItem {
	out := make([]LineItem, len(l.items))
	copy(out, l.items)
	return out
}

func (l *Ledger) Len() int {
	return len(l.items)
}

func (l *Ledger) IsEmpty() bool {
	return len(l.items) == 0
}

func (l *Ledger) Clear() {
	l.items = nil
}

// SumLineItems derives document totals from computed lines. The tax sum is
// split intra-state; IGST is always zero.
func SumLineItems(items []LineItem) Totals {
	subtotal := decimal.Zero
	taxSum := decimal.Zero
	for _, it := range items {
		subtotal = subtotal.Add(it.LineTotal.Sub(it.TaxAmount))
		taxSum = taxSum.Add(it.TaxAmount)
	}
	cgst, sgst := SplitIntraState(taxSum)
	return Totals{
		Subtotal:   subtotal,
		CGST:       cgst,
		SGST:       sgst,
		IGST:       decimal.Zero,
		TaxTotal:   taxSum,
		GrandTotal: subtotal.Add(cgst).Add(sgst),
	}
}
