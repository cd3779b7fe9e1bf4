package domain

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// TaxRate is a GST rate in whole percent.
type TaxRate int

// The closed set of GST slabs.
const (
	Rate0  TaxRate = 0
	Rate5  TaxRate = 5
	Rate12 TaxRate = 12
	Rate18 TaxRate = 18
	Rate28 TaxRate = 28
)

// Rates lists every accepted slab in ascending order.
var Rates = []TaxRate{Rate0, Rate5, Rate12, Rate18, Rate28}

// MoneyPlaces is the precision every stored or displayed amount is rounded to.
const MoneyPlaces = 2

var hundred = decimal.NewFromInt(100)

// Valid reports whether r is one of the GST slabs.
func (r TaxRate) Valid() bool {
	for _, v := range Rates {
		if r == v {
			return true
		}
	}
	return false
}

// Decimal returns the rate as a percentage value.
func (r TaxRate) Decimal() decimal.Decimal {
	return decimal.NewFromInt(int64(r))
}

func (r TaxRate) String() string {
	return strconv.Itoa(int(r)) + "%"
}

// ParseTaxRate accepts "18", "18%" and rejects anything outside the slab set.
func ParseTaxRate(s string) (TaxRate, error) {
	s = strings.TrimSuffix(strings.TrimSpace(s), "%")
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidRate, s)
	}
	r := TaxRate(n)
	if !r.Valid() {
		return 0, fmt.Errorf("%w: got %d", ErrInvalidRate, n)
	}
	return r, nil
}

// Computation is the result of taxing one line.
type Computation struct {
	TaxableValue decimal.Decimal
	TaxAmount    decimal.Decimal
	LineTotal    decimal.Decimal
}

// Compute taxes a single line. Taxable value and tax are each rounded once,
// the tax from the unrounded product, and the line total is their sum.
func Compute(unitPrice decimal.Decimal, quantity int, rate TaxRate) (Computation, error) {
	if quantity <= 0 {
		return Computation{}, fmt.Errorf("%w: got %d", ErrInvalidQuantity, quantity)
	}
	if !unitPrice.IsPositive() {
		return Computation{}, fmt.Errorf("%w: got %s", ErrInvalidPrice, unitPrice.String())
	}
	if !rate.Valid() {
		return Computation{}, fmt.Errorf("%w: got %d", ErrInvalidRate, int(rate))
	}

	gross := unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
	taxable := RoundMoney(gross)
	tax := RoundMoney(gross.Mul(rate.Decimal()).Div(hundred))

	return Computation{
		TaxableValue: taxable,
		TaxAmount:    tax,
		LineTotal:    taxable.Add(tax),
	}, nil
}

// RoundMoney rounds half away from zero to MoneyPlaces.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyPlaces)
}

// FormatMoney renders an amount with exactly two decimals.
func FormatMoney(d decimal.Decimal) string {
	return d.StringFixed(MoneyPlaces)
}

// SplitIntraState divides a document's tax into CGST and SGST halves.
// CGST is the rounded half and SGST takes the remainder, so the two always
// add back to the total even when it has an odd paisa.
func SplitIntraState(taxTotal decimal.Decimal) (cgst, sgst decimal.Decimal) {
	cgst = RoundMoney(taxTotal.Div(decimal.NewFromInt(2)))
	sgst = taxTotal.Sub(cgst)
	return cgst, sgst
}
