package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse(DateLayout, s)
	require.NoError(t, err)
	return d
}

func TestParseReportKind(t *testing.T) {
	for in, want := range map[string]ReportKind{
		"outward": ReportOutward,
		"GSTR-1":  ReportOutward,
		"inward":  ReportInward,
		"gstr2":   ReportInward,
		"summary": ReportSummary,
		"GSTR-3B": ReportSummary,
	} {
		got, err := ParseReportKind(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseReportKind("gstr9")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestPeriodReport_SummaryTable(t *testing.T) {
	var s LiabilitySummary
	s.Add(&Invoice{Subtotal: dec("1000"), CGST: dec("90"), SGST: dec("90"), IGST: dec("0"), GrandTotal: dec("1180")})

	r := &PeriodReport{Kind: ReportSummary, Summary: &s}
	tbl := r.Table()

	require.Len(t, tbl.Rows, 1)
	assert.Equal(t, []string{"invoice_count", "taxable_value", "cgst", "sgst", "igst", "total_tax", "grand_total"}, tbl.Columns)
	assert.Equal(t, []string{"1", "1000.00", "90.00", "90.00", "0.00", "180.00", "1180.00"}, tbl.Rows[0])
}

func TestPeriodReport_SupplyTable(t *testing.T) {
	r := &PeriodReport{
		Kind: ReportOutward,
		Rows: []SupplyRow{{
			DocumentNumber: "INV-2026-00001",
			Date:           mustDate(t, "2026-04-01"),
			GSTIN:          "29ABCDE1234F1Z5",
			PartyName:      "Acme, Ltd",
			HSNCode:        "8471",
			Quantity:       3,
			UnitPrice:      dec("100"),
			Rate:           Rate18,
			TaxAmount:      dec("54"),
			LineTotal:      dec("354"),
		}},
	}
	tbl := r.Table()

	require.Len(t, tbl.Rows, 1)
	assert.Len(t, tbl.Columns, 10)
	assert.Equal(t, []string{"INV-2026-00001", "2026-04-01", "29ABCDE1234F1Z5", "Acme, Ltd", "8471", "3", "100.00", "18", "54.00", "354.00"}, tbl.Rows[0])
}

func TestPeriodReport_EmptyTables(t *testing.T) {
	out := (&PeriodReport{Kind: ReportInward}).Table()
	assert.Empty(t, out.Rows)
	assert.NotEmpty(t, out.Columns)

	sum := (&PeriodReport{Kind: ReportSummary}).Table()
	require.Len(t, sum.Rows, 1)
	assert.Equal(t, "0", sum.Rows[0][0])
	assert.Equal(t, "0.00", sum.Rows[0][6])
}

func TestParty_Validate(t *testing.T) {
	p := NewParty(PartyCustomer, "  Acme  ", "29abcde1234f1z5")
	require.NoError(t, p.Validate())
	assert.Equal(t, "Acme", p.Name)
	assert.Equal(t, "29ABCDE1234F1Z5", p.GSTIN)

	p.Email = "not-an-email"
	err := p.Validate()
	assert.ErrorIs(t, err, ErrValidation)
	var fe *FieldError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "email", fe.Field)

	bad := NewParty(PartyVendor, "Supplier", "SHORT")
	assert.ErrorIs(t, bad.Validate(), ErrValidation)

	noName := NewParty(PartyVendor, " ", "")
	assert.ErrorIs(t, noName.Validate(), ErrValidation)
}

func TestProduct_StatusAndValidate(t *testing.T) {
	p := NewProduct("Widget", "8471", Rate18, dec("100"))
	p.StockQuantity = 5
	p.MinStockLevel = 5
	assert.Equal(t, StockLow, p.Status())
	p.StockQuantity = 6
	assert.Equal(t, StockOK, p.Status())

	require.NoError(t, p.Validate())
	p.Rate = TaxRate(10)
	assert.ErrorIs(t, p.Validate(), ErrInvalidRate)
	p.Rate = Rate5
	p.Price = dec("0")
	assert.ErrorIs(t, p.Validate(), ErrInvalidPrice)
}

func TestNewPurchase_Computes(t *testing.T) {
	p, err := NewPurchase("BILL-7", 2, mustDate(t, "2026-04-03"), "Widget", "8471", 10, dec("80"), Rate18)
	require.NoError(t, err)
	assert.Equal(t, "800.00", FormatMoney(p.TaxableValue))
	assert.Equal(t, "144.00", FormatMoney(p.TaxAmount))
	assert.Equal(t, "944.00", FormatMoney(p.LineTotal))

	_, err = NewPurchase("", 2, mustDate(t, "2026-04-03"), "Widget", "8471", 10, dec("80"), Rate18)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = NewPurchase("BILL-8", 2, mustDate(t, "2026-04-03"), "Widget", "8471", 10, dec("80"), TaxRate(3))
	assert.ErrorIs(t, err, ErrInvalidRate)
}
