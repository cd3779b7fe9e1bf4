package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ReportKind selects which period view the aggregator builds.
type ReportKind string

const (
	ReportOutward ReportKind = "OUTWARD"
	ReportInward  ReportKind = "INWARD"
	ReportSummary ReportKind = "SUMMARY"
)

var ReportKinds = []ReportKind{ReportOutward, ReportInward, ReportSummary}

// ParseReportKind accepts either the kind name or its return form name
// (outward, gstr1, GSTR-1 ...).
func ParseReportKind(s string) (ReportKind, error) {
	switch strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), "-", "")) {
	case "OUTWARD", "GSTR1":
		return ReportOutward, nil
	case "INWARD", "GSTR2":
		return ReportInward, nil
	case "SUMMARY", "GSTR3B":
		return ReportSummary, nil
	}
	return "", &FieldError{Field: "kind", Reason: fmt.Sprintf("must be one of outward, inward, summary (got %q)", s)}
}

// ReturnName is the regulatory form the kind corresponds to. It is also the
// file name prefix for exported reports.
func (k ReportKind) ReturnName() string {
	switch k {
	case ReportOutward:
		return "GSTR1"
	case ReportInward:
		return "GSTR2"
	case ReportSummary:
		return "GSTR3B"
	}
	return string(k)
}

// SupplyRow is one line of an outward or inward supply report.
type SupplyRow struct {
	DocumentNumber string
	Date           time.Time
	GSTIN          string
	PartyName      string
	HSNCode        string
	Quantity       int
	UnitPrice      decimal.Decimal
	Rate           TaxRate
	TaxAmount      decimal.Decimal
	LineTotal      decimal.Decimal
}

// LiabilitySummary is the single row of the consolidated liability report.
type LiabilitySummary struct {
	InvoiceCount int
	TaxableValue decimal.Decimal
	CGST         decimal.Decimal
	SGST         decimal.Decimal
	IGST         decimal.Decimal
	TotalTax     decimal.Decimal
	GrandTotal   decimal.Decimal
}

// Add folds one invoice header into the summary.
func (s *LiabilitySummary) Add(inv *Invoice) {
	s.InvoiceCount++
	s.TaxableValue = s.TaxableValue.Add(inv.Subtotal)
	s.CGST = s.CGST.Add(inv.CGST)
	s.SGST = s.SGST.Add(inv.SGST)
	s.IGST = s.IGST.Add(inv.IGST)
	s.TotalTax = s.CGST.Add(s.SGST).Add(s.IGST)
	s.GrandTotal = s.GrandTotal.Add(inv.GrandTotal)
}

// PeriodReport is the transient result of aggregating [From, To].
type PeriodReport struct {
	Kind        ReportKind
	From        time.Time
	To          time.Time
	GeneratedAt time.Time
	Rows        []SupplyRow
	Summary     *LiabilitySummary
}

// Table is a report flattened to named columns and string cells. Every
// export format is produced from the same Table.
type Table struct {
	Columns []string
	Rows    [][]string
}

var (
	supplyColumns = []string{
		"document_number", "date", "gstin", "party_name", "hsn_code",
		"quantity", "unit_price", "rate", "tax_amount", "line_total",
	}
	summaryColumns = []string{
		"invoice_count", "taxable_value", "cgst", "sgst", "igst", "total_tax", "grand_total",
	}
)

// Table flattens the report. Money cells carry exactly two decimals.
func (r *PeriodReport) Table() Table {
	if r.Kind == ReportSummary {
		s := r.Summary
		if s == nil {
			s = &LiabilitySummary{}
		}
		return Table{
			Columns: append([]string(nil), summaryColumns...),
			Rows: [][]string{{
				strconv.Itoa(s.InvoiceCount),
				FormatMoney(s.TaxableValue),
				FormatMoney(s.CGST),
				FormatMoney(s.SGST),
				FormatMoney(s.IGST),
				FormatMoney(s.TotalTax),
				FormatMoney(s.GrandTotal),
			}},
		}
	}

	t := Table{
		Columns: append([]string(nil), supplyColumns...),
		Rows:    make([][]string, 0, len(r.Rows)),
	}
	for _, row := range r.Rows {
		t.Rows = append(t.Rows, []string{
			row.DocumentNumber,
			row.Date.Format(DateLayout),
			row.GSTIN,
			row.PartyName,
			row.HSNCode,
			strconv.Itoa(row.Quantity),
			FormatMoney(row.UnitPrice),
			strconv.Itoa(int(row.Rate)),
			FormatMoney(row.TaxAmount),
			FormatMoney(row.LineTotal),
		})
	}
	return t
}

// MovementDirection marks stock leaving (sale) or entering (purchase).
type MovementDirection string

const (
	MovementOut MovementDirection = "OUT"
	MovementIn  MovementDirection = "IN"
)

// StockMovement is one entry of the stock movement history.
type StockMovement struct {
	Date        time.Time
	ProductName string
	Direction   MovementDirection
	Quantity    int
	Reference   string
}
