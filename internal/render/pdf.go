// Package render writes the printable form of committed invoices.
//
// Page layout (A4):
//
//	┌───────────────────────────────────────────────┐
//	│  Seller name + GSTIN   │  TAX INVOICE no, date │
//	│  Seller address / phone / email               │
//	│  ───────────────────────────────────────────  │
//	│  BILL TO: name, GSTIN, address                │
//	│  ───────────────────────────────────────────  │
//	│  Product | HSN | Qty | Price | Rate | Tax | Total
//	│  ───────────────────────────────────────────  │
//	│  Subtotal / CGST / SGST / Grand total         │
//	└───────────────────────────────────────────────┘
package render

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/andy/gstbill/internal/domain"
)

var (
	colorPrimary = &props.Color{Red: 20, Green: 60, Blue: 110}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// Seller identifies the business issuing invoices
type Seller struct {
	Name    string
	GSTIN   string
	Address string
	Phone   string
	Email   string
}

// PDFRenderer writes {invoice_number}.pdf into a documents directory
type PDFRenderer struct {
	dir    string
	seller func() Seller
}

// NewPDFRenderer creates a renderer writing into dir. seller is read on
// every render so edited business details show up on the next document.
func NewPDFRenderer(dir string, seller func() Seller) *PDFRenderer {
	return &PDFRenderer{dir: dir, seller: seller}
}

// StaticSeller returns a seller source that never changes
func StaticSeller(s Seller) func() Seller {
	return func() Seller { return s }
}

// Render generates the invoice PDF and returns its path
func (r *PDFRenderer) Render(_ context.Context, invoice *domain.Invoice, customer *domain.Party) (string, error) {
	if customer == nil {
		customer = invoice.Customer
	}
	if customer == nil {
		return "", fmt.Errorf("invoice %s has no customer to print", invoice.InvoiceNumber)
	}

	data, err := r.Bytes(invoice, customer)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(r.dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create documents directory: %w", err)
	}
	path := filepath.Join(r.dir, invoice.InvoiceNumber+".pdf")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

// Bytes builds the PDF in memory
func (r *PDFRenderer) Bytes(invoice *domain.Invoice, customer *domain.Party) ([]byte, error) {
	seller := r.seller()

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Tax Invoice "+invoice.InvoiceNumber, true).
		WithAuthor(nonEmpty(seller.Name, "gstbill"), true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(seller, invoice))
	m.AddRows(sellerRow(seller))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(billToRow(customer))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(lineRows(invoice.LineItems)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRows(invoice)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate pdf: %w", err)
	}
	return doc.GetBytes(), nil
}

func headerRow(seller Seller, invoice *domain.Invoice) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(nonEmpty(seller.Name, "Seller"), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("GSTIN: "+nonEmpty(seller.GSTIN, "-"), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("TAX INVOICE", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(invoice.InvoiceNumber, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Date: "+invoice.Date.Format("02/01/2006")+"   Status: "+string(invoice.Status), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

func sellerRow(seller Seller) core.Row {
	return row.New(8).Add(
		col.New(12).Add(
			text.New(fmt.Sprintf("%s   |   Tel: %s   |   Email: %s",
				nonEmpty(seller.Address, "-"),
				nonEmpty(seller.Phone, "-"),
				nonEmpty(seller.Email, "-"),
			), props.Text{Size: 8, Top: 2, Color: colorGray}),
		),
	)
}

func billToRow(customer *domain.Party) core.Row {
	return row.New(18).Add(
		col.New(12).Add(
			text.New("BILL TO", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(customer.Name, props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New("GSTIN: "+nonEmpty(customer.GSTIN, "Unregistered"), props.Text{
				Size: 8, Top: 11, Color: colorGray,
			}),
			text.New(nonEmpty(customer.Address, "-"), props.Text{
				Size: 8, Top: 15, Color: colorGray,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2,
		}))
	}
	return row.New(8).Add(
		h("Product", 4, align.Left),
		h("HSN", 1, align.Center),
		h("Qty", 1, align.Center),
		h("Unit price", 2, align.Right),
		h("GST", 1, align.Center),
		h("Tax", 1, align.Right),
		h("Total", 2, align.Right),
	)
}

func lineRows(items []domain.LineItem) []core.Row {
	cell := func(v string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(v, props.Text{Size: 8, Align: a, Top: 1}))
	}
	rows := make([]core.Row, 0, len(items))
	for _, it := range items {
		rows = append(rows, row.New(6).Add(
			cell(it.ProductName, 4, align.Left),
			cell(it.HSNCode, 1, align.Center),
			cell(strconv.Itoa(it.Quantity), 1, align.Center),
			cell(domain.FormatMoney(it.UnitPrice), 2, align.Right),
			cell(it.Rate.String(), 1, align.Center),
			cell(domain.FormatMoney(it.TaxAmount), 1, align.Right),
			cell(domain.FormatMoney(it.LineTotal), 2, align.Right),
		))
	}
	return rows
}

func totalsRows(invoice *domain.Invoice) []core.Row {
	total := func(label, value string, bold bool) core.Row {
		style := fontstyle.Normal
		if bold {
			style = fontstyle.Bold
		}
		return row.New(6).Add(
			col.New(8),
			col.New(2).Add(text.New(label, props.Text{Size: 9, Style: style, Align: align.Right, Top: 1})),
			col.New(2).Add(text.New(value, props.Text{Size: 9, Style: style, Align: align.Right, Top: 1})),
		)
	}
	return []core.Row{
		total("Subtotal", domain.FormatMoney(invoice.Subtotal), false),
		total("CGST", domain.FormatMoney(invoice.CGST), false),
		total("SGST", domain.FormatMoney(invoice.SGST), false),
		total("Grand total", domain.FormatMoney(invoice.GrandTotal), true),
	}
}

func nonEmpty(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
