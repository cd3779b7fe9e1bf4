package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/andy/gstbill/internal/app"
	"github.com/andy/gstbill/internal/domain"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

const invoiceListHeight = 15

type invoiceViewMode int

const (
	invoiceViewList   invoiceViewMode = iota
	invoiceViewDetail                 // Viewing a single invoice
)

// InvoicesModel displays invoices in list and detail views
type InvoicesModel struct {
	app       *app.App
	mode      invoiceViewMode
	invoices  []*domain.Invoice
	names     map[int64]string
	cursor    int
	selected  *domain.Invoice
	loading   bool
	err       error
	statusMsg string
}

type invoicesDataMsg struct {
	invoices []*domain.Invoice
	names    map[int64]string
	err      error
}

type invoiceDetailMsg struct {
	invoice *domain.Invoice
	err     error
}

type invoiceRenderedMsg struct {
	path string
	err  error
}

// NewInvoicesModel creates a new invoices screen model
func NewInvoicesModel(a *app.App) tea.Model {
	return &InvoicesModel{
		app:     a,
		mode:    invoiceViewList,
		names:   make(map[int64]string),
		loading: true,
	}
}

func (m *InvoicesModel) Init() tea.Cmd {
	return m.loadInvoices()
}

func (m *InvoicesModel) loadInvoices() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		invoices, err := m.app.BillingService.ListInvoices(ctx, nil, nil)
		if err != nil {
			return invoicesDataMsg{err: err}
		}

		// Newest first
		for i, j := 0, len(invoices)-1; i < j; i, j = i+1, j-1 {
			invoices[i], invoices[j] = invoices[j], invoices[i]
		}

		names := make(map[int64]string)
		for _, inv := range invoices {
			if _, ok := names[inv.CustomerID]; ok {
				continue
			}
			if c, err := m.app.CustomerRepo.GetByID(ctx, inv.CustomerID); err == nil {
				names[inv.CustomerID] = c.Name
			}
		}

		return invoicesDataMsg{invoices: invoices, names: names}
	}
}

func (m *InvoicesModel) loadDetail(number string) tea.Cmd {
	return func() tea.Msg {
		invoice, err := m.app.BillingService.GetInvoice(context.Background(), number)
		return invoiceDetailMsg{invoice: invoice, err: err}
	}
}

func (m *InvoicesModel) renderPDF(number string) tea.Cmd {
	return func() tea.Msg {
		path, err := m.app.BillingService.RenderInvoice(context.Background(), number)
		return invoiceRenderedMsg{path: path, err: err}
	}
}

func (m *InvoicesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case RefreshDataMsg:
		m.loading = true
		m.mode = invoiceViewList
		return m, m.loadInvoices()

	case invoicesDataMsg:
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.invoices = msg.invoices
			m.names = msg.names
			m.cursor = clampCursor(m.cursor, len(m.invoices))
		}
		return m, nil

	case invoiceDetailMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.selected = msg.invoice
		m.mode = invoiceViewDetail
		return m, nil

	case invoiceRenderedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.statusMsg = "✓ Invoice saved: " + msg.path
		return m, nil

	case tea.KeyMsg:
		if m.loading {
			return m, nil
		}
		m.err = nil
		m.statusMsg = ""

		if m.mode == invoiceViewDetail {
			switch {
			case key.Matches(msg, DefaultKeyMap.Back):
				m.mode = invoiceViewList
			case msg.String() == "p":
				return m, m.renderPDF(m.selected.InvoiceNumber)
			}
			return m, nil
		}

		switch {
		case key.Matches(msg, DefaultKeyMap.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, DefaultKeyMap.Down):
			if m.cursor < len(m.invoices)-1 {
				m.cursor++
			}
		case key.Matches(msg, DefaultKeyMap.Select):
			if len(m.invoices) > 0 {
				m.loading = true
				return m, m.loadDetail(m.invoices[m.cursor].InvoiceNumber)
			}
		case msg.String() == "p":
			if len(m.invoices) > 0 {
				return m, m.renderPDF(m.invoices[m.cursor].InvoiceNumber)
			}
		}
	}

	return m, nil
}

func (m *InvoicesModel) View() string {
	if m.loading {
		return "Loading invoices..."
	}

	var s string
	if m.mode == invoiceViewDetail && m.selected != nil {
		s = m.viewDetail()
	} else {
		s = m.viewList()
	}

	if m.statusMsg != "" {
		s += "\n" + statusStyle.Render("  "+m.statusMsg) + "\n"
	}
	if m.err != nil {
		s += "\n" + errStyle.Render(fmt.Sprintf("  Error: %v", m.err)) + "\n"
	}
	return s
}

func (m *InvoicesModel) viewList() string {
	s := titleStyle.Render("Invoices") + "\n\n"

	if len(m.invoices) == 0 {
		return s + subtitleStyle.Render("  No invoices yet. Press 'b' to raise one.") + "\n"
	}

	s += subtitleStyle.Render(fmt.Sprintf("  %-18s %-11s %-24s %14s %12s", "Number", "Date", "Customer", "Total", "Tax")) + "\n"

	start := 0
	if m.cursor >= invoiceListHeight {
		start = m.cursor - invoiceListHeight + 1
	}
	end := min(start+invoiceListHeight, len(m.invoices))
	for i := start; i < end; i++ {
		inv := m.invoices[i]
		name, ok := m.names[inv.CustomerID]
		if !ok {
			name = fmt.Sprintf("Customer #%d", inv.CustomerID)
		}
		row := fmt.Sprintf("%-18s %-11s %-24s %14s %12s",
			inv.InvoiceNumber,
			inv.Date.Format(domain.DateLayout),
			truncateStr(name, 24),
			formatMoney(inv.GrandTotal),
			formatMoney(inv.TaxTotal()),
		)
		if i == m.cursor {
			s += selectedStyle.Render("> "+row) + "\n"
		} else {
			s += "  " + row + "\n"
		}
	}

	s += fmt.Sprintf("\n  %d invoice(s)\n", len(m.invoices))
	s += "\n" + helpStyle.Render("  j/k: navigate  enter: details  p: write PDF")
	return s
}

func (m *InvoicesModel) viewDetail() string {
	inv := m.selected
	var b strings.Builder

	b.WriteString(titleStyle.Render("Invoice "+inv.InvoiceNumber) + "\n\n")
	if inv.Customer != nil {
		b.WriteString(fmt.Sprintf("  Customer: %s\n", inv.Customer.Name))
		if inv.Customer.GSTIN != "" {
			b.WriteString(fmt.Sprintf("  GSTIN:    %s\n", inv.Customer.GSTIN))
		}
	}
	b.WriteString(fmt.Sprintf("  Date:     %s\n  Status:   %s\n\n", inv.Date.Format(domain.DateLayout), inv.Status))

	b.WriteString(subtitleStyle.Render(fmt.Sprintf("  %-24s %-8s %5s %12s %4s %10s %13s", "Product", "HSN", "Qty", "Price", "GST", "Tax", "Total")) + "\n")
	for _, it := range inv.LineItems {
		b.WriteString(fmt.Sprintf("  %-24s %-8s %5d %12s %4s %10s %13s\n",
			truncateStr(it.ProductName, 24),
			it.HSNCode,
			it.Quantity,
			formatMoney(it.UnitPrice),
			it.Rate,
			formatMoney(it.TaxAmount),
			formatMoney(it.LineTotal),
		))
	}
	b.WriteString("\n")

	line := func(label, value string) {
		b.WriteString("  " + totalLabelStyle.Render(label) + totalValueStyle.Render(value) + "\n")
	}
	line("Subtotal", formatMoney(inv.Subtotal))
	line("CGST", formatMoney(inv.CGST))
	line("SGST", formatMoney(inv.SGST))
	b.WriteString("  " + totalLabelStyle.Render("Grand total") + grandTotalStyle.Render(formatMoney(inv.GrandTotal)) + "\n")

	b.WriteString("\n" + helpStyle.Render("  esc: back  p: write PDF"))
	return b.String()
}
