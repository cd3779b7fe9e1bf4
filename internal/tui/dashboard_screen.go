package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/andy/gstbill/internal/app"
	"github.com/andy/gstbill/internal/domain"
	"github.com/andy/gstbill/internal/service"
	tea "github.com/charmbracelet/bubbletea"
)

const recentInvoiceCount = 8

// DashboardModel represents the dashboard home screen
type DashboardModel struct {
	app *app.App

	// Data
	today    domain.LiabilitySummary
	month    *domain.LiabilitySummary
	lowStock []service.StockLine
	recent   []*domain.Invoice
	names    map[int64]string

	loading bool
	err     error
}

type dashboardDataMsg struct {
	today    domain.LiabilitySummary
	month    *domain.LiabilitySummary
	lowStock []service.StockLine
	recent   []*domain.Invoice
	names    map[int64]string
	err      error
}

// NewDashboardModel creates a new dashboard model
func NewDashboardModel(a *app.App) tea.Model {
	return &DashboardModel{
		app:     a,
		loading: true,
		names:   make(map[int64]string),
	}
}

func (m *DashboardModel) Init() tea.Cmd {
	return m.loadData()
}

func (m *DashboardModel) loadData() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		msg := dashboardDataMsg{names: make(map[int64]string)}

		now := time.Now()
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

		report, err := m.app.ReportService.Aggregate(ctx, monthStart, today, domain.ReportSummary)
		if err != nil {
			msg.err = fmt.Errorf("month summary: %w", err)
			return msg
		}
		msg.month = report.Summary

		invoices, err := m.app.BillingService.ListInvoices(ctx, &monthStart, &today)
		if err != nil {
			msg.err = fmt.Errorf("invoices: %w", err)
			return msg
		}
		for _, inv := range invoices {
			if inv.Date.Equal(today) {
				msg.today.Add(inv)
			}
		}

		// Newest first
		for i := len(invoices) - 1; i >= 0 && len(msg.recent) < recentInvoiceCount; i-- {
			inv := invoices[i]
			msg.recent = append(msg.recent, inv)
			if _, ok := msg.names[inv.CustomerID]; !ok {
				if c, err := m.app.CustomerRepo.GetByID(ctx, inv.CustomerID); err == nil {
					msg.names[inv.CustomerID] = c.Name
				}
			}
		}

		msg.lowStock, _ = m.app.InventoryService.LowStock(ctx)
		return msg
	}
}

func (m *DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardDataMsg:
		m.loading = false
		m.err = msg.err
		m.today = msg.today
		m.month = msg.month
		m.lowStock = msg.lowStock
		m.recent = msg.recent
		m.names = msg.names
		return m, nil

	case RefreshDataMsg:
		m.loading = true
		return m, m.loadData()
	}

	return m, nil
}

func (m *DashboardModel) View() string {
	if m.loading {
		return "Loading dashboard..."
	}

	if m.err != nil {
		return errStyle.Render(fmt.Sprintf("Error: %v", m.err))
	}

	var s string

	month := domain.LiabilitySummary{}
	if m.month != nil {
		month = *m.month
	}
	s += fmt.Sprintf(
		"  Today:       %-16s  %d invoice(s)\n  This Month:  %-16s  %d invoice(s)   GST payable: %s\n",
		formatMoney(m.today.GrandTotal),
		m.today.InvoiceCount,
		formatMoney(month.GrandTotal),
		month.InvoiceCount,
		formatMoney(month.TotalTax),
	)

	s += "\n"
	if len(m.lowStock) > 0 {
		s += warnStyle.Render(fmt.Sprintf("  %d product(s) at or below minimum stock", len(m.lowStock))) + "\n"
		for i, l := range m.lowStock {
			if i == 3 {
				s += subtitleStyle.Render("  ...") + "\n"
				break
			}
			s += subtitleStyle.Render(fmt.Sprintf("    %-30s %d left", truncateStr(l.Product.Name, 30), l.Product.StockQuantity)) + "\n"
		}
	} else {
		s += subtitleStyle.Render("  Stock levels OK") + "\n"
	}

	s += "\n" + m.renderRecent()
	return s
}

func (m *DashboardModel) renderRecent() string {
	header := "  Recent Invoices (This Month)\n"
	if len(m.recent) == 0 {
		return header + subtitleStyle.Render("  No invoices yet. Press 'b' to raise one.") + "\n"
	}

	s := header
	for _, inv := range m.recent {
		name, ok := m.names[inv.CustomerID]
		if !ok {
			name = fmt.Sprintf("Customer #%d", inv.CustomerID)
		}
		s += fmt.Sprintf("  %-7s %-18s %-22s %14s\n",
			inv.Date.Format("Jan 2"),
			inv.InvoiceNumber,
			truncateStr(name, 22),
			formatMoney(inv.GrandTotal),
		)
	}
	return s
}
