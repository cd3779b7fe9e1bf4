package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/andy/gstbill/internal/app"
	"github.com/andy/gstbill/internal/domain"
	"github.com/andy/gstbill/internal/export"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// ReportsModel builds period reports for one calendar month at a time
type ReportsModel struct {
	app   *app.App
	kind  int // index into domain.ReportKinds
	month time.Time

	report *domain.PeriodReport
	files  []string

	loading bool
	err     error
}

type reportDataMsg struct {
	report *domain.PeriodReport
	files  []string
	err    error
}

// NewReportsModel creates a new reports screen model
func NewReportsModel(a *app.App) tea.Model {
	now := time.Now()
	return &ReportsModel{
		app:     a,
		kind:    len(domain.ReportKinds) - 1, // summary first
		month:   time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC),
		loading: true,
	}
}

func (m *ReportsModel) Init() tea.Cmd {
	return m.load(false)
}

// period is the selected month, ending today for the current month
func (m *ReportsModel) period() (time.Time, time.Time) {
	to := m.month.AddDate(0, 1, -1)
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if to.After(today) && !m.month.After(today) {
		to = today
	}
	return m.month, to
}

func (m *ReportsModel) load(write bool) tea.Cmd {
	kind := domain.ReportKinds[m.kind]
	from, to := m.period()
	return func() tea.Msg {
		ctx := context.Background()
		if write {
			report, files, err := m.app.ReportService.Generate(ctx, from, to, kind)
			return reportDataMsg{report: report, files: files, err: err}
		}
		report, err := m.app.ReportService.Aggregate(ctx, from, to, kind)
		return reportDataMsg{report: report, err: err}
	}
}

func (m *ReportsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case RefreshDataMsg:
		m.loading = true
		return m, m.load(false)

	case reportDataMsg:
		m.loading = false
		m.err = msg.err
		m.report = msg.report
		m.files = msg.files
		return m, nil

	case tea.KeyMsg:
		if m.loading {
			return m, nil
		}

		switch {
		case key.Matches(msg, DefaultKeyMap.Left):
			m.kind = (m.kind - 1 + len(domain.ReportKinds)) % len(domain.ReportKinds)
		case key.Matches(msg, DefaultKeyMap.Right):
			m.kind = (m.kind + 1) % len(domain.ReportKinds)
		case msg.String() == "[":
			m.month = m.month.AddDate(0, -1, 0)
		case msg.String() == "]":
			m.month = m.month.AddDate(0, 1, 0)
		case msg.String() == "w":
			m.loading = true
			return m, m.load(true)
		default:
			return m, nil
		}
		m.loading = true
		return m, m.load(false)
	}

	return m, nil
}

func (m *ReportsModel) View() string {
	var s string

	tabs := make([]string, len(domain.ReportKinds))
	for i, k := range domain.ReportKinds {
		label := fmt.Sprintf(" %s (%s) ", k, k.ReturnName())
		if i == m.kind {
			tabs[i] = selectedStyle.Render(label)
		} else {
			tabs[i] = subtitleStyle.Render(label)
		}
	}
	from, to := m.period()
	s += "  " + strings.Join(tabs, " ") + "\n"
	s += titleStyle.Render(fmt.Sprintf("  %s  %s to %s", m.month.Format("January 2006"),
		from.Format(domain.DateLayout), to.Format(domain.DateLayout))) + "\n\n"

	switch {
	case m.loading:
		s += "  Loading report...\n"
	case m.report != nil:
		s += m.renderReport()
	}

	for _, f := range m.files {
		s += statusStyle.Render("  ✓ Wrote "+f) + "\n"
	}
	if m.err != nil {
		s += errStyle.Render(fmt.Sprintf("  Error: %v", m.err)) + "\n"
	}

	s += "\n" + helpStyle.Render("  h/l: report type  [/]: month  w: write JSON/CSV/XLSX")
	return s
}

func (m *ReportsModel) renderReport() string {
	if m.report.Kind == domain.ReportSummary && m.report.Summary != nil {
		sum := m.report.Summary
		var b strings.Builder
		line := func(label, value string) {
			b.WriteString("  " + totalLabelStyle.Render(label) + totalValueStyle.Render(value) + "\n")
		}
		line("Invoices", fmt.Sprintf("%d", sum.InvoiceCount))
		line("Taxable value", formatMoney(sum.TaxableValue))
		line("CGST", formatMoney(sum.CGST))
		line("SGST", formatMoney(sum.SGST))
		line("IGST", formatMoney(sum.IGST))
		line("Total tax", formatMoney(sum.TotalTax))
		b.WriteString("  " + totalLabelStyle.Render("Grand total") + grandTotalStyle.Render(formatMoney(sum.GrandTotal)) + "\n")
		return b.String()
	}

	if len(m.report.Rows) == 0 {
		return subtitleStyle.Render("  No rows in this period") + "\n"
	}
	return export.Text(m.report.Table())
}
