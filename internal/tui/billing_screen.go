package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/andy/gstbill/internal/app"
	"github.com/andy/gstbill/internal/domain"
	"github.com/andy/gstbill/internal/service"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type billingPane int

const (
	paneCustomers billingPane = iota
	paneProducts
	paneLines
	paneCount
)

const billingListHeight = 10

// BillingModel builds one bill: pick a customer, add products with a
// quantity, then commit with ctrl+s.
type BillingModel struct {
	app     *app.App
	session *service.Session

	customers []*domain.Party
	products  []*domain.Product

	pane    billingPane
	cursors [paneCount]int

	qtyInput   textinput.Model
	enterQty   bool
	assembling bool

	loading   bool
	err       error
	statusMsg string
	warning   error
}

type billingDataMsg struct {
	customers []*domain.Party
	products  []*domain.Product
	err       error
}

type billingAssembledMsg struct {
	receipt *service.Receipt
	err     error
}

// NewBillingModel creates a new billing screen model
func NewBillingModel(a *app.App) tea.Model {
	qty := textinput.New()
	qty.Placeholder = "1"
	qty.CharLimit = 6
	qty.Width = 8

	return &BillingModel{
		app:      a,
		session:  service.NewSession(),
		qtyInput: qty,
		loading:  true,
	}
}

// IsCapturingInput returns true while a quantity is being typed
func (m *BillingModel) IsCapturingInput() bool {
	return m.enterQty
}

func (m *BillingModel) Init() tea.Cmd {
	return m.loadData()
}

func (m *BillingModel) loadData() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		customers, err := m.app.CustomerRepo.List(ctx)
		if err != nil {
			return billingDataMsg{err: err}
		}
		products, err := m.app.ProductRepo.List(ctx)
		if err != nil {
			return billingDataMsg{err: err}
		}
		return billingDataMsg{customers: customers, products: products}
	}
}

func (m *BillingModel) assemble() tea.Cmd {
	return func() tea.Msg {
		receipt, err := m.app.BillingService.Assemble(context.Background(), m.session, service.AssembleOptions{})
		return billingAssembledMsg{receipt: receipt, err: err}
	}
}

func (m *BillingModel) paneLen(p billingPane) int {
	switch p {
	case paneCustomers:
		return len(m.customers)
	case paneProducts:
		return len(m.products)
	case paneLines:
		return m.session.Ledger.Len()
	}
	return 0
}

func (m *BillingModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.enterQty {
		return m.updateQty(msg)
	}

	switch msg := msg.(type) {
	case RefreshDataMsg:
		m.loading = true
		return m, m.loadData()

	case billingDataMsg:
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.customers = msg.customers
			m.products = msg.products
			m.cursors[paneCustomers] = clampCursor(m.cursors[paneCustomers], len(m.customers))
			m.cursors[paneProducts] = clampCursor(m.cursors[paneProducts], len(m.products))
		}
		return m, nil

	case billingAssembledMsg:
		m.assembling = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.cursors[paneLines] = 0
		m.statusMsg = fmt.Sprintf("✓ %s committed  %s", msg.receipt.Invoice.InvoiceNumber, formatMoney(msg.receipt.Invoice.GrandTotal))
		if msg.receipt.DocumentPath != "" {
			m.statusMsg += "  " + msg.receipt.DocumentPath
		}
		m.warning = msg.receipt.Warning
		return m, nil

	case tea.KeyMsg:
		if m.loading || m.assembling {
			return m, nil
		}
		m.err = nil

		switch {
		case key.Matches(msg, DefaultKeyMap.Tab):
			m.pane = (m.pane + 1) % paneCount
		case key.Matches(msg, DefaultKeyMap.Up):
			if m.cursors[m.pane] > 0 {
				m.cursors[m.pane]--
			}
		case key.Matches(msg, DefaultKeyMap.Down):
			if m.cursors[m.pane] < m.paneLen(m.pane)-1 {
				m.cursors[m.pane]++
			}
		case key.Matches(msg, DefaultKeyMap.Select):
			return m.selectCurrent()
		case key.Matches(msg, DefaultKeyMap.Delete):
			if m.pane == paneLines && !m.session.Ledger.IsEmpty() {
				if _, err := m.app.BillingService.RemoveItem(m.session, m.cursors[paneLines]); err != nil {
					m.err = err
				}
				m.cursors[paneLines] = clampCursor(m.cursors[paneLines], m.session.Ledger.Len())
			}
		case msg.String() == "x":
			m.session.Reset()
			m.cursors[paneLines] = 0
			m.statusMsg = "Bill cleared"
		case key.Matches(msg, DefaultKeyMap.Save):
			m.statusMsg, m.warning = "", nil
			if m.session.Ledger.IsEmpty() {
				m.err = domain.ErrEmptyDocument
				return m, nil
			}
			if m.session.Customer == nil {
				m.err = errors.New("select a customer first")
				return m, nil
			}
			m.assembling = true
			return m, m.assemble()
		}
	}

	return m, nil
}

func (m *BillingModel) selectCurrent() (tea.Model, tea.Cmd) {
	switch m.pane {
	case paneCustomers:
		if len(m.customers) == 0 {
			return m, nil
		}
		c := m.customers[m.cursors[paneCustomers]]
		if err := m.app.BillingService.SelectCustomer(context.Background(), m.session, c.Name); err != nil {
			m.err = err
			return m, nil
		}
		m.statusMsg = ""
		m.pane = paneProducts
	case paneProducts:
		if len(m.products) == 0 {
			return m, nil
		}
		m.enterQty = true
		m.qtyInput.SetValue("")
		return m, m.qtyInput.Focus()
	}
	return m, nil
}

func (m *BillingModel) updateQty(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "esc":
			m.enterQty = false
			m.qtyInput.Blur()
			return m, nil
		case "enter":
			m.enterQty = false
			m.qtyInput.Blur()

			raw := strings.TrimSpace(m.qtyInput.Value())
			if raw == "" {
				raw = "1"
			}
			qty, err := strconv.Atoi(raw)
			if err != nil {
				m.err = fmt.Errorf("%w: %q", domain.ErrInvalidQuantity, raw)
				return m, nil
			}
			p := m.products[m.cursors[paneProducts]]
			if _, err := m.app.BillingService.AddItem(context.Background(), m.session, p.Name, qty); err != nil {
				m.err = err
				return m, nil
			}
			m.err = nil
			m.statusMsg = ""
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.qtyInput, cmd = m.qtyInput.Update(msg)
	return m, cmd
}

func (m *BillingModel) View() string {
	if m.loading {
		return "Loading customers and products..."
	}
	// The ledger belongs to the running commit until it reports back
	if m.assembling {
		return subtitleStyle.Render("  Committing invoice...")
	}

	customerBox := m.box(paneCustomers, "Customer", m.renderCustomers())
	productBox := m.box(paneProducts, "Products", m.renderProducts())
	top := lipgloss.JoinHorizontal(lipgloss.Top, customerBox, " ", productBox)

	var s string
	s += top + "\n"
	s += m.box(paneLines, m.linesTitle(), m.renderLines()) + "\n"
	s += m.renderTotals()

	if m.enterQty {
		p := m.products[m.cursors[paneProducts]]
		s += fmt.Sprintf("\n  Quantity of %s: %s\n", p.Name, m.qtyInput.View())
	}
	if m.statusMsg != "" {
		s += "\n" + statusStyle.Render("  "+m.statusMsg) + "\n"
	}
	if m.warning != nil {
		s += warnStyle.Render(fmt.Sprintf("  ! %v", m.warning)) + "\n"
	}
	if m.err != nil {
		s += errStyle.Render(fmt.Sprintf("  Error: %v", m.err)) + "\n"
	}

	help := "  tab: pane  j/k: move  enter: select/add  d: remove line  x: clear  ctrl+s: commit"
	if m.enterQty {
		help = "  enter: add  esc: cancel"
	}
	s += "\n" + helpStyle.Render(help)
	return s
}

func (m *BillingModel) box(p billingPane, title, body string) string {
	style := boxStyle
	if m.pane == p {
		style = activeBoxStyle
	}
	return style.Render(titleStyle.Render(title) + "\n" + body)
}

func (m *BillingModel) linesTitle() string {
	if m.session.Customer == nil {
		return "Bill"
	}
	title := "Bill for " + m.session.Customer.Name
	if m.session.Customer.GSTIN != "" {
		title += "  (" + m.session.Customer.GSTIN + ")"
	}
	return title
}

// window returns the visible [start, end) of n rows around cursor
func window(cursor, n int) (int, int) {
	start := 0
	if cursor >= billingListHeight {
		start = cursor - billingListHeight + 1
	}
	end := start + billingListHeight
	if end > n {
		end = n
	}
	return start, end
}

func (m *BillingModel) row(p billingPane, i int, text string) string {
	if m.pane == p && m.cursors[p] == i {
		return selectedStyle.Render("> "+text) + "\n"
	}
	return "  " + text + "\n"
}

func (m *BillingModel) renderCustomers() string {
	if len(m.customers) == 0 {
		return subtitleStyle.Render("No customers. Press 'c' to add one.")
	}
	var s string
	start, end := window(m.cursors[paneCustomers], len(m.customers))
	for i := start; i < end; i++ {
		c := m.customers[i]
		name := truncateStr(c.Name, 24)
		if m.session.Customer != nil && m.session.Customer.ID == c.ID {
			name = "✓ " + name
		}
		s += m.row(paneCustomers, i, fmt.Sprintf("%-26s", name))
	}
	return strings.TrimRight(s, "\n")
}

func (m *BillingModel) renderProducts() string {
	if len(m.products) == 0 {
		return subtitleStyle.Render("No products. Add them with 'gstbill products add'.")
	}
	var s string
	start, end := window(m.cursors[paneProducts], len(m.products))
	for i := start; i < end; i++ {
		p := m.products[i]
		s += m.row(paneProducts, i, fmt.Sprintf("%-24s %12s %4s",
			truncateStr(p.Name, 24), formatMoney(p.Price), p.Rate))
	}
	return strings.TrimRight(s, "\n")
}

func (m *BillingModel) renderLines() string {
	items := m.session.Ledger.Items()
	if len(items) == 0 {
		return subtitleStyle.Render("No lines yet. Select a product and press enter.")
	}
	s := subtitleStyle.Render(fmt.Sprintf("  %-24s %5s %12s %4s %10s %13s", "Product", "Qty", "Price", "GST", "Tax", "Total")) + "\n"
	for i, it := range items {
		s += m.row(paneLines, i, fmt.Sprintf("%-24s %5d %12s %4s %10s %13s",
			truncateStr(it.ProductName, 24),
			it.Quantity,
			formatMoney(it.UnitPrice),
			it.Rate,
			formatMoney(it.TaxAmount),
			formatMoney(it.LineTotal),
		))
	}
	return strings.TrimRight(s, "\n")
}

func (m *BillingModel) renderTotals() string {
	t := m.session.Ledger.Totals()
	line := func(label, value string, style lipgloss.Style) string {
		return "  " + totalLabelStyle.Render(label) + style.Render(value) + "\n"
	}
	return line("Subtotal", formatMoney(t.Subtotal), totalValueStyle) +
		line("CGST", formatMoney(t.CGST), totalValueStyle) +
		line("SGST", formatMoney(t.SGST), totalValueStyle) +
		line("Grand total", formatMoney(t.GrandTotal), grandTotalStyle)
}
