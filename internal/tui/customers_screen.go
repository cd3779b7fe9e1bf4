package tui

import (
	"context"
	"fmt"

	"github.com/andy/gstbill/internal/app"
	"github.com/andy/gstbill/internal/domain"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// customerMode represents the current screen mode
type customerMode int

const (
	customerModeList customerMode = iota
	customerModeNew
	customerModeEdit
	customerModeConfirmDelete
)

// form field indices
const (
	fieldName = iota
	fieldGSTIN
	fieldPhone
	fieldEmail
	fieldAddress
	fieldCount
)

var customerFieldLabels = []string{"Name:", "GSTIN:", "Phone:", "Email:", "Address:"}

// CustomersModel displays a navigable list of customers with create/edit forms
type CustomersModel struct {
	app       *app.App
	customers []*domain.Party
	billed    map[int64]int // invoice count per customer
	cursor    int
	loading   bool
	err       error
	statusMsg string

	// Form state
	mode            customerMode
	fields          []textinput.Model
	fieldFocus      int
	editingID       int64 // 0 for new customer
	autoNewCustomer bool  // open new customer form after data loads
}

type customersDataMsg struct {
	customers []*domain.Party
	billed    map[int64]int
	err       error
}

type customerSavedMsg struct {
	name string
	err  error
}

// NewCustomersModel creates a new customers screen model
func NewCustomersModel(a *app.App) tea.Model {
	return &CustomersModel{
		app:     a,
		billed:  make(map[int64]int),
		loading: true,
	}
}

// IsCapturingInput returns true when the form or a delete prompt is active
func (m *CustomersModel) IsCapturingInput() bool {
	return m.mode != customerModeList
}

func (m *CustomersModel) Init() tea.Cmd {
	return m.loadCustomers()
}

func (m *CustomersModel) loadCustomers() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()

		customers, err := m.app.CustomerRepo.List(ctx)
		if err != nil {
			return customersDataMsg{err: err}
		}

		billed := make(map[int64]int)
		invoices, err := m.app.InvoiceRepo.List(ctx, nil, nil)
		if err == nil {
			for _, inv := range invoices {
				billed[inv.CustomerID]++
			}
		}

		return customersDataMsg{customers: customers, billed: billed}
	}
}

func (m *CustomersModel) initForm(editing *domain.Party) {
	m.fields = make([]textinput.Model, fieldCount)
	for i := range m.fields {
		m.fields[i] = textinput.New()
		m.fields[i].Width = 40
		m.fields[i].CharLimit = 100
	}

	m.fields[fieldName].Placeholder = "Customer name"
	m.fields[fieldGSTIN].Placeholder = "29ABCDE1234F1Z5 (optional)"
	m.fields[fieldGSTIN].CharLimit = 15
	m.fields[fieldGSTIN].Width = 20
	m.fields[fieldPhone].Placeholder = "Optional"
	m.fields[fieldPhone].CharLimit = 40
	m.fields[fieldPhone].Width = 20
	m.fields[fieldEmail].Placeholder = "email@example.com"
	m.fields[fieldAddress].Placeholder = "Billing address"
	m.fields[fieldAddress].CharLimit = 500
	m.fields[fieldAddress].Width = 60

	if editing != nil {
		m.fields[fieldName].SetValue(editing.Name)
		m.fields[fieldGSTIN].SetValue(editing.GSTIN)
		m.fields[fieldPhone].SetValue(editing.Phone)
		m.fields[fieldEmail].SetValue(editing.Email)
		m.fields[fieldAddress].SetValue(editing.Address)
		m.editingID = editing.ID
	} else {
		m.editingID = 0
	}

	m.fieldFocus = fieldName
	m.fields[fieldName].Focus()
}

func (m *CustomersModel) saveCustomer() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()

		var p *domain.Party
		if m.editingID > 0 {
			existing, err := m.app.CustomerRepo.GetByID(ctx, m.editingID)
			if err != nil {
				return customerSavedMsg{err: err}
			}
			p = existing
			p.Name = m.fields[fieldName].Value()
			p.GSTIN = m.fields[fieldGSTIN].Value()
		} else {
			p = domain.NewParty(domain.PartyCustomer, m.fields[fieldName].Value(), m.fields[fieldGSTIN].Value())
		}
		p.Phone = m.fields[fieldPhone].Value()
		p.Email = m.fields[fieldEmail].Value()
		p.Address = m.fields[fieldAddress].Value()

		if err := p.Validate(); err != nil {
			return customerSavedMsg{err: err}
		}

		var err error
		if m.editingID > 0 {
			err = m.app.CustomerRepo.Update(ctx, p)
		} else {
			err = m.app.CustomerRepo.Create(ctx, p)
		}
		if err != nil {
			return customerSavedMsg{err: err}
		}
		return customerSavedMsg{name: p.Name}
	}
}

func (m *CustomersModel) deleteSelected() tea.Cmd {
	c := m.customers[m.cursor]
	return func() tea.Msg {
		if err := m.app.CustomerRepo.Delete(context.Background(), c.ID); err != nil {
			return customersDataMsg{err: err}
		}
		return m.loadCustomers()()
	}
}

func (m *CustomersModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Handle OpenNewCustomerFormMsg at the top so it works regardless of mode
	if _, ok := msg.(OpenNewCustomerFormMsg); ok {
		if m.loading {
			// Data hasn't loaded yet; set flag to auto-open form when it does
			m.autoNewCustomer = true
			return m, nil
		}
		m.mode = customerModeNew
		m.initForm(nil)
		return m, m.fields[fieldName].Focus()
	}

	if m.mode == customerModeNew || m.mode == customerModeEdit {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case RefreshDataMsg:
		m.loading = true
		return m, m.loadCustomers()

	case customersDataMsg:
		m.loading = false
		m.err = msg.err
		if msg.err != nil {
			m.statusMsg = ""
		} else {
			m.customers = msg.customers
			m.billed = msg.billed
			m.cursor = clampCursor(m.cursor, len(m.customers))
		}
		// Auto-open new customer form on first run
		if m.autoNewCustomer {
			m.autoNewCustomer = false
			m.mode = customerModeNew
			m.initForm(nil)
			return m, m.fields[fieldName].Focus()
		}
		return m, nil

	case tea.KeyMsg:
		if m.loading {
			return m, nil
		}

		if m.mode == customerModeConfirmDelete {
			m.mode = customerModeList
			if msg.String() == "y" {
				m.statusMsg = fmt.Sprintf("Deleted: %s", m.customers[m.cursor].Name)
				m.loading = true
				return m, m.deleteSelected()
			}
			m.statusMsg = "Delete cancelled"
			return m, nil
		}

		m.statusMsg = ""
		m.err = nil

		switch {
		case key.Matches(msg, DefaultKeyMap.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, DefaultKeyMap.Down):
			if m.cursor < len(m.customers)-1 {
				m.cursor++
			}
		case key.Matches(msg, DefaultKeyMap.New):
			m.mode = customerModeNew
			m.initForm(nil)
			return m, m.fields[fieldName].Focus()
		case key.Matches(msg, DefaultKeyMap.Select):
			if len(m.customers) > 0 {
				m.mode = customerModeEdit
				m.initForm(m.customers[m.cursor])
				return m, m.fields[fieldName].Focus()
			}
		case key.Matches(msg, DefaultKeyMap.Delete):
			if len(m.customers) > 0 {
				m.mode = customerModeConfirmDelete
			}
		}
	}

	return m, nil
}

func (m *CustomersModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case customerSavedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.mode = customerModeList
		m.statusMsg = fmt.Sprintf("Saved: %s", msg.name)
		m.loading = true
		return m, m.loadCustomers()

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			m.mode = customerModeList
			m.err = nil
			return m, nil

		case "tab", "down":
			m.fields[m.fieldFocus].Blur()
			m.fieldFocus = (m.fieldFocus + 1) % fieldCount
			return m, m.fields[m.fieldFocus].Focus()

		case "shift+tab", "up":
			m.fields[m.fieldFocus].Blur()
			m.fieldFocus = (m.fieldFocus - 1 + fieldCount) % fieldCount
			return m, m.fields[m.fieldFocus].Focus()

		case "enter":
			if m.fieldFocus == fieldCount-1 {
				return m, m.saveCustomer()
			}
			m.fields[m.fieldFocus].Blur()
			m.fieldFocus++
			return m, m.fields[m.fieldFocus].Focus()

		case "ctrl+s":
			return m, m.saveCustomer()
		}
	}

	var cmd tea.Cmd
	m.fields[m.fieldFocus], cmd = m.fields[m.fieldFocus].Update(msg)
	return m, cmd
}

func (m *CustomersModel) View() string {
	if m.mode == customerModeNew || m.mode == customerModeEdit {
		return m.viewForm()
	}
	return m.viewList()
}

func (m *CustomersModel) viewForm() string {
	var s string

	if m.mode == customerModeNew {
		if len(m.customers) == 0 {
			s += titleStyle.Render("Welcome to gstbill!") + "\n"
			s += subtitleStyle.Render("  Add your first customer to start billing.") + "\n\n"
		} else {
			s += titleStyle.Render("New Customer") + "\n\n"
		}
	} else {
		s += titleStyle.Render("Edit Customer") + "\n\n"
	}

	for i, label := range customerFieldLabels {
		indicator := "  "
		labelStyle := subtitleStyle
		if i == m.fieldFocus {
			indicator = "> "
			labelStyle = lipgloss.NewStyle().Bold(true).Foreground(primaryColor)
		}
		s += fmt.Sprintf("%s%s\n  %s\n\n", indicator, labelStyle.Render(label), m.fields[i].View())
	}

	if m.err != nil {
		s += errStyle.Render(fmt.Sprintf("  Error: %v", m.err)) + "\n\n"
	}

	s += helpStyle.Render("  tab/shift+tab: navigate fields  ctrl+s: save  enter: next/save  esc: cancel")

	return s
}

func (m *CustomersModel) viewList() string {
	if m.loading {
		return "Loading customers..."
	}

	var s string
	s += titleStyle.Render("Customers") + "\n\n"

	if m.statusMsg != "" {
		s += statusStyle.Render("  "+m.statusMsg) + "\n\n"
	}
	if m.err != nil {
		s += errStyle.Render(fmt.Sprintf("  Error: %v", m.err)) + "\n\n"
	}

	if len(m.customers) == 0 {
		s += subtitleStyle.Render("  No customers yet. Press 'n' to add one.") + "\n"
		return s
	}

	for i, c := range m.customers {
		s += m.renderCustomer(i, c) + "\n"
	}

	if m.mode == customerModeConfirmDelete {
		s += "\n" + warnStyle.Render(fmt.Sprintf("  Delete %s? y to confirm, any other key to cancel", m.customers[m.cursor].Name))
		return s
	}

	s += "\n" + helpStyle.Render("  j/k: navigate  n: new  enter: edit  d: delete")
	return s
}

func (m *CustomersModel) renderCustomer(index int, c *domain.Party) string {
	selected := index == m.cursor

	indicator := "  "
	if selected {
		indicator = "> "
	}

	gstin := c.GSTIN
	if gstin == "" {
		gstin = "Unregistered"
	}
	line1 := fmt.Sprintf("%s%s", indicator, c.Name)
	line2 := fmt.Sprintf("    GSTIN: %s  |  Invoices: %d", gstin, m.billed[c.ID])

	contact := c.Email
	if contact == "" {
		contact = c.Phone
	}

	nameStyle := lipgloss.NewStyle()
	if selected {
		nameStyle = nameStyle.Bold(true).Foreground(primaryColor)
	}

	result := nameStyle.Render(line1) + "\n" + subtitleStyle.Render(line2)
	if contact != "" {
		result += "\n" + subtitleStyle.Render("    "+truncateStr(contact, 40))
	}
	return result
}
