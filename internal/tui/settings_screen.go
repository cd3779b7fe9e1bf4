package tui

import (
	"fmt"
	"strings"

	"github.com/andy/gstbill/internal/app"
	"github.com/andy/gstbill/internal/domain"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type settingsMode int

const (
	settingsModeView settingsMode = iota
	settingsModeEdit
)

// settings form field indices
const (
	settingsFieldSellerName = iota
	settingsFieldSellerGSTIN
	settingsFieldSellerAddress
	settingsFieldSellerPhone
	settingsFieldSellerEmail
	settingsFieldPrefix
	settingsFieldCount
)

var settingsLabels = []string{"Business Name:", "GSTIN:", "Address:", "Phone:", "Email:", "Invoice Prefix:"}

type settingsSavedMsg struct {
	err error
}

// SettingsModel manages the settings screen
type SettingsModel struct {
	app        *app.App
	mode       settingsMode
	fields     []textinput.Model
	fieldFocus int
	err        error
	statusMsg  string
}

// NewSettingsModel creates a new settings screen
func NewSettingsModel(a *app.App) tea.Model {
	return &SettingsModel{
		app:  a,
		mode: settingsModeView,
	}
}

// IsCapturingInput returns true when the edit form is active
func (m *SettingsModel) IsCapturingInput() bool {
	return m.mode == settingsModeEdit
}

func (m *SettingsModel) Init() tea.Cmd {
	return nil
}

func (m *SettingsModel) values() []string {
	cfg := m.app.Config
	return []string{
		cfg.Seller.Name,
		cfg.Seller.GSTIN,
		cfg.Seller.Address,
		cfg.Seller.Phone,
		cfg.Seller.Email,
		cfg.Invoice.NumberPrefix,
	}
}

func (m *SettingsModel) initForm() {
	m.fields = make([]textinput.Model, settingsFieldCount)
	for i, v := range m.values() {
		m.fields[i] = textinput.New()
		m.fields[i].CharLimit = 200
		m.fields[i].Width = 50
		m.fields[i].SetValue(v)
	}
	m.fields[settingsFieldSellerGSTIN].CharLimit = 15
	m.fields[settingsFieldSellerGSTIN].Width = 20
	m.fields[settingsFieldPrefix].CharLimit = 20
	m.fields[settingsFieldPrefix].Width = 20
	m.fields[settingsFieldPrefix].Placeholder = "INV"

	m.fieldFocus = settingsFieldSellerName
	m.fields[settingsFieldSellerName].Focus()
}

func (m *SettingsModel) saveSettings() tea.Cmd {
	return func() tea.Msg {
		get := func(i int) string { return strings.TrimSpace(m.fields[i].Value()) }

		// The seller name is optional here; GSTIN and email still get checked.
		seller := domain.NewParty(domain.PartyCustomer, get(settingsFieldSellerName), get(settingsFieldSellerGSTIN))
		seller.Email = get(settingsFieldSellerEmail)
		check := *seller
		if check.Name == "" {
			check.Name = "-"
		}
		if err := check.Validate(); err != nil {
			return settingsSavedMsg{err: err}
		}

		cfg := *m.app.Config
		cfg.Seller.Name = seller.Name
		cfg.Seller.GSTIN = seller.GSTIN
		cfg.Seller.Address = get(settingsFieldSellerAddress)
		cfg.Seller.Phone = get(settingsFieldSellerPhone)
		cfg.Seller.Email = seller.Email
		cfg.Invoice.NumberPrefix = get(settingsFieldPrefix)
		if err := cfg.Validate(); err != nil {
			return settingsSavedMsg{err: err}
		}

		*m.app.Config = cfg
		if err := m.app.SaveConfig(); err != nil {
			return settingsSavedMsg{err: fmt.Errorf("failed to save config: %w", err)}
		}
		return settingsSavedMsg{}
	}
}

func (m *SettingsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.mode == settingsModeEdit {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		m.err = nil
		if msg.String() == "enter" {
			m.mode = settingsModeEdit
			m.statusMsg = ""
			m.initForm()
			return m, m.fields[m.fieldFocus].Focus()
		}
	}

	return m, nil
}

func (m *SettingsModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case settingsSavedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.mode = settingsModeView
		m.statusMsg = "Settings saved. Seller details apply to the next PDF; a new prefix applies after restart."
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			m.mode = settingsModeView
			m.err = nil
			return m, nil

		case "tab", "down":
			m.fields[m.fieldFocus].Blur()
			m.fieldFocus = (m.fieldFocus + 1) % settingsFieldCount
			return m, m.fields[m.fieldFocus].Focus()

		case "shift+tab", "up":
			m.fields[m.fieldFocus].Blur()
			m.fieldFocus = (m.fieldFocus - 1 + settingsFieldCount) % settingsFieldCount
			return m, m.fields[m.fieldFocus].Focus()

		case "enter":
			if m.fieldFocus == settingsFieldCount-1 {
				return m, m.saveSettings()
			}
			m.fields[m.fieldFocus].Blur()
			m.fieldFocus++
			return m, m.fields[m.fieldFocus].Focus()

		case "ctrl+s":
			return m, m.saveSettings()
		}
	}

	var cmd tea.Cmd
	m.fields[m.fieldFocus], cmd = m.fields[m.fieldFocus].Update(msg)
	return m, cmd
}

func (m *SettingsModel) View() string {
	if m.mode == settingsModeEdit {
		return m.viewForm()
	}
	return m.viewSettings()
}

func (m *SettingsModel) viewSettings() string {
	var s string
	s += titleStyle.Render("Settings") + "\n\n"

	if m.statusMsg != "" {
		s += statusStyle.Render("  "+m.statusMsg) + "\n\n"
	}

	labelStyle := lipgloss.NewStyle().Bold(true).Width(22)
	valueStyle := lipgloss.NewStyle().Foreground(primaryColor)

	s += subtitleStyle.Render("  Seller (printed on invoices)") + "\n\n"
	for i, v := range m.values() {
		if i == settingsFieldPrefix {
			s += "\n" + subtitleStyle.Render("  Invoices") + "\n\n"
		}
		if v == "" {
			v = "-"
		}
		s += fmt.Sprintf("  %s %s\n", labelStyle.Render(settingsLabels[i]), valueStyle.Render(v))
	}

	cfg := m.app.Config
	s += fmt.Sprintf("  %s %s\n", labelStyle.Render("PDF Directory:"), valueStyle.Render(cfg.Invoice.OutputDir))
	s += fmt.Sprintf("  %s %s\n", labelStyle.Render("Reports Directory:"), valueStyle.Render(cfg.Reports.OutputDir))

	s += "\n" + helpStyle.Render("  enter: edit settings")
	return s
}

func (m *SettingsModel) viewForm() string {
	var s string
	s += titleStyle.Render("Edit Settings") + "\n\n"

	for i, label := range settingsLabels {
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
