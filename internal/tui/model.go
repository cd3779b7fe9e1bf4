package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/andy/gstbill/internal/app"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Screen represents the current active screen
type Screen int

const (
	ScreenDashboard Screen = iota
	ScreenBilling
	ScreenCustomers
	ScreenInvoices
	ScreenReports
	ScreenSettings
	screenCount
)

// String returns the screen name
func (s Screen) String() string {
	switch s {
	case ScreenDashboard:
		return "Dashboard"
	case ScreenBilling:
		return "Billing"
	case ScreenCustomers:
		return "Customers"
	case ScreenInvoices:
		return "Invoices"
	case ScreenReports:
		return "Reports"
	case ScreenSettings:
		return "Settings"
	default:
		return "Unknown"
	}
}

// Model is the root Bubble Tea model
type Model struct {
	app           *app.App
	currentScreen Screen
	width         int
	height        int

	// Screen models, lazily created on first visit
	screens [screenCount]tea.Model

	checkedFirstRun bool
	err             error
}

// New creates a new root model
func New(a *app.App) Model {
	m := Model{app: a, currentScreen: ScreenDashboard}
	m.screens[ScreenDashboard] = NewDashboardModel(a)
	return m
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.checkFirstRun(), m.screens[ScreenDashboard].Init())
}

// checkFirstRun checks if any customers exist in the database
func (m *Model) checkFirstRun() tea.Cmd {
	return func() tea.Msg {
		customers, err := m.app.CustomerRepo.List(context.Background())
		if err != nil {
			return firstRunCheckMsg{hasCustomers: true} // assume yes on error
		}
		return firstRunCheckMsg{hasCustomers: len(customers) > 0}
	}
}

func (m *Model) newScreen(screen Screen) tea.Model {
	switch screen {
	case ScreenDashboard:
		return NewDashboardModel(m.app)
	case ScreenBilling:
		return NewBillingModel(m.app)
	case ScreenCustomers:
		return NewCustomersModel(m.app)
	case ScreenInvoices:
		return NewInvoicesModel(m.app)
	case ScreenReports:
		return NewReportsModel(m.app)
	case ScreenSettings:
		return NewSettingsModel(m.app)
	}
	return nil
}

// initScreen lazy-initializes a screen on first visit,
// and sends a RefreshDataMsg on subsequent visits so screens reload data.
func (m *Model) initScreen(screen Screen) tea.Cmd {
	if m.screens[screen] == nil {
		m.screens[screen] = m.newScreen(screen)
		return m.screens[screen].Init()
	}
	return func() tea.Msg { return RefreshDataMsg{} }
}

func (m *Model) switchTo(screen Screen) tea.Cmd {
	m.currentScreen = screen
	m.err = nil
	return m.initScreen(screen)
}

// InputCapturer is implemented by screens that capture keyboard input (e.g. text forms).
// When active, global navigation keys are suppressed.
type InputCapturer interface {
	IsCapturingInput() bool
}

// activeScreenCapturingInput returns true if the current screen is capturing text input
func (m *Model) activeScreenCapturingInput() bool {
	if ic, ok := m.screens[m.currentScreen].(InputCapturer); ok {
		return ic.IsCapturingInput()
	}
	return false
}

var navigation = []struct {
	binding *key.Binding
	screen  Screen
}{
	{&DefaultKeyMap.Dashboard, ScreenDashboard},
	{&DefaultKeyMap.Billing, ScreenBilling},
	{&DefaultKeyMap.Customers, ScreenCustomers},
	{&DefaultKeyMap.Invoices, ScreenInvoices},
	{&DefaultKeyMap.Reports, ScreenReports},
	{&DefaultKeyMap.Settings, ScreenSettings},
}

// Update implements tea.Model - routes keys to screens
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		// Skip global navigation when a screen is capturing text input
		if !m.activeScreenCapturingInput() {
			if key.Matches(msg, DefaultKeyMap.Quit) {
				return m, tea.Quit
			}
			for _, nav := range navigation {
				if key.Matches(msg, *nav.binding) {
					return m, m.switchTo(nav.screen)
				}
			}
		}

	case firstRunCheckMsg:
		if !m.checkedFirstRun && !msg.hasCustomers {
			m.checkedFirstRun = true
			initCmd := m.switchTo(ScreenCustomers)
			openFormCmd := func() tea.Msg { return OpenNewCustomerFormMsg{} }
			return m, tea.Batch(initCmd, openFormCmd)
		}
		m.checkedFirstRun = true
		return m, nil

	case SwitchScreenMsg:
		return m, m.switchTo(msg.Screen)

	case ErrorMsg:
		m.err = msg.Err
		return m, nil
	}

	// Route message to current screen
	var cmd tea.Cmd
	if s := m.screens[m.currentScreen]; s != nil {
		m.screens[m.currentScreen], cmd = s.Update(msg)
	}
	return m, cmd
}

// View implements tea.Model - renders header + current screen + footer
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	header := headerStyle.Render(fmt.Sprintf("gstbill - %s", m.currentScreen.String()))
	footer := footerStyle.Render("[G]Dashboard  [B]ill  [C]ustomers  [I]nvoices  [R]eports  [,] Settings  [Q]uit")

	content := "Loading..."
	if s := m.screens[m.currentScreen]; s != nil {
		content = s.View()
	}

	errorDisplay := ""
	if m.err != nil {
		errorDisplay = errStyle.Render(fmt.Sprintf("\nError: %s", m.err.Error()))
	}

	// Divider line between header and content
	innerWidth := m.width - 6 // account for border (2) + padding (4)
	if innerWidth < 20 {
		innerWidth = 20
	}
	dividerWidth := innerWidth - 12
	if dividerWidth < 10 {
		dividerWidth = 10
	}
	divider := lipgloss.NewStyle().Foreground(borderColor).Render(
		strings.Repeat("─", dividerWidth),
	)

	body := fmt.Sprintf("%s\n%s\n\n%s%s\n\n%s\n%s", header, divider, content, errorDisplay, divider, footer)

	frame := appBorderStyle.
		Width(innerWidth).
		Height(m.height - 4) // leave room for border top/bottom
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, frame.Render(body))
}

// Run starts the TUI
func Run(a *app.App) error {
	p := tea.NewProgram(New(a), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
