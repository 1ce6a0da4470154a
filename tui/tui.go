// ABOUTME: Terminal User Interface using bubbletea framework
// ABOUTME: Provides the field consultant's survey wizard and dashboard
package tui

import (
	"database/sql"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/grupoethernos/campo/models"
	"github.com/grupoethernos/campo/session"
	syncpkg "github.com/grupoethernos/campo/sync"
)

// ViewMode represents the current TUI view
type ViewMode int

const (
	ViewLogin ViewMode = iota
	ViewDashboard
	ViewWizard
	ViewClients
	ViewSurveys
	ViewSales
)

// Model is the main bubbletea model
type Model struct {
	db    *sql.DB
	svc   *session.Service
	coord *syncpkg.Coordinator

	viewMode ViewMode
	user     *models.User

	// Login view state
	loginIndex int

	// Wizard state
	formInputs []textinput.Model
	focusIndex int
	cursor     int
	errMsg     string

	// List view state
	selectedRow int

	// Dashboard state
	statusMsg string

	width  int
	height int
}

// NewModel creates a new TUI model
func NewModel(database *sql.DB, svc *session.Service, coord *syncpkg.Coordinator) Model {
	m := Model{
		db:       database,
		svc:      svc,
		coord:    coord,
		viewMode: ViewLogin,
		width:    80,
		height:   24,
	}

	// A previous run may still be logged in.
	if u, err := svc.CurrentUser(); err == nil && u != nil {
		m.user = u
		m.viewMode = ViewDashboard
		if p, err := svc.ResumeIfInProgress(); err == nil && p != nil {
			m.enterWizard()
		}
	}

	return m
}

// Run starts the full-screen program.
func Run(database *sql.DB, svc *session.Service, coord *syncpkg.Coordinator) error {
	p := tea.NewProgram(NewModel(database, svc, coord), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}
	return m, nil
}

func (m Model) View() string {
	switch m.viewMode {
	case ViewLogin:
		return m.renderLoginView()
	case ViewDashboard:
		return m.renderDashboardView()
	case ViewWizard:
		return m.renderWizardView()
	case ViewClients, ViewSurveys, ViewSales:
		return m.renderListView()
	}
	return ""
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.viewMode {
	case ViewLogin:
		return m.handleLoginKeys(msg)
	case ViewDashboard:
		return m.handleDashboardKeys(msg)
	case ViewWizard:
		return m.handleWizardKeys(msg)
	case ViewClients, ViewSurveys, ViewSales:
		return m.handleListKeys(msg)
	}

	return m, nil
}

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("33")).
			MarginBottom(1)

	stepStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("33")).
			Background(lipgloss.Color("235")).
			Padding(0, 2)

	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("33"))

	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196"))

	badgeStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214"))

	tabActiveStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("33")).
			Background(lipgloss.Color("235")).
			Padding(0, 2)

	tabInactiveStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240")).
				Padding(0, 2)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			MarginTop(1)
)
