// ABOUTME: Terminal monitor window using the bubbletea framework
// ABOUTME: Shows the rotating views of one screen and hosts the audio controls panel
package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harperreed/painel/alert"
	"github.com/harperreed/painel/models"
	"github.com/harperreed/painel/monitor"
	"github.com/harperreed/painel/prefs"
)

// ViewMode represents the current TUI view
type ViewMode int

const (
	ViewMonitor ViewMode = iota
	ViewAudio
)

// Screen is the running monitor as seen by the window.
type Screen interface {
	Title() string
	Current() monitor.ViewState
	AllViews() []monitor.ViewState
}

// Settings is the preference store behind the audio controls.
type Settings interface {
	AlertMode() (models.AlertMode, error)
	SetAlertMode(models.AlertMode) error
	AudioSource() (models.AudioSource, error)
	SetAudioSource(models.AudioSource) error
	ContextSounds() (map[models.AlertContext]models.SoundType, error)
	SetSoundForContext(models.AlertContext, models.SoundType) error
	ListAudioAssetNames() ([]string, error)
	PreferredAudioAsset() (string, bool, error)
	SetPreferredAudioAsset(string) error
	StorageUsage() (prefs.Usage, error)
}

// Alerts is the alert engine as seen by the window.
type Alerts interface {
	TestSound(ctx context.Context) alert.Event
	Last() (alert.Event, bool)
}

// TickMsg redraws the window and the rotation progress.
type TickMsg time.Time

const tickInterval = 250 * time.Millisecond

// Model is the main bubbletea model
type Model struct {
	screen   Screen
	settings Settings
	alerts   Alerts
	viewMode ViewMode
	now      func() time.Time

	audio         audioState
	assetCursor   int
	contextCursor int
	messages      []string

	// UI state
	width  int
	height int
}

// NewModel creates a new TUI model
func NewModel(screen Screen, settings Settings, alerts Alerts) Model {
	return Model{
		screen:   screen,
		settings: settings,
		alerts:   alerts,
		viewMode: ViewMonitor,
		now:      time.Now,
		width:    100,
		height:   30,
	}
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case TickMsg:
		return m, tick()
	case TestSoundMsg:
		m.handleTestSound(msg)
		return m, nil
	}
	return m, nil
}

func (m Model) View() string {
	switch m.viewMode {
	case ViewMonitor:
		return m.renderMonitorView()
	case ViewAudio:
		return m.renderAudioView()
	}
	return ""
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	}

	// Delegate to view-specific handlers
	switch m.viewMode {
	case ViewMonitor:
		return m.handleMonitorKeys(msg)
	case ViewAudio:
		return m.handleAudioKeys(msg)
	}

	return m, nil
}

// Run shows the window until the user quits.
func Run(screen Screen, settings Settings, alerts Alerts) error {
	p := tea.NewProgram(NewModel(screen, settings, alerts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			MarginBottom(1)

	tabActiveStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			Background(lipgloss.Color("235")).
			Padding(0, 1)

	tabInactiveStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240")).
				Padding(0, 1)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			MarginTop(1)
)
