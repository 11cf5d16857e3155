// ABOUTME: TUI view for the rotating monitor screen
// ABOUTME: Renders view tabs, the current view table, rotation progress and the alert status bar
package tui

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/harperreed/painel/alert"
	"github.com/harperreed/painel/models"
	"github.com/harperreed/painel/viz"
)

var (
	summaryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true)

	emptyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10")).
			Italic(true).
			Padding(1, 2)

	staleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11"))

	statusBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255")).
			Background(lipgloss.Color("236")).
			Padding(0, 1)

	alertFlashStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("214")).
			Bold(true).
			Padding(0, 1)
)

// recentAlert is how long the status bar highlights the last alert.
const recentAlert = 10 * time.Second

func (m Model) renderMonitorView() string {
	var s strings.Builder
	state := m.screen.Current()

	// Title
	s.WriteString(titleStyle.Render(strings.ToUpper(m.screen.Title()) + " · " + state.ViewTitle))
	s.WriteString("\n")

	// Tabs
	s.WriteString(m.renderTabs())
	s.WriteString("\n\n")

	// Body
	if !state.Data.Ready {
		if state.Data.Error != "" {
			s.WriteString(staleStyle.Render("  ⚠️  " + state.Data.Error))
		} else {
			s.WriteString(emptyStyle.Render("Loading..."))
		}
		s.WriteString("\n")
	} else {
		s.WriteString(m.renderTable(viz.Tabulate(state.Data.Value)))
		s.WriteString("\n")
		status := viz.DataStatus(state.Data, m.now())
		if state.Data.Error != "" {
			s.WriteString(staleStyle.Render(status))
		} else {
			s.WriteString(helpStyle.UnsetMarginTop().Render(status))
		}
		s.WriteString("\n")
	}

	// Rotation progress
	s.WriteString("\n")
	s.WriteString(m.renderProgress(state.RotatedAt, state.Period))
	s.WriteString("\n")

	// Alert status bar
	s.WriteString(m.renderStatusBar())
	s.WriteString("\n")

	// Help
	s.WriteString(m.renderMonitorHelp())

	return s.String()
}

func (m Model) renderTabs() string {
	current := m.screen.Current().View
	var rendered []string
	for _, v := range m.screen.AllViews() {
		if v.View == current {
			rendered = append(rendered, tabActiveStyle.Render(v.ViewTitle))
		} else {
			rendered = append(rendered, tabInactiveStyle.Render(v.ViewTitle))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (m Model) renderTable(t viz.Table) string {
	if len(t.Rows) == 0 {
		out := emptyStyle.Render(t.Empty)
		for _, line := range t.Summary {
			out += "\n" + summaryStyle.Render("  "+line)
		}
		return out
	}

	columns := make([]table.Column, len(t.Columns))
	for i, title := range t.Columns {
		width := utf8.RuneCountInString(title)
		for _, row := range t.Rows {
			if i < len(row) && utf8.RuneCountInString(row[i]) > width {
				width = utf8.RuneCountInString(row[i])
			}
		}
		columns[i] = table.Column{Title: title, Width: width + 1}
	}

	rows := make([]table.Row, 0, len(t.Rows))
	for _, r := range t.Rows {
		rows = append(rows, table.Row(r))
	}

	height := len(rows) + 2
	if maxHeight := m.height - 14; maxHeight > 3 && height > maxHeight {
		height = maxHeight
	}

	tbl := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithHeight(height),
	)

	out := tbl.View()
	for _, line := range t.Summary {
		out += "\n" + summaryStyle.Render("  "+line)
	}
	return out
}

// rotationFraction is how much of the current view's display period has elapsed.
func rotationFraction(rotatedAt time.Time, period time.Duration, now time.Time) float64 {
	if period <= 0 || rotatedAt.IsZero() {
		return 0
	}
	f := float64(now.Sub(rotatedAt)) / float64(period)
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

func (m Model) renderProgress(rotatedAt time.Time, period time.Duration) string {
	width := m.width - 4
	if width > 60 {
		width = 60
	}
	if width < 10 {
		width = 10
	}
	bar := progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage(), progress.WithWidth(width))
	return "  " + bar.ViewAs(rotationFraction(rotatedAt, period, m.now()))
}

func (m Model) renderStatusBar() string {
	mode := models.AlertModeDisabled
	if m.settings != nil {
		if v, err := m.settings.AlertMode(); err == nil {
			mode = v
		}
	}
	left := statusBarStyle.Render("🔔 alerts: " + string(mode))

	if m.alerts == nil {
		return left
	}
	ev, ok := m.alerts.Last()
	if !ok {
		return left
	}
	desc := describeEvent(ev) + " · " + humanize.RelTime(ev.At, m.now(), "ago", "from now")
	if m.now().Sub(ev.At) < recentAlert && ev.Outcome != alert.OutcomeSkipped {
		return lipgloss.JoinHorizontal(lipgloss.Top, left, alertFlashStyle.Render(desc))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, left, statusBarStyle.Render(desc))
}

func describeEvent(ev alert.Event) string {
	switch ev.Outcome {
	case alert.OutcomeSkipped:
		return fmt.Sprintf("%s (silenced)", ev.Context)
	case alert.OutcomeStored:
		return fmt.Sprintf("%s → %s", ev.Context, ev.Resource)
	}
	return fmt.Sprintf("%s → %s", ev.Context, models.SoundType(ev.Resource).Label())
}

func (m Model) renderMonitorHelp() string {
	help := []string{
		"a: Audio controls",
		"t: Test sound",
		"q: Quit",
	}
	return helpStyle.Render(strings.Join(help, " • "))
}

func (m Model) handleMonitorKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "a":
		m.viewMode = ViewAudio
		m.loadAudioState()
	case "t":
		m.addMessage("Playing test sound...")
		return m, m.testSound()
	}
	return m, nil
}
