// ABOUTME: TUI panel for alert sound settings and controls
// ABOUTME: Cycles alert mode and audio source, picks sounds per context and the preferred upload
package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/harperreed/painel/alert"
	"github.com/harperreed/painel/models"
	"github.com/harperreed/painel/prefs"
)

var (
	audioHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("39")).
				Underline(true)

	audioLabelStyle = lipgloss.NewStyle().
			Bold(true).
			Width(20)

	audioValueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10"))

	audioDisabledStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("9"))

	audioSelectedStyle = lipgloss.NewStyle().
				Background(lipgloss.Color("235")).
				Foreground(lipgloss.Color("255")).
				Bold(true)

	audioMessageStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240")).
				Italic(true)
)

// TestSoundMsg is sent when a test sound has been triggered.
type TestSoundMsg struct {
	Event alert.Event
}

// audioState is the last read of the preference store.
type audioState struct {
	mode      models.AlertMode
	source    models.AudioSource
	sounds    map[models.AlertContext]models.SoundType
	assets    []string
	preferred string
	usage     prefs.Usage
	err       error
}

const maxMessages = 5

func (m Model) renderAudioView() string {
	var s strings.Builder
	a := m.audio

	// Title
	s.WriteString(titleStyle.Render("Alert Sounds"))
	s.WriteString("\n\n")

	if a.err != nil {
		s.WriteString(audioDisabledStyle.Render("Could not read settings: " + a.err.Error()))
		s.WriteString("\n\n")
	}

	// Settings
	s.WriteString(audioHeaderStyle.Render("Settings"))
	s.WriteString("\n\n")

	modeStyle := audioValueStyle
	if a.mode == models.AlertModeDisabled {
		modeStyle = audioDisabledStyle
	}
	s.WriteString(audioLabelStyle.Render("  Mode") + modeStyle.Render(string(a.mode)) + "\n")
	s.WriteString(audioLabelStyle.Render("  Source") + audioValueStyle.Render(string(a.source)) + "\n")
	preferred := a.preferred
	if preferred == "" {
		preferred = "(none)"
	}
	s.WriteString(audioLabelStyle.Render("  Preferred upload") + audioValueStyle.Render(preferred) + "\n\n")

	// Per-context sounds
	s.WriteString(audioHeaderStyle.Render("Sounds per alert"))
	s.WriteString("\n\n")
	for i, ctx := range models.KnownContexts {
		sound := a.sounds[ctx]
		if sound == "" {
			sound = models.DefaultSound
		}
		var row strings.Builder
		if i == m.contextCursor {
			row.WriteString("▶ ")
			row.WriteString(audioSelectedStyle.Render(audioLabelStyle.Render(string(ctx))))
		} else {
			row.WriteString("  ")
			row.WriteString(audioLabelStyle.Render(string(ctx)))
		}
		row.WriteString(audioValueStyle.Render(sound.Label()))
		s.WriteString(row.String())
		s.WriteString("\n")
	}
	s.WriteString("\n")

	// Uploaded assets
	s.WriteString(audioHeaderStyle.Render("Uploaded sounds"))
	s.WriteString("\n\n")
	if len(a.assets) == 0 {
		s.WriteString(audioMessageStyle.Render("  No uploads. Use 'painel sounds upload <file>' to add one."))
		s.WriteString("\n")
	} else {
		var names []string
		for i, name := range a.assets {
			label := name
			if name == a.preferred {
				label = "★ " + label
			}
			if i == m.assetCursor {
				label = audioSelectedStyle.Render(label)
			}
			names = append(names, label)
		}
		s.WriteString("  " + strings.Join(names, "  "))
		s.WriteString("\n")
	}
	s.WriteString(audioMessageStyle.Render(fmt.Sprintf("  Storage: %s of %s (%.1f%%)",
		humanize.IBytes(uint64(a.usage.UsedBytes)),
		humanize.IBytes(uint64(a.usage.EstimatedMaxBytes)),
		a.usage.Percentage)))
	s.WriteString("\n\n")

	// Recent messages
	if len(m.messages) > 0 {
		s.WriteString(audioHeaderStyle.Render("Recent Activity"))
		s.WriteString("\n\n")
		start := 0
		if len(m.messages) > maxMessages {
			start = len(m.messages) - maxMessages
		}
		for i := start; i < len(m.messages); i++ {
			s.WriteString(audioMessageStyle.Render("  " + m.messages[i]))
			s.WriteString("\n")
		}
		s.WriteString("\n")
	}

	// Help
	s.WriteString(m.renderAudioHelp())

	return s.String()
}

func (m Model) renderAudioHelp() string {
	help := []string{
		"m: Mode",
		"s: Source",
		"↑/↓: Select alert",
		"c: Change sound",
		"←/→: Select upload",
		"Enter: Prefer upload",
		"t: Test",
		"Esc: Back",
	}
	return helpStyle.Render(strings.Join(help, " • "))
}

func (m *Model) loadAudioState() {
	var a audioState
	var err error
	record := func(e error) {
		if e != nil && a.err == nil {
			a.err = e
		}
	}

	a.mode, err = m.settings.AlertMode()
	record(err)
	a.source, err = m.settings.AudioSource()
	record(err)
	a.sounds, err = m.settings.ContextSounds()
	record(err)
	a.assets, err = m.settings.ListAudioAssetNames()
	record(err)
	a.preferred, _, err = m.settings.PreferredAudioAsset()
	record(err)
	a.usage, err = m.settings.StorageUsage()
	record(err)

	m.audio = a
	if m.assetCursor >= len(a.assets) {
		m.assetCursor = 0
	}
}

func (m Model) handleAudioKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "m":
		next := nextOf(models.AllAlertModes, m.audio.mode)
		m.apply(m.settings.SetAlertMode(next), "Alert mode set to "+string(next))
	case "s":
		next := nextOf(models.AllAudioSources, m.audio.source)
		m.apply(m.settings.SetAudioSource(next), "Audio source set to "+string(next))
	case "up", "k":
		if m.contextCursor > 0 {
			m.contextCursor--
		}
	case "down", "j":
		if m.contextCursor < len(models.KnownContexts)-1 {
			m.contextCursor++
		}
	case "c":
		ctx := models.KnownContexts[m.contextCursor]
		current := m.audio.sounds[ctx]
		if current == "" {
			current = models.DefaultSound
		}
		next := nextOf(models.AllSoundTypes, current)
		m.apply(m.settings.SetSoundForContext(ctx, next), fmt.Sprintf("%s now plays %s", ctx, next.Label()))
	case "left", "h":
		if m.assetCursor > 0 {
			m.assetCursor--
		}
	case "right", "l":
		if m.assetCursor < len(m.audio.assets)-1 {
			m.assetCursor++
		}
	case "enter":
		if len(m.audio.assets) == 0 {
			m.addMessage("No uploaded sounds to prefer")
			return m, nil
		}
		name := m.audio.assets[m.assetCursor]
		m.apply(m.settings.SetPreferredAudioAsset(name), "Preferred upload set to "+name)
	case "t":
		m.addMessage("Playing test sound...")
		return m, m.testSound()
	case "r":
		m.loadAudioState()
	case "esc":
		m.viewMode = ViewMonitor
	}

	return m, nil
}

// apply logs the outcome of a settings change and reloads the panel.
func (m *Model) apply(err error, success string) {
	if err != nil {
		m.addMessage("✗ " + err.Error())
	} else {
		m.addMessage("✓ " + success)
	}
	m.loadAudioState()
}

// testSound plays the default sound through the alert engine.
func (m Model) testSound() tea.Cmd {
	alerts := m.alerts
	return func() tea.Msg {
		if alerts == nil {
			return TestSoundMsg{}
		}
		return TestSoundMsg{Event: alerts.TestSound(context.Background())}
	}
}

func (m *Model) handleTestSound(msg TestSoundMsg) {
	switch msg.Event.Outcome {
	case alert.OutcomeSkipped:
		m.addMessage("✗ Alerts are disabled, test sound skipped")
	case alert.OutcomeStored:
		m.addMessage("✓ Played upload " + msg.Event.Resource)
	case alert.OutcomeBundled:
		m.addMessage("✓ Played " + models.SoundType(msg.Event.Resource).Label())
	default:
		m.addMessage("✗ No alert engine")
	}
}

// addMessage adds a message to the activity log.
func (m *Model) addMessage(msg string) {
	timestamp := m.now().Format("15:04:05")
	m.messages = append(m.messages, fmt.Sprintf("[%s] %s", timestamp, msg))
}

// nextOf returns the element after current, wrapping around.
func nextOf[T comparable](values []T, current T) T {
	for i, v := range values {
		if v == current {
			return values[(i+1)%len(values)]
		}
	}
	return values[0]
}
