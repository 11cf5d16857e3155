// ABOUTME: Plain text rendering of a monitor view
// ABOUTME: Used when stdout is not a terminal and by the one-shot monitor command
package viz

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dustin/go-humanize"

	"github.com/harperreed/painel/monitor"
)

const rule = "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━"

// RenderView draws one view with its header, body and data status.
func RenderView(state monitor.ViewState) string {
	var out strings.Builder

	// Header
	out.WriteString(rule + "\n")
	out.WriteString(fmt.Sprintf("  %s  ·  %s  (%d/%d)\n",
		strings.ToUpper(state.Title), state.ViewTitle, state.Index+1, state.Total))
	out.WriteString(rule + "\n\n")

	if !state.Data.Ready {
		if state.Data.Error != "" {
			out.WriteString("  ⚠️  " + state.Data.Error + "\n")
		} else {
			out.WriteString("  Loading...\n")
		}
		return out.String()
	}

	renderTable(&out, Tabulate(state.Data.Value))
	out.WriteString("\n")
	out.WriteString(DataStatus(state.Data, time.Now()) + "\n")

	return out.String()
}

// RenderScreen draws every view of a screen in rotation order.
func RenderScreen(states []monitor.ViewState) string {
	parts := make([]string, 0, len(states))
	for _, st := range states {
		parts = append(parts, RenderView(st))
	}
	return strings.Join(parts, "\n")
}

// DataStatus describes how fresh a snapshot is.
func DataStatus(st monitor.Status, now time.Time) string {
	if !st.Ready {
		return "  waiting for first fetch"
	}
	line := "  updated " + humanize.RelTime(st.FetchedAt, now, "ago", "from now")
	if st.Error != "" {
		line += fmt.Sprintf("  ⚠️  %d failed fetches: %s", st.Failures, st.Error)
	}
	return line
}

func renderTable(out *strings.Builder, t Table) {
	if len(t.Rows) == 0 {
		out.WriteString("  " + t.Empty + "\n")
		for _, s := range t.Summary {
			out.WriteString("  " + s + "\n")
		}
		return
	}

	widths := make([]int, len(t.Columns))
	for i, c := range t.Columns {
		widths[i] = utf8.RuneCountInString(c)
	}
	for _, row := range t.Rows {
		for i, cell := range row {
			if i < len(widths) && utf8.RuneCountInString(cell) > widths[i] {
				widths[i] = utf8.RuneCountInString(cell)
			}
		}
	}

	writeRow(out, t.Columns, widths)
	seps := make([]string, len(widths))
	for i, w := range widths {
		seps[i] = strings.Repeat("─", w)
	}
	writeRow(out, seps, widths)
	for _, row := range t.Rows {
		writeRow(out, row, widths)
	}

	if len(t.Summary) > 0 {
		out.WriteString("\n")
		for _, s := range t.Summary {
			out.WriteString("  " + s + "\n")
		}
	}
}

func writeRow(out *strings.Builder, cells []string, widths []int) {
	out.WriteString(" ")
	for i, cell := range cells {
		if i >= len(widths) {
			break
		}
		out.WriteString(" " + cell + strings.Repeat(" ", widths[i]-utf8.RuneCountInString(cell)) + " ")
	}
	out.WriteString("\n")
}
