// ABOUTME: Monitor snapshot tool handler
// ABOUTME: Fetches a monitor screen on demand and returns every view as rows
package handlers

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/painel/monitor"
	"github.com/harperreed/painel/viz"
)

// Screen is a monitor screen that can be fetched on demand.
type Screen interface {
	Refresh(ctx context.Context) error
	AllViews() []monitor.ViewState
}

// ScreenFactory builds the screen for a kind.
type ScreenFactory func(kind monitor.Kind) (Screen, error)

type MonitorHandlers struct {
	screens ScreenFactory
}

func NewMonitorHandlers(screens ScreenFactory) *MonitorHandlers {
	return &MonitorHandlers{screens: screens}
}

type MonitorViewInput struct {
	Screen string `json:"screen" jsonschema:"Monitor screen (management, production, products)"`
	View   string `json:"view,omitempty" jsonschema:"Optional single view id, e.g. low_stock or pending"`
}

type ViewOutput struct {
	View    string     `json:"view"`
	Title   string     `json:"title"`
	Ready   bool       `json:"ready"`
	Error   string     `json:"error,omitempty"`
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
	Summary []string   `json:"summary,omitempty"`
	Value   any        `json:"value,omitempty"`
}

type MonitorViewOutput struct {
	Screen string       `json:"screen"`
	Views  []ViewOutput `json:"views"`
}

func (h *MonitorHandlers) MonitorView(ctx context.Context, req *mcp.CallToolRequest, input MonitorViewInput) (*mcp.CallToolResult, MonitorViewOutput, error) {
	kind, err := monitor.ParseKind(input.Screen)
	if err != nil {
		return nil, MonitorViewOutput{}, err
	}

	screen, err := h.screens(kind)
	if err != nil {
		return nil, MonitorViewOutput{}, fmt.Errorf("failed to build monitor: %w", err)
	}

	// Failed queries are reported per view
	_ = screen.Refresh(ctx)

	out := MonitorViewOutput{Screen: string(kind), Views: []ViewOutput{}}
	for _, st := range screen.AllViews() {
		if input.View != "" && string(st.View) != input.View {
			continue
		}
		out.Views = append(out.Views, viewToOutput(st))
	}
	if input.View != "" && len(out.Views) == 0 {
		return nil, MonitorViewOutput{}, fmt.Errorf("unknown view %q for monitor %s", input.View, kind)
	}

	return &mcp.CallToolResult{}, out, nil
}

func viewToOutput(st monitor.ViewState) ViewOutput {
	out := ViewOutput{
		View:  string(st.View),
		Title: st.ViewTitle,
		Ready: st.Data.Ready,
		Error: st.Data.Error,
	}
	if st.Data.Ready {
		t := viz.Tabulate(st.Data.Value)
		out.Columns, out.Rows, out.Summary = t.Columns, t.Rows, t.Summary
		out.Value = st.Data.Value
	}
	if out.Columns == nil {
		out.Columns = []string{}
	}
	if out.Rows == nil {
		out.Rows = [][]string{}
	}
	return out
}
