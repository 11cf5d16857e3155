// ABOUTME: MCP server subcommand
// ABOUTME: Exposes monitor snapshots and alert settings as MCP tools over stdio
package cli

import (
	"context"
	"os"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/painel/handlers"
	"github.com/harperreed/painel/monitor"
)

// MCPCommand starts the MCP server on stdio
func MCPCommand(app *App, version string) error {
	app.Logger.Info("starting painel MCP server")

	// stdout carries the protocol
	app.Out = os.Stderr

	server, err := NewMCPServer(app, version)
	if err != nil {
		return err
	}

	// Run server on stdio transport
	ctx := context.Background()
	return server.Run(ctx, &mcp.StdioTransport{})
}

// NewMCPServer registers every tool against the app's stores
func NewMCPServer(app *App, version string) (*mcp.Server, error) {
	qs, err := app.QuerySet()
	if err != nil {
		return nil, err
	}
	store, err := app.Preferences()
	if err != nil {
		return nil, err
	}
	engine, err := app.Alerts()
	if err != nil {
		return nil, err
	}

	// Snapshots are fetched on demand and never raise alerts
	monitorHandlers := handlers.NewMonitorHandlers(func(kind monitor.Kind) (handlers.Screen, error) {
		screen, err := monitor.NewScreen(kind, qs, nil, app.Logger)
		if err != nil {
			return nil, err
		}
		return screen, nil
	})
	alertHandlers := handlers.NewAlertHandlers(store, engine)

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "painel",
		Version: version,
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "monitor_view",
		Description: "Fetch a monitor screen (management, production, products) and return every view as rows",
	}, monitorHandlers.MonitorView)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_alert_settings",
		Description: "Show the alert mode, audio source, sound per alert context and storage usage",
	}, alertHandlers.GetAlertSettings)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "set_alert_mode",
		Description: "Set the alert mode (disabled, on-event, interval) and optionally the audio source",
	}, alertHandlers.SetAlertMode)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "set_context_sound",
		Description: "Choose which bundled sound plays for an alert context",
	}, alertHandlers.SetContextSound)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_sounds",
		Description: "List bundled sounds and uploaded audio assets",
	}, alertHandlers.ListSounds)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "test_sound",
		Description: "Play the test sound using the current alert settings",
	}, alertHandlers.TestSound)

	return server, nil
}
