// ABOUTME: Monitor CLI command
// ABOUTME: Runs one rotating screen in the terminal UI, as plain text, or as a single snapshot
package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/harperreed/painel/monitor"
	"github.com/harperreed/painel/tui"
	"github.com/harperreed/painel/viz"
)

// MonitorCommand runs a monitor screen until interrupted
func MonitorCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("monitor", flag.ExitOnError)
	once := fs.Bool("once", false, "Fetch every view once, print it and exit")
	plain := fs.Bool("plain", false, "Print rotating views as text instead of the terminal UI")
	_ = fs.Parse(args)

	if fs.NArg() == 0 {
		return fmt.Errorf("monitor requires a screen (management, production, products)")
	}
	kind, err := monitor.ParseKind(fs.Arg(0))
	if err != nil {
		return err
	}

	qs, err := app.QuerySet()
	if err != nil {
		return err
	}

	if *once {
		screen, err := monitor.NewScreen(kind, qs, nil, app.Logger)
		if err != nil {
			return err
		}
		return printSnapshot(app, screen)
	}

	engine, err := app.Alerts()
	if err != nil {
		return err
	}
	store, err := app.Preferences()
	if err != nil {
		return err
	}

	screen, err := monitor.NewScreen(kind, qs, engine, app.Logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := screen.Start(ctx); err != nil {
		return err
	}
	defer screen.Stop()

	if !*plain && term.IsTerminal(int(os.Stdout.Fd())) {
		return tui.Run(screen, store, engine)
	}
	return runPlain(ctx, app, screen)
}

// printSnapshot fetches every query once and prints all views
func printSnapshot(app *App, screen *monitor.Screen) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*app.Config.Monitor.FetchTimeout.Duration)
	defer cancel()

	// Failed queries show up in their views
	if err := screen.Refresh(ctx); err != nil {
		app.Logger.Warn("snapshot incomplete", zap.Error(err))
	}
	fmt.Fprint(app.Out, viz.RenderScreen(screen.AllViews()))
	return nil
}

// runPlain prints the active view whenever the rotation moves
func runPlain(ctx context.Context, app *App, screen *monitor.Screen) error {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	var last time.Time
	for {
		state := screen.Current()
		if !state.RotatedAt.Equal(last) {
			last = state.RotatedAt
			fmt.Fprintln(app.Out, viz.RenderView(state))
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
