// ABOUTME: Serve CLI command
// ABOUTME: Runs the monitor screens in the background and exposes them through the web UI
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"go.uber.org/zap"

	"github.com/harperreed/painel/monitor"
	"github.com/harperreed/painel/web"
)

// ServeCommand starts the web UI
func ServeCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	port := fs.Int("port", app.Config.Web.Port, "Port to listen on")
	screensFlag := fs.String("screens", "", "Comma-separated screens to run (default: all)")
	_ = fs.Parse(args)

	kinds, err := parseKinds(*screensFlag)
	if err != nil {
		return err
	}

	qs, err := app.QuerySet()
	if err != nil {
		return err
	}
	engine, err := app.Alerts()
	if err != nil {
		return err
	}
	store, err := app.Preferences()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var screens []web.Screen
	for _, kind := range kinds {
		screen, err := monitor.NewScreen(kind, qs, engine, app.Logger.With(zap.String("screen", string(kind))))
		if err != nil {
			return err
		}
		if err := screen.Start(ctx); err != nil {
			return err
		}
		defer screen.Stop()
		screens = append(screens, screen)
	}

	server, err := web.NewServer(screens, store, engine, app.Logger)
	if err != nil {
		return err
	}

	fmt.Fprintf(app.Out, "✓ Serving %d monitors at http://localhost:%d\n", len(screens), *port)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start(*port)
	}()

	select {
	case <-ctx.Done():
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// parseKinds reads a comma-separated screen list; empty means every screen
func parseKinds(list string) ([]monitor.Kind, error) {
	if strings.TrimSpace(list) == "" {
		return append([]monitor.Kind(nil), monitor.AllKinds...), nil
	}

	var kinds []monitor.Kind
	seen := make(map[monitor.Kind]bool)
	for _, part := range strings.Split(list, ",") {
		kind, err := monitor.ParseKind(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		if !seen[kind] {
			seen[kind] = true
			kinds = append(kinds, kind)
		}
	}
	return kinds, nil
}
