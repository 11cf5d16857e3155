// ABOUTME: Shared wiring for every subcommand
// ABOUTME: Opens the preference store, data source and alert engine lazily from the config
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/go-redis/redis/v8"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/harperreed/painel/alert"
	"github.com/harperreed/painel/audio"
	"github.com/harperreed/painel/config"
	"github.com/harperreed/painel/db"
	"github.com/harperreed/painel/kv"
	"github.com/harperreed/painel/monitor"
	"github.com/harperreed/painel/postgrest"
	"github.com/harperreed/painel/prefs"
)

// App holds the resources a command needs. Nothing is opened until asked for,
// so "sounds list" never touches the business database.
type App struct {
	Config *config.Config
	Logger *zap.Logger
	Out    io.Writer

	// Sink overrides the player built from the [audio] section.
	Sink audio.Sink

	kvClient *kv.Client
	prefs    *prefs.Store
	engine   *alert.Engine
	database *sqlx.DB
	source   monitor.Source
}

func NewApp(cfg *config.Config, logger *zap.Logger) *App {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &App{Config: cfg, Logger: logger, Out: os.Stdout}
}

// Preferences opens the alert preference store.
func (a *App) Preferences() (*prefs.Store, error) {
	if a.prefs != nil {
		return a.prefs, nil
	}

	client, err := OpenPreferences(a.Config.Preferences)
	if err != nil {
		return nil, err
	}
	a.kvClient = client
	a.prefs = prefs.New(client)
	return a.prefs, nil
}

// OpenPreferences opens the key-value backend named by the config.
func OpenPreferences(cfg config.PreferencesConfig) (*kv.Client, error) {
	var opts []kv.Option
	if cfg.MaxBytes > 0 {
		opts = append(opts, kv.WithMaxBytes(cfg.MaxBytes))
	}

	switch cfg.Backend {
	case "", "badger":
		backend, err := kv.OpenBadger(cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open preference store: %w", err)
		}
		return kv.NewClient(backend, opts...), nil
	case "memory":
		backend, err := kv.OpenBadgerInMemory()
		if err != nil {
			return nil, fmt.Errorf("failed to open preference store: %w", err)
		}
		return kv.NewClient(backend, opts...), nil
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr: cfg.RedisAddr,
			DB:   cfg.RedisDB,
		})
		return kv.NewClient(kv.NewRedisBackend(client, config.AppName+":"), opts...), nil
	default:
		return nil, fmt.Errorf("unknown preference backend %q (use badger or redis)", cfg.Backend)
	}
}

// Alerts builds the alert engine over the preference store and the configured player.
func (a *App) Alerts() (*alert.Engine, error) {
	if a.engine != nil {
		return a.engine, nil
	}

	store, err := a.Preferences()
	if err != nil {
		return nil, err
	}
	if a.Sink == nil {
		sink, err := audio.NewSink(a.Config.Audio.Player, a.Out)
		if err != nil {
			return nil, err
		}
		a.Sink = sink
	}
	player := audio.NewPlayer(a.Config.Audio.SoundsDir, a.Config.Audio.Extension, a.Sink, store, a.Logger)
	a.engine = alert.NewEngine(store, player, a.Logger)

	a.Logger.Debug("alert engine ready", zap.String("sink", player.SinkName()))
	return a.engine, nil
}

// Database opens the SQL database for the sqlite and postgres drivers.
func (a *App) Database() (*sqlx.DB, error) {
	if a.database != nil {
		return a.database, nil
	}

	var (
		database *sqlx.DB
		err      error
	)
	switch a.Config.Database.Driver {
	case "", "sqlite":
		database, err = db.OpenDatabase(a.Config.Database.Path)
	case "postgres":
		database, err = db.OpenPostgres(a.Config.Database.DSN)
	default:
		return nil, fmt.Errorf("driver %q has no SQL database", a.Config.Database.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	a.database = database
	return database, nil
}

// Source returns the business data source the monitors read.
func (a *App) Source() (monitor.Source, error) {
	if a.source != nil {
		return a.source, nil
	}

	if a.Config.Database.Driver == "postgrest" {
		if a.Config.Database.RestURL == "" {
			return nil, fmt.Errorf("postgrest driver needs database.rest_url")
		}
		a.source = postgrest.NewClient(a.Config.Database.RestURL, a.Config.Database.APIKey, a.Logger)
		return a.source, nil
	}

	database, err := a.Database()
	if err != nil {
		return nil, err
	}
	a.source = db.NewStore(database)
	return a.source, nil
}

// QuerySet builds the aggregate queries with the configured windows.
func (a *App) QuerySet() (*monitor.QuerySet, error) {
	src, err := a.Source()
	if err != nil {
		return nil, err
	}
	return monitor.NewQuerySet(src, MonitorConfig(a.Config.Monitor)), nil
}

// MonitorConfig maps the [monitor] section onto the monitor timings.
func MonitorConfig(c config.MonitorConfig) monitor.Config {
	cfg := monitor.DefaultConfig()
	cfg.RotationPeriod = c.RotationPeriod.Duration
	cfg.ListPoll = c.ListPoll.Duration
	cfg.GroupedPoll = c.GroupedPoll.Duration
	cfg.AlertInterval = c.AlertInterval.Duration
	cfg.FetchTimeout = c.FetchTimeout.Duration
	cfg.BirthdayWindowDays = c.BirthdayWindowDays
	cfg.TopProducts = c.TopProducts
	cfg.TopProductsDays = c.TopProductsDays
	return cfg
}

// WaitForPlayback blocks until external players started by this process exit.
func (a *App) WaitForPlayback() {
	if w, ok := a.Sink.(interface{ Wait() }); ok {
		w.Wait()
	}
}

// Close releases whatever was opened.
func (a *App) Close() error {
	var firstErr error
	if a.database != nil {
		if err := a.database.Close(); err != nil {
			firstErr = err
		}
	}
	if a.kvClient != nil {
		if err := a.kvClient.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	_ = a.Logger.Sync()
	return firstErr
}
