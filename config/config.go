// ABOUTME: Application configuration loaded from TOML, .env and environment
// ABOUTME: Holds database, monitor timing, preference store, audio, log and web settings

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
)

const (
	// AppName names the XDG directories and the default redis namespace.
	AppName = "painel"

	// ConfigFileName is the config file inside the XDG config dir.
	ConfigFileName = "config.toml"
)

// Duration is a time.Duration written as a string ("6s") in TOML.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Config holds every setting the commands need.
type Config struct {
	Database    DatabaseConfig    `toml:"database"`
	Monitor     MonitorConfig     `toml:"monitor"`
	Preferences PreferencesConfig `toml:"preferences"`
	Audio       AudioConfig       `toml:"audio"`
	Log         LogConfig         `toml:"log"`
	Web         WebConfig         `toml:"web"`
}

type DatabaseConfig struct {
	// Driver is sqlite, postgres or postgrest.
	Driver  string `toml:"driver"`
	Path    string `toml:"path"`
	DSN     string `toml:"dsn"`
	RestURL string `toml:"rest_url"`
	APIKey  string `toml:"api_key"`
}

type MonitorConfig struct {
	RotationPeriod     Duration `toml:"rotation_period"`
	ListPoll           Duration `toml:"list_poll"`
	GroupedPoll        Duration `toml:"grouped_poll"`
	AlertInterval      Duration `toml:"alert_interval"`
	FetchTimeout       Duration `toml:"fetch_timeout"`
	BirthdayWindowDays int      `toml:"birthday_window_days"`
	TopProducts        int      `toml:"top_products"`
	TopProductsDays    int      `toml:"top_products_days"`
}

type PreferencesConfig struct {
	// Backend is badger or redis.
	Backend   string `toml:"backend"`
	Path      string `toml:"path"`
	RedisAddr string `toml:"redis_addr"`
	RedisDB   int    `toml:"redis_db"`
	MaxBytes  int64  `toml:"max_bytes"`
}

type AudioConfig struct {
	SoundsDir string `toml:"sounds_dir"`
	Extension string `toml:"extension"`
	// Player is auto, bell, none, or a command line.
	Player string `toml:"player"`
}

type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
	File   string `toml:"file"`
}

type WebConfig struct {
	Port int `toml:"port"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Driver: "sqlite",
			Path:   filepath.Join(xdg.DataHome, AppName, "painel.db"),
		},
		Monitor: MonitorConfig{
			RotationPeriod:     Duration{6 * time.Second},
			ListPoll:           Duration{5 * time.Second},
			GroupedPoll:        Duration{10 * time.Second},
			AlertInterval:      Duration{30 * time.Second},
			FetchTimeout:       Duration{4 * time.Second},
			BirthdayWindowDays: 30,
			TopProducts:        5,
			TopProductsDays:    30,
		},
		Preferences: PreferencesConfig{
			Backend:   "badger",
			Path:      filepath.Join(xdg.DataHome, AppName, "prefs"),
			RedisAddr: "localhost:6379",
		},
		Audio: AudioConfig{
			SoundsDir: filepath.Join(xdg.DataHome, AppName, "sounds"),
			Extension: ".mp3",
			Player:    "auto",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Web: WebConfig{
			Port: 8080,
		},
	}
}

// DefaultPath returns the config file location under XDG_CONFIG_HOME.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, AppName, ConfigFileName)
}

// Load reads the config at path (DefaultPath when empty), then applies .env and
// PAINEL_* environment overrides. A missing file yields defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}

	// .env is optional
	_ = godotenv.Load()

	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(path, cfg); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	return cfg, nil
}

// Save writes the config as TOML.
func (c *Config) Save(path string) error {
	if path == "" {
		path = DefaultPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0600)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	return toml.NewEncoder(f).Encode(c)
}

func (c *Config) applyEnv() error {
	strs := map[string]*string{
		"PAINEL_DB_DRIVER":     &c.Database.Driver,
		"PAINEL_DB_PATH":       &c.Database.Path,
		"PAINEL_DB_DSN":        &c.Database.DSN,
		"PAINEL_REST_URL":      &c.Database.RestURL,
		"PAINEL_REST_API_KEY":  &c.Database.APIKey,
		"PAINEL_PREFS_BACKEND": &c.Preferences.Backend,
		"PAINEL_PREFS_PATH":    &c.Preferences.Path,
		"PAINEL_REDIS_ADDR":    &c.Preferences.RedisAddr,
		"PAINEL_SOUNDS_DIR":    &c.Audio.SoundsDir,
		"PAINEL_AUDIO_PLAYER":  &c.Audio.Player,
		"PAINEL_LOG_LEVEL":     &c.Log.Level,
		"PAINEL_LOG_FORMAT":    &c.Log.Format,
		"PAINEL_LOG_FILE":      &c.Log.File,
	}
	for key, dst := range strs {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}

	if v := os.Getenv("PAINEL_WEB_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PAINEL_WEB_PORT: %w", err)
		}
		c.Web.Port = port
	}
	if v := os.Getenv("PAINEL_ROTATION_PERIOD"); v != "" {
		if err := c.Monitor.RotationPeriod.UnmarshalText([]byte(v)); err != nil {
			return fmt.Errorf("invalid PAINEL_ROTATION_PERIOD: %w", err)
		}
	}
	return nil
}

// applyDefaults fills zero values left by a partial config file.
func (c *Config) applyDefaults() {
	def := DefaultConfig()
	if c.Database.Driver == "" {
		c.Database.Driver = def.Database.Driver
	}
	if c.Monitor.RotationPeriod.Duration <= 0 {
		c.Monitor.RotationPeriod = def.Monitor.RotationPeriod
	}
	if c.Monitor.ListPoll.Duration <= 0 {
		c.Monitor.ListPoll = def.Monitor.ListPoll
	}
	if c.Monitor.GroupedPoll.Duration <= 0 {
		c.Monitor.GroupedPoll = def.Monitor.GroupedPoll
	}
	if c.Monitor.AlertInterval.Duration <= 0 {
		c.Monitor.AlertInterval = def.Monitor.AlertInterval
	}
	if c.Monitor.FetchTimeout.Duration <= 0 {
		c.Monitor.FetchTimeout = def.Monitor.FetchTimeout
	}
	if c.Monitor.BirthdayWindowDays <= 0 {
		c.Monitor.BirthdayWindowDays = def.Monitor.BirthdayWindowDays
	}
	if c.Monitor.TopProducts <= 0 {
		c.Monitor.TopProducts = def.Monitor.TopProducts
	}
	if c.Monitor.TopProductsDays <= 0 {
		c.Monitor.TopProductsDays = def.Monitor.TopProductsDays
	}
	if c.Preferences.Backend == "" {
		c.Preferences.Backend = def.Preferences.Backend
	}
	if c.Audio.Extension == "" {
		c.Audio.Extension = def.Audio.Extension
	}
	if c.Audio.Player == "" {
		c.Audio.Player = def.Audio.Player
	}
	if c.Web.Port == 0 {
		c.Web.Port = def.Web.Port
	}
}
