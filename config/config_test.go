// ABOUTME: Tests for configuration loading
// ABOUTME: Covers defaults, TOML overrides, env overrides and save/load round trip

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 6*time.Second, cfg.Monitor.RotationPeriod.Duration)
	assert.Equal(t, 5*time.Second, cfg.Monitor.ListPoll.Duration)
	assert.Equal(t, 10*time.Second, cfg.Monitor.GroupedPoll.Duration)
	assert.Equal(t, 30, cfg.Monitor.BirthdayWindowDays)
	assert.Equal(t, "badger", cfg.Preferences.Backend)
	assert.Equal(t, ".mp3", cfg.Audio.Extension)
}

func TestLoadPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[database]
driver = "postgrest"
rest_url = "https://example.supabase.co"

[monitor]
rotation_period = "3s"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "postgrest", cfg.Database.Driver)
	assert.Equal(t, "https://example.supabase.co", cfg.Database.RestURL)
	assert.Equal(t, 3*time.Second, cfg.Monitor.RotationPeriod.Duration)
	// untouched values keep their defaults
	assert.Equal(t, 5*time.Second, cfg.Monitor.ListPoll.Duration)
	assert.Equal(t, 8080, cfg.Web.Port)
}

func TestLoadInvalidDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[monitor]\nlist_poll = \"soon\"\n"), 0600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("PAINEL_DB_DRIVER", "postgres")
	t.Setenv("PAINEL_WEB_PORT", "9090")
	t.Setenv("PAINEL_ROTATION_PERIOD", "2s")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 9090, cfg.Web.Port)
	assert.Equal(t, 2*time.Second, cfg.Monitor.RotationPeriod.Duration)
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.toml")

	cfg := DefaultConfig()
	cfg.Audio.Player = "bell"
	cfg.Monitor.AlertInterval = Duration{45 * time.Second}
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "bell", loaded.Audio.Player)
	assert.Equal(t, 45*time.Second, loaded.Monitor.AlertInterval.Duration)
}
