package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"poll too low", func(c *Config) { c.Scanner.PollInterval = 100 * time.Millisecond }, true},
		{"poll too high", func(c *Config) { c.Scanner.PollInterval = time.Hour }, true},
		{"bad source", func(c *Config) { c.Scanner.Source = "wmi" }, true},
		{"psutil source", func(c *Config) { c.Scanner.Source = "psutil" }, false},
		{"bad port", func(c *Config) { c.Web.Port = 70000 }, true},
		{"empty host", func(c *Config) { c.Web.Host = "" }, true},
		{"empty pid file", func(c *Config) { c.Daemon.PIDFile = "" }, true},
		{"zero hook timeout", func(c *Config) { c.Events.HookTimeout = 0 }, true},
		{"empty oauth addr", func(c *Config) { c.OAuth.Addr = "" }, true},
		{"zero oauth read timeout", func(c *Config) { c.OAuth.ReadTimeout = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSetWebPort(t *testing.T) {
	cfg := Default()
	assert.NoError(t, cfg.SetWebPort(8080))
	assert.Equal(t, 8080, cfg.Web.Port)
	assert.Equal(t, "127.0.0.1:8080", cfg.WebAddress())
	assert.Error(t, cfg.SetWebPort(0))
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("GAMESCAN_DB_PATH", "/tmp/test.db")
	t.Setenv("GAMESCAN_POLL_INTERVAL", "30")
	t.Setenv("GAMESCAN_SOURCE", "psutil")
	t.Setenv("GAMESCAN_RESCAN_ON_UPDATE", "false")
	t.Setenv("GAMESCAN_WEB_PORT", "9999")
	t.Setenv("GAMESCAN_NATS_URL", "nats://127.0.0.1:4222")
	t.Setenv("GAMESCAN_HOOK", "notify-send game")
	t.Setenv("GAMESCAN_LOG_LEVEL", "debug")

	cfg := New()
	assert.Equal(t, "/tmp/test.db", cfg.Database.Path)
	assert.Equal(t, 30*time.Second, cfg.Scanner.PollInterval)
	assert.Equal(t, "psutil", cfg.Scanner.Source)
	assert.False(t, cfg.Scanner.RescanOnUpdate)
	assert.Equal(t, 9999, cfg.Web.Port)
	assert.Equal(t, "nats://127.0.0.1:4222", cfg.Events.NATSURL)
	assert.Equal(t, "notify-send game", cfg.Events.HookCommand)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadFromEnvIgnoresOutOfRange(t *testing.T) {
	t.Setenv("GAMESCAN_POLL_INTERVAL", "9000")
	t.Setenv("GAMESCAN_WEB_PORT", "not-a-port")

	cfg := Default()
	port := cfg.Web.Port
	LoadFromEnv(cfg)

	assert.Equal(t, 15*time.Second, cfg.Scanner.PollInterval)
	assert.Equal(t, port, cfg.Web.Port)
}

func TestLoadFile(t *testing.T) {
	t.Run("FileNotFound", func(t *testing.T) {
		cfg := Default()
		err := LoadFile(filepath.Join(t.TempDir(), "missing.json"), cfg)
		assert.NoError(t, err)
		assert.Equal(t, Default().Scanner, cfg.Scanner)
	})

	t.Run("ValidConfig", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.json")
		content := `{
			"scanner": {"poll_interval": "5s", "source": "procfs"},
			"web": {"port": 12345},
			"events": {"hook_command": "echo hi", "hook_timeout": "2s"},
			"oauth": {"timeout": "1m"}
		}`
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))

		cfg := Default()
		require.NoError(t, LoadFile(path, cfg))

		assert.Equal(t, 5*time.Second, cfg.Scanner.PollInterval)
		assert.Equal(t, "procfs", cfg.Scanner.Source)
		assert.True(t, cfg.Scanner.RescanOnUpdate, "untouched keys keep defaults")
		assert.Equal(t, 12345, cfg.Web.Port)
		assert.Equal(t, "127.0.0.1", cfg.Web.Host)
		assert.Equal(t, "echo hi", cfg.Events.HookCommand)
		assert.Equal(t, 2*time.Second, cfg.Events.HookTimeout)
		assert.Equal(t, time.Minute, cfg.OAuth.Timeout)
		assert.Equal(t, 10*time.Second, cfg.OAuth.ReadTimeout)
	})

	t.Run("InvalidJSON", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"scanner": `), 0644))
		assert.Error(t, LoadFile(path, Default()))
	})

	t.Run("UnknownKey", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "unknown.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"scanner": {"interval": "5s"}}`), 0644))
		assert.Error(t, LoadFile(path, Default()))
	})
}

func TestLoadLayersEnvOverFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"web": {"port": 12345, "host": "0.0.0.0"}}`), 0644))
	t.Setenv("GAMESCAN_WEB_PORT", "23456")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 23456, cfg.Web.Port)
	assert.Equal(t, "0.0.0.0", cfg.Web.Host)
}
