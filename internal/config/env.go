package config

import (
	"os"
	"strconv"
	"time"
)

// LoadFromEnv loads configuration from environment variables
// Environment variables override default and file values
func LoadFromEnv(cfg *Config) {
	// Database configuration
	if dbPath := os.Getenv("GAMESCAN_DB_PATH"); dbPath != "" {
		cfg.Database.Path = dbPath
	}

	// Scanner configuration
	if pollInterval := os.Getenv("GAMESCAN_POLL_INTERVAL"); pollInterval != "" {
		if seconds, err := strconv.Atoi(pollInterval); err == nil && seconds > 0 {
			interval := time.Duration(seconds) * time.Second
			if interval >= cfg.Scanner.MinPollInterval && interval <= cfg.Scanner.MaxPollInterval {
				cfg.Scanner.PollInterval = interval
			}
		}
	}

	if source := os.Getenv("GAMESCAN_SOURCE"); source != "" {
		cfg.Scanner.Source = source
	}

	if rescan := os.Getenv("GAMESCAN_RESCAN_ON_UPDATE"); rescan != "" {
		if val, err := strconv.ParseBool(rescan); err == nil {
			cfg.Scanner.RescanOnUpdate = val
		}
	}

	// Daemon configuration
	if pidFile := os.Getenv("GAMESCAN_PID_FILE"); pidFile != "" {
		cfg.Daemon.PIDFile = pidFile
	}

	if logFile := os.Getenv("GAMESCAN_LOG_FILE"); logFile != "" {
		cfg.Daemon.LogFile = logFile
	}

	if level := os.Getenv("GAMESCAN_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}

	// Web configuration
	if webHost := os.Getenv("GAMESCAN_WEB_HOST"); webHost != "" {
		cfg.Web.Host = webHost
	}

	if webPort := os.Getenv("GAMESCAN_WEB_PORT"); webPort != "" {
		if port, err := strconv.Atoi(webPort); err == nil && port > 0 && port <= 65535 {
			cfg.Web.Port = port
		}
	}

	// Event sinks
	if natsURL := os.Getenv("GAMESCAN_NATS_URL"); natsURL != "" {
		cfg.Events.NATSURL = natsURL
	}

	if hook := os.Getenv("GAMESCAN_HOOK"); hook != "" {
		cfg.Events.HookCommand = hook
	}

	if addr := os.Getenv("GAMESCAN_OAUTH_ADDR"); addr != "" {
		cfg.OAuth.Addr = addr
	}
}

// New creates a new Config with default values and loads from environment
func New() *Config {
	cfg := Default()
	LoadFromEnv(cfg)
	return cfg
}

// Load layers defaults, the optional config file and the environment.
// An empty path means GAMESCAN_CONFIG, then ~/.config/gamescan/config.json.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv("GAMESCAN_CONFIG")
	}
	if path == "" {
		path = DefaultFilePath()
	}

	if err := LoadFile(path, cfg); err != nil {
		return nil, err
	}

	LoadFromEnv(cfg)
	return cfg, nil
}
