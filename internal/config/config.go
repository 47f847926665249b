package config

import (
	"fmt"
	"os"
	"time"
)

// Config holds all application configuration
type Config struct {
	// Database configuration
	Database DatabaseConfig `mapstructure:"database"`

	// Scanner configuration
	Scanner ScannerConfig `mapstructure:"scanner"`

	// Daemon configuration
	Daemon DaemonConfig `mapstructure:"daemon"`

	// Log configuration
	Log LogConfig `mapstructure:"log"`

	// Web server configuration
	Web WebConfig `mapstructure:"web"`

	// Outbound event sinks
	Events EventsConfig `mapstructure:"events"`

	// OAuth redirect listener
	OAuth OAuthConfig `mapstructure:"oauth"`
}

// DatabaseConfig holds preferences store configuration
type DatabaseConfig struct {
	Path string `mapstructure:"path"` // Path to SQLite database file
}

// ScannerConfig holds scan loop behavior configuration
type ScannerConfig struct {
	PollInterval    time.Duration `mapstructure:"poll_interval"`     // Time between scans when nothing wakes the loop
	MinPollInterval time.Duration `mapstructure:"min_poll_interval"` // Minimum allowed poll interval
	MaxPollInterval time.Duration `mapstructure:"max_poll_interval"` // Maximum allowed poll interval
	Source          string        `mapstructure:"source"`            // "auto", "procfs" or "psutil"
	RescanOnUpdate  bool          `mapstructure:"rescan_on_update"`  // Wake the loop when the watch list is replaced
}

// DaemonConfig holds daemon process configuration
type DaemonConfig struct {
	PIDFile string `mapstructure:"pid_file"` // Path to PID file for daemon management
	LogFile string `mapstructure:"log_file"` // Log file used when running detached
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level      string `mapstructure:"level"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

// WebConfig holds the command API server configuration
type WebConfig struct {
	Host string `mapstructure:"host"` // Host to bind web server to
	Port int    `mapstructure:"port"` // Port for web server
}

// EventsConfig holds optional event sinks
type EventsConfig struct {
	NATSURL     string        `mapstructure:"nats_url"`
	NATSSubject string        `mapstructure:"nats_subject"`
	HookCommand string        `mapstructure:"hook_command"`
	HookTimeout time.Duration `mapstructure:"hook_timeout"`
}

// OAuthConfig holds the login redirect listener settings
type OAuthConfig struct {
	Addr        string        `mapstructure:"addr"`
	Timeout     time.Duration `mapstructure:"timeout"`
	ReadTimeout time.Duration `mapstructure:"read_timeout"`
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path: "", // Empty means use default ~/.config/gamescan/gamescan.db
		},
		Scanner: ScannerConfig{
			PollInterval:    15 * time.Second,
			MinPollInterval: 1 * time.Second,
			MaxPollInterval: 300 * time.Second,
			Source:          "auto",
			RescanOnUpdate:  true,
		},
		Daemon: DaemonConfig{
			PIDFile: fmt.Sprintf("/tmp/gamescan-%d.pid", os.Getuid()),
			LogFile: fmt.Sprintf("/tmp/gamescan-%d.log", os.Getuid()),
		},
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 7,
		},
		Web: WebConfig{
			Host: "127.0.0.1",
			Port: 10000 + os.Getuid(), // One port per local user
		},
		Events: EventsConfig{
			NATSSubject: "gamescan.activity",
			HookTimeout: 10 * time.Second,
		},
		OAuth: OAuthConfig{
			Addr:        "127.0.0.1:1420",
			Timeout:     5 * time.Minute,
			ReadTimeout: 10 * time.Second,
		},
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Scanner.PollInterval < c.Scanner.MinPollInterval {
		return fmt.Errorf("poll interval (%v) cannot be less than minimum (%v)",
			c.Scanner.PollInterval, c.Scanner.MinPollInterval)
	}

	if c.Scanner.PollInterval > c.Scanner.MaxPollInterval {
		return fmt.Errorf("poll interval (%v) cannot be greater than maximum (%v)",
			c.Scanner.PollInterval, c.Scanner.MaxPollInterval)
	}

	switch c.Scanner.Source {
	case "auto", "procfs", "psutil":
	default:
		return fmt.Errorf("process source must be auto, procfs or psutil, got %q", c.Scanner.Source)
	}

	if c.Web.Port < 1 || c.Web.Port > 65535 {
		return fmt.Errorf("web port must be between 1 and 65535, got %d", c.Web.Port)
	}

	if c.Web.Host == "" {
		return fmt.Errorf("web host cannot be empty")
	}

	if c.Daemon.PIDFile == "" {
		return fmt.Errorf("PID file path cannot be empty")
	}

	if c.Events.HookTimeout <= 0 {
		return fmt.Errorf("hook timeout must be positive")
	}

	if c.OAuth.Addr == "" {
		return fmt.Errorf("oauth listener address cannot be empty")
	}
	if c.OAuth.Timeout <= 0 || c.OAuth.ReadTimeout <= 0 {
		return fmt.Errorf("oauth timeouts must be positive")
	}

	return nil
}

// SetPollInterval sets the poll interval with validation
func (c *Config) SetPollInterval(interval time.Duration) error {
	if interval < c.Scanner.MinPollInterval {
		return fmt.Errorf("poll interval cannot be less than %v", c.Scanner.MinPollInterval)
	}
	if interval > c.Scanner.MaxPollInterval {
		return fmt.Errorf("poll interval cannot be greater than %v", c.Scanner.MaxPollInterval)
	}
	c.Scanner.PollInterval = interval
	return nil
}

// SetWebPort sets the web server port with validation
func (c *Config) SetWebPort(port int) error {
	if port < 1 || port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", port)
	}
	c.Web.Port = port
	return nil
}

// WebAddress returns host:port of the command API
func (c *Config) WebAddress() string {
	return fmt.Sprintf("%s:%d", c.Web.Host, c.Web.Port)
}

// String returns a string representation of the config
func (c *Config) String() string {
	return fmt.Sprintf(`Configuration:
  Database:
    Path: %s
  Scanner:
    Poll Interval: %v
    Min Interval: %v
    Max Interval: %v
    Source: %s
    Rescan On Update: %v
  Daemon:
    PID File: %s
    Log File: %s
  Log:
    Level: %s
  Web:
    Host: %s
    Port: %d
  Events:
    NATS URL: %s
    NATS Subject: %s
    Hook: %s
  OAuth:
    Address: %s
    Timeout: %v`,
		c.Database.Path,
		c.Scanner.PollInterval,
		c.Scanner.MinPollInterval,
		c.Scanner.MaxPollInterval,
		c.Scanner.Source,
		c.Scanner.RescanOnUpdate,
		c.Daemon.PIDFile,
		c.Daemon.LogFile,
		c.Log.Level,
		c.Web.Host,
		c.Web.Port,
		c.Events.NATSURL,
		c.Events.NATSSubject,
		c.Events.HookCommand,
		c.OAuth.Addr,
		c.OAuth.Timeout,
	)
}
