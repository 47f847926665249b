package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rubychat/gamescan/internal/config"
	"github.com/rubychat/gamescan/internal/logging"
	"github.com/rubychat/gamescan/internal/web"
)

var (
	version = "dev"

	configPath string
	logLevel   string

	cfg    *config.Config
	logger zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:           "gamescan",
	Short:         "Detect running games and report activity changes",
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if logLevel != "" {
			loaded.Log.Level = logLevel
		}
		if err := loaded.Validate(); err != nil {
			return err
		}

		cfg = loaded
		logger = logging.New(cfg.Log, os.Stderr)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default ~/.config/gamescan/config.json)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
}

// apiClient talks to the daemon described by the loaded config
func apiClient() *web.Client {
	return web.NewClient(cfg.WebAddress())
}
