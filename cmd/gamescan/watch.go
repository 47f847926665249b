package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rubychat/gamescan/internal/events"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Stream activity events from the daemon",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		fmt.Fprintf(os.Stderr, "Connected to %s, waiting for events...\n", cfg.WebAddress())
		return apiClient().Watch(ctx, func(env events.Envelope) {
			state := "stopped"
			if env.Payload.IsRunning {
				state = "started"
			}
			fmt.Printf("%s  %-8s %s\n", env.Time.Local().Format("15:04:05"), state, env.Payload.Name)
		})
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
