package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rubychat/gamescan/internal/oauth"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Wait for an OAuth redirect on the loopback port and print the URL",
	Long: `Open the identity provider's authorization URL in a browser, with the
redirect URI pointing at http://localhost:1420/. The command returns once the
provider redirects back with a code or an error.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		url, err := oauth.Listen(ctx, oauth.Options{
			Addr:        cfg.OAuth.Addr,
			Timeout:     cfg.OAuth.Timeout,
			ReadTimeout: cfg.OAuth.ReadTimeout,
			Log:         logger,
		})
		switch {
		case errors.Is(err, oauth.ErrTimeout):
			return fmt.Errorf("no login redirect within %v", cfg.OAuth.Timeout)
		case err != nil:
			return err
		}

		fmt.Println(url)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
}
