package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/rubychat/gamescan/internal/daemon"
	"github.com/rubychat/gamescan/internal/reporter"
	"github.com/rubychat/gamescan/pkg/detector"
	"github.com/rubychat/gamescan/pkg/window"
)

var statusJSON bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show daemon, scanner and current activity status",
	RunE: func(cmd *cobra.Command, args []string) error {
		dm := daemon.New(cfg.Daemon.PIDFile)
		running, pid, err := dm.IsRunning()
		if err != nil {
			return fmt.Errorf("failed to check daemon status: %w", err)
		}

		client := apiClient()
		ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
		defer cancel()

		if !running {
			// a foreground `run` without a PID file of ours still answers the API
			if client.Health(ctx) != nil {
				fmt.Println("Status: not running")
				return nil
			}
		}

		var finder window.Finder
		if f, err := window.Default(); err == nil {
			finder = f
		}

		rep := reporter.New(client, finder, lipgloss.NewRenderer(os.Stdout))
		report, err := rep.GenerateReport(ctx, cfg.WebAddress(), detector.DetectDisplayServer())
		if err != nil {
			return err
		}
		report.PID = pid

		if statusJSON {
			out, err := rep.FormatReportJSON(report)
			if err != nil {
				return err
			}
			fmt.Println(out)
			return nil
		}

		fmt.Print(rep.FormatReportText(report))
		return nil
	},
}

func init() {
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "print the status as JSON")
	rootCmd.AddCommand(statusCmd)
}
