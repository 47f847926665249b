package main

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/rubychat/gamescan/internal/catalog"
	"github.com/rubychat/gamescan/internal/reporter"
)

var (
	watchListFile string
	watchListOS   string
	watchListJSON bool
)

var watchListCmd = &cobra.Command{
	Use:   "watchlist",
	Short: "Inspect or replace the daemon's watch list",
}

var watchListSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Replace the watch list from a detectable catalog file",
	RunE: func(cmd *cobra.Command, args []string) error {
		if watchListFile == "" {
			return fmt.Errorf("--file is required")
		}

		targets, err := catalog.LoadFor(watchListFile, watchListOS)
		if err != nil {
			return err
		}

		if err := apiClient().SetWatchList(cmd.Context(), targets); err != nil {
			return err
		}
		fmt.Printf("Watch list replaced: %d targets for %s\n", len(targets), watchListOS)
		return nil
	},
}

var watchListShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current watch list in match order",
	RunE: func(cmd *cobra.Command, args []string) error {
		targets, err := apiClient().WatchList(cmd.Context())
		if err != nil {
			return err
		}

		if watchListJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(targets)
		}

		rep := reporter.New(nil, nil, lipgloss.NewRenderer(os.Stdout))
		fmt.Print(rep.FormatWatchListText(targets))
		return nil
	},
}

var watchListClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Empty the watch list",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := apiClient().SetWatchList(cmd.Context(), nil); err != nil {
			return err
		}
		fmt.Println("Watch list cleared")
		return nil
	},
}

func init() {
	watchListSetCmd.Flags().StringVarP(&watchListFile, "file", "f", "", "catalog JSON file")
	watchListSetCmd.Flags().StringVar(&watchListOS, "os", runtime.GOOS, "keep executables for this platform")
	watchListShowCmd.Flags().BoolVar(&watchListJSON, "json", false, "print as JSON")

	watchListCmd.AddCommand(watchListSetCmd, watchListShowCmd, watchListClearCmd)
	rootCmd.AddCommand(watchListCmd)
}
