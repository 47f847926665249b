package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var enableCmd = &cobra.Command{
	Use:   "enable",
	Short: "Turn activity detection on",
	RunE: func(cmd *cobra.Command, args []string) error {
		return setEnabled(cmd, true)
	},
}

var disableCmd = &cobra.Command{
	Use:   "disable",
	Short: "Turn activity detection off",
	RunE: func(cmd *cobra.Command, args []string) error {
		return setEnabled(cmd, false)
	},
}

var rescanCmd = &cobra.Command{
	Use:   "rescan",
	Short: "Scan now instead of waiting for the next poll",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := apiClient().Rescan(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("Rescan requested")
		return nil
	},
}

func setEnabled(cmd *cobra.Command, enabled bool) error {
	status, err := apiClient().SetEnabled(cmd.Context(), enabled)
	if err != nil {
		return err
	}

	state := "disabled"
	if status.Enabled {
		state = "enabled"
	}
	fmt.Printf("Detection %s (phase: %s)\n", state, status.Phase)
	return nil
}

func init() {
	rootCmd.AddCommand(enableCmd, disableCmd, rescanCmd)
}
