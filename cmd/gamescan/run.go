package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/rubychat/gamescan/internal/daemon"
	"github.com/rubychat/gamescan/internal/logging"
)

const daemonChildEnv = "GAMESCAN_DAEMON_CHILD"

var detached bool

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the scanner daemon in the foreground",
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logger
		if detached || os.Getenv(daemonChildEnv) == "1" {
			fileLog, closer := logging.NewFile(cfg.Log, cfg.Daemon.LogFile)
			defer closer.Close()
			log = fileLog
		}

		dm := daemon.New(cfg.Daemon.PIDFile)
		if err := dm.Acquire(); err != nil {
			return err
		}
		defer dm.RemovePID()

		a, err := newApp(cfg, log)
		if err != nil {
			log.Error().Err(err).Msg("failed to start daemon")
			return err
		}
		defer a.Close()

		log.Debug().Msgf("configuration:\n%s", cfg.String())

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := a.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("daemon stopped with error")
			return err
		}

		log.Info().Msg("daemon stopped")
		return nil
	},
}

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the scanner daemon in the background",
	RunE: func(cmd *cobra.Command, args []string) error {
		dm := daemon.New(cfg.Daemon.PIDFile)
		running, pid, err := dm.IsRunning()
		if err != nil {
			return fmt.Errorf("failed to check daemon status: %w", err)
		}
		if running {
			return fmt.Errorf("daemon is already running (PID: %d)", pid)
		}

		exe, err := os.Executable()
		if err != nil {
			return fmt.Errorf("failed to locate executable: %w", err)
		}

		childArgs := []string{exe, "run", "--detached"}
		if configPath != "" {
			childArgs = append(childArgs, "--config", configPath)
		}
		if logLevel != "" {
			childArgs = append(childArgs, "--log-level", logLevel)
		}

		procAttr := &os.ProcAttr{
			Env:   append(os.Environ(), daemonChildEnv+"=1"),
			Files: []*os.File{nil, nil, nil}, // stdin, stdout, stderr to /dev/null
			Sys:   &syscall.SysProcAttr{Setsid: true},
		}

		process, err := os.StartProcess(exe, childArgs, procAttr)
		if err != nil {
			return fmt.Errorf("failed to start daemon process: %w", err)
		}
		_ = process.Release()

		fmt.Printf("Daemon started (PID: %d)\n", process.Pid)
		fmt.Printf("API: http://%s\n", cfg.WebAddress())
		fmt.Printf("Logs: %s\n", cfg.Daemon.LogFile)
		return nil
	},
}

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the background daemon",
	RunE: func(cmd *cobra.Command, args []string) error {
		dm := daemon.New(cfg.Daemon.PIDFile)
		running, pid, err := dm.IsRunning()
		if err != nil {
			return fmt.Errorf("failed to check daemon status: %w", err)
		}
		if !running {
			fmt.Println("Daemon is not running")
			return nil
		}

		fmt.Printf("Stopping daemon (PID: %d)...\n", pid)
		if err := dm.Stop(shutdownWait + 5*time.Second); err != nil {
			return err
		}
		fmt.Println("Daemon stopped")
		return nil
	},
}

func init() {
	runCmd.Flags().BoolVar(&detached, "detached", false, "log to the daemon log file instead of stderr")
	_ = runCmd.Flags().MarkHidden("detached")

	rootCmd.AddCommand(runCmd, startCmd, stopCmd)
}
