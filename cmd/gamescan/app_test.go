package main

import (
	"context"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rubychat/gamescan/internal/config"
	"github.com/rubychat/gamescan/internal/database"
	"github.com/rubychat/gamescan/internal/models"
	"github.com/rubychat/gamescan/internal/scanner"
	"github.com/rubychat/gamescan/internal/web"
)

func freePort(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	return ln.Addr().(*net.TCPAddr).Port
}

func testConfig(t *testing.T) *config.Config {
	cfg := config.Default()
	dir := t.TempDir()
	cfg.Database.Path = filepath.Join(dir, "gamescan.db")
	cfg.Daemon.PIDFile = filepath.Join(dir, "gamescan.pid")
	cfg.Scanner.Source = "psutil"
	cfg.Scanner.PollInterval = time.Second
	cfg.Web.Port = freePort(t)
	return cfg
}

func TestAppServesCommandsAndPersists(t *testing.T) {
	cfg := testConfig(t)

	a, err := newApp(cfg, zerolog.Nop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	client := web.NewClient(cfg.WebAddress())
	require.Eventually(t, func() bool { return client.Health(ctx) == nil }, 5*time.Second, 20*time.Millisecond)

	targets := []models.DetectableTarget{{
		ID:          "1",
		Name:        "Surely Not Running",
		Executables: []models.Executable{{OS: "linux", Name: "gamescan-test-not-a-process"}},
	}}
	require.NoError(t, client.SetWatchList(ctx, targets))

	status, err := client.SetEnabled(ctx, true)
	require.NoError(t, err)
	assert.True(t, status.Enabled)

	require.Eventually(t, func() bool {
		s, err := client.Status(ctx)
		return err == nil && !s.LastScan.IsZero() && s.Phase == scanner.PhaseIdleWait
	}, 10*time.Second, 20*time.Millisecond)

	status, err = client.Status(ctx)
	require.NoError(t, err)
	assert.True(t, status.Activity.IsNone())
	assert.Equal(t, 1, status.WatchCount)

	cancel()
	require.NoError(t, <-done)
	a.Close()

	// preferences survive a restart
	db, err := database.Connect(cfg.Database.Path)
	require.NoError(t, err)
	defer db.Close()
	repo := database.NewRepository(db)

	saved, err := repo.LoadWatchList()
	require.NoError(t, err)
	assert.Equal(t, targets, saved)

	enabled, err := repo.ScannerEnabled()
	require.NoError(t, err)
	assert.True(t, enabled)
}

func TestNewAppRejectsBadHook(t *testing.T) {
	cfg := testConfig(t)
	cfg.Events.HookCommand = `notify "unterminated`

	_, err := newApp(cfg, zerolog.Nop())
	assert.Error(t, err)
}
