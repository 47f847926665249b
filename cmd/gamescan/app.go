package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/rubychat/gamescan/internal/config"
	"github.com/rubychat/gamescan/internal/database"
	"github.com/rubychat/gamescan/internal/events"
	"github.com/rubychat/gamescan/internal/logging"
	"github.com/rubychat/gamescan/internal/models"
	"github.com/rubychat/gamescan/internal/scanner"
	"github.com/rubychat/gamescan/internal/web"
	"github.com/rubychat/gamescan/pkg/detector"
)

const (
	errorRetention = 7 * 24 * time.Hour
	pruneInterval  = time.Hour
	shutdownWait   = 10 * time.Second
)

// app is one running daemon: scanner loop, command API and event sinks
type app struct {
	cfg      *config.Config
	log      zerolog.Logger
	db       *database.DB
	repo     *database.Repository
	state    *scanner.State
	scanner  *scanner.Scanner
	commands *scanner.Commands
	sinks    *events.Multi
	hub      *web.Hub
	web      *web.Server
	closers  []io.Closer
}

func newApp(cfg *config.Config, log zerolog.Logger) (*app, error) {
	a := &app{cfg: cfg, log: log}
	if err := a.init(); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func (a *app) init() error {
	cfg, log := a.cfg, a.log

	db, err := database.Connect(cfg.Database.Path)
	if err != nil {
		return err
	}
	a.db = db
	a.closers = append(a.closers, a.db)
	if err := a.db.Initialize(); err != nil {
		return err
	}
	a.repo = database.NewRepository(a.db)

	source, err := detector.NewSource(cfg.Scanner.Source)
	if err != nil {
		return err
	}
	log.Info().
		Str("source", source.Name()).
		Str("display", detector.DetectDisplayServer()).
		Msg("process source selected")

	a.hub = web.NewHub(log)
	a.sinks = events.NewMulti(logging.Component(log, "events"),
		events.NewLogSink(logging.Component(log, "activity")),
		a.hub,
	)
	a.sinks.OnError = func(sink string, ev events.Event, err error) {
		a.recordError("sink:"+sink, fmt.Errorf("%s %q: %w", events.ActivityChanged, ev.Name, err))
	}

	if cfg.Events.NATSURL != "" {
		ns, err := events.NewNATSSink(cfg.Events.NATSURL, cfg.Events.NATSSubject, logging.Component(log, "nats"))
		if err != nil {
			return err
		}
		a.sinks.Add(ns)
		a.closers = append(a.closers, ns)
	}

	if cfg.Events.HookCommand != "" {
		hs, err := events.NewHookSink(cfg.Events.HookCommand, cfg.Events.HookTimeout)
		if err != nil {
			return err
		}
		a.sinks.Add(hs)
	}

	a.state = scanner.NewState(cfg.Scanner.RescanOnUpdate)
	a.scanner = scanner.New(a.state, source, a.sinks, cfg.Scanner.PollInterval, log)
	a.scanner.SetErrorStore(a.repo)
	a.commands = scanner.NewCommands(a.state, a.scanner, a.repo, log)
	a.web = web.NewServer(cfg, a.commands, a.hub, log)
	return nil
}

// Run restores the saved preferences and serves until ctx is cancelled
func (a *app) Run(ctx context.Context) error {
	if err := a.commands.Restore(); err != nil {
		a.log.Warn().Err(err).Msg("failed to restore preferences, starting empty")
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return a.scanner.Run(ctx)
	})

	g.Go(func() error {
		return a.web.Start()
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownWait)
		defer cancel()
		return a.web.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		a.pruneErrors(ctx)
		return nil
	})

	a.log.Info().
		Str("api", "http://"+a.web.GetAddress()).
		Int("sinks", a.sinks.Len()).
		Msg("gamescan daemon started")

	return g.Wait()
}

// pruneErrors drops diagnostics older than the retention window every hour
func (a *app) pruneErrors(ctx context.Context) {
	ticker := time.NewTicker(pruneInterval)
	defer ticker.Stop()

	for {
		n, err := a.repo.DeleteErrorsBefore(time.Now().Add(-errorRetention))
		if err != nil {
			a.log.Warn().Err(err).Msg("failed to prune error log")
		} else if n > 0 {
			a.log.Debug().Int64("deleted", n).Msg("pruned error log")
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (a *app) recordError(source string, err error) {
	if a.repo == nil {
		return
	}
	if dbErr := a.repo.CreateErrorLog(&models.ErrorLog{Source: source, ErrorMsg: err.Error()}); dbErr != nil {
		a.log.Error().Err(dbErr).AnErr("original", err).Msg("failed to store error in database")
	}
}

// Close releases the database and sink connections
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			a.log.Warn().Err(err).Msg("close failed")
		}
	}
	a.closers = nil
}
