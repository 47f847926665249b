// Package scanner periodically checks the process table for watched targets and
// emits an event whenever the detected target changes.
package scanner

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/rubychat/gamescan/internal/events"
	"github.com/rubychat/gamescan/internal/models"
	"github.com/rubychat/gamescan/pkg/process"
)

// ErrorStore persists non-fatal failures for later diagnostics
type ErrorStore interface {
	CreateErrorLog(errorLog *models.ErrorLog) error
}

// Status is a point-in-time view of the scanner for the status API
type Status struct {
	Enabled      bool            `json:"enabled"`
	Phase        Phase           `json:"phase"`
	Activity     models.Activity `json:"activity"`
	WatchCount   int             `json:"watch_count"`
	LastScan     time.Time       `json:"last_scan"`
	ProcessCount int             `json:"process_count"`
	Source       string          `json:"source"`
}

type Scanner struct {
	state    *State
	source   process.Source
	sink     events.Sink
	store    ErrorStore
	interval time.Duration
	log      zerolog.Logger

	phase   atomic.Int32
	running atomic.Bool

	// one cycle at a time, whether driven by Run or called directly
	cycleMu sync.Mutex

	scanMu       sync.RWMutex
	lastScan     time.Time
	processCount int
}

func New(state *State, source process.Source, sink events.Sink, interval time.Duration, log zerolog.Logger) *Scanner {
	return &Scanner{
		state:    state,
		source:   source,
		sink:     sink,
		interval: interval,
		log:      log.With().Str("component", "scanner").Logger(),
	}
}

// SetErrorStore makes snapshot and delivery failures persist to store
func (s *Scanner) SetErrorStore(store ErrorStore) {
	s.store = store
}

// Run drives the loop until ctx is cancelled. Scan and delivery failures are
// logged and never end the loop.
func (s *Scanner) Run(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return fmt.Errorf("scanner is already running")
	}
	defer s.running.Store(false)

	s.log.Info().
		Dur("poll_interval", s.interval).
		Str("source", s.source.Name()).
		Msg("scanner started")

	wake := s.state.Wake().C()
	for {
		if ctx.Err() != nil {
			break
		}

		if !s.state.Enabled() {
			s.setPhase(PhaseDisabled)
			select {
			case <-ctx.Done():
			case <-wake:
			}
			continue
		}

		s.setPhase(PhaseScanning)
		s.Cycle(ctx)

		s.setPhase(PhaseIdleWait)
		timer := time.NewTimer(s.interval)
		select {
		case <-ctx.Done():
		case <-wake:
		case <-timer.C:
		}
		timer.Stop()
	}

	s.setPhase(PhaseDisabled)
	s.log.Info().Msg("scanner stopped")
	return nil
}

// Cycle performs exactly one scan: snapshot, match, diff, store and emit.
// It reports the emitted event, if any. Concurrent calls are serialised.
func (s *Scanner) Cycle(ctx context.Context) (events.Event, bool) {
	s.cycleMu.Lock()
	defer s.cycleMu.Unlock()

	table, err := s.source.Snapshot(ctx)
	if err != nil {
		if ctx.Err() != nil {
			// shutting down, a partial table would read as "everything stopped"
			return events.Event{}, false
		}
		s.log.Warn().Err(err).Str("source", s.source.Name()).Msg("process snapshot failed, treating as empty")
		s.storeError("snapshot", err)
		table = process.NewTable(process.DefaultFoldCase)
	}

	now := time.Now()
	next := Detect(s.state.WatchList(), table)
	prev := s.state.Activity()

	ev, changed := Transition(prev.Name, next.Name)
	s.state.setActivity(next, now)
	s.recordScan(now, table.Len())

	if !changed {
		return events.Event{}, false
	}

	s.log.Debug().
		Str("prev", prev.Name).
		Str("next", next.Name).
		Str("executable", next.Executable).
		Msg("activity transition")

	if err := s.sink.Emit(ctx, ev); err != nil {
		// Multi already logged each failing sink
		s.log.Debug().Err(err).Msg("event not delivered everywhere")
	}
	return ev, true
}

func (s *Scanner) Phase() Phase {
	return Phase(s.phase.Load())
}

func (s *Scanner) IsRunning() bool {
	return s.running.Load()
}

// Status collects everything the status API reports
func (s *Scanner) Status() Status {
	s.scanMu.RLock()
	lastScan, count := s.lastScan, s.processCount
	s.scanMu.RUnlock()

	return Status{
		Enabled:      s.state.Enabled(),
		Phase:        s.Phase(),
		Activity:     s.state.Activity(),
		WatchCount:   s.state.WatchCount(),
		LastScan:     lastScan,
		ProcessCount: count,
		Source:       s.source.Name(),
	}
}

func (s *Scanner) setPhase(p Phase) {
	if Phase(s.phase.Swap(int32(p))) != p {
		s.log.Debug().Str("phase", p.String()).Msg("phase changed")
	}
}

func (s *Scanner) recordScan(at time.Time, processes int) {
	s.scanMu.Lock()
	s.lastScan = at
	s.processCount = processes
	s.scanMu.Unlock()
}

func (s *Scanner) storeError(source string, err error) {
	if s.store == nil {
		return
	}

	errorLog := &models.ErrorLog{
		Timestamp: time.Now(),
		Source:    source,
		ErrorMsg:  err.Error(),
	}
	if dbErr := s.store.CreateErrorLog(errorLog); dbErr != nil {
		s.log.Error().Err(dbErr).AnErr("original", err).Msg("failed to store error in database")
	}
}
