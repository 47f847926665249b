package scanner

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/rubychat/gamescan/internal/models"
)

// Preferences persists the commands issued by the host so they survive a restart
type Preferences interface {
	ScannerEnabled() (bool, error)
	SetScannerEnabled(enabled bool) error
	LoadWatchList() ([]models.DetectableTarget, error)
	SaveWatchList(targets []models.DetectableTarget) error
}

// Commands is the host-facing surface of the scanner. Commands never fail;
// a persistence error is logged and the in-memory state still changes.
type Commands struct {
	state   *State
	scanner *Scanner
	prefs   Preferences
	log     zerolog.Logger

	// keeps memory and the store in the same order under concurrent commands
	mu sync.Mutex
}

// NewCommands wires the command surface. prefs may be nil.
func NewCommands(state *State, scanner *Scanner, prefs Preferences, log zerolog.Logger) *Commands {
	return &Commands{
		state:   state,
		scanner: scanner,
		prefs:   prefs,
		log:     log.With().Str("component", "commands").Logger(),
	}
}

// UpdateWatchList replaces the watch list
func (c *Commands) UpdateWatchList(targets []models.DetectableTarget) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state.ReplaceWatchList(targets)
	c.log.Info().Int("targets", len(targets)).Msg("watch list updated")

	if c.prefs != nil {
		if err := c.prefs.SaveWatchList(targets); err != nil {
			c.log.Warn().Err(err).Msg("failed to persist watch list")
		}
	}
}

func (c *Commands) WatchList() []models.DetectableTarget {
	return c.state.WatchList()
}

// SetEnabled opens or closes the gate and reports whether it changed
func (c *Commands) SetEnabled(enabled bool) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	changed := c.state.SetEnabled(enabled)
	if !changed {
		return false
	}
	c.log.Info().Bool("enabled", enabled).Msg("detection toggled")

	if c.prefs != nil {
		if err := c.prefs.SetScannerEnabled(enabled); err != nil {
			c.log.Warn().Err(err).Msg("failed to persist detection preference")
		}
	}
	return true
}

// Rescan wakes the loop for an immediate scan
func (c *Commands) Rescan() {
	c.state.Rescan()
}

func (c *Commands) Status() Status {
	return c.scanner.Status()
}

// Restore replays the saved watch list and detection preference as commands.
// The store itself always starts empty and disabled.
func (c *Commands) Restore() error {
	if c.prefs == nil {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	targets, err := c.prefs.LoadWatchList()
	if err != nil {
		return err
	}
	if len(targets) > 0 {
		c.state.ReplaceWatchList(targets)
	}

	enabled, err := c.prefs.ScannerEnabled()
	if err != nil {
		return err
	}
	c.state.SetEnabled(enabled)

	c.log.Info().
		Int("targets", len(targets)).
		Bool("enabled", enabled).
		Msg("preferences restored")
	return nil
}
