package scanner

import (
	"sync"
	"time"

	"github.com/rubychat/gamescan/internal/models"
)

// State is shared between the command side and the scan loop.
// Each field has its own lock; none is held across a snapshot or an emit.
type State struct {
	listMu sync.RWMutex
	list   []models.DetectableTarget

	activityMu sync.RWMutex
	activity   models.Activity

	enabledMu sync.Mutex
	enabled   bool

	wake           *Signal
	rescanOnUpdate bool
}

// NewState returns a disabled state with an empty watch list.
// When rescanOnUpdate is set, replacing the watch list wakes the loop.
func NewState(rescanOnUpdate bool) *State {
	return &State{
		wake:           NewSignal(),
		rescanOnUpdate: rescanOnUpdate,
	}
}

// ReplaceWatchList swaps the whole list. The caller's slice is copied.
func (s *State) ReplaceWatchList(targets []models.DetectableTarget) {
	list := models.CloneTargets(targets)

	s.listMu.Lock()
	s.list = list
	s.listMu.Unlock()

	if s.rescanOnUpdate {
		s.wake.Notify()
	}
}

// WatchList returns a copy of the current list
func (s *State) WatchList() []models.DetectableTarget {
	s.listMu.RLock()
	defer s.listMu.RUnlock()
	return models.CloneTargets(s.list)
}

// WatchCount returns the number of targets without copying them
func (s *State) WatchCount() int {
	s.listMu.RLock()
	defer s.listMu.RUnlock()
	return len(s.list)
}

// SetEnabled opens or closes the gate. The loop is woken only when the value
// actually changes.
func (s *State) SetEnabled(enabled bool) bool {
	s.enabledMu.Lock()
	changed := s.enabled != enabled
	s.enabled = enabled
	s.enabledMu.Unlock()

	if changed {
		s.wake.Notify()
	}
	return changed
}

func (s *State) Enabled() bool {
	s.enabledMu.Lock()
	defer s.enabledMu.Unlock()
	return s.enabled
}

// Rescan asks the loop to scan now instead of waiting out the interval
func (s *State) Rescan() {
	s.wake.Notify()
}

// Wake exposes the loop's wake signal
func (s *State) Wake() *Signal {
	return s.wake
}

func (s *State) Activity() models.Activity {
	s.activityMu.RLock()
	defer s.activityMu.RUnlock()
	return s.activity
}

// setActivity stores the detection result. Since only moves when the name changes.
func (s *State) setActivity(next models.Activity, now time.Time) {
	s.activityMu.Lock()
	defer s.activityMu.Unlock()

	switch {
	case next.IsNone():
		next.Since = time.Time{}
	case next.Name == s.activity.Name:
		next.Since = s.activity.Since
	default:
		next.Since = now
	}
	s.activity = next
}
