package scanner

import (
	"strings"

	"github.com/rubychat/gamescan/internal/events"
	"github.com/rubychat/gamescan/internal/models"
	"github.com/rubychat/gamescan/pkg/process"
)

// Detect walks targets in order, and each target's executables in order,
// returning the first one present in the table. The zero Activity means none.
// Targets without a display name are skipped: their match would read as none.
func Detect(targets []models.DetectableTarget, table *process.Table) models.Activity {
	for _, target := range targets {
		if strings.TrimSpace(target.Name) == "" {
			continue
		}
		for _, exe := range target.Executables {
			if table.Has(exe.Name) {
				return models.Activity{Name: target.Name, Executable: exe.Name}
			}
		}
	}
	return models.Activity{}
}

// Transition maps a pair of consecutive detections to at most one event.
// An empty name means nothing was detected.
func Transition(prev, next string) (events.Event, bool) {
	switch {
	case prev == next:
		return events.Event{}, false
	case next == "":
		return events.Event{Name: prev, IsRunning: false}, true
	default:
		// covers both none -> X and X -> Y
		return events.Event{Name: next, IsRunning: true}, true
	}
}
