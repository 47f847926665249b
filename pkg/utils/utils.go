package utils

import (
	"fmt"
	"time"
)

// FormatRoundedUnit renders a duration in its largest whole unit: 45s, 12m, 3h
func FormatRoundedUnit(seconds int64) string {
	if seconds < 0 {
		seconds = -seconds
	}
	switch {
	case seconds < 60:
		return fmt.Sprintf("%ds", seconds)
	case seconds < 3600:
		return fmt.Sprintf("%dm", seconds/60)
	default:
		return fmt.Sprintf("%dh", seconds/3600)
	}
}

// FormatSince renders the time elapsed from t to now, or "" for a zero t
func FormatSince(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}
	return FormatRoundedUnit(int64(now.Sub(t) / time.Second))
}
