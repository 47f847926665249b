package models

import "time"

// Activity is the target currently believed to be running.
// A zero Name means nothing is detected.
type Activity struct {
	Name       string    `json:"name,omitempty"`
	Executable string    `json:"executable,omitempty"`
	Since      time.Time `json:"since,omitempty"`
}

// IsNone reports whether no target is detected
func (a Activity) IsNone() bool {
	return a.Name == ""
}
