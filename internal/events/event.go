// Package events carries activity transitions from the scanner to its consumers.
package events

import (
	"time"

	"github.com/nats-io/nuid"
)

// ActivityChanged is the event name consumers subscribe to
const ActivityChanged = "activity-changed"

// Event reports that a target started (or replaced the previous one) or stopped.
// It is a notification, never stored as state.
type Event struct {
	Name      string `json:"name"`
	IsRunning bool   `json:"is_running"`
}

// Envelope is the wire form pushed to websocket and NATS consumers
type Envelope struct {
	Type    string    `json:"type"`
	ID      string    `json:"id"`
	Time    time.Time `json:"time"`
	Payload Event     `json:"payload"`
}

// NewEnvelope wraps ev with a unique id and the current time
func NewEnvelope(ev Event) Envelope {
	return Envelope{
		Type:    ActivityChanged,
		ID:      nuid.Next(),
		Time:    time.Now().UTC(),
		Payload: ev,
	}
}
