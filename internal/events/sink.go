package events

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

// Sink delivers events to one consumer. Delivery is best-effort.
type Sink interface {
	Emit(ctx context.Context, ev Event) error
	Name() string
}

// Multi fans an event out to every sink. A failing sink is logged and does not
// prevent delivery to the others; all failures are returned joined.
type Multi struct {
	mu    sync.RWMutex
	sinks []Sink
	log   zerolog.Logger

	// OnError, when set, is called once per failed delivery
	OnError func(sink string, ev Event, err error)
}

func NewMulti(log zerolog.Logger, sinks ...Sink) *Multi {
	return &Multi{sinks: sinks, log: log}
}

// Add registers another sink
func (m *Multi) Add(s Sink) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sinks = append(m.sinks, s)
}

// Len returns the number of registered sinks
func (m *Multi) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sinks)
}

func (m *Multi) Name() string {
	return "multi"
}

func (m *Multi) Emit(ctx context.Context, ev Event) error {
	m.mu.RLock()
	sinks := append([]Sink(nil), m.sinks...)
	m.mu.RUnlock()

	var errs []error
	for _, s := range sinks {
		if err := s.Emit(ctx, ev); err != nil {
			m.log.Warn().
				Err(err).
				Str("sink", s.Name()).
				Str("event", ActivityChanged).
				Str("name", ev.Name).
				Bool("is_running", ev.IsRunning).
				Msg("event delivery failed")
			if m.OnError != nil {
				m.OnError(s.Name(), ev, err)
			}
			errs = append(errs, &DeliveryError{Sink: s.Name(), Err: err})
		}
	}
	return errors.Join(errs...)
}

// DeliveryError names the sink that failed
type DeliveryError struct {
	Sink string
	Err  error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("sink %s: %v", e.Sink, e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}

// LogSink writes each transition to the log
type LogSink struct {
	log zerolog.Logger
}

func NewLogSink(log zerolog.Logger) *LogSink {
	return &LogSink{log: log}
}

func (s *LogSink) Name() string {
	return "log"
}

func (s *LogSink) Emit(_ context.Context, ev Event) error {
	s.log.Info().
		Str("event", ActivityChanged).
		Str("name", ev.Name).
		Bool("is_running", ev.IsRunning).
		Msg("activity changed")
	return nil
}

// Recorder keeps every event in memory
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Name() string {
	return "recorder"
}

func (r *Recorder) Emit(_ context.Context, ev Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

// Events returns a copy of everything recorded so far
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Last returns the most recent event
func (r *Recorder) Last() (Event, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.events) == 0 {
		return Event{}, false
	}
	return r.events[len(r.events)-1], true
}
