package events

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingSink struct {
	calls int
}

func (f *failingSink) Name() string { return "broken" }

func (f *failingSink) Emit(context.Context, Event) error {
	f.calls++
	return errors.New("consumer gone")
}

func TestMultiDeliversPastFailures(t *testing.T) {
	var buf bytes.Buffer
	broken := &failingSink{}
	rec := NewRecorder()

	m := NewMulti(zerolog.New(&buf), broken, rec)

	var reported []string
	m.OnError = func(sink string, ev Event, err error) {
		reported = append(reported, sink+":"+ev.Name)
	}

	err := m.Emit(context.Background(), Event{Name: "Celeste", IsRunning: true})
	require.Error(t, err)

	var de *DeliveryError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, "broken", de.Sink)

	assert.Equal(t, 1, broken.calls)
	assert.Equal(t, []Event{{Name: "Celeste", IsRunning: true}}, rec.Events())
	assert.Equal(t, []string{"broken:Celeste"}, reported)
	assert.Contains(t, buf.String(), `"sink":"broken"`)
	assert.Contains(t, buf.String(), "event delivery failed")
}

func TestMultiWithoutFailures(t *testing.T) {
	rec := NewRecorder()
	m := NewMulti(zerolog.Nop())
	m.Add(rec)
	m.Add(NewLogSink(zerolog.Nop()))

	assert.Equal(t, 2, m.Len())
	assert.NoError(t, m.Emit(context.Background(), Event{Name: "A", IsRunning: true}))
	assert.Len(t, rec.Events(), 1)
}

func TestRecorderLast(t *testing.T) {
	rec := NewRecorder()
	_, ok := rec.Last()
	assert.False(t, ok)

	_ = rec.Emit(context.Background(), Event{Name: "A", IsRunning: true})
	_ = rec.Emit(context.Background(), Event{Name: "A", IsRunning: false})

	last, ok := rec.Last()
	require.True(t, ok)
	assert.Equal(t, Event{Name: "A", IsRunning: false}, last)
}

func TestLogSink(t *testing.T) {
	var buf bytes.Buffer
	s := NewLogSink(zerolog.New(&buf))

	require.NoError(t, s.Emit(context.Background(), Event{Name: "Hollow Knight", IsRunning: true}))
	assert.Contains(t, buf.String(), `"name":"Hollow Knight"`)
	assert.Contains(t, buf.String(), `"is_running":true`)
	assert.Contains(t, buf.String(), `"event":"activity-changed"`)
}

func TestNewEnvelope(t *testing.T) {
	a := NewEnvelope(Event{Name: "A", IsRunning: true})
	b := NewEnvelope(Event{Name: "A", IsRunning: true})

	assert.Equal(t, ActivityChanged, a.Type)
	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, "A", a.Payload.Name)
}
