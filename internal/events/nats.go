package events

import (
	"context"
	"encoding/json"

	"github.com/nats-io/nats.go"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// NATSSink publishes envelopes on a NATS subject
type NATSSink struct {
	conn    *nats.Conn
	subject string
}

// NewNATSSink connects to url. The connection reconnects forever in the background;
// publishes made while disconnected are buffered by the client.
func NewNATSSink(url, subject string, log zerolog.Logger) (*NATSSink, error) {
	conn, err := nats.Connect(url,
		nats.Name("gamescan"),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Warn().Err(err).Msg("nats disconnected")
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			log.Info().Str("url", c.ConnectedUrl()).Msg("nats reconnected")
		}),
	)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to connect to nats at %s", url)
	}

	return &NATSSink{conn: conn, subject: subject}, nil
}

func (s *NATSSink) Name() string {
	return "nats"
}

func (s *NATSSink) Emit(_ context.Context, ev Event) error {
	data, err := json.Marshal(NewEnvelope(ev))
	if err != nil {
		return errors.Wrap(err, "failed to encode event")
	}
	if err := s.conn.Publish(s.subject, data); err != nil {
		return errors.Wrapf(err, "failed to publish on %s", s.subject)
	}
	return nil
}

// Close flushes pending publishes and closes the connection
func (s *NATSSink) Close() error {
	return s.conn.Drain()
}
