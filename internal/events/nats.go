package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"
)

// DefaultSubjectPrefix is the NATS subject namespace for page events; the
// event type is appended per message (e.g. pagegen.pages.regenerated).
const DefaultSubjectPrefix = "pagegen.pages"

// NATSPublisher publishes page lifecycle events to NATS.
type NATSPublisher struct {
	conn          *nats.Conn
	subjectPrefix string
}

// NewNATSPublisher connects to NATS and returns a publisher. An empty
// subjectPrefix falls back to DefaultSubjectPrefix.
func NewNATSPublisher(url, subjectPrefix string) (*NATSPublisher, error) {
	conn, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	if subjectPrefix == "" {
		subjectPrefix = DefaultSubjectPrefix
	}

	slog.Info("NATS publisher initialized for page events",
		"url", url,
		"subject_prefix", subjectPrefix)

	return &NATSPublisher{conn: conn, subjectPrefix: subjectPrefix}, nil
}

// Publish sends the event as JSON on the subject for its type.
func (p *NATSPublisher) Publish(ctx context.Context, ev Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	subject := fmt.Sprintf("%s.%s", p.subjectPrefix, ev.Type)
	if err := p.conn.Publish(subject, data); err != nil {
		return fmt.Errorf("publish event to %s: %w", subject, err)
	}
	return nil
}

// Close drains and closes the NATS connection.
func (p *NATSPublisher) Close() error {
	return p.conn.Drain()
}
