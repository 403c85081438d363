// Package events publishes page lifecycle notifications so other nodes (or an
// invalidating CDN layer) can react to regenerations. Publishing is always
// best effort: a lost event never fails the request that produced it.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// EventType classifies a page lifecycle event.
type EventType string

const (
	// EventRegenerated fires when a page was regenerated on the request path
	// (cache miss or revalidation).
	EventRegenerated EventType = "regenerated"

	// EventSwept fires when the background sweeper regenerated a page.
	EventSwept EventType = "swept"
)

// Event describes one regeneration of one artifact key.
type Event struct {
	ID     string    `json:"id"`
	Type   EventType `json:"type"`
	Key    string    `json:"key"`
	Route  string    `json:"route"`
	Locale string    `json:"locale"`
	At     time.Time `json:"at"`
}

// New builds an event with a fresh ID and timestamp.
func New(t EventType, key, route, locale string) Event {
	return Event{
		ID:     uuid.NewString(),
		Type:   t,
		Key:    key,
		Route:  route,
		Locale: locale,
		At:     time.Now().UTC(),
	}
}

// Publisher delivers page lifecycle events.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

// NoopPublisher is a Publisher that does nothing (default when events are not
// configured).
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, Event) error { return nil }
