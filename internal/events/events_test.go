package events

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEventFields(t *testing.T) {
	ev := New(EventRegenerated, "en-US-posts%2Ffirst", "posts", "en-US")
	assert.NotEmpty(t, ev.ID)
	assert.Equal(t, EventRegenerated, ev.Type)
	assert.Equal(t, "posts", ev.Route)
	assert.False(t, ev.At.IsZero())

	data, err := json.Marshal(ev)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"type":"regenerated"`)
}

func TestNoopPublisher(t *testing.T) {
	var p Publisher = NoopPublisher{}
	assert.NoError(t, p.Publish(context.Background(), New(EventSwept, "k", "r", "l")))
}
