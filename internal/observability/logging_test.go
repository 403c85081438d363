package observability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContextFieldAccumulation(t *testing.T) {
	ctx := context.Background()
	ctx = WithRequestID(ctx, "req-1")
	ctx = WithRoute(ctx, "posts")
	ctx = WithLocale(ctx, "en-US")
	ctx = WithArtifactKey(ctx, "en-US-posts%2Ffirst")
	ctx = WithStage(ctx, "resolve")

	lc := GetContext(ctx)
	assert.Equal(t, "req-1", lc.RequestID)
	assert.Equal(t, "posts", lc.Route)
	assert.Equal(t, "en-US", lc.Locale)
	assert.Equal(t, "en-US-posts%2Ffirst", lc.ArtifactKey)
	assert.Equal(t, "resolve", lc.Stage)
}

func TestLaterFieldDoesNotClobberEarlierOnes(t *testing.T) {
	ctx := WithRoute(context.Background(), "posts")
	ctx = WithStage(ctx, "regenerate")

	lc := GetContext(ctx)
	assert.Equal(t, "posts", lc.Route)
	assert.Equal(t, "regenerate", lc.Stage)
}

func TestEmptyContext(t *testing.T) {
	lc := GetContext(context.Background())
	assert.Equal(t, LogContext{}, lc)
}
