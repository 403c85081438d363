package metrics

import (
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopRecorderIsSafe(t *testing.T) {
	var r Recorder = NoopRecorder{}
	r.ObserveServeDuration("posts", time.Millisecond)
	r.IncCacheResult("posts", CacheHit)
	r.IncRegeneration("posts")
	r.IncServeOutcome("success")
}

func TestPrometheusRecorderCounts(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)

	pr.IncCacheResult("posts", CacheMiss)
	pr.IncCacheResult("posts", CacheMiss)
	pr.IncCacheResult("posts", CacheHit)
	pr.IncRegeneration("posts")
	pr.IncServeOutcome("success")
	pr.ObserveServeDuration("posts", 10*time.Millisecond)

	misses := testutil.ToFloat64(pr.cacheResults.WithLabelValues("posts", string(CacheMiss)))
	assert.Equal(t, 2.0, misses)
	hits := testutil.ToFloat64(pr.cacheResults.WithLabelValues("posts", string(CacheHit)))
	assert.Equal(t, 1.0, hits)
	regens := testutil.ToFloat64(pr.regenerations.WithLabelValues("posts"))
	assert.Equal(t, 1.0, regens)

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}
