// Package metrics defines observability hooks for page resolution.
package metrics

import "time"

// CacheResult enumerates incremental cache outcomes for counters.
type CacheResult string

const (
	CacheHit         CacheResult = "hit"
	CacheMiss        CacheResult = "miss"
	CacheRevalidated CacheResult = "revalidated"
)

// Recorder defines observability hooks for page serving and cache resolution.
// Implementations may forward to Prometheus, OpenTelemetry, etc.
type Recorder interface {
	ObserveServeDuration(route string, d time.Duration)
	IncCacheResult(route string, result CacheResult)
	IncRegeneration(route string)
	IncServeOutcome(outcome string) // outcome: success|<error category>
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveServeDuration(string, time.Duration) {}
func (NoopRecorder) IncCacheResult(string, CacheResult)         {}
func (NoopRecorder) IncRegeneration(string)                     {}
func (NoopRecorder) IncServeOutcome(string)                     {}
