package metrics

import (
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once          sync.Once
	serveDuration *prom.HistogramVec
	cacheResults  *prom.CounterVec
	regenerations *prom.CounterVec
	serveOutcomes *prom.CounterVec
}

// NewPrometheusRecorder constructs and registers Prometheus metrics (idempotent).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{}
	pr.once.Do(func() {
		pr.serveDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "pagegen",
			Name:      "serve_duration_seconds",
			Help:      "Duration of page resolution per route",
			Buckets:   prom.DefBuckets,
		}, []string{"route"})
		pr.cacheResults = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "pagegen",
			Name:      "cache_results_total",
			Help:      "Incremental cache outcomes by route",
		}, []string{"route", "result"})
		pr.regenerations = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "pagegen",
			Name:      "regenerations_total",
			Help:      "Page regenerations by route",
		}, []string{"route"})
		pr.serveOutcomes = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "pagegen",
			Name:      "serve_outcomes_total",
			Help:      "Page serve outcomes (success or error category)",
		}, []string{"outcome"})

		reg.MustRegister(pr.serveDuration, pr.cacheResults, pr.regenerations, pr.serveOutcomes)
	})
	return pr
}

func (pr *PrometheusRecorder) ObserveServeDuration(route string, d time.Duration) {
	pr.serveDuration.WithLabelValues(route).Observe(d.Seconds())
}

func (pr *PrometheusRecorder) IncCacheResult(route string, result CacheResult) {
	pr.cacheResults.WithLabelValues(route, string(result)).Inc()
}

func (pr *PrometheusRecorder) IncRegeneration(route string) {
	pr.regenerations.WithLabelValues(route).Inc()
}

func (pr *PrometheusRecorder) IncServeOutcome(outcome string) {
	pr.serveOutcomes.WithLabelValues(outcome).Inc()
}
