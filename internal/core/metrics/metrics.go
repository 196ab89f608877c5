// Package metrics exports PerformanceMetrics (spec.md §3) as
// prometheus/client_golang collectors, grounded on the teacher's own
// ecs/metrics.go counters and on Voskan-arena-cache's collector
// registration idiom (one struct owning pre-registered vectors, updated
// via plain method calls rather than touching the registry per-call).
package metrics

import (
	"ecsforge/internal/core/ecs"

	"github.com/prometheus/client_golang/prometheus"
)

// PerformanceMetrics owns every collector the engine exports: tick
// timing, storage occupancy, query cache hit rate, and coroutine counts.
type PerformanceMetrics struct {
	TickDuration   prometheus.Histogram
	EntityCount    prometheus.Gauge
	ComponentCount *prometheus.GaugeVec
	QueryCacheHits prometheus.Counter
	QueryCacheMiss prometheus.Counter
	SyncCoroutines prometheus.Gauge
	SystemErrors   *prometheus.CounterVec
}

// New builds and registers every collector against reg. Passing a fresh
// prometheus.NewRegistry() (rather than the global DefaultRegisterer)
// keeps repeated test setup from panicking on duplicate registration.
func New(reg prometheus.Registerer) *PerformanceMetrics {
	m := &PerformanceMetrics{
		TickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "ecsforge",
			Name:      "tick_duration_seconds",
			Help:      "Wall-clock duration of one orchestrator tick.",
			Buckets:   prometheus.DefBuckets,
		}),
		EntityCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "ecsforge",
			Name:      "entity_count",
			Help:      "Currently live entities in the active scene.",
		}),
		ComponentCount: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "ecsforge",
			Name:      "component_count",
			Help:      "Live instance count per component type.",
		}, []string{"component"}),
		QueryCacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ecsforge",
			Name:      "query_cache_hits_total",
			Help:      "Query cache hits.",
		}),
		QueryCacheMiss: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ecsforge",
			Name:      "query_cache_misses_total",
			Help:      "Query cache misses.",
		}),
		SyncCoroutines: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "ecsforge",
			Name:      "sync_coroutines_active",
			Help:      "Sync coroutines currently in the active list.",
		}),
		SystemErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ecsforge",
			Name:      "system_errors_total",
			Help:      "Recovered transform panics/errors per system.",
		}, []string{"system"}),
	}
	reg.MustRegister(
		m.TickDuration, m.EntityCount, m.ComponentCount,
		m.QueryCacheHits, m.QueryCacheMiss, m.SyncCoroutines, m.SystemErrors,
	)
	return m
}

// ObserveStorage refreshes the per-component gauges from a storage stats snapshot.
func (m *PerformanceMetrics) ObserveStorage(stats []ecs.StorageStats) {
	for _, s := range stats {
		m.ComponentCount.WithLabelValues(string(s.ComponentType)).Set(float64(s.ComponentCount))
	}
}

// RecordSystemError increments the per-system error counter, called from
// the same PanicHandler the logging package's SystemPanic is wired to.
func (m *PerformanceMetrics) RecordSystemError(system string) {
	m.SystemErrors.WithLabelValues(system).Inc()
}
