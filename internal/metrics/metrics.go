// file: internal/metrics/metrics.go
// version: 1.0.0
// guid: 8d4a6c20-1f7e-4b93-a5c8-0e2b9d6f3a71

package metrics

import (
	"runtime"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Search outcome labels.
const (
	OutcomeMatched   = "matched"
	OutcomeEmpty     = "empty"
	OutcomeSuggested = "suggested"
)

var (
	registerOnce sync.Once

	searchesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "quickbar",
		Name:      "searches_total",
		Help:      "Total number of searches by outcome",
	}, []string{"outcome"})
	searchDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "quickbar",
		Name:      "search_duration_seconds",
		Help:      "Histogram of filter-rank pass durations in seconds",
		Buckets:   prometheus.ExponentialBuckets(0.00005, 2.5, 10), // 50µs up to ~190ms
	})
	registryReloads = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "quickbar",
		Name:      "registry_reloads_total",
		Help:      "Total number of registry reloads",
	})

	entitiesGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "quickbar",
		Name:      "entities_total",
		Help:      "Current number of entities in the registry",
	})
	goroutinesGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "quickbar",
		Name:      "process_goroutines",
		Help:      "Number of currently running goroutines",
	})
)

// Register initializes metrics with the global Prometheus registry (idempotent)
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(searchesTotal, searchDuration, registryReloads,
			entitiesGauge, goroutinesGauge)
	})
}

// IncSearch increments the search counter for an outcome
func IncSearch(outcome string) {
	searchesTotal.WithLabelValues(outcome).Inc()
}

// ObserveSearchDuration records the duration of one filter-rank pass
func ObserveSearchDuration(d time.Duration) {
	searchDuration.Observe(d.Seconds())
}

// IncRegistryReload increments the reload counter
func IncRegistryReload() {
	registryReloads.Inc()
}

// SetEntities updates the registry size gauge
func SetEntities(n int) {
	entitiesGauge.Set(float64(n))
}

// UpdateRuntime refreshes process-level gauges
func UpdateRuntime() {
	goroutinesGauge.Set(float64(runtime.NumGoroutine()))
}
