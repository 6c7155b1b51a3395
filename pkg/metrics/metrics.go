// Package metrics exposes Prometheus metrics for the fretwise server.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "fretwise"

// Manager owns the service's Prometheus collectors.
type Manager struct {
	conversions   *prometheus.CounterVec
	droppedNotes  prometheus.Counter
	solveDuration prometheus.Histogram
}

// New registers the fretwise collectors on the default registry.
func New() *Manager {
	return &Manager{
		conversions: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "conversions_total",
			Help:      "Completed tablature conversions by output format.",
		}, []string{"format"}),
		droppedNotes: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dropped_notes_total",
			Help:      "Notes dropped as unplayable during solving.",
		}),
		solveDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "solve_duration_seconds",
			Help:      "Wall-clock duration of fingering solves.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
}

// RecordConversion counts one finished conversion.
func (m *Manager) RecordConversion(format string, dropped int, elapsed time.Duration) {
	m.conversions.WithLabelValues(format).Inc()
	m.droppedNotes.Add(float64(dropped))
	m.solveDuration.Observe(elapsed.Seconds())
}

// Handler serves the metrics endpoint.
func (m *Manager) Handler() http.Handler {
	return promhttp.Handler()
}
