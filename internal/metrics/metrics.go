// Package metrics holds the Prometheus collectors of the backend.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var collectors = []prometheus.Collector{
	RequestCount,
	RequestDuration,
	syncTotal,
	syncTransactions,
	syncDuration,
	patternsDetected,
}

// Register registers all collectors with the default registry.
func Register() error {
	for _, c := range collectors {
		if err := prometheus.Register(c); err != nil {
			return fmt.Errorf("could not register %s with Prometheus: %w", c, err)
		}
	}

	return nil
}

// Unregister unregisters all collectors.
//
// This is needed to cleanly exit.
func Unregister() bool {
	for _, c := range collectors {
		if ok := prometheus.Unregister(c); !ok {
			return false
		}
	}

	return true
}

var RequestCount = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "requests_total",
		Help: "How many HTTP requests processed, partitioned by status code and HTTP method.",
	},
	[]string{"code", "method", "url"},
)

var RequestDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name: "request_duration_seconds",
		Help: "The HTTP request latencies in seconds.",
	},
	[]string{"code", "method", "url"},
)

var syncTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "sync_runs_total",
		Help: "How many account syncs ran, partitioned by institution and result status.",
	},
	[]string{"institution", "status"},
)

var syncTransactions = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "sync_transactions_total",
		Help: "How many synced transactions were added or skipped as duplicates.",
	},
	[]string{"institution", "result"},
)

var syncDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "sync_duration_seconds",
		Help:    "Wall clock duration of one account sync.",
		Buckets: []float64{1, 2, 5, 10, 30, 60, 120, 300},
	},
	[]string{"institution"},
)

var patternsDetected = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "recurring_patterns_total",
		Help: "How many recurring patterns were written, partitioned by whether they are new or refreshed.",
	},
	[]string{"result"},
)

// ObserveSync records the result of one account sync.
func ObserveSync(institution, status string, added, duplicates int, elapsed time.Duration) {
	syncTotal.WithLabelValues(institution, status).Inc()
	syncTransactions.WithLabelValues(institution, "added").Add(float64(added))
	syncTransactions.WithLabelValues(institution, "duplicate").Add(float64(duplicates))
	syncDuration.WithLabelValues(institution).Observe(elapsed.Seconds())
}

// ObserveDetection records the result of one detection run.
func ObserveDetection(detected, updated int) {
	patternsDetected.WithLabelValues("detected").Add(float64(detected))
	patternsDetected.WithLabelValues("updated").Add(float64(updated))
}
