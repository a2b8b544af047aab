package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	// Registry is the dedicated Prometheus registry for the API
	Registry = prometheus.NewRegistry()
	// HTTPRequests counts requests by method, path, and status
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "Total HTTP requests."},
		[]string{"method", "path", "status"},
	)
	// HTTPDuration records request durations in seconds
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "http_request_duration_seconds", Help: "HTTP request duration in seconds.", Buckets: prometheus.DefBuckets},
		[]string{"method", "path", "status"},
	)

	// DayAssignments counts weekday bindings created or refused per zone
	DayAssignments = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "day_assignments_total", Help: "Weekday binding attempts by zone and outcome."},
		[]string{"zone", "outcome"},
	)
	// EventsMaterialized counts collection events emitted by the materializer
	EventsMaterialized = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "collection_events_materialized_total", Help: "Collection events written to the horizon."},
	)
	// ReconcileRuns counts reconciliation passes by trigger and result
	ReconcileRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "reconcile_runs_total", Help: "Reconciliation passes by trigger and result."},
		[]string{"trigger", "result"},
	)
)

// RegisterDefault registers collectors to the default registry.
func RegisterDefault() {
	regOnce.Do(func() {
		Registry.MustRegister(HTTPRequests)
		Registry.MustRegister(HTTPDuration)
		Registry.MustRegister(DayAssignments)
		Registry.MustRegister(EventsMaterialized)
		Registry.MustRegister(ReconcileRuns)
		Registry.MustRegister(collectors.NewGoCollector())
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}

var regOnce sync.Once
