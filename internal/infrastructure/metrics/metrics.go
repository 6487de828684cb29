// Package metrics exposes run counters in Prometheus format.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stocksync/backend/internal/domain"
)

const namespace = "stocksync"

// Recorder implements domain.MetricsRecorder on its own registry
type Recorder struct {
	registry *prometheus.Registry

	outcomes     *prometheus.CounterVec
	mutations    *prometheus.CounterVec
	throttles    *prometheus.CounterVec
	throttleWait *prometheus.CounterVec
}

// NewRecorder creates a recorder with the Go runtime and process collectors registered
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		outcomes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "records_total",
				Help:      "Count of reconciled records by outcome status.",
			},
			[]string{"status"},
		),
		mutations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "mutations_total",
				Help:      "Count of remote mutations by operation and result.",
			},
			[]string{"operation", "result"},
		),
		throttles: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "throttle_events_total",
				Help:      "Count of throttle signals absorbed, by operation kind.",
			},
			[]string{"kind"},
		),
		throttleWait: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "throttle_wait_seconds_total",
				Help:      "Total time spent waiting on throttle signals, by operation kind.",
			},
			[]string{"kind"},
		),
	}

	r.registry.MustRegister(
		r.outcomes,
		r.mutations,
		r.throttles,
		r.throttleWait,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// RecordOutcome counts one record outcome
func (r *Recorder) RecordOutcome(status domain.OutcomeStatus) {
	r.outcomes.WithLabelValues(string(status)).Inc()
}

// RecordMutation counts one mutation attempt that was not throttled
func (r *Recorder) RecordMutation(operation string, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	r.mutations.WithLabelValues(operation, result).Inc()
}

// RecordThrottle counts one throttle wait
func (r *Recorder) RecordThrottle(kind domain.OperationKind, wait time.Duration) {
	r.throttles.WithLabelValues(string(kind)).Inc()
	r.throttleWait.WithLabelValues(string(kind)).Add(wait.Seconds())
}

// Handler serves the registry in the Prometheus exposition format
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// Registry returns the underlying registry
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}
