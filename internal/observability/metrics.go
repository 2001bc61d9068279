// Package observability exposes the Prometheus metrics served on /metrics.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "gearguardian"

var (
	upstreamRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "upstream",
		Name:      "requests_total",
		Help:      "Requests sent to third-party providers by outcome.",
	}, []string{"provider", "outcome"})

	breakerState = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "upstream",
		Name:      "circuit_breaker_state",
		Help:      "Circuit breaker state per provider (0 closed, 1 half-open, 2 open).",
	}, []string{"provider"})

	jobRuns = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "jobs",
		Name:      "runs_total",
		Help:      "Background task executions by task type and result.",
	}, []string{"task", "result"})

	jobDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "jobs",
		Name:      "duration_seconds",
		Help:      "Background task execution time.",
		Buckets:   prometheus.ExponentialBuckets(0.05, 2, 12),
	}, []string{"task"})

	activitiesImported = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "sync",
		Name:      "activities_imported_total",
		Help:      "Activities stored from a provider.",
	}, []string{"provider"})

	gearLinked = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "sync",
		Name:      "gear_associations_total",
		Help:      "Activities matched to gear by provider gear id.",
	}, []string{"provider"})
)

func init() {
	prometheus.MustRegister(
		upstreamRequests,
		breakerState,
		jobRuns,
		jobDuration,
		activitiesImported,
		gearLinked,
	)
}

// RecordUpstreamRequest counts one provider call. outcome is one of
// success, failure or rejected.
func RecordUpstreamRequest(provider, outcome string) {
	upstreamRequests.WithLabelValues(provider, outcome).Inc()
}

func SetBreakerState(provider string, state float64) {
	breakerState.WithLabelValues(provider).Set(state)
}

// RecordJobRun records one task execution.
func RecordJobRun(task string, started time.Time, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	jobRuns.WithLabelValues(task, result).Inc()
	jobDuration.WithLabelValues(task).Observe(time.Since(started).Seconds())
}

func RecordActivitiesImported(provider string, n int) {
	if n > 0 {
		activitiesImported.WithLabelValues(provider).Add(float64(n))
	}
}

func RecordGearLinked(provider string, n int) {
	if n > 0 {
		gearLinked.WithLabelValues(provider).Add(float64(n))
	}
}
