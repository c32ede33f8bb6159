// Package observability holds the Prometheus collectors exported on /metrics.
package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "run_tracker",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by route pattern, method and status code.",
	}, []string{"route", "method", "status"})
	httpDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "run_tracker",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by route pattern.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "method"})

	runsCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "run_tracker",
		Subsystem: "runs",
		Name:      "created_total",
		Help:      "Runs recorded.",
	})
	runsDeleted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "run_tracker",
		Subsystem: "runs",
		Name:      "deleted_total",
		Help:      "Runs deleted by their owner.",
	})
	runDistance = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "run_tracker",
		Subsystem: "runs",
		Name:      "distance_kilometers_total",
		Help:      "Sum of the distance of every recorded run.",
	})

	loginAttempts = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "run_tracker",
		Subsystem: "auth",
		Name:      "login_attempts_total",
		Help:      "Login attempts by outcome (success, invalid, rate_limited).",
	}, []string{"outcome"})
)

func init() {
	prometheus.MustRegister(httpRequests, httpDuration, runsCreated, runsDeleted, runDistance, loginAttempts)
}

// RecordHTTPRequest counts a served request. route is the matched mux
// pattern, never the raw path, to keep label cardinality bounded.
func RecordHTTPRequest(route, method string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(route, method).Observe(elapsed.Seconds())
}

// RecordRunCreated counts a new run and its distance.
func RecordRunCreated(distanceKm float64) {
	runsCreated.Inc()
	runDistance.Add(distanceKm)
}

// RecordRunDeleted counts a deleted run.
func RecordRunDeleted() {
	runsDeleted.Inc()
}

// RecordLogin counts a login attempt with the given outcome.
func RecordLogin(outcome string) {
	loginAttempts.WithLabelValues(outcome).Inc()
}
