// Package metrics holds the Prometheus collectors of the API server and the publication worker.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "agora"

var (
	// httpRequests counts handled requests.
	// Labels: method, route (chi route pattern), status
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests by method, route and status",
	}, []string{"method", "route", "status"})

	// httpDuration measures request latency.
	// Labels: method, route
	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	// rateLimited counts requests rejected by the rate limiter
	rateLimited = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "rate_limited_total",
		Help:      "Total requests rejected by the rate limiter",
	})

	// jobsSubmitted counts scheduled posts accepted for later publication
	jobsSubmitted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "scheduler",
		Name:      "jobs_submitted_total",
		Help:      "Total scheduled posts submitted",
	})

	// jobsFinished counts worker outcomes.
	// Labels: outcome (done, failed, retry, cancelled)
	jobsFinished = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "scheduler",
		Name:      "jobs_finished_total",
		Help:      "Total scheduled post executions by outcome",
	}, []string{"outcome"})

	// jobDuration measures a single job execution
	jobDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "scheduler",
		Name:      "job_duration_seconds",
		Help:      "Scheduled post execution latency in seconds",
		Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
	})

	// jobLag measures how late a job ran relative to its run_at
	jobLag = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "scheduler",
		Name:      "job_lag_seconds",
		Help:      "Delay between a job's scheduled time and its execution",
		Buckets:   []float64{0.1, 0.5, 1, 5, 10, 30, 60, 300},
	})
)

// ObserveHTTP records one handled request
func ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// RateLimited records a rejected request
func RateLimited() {
	rateLimited.Inc()
}

// JobSubmitted records a new scheduled post
func JobSubmitted() {
	jobsSubmitted.Inc()
}

// JobFinished records the outcome of one execution
func JobFinished(outcome string, elapsed, lag time.Duration) {
	jobsFinished.WithLabelValues(outcome).Inc()
	jobDuration.Observe(elapsed.Seconds())
	if lag > 0 {
		jobLag.Observe(lag.Seconds())
	}
}
