// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "verbenas_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "verbenas_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)

	// Continuity metrics
	ContinuityChecksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "verbenas_continuity_checks_total",
			Help: "Total number of continuity checks, by cache outcome",
		},
		[]string{"cache"},
	)

	ContinuityReferencesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "verbenas_continuity_references_total",
			Help: "Reference events classified by computed continuity checks",
		},
		[]string{"kind"},
	)

	CacheErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "verbenas_cache_errors_total",
			Help: "Total number of report cache errors",
		},
		[]string{"op"},
	)

	// Store metrics
	InvalidDaysTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "verbenas_store_invalid_days_total",
			Help: "Stored events whose day could not be parsed",
		},
	)
)
