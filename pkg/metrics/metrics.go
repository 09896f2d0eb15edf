// Package metrics holds the process-wide Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2, 5},
		},
		[]string{"method", "route"},
	)

	// CVGenerations counts generate-pdf outcomes: one of the reconcile
	// branches on success, or "failed".
	CVGenerations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cv_generations_total",
			Help: "Total number of CV generation requests by outcome",
		},
		[]string{"outcome"},
	)

	CVRenderDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cv_render_duration_seconds",
			Help:    "Duration of PDF rendering",
			Buckets: []float64{.01, .05, .1, .25, .5, 1, 2, 5, 10, 30},
		},
	)

	// CVUploads counts stored documents by backend ("s3" or "local").
	CVUploads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cv_uploads_total",
			Help: "Total number of stored CV documents by backend",
		},
		[]string{"backend"},
	)

	RateLimitExceeded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rate_limit_exceeded_total",
			Help: "Total number of rate limit exceeded errors",
		},
		[]string{"scope"},
	)
)
