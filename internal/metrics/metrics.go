// Casavia - Interior Design Studio Media & Inquiry API
// Copyright 2026 Casavia Studio
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/casavia/casavia

// Package metrics provides Prometheus instrumentation for the API. Metrics
// are exposed at /metrics in Prometheus text format.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// APIRequestsTotal counts HTTP requests by method, route and status.
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "casavia_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	// APIRequestDuration tracks request latency by method and route.
	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "casavia_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: []float64{.001, .005, .01, .05, .1, .5, 1, 5, 10},
		},
		[]string{"method", "route"},
	)

	// APIActiveRequests gauges in-flight requests.
	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "casavia_http_requests_in_flight",
			Help: "Number of HTTP requests currently being served",
		},
	)

	// RateLimitHits counts denied requests by path class.
	RateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "casavia_rate_limit_hits_total",
			Help: "Requests denied by the rate limiter",
		},
		[]string{"class"},
	)

	// AuthRejections counts gate rejections by reason.
	AuthRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "casavia_auth_rejections_total",
			Help: "Requests rejected by the auth gate",
		},
		[]string{"reason"},
	)

	// MediaCDNCalls counts outbound CDN calls by operation and outcome.
	MediaCDNCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "casavia_media_cdn_calls_total",
			Help: "Outbound media CDN calls",
		},
		[]string{"operation", "outcome"},
	)
)

// RecordAPIRequest records one served request.
func RecordAPIRequest(method, route, status string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, route, status).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// TrackActiveRequest adjusts the in-flight gauge.
func TrackActiveRequest(start bool) {
	if start {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}
