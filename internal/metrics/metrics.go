// Gerbang - Session and Route Authorization Gateway for the Al-Khairaat School Platform
// Copyright 2026 Al-Khairaat Engineering
// SPDX-License-Identifier: Apache-2.0
// https://github.com/alkhairaat/gerbang

// Package metrics defines the Prometheus instrumentation surface. All
// collectors are registered with the default registry via promauto and
// exported at /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// GatewayDecisions counts routing decisions by outcome, role, and the
	// rule that produced them. Anonymous requests carry an empty role.
	GatewayDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gerbang_gateway_decisions_total",
			Help: "Total routing decisions by outcome, role, and rule",
		},
		[]string{"decision", "role", "rule"},
	)

	// HTTPRequestsTotal counts HTTP requests by method, path, and status.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gerbang_http_requests_total",
			Help: "Total HTTP requests processed",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration observes request latency by method and path.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gerbang_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// HTTPRequestsInFlight tracks requests currently being served.
	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gerbang_http_requests_in_flight",
			Help: "HTTP requests currently being processed",
		},
	)

	// UpstreamBreakerState reports the circuit breaker state as a gauge:
	// 0 closed, 1 half-open, 2 open.
	UpstreamBreakerState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gerbang_upstream_breaker_state",
			Help: "Upstream circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
	)

	// UpstreamBreakerTransitions counts breaker state changes.
	UpstreamBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gerbang_upstream_breaker_transitions_total",
			Help: "Total circuit breaker state transitions",
		},
		[]string{"from", "to"},
	)
)

// RecordGatewayDecision records one routing decision.
func RecordGatewayDecision(decision, role, rule string) {
	GatewayDecisions.WithLabelValues(decision, role, rule).Inc()
}

// RecordHTTPRequest records a completed HTTP request.
func RecordHTTPRequest(method, path, status string, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// TrackInFlight marks a request as started and returns a done func.
func TrackInFlight() func() {
	HTTPRequestsInFlight.Inc()
	return HTTPRequestsInFlight.Dec
}
