// Fingertipsgo - UK Public Health Statistics API Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fingertipsgo

// Package metrics provides Prometheus instrumentation for fingertipsgo.
//
// The client records one observation per outbound Fingertips API call and the
// circuit breaker publishes its state transitions. The serving facade exposes
// everything on /metrics via promhttp.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// APIRequestDuration tracks outbound Fingertips API call latency by endpoint.
	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fingertips_api_request_duration_seconds",
			Help:    "Duration of Fingertips API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	// APIRequestsTotal counts outbound API requests by endpoint and outcome.
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fingertips_api_requests_total",
			Help: "Total number of Fingertips API requests",
		},
		[]string{"endpoint", "status"},
	)

	// RowsFetched counts observation rows returned by bulk retrievals.
	RowsFetched = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fingertips_rows_fetched_total",
			Help: "Total number of observation rows returned by bulk retrievals",
		},
		[]string{"endpoint"},
	)

	// CircuitBreakerState tracks circuit breaker state (0=closed, 1=half-open, 2=open).
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "fingertips_circuit_breaker_state",
			Help: "Circuit breaker state: 0=closed, 1=half-open, 2=open",
		},
		[]string{"name"},
	)

	// CircuitBreakerTransitions counts state transitions.
	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fingertips_circuit_breaker_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	// CircuitBreakerRequests counts requests by circuit breaker outcome.
	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fingertips_circuit_breaker_requests_total",
			Help: "Total number of requests through the circuit breaker",
		},
		[]string{"name", "result"}, // result: success, failure, rejected
	)
)

// ObserveAPIRequest records one outbound API call.
func ObserveAPIRequest(endpoint string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	APIRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	APIRequestsTotal.WithLabelValues(endpoint, status).Inc()
}
