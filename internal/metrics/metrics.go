// Aircensus - Wireless Access Point Telemetry and Diagnostics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aircensus

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus Metrics Integration for Production Observability
// This package provides instrumentation for:
// - Fetch cycle phases and record outcomes
// - Controller API latency, retries and token refreshes
// - Database query performance (DuckDB)
// - API endpoint latency and throughput
// - Circuit breaker state

var (
	// Pipeline Metrics
	PipelinePhaseDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pipeline_phase_duration_seconds",
			Help:    "Duration of fetch cycle phases in seconds",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120, 300},
		},
		[]string{"phase"}, // "devices", "counts"
	)

	PipelineRecords = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_records_total",
			Help: "Total records processed by the pipeline",
		},
		[]string{"phase", "outcome"}, // outcome: "upserted", "appended", "incomplete", "failed"
	)

	PipelineCycles = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_cycles_total",
			Help: "Total fetch cycles by result",
		},
		[]string{"result"}, // "success", "partial", "failed"
	)

	PipelineLastSuccess = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "pipeline_last_success_timestamp",
			Help: "Unix timestamp of the last fully successful fetch cycle",
		},
	)

	PipelineRunning = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "pipeline_running",
			Help: "Whether a fetch cycle is currently running (0 or 1)",
		},
	)

	// Controller API Metrics
	ControllerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "controller_requests_total",
			Help: "Total requests to the upstream controller",
		},
		[]string{"endpoint", "status_code"},
	)

	ControllerRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "controller_request_duration_seconds",
			Help:    "Upstream controller request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	ControllerRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "controller_retries_total",
			Help: "Total retried controller requests",
		},
		[]string{"reason"}, // "rate_limited", "auth_expired", "transient"
	)

	ControllerTokenRefreshes = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "controller_token_refreshes_total",
			Help: "Total authentication token refreshes",
		},
	)

	ControllerErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "controller_errors_total",
			Help: "Total controller call failures by classification",
		},
		[]string{"kind"}, // "transient_upstream", "terminal_upstream"
	)

	// Error Tracker Metrics
	TrackedErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tracked_errors_total",
			Help: "Total errors recorded in the in-memory error tracker",
		},
		[]string{"kind"},
	)

	// Database Metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "duckdb_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets, // 0.005s, 0.01s, 0.025s, 0.05s, 0.1s, 0.25s, 0.5s, 1s, 2.5s, 5s, 10s
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duckdb_query_errors_total",
			Help: "Total number of DuckDB query errors",
		},
		[]string{"operation", "table", "error_type"},
	)

	DBConnectionPoolSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "duckdb_connection_pool_size",
			Help: "Current number of database connections in use",
		},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}, // Optimized for API latency
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures recorded by the circuit breaker",
		},
		[]string{"name"},
	)

	// System Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)

	AppUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "app_uptime_seconds",
			Help: "Application uptime in seconds",
		},
	)
)

// RecordDBQuery records a database query metric
func RecordDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		errorType := err.Error()
		// Truncate long error messages
		if len(errorType) > 50 {
			errorType = errorType[:50]
		}
		DBQueryErrors.WithLabelValues(operation, table, errorType).Inc()
	}
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordPhase records the duration and record outcomes of one pipeline phase
func RecordPhase(phase string, duration time.Duration, upserted, appended, incomplete, failed int) {
	PipelinePhaseDuration.WithLabelValues(phase).Observe(duration.Seconds())
	PipelineRecords.WithLabelValues(phase, "upserted").Add(float64(upserted))
	PipelineRecords.WithLabelValues(phase, "appended").Add(float64(appended))
	PipelineRecords.WithLabelValues(phase, "incomplete").Add(float64(incomplete))
	PipelineRecords.WithLabelValues(phase, "failed").Add(float64(failed))
}

// RecordCycle records the outcome of a complete fetch cycle
func RecordCycle(result string) {
	PipelineCycles.WithLabelValues(result).Inc()
	if result == "success" {
		PipelineLastSuccess.Set(float64(time.Now().Unix()))
	}
}

// RecordControllerRequest records an upstream controller request metric
func RecordControllerRequest(endpoint, statusCode string, duration time.Duration) {
	ControllerRequests.WithLabelValues(endpoint, statusCode).Inc()
	ControllerRequestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// RecordTrackedError records an error pushed to the in-memory tracker
func RecordTrackedError(kind string) {
	TrackedErrors.WithLabelValues(kind).Inc()
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}
