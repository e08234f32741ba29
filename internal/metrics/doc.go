// Aircensus - Wireless Access Point Telemetry and Diagnostics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aircensus

/*
Package metrics provides Prometheus metrics collection and export for observability.

This package implements application instrumentation using the Prometheus client
library, exposing metrics for monitoring fetch cycles, upstream controller calls,
database performance, and API health.

# Overview

The package provides metrics for:
  - Fetch cycle phase duration and per-record outcomes
  - Upstream controller request latency, retries, and token refreshes
  - DuckDB query performance
  - API endpoint latency and throughput
  - Circuit breaker state transitions
  - In-memory error tracker activity

# Metrics Endpoint

Metrics are exposed at the /metrics endpoint in Prometheus text format:

	curl http://localhost:2462/metrics

# Available Metrics

Pipeline Metrics:
  - pipeline_phase_duration_seconds: Phase duration (histogram)
    Labels: phase (devices, counts)
    Buckets: 0.1, 0.5, 1, 5, 10, 30, 60, 120, 300
  - pipeline_records_total: Records processed (counter)
    Labels: phase, outcome (upserted, appended, incomplete, failed)
  - pipeline_cycles_total: Completed cycles (counter)
    Labels: result (success, partial, failed)
  - pipeline_last_success_timestamp: Unix timestamp of last fully successful cycle (gauge)
  - pipeline_running: Whether a cycle is in progress (gauge)

Controller Metrics:
  - controller_requests_total: Upstream requests (counter)
    Labels: endpoint, status_code
  - controller_request_duration_seconds: Upstream latency (histogram)
    Labels: endpoint
  - controller_retries_total: Retried requests (counter)
    Labels: reason (rate_limited, auth_expired, transient)
  - controller_token_refreshes_total: Token refreshes (counter)
  - controller_errors_total: Failures by classification (counter)
    Labels: kind (transient_upstream, terminal_upstream)

Database Metrics:
  - duckdb_query_duration_seconds: Query execution time (histogram)
    Labels: operation, table
  - duckdb_query_errors_total: Failed queries (counter)
    Labels: operation, table, error_type
  - duckdb_connection_pool_size: Connections in use (gauge)

API Metrics:
  - api_requests_total: Total API requests (counter)
    Labels: method, endpoint, status_code
  - api_request_duration_seconds: Request latency (histogram)
    Labels: method, endpoint
    Buckets: 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10
  - api_active_requests: Active requests (gauge)
  - api_rate_limit_hits_total: Rate limit rejections (counter)
    Labels: endpoint

Circuit Breaker Metrics:
  - circuit_breaker_state: Current state (gauge)
    Labels: name
    Values: 0=closed, 1=half-open, 2=open
  - circuit_breaker_requests_total: Requests through breaker (counter)
    Labels: name, result (success, failure, rejected)
  - circuit_breaker_state_transitions_total: Transitions (counter)
    Labels: name, from_state, to_state

Error Tracker Metrics:
  - tracked_errors_total: Errors recorded in the in-memory tracker (counter)
    Labels: kind

System Metrics:
  - app_info: Version and build information (gauge)
    Labels: version, go_version
  - app_uptime_seconds: Application uptime (gauge)

# Usage Example

Basic setup in main.go:

	import (
	    "github.com/tomtom215/aircensus/internal/metrics"
	    "github.com/prometheus/client_golang/prometheus/promhttp"
	)

	func main() {
	    http.Handle("/metrics", promhttp.Handler())

	    metrics.RecordAPIRequest("GET", "/api/v1/accesspoints", "200", 23*time.Millisecond)
	    metrics.RecordDBQuery("upsert", "access_points", 5*time.Millisecond, nil)
	    metrics.RecordPhase("devices", 12*time.Second, 480, 0, 3, 0)
	}

Recording database metrics inline:

	start := time.Now()
	_, err := db.conn.ExecContext(ctx, query, args...)
	metrics.RecordDBQuery("insert", "client_counts", time.Since(start), err)

# Prometheus Configuration

Example prometheus.yml configuration:

	scrape_configs:
	  - job_name: 'aircensus'
	    static_configs:
	      - targets: ['localhost:2462']
	    metrics_path: '/metrics'
	    scrape_interval: 15s

Example PromQL queries:

	# Fetch cycle success rate
	rate(pipeline_cycles_total{result="success"}[1h])

	# Seconds since last successful cycle
	time() - pipeline_last_success_timestamp

	# API p95 latency
	histogram_quantile(0.95, rate(api_request_duration_seconds_bucket[5m]))

	# Upstream error rate by classification
	rate(controller_errors_total[15m])

# Thread Safety

All metric recording functions are thread-safe and designed for concurrent use
from multiple goroutines. The Prometheus client library handles synchronization
internally.

# Cardinality Management

To prevent high cardinality issues:

  - Endpoint labels use route patterns, never raw URLs
  - Database error types are truncated to 50 characters
  - Phase and outcome labels are limited to predefined constants

# See Also

  - internal/api: HTTP middleware with metrics integration
  - internal/database: Database metrics recording
  - internal/pipeline: Fetch cycle metrics
  - https://prometheus.io/docs/practices/naming/: Metric naming conventions
*/
package metrics
