// Aircensus - Wireless Access Point Telemetry and Diagnostics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aircensus

/*
Package middleware provides HandlerFunc-shaped HTTP middleware.

Two components live here:

  - PrometheusMetrics: request counter, duration histogram, and
    active-request gauge per method/path/status
  - Compression: gzip response compression for clients that send
    Accept-Encoding: gzip

Both take and return http.HandlerFunc. The api package adapts them onto the
Chi router with a one-line shim, so the same middleware works on a bare mux
in tests and on the production router.

Request-ID tracing is not here: it is Chi-integrated and lives with the
router setup in internal/api, which seeds the logging context with
request_id and correlation_id for every request.

Usage:

	mux.HandleFunc("/api/v1/access-points",
	    middleware.PrometheusMetrics(
	        middleware.Compression(handler),
	    ),
	)

Thread safety: Compression pools gzip writers with sync.Pool; the metrics
collectors are Prometheus types and safe for concurrent use.
*/
package middleware
