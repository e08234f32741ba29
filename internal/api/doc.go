// Aircensus - Wireless Access Point Telemetry and Diagnostics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aircensus

// Package api provides the HTTP REST surface for Aircensus using the Chi
// router.
//
// All endpoints live under /api/v1 except the Prometheus scrape target at
// /metrics. Responses use a standard envelope:
//
//	{
//	    "success": true,
//	    "data": { ... },
//	    "meta": { "request_id": "...", "timestamp": "...", "duration_ms": 3 }
//	}
//
// Errors carry a machine-readable code alongside the message:
//
//	{
//	    "success": false,
//	    "error": { "code": "CONFLICT", "message": "a fetch cycle is already in progress" }
//	}
//
// Endpoint groups and their rate limits:
//
//   - /api/v1/health      - liveness, readiness, full health (permissive, 1000/min)
//   - /api/v1/sync        - manual pipeline triggers and status (strict, 10/min)
//   - /api/v1/...         - stored access points, client counts, buildings (100/min)
//   - /api/v1/diagnostics - zero counts, health alerts, report, incomplete
//     devices, API health (100/min)
//
// Handler methods are split across files:
//   - handlers.go: Handler struct, constructor, shared guards
//   - handlers_health.go: health and probe endpoints
//   - handlers_sync.go: manual trigger and status endpoints
//   - handlers_accesspoints.go: stored access point reads
//   - handlers_clientcounts.go: client count reads and building list
//   - handlers_diagnostics.go: diagnostics surface
package api
