// Aircensus - Wireless Access Point Telemetry and Diagnostics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aircensus

// Package database provides the data access layer for Aircensus.
//
// # Overview
//
// This package serves as the repository between the application and DuckDB,
// owning the access_points table (current device state, keyed by name) and
// the client_counts table (append-only time series of per-building client
// counts).
//
// # Architecture
//
// The package is organized into domain-specific files:
//
//   - database.go: Core database lifecycle (connection, initialization, cleanup)
//   - schema.go: Table creation and index management
//   - accesspoints.go: Upsert and filtered queries over access points
//   - clientcounts.go: Append-only writes, filtered queries, and the
//     per-building series the diagnostics engine reads
//   - errors.go: Resource cleanup helpers
//
// # Storage Semantics
//
// The two tables have deliberately different write disciplines:
//
//   - access_points: one row per device, written with INSERT ... ON CONFLICT
//     DO UPDATE. Re-fetching a device replaces its row in place and never
//     duplicates it. Rows are never deleted by the application.
//   - client_counts: strictly append-only. Every fetch cycle inserts new
//     rows; nothing updates or deletes them. Retention is an external job.
//
// No cross-table transaction spans the two: each upsert and append is
// independently atomic, and a partial fetch cycle (devices written, counts
// failed) is an accepted degraded outcome surfaced through the error
// tracker, not rolled back.
//
// # Database Technology
//
// The package uses DuckDB as its embedded store:
//   - single-file database with WAL, no external server
//   - window functions for the per-building series queries
//   - CGO-based driver (github.com/duckdb/duckdb-go/v2)
//
// All queries use parameterized statements; the hot write paths additionally
// go through a prepared statement cache.
package database
