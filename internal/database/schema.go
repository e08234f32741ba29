// Aircensus - Wireless Access Point Telemetry and Diagnostics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aircensus

/*
schema.go - Database Schema Management

This file manages the DuckDB database schema including table creation
and index management.

Tables:
  - access_points: Current state of every known access point, keyed by
    device name. Re-fetching a device updates its row in place.
  - client_counts: Append-only client-count time series. Rows are immutable
    once written; retention is an external job, not the application's.

Schema Strategy:
All columns are defined in the initial CREATE TABLE statement. This provides
a single source of truth for the complete schema and fast startup with no
migrations to run.

Index Strategy:
Indexes cover the query patterns the API and diagnostics engine use:
  - access point filtering by building and status
  - time-series scans per building ordered by observation time
  - global recency scans for latest-reading queries
*/

//nolint:staticcheck // File documentation, not package doc
package database

import (
	"context"
	"fmt"
	"time"
)

// schemaContext returns a context with timeout for schema operations
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

// createTables creates the core database tables
func (db *DB) createTables() error {
	ctx, cancel := schemaContext()
	defer cancel()

	for _, query := range getTableCreationQueries() {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %s: %w", query, err)
		}
	}

	return nil
}

// getTableCreationQueries returns the table creation SQL statements
func getTableCreationQueries() []string {
	return []string{
		// Access points table - one row per device, name is the natural key
		`CREATE TABLE IF NOT EXISTS access_points (
			name TEXT PRIMARY KEY,
			status TEXT NOT NULL,
			client_count INTEGER NOT NULL DEFAULT 0,
			mac_address TEXT,
			model TEXT,
			ip_address TEXT,
			building TEXT,
			floor TEXT,
			room TEXT,
			last_updated TIMESTAMP NOT NULL
		);`,

		// Sequence backing the client_counts surrogate key
		`CREATE SEQUENCE IF NOT EXISTS client_counts_id_seq;`,

		// Client counts table - append-only time series.
		// observed_at is the upstream observation time; inserted_at is the
		// local write time. The two are deliberately distinct columns.
		`CREATE TABLE IF NOT EXISTS client_counts (
			id BIGINT PRIMARY KEY DEFAULT nextval('client_counts_id_seq'),
			building TEXT NOT NULL,
			floor TEXT,
			room TEXT,
			client_count INTEGER NOT NULL,
			observed_at TIMESTAMP NOT NULL,
			inserted_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);`,
	}
}

// createIndexes creates database indexes for query optimization
func (db *DB) createIndexes() error {
	ctx, cancel := schemaContext()
	defer cancel()

	for _, query := range getIndexQueries() {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute index query: %s: %w", query, err)
		}
	}

	return nil
}

// getIndexQueries returns index creation SQL statements
func getIndexQueries() []string {
	return []string{
		// Access point filter indexes
		`CREATE INDEX IF NOT EXISTS idx_ap_building ON access_points(building);`,
		`CREATE INDEX IF NOT EXISTS idx_ap_status ON access_points(status);`,

		// Per-building time-series scans (diagnostics and filtered queries)
		`CREATE INDEX IF NOT EXISTS idx_counts_building_observed ON client_counts(building, observed_at DESC);`,

		// Global recency scans
		`CREATE INDEX IF NOT EXISTS idx_counts_observed ON client_counts(observed_at DESC);`,
	}
}
