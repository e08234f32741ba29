// Aircensus - Wireless Access Point Telemetry and Diagnostics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aircensus

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/aircensus/internal/metrics"
	"github.com/tomtom215/aircensus/internal/models"
)

const appendClientCountQuery = `INSERT INTO client_counts (
	building, floor, room, client_count, observed_at, inserted_at
) VALUES (?, ?, ?, ?, ?, ?)
RETURNING id`

// AppendClientCount appends one reading to the client-count time series.
//
// The series is strictly append-only: every call inserts a new row and
// nothing in the application ever updates or deletes existing rows. The
// returned reading has its storage ID and InsertedAt populated.
func (db *DB) AppendClientCount(ctx context.Context, reading *models.ClientCountReading) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	if reading.InsertedAt.IsZero() {
		reading.InsertedAt = time.Now().UTC()
	}

	stmt, err := db.getStmt(ctx, appendClientCountQuery)
	if err != nil {
		return err
	}

	start := time.Now()
	err = stmt.QueryRowContext(ctx,
		reading.Building, reading.Floor, reading.Room, reading.Count,
		reading.ObservedAt, reading.InsertedAt,
	).Scan(&reading.ID)
	metrics.RecordDBQuery("insert", "client_counts", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("failed to append client count for %s: %w", reading.Building, err)
	}

	return nil
}

// QueryClientCounts retrieves readings matching the filter, most recent
// first.
//
// All filter predicates are optional and conjunctive. The time range is
// inclusive of Start and exclusive of End. A zero Limit applies the
// repository default; negative limits are rejected as a programming error.
func (db *DB) QueryClientCounts(ctx context.Context, filter models.ClientCountFilter) ([]models.ClientCountReading, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	if filter.Limit < 0 {
		return nil, fmt.Errorf("negative limit: %d", filter.Limit)
	}
	limit := filter.Limit
	if limit == 0 {
		limit = defaultQueryLimit
	}

	where, args := buildClientCountWhere(filter)
	query := fmt.Sprintf(`
	SELECT id, building, floor, room, client_count, observed_at, inserted_at
	FROM client_counts
	WHERE %s
	ORDER BY observed_at DESC, id DESC
	LIMIT ?`, where)
	args = append(args, limit)

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, query, args...)
	metrics.RecordDBQuery("select", "client_counts", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to query client counts: %w", err)
	}
	defer rows.Close()

	var readings []models.ClientCountReading
	for rows.Next() {
		var r models.ClientCountReading
		err := rows.Scan(&r.ID, &r.Building, &r.Floor, &r.Room, &r.Count, &r.ObservedAt, &r.InsertedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan client count: %w", err)
		}
		readings = append(readings, r)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating client counts: %w", err)
	}

	return readings, nil
}

// CountClientCounts returns the number of readings matching the filter,
// ignoring the limit. Used for pagination metadata.
func (db *DB) CountClientCounts(ctx context.Context, filter models.ClientCountFilter) (int, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	where, args := buildClientCountWhere(filter)
	query := fmt.Sprintf(`SELECT COUNT(*) FROM client_counts WHERE %s`, where)

	start := time.Now()
	var count int
	err := db.conn.QueryRowContext(ctx, query, args...).Scan(&count)
	metrics.RecordDBQuery("select", "client_counts", time.Since(start), err)
	if err != nil {
		return 0, fmt.Errorf("failed to count client counts: %w", err)
	}

	return count, nil
}

// ListBuildings returns the distinct buildings present in the client-count
// series, sorted ascending.
func (db *DB) ListBuildings(ctx context.Context) ([]string, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	query := `SELECT DISTINCT building FROM client_counts ORDER BY building ASC`

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, query)
	metrics.RecordDBQuery("select", "client_counts", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to list buildings: %w", err)
	}
	defer rows.Close()

	var buildings []string
	for rows.Next() {
		var b string
		if err := rows.Scan(&b); err != nil {
			return nil, fmt.Errorf("failed to scan building: %w", err)
		}
		buildings = append(buildings, b)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating buildings: %w", err)
	}

	return buildings, nil
}

// RecentBuildingSeries returns up to perBuilding of the most recent
// building-level readings (floor IS NULL) observed at or after since, per
// building, newest first within each building.
//
// The diagnostics engine analyzes building-level series only: floor-scoped
// readings for the same building would otherwise interleave with the
// building totals and distort rolling averages. Every upstream floor site
// has a parent building site reporting totals, so the building-level rows
// are always present when the building reports at all.
func (db *DB) RecentBuildingSeries(ctx context.Context, since time.Time, perBuilding int) (map[string][]models.ClientCountReading, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	if perBuilding <= 0 {
		return nil, fmt.Errorf("perBuilding must be positive, got %d", perBuilding)
	}

	query := `
	SELECT id, building, floor, room, client_count, observed_at, inserted_at
	FROM (
		SELECT id, building, floor, room, client_count, observed_at, inserted_at,
			ROW_NUMBER() OVER (PARTITION BY building ORDER BY observed_at DESC, id DESC) AS rn
		FROM client_counts
		WHERE floor IS NULL AND observed_at >= ?
	) t
	WHERE rn <= ?
	ORDER BY building ASC, observed_at DESC, id DESC`

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, query, since, perBuilding)
	metrics.RecordDBQuery("select", "client_counts", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to query building series: %w", err)
	}
	defer rows.Close()

	series := make(map[string][]models.ClientCountReading)
	for rows.Next() {
		var r models.ClientCountReading
		err := rows.Scan(&r.ID, &r.Building, &r.Floor, &r.Room, &r.Count, &r.ObservedAt, &r.InsertedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan building series row: %w", err)
		}
		series[r.Building] = append(series[r.Building], r)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating building series: %w", err)
	}

	return series, nil
}

// buildClientCountWhere builds a WHERE clause with "1=1" base for safe
// concatenation, plus the matching query arguments.
func buildClientCountWhere(filter models.ClientCountFilter) (string, []interface{}) {
	where := "1=1"
	args := []interface{}{}

	if filter.Building != "" {
		where += " AND building = ?"
		args = append(args, filter.Building)
	}
	if filter.Floor != "" {
		where += " AND floor = ?"
		args = append(args, filter.Floor)
	}
	if filter.Start != nil {
		where += " AND observed_at >= ?"
		args = append(args, *filter.Start)
	}
	if filter.End != nil {
		where += " AND observed_at < ?"
		args = append(args, *filter.End)
	}

	return where, args
}
