// Aircensus - Wireless Access Point Telemetry and Diagnostics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aircensus

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/aircensus/internal/metrics"
	"github.com/tomtom215/aircensus/internal/models"
)

// defaultQueryLimit caps result sizes when the caller does not set a limit.
const defaultQueryLimit = 1000

const upsertAccessPointQuery = `INSERT INTO access_points (
	name, status, client_count, mac_address, model, ip_address,
	building, floor, room, last_updated
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (name) DO UPDATE SET
	status = EXCLUDED.status,
	client_count = EXCLUDED.client_count,
	mac_address = EXCLUDED.mac_address,
	model = EXCLUDED.model,
	ip_address = EXCLUDED.ip_address,
	building = EXCLUDED.building,
	floor = EXCLUDED.floor,
	room = EXCLUDED.room,
	last_updated = EXCLUDED.last_updated`

// UpsertAccessPoint writes an access point, replacing the existing row with
// the same device name or inserting if absent.
//
// The device name is the natural key: re-fetching the same device always
// updates in place and never duplicates the row. Rows are never deleted by
// the application; retention is an external job.
//
// Uses DuckDB-native INSERT ... ON CONFLICT DO UPDATE so insert-vs-update is
// a single atomic statement with no read-before-write race.
func (db *DB) UpsertAccessPoint(ctx context.Context, ap *models.AccessPoint) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	if ap.LastUpdated.IsZero() {
		ap.LastUpdated = time.Now().UTC()
	}

	stmt, err := db.getStmt(ctx, upsertAccessPointQuery)
	if err != nil {
		return err
	}

	start := time.Now()
	_, err = stmt.ExecContext(ctx,
		ap.Name, ap.Status, ap.ClientCount, ap.MACAddress, ap.Model,
		ap.IPAddress, ap.Building, ap.Floor, ap.Room, ap.LastUpdated,
	)
	metrics.RecordDBQuery("upsert", "access_points", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("failed to upsert access point %s: %w", ap.Name, err)
	}

	return nil
}

// GetAccessPoint retrieves a single access point by device name.
// Returns (nil, nil) when no row exists.
func (db *DB) GetAccessPoint(ctx context.Context, name string) (*models.AccessPoint, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	query := `
	SELECT name, status, client_count, mac_address, model, ip_address,
		building, floor, room, last_updated
	FROM access_points
	WHERE name = ?`

	start := time.Now()
	var ap models.AccessPoint
	err := db.conn.QueryRowContext(ctx, query, name).Scan(
		&ap.Name, &ap.Status, &ap.ClientCount, &ap.MACAddress, &ap.Model,
		&ap.IPAddress, &ap.Building, &ap.Floor, &ap.Room, &ap.LastUpdated,
	)
	metrics.RecordDBQuery("select", "access_points", time.Since(start), err)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get access point %s: %w", name, err)
	}

	return &ap, nil
}

// QueryAccessPoints retrieves access points matching the filter, ordered by
// device name for deterministic pagination.
//
// All filter predicates are optional and conjunctive. A zero Limit applies
// the repository default; negative limits are rejected as a programming
// error.
func (db *DB) QueryAccessPoints(ctx context.Context, filter models.AccessPointFilter) ([]models.AccessPoint, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	if filter.Limit < 0 || filter.Offset < 0 {
		return nil, fmt.Errorf("negative limit or offset: limit=%d offset=%d", filter.Limit, filter.Offset)
	}
	limit := filter.Limit
	if limit == 0 {
		limit = defaultQueryLimit
	}

	where, args := buildAccessPointWhere(filter)
	query := fmt.Sprintf(`
	SELECT name, status, client_count, mac_address, model, ip_address,
		building, floor, room, last_updated
	FROM access_points
	WHERE %s
	ORDER BY name ASC
	LIMIT ? OFFSET ?`, where)
	args = append(args, limit, filter.Offset)

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, query, args...)
	metrics.RecordDBQuery("select", "access_points", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to query access points: %w", err)
	}
	defer rows.Close()

	var aps []models.AccessPoint
	for rows.Next() {
		var ap models.AccessPoint
		err := rows.Scan(
			&ap.Name, &ap.Status, &ap.ClientCount, &ap.MACAddress, &ap.Model,
			&ap.IPAddress, &ap.Building, &ap.Floor, &ap.Room, &ap.LastUpdated,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan access point: %w", err)
		}
		aps = append(aps, ap)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating access points: %w", err)
	}

	return aps, nil
}

// CountAccessPoints returns the number of access points matching the filter,
// ignoring limit and offset. Used for pagination metadata.
func (db *DB) CountAccessPoints(ctx context.Context, filter models.AccessPointFilter) (int, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	where, args := buildAccessPointWhere(filter)
	query := fmt.Sprintf(`SELECT COUNT(*) FROM access_points WHERE %s`, where)

	start := time.Now()
	var count int
	err := db.conn.QueryRowContext(ctx, query, args...).Scan(&count)
	metrics.RecordDBQuery("select", "access_points", time.Since(start), err)
	if err != nil {
		return 0, fmt.Errorf("failed to count access points: %w", err)
	}

	return count, nil
}

// buildAccessPointWhere builds a WHERE clause with "1=1" base for safe
// concatenation, plus the matching query arguments.
func buildAccessPointWhere(filter models.AccessPointFilter) (string, []interface{}) {
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
	if filter.Status != "" {
		where += " AND status = ?"
		args = append(args, filter.Status)
	}

	return where, args
}
