// Aircensus - Wireless Access Point Telemetry and Diagnostics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aircensus

package models

import "time"

// ClientCountReading is one point in the append-only client-count time
// series stored in the client_counts table.
//
// Readings are immutable once written: each fetch cycle appends new rows and
// nothing in the application updates or deletes them (retention is an
// external job). ObservedAt is the upstream observation time; InsertedAt is
// when the row was written, and the two are kept distinct.
type ClientCountReading struct {
	// ID is the auto-increment storage key (0 until written).
	ID int64 `json:"id"`

	// Building is the source building label. Always present.
	Building string `json:"building"`

	// Floor and Room narrow the reading below building level when the
	// location hierarchy resolved that deep.
	Floor *string `json:"floor,omitempty"`
	Room  *string `json:"room,omitempty"`

	// Count is the observed client count. Never negative.
	Count int `json:"count"`

	// ObservedAt is when the upstream controller observed the count.
	ObservedAt time.Time `json:"observed_at"`

	// InsertedAt is when the reading was written to storage.
	InsertedAt time.Time `json:"inserted_at"`
}

// ClientCountFilter restricts QueryClientCounts results. All predicates are
// optional and conjunctive; zero values mean "no restriction".
type ClientCountFilter struct {
	Building string
	Floor    string

	// Start and End bound ObservedAt (inclusive start, exclusive end).
	Start *time.Time
	End   *time.Time

	// Limit caps the result size (0 = repository default). Negative values
	// are a programming error and rejected by the repository.
	Limit int
}
