// Aircensus - Wireless Access Point Telemetry and Diagnostics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aircensus

// Package errtrack keeps a bounded in-memory record of recent upstream
// and persistence failures so that API health can be reported without a
// database round trip. The tracker survives for the lifetime of the
// process and is shared between the pipeline (writer) and the
// diagnostics engine (reader).
package errtrack

import (
	"sync"
	"time"

	"github.com/tomtom215/aircensus/internal/models"
)

// DefaultCapacity bounds the ring buffer. Once full, each new record
// evicts the oldest one.
const DefaultCapacity = 100

// Kinds classify tracked failures. The kind travels verbatim into the
// API health summary and into the tracked-error metrics label.
const (
	KindTransientUpstream = "transient_upstream"
	KindTerminalUpstream  = "terminal_upstream"
	KindRepositoryWrite   = "repository_write"
)

// Tracker is a fixed-capacity FIFO ring of error records. All methods
// are safe for concurrent use.
type Tracker struct {
	mu      sync.RWMutex
	records []models.ErrorRecord
	head    int // next write position
	size    int
}

// New creates a tracker with DefaultCapacity.
func New() *Tracker {
	return NewWithCapacity(DefaultCapacity)
}

// NewWithCapacity creates a tracker holding at most capacity records.
// Capacities below 1 are clamped to 1.
func NewWithCapacity(capacity int) *Tracker {
	if capacity < 1 {
		capacity = 1
	}
	return &Tracker{
		records: make([]models.ErrorRecord, capacity),
	}
}

// Record appends an error record timestamped now, evicting the oldest
// record if the tracker is at capacity.
func (t *Tracker) Record(kind, message string) {
	t.recordAt(time.Now().UTC(), kind, message)
}

// RecordError is a convenience wrapper that records err's message under
// the given kind. Nil errors are ignored.
func (t *Tracker) RecordError(kind string, err error) {
	if err == nil {
		return
	}
	t.Record(kind, err.Error())
}

func (t *Tracker) recordAt(ts time.Time, kind, message string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.records[t.head] = models.ErrorRecord{
		Timestamp: ts,
		Kind:      kind,
		Message:   message,
	}
	t.head = (t.head + 1) % len(t.records)
	if t.size < len(t.records) {
		t.size++
	}
}

// Len returns the number of records currently held.
func (t *Tracker) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.size
}

// CountSince returns how many records have a timestamp at or after
// cutoff.
func (t *Tracker) CountSince(cutoff time.Time) int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	count := 0
	for i := 0; i < t.size; i++ {
		idx := (t.head - 1 - i + len(t.records)) % len(t.records)
		if t.records[idx].Timestamp.Before(cutoff) {
			// Records are ordered by insertion time, so the first
			// older record ends the scan.
			break
		}
		count++
	}
	return count
}

// Recent returns up to n records, newest first. Records are returned
// verbatim as they were recorded. The result is never nil.
func (t *Tracker) Recent(n int) []models.ErrorRecord {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if n > t.size {
		n = t.size
	}
	out := make([]models.ErrorRecord, 0, n)
	for i := 0; i < n; i++ {
		idx := (t.head - 1 - i + len(t.records)) % len(t.records)
		out = append(out, t.records[idx])
	}
	return out
}

// Snapshot returns a copy of all held records, oldest first.
func (t *Tracker) Snapshot() []models.ErrorRecord {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]models.ErrorRecord, 0, t.size)
	for i := 0; i < t.size; i++ {
		idx := (t.head - t.size + i + len(t.records)) % len(t.records)
		out = append(out, t.records[idx])
	}
	return out
}
