// Aircensus - Wireless Access Point Telemetry and Diagnostics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aircensus

package models

import "time"

// PipelineSummary reports the outcome of one fetch cycle (or one phase when
// triggered individually).
//
// The pipeline always returns a summary for expected upstream and storage
// failures instead of an error; Failed counts the phases and writes that were
// abandoned, and the same failures appear in the error tracker.
type PipelineSummary struct {
	// CycleID is the short correlation ID stamped on the cycle's log lines.
	CycleID string `json:"cycle_id"`

	// Upserted is the number of access points written (insert or update).
	Upserted int `json:"upserted"`

	// Appended is the number of client-count readings appended.
	Appended int `json:"appended"`

	// Incomplete is the number of records that failed normalization and were
	// routed to the incomplete-records list.
	Incomplete int `json:"incomplete"`

	// Failed counts abandoned fetches and failed writes.
	Failed int `json:"failed"`

	StartedAt  time.Time `json:"started_at"`
	DurationMs int64     `json:"duration_ms"`
}

// Add merges a phase summary into a cycle summary.
func (s *PipelineSummary) Add(phase PipelineSummary) {
	s.Upserted += phase.Upserted
	s.Appended += phase.Appended
	s.Incomplete += phase.Incomplete
	s.Failed += phase.Failed
}

// ErrorRecord is one tracked upstream or storage failure.
//
// Records live only in the in-memory ring buffer (capacity 100); they are
// never persisted and are lost on restart. That is a deliberate property of
// the tracker, not an oversight.
type ErrorRecord struct {
	// Timestamp is when the failure was recorded.
	Timestamp time.Time `json:"timestamp"`

	// Kind is the classification string, e.g. "transient_upstream",
	// "terminal_upstream", "repository_write".
	Kind string `json:"type"`

	// Message is the error text verbatim.
	Message string `json:"message"`
}

// IncompleteRecord is a raw record that failed normalization: missing a
// required field or carrying an unresolvable location. Tracked for the
// diagnostics surface rather than silently dropped.
type IncompleteRecord struct {
	// Source is "device" or "reading".
	Source string `json:"source"`

	// Label identifies the record as well as possible: device name, MAC, or
	// site label, whichever was present.
	Label string `json:"label"`

	// Reason names the missing field or parse failure.
	Reason string `json:"reason"`

	Timestamp time.Time `json:"timestamp"`
}
