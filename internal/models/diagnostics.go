// Aircensus - Wireless Access Point Telemetry and Diagnostics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aircensus

package models

import "time"

// Diagnostic findings are transient: recomputed from current repository and
// tracker state on every request, never persisted.

// ZeroCountAnomaly flags a building whose client count just transitioned to
// zero from a non-zero baseline. A building that has been consistently zero
// is legitimately empty and is not flagged.
type ZeroCountAnomaly struct {
	Building string `json:"building"`

	// CurrentCount is the latest reading (always 0 for an anomaly).
	CurrentCount int `json:"current_count"`

	// PriorCount is the immediately preceding reading (always non-zero).
	PriorCount int `json:"prior_count"`

	// ObservedAt is the timestamp of the zero reading.
	ObservedAt time.Time `json:"observed_at"`
}

// Health alert severity levels.
const (
	SeverityHigh   = "high"
	SeverityMedium = "medium"
)

// HealthAlert flags a building whose latest count dropped sharply relative to
// its recent rolling average.
type HealthAlert struct {
	Building string `json:"building"`

	// CurrentCount is the latest reading.
	CurrentCount int `json:"current_count"`

	// RollingAverage is the mean of the preceding WindowSize readings,
	// excluding the latest.
	RollingAverage float64 `json:"rolling_average"`

	// WindowSize is the number of readings behind the rolling average.
	WindowSize int `json:"window_size"`

	// Severity is SeverityHigh when the rolling average exceeds 50,
	// SeverityMedium otherwise.
	Severity string `json:"severity"`

	// ObservedAt is the timestamp of the latest reading.
	ObservedAt time.Time `json:"observed_at"`
}

// APIHealthSummary aggregates the error tracker contents: total tracked
// (bounded by the ring capacity), failures within the last hour, and the most
// recent records verbatim.
type APIHealthSummary struct {
	TotalErrorsTracked int           `json:"total_errors_tracked"`
	ErrorsLastHour     int           `json:"errors_last_hour"`
	RecentErrors       []ErrorRecord `json:"recent_errors"`
}

// DiagnosticReport is the union of zero-count and health findings with a
// rolled-up summary.
type DiagnosticReport struct {
	GeneratedAt  time.Time          `json:"generated_at"`
	ZeroCounts   []ZeroCountAnomaly `json:"zero_counts"`
	HealthAlerts []HealthAlert      `json:"health_alerts"`
	Summary      ReportSummary      `json:"summary"`
}

// ReportSummary rolls up a diagnostic report.
type ReportSummary struct {
	BuildingsAnalyzed  int `json:"buildings_analyzed"`
	ZeroCountBuildings int `json:"zero_count_buildings"`
	HealthAlertCount   int `json:"health_alert_count"`
	TotalFindings      int `json:"total_findings"`
}
