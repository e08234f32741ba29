// Aircensus - Wireless Access Point Telemetry and Diagnostics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aircensus

// Package diagnostics computes read-only analyses over the stored
// client-count series, the incomplete-record list, and the error
// tracker. Findings are recomputed from current state on every request
// and never persisted; the engine holds no state of its own beyond its
// configuration.
package diagnostics

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/tomtom215/aircensus/internal/config"
	"github.com/tomtom215/aircensus/internal/logging"
	"github.com/tomtom215/aircensus/internal/models"
)

// ErrDiagnosticsDisabled is returned by every analysis when the surface
// is switched off. Surfaced as HTTP 403.
var ErrDiagnosticsDisabled = errors.New("diagnostics are not enabled")

// recentErrorLimit caps the verbatim records in the API health summary.
const recentErrorLimit = 10

// severityCutoff is the rolling average above which a drop is "high"
// rather than "medium" severity.
const severityCutoff = 50

// Store is the repository slice the engine reads.
// Implemented by database.DB.
type Store interface {
	RecentBuildingSeries(ctx context.Context, since time.Time, perBuilding int) (map[string][]models.ClientCountReading, error)
}

// IncompleteSource lists the records that failed normalization since the
// last clean cycle. Implemented by pipeline.Pipeline.
type IncompleteSource interface {
	IncompleteRecords() []models.IncompleteRecord
}

// Tracker is the error-ring slice behind the API health summary.
// Implemented by errtrack.Tracker.
type Tracker interface {
	Len() int
	CountSince(cutoff time.Time) int
	Recent(n int) []models.ErrorRecord
}

// Engine runs the diagnostic analyses. All methods are pure reads, safe
// for concurrent use, and tolerate an empty dataset: no data means no
// findings, never an error.
type Engine struct {
	store      Store
	incomplete IncompleteSource
	tracker    Tracker

	enabled   bool
	lookback  time.Duration
	window    int
	threshold float64
	baseline  int
}

// New creates an engine with the given diagnostics settings.
func New(store Store, incomplete IncompleteSource, tracker Tracker, cfg *config.DiagnosticsConfig) *Engine {
	lookback := cfg.ZeroCountLookback
	if lookback <= 0 {
		lookback = 24 * time.Hour
	}
	window := cfg.HealthWindow
	if window <= 0 {
		window = 12
	}
	threshold := cfg.HealthThreshold
	if threshold <= 0 {
		threshold = 0.5
	}
	baseline := cfg.MinBaseline
	if baseline <= 0 {
		baseline = 10
	}

	return &Engine{
		store:      store,
		incomplete: incomplete,
		tracker:    tracker,
		enabled:    cfg.Enabled,
		lookback:   lookback,
		window:     window,
		threshold:  threshold,
		baseline:   baseline,
	}
}

// ZeroCounts flags buildings whose latest reading is zero while the
// immediately preceding one was not. A building that has been zero all
// along is legitimately empty and stays unflagged.
func (e *Engine) ZeroCounts(ctx context.Context) ([]models.ZeroCountAnomaly, error) {
	if !e.enabled {
		return nil, ErrDiagnosticsDisabled
	}

	series, err := e.series(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load building series: %w", err)
	}
	return e.zeroCountsFrom(series), nil
}

// HealthAlerts flags buildings whose latest reading fell below the
// threshold fraction of their rolling average. Buildings averaging under
// the minimum baseline are too quiet to alert on.
func (e *Engine) HealthAlerts(ctx context.Context) ([]models.HealthAlert, error) {
	if !e.enabled {
		return nil, ErrDiagnosticsDisabled
	}

	series, err := e.series(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load building series: %w", err)
	}
	return e.healthAlertsFrom(series), nil
}

// Report runs both count analyses over a single series snapshot and
// rolls them up.
func (e *Engine) Report(ctx context.Context) (*models.DiagnosticReport, error) {
	if !e.enabled {
		return nil, ErrDiagnosticsDisabled
	}

	series, err := e.series(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load building series: %w", err)
	}

	zeroCounts := e.zeroCountsFrom(series)
	alerts := e.healthAlertsFrom(series)

	report := &models.DiagnosticReport{
		GeneratedAt:  time.Now().UTC(),
		ZeroCounts:   zeroCounts,
		HealthAlerts: alerts,
		Summary: models.ReportSummary{
			BuildingsAnalyzed:  len(series),
			ZeroCountBuildings: len(zeroCounts),
			HealthAlertCount:   len(alerts),
			TotalFindings:      len(zeroCounts) + len(alerts),
		},
	}

	logging.Debug().
		Int("buildings", report.Summary.BuildingsAnalyzed).
		Int("findings", report.Summary.TotalFindings).
		Msg("Diagnostic report generated")
	return report, nil
}

// IncompleteDevices lists the normalization failures retained since the
// last clean cycle.
func (e *Engine) IncompleteDevices() ([]models.IncompleteRecord, error) {
	if !e.enabled {
		return nil, ErrDiagnosticsDisabled
	}

	records := e.incomplete.IncompleteRecords()
	if records == nil {
		records = []models.IncompleteRecord{}
	}
	return records, nil
}

// APIHealth summarizes the error tracker: total held, failures within
// the last hour, and the newest records verbatim.
func (e *Engine) APIHealth() (*models.APIHealthSummary, error) {
	if !e.enabled {
		return nil, ErrDiagnosticsDisabled
	}

	return &models.APIHealthSummary{
		TotalErrorsTracked: e.tracker.Len(),
		ErrorsLastHour:     e.tracker.CountSince(time.Now().Add(-time.Hour)),
		RecentErrors:       e.tracker.Recent(recentErrorLimit),
	}, nil
}

// series loads the newest readings per building: one latest plus a full
// rolling window behind it.
func (e *Engine) series(ctx context.Context) (map[string][]models.ClientCountReading, error) {
	since := time.Now().Add(-e.lookback)
	return e.store.RecentBuildingSeries(ctx, since, e.window+1)
}

func (e *Engine) zeroCountsFrom(series map[string][]models.ClientCountReading) []models.ZeroCountAnomaly {
	anomalies := make([]models.ZeroCountAnomaly, 0)
	for building, readings := range series {
		// A transition needs a latest and a prior reading.
		if len(readings) < 2 {
			continue
		}
		latest, prior := readings[0], readings[1]
		if latest.Count != 0 || prior.Count == 0 {
			continue
		}
		anomalies = append(anomalies, models.ZeroCountAnomaly{
			Building:     building,
			CurrentCount: latest.Count,
			PriorCount:   prior.Count,
			ObservedAt:   latest.ObservedAt,
		})
	}

	// Map iteration is random; sort so repeated requests render identically.
	sort.Slice(anomalies, func(i, j int) bool {
		return anomalies[i].Building < anomalies[j].Building
	})
	return anomalies
}

func (e *Engine) healthAlertsFrom(series map[string][]models.ClientCountReading) []models.HealthAlert {
	alerts := make([]models.HealthAlert, 0)
	for building, readings := range series {
		if len(readings) < 2 {
			continue
		}

		latest := readings[0]
		window := readings[1:]
		if len(window) > e.window {
			window = window[:e.window]
		}

		sum := 0
		for _, r := range window {
			sum += r.Count
		}
		avg := float64(sum) / float64(len(window))

		if avg < float64(e.baseline) {
			continue
		}
		if float64(latest.Count) >= e.threshold*avg {
			continue
		}

		severity := models.SeverityMedium
		if avg > severityCutoff {
			severity = models.SeverityHigh
		}
		alerts = append(alerts, models.HealthAlert{
			Building:       building,
			CurrentCount:   latest.Count,
			RollingAverage: math.Round(avg*100) / 100,
			WindowSize:     len(window),
			Severity:       severity,
			ObservedAt:     latest.ObservedAt,
		})
	}

	sort.Slice(alerts, func(i, j int) bool {
		return alerts[i].Building < alerts[j].Building
	})
	return alerts
}
