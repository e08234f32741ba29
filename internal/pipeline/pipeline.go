// Aircensus - Wireless Access Point Telemetry and Diagnostics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aircensus

// Package pipeline orchestrates one fetch cycle: pull raw telemetry from
// the controller, normalize it, and write it through the repository.
//
// A cycle is two independent phases. The device phase upserts access
// points by name; the count phase appends client-count readings. A lost
// device phase never costs the count phase its readings. Expected
// upstream and storage failures are folded into the returned summary
// (and the error tracker) rather than raised: the scheduler treats every
// cycle as having completed and reads the summary to see how well.
package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/tomtom215/aircensus/internal/errtrack"
	"github.com/tomtom215/aircensus/internal/logging"
	"github.com/tomtom215/aircensus/internal/metrics"
	"github.com/tomtom215/aircensus/internal/models"
	"github.com/tomtom215/aircensus/internal/normalize"
)

// Fetcher is the controller-facing slice of the telemetry client used by
// the pipeline phases. Implemented by telemetry.CircuitBreakerClient.
type Fetcher interface {
	FetchAccessPoints(ctx context.Context) ([]models.RawDevice, error)
	FetchClientCounts(ctx context.Context) ([]models.RawSiteCount, error)
}

// Store is the repository slice the pipeline writes through.
// Implemented by database.DB.
type Store interface {
	UpsertAccessPoint(ctx context.Context, ap *models.AccessPoint) error
	AppendClientCount(ctx context.Context, reading *models.ClientCountReading) error
}

// Pipeline runs fetch cycles and holds the incomplete-record list between
// them.
//
// Run and the two phase triggers are serialized by the scheduler (one
// cycle at a time); only the incomplete-record list is read concurrently,
// by the diagnostics surface, and it is guarded here.
type Pipeline struct {
	client  Fetcher
	store   Store
	tracker *errtrack.Tracker

	mu         sync.Mutex
	incomplete []models.IncompleteRecord
}

// New creates a pipeline over the given client, store, and error tracker.
func New(client Fetcher, store Store, tracker *errtrack.Tracker) *Pipeline {
	return &Pipeline{
		client:  client,
		store:   store,
		tracker: tracker,
	}
}

// Run executes one full fetch cycle and returns its summary. It never
// returns an error: abandoned phases and failed writes are counted in
// Failed and recorded in the error tracker.
func (p *Pipeline) Run(ctx context.Context) models.PipelineSummary {
	ctx = logging.ContextWithNewCorrelationID(ctx)
	start := time.Now()

	metrics.PipelineRunning.Set(1)
	defer metrics.PipelineRunning.Set(0)

	summary := models.PipelineSummary{
		CycleID:   logging.CorrelationIDFromContext(ctx),
		StartedAt: start,
	}
	logging.Ctx(ctx).Info().Msg("Fetch cycle starting")

	deviceSummary, deviceIncomplete := p.devicePhase(ctx)
	summary.Add(deviceSummary)

	countSummary, countIncomplete := p.countPhase(ctx)
	summary.Add(countSummary)

	p.retainIncomplete(append(deviceIncomplete, countIncomplete...), summary.Failed == 0)

	summary.DurationMs = time.Since(start).Milliseconds()
	metrics.RecordCycle(cycleResult(summary))

	logging.Ctx(ctx).Info().
		Int("upserted", summary.Upserted).
		Int("appended", summary.Appended).
		Int("incomplete", summary.Incomplete).
		Int("failed", summary.Failed).
		Int64("duration_ms", summary.DurationMs).
		Msg("Fetch cycle completed")
	return summary
}

// RunAccessPointPhase executes only the device phase, for the manual
// trigger endpoint. Its incomplete records accumulate onto the held list;
// a single phase never supersedes it the way a clean full cycle does.
func (p *Pipeline) RunAccessPointPhase(ctx context.Context) models.PipelineSummary {
	return p.runPhase(ctx, p.devicePhase)
}

// RunClientCountPhase executes only the count phase, for the manual
// trigger endpoint.
func (p *Pipeline) RunClientCountPhase(ctx context.Context) models.PipelineSummary {
	return p.runPhase(ctx, p.countPhase)
}

// IncompleteRecords returns a snapshot of the records that failed
// normalization since the last clean full cycle (or process start).
func (p *Pipeline) IncompleteRecords() []models.IncompleteRecord {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]models.IncompleteRecord, len(p.incomplete))
	copy(out, p.incomplete)
	return out
}

func (p *Pipeline) runPhase(ctx context.Context, phase func(context.Context) (models.PipelineSummary, []models.IncompleteRecord)) models.PipelineSummary {
	ctx = logging.ContextWithNewCorrelationID(ctx)
	start := time.Now()

	metrics.PipelineRunning.Set(1)
	defer metrics.PipelineRunning.Set(0)

	summary, incomplete := phase(ctx)
	summary.CycleID = logging.CorrelationIDFromContext(ctx)
	summary.StartedAt = start
	summary.DurationMs = time.Since(start).Milliseconds()

	p.retainIncomplete(incomplete, false)
	return summary
}

// devicePhase fetches the device collection, normalizes each record, and
// upserts the complete ones. A fetch failure abandons the phase before
// any write; a write failure abandons it mid-way, leaving the rows
// already upserted in place.
func (p *Pipeline) devicePhase(ctx context.Context) (models.PipelineSummary, []models.IncompleteRecord) {
	start := time.Now()
	var summary models.PipelineSummary
	var incomplete []models.IncompleteRecord

	defer func() {
		metrics.RecordPhase("devices", time.Since(start), summary.Upserted, summary.Appended, summary.Incomplete, summary.Failed)
	}()

	devices, err := p.client.FetchAccessPoints(ctx)
	if err != nil {
		summary.Failed++
		logging.Ctx(ctx).Error().Err(err).Msg("Device phase abandoned: fetch failed")
		return summary, nil
	}

	now := time.Now().UTC()
	for i := range devices {
		ap, inc := normalize.Device(devices[i], now)
		if inc != nil {
			summary.Incomplete++
			incomplete = append(incomplete, *inc)
			continue
		}
		if err := p.store.UpsertAccessPoint(ctx, ap); err != nil {
			summary.Failed++
			p.trackWriteFailure(ctx, "access point upsert", err)
			break
		}
		summary.Upserted++
	}

	logging.Ctx(ctx).Info().
		Int("fetched", len(devices)).
		Int("upserted", summary.Upserted).
		Int("incomplete", summary.Incomplete).
		Msg("Device phase completed")
	return summary, incomplete
}

// countPhase fetches the site-health collection, drops the campus and
// area aggregates, and appends one reading per building or floor row.
// All rows in one phase share a single observation timestamp.
func (p *Pipeline) countPhase(ctx context.Context) (models.PipelineSummary, []models.IncompleteRecord) {
	start := time.Now()
	var summary models.PipelineSummary
	var incomplete []models.IncompleteRecord

	defer func() {
		metrics.RecordPhase("counts", time.Since(start), summary.Upserted, summary.Appended, summary.Incomplete, summary.Failed)
	}()

	sites, err := p.client.FetchClientCounts(ctx)
	if err != nil {
		summary.Failed++
		logging.Ctx(ctx).Error().Err(err).Msg("Count phase abandoned: fetch failed")
		return summary, nil
	}

	observed := time.Now().UTC()
	skipped := 0
	for i := range sites {
		if !normalize.RelevantSite(sites[i]) {
			skipped++
			continue
		}
		reading, inc := normalize.Count(sites[i], observed)
		if inc != nil {
			summary.Incomplete++
			incomplete = append(incomplete, *inc)
			continue
		}
		if err := p.store.AppendClientCount(ctx, reading); err != nil {
			summary.Failed++
			p.trackWriteFailure(ctx, "client count append", err)
			break
		}
		summary.Appended++
	}

	logging.Ctx(ctx).Info().
		Int("fetched", len(sites)).
		Int("appended", summary.Appended).
		Int("skipped_aggregates", skipped).
		Int("incomplete", summary.Incomplete).
		Msg("Count phase completed")
	return summary, incomplete
}

// retainIncomplete updates the held incomplete-record list. A clean full
// cycle supersedes everything seen before it; a degraded cycle or a
// single phase appends, because the older records are still unexplained.
func (p *Pipeline) retainIncomplete(records []models.IncompleteRecord, supersede bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if supersede {
		p.incomplete = records
		return
	}
	p.incomplete = append(p.incomplete, records...)
}

// trackWriteFailure records a repository write failure. Fetch failures
// are recorded by the telemetry client itself; writes are the pipeline's
// own failure domain.
func (p *Pipeline) trackWriteFailure(ctx context.Context, op string, err error) {
	p.tracker.Record(errtrack.KindRepositoryWrite, op+": "+err.Error())
	metrics.RecordTrackedError(errtrack.KindRepositoryWrite)
	logging.Ctx(ctx).Error().Err(err).Str("operation", op).Msg("Repository write failed, abandoning phase")
}

func cycleResult(summary models.PipelineSummary) string {
	switch {
	case summary.Failed == 0:
		return "success"
	case summary.Upserted+summary.Appended > 0:
		return "partial"
	default:
		return "failed"
	}
}
