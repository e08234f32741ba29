// Aircensus - Wireless Access Point Telemetry and Diagnostics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aircensus

// Package scheduler drives the pipeline on a fixed interval and exposes
// the manual trigger surface. One cycle runs at a time: a trigger that
// arrives while a cycle is in flight is rejected with ErrCycleInProgress
// rather than queued, and a scheduled tick that lands during a manual
// cycle is skipped. That guard is the system's single writer lock.
package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/tomtom215/aircensus/internal/config"
	"github.com/tomtom215/aircensus/internal/logging"
	"github.com/tomtom215/aircensus/internal/models"
)

var (
	// ErrCycleInProgress is returned when a trigger arrives while a cycle
	// is already running. Surfaced as HTTP 409.
	ErrCycleInProgress = errors.New("a fetch cycle is already in progress")

	// ErrAlreadyRunning is returned by Start on a started scheduler.
	ErrAlreadyRunning = errors.New("scheduler is already running")

	// ErrNotRunning is returned by Stop on a stopped scheduler.
	ErrNotRunning = errors.New("scheduler is not running")
)

// Scheduler states as reported by Status.
const (
	StateIdle    = "IDLE"
	StateRunning = "RUNNING"
)

const (
	defaultInterval     = 5 * time.Minute
	defaultPhaseTimeout = 2 * time.Minute
)

// Runner is the pipeline slice the scheduler drives.
// Implemented by pipeline.Pipeline.
type Runner interface {
	Run(ctx context.Context) models.PipelineSummary
	RunAccessPointPhase(ctx context.Context) models.PipelineSummary
	RunClientCountPhase(ctx context.Context) models.PipelineSummary
}

// Status is the cycle state exposed on the sync status endpoint.
type Status struct {
	State       string                  `json:"state"`
	LastRun     *time.Time              `json:"last_run,omitempty"`
	LastSummary *models.PipelineSummary `json:"last_summary,omitempty"`
}

// Scheduler owns the periodic fetch loop and the one-cycle-at-a-time
// invariant. Manual triggers work whether or not the loop has been
// started; Start only adds the ticker.
type Scheduler struct {
	pipeline     Runner
	interval     time.Duration
	align        bool
	phaseTimeout time.Duration

	mu          sync.Mutex
	running     bool
	cycleActive bool
	lastRun     time.Time
	lastSummary *models.PipelineSummary
	stopChan    chan struct{}

	wg sync.WaitGroup
}

// New creates a scheduler over the pipeline with the given poll settings.
func New(p Runner, cfg *config.PollConfig) *Scheduler {
	interval := cfg.Interval
	if interval <= 0 {
		interval = defaultInterval
	}
	phaseTimeout := cfg.PhaseTimeout
	if phaseTimeout <= 0 {
		phaseTimeout = defaultPhaseTimeout
	}

	return &Scheduler{
		pipeline:     p,
		interval:     interval,
		align:        cfg.Align,
		phaseTimeout: phaseTimeout,
	}
}

// Start launches the periodic loop. The first cycle runs immediately
// unless alignment is enabled, in which case it waits for the next
// wall-clock minute ending in 1 or 6.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return ErrAlreadyRunning
	}
	s.running = true
	s.stopChan = make(chan struct{})
	s.mu.Unlock()

	logging.Info().
		Dur("interval", s.interval).
		Bool("align", s.align).
		Msg("Starting scheduler")

	s.wg.Add(1)
	go s.loop(ctx)
	return nil
}

// Stop halts future ticks and waits for an in-flight cycle to finish.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return ErrNotRunning
	}
	s.running = false
	stopChan := s.stopChan
	s.mu.Unlock()

	logging.Info().Msg("Stopping scheduler...")
	close(stopChan)
	s.wg.Wait()
	logging.Info().Msg("Scheduler stopped")
	return nil
}

// TriggerCycle runs one full fetch cycle now. Returns ErrCycleInProgress
// if any cycle, scheduled or manual, is already running.
func (s *Scheduler) TriggerCycle(ctx context.Context) (models.PipelineSummary, error) {
	return s.runGuarded(ctx, 2*s.phaseTimeout, s.pipeline.Run)
}

// TriggerAccessPointPhase runs only the device phase now.
func (s *Scheduler) TriggerAccessPointPhase(ctx context.Context) (models.PipelineSummary, error) {
	return s.runGuarded(ctx, s.phaseTimeout, s.pipeline.RunAccessPointPhase)
}

// TriggerClientCountPhase runs only the count phase now.
func (s *Scheduler) TriggerClientCountPhase(ctx context.Context) (models.PipelineSummary, error) {
	return s.runGuarded(ctx, s.phaseTimeout, s.pipeline.RunClientCountPhase)
}

// Status reports the current cycle state and the outcome of the last run.
func (s *Scheduler) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := Status{State: StateIdle}
	if s.cycleActive {
		status.State = StateRunning
	}
	if !s.lastRun.IsZero() {
		lastRun := s.lastRun
		status.LastRun = &lastRun
	}
	if s.lastSummary != nil {
		summary := *s.lastSummary
		status.LastSummary = &summary
	}
	return status
}

func (s *Scheduler) loop(ctx context.Context) {
	defer s.wg.Done()

	if s.align {
		delay := alignDelay(time.Now())
		logging.Info().Dur("delay", delay).Msg("Aligning first cycle to the controller reporting cadence")
		select {
		case <-ctx.Done():
			return
		case <-s.stopChan:
			return
		case <-time.After(delay):
		}
	}

	s.runScheduled(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.runScheduled(ctx)
		}
	}
}

func (s *Scheduler) runScheduled(ctx context.Context) {
	if _, err := s.runGuarded(ctx, 2*s.phaseTimeout, s.pipeline.Run); err != nil {
		// A manual trigger is mid-flight; this tick's data arrives with
		// the next one.
		logging.Warn().Err(err).Msg("Scheduled cycle skipped")
	}
}

// runGuarded is the one-at-a-time gate every cycle passes through. The
// timeout bounds the whole cycle; the pipeline reports cancellation as a
// failed phase in the summary, not as an error here.
func (s *Scheduler) runGuarded(ctx context.Context, timeout time.Duration, run func(context.Context) models.PipelineSummary) (models.PipelineSummary, error) {
	s.mu.Lock()
	if s.cycleActive {
		s.mu.Unlock()
		return models.PipelineSummary{}, ErrCycleInProgress
	}
	s.cycleActive = true
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	started := time.Now()
	summary := run(ctx)

	s.mu.Lock()
	s.cycleActive = false
	s.lastRun = started
	s.lastSummary = &summary
	s.mu.Unlock()

	return summary, nil
}

// alignDelay computes the wait until the next minute boundary satisfying
// minute % 5 == 1 (":01, :06, :11 ..."). The controller aggregates site
// health on five-minute boundaries; polling one minute after each
// boundary reads fresh aggregates instead of racing them.
func alignDelay(now time.Time) time.Duration {
	next := now.Truncate(time.Minute)
	for !next.After(now) || next.Minute()%5 != 1 {
		next = next.Add(time.Minute)
	}
	return next.Sub(now)
}
