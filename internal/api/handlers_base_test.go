// Aircensus - Wireless Access Point Telemetry and Diagnostics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aircensus

package api

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/tomtom215/aircensus/internal/config"
	"github.com/tomtom215/aircensus/internal/database"
	"github.com/tomtom215/aircensus/internal/models"
	"github.com/tomtom215/aircensus/internal/scheduler"
)

// =====================================================
// Shared test doubles
// =====================================================

// stubPipeline implements PipelineTrigger with canned results.
type stubPipeline struct {
	mu           sync.Mutex
	summary      models.PipelineSummary
	err          error
	status       scheduler.Status
	cycleCalls   int
	deviceCalls  int
	readingCalls int
}

func (p *stubPipeline) TriggerCycle(_ context.Context) (models.PipelineSummary, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cycleCalls++
	return p.summary, p.err
}

func (p *stubPipeline) TriggerAccessPointPhase(_ context.Context) (models.PipelineSummary, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.deviceCalls++
	return p.summary, p.err
}

func (p *stubPipeline) TriggerClientCountPhase(_ context.Context) (models.PipelineSummary, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.readingCalls++
	return p.summary, p.err
}

func (p *stubPipeline) Status() scheduler.Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

// stubDiagnostics implements DiagnosticsProvider with canned findings.
// A non-nil err is returned from every method.
type stubDiagnostics struct {
	mu         sync.Mutex
	zeroCounts []models.ZeroCountAnomaly
	alerts     []models.HealthAlert
	report     *models.DiagnosticReport
	incomplete []models.IncompleteRecord
	apiHealth  *models.APIHealthSummary
	err        error
}

func (d *stubDiagnostics) ZeroCounts(_ context.Context) ([]models.ZeroCountAnomaly, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return nil, d.err
	}
	return d.zeroCounts, nil
}

func (d *stubDiagnostics) HealthAlerts(_ context.Context) ([]models.HealthAlert, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return nil, d.err
	}
	return d.alerts, nil
}

func (d *stubDiagnostics) Report(_ context.Context) (*models.DiagnosticReport, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return nil, d.err
	}
	return d.report, nil
}

func (d *stubDiagnostics) IncompleteDevices() ([]models.IncompleteRecord, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return nil, d.err
	}
	return d.incomplete, nil
}

func (d *stubDiagnostics) APIHealth() (*models.APIHealthSummary, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return nil, d.err
	}
	return d.apiHealth, nil
}

// stubPinger implements UpstreamPinger with a fixed result.
type stubPinger struct {
	mu  sync.Mutex
	err error
}

func (p *stubPinger) Ping(_ context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

// =====================================================
// Shared test fixtures
// =====================================================

// testConfig returns a configuration suitable for handler tests.
// Rate limiting is disabled so table-driven router tests never trip it.
func testConfig() *config.Config {
	return &config.Config{
		API: config.APIConfig{
			DefaultPageSize: 100,
			MaxPageSize:     1000,
		},
		Security: config.SecurityConfig{
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: true,
		},
	}
}

// setupTestDB creates an in-memory database for handler tests.
func setupTestDB(t *testing.T) *database.DB {
	t.Helper()

	cfg := &config.DatabaseConfig{
		Path:      ":memory:",
		MaxMemory: "512MB",
	}

	db, err := database.New(cfg)
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}

	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("Failed to close test database: %v", err)
		}
	})

	return db
}

func strPtr(s string) *string {
	return &s
}

func mustParseTime(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		t.Fatalf("Failed to parse time %q: %v", value, err)
	}
	return parsed
}

// seedAccessPoints writes the given access points, defaulting LastUpdated
// to now when unset.
func seedAccessPoints(t *testing.T, db *database.DB, points []models.AccessPoint) {
	t.Helper()

	ctx := context.Background()
	for i := range points {
		if points[i].LastUpdated.IsZero() {
			points[i].LastUpdated = time.Now().UTC()
		}
		if err := db.UpsertAccessPoint(ctx, &points[i]); err != nil {
			t.Fatalf("Failed to seed access point %q: %v", points[i].Name, err)
		}
	}
}

// seedReadings appends client-count readings in order.
func seedReadings(t *testing.T, db *database.DB, readings []models.ClientCountReading) {
	t.Helper()

	ctx := context.Background()
	for i := range readings {
		if err := db.AppendClientCount(ctx, &readings[i]); err != nil {
			t.Fatalf("Failed to seed reading for %q: %v", readings[i].Building, err)
		}
	}
}

// =====================================================
// Constructor and guard tests
// =====================================================

func TestNewHandler(t *testing.T) {
	t.Parallel()

	handler := NewHandler(nil, &stubPipeline{}, &stubDiagnostics{}, &stubPinger{}, testConfig())

	if handler == nil {
		t.Fatal("NewHandler returned nil")
	}
	if handler.startTime.IsZero() {
		t.Error("Expected start time to be set")
	}
	if handler.pipeline == nil {
		t.Error("Expected pipeline to be set")
	}
	if handler.diag == nil {
		t.Error("Expected diagnostics provider to be set")
	}
}

func TestNewHandler_NilDependencies(t *testing.T) {
	t.Parallel()

	// Every dependency may be nil; endpoints degrade to 503 instead of
	// panicking, which the per-endpoint tests verify.
	handler := NewHandler(nil, nil, nil, nil, nil)

	if handler == nil {
		t.Fatal("NewHandler returned nil")
	}
	if handler.startTime.IsZero() {
		t.Error("Expected start time to be set")
	}
}

func TestHandlerUptime(t *testing.T) {
	t.Parallel()

	handler := NewHandler(nil, nil, nil, nil, nil)
	handler.startTime = time.Now().Add(-3 * time.Second)

	uptime := handler.uptime()
	if uptime < 3*time.Second {
		t.Errorf("uptime = %v, want >= 3s", uptime)
	}
}
