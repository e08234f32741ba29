// Aircensus - Wireless Access Point Telemetry and Diagnostics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aircensus

package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/tomtom215/aircensus/internal/models"
	"github.com/tomtom215/aircensus/internal/scheduler"
)

// newTestRouter builds the full HTTP surface around stub dependencies.
// The database is nil, so data endpoints answer 503; that still proves
// the route and middleware wiring.
func newTestRouter(pipeline PipelineTrigger, diag DiagnosticsProvider) http.Handler {
	handler := NewHandler(nil, pipeline, diag, &stubPinger{}, testConfig())
	return NewRouter(handler, testConfig()).Setup()
}

func TestRouterSetup_Routes(t *testing.T) {
	router := newTestRouter(
		&stubPipeline{status: scheduler.Status{State: scheduler.StateIdle}},
		&stubDiagnostics{report: &models.DiagnosticReport{}},
	)

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/api/v1/health/live", http.StatusOK},
		{http.MethodGet, "/api/v1/health", http.StatusOK},
		{http.MethodGet, "/api/v1/health/ready", http.StatusServiceUnavailable},
		{http.MethodPost, "/api/v1/sync", http.StatusOK},
		{http.MethodPost, "/api/v1/sync/access-points", http.StatusOK},
		{http.MethodPost, "/api/v1/sync/client-counts", http.StatusOK},
		{http.MethodGet, "/api/v1/sync/status", http.StatusOK},
		{http.MethodGet, "/api/v1/access-points", http.StatusServiceUnavailable},
		{http.MethodGet, "/api/v1/client-counts", http.StatusServiceUnavailable},
		{http.MethodGet, "/api/v1/buildings", http.StatusServiceUnavailable},
		{http.MethodGet, "/api/v1/diagnostics/zero-counts", http.StatusOK},
		{http.MethodGet, "/api/v1/diagnostics/health-alerts", http.StatusOK},
		{http.MethodGet, "/api/v1/diagnostics/report", http.StatusOK},
		{http.MethodGet, "/api/v1/diagnostics/incomplete-devices", http.StatusOK},
		{http.MethodGet, "/api/v1/diagnostics/api-health", http.StatusOK},
		{http.MethodGet, "/metrics", http.StatusOK},
		{http.MethodGet, "/api/v1/unknown", http.StatusNotFound},
		{http.MethodDelete, "/api/v1/sync", http.StatusMethodNotAllowed},
		{http.MethodPost, "/api/v1/access-points", http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.want {
				t.Errorf("%s %s: status = %d, want %d", tt.method, tt.path, w.Code, tt.want)
			}
		})
	}
}

func TestRouterSetup_SyncConflictThroughStack(t *testing.T) {
	router := newTestRouter(
		&stubPipeline{err: scheduler.ErrCycleInProgress},
		&stubDiagnostics{},
	)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sync", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Fatalf("Status = %d, want %d", w.Code, http.StatusConflict)
	}

	var response APIResponse
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	if response.Error == nil || response.Error.Code != ErrCodeConflict {
		t.Errorf("Expected error code %s, got %+v", ErrCodeConflict, response.Error)
	}
	// The global middleware stamps a request ID the envelope must echo.
	if response.Error != nil && response.Error.RequestID == "" {
		t.Error("Expected the error to carry a request ID")
	}
}

func TestRouterSetup_RequestIDFlows(t *testing.T) {
	router := newTestRouter(&stubPipeline{}, &stubDiagnostics{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health/live", nil)
	req.Header.Set("X-Request-ID", "edge-proxy-7")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var response APIResponse
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	if response.Meta == nil || response.Meta.RequestID != "edge-proxy-7" {
		t.Errorf("Meta.RequestID = %v, want edge-proxy-7", response.Meta)
	}
}

func TestRouterSetup_SecurityHeaders(t *testing.T) {
	router := newTestRouter(&stubPipeline{}, &stubDiagnostics{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health/live", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if got := w.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q, want nosniff", got)
	}
	if got := w.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Errorf("X-Frame-Options = %q, want DENY", got)
	}
}

func TestRouterSetup_MetricsEndpoint(t *testing.T) {
	router := newTestRouter(&stubPipeline{}, &stubDiagnostics{})

	// Serve one API request first so at least one counter exists.
	seed := httptest.NewRequest(http.MethodGet, "/api/v1/sync/status", nil)
	router.ServeHTTP(httptest.NewRecorder(), seed)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Status = %d, want %d", w.Code, http.StatusOK)
	}

	contentType := w.Header().Get("Content-Type")
	if !strings.Contains(contentType, "text/plain") {
		t.Errorf("Content-Type = %q, want Prometheus text exposition", contentType)
	}
	if w.Body.Len() == 0 {
		t.Error("Expected a non-empty metrics payload")
	}
}

func TestRouterSetup_NilConfig(t *testing.T) {
	handler := NewHandler(nil, &stubPipeline{}, nil, nil, nil)
	router := NewRouter(handler, nil).Setup()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health/live", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Status = %d, want %d", w.Code, http.StatusOK)
	}
}

func TestRouterSetup_PreflightCORS(t *testing.T) {
	handler := NewHandler(nil, &stubPipeline{}, nil, nil, testConfig())
	cfg := testConfig()
	cfg.Security.CORSOrigins = []string{"https://dashboard.example.edu"}
	router := NewRouter(handler, cfg).Setup()

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/access-points", nil)
	req.Header.Set("Origin", "https://dashboard.example.edu")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://dashboard.example.edu" {
		t.Errorf("Access-Control-Allow-Origin = %q, want the configured origin", got)
	}
}
