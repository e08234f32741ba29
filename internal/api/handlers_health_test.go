// Aircensus - Wireless Access Point Telemetry and Diagnostics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aircensus

package api

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/aircensus/internal/models"
	"github.com/tomtom215/aircensus/internal/scheduler"
)

func TestHealth_NoDependencies(t *testing.T) {
	t.Parallel()

	handler := NewHandler(nil, nil, nil, nil, testConfig())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	w := httptest.NewRecorder()
	handler.Health(w, req)

	resp := w.Result()
	defer resp.Body.Close()

	// The health endpoint always answers 200; degradation is reported in
	// the payload, not the status code.
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var response struct {
		Success bool                `json:"success"`
		Data    models.HealthStatus `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if response.Data.Status != "degraded" {
		t.Errorf("Status = %q, want degraded", response.Data.Status)
	}
	if response.Data.DatabaseConnected {
		t.Error("Expected DatabaseConnected to be false")
	}
	if response.Data.ControllerConnected {
		t.Error("Expected ControllerConnected to be false")
	}
	if response.Data.LastCycleTime != nil {
		t.Error("Expected LastCycleTime to be nil without a pipeline")
	}
	if response.Data.Uptime < 0 {
		t.Errorf("Uptime = %f, want >= 0", response.Data.Uptime)
	}
}

func TestHealth_ControllerReachable(t *testing.T) {
	t.Parallel()

	handler := NewHandler(nil, nil, nil, &stubPinger{}, testConfig())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	w := httptest.NewRecorder()
	handler.Health(w, req)

	resp := w.Result()
	defer resp.Body.Close()

	var response struct {
		Data models.HealthStatus `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if !response.Data.ControllerConnected {
		t.Error("Expected ControllerConnected to be true")
	}
	// Still degraded: the database is down.
	if response.Data.Status != "degraded" {
		t.Errorf("Status = %q, want degraded", response.Data.Status)
	}
}

func TestHealth_ControllerUnreachable(t *testing.T) {
	t.Parallel()

	pinger := &stubPinger{err: errors.New("controller timed out")}
	handler := NewHandler(nil, nil, nil, pinger, testConfig())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	w := httptest.NewRecorder()
	handler.Health(w, req)

	resp := w.Result()
	defer resp.Body.Close()

	var response struct {
		Data models.HealthStatus `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if response.Data.ControllerConnected {
		t.Error("Expected ControllerConnected to be false when ping fails")
	}
}

func TestHealth_AllDependenciesUp(t *testing.T) {
	db := setupTestDB(t)
	handler := NewHandler(db, nil, nil, &stubPinger{}, testConfig())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	w := httptest.NewRecorder()
	handler.Health(w, req)

	resp := w.Result()
	defer resp.Body.Close()

	var response struct {
		Data models.HealthStatus `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if response.Data.Status != "healthy" {
		t.Errorf("Status = %q, want healthy", response.Data.Status)
	}
	if !response.Data.DatabaseConnected {
		t.Error("Expected DatabaseConnected to be true")
	}
	if !response.Data.ControllerConnected {
		t.Error("Expected ControllerConnected to be true")
	}
	if response.Data.Version == "" {
		t.Error("Expected Version to be set")
	}
}

func TestHealth_LastCycleTime(t *testing.T) {
	t.Parallel()

	lastRun := time.Date(2026, 3, 14, 10, 6, 0, 0, time.UTC)
	pipeline := &stubPipeline{
		status: scheduler.Status{
			State:   scheduler.StateIdle,
			LastRun: &lastRun,
		},
	}
	handler := NewHandler(nil, pipeline, nil, nil, testConfig())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	w := httptest.NewRecorder()
	handler.Health(w, req)

	resp := w.Result()
	defer resp.Body.Close()

	var response struct {
		Data models.HealthStatus `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if response.Data.LastCycleTime == nil {
		t.Fatal("Expected LastCycleTime to be set")
	}
	if !response.Data.LastCycleTime.Equal(lastRun) {
		t.Errorf("LastCycleTime = %v, want %v", response.Data.LastCycleTime, lastRun)
	}
}

func TestHealthLive_AlwaysOK(t *testing.T) {
	t.Parallel()

	// Liveness must not depend on anything: a process with every
	// dependency missing is still alive.
	handler := NewHandler(nil, nil, nil, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health/live", nil)
	w := httptest.NewRecorder()
	handler.HealthLive(w, req)

	resp := w.Result()
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var response struct {
		Success bool                   `json:"success"`
		Data    map[string]interface{} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if alive, ok := response.Data["alive"].(bool); !ok || !alive {
		t.Errorf("alive = %v, want true", response.Data["alive"])
	}
}

func TestHealthReady_DatabaseUnavailable(t *testing.T) {
	t.Parallel()

	handler := NewHandler(nil, nil, nil, &stubPinger{}, testConfig())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health/ready", nil)
	w := httptest.NewRecorder()
	handler.HealthReady(w, req)

	resp := w.Result()
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("Status = %d, want %d", resp.StatusCode, http.StatusServiceUnavailable)
	}

	var response struct {
		Success bool                   `json:"success"`
		Data    map[string]interface{} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if response.Success {
		t.Error("Expected Success to be false")
	}
	if ready, ok := response.Data["ready_to_serve"].(bool); !ok || ready {
		t.Errorf("ready_to_serve = %v, want false", response.Data["ready_to_serve"])
	}
	// A reachable controller does not make the service ready on its own.
	if connected, ok := response.Data["controller_connected"].(bool); !ok || !connected {
		t.Errorf("controller_connected = %v, want true", response.Data["controller_connected"])
	}
}

func TestHealthReady_DatabaseAvailable(t *testing.T) {
	db := setupTestDB(t)

	// Readiness gates on storage only: the controller being down must not
	// flip the probe, since queries serve from stored data.
	handler := NewHandler(db, nil, nil, &stubPinger{err: errors.New("controller down")}, testConfig())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health/ready", nil)
	w := httptest.NewRecorder()
	handler.HealthReady(w, req)

	resp := w.Result()
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var response struct {
		Success bool                   `json:"success"`
		Data    map[string]interface{} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if !response.Success {
		t.Error("Expected Success to be true")
	}
	if ready, ok := response.Data["ready_to_serve"].(bool); !ok || !ready {
		t.Errorf("ready_to_serve = %v, want true", response.Data["ready_to_serve"])
	}
	if connected, ok := response.Data["controller_connected"].(bool); !ok || connected {
		t.Errorf("controller_connected = %v, want false", response.Data["controller_connected"])
	}
}

func BenchmarkHealthLive(b *testing.B) {
	handler := NewHandler(nil, nil, nil, nil, testConfig())

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/health/live", nil)
		w := httptest.NewRecorder()
		handler.HealthLive(w, req)
	}
}
