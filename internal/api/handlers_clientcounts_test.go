// Aircensus - Wireless Access Point Telemetry and Diagnostics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aircensus

package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"

	"github.com/tomtom215/aircensus/internal/models"
)

// clientCountsEnvelope decodes the paginated series response.
type clientCountsEnvelope struct {
	Success bool                        `json:"success"`
	Data    []models.ClientCountReading `json:"data"`
	Error   *APIError                   `json:"error"`
	Meta    *APIMeta                    `json:"meta"`
}

func seedSeries(t *testing.T, handler *Handler) {
	t.Helper()
	seedReadings(t, handler.db, []models.ClientCountReading{
		{Building: "Ross", Count: 28, ObservedAt: mustParseTime(t, "2026-03-14T09:51:00Z")},
		{Building: "Ross", Count: 31, ObservedAt: mustParseTime(t, "2026-03-14T09:56:00Z")},
		{Building: "Ross", Count: 35, ObservedAt: mustParseTime(t, "2026-03-14T10:01:00Z")},
		{Building: "Clark", Count: 40, ObservedAt: mustParseTime(t, "2026-03-14T09:56:00Z")},
		{Building: "Clark", Count: 44, ObservedAt: mustParseTime(t, "2026-03-14T10:01:00Z")},
	})
}

func TestClientCounts_All(t *testing.T) {
	db := setupTestDB(t)
	handler := NewHandler(db, nil, nil, nil, testConfig())
	seedSeries(t, handler)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/client-counts", nil)
	w := httptest.NewRecorder()
	handler.ClientCounts(w, req)

	resp := w.Result()
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var response clientCountsEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if !response.Success {
		t.Error("Expected Success to be true")
	}
	if len(response.Data) != 5 {
		t.Fatalf("len(Data) = %d, want 5", len(response.Data))
	}
	// Newest first.
	first := response.Data[0].ObservedAt
	if !first.Equal(mustParseTime(t, "2026-03-14T10:01:00Z")) {
		t.Errorf("Data[0].ObservedAt = %v, want the newest reading", first)
	}
	if response.Meta == nil || response.Meta.Pagination == nil {
		t.Fatal("Expected pagination metadata")
	}
	if response.Meta.Pagination.Total != 5 {
		t.Errorf("Total = %d, want 5", response.Meta.Pagination.Total)
	}
}

func TestClientCounts_FilterByBuilding(t *testing.T) {
	db := setupTestDB(t)
	handler := NewHandler(db, nil, nil, nil, testConfig())
	seedSeries(t, handler)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/client-counts?building=Clark", nil)
	w := httptest.NewRecorder()
	handler.ClientCounts(w, req)

	resp := w.Result()
	defer resp.Body.Close()

	var response clientCountsEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if len(response.Data) != 2 {
		t.Fatalf("len(Data) = %d, want 2", len(response.Data))
	}
	for _, reading := range response.Data {
		if reading.Building != "Clark" {
			t.Errorf("Building = %q, want Clark", reading.Building)
		}
	}
}

func TestClientCounts_TimeWindow(t *testing.T) {
	db := setupTestDB(t)
	handler := NewHandler(db, nil, nil, nil, testConfig())
	seedSeries(t, handler)

	// Window [09:56, 10:01): start inclusive, end exclusive, so the
	// 10:01 readings must not appear.
	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/client-counts?start=2026-03-14T09:56:00Z&end=2026-03-14T10:01:00Z", nil)
	w := httptest.NewRecorder()
	handler.ClientCounts(w, req)

	resp := w.Result()
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var response clientCountsEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if len(response.Data) != 2 {
		t.Fatalf("len(Data) = %d, want 2 (one Ross, one Clark at 09:56)", len(response.Data))
	}
	boundary := mustParseTime(t, "2026-03-14T09:56:00Z")
	for _, reading := range response.Data {
		if !reading.ObservedAt.Equal(boundary) {
			t.Errorf("ObservedAt = %v, want %v", reading.ObservedAt, boundary)
		}
	}
}

func TestClientCounts_InvalidTimestamp(t *testing.T) {
	db := setupTestDB(t)
	handler := NewHandler(db, nil, nil, nil, testConfig())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/client-counts?start=yesterday", nil)
	w := httptest.NewRecorder()
	handler.ClientCounts(w, req)

	resp := w.Result()
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("Status = %d, want %d", resp.StatusCode, http.StatusBadRequest)
	}

	var response APIResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if response.Error == nil || response.Error.Code != ErrCodeValidationFailed {
		t.Errorf("Expected error code %s, got %+v", ErrCodeValidationFailed, response.Error)
	}
}

func TestClientCounts_LimitApplied(t *testing.T) {
	db := setupTestDB(t)
	handler := NewHandler(db, nil, nil, nil, testConfig())
	seedSeries(t, handler)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/client-counts?limit=2", nil)
	w := httptest.NewRecorder()
	handler.ClientCounts(w, req)

	resp := w.Result()
	defer resp.Body.Close()

	var response clientCountsEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if len(response.Data) != 2 {
		t.Fatalf("len(Data) = %d, want 2", len(response.Data))
	}
	if response.Meta.Pagination.Total != 5 {
		t.Errorf("Total = %d, want 5", response.Meta.Pagination.Total)
	}
	if !response.Meta.Pagination.HasMore {
		t.Error("Expected HasMore to be true when the limit truncates")
	}
}

func TestClientCounts_OversizedLimitClamped(t *testing.T) {
	db := setupTestDB(t)
	handler := NewHandler(db, nil, nil, nil, testConfig())
	seedSeries(t, handler)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/client-counts?limit=99999", nil)
	w := httptest.NewRecorder()
	handler.ClientCounts(w, req)

	resp := w.Result()
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var response clientCountsEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if response.Meta.Pagination.Limit != 1000 {
		t.Errorf("Limit = %d, want 1000 (clamped)", response.Meta.Pagination.Limit)
	}
}

func TestClientCounts_EmptyDatabase(t *testing.T) {
	db := setupTestDB(t)
	handler := NewHandler(db, nil, nil, nil, testConfig())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/client-counts", nil)
	w := httptest.NewRecorder()
	handler.ClientCounts(w, req)

	resp := w.Result()
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var response clientCountsEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if len(response.Data) != 0 {
		t.Errorf("len(Data) = %d, want 0", len(response.Data))
	}
	if response.Meta.Pagination.HasMore {
		t.Error("Expected HasMore to be false for an empty series")
	}
}

func TestClientCounts_NoDatabase(t *testing.T) {
	t.Parallel()

	handler := NewHandler(nil, nil, nil, nil, testConfig())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/client-counts", nil)
	w := httptest.NewRecorder()
	handler.ClientCounts(w, req)

	resp := w.Result()
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("Status = %d, want %d", resp.StatusCode, http.StatusServiceUnavailable)
	}
}
