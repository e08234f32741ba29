// Aircensus - Wireless Access Point Telemetry and Diagnostics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aircensus

package telemetry

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/aircensus/internal/errtrack"
	"github.com/tomtom215/aircensus/internal/models"
)

// stubClient is a canned Client implementation for exercising the
// breaker without a live controller.
type stubClient struct {
	devices     []models.RawDevice
	sites       []models.RawSiteCount
	err         error
	deviceCalls int
	siteCalls   int
	pingCalls   int
}

func (s *stubClient) FetchAccessPoints(_ context.Context) ([]models.RawDevice, error) {
	s.deviceCalls++
	if s.err != nil {
		return nil, s.err
	}
	return s.devices, nil
}

func (s *stubClient) FetchClientCounts(_ context.Context) ([]models.RawSiteCount, error) {
	s.siteCalls++
	if s.err != nil {
		return nil, s.err
	}
	return s.sites, nil
}

func (s *stubClient) Ping(_ context.Context) error {
	s.pingCalls++
	return s.err
}

var _ Client = (*stubClient)(nil)

// TestCircuitBreaker_PassesThroughSuccess verifies results flow through an untripped breaker
func TestCircuitBreaker_PassesThroughSuccess(t *testing.T) {
	stub := &stubClient{
		devices: []models.RawDevice{rawDevice("ap-ross-301", "aa:bb:cc:dd:ee:01", 4)},
		sites:   []models.RawSiteCount{{SiteName: "Ross", SiteType: "building", NumberOfWirelessClients: intPtr(40)}},
	}
	cbc := NewCircuitBreakerClient(stub, errtrack.New())

	devices, err := cbc.FetchAccessPoints(context.Background())
	if err != nil {
		t.Fatalf("FetchAccessPoints() error = %v", err)
	}
	if len(devices) != 1 || devices[0].Name != "ap-ross-301" {
		t.Errorf("devices = %v, want the stub's device", devices)
	}

	sites, err := cbc.FetchClientCounts(context.Background())
	if err != nil {
		t.Fatalf("FetchClientCounts() error = %v", err)
	}
	if len(sites) != 1 || sites[0].SiteName != "Ross" {
		t.Errorf("sites = %v, want the stub's site", sites)
	}

	if err := cbc.Ping(context.Background()); err != nil {
		t.Errorf("Ping() error = %v", err)
	}

	if stub.deviceCalls != 1 || stub.siteCalls != 1 || stub.pingCalls != 1 {
		t.Errorf("stub calls = %d/%d/%d, want 1/1/1", stub.deviceCalls, stub.siteCalls, stub.pingCalls)
	}
}

// TestCircuitBreaker_OpensAfterFailures verifies circuit opens after exceeding failure threshold
func TestCircuitBreaker_OpensAfterFailures(t *testing.T) {
	stub := &stubClient{err: NewTransientError("controller offline", nil)}
	cbc := NewCircuitBreakerClient(stub, errtrack.New())

	// Initial state should be closed
	if state := cbc.cb.State(); state != gobreaker.StateClosed {
		t.Errorf("Expected initial state to be Closed, got %v", state)
	}

	// Minimum 10 requests, 60% failure rate: 10 straight failures trips it
	for i := 0; i < 10; i++ {
		if _, err := cbc.FetchAccessPoints(context.Background()); err == nil {
			t.Fatal("expected failure from stub")
		}
	}

	if state := cbc.cb.State(); state != gobreaker.StateOpen {
		t.Fatalf("Expected circuit to be Open after 10 failures, got %v", state)
	}

	// Next request is rejected without reaching the wrapped client
	calls := stub.deviceCalls
	_, err := cbc.FetchAccessPoints(context.Background())
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Errorf("Expected ErrOpenState when circuit is open, got %v", err)
	}
	if stub.deviceCalls != calls {
		t.Errorf("wrapped client was called %d extra times while open", stub.deviceCalls-calls)
	}
}

// TestCircuitBreaker_DoesNotOpenBelowThreshold verifies circuit stays closed below failure threshold
func TestCircuitBreaker_DoesNotOpenBelowThreshold(t *testing.T) {
	cbc := NewCircuitBreakerClient(&stubClient{}, errtrack.New())

	// 10 calls with 5 failures is a 50% rate, below the 60% threshold
	for i := 0; i < 10; i++ {
		i := i
		_, _ = cbc.execute("device fetch", true, func() (interface{}, error) {
			if i < 5 {
				return nil, errors.New("simulated controller failure")
			}
			return []models.RawDevice{}, nil
		})
	}

	if state := cbc.cb.State(); state != gobreaker.StateClosed {
		t.Errorf("Expected circuit to remain Closed with 50%% failure rate, got %v", state)
	}
}

// TestCircuitBreaker_RequiresMinimumRequests verifies circuit requires minimum 10 requests
func TestCircuitBreaker_RequiresMinimumRequests(t *testing.T) {
	stub := &stubClient{err: NewTransientError("controller offline", nil)}
	cbc := NewCircuitBreakerClient(stub, errtrack.New())

	// 100% failure rate over 5 requests is below the sample minimum
	for i := 0; i < 5; i++ {
		_, _ = cbc.FetchAccessPoints(context.Background())
	}

	if state := cbc.cb.State(); state != gobreaker.StateClosed {
		t.Errorf("Expected circuit to remain Closed with <10 requests, got %v", state)
	}
}

// TestCircuitBreaker_RejectionsRecordedForFetches verifies rejected fetches land in the
// error tracker while probe rejections stay out of it
func TestCircuitBreaker_RejectionsRecordedForFetches(t *testing.T) {
	stub := &stubClient{err: NewTransientError("controller offline", nil)}
	tracker := errtrack.New()
	cbc := NewCircuitBreakerClient(stub, tracker)

	for i := 0; i < 10; i++ {
		_, _ = cbc.FetchAccessPoints(context.Background())
	}
	if state := cbc.cb.State(); state != gobreaker.StateOpen {
		t.Fatalf("Expected circuit to be Open, got %v", state)
	}

	// With a stub behind the breaker nothing has recorded yet: failure
	// tracking belongs to the real client, rejection tracking to the
	// breaker.
	if tracker.Len() != 0 {
		t.Fatalf("tracker.Len() = %d before any rejection, want 0", tracker.Len())
	}

	// A rejected probe must not consume tracker capacity; health checks
	// re-probe on an interval and would bury real failures.
	if err := cbc.Ping(context.Background()); !errors.Is(err, gobreaker.ErrOpenState) {
		t.Fatalf("Ping() error = %v, want ErrOpenState", err)
	}
	if tracker.Len() != 0 {
		t.Errorf("tracker.Len() = %d after rejected probe, want 0", tracker.Len())
	}

	// A rejected fetch is a lost collection cycle and is recorded.
	if _, err := cbc.FetchAccessPoints(context.Background()); !errors.Is(err, gobreaker.ErrOpenState) {
		t.Fatalf("FetchAccessPoints() error = %v, want ErrOpenState", err)
	}
	if tracker.Len() != 1 {
		t.Fatalf("tracker.Len() = %d after rejected fetch, want 1", tracker.Len())
	}
	record := tracker.Recent(1)[0]
	if record.Kind != errtrack.KindTransientUpstream {
		t.Errorf("record.Kind = %q, want %q", record.Kind, errtrack.KindTransientUpstream)
	}
	if !strings.Contains(record.Message, "device fetch") {
		t.Errorf("record.Message = %q, want the operation named", record.Message)
	}
}

// TestCircuitBreaker_ClosesAfterSuccessInHalfOpen verifies circuit closes after success in half-open
func TestCircuitBreaker_ClosesAfterSuccessInHalfOpen(t *testing.T) {
	stub := &stubClient{err: NewTransientError("controller offline", nil)}
	cbName := "test-circuit-breaker-recovery"

	// Short timeout so the test can wait out the open window
	cb := gobreaker.NewCircuitBreaker[interface{}](gobreaker.Settings{
		Name:        cbName,
		MaxRequests: 1,
		Interval:    time.Second,
		Timeout:     100 * time.Millisecond,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= 0.6
		},
	})

	cbc := &CircuitBreakerClient{
		client:  stub,
		cb:      cb,
		tracker: errtrack.New(),
		name:    cbName,
	}

	// Force circuit to open
	for i := 0; i < 10; i++ {
		_, _ = cbc.FetchAccessPoints(context.Background())
	}
	if state := cbc.cb.State(); state != gobreaker.StateOpen {
		t.Fatalf("Expected circuit to be Open, got %v", state)
	}

	// Wait for timeout, then recover the stub and probe in half-open
	time.Sleep(150 * time.Millisecond)
	stub.err = nil
	stub.devices = []models.RawDevice{rawDevice("ap-ross-301", "aa:bb:cc:dd:ee:01", 4)}

	devices, err := cbc.FetchAccessPoints(context.Background())
	if err != nil {
		t.Errorf("Expected successful request in half-open, got error: %v", err)
	}
	if len(devices) != 1 {
		t.Errorf("len(devices) = %d, want 1 from recovered client", len(devices))
	}

	if state := cbc.cb.State(); state != gobreaker.StateClosed {
		t.Errorf("Expected circuit to close after success in half-open, got %v", state)
	}
}

// TestCircuitBreaker_StateHelpers verifies stateToFloat and stateToString helpers
func TestCircuitBreaker_StateHelpers(t *testing.T) {
	tests := []struct {
		state       gobreaker.State
		expectedStr string
		expectedNum float64
	}{
		{gobreaker.StateClosed, "closed", 0},
		{gobreaker.StateHalfOpen, "half-open", 1},
		{gobreaker.StateOpen, "open", 2},
		{gobreaker.State(99), "unknown", -1},
	}

	for _, tt := range tests {
		t.Run(tt.expectedStr, func(t *testing.T) {
			str := stateToString(tt.state)
			if str != tt.expectedStr {
				t.Errorf("stateToString(%v) = %s, expected %s", tt.state, str, tt.expectedStr)
			}

			num := stateToFloat(tt.state)
			if num != tt.expectedNum {
				t.Errorf("stateToFloat(%v) = %f, expected %f", tt.state, num, tt.expectedNum)
			}
		})
	}
}

// TestCircuitBreaker_CastResult verifies typed results and errors pass through castResult
func TestCircuitBreaker_CastResult(t *testing.T) {
	t.Run("typed result", func(t *testing.T) {
		want := []models.RawDevice{rawDevice("ap-ross-301", "aa:bb:cc:dd:ee:01", 4)}
		got, err := castResult[[]models.RawDevice](want, nil)
		if err != nil {
			t.Fatalf("castResult() error = %v", err)
		}
		if len(got) != 1 || got[0].Name != "ap-ross-301" {
			t.Errorf("castResult() = %v, want %v", got, want)
		}
	})

	t.Run("error passes through", func(t *testing.T) {
		wantErr := errors.New("wrapped failure")
		_, err := castResult[[]models.RawDevice](nil, wantErr)
		if !errors.Is(err, wantErr) {
			t.Errorf("castResult() error = %v, want %v", err, wantErr)
		}
	})

	t.Run("unexpected type", func(t *testing.T) {
		_, err := castResult[[]models.RawDevice]("not a slice", nil)
		if err == nil {
			t.Fatal("expected error for mismatched result type")
		}
		if !strings.Contains(err.Error(), "unexpected result type") {
			t.Errorf("error = %v, want type mismatch message", err)
		}
	})
}

// TestCircuitBreaker_ImplementsClient verifies the wrapper satisfies the fetch interface
func TestCircuitBreaker_ImplementsClient(t *testing.T) {
	cbc := NewCircuitBreakerClient(&stubClient{}, errtrack.New())
	var _ Client = cbc
	t.Log("CircuitBreakerClient successfully implements Client")
}

// BenchmarkCircuitBreaker_OpenState benchmarks rejection speed in open state
func BenchmarkCircuitBreaker_OpenState(b *testing.B) {
	stub := &stubClient{err: NewTransientError("controller offline", nil)}
	cbc := NewCircuitBreakerClient(stub, errtrack.New())

	for i := 0; i < 10; i++ {
		_, _ = cbc.FetchAccessPoints(context.Background())
	}
	if cbc.cb.State() != gobreaker.StateOpen {
		b.Fatal("Circuit should be open for benchmark")
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = cbc.FetchAccessPoints(context.Background())
	}
}
