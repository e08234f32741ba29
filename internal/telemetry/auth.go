// Aircensus - Wireless Access Point Telemetry and Diagnostics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aircensus

package telemetry

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"github.com/tomtom215/aircensus/internal/logging"
	"github.com/tomtom215/aircensus/internal/metrics"
	"github.com/tomtom215/aircensus/internal/models"
)

// authTokenPath is the controller's credential exchange endpoint. Basic
// credentials go in, a short-lived session token comes out.
const authTokenPath = "/dna/system/api/v1/auth/token"

const (
	// Controller tokens live for an hour; treating them as 55 minutes and
	// refreshing 5 minutes before that keeps a token valid across a full
	// fetch cycle without ever presenting one near its real expiry.
	tokenLifetime      = 55 * time.Minute
	tokenRefreshMargin = 5 * time.Minute

	// minRefreshInterval is the floor between credential exchanges. A
	// refresh inside this window returns the cached token instead, so a
	// misbehaving controller cannot be hammered with token requests.
	minRefreshInterval = 30 * time.Second
)

// AuthManager exchanges basic credentials for a controller session token
// and caches it until it nears expiry. Each controller endpoint owns its
// own AuthManager because tokens are not portable across controllers.
//
// Thread Safety: all methods are safe for concurrent use.
type AuthManager struct {
	authURL  string
	username string
	password string
	client   *http.Client

	mu          sync.Mutex
	token       string
	expiry      time.Time
	lastRefresh time.Time
}

// NewAuthManager creates an auth manager for the controller at baseURL.
// The provided HTTP client supplies timeout and TLS behavior so token
// requests travel the same way as data requests.
func NewAuthManager(baseURL, username, password string, client *http.Client) *AuthManager {
	return &AuthManager{
		authURL:  strings.TrimRight(baseURL, "/") + authTokenPath,
		username: username,
		password: password,
		client:   client,
	}
}

// Token returns a valid session token, performing the credential exchange
// when no token is cached or the cached one is within tokenRefreshMargin
// of expiry.
func (m *AuthManager) Token(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.token != "" && time.Now().Before(m.expiry.Add(-tokenRefreshMargin)) {
		return m.token, nil
	}
	if err := m.refreshLocked(ctx); err != nil {
		return "", err
	}
	return m.token, nil
}

// ForceRefresh discards the cached token and obtains a new one. It backs
// the single fresh-credential retry the client grants transient failures.
// A token obtained within minRefreshInterval is already fresh and is
// returned as-is, which keeps a 401-retry loop from stampeding the token
// endpoint.
func (m *AuthManager) ForceRefresh(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.token != "" && time.Since(m.lastRefresh) < minRefreshInterval {
		return m.token, nil
	}
	if err := m.refreshLocked(ctx); err != nil {
		return "", err
	}
	return m.token, nil
}

// refreshLocked performs the credential exchange. Callers hold mu.
func (m *AuthManager) refreshLocked(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.authURL, http.NoBody)
	if err != nil {
		return NewTerminalError("failed to create token request", err)
	}
	req.SetBasicAuth(m.username, m.password)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := m.client.Do(req)
	if err != nil {
		metrics.RecordControllerRequest(authTokenPath, "error", time.Since(start))
		return NewTransientError("token request failed", err)
	}
	defer closeBody(resp)
	metrics.RecordControllerRequest(authTokenPath, strconv.Itoa(resp.StatusCode), time.Since(start))

	switch {
	case resp.StatusCode == http.StatusOK:
		// Decoded below.
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		// The basic credentials themselves were refused. Retrying with the
		// same credentials cannot succeed.
		return NewTerminalError(fmt.Sprintf("controller refused credentials (status %d)", resp.StatusCode), nil)
	case resp.StatusCode >= 500:
		return NewTransientError(fmt.Sprintf("token endpoint returned status %d", resp.StatusCode), nil)
	default:
		body := readBodyForError(resp.Body)
		return NewTerminalError(fmt.Sprintf("token endpoint returned status %d: %s", resp.StatusCode, string(body)), nil)
	}

	var envelope models.AuthTokenEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return NewTerminalError("failed to decode token response", err)
	}
	if envelope.Token == "" {
		return NewTerminalError("token response carried no token", nil)
	}

	now := time.Now()
	m.token = envelope.Token
	m.expiry = now.Add(tokenLifetime)
	m.lastRefresh = now
	metrics.ControllerTokenRefreshes.Inc()
	logging.Debug().Time("expiry", m.expiry).Msg("Controller session token refreshed")
	return nil
}
