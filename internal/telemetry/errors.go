// Aircensus - Wireless Access Point Telemetry and Diagnostics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aircensus

package telemetry

import (
	"errors"

	"github.com/tomtom215/aircensus/internal/errtrack"
)

// ErrAuthRejected marks a data request the controller refused even after a
// forced token refresh. It is wrapped in a TransientError: the controller's
// token store recovers on its own, so the next cycle may succeed.
var ErrAuthRejected = errors.New("controller rejected auth token")

// TransientError represents an upstream failure expected to clear without
// intervention: timeouts, 5xx responses, and token expiry. The client gives
// the transient class one retry behind a forced credential refresh before
// giving up on the request.
type TransientError struct {
	Message string
	Cause   error
}

// NewTransientError creates a new transient error.
func NewTransientError(message string, cause error) *TransientError {
	return &TransientError{Message: message, Cause: cause}
}

// Error implements the error interface.
func (e *TransientError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

// Unwrap returns the underlying cause for error unwrapping.
func (e *TransientError) Unwrap() error {
	return e.Cause
}

// TerminalError represents an upstream failure that retrying cannot fix:
// 4xx responses other than token expiry, refused credentials, and payloads
// that do not decode.
type TerminalError struct {
	Message string
	Cause   error
}

// NewTerminalError creates a new terminal error.
func NewTerminalError(message string, cause error) *TerminalError {
	return &TerminalError{Message: message, Cause: cause}
}

// Error implements the error interface.
func (e *TerminalError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

// Unwrap returns the underlying cause for error unwrapping.
func (e *TerminalError) Unwrap() error {
	return e.Cause
}

// IsTransient checks if the error is classified transient.
func IsTransient(err error) bool {
	var transient *TransientError
	return errors.As(err, &transient)
}

// IsTerminal checks if the error is classified terminal.
func IsTerminal(err error) bool {
	var terminal *TerminalError
	return errors.As(err, &terminal)
}

// Kind maps an error onto its tracker classification. Anything not
// explicitly terminal counts as transient: an open circuit breaker, a
// cancelled context, and a network fault all clear on their own.
func Kind(err error) string {
	if IsTerminal(err) {
		return errtrack.KindTerminalUpstream
	}
	return errtrack.KindTransientUpstream
}
