package api

import (
	"errors"
	"fmt"
	"time"
)

// ErrNotConfigured means the client was built without a base URL.
// This is a fatal configuration error: callers fail fast instead of
// attempting (and retrying) network calls that can never succeed.
var ErrNotConfigured = errors.New("API URL not configured")

// TimeoutError marks a request aborted by its deadline, kept distinct
// from other network failures so callers can message them differently.
type TimeoutError struct {
	Action string
	After  time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("request %q timed out after %s", e.Action, e.After)
}

// Timeout implements the net.Error convention.
func (e *TimeoutError) Timeout() bool { return true }

// StatusError carries a non-2xx HTTP status.
type StatusError struct {
	Action string
	Code   int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("request %q failed with HTTP status %d", e.Action, e.Code)
}

// StatusCode exposes the code for error classification.
func (e *StatusError) StatusCode() int { return e.Code }

// IsTimeout reports whether err is a client timeout.
func IsTimeout(err error) bool {
	var te *TimeoutError
	return errors.As(err, &te)
}
