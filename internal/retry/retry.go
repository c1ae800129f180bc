package retry

import (
	"context"
	"errors"
	"math/rand"
	"net/http"
	"strings"
	"time"
)

// ErrorType categorizes a failure for retry decisions.
type ErrorType string

const (
	ErrorTypeTimeout   ErrorType = "timeout"
	ErrorTypeRateLimit ErrorType = "rate_limit"
	ErrorTypeNetwork   ErrorType = "network"
	ErrorTypePermanent ErrorType = "permanent"
	ErrorTypeUnknown   ErrorType = "unknown"
)

// Classify determines the error type. Permanent errors are never
// retried; everything else backs off and tries again.
func Classify(err error) ErrorType {
	if err == nil {
		return ErrorTypeUnknown
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return ErrorTypeTimeout
	}

	var timeoutErr interface{ Timeout() bool }
	if errors.As(err, &timeoutErr) && timeoutErr.Timeout() {
		return ErrorTypeTimeout
	}

	var statusErr interface{ StatusCode() int }
	if errors.As(err, &statusErr) {
		switch code := statusErr.StatusCode(); {
		case code == http.StatusTooManyRequests:
			return ErrorTypeRateLimit
		case code == http.StatusServiceUnavailable || code == http.StatusGatewayTimeout:
			return ErrorTypeTimeout
		case code >= 500:
			return ErrorTypeNetwork
		case code >= 400:
			return ErrorTypePermanent
		}
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "timed out"), strings.Contains(msg, "timeout"),
		strings.Contains(msg, "deadline exceeded"):
		return ErrorTypeTimeout
	case strings.Contains(msg, "rate limit"):
		return ErrorTypeRateLimit
	case strings.Contains(msg, "connection refused"), strings.Contains(msg, "connection reset"),
		strings.Contains(msg, "no such host"), strings.Contains(msg, "network"):
		return ErrorTypeNetwork
	}
	return ErrorTypeUnknown
}

// Policy describes exponential backoff: delay(i) = BaseDelay * 2^i,
// capped at MaxDelay, for at most MaxAttempts attempts.
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	// Jitter in [0,1) adds up to that fraction of random extra delay.
	Jitter float64
}

// DefaultPolicy mirrors the harness fixture: base 1s doubling, three
// retries.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: 3,
		BaseDelay:   time.Second,
		MaxDelay:    2 * time.Minute,
	}
}

// Delays returns the full backoff sequence the policy would use.
func (p Policy) Delays() []time.Duration {
	delays := make([]time.Duration, 0, p.MaxAttempts)
	for i := 0; i < p.MaxAttempts; i++ {
		delays = append(delays, p.Delay(i))
	}
	return delays
}

// Delay computes the backoff before retry attempt i (zero-based).
func (p Policy) Delay(attempt int) time.Duration {
	d := p.BaseDelay << uint(attempt)
	if p.MaxDelay > 0 && d > p.MaxDelay {
		d = p.MaxDelay
	}
	if p.Jitter > 0 {
		d += time.Duration(p.Jitter * rand.Float64() * float64(d))
	}
	return d
}

// IsExponential checks that a recorded delay sequence is non-decreasing
// and grows by a factor of at least 1.5 between consecutive entries.
func IsExponential(delays []time.Duration) bool {
	for i := 1; i < len(delays); i++ {
		if delays[i] < delays[i-1] {
			return false
		}
		if float64(delays[i]) < 1.5*float64(delays[i-1]) {
			return false
		}
	}
	return len(delays) > 0
}

// Do runs fn, retrying transient failures with exponential backoff.
// Permanent errors and context cancellation stop retrying immediately.
// OnRetry, when set, observes each retry before its sleep.
func (p Policy) Do(ctx context.Context, fn func(ctx context.Context) error, onRetry func(attempt int, err error, delay time.Duration)) error {
	var lastErr error
	for attempt := 0; attempt <= p.MaxAttempts; attempt++ {
		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}
		if Classify(lastErr) == ErrorTypePermanent || attempt == p.MaxAttempts {
			return lastErr
		}
		delay := p.Delay(attempt)
		if onRetry != nil {
			onRetry(attempt, lastErr, delay)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
	return lastErr
}
