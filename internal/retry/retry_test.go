package retry

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"poscheck/internal/api"
)

type statusError struct{ code int }

func (e *statusError) Error() string   { return fmt.Sprintf("HTTP %d", e.code) }
func (e *statusError) StatusCode() int { return e.code }

type timeoutError struct{}

func (timeoutError) Error() string { return "operation timed out" }
func (timeoutError) Timeout() bool { return true }

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorType
	}{
		{"nil", nil, ErrorTypeUnknown},
		{"context deadline", context.DeadlineExceeded, ErrorTypeTimeout},
		{"timeout interface", timeoutError{}, ErrorTypeTimeout},
		{"http 429", &statusError{429}, ErrorTypeRateLimit},
		{"http 503", &statusError{503}, ErrorTypeTimeout},
		{"http 504", &statusError{504}, ErrorTypeTimeout},
		{"http 500", &statusError{500}, ErrorTypeNetwork},
		{"http 400", &statusError{400}, ErrorTypePermanent},
		{"http 404", &statusError{404}, ErrorTypePermanent},
		{"client timeout", &api.TimeoutError{Action: "getReport", After: time.Second}, ErrorTypeTimeout},
		{"client 404", &api.StatusError{Action: "getReport", Code: 404}, ErrorTypePermanent},
		{"timeout message", errors.New("request timed out"), ErrorTypeTimeout},
		{"rate limit message", errors.New("rate limit exceeded"), ErrorTypeRateLimit},
		{"connection refused", errors.New("dial: connection refused"), ErrorTypeNetwork},
		{"unknown", errors.New("something odd"), ErrorTypeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}

func TestPolicy_Delays_Exponential(t *testing.T) {
	policy := Policy{MaxAttempts: 5, BaseDelay: 100 * time.Millisecond}
	delays := policy.Delays()

	require.Len(t, delays, 5)
	assert.Equal(t, 100*time.Millisecond, delays[0])
	assert.Equal(t, 200*time.Millisecond, delays[1])
	assert.Equal(t, 400*time.Millisecond, delays[2])
	assert.Equal(t, 1600*time.Millisecond, delays[4])
	assert.True(t, IsExponential(delays))
}

func TestPolicy_Delay_Capped(t *testing.T) {
	policy := Policy{MaxAttempts: 10, BaseDelay: time.Second, MaxDelay: 4 * time.Second}
	assert.Equal(t, 4*time.Second, policy.Delay(5))
}

func TestIsExponential(t *testing.T) {
	tests := []struct {
		name   string
		delays []time.Duration
		want   bool
	}{
		{"empty", nil, false},
		{"single", []time.Duration{time.Second}, true},
		{"doubling", []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}, true},
		{"decreasing", []time.Duration{2 * time.Second, 1 * time.Second}, false},
		{"too shallow", []time.Duration{1 * time.Second, 1400 * time.Millisecond}, false},
		{"exactly 1.5x", []time.Duration{2 * time.Second, 3 * time.Second}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsExponential(tt.delays))
		})
	}
}

func TestPolicy_Do_RetriesTransientThenSucceeds(t *testing.T) {
	policy := Policy{MaxAttempts: 3, BaseDelay: time.Millisecond}
	calls := 0
	var retryDelays []time.Duration

	err := policy.Do(context.Background(), func(context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("network unreachable")
		}
		return nil
	}, func(attempt int, err error, delay time.Duration) {
		retryDelays = append(retryDelays, delay)
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Len(t, retryDelays, 2)
}

func TestPolicy_Do_StopsOnPermanent(t *testing.T) {
	policy := Policy{MaxAttempts: 5, BaseDelay: time.Millisecond}
	calls := 0

	err := policy.Do(context.Background(), func(context.Context) error {
		calls++
		return &statusError{400}
	}, nil)

	require.Error(t, err)
	assert.Equal(t, 1, calls, "permanent errors must not be retried")
}

func TestPolicy_Do_ExhaustsAttempts(t *testing.T) {
	policy := Policy{MaxAttempts: 2, BaseDelay: time.Millisecond}
	calls := 0

	err := policy.Do(context.Background(), func(context.Context) error {
		calls++
		return errors.New("network unreachable")
	}, nil)

	require.Error(t, err)
	assert.Equal(t, 3, calls, "initial attempt plus MaxAttempts retries")
}

func TestPolicy_Do_RespectsContext(t *testing.T) {
	policy := Policy{MaxAttempts: 5, BaseDelay: time.Hour}
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- policy.Do(ctx, func(context.Context) error {
			return errors.New("network unreachable")
		}, nil)
	}()
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Do did not return after context cancellation")
	}
}
