package suite

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"poscheck/internal/api"
	"poscheck/internal/conflict"
	"poscheck/internal/domain"
	"poscheck/internal/retry"
	"poscheck/internal/storage"
)

// ErrorHandling verifies the harness's own failure paths: timeout
// mapping, backoff, conflict strategies and corrupt-store recovery.
// The module tolerates one failing scenario per category.
type ErrorHandling struct {
	deps Deps
}

// NewErrorHandling returns the error-handling test module.
func NewErrorHandling(deps Deps) *ErrorHandling { return &ErrorHandling{deps: deps} }

// Name implements Module.
func (m *ErrorHandling) Name() string { return "error-handling" }

// Run executes the error-path categories.
func (m *ErrorHandling) Run(ctx context.Context) (*domain.ModuleReport, error) {
	started := time.Now()
	categories := []domain.CategorySummary{
		m.testErrorMapping(ctx),
		m.testBackoff(ctx),
		m.testConflictStrategies(ctx),
		m.testStoreRecovery(ctx),
	}
	return domain.BuildModuleReport(m.Name(), categories, started), nil
}

func (m *ErrorHandling) testErrorMapping(ctx context.Context) domain.CategorySummary {
	scenarios := []Scenario{
		{
			Name:        "missing API URL fails fast",
			Requirement: "an unconfigured client reports ErrNotConfigured without a network call",
			Expect:      domain.ExpectSuccess,
			Op: func(ctx context.Context) (bool, string, error) {
				unconfigured := api.NewClient("")
				_, err := unconfigured.Call(ctx, "getBootstrapData", nil)
				if !errors.Is(err, api.ErrNotConfigured) {
					return true, fmt.Sprintf("expected ErrNotConfigured, got %v", err), nil
				}
				return false, "", nil
			},
		},
		{
			Name:        "slow endpoint maps to a timeout error",
			Requirement: "deadline aborts surface as TimeoutError, not generic failures",
			Expect:      domain.ExpectSuccess,
			Op: func(ctx context.Context) (bool, string, error) {
				impatient := api.NewClient(m.deps.Client.BaseURL(), api.WithTimeout(time.Nanosecond))
				_, err := impatient.Call(ctx, "getBootstrapData", nil)
				if err == nil {
					return true, "expected a timeout, call succeeded", nil
				}
				if !api.IsTimeout(err) {
					return true, fmt.Sprintf("expected TimeoutError, got %v", err), nil
				}
				return false, "", nil
			},
		},
		{
			Name:        "unknown action reports an API failure",
			Requirement: "bad actions produce a status error envelope, not a transport error",
			Expect:      domain.ExpectFailure,
			Op:          apiOp(m.deps.Client, "noSuchAction", nil),
		},
	}
	return domain.Summarize("errorMapping", domain.TolerateOne, runScenarios(ctx, scenarios))
}

func (m *ErrorHandling) testBackoff(ctx context.Context) domain.CategorySummary {
	scenarios := []Scenario{
		{
			Name:        "retry delays grow exponentially",
			Requirement: "delay(i) = base * 2^i and each step grows by at least 1.5x",
			Expect:      domain.ExpectSuccess,
			Op: func(context.Context) (bool, string, error) {
				policy := retry.Policy{MaxAttempts: 5, BaseDelay: 100 * time.Millisecond}
				delays := policy.Delays()
				if !retry.IsExponential(delays) {
					return true, fmt.Sprintf("sequence not exponential: %v", delays), nil
				}
				return false, "", nil
			},
		},
		{
			Name:        "retry stops after the configured attempts",
			Requirement: "a persistently failing operation is retried MaxAttempts times, then gives up",
			Expect:      domain.ExpectSuccess,
			Op: func(ctx context.Context) (bool, string, error) {
				policy := retry.Policy{MaxAttempts: 3, BaseDelay: time.Millisecond}
				calls := 0
				err := policy.Do(ctx, func(context.Context) error {
					calls++
					return errors.New("network unreachable")
				}, nil)
				if err == nil {
					return true, "expected the final attempt to fail", nil
				}
				if calls != policy.MaxAttempts+1 {
					return true, fmt.Sprintf("expected %d calls, got %d", policy.MaxAttempts+1, calls), nil
				}
				return false, "", nil
			},
		},
		{
			Name:        "permanent errors are not retried",
			Requirement: "4xx-class failures bypass backoff entirely",
			Expect:      domain.ExpectSuccess,
			Op: func(ctx context.Context) (bool, string, error) {
				policy := retry.Policy{MaxAttempts: 3, BaseDelay: time.Millisecond}
				calls := 0
				policy.Do(ctx, func(context.Context) error {
					calls++
					return &api.StatusError{Action: "addSale", Code: 400}
				}, nil)
				if calls != 1 {
					return true, fmt.Sprintf("permanent error retried %d times", calls-1), nil
				}
				return false, "", nil
			},
		},
	}
	return domain.Summarize("backoff", domain.TolerateOne, runScenarios(ctx, scenarios))
}

func (m *ErrorHandling) testConflictStrategies(ctx context.Context) domain.CategorySummary {
	base := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	local := conflict.Record{
		Fields:        map[string]any{"stock": 10.0, "name": "Flour", "price": 40.0},
		UpdatedAt:     base,
		UpdatedFields: []string{"stock"},
	}
	remote := conflict.Record{
		Fields:        map[string]any{"stock": 7.0, "name": "Flour Premium", "price": 55.0},
		UpdatedAt:     base.Add(5 * time.Minute),
		UpdatedFields: []string{"name", "price"},
	}

	scenarios := []Scenario{
		{
			Name:        "last-write-wins keeps the later record",
			Requirement: "the record with the later timestamp replaces the other",
			Expect:      domain.ExpectSuccess,
			Op: func(context.Context) (bool, string, error) {
				resolved := conflict.LastWriteWins(local, remote)
				if resolved.Fields["price"] != 55.0 || !resolved.UpdatedAt.Equal(remote.UpdatedAt) {
					return true, fmt.Sprintf("resolved to %v", resolved.Fields), nil
				}
				return false, "", nil
			},
		},
		{
			Name:        "merge takes each side's updated fields",
			Requirement: "stock comes from local, name and price from remote",
			Expect:      domain.ExpectSuccess,
			Op: func(context.Context) (bool, string, error) {
				merged := conflict.Merge(local, remote)
				if merged.Fields["stock"] != 10.0 {
					return true, "merge lost local stock edit", nil
				}
				if merged.Fields["name"] != "Flour Premium" || merged.Fields["price"] != 55.0 {
					return true, "merge lost remote edits", nil
				}
				return false, "", nil
			},
		},
		{
			Name:        "manual strategy queues the pair",
			Requirement: "unresolvable conflicts wait for a human decision",
			Expect:      domain.ExpectSuccess,
			Op: func(context.Context) (bool, string, error) {
				queue := conflict.NewQueue()
				id := queue.Add(local, remote)
				if len(queue.Pending()) != 1 {
					return true, "conflict not queued", nil
				}
				chosen, err := queue.Resolve(id, conflict.KeepRemote)
				if err != nil {
					return false, "", err
				}
				if chosen.Fields["price"] != 55.0 {
					return true, "resolution returned the wrong side", nil
				}
				if len(queue.Pending()) != 0 {
					return true, "resolved conflict still pending", nil
				}
				return false, "", nil
			},
		},
	}
	return domain.Summarize("conflictStrategies", domain.TolerateOne, runScenarios(ctx, scenarios))
}

// testStoreRecovery writes a corrupt history entry and checks the
// store clears it instead of failing every subsequent load.
func (m *ErrorHandling) testStoreRecovery(ctx context.Context) domain.CategorySummary {
	scenarios := []Scenario{
		{
			Name:        "corrupt history entry is cleared on load",
			Requirement: "storage corruption is detected then cleared and reloaded",
			Expect:      domain.ExpectSuccess,
			Op: func(context.Context) (bool, string, error) {
				dir, err := os.MkdirTemp("", "poscheck-recovery-")
				if err != nil {
					return false, "", err
				}
				defer os.RemoveAll(dir)

				history := storage.NewFileHistory(dir, 5)
				good := &domain.ComprehensiveSummary{Timestamp: time.Now(), OverallPassed: true}
				if err := history.Save(good); err != nil {
					return false, "", err
				}
				corrupt := filepath.Join(dir, "automated-test-results-1.json")
				if err := os.WriteFile(corrupt, []byte("{not json"), 0644); err != nil {
					return false, "", err
				}

				loaded, err := history.Load(0)
				if err != nil {
					return false, "", err
				}
				if len(loaded) != 1 {
					return true, fmt.Sprintf("expected 1 entry after recovery, got %d", len(loaded)), nil
				}
				if _, err := os.Stat(corrupt); !os.IsNotExist(err) {
					return true, "corrupt entry was not cleared", nil
				}
				return false, "", nil
			},
		},
	}
	return domain.Summarize("storeRecovery", domain.TolerateOne, runScenarios(ctx, scenarios))
}
