// Package suite contains the per-domain test modules the orchestrator
// runs against the POS API.
package suite

import (
	"context"
	"fmt"
	"time"

	"poscheck/internal/api"
	"poscheck/internal/config"
	"poscheck/internal/domain"
)

// Module is one domain-specific collection of test categories.
// Modules are constructed fresh per run; Run finalizes the report.
type Module interface {
	Name() string
	Run(ctx context.Context) (*domain.ModuleReport, error)
}

// Deps are the shared collaborators injected into every module.
type Deps struct {
	Client    *api.Client
	Config    *config.Config
	QueuePath string
}

// ForNames builds the selected modules in the given order.
func ForNames(names []string, deps Deps) ([]Module, error) {
	builders := map[string]func(Deps) Module{
		"functional":     func(d Deps) Module { return NewFunctional(d) },
		"performance":    func(d Deps) Module { return NewPerformance(d) },
		"cross-browser":  func(d Deps) Module { return NewCrossBrowser(d) },
		"accessibility":  func(d Deps) Module { return NewAccessibility(d) },
		"security":       func(d Deps) Module { return NewSecurity(d) },
		"error-handling": func(d Deps) Module { return NewErrorHandling(d) },
		"data-integrity": func(d Deps) Module { return NewDataIntegrity(d) },
		"offline":        func(d Deps) Module { return NewOffline(d) },
	}

	var modules []Module
	for _, name := range names {
		build, ok := builders[name]
		if !ok {
			return nil, fmt.Errorf("unknown test module %q", name)
		}
		modules = append(modules, build(deps))
	}
	return modules, nil
}

// Scenario is one check with an explicit expected outcome. The op
// reports the application-level verdict and the operation error; the
// Outcome tag decides pass/fail uniformly.
type Scenario struct {
	Name        string
	Requirement string
	Expect      domain.Outcome
	Op          func(ctx context.Context) (failed bool, message string, err error)
}

// runScenarios evaluates every scenario and returns the immutable
// result list the caller folds into a category summary.
func runScenarios(ctx context.Context, scenarios []Scenario) []domain.TestResult {
	results := make([]domain.TestResult, 0, len(scenarios))
	for _, sc := range scenarios {
		results = append(results, runScenario(ctx, sc))
	}
	return results
}

func runScenario(ctx context.Context, sc Scenario) domain.TestResult {
	started := time.Now()
	failed, message, err := runGuarded(ctx, sc.Op)
	result := domain.TestResult{
		Name:        sc.Name,
		Requirement: sc.Requirement,
		Passed:      sc.Expect.Matches(failed, err),
		Message:     message,
		Duration:    time.Since(started),
	}
	if err != nil {
		result.Err = err.Error()
		if result.Message == "" {
			result.Message = fmt.Sprintf("%s: %v", sc.Expect, err)
		}
	}
	return result
}

// runGuarded converts a panicking op into an operation error so one
// scenario can never take down the module's run.
func runGuarded(ctx context.Context, op func(ctx context.Context) (bool, string, error)) (failed bool, message string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("scenario panicked: %v", r)
		}
	}()
	return op(ctx)
}

// apiOp wraps a plain API action as a scenario op: an "error" status
// is the application-level failure.
func apiOp(client *api.Client, action string, params map[string]string) func(ctx context.Context) (bool, string, error) {
	return func(ctx context.Context) (bool, string, error) {
		resp, err := client.Call(ctx, action, params)
		if err != nil {
			return false, "", err
		}
		return !resp.OK(), resp.Message, nil
	}
}
