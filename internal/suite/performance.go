package suite

import (
	"context"
	"fmt"
	"sync"
	"time"

	"poscheck/internal/domain"
)

// Performance measures API latency against fixed thresholds and checks
// that concurrent calls complete without interference.
type Performance struct {
	deps Deps

	// thresholds per probed action; a call slower than its threshold
	// fails the scenario.
	thresholds map[string]time.Duration

	concurrency int
}

// NewPerformance returns the performance test module.
func NewPerformance(deps Deps) *Performance {
	return &Performance{
		deps: deps,
		thresholds: map[string]time.Duration{
			"getBootstrapData":  3 * time.Second,
			"getReport":         5 * time.Second,
			"searchIngredients": 2 * time.Second,
		},
		concurrency: 5,
	}
}

// Name implements Module.
func (m *Performance) Name() string { return "performance" }

// Run executes the latency and concurrency categories.
func (m *Performance) Run(ctx context.Context) (*domain.ModuleReport, error) {
	started := time.Now()
	categories := []domain.CategorySummary{
		m.testResponseTimes(ctx),
		m.testConcurrentOperations(ctx),
	}
	return domain.BuildModuleReport(m.Name(), categories, started), nil
}

func (m *Performance) testResponseTimes(ctx context.Context) domain.CategorySummary {
	client := m.deps.Client
	var scenarios []Scenario
	for _, probe := range []struct {
		action string
		params map[string]string
	}{
		{"getBootstrapData", nil},
		{"getReport", map[string]string{"period": "daily"}},
		{"searchIngredients", map[string]string{"query": "su"}},
	} {
		probe := probe
		threshold := m.thresholds[probe.action]
		scenarios = append(scenarios, Scenario{
			Name:        fmt.Sprintf("%s responds within %s", probe.action, threshold),
			Requirement: "API latency stays under the per-action threshold",
			Expect:      domain.ExpectSuccess,
			Op: func(ctx context.Context) (bool, string, error) {
				began := time.Now()
				resp, err := client.Call(ctx, probe.action, probe.params)
				elapsed := time.Since(began)
				if err != nil {
					return false, "", err
				}
				if !resp.OK() {
					return true, resp.Message, nil
				}
				if elapsed > threshold {
					return true, fmt.Sprintf("took %s, threshold %s", elapsed.Round(time.Millisecond), threshold), nil
				}
				return false, fmt.Sprintf("took %s", elapsed.Round(time.Millisecond)), nil
			},
		})
	}
	return domain.Summarize("responseTimes", domain.AllPass, runScenarios(ctx, scenarios))
}

// testConcurrentOperations launches N searches at once and joins them.
// Partial failure is tolerated up to the category's rate policy.
func (m *Performance) testConcurrentOperations(ctx context.Context) domain.CategorySummary {
	client := m.deps.Client
	results := make([]domain.TestResult, m.concurrency)

	var wg sync.WaitGroup
	for i := 0; i < m.concurrency; i++ {
		wg.Add(1)
		go func(slot int) {
			defer wg.Done()
			results[slot] = runScenario(ctx, Scenario{
				Name:        fmt.Sprintf("concurrent search %d", slot+1),
				Requirement: "concurrent API calls do not interfere",
				Expect:      domain.ExpectSuccess,
				Op: apiOp(client, "searchIngredients", map[string]string{
					"query": fmt.Sprintf("item-%d", slot),
				}),
			})
		}(i)
	}
	wg.Wait()

	return domain.Summarize("concurrentOperations", domain.MinRate(0.8), results)
}
