package domain

import "time"

// TestResult is the atomic record produced by one scenario check.
// Immutable once created; modules collect them into category folds.
type TestResult struct {
	Name        string        `json:"name"`
	Passed      bool          `json:"passed"`
	Requirement string        `json:"requirement,omitempty"`
	Message     string        `json:"message,omitempty"`
	Duration    time.Duration `json:"duration,omitempty"`
	Err         string        `json:"error,omitempty"`
}

// SummaryCounts holds pass/fail counters for one category.
type SummaryCounts struct {
	Total  int `json:"total"`
	Passed int `json:"passed"`
	Failed int `json:"failed"`
}

// CategorySummary aggregates the results of one test method's scenarios.
type CategorySummary struct {
	Name    string        `json:"name"`
	Passed  bool          `json:"passed"`
	Policy  string        `json:"policy"`
	Results []TestResult  `json:"results"`
	Summary SummaryCounts `json:"summary"`
}

// Summarize folds a result list into a CategorySummary under the given
// pass policy. The fold is the only way a CategorySummary is built, so
// Summary.Total == len(Results) and Passed+Failed == Total always hold.
func Summarize(name string, policy PassPolicy, results []TestResult) CategorySummary {
	counts := SummaryCounts{Total: len(results)}
	for _, r := range results {
		if r.Passed {
			counts.Passed++
		} else {
			counts.Failed++
		}
	}
	return CategorySummary{
		Name:    name,
		Passed:  policy.Evaluate(counts),
		Policy:  policy.Name(),
		Results: results,
		Summary: counts,
	}
}

// FailedResults returns the failing results of the category.
func (c CategorySummary) FailedResults() []TestResult {
	var failed []TestResult
	for _, r := range c.Results {
		if !r.Passed {
			failed = append(failed, r)
		}
	}
	return failed
}
