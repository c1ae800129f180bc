package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize_CountersMatchResults(t *testing.T) {
	tests := []struct {
		name       string
		results    []TestResult
		wantPassed int
		wantFailed int
	}{
		{
			name:       "empty",
			results:    nil,
			wantPassed: 0,
			wantFailed: 0,
		},
		{
			name: "mixed",
			results: []TestResult{
				{Name: "a", Passed: true},
				{Name: "b", Passed: false},
				{Name: "c", Passed: true},
			},
			wantPassed: 2,
			wantFailed: 1,
		},
		{
			name: "all failing",
			results: []TestResult{
				{Name: "a"},
				{Name: "b"},
			},
			wantPassed: 0,
			wantFailed: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cat := Summarize("cat", AllPass, tt.results)
			assert.Equal(t, len(tt.results), cat.Summary.Total)
			assert.Equal(t, tt.wantPassed, cat.Summary.Passed)
			assert.Equal(t, tt.wantFailed, cat.Summary.Failed)
			assert.Equal(t, cat.Summary.Total, cat.Summary.Passed+cat.Summary.Failed)
			assert.Len(t, cat.Results, cat.Summary.Total)
		})
	}
}

func TestPassPolicies(t *testing.T) {
	tests := []struct {
		name   string
		policy PassPolicy
		counts SummaryCounts
		want   bool
	}{
		{"all-pass clean", AllPass, SummaryCounts{Total: 3, Passed: 3}, true},
		{"all-pass one failure", AllPass, SummaryCounts{Total: 3, Passed: 2, Failed: 1}, false},
		{"tolerate-one clean", TolerateOne, SummaryCounts{Total: 3, Passed: 3}, true},
		{"tolerate-one exactly one", TolerateOne, SummaryCounts{Total: 3, Passed: 2, Failed: 1}, true},
		{"tolerate-one two failures", TolerateOne, SummaryCounts{Total: 3, Passed: 1, Failed: 2}, false},
		{"min-rate at boundary", MinRate(0.9), SummaryCounts{Total: 10, Passed: 9, Failed: 1}, true},
		{"min-rate below boundary", MinRate(0.9), SummaryCounts{Total: 10, Passed: 8, Failed: 2}, false},
		{"min-rate empty passes", MinRate(0.9), SummaryCounts{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.policy.Evaluate(tt.counts))
		})
	}
}

func TestOutcome_Matches(t *testing.T) {
	opErr := errors.New("boom")
	tests := []struct {
		name   string
		expect Outcome
		failed bool
		err    error
		want   bool
	}{
		{"success observed clean", ExpectSuccess, false, nil, true},
		{"success observed app failure", ExpectSuccess, true, nil, false},
		{"success observed error", ExpectSuccess, false, opErr, false},
		{"failure observed app failure", ExpectFailure, true, nil, true},
		{"failure observed clean", ExpectFailure, false, nil, false},
		{"failure observed error", ExpectFailure, true, opErr, false},
		{"error observed error", ExpectError, false, opErr, true},
		{"error observed clean", ExpectError, false, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.expect.Matches(tt.failed, tt.err))
		})
	}
}

func TestBuildModuleReport(t *testing.T) {
	started := time.Now().Add(-time.Second)
	categories := []CategorySummary{
		Summarize("good", AllPass, []TestResult{{Name: "a", Passed: true}, {Name: "b", Passed: true}}),
		Summarize("bad", AllPass, []TestResult{{Name: "c", Passed: true}, {Name: "d", Message: "broke"}}),
	}

	report := BuildModuleReport("functional", categories, started)

	assert.Equal(t, "functional", report.Module)
	assert.Equal(t, 4, report.Totals.TotalTests)
	assert.Equal(t, 3, report.Totals.Passed)
	assert.Equal(t, 1, report.Totals.Failed)
	assert.False(t, report.Passed, "a failing category fails the module")
	assert.InDelta(t, 75.0, report.Score, 0.01)
	require.Len(t, report.Issues, 1)
	assert.Contains(t, report.Issues[0].Message, "broke")
	assert.False(t, report.GeneratedAt.IsZero())
	assert.Greater(t, report.Duration, time.Duration(0))
}

func TestFailedModuleReport(t *testing.T) {
	report := FailedModuleReport("security", errors.New("endpoint unreachable"), time.Now())

	assert.Equal(t, "security", report.Module)
	assert.False(t, report.Passed)
	assert.Equal(t, "endpoint unreachable", report.Err)
	require.Len(t, report.Issues, 1)
	assert.Equal(t, "error", report.Issues[0].Severity)
}
