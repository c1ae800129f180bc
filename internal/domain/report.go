package domain

import "time"

// ModuleTotals is the running counter a module accumulates while its
// categories execute.
type ModuleTotals struct {
	TotalTests int `json:"total_tests"`
	Passed     int `json:"passed"`
	Failed     int `json:"failed"`
	Warnings   int `json:"warnings"`
}

// Issue describes a problem surfaced by a module, kept for the
// comprehensive report and for recommendation generation.
type Issue struct {
	Module   string `json:"module"`
	Category string `json:"category,omitempty"`
	Message  string `json:"message"`
	Severity string `json:"severity,omitempty"`
}

// ModuleReport is the finalized output of one module run.
type ModuleReport struct {
	Module      string            `json:"module"`
	Categories  []CategorySummary `json:"categories"`
	Totals      ModuleTotals      `json:"totals"`
	Issues      []Issue           `json:"issues,omitempty"`
	Score       float64           `json:"score"`
	Passed      bool              `json:"passed"`
	Err         string            `json:"error,omitempty"`
	Duration    time.Duration     `json:"duration"`
	GeneratedAt time.Time         `json:"generated_at"`
}

// BuildModuleReport folds category summaries into a finalized report.
// Score is the overall scenario pass rate in percent; Passed is the
// AND of every category's own policy verdict.
func BuildModuleReport(module string, categories []CategorySummary, started time.Time) *ModuleReport {
	report := &ModuleReport{
		Module:      module,
		Categories:  categories,
		Duration:    time.Since(started),
		GeneratedAt: time.Now(),
		Passed:      true,
	}
	for _, cat := range categories {
		report.Totals.TotalTests += cat.Summary.Total
		report.Totals.Passed += cat.Summary.Passed
		report.Totals.Failed += cat.Summary.Failed
		if !cat.Passed {
			report.Passed = false
		}
		for _, r := range cat.FailedResults() {
			report.Issues = append(report.Issues, Issue{
				Module:   module,
				Category: cat.Name,
				Message:  r.Name + ": " + firstNonEmpty(r.Err, r.Message),
			})
		}
	}
	if report.Totals.TotalTests > 0 {
		report.Score = 100 * float64(report.Totals.Passed) / float64(report.Totals.TotalTests)
	}
	return report
}

// FailedModuleReport records a module whose run itself errored. The
// orchestrator stores it instead of aborting sibling modules.
func FailedModuleReport(module string, err error, started time.Time) *ModuleReport {
	return &ModuleReport{
		Module:      module,
		Err:         err.Error(),
		Duration:    time.Since(started),
		GeneratedAt: time.Now(),
		Issues:      []Issue{{Module: module, Message: err.Error(), Severity: "error"}},
	}
}

// ComprehensiveSummary merges every module's report into one verdict.
type ComprehensiveSummary struct {
	Timestamp          time.Time               `json:"timestamp"`
	TotalExecutionTime time.Duration           `json:"total_execution_time"`
	TestsRun           []string                `json:"tests_run"`
	OverallPassed      bool                    `json:"overall_passed"`
	Scores             map[string]float64      `json:"scores"`
	Issues             []Issue                 `json:"issues,omitempty"`
	Recommendations    []string                `json:"recommendations,omitempty"`
	Reports            map[string]ModuleReport `json:"reports"`
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
