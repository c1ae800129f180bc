// Package execution runs the test modules and merges their reports
// into one comprehensive summary.
package execution

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"poscheck/internal/config"
	"poscheck/internal/domain"
	"poscheck/internal/storage"
	"poscheck/internal/suite"
	"poscheck/internal/ui"
)

// Orchestrator owns the module set for one run. Modules execute
// concurrently; a failure inside one is captured as a failed report
// and never aborts the others.
type Orchestrator struct {
	cfg      *config.Config
	modules  []suite.Module
	history  storage.History
	logger   *zap.Logger
	progress *ui.ProgressBar
}

// NewOrchestrator wires the orchestrator. history may be nil to skip
// persistence (tests do this).
func NewOrchestrator(cfg *config.Config, modules []suite.Module, history storage.History, logger *zap.Logger) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{cfg: cfg, modules: modules, history: history, logger: logger}
}

// SetProgress attaches a progress bar updated as modules finish.
func (o *Orchestrator) SetProgress(progress *ui.ProgressBar) {
	o.progress = progress
}

// Run executes every module concurrently and folds the reports into a
// ComprehensiveSummary, which is persisted to history when one is
// configured.
func (o *Orchestrator) Run(ctx context.Context) (*domain.ComprehensiveSummary, error) {
	started := time.Now()
	reports := make([]*domain.ModuleReport, len(o.modules))

	var mu sync.Mutex
	var completed, passed, failed int

	var wg sync.WaitGroup
	for i, module := range o.modules {
		wg.Add(1)
		go func(slot int, module suite.Module) {
			defer wg.Done()
			report := o.runModule(ctx, module)
			reports[slot] = report

			mu.Lock()
			completed++
			if o.modulePassed(report) {
				passed++
			} else {
				failed++
			}
			if o.progress != nil {
				o.progress.Update(completed, passed, failed)
			}
			mu.Unlock()
		}(i, module)
	}
	wg.Wait()
	if o.progress != nil {
		o.progress.Finish()
	}

	summary := o.aggregate(reports, time.Since(started))

	if o.history != nil {
		if err := o.history.Save(summary); err != nil {
			return summary, fmt.Errorf("persist run summary: %w", err)
		}
	}
	return summary, nil
}

// runModule executes one module, converting a run error or panic into
// a failed report.
func (o *Orchestrator) runModule(ctx context.Context, module suite.Module) (report *domain.ModuleReport) {
	started := time.Now()
	defer func() {
		if r := recover(); r != nil {
			o.logger.Error("module panicked", zap.String("module", module.Name()), zap.Any("panic", r))
			report = domain.FailedModuleReport(module.Name(), fmt.Errorf("module panicked: %v", r), started)
		}
	}()

	o.logger.Debug("module starting", zap.String("module", module.Name()))
	report, err := module.Run(ctx)
	if err != nil {
		o.logger.Warn("module errored", zap.String("module", module.Name()), zap.Error(err))
		return domain.FailedModuleReport(module.Name(), err, started)
	}
	o.logger.Debug("module finished",
		zap.String("module", module.Name()),
		zap.Float64("score", report.Score),
		zap.Bool("passed", report.Passed))
	return report
}

// aggregate merges the module reports. OverallPassed is the AND of
// each module's own pass predicate; the per-module predicates differ
// on purpose (score thresholds vs. category verdicts).
func (o *Orchestrator) aggregate(reports []*domain.ModuleReport, elapsed time.Duration) *domain.ComprehensiveSummary {
	summary := &domain.ComprehensiveSummary{
		Timestamp:          time.Now(),
		TotalExecutionTime: elapsed,
		OverallPassed:      true,
		Scores:             make(map[string]float64),
		Reports:            make(map[string]domain.ModuleReport),
	}

	for _, report := range reports {
		summary.TestsRun = append(summary.TestsRun, report.Module)
		summary.Scores[report.Module] = report.Score
		summary.Reports[report.Module] = *report
		summary.Issues = append(summary.Issues, report.Issues...)

		if !o.modulePassed(report) {
			summary.OverallPassed = false
		}
		if rec := o.recommend(report); rec != "" {
			summary.Recommendations = append(summary.Recommendations, rec)
		}
	}
	sort.Strings(summary.TestsRun)
	return summary
}

// modulePassed applies the module's own pass rule: a declared score
// threshold when one exists, the category verdicts otherwise. A module
// whose run errored never passes.
func (o *Orchestrator) modulePassed(report *domain.ModuleReport) bool {
	if report.Err != "" {
		return false
	}
	if threshold, ok := config.ModuleThresholds[report.Module]; ok {
		return report.Score >= threshold
	}
	return report.Passed
}

// recommend turns a threshold breach or module error into a free-text
// recommendation for the report.
func (o *Orchestrator) recommend(report *domain.ModuleReport) string {
	if report.Err != "" {
		return fmt.Sprintf("%s module did not complete: %s", report.Module, report.Err)
	}
	if threshold, ok := config.ModuleThresholds[report.Module]; ok && report.Score < threshold {
		return fmt.Sprintf("%s score below threshold: %.0f%% (required %.0f%%), review failing checks",
			report.Module, report.Score, threshold)
	}
	if _, scored := config.ModuleThresholds[report.Module]; !scored && !report.Passed {
		return fmt.Sprintf("%s module has failing categories, review the breakdown", report.Module)
	}
	return ""
}
