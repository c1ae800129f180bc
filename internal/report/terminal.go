package report

import (
	"fmt"
	"sort"
	"time"

	"github.com/fatih/color"

	"poscheck/internal/domain"
)

// Terminal renders a run summary as a colored console report.
type Terminal struct{}

// NewTerminal creates a terminal renderer.
func NewTerminal() *Terminal { return &Terminal{} }

// Print displays the summary table and per-module breakdown.
func (t *Terminal) Print(summary *domain.ComprehensiveSummary) {
	fmt.Print("\n")
	color.Cyan("╔═══════════════════════════════════════════════════════════════╗")
	color.Cyan("║                     POS Test Run Summary                      ║")
	color.Cyan("╚═══════════════════════════════════════════════════════════════╝\n")

	fmt.Println("┌─────────────────────────────────┬─────────────────────────────┐")
	t.row("Modules Run", color.WhiteString("%-27d", len(summary.TestsRun)))
	fmt.Println("├─────────────────────────────────┼─────────────────────────────┤")
	t.row("Execution Time", color.WhiteString("%-27s", summary.TotalExecutionTime.Round(time.Millisecond)))
	fmt.Println("├─────────────────────────────────┼─────────────────────────────┤")
	t.row("Issues", color.RedString("%-27d", len(summary.Issues)))
	fmt.Println("├─────────────────────────────────┼─────────────────────────────┤")
	if summary.OverallPassed {
		t.row("Overall", color.GreenString("%-27s", "PASSED"))
	} else {
		t.row("Overall", color.RedString("%-27s", "FAILED"))
	}
	fmt.Println("└─────────────────────────────────┴─────────────────────────────┘")
	fmt.Println()

	for _, module := range sortedModules(summary) {
		report := summary.Reports[module]
		t.printModule(report)
	}

	if len(summary.Recommendations) > 0 {
		color.Yellow("Recommendations:")
		for _, rec := range summary.Recommendations {
			color.Yellow("  • %s", rec)
		}
		fmt.Println()
	}
}

func (t *Terminal) printModule(report domain.ModuleReport) {
	if report.Err != "" {
		color.Red("✗ %s — did not complete: %s", report.Module, report.Err)
		return
	}

	header := fmt.Sprintf("%s — score %.0f%% (%d/%d)",
		report.Module, report.Score, report.Totals.Passed, report.Totals.TotalTests)
	if report.Passed {
		color.Green("✓ %s", header)
	} else {
		color.Red("✗ %s", header)
	}

	for _, cat := range report.Categories {
		mark := color.GreenString("✓")
		if !cat.Passed {
			mark = color.RedString("✗")
		}
		fmt.Printf("  %s %s (%d/%d, %s)\n", mark, cat.Name, cat.Summary.Passed, cat.Summary.Total, cat.Policy)
		for _, failedResult := range cat.FailedResults() {
			detail := failedResult.Message
			if detail == "" {
				detail = failedResult.Err
			}
			color.Red("      ✗ %s: %s", failedResult.Name, detail)
		}
	}
	fmt.Println()
}

func (t *Terminal) row(label, value string) {
	fmt.Printf("│ %-31s │ %s │\n", label, value)
}

func sortedModules(summary *domain.ComprehensiveSummary) []string {
	modules := make([]string, 0, len(summary.Reports))
	for name := range summary.Reports {
		modules = append(modules, name)
	}
	sort.Strings(modules)
	return modules
}
