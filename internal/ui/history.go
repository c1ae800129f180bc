package ui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"poscheck/internal/domain"
)

// HistoryViewer browses stored run summaries in an interactive TUI:
// runs on the left, the selected run's breakdown on the right.
type HistoryViewer struct{}

// NewHistoryViewer creates a history viewer.
func NewHistoryViewer() *HistoryViewer { return &HistoryViewer{} }

// View opens the TUI over the given summaries (newest first).
func (hv *HistoryViewer) View(summaries []*domain.ComprehensiveSummary) error {
	if len(summaries) == 0 {
		color.Yellow("No stored test runs")
		return nil
	}

	app := tview.NewApplication()

	list := tview.NewList().
		ShowSecondaryText(true).
		SetHighlightFullLine(true)
	list.SetMainTextColor(tview.Styles.PrimaryTextColor).
		SetSelectedTextColor(tcell.ColorWhite).
		SetSelectedBackgroundColor(tcell.ColorDarkCyan)
	list.SetBorder(true).SetTitle(" Runs (q to quit) ")

	details := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(true).
		SetWordWrap(true)
	details.SetBorder(true).SetTitle(" Details ")

	for _, summary := range summaries {
		verdict := "[green]PASSED[white]"
		if !summary.OverallPassed {
			verdict = "[red]FAILED[white]"
		}
		list.AddItem(
			summary.Timestamp.Format("2006-01-02 15:04:05")+"  "+verdict,
			fmt.Sprintf("%d modules, %d issues", len(summary.TestsRun), len(summary.Issues)),
			0, nil)
	}

	showDetails := func(index int) {
		if index < 0 || index >= len(summaries) {
			return
		}
		details.SetText(renderSummaryDetails(summaries[index]))
		details.ScrollToBeginning()
	}
	list.SetChangedFunc(func(index int, string1, string2 string, r rune) {
		showDetails(index)
	})
	showDetails(0)

	flex := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(list, 0, 1, true).
		AddItem(details, 0, 2, false)

	app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Rune() == 'q' || event.Key() == tcell.KeyEscape {
			app.Stop()
			return nil
		}
		return event
	})

	return app.SetRoot(flex, true).Run()
}

func renderSummaryDetails(summary *domain.ComprehensiveSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[yellow]Run:[white] %s\n", summary.Timestamp.Format(time.RFC3339))
	fmt.Fprintf(&b, "[yellow]Duration:[white] %s\n", summary.TotalExecutionTime.Round(time.Millisecond))
	if summary.OverallPassed {
		b.WriteString("[yellow]Overall:[green] PASSED[white]\n\n")
	} else {
		b.WriteString("[yellow]Overall:[red] FAILED[white]\n\n")
	}

	modules := make([]string, 0, len(summary.Reports))
	for name := range summary.Reports {
		modules = append(modules, name)
	}
	sort.Strings(modules)

	for _, name := range modules {
		module := summary.Reports[name]
		mark := "[green]✓[white]"
		if module.Err != "" || !module.Passed {
			mark = "[red]✗[white]"
		}
		fmt.Fprintf(&b, "%s %s — %.0f%% (%d/%d)\n",
			mark, module.Module, module.Score, module.Totals.Passed, module.Totals.TotalTests)
		if module.Err != "" {
			fmt.Fprintf(&b, "    [red]%s[white]\n", module.Err)
		}
		for _, cat := range module.Categories {
			if cat.Passed {
				continue
			}
			fmt.Fprintf(&b, "    [red]✗ %s (%d/%d)[white]\n", cat.Name, cat.Summary.Passed, cat.Summary.Total)
			for _, failedResult := range cat.FailedResults() {
				msg := failedResult.Message
				if msg == "" {
					msg = failedResult.Err
				}
				fmt.Fprintf(&b, "        %s: %s\n", failedResult.Name, tview.Escape(msg))
			}
		}
	}

	if len(summary.Recommendations) > 0 {
		b.WriteString("\n[yellow]Recommendations:[white]\n")
		for _, rec := range summary.Recommendations {
			fmt.Fprintf(&b, "  • %s\n", tview.Escape(rec))
		}
	}
	return b.String()
}
