package commands

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"poscheck/internal/config"
	"poscheck/internal/storage"
	"poscheck/internal/ui"
)

// HistoryCommand handles the history command
type HistoryCommand struct {
	config  *config.Config
	history storage.History
	viewer  *ui.HistoryViewer
	plain   bool
}

// NewHistoryCommand creates a new HistoryCommand
func NewHistoryCommand(cfg *config.Config, history storage.History, viewer *ui.HistoryViewer) *HistoryCommand {
	return &HistoryCommand{
		config:  cfg,
		history: history,
		viewer:  viewer,
	}
}

// Execute runs the command
func (hc *HistoryCommand) Execute(cmd *cobra.Command, args []string) error {
	summaries, err := hc.history.Load(hc.config.Flags.Limit)
	if err != nil {
		return fmt.Errorf("load history: %w", err)
	}
	if len(summaries) == 0 {
		color.Yellow("No stored test runs")
		return nil
	}

	if hc.plain {
		for _, summary := range summaries {
			verdict := color.GreenString("PASSED")
			if !summary.OverallPassed {
				verdict = color.RedString("FAILED")
			}
			fmt.Printf("%s  %s  %d modules, %d issues\n",
				runTimestamp(summary.Timestamp), verdict, len(summary.TestsRun), len(summary.Issues))
		}
		return nil
	}

	return hc.viewer.View(summaries)
}
