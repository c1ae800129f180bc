package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"poscheck/internal/config"
	"poscheck/internal/report"
	"poscheck/internal/storage"
)

// ReportCommand renders the latest stored summary.
type ReportCommand struct {
	config  *config.Config
	history storage.History
}

// NewReportCommand creates a new ReportCommand
func NewReportCommand(cfg *config.Config, history storage.History) *ReportCommand {
	return &ReportCommand{config: cfg, history: history}
}

// Execute runs the command
func (rc *ReportCommand) Execute(cmd *cobra.Command, args []string) error {
	summary, err := rc.history.Latest()
	if err != nil {
		return fmt.Errorf("load latest summary: %w", err)
	}
	if summary == nil {
		return fmt.Errorf("no stored test runs; run `poscheck run` first")
	}

	out, closeOut, err := openOutput(rc.config.Flags.Output)
	if err != nil {
		return err
	}
	defer closeOut()

	switch rc.config.Flags.Format {
	case "html", "":
		return report.WriteHTML(out, summary)
	case "csv":
		return report.WriteCSV(out, summary)
	case "json":
		return report.WriteJSON(out, summary)
	default:
		return fmt.Errorf("unknown report format %q (want html, csv or json)", rc.config.Flags.Format)
	}
}
