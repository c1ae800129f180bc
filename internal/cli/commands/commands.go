package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"poscheck/internal/api"
	"poscheck/internal/cli"
	"poscheck/internal/config"
	"poscheck/internal/report"
	"poscheck/internal/storage"
	"poscheck/internal/ui"
)

// Commands holds all CLI commands
type Commands struct {
	Run     *RunCommand
	Monitor *MonitorCommand
	History *HistoryCommand
	Report  *ReportCommand
}

// NewCommands creates all commands with dependencies
func NewCommands(cfg *config.Config) (*Commands, error) {
	history, err := storage.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("open history store: %w", err)
	}
	terminal := report.NewTerminal()
	viewer := ui.NewHistoryViewer()

	return &Commands{
		Run:     NewRunCommand(cfg, history, terminal),
		Monitor: NewMonitorCommand(cfg, history, terminal),
		History: NewHistoryCommand(cfg, history, viewer),
		Report:  NewReportCommand(cfg, history),
	}, nil
}

// newAPIClient builds the API client at execute time, after cobra has
// populated cfg.Flags, so a --timeout flag actually reaches requests.
func newAPIClient(cfg *config.Config) *api.Client {
	return api.NewClient(cfg.APIURL, api.WithTimeout(cfg.GetTimeout()))
}

// Register registers all commands with cobra
func (c *Commands) Register(rootCmd *cobra.Command, flags *cli.Flags, cfg *config.Config) {
	// Run command
	runCmd := &cobra.Command{
		Use:   "run [module...]",
		Short: "Run test modules against the POS API",
		Long: "Execute the selected test modules (default: all) against the configured " +
			"POS API endpoint and store the run summary in history.",
		RunE: c.Run.Execute,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			flags.Modules = args
			cfg.Flags = flags.ToConfigFlags()
			return nil
		},
	}
	runCmd.Flags().DurationVarP(&flags.Timeout, "timeout", "t", 0, "Per-request API timeout (default 30s)")
	runCmd.Flags().BoolVar(&flags.CI, "ci", false, "CI mode: exit 1 on failure, missing modules or regression")
	rootCmd.AddCommand(runCmd)

	// Monitor command
	monitorCmd := &cobra.Command{
		Use:   "monitor",
		Short: "Run all modules repeatedly on an interval",
		Long:  "Start an interval-based repeating run of every module, logging each summary.",
		RunE:  c.Monitor.Execute,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			cfg.Flags = flags.ToConfigFlags()
			return nil
		},
	}
	monitorCmd.Flags().DurationVarP(&flags.Interval, "interval", "i", config.DefaultMonitorInterval, "Delay between runs")
	rootCmd.AddCommand(monitorCmd)

	// History command
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Browse stored run summaries",
		Long:  "Display the bounded run history, interactively or as a plain list.",
		RunE:  c.History.Execute,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			cfg.Flags = flags.ToConfigFlags()
			return nil
		},
	}
	historyCmd.Flags().IntVarP(&flags.Limit, "limit", "l", 0, "Most recent entries to show (default: the retention cap)")
	historyCmd.Flags().BoolVar(&c.History.plain, "plain", false, "Print a plain list instead of the interactive viewer")
	rootCmd.AddCommand(historyCmd)

	// Report command
	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Render the latest run summary",
		Long:  "Render the most recent stored run summary as HTML, CSV or JSON.",
		RunE:  c.Report.Execute,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			cfg.Flags = flags.ToConfigFlags()
			return nil
		},
	}
	reportCmd.Flags().StringVarP(&flags.Format, "format", "f", "html", "Output format: html, csv or json")
	reportCmd.Flags().StringVarP(&flags.Output, "output", "o", "", "Output file (default stdout)")
	rootCmd.AddCommand(reportCmd)
}

// openOutput returns the report writer, stdout when no path is set.
func openOutput(path string) (*os.File, func(), error) {
	if path == "" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("create output file: %w", err)
	}
	return f, func() { f.Close() }, nil
}

// runTimestamp formats a run time for log lines.
func runTimestamp(t time.Time) string {
	return t.Format("2006-01-02 15:04:05")
}
