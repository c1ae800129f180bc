package commands

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"poscheck/internal/api"
	"poscheck/internal/config"
	"poscheck/internal/domain"
	"poscheck/internal/execution"
	"poscheck/internal/report"
	"poscheck/internal/storage"
	"poscheck/internal/suite"
	"poscheck/internal/ui"
)

// ErrCIFailed signals a CI-mode failure; main maps it to exit code 1.
var ErrCIFailed = fmt.Errorf("ci checks failed")

// RunCommand handles the run command
type RunCommand struct {
	config   *config.Config
	history  storage.History
	terminal *report.Terminal
}

// NewRunCommand creates a new RunCommand
func NewRunCommand(cfg *config.Config, history storage.History, terminal *report.Terminal) *RunCommand {
	return &RunCommand{
		config:   cfg,
		history:  history,
		terminal: terminal,
	}
}

// Execute runs the command
func (rc *RunCommand) Execute(cmd *cobra.Command, args []string) error {
	if rc.config.APIURL == "" {
		return fmt.Errorf("%w: set POS_API_URL", api.ErrNotConfigured)
	}

	// Previous summary is read before the run so the regression check
	// compares against the prior run, not this one.
	previous, err := rc.history.Latest()
	if err != nil {
		return fmt.Errorf("load previous summary: %w", err)
	}

	modules, err := suite.ForNames(rc.config.GetModules(), suite.Deps{
		Client:    newAPIClient(rc.config),
		Config:    rc.config,
		QueuePath: rc.config.GetQueuePath(),
	})
	if err != nil {
		return err
	}

	orchestrator := execution.NewOrchestrator(rc.config, modules, rc.history, nil)
	orchestrator.SetProgress(ui.NewProgressBar(len(modules)))

	summary, err := orchestrator.Run(cmd.Context())
	if err != nil {
		return err
	}

	rc.terminal.Print(summary)

	regressions := execution.DetectRegressions(previous, summary, rc.config.RegressionThreshold)
	for _, r := range regressions {
		color.Red("regression: %s", r)
	}

	if rc.config.Flags.CI {
		return rc.ciVerdict(summary, regressions)
	}
	return nil
}

// ciVerdict enforces the CI gate: overall pass, every required module
// present, no regression beyond threshold.
func (rc *RunCommand) ciVerdict(summary *domain.ComprehensiveSummary, regressions []execution.Regression) error {
	missing := execution.MissingModules(summary, rc.config.GetModules())
	switch {
	case !summary.OverallPassed:
		return fmt.Errorf("%w: overall verdict is failed", ErrCIFailed)
	case len(missing) > 0:
		return fmt.Errorf("%w: required modules missing from run: %v", ErrCIFailed, missing)
	case len(regressions) > 0:
		return fmt.Errorf("%w: %d regression(s) beyond threshold", ErrCIFailed, len(regressions))
	}
	return nil
}
