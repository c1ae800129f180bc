package commands

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"poscheck/internal/api"
	"poscheck/internal/config"
	"poscheck/internal/execution"
	"poscheck/internal/report"
	"poscheck/internal/storage"
	"poscheck/internal/suite"
)

// MonitorCommand repeatedly runs every module on an interval until
// interrupted.
type MonitorCommand struct {
	config   *config.Config
	history  storage.History
	terminal *report.Terminal
}

// NewMonitorCommand creates a new MonitorCommand
func NewMonitorCommand(cfg *config.Config, history storage.History, terminal *report.Terminal) *MonitorCommand {
	return &MonitorCommand{
		config:   cfg,
		history:  history,
		terminal: terminal,
	}
}

// Execute runs the command
func (mc *MonitorCommand) Execute(cmd *cobra.Command, args []string) error {
	if mc.config.APIURL == "" {
		return fmt.Errorf("%w: set POS_API_URL", api.ErrNotConfigured)
	}

	interval := mc.config.Flags.Interval
	if interval <= 0 {
		interval = config.DefaultMonitorInterval
	}

	logger, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("monitor started", zap.Duration("interval", interval))

	// First run happens immediately; the ticker paces the rest.
	for {
		if err := mc.runOnce(ctx, logger); err != nil {
			logger.Error("monitor run failed", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			logger.Info("monitor stopped")
			return nil
		case <-time.After(interval):
		}
	}
}

func (mc *MonitorCommand) runOnce(ctx context.Context, logger *zap.Logger) error {
	modules, err := suite.ForNames(mc.config.GetModules(), suite.Deps{
		Client:    newAPIClient(mc.config),
		Config:    mc.config,
		QueuePath: mc.config.GetQueuePath(),
	})
	if err != nil {
		return err
	}

	orchestrator := execution.NewOrchestrator(mc.config, modules, mc.history, logger)
	summary, err := orchestrator.Run(ctx)
	if err != nil {
		return err
	}

	logger.Info("run complete",
		zap.String("run", runTimestamp(summary.Timestamp)),
		zap.Bool("overall_passed", summary.OverallPassed),
		zap.Int("issues", len(summary.Issues)),
		zap.Duration("duration", summary.TotalExecutionTime))

	previousRuns, err := mc.history.Load(2)
	if err == nil && len(previousRuns) == 2 {
		for _, r := range execution.DetectRegressions(previousRuns[1], summary, mc.config.RegressionThreshold) {
			logger.Warn("regression detected",
				zap.String("module", r.Module),
				zap.Float64("previous", r.Previous),
				zap.Float64("current", r.Current))
		}
	}
	return nil
}
