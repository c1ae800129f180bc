package config

import "time"

const (
	// DefaultTimeout is the per-request API timeout.
	DefaultTimeout = 30 * time.Second
	// DefaultHistoryDir is where run summaries are stored.
	DefaultHistoryDir = "storage/history"
	// DefaultHistoryLimit caps the retained run history.
	DefaultHistoryLimit = 10
	// DefaultRegressionThreshold is the score drop (in percentage
	// points) that flags a regression against the previous run.
	DefaultRegressionThreshold = 5.0
	// DefaultMonitorInterval is the delay between monitor-mode runs.
	DefaultMonitorInterval = 5 * time.Minute
	// DefaultQueueFile holds the offline transaction queue.
	DefaultQueueFile = "storage/offline-queue.json"
)

// DefaultModules are the modules a plain `run` executes, in report
// order.
var DefaultModules = []string{
	"functional",
	"performance",
	"cross-browser",
	"accessibility",
	"security",
	"error-handling",
	"data-integrity",
	"offline",
}

// ModuleThresholds are the per-module score thresholds the
// orchestrator's pass predicates use. They differ on purpose: each
// module declares its own bar.
var ModuleThresholds = map[string]float64{
	"accessibility": 95,
	"performance":   90,
	"cross-browser": 90,
}
