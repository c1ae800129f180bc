package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the harness.
type Config struct {
	// API settings
	APIURL       string
	DashboardURL string
	Timeout      time.Duration

	// History settings
	HistoryDir          string
	HistoryLimit        int
	RegressionThreshold float64

	// Optional MySQL history backend; empty DSN keeps the file store.
	MySQLDSN string

	// Offline queue file
	QueueFile string

	// Command flags
	Flags Flags
}

// Flags holds command-line flags shared across commands.
type Flags struct {
	Modules  []string
	Timeout  time.Duration
	Interval time.Duration
	Limit    int
	CI       bool
	Format   string
	Output   string
}

// New creates a Config with defaults, overlaid with .env and
// environment variables.
func New() *Config {
	// .env is optional; environment variables win either way.
	_ = godotenv.Load()

	cfg := &Config{
		APIURL:              os.Getenv("POS_API_URL"),
		DashboardURL:        os.Getenv("POS_DASHBOARD_URL"),
		Timeout:             DefaultTimeout,
		HistoryDir:          DefaultHistoryDir,
		HistoryLimit:        DefaultHistoryLimit,
		RegressionThreshold: DefaultRegressionThreshold,
		MySQLDSN:            os.Getenv("POSCHECK_MYSQL_DSN"),
		QueueFile:           DefaultQueueFile,
	}

	if dir := os.Getenv("POSCHECK_HISTORY_DIR"); dir != "" {
		cfg.HistoryDir = dir
	}
	if limit := os.Getenv("POSCHECK_HISTORY_LIMIT"); limit != "" {
		if n, err := strconv.Atoi(limit); err == nil && n > 0 {
			cfg.HistoryLimit = n
		}
	}
	if threshold := os.Getenv("POSCHECK_REGRESSION_THRESHOLD"); threshold != "" {
		if f, err := strconv.ParseFloat(threshold, 64); err == nil && f >= 0 {
			cfg.RegressionThreshold = f
		}
	}
	return cfg
}

// GetTimeout returns the request timeout, using the flag if provided.
func (c *Config) GetTimeout() time.Duration {
	if c.Flags.Timeout > 0 {
		return c.Flags.Timeout
	}
	return c.Timeout
}

// GetModules returns the module selection, defaulting to all.
func (c *Config) GetModules() []string {
	if len(c.Flags.Modules) > 0 {
		return c.Flags.Modules
	}
	modules := make([]string, len(DefaultModules))
	copy(modules, DefaultModules)
	return modules
}

// GetHistoryDir resolves the history directory to an absolute path so
// run and history commands read the same store regardless of cwd.
func (c *Config) GetHistoryDir() string {
	if abs, err := filepath.Abs(c.HistoryDir); err == nil {
		return abs
	}
	return c.HistoryDir
}

// GetQueuePath resolves the offline queue file path.
func (c *Config) GetQueuePath() string {
	if abs, err := filepath.Abs(c.QueueFile); err == nil {
		return abs
	}
	return c.QueueFile
}
