package storage

import (
	"poscheck/internal/config"
	"poscheck/internal/domain"
)

// History persists run summaries and keeps a bounded window of them
// for regression comparison.
type History interface {
	// Save stores one run summary under a timestamp-derived key and
	// prunes entries beyond the configured cap, oldest first.
	Save(summary *domain.ComprehensiveSummary) error
	// Load returns the most recent summaries, newest first, at most
	// limit entries (limit <= 0 means the configured cap).
	Load(limit int) ([]*domain.ComprehensiveSummary, error)
	// Latest returns the most recent stored summary, or nil when the
	// history is empty.
	Latest() (*domain.ComprehensiveSummary, error)
}

// Open selects the history backend from config: MySQL when a DSN is
// configured, the file store otherwise.
func Open(cfg *config.Config) (History, error) {
	if cfg.MySQLDSN != "" {
		return OpenMySQL(cfg.MySQLDSN, cfg.HistoryLimit)
	}
	return NewFileHistory(cfg.GetHistoryDir(), cfg.HistoryLimit), nil
}
