package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/go-sql-driver/mysql"

	"poscheck/internal/domain"
)

// MySQLHistory stores run summaries in a test_runs table. Retention
// semantics mirror the file store: at most limit rows, oldest evicted
// first.
type MySQLHistory struct {
	db    *sql.DB
	limit int
}

// OpenMySQL connects to the DSN and ensures the test_runs table
// exists.
func OpenMySQL(dsn string, limit int) (*MySQLHistory, error) {
	if limit <= 0 {
		limit = 10
	}
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping history database: %w", err)
	}
	h := &MySQLHistory{db: db, limit: limit}
	if err := h.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return h, nil
}

func (h *MySQLHistory) ensureSchema() error {
	_, err := h.db.Exec(`CREATE TABLE IF NOT EXISTS test_runs (
		run_key BIGINT PRIMARY KEY,
		overall_passed BOOLEAN NOT NULL,
		summary JSON NOT NULL
	)`)
	if err != nil {
		return fmt.Errorf("create test_runs table: %w", err)
	}
	return nil
}

// Close releases the database connection.
func (h *MySQLHistory) Close() error { return h.db.Close() }

// Save inserts the summary and evicts rows beyond the cap.
func (h *MySQLHistory) Save(summary *domain.ComprehensiveSummary) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}
	_, err = h.db.Exec(
		"REPLACE INTO test_runs (run_key, overall_passed, summary) VALUES (?, ?, ?)",
		summary.Timestamp.UnixMilli(), summary.OverallPassed, data,
	)
	if err != nil {
		return fmt.Errorf("insert test run: %w", err)
	}
	return h.prune()
}

// Load returns up to limit summaries, newest first. Corrupt rows are
// deleted and skipped.
func (h *MySQLHistory) Load(limit int) ([]*domain.ComprehensiveSummary, error) {
	if limit <= 0 || limit > h.limit {
		limit = h.limit
	}
	rows, err := h.db.Query(
		"SELECT run_key, summary FROM test_runs ORDER BY run_key DESC LIMIT ?", limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query test runs: %w", err)
	}
	defer rows.Close()

	var summaries []*domain.ComprehensiveSummary
	var corrupt []int64
	for rows.Next() {
		var key int64
		var data []byte
		if err := rows.Scan(&key, &data); err != nil {
			return nil, fmt.Errorf("scan test run: %w", err)
		}
		var summary domain.ComprehensiveSummary
		if err := json.Unmarshal(data, &summary); err != nil {
			corrupt = append(corrupt, key)
			continue
		}
		summaries = append(summaries, &summary)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, key := range corrupt {
		h.db.Exec("DELETE FROM test_runs WHERE run_key = ?", key)
	}
	return summaries, nil
}

// Latest returns the newest stored summary, nil when empty.
func (h *MySQLHistory) Latest() (*domain.ComprehensiveSummary, error) {
	summaries, err := h.Load(1)
	if err != nil {
		return nil, err
	}
	if len(summaries) == 0 {
		return nil, nil
	}
	return summaries[0], nil
}

func (h *MySQLHistory) prune() error {
	_, err := h.db.Exec(`DELETE FROM test_runs WHERE run_key NOT IN (
		SELECT run_key FROM (
			SELECT run_key FROM test_runs ORDER BY run_key DESC LIMIT ?
		) keep
	)`, h.limit)
	if err != nil {
		return fmt.Errorf("prune test runs: %w", err)
	}
	return nil
}
