package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"poscheck/internal/domain"
)

// WriteCSV renders the summary as one row per module: type, status,
// score, issue count, timestamp.
func WriteCSV(w io.Writer, summary *domain.ComprehensiveSummary) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"type", "status", "score", "issues", "timestamp"}); err != nil {
		return fmt.Errorf("write CSV header: %w", err)
	}

	timestamp := summary.Timestamp.Format(time.RFC3339)
	for _, name := range sortedModules(summary) {
		module := summary.Reports[name]
		status := "passed"
		switch {
		case module.Err != "":
			status = "error"
		case !module.Passed:
			status = "failed"
		}
		row := []string{
			module.Module,
			status,
			strconv.FormatFloat(module.Score, 'f', 1, 64),
			strconv.Itoa(len(module.Issues)),
			timestamp,
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write CSV row: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}
