package report

import (
	"encoding/json"
	"fmt"
	"io"

	"poscheck/internal/domain"
)

// WriteJSON serializes the summary directly.
func WriteJSON(w io.Writer, summary *domain.ComprehensiveSummary) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(summary); err != nil {
		return fmt.Errorf("encode JSON report: %w", err)
	}
	return nil
}
