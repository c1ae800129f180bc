package execution

import (
	"fmt"

	"poscheck/internal/domain"
)

// Regression records a module whose score dropped by more than the
// threshold between two runs.
type Regression struct {
	Module   string  `json:"module"`
	Previous float64 `json:"previous"`
	Current  float64 `json:"current"`
}

func (r Regression) String() string {
	return fmt.Sprintf("%s regressed from %.1f%% to %.1f%%", r.Module, r.Previous, r.Current)
}

// DetectRegressions compares the current run against the previous one.
// The check is one-sided: only a drop strictly beyond threshold flags;
// ties, improvements and modules absent from either run never do.
func DetectRegressions(previous, current *domain.ComprehensiveSummary, threshold float64) []Regression {
	if previous == nil || current == nil {
		return nil
	}
	var regressions []Regression
	for module, currentScore := range current.Scores {
		previousScore, ok := previous.Scores[module]
		if !ok {
			continue
		}
		if currentScore < previousScore-threshold {
			regressions = append(regressions, Regression{
				Module:   module,
				Previous: previousScore,
				Current:  currentScore,
			})
		}
	}
	return regressions
}

// MissingModules returns the required modules absent from the summary.
func MissingModules(summary *domain.ComprehensiveSummary, required []string) []string {
	var missing []string
	for _, name := range required {
		if _, ok := summary.Reports[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}
