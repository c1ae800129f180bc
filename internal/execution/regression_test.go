package execution

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"poscheck/internal/domain"
)

func summaryWithScores(scores map[string]float64) *domain.ComprehensiveSummary {
	reports := make(map[string]domain.ModuleReport, len(scores))
	for name, score := range scores {
		reports[name] = domain.ModuleReport{Module: name, Score: score}
	}
	return &domain.ComprehensiveSummary{Scores: scores, Reports: reports}
}

func TestDetectRegressions_OneSided(t *testing.T) {
	tests := []struct {
		name      string
		previous  float64
		current   float64
		threshold float64
		flagged   bool
	}{
		{"drop beyond threshold", 90, 84, 5, true},
		{"drop within threshold", 90, 86, 5, false},
		{"drop exactly at threshold", 90, 85, 5, false},
		{"tie", 90, 90, 5, false},
		{"improvement", 90, 99, 5, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			previous := summaryWithScores(map[string]float64{"performance": tt.previous})
			current := summaryWithScores(map[string]float64{"performance": tt.current})

			regressions := DetectRegressions(previous, current, tt.threshold)
			if tt.flagged {
				require.Len(t, regressions, 1)
				assert.Equal(t, "performance", regressions[0].Module)
				assert.Equal(t, tt.previous, regressions[0].Previous)
				assert.Equal(t, tt.current, regressions[0].Current)
			} else {
				assert.Empty(t, regressions)
			}
		})
	}
}

func TestDetectRegressions_NewModuleNeverFlags(t *testing.T) {
	previous := summaryWithScores(map[string]float64{"functional": 100})
	current := summaryWithScores(map[string]float64{"functional": 100, "security": 10})

	assert.Empty(t, DetectRegressions(previous, current, 5))
}

func TestDetectRegressions_NilPrevious(t *testing.T) {
	current := summaryWithScores(map[string]float64{"functional": 10})
	assert.Empty(t, DetectRegressions(nil, current, 5))
}

func TestMissingModules(t *testing.T) {
	summary := summaryWithScores(map[string]float64{"functional": 100, "security": 90})

	missing := MissingModules(summary, []string{"functional", "security", "offline"})
	assert.Equal(t, []string{"offline"}, missing)

	assert.Empty(t, MissingModules(summary, []string{"functional"}))
}
