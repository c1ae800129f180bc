package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"poscheck/internal/domain"
)

func sampleSummary() *domain.ComprehensiveSummary {
	return &domain.ComprehensiveSummary{
		Timestamp:          time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC),
		TotalExecutionTime: 42 * time.Second,
		TestsRun:           []string{"accessibility", "functional", "security"},
		OverallPassed:      false,
		Scores: map[string]float64{
			"functional":    100,
			"accessibility": 82.5,
			"security":      0,
		},
		Issues: []domain.Issue{
			{Module: "accessibility", Category: "dashboardMarkup", Message: "images without alt text"},
		},
		Recommendations: []string{"accessibility score below threshold: 82.5% (required 95%)"},
		Reports: map[string]domain.ModuleReport{
			"functional": {
				Module: "functional",
				Score:  100,
				Passed: true,
				Totals: domain.ModuleTotals{TotalTests: 12, Passed: 12},
			},
			"accessibility": {
				Module: "accessibility",
				Score:  82.5,
				Totals: domain.ModuleTotals{TotalTests: 8, Passed: 6, Failed: 2},
				Issues: []domain.Issue{
					{Module: "accessibility", Category: "dashboardMarkup", Message: "images without alt text"},
				},
			},
			"security": {
				Module: "security",
				Err:    "API URL not configured",
				Issues: []domain.Issue{{Module: "security", Message: "API URL not configured", Severity: "error"}},
			},
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleSummary()))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4, "header plus one row per module")

	assert.Equal(t, []string{"type", "status", "score", "issues", "timestamp"}, rows[0])
	assert.Equal(t, []string{"accessibility", "failed", "82.5", "1", "2026-03-10T12:00:00Z"}, rows[1])
	assert.Equal(t, []string{"functional", "passed", "100.0", "0", "2026-03-10T12:00:00Z"}, rows[2])
	assert.Equal(t, []string{"security", "error", "0.0", "1", "2026-03-10T12:00:00Z"}, rows[3])
}

func TestWriteHTML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteHTML(&buf, sampleSummary()))

	html := buf.String()
	assert.Contains(t, html, "<title>POS Test Report</title>")
	assert.Contains(t, html, "FAILED")
	assert.Contains(t, html, "accessibility")
	assert.Contains(t, html, "images without alt text")
	assert.Contains(t, html, "accessibility score below threshold")
	assert.True(t, strings.Contains(html, "6/8"), "module table shows pass counts")

	// Module rows are sorted by name.
	assert.Less(t, strings.Index(html, "<td>accessibility</td>"), strings.Index(html, "<td>functional</td>"))
	assert.Less(t, strings.Index(html, "<td>functional</td>"), strings.Index(html, "<td>security</td>"))
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sampleSummary()))

	var decoded domain.ComprehensiveSummary
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))

	assert.False(t, decoded.OverallPassed)
	assert.Equal(t, 82.5, decoded.Scores["accessibility"])
	assert.Len(t, decoded.Reports, 3)
	assert.Equal(t, "API URL not configured", decoded.Reports["security"].Err)
}
