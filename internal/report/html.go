package report

import (
	"fmt"
	"html/template"
	"io"

	"poscheck/internal/domain"
)

// htmlTemplate renders the summary as cards plus per-module tables.
var htmlTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>POS Test Report</title>
<style>
body { font-family: system-ui, sans-serif; margin: 2rem; background: #f5f6f8; }
h1 { margin-bottom: 0.25rem; }
.meta { color: #666; margin-bottom: 1.5rem; }
.cards { display: flex; gap: 1rem; flex-wrap: wrap; margin-bottom: 2rem; }
.card { background: #fff; border-radius: 8px; padding: 1rem 1.5rem; box-shadow: 0 1px 3px rgba(0,0,0,0.12); min-width: 10rem; }
.card .value { font-size: 1.8rem; font-weight: 600; }
.passed { color: #1a7f37; }
.failed { color: #cf222e; }
table { border-collapse: collapse; width: 100%; background: #fff; margin-bottom: 2rem; }
th, td { text-align: left; padding: 0.5rem 0.75rem; border-bottom: 1px solid #e1e4e8; }
th { background: #eaeef2; }
.recommendations { background: #fff8c5; border-radius: 8px; padding: 1rem 1.5rem; }
</style>
</head>
<body>
<h1>POS Test Report</h1>
<p class="meta">Generated {{.Summary.Timestamp.Format "2006-01-02 15:04:05"}} · {{.Summary.TotalExecutionTime}} total</p>

<div class="cards">
  <div class="card"><div>Overall</div>
    <div class="value {{if .Summary.OverallPassed}}passed{{else}}failed{{end}}">
      {{if .Summary.OverallPassed}}PASSED{{else}}FAILED{{end}}</div></div>
  <div class="card"><div>Modules</div><div class="value">{{len .Summary.TestsRun}}</div></div>
  <div class="card"><div>Issues</div><div class="value">{{len .Summary.Issues}}</div></div>
</div>

<table>
<tr><th>Module</th><th>Status</th><th>Score</th><th>Tests</th><th>Issues</th></tr>
{{range .Modules}}
<tr>
  <td>{{.Module}}</td>
  <td class="{{if .Passed}}passed{{else}}failed{{end}}">{{if .Err}}error{{else if .Passed}}passed{{else}}failed{{end}}</td>
  <td>{{printf "%.0f%%" .Score}}</td>
  <td>{{.Totals.Passed}}/{{.Totals.TotalTests}}</td>
  <td>{{len .Issues}}</td>
</tr>
{{end}}
</table>

{{range .Modules}}
<h2>{{.Module}}</h2>
<table>
<tr><th>Category</th><th>Policy</th><th>Passed</th><th>Failed</th></tr>
{{range .Categories}}
<tr>
  <td class="{{if .Passed}}passed{{else}}failed{{end}}">{{.Name}}</td>
  <td>{{.Policy}}</td>
  <td>{{.Summary.Passed}}</td>
  <td>{{.Summary.Failed}}</td>
</tr>
{{end}}
</table>
{{end}}

{{if .Summary.Issues}}
<h2>Issues</h2>
<table>
<tr><th>Module</th><th>Category</th><th>Message</th></tr>
{{range .Summary.Issues}}
<tr><td>{{.Module}}</td><td>{{.Category}}</td><td>{{.Message}}</td></tr>
{{end}}
</table>
{{end}}

{{if .Summary.Recommendations}}
<div class="recommendations">
<h2>Recommendations</h2>
<ul>
{{range .Summary.Recommendations}}<li>{{.}}</li>{{end}}
</ul>
</div>
{{end}}
</body>
</html>
`))

// WriteHTML renders the summary to w as an HTML dashboard.
func WriteHTML(w io.Writer, summary *domain.ComprehensiveSummary) error {
	modules := make([]domain.ModuleReport, 0, len(summary.Reports))
	for _, name := range sortedModules(summary) {
		modules = append(modules, summary.Reports[name])
	}

	data := struct {
		Summary *domain.ComprehensiveSummary
		Modules []domain.ModuleReport
	}{Summary: summary, Modules: modules}

	if err := htmlTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("render HTML report: %w", err)
	}
	return nil
}
