package suite

import (
	"context"
	"regexp"
	"strings"
	"time"

	"poscheck/internal/domain"
)

// Accessibility fetches the dashboard HTML and probes its markup for
// the checks a screen reader or keyboard user depends on.
type Accessibility struct {
	deps Deps
}

// NewAccessibility returns the accessibility test module.
func NewAccessibility(deps Deps) *Accessibility { return &Accessibility{deps: deps} }

// Name implements Module.
func (m *Accessibility) Name() string { return "accessibility" }

var (
	imgTagRe   = regexp.MustCompile(`(?is)<img\b[^>]*>`)
	altAttrRe  = regexp.MustCompile(`(?is)\balt\s*=`)
	inputTagRe = regexp.MustCompile(`(?is)<input\b[^>]*>`)
	idAttrRe   = regexp.MustCompile(`(?is)\bid\s*=\s*["']([^"']+)["']`)
	langAttrRe = regexp.MustCompile(`(?is)<html\b[^>]*\blang\s*=`)
	h1TagRe    = regexp.MustCompile(`(?is)<h1\b`)
)

// Run fetches the dashboard once and evaluates the markup checks.
func (m *Accessibility) Run(ctx context.Context) (*domain.ModuleReport, error) {
	started := time.Now()
	page, err := m.deps.Client.Get(ctx, m.deps.Config.DashboardURL)

	scenarios := []Scenario{
		{
			Name:        "dashboard page loads",
			Requirement: "dashboard URL serves HTML",
			Expect:      domain.ExpectSuccess,
			Op: func(context.Context) (bool, string, error) {
				if err != nil {
					return false, "", err
				}
				return page == "", "empty page body", nil
			},
		},
		m.markupCheck("images carry alt text", "every img has an alt attribute", page, err, func(html string) (bool, string) {
			for _, tag := range imgTagRe.FindAllString(html, -1) {
				if !altAttrRe.MatchString(tag) {
					return true, "img without alt: " + truncate(tag, 80)
				}
			}
			return false, ""
		}),
		m.markupCheck("form inputs are labelable", "every input has an id a label can reference", page, err, func(html string) (bool, string) {
			for _, tag := range inputTagRe.FindAllString(html, -1) {
				if strings.Contains(strings.ToLower(tag), `type="hidden"`) {
					continue
				}
				if !idAttrRe.MatchString(tag) {
					return true, "input without id: " + truncate(tag, 80)
				}
			}
			return false, ""
		}),
		m.markupCheck("document declares a language", "html element carries lang", page, err, func(html string) (bool, string) {
			if !langAttrRe.MatchString(html) {
				return true, "missing lang attribute on <html>"
			}
			return false, ""
		}),
		m.markupCheck("page has a top-level heading", "an h1 anchors the heading structure", page, err, func(html string) (bool, string) {
			if !h1TagRe.MatchString(html) {
				return true, "no <h1> found"
			}
			return false, ""
		}),
		m.markupCheck("viewport is configured", "meta viewport enables mobile zoom/scale", page, err, func(html string) (bool, string) {
			if !strings.Contains(strings.ToLower(html), `name="viewport"`) {
				return true, "missing viewport meta"
			}
			return false, ""
		}),
	}

	categories := []domain.CategorySummary{
		domain.Summarize("dashboardMarkup", domain.AllPass, runScenarios(ctx, scenarios)),
	}
	return domain.BuildModuleReport(m.Name(), categories, started), nil
}

// markupCheck wraps a pure markup probe, reusing the single page fetch.
func (m *Accessibility) markupCheck(name, requirement, page string, fetchErr error, check func(html string) (bool, string)) Scenario {
	return Scenario{
		Name:        name,
		Requirement: requirement,
		Expect:      domain.ExpectSuccess,
		Op: func(context.Context) (bool, string, error) {
			if fetchErr != nil {
				return false, "", fetchErr
			}
			failed, msg := check(page)
			return failed, msg, nil
		},
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
