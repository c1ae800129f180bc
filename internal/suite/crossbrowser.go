package suite

import (
	"context"
	"fmt"
	"time"

	"poscheck/internal/domain"
)

// browserProfile pairs a browser name with the User-Agent the API is
// probed under.
type browserProfile struct {
	name      string
	userAgent string
}

var browserProfiles = []browserProfile{
	{"chrome", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0 Safari/537.36"},
	{"firefox", "Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:127.0) Gecko/20100101 Firefox/127.0"},
	{"safari", "Mozilla/5.0 (Macintosh; Intel Mac OS X 14_5) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.5 Safari/605.1.15"},
	{"edge", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0 Safari/537.36 Edg/126.0"},
	{"chrome-android", "Mozilla/5.0 (Linux; Android 14; Pixel 8) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0 Mobile Safari/537.36"},
	{"safari-ios", "Mozilla/5.0 (iPhone; CPU iPhone OS 17_5 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.5 Mobile/15E148 Safari/604.1"},
}

// CrossBrowser probes the API under each supported browser's
// User-Agent. The category passes on a 90% success rate, since one
// exotic profile failing should not fail the build alone.
type CrossBrowser struct {
	deps Deps
}

// NewCrossBrowser returns the cross-browser test module.
func NewCrossBrowser(deps Deps) *CrossBrowser { return &CrossBrowser{deps: deps} }

// Name implements Module.
func (m *CrossBrowser) Name() string { return "cross-browser" }

// Run executes the user-agent matrix against bootstrap and search.
func (m *CrossBrowser) Run(ctx context.Context) (*domain.ModuleReport, error) {
	started := time.Now()
	categories := []domain.CategorySummary{
		m.testBootstrapAcrossBrowsers(ctx),
		m.testSearchAcrossBrowsers(ctx),
	}
	return domain.BuildModuleReport(m.Name(), categories, started), nil
}

func (m *CrossBrowser) testBootstrapAcrossBrowsers(ctx context.Context) domain.CategorySummary {
	return domain.Summarize("bootstrapAcrossBrowsers", domain.MinRate(0.9),
		runScenarios(ctx, m.matrix("getBootstrapData", nil)))
}

func (m *CrossBrowser) testSearchAcrossBrowsers(ctx context.Context) domain.CategorySummary {
	return domain.Summarize("searchAcrossBrowsers", domain.MinRate(0.9),
		runScenarios(ctx, m.matrix("searchIngredients", map[string]string{"query": "milk"})))
}

func (m *CrossBrowser) matrix(action string, params map[string]string) []Scenario {
	client := m.deps.Client
	scenarios := make([]Scenario, 0, len(browserProfiles))
	for _, profile := range browserProfiles {
		profile := profile
		scenarios = append(scenarios, Scenario{
			Name:        fmt.Sprintf("%s via %s", action, profile.name),
			Requirement: "API behaves identically across supported browsers",
			Expect:      domain.ExpectSuccess,
			Op: func(ctx context.Context) (bool, string, error) {
				resp, err := client.CallWithHeaders(ctx, action, params,
					map[string]string{"User-Agent": profile.userAgent})
				if err != nil {
					return false, "", err
				}
				return !resp.OK(), resp.Message, nil
			},
		})
	}
	return scenarios
}
