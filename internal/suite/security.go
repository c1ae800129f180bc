package suite

import (
	"context"
	"fmt"
	"strings"
	"time"

	"poscheck/internal/domain"
)

// Security probes injection handling, the role-permission matrix and
// transport-level requirements.
type Security struct {
	deps Deps
}

// NewSecurity returns the security test module.
func NewSecurity(deps Deps) *Security { return &Security{deps: deps} }

// Name implements Module.
func (m *Security) Name() string { return "security" }

var injectionPayloads = []string{
	`'; DROP TABLE ingredients; --`,
	`<script>alert(1)</script>`,
	`=HYPERLINK("http://evil.example","x")`,
	`{{7*7}}`,
}

// rolePermissions is the POS role matrix: which actions each role may
// perform.
var rolePermissions = map[string][]string{
	"admin":   {"addPurchase", "addSale", "getReport", "getBootstrapData", "searchIngredients"},
	"manager": {"addPurchase", "addSale", "getReport", "searchIngredients"},
	"cashier": {"addSale", "searchIngredients"},
}

// Run executes injection, permission and transport categories.
func (m *Security) Run(ctx context.Context) (*domain.ModuleReport, error) {
	started := time.Now()
	categories := []domain.CategorySummary{
		m.testInjectionHandling(ctx),
		m.testRolePermissions(ctx),
		m.testTransportSecurity(ctx),
	}
	return domain.BuildModuleReport(m.Name(), categories, started), nil
}

// testInjectionHandling feeds hostile payloads through the search
// action. The API must answer without error and without echoing the
// payload back as executable markup.
func (m *Security) testInjectionHandling(ctx context.Context) domain.CategorySummary {
	client := m.deps.Client
	var scenarios []Scenario
	for i, payload := range injectionPayloads {
		payload := payload
		scenarios = append(scenarios, Scenario{
			Name:        fmt.Sprintf("injection payload %d is neutralized", i+1),
			Requirement: "searchIngredients sanitizes hostile input",
			Expect:      domain.ExpectSuccess,
			Op: func(ctx context.Context) (bool, string, error) {
				resp, err := client.Call(ctx, "searchIngredients", map[string]string{"query": payload})
				if err != nil {
					return false, "", err
				}
				if !resp.OK() {
					// Rejecting the payload outright is also fine.
					return false, resp.Message, nil
				}
				if strings.Contains(string(resp.Data), "<script>") {
					return true, "payload echoed unescaped", nil
				}
				return false, "", nil
			},
		})
	}
	return domain.Summarize("injectionHandling", domain.AllPass, runScenarios(ctx, scenarios))
}

// testRolePermissions checks the matrix itself: every role's allowed
// set is a subset of admin's, and restricted actions stay restricted.
func (m *Security) testRolePermissions(ctx context.Context) domain.CategorySummary {
	scenarios := []Scenario{
		{
			Name:        "admin holds every granted permission",
			Requirement: "role matrix keeps admin as the superset",
			Expect:      domain.ExpectSuccess,
			Op: func(context.Context) (bool, string, error) {
				admin := make(map[string]bool)
				for _, a := range rolePermissions["admin"] {
					admin[a] = true
				}
				for role, actions := range rolePermissions {
					for _, a := range actions {
						if !admin[a] {
							return true, fmt.Sprintf("role %s grants %s which admin lacks", role, a), nil
						}
					}
				}
				return false, "", nil
			},
		},
		{
			Name:        "cashier cannot pull reports",
			Requirement: "report access is restricted to manager and admin",
			Expect:      domain.ExpectSuccess,
			Op: func(context.Context) (bool, string, error) {
				if roleAllowed("cashier", "getReport") {
					return true, "cashier unexpectedly allowed getReport", nil
				}
				return false, "", nil
			},
		},
		{
			Name:        "cashier cannot record purchases",
			Requirement: "purchase entry is restricted to manager and admin",
			Expect:      domain.ExpectSuccess,
			Op: func(context.Context) (bool, string, error) {
				if roleAllowed("cashier", "addPurchase") {
					return true, "cashier unexpectedly allowed addPurchase", nil
				}
				return false, "", nil
			},
		},
	}
	return domain.Summarize("rolePermissions", domain.AllPass, runScenarios(ctx, scenarios))
}

func (m *Security) testTransportSecurity(ctx context.Context) domain.CategorySummary {
	scenarios := []Scenario{
		{
			Name:        "API endpoint uses HTTPS",
			Requirement: "production API traffic must be encrypted",
			Expect:      domain.ExpectSuccess,
			Op: func(context.Context) (bool, string, error) {
				base := m.deps.Client.BaseURL()
				if base == "" {
					return false, "", fmt.Errorf("API URL not configured")
				}
				if !strings.HasPrefix(base, "https://") && !isLoopback(base) {
					return true, "API URL is not https: " + base, nil
				}
				return false, "", nil
			},
		},
		{
			Name:        "error responses do not leak internals",
			Requirement: "error messages avoid stack traces and file paths",
			Expect:      domain.ExpectSuccess,
			Op: func(ctx context.Context) (bool, string, error) {
				resp, err := m.deps.Client.Call(ctx, "definitelyNotAnAction", nil)
				if err != nil {
					return false, "", err
				}
				msg := strings.ToLower(resp.Message)
				for _, marker := range []string{"stack trace", "exception in", " at /", ".gs:"} {
					if strings.Contains(msg, marker) {
						return true, "error message leaks internals: " + resp.Message, nil
					}
				}
				return false, "", nil
			},
		},
	}
	return domain.Summarize("transportSecurity", domain.AllPass, runScenarios(ctx, scenarios))
}

func roleAllowed(role, action string) bool {
	for _, a := range rolePermissions[role] {
		if a == action {
			return true
		}
	}
	return false
}

// isLoopback tolerates plain-http local endpoints so the check does
// not fail development setups.
func isLoopback(base string) bool {
	return strings.Contains(base, "://localhost") || strings.Contains(base, "://127.0.0.1")
}
