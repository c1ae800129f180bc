package suite

import (
	"context"
	"fmt"
	"strings"
	"time"

	"poscheck/internal/domain"
)

// Functional exercises the core POS operations end to end: purchases,
// sales, ingredient search, bootstrap data and reports.
type Functional struct {
	deps Deps
}

// NewFunctional returns the functional test module.
func NewFunctional(deps Deps) *Functional { return &Functional{deps: deps} }

// Name implements Module.
func (m *Functional) Name() string { return "functional" }

// Run executes every functional category. Categories are independent;
// a failing one never stops the rest.
func (m *Functional) Run(ctx context.Context) (*domain.ModuleReport, error) {
	started := time.Now()
	categories := []domain.CategorySummary{
		m.testPurchaseRecording(ctx),
		m.testSaleRecording(ctx),
		m.testIngredientSearch(ctx),
		m.testBootstrapData(ctx),
		m.testReportGeneration(ctx),
		m.testInputValidation(ctx),
	}
	return domain.BuildModuleReport(m.Name(), categories, started), nil
}

func (m *Functional) testPurchaseRecording(ctx context.Context) domain.CategorySummary {
	client := m.deps.Client
	scenarios := []Scenario{
		{
			Name:        "record purchase with valid fields",
			Requirement: "addPurchase accepts a complete purchase",
			Expect:      domain.ExpectSuccess,
			Op: apiOp(client, "addPurchase", map[string]string{
				"ingredient": "Flour",
				"quantity":   "25",
				"unitPrice":  "1.80",
			}),
		},
		{
			Name:        "reject purchase with missing ingredient",
			Requirement: "addPurchase rejects incomplete input",
			Expect:      domain.ExpectFailure,
			Op: apiOp(client, "addPurchase", map[string]string{
				"quantity":  "10",
				"unitPrice": "2.00",
			}),
		},
		{
			Name:        "reject purchase with negative quantity",
			Requirement: "addPurchase rejects out-of-range input",
			Expect:      domain.ExpectFailure,
			Op: apiOp(client, "addPurchase", map[string]string{
				"ingredient": "Sugar",
				"quantity":   "-4",
				"unitPrice":  "0.90",
			}),
		},
	}
	return domain.Summarize("purchaseRecording", domain.AllPass, runScenarios(ctx, scenarios))
}

func (m *Functional) testSaleRecording(ctx context.Context) domain.CategorySummary {
	client := m.deps.Client
	scenarios := []Scenario{
		{
			Name:        "record sale with valid fields",
			Requirement: "addSale accepts a complete sale",
			Expect:      domain.ExpectSuccess,
			Op: apiOp(client, "addSale", map[string]string{
				"item":     "Croissant",
				"quantity": "3",
			}),
		},
		{
			Name:        "reject sale of unknown item",
			Requirement: "addSale rejects items not in the catalog",
			Expect:      domain.ExpectFailure,
			Op: apiOp(client, "addSale", map[string]string{
				"item":     "NoSuchItem",
				"quantity": "1",
			}),
		},
	}
	return domain.Summarize("saleRecording", domain.AllPass, runScenarios(ctx, scenarios))
}

func (m *Functional) testIngredientSearch(ctx context.Context) domain.CategorySummary {
	client := m.deps.Client
	scenarios := []Scenario{
		{
			Name:        "search returns matches for a known prefix",
			Requirement: "searchIngredients finds catalog entries",
			Expect:      domain.ExpectSuccess,
			Op:          apiOp(client, "searchIngredients", map[string]string{"query": "Flo"}),
		},
		{
			Name:        "search with empty query succeeds",
			Requirement: "searchIngredients tolerates an empty query",
			Expect:      domain.ExpectSuccess,
			Op:          apiOp(client, "searchIngredients", map[string]string{"query": ""}),
		},
	}
	return domain.Summarize("ingredientSearch", domain.AllPass, runScenarios(ctx, scenarios))
}

func (m *Functional) testBootstrapData(ctx context.Context) domain.CategorySummary {
	client := m.deps.Client
	scenarios := []Scenario{
		{
			Name:        "bootstrap data loads",
			Requirement: "getBootstrapData returns the startup payload",
			Expect:      domain.ExpectSuccess,
			Op: func(ctx context.Context) (bool, string, error) {
				resp, err := client.Call(ctx, "getBootstrapData", nil)
				if err != nil {
					return false, "", err
				}
				if !resp.OK() {
					return true, resp.Message, nil
				}
				if len(resp.Data) == 0 {
					return true, "bootstrap payload is empty", nil
				}
				return false, "", nil
			},
		},
	}
	return domain.Summarize("bootstrapData", domain.AllPass, runScenarios(ctx, scenarios))
}

func (m *Functional) testReportGeneration(ctx context.Context) domain.CategorySummary {
	client := m.deps.Client
	scenarios := []Scenario{
		{
			Name:        "daily report loads",
			Requirement: "getReport returns the daily summary",
			Expect:      domain.ExpectSuccess,
			Op:          apiOp(client, "getReport", map[string]string{"period": "daily"}),
		},
		{
			Name:        "report rejects unknown period",
			Requirement: "getReport rejects invalid period values",
			Expect:      domain.ExpectFailure,
			Op:          apiOp(client, "getReport", map[string]string{"period": "fortnightly"}),
		},
	}
	return domain.Summarize("reportGeneration", domain.AllPass, runScenarios(ctx, scenarios))
}

// testInputValidation runs the local form validators so incomplete
// payloads are caught before any network call.
func (m *Functional) testInputValidation(ctx context.Context) domain.CategorySummary {
	scenarios := []Scenario{
		{
			Name:        "valid purchase passes validation",
			Requirement: "validators accept a complete purchase",
			Expect:      domain.ExpectSuccess,
			Op: func(context.Context) (bool, string, error) {
				errs := validatePurchase(map[string]string{
					"ingredient": "Butter", "quantity": "5", "unitPrice": "3.20",
				})
				return len(errs) > 0, describeErrors(errs), nil
			},
		},
		{
			Name:        "missing fields are each reported",
			Requirement: "validators list every violation with its field",
			Expect:      domain.ExpectSuccess,
			Op: func(context.Context) (bool, string, error) {
				errs := validatePurchase(map[string]string{"quantity": "abc"})
				fields := highlightedFields(errs)
				if len(errs) != 3 || len(fields) != 3 {
					return true, describeErrors(errs), nil
				}
				return false, "", nil
			},
		},
		{
			Name:        "zero quantity sale is out of range",
			Requirement: "validators flag non-positive quantities",
			Expect:      domain.ExpectSuccess,
			Op: func(context.Context) (bool, string, error) {
				errs := validateSale(map[string]string{"item": "Bagel", "quantity": "0"})
				if len(errs) != 1 || errs[0].Type != "out-of-range" {
					return true, describeErrors(errs), nil
				}
				return false, "", nil
			},
		},
	}
	return domain.Summarize("inputValidation", domain.AllPass, runScenarios(ctx, scenarios))
}

func describeErrors(errs []ValidationError) string {
	if len(errs) == 0 {
		return ""
	}
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		parts = append(parts, fmt.Sprintf("%s (%s)", e.Error(), e.Type))
	}
	return strings.Join(parts, "; ")
}
