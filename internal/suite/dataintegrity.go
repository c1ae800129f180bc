package suite

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"poscheck/internal/domain"
)

// DataIntegrity checks that what the harness writes can be read back
// consistently and that inventory lots deplete in FIFO order.
type DataIntegrity struct {
	deps Deps
}

// NewDataIntegrity returns the data-integrity test module.
func NewDataIntegrity(deps Deps) *DataIntegrity { return &DataIntegrity{deps: deps} }

// Name implements Module.
func (m *DataIntegrity) Name() string { return "data-integrity" }

// lot is the inventory lot shape getInventory returns.
type lot struct {
	Ingredient  string  `json:"ingredient"`
	PurchasedAt string  `json:"purchasedAt"`
	Quantity    float64 `json:"quantity"`
	Remaining   float64 `json:"remaining"`
}

// Run executes the consistency and FIFO categories.
func (m *DataIntegrity) Run(ctx context.Context) (*domain.ModuleReport, error) {
	started := time.Now()
	categories := []domain.CategorySummary{
		m.testWriteReadConsistency(ctx),
		m.testDuplicateDetection(ctx),
		m.testLotConsumption(ctx),
	}
	return domain.BuildModuleReport(m.Name(), categories, started), nil
}

// testWriteReadConsistency records a purchase with a unique marker and
// expects a subsequent report call to succeed and carry data.
func (m *DataIntegrity) testWriteReadConsistency(ctx context.Context) domain.CategorySummary {
	client := m.deps.Client
	marker := "integrity-" + strconv.FormatInt(time.Now().UnixMilli(), 10)
	scenarios := []Scenario{
		{
			Name:        "marked purchase is accepted",
			Requirement: "a freshly written purchase is acknowledged",
			Expect:      domain.ExpectSuccess,
			Op: apiOp(client, "addPurchase", map[string]string{
				"ingredient": "Flour",
				"quantity":   "1",
				"unitPrice":  "1.00",
				"note":       marker,
			}),
		},
		{
			Name:        "report reflects written data",
			Requirement: "getReport returns a parsable payload after a write",
			Expect:      domain.ExpectSuccess,
			Op: func(ctx context.Context) (bool, string, error) {
				resp, err := client.Call(ctx, "getReport", map[string]string{"period": "daily"})
				if err != nil {
					return false, "", err
				}
				if !resp.OK() {
					return true, resp.Message, nil
				}
				var payload map[string]json.RawMessage
				if err := json.Unmarshal(resp.Data, &payload); err != nil {
					return true, "report data is not a JSON object: " + err.Error(), nil
				}
				return false, "", nil
			},
		},
	}
	return domain.Summarize("writeReadConsistency", domain.AllPass, runScenarios(ctx, scenarios))
}

// testDuplicateDetection submits the same sale twice with one
// idempotency key; the second submission must be rejected.
func (m *DataIntegrity) testDuplicateDetection(ctx context.Context) domain.CategorySummary {
	client := m.deps.Client
	key := "dup-" + strconv.FormatInt(time.Now().UnixMilli(), 10)
	params := map[string]string{
		"item":           "Croissant",
		"quantity":       "1",
		"idempotencyKey": key,
	}
	scenarios := []Scenario{
		{
			Name:        "first submission is accepted",
			Requirement: "a keyed sale records once",
			Expect:      domain.ExpectSuccess,
			Op:          apiOp(client, "addSale", params),
		},
		{
			Name:        "duplicate submission is rejected",
			Requirement: "the same idempotency key cannot record twice",
			Expect:      domain.ExpectFailure,
			Op:          apiOp(client, "addSale", params),
		},
	}
	return domain.Summarize("duplicateDetection", domain.AllPass, runScenarios(ctx, scenarios))
}

// testLotConsumption pulls the inventory lots and verifies FIFO
// depletion: a lot may be partially consumed only when every older lot
// of the same ingredient is exhausted.
func (m *DataIntegrity) testLotConsumption(ctx context.Context) domain.CategorySummary {
	client := m.deps.Client
	scenarios := []Scenario{
		{
			Name:        "lots deplete oldest first",
			Requirement: "inventory consumption follows FIFO lot order",
			Expect:      domain.ExpectSuccess,
			Op: func(ctx context.Context) (bool, string, error) {
				resp, err := client.Call(ctx, "getInventory", nil)
				if err != nil {
					return false, "", err
				}
				if !resp.OK() {
					return true, resp.Message, nil
				}
				var payload struct {
					Lots []lot `json:"lots"`
				}
				if err := json.Unmarshal(resp.Data, &payload); err != nil {
					return true, "inventory data unparsable: " + err.Error(), nil
				}
				if violation := fifoViolation(payload.Lots); violation != "" {
					return true, violation, nil
				}
				return false, "", nil
			},
		},
	}
	return domain.Summarize("lotConsumption", domain.AllPass, runScenarios(ctx, scenarios))
}

// fifoViolation returns a description of the first FIFO breach in the
// lot list, or "" when consumption order is clean. Lots are expected
// in purchase order per ingredient.
func fifoViolation(lots []lot) string {
	lastByIngredient := make(map[string]lot)
	for _, current := range lots {
		prev, seen := lastByIngredient[current.Ingredient]
		if seen {
			// A newer lot was touched while an older one still has
			// stock remaining.
			if current.Remaining < current.Quantity && prev.Remaining > 0 {
				return fmt.Sprintf("lot of %s purchased %s consumed before older lot (%s) was exhausted",
					current.Ingredient, current.PurchasedAt, prev.PurchasedAt)
			}
		}
		lastByIngredient[current.Ingredient] = current
	}
	return ""
}
