package suite

import (
	"context"
	"fmt"
	"time"

	"poscheck/internal/domain"
	"poscheck/internal/offline"
)

// Offline verifies the offline transaction queue: persistence,
// monotonic growth within a session and fault-tolerant sync.
type Offline struct {
	deps Deps
}

// NewOffline returns the offline test module.
func NewOffline(deps Deps) *Offline { return &Offline{deps: deps} }

// Name implements Module.
func (m *Offline) Name() string { return "offline" }

// Run executes the queue categories.
func (m *Offline) Run(ctx context.Context) (*domain.ModuleReport, error) {
	started := time.Now()
	categories := []domain.CategorySummary{
		m.testQueuePersistence(ctx),
		m.testQueueSync(ctx),
	}
	return domain.BuildModuleReport(m.Name(), categories, started), nil
}

// testQueuePersistence enqueues in two phases, reopening the queue in
// between. The transaction list must grow monotonically and survive
// the reopen.
func (m *Offline) testQueuePersistence(ctx context.Context) domain.CategorySummary {
	scenarios := []Scenario{
		{
			Name:        "queued transactions survive a reopen",
			Requirement: "offline transactions persist across sessions and never shrink",
			Expect:      domain.ExpectSuccess,
			Op: func(context.Context) (bool, string, error) {
				path := m.deps.QueuePath
				queue, err := offline.Open(path)
				if err != nil {
					return false, "", err
				}
				before := queue.Len()
				if _, err := queue.Enqueue("addSale", map[string]string{"item": "Bagel", "quantity": "1"}); err != nil {
					return false, "", err
				}

				reopened, err := offline.Open(path)
				if err != nil {
					return false, "", err
				}
				if reopened.Len() != before+1 {
					return true, fmt.Sprintf("queue had %d entries, reopened with %d", before+1, reopened.Len()), nil
				}

				if _, err := reopened.Enqueue("addSale", map[string]string{"item": "Scone", "quantity": "2"}); err != nil {
					return false, "", err
				}
				if reopened.Len() != before+2 {
					return true, "second enqueue lost a record", nil
				}
				return false, "", nil
			},
		},
	}
	return domain.Summarize("queuePersistence", domain.AllPass, runScenarios(ctx, scenarios))
}

// testQueueSync drains the queue against the API with the first
// attempt forced to fail; the failed transaction must stay queued and
// succeed on the next pass.
func (m *Offline) testQueueSync(ctx context.Context) domain.CategorySummary {
	scenarios := []Scenario{
		{
			Name:        "failed sync keeps the transaction queued",
			Requirement: "transactions survive a sync failure and drain on retry",
			Expect:      domain.ExpectSuccess,
			Op: func(ctx context.Context) (bool, string, error) {
				queue, err := offline.Open(m.deps.QueuePath)
				if err != nil {
					return false, "", err
				}
				if _, err := queue.Enqueue("addSale", map[string]string{"item": "Croissant", "quantity": "1"}); err != nil {
					return false, "", err
				}
				pending := queue.Len()

				// First pass: the fault hook fails one transaction.
				fault := &offline.FailFirst{N: 1}
				synced, err := queue.Sync(ctx, m.deps.Client, fault)
				if err != nil {
					return false, "", err
				}
				if synced+queue.Len() != pending {
					return true, fmt.Sprintf("records lost: %d pending, %d synced, %d left", pending, synced, queue.Len()), nil
				}
				if queue.Len() == 0 {
					return true, "faulted transaction was dropped instead of requeued", nil
				}

				// Second pass without the fault drains the rest.
				if _, err := queue.Sync(ctx, m.deps.Client, nil); err != nil {
					return false, "", err
				}
				if queue.Len() != 0 {
					return true, fmt.Sprintf("%d transactions still queued after clean sync", queue.Len()), nil
				}
				return false, "", nil
			},
		},
	}
	return domain.Summarize("queueSync", domain.AllPass, runScenarios(ctx, scenarios))
}
