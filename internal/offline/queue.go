// Package offline keeps POS transactions queued on disk while the API
// is unreachable and replays them once it is back.
package offline

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"poscheck/internal/api"
)

// Transaction is one queued POS operation awaiting sync.
type Transaction struct {
	ID       string            `json:"id"`
	Action   string            `json:"action"`
	Params   map[string]string `json:"params"`
	QueuedAt time.Time         `json:"queued_at"`
}

// Fault is an explicit fault-injection hook for sync tests. A nil
// Fault means real calls only; simulated outcomes are never decided
// by hidden randomness.
type Fault interface {
	// Fail reports whether syncing this transaction should be forced
	// to fail.
	Fail(tx Transaction) bool
}

// FailFirst forces the first n sync attempts to fail.
type FailFirst struct {
	N    int
	seen int
}

// Fail implements Fault.
func (f *FailFirst) Fail(Transaction) bool {
	if f.seen < f.N {
		f.seen++
		return true
	}
	return false
}

// Queue is a file-backed transaction queue. Enqueue persists
// immediately so records survive process restarts; the list only ever
// grows until a successful sync drains it.
type Queue struct {
	mu   sync.Mutex
	path string
	txs  []Transaction
	seq  int
}

// Open loads (or creates) the queue file at path.
func Open(path string) (*Queue, error) {
	q := &Queue{path: path}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return q, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read queue: %w", err)
	}
	if err := json.Unmarshal(data, &q.txs); err != nil {
		// Corrupt queue file: clear and start fresh rather than
		// refusing to operate.
		q.txs = nil
		if err := q.persist(); err != nil {
			return nil, err
		}
		return q, nil
	}
	q.seq = len(q.txs)
	return q, nil
}

// Enqueue appends a transaction and persists the queue.
func (q *Queue) Enqueue(action string, params map[string]string) (Transaction, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.seq++
	tx := Transaction{
		ID:       "tx-" + strconv.FormatInt(time.Now().UnixMilli(), 10) + "-" + strconv.Itoa(q.seq),
		Action:   action,
		Params:   params,
		QueuedAt: time.Now(),
	}
	q.txs = append(q.txs, tx)
	if err := q.persist(); err != nil {
		return Transaction{}, err
	}
	return tx, nil
}

// All returns the queued transactions in enqueue order.
func (q *Queue) All() []Transaction {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]Transaction, len(q.txs))
	copy(out, q.txs)
	return out
}

// Len returns the number of queued transactions.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.txs)
}

// Sync replays queued transactions against the API in order, removing
// each on success. Transactions whose sync fails (for real or via the
// fault hook) stay queued for the next pass. Returns how many synced.
func (q *Queue) Sync(ctx context.Context, client *api.Client, fault Fault) (int, error) {
	q.mu.Lock()
	pending := make([]Transaction, len(q.txs))
	copy(pending, q.txs)
	q.mu.Unlock()

	var remaining []Transaction
	synced := 0
	for _, tx := range pending {
		if fault != nil && fault.Fail(tx) {
			remaining = append(remaining, tx)
			continue
		}
		resp, err := client.Call(ctx, tx.Action, tx.Params)
		if err != nil || !resp.OK() {
			remaining = append(remaining, tx)
			continue
		}
		synced++
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	// Keep anything enqueued while the drain ran: only the snapshot was
	// synced, so everything past it is still pending.
	q.txs = append(remaining, q.txs[len(pending):]...)
	if err := q.persist(); err != nil {
		return synced, err
	}
	return synced, nil
}

func (q *Queue) persist() error {
	data, err := json.MarshalIndent(q.txs, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal queue: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(q.path), 0755); err != nil {
		return fmt.Errorf("create queue dir: %w", err)
	}
	return os.WriteFile(q.path, data, 0644)
}
