// Package conflict resolves concurrent edits to the same POS record.
// The strategies operate on plain records so they are usable outside
// the harness fixtures that exercise them.
package conflict

import (
	"fmt"
	"sync"
	"time"
)

// Record is one versioned POS record (an inventory item, a sale row).
// UpdatedFields names the fields this side actually changed, which the
// merge strategy uses to take each side's edits.
type Record struct {
	Fields        map[string]any `json:"fields"`
	UpdatedAt     time.Time      `json:"updated_at"`
	UpdatedFields []string       `json:"updated_fields,omitempty"`
}

// Clone deep-copies the record's field map.
func (r Record) Clone() Record {
	fields := make(map[string]any, len(r.Fields))
	for k, v := range r.Fields {
		fields[k] = v
	}
	updated := make([]string, len(r.UpdatedFields))
	copy(updated, r.UpdatedFields)
	return Record{Fields: fields, UpdatedAt: r.UpdatedAt, UpdatedFields: updated}
}

// LastWriteWins keeps the record with the later UpdatedAt. On equal
// timestamps the local record is kept.
func LastWriteWins(local, remote Record) Record {
	if remote.UpdatedAt.After(local.UpdatedAt) {
		return remote.Clone()
	}
	return local.Clone()
}

// Merge unions the two records field by field: each side contributes
// the fields it declares updated, remote winning when both touched the
// same field. Fields neither side updated come from local.
func Merge(local, remote Record) Record {
	merged := local.Clone()
	localUpdated := make(map[string]bool, len(local.UpdatedFields))
	for _, f := range local.UpdatedFields {
		localUpdated[f] = true
	}
	for _, f := range remote.UpdatedFields {
		if v, ok := remote.Fields[f]; ok {
			merged.Fields[f] = v
		}
	}
	merged.UpdatedAt = local.UpdatedAt
	if remote.UpdatedAt.After(local.UpdatedAt) {
		merged.UpdatedAt = remote.UpdatedAt
	}
	merged.UpdatedFields = nil
	for f := range localUpdated {
		merged.UpdatedFields = append(merged.UpdatedFields, f)
	}
	for _, f := range remote.UpdatedFields {
		if !localUpdated[f] {
			merged.UpdatedFields = append(merged.UpdatedFields, f)
		}
	}
	return merged
}

// Pair is a conflict queued for manual resolution.
type Pair struct {
	ID     string    `json:"id"`
	Local  Record    `json:"local"`
	Remote Record    `json:"remote"`
	Queued time.Time `json:"queued"`
}

// Choice selects which side a human picked for a queued conflict.
type Choice int

const (
	KeepLocal Choice = iota
	KeepRemote
)

// Queue stores conflict pairs awaiting manual resolution.
type Queue struct {
	mu      sync.Mutex
	pending map[string]Pair
	seq     int
}

// NewQueue returns an empty manual-resolution queue.
func NewQueue() *Queue {
	return &Queue{pending: make(map[string]Pair)}
}

// Add queues a conflict pair and returns its ID.
func (q *Queue) Add(local, remote Record) string {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.seq++
	id := fmt.Sprintf("conflict-%d", q.seq)
	q.pending[id] = Pair{ID: id, Local: local.Clone(), Remote: remote.Clone(), Queued: time.Now()}
	return id
}

// Pending returns the queued conflicts.
func (q *Queue) Pending() []Pair {
	q.mu.Lock()
	defer q.mu.Unlock()
	pairs := make([]Pair, 0, len(q.pending))
	for _, p := range q.pending {
		pairs = append(pairs, p)
	}
	return pairs
}

// Resolve removes the conflict and returns the chosen record.
func (q *Queue) Resolve(id string, choice Choice) (Record, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	pair, ok := q.pending[id]
	if !ok {
		return Record{}, fmt.Errorf("no pending conflict %q", id)
	}
	delete(q.pending, id)
	if choice == KeepRemote {
		return pair.Remote, nil
	}
	return pair.Local, nil
}
