package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"poscheck/internal/domain"
)

const keyPrefix = "automated-test-results-"

// FileHistory stores each run summary as a JSON file named
// automated-test-results-<epoch-ms>.json under dir.
type FileHistory struct {
	dir   string
	limit int
}

// NewFileHistory returns a file-backed history with the given cap.
func NewFileHistory(dir string, limit int) *FileHistory {
	if limit <= 0 {
		limit = 10
	}
	return &FileHistory{dir: dir, limit: limit}
}

// Save writes the summary and evicts the oldest entries beyond the cap.
func (h *FileHistory) Save(summary *domain.ComprehensiveSummary) error {
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}
	if err := os.MkdirAll(h.dir, 0755); err != nil {
		return fmt.Errorf("create history dir: %w", err)
	}
	name := keyPrefix + strconv.FormatInt(summary.Timestamp.UnixMilli(), 10) + ".json"
	if err := os.WriteFile(filepath.Join(h.dir, name), data, 0644); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	return h.prune()
}

// Load returns up to limit summaries, newest first. Entries that fail
// to parse are treated as corrupt: removed and skipped so one bad file
// does not poison the history.
func (h *FileHistory) Load(limit int) ([]*domain.ComprehensiveSummary, error) {
	if limit <= 0 || limit > h.limit {
		limit = h.limit
	}
	keys, err := h.keys()
	if err != nil {
		return nil, err
	}

	var summaries []*domain.ComprehensiveSummary
	for i := len(keys) - 1; i >= 0 && len(summaries) < limit; i-- {
		path := filepath.Join(h.dir, keys[i])
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var summary domain.ComprehensiveSummary
		if err := json.Unmarshal(data, &summary); err != nil {
			os.Remove(path)
			continue
		}
		summaries = append(summaries, &summary)
	}
	return summaries, nil
}

// Latest returns the newest stored summary, nil when empty.
func (h *FileHistory) Latest() (*domain.ComprehensiveSummary, error) {
	summaries, err := h.Load(1)
	if err != nil {
		return nil, err
	}
	if len(summaries) == 0 {
		return nil, nil
	}
	return summaries[0], nil
}

// keys returns the history file names sorted oldest to newest by the
// embedded epoch key.
func (h *FileHistory) keys() ([]string, error) {
	entries, err := os.ReadDir(h.dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read history dir: %w", err)
	}
	var keys []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, keyPrefix) || !strings.HasSuffix(name, ".json") {
			continue
		}
		keys = append(keys, name)
	}
	sort.Slice(keys, func(i, j int) bool {
		return epochOf(keys[i]) < epochOf(keys[j])
	})
	return keys, nil
}

func (h *FileHistory) prune() error {
	keys, err := h.keys()
	if err != nil {
		return err
	}
	for len(keys) > h.limit {
		if err := os.Remove(filepath.Join(h.dir, keys[0])); err != nil {
			return fmt.Errorf("evict history entry: %w", err)
		}
		keys = keys[1:]
	}
	return nil
}

func epochOf(name string) int64 {
	raw := strings.TrimSuffix(strings.TrimPrefix(name, keyPrefix), ".json")
	epoch, _ := strconv.ParseInt(raw, 10, 64)
	return epoch
}
