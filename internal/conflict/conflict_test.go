package conflict

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func TestLastWriteWins(t *testing.T) {
	local := Record{
		Fields:    map[string]any{"value": 100},
		UpdatedAt: baseTime,
	}
	remote := Record{
		Fields:    map[string]any{"value": 150},
		UpdatedAt: baseTime.Add(5 * time.Minute),
	}

	t.Run("later remote wins", func(t *testing.T) {
		resolved := LastWriteWins(local, remote)
		assert.Equal(t, 150, resolved.Fields["value"])
		assert.True(t, resolved.UpdatedAt.Equal(remote.UpdatedAt))
	})

	t.Run("later local wins", func(t *testing.T) {
		resolved := LastWriteWins(remote, local)
		assert.Equal(t, 150, resolved.Fields["value"], "remote here is older, keep the receiver")
	})

	t.Run("tie keeps local", func(t *testing.T) {
		sameTime := Record{Fields: map[string]any{"value": 999}, UpdatedAt: baseTime}
		resolved := LastWriteWins(local, sameTime)
		assert.Equal(t, 100, resolved.Fields["value"])
	})

	t.Run("result is a copy", func(t *testing.T) {
		resolved := LastWriteWins(local, remote)
		resolved.Fields["value"] = 0
		assert.Equal(t, 150, remote.Fields["value"])
	})
}

func TestMerge(t *testing.T) {
	local := Record{
		Fields:        map[string]any{"stock": 10, "name": "Flour", "price": 40},
		UpdatedAt:     baseTime,
		UpdatedFields: []string{"stock"},
	}
	remote := Record{
		Fields:        map[string]any{"stock": 7, "name": "X", "price": 55},
		UpdatedAt:     baseTime.Add(5 * time.Minute),
		UpdatedFields: []string{"name", "price"},
	}

	merged := Merge(local, remote)

	assert.Equal(t, 10, merged.Fields["stock"], "stock comes from local")
	assert.Equal(t, "X", merged.Fields["name"], "name comes from remote")
	assert.Equal(t, 55, merged.Fields["price"], "price comes from remote")
	assert.True(t, merged.UpdatedAt.Equal(remote.UpdatedAt), "merge carries the later timestamp")
	assert.ElementsMatch(t, []string{"stock", "name", "price"}, merged.UpdatedFields)
}

func TestMerge_RemoteWinsContestedField(t *testing.T) {
	local := Record{
		Fields:        map[string]any{"price": 40},
		UpdatedAt:     baseTime,
		UpdatedFields: []string{"price"},
	}
	remote := Record{
		Fields:        map[string]any{"price": 55},
		UpdatedAt:     baseTime.Add(time.Minute),
		UpdatedFields: []string{"price"},
	}

	merged := Merge(local, remote)
	assert.Equal(t, 55, merged.Fields["price"])
	assert.ElementsMatch(t, []string{"price"}, merged.UpdatedFields)
}

func TestQueue_ManualResolution(t *testing.T) {
	queue := NewQueue()
	local := Record{Fields: map[string]any{"stock": 10}, UpdatedAt: baseTime}
	remote := Record{Fields: map[string]any{"stock": 7}, UpdatedAt: baseTime.Add(time.Minute)}

	id := queue.Add(local, remote)
	require.Len(t, queue.Pending(), 1)

	chosen, err := queue.Resolve(id, KeepRemote)
	require.NoError(t, err)
	assert.Equal(t, 7, chosen.Fields["stock"])
	assert.Empty(t, queue.Pending())

	_, err = queue.Resolve(id, KeepLocal)
	assert.Error(t, err, "resolving twice must fail")
}

func TestQueue_DistinctIDs(t *testing.T) {
	queue := NewQueue()
	a := queue.Add(Record{}, Record{})
	b := queue.Add(Record{}, Record{})
	assert.NotEqual(t, a, b)
	assert.Len(t, queue.Pending(), 2)
}
