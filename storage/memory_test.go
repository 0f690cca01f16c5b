package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type doc struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	var out doc
	err := s.Get(ctx, "reports/1", &out)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Set(ctx, "reports/1", doc{Name: "keys", Count: 2}))
	require.NoError(t, s.Get(ctx, "reports/1", &out))
	assert.Equal(t, doc{Name: "keys", Count: 2}, out)

	// Set replaces wholesale.
	require.NoError(t, s.Set(ctx, "reports/1", doc{Name: "bag"}))
	require.NoError(t, s.Get(ctx, "reports/1", &out))
	assert.Equal(t, doc{Name: "bag", Count: 0}, out)
}

func TestMemoryStoreUpdateMerges(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "reports/1", doc{Name: "keys", Count: 2}))
	require.NoError(t, s.Update(ctx, "reports/1", map[string]interface{}{"count": 5}))

	var out doc
	require.NoError(t, s.Get(ctx, "reports/1", &out))
	assert.Equal(t, "keys", out.Name, "untouched fields survive a merge")
	assert.Equal(t, 5, out.Count)

	err := s.Update(ctx, "reports/2", map[string]interface{}{"count": 1})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreDelete(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "sessions/7", doc{Name: "x"}))
	require.NoError(t, s.Delete(ctx, "sessions/7"))

	var out doc
	assert.ErrorIs(t, s.Get(ctx, "sessions/7", &out), ErrNotFound)

	// Deleting again is a no-op.
	require.NoError(t, s.Delete(ctx, "sessions/7"))
}

func TestMemoryStoreListDirectChildren(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "reports/1", doc{Name: "keys"}))
	require.NoError(t, s.Set(ctx, "reports/2", doc{Name: "bag"}))
	require.NoError(t, s.Set(ctx, "sessions/7", doc{Name: "other"}))

	children, err := s.List(ctx, "reports")
	require.NoError(t, err)
	assert.Len(t, children, 2)
	assert.Contains(t, children, "1")
	assert.Contains(t, children, "2")

	empty, err := s.List(ctx, "nothing")
	require.NoError(t, err)
	assert.Empty(t, empty)
}
