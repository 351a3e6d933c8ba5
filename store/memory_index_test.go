package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryIndexSearchOrdering(t *testing.T) {
	idx := NewMemoryIndex(3)
	require.NoError(t, idx.Add("doc-a", []float32{1, 0, 0}))
	require.NoError(t, idx.Add("doc-b", []float32{0, 1, 0}))
	require.NoError(t, idx.Add("doc-c", []float32{1, 1, 0}))

	matches, err := idx.Search(context.Background(), []float32{1, 0, 0}, 3)
	require.NoError(t, err)
	require.Len(t, matches, 3)
	assert.Equal(t, "doc-a", matches[0].ID)
	assert.Equal(t, "doc-c", matches[1].ID)
	assert.Equal(t, "doc-b", matches[2].ID)
	for i := 1; i < len(matches); i++ {
		assert.LessOrEqual(t, matches[i].Score, matches[i-1].Score)
	}
}

func TestMemoryIndexSearchTruncatesToK(t *testing.T) {
	idx := NewMemoryIndex(2)
	require.NoError(t, idx.Add("a", []float32{1, 0}))
	require.NoError(t, idx.Add("b", []float32{0, 1}))
	require.NoError(t, idx.Add("c", []float32{1, 1}))

	matches, err := idx.Search(context.Background(), []float32{1, 1}, 2)
	require.NoError(t, err)
	assert.Len(t, matches, 2)
}

func TestMemoryIndexSearchTieBreaksByID(t *testing.T) {
	idx := NewMemoryIndex(2)
	// Same vector, so identical scores for every query.
	require.NoError(t, idx.Add("zeta", []float32{1, 0}))
	require.NoError(t, idx.Add("alpha", []float32{1, 0}))
	require.NoError(t, idx.Add("mid", []float32{1, 0}))

	matches, err := idx.Search(context.Background(), []float32{1, 0}, 3)
	require.NoError(t, err)
	require.Len(t, matches, 3)
	assert.Equal(t, "alpha", matches[0].ID)
	assert.Equal(t, "mid", matches[1].ID)
	assert.Equal(t, "zeta", matches[2].ID)
}

func TestMemoryIndexSearchDeterministic(t *testing.T) {
	idx := NewMemoryIndex(3)
	require.NoError(t, idx.Add("a", []float32{1, 2, 3}))
	require.NoError(t, idx.Add("b", []float32{3, 2, 1}))
	require.NoError(t, idx.Add("c", []float32{2, 2, 2}))

	first, err := idx.Search(context.Background(), []float32{1, 1, 1}, 3)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := idx.Search(context.Background(), []float32{1, 1, 1}, 3)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestMemoryIndexSearchEmpty(t *testing.T) {
	idx := NewMemoryIndex(3)
	_, err := idx.Search(context.Background(), []float32{1, 0, 0}, 5)
	assert.ErrorIs(t, err, ErrNotLoaded)
}

func TestMemoryIndexDimensionMismatch(t *testing.T) {
	idx := NewMemoryIndex(3)
	assert.ErrorIs(t, idx.Add("a", []float32{1, 0}), ErrDimensionMismatch)

	require.NoError(t, idx.Add("a", []float32{1, 0, 0}))
	_, err := idx.Search(context.Background(), []float32{1, 0}, 1)
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestMemoryIndexAddReplaces(t *testing.T) {
	idx := NewMemoryIndex(2)
	require.NoError(t, idx.Add("a", []float32{1, 0}))
	require.NoError(t, idx.Add("a", []float32{0, 1}))
	assert.Equal(t, 1, idx.Len())

	matches, err := idx.Search(context.Background(), []float32{0, 1}, 1)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.InDelta(t, 1.0, float64(matches[0].Score), 1e-6)
}

func TestMemoryIndexCanceledContext(t *testing.T) {
	idx := NewMemoryIndex(2)
	require.NoError(t, idx.Add("a", []float32{1, 0}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := idx.Search(ctx, []float32{1, 0}, 1)
	assert.ErrorIs(t, err, context.Canceled)
}
