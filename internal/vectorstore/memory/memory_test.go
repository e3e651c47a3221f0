package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medichat/internal/vectorstore"
)

func TestStore_QueryRanksByCosine(t *testing.T) {
	store := NewStore(2)
	ctx := context.Background()

	err := store.Upsert(ctx, []vectorstore.Entry{
		{ID: "a", Values: []float32{1, 0}, Metadata: map[string]string{"text": "exact match", "source": "a.pdf"}},
		{ID: "b", Values: []float32{0, 1}, Metadata: map[string]string{"text": "orthogonal"}},
		{ID: "c", Values: []float32{1, 1}, Metadata: map[string]string{"text": "diagonal"}},
	})
	require.NoError(t, err)

	chunks, err := store.Query(ctx, []float32{1, 0}, 2)
	require.NoError(t, err)
	require.Len(t, chunks, 2)

	assert.Equal(t, "a", chunks[0].ID)
	assert.Equal(t, "exact match", chunks[0].Content)
	assert.Equal(t, "a.pdf", chunks[0].Metadata["source"])
	assert.NotContains(t, chunks[0].Metadata, "text")
	assert.Equal(t, "c", chunks[1].ID)
	assert.Greater(t, chunks[0].Score, chunks[1].Score)
}

func TestStore_UpsertOverwritesByID(t *testing.T) {
	store := NewStore(2)
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, []vectorstore.Entry{
		{ID: "a", Values: []float32{1, 0}, Metadata: map[string]string{"text": "old"}},
	}))
	require.NoError(t, store.Upsert(ctx, []vectorstore.Entry{
		{ID: "a", Values: []float32{1, 0}, Metadata: map[string]string{"text": "new"}},
	}))

	assert.Equal(t, 1, store.Len())

	chunks, err := store.Query(ctx, []float32{1, 0}, 1)
	require.NoError(t, err)
	assert.Equal(t, "new", chunks[0].Content)
}

func TestStore_DimensionMismatch(t *testing.T) {
	store := NewStore(3)
	err := store.Upsert(context.Background(), []vectorstore.Entry{
		{ID: "a", Values: []float32{1, 0}},
	})
	assert.Error(t, err)
}

func TestStore_TopKLargerThanStore(t *testing.T) {
	store := NewStore(2)
	ctx := context.Background()
	require.NoError(t, store.Upsert(ctx, []vectorstore.Entry{
		{ID: "a", Values: []float32{1, 0}, Metadata: map[string]string{"text": "only"}},
	}))

	chunks, err := store.Query(ctx, []float32{1, 0}, 10)
	require.NoError(t, err)
	assert.Len(t, chunks, 1)
}

func TestStore_QueryEmpty(t *testing.T) {
	store := NewStore(2)
	chunks, err := store.Query(context.Background(), []float32{1, 0}, 3)
	require.NoError(t, err)
	assert.Empty(t, chunks)
}
