package agent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisKnowledgeStoreAppendAndList(t *testing.T) {
	store := NewRedisKnowledgeStore(newTestRedis(t))
	ctx := context.Background()

	snippets := []KnowledgeSnippet{
		{Title: "Hours", Content: "Open weekdays 9 to 6."},
		{Title: "Parking", Content: "Free lot behind the building."},
	}
	require.NoError(t, store.AppendSnippets(ctx, "clinic-1", snippets))

	got, err := store.ListSnippets(ctx, "clinic-1", 8)
	require.NoError(t, err)
	assert.Equal(t, snippets, got)
}

func TestRedisKnowledgeStoreListHonorsLimit(t *testing.T) {
	store := NewRedisKnowledgeStore(newTestRedis(t))
	ctx := context.Background()

	require.NoError(t, store.AppendSnippets(ctx, "clinic-1", []KnowledgeSnippet{
		{Title: "a", Content: "1"},
		{Title: "b", Content: "2"},
		{Title: "c", Content: "3"},
	}))

	got, err := store.ListSnippets(ctx, "clinic-1", 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].Title)
	assert.Equal(t, "b", got[1].Title)
}

func TestRedisKnowledgeStoreReplace(t *testing.T) {
	store := NewRedisKnowledgeStore(newTestRedis(t))
	ctx := context.Background()

	require.NoError(t, store.AppendSnippets(ctx, "clinic-1", []KnowledgeSnippet{
		{Title: "old", Content: "stale"},
	}))
	require.NoError(t, store.ReplaceSnippets(ctx, "clinic-1", []KnowledgeSnippet{
		{Title: "new", Content: "fresh"},
	}))

	got, err := store.ListSnippets(ctx, "clinic-1", 8)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "new", got[0].Title)
}

func TestRedisKnowledgeStoreReplaceWithEmptyClears(t *testing.T) {
	store := NewRedisKnowledgeStore(newTestRedis(t))
	ctx := context.Background()

	require.NoError(t, store.AppendSnippets(ctx, "clinic-1", []KnowledgeSnippet{
		{Title: "x", Content: "y"},
	}))
	require.NoError(t, store.ReplaceSnippets(ctx, "clinic-1", nil))

	got, err := store.ListSnippets(ctx, "clinic-1", 8)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRedisKnowledgeStoreEmptyClinic(t *testing.T) {
	store := NewRedisKnowledgeStore(newTestRedis(t))

	got, err := store.ListSnippets(context.Background(), "clinic-empty", 8)
	require.NoError(t, err)
	assert.Empty(t, got)
}
