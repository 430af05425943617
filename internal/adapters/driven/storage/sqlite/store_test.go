package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-stream/internal/core/domain"
)

// setupTestStore creates a temporary SQLite store for testing.
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	require.NotNil(t, store)

	t.Cleanup(func() {
		assert.NoError(t, store.Close())
	})

	return store
}

// testEntry builds a valid history entry with the given query and age.
func testEntry(query string, age time.Duration) domain.HistoryEntry {
	return domain.HistoryEntry{
		ID:          uuid.New().String(),
		Query:       query,
		PatternType: domain.PatternTypeStandard,
		MatchCount:  42,
		DurationMs:  120,
		State:       domain.SearchStateComplete,
		CreatedAt:   time.Now().UTC().Add(-age),
	}
}

// TestNewStore_CreatesDatabase tests that creating a store produces a database file.
func TestNewStore_CreatesDatabase(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)
	defer store.Close() //nolint:errcheck

	_, err = os.Stat(filepath.Join(dir, "history.db"))
	assert.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "history.db"), store.Path())
}

// TestNewStore_Reopen tests that reopening an existing database does not re-run migrations.
func TestNewStore_Reopen(t *testing.T) {
	dir := t.TempDir()

	store, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Save(context.Background(), testEntry("persisted", 0)))
	require.NoError(t, store.Close())

	reopened, err := NewStore(dir)
	require.NoError(t, err)
	defer reopened.Close() //nolint:errcheck

	entries, err := reopened.List(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "persisted", entries[0].Query)
}

// TestStore_SaveAndList tests basic save and retrieval.
func TestStore_SaveAndList(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	entry := testEntry("repo:^github test", 0)
	require.NoError(t, store.Save(ctx, entry))

	entries, err := store.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	got := entries[0]
	assert.Equal(t, entry.ID, got.ID)
	assert.Equal(t, entry.Query, got.Query)
	assert.Equal(t, entry.PatternType, got.PatternType)
	assert.Equal(t, entry.MatchCount, got.MatchCount)
	assert.Equal(t, entry.DurationMs, got.DurationMs)
	assert.Equal(t, entry.State, got.State)
	assert.WithinDuration(t, entry.CreatedAt, got.CreatedAt, time.Millisecond)
}

// TestStore_Save_InvalidEntry tests that invalid entries are rejected.
func TestStore_Save_InvalidEntry(t *testing.T) {
	store := setupTestStore(t)

	err := store.Save(context.Background(), domain.HistoryEntry{ID: "no-query"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// TestStore_Save_Upsert tests that saving the same ID twice updates the row.
func TestStore_Save_Upsert(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	entry := testEntry("first", 0)
	require.NoError(t, store.Save(ctx, entry))

	entry.Query = "second"
	entry.MatchCount = 99
	require.NoError(t, store.Save(ctx, entry))

	entries, err := store.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "second", entries[0].Query)
	assert.Equal(t, 99, entries[0].MatchCount)
}

// TestStore_List_NewestFirst tests ordering and the limit parameter.
func TestStore_List_NewestFirst(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, testEntry("oldest", 3*time.Hour)))
	require.NoError(t, store.Save(ctx, testEntry("middle", 2*time.Hour)))
	require.NoError(t, store.Save(ctx, testEntry("newest", time.Hour)))

	entries, err := store.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "newest", entries[0].Query)
	assert.Equal(t, "middle", entries[1].Query)
	assert.Equal(t, "oldest", entries[2].Query)

	limited, err := store.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, limited, 2)
	assert.Equal(t, "newest", limited[0].Query)
	assert.Equal(t, "middle", limited[1].Query)
}

// TestStore_List_Empty tests that an empty store lists no entries.
func TestStore_List_Empty(t *testing.T) {
	store := setupTestStore(t)

	entries, err := store.List(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

// TestStore_Delete tests removing a single entry.
func TestStore_Delete(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	entry := testEntry("to-delete", 0)
	require.NoError(t, store.Save(ctx, entry))
	require.NoError(t, store.Save(ctx, testEntry("to-keep", 0)))

	require.NoError(t, store.Delete(ctx, entry.ID))

	entries, err := store.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "to-keep", entries[0].Query)
}

// TestStore_Delete_NotFound tests deleting a missing entry.
func TestStore_Delete_NotFound(t *testing.T) {
	store := setupTestStore(t)

	err := store.Delete(context.Background(), "does-not-exist")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// TestStore_Clear tests removing all entries.
func TestStore_Clear(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, testEntry("one", 0)))
	require.NoError(t, store.Save(ctx, testEntry("two", 0)))

	require.NoError(t, store.Clear(ctx))

	entries, err := store.List(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
