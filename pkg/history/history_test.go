package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(context.Background(), filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestOpenCreatesDirectoryAndSchema(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "dir", "history.db")
	store, err := Open(context.Background(), dbPath)
	require.NoError(t, err)
	defer store.Close()

	rows, err := store.List(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestRecordAndList(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	first, err := store.Record(ctx, KindTask, "", "write tests for login", []string{"core/thinking", "development/testing"})
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)

	_, err = store.Record(ctx, KindCommand, "implement", "", []string{"core/thinking", "development/tdd"})
	require.NoError(t, err)

	rows, err := store.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	// Newest first.
	assert.Equal(t, KindCommand, rows[0].Kind)
	assert.Equal(t, "implement", rows[0].Command)
	assert.Equal(t, []string{"core/thinking", "development/tdd"}, rows[0].Skills)

	assert.Equal(t, KindTask, rows[1].Kind)
	assert.Equal(t, "write tests for login", rows[1].Description)
	assert.Equal(t, []string{"core/thinking", "development/testing"}, rows[1].Skills)
}

func TestListLimit(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := store.Record(ctx, KindTask, "", "task", []string{"core/thinking"})
		require.NoError(t, err)
	}

	rows, err := store.List(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestPrune(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	_, err := store.Record(ctx, KindTask, "", "recent", []string{"core/thinking"})
	require.NoError(t, err)

	// Backdate one row past the cutoff.
	old, err := store.Record(ctx, KindTask, "", "old", []string{"core/thinking"})
	require.NoError(t, err)
	_, err = store.db.ExecContext(ctx, "UPDATE selections SET created_at = ? WHERE id = ?",
		time.Now().UTC().Add(-48*time.Hour), old.ID)
	require.NoError(t, err)

	pruned, err := store.Prune(ctx, time.Now().UTC().Add(-24*time.Hour))
	require.NoError(t, err)
	assert.EqualValues(t, 1, pruned)

	rows, err := store.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "recent", rows[0].Description)
}
