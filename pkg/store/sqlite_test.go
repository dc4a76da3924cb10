package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "parley.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestWriteAndGet(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	doc := map[string]any{"run_id": "r1", "answer": "42"}
	require.NoError(t, s.Write(t.Context(), Solutions, doc, "sol-1"))

	var got map[string]any
	require.NoError(t, s.Get(t.Context(), Solutions, "sol-1", &got))
	assert.Equal(t, "42", got["answer"])
}

func TestWriteUpsertIsIdempotent(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	require.NoError(t, s.Write(t.Context(), Solutions, map[string]any{"answer": "first"}, "sol-1"))
	require.NoError(t, s.Write(t.Context(), Solutions, map[string]any{"answer": "second"}, "sol-1"))

	n, err := s.Count(t.Context(), Solutions)
	require.NoError(t, err)
	assert.Equal(t, 1, n, "writing the same document id twice must yield one logical record")

	var got map[string]any
	require.NoError(t, s.Get(t.Context(), Solutions, "sol-1", &got))
	assert.Equal(t, "second", got["answer"])
}

func TestWriteAutoID(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	require.NoError(t, s.Write(t.Context(), Metrics, map[string]any{"v": 1}, ""))
	require.NoError(t, s.Write(t.Context(), Metrics, map[string]any{"v": 2}, ""))

	n, err := s.Count(t.Context(), Metrics)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestUpdate(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	require.NoError(t, s.Write(t.Context(), Runs, map[string]any{"run_id": "r1", "status": "started"}, "r1"))
	require.NoError(t, s.Update(t.Context(), Runs, "r1", map[string]any{
		"status":      "roles_assigned",
		"final_roles": map[string]string{"m1": "Judge"},
	}))

	var got map[string]any
	require.NoError(t, s.Get(t.Context(), Runs, "r1", &got))
	assert.Equal(t, "roles_assigned", got["status"])
	assert.Equal(t, "r1", got["run_id"], "untouched fields survive a partial update")
}

func TestUpdateUnknownID(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	err := s.Update(t.Context(), Runs, "missing", map[string]any{"status": "x"})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestInvalidCollectionName(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	require.ErrorIs(t, s.Write(t.Context(), "", map[string]any{}, "x"), ErrEmptyCollection)
	require.Error(t, s.Write(t.Context(), `bad";drop`, map[string]any{}, "x"))
}
