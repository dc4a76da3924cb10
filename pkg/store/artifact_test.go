package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArtifactWriterSave(t *testing.T) {
	t.Parallel()

	out := t.TempDir()
	w := NewArtifactWriter(out, "run-1")

	doc := map[string]any{"solution_id": "s1", "answer": "42"}
	require.NoError(t, w.Save("solutions", "m1_p-001", doc))

	data, err := os.ReadFile(filepath.Join(out, "run-1", "solutions", "m1_p-001.json"))
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "42", got["answer"])
}

func TestArtifactWriterOverwrite(t *testing.T) {
	t.Parallel()

	w := NewArtifactWriter(t.TempDir(), "run-1")
	require.NoError(t, w.Save("reviews", "a_b", map[string]any{"v": 1}))
	require.NoError(t, w.Save("reviews", "a_b", map[string]any{"v": 2}))

	data, err := os.ReadFile(filepath.Join(w.Dir(), "reviews", "a_b.json"))
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	assert.InEpsilon(t, float64(2), got["v"], 0.0001)
}
