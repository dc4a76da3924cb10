package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"
)

// ArtifactWriter mirrors persisted documents as JSON files under a
// run-keyed directory. The files are an audit copy only; the Store is
// authoritative and a failed file write must never abort the pipeline.
type ArtifactWriter struct {
	root string
}

func NewArtifactWriter(outputDir, runID string) *ArtifactWriter {
	return &ArtifactWriter{root: filepath.Join(outputDir, runID)}
}

// Dir returns the run-scoped root all artifacts land under.
func (w *ArtifactWriter) Dir() string { return w.root }

// Save writes doc as indented JSON to <root>/<subdir>/<name>.json,
// atomically so a crashed run never leaves a truncated artifact.
func (w *ArtifactWriter) Save(subdir, name string, doc any) error {
	dir := filepath.Join(w.root, subdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create artifact directory %s: %w", dir, err)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode artifact %s: %w", name, err)
	}

	path := filepath.Join(dir, name+".json")
	if err := atomic.WriteFile(path, &buf); err != nil {
		return fmt.Errorf("failed to write artifact %s: %w", path, err)
	}
	return nil
}
