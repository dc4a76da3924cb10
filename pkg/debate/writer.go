package debate

import (
	"context"
	"log/slog"

	"github.com/parley-ai/parley/pkg/store"
)

// storeWriter couples the authoritative store with the audit artifact
// mirror. Store failures surface to the caller; a failed artifact is
// only logged, the mirror is never authoritative and never aborts a
// task.
type storeWriter struct {
	store     store.Store
	artifacts *store.ArtifactWriter
}

func (w *storeWriter) Write(ctx context.Context, collection string, doc any, documentID string) error {
	return w.store.Write(ctx, collection, doc, documentID)
}

func (w *storeWriter) Update(ctx context.Context, collection, documentID string, fields map[string]any) error {
	return w.store.Update(ctx, collection, documentID, fields)
}

func (w *storeWriter) SaveArtifact(subdir, name string, doc any) {
	if w.artifacts == nil {
		return
	}
	if err := w.artifacts.Save(subdir, name, doc); err != nil {
		slog.Warn("Failed to write audit artifact", "subdir", subdir, "name", name, "error", err)
	}
}
