package index

import (
	"context"
	"os"
	"path/filepath"

	"github.com/ricegrep/ricegrep/internal/dispatch"
)

// Adapter exposes Runner (full build) and Coordinator (incremental update
// and clear) through the narrow Build/Update/Clear surface dispatch.Runner
// expects, so the dispatcher never has to know about internal/index's
// richer types.
type Adapter struct {
	runner      *Runner
	coordinator *Coordinator
	dataDir     string
}

// NewAdapter wraps runner and coordinator for use by a dispatch.Dispatcher.
// coordinator may be nil if incremental update is not available, in which
// case Update falls back to a full Build.
func NewAdapter(runner *Runner, coordinator *Coordinator, dataDir string) *Adapter {
	return &Adapter{runner: runner, coordinator: coordinator, dataDir: dataDir}
}

var _ dispatch.Runner = (*Adapter)(nil)

// Build runs a full index rebuild rooted at root.
func (a *Adapter) Build(ctx context.Context, root string, noIgnore bool) (dispatch.IndexResult, error) {
	result, err := a.runner.Run(ctx, RunnerConfig{RootDir: root})
	if err != nil {
		return dispatch.IndexResult{}, err
	}
	return dispatch.IndexResult{
		Files:    result.Files,
		Chunks:   result.Chunks,
		Duration: result.Duration,
		Errors:   result.Errors,
		Warnings: result.Warnings,
	}, nil
}

// Update reconciles the index against the current state of root: changed,
// added, and removed files since the last build or update. Falls back to
// a full Build if no coordinator was configured.
func (a *Adapter) Update(ctx context.Context, root string) (dispatch.IndexResult, error) {
	if a.coordinator == nil {
		return a.Build(ctx, root, false)
	}
	if err := a.coordinator.ReconcileFilesOnStartup(ctx); err != nil {
		return dispatch.IndexResult{}, err
	}
	return dispatch.IndexResult{}, nil
}

// Clear removes all on-disk index artifacts under the data directory,
// leaving project configuration untouched.
func (a *Adapter) Clear(ctx context.Context, root string) error {
	artifacts := []string{
		"metadata.db", "metadata.db-shm", "metadata.db-wal",
		"bm25.bleve", "bm25.db", "bm25.db-wal", "bm25.db-shm",
		"vectors.hnsw", "metadata.bin",
	}
	for _, name := range artifacts {
		path := filepath.Join(a.dataDir, name)
		if err := os.RemoveAll(path); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}
