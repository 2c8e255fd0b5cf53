package dispatch

import (
	"context"
	"errors"

	"github.com/ricegrep/ricegrep/internal/store"
)

// ErrRunnerNotConfigured is returned by index.build/update/clear when the
// Dispatcher was built without a Runner, e.g. a read-only MCP session
// serving search against an already-built index.
var ErrRunnerNotConfigured = errors.New("dispatch: no index runner configured")

// IndexBuild triggers a full index rebuild.
func (d *Dispatcher) IndexBuild(ctx context.Context, req IndexBuildRequest) (IndexResult, error) {
	if d.metrics != nil {
		d.metrics.RecordToolCall("index.build")
	}
	if d.runner == nil {
		return IndexResult{}, ErrRunnerNotConfigured
	}
	root := req.Root
	if root == "" {
		root = d.root
	}
	result, err := d.runner.Build(ctx, root, req.NoIgnore)
	if err == nil && d.metrics != nil {
		d.metrics.SetIndexChunks(result.Chunks)
	}
	return result, err
}

// IndexUpdate triggers an incremental index update.
func (d *Dispatcher) IndexUpdate(ctx context.Context, req IndexUpdateRequest) (IndexResult, error) {
	if d.metrics != nil {
		d.metrics.RecordToolCall("index.update")
	}
	if d.runner == nil {
		return IndexResult{}, ErrRunnerNotConfigured
	}
	root := req.Root
	if root == "" {
		root = d.root
	}
	return d.runner.Update(ctx, root)
}

// IndexClear removes all on-disk index artifacts.
func (d *Dispatcher) IndexClear(ctx context.Context, root string) error {
	if d.metrics != nil {
		d.metrics.RecordToolCall("index.clear")
		d.metrics.SetIndexChunks(0)
	}
	if d.runner == nil {
		return ErrRunnerNotConfigured
	}
	if root == "" {
		root = d.root
	}
	return d.runner.Clear(ctx, root)
}

// IndexStatus reports the current index's readiness and size.
func (d *Dispatcher) IndexStatus(ctx context.Context) (*IndexStatusResponse, error) {
	if d.metrics != nil {
		d.metrics.RecordToolCall("index.status")
	}
	resp := &IndexStatusResponse{}

	stats := d.search.Stats()
	if stats == nil || stats.BM25Stats == nil {
		return resp, nil
	}
	resp.DocumentCount = stats.BM25Stats.DocumentCount
	resp.ChunkCount = stats.BM25Stats.DocumentCount
	resp.Ready = stats.BM25Stats.DocumentCount > 0

	if d.metadata != nil {
		if model, err := d.metadata.GetState(ctx, store.StateKeyIndexModel); err == nil {
			resp.Model = model
		}
	}
	return resp, nil
}
