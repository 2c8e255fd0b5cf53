package dispatch

import (
	"context"
	"time"

	"github.com/ricegrep/ricegrep/internal/search"
	"github.com/ricegrep/ricegrep/internal/store"
	"github.com/ricegrep/ricegrep/internal/telemetry"
)

// Dispatcher implements the tool surface shared by the CLI, the MCP
// server, and the HTTP server. It is intentionally transport-agnostic:
// callers translate their own argument format into one of the Request
// types and get back a plain Go struct, never a wire-format-specific
// value.
type Dispatcher struct {
	root     string
	search   *search.Service
	metadata store.MetadataStore
	runner   Runner
	metrics  *telemetry.PrometheusMetrics
}

// Runner is the subset of internal/index's build/update orchestration the
// dispatcher's index.* operations depend on. internal/index.Runner
// satisfies this narrowed view; a Dispatcher can be built against a fake
// for testing.
type Runner interface {
	Build(ctx context.Context, root string, noIgnore bool) (IndexResult, error)
	Update(ctx context.Context, root string) (IndexResult, error)
	Clear(ctx context.Context, root string) error
}

// New creates a Dispatcher. searchSvc backs search/health/status; metadata
// backs index.status' model lookup; runner backs index.build/update/clear.
// Any of them may be nil, in which case the operations that depend on it
// report an error or a not-ready status instead of panicking.
func New(searchSvc *search.Service, metadata store.MetadataStore, runner Runner, root string) *Dispatcher {
	return &Dispatcher{
		root:     root,
		search:   searchSvc,
		metadata: metadata,
		runner:   runner,
	}
}

// SetMetrics attaches a prometheus collector set. Every dispatcher
// operation records into it when non-nil; a Dispatcher built without one
// (the common case in tests) simply skips recording.
func (d *Dispatcher) SetMetrics(m *telemetry.PrometheusMetrics) {
	d.metrics = m
}

// Search delegates to the wrapped search.Service.
func (d *Dispatcher) Search(ctx context.Context, req search.SearchRequest) (*search.SearchResponse, error) {
	if d.search == nil {
		return nil, search.ErrIndexNotReady
	}

	start := time.Now()
	resp, err := d.search.Search(ctx, req)
	if d.metrics != nil {
		event := telemetry.QueryEvent{QueryType: telemetry.QueryTypeMixed, Latency: time.Since(start)}
		if resp != nil {
			event.ResultCount = resp.TotalFound
		}
		d.metrics.RecordQuery(event)
		d.metrics.RecordToolCall("search")
	}
	return resp, err
}

// Health reports whether the engine has a usable index and can serve
// search requests.
func (d *Dispatcher) Health(ctx context.Context) (*HealthResponse, error) {
	if d.metrics != nil {
		d.metrics.RecordToolCall("health")
	}
	resp := &HealthResponse{}

	stats := d.search.Stats()
	if stats == nil || stats.BM25Stats == nil {
		resp.Detail = "engine dependencies not initialized"
		return resp, nil
	}

	resp.ChunkCount = stats.BM25Stats.DocumentCount
	resp.DocumentCount = stats.BM25Stats.DocumentCount
	resp.IndexReady = stats.BM25Stats.DocumentCount > 0
	resp.Healthy = resp.IndexReady
	if !resp.IndexReady {
		resp.Detail = "index is empty; run index.build first"
	}
	return resp, nil
}
