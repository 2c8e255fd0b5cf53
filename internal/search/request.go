package search

import (
	"context"
	"time"

	"github.com/google/uuid"

	ricegreperrors "github.com/ricegrep/ricegrep/internal/errors"
)

// SearchRequest is the externally-facing search contract shared by the CLI,
// the MCP `search` tool, and the HTTP `/search` endpoint. It is a thin,
// stable wrapper around the engine's richer SearchOptions: callers outside
// this process only ever see the fields below.
type SearchRequest struct {
	// Query is the search text. Required.
	Query string

	// Paths restricts the search to files under these root-relative path
	// prefixes. Empty means the whole index.
	Paths []string

	// MaxCount caps the number of results returned (default 10, max 100).
	MaxCount int

	// Language filters results to a single chunk.Language value.
	Language string

	// RepositoryID filters results to chunks belonging to one repository,
	// when the index tracks multiple repositories under one root.
	RepositoryID *uint32

	// FilePathPattern is a glob applied to the chunk's file path.
	FilePathPattern string

	// Timeout bounds how long the search may run; zero uses the engine's
	// configured default. On expiry, a partial, already-sorted result set
	// is returned rather than an error.
	Timeout time.Duration
}

// SearchResponse is the result envelope returned for a SearchRequest.
type SearchResponse struct {
	// RequestID uniquely identifies this search, for correlating logs.
	RequestID string

	// Results are the ranked matches, already capped to MaxCount.
	Results []*SearchResult

	// TotalFound is the number of matches before capping to MaxCount.
	TotalFound int

	// QueryTimeMs is the wall-clock duration of the search, in milliseconds.
	QueryTimeMs int64

	// Timeout is true if the request's Timeout elapsed before the search
	// completed; Results then holds whatever was ready at that point.
	Timeout bool
}

// Service adapts a SearchEngine to the SearchRequest/SearchResponse
// contract: default resolution, scope-to-options translation, zero-hit
// handling, and request bookkeeping (request_id, query_time_ms).
type Service struct {
	engine SearchEngine
}

// NewService wraps engine with the SearchRequest/SearchResponse contract.
func NewService(engine SearchEngine) *Service {
	return &Service{engine: engine}
}

// Stats reports the wrapped engine's index statistics, or nil if the
// service has no engine.
func (s *Service) Stats() *EngineStats {
	if s == nil || s.engine == nil {
		return nil
	}
	return s.engine.Stats()
}

// ErrIndexNotReady is returned when the underlying engine has no usable
// index yet (first run, or a build in progress).
var ErrIndexNotReady = ricegreperrors.New(
	ricegreperrors.ErrCodeIndexNotReady,
	"index is not ready; run 'ricegrep index build' first",
	nil,
)

// Search executes req against the wrapped engine and assembles a
// SearchResponse: validates and resolves defaults, runs the search (racing
// against req.Timeout when set), filters by RepositoryID/FilePathPattern
// which SearchOptions does not natively express, then caps and stamps the
// response with a fresh request ID and measured latency.
func (s *Service) Search(ctx context.Context, req SearchRequest) (*SearchResponse, error) {
	start := time.Now()
	requestID := uuid.New().String()

	if req.Query == "" {
		return nil, ricegreperrors.New(ricegreperrors.ErrCodeQueryEmpty, "query must not be empty", nil)
	}

	maxCount := req.MaxCount
	if maxCount <= 0 {
		maxCount = 10
	}
	if maxCount > 100 {
		maxCount = 100
	}

	opts := SearchOptions{
		Limit:    maxCount * 2, // over-fetch so post-filtering still yields maxCount
		Language: req.Language,
		Scopes:   req.Paths,
	}

	searchCtx := ctx
	var cancel context.CancelFunc
	if req.Timeout > 0 {
		searchCtx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	results, err := s.engine.Search(searchCtx, req.Query, opts)
	timedOut := req.Timeout > 0 && searchCtx.Err() == context.DeadlineExceeded
	if err != nil && !timedOut {
		return nil, err
	}

	results = filterByRepository(results, req.RepositoryID)
	results = filterByFilePathPattern(results, req.FilePathPattern)

	totalFound := len(results)
	if len(results) > maxCount {
		results = results[:maxCount]
	}

	return &SearchResponse{
		RequestID:   requestID,
		Results:     results,
		TotalFound:  totalFound,
		QueryTimeMs: time.Since(start).Milliseconds(),
		Timeout:     timedOut,
	}, nil
}

func filterByRepository(results []*SearchResult, repositoryID *uint32) []*SearchResult {
	if repositoryID == nil {
		return results
	}
	filtered := make([]*SearchResult, 0, len(results))
	for _, r := range results {
		if r.Chunk == nil {
			continue
		}
		id, ok := r.Chunk.Metadata["repository_id"]
		if !ok {
			continue
		}
		if id == uintToString(*repositoryID) {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

func filterByFilePathPattern(results []*SearchResult, pattern string) []*SearchResult {
	if pattern == "" {
		return results
	}
	g, err := compileGlob(pattern)
	if err != nil {
		return results
	}
	filtered := make([]*SearchResult, 0, len(results))
	for _, r := range results {
		if r.Chunk == nil {
			continue
		}
		if g.Match(r.Chunk.FilePath) {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

func uintToString(v uint32) string {
	const digits = "0123456789"
	if v == 0 {
		return "0"
	}
	var buf [10]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = digits[v%10]
		v /= 10
	}
	return string(buf[i:])
}
