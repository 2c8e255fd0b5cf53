package mcp

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/ricegrep/ricegrep/internal/async"
	"github.com/ricegrep/ricegrep/internal/config"
	"github.com/ricegrep/ricegrep/internal/dispatch"
	"github.com/ricegrep/ricegrep/internal/embed"
	"github.com/ricegrep/ricegrep/internal/search"
	"github.com/ricegrep/ricegrep/internal/store"
	"github.com/ricegrep/ricegrep/internal/telemetry"
	"github.com/ricegrep/ricegrep/pkg/version"
)

// defaultWatchTimeout bounds how long the watch tool blocks when the caller
// doesn't specify one; maxWatchTimeout caps it regardless, since a synchronous
// MCP tool call has to return eventually.
const (
	defaultWatchTimeout = 5 * time.Second
	maxWatchTimeout     = 60 * time.Second
)

// Server is the MCP server for Ricegrep.
// It bridges AI clients (Claude Code, Cursor) with the dispatch tool surface
// shared by the CLI and the optional HTTP server, so every transport behaves
// identically.
type Server struct {
	mcp        *mcp.Server
	dispatcher *dispatch.Dispatcher
	metadata   store.MetadataStore
	embedder   embed.Embedder // Embedder for capability signaling
	config     *config.Config
	logger     *slog.Logger

	// Project identification for resource operations
	projectID string
	rootPath  string

	// Background indexing progress (nil if not indexing)
	indexProgress *async.IndexProgress

	// Query telemetry (optional, set via SetMetrics)
	metrics *telemetry.QueryMetrics

	mu sync.RWMutex
}

// ToolInfo contains information about a registered tool.
type ToolInfo struct {
	Name        string
	Description string
}

// ResourceInfo contains information about a resource.
type ResourceInfo struct {
	URI      string
	Name     string
	MIMEType string
}

// ResourceContent contains the content of a resource.
type ResourceContent struct {
	URI      string
	Content  string
	MIMEType string
}

// SearchInput defines the input schema for the search tool.
type SearchInput struct {
	Query           string   `json:"query" jsonschema:"the search query to execute"`
	Limit           int      `json:"limit,omitempty" jsonschema:"maximum number of results, default 10"`
	Language        string   `json:"language,omitempty" jsonschema:"filter by programming language, e.g. go, typescript"`
	Scope           []string `json:"scope,omitempty" jsonschema:"filter by path prefixes (OR logic)"`
	FilePathPattern string   `json:"file_path_pattern,omitempty" jsonschema:"glob applied to the result's file path"`
}

// SearchOutput defines the output schema for the search tool.
type SearchOutput struct {
	Results    []SearchResultOutput `json:"results" jsonschema:"list of search results"`
	TotalFound int                  `json:"total_found"`
	Timeout    bool                 `json:"timeout,omitempty"`
}

// SearchResultOutput defines a single search result with context-rich metadata.
type SearchResultOutput struct {
	FilePath     string   `json:"file_path" jsonschema:"file path relative to project root"`
	Content      string   `json:"content" jsonschema:"matched content snippet"`
	Score        float64  `json:"score" jsonschema:"relevance score between 0 and 1"`
	Language     string   `json:"language,omitempty" jsonschema:"programming language of the file"`
	MatchReason  string   `json:"match_reason,omitempty" jsonschema:"human-readable explanation of why this result matched"`
	Symbol       string   `json:"symbol,omitempty" jsonschema:"primary symbol name (function, class, type)"`
	SymbolType   string   `json:"symbol_type,omitempty" jsonschema:"type of symbol: function, class, interface, type, method"`
	Signature    string   `json:"signature,omitempty" jsonschema:"full function/method signature"`
	MatchedTerms []string `json:"matched_terms,omitempty" jsonschema:"query terms that matched this result"`
	InBothLists  bool     `json:"in_both_lists,omitempty" jsonschema:"true if result appeared in both keyword and semantic search"`
}

// NewServer creates a new MCP server backed by dispatcher for every tool
// call. metadata and embedder are used for resource listing and capability
// signaling respectively; rootPath is used for project detection (go.mod,
// package.json, etc.).
func NewServer(dispatcher *dispatch.Dispatcher, metadata store.MetadataStore, embedder embed.Embedder, cfg *config.Config, rootPath string) (*Server, error) {
	if dispatcher == nil {
		return nil, errors.New("dispatcher is required")
	}
	if metadata == nil {
		return nil, errors.New("metadata store is required")
	}
	if cfg == nil {
		cfg = config.NewConfig()
	}

	s := &Server{
		dispatcher: dispatcher,
		metadata:   metadata,
		embedder:   embedder, // May be nil - will report as unavailable
		config:     cfg,
		rootPath:   rootPath,
		logger:     slog.Default(),
	}

	// Create MCP server with implementation info
	s.mcp = mcp.NewServer(
		&mcp.Implementation{
			Name:    "Ricegrep",
			Version: version.Version,
		},
		nil, // ServerOptions - capabilities are inferred from registered tools/resources
	)

	// Register tools
	s.registerTools()

	return s, nil
}

// SetIndexProgress sets the index progress tracker for background indexing.
// This enables the server to report indexing progress via index_status and
// return appropriate messages when search is called during indexing.
func (s *Server) SetIndexProgress(progress *async.IndexProgress) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.indexProgress = progress
}

// SetMetrics sets the query metrics collector for telemetry.
// When set, a query_metrics resource is registered.
func (s *Server) SetMetrics(m *telemetry.QueryMetrics) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.metrics = m

	// Register query_metrics resource if metrics is provided
	if m != nil {
		s.registerQueryMetricsResource()
	}
}

// MCPServer returns the underlying MCP server instance.
func (s *Server) MCPServer() *mcp.Server {
	return s.mcp
}

// Info returns the server name and version.
func (s *Server) Info() (name, ver string) {
	return "Ricegrep", version.Version
}

// Capabilities returns whether tools and resources are enabled.
func (s *Server) Capabilities() (hasTools, hasResources bool) {
	return true, true
}

// ListTools returns all registered tools.
func (s *Server) ListTools() []ToolInfo {
	return []ToolInfo{
		{Name: "search", Description: "Hybrid keyword + semantic search over the codebase index. Use this for 95% of your search tasks - faster and smarter than grep."},
		{Name: "files", Description: "Glob-match file paths under a root, newest first."},
		{Name: "list", Description: "List the immediate entries of a single directory, honoring .gitignore."},
		{Name: "read", Description: "Read a line range from a file with numbered-line framing."},
		{Name: "replace", Description: "Replace a literal substring in a file. Defaults to a dry-run preview; pass force to write."},
		{Name: "index_build", Description: "Rebuild the codebase index from scratch."},
		{Name: "index_update", Description: "Incrementally update the index for files changed since the last build."},
		{Name: "index_clear", Description: "Remove all on-disk index artifacts."},
		{Name: "index_status", Description: "Check if the codebase index is ready and which embedder is active. Use before searching to verify the index is complete."},
		{Name: "watch", Description: "Watch the project for filesystem changes for a bounded duration, driving incremental index updates."},
		{Name: "health", Description: "Report whether the engine is ready to serve search and index operations."},
	}
}

// CallTool invokes a tool by name with the given arguments. It exists
// alongside the typed MCP SDK handlers registered in registerTools for
// callers that want an untyped, map-based invocation surface.
func (s *Server) CallTool(ctx context.Context, name string, args map[string]any) (any, error) {
	switch name {
	case "search":
		query, _ := args["query"].(string)
		limit, _ := args["limit"].(float64)
		input := SearchInput{Query: query, Limit: int(limit)}
		if lang, ok := args["language"].(string); ok {
			input.Language = lang
		}
		_, out, err := s.mcpSearchHandler(ctx, nil, input)
		return out, err
	case "index_status":
		_, out, err := s.mcpIndexStatusHandler(ctx, nil, IndexStatusInput{})
		return &out, err
	case "health":
		_, out, err := s.mcpHealthHandler(ctx, nil, HealthInput{})
		return out, err
	default:
		return nil, NewMethodNotFoundError(name)
	}
}

// registerTools registers the dispatch-backed tool surface with the MCP
// server: search, files, list, read, replace, index build/update/clear/
// status, watch, and health.
func (s *Server) registerTools() {
	s.logger.Debug("Registering MCP tools")

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "search",
		Description: "Hybrid keyword + semantic search over the codebase index. Use this for 95% of your search tasks - faster and smarter than grep.",
	}, s.mcpSearchHandler)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "files",
		Description: "Glob-match file paths under a root, newest first.",
	}, s.mcpFilesHandler)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "list",
		Description: "List the immediate entries of a single directory, honoring .gitignore.",
	}, s.mcpListHandler)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "read",
		Description: "Read a line range from a file with numbered-line framing.",
	}, s.mcpReadHandler)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "replace",
		Description: "Replace a literal substring in a file. Defaults to a dry-run preview; pass force to write.",
	}, s.mcpReplaceHandler)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "index_build",
		Description: "Rebuild the codebase index from scratch.",
	}, s.mcpIndexBuildHandler)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "index_update",
		Description: "Incrementally update the index for files changed since the last build.",
	}, s.mcpIndexUpdateHandler)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "index_clear",
		Description: "Remove all on-disk index artifacts.",
	}, s.mcpIndexClearHandler)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "index_status",
		Description: "Check if the codebase index is ready and which embedder is active. Use before searching to verify the index is complete.",
	}, s.mcpIndexStatusHandler)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "watch",
		Description: "Watch the project for filesystem changes for a bounded duration, driving incremental index updates.",
	}, s.mcpWatchHandler)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "health",
		Description: "Report whether the engine is ready to serve search and index operations.",
	}, s.mcpHealthHandler)

	s.logger.Info("MCP tools registered", slog.Int("count", len(s.ListTools())))
}

// mcpSearchHandler is the MCP SDK handler for the search tool.
func (s *Server) mcpSearchHandler(ctx context.Context, _ *mcp.CallToolRequest, input SearchInput) (
	*mcp.CallToolResult,
	SearchOutput,
	error,
) {
	s.mu.RLock()
	progress := s.indexProgress
	s.mu.RUnlock()
	if progress != nil && progress.IsIndexing() {
		return nil, SearchOutput{}, NewInvalidParamsError("index is still being built; try again shortly")
	}

	if strings.TrimSpace(input.Query) == "" {
		return nil, SearchOutput{}, NewInvalidParamsError("query parameter is required and must be a non-empty string")
	}

	requestID := generateRequestID()
	start := time.Now()

	req := search.SearchRequest{
		Query:           input.Query,
		Paths:           input.Scope,
		MaxCount:        input.Limit,
		Language:        input.Language,
		FilePathPattern: input.FilePathPattern,
	}

	resp, err := s.dispatcher.Search(ctx, req)
	duration := time.Since(start)
	if err != nil {
		s.logger.Error("search failed",
			slog.String("request_id", requestID),
			slog.Duration("duration", duration),
			slog.String("error", err.Error()))
		return nil, SearchOutput{}, MapError(err)
	}

	s.logger.Info("search completed",
		slog.String("request_id", requestID),
		slog.Duration("duration", duration),
		slog.Int("result_count", len(resp.Results)))

	output := SearchOutput{
		Results:    make([]SearchResultOutput, 0, len(resp.Results)),
		TotalFound: resp.TotalFound,
		Timeout:    resp.Timeout,
	}
	for _, r := range resp.Results {
		if r.Chunk != nil {
			output.Results = append(output.Results, ToSearchResultOutput(r))
		}
	}

	return nil, output, nil
}

// mcpFilesHandler is the MCP SDK handler for the files tool.
func (s *Server) mcpFilesHandler(ctx context.Context, _ *mcp.CallToolRequest, input FilesInput) (
	*mcp.CallToolResult,
	FilesOutput,
	error,
) {
	resp, err := s.dispatcher.Files(ctx, dispatch.FilesRequest{
		Root:        input.Root,
		Pattern:     input.Pattern,
		IncludeDirs: input.IncludeDirs,
		FullPath:    input.FullPath,
		IgnoreCase:  input.IgnoreCase,
	})
	if err != nil {
		return nil, FilesOutput{}, MapError(err)
	}
	return nil, FilesOutput{Paths: resp.Paths, Truncated: resp.Truncated}, nil
}

// mcpListHandler is the MCP SDK handler for the list tool.
func (s *Server) mcpListHandler(ctx context.Context, _ *mcp.CallToolRequest, input ListInput) (
	*mcp.CallToolResult,
	ListOutput,
	error,
) {
	resp, err := s.dispatcher.List(ctx, dispatch.ListRequest{
		Root:       input.Root,
		Pattern:    input.Pattern,
		IgnoreCase: input.IgnoreCase,
	})
	if err != nil {
		return nil, ListOutput{}, MapError(err)
	}
	entries := make([]ListEntryOutput, len(resp.Entries))
	for i, e := range resp.Entries {
		entries[i] = ListEntryOutput{Path: e.Path, IsDir: e.IsDir}
	}
	return nil, ListOutput{Entries: entries}, nil
}

// mcpReadHandler is the MCP SDK handler for the read tool.
func (s *Server) mcpReadHandler(ctx context.Context, _ *mcp.CallToolRequest, input ReadInput) (
	*mcp.CallToolResult,
	ReadOutput,
	error,
) {
	if input.Path == "" {
		return nil, ReadOutput{}, NewInvalidParamsError("path parameter is required")
	}
	resp, err := s.dispatcher.Read(ctx, dispatch.ReadRequest{
		Path:   input.Path,
		Offset: input.Offset,
		Limit:  input.Limit,
	})
	if err != nil {
		return nil, ReadOutput{}, MapError(err)
	}
	return nil, ReadOutput{Content: resp.Content, TotalLines: resp.TotalLines, HasMore: resp.HasMore}, nil
}

// mcpReplaceHandler is the MCP SDK handler for the replace tool.
func (s *Server) mcpReplaceHandler(ctx context.Context, _ *mcp.CallToolRequest, input ReplaceInput) (
	*mcp.CallToolResult,
	ReplaceOutput,
	error,
) {
	if input.FilePath == "" {
		return nil, ReplaceOutput{}, NewInvalidParamsError("file_path parameter is required")
	}
	resp, err := s.dispatcher.Replace(ctx, dispatch.ReplaceRequest{
		FilePath: input.FilePath,
		Old:      input.Old,
		New:      input.New,
		Force:    input.Force,
		Preview:  input.Preview,
	})
	if err != nil {
		return nil, ReplaceOutput{}, MapError(err)
	}
	return nil, ReplaceOutput{Applied: resp.Applied, Preview: resp.Preview, Occurrences: resp.Occurrences}, nil
}

// mcpIndexBuildHandler is the MCP SDK handler for the index_build tool.
func (s *Server) mcpIndexBuildHandler(ctx context.Context, _ *mcp.CallToolRequest, input IndexBuildInput) (
	*mcp.CallToolResult,
	IndexMutationOutput,
	error,
) {
	result, err := s.dispatcher.IndexBuild(ctx, dispatch.IndexBuildRequest{Root: input.Root, NoIgnore: input.NoIgnore})
	if err != nil {
		return nil, IndexMutationOutput{}, MapError(err)
	}
	return nil, toMutationOutput(result), nil
}

// mcpIndexUpdateHandler is the MCP SDK handler for the index_update tool.
func (s *Server) mcpIndexUpdateHandler(ctx context.Context, _ *mcp.CallToolRequest, input IndexUpdateInput) (
	*mcp.CallToolResult,
	IndexMutationOutput,
	error,
) {
	result, err := s.dispatcher.IndexUpdate(ctx, dispatch.IndexUpdateRequest{Root: input.Root})
	if err != nil {
		return nil, IndexMutationOutput{}, MapError(err)
	}
	return nil, toMutationOutput(result), nil
}

func toMutationOutput(result dispatch.IndexResult) IndexMutationOutput {
	return IndexMutationOutput{
		Files:      result.Files,
		Chunks:     result.Chunks,
		DurationMs: result.Duration.Milliseconds(),
		Errors:     result.Errors,
		Warnings:   result.Warnings,
	}
}

// mcpIndexClearHandler is the MCP SDK handler for the index_clear tool.
func (s *Server) mcpIndexClearHandler(ctx context.Context, _ *mcp.CallToolRequest, input IndexClearInput) (
	*mcp.CallToolResult,
	struct{},
	error,
) {
	if err := s.dispatcher.IndexClear(ctx, input.Root); err != nil {
		return nil, struct{}{}, MapError(err)
	}
	return nil, struct{}{}, nil
}

// mcpWatchHandler is the MCP SDK handler for the watch tool. A watch is
// inherently a stream, but an MCP tool call is request/response, so this
// collects batches for a bounded duration and returns them all at once.
func (s *Server) mcpWatchHandler(ctx context.Context, _ *mcp.CallToolRequest, input WatchInput) (
	*mcp.CallToolResult,
	WatchOutput,
	error,
) {
	timeout := defaultWatchTimeout
	if input.TimeoutSecs > 0 {
		timeout = time.Duration(input.TimeoutSecs * float64(time.Second))
	}
	if timeout > maxWatchTimeout {
		timeout = maxWatchTimeout
	}

	watchCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	events, err := s.dispatcher.Watch(watchCtx, dispatch.WatchRequest{
		Root:         input.Root,
		Paths:        input.Paths,
		Timeout:      timeout,
		DebounceSecs: input.DebounceSecs,
	})
	if err != nil {
		return nil, WatchOutput{}, MapError(err)
	}

	var out WatchOutput
	for ev := range events {
		batch := WatchBatchOutput{ChangedPaths: ev.ChangedPaths}
		if ev.Err != nil {
			batch.Error = ev.Err.Error()
		}
		out.Batches = append(out.Batches, batch)
	}

	return nil, out, nil
}

// mcpHealthHandler is the MCP SDK handler for the health tool.
func (s *Server) mcpHealthHandler(ctx context.Context, _ *mcp.CallToolRequest, _ HealthInput) (
	*mcp.CallToolResult,
	HealthOutput,
	error,
) {
	resp, err := s.dispatcher.Health(ctx)
	if err != nil {
		return nil, HealthOutput{}, MapError(err)
	}
	return nil, HealthOutput{
		Healthy:       resp.Healthy,
		IndexReady:    resp.IndexReady,
		ChunkCount:    resp.ChunkCount,
		DocumentCount: resp.DocumentCount,
		Detail:        resp.Detail,
	}, nil
}

// mcpIndexStatusHandler is the MCP SDK handler for the index_status tool.
// It combines dispatcher-reported index size with project detection and
// embedder capability state so AI clients can adjust their search strategy.
func (s *Server) mcpIndexStatusHandler(ctx context.Context, _ *mcp.CallToolRequest, _ IndexStatusInput) (
	*mcp.CallToolResult,
	IndexStatusOutput,
	error,
) {
	requestID := generateRequestID()
	start := time.Now()

	status, err := s.dispatcher.IndexStatus(ctx)
	if err != nil {
		return nil, IndexStatusOutput{}, MapError(err)
	}

	var actualProvider, actualModel, semanticQuality, embedStatus string
	var dimensions int
	var isFallbackActive bool

	if s.embedder != nil {
		actualModel = s.embedder.ModelName()
		dimensions = s.embedder.Dimensions()
		isFallbackActive = actualModel == "static" || dimensions == embed.StaticDimensions
		if isFallbackActive {
			actualProvider = "static"
			semanticQuality = "low"
		} else {
			actualProvider = "hugot"
			semanticQuality = "high"
		}
		if s.embedder.Available(ctx) {
			embedStatus = "ready"
		} else {
			embedStatus = "unavailable"
		}
	} else {
		actualProvider = "none"
		actualModel = "none"
		isFallbackActive = true
		semanticQuality = "none"
		embedStatus = "unavailable"
	}

	detector := NewProjectDetector(s.rootPath, s.logger)
	projectInfo := detector.Detect()

	output := IndexStatusOutput{
		Project: *projectInfo,
		Stats: IndexStats{
			FileCount:   status.DocumentCount,
			ChunkCount:  status.ChunkCount,
			LastIndexed: status.UpdatedAt.Format(time.RFC3339),
		},
		Embeddings: EmbeddingInfo{
			Provider:         s.config.Embeddings.Provider,
			Model:            s.config.Embeddings.Model,
			Status:           embedStatus,
			ActualProvider:   actualProvider,
			ActualModel:      actualModel,
			Dimensions:       dimensions,
			IsFallbackActive: isFallbackActive,
			SemanticQuality:  semanticQuality,
		},
	}

	s.mu.RLock()
	progress := s.indexProgress
	s.mu.RUnlock()
	if progress != nil {
		snap := progress.Snapshot()
		output.Indexing = &IndexingProgress{
			Status:         snap.Status,
			Stage:          snap.Stage,
			FilesTotal:     snap.FilesTotal,
			FilesProcessed: snap.FilesProcessed,
			ChunksIndexed:  snap.ChunksIndexed,
			ProgressPct:    snap.ProgressPct,
			ElapsedSeconds: snap.ElapsedSeconds,
			ErrorMessage:   snap.ErrorMessage,
		}
	}

	s.logger.Info("index_status completed",
		slog.String("request_id", requestID),
		slog.Duration("duration", time.Since(start)),
		slog.String("project_name", projectInfo.Name),
		slog.String("project_type", projectInfo.Type))

	return nil, output, nil
}

// ListResources returns all available resources.
func (s *Server) ListResources(ctx context.Context, cursor string) ([]ResourceInfo, string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// Get files from metadata store
	files, err := s.metadata.GetChangedFiles(ctx, "", emptyTime)
	if err != nil {
		return nil, "", err
	}

	resources := make([]ResourceInfo, 0, len(files))
	for _, f := range files {
		resources = append(resources, ResourceInfo{
			URI:      fmt.Sprintf("file://%s", f.Path),
			Name:     f.Path,
			MIMEType: mimeTypeForLanguage(f.Language),
		})
	}

	return resources, "", nil // No pagination for now
}

// ReadResource reads a resource by URI.
func (s *Server) ReadResource(ctx context.Context, uri string) (*ResourceContent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// Parse URI - support chunk:// and file:// schemes
	var chunkID string
	if strings.HasPrefix(uri, "chunk://") {
		chunkID = strings.TrimPrefix(uri, "chunk://")
	} else if strings.HasPrefix(uri, "file://") {
		// For file:// URIs, we'd need to look up the file
		// For now, return not found
		return nil, NewResourceNotFoundError(uri)
	} else {
		return nil, NewResourceNotFoundError(uri)
	}

	// Get chunk from metadata store
	chunk, err := s.metadata.GetChunk(ctx, chunkID)
	if err != nil {
		return nil, err
	}
	if chunk == nil {
		return nil, NewResourceNotFoundError(uri)
	}

	return &ResourceContent{
		URI:      uri,
		Content:  chunk.Content,
		MIMEType: mimeTypeForLanguage(chunk.Language),
	}, nil
}

// Serve starts the server with the specified transport.
func (s *Server) Serve(ctx context.Context, transport, addr string) error {
	s.logger.Info("Starting MCP server",
		slog.String("transport", transport),
		slog.String("addr", addr))

	switch transport {
	case "stdio":
		s.logger.Debug("Using stdio transport for JSON-RPC")
		err := s.mcp.Run(ctx, &mcp.StdioTransport{})
		if err != nil && err != context.Canceled {
			s.logger.Error("MCP server stopped with error",
				slog.String("error", err.Error()))
		} else {
			s.logger.Info("MCP server stopped gracefully")
		}
		return err
	case "sse":
		// SSE transport not yet implemented in SDK
		return fmt.Errorf("SSE transport not yet implemented")
	default:
		return fmt.Errorf("unknown transport: %s (supported: stdio)", transport)
	}
}

// Close releases server resources.
func (s *Server) Close() error {
	// The MCP server doesn't have a Close method - it stops when context is canceled
	return nil
}

// mimeTypeForLanguage returns the MIME type for a programming language.
func mimeTypeForLanguage(lang string) string {
	switch strings.ToLower(lang) {
	case "go":
		return "text/x-go"
	case "typescript", "ts":
		return "text/typescript"
	case "javascript", "js":
		return "text/javascript"
	case "python", "py":
		return "text/x-python"
	case "rust", "rs":
		return "text/x-rust"
	case "java":
		return "text/x-java"
	case "c":
		return "text/x-c"
	case "cpp", "c++":
		return "text/x-c++"
	case "markdown", "md":
		return "text/markdown"
	default:
		return "text/plain"
	}
}

// emptyTime is a zero time value for listing all files.
var emptyTime = time.Time{}

// generateRequestID creates a short unique request ID for log correlation.
func generateRequestID() string {
	b := make([]byte, 4)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
