package mcp

// FilesInput defines the input schema for the files tool.
type FilesInput struct {
	Root        string `json:"root,omitempty" jsonschema:"directory to search, defaults to the project root"`
	Pattern     string `json:"pattern" jsonschema:"glob pattern to match file paths against, e.g. *.go"`
	IncludeDirs bool   `json:"include_dirs,omitempty" jsonschema:"include directory entries in the match"`
	FullPath    bool   `json:"full_path,omitempty" jsonschema:"match the pattern against the full path instead of just the basename"`
	IgnoreCase  bool   `json:"ignore_case,omitempty" jsonschema:"match case-insensitively"`
}

// FilesOutput defines the output schema for the files tool.
type FilesOutput struct {
	Paths     []string `json:"paths" jsonschema:"matching file paths, newest first"`
	Truncated bool     `json:"truncated,omitempty" jsonschema:"true if the match set was capped before all matches were collected"`
}

// ListInput defines the input schema for the list tool.
type ListInput struct {
	Root       string `json:"root,omitempty" jsonschema:"directory to list, defaults to the project root"`
	Pattern    string `json:"pattern,omitempty" jsonschema:"optional glob pattern to filter entries"`
	IgnoreCase bool   `json:"ignore_case,omitempty" jsonschema:"match the pattern case-insensitively"`
}

// ListEntryOutput describes one non-recursive directory entry.
type ListEntryOutput struct {
	Path  string `json:"path"`
	IsDir bool   `json:"is_dir"`
}

// ListOutput defines the output schema for the list tool.
type ListOutput struct {
	Entries []ListEntryOutput `json:"entries"`
}

// ReadInput defines the input schema for the read tool.
type ReadInput struct {
	Path   string `json:"path" jsonschema:"path of the file to read"`
	Offset int    `json:"offset,omitempty" jsonschema:"0-based line offset to start reading from"`
	Limit  int    `json:"limit,omitempty" jsonschema:"maximum number of lines to return, default 2000"`
}

// ReadOutput defines the output schema for the read tool.
type ReadOutput struct {
	Content    string `json:"content" jsonschema:"numbered, line-framed file content"`
	TotalLines int    `json:"total_lines"`
	HasMore    bool   `json:"has_more" jsonschema:"true if more lines exist past offset+limit"`
}

// ReplaceInput defines the input schema for the replace tool.
type ReplaceInput struct {
	FilePath string `json:"file_path" jsonschema:"path of the file to edit"`
	Old      string `json:"old" jsonschema:"exact substring to replace"`
	New      string `json:"new" jsonschema:"replacement text"`
	Force    bool   `json:"force,omitempty" jsonschema:"apply the edit; without this the call only previews it"`
	Preview  bool   `json:"preview,omitempty" jsonschema:"return the resulting content without writing, even if force is set"`
}

// ReplaceOutput defines the output schema for the replace tool.
type ReplaceOutput struct {
	Applied     bool   `json:"applied"`
	Preview     string `json:"preview,omitempty"`
	Occurrences int    `json:"occurrences"`
}

// IndexBuildInput defines the input schema for the index_build tool.
type IndexBuildInput struct {
	Root     string `json:"root,omitempty" jsonschema:"directory to index, defaults to the project root"`
	NoIgnore bool   `json:"no_ignore,omitempty" jsonschema:"index files that .gitignore would otherwise exclude"`
}

// IndexUpdateInput defines the input schema for the index_update tool.
type IndexUpdateInput struct {
	Root string `json:"root,omitempty" jsonschema:"directory to update, defaults to the project root"`
}

// IndexClearInput defines the input schema for the index_clear tool.
type IndexClearInput struct {
	Root string `json:"root,omitempty" jsonschema:"directory whose index artifacts should be removed"`
}

// IndexMutationOutput defines the output schema shared by index_build and
// index_update.
type IndexMutationOutput struct {
	Files      int   `json:"files"`
	Chunks     int   `json:"chunks"`
	DurationMs int64 `json:"duration_ms"`
	Errors     int   `json:"errors"`
	Warnings   int   `json:"warnings"`
}

// WatchInput defines the input schema for the watch tool.
type WatchInput struct {
	Root         string   `json:"root,omitempty" jsonschema:"directory to watch, defaults to the project root"`
	Paths        []string `json:"paths,omitempty" jsonschema:"specific paths to watch instead of the whole root"`
	TimeoutSecs  float64  `json:"timeout_secs,omitempty" jsonschema:"how long to watch before returning, default 5, max 60"`
	DebounceSecs float64  `json:"debounce_secs,omitempty" jsonschema:"coalescing window applied to rapid successive changes"`
}

// WatchBatchOutput is one coalesced batch of filesystem changes.
type WatchBatchOutput struct {
	ChangedPaths []string `json:"changed_paths"`
	Error        string   `json:"error,omitempty"`
}

// WatchOutput defines the output schema for the watch tool.
type WatchOutput struct {
	Batches []WatchBatchOutput `json:"batches"`
}

// HealthInput defines the input schema for the health tool (no parameters).
type HealthInput struct{}

// HealthOutput defines the output schema for the health tool.
type HealthOutput struct {
	Healthy       bool   `json:"healthy"`
	IndexReady    bool   `json:"index_ready"`
	ChunkCount    int    `json:"chunk_count"`
	DocumentCount int    `json:"document_count"`
	Detail        string `json:"detail,omitempty"`
}

// IndexStatusInput defines the input schema for the index_status tool (no parameters).
type IndexStatusInput struct{}

// IndexStatusOutput defines the output schema for the index_status tool.
type IndexStatusOutput struct {
	Project    ProjectInfo       `json:"project"`
	Stats      IndexStats        `json:"stats"`
	Embeddings EmbeddingInfo     `json:"embeddings"`
	Indexing   *IndexingProgress `json:"indexing,omitempty"` // Present during background indexing
}

// IndexingProgress contains information about ongoing background indexing.
type IndexingProgress struct {
	Status         string  `json:"status"`                  // "indexing", "ready", or "error"
	Stage          string  `json:"stage,omitempty"`         // "scanning", "chunking", "embedding", "indexing"
	FilesTotal     int     `json:"files_total"`             // Total files to process
	FilesProcessed int     `json:"files_processed"`         // Files processed so far
	ChunksIndexed  int     `json:"chunks_indexed"`          // Chunks indexed so far
	ProgressPct    float64 `json:"progress_pct"`            // Progress percentage (0-100)
	ElapsedSeconds int     `json:"elapsed_seconds"`         // Time since indexing started
	ErrorMessage   string  `json:"error_message,omitempty"` // Error message if status is "error"
}

// ProjectInfo contains information about the indexed project.
type ProjectInfo struct {
	Name     string `json:"name"`
	RootPath string `json:"root_path"`
	Type     string `json:"type"`
}

// IndexStats contains statistics about the index.
type IndexStats struct {
	FileCount      int    `json:"file_count"`
	ChunkCount     int    `json:"chunk_count"`
	IndexSizeBytes int64  `json:"index_size_bytes"`
	LastIndexed    string `json:"last_indexed"`
}

// EmbeddingInfo contains information about the embedding configuration.
type EmbeddingInfo struct {
	// Config values
	Provider string `json:"provider"`
	Model    string `json:"model"`
	Status   string `json:"status"`

	// Runtime state - allows AI clients to adjust search strategy
	ActualProvider   string `json:"actual_provider"`    // "hugot" or "static"
	ActualModel      string `json:"actual_model"`       // e.g., "embeddinggemma-300m" or "static"
	Dimensions       int    `json:"dimensions"`         // 768 (hugot) or 256 (static)
	IsFallbackActive bool   `json:"is_fallback_active"` // true if using static fallback
	SemanticQuality  string `json:"semantic_quality"`   // "high" (hugot) or "low" (static)
}
