// Package dispatch implements the shared tool surface exposed identically
// by the CLI, the MCP stdio server, and the optional HTTP server: search,
// files, list, read, replace, index build/update/clear/status, watch, and
// health. Each transport translates its own wire format into one of the
// request types below and calls straight into a Dispatcher so behavior
// never drifts between surfaces.
package dispatch

import "time"

// FilesRequest glob-matches file paths under a root, newest-first.
type FilesRequest struct {
	Root        string
	Pattern     string
	IncludeDirs bool
	FullPath    bool
	IgnoreCase  bool
}

// FilesResponse is the result of a Files call.
type FilesResponse struct {
	Paths     []string
	Truncated bool
}

// filesResultLimit caps the number of matches Files returns, mirroring the
// Rust CLI's collect_glob_matches hard limit.
const filesResultLimit = 100

// ListRequest lists the immediate entries of a single directory.
type ListRequest struct {
	Root       string
	Pattern    string
	IgnoreCase bool
}

// ListEntry describes one non-recursive directory entry.
type ListEntry struct {
	Path  string
	IsDir bool
}

// ListResponse is the result of a List call.
type ListResponse struct {
	Entries []ListEntry
}

// ReadRequest reads a line range from a file with numbered-line framing.
type ReadRequest struct {
	Path   string
	Offset int // 0-based line offset
	Limit  int // max lines to return; 0 means defaultReadLimit
}

// ReadResponse is the numbered, possibly-truncated content of a Read call.
type ReadResponse struct {
	Content    string
	TotalLines int
	HasMore    bool
}

const (
	defaultReadLimit  = 2000
	maxReadLineLength = 2000
)

// ReplaceRequest performs a literal old->new substring replacement across
// a file's content. Nothing is written unless Force is set; DryRun and
// Preview both produce a preview without writing.
type ReplaceRequest struct {
	FilePath string
	Old      string
	New      string
	Force    bool
	DryRun   bool
	Preview  bool
}

// ReplaceResponse reports what Replace did.
type ReplaceResponse struct {
	Applied     bool
	Preview     string
	Occurrences int
}

// IndexBuildRequest triggers a full index rebuild rooted at Root.
type IndexBuildRequest struct {
	Root      string
	NoIgnore  bool
}

// IndexUpdateRequest triggers an incremental index update rooted at Root.
type IndexUpdateRequest struct {
	Root string
}

// IndexResult reports the outcome of a build or update.
type IndexResult struct {
	Files    int
	Chunks   int
	Duration time.Duration
	Errors   int
	Warnings int
}

// IndexStatusResponse reports the current index's health and size.
type IndexStatusResponse struct {
	Ready         bool
	ChunkCount    int
	DocumentCount int
	Model         string
	Dimensions    int
	UpdatedAt     time.Time
}

// WatchRequest starts a debounced filesystem watch that drives incremental
// index updates.
type WatchRequest struct {
	Root           string
	Paths          []string
	Timeout        time.Duration
	DebounceSecs   float64
	ClearScreen    bool
}

// WatchEvent is one coalesced batch reported back to the caller during a
// Watch call.
type WatchEvent struct {
	ChangedPaths []string
	Err          error
}

// HealthResponse reports whether the engine is ready to serve search and
// index operations.
type HealthResponse struct {
	Healthy       bool
	IndexReady    bool
	ChunkCount    int
	DocumentCount int
	Detail        string
}
