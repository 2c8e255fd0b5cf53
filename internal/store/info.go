package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// EmbedderInfoInput carries the current embedder's identity into GetIndexInfo
// for compatibility comparison against what the index was built with.
type EmbedderInfoInput struct {
	Model      string
	Backend    string
	Dimensions int
}

// GetIndexInfo assembles an IndexInfo describing the index rooted at dataDir,
// using metadata's stored project stats and state, and comparing against the
// caller's current embedder (current may be nil if it could not be created).
func GetIndexInfo(ctx context.Context, metadata MetadataStore, dataDir string, current *EmbedderInfoInput) (*IndexInfo, error) {
	projectRoot := filepath.Dir(dataDir)
	hash := sha256.Sum256([]byte(projectRoot))
	projectID := hex.EncodeToString(hash[:])

	project, err := metadata.GetProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load project metadata: %w", err)
	}

	info := &IndexInfo{
		Location:    dataDir,
		ProjectRoot: projectRoot,
	}

	if project != nil {
		info.ChunkCount = project.ChunkCount
		info.DocumentCount = project.FileCount
		info.CreatedAt = project.IndexedAt
		info.UpdatedAt = project.IndexedAt
	}

	if model, err := metadata.GetState(ctx, StateKeyIndexModel); err == nil && model != "" {
		info.IndexModel = model
		info.IndexBackend = inferBackendFromModel(model)
	}
	if dimStr, err := metadata.GetState(ctx, StateKeyIndexDimension); err == nil && dimStr != "" {
		if dim, convErr := strconv.Atoi(dimStr); convErr == nil {
			info.IndexDimensions = dim
		}
	}

	info.BM25SizeBytes = fileSize(filepath.Join(dataDir, "bm25.db"))
	info.VectorSizeBytes = fileSize(filepath.Join(dataDir, "vectors.usearch"))
	info.IndexSizeBytes = info.BM25SizeBytes + info.VectorSizeBytes + fileSize(filepath.Join(dataDir, "metadata.db"))

	if current != nil {
		info.CurrentModel = current.Model
		info.CurrentBackend = current.Backend
		info.CurrentDimensions = current.Dimensions
		info.Compatible = info.IndexModel == "" || info.IndexDimensions == current.Dimensions
	}

	return info, nil
}

// fileSize returns the size in bytes of the file at path, or 0 if it does not exist.
func fileSize(path string) int64 {
	fi, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return fi.Size()
}

// FormatBytes formats a byte count as a human-readable string.
func FormatBytes(bytes int64) string {
	const (
		KB = 1024
		MB = 1024 * KB
		GB = 1024 * MB
	)

	switch {
	case bytes >= GB:
		return fmt.Sprintf("%.1f GB", float64(bytes)/float64(GB))
	case bytes >= MB:
		return fmt.Sprintf("%.1f MB", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%.1f KB", float64(bytes)/float64(KB))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

// FormatTime formats a timestamp for display in `ricegrep index info`, or
// "unknown" for the zero value.
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return "unknown"
	}
	return t.Format("2006-01-02 15:04:05")
}

// containsAny reports whether s contains any of the given substrings.
func containsAny(s string, substrings []string) bool {
	for _, sub := range substrings {
		if sub != "" && strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// inferBackendFromModel classifies a model name stored in prior index
// metadata as the embedding backend that produced it. Existing indexes built
// before ricegrep standardized on the static embedder may still carry an
// "mlx" or "ollama" model name; this lets `index info` flag them as
// incompatible with the current (static-only) embedder rather than silently
// misreporting dimensions.
func inferBackendFromModel(model string) string {
	switch {
	case model == "static" || strings.HasPrefix(model, "static"):
		return "static"
	case filepath.IsAbs(model) || containsAny(model, []string{"mlx-community/", "mlx-", "/mlx/"}):
		return "mlx"
	default:
		return "ollama"
	}
}

// getDirSize returns the total size in bytes of all files under path,
// or 0 if path does not exist.
func getDirSize(path string) int64 {
	var size int64
	_ = filepath.Walk(path, func(_ string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if !info.IsDir() {
			size += info.Size()
		}
		return nil
	})
	return size
}
