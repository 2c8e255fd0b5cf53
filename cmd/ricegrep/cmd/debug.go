package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ricegrep/ricegrep/internal/config"
	"github.com/ricegrep/ricegrep/internal/embed"
	"github.com/ricegrep/ricegrep/internal/store"
)

// DebugInfo aggregates diagnostic data about a project's index for
// 'ricegrep debug'. It mirrors the shape of 'index info'/'status' but
// collects everything needed to file a bug report in a single pass.
type DebugInfo struct {
	ProjectRoot string `json:"project_root"`
	IndexPath   string `json:"index_path"`

	FileCount  int `json:"file_count"`
	ChunkCount int `json:"chunk_count"`

	EmbedderProvider   string `json:"embedder_provider"`
	EmbedderModel      string `json:"embedder_model"`
	EmbedderDimensions int    `json:"embedder_dimensions"`

	EmbeddedChunks   int `json:"embedded_chunks"`
	UnembeddedChunks int `json:"unembedded_chunks"`

	BM25Backend   string `json:"bm25_backend"`
	BM25SizeBytes int64  `json:"bm25_size_bytes"`

	VectorSizeBytes int64 `json:"vector_size_bytes"`

	MetadataSizeBytes int64 `json:"metadata_size_bytes"`

	LastIndexed time.Time          `json:"last_indexed"`
	Languages   map[string]float64 `json:"languages"`
}

func newDebugCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "debug",
		Short: "Print diagnostic information for bug reports",
		Long: `Collect index statistics, embedder configuration, and storage sizes
into a single report, useful when filing a bug report.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDebug(cmd.Context(), cmd, jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}

func runDebug(ctx context.Context, cmd *cobra.Command, jsonOutput bool) error {
	root, err := config.FindProjectRoot(".")
	if err != nil {
		root, _ = os.Getwd()
	}
	root, _ = filepath.EvalSymlinks(root)
	if root == "" {
		root, _ = os.Getwd()
	}

	dataDir := filepath.Join(root, ".ricegrep")
	metadataPath := filepath.Join(dataDir, "metadata.db")
	if !fileExists(metadataPath) {
		return fmt.Errorf("no index found in %s\nRun 'ricegrep index' to create one", root)
	}

	info, err := collectDebugInfo(ctx, root, dataDir)
	if err != nil {
		return fmt.Errorf("failed to collect debug info: %w", err)
	}

	if jsonOutput {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(info)
	}

	return printDebugInfo(cmd, info)
}

func collectDebugInfo(ctx context.Context, root, dataDir string) (DebugInfo, error) {
	info := DebugInfo{
		ProjectRoot: root,
		IndexPath:   dataDir,
	}

	metadataPath := filepath.Join(dataDir, "metadata.db")
	metadata, err := store.NewSQLiteStore(metadataPath)
	if err != nil {
		return info, fmt.Errorf("failed to open metadata store: %w", err)
	}
	defer func() { _ = metadata.Close() }()

	projectID := hashString(root)
	if project, err := metadata.GetProject(ctx, projectID); err == nil && project != nil {
		info.FileCount = project.FileCount
		info.ChunkCount = project.ChunkCount
		info.LastIndexed = project.IndexedAt
	}

	if withEmb, withoutEmb, err := metadata.GetEmbeddingStats(ctx); err == nil {
		info.EmbeddedChunks = withEmb
		info.UnembeddedChunks = withoutEmb
	}

	if files, err := metadata.GetFilesForReconciliation(ctx, projectID); err == nil {
		info.Languages = languageDistribution(files)
	}

	cfg, err := config.Load(root)
	if err != nil {
		cfg = config.NewConfig()
	}

	provider := embed.ParseProvider(cfg.Embeddings.Provider)
	if embedder, err := embed.NewEmbedder(ctx, provider, cfg.Embeddings.Model); err == nil {
		embedInfo := embed.GetInfo(ctx, embedder)
		info.EmbedderProvider = string(embedInfo.Provider)
		info.EmbedderModel = embedInfo.Model
		info.EmbedderDimensions = embedInfo.Dimensions
		_ = embedder.Close()
	}

	info.BM25Backend = cfg.Search.BM25Backend
	if info.BM25Backend == "" {
		info.BM25Backend = "sqlite"
	}

	bm25SQLitePath := filepath.Join(dataDir, "bm25.db")
	if size := getFileSize(bm25SQLitePath); size > 0 {
		info.BM25SizeBytes = size
	} else {
		info.BM25SizeBytes = getDirSize(filepath.Join(dataDir, "bm25.bleve"))
	}
	info.VectorSizeBytes = getFileSize(filepath.Join(dataDir, "vectors.hnsw"))
	info.MetadataSizeBytes = getFileSize(metadataPath)

	return info, nil
}

// languageDistribution computes each language's share of the indexed file
// set, keyed by the File.Language recorded at scan time.
func languageDistribution(files map[string]*store.File) map[string]float64 {
	counts := map[string]int{}
	total := 0
	for _, f := range files {
		lang := f.Language
		if lang == "" {
			lang = normalizeExtension(strings.TrimPrefix(filepath.Ext(f.Path), "."))
		}
		if lang == "" {
			continue
		}
		counts[lang]++
		total++
	}

	if total == 0 {
		return map[string]float64{}
	}

	dist := make(map[string]float64, len(counts))
	for lang, n := range counts {
		dist[lang] = float64(n) / float64(total)
	}
	return dist
}

func printDebugInfo(cmd *cobra.Command, info DebugInfo) error {
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, "Ricegrep Debug Info")
	fmt.Fprintln(out, "====================")
	fmt.Fprintln(out)

	fmt.Fprintf(out, "Project:  %s\n", info.ProjectRoot)
	fmt.Fprintf(out, "Index:    %s\n", info.IndexPath)
	fmt.Fprintln(out)

	fmt.Fprintln(out, "FILES & CHUNKS")
	fmt.Fprintf(out, "  Files:         %s\n", formatNumber(info.FileCount))
	fmt.Fprintf(out, "  Chunks:        %s\n", formatNumber(info.ChunkCount))
	fmt.Fprintf(out, "  Embedded:      %s\n", formatNumber(info.EmbeddedChunks))
	fmt.Fprintf(out, "  Unembedded:    %s\n", formatNumber(info.UnembeddedChunks))
	fmt.Fprintf(out, "  Last indexed:  %s\n", formatAge(info.LastIndexed))
	fmt.Fprintf(out, "  Languages:     %s\n", formatLanguages(info.Languages))
	fmt.Fprintln(out)

	fmt.Fprintln(out, "EMBEDDER")
	fmt.Fprintf(out, "  Provider:      %s\n", info.EmbedderProvider)
	fmt.Fprintf(out, "  Model:         %s\n", info.EmbedderModel)
	fmt.Fprintf(out, "  Dimensions:    %d\n", info.EmbedderDimensions)
	fmt.Fprintln(out)

	fmt.Fprintln(out, "BM25 INDEX")
	fmt.Fprintf(out, "  Backend:       %s\n", info.BM25Backend)
	fmt.Fprintf(out, "  Size:          %s\n", store.FormatBytes(info.BM25SizeBytes))
	fmt.Fprintln(out)

	fmt.Fprintln(out, "VECTOR STORE")
	fmt.Fprintf(out, "  Size:          %s\n", store.FormatBytes(info.VectorSizeBytes))
	fmt.Fprintln(out)

	fmt.Fprintln(out, "STORAGE")
	fmt.Fprintf(out, "  Metadata:      %s\n", store.FormatBytes(info.MetadataSizeBytes))
	total := info.BM25SizeBytes + info.VectorSizeBytes + info.MetadataSizeBytes
	fmt.Fprintf(out, "  Total:         %s\n", store.FormatBytes(total))

	return nil
}

// formatAge renders t as a coarse relative duration for human-readable
// debug output, or "unknown" for the zero value.
func formatAge(t time.Time) string {
	if t.IsZero() {
		return "unknown"
	}

	d := time.Since(t)
	switch {
	case d < 30*time.Second:
		return "just now"
	case d < time.Hour:
		minutes := int(d.Minutes())
		if minutes == 1 {
			return "1 minute ago"
		}
		return fmt.Sprintf("%d minutes ago", minutes)
	case d < 24*time.Hour:
		hours := int(d.Hours())
		if hours == 1 {
			return "1 hour ago"
		}
		return fmt.Sprintf("%d hours ago", hours)
	default:
		days := int(d.Hours() / 24)
		if days == 1 {
			return "1 day ago"
		}
		return fmt.Sprintf("%d days ago", days)
	}
}

// formatNumber renders n with thousands separators (e.g. 12345 -> "12,345").
func formatNumber(n int) string {
	s := strconv.Itoa(n)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}

	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)

	result := strings.Join(parts, ",")
	if neg {
		result = "-" + result
	}
	return result
}

// formatLanguages renders a language->share map as a comma-separated,
// share-descending summary, e.g. "go (50%), ts (30%), md (20%)".
func formatLanguages(langs map[string]float64) string {
	if len(langs) == 0 {
		return "none"
	}

	type entry struct {
		lang  string
		share float64
	}
	entries := make([]entry, 0, len(langs))
	for lang, share := range langs {
		entries = append(entries, entry{lang, share})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].share != entries[j].share {
			return entries[i].share > entries[j].share
		}
		return entries[i].lang < entries[j].lang
	})

	parts := make([]string, len(entries))
	for i, e := range entries {
		parts[i] = fmt.Sprintf("%s (%.0f%%)", e.lang, e.share*100)
	}
	return strings.Join(parts, ", ")
}

// normalizeExtension collapses related file extensions into a single
// reporting bucket (tsx -> ts, jsx/mjs -> js, yml -> yaml, htm -> html).
func normalizeExtension(ext string) string {
	switch strings.ToLower(ext) {
	case "tsx":
		return "ts"
	case "jsx", "mjs":
		return "js"
	case "yml":
		return "yaml"
	case "htm":
		return "html"
	default:
		return strings.ToLower(ext)
	}
}
