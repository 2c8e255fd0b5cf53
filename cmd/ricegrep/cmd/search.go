package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ricegrep/ricegrep/internal/logging"
	"github.com/ricegrep/ricegrep/internal/output"
	"github.com/ricegrep/ricegrep/internal/search"
)

// searchOptions holds CLI flags for search.
type searchOptions struct {
	maxCount        int
	language        string
	repositoryID    uint32
	hasRepositoryID bool
	filePathPattern string
	jsonOutput      bool
}

func newSearchCmd() *cobra.Command {
	var opts searchOptions

	cmd := &cobra.Command{
		Use:   "search <query> [paths...]",
		Short: "Search the indexed codebase",
		Long: `Search the indexed codebase using hybrid search.

Combines BM25 (keyword) and semantic (embedding) search with Reciprocal
Rank Fusion for optimal results. Any arguments after the query restrict
the search to those path prefixes.

Examples:
  ricegrep search "authentication middleware"
  ricegrep search "handleRequest" internal/httpapi --max-count 5
  ricegrep search "error handling" --json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd.Context(), cmd, args[0], args[1:], opts)
		},
	}

	cmd.Flags().IntVar(&opts.maxCount, "max-count", 10, "Maximum number of results")
	cmd.Flags().StringVar(&opts.language, "language", "", "Filter by language (e.g., go, python)")
	cmd.Flags().Uint32Var(&opts.repositoryID, "repository-id", 0, "Filter by repository ID")
	cmd.Flags().StringVar(&opts.filePathPattern, "file-path-pattern", "", "Glob applied to each result's file path")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Output as JSON")

	cmd.PreRun = func(cmd *cobra.Command, args []string) {
		opts.hasRepositoryID = cmd.Flags().Changed("repository-id")
	}

	return cmd
}

func runSearch(ctx context.Context, cmd *cobra.Command, query string, paths []string, opts searchOptions) error {
	logCfg := logging.DefaultConfig()
	logCfg.WriteToStderr = false
	if _, cleanup, err := logging.Setup(logCfg); err == nil {
		defer cleanup()
	}

	slog.Info("search_started", slog.String("query", query), slog.Int("max_count", opts.maxCount))

	root := resolveRoot(".")
	handle, err := openDispatcher(ctx, root)
	if err != nil {
		return err
	}
	defer handle.Close()

	req := search.SearchRequest{
		Query:           query,
		Paths:           paths,
		MaxCount:        opts.maxCount,
		Language:        opts.language,
		FilePathPattern: opts.filePathPattern,
	}
	if opts.hasRepositoryID {
		id := opts.repositoryID
		req.RepositoryID = &id
	}

	resp, err := handle.Dispatcher.Search(ctx, req)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}
	slog.Info("search_complete", slog.Int("results", len(resp.Results)), slog.Int("total_found", resp.TotalFound))

	if opts.jsonOutput {
		return formatJSON(cmd, resp)
	}

	out := output.New(cmd.OutOrStdout())
	return formatText(out, query, resp)
}

// formatText outputs results in human-readable format.
func formatText(out *output.Writer, query string, resp *search.SearchResponse) error {
	if len(resp.Results) == 0 {
		out.Status("", fmt.Sprintf("No results found for %q", query))
		return nil
	}

	out.Statusf("🔍", "Found %d results for %q (of %d total):", len(resp.Results), query, resp.TotalFound)
	if resp.Timeout {
		out.Status("⚠️ ", "search timed out before completing; results may be partial")
	}
	out.Newline()

	for i, r := range resp.Results {
		if r.Chunk == nil {
			continue
		}

		location := r.Chunk.FilePath
		if r.Chunk.StartLine > 0 {
			location = fmt.Sprintf("%s:%d", r.Chunk.FilePath, r.Chunk.StartLine)
		}
		out.Statusf("", "%d. %s (score: %.2f)", i+1, location, r.Score)

		for _, line := range getSnippet(r.Chunk.Content, 3) {
			out.Status("", "   "+line)
		}
		out.Newline()
	}

	return nil
}

// formatJSON outputs the search response as JSON.
func formatJSON(cmd *cobra.Command, resp *search.SearchResponse) error {
	type jsonResult struct {
		FilePath  string  `json:"file_path"`
		StartLine int     `json:"start_line"`
		EndLine   int     `json:"end_line"`
		Score     float64 `json:"score"`
		Content   string  `json:"content"`
		Language  string  `json:"language,omitempty"`
	}
	type jsonResponse struct {
		RequestID  string       `json:"request_id"`
		Results    []jsonResult `json:"results"`
		TotalFound int          `json:"total_found"`
		Timeout    bool         `json:"timeout,omitempty"`
	}

	out := jsonResponse{RequestID: resp.RequestID, TotalFound: resp.TotalFound, Timeout: resp.Timeout}
	for _, r := range resp.Results {
		if r.Chunk == nil {
			continue
		}
		out.Results = append(out.Results, jsonResult{
			FilePath:  r.Chunk.FilePath,
			StartLine: r.Chunk.StartLine,
			EndLine:   r.Chunk.EndLine,
			Score:     r.Score,
			Content:   r.Chunk.Content,
			Language:  r.Chunk.Language,
		})
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// getSnippet returns the first n non-trailing-blank lines of content.
func getSnippet(content string, n int) []string {
	lines := strings.Split(content, "\n")
	if len(lines) > n {
		lines = lines[:n]
	}
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
