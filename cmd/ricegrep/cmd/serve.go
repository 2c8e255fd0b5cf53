package cmd

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/ricegrep/ricegrep/internal/chunk"
	"github.com/ricegrep/ricegrep/internal/config"
	"github.com/ricegrep/ricegrep/internal/dispatch"
	"github.com/ricegrep/ricegrep/internal/embed"
	"github.com/ricegrep/ricegrep/internal/index"
	"github.com/ricegrep/ricegrep/internal/logging"
	"github.com/ricegrep/ricegrep/internal/mcp"
	"github.com/ricegrep/ricegrep/internal/scanner"
	"github.com/ricegrep/ricegrep/internal/search"
	"github.com/ricegrep/ricegrep/internal/store"
	"github.com/ricegrep/ricegrep/internal/telemetry"
	"github.com/ricegrep/ricegrep/internal/ui"
	"github.com/ricegrep/ricegrep/internal/watcher"
)

// defaultWatcherStartupTimeout bounds how long serve waits for the file
// watcher to finish its initial scan before detaching it into the
// background. RICEGREP_WATCHER_STARTUP_TIMEOUT overrides it for slow
// filesystems.
const defaultWatcherStartupTimeout = 2 * time.Second

func newServeCmd() *cobra.Command {
	var (
		transport string
		port      int
		debug     bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server",
		Long: `Start ricegrep as an MCP (Model Context Protocol) server.

Exposes search, files, list, read, replace, index build/update/clear/
status, watch, and health tools over stdio (default) for AI clients
such as Claude Code and Cursor.

The server watches the project directory in the background and keeps
the index up to date while it runs.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if debug {
				if logger, cleanup, err := logging.Setup(logging.DebugConfig()); err == nil {
					slog.SetDefault(logger)
					defer cleanup()
				}
			}

			return runServe(cmd.Context(), transport, port)
		},
	}

	cmd.Flags().StringVar(&transport, "transport", "stdio", "Transport type (stdio|sse)")
	cmd.Flags().IntVar(&port, "port", 0, "Port for SSE transport")
	cmd.Flags().BoolVar(&debug, "debug", false, "Enable verbose file-based logging")

	return cmd
}

// runServe starts the MCP server for the project rooted at the current
// directory. It returns once ctx is cancelled or the transport fails.
func runServe(ctx context.Context, transport string, port int) error {
	root, err := config.FindProjectRoot(".")
	if err != nil {
		root, _ = os.Getwd()
	}
	return serve(ctx, root, transport, port)
}

// serve wires up the search engine and MCP server for root and runs until
// ctx is cancelled. The file watcher starts in the background so that a
// slow initial scan never delays the MCP handshake.
func serve(ctx context.Context, root, transport string, port int) error {
	logCfg := logging.DefaultConfig()
	logCfg.WriteToStderr = false
	if logger, cleanup, err := logging.Setup(logCfg); err == nil {
		slog.SetDefault(logger)
		defer cleanup()
	}

	if transport == "stdio" {
		if err := verifyStdinForMCP(); err != nil {
			return err
		}
	}

	dataDir := filepath.Join(root, ".ricegrep")
	metadataPath := filepath.Join(dataDir, "metadata.db")
	if _, err := os.Stat(metadataPath); os.IsNotExist(err) {
		return fmt.Errorf("no index found at %s. Run 'ricegrep index' first", root)
	}

	cfg, err := config.Load(root)
	if err != nil {
		cfg = config.NewConfig()
	}

	metadata, err := store.NewSQLiteStore(metadataPath)
	if err != nil {
		return fmt.Errorf("failed to open metadata: %w", err)
	}
	defer func() { _ = metadata.Close() }()

	bm25BasePath := filepath.Join(dataDir, "bm25")
	bm25, err := store.NewBM25IndexWithBackend(bm25BasePath, store.DefaultBM25Config(), cfg.Search.BM25Backend)
	if err != nil {
		return fmt.Errorf("failed to open BM25 index: %w", err)
	}
	defer func() { _ = bm25.Close() }()

	provider := embed.ParseProvider(cfg.Embeddings.Provider)
	embedder, err := embed.NewEmbedder(ctx, provider, cfg.Embeddings.Model)
	if err != nil {
		return fmt.Errorf("failed to create embedder: %w", err)
	}
	defer func() { _ = embedder.Close() }()

	vectorPath := filepath.Join(dataDir, "vectors.hnsw")
	vectorCfg := store.DefaultVectorStoreConfig(embedder.Dimensions())
	vector, err := store.NewHNSWStore(vectorCfg)
	if err != nil {
		return fmt.Errorf("failed to create vector store: %w", err)
	}
	defer func() { _ = vector.Close() }()
	if _, err := os.Stat(vectorPath); err == nil {
		if loadErr := vector.Load(vectorPath); loadErr != nil {
			slog.Debug("vector_load_failed", slog.String("error", loadErr.Error()))
		}
	}

	engineConfig := search.DefaultConfig()
	if cfg.Search.MaxResults > 0 {
		engineConfig.DefaultLimit = cfg.Search.MaxResults
	}
	engine, err := search.NewEngine(bm25, vector, embedder, metadata, engineConfig,
		search.WithMultiQuerySearch(search.NewPatternDecomposer()))
	if err != nil {
		return fmt.Errorf("failed to create search engine: %w", err)
	}

	indexRunner, err := index.NewRunner(index.RunnerDependencies{
		Renderer: ui.NewPlainRenderer(ui.Config{Output: io.Discard}),
		Config:   cfg,
		Metadata: metadata,
		BM25:     bm25,
		Vector:   vector,
		Embedder: embedder,
	})
	if err != nil {
		return fmt.Errorf("failed to create index runner: %w", err)
	}
	defer func() { _ = indexRunner.Close() }()

	coordinator := index.NewCoordinator(index.CoordinatorConfig{
		ProjectID:       hashProjectID(root),
		RootPath:        root,
		DataDir:         dataDir,
		Engine:          engine,
		Metadata:        metadata,
		CodeChunker:     chunk.NewCodeChunker(),
		MDChunker:       chunk.NewMarkdownChunker(),
		ExcludePatterns: cfg.Paths.Exclude,
	})
	runnerAdapter := index.NewAdapter(indexRunner, coordinator, dataDir)

	searchSvc := search.NewService(engine)
	dispatcher := dispatch.New(searchSvc, metadata, runnerAdapter, root)

	mcpServer, err := mcp.NewServer(dispatcher, metadata, embedder, cfg, root)
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}
	defer func() { _ = mcpServer.Close() }()

	if metricsStore, err := telemetry.NewSQLiteMetricsStore(metadata.DB()); err == nil {
		mcpServer.SetMetrics(telemetry.NewQueryMetrics(metricsStore))
	}

	dispatcher.SetMetrics(telemetry.NewPrometheusMetrics())

	startFileWatcher(ctx, root, dataDir, cfg, engine, metadata)

	return mcpServer.Serve(ctx, transport, strconv.Itoa(port))
}

// startFileWatcher starts a HybridWatcher rooted at root and, once it
// reports ready (or the startup timeout elapses, whichever comes first),
// streams its events into an index.Coordinator for the lifetime of ctx.
// It never blocks the caller past the configured timeout.
func startFileWatcher(ctx context.Context, root, dataDir string, cfg *config.Config, engine *search.Engine, metadata store.MetadataStore) {
	timeout := defaultWatcherStartupTimeout
	if v := os.Getenv("RICEGREP_WATCHER_STARTUP_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			timeout = d
		}
	}

	scn, err := scanner.New()
	if err != nil {
		slog.Warn("file_watcher_disabled", slog.String("reason", err.Error()))
		return
	}

	w, err := watcher.NewHybridWatcher(watcher.DefaultOptions())
	if err != nil {
		slog.Warn("file_watcher_disabled", slog.String("reason", err.Error()))
		return
	}

	started := make(chan error, 1)
	go func() { started <- w.Start(ctx, root) }()

	select {
	case err := <-started:
		if err != nil {
			slog.Warn("file_watcher_start_failed", slog.String("error", err.Error()))
			return
		}
	case <-time.After(timeout):
		slog.Debug("file_watcher_start_deferred", slog.Duration("timeout", timeout))
	}

	coordinator := index.NewCoordinator(index.CoordinatorConfig{
		ProjectID:       hashProjectID(root),
		RootPath:        root,
		DataDir:         dataDir,
		Engine:          engine,
		Metadata:        metadata,
		CodeChunker:     chunk.NewCodeChunker(),
		MDChunker:       chunk.NewMarkdownChunker(),
		ExcludePatterns: cfg.Paths.Exclude,
		Scanner:         scn,
	})

	go func() {
		if err := coordinator.ReconcileOnStartup(ctx); err != nil {
			slog.Warn("reconcile_on_startup_failed", slog.String("error", err.Error()))
		}

		for {
			select {
			case <-ctx.Done():
				_ = w.Stop()
				return
			case events, ok := <-w.Events():
				if !ok {
					return
				}
				if err := coordinator.HandleEvents(ctx, events); err != nil {
					slog.Warn("handle_events_failed", slog.String("error", err.Error()))
				}
			case err, ok := <-w.Errors():
				if !ok {
					continue
				}
				slog.Warn("file_watcher_error", slog.String("error", err.Error()))
			}
		}
	}()
}

// hashProjectID derives the project identifier metadata rows are keyed by,
// matching the convention store.GetIndexInfo uses for the same root.
func hashProjectID(root string) string {
	hash := sha256.Sum256([]byte(root))
	return hex.EncodeToString(hash[:])
}

// verifyStdinForMCP checks that stdin is a pipe (or redirected input), not
// an interactive terminal. The MCP stdio transport expects a client process
// on the other end of stdin/stdout; a bare terminal means the user invoked
// 'ricegrep serve' directly rather than through an MCP-aware client.
func verifyStdinForMCP() error {
	if isatty.IsTerminal(os.Stdin.Fd()) {
		return fmt.Errorf("stdin is a terminal, not a pipe: 'ricegrep serve' expects to be launched by an MCP client, not run interactively")
	}
	return nil
}
