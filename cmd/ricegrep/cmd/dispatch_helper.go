package cmd

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ricegrep/ricegrep/internal/chunk"
	"github.com/ricegrep/ricegrep/internal/config"
	"github.com/ricegrep/ricegrep/internal/dispatch"
	"github.com/ricegrep/ricegrep/internal/embed"
	"github.com/ricegrep/ricegrep/internal/index"
	"github.com/ricegrep/ricegrep/internal/search"
	"github.com/ricegrep/ricegrep/internal/store"
	"github.com/ricegrep/ricegrep/internal/ui"
)

// resolveRoot returns the project root for path, falling back to path
// itself when no .ricegrep project marker is found above it.
func resolveRoot(path string) string {
	absPath, err := filepath.Abs(path)
	if err != nil {
		absPath = path
	}
	root, err := config.FindProjectRoot(absPath)
	if err != nil {
		return absPath
	}
	return root
}

// dispatcherHandle bundles a Dispatcher with the closers its backing
// stores need, so every CLI subcommand that talks to the dispatcher opens
// and tears down its dependencies the same way serve.go does.
type dispatcherHandle struct {
	Dispatcher *dispatch.Dispatcher
	close      func()
}

// Close releases every store the dispatcher was built against.
func (h *dispatcherHandle) Close() {
	if h.close != nil {
		h.close()
	}
}

// openDispatcher opens the on-disk index at root and wires a Dispatcher
// against it, with a full index.Runner so index.build/update/clear and
// watch can drive it. Commands that only need Files/List/Read/Replace
// should use dispatch.New(nil, nil, nil, root) directly instead; those
// operations never touch the search/metadata/runner fields.
func openDispatcher(ctx context.Context, root string) (*dispatcherHandle, error) {
	dataDir := filepath.Join(root, ".ricegrep")
	metadataPath := filepath.Join(dataDir, "metadata.db")
	if _, err := os.Stat(metadataPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("no index found at %s; run 'ricegrep index' first", root)
	}

	cfg, err := config.Load(root)
	if err != nil {
		cfg = config.NewConfig()
	}

	metadata, err := store.NewSQLiteStore(metadataPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open metadata: %w", err)
	}

	bm25BasePath := filepath.Join(dataDir, "bm25")
	bm25, err := store.NewBM25IndexWithBackend(bm25BasePath, store.DefaultBM25Config(), cfg.Search.BM25Backend)
	if err != nil {
		_ = metadata.Close()
		return nil, fmt.Errorf("failed to open BM25 index: %w", err)
	}

	embedder, err := embed.NewEmbedder(ctx, embed.ParseProvider(cfg.Embeddings.Provider), cfg.Embeddings.Model)
	if err != nil {
		_ = bm25.Close()
		_ = metadata.Close()
		return nil, fmt.Errorf("failed to create embedder: %w", err)
	}

	vectorPath := filepath.Join(dataDir, "vectors.hnsw")
	vectorCfg := store.DefaultVectorStoreConfig(embedder.Dimensions())
	vector, err := store.NewHNSWStore(vectorCfg)
	if err != nil {
		_ = embedder.Close()
		_ = bm25.Close()
		_ = metadata.Close()
		return nil, fmt.Errorf("failed to create vector store: %w", err)
	}
	if _, err := os.Stat(vectorPath); err == nil {
		_ = vector.Load(vectorPath)
	}

	engineConfig := search.DefaultConfig()
	if cfg.Search.MaxResults > 0 {
		engineConfig.DefaultLimit = cfg.Search.MaxResults
	}
	if cfg.Search.BM25Weight > 0 || cfg.Search.SemanticWeight > 0 {
		engineConfig.DefaultWeights = search.Weights{
			BM25:     cfg.Search.BM25Weight,
			Semantic: cfg.Search.SemanticWeight,
		}
	}
	engine, err := search.NewEngine(bm25, vector, embedder, metadata, engineConfig,
		search.WithMultiQuerySearch(search.NewPatternDecomposer()))
	if err != nil {
		_ = vector.Close()
		_ = embedder.Close()
		_ = bm25.Close()
		_ = metadata.Close()
		return nil, fmt.Errorf("failed to create search engine: %w", err)
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
		_ = vector.Close()
		_ = embedder.Close()
		_ = bm25.Close()
		_ = metadata.Close()
		return nil, fmt.Errorf("failed to create index runner: %w", err)
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
	})
	runnerAdapter := index.NewAdapter(indexRunner, coordinator, dataDir)

	searchSvc := search.NewService(engine)
	d := dispatch.New(searchSvc, metadata, runnerAdapter, root)

	closeAll := func() {
		_ = indexRunner.Close()
		_ = vector.Close()
		_ = embedder.Close()
		_ = bm25.Close()
		_ = metadata.Close()
	}

	return &dispatcherHandle{Dispatcher: d, close: closeAll}, nil
}
