package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ricegrep/ricegrep/internal/store"
)

func TestSearchCmd_RequiresIndex(t *testing.T) {
	// Given: a directory without an index
	tmpDir := t.TempDir()

	// When: running search command
	rootCmd := NewRootCmd()
	rootCmd.SetArgs([]string{"search", "test query"})

	// Change to temp dir
	oldDir, _ := os.Getwd()
	_ = os.Chdir(tmpDir)
	defer func() { _ = os.Chdir(oldDir) }()

	err := rootCmd.Execute()

	// Then: error about missing index
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no index found")
}

func TestSearchCmd_RequiresQuery(t *testing.T) {
	// Given: search command without query
	rootCmd := NewRootCmd()
	rootCmd.SetArgs([]string{"search"})

	buf := &bytes.Buffer{}
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)

	err := rootCmd.Execute()

	// Then: error about missing query
	require.Error(t, err)
}

// setupSearchIndex writes a minimal BM25-backed index with a single chunk
// containing content, under tmpDir/.ricegrep.
func setupSearchIndex(t *testing.T, tmpDir, content, filePath string) {
	t.Helper()
	dataDir := filepath.Join(tmpDir, ".ricegrep")
	require.NoError(t, os.MkdirAll(dataDir, 0755))

	metadataPath := filepath.Join(dataDir, "metadata.db")
	metadataStore, err := store.NewSQLiteStore(metadataPath)
	require.NoError(t, err)

	ctx := context.Background()
	project := &store.Project{ID: "p1", Name: "test", RootPath: tmpDir}
	require.NoError(t, metadataStore.SaveProject(ctx, project))

	file := &store.File{ID: "f1", ProjectID: "p1", Path: filePath, Language: "go"}
	require.NoError(t, metadataStore.SaveFiles(ctx, []*store.File{file}))

	chunk := &store.Chunk{
		ID:          "c1",
		FileID:      "f1",
		FilePath:    filePath,
		Content:     content,
		ContentType: store.ContentTypeCode,
		Language:    "go",
		StartLine:   1,
		EndLine:     1,
	}
	require.NoError(t, metadataStore.SaveChunks(ctx, []*store.Chunk{chunk}))
	require.NoError(t, metadataStore.Close())

	bm25BasePath := filepath.Join(dataDir, "bm25")
	bm25Index, err := store.NewBM25IndexWithBackend(bm25BasePath, store.DefaultBM25Config(), "")
	require.NoError(t, err)
	docs := []*store.Document{{ID: chunk.ID, Content: chunk.Content}}
	require.NoError(t, bm25Index.Index(ctx, docs))
	require.NoError(t, bm25Index.Close())
}

func TestSearchCmd_WithIndex_ReturnsResults(t *testing.T) {
	tmpDir := t.TempDir()
	setupSearchIndex(t, tmpDir, "func TestFunction() { return }", "test.go")

	oldDir, _ := os.Getwd()
	_ = os.Chdir(tmpDir)
	defer func() { _ = os.Chdir(oldDir) }()

	rootCmd := NewRootCmd()
	buf := &bytes.Buffer{}
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"search", "TestFunction"})

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "test.go")
}

func TestSearchCmd_FormatText_ShowsScore(t *testing.T) {
	tmpDir := t.TempDir()
	setupSearchIndex(t, tmpDir, `func main() { fmt.Println("hello") }`, "main.go")

	oldDir, _ := os.Getwd()
	_ = os.Chdir(tmpDir)
	defer func() { _ = os.Chdir(oldDir) }()

	rootCmd := NewRootCmd()
	buf := &bytes.Buffer{}
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"search", "main"})

	err := rootCmd.Execute()

	require.NoError(t, err)
	output := buf.String()
	assert.Contains(t, output, "main.go")
	assert.Regexp(t, `score: \d`, output)
}

func TestSearchCmd_JSONFlag_ValidJSON(t *testing.T) {
	tmpDir := t.TempDir()
	setupSearchIndex(t, tmpDir, "func Test() {}", "test.go")

	oldDir, _ := os.Getwd()
	_ = os.Chdir(tmpDir)
	defer func() { _ = os.Chdir(oldDir) }()

	rootCmd := NewRootCmd()
	buf := &bytes.Buffer{}
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"search", "Test", "--json"})

	err := rootCmd.Execute()

	require.NoError(t, err)
	output := buf.String()
	assert.Contains(t, output, "{")
	assert.Contains(t, output, "test.go")
}

func TestSearchCmd_MaxCountFlag(t *testing.T) {
	rootCmd := NewRootCmd()
	searchCmd, _, _ := rootCmd.Find([]string{"search"})
	require.NotNil(t, searchCmd)

	flag := searchCmd.Flags().Lookup("max-count")
	assert.NotNil(t, flag)
	assert.Equal(t, "10", flag.DefValue)
}

func TestSearchCmd_LanguageFlag(t *testing.T) {
	rootCmd := NewRootCmd()
	searchCmd, _, _ := rootCmd.Find([]string{"search"})
	require.NotNil(t, searchCmd)

	flag := searchCmd.Flags().Lookup("language")
	assert.NotNil(t, flag)
}

func TestSearchCmd_FilePathPatternFlag(t *testing.T) {
	rootCmd := NewRootCmd()
	searchCmd, _, _ := rootCmd.Find([]string{"search"})
	require.NotNil(t, searchCmd)

	flag := searchCmd.Flags().Lookup("file-path-pattern")
	assert.NotNil(t, flag)
}

func TestSearchCmd_JSONFlag(t *testing.T) {
	rootCmd := NewRootCmd()
	searchCmd, _, _ := rootCmd.Find([]string{"search"})
	require.NotNil(t, searchCmd)

	flag := searchCmd.Flags().Lookup("json")
	assert.NotNil(t, flag)
	assert.Equal(t, "false", flag.DefValue)
}

func TestSearchCmd_NoResults_ShowsMessage(t *testing.T) {
	tmpDir := t.TempDir()
	dataDir := filepath.Join(tmpDir, ".ricegrep")
	require.NoError(t, os.MkdirAll(dataDir, 0755))

	metadataPath := filepath.Join(dataDir, "metadata.db")
	metadataStore, err := store.NewSQLiteStore(metadataPath)
	require.NoError(t, err)

	ctx := context.Background()
	project := &store.Project{ID: "p1", Name: "test", RootPath: tmpDir}
	require.NoError(t, metadataStore.SaveProject(ctx, project))
	require.NoError(t, metadataStore.Close())

	bm25BasePath := filepath.Join(dataDir, "bm25")
	bm25Index, err := store.NewBM25IndexWithBackend(bm25BasePath, store.DefaultBM25Config(), "")
	require.NoError(t, err)
	require.NoError(t, bm25Index.Close())

	oldDir, _ := os.Getwd()
	_ = os.Chdir(tmpDir)
	defer func() { _ = os.Chdir(oldDir) }()

	rootCmd := NewRootCmd()
	buf := &bytes.Buffer{}
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"search", "nonexistent_xyz_123"})

	err = rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "No results")
}

func TestSearchCmd_PathsRestrictScope(t *testing.T) {
	tmpDir := t.TempDir()
	setupSearchIndex(t, tmpDir, "func Scoped() {}", "pkg/scoped.go")

	oldDir, _ := os.Getwd()
	_ = os.Chdir(tmpDir)
	defer func() { _ = os.Chdir(oldDir) }()

	rootCmd := NewRootCmd()
	buf := &bytes.Buffer{}
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"search", "Scoped", "pkg"})

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "pkg/scoped.go")
}
