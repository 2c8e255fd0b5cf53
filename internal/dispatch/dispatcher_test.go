package dispatch

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDispatcher(t *testing.T, root string) *Dispatcher {
	t.Helper()
	return New(nil, nil, nil, root)
}

func TestDispatcher_Read_NumbersAndFramesLines(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "file.txt")
	require.NoError(t, os.WriteFile(path, []byte("alpha\nbeta\ngamma\n"), 0644))

	d := newTestDispatcher(t, dir)
	resp, err := d.Read(context.Background(), ReadRequest{Path: path})
	require.NoError(t, err)

	assert.Equal(t, 3, resp.TotalLines)
	assert.False(t, resp.HasMore)
	assert.Contains(t, resp.Content, "00001| alpha")
	assert.Contains(t, resp.Content, "00002| beta")
	assert.Contains(t, resp.Content, "00003| gamma")
	assert.Contains(t, resp.Content, "(End of file - total 3 lines)")
}

func TestDispatcher_Read_RespectsOffsetAndLimit(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "file.txt")
	require.NoError(t, os.WriteFile(path, []byte("a\nb\nc\nd\ne\n"), 0644))

	d := newTestDispatcher(t, dir)
	resp, err := d.Read(context.Background(), ReadRequest{Path: path, Offset: 1, Limit: 2})
	require.NoError(t, err)

	assert.True(t, resp.HasMore)
	assert.Contains(t, resp.Content, "00002| b")
	assert.Contains(t, resp.Content, "00003| c")
	assert.NotContains(t, resp.Content, "00001| a")
	assert.NotContains(t, resp.Content, "00004| d")
}

func TestDispatcher_Read_TruncatesLongLines(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "file.txt")
	long := make([]byte, maxReadLineLength+50)
	for i := range long {
		long[i] = 'x'
	}
	require.NoError(t, os.WriteFile(path, long, 0644))

	d := newTestDispatcher(t, dir)
	resp, err := d.Read(context.Background(), ReadRequest{Path: path})
	require.NoError(t, err)
	assert.Contains(t, resp.Content, "...(line truncated)")
}

func TestDispatcher_Replace_RequiresForceToWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "file.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello world"), 0644))

	d := newTestDispatcher(t, dir)
	resp, err := d.Replace(context.Background(), ReplaceRequest{FilePath: path, Old: "world", New: "there"})
	require.NoError(t, err)

	assert.False(t, resp.Applied)
	assert.Equal(t, 1, resp.Occurrences)

	unchanged, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello world", string(unchanged))
}

func TestDispatcher_Replace_AppliesWhenForced(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "file.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello world"), 0644))

	d := newTestDispatcher(t, dir)
	resp, err := d.Replace(context.Background(), ReplaceRequest{FilePath: path, Old: "world", New: "there", Force: true})
	require.NoError(t, err)
	assert.True(t, resp.Applied)

	updated, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello there", string(updated))
}

func TestDispatcher_Replace_PreviewNeverWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "file.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello world"), 0644))

	d := newTestDispatcher(t, dir)
	resp, err := d.Replace(context.Background(), ReplaceRequest{FilePath: path, Old: "world", New: "there", Force: true, Preview: true})
	require.NoError(t, err)
	assert.False(t, resp.Applied)
	assert.Contains(t, resp.Preview, "hello there")

	unchanged, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello world", string(unchanged))
}

func TestDispatcher_Files_MatchesGlobAndCapsResults(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.go"), []byte("package a"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.txt"), []byte("text"), 0644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sub", "c.go"), []byte("package sub"), 0644))

	d := newTestDispatcher(t, dir)
	resp, err := d.Files(context.Background(), FilesRequest{Root: dir, Pattern: "*.go"})
	require.NoError(t, err)

	assert.False(t, resp.Truncated)
	require.Len(t, resp.Paths, 1)
	assert.Equal(t, "a.go", filepath.Base(resp.Paths[0]))
}

func TestDispatcher_List_RespectsGitignore(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".gitignore"), []byte("ignored.txt\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ignored.txt"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "kept.txt"), []byte("y"), 0644))

	d := newTestDispatcher(t, dir)
	resp, err := d.List(context.Background(), ListRequest{Root: dir})
	require.NoError(t, err)

	var names []string
	for _, e := range resp.Entries {
		names = append(names, filepath.Base(e.Path))
	}
	assert.Contains(t, names, "kept.txt")
	assert.NotContains(t, names, "ignored.txt")
}

func TestDispatcher_Health_ReportsNotReadyWithoutDependencies(t *testing.T) {
	d := newTestDispatcher(t, t.TempDir())
	resp, err := d.Health(context.Background())
	require.NoError(t, err)
	assert.False(t, resp.Healthy)
}
