package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilesCmd_MatchesGlob(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(tmpDir, "src"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "src", "main.go"), []byte("package main"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "README.md"), []byte("# hi"), 0644))

	oldDir, _ := os.Getwd()
	_ = os.Chdir(tmpDir)
	defer func() { _ = os.Chdir(oldDir) }()

	cmd := newFilesCmd()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"**/*.go"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "main.go")
	assert.NotContains(t, buf.String(), "README.md")
}

func TestFilesCmd_RequiresPattern(t *testing.T) {
	cmd := newFilesCmd()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{})

	require.Error(t, cmd.Execute())
}

func TestFilesCmd_IncludeDirsFlag(t *testing.T) {
	cmd := newFilesCmd()
	flag := cmd.Flags().Lookup("include-dirs")
	assert.NotNil(t, flag)
	assert.Equal(t, "false", flag.DefValue)
}
