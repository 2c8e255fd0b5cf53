package ui

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPlainRenderer_UpdateProgress_WithTotal(t *testing.T) {
	var buf bytes.Buffer
	r := NewPlainRenderer(Config{Output: &buf})

	r.UpdateProgress(ProgressEvent{Stage: StageEmbedding, Current: 3, Total: 10, Message: "embedding"})

	assert.Contains(t, buf.String(), "[EMBED] 3/10 - embedding")
}

func TestPlainRenderer_UpdateProgress_NoTotal(t *testing.T) {
	var buf bytes.Buffer
	r := NewPlainRenderer(Config{Output: &buf})

	r.UpdateProgress(ProgressEvent{Stage: StageScanning, CurrentFile: "main.go"})

	assert.Contains(t, buf.String(), "[SCAN] main.go")
}

func TestPlainRenderer_AddError(t *testing.T) {
	var buf bytes.Buffer
	r := NewPlainRenderer(Config{Output: &buf})

	r.AddError(ErrorEvent{File: "a.go", Err: assertErr("boom")})
	r.AddError(ErrorEvent{Err: assertErr("warn"), IsWarn: true})

	out := buf.String()
	assert.Contains(t, out, "ERROR: a.go: boom")
	assert.Contains(t, out, "WARN: warn")
}

func TestPlainRenderer_Complete(t *testing.T) {
	var buf bytes.Buffer
	r := NewPlainRenderer(Config{Output: &buf})

	r.Complete(CompletionStats{
		Files:    5,
		Chunks:   42,
		Duration: 2 * time.Second,
		Stages:   StageTimings{Scan: time.Second, Embed: time.Second},
		Embedder: EmbedderInfo{Backend: "static", Model: "static768", Dimensions: 768},
	})

	out := buf.String()
	assert.Contains(t, out, "Complete: 5 files, 42 chunks indexed in 2s")
	assert.Contains(t, out, "Stage Breakdown:")
	assert.Contains(t, out, "Backend: static (static768, 768 dims)")
}

func TestPlainRenderer_StartStop(t *testing.T) {
	r := NewPlainRenderer(Config{Output: &bytes.Buffer{}})
	assert.NoError(t, r.Start(context.Background()))
	assert.NoError(t, r.Stop())
}

type assertErr string

func (e assertErr) Error() string { return string(e) }
