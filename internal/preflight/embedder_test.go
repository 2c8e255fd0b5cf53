package preflight

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChecker_CheckEmbedder_Available(t *testing.T) {
	checker := New()

	result := checker.CheckEmbedder()

	assert.Equal(t, "embedder", result.Name)
	assert.False(t, result.Required, "embedder check should not be required")
	assert.Equal(t, StatusPass, result.Status)
	assert.Contains(t, result.Message, "ready")
}

func TestChecker_CheckEmbedder_ResultFormat(t *testing.T) {
	checker := New()

	result := checker.CheckEmbedder()

	assert.Equal(t, "embedder", result.Name)
	assert.NotEmpty(t, result.Message)
}
