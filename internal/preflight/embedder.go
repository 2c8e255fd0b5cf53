package preflight

import (
	"context"
	"fmt"

	"github.com/ricegrep/ricegrep/internal/embed"
)

// CheckEmbedder verifies the embedder can initialize and respond to
// Available. Ricegrep ships only the static embedder, so this check never
// needs network access or a model download; it exists to catch environment
// problems (e.g. a corrupted cache directory) before indexing starts.
func (c *Checker) CheckEmbedder() CheckResult {
	result := CheckResult{
		Name:     "embedder",
		Required: false,
	}

	embedder, err := embed.NewEmbedder(context.Background(), embed.ProviderStatic, "")
	if err != nil {
		result.Status = StatusWarn
		result.Message = fmt.Sprintf("failed to initialize embedder: %v", err)
		return result
	}
	defer func() { _ = embedder.Close() }()

	if !embedder.Available(context.Background()) {
		result.Status = StatusWarn
		result.Message = "embedder reports unavailable"
		return result
	}

	result.Status = StatusPass
	result.Message = fmt.Sprintf("%s ready (%d dimensions)", embedder.ModelName(), embedder.Dimensions())
	return result
}
