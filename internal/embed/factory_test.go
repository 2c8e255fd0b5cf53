package embed

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEmbedder_StaticProvider(t *testing.T) {
	ctx := context.Background()
	embedder, err := NewEmbedder(ctx, ProviderStatic, "")
	require.NoError(t, err)
	defer embedder.Close()

	assert.Equal(t, "static768", embedder.ModelName())
	assert.True(t, embedder.Available(ctx))
	assert.Equal(t, Static768Dimensions, embedder.Dimensions())
}

func TestNewEmbedder_EmptyProviderDefaultsToStatic(t *testing.T) {
	ctx := context.Background()
	embedder, err := NewEmbedder(ctx, "", "")
	require.NoError(t, err)
	defer embedder.Close()

	assert.Equal(t, "static768", embedder.ModelName())
}

func TestNewEmbedder_UnknownProviderErrors(t *testing.T) {
	ctx := context.Background()
	embedder, err := NewEmbedder(ctx, ProviderType("nonexistent"), "")
	require.Error(t, err)
	assert.Nil(t, embedder)
}

func TestNewEmbedder_CacheDisabled(t *testing.T) {
	orig := os.Getenv("RICEGREP_EMBED_CACHE")
	defer os.Setenv("RICEGREP_EMBED_CACHE", orig)
	os.Setenv("RICEGREP_EMBED_CACHE", "false")

	ctx := context.Background()
	embedder, err := NewEmbedder(ctx, ProviderStatic, "")
	require.NoError(t, err)
	defer embedder.Close()

	_, isCached := embedder.(*CachedEmbedder)
	assert.False(t, isCached, "embedder should not be wrapped when cache is disabled")
}

func TestNewEmbedder_CacheEnabledByDefault(t *testing.T) {
	orig := os.Getenv("RICEGREP_EMBED_CACHE")
	defer os.Setenv("RICEGREP_EMBED_CACHE", orig)
	os.Unsetenv("RICEGREP_EMBED_CACHE")

	ctx := context.Background()
	embedder, err := NewEmbedder(ctx, ProviderStatic, "")
	require.NoError(t, err)
	defer embedder.Close()

	_, isCached := embedder.(*CachedEmbedder)
	assert.True(t, isCached, "embedder should be wrapped in a cache by default")
}

func TestParseProvider(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want ProviderType
	}{
		{"static", "static", ProviderStatic},
		{"empty", "", ProviderStatic},
		{"uppercase", "STATIC", ProviderStatic},
		{"unknown falls back to static", "whatever", ProviderStatic},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseProvider(tt.in))
		})
	}
}

func TestIsValidProvider(t *testing.T) {
	assert.True(t, IsValidProvider("static"))
	assert.True(t, IsValidProvider("STATIC"))
	assert.False(t, IsValidProvider("mlx"))
	assert.False(t, IsValidProvider("ollama"))
}

func TestValidProviders(t *testing.T) {
	assert.Equal(t, []string{"static"}, ValidProviders())
}

func TestGetInfo(t *testing.T) {
	ctx := context.Background()
	embedder, err := NewEmbedder(ctx, ProviderStatic, "")
	require.NoError(t, err)
	defer embedder.Close()

	info := GetInfo(ctx, embedder)
	assert.Equal(t, ProviderStatic, info.Provider)
	assert.Equal(t, "static768", info.Model)
	assert.Equal(t, Static768Dimensions, info.Dimensions)
	assert.True(t, info.Available)
}

func TestMustNewEmbedder(t *testing.T) {
	ctx := context.Background()
	assert.NotPanics(t, func() {
		embedder := MustNewEmbedder(ctx, ProviderStatic, "")
		defer embedder.Close()
	})
}
