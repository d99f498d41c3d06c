package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "sparse", cfg.Strategy)
	assert.Equal(t, 384, cfg.Dimension)
	assert.InDelta(t, 0.2, cfg.SemanticWeight, 1e-9)
	require.NotNil(t, cfg.Sparsity.TopK)
	assert.Equal(t, 50, *cfg.Sparsity.TopK)
	assert.Equal(t, "auto", cfg.Backend)
	assert.Equal(t, "zstd", cfg.Cache.Compression)
}

func TestParseOverlaysDefaults(t *testing.T) {
	cfg, err := Parse([]byte("strategy: rvq\ndimension: 768\nrvq:\n  layers: 4\n"))
	require.NoError(t, err)

	assert.Equal(t, "rvq", cfg.Strategy)
	assert.Equal(t, 768, cfg.Dimension)
	assert.Equal(t, 4, cfg.RVQ.Layers)
	// Untouched fields keep their defaults.
	assert.Equal(t, 256, cfg.RVQ.CodebookSize)
	assert.InDelta(t, 0.2, cfg.SemanticWeight, 1e-9)
}

func TestParseRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"BadStrategy", "strategy: binary\n"},
		{"BadDimension", "dimension: 0\n"},
		{"BadWeight", "semantic_weight: 1.5\n"},
		{"BadBackend", "backend: gpu\n"},
		{"BadCompression", "cache:\n  compression: gzip\n"},
		{"BadThreshold", "sparsity:\n  threshold: 2\n"},
		{"RVQWithoutLayers", "strategy: rvq\nrvq:\n  layers: 0\n"},
		{"NotYAML", "strategy: [unterminated\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "terngo.yaml")
	require.NoError(t, os.WriteFile(path, []byte("strategy: hybrid\nsemantic_weight: 0.3\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "hybrid", cfg.Strategy)
	assert.InDelta(t, 0.3, cfg.SemanticWeight, 1e-9)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
