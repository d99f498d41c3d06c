// Package config loads the process-level configuration consumed by the
// embedding engine: quantization strategy and knobs, scoring weight, backend
// selection, and cache settings.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SparsityConfig holds the sparse-strategy knobs.
type SparsityConfig struct {
	TargetSparsity float32 `yaml:"target_sparsity"`
	TopK           *int    `yaml:"top_k"`
	Threshold      float32 `yaml:"threshold"`
}

// RVQConfig holds the residual-strategy knobs.
type RVQConfig struct {
	Layers       int   `yaml:"layers"`
	CodebookSize int   `yaml:"codebook_size"`
	Seed         int64 `yaml:"seed"`
}

// CacheConfig holds the embedding store knobs.
type CacheConfig struct {
	Capacity     int    `yaml:"capacity"`
	SnapshotPath string `yaml:"snapshot_path"`
	Compression  string `yaml:"compression"`
}

// Config is the process configuration.
type Config struct {
	// Strategy selects the quantization strategy: "sparse", "rvq" or "hybrid".
	Strategy string `yaml:"strategy"`

	// Dimension is the dense embedding dimension produced upstream.
	Dimension int `yaml:"dimension"`

	// SemanticWeight is the share of semantic similarity in the blended
	// ranking score, in [0, 1].
	SemanticWeight float64 `yaml:"semantic_weight"`

	Sparsity SparsityConfig `yaml:"sparsity"`
	RVQ      RVQConfig      `yaml:"rvq"`

	// Backend selects the compute backend: "auto", "sequential" or
	// "accelerated". "auto" tries accelerated and falls back.
	Backend string `yaml:"backend"`

	Cache CacheConfig `yaml:"cache"`
}

// Default returns the configuration used when no file is present:
// sparse strategy over 384-dimensional embeddings, semantic weight 0.2.
func Default() Config {
	topK := 50
	return Config{
		Strategy:       "sparse",
		Dimension:      384,
		SemanticWeight: 0.2,
		Sparsity: SparsityConfig{
			TargetSparsity: 0.85,
			TopK:           &topK,
			Threshold:      0.01,
		},
		RVQ: RVQConfig{
			Layers:       2,
			CodebookSize: 256,
			Seed:         1,
		},
		Backend: "auto",
		Cache: CacheConfig{
			Capacity:    4096,
			Compression: "zstd",
		},
	}
}

// Load reads a YAML configuration file. Fields absent from the file keep
// their defaults.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	return Parse(data)
}

// Parse decodes YAML configuration bytes over the defaults.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration values.
func (c Config) Validate() error {
	switch c.Strategy {
	case "sparse", "rvq", "hybrid":
	default:
		return fmt.Errorf("config: unknown strategy %q", c.Strategy)
	}
	if c.Dimension <= 0 {
		return fmt.Errorf("config: dimension must be positive, got %d", c.Dimension)
	}
	if c.SemanticWeight < 0 || c.SemanticWeight > 1 {
		return fmt.Errorf("config: semantic_weight must be in [0, 1], got %g", c.SemanticWeight)
	}
	if c.Sparsity.TargetSparsity < 0 || c.Sparsity.TargetSparsity >= 1 {
		return fmt.Errorf("config: sparsity.target_sparsity must be in [0, 1)")
	}
	if c.Sparsity.TopK != nil && *c.Sparsity.TopK < 0 {
		return fmt.Errorf("config: sparsity.top_k must not be negative")
	}
	if c.Sparsity.Threshold < 0 || c.Sparsity.Threshold > 1 {
		return fmt.Errorf("config: sparsity.threshold must be in [0, 1]")
	}
	if c.Strategy != "sparse" {
		if c.RVQ.Layers <= 0 {
			return fmt.Errorf("config: rvq.layers must be positive for strategy %q", c.Strategy)
		}
		if c.RVQ.CodebookSize <= 0 {
			return fmt.Errorf("config: rvq.codebook_size must be positive for strategy %q", c.Strategy)
		}
	}
	switch c.Backend {
	case "", "auto", "sequential", "accelerated":
	default:
		return fmt.Errorf("config: unknown backend %q", c.Backend)
	}
	if _, ok := compressionNames[c.Cache.Compression]; !ok {
		return fmt.Errorf("config: unknown cache.compression %q", c.Cache.Compression)
	}
	return nil
}

var compressionNames = map[string]struct{}{
	"": {}, "none": {}, "zstd": {}, "lz4": {},
}
