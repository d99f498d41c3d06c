// Package scoring blends a metadata-based relevance score with the semantic
// similarity produced by the similarity engine into one ranking score per
// candidate.
package scoring

import "fmt"

// DefaultSemanticWeight is the default share of the semantic similarity in
// the blended score.
const DefaultSemanticWeight = 0.2

// Config holds the scoring parameters.
type Config struct {
	// SemanticWeight is the weight of the semantic similarity, in [0, 1].
	SemanticWeight float64
}

// DefaultConfig returns the default scoring configuration.
func DefaultConfig() Config {
	return Config{SemanticWeight: DefaultSemanticWeight}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.SemanticWeight < 0 || c.SemanticWeight > 1 {
		return fmt.Errorf("semantic_weight must be in [0, 1], got %g", c.SemanticWeight)
	}
	return nil
}

// RescaleCosine maps a cosine similarity from [-1, 1] to [0, 1].
func RescaleCosine(sim float32) float64 {
	s := (float64(sim) + 1) / 2
	if s < 0 {
		return 0
	}
	if s > 1 {
		return 1
	}
	return s
}

// Blend combines a metadata score with an optional cosine similarity:
//
//	score = (1 - weight) * metadata + weight * (sim + 1) / 2
//
// A nil similarity means no embedding generator was configured for the
// candidate's store; the weight is then redistributed to the metadata score
// rather than substituting zero similarity.
func Blend(metadataScore float64, sim *float32, weight float64) float64 {
	if sim == nil {
		return metadataScore
	}
	return (1-weight)*metadataScore + weight*RescaleCosine(*sim)
}

// Score applies the configured weight. See Blend.
func (c Config) Score(metadataScore float64, sim *float32) float64 {
	return Blend(metadataScore, sim, c.SemanticWeight)
}
