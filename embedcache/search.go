package embedcache

import (
	"context"
	"errors"
	"sort"

	"github.com/hupe1980/terngo/backend"
	"github.com/hupe1980/terngo/scoring"
	"github.com/hupe1980/terngo/similarity"
	"github.com/hupe1980/terngo/ternary"
)

// ErrNoSparseQuery is returned when the query embedding carries no sparse
// representation (RVQ-only embeddings cannot drive a sparse search).
var ErrNoSparseQuery = errors.New("embedcache: query embedding has no sparse representation")

// SearchOptions configure a ranking pass over the cached embeddings.
type SearchOptions struct {
	// K limits the number of results. 0 returns all matches.
	K int

	// SemanticWeight is the share of the semantic similarity in the
	// blended score, in [0, 1]. Defaults to scoring.DefaultSemanticWeight.
	SemanticWeight *float64

	// MetadataScores supplies the per-key metadata relevance computed by
	// the caller. Missing keys default to 0.
	MetadataScores map[string]float64

	// MinOverlap skips candidates sharing fewer than this many support
	// indices with the query. The overlap check is a cheap bitmap
	// intersection and runs before the cosine pass.
	MinOverlap int
}

// Result is one ranked candidate.
type Result struct {
	Key        string
	Score      float64
	Similarity float32
}

// Search ranks the cached embeddings against the query using the given
// compute backend and returns them best-first. Only embeddings carrying a
// sparse representation (sparse and hybrid kinds) and matching the query's
// dimension participate; RVQ-only entries need their quantizer's codebooks
// to compare and are skipped here.
//
// Ties in the blended score break toward the lexically smaller key so
// result order is deterministic.
func (s *Store) Search(ctx context.Context, be backend.Backend, query ternary.Quantized, opts SearchOptions) ([]Result, error) {
	querySparse, ok := query.SparseView()
	if !ok {
		return nil, ErrNoSparseQuery
	}

	weight := scoring.DefaultSemanticWeight
	if opts.SemanticWeight != nil {
		weight = *opts.SemanticWeight
	}

	keys := make([]string, 0, s.cache.Len())
	candidates := make([]*ternary.SparseEmbedding, 0, s.cache.Len())
	for _, key := range s.cache.Keys() {
		q, ok := s.cache.Peek(key)
		if !ok {
			continue
		}
		cand, ok := q.SparseView()
		if !ok {
			s.logger.Debug("skipping rvq-only candidate", "key", key)
			continue
		}
		if cand.Dimension() != querySparse.Dimension() {
			continue
		}
		if opts.MinOverlap > 0 && similarity.OverlapCount(querySparse, cand) < opts.MinOverlap {
			continue
		}
		keys = append(keys, key)
		candidates = append(candidates, cand)
	}

	sims, err := be.BatchCosine(ctx, querySparse, candidates)
	if err != nil {
		return nil, err
	}

	results := make([]Result, len(keys))
	for i, key := range keys {
		sim := sims[i]
		results[i] = Result{
			Key:        key,
			Score:      scoring.Blend(opts.MetadataScores[key], &sim, weight),
			Similarity: sim,
		}
	}

	sort.Slice(results, func(a, b int) bool {
		if results[a].Score != results[b].Score {
			return results[a].Score > results[b].Score
		}
		return results[a].Key < results[b].Key
	})

	if opts.K > 0 && len(results) > opts.K {
		results = results[:opts.K]
	}
	return results, nil
}
