// Package kmeans implements Lloyd's algorithm for codebook training.
package kmeans

import (
	"math"
	"math/rand"

	"github.com/hupe1980/terngo/internal/vmath"
)

// Train clusters the flattened vectors (n * dim) into k centroids and returns
// them flattened (k * dim). The rng drives initialization and empty-cluster
// reseeding, so training is deterministic for a fixed seed.
func Train(vectors []float32, dim, k, maxIter int, rng *rand.Rand) []float32 {
	n := len(vectors) / dim
	centroids := make([]float32, k*dim)

	// Initialize centroids from distinct random data points.
	perm := rng.Perm(n)
	for i := 0; i < k; i++ {
		copy(centroids[i*dim:(i+1)*dim], vectors[perm[i]*dim:(perm[i]+1)*dim])
	}

	assignments := make([]int, n)
	counts := make([]int, k)
	sums := make([]float32, k*dim)

	for iter := 0; iter < maxIter; iter++ {
		changed := false

		// Assignment step
		for i := 0; i < n; i++ {
			vec := vectors[i*dim : (i+1)*dim]
			best := -1
			minDist := float32(math.MaxFloat32)
			for j := 0; j < k; j++ {
				d := vmath.SquaredL2(vec, centroids[j*dim:(j+1)*dim])
				if d < minDist {
					minDist = d
					best = j
				}
			}
			if assignments[i] != best {
				assignments[i] = best
				changed = true
			}
		}

		if !changed && iter > 0 {
			break
		}

		// Update step
		for i := range sums {
			sums[i] = 0
		}
		for i := range counts {
			counts[i] = 0
		}
		for i := 0; i < n; i++ {
			cluster := assignments[i]
			vec := vectors[i*dim : (i+1)*dim]
			for d := 0; d < dim; d++ {
				sums[cluster*dim+d] += vec[d]
			}
			counts[cluster]++
		}
		for j := 0; j < k; j++ {
			if counts[j] > 0 {
				scale := 1.0 / float32(counts[j])
				for d := 0; d < dim; d++ {
					centroids[j*dim+d] = sums[j*dim+d] * scale
				}
			} else {
				// Re-seed empty cluster with a random point.
				idx := rng.Intn(n)
				copy(centroids[j*dim:(j+1)*dim], vectors[idx*dim:(idx+1)*dim])
			}
		}
	}

	return centroids
}
