// Package quantize implements the three quantization strategies that turn a
// dense float32 embedding into a compact ternary representation:
//
//   - SparseQuantizer: direct thresholding with top-k sparsity (codebook-free)
//   - RVQQuantizer: greedy residual quantization over small codebook layers
//   - HybridQuantizer: sparse support selection refined by RVQ over the support
//
// Quantizers are pure functions of their configuration and input. Codebooks
// are immutable after construction and safe to share across goroutines.
package quantize
