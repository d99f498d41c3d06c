// Package terngo compresses dense embeddings into sparse balanced ternary
// representations and computes similarity directly on the compressed form.
//
// Three interchangeable quantization strategies are provided:
//
//   - sparse: direct ternary quantization with top-k sparsity (codebook-free)
//   - rvq: residual vector quantization over small codebook layers
//   - hybrid: sparse support selection refined by RVQ over the support
//
// # Quick Start
//
//	gen, _ := terngo.Sparse(384).TopK(50).Threshold(0.01).Build()
//	defer gen.Close()
//
//	q, _ := gen.Quantize(dense)           // dense []float32 -> ternary.Quantized
//	approx, _ := gen.Reconstruct(q)       // dense approximation
//	sim, _ := gen.Similarity(q, other)    // cosine in [-1, 1]
//	score := gen.Score(metadataScore, &sim)
//
// Residual quantization:
//
//	gen, _ := terngo.RVQ(384).Layers(4).CodebookSize(256).Seed(42).Build()
//
// Batch similarity runs on a compute backend selected once at startup:
// an accelerated implementation (vectorized kernels, data-parallel fan-out)
// when the host supports it, the sequential reference otherwise. Fallback is
// silent and observable via Generator.BackendStatus.
package terngo
