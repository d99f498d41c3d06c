// Package embedcache stores quantized embeddings keyed by content ID, with
// LRU eviction and an optional compressed disk snapshot. It is the
// collaborator-side store the quantization core hands its output to, and it
// hosts the retrieval glue that ranks cached embeddings against a query.
package embedcache
