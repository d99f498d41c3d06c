package backend

// CPU feature flags, set by platform-specific init.
var (
	hasAVX2  bool // x86-64 AVX2 + FMA
	hasASIMD bool // ARM64 NEON
)

// hasVectorISA reports whether the host CPU offers a vector instruction set
// the accelerated kernels benefit from.
func hasVectorISA() bool {
	return hasAVX2 || hasASIMD
}
