//go:build !amd64 && !arm64

package backend

// No vector extensions detected on other architectures; the accelerated
// backend stays unavailable and Detect falls back to sequential.
