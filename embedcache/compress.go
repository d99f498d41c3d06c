package embedcache

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compressor compresses snapshot payloads. Snapshot files record the
// compressor name in their header so they are self-describing.
type Compressor interface {
	Compress(data []byte) ([]byte, error)
	Decompress(data []byte) ([]byte, error)
	Name() string
}

// CompressorByName returns a built-in compressor by its stable name.
func CompressorByName(name string) (Compressor, bool) {
	switch name {
	case "none", "":
		return NoCompression{}, true
	case "zstd":
		return Zstd{}, true
	case "lz4":
		return LZ4{}, true
	default:
		return nil, false
	}
}

// NoCompression passes payloads through unchanged.
type NoCompression struct{}

// Compress implements Compressor.
func (NoCompression) Compress(data []byte) ([]byte, error) { return data, nil }

// Decompress implements Compressor.
func (NoCompression) Decompress(data []byte) ([]byte, error) { return data, nil }

// Name implements Compressor.
func (NoCompression) Name() string { return "none" }

// Zstd compresses with klauspost zstd at the default level.
type Zstd struct{}

// Compress implements Compressor.
func (Zstd) Compress(data []byte) ([]byte, error) {
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, err
	}
	defer enc.Close()
	return enc.EncodeAll(data, nil), nil
}

// Decompress implements Compressor.
func (Zstd) Decompress(data []byte) ([]byte, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	return dec.DecodeAll(data, nil)
}

// Name implements Compressor.
func (Zstd) Name() string { return "zstd" }

// LZ4 compresses with the lz4 frame format.
type LZ4 struct{}

// Compress implements Compressor.
func (LZ4) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := lz4.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("lz4 compress: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("lz4 close: %w", err)
	}
	return buf.Bytes(), nil
}

// Decompress implements Compressor.
func (LZ4) Decompress(data []byte) ([]byte, error) {
	r := lz4.NewReader(bytes.NewReader(data))
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("lz4 decompress: %w", err)
	}
	return out, nil
}

// Name implements Compressor.
func (LZ4) Name() string { return "lz4" }
