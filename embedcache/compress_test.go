package embedcache

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompressorRoundTrip(t *testing.T) {
	payload := bytes.Repeat([]byte("quantized embedding payload "), 64)

	for _, name := range []string{"none", "zstd", "lz4"} {
		t.Run(name, func(t *testing.T) {
			c, ok := CompressorByName(name)
			require.True(t, ok)
			assert.Equal(t, name, c.Name())

			compressed, err := c.Compress(payload)
			require.NoError(t, err)
			decompressed, err := c.Decompress(compressed)
			require.NoError(t, err)
			assert.Equal(t, payload, decompressed)
		})
	}
}

func TestCompressorByNameUnknown(t *testing.T) {
	_, ok := CompressorByName("gzip")
	assert.False(t, ok)
}

func TestCompressionShrinksRepetitivePayload(t *testing.T) {
	payload := bytes.Repeat([]byte("aaaaaaaa"), 1024)

	for _, name := range []string{"zstd", "lz4"} {
		c, _ := CompressorByName(name)
		compressed, err := c.Compress(payload)
		require.NoError(t, err)
		assert.Less(t, len(compressed), len(payload), name)
	}
}

func TestZstdRejectsGarbage(t *testing.T) {
	_, err := Zstd{}.Decompress([]byte("garbage"))
	assert.Error(t, err)
}
