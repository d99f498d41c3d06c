package embedcache

import (
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/hupe1980/terngo/codec"
	"github.com/hupe1980/terngo/ternary"
)

// snapshotMagic identifies terngo embedding snapshot files.
var snapshotMagic = []byte("TGEC1")

var (
	// ErrNoSnapshotPath is returned by Snapshot/Load when no path is configured.
	ErrNoSnapshotPath = errors.New("embedcache: no snapshot path configured")

	// ErrCorruptSnapshot is returned when a snapshot file fails structural checks.
	ErrCorruptSnapshot = errors.New("embedcache: corrupt snapshot")
)

// Options configure a Store.
type Options struct {
	// Capacity is the maximum number of cached embeddings; older entries
	// are evicted LRU-style. Defaults to 4096.
	Capacity int

	// SnapshotPath is the file the store persists to. Empty disables
	// disk persistence.
	SnapshotPath string

	// Compression names the snapshot compressor: "none", "zstd" or "lz4".
	// Defaults to "zstd".
	Compression string

	// Codec encodes the snapshot payload. Defaults to codec.Default.
	Codec codec.Codec

	// Logger receives eviction and snapshot events. Defaults to slog.Default().
	Logger *slog.Logger
}

// Store holds quantized embeddings keyed by content ID. Embeddings are
// immutable; replacing a key always installs a new value. Safe for
// concurrent use (the underlying LRU is synchronized).
type Store struct {
	cache        *lru.Cache[string, ternary.Quantized]
	codec        codec.Codec
	compressor   Compressor
	snapshotPath string
	logger       *slog.Logger
}

// New creates a Store.
func New(opts Options) (*Store, error) {
	if opts.Capacity <= 0 {
		opts.Capacity = 4096
	}
	if opts.Codec == nil {
		opts.Codec = codec.Default
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	compressor, ok := CompressorByName(opts.Compression)
	if !ok {
		return nil, fmt.Errorf("embedcache: unknown compression %q", opts.Compression)
	}
	if opts.Compression == "" {
		compressor = Zstd{}
	}

	logger := opts.Logger
	cache, err := lru.NewWithEvict(opts.Capacity, func(key string, _ ternary.Quantized) {
		logger.Debug("embedding evicted", "key", key)
	})
	if err != nil {
		return nil, err
	}

	return &Store{
		cache:        cache,
		codec:        opts.Codec,
		compressor:   compressor,
		snapshotPath: opts.SnapshotPath,
		logger:       logger,
	}, nil
}

// Put stores an embedding under the given key, evicting the least recently
// used entry if the store is full.
func (s *Store) Put(key string, q ternary.Quantized) error {
	if !q.Valid() {
		return ternary.ErrInvalidKind
	}
	s.cache.Add(key, q)
	return nil
}

// Get returns the embedding stored under key and marks it recently used.
func (s *Store) Get(key string) (ternary.Quantized, bool) {
	return s.cache.Get(key)
}

// Delete removes the embedding stored under key.
func (s *Store) Delete(key string) {
	s.cache.Remove(key)
}

// Len returns the number of cached embeddings.
func (s *Store) Len() int {
	return s.cache.Len()
}

// Keys returns the cached keys, oldest first.
func (s *Store) Keys() []string {
	return s.cache.Keys()
}

type snapshotPayload struct {
	Entries map[string]ternary.Quantized `json:"entries"`
}

// Snapshot writes all cached embeddings to the configured snapshot path.
// Format: magic, codec name, compressor name, then the compressed payload.
// The write goes through a temp file and rename so a crash never leaves a
// half-written snapshot behind.
func (s *Store) Snapshot() error {
	if s.snapshotPath == "" {
		return ErrNoSnapshotPath
	}

	payload := snapshotPayload{Entries: make(map[string]ternary.Quantized, s.cache.Len())}
	for _, key := range s.cache.Keys() {
		if q, ok := s.cache.Peek(key); ok {
			payload.Entries[key] = q
		}
	}

	encoded, err := s.codec.Marshal(payload)
	if err != nil {
		return fmt.Errorf("embedcache: encode snapshot: %w", err)
	}
	compressed, err := s.compressor.Compress(encoded)
	if err != nil {
		return fmt.Errorf("embedcache: compress snapshot: %w", err)
	}

	buf := make([]byte, 0, len(snapshotMagic)+2+len(compressed))
	buf = append(buf, snapshotMagic...)
	buf = appendLenPrefixed(buf, s.codec.Name())
	buf = appendLenPrefixed(buf, s.compressor.Name())
	buf = append(buf, compressed...)

	tmp := s.snapshotPath + ".tmp"
	if err := os.MkdirAll(filepath.Dir(s.snapshotPath), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(tmp, buf, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, s.snapshotPath); err != nil {
		return err
	}

	s.logger.Info("snapshot saved",
		"path", s.snapshotPath,
		"entries", len(payload.Entries),
		"bytes", len(buf),
		"compression", s.compressor.Name(),
	)
	return nil
}

// Load replaces the store contents with the embeddings from the snapshot
// file. The codec and compressor are selected from the file header, so
// snapshots written with other settings still load. Decoded embeddings are
// re-validated; the sparse ordering invariants survive the round-trip.
func (s *Store) Load() error {
	if s.snapshotPath == "" {
		return ErrNoSnapshotPath
	}

	data, err := os.ReadFile(s.snapshotPath)
	if err != nil {
		return err
	}
	if len(data) < len(snapshotMagic) || string(data[:len(snapshotMagic)]) != string(snapshotMagic) {
		return fmt.Errorf("%w: bad magic", ErrCorruptSnapshot)
	}
	rest := data[len(snapshotMagic):]

	codecName, rest, err := readLenPrefixed(rest)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrCorruptSnapshot, err)
	}
	compName, rest, err := readLenPrefixed(rest)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrCorruptSnapshot, err)
	}

	c, ok := codec.ByName(codecName)
	if !ok {
		return fmt.Errorf("%w: unknown codec %q", ErrCorruptSnapshot, codecName)
	}
	compressor, ok := CompressorByName(compName)
	if !ok {
		return fmt.Errorf("%w: unknown compressor %q", ErrCorruptSnapshot, compName)
	}

	decompressed, err := compressor.Decompress(rest)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrCorruptSnapshot, err)
	}
	var payload snapshotPayload
	if err := c.Unmarshal(decompressed, &payload); err != nil {
		return fmt.Errorf("%w: %s", ErrCorruptSnapshot, err)
	}

	s.cache.Purge()
	for key, q := range payload.Entries {
		if !q.Valid() {
			return fmt.Errorf("%w: invalid embedding for key %q", ErrCorruptSnapshot, key)
		}
		s.cache.Add(key, q)
	}

	s.logger.Info("snapshot loaded",
		"path", s.snapshotPath,
		"entries", len(payload.Entries),
	)
	return nil
}

func appendLenPrefixed(buf []byte, s string) []byte {
	var lenBuf [2]byte
	binary.LittleEndian.PutUint16(lenBuf[:], uint16(len(s)))
	buf = append(buf, lenBuf[:]...)
	return append(buf, s...)
}

func readLenPrefixed(data []byte) (string, []byte, error) {
	if len(data) < 2 {
		return "", nil, errors.New("truncated header")
	}
	n := int(binary.LittleEndian.Uint16(data[:2]))
	if len(data) < 2+n {
		return "", nil, errors.New("truncated header field")
	}
	return string(data[2 : 2+n]), data[2+n:], nil
}
