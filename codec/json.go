package codec

import "encoding/json"

// JSON is the standard-library JSON codec.
//
// The quantized embedding types implement json.Marshaler/Unmarshaler, so the
// tagged-union shape and the index ordering invariants survive a
// store -> reload cycle unchanged.
type JSON struct{}

// Marshal encodes the value to JSON.
func (JSON) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

// Unmarshal decodes the JSON data into v.
func (JSON) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

// Name returns the unique name of the codec ("json").
func (JSON) Name() string { return "json" }

// Default is the default codec used by the library.
//
// Persisted snapshot files are self-describing (they store the codec name in
// their header) and are opened by selecting the appropriate codec by name.
var Default Codec = JSON{}
