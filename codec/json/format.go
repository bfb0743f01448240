// Package json provides the standard JSON codec format.
package json

import (
	encjson "encoding/json"

	"github.com/tansu-go/tansu/codec"
)

// Format renders the wire model as indented JSON.
type Format struct{}

// Ensure Format implements the codec.Format interface.
var _ codec.Format = Format{}

// New creates a JSON format.
//
// Example:
//
//	c := codec.New(json.New())
func New() Format {
	return Format{}
}

// Marshal implements the codec.Format interface.
func (Format) Marshal(v any) ([]byte, error) {
	return encjson.MarshalIndent(v, "", "  ")
}

// Unmarshal implements the codec.Format interface.
func (Format) Unmarshal(data []byte, v any) error {
	return encjson.Unmarshal(data, v)
}

// Name returns the format identifier.
func (Format) Name() string {
	return "json"
}
