// Package toml provides the TOML codec format (using
// github.com/pelletier/go-toml/v2).
package toml

import (
	gotoml "github.com/pelletier/go-toml/v2"

	"github.com/tansu-go/tansu/codec"
)

// Format renders the wire model as TOML.
type Format struct{}

// Ensure Format implements the codec.Format interface.
var _ codec.Format = Format{}

// New creates a TOML format.
//
// Example:
//
//	c := codec.New(toml.New())
func New() Format {
	return Format{}
}

// Marshal implements the codec.Format interface.
func (Format) Marshal(v any) ([]byte, error) {
	return gotoml.Marshal(v)
}

// Unmarshal implements the codec.Format interface.
func (Format) Unmarshal(data []byte, v any) error {
	return gotoml.Unmarshal(data, v)
}

// Name returns the format identifier.
func (Format) Name() string {
	return "toml"
}
