// Package yaml provides the YAML codec format (using gopkg.in/yaml.v3).
package yaml

import (
	goyaml "gopkg.in/yaml.v3"

	"github.com/tansu-go/tansu/codec"
)

// Format renders the wire model as YAML.
type Format struct{}

// Ensure Format implements the codec.Format interface.
var _ codec.Format = Format{}

// New creates a YAML format.
//
// Example:
//
//	c := codec.New(yaml.New())
func New() Format {
	return Format{}
}

// Marshal implements the codec.Format interface.
func (Format) Marshal(v any) ([]byte, error) {
	return goyaml.Marshal(v)
}

// Unmarshal implements the codec.Format interface.
func (Format) Unmarshal(data []byte, v any) error {
	return goyaml.Unmarshal(data, v)
}

// Name returns the format identifier.
func (Format) Name() string {
	return "yaml"
}
