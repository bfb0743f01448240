// Package jsonc provides the JSON-with-comments codec format (using
// github.com/tailscale/hujson). Input may carry comments and trailing
// commas; output is standard JSON, so comments do not survive a round trip.
package jsonc

import (
	encjson "encoding/json"
	"fmt"

	"github.com/tailscale/hujson"

	"github.com/tansu-go/tansu/codec"
)

// Format reads JSONC and writes standard JSON.
type Format struct{}

// Ensure Format implements the codec.Format interface.
var _ codec.Format = Format{}

// New creates a JSONC format.
//
// Example:
//
//	c := codec.New(jsonc.New())
func New() Format {
	return Format{}
}

// Marshal implements the codec.Format interface.
func (Format) Marshal(v any) ([]byte, error) {
	return encjson.MarshalIndent(v, "", "  ")
}

// Unmarshal implements the codec.Format interface. The data is standardized
// first, stripping comments and trailing commas.
func (Format) Unmarshal(data []byte, v any) error {
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return fmt.Errorf("failed to standardize JSONC: %w", err)
	}
	return encjson.Unmarshal(standardized, v)
}

// Name returns the format identifier.
func (Format) Name() string {
	return "jsonc"
}
