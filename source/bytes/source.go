// Package bytes provides a byte slice based settings source.
// This source is read-only; Save operations return ErrSaveNotSupported.
package bytes

import (
	"context"

	"github.com/tansu-go/tansu/source"
)

// Source loads raw settings data from a byte slice.
// This source does not support saving.
type Source struct {
	data []byte
}

// Ensure Source implements the source.Source interface.
var _ source.Source = (*Source)(nil)

// New creates a source from raw bytes. The slice is copied so later caller
// mutations do not leak into loads.
//
// Example:
//
//	src := bytes.New(encoded)
func New(data []byte) *Source {
	copied := make([]byte, len(data))
	copy(copied, data)
	return &Source{data: copied}
}

// FromString creates a source from a string.
//
// Example:
//
//	src := bytes.FromString(`{"name": "root"}`)
func FromString(data string) *Source {
	return &Source{data: []byte(data)}
}

// Type returns the source type identifier.
func (s *Source) Type() string {
	return "bytes"
}

// Load implements the source.Source interface.
// Returns a copy of the data to prevent callers from modifying the source.
func (s *Source) Load(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	result := make([]byte, len(s.data))
	copy(result, s.data)
	return result, nil
}

// Save implements the source.Source interface.
// This source does not support saving and always returns ErrSaveNotSupported.
func (s *Source) Save(ctx context.Context, data []byte) error {
	return source.ErrSaveNotSupported
}

// CanSave returns false because byte slice sources do not support saving.
func (s *Source) CanSave() bool {
	return false
}
