// Package source provides interfaces and implementations for settings
// sources. A source represents where a serialized settings tree comes from
// and optionally where it can be saved. Sources handle raw bytes only;
// encoding and decoding are handled by the codec package.
package source

import (
	"context"
	"errors"
)

// ErrSaveNotSupported is returned when Save is called on a source that
// doesn't support saving.
var ErrSaveNotSupported = errors.New("save not supported for this source")

// Source loads and optionally saves raw settings data.
type Source interface {
	// Load reads the raw data from the source.
	// The context can be used for cancellation and timeouts.
	Load(ctx context.Context) ([]byte, error)

	// Save writes data back to the source.
	// Returns ErrSaveNotSupported if the source doesn't support saving.
	Save(ctx context.Context, data []byte) error

	// CanSave returns true if the source supports saving.
	CanSave() bool

	// Type returns the source type identifier (e.g., "fs", "bytes").
	Type() string
}

// Watchable is an optional interface for sources that can report external
// changes. The returned channel receives a signal whenever the underlying
// data may have changed; it is closed when ctx is done.
type Watchable interface {
	Watch(ctx context.Context) (<-chan struct{}, error)
}
