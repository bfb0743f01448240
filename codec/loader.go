package codec

import (
	"context"
	"errors"

	"github.com/tansu-go/tansu"
	"github.com/tansu-go/tansu/source"
)

// ErrWatchNotSupported is returned by WatchReload when the underlying
// source cannot report external changes.
var ErrWatchNotSupported = errors.New("source does not support watching")

// Loader bridges a byte source and a codec to the account tree. It owns no
// tree itself: Load produces fresh trees, Save serializes whatever the
// caller passes in, and the caller decides how to swap reloaded trees into
// its application.
type Loader struct {
	src   source.Source
	codec *Codec
}

// NewLoader creates a Loader.
//
// Example:
//
//	loader := codec.NewLoader(fs.New("settings.yaml"), codec.New(yaml.New()))
//	acc, err := loader.Load(ctx)
func NewLoader(src source.Source, c *Codec) *Loader {
	return &Loader{src: src, codec: c}
}

// Load reads the source and decodes the account tree.
func (l *Loader) Load(ctx context.Context) (*tansu.Account, error) {
	data, err := l.src.Load(ctx)
	if err != nil {
		return nil, err
	}
	return l.codec.Decode(data)
}

// Save encodes the account tree and writes it to the source.
// Returns source.ErrSaveNotSupported for read-only sources.
func (l *Loader) Save(ctx context.Context, acc *tansu.Account) error {
	data, err := l.codec.Encode(acc)
	if err != nil {
		return err
	}
	return l.src.Save(ctx, data)
}

// WatchReload re-loads the tree whenever the source reports a change and
// delivers the result to fn, including load or decode failures so callers
// can keep their previous tree on error. It returns once watching is
// established; fn is invoked from a background goroutine until ctx ends.
func (l *Loader) WatchReload(ctx context.Context, fn func(*tansu.Account, error)) error {
	w, ok := l.src.(source.Watchable)
	if !ok {
		return ErrWatchNotSupported
	}
	ch, err := w.Watch(ctx)
	if err != nil {
		return err
	}
	go func() {
		for range ch {
			fn(l.Load(ctx))
		}
	}()
	return nil
}
