// Package fs provides a file system based settings source.
package fs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/tansu-go/tansu/source"
)

// Default permission modes.
const (
	DefaultFileMode = 0644
	DefaultDirMode  = 0755
)

// Source loads and saves raw settings data from/to a file.
type Source struct {
	path     string
	fileMode os.FileMode
	dirMode  os.FileMode
}

// Ensure Source implements the source.Source interface.
var _ source.Source = (*Source)(nil)

// Ensure Source implements the source.Watchable interface.
var _ source.Watchable = (*Source)(nil)

// Option configures a Source.
type Option func(*Source)

// WithFileMode sets the file permission mode used when saving.
// Default is 0644.
func WithFileMode(mode os.FileMode) Option {
	return func(s *Source) {
		s.fileMode = mode
	}
}

// WithDirMode sets the directory permission mode used when creating parent
// directories. Default is 0755.
func WithDirMode(mode os.FileMode) Option {
	return func(s *Source) {
		s.dirMode = mode
	}
}

// New creates a source that reads from and writes to a file.
// The path can be absolute or relative. Tilde (~) expansion is supported.
//
// Example:
//
//	src := fs.New("~/.config/app/settings.yaml")
//	src := fs.New("settings.json", fs.WithFileMode(0600))
func New(path string, opts ...Option) *Source {
	s := &Source{
		path:     path,
		fileMode: DefaultFileMode,
		dirMode:  DefaultDirMode,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the configured file path, after tilde expansion.
func (s *Source) Path() string {
	path, err := expandPath(s.path)
	if err != nil {
		return s.path
	}
	return path
}

// Type returns the source type identifier.
func (s *Source) Type() string {
	return "fs"
}

// Load implements the source.Source interface.
func (s *Source) Load(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := expandPath(s.path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %q: %w", s.path, err)
	}
	return data, nil
}

// Save implements the source.Source interface. The write is performed
// atomically by writing to a temporary file first, then renaming it to the
// target path. Parent directories are created if they do not exist.
func (s *Source) Save(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := expandPath(s.path)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, s.dirMode); err != nil {
		return fmt.Errorf("failed to create directory %q: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".tansu-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpPath := tmp.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write to temporary file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync temporary file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temporary file: %w", err)
	}
	if err := os.Chmod(tmpPath, s.fileMode); err != nil {
		return fmt.Errorf("failed to set mode on temporary file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename temporary file to %q: %w", s.path, err)
	}
	success = true
	return nil
}

// CanSave returns true because file sources support saving.
func (s *Source) CanSave() bool {
	return true
}

// Watch implements the source.Watchable interface using fsnotify. The
// parent directory is watched rather than the file itself so that atomic
// saves (temp file + rename) and editor replace-on-write are observed. The
// returned channel receives at most one pending signal at a time and is
// closed when ctx is done.
func (s *Source) Watch(ctx context.Context) (<-chan struct{}, error) {
	path, err := expandPath(s.path)
	if err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch directory %q: %w", filepath.Dir(path), err)
	}

	ch := make(chan struct{}, 1)
	go func() {
		defer watcher.Close()
		runWatch(ctx, watcher.Events, watcher.Errors, filepath.Base(path), ch)
	}()
	return ch, nil
}

// runWatch filters raw watcher traffic into coalesced change signals on ch
// and closes ch when ctx ends or the watcher shuts down. Watcher errors
// also signal a change: the consumer's next load surfaces the underlying
// failure instead of the watch going permanently silent.
func runWatch(ctx context.Context, events <-chan fsnotify.Event, errs <-chan error, base string, ch chan<- struct{}) {
	defer close(ch)
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != base {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			signal(ch)
		case _, ok := <-errs:
			if !ok {
				return
			}
			signal(ch)
		}
	}
}

// signal delivers a non-blocking change notification; a pending signal is
// coalesced.
func signal(ch chan<- struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}

// expandPath expands a leading ~ to the user's home directory.
func expandPath(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to resolve home directory: %w", err)
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
	}
	return path, nil
}
