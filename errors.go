package tansu

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// ErrKeyNotFound is returned by typed lookups when no layer reachable through
// the resolution rules defines the requested key.
var ErrKeyNotFound = errors.New("setting key not found")

// ErrEmptyPath is returned by Deep and the deep convenience methods when the
// supplied path contains no segments.
var ErrEmptyPath = errors.New("account path is empty")

// TypeMismatchError is returned when a cell's erased type does not match the
// type requested by the caller. It is a distinct condition from a missing
// key: the key resolved to a value, but the value is of another type.
type TypeMismatchError struct {
	Expected reflect.Type
	Actual   reflect.Type
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("setting type mismatch: expected %s, got %s",
		typeName(e.Expected), typeName(e.Actual))
}

// PathNotFoundError is returned when a path segment has no matching child
// name at some depth. Depth is the zero-based index of the failing segment.
type PathNotFoundError struct {
	Path    []string
	Segment string
	Depth   int
}

func (e *PathNotFoundError) Error() string {
	return fmt.Sprintf("account path not found: no child %q at depth %d of path %s",
		e.Segment, e.Depth, strings.Join(e.Path, "/"))
}

// typeName renders a reflect.Type for error messages, tolerating the nil
// type carried by an empty cell.
func typeName(t reflect.Type) string {
	if t == nil {
		return "<empty>"
	}
	return t.String()
}
