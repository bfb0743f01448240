package tansu

import (
	"reflect"

	"github.com/davecgh/go-spew/spew"
)

// Setting is a uniform container holding one value of an arbitrary concrete
// type. The concrete type is erased from the cell's static type but remains
// discoverable at runtime via Type. A cell never changes its wrapped type
// after construction; replacing a value means constructing a new cell.
//
// The zero Setting holds nothing. It resolves as "empty" (IsZero reports
// true), fails every typed extraction, and equals only another empty cell.
type Setting struct {
	value any
	typ   reflect.Type
}

// Cloner is an optional interface for wrapped values that need custom
// duplication semantics. When a wrapped value implements Cloner, Clone uses
// it instead of the default deep copy. CloneSetting must return a value of
// the same concrete type.
type Cloner interface {
	CloneSetting() any
}

// Equaler is an optional interface for wrapped values that define their own
// equality. When the left-hand value implements Equaler, Equal defers to it
// after the erased types already matched.
type Equaler interface {
	EqualSetting(other any) bool
}

// Wrap lifts a typed value into a Setting. It always succeeds and records
// the static type T as the cell's runtime tag.
//
// Example:
//
//	cell := tansu.Wrap(42)
//	n, err := tansu.TryUnwrap[int](cell) // 42, nil
func Wrap[T any](v T) Setting {
	return Setting{value: v, typ: reflect.TypeOf((*T)(nil)).Elem()}
}

// WrapValue lifts an untyped value into a Setting, deriving the runtime tag
// from the value's dynamic type. It is used by serialization collaborators
// that reconstruct cells at runtime; prefer Wrap in application code.
// WrapValue(nil) returns the empty cell.
func WrapValue(v any) Setting {
	if v == nil {
		return Setting{}
	}
	return Setting{value: v, typ: reflect.TypeOf(v)}
}

// Unwrap extracts the wrapped value as type T, panicking on mismatch.
//
// Unwrap is a contract assertion, not a data-validation mechanism: use it
// only when the cell's type is guaranteed by construction. Use TryUnwrap to
// handle mismatches as recoverable errors.
func Unwrap[T any](s Setting) T {
	v, err := TryUnwrap[T](s)
	if err != nil {
		panic(err)
	}
	return v
}

// TryUnwrap extracts the wrapped value as type T. It returns a
// *TypeMismatchError identifying the expected and actual types when the
// cell's runtime tag does not match T. The cell itself is not consumed.
func TryUnwrap[T any](s Setting) (T, error) {
	want := reflect.TypeOf((*T)(nil)).Elem()
	if s.typ != want {
		var zero T
		return zero, &TypeMismatchError{Expected: want, Actual: s.typ}
	}
	// Comma-ok form: an interface-typed cell may legitimately hold nil,
	// which a plain assertion would panic on.
	v, _ := s.value.(T)
	return v, nil
}

// Type returns the runtime tag identifying the wrapped concrete type.
// It returns nil for the empty cell.
func (s Setting) Type() reflect.Type {
	return s.typ
}

// Value returns the wrapped value as an untyped any. The result must be
// treated as read-only; mutating a shared container through it breaks the
// independence guarantee of Clone.
func (s Setting) Value() any {
	return s.value
}

// IsZero reports whether the cell holds nothing.
func (s Setting) IsZero() bool {
	return s.typ == nil
}

// Clone produces an independent cell wrapping an equal value of the same
// erased type. Container values (maps, slices, pointers) are copied deeply;
// values implementing Cloner are duplicated through it.
func (s Setting) Clone() Setting {
	if s.typ == nil {
		return Setting{}
	}
	if c, ok := s.value.(Cloner); ok {
		return Setting{value: c.CloneSetting(), typ: s.typ}
	}
	return Setting{value: deepCopyValue(s.value), typ: s.typ}
}

// Equal reports whether two cells wrap equal values of the same erased
// type. Cells of different erased types are never equal. When the wrapped
// value implements Equaler its own equality is used, otherwise values are
// compared with reflect.DeepEqual.
func (s Setting) Equal(o Setting) bool {
	if s.typ != o.typ {
		return false
	}
	if s.typ == nil {
		return true
	}
	if eq, ok := s.value.(Equaler); ok {
		return eq.EqualSetting(o.value)
	}
	return reflect.DeepEqual(s.value, o.value)
}

// String returns a human-readable representation of the wrapped value.
func (s Setting) String() string {
	if s.typ == nil {
		return "<empty>"
	}
	return spew.Sprintf("%v", s.value)
}

// deepCopyValue copies a value so that the copy shares no mutable state
// with the original. map[string]any and []any are handled directly as the
// common cases for parsed configuration data; other container kinds are
// copied via reflection. Non-container values are returned as-is.
func deepCopyValue(v any) any {
	switch val := v.(type) {
	case nil:
		return nil
	case map[string]any:
		dst := make(map[string]any, len(val))
		for k, e := range val {
			dst[k] = deepCopyValue(e)
		}
		return dst
	case []any:
		dst := make([]any, len(val))
		for i, e := range val {
			dst[i] = deepCopyValue(e)
		}
		return dst
	}
	return deepCopyReflect(reflect.ValueOf(v)).Interface()
}

// deepCopyReflect copies slices, maps, and pointers recursively. Structs and
// scalars are copied by value; struct fields holding containers are shared,
// so struct values needing full isolation should implement Cloner.
func deepCopyReflect(v reflect.Value) reflect.Value {
	switch v.Kind() {
	case reflect.Slice:
		if v.IsNil() {
			return v
		}
		dst := reflect.MakeSlice(v.Type(), v.Len(), v.Len())
		for i := 0; i < v.Len(); i++ {
			dst.Index(i).Set(deepCopyReflect(v.Index(i)))
		}
		return dst
	case reflect.Map:
		if v.IsNil() {
			return v
		}
		dst := reflect.MakeMapWithSize(v.Type(), v.Len())
		iter := v.MapRange()
		for iter.Next() {
			dst.SetMapIndex(iter.Key(), deepCopyReflect(iter.Value()))
		}
		return dst
	case reflect.Pointer:
		if v.IsNil() {
			return v
		}
		dst := reflect.New(v.Type().Elem())
		dst.Elem().Set(deepCopyReflect(v.Elem()))
		return dst
	case reflect.Interface:
		if v.IsNil() {
			return v
		}
		dst := reflect.New(v.Type()).Elem()
		dst.Set(deepCopyReflect(v.Elem()))
		return dst
	}
	return v
}
