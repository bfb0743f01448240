package codec

import (
	"fmt"
	"reflect"
	"time"

	"github.com/mitchellh/mapstructure"

	"github.com/tansu-go/tansu"
)

// Registry maps wire tags to concrete Go types. Encoding looks up the tag
// for a cell's runtime type; decoding reconstructs a value of the
// registered type from the raw parsed representation.
//
// A Registry is not safe for concurrent mutation; register all types before
// sharing it between goroutines.
type Registry struct {
	byTag  map[string]reflect.Type
	byType map[reflect.Type]string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byTag:  make(map[string]reflect.Type),
		byType: make(map[reflect.Type]string),
	}
}

// DefaultRegistry returns a fresh registry pre-registered with the builtin
// setting types: bool, int, int64, float64, string, []string,
// time.Duration, and time.Time.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	MustRegister[bool](r, "bool")
	MustRegister[int](r, "int")
	MustRegister[int64](r, "int64")
	MustRegister[float64](r, "float64")
	MustRegister[string](r, "string")
	MustRegister[[]string](r, "[]string")
	MustRegister[time.Duration](r, "duration")
	MustRegister[time.Time](r, "time")
	return r
}

// Register binds tag to the concrete type T. It fails when the tag or the
// type is already registered under a different binding.
//
// Example:
//
//	type Theme struct {
//		Accent string `json:"accent"`
//	}
//	err := codec.Register[Theme](reg, "theme")
func Register[T any](r *Registry, tag string) error {
	t := reflect.TypeOf((*T)(nil)).Elem()
	if tag == "" {
		return fmt.Errorf("empty tag for type %s", t)
	}
	if existing, ok := r.byTag[tag]; ok && existing != t {
		return fmt.Errorf("tag %q already registered for type %s", tag, existing)
	}
	if existing, ok := r.byType[t]; ok && existing != tag {
		return fmt.Errorf("type %s already registered under tag %q", t, existing)
	}
	r.byTag[tag] = t
	r.byType[t] = tag
	return nil
}

// MustRegister is Register panicking on error, for package-level setup.
func MustRegister[T any](r *Registry, tag string) {
	if err := Register[T](r, tag); err != nil {
		panic(err)
	}
}

// TagFor returns the wire tag registered for a runtime type.
func (r *Registry) TagFor(t reflect.Type) (string, bool) {
	tag, ok := r.byType[t]
	return tag, ok
}

// TypeFor returns the runtime type registered for a wire tag.
func (r *Registry) TypeFor(tag string) (reflect.Type, bool) {
	t, ok := r.byTag[tag]
	return t, ok
}

// Decode reconstructs a Setting from a wire tag and the raw value a Format
// produced for it. The raw value (map[string]any, float64, string, ...) is
// converted into the registered concrete type via mapstructure with weak
// typing, so numeric widths and string-encoded durations round-trip across
// formats. An unregistered tag yields an *UnknownTagError.
func (r *Registry) Decode(tag string, raw any) (tansu.Setting, error) {
	t, ok := r.byTag[tag]
	if !ok {
		return tansu.Setting{}, &UnknownTagError{Tag: tag}
	}

	target := reflect.New(t)
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target.Interface(),
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToTimeHookFunc(time.RFC3339),
		),
	})
	if err != nil {
		return tansu.Setting{}, err
	}
	if err := dec.Decode(raw); err != nil {
		return tansu.Setting{}, fmt.Errorf("failed to decode value for tag %q: %w", tag, err)
	}
	return tansu.WrapValue(target.Elem().Interface()), nil
}
