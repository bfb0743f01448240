package codec

import (
	"fmt"
	"reflect"
)

// UnknownTagError is returned when decoded data carries a type tag the
// registry does not know. The data cannot be reconstructed safely and is
// rejected rather than decoded into a guessed type.
type UnknownTagError struct {
	Tag string
}

func (e *UnknownTagError) Error() string {
	return fmt.Sprintf("unknown setting type tag %q", e.Tag)
}

// UnregisteredTypeError is returned by Encode when a cell wraps a type that
// has no tag in the registry.
type UnregisteredTypeError struct {
	Type reflect.Type
}

func (e *UnregisteredTypeError) Error() string {
	if e.Type == nil {
		return "cannot encode empty setting cell"
	}
	return fmt.Sprintf("setting type %s is not registered", e.Type)
}
