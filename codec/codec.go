// Package codec serializes Account trees. The core store defines no wire
// format of its own; this package is the external collaborator that tags
// every serialized cell with enough information to reconstruct its concrete
// type and rejects unknown tags on read.
//
// Byte-level rendering is delegated to a Format (see the json, yaml, toml,
// and jsonc subpackages); type reconstruction is driven by a Registry.
package codec

import (
	"fmt"
	"time"

	"github.com/tansu-go/tansu"
)

// Format renders the wire model to bytes and back. Each format subpackage
// provides an implementation.
type Format interface {
	// Marshal serializes a value to bytes.
	Marshal(v any) ([]byte, error)

	// Unmarshal parses bytes into a value.
	Unmarshal(data []byte, v any) error

	// Name returns the format identifier (e.g., "json", "yaml").
	Name() string
}

// wireAccount is the recursive wire model for an Account. Children are
// stored in insertion order (lowest priority first) so that decoding can
// re-push them and reproduce the priority order exactly.
type wireAccount struct {
	Name     string                 `json:"name" yaml:"name" toml:"name"`
	Active   bool                   `json:"active" yaml:"active" toml:"active"`
	Settings map[string]wireSetting `json:"settings,omitempty" yaml:"settings,omitempty" toml:"settings,omitempty"`
	Children []wireChild            `json:"children,omitempty" yaml:"children,omitempty" toml:"children,omitempty"`
}

// wireSetting pairs a registry tag with the raw value.
type wireSetting struct {
	Type  string `json:"type" yaml:"type" toml:"type"`
	Value any    `json:"value" yaml:"value" toml:"value"`
}

// wireChild carries a child account together with its validity marker.
type wireChild struct {
	Validity string      `json:"validity" yaml:"validity" toml:"validity"`
	Account  wireAccount `json:"account" yaml:"account" toml:"account"`
}

// Codec encodes and decodes Account trees through a Format and a Registry.
type Codec struct {
	format   Format
	registry *Registry
}

// Option configures a Codec.
type Option func(*Codec)

// WithRegistry replaces the default type registry.
func WithRegistry(r *Registry) Option {
	return func(c *Codec) {
		c.registry = r
	}
}

// New creates a Codec for the given format. Without options it uses
// DefaultRegistry.
//
// Example:
//
//	c := codec.New(yaml.New())
//	data, err := c.Encode(acc)
func New(f Format, opts ...Option) *Codec {
	c := &Codec{
		format:   f,
		registry: DefaultRegistry(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Format returns the codec's byte-level format.
func (c *Codec) Format() Format {
	return c.format
}

// Registry returns the codec's type registry.
func (c *Codec) Registry() *Registry {
	return c.registry
}

// Encode serializes the account tree. Every cell's type must be registered;
// an unregistered type yields an *UnregisteredTypeError.
func (c *Codec) Encode(acc *tansu.Account) ([]byte, error) {
	w, err := c.encodeAccount(acc)
	if err != nil {
		return nil, err
	}
	return c.format.Marshal(w)
}

// Decode reconstructs an account tree. Cells carrying a tag the registry
// does not know yield an *UnknownTagError.
func (c *Codec) Decode(data []byte) (*tansu.Account, error) {
	var w wireAccount
	if err := c.format.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("failed to parse %s data: %w", c.format.Name(), err)
	}
	return c.decodeAccount(w)
}

func (c *Codec) encodeAccount(acc *tansu.Account) (wireAccount, error) {
	w := wireAccount{
		Name:   acc.Name(),
		Active: acc.Active(),
	}
	if acc.Len() > 0 {
		w.Settings = make(map[string]wireSetting, acc.Len())
		for _, key := range acc.Keys() {
			s, _ := acc.Local(key)
			ws, err := c.encodeSetting(s)
			if err != nil {
				return wireAccount{}, fmt.Errorf("setting %q in account %q: %w", key, acc.Name(), err)
			}
			w.Settings[key] = ws
		}
	}
	for i := 0; i < acc.NumChildren(); i++ {
		child, validity, _ := acc.Child(i)
		wc, err := c.encodeAccount(child)
		if err != nil {
			return wireAccount{}, err
		}
		w.Children = append(w.Children, wireChild{
			Validity: validity.String(),
			Account:  wc,
		})
	}
	return w, nil
}

func (c *Codec) encodeSetting(s tansu.Setting) (wireSetting, error) {
	tag, ok := c.registry.TagFor(s.Type())
	if !ok {
		return wireSetting{}, &UnregisteredTypeError{Type: s.Type()}
	}
	value := s.Value()
	// Durations travel in their string form ("1m30s") so files stay
	// readable and format-independent.
	if d, isDuration := value.(time.Duration); isDuration {
		value = d.String()
	}
	return wireSetting{Type: tag, Value: value}, nil
}

func (c *Codec) decodeAccount(w wireAccount) (*tansu.Account, error) {
	acc := tansu.New(w.Name, tansu.WithActive(w.Active))
	for key, ws := range w.Settings {
		s, err := c.registry.Decode(ws.Type, ws.Value)
		if err != nil {
			return nil, fmt.Errorf("setting %q in account %q: %w", key, w.Name, err)
		}
		acc.Insert(key, s)
	}
	for _, wc := range w.Children {
		validity, ok := tansu.ParseValidity(wc.Validity)
		if !ok {
			return nil, fmt.Errorf("child %q of account %q: invalid validity %q",
				wc.Account.Name, w.Name, wc.Validity)
		}
		child, err := c.decodeAccount(wc.Account)
		if err != nil {
			return nil, err
		}
		acc.PushChildMarked(child, validity)
	}
	return acc, nil
}
