package ttest

import (
	"errors"
	"testing"
	"time"

	"github.com/tansu-go/tansu"
	"github.com/tansu-go/tansu/codec"
)

// FormatTester runs the format compliance suite against a codec.Format.
// Every format implementation should pass TestAll.
type FormatTester struct {
	t      *testing.T
	format codec.Format
}

// NewFormatTester creates a FormatTester for the given format.
func NewFormatTester(t *testing.T, f codec.Format) *FormatTester {
	return &FormatTester{t: t, format: f}
}

// TestAll runs the full compliance suite.
func (ft *FormatTester) TestAll() {
	ft.t.Run("round trip tree", ft.testRoundTripTree)
	ft.t.Run("round trip builtin types", ft.testRoundTripTypes)
	ft.t.Run("round trip time", ft.testRoundTripTime)
	ft.t.Run("round trip custom type", ft.testRoundTripCustomType)
	ft.t.Run("unknown tag rejected", ft.testUnknownTagRejected)
}

// testRoundTripTree encodes and decodes a nested tree with inactive
// children and validity markers, and requires structural equality.
func (ft *FormatTester) testRoundTripTree(t *testing.T) {
	original := Build(Node{
		Name: "root",
		Settings: map[string]tansu.Setting{
			"word": tansu.Wrap("root"),
		},
		Children: []Child{
			{
				Node: Node{
					Name:     "defaults",
					Settings: map[string]tansu.Setting{"lines": tansu.Wrap(3)},
					Children: []Child{
						{Node: Node{Name: "theme"}, Validity: tansu.ValidityUnchecked},
					},
				},
				Validity: tansu.ValidityValid,
			},
			{
				Node: Node{
					Name:     "session",
					Inactive: true,
					Settings: map[string]tansu.Setting{"word": tansu.Wrap("session")},
				},
				Validity: tansu.ValidityInvalid,
			},
		},
	})

	c := codec.New(ft.format)
	data, err := c.Encode(original)
	RequireNoError(t, err, "Encode()")

	decoded, err := c.Decode(data)
	RequireNoError(t, err, "Decode()")

	Require(t, decoded.Equal(original), "decoded tree differs from original\nencoded:\n%s", data)

	// Activity and markers must survive explicitly, not just via Equal.
	inactive, err := decoded.Deep("session")
	RequireNoError(t, err, `Deep("session")`)
	Check(t, !inactive.Active(), "inactive child became active after round trip")
	v, ok := decoded.ChildValidity("session")
	Check(t, ok && v == tansu.ValidityInvalid, "validity marker = %v, want invalid", v)
}

// testRoundTripTypes round-trips one cell of every builtin registry type
// except time.Time, which gets its own subtest.
func (ft *FormatTester) testRoundTripTypes(t *testing.T) {
	original := tansu.New("types", tansu.WithSettings(map[string]tansu.Setting{
		"bool":     tansu.Wrap(true),
		"int":      tansu.Wrap(42),
		"int64":    tansu.Wrap(int64(1 << 40)),
		"float64":  tansu.Wrap(2.5),
		"string":   tansu.Wrap("green"),
		"strings":  tansu.Wrap([]string{"a", "b"}),
		"duration": tansu.Wrap(90 * time.Second),
	}))

	c := codec.New(ft.format)
	data, err := c.Encode(original)
	RequireNoError(t, err, "Encode()")

	decoded, err := c.Decode(data)
	RequireNoError(t, err, "Decode()")

	Require(t, decoded.Equal(original), "decoded settings differ from original\nencoded:\n%s", data)
}

// testRoundTripTime round-trips a time.Time cell. Compared with
// time.Time.Equal because formats differ in how they carry locations.
func (ft *FormatTester) testRoundTripTime(t *testing.T) {
	want := time.Date(2024, 3, 5, 12, 30, 0, 0, time.UTC)
	original := tansu.New("clock", tansu.WithSettings(map[string]tansu.Setting{
		"at": tansu.Wrap(want),
	}))

	c := codec.New(ft.format)
	data, err := c.Encode(original)
	RequireNoError(t, err, "Encode()")

	decoded, err := c.Decode(data)
	RequireNoError(t, err, "Decode()")

	got, err := tansu.Get[time.Time](decoded, "at")
	RequireNoError(t, err, `Get[time.Time]("at")`)
	Check(t, got.Equal(want), "time = %v, want %v", got, want)
}

// testRoundTripCustomType registers a struct type and round-trips it.
func (ft *FormatTester) testRoundTripCustomType(t *testing.T) {
	type theme struct {
		Accent string `json:"accent" yaml:"accent" toml:"accent"`
		Dark   bool   `json:"dark" yaml:"dark" toml:"dark"`
	}

	reg := codec.DefaultRegistry()
	codec.MustRegister[theme](reg, "theme")
	c := codec.New(ft.format, codec.WithRegistry(reg))

	original := tansu.New("themed", tansu.WithSettings(map[string]tansu.Setting{
		"theme": tansu.Wrap(theme{Accent: "teal", Dark: true}),
	}))

	data, err := c.Encode(original)
	RequireNoError(t, err, "Encode()")

	decoded, err := c.Decode(data)
	RequireNoError(t, err, "Decode()")

	got, err := tansu.Get[theme](decoded, "theme")
	RequireNoError(t, err, `Get[theme]("theme")`)
	Check(t, got == theme{Accent: "teal", Dark: true}, "theme = %+v", got)
}

// testUnknownTagRejected encodes with a registry that knows a custom type,
// then decodes with the default registry, which must reject the tag.
func (ft *FormatTester) testUnknownTagRejected(t *testing.T) {
	type secret struct {
		Token string `json:"token" yaml:"token" toml:"token"`
	}

	reg := codec.DefaultRegistry()
	codec.MustRegister[secret](reg, "secret")
	encoder := codec.New(ft.format, codec.WithRegistry(reg))

	original := tansu.New("sealed", tansu.WithSettings(map[string]tansu.Setting{
		"secret": tansu.Wrap(secret{Token: "x"}),
	}))
	data, err := encoder.Encode(original)
	RequireNoError(t, err, "Encode()")

	decoder := codec.New(ft.format)
	_, err = decoder.Decode(data)
	Require(t, err != nil, "Decode() accepted an unknown type tag")
	var tagErr *codec.UnknownTagError
	Check(t, errors.As(err, &tagErr), "Decode() error = %v, want *codec.UnknownTagError", err)
}
