// Package ttest provides testing utilities for tansu-based code: tree
// builders for assembling Account fixtures and a compliance suite that
// exercises any codec.Format implementation.
//
// Example usage with a format:
//
//	func TestFormat_Compliance(t *testing.T) {
//	    ttest.NewFormatTester(t, yaml.New()).TestAll()
//	}
package ttest

import (
	"github.com/tansu-go/tansu"
)

// testT is the minimal testing interface used by ttest utilities.
type testT interface {
	Helper()
	Fatalf(format string, args ...any)
	Errorf(format string, args ...any)
}

// Require fails the test immediately if the condition is false.
func Require(t testT, cond bool, format string, args ...any) {
	t.Helper()
	if !cond {
		t.Fatalf(format, args...)
	}
}

// RequireNoError fails the test immediately if err is not nil.
func RequireNoError(t testT, err error, format string, args ...any) {
	t.Helper()
	if err != nil {
		t.Fatalf(format+": %v", append(args, err)...)
	}
}

// Check reports an error if the condition is false, but continues the test.
func Check(t testT, cond bool, format string, args ...any) {
	t.Helper()
	if !cond {
		t.Errorf(format, args...)
	}
}

// Node describes an Account fixture declaratively.
type Node struct {
	Name     string
	Inactive bool
	Settings map[string]tansu.Setting
	Children []Child
}

// Child pairs a child fixture with its validity marker.
type Child struct {
	Node     Node
	Validity tansu.Validity
}

// Build assembles the fixture into a live Account tree. Children are pushed
// in declaration order, so the last declared child has the highest
// priority, as with successive PushChild calls.
func Build(n Node) *tansu.Account {
	acc := tansu.New(n.Name,
		tansu.WithActive(!n.Inactive),
		tansu.WithSettings(n.Settings),
	)
	for _, c := range n.Children {
		acc.PushChildMarked(Build(c.Node), c.Validity)
	}
	return acc
}
