// Package activity evaluates activation conditions for settings layers.
//
// A Condition is a compiled boolean expression (github.com/expr-lang/expr)
// over an environment map. Applications use conditions to decide which
// Accounts should participate in resolution, flipping the active flag that
// the core tree otherwise leaves entirely to the caller.
package activity

import (
	"fmt"

	exprlang "github.com/expr-lang/expr"
	exprvm "github.com/expr-lang/expr/vm"

	"github.com/tansu-go/tansu"
)

// Condition is a compiled activation expression.
type Condition struct {
	src     string
	program *exprvm.Program
}

// Compile compiles a boolean expression. Variables referenced by the
// expression are resolved from the environment passed to Evaluate;
// undefined variables evaluate to nil rather than failing compilation.
//
// Example:
//
//	cond, err := activity.Compile(`platform == "linux" && lines > 1`)
func Compile(src string) (*Condition, error) {
	if src == "" {
		return nil, fmt.Errorf("activity: expression must not be empty")
	}
	program, err := exprlang.Compile(src,
		exprlang.Env(map[string]any{}),
		exprlang.AllowUndefinedVariables(),
	)
	if err != nil {
		return nil, fmt.Errorf("activity: failed to compile %q: %w", src, err)
	}
	return &Condition{src: src, program: program}, nil
}

// Source returns the expression text the condition was compiled from.
func (c *Condition) Source() string {
	return c.src
}

// Evaluate runs the condition against env. A result of any type other than
// bool is an error: activation is a yes/no decision.
func (c *Condition) Evaluate(env map[string]any) (bool, error) {
	out, err := exprlang.Run(c.program, env)
	if err != nil {
		return false, fmt.Errorf("activity: failed to evaluate %q: %w", c.src, err)
	}
	b, ok := out.(bool)
	if !ok {
		return false, fmt.Errorf("activity: expression %q returned %T, want bool", c.src, out)
	}
	return b, nil
}

// Apply evaluates the condition and sets the account's activity flag to the
// result. The flag is left untouched when evaluation fails.
func Apply(acc *tansu.Account, c *Condition, env map[string]any) (bool, error) {
	active, err := c.Evaluate(env)
	if err != nil {
		return false, err
	}
	acc.SetActive(active)
	return active, nil
}

// Environment builds an evaluation environment from an account's effective
// settings: every key Get can resolve, mapped to its raw wrapped value.
func Environment(acc *tansu.Account) map[string]any {
	env := make(map[string]any)
	for _, key := range acc.EffectiveKeys() {
		if s, ok := acc.Get(key); ok {
			env[key] = s.Value()
		}
	}
	return env
}
