// Package generate provides code generation subcommands.
package generate

import (
	"fmt"
	"os"

	"github.com/tansu-go/tansu/internal/cmd/generate/keys"
)

// Run executes the generate subcommand.
func Run(args []string) error {
	if len(args) < 1 {
		PrintHelp()
		return fmt.Errorf("missing subcommand")
	}

	subcmd := args[0]
	subargs := args[1:]

	switch subcmd {
	case "keys":
		return keys.Run(subargs)
	case "help", "-h", "--help":
		PrintHelp()
		return nil
	default:
		PrintHelp()
		return fmt.Errorf("unknown subcommand: %s", subcmd)
	}
}

// PrintHelp prints help for the generate command.
func PrintHelp() {
	fmt.Fprintln(os.Stderr, `tansu generate - Code generation commands

Usage:
  go tool tansu generate <subcommand> [arguments]

Subcommands:
  keys        Generate key constants and typed accessors from struct types

Use "go tool tansu generate <subcommand> -h" for more information.`)
}
