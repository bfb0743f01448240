// Package main implements the tansu command line tool, the host for the
// code generation subcommands.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/tansu-go/tansu/internal/cmd/generate"
)

const version = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		printUsage(os.Stderr)
		os.Exit(1)
	}

	switch cmd, args := os.Args[1], os.Args[2:]; cmd {
	case "generate":
		if err := generate.Run(args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	case "version", "-v", "--version":
		fmt.Printf("tansu version %s\n", version)
	case "help", "-h", "--help":
		if len(args) > 0 && args[0] == "generate" {
			generate.PrintHelp()
			return
		}
		printUsage(os.Stdout)
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", cmd)
		printUsage(os.Stderr)
		os.Exit(1)
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `tansu - layered settings tooling

Usage:
  go tool tansu <command> [arguments]

Commands:
  generate    Code generation (see "tansu help generate")
  version     Print the tool version
  help        Show this help`)
}
