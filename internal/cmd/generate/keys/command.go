// Package keys provides the "generate keys" subcommand.
package keys

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Options holds the command-line options for the keys generator.
type Options struct {
	TypeName    string
	TagName     string
	Output      string
	PackageName string
	Prefix      string
}

// Run executes the keys generation command.
func Run(args []string) error {
	fs := flag.NewFlagSet("generate keys", flag.ExitOnError)

	var opts Options
	fs.StringVar(&opts.TypeName, "type", "", "target struct type name (required)")
	fs.StringVar(&opts.TagName, "tag", "tansu", "tag name for key resolution")
	fs.StringVar(&opts.Output, "output", "", "output file path (default: <source>_keys.go)")
	fs.StringVar(&opts.PackageName, "package", "", "output package name (default: same as input)")
	fs.StringVar(&opts.Prefix, "prefix", "", "prefix for generated identifiers")

	fs.Usage = func() {
		printHelp()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if opts.TypeName == "" {
		printHelp()
		return fmt.Errorf("-type flag is required")
	}

	remaining := fs.Args()
	if len(remaining) != 1 {
		printHelp()
		return fmt.Errorf("exactly one source file is required")
	}

	sourceFile := remaining[0]

	return runGenerate(sourceFile, opts)
}

func runGenerate(sourceFile string, opts Options) error {
	pkg, structType, err := parseSourceFile(sourceFile, opts.TypeName)
	if err != nil {
		return fmt.Errorf("failed to parse source file: %w", err)
	}

	pkgName := opts.PackageName
	if pkgName == "" {
		pkgName = pkg.Name
	}

	outputFile := opts.Output
	if outputFile == "" {
		outputFile = defaultOutputFile(sourceFile)
	}

	analysis, err := analyzeStruct(structType, pkg.Path, opts.TagName)
	if err != nil {
		return fmt.Errorf("failed to analyze struct: %w", err)
	}

	code, err := generateCode(analysis, GeneratorConfig{
		PackageName: pkgName,
		TypeName:    opts.TypeName,
		Prefix:      opts.Prefix,
		TagName:     opts.TagName,
	})
	if err != nil {
		return fmt.Errorf("failed to generate code: %w", err)
	}

	if err := os.WriteFile(outputFile, code, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	fmt.Fprintf(os.Stderr, "generated %s\n", outputFile)

	return nil
}

// defaultOutputFile returns the default output file name based on the source file.
// e.g., "settings.go" -> "settings_keys.go"
func defaultOutputFile(sourceFile string) string {
	dir := filepath.Dir(sourceFile)
	base := filepath.Base(sourceFile)
	ext := filepath.Ext(base)
	name := strings.TrimSuffix(base, ext)
	return filepath.Join(dir, name+"_keys"+ext)
}

func printHelp() {
	fmt.Fprintln(os.Stderr, `tansu generate keys - Generate key constants and typed accessor functions

Usage:
  go tool tansu generate keys [options] <source-file>

Options:
  -type string      Target struct type name (required)
  -tag string       Tag name for key resolution (default "tansu")
  -output string    Output file path (default: <source>_keys.go)
  -package string   Output package name (default: same as input)
  -prefix string    Prefix for generated identifiers

Examples:
  go tool tansu generate keys -type AppSettings settings.go
  go tool tansu generate keys -type AppSettings -tag json settings.go

For use with go:generate:
  //go:generate go tool tansu generate keys -type AppSettings settings.go`)
}
