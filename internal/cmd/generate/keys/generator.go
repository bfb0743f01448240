package keys

import (
	"fmt"
	"go/format"
	"sort"
	"strings"
)

const modulePath = "github.com/tansu-go/tansu"

// GeneratorConfig carries everything the code emitter needs.
type GeneratorConfig struct {
	PackageName string
	TypeName    string
	Prefix      string
	TagName     string
}

// generateCode renders the key constants and typed accessors for an
// analysis result and returns gofmt-formatted source.
func generateCode(analysis *AnalysisResult, cfg GeneratorConfig) ([]byte, error) {
	var b strings.Builder

	fmt.Fprintf(&b, "// Code generated by tansu generate keys; DO NOT EDIT.\n")
	fmt.Fprintf(&b, "// Source type: %s\n\n", cfg.TypeName)
	fmt.Fprintf(&b, "package %s\n\n", cfg.PackageName)

	writeImports(&b, analysis.Imports)

	fmt.Fprintf(&b, "// Settings keys derived from %s.\n", cfg.TypeName)
	b.WriteString("const (\n")
	for _, k := range analysis.Keys {
		fmt.Fprintf(&b, "\t%s = %q\n", prefixed(k.ConstName, cfg.Prefix), k.Key)
	}
	b.WriteString(")\n\n")

	for _, k := range analysis.Keys {
		funcName := prefixed(k.FuncName, cfg.Prefix)
		constName := prefixed(k.ConstName, cfg.Prefix)
		fmt.Fprintf(&b, "// %s resolves the %q setting from acc and its child accounts.\n", funcName, k.Key)
		fmt.Fprintf(&b, "func %s(acc *tansu.Account) (%s, error) {\n", funcName, k.GoType)
		fmt.Fprintf(&b, "\treturn tansu.Get[%s](acc, %s)\n", k.GoType, constName)
		b.WriteString("}\n\n")
	}

	formatted, err := format.Source([]byte(b.String()))
	if err != nil {
		return nil, fmt.Errorf("failed to format generated code: %w", err)
	}

	return formatted, nil
}

// prefixed inserts the identifier prefix after the Key/Get verb, so
// prefix "App" turns KeyLines into KeyAppLines.
func prefixed(name, prefix string) string {
	if prefix == "" {
		return name
	}
	for _, verb := range []string{"Key", "Get"} {
		if strings.HasPrefix(name, verb) {
			return verb + prefix + strings.TrimPrefix(name, verb)
		}
	}
	return prefix + name
}

// writeImports emits the import block: stdlib paths first, then the
// remaining third-party paths, then this module.
func writeImports(b *strings.Builder, extra []string) {
	var std, other []string
	for _, path := range extra {
		if isStdlibPath(path) {
			std = append(std, path)
		} else if path != modulePath {
			other = append(other, path)
		}
	}
	sort.Strings(std)
	sort.Strings(other)

	b.WriteString("import (\n")
	for _, path := range std {
		fmt.Fprintf(b, "\t%q\n", path)
	}
	if len(std) > 0 {
		b.WriteString("\n")
	}
	for _, path := range other {
		fmt.Fprintf(b, "\t%q\n", path)
	}
	if len(other) > 0 {
		b.WriteString("\n")
	}
	fmt.Fprintf(b, "\t%q\n", modulePath)
	b.WriteString(")\n\n")
}

// isStdlibPath reports whether an import path looks like a standard
// library package. Stdlib paths have no dot in their first segment.
func isStdlibPath(path string) bool {
	first := path
	if idx := strings.Index(path, "/"); idx > 0 {
		first = path[:idx]
	}
	return !strings.Contains(first, ".")
}
