package keys

import (
	"fmt"
	"go/types"
	"reflect"
	"regexp"
	"strings"
	"unicode"
)

// KeyInfo describes one generated key with its accessor.
type KeyInfo struct {
	// Key is the settings key as it appears in an Account, e.g. "word_repetition".
	Key string
	// ConstName is the generated constant name, e.g. "KeyWordRepetition".
	ConstName string
	// FuncName is the generated accessor name, e.g. "GetWordRepetition".
	FuncName string
	// GoType is the rendered Go type of the accessor result, e.g. "time.Duration".
	GoType string
	// FieldName is the original struct field name.
	FieldName string
}

// AnalysisResult holds all discovered keys plus the imports their types need.
type AnalysisResult struct {
	Keys    []KeyInfo
	Imports []string
}

// analyzeStruct flattens a struct type into key descriptors. Every exported
// field becomes one key; the key string comes from the struct tag when
// present, otherwise from the field name. Field types are leaves: nested
// structs are setting values in their own right, not sub-trees.
//
// selfPkg is the import path of the analyzed package; its own named types
// render unqualified because the generated file lives alongside them.
func analyzeStruct(structType *types.Struct, selfPkg, tagName string) (*AnalysisResult, error) {
	result := &AnalysisResult{}
	imports := map[string]bool{}

	qualifier := func(pkg *types.Package) string {
		if pkg.Path() == selfPkg {
			return ""
		}
		imports[pkg.Path()] = true
		return pkg.Name()
	}

	for i := 0; i < structType.NumFields(); i++ {
		field := structType.Field(i)
		if !field.Exported() {
			continue
		}

		key := getFieldKey(field.Name(), structType.Tag(i), tagName)
		if key == "-" {
			continue
		}

		camel := toCamelCase(key)
		result.Keys = append(result.Keys, KeyInfo{
			Key:       key,
			ConstName: "Key" + camel,
			FuncName:  "Get" + camel,
			GoType:    types.TypeString(field.Type(), qualifier),
			FieldName: field.Name(),
		})
	}

	if len(result.Keys) == 0 {
		return nil, fmt.Errorf("no usable fields found")
	}

	for path := range imports {
		result.Imports = append(result.Imports, path)
	}

	return result, nil
}

// getFieldKey returns the settings key from the tag or the field name.
func getFieldKey(fieldName, tag, tagName string) string {
	structTag := reflect.StructTag(tag)
	tagValue := structTag.Get(tagName)
	if tagValue == "" {
		return fieldName
	}

	// Same convention as encoding/json: the key is the part before the comma.
	if idx := strings.Index(tagValue, ","); idx >= 0 {
		tagValue = tagValue[:idx]
	}

	if tagValue == "" {
		return fieldName
	}

	return tagValue
}

// toCamelCase converts a key to CamelCase for identifier use.
var separatorRegex = regexp.MustCompile(`[_\-\.]+`)

func toCamelCase(s string) string {
	parts := separatorRegex.Split(s, -1)

	var result strings.Builder
	for _, part := range parts {
		if len(part) > 0 {
			runes := []rune(part)
			runes[0] = unicode.ToUpper(runes[0])
			result.WriteString(string(runes))
		}
	}

	return result.String()
}
