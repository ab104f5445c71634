/* SPDX-License-Identifier: MPL-2.0
 * Copyright 2025 Tejus Pratap <tejzpr@gmail.com>
 *
 * See CONTRIBUTORS.md for full contributor list.
 */

// Package gen generates Go model structs from the component schemas of an
// OpenAPI document. Generated structs use apimodel conventions: camelCase
// json tags, pointer scalars with omitempty and an Extra field.
package gen

import (
	"bytes"
	"context"
	"fmt"
	"go/format"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/iancoleman/strcase"
)

// Options controls code generation.
type Options struct {
	Package string
	// Schemas limits generation to these component names. Empty means all.
	Schemas []string
}

// Load reads and validates an OpenAPI 3 document from a file.
func Load(ctx context.Context, path string) (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	loader.Context = ctx
	loader.IsExternalRefsAllowed = true
	doc, err := loader.LoadFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("validating %s: %w", path, err)
	}
	return doc, nil
}

// Generate renders the component schemas of doc as formatted Go source.
func Generate(doc *openapi3.T, opts Options) ([]byte, error) {
	if opts.Package == "" {
		return nil, fmt.Errorf("package name is required")
	}
	if doc.Components == nil || len(doc.Components.Schemas) == 0 {
		return nil, fmt.Errorf("document has no component schemas")
	}

	names := make([]string, 0, len(doc.Components.Schemas))
	if len(opts.Schemas) > 0 {
		for _, name := range opts.Schemas {
			if _, ok := doc.Components.Schemas[name]; !ok {
				return nil, fmt.Errorf("schema %q not found", name)
			}
			names = append(names, name)
		}
	} else {
		for name := range doc.Components.Schemas {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	g := &generator{}
	for _, name := range names {
		ref := doc.Components.Schemas[name]
		if ref == nil || ref.Value == nil {
			continue
		}
		g.emitType(name, ref.Value)
	}

	var out bytes.Buffer
	out.WriteString("// Code generated by wxc gen models. DO NOT EDIT.\n\n")
	fmt.Fprintf(&out, "package %s\n\n", opts.Package)
	var imports []string
	if g.usesTime {
		imports = append(imports, `"time"`)
	}
	if g.usesExtra {
		imports = append(imports, `"github.com/jeokrohn/wxc-sdk-sub004/apimodel"`)
	}
	if len(imports) > 0 {
		out.WriteString("import (\n")
		for _, imp := range imports {
			out.WriteString("\t" + imp + "\n")
		}
		out.WriteString(")\n\n")
	}
	out.Write(g.body.Bytes())

	src, err := format.Source(out.Bytes())
	if err != nil {
		return nil, fmt.Errorf("formatting generated code: %w", err)
	}
	return src, nil
}

// WriteFile generates the models and writes them to dir/models_gen.go.
func WriteFile(doc *openapi3.T, dir string, opts Options) (string, error) {
	src, err := Generate(doc, opts)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, "models_gen.go")
	if err := os.WriteFile(path, src, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

type generator struct {
	body      bytes.Buffer
	usesTime  bool
	usesExtra bool
}

func (g *generator) emitType(name string, s *openapi3.Schema) {
	typeName := GoName(name)
	writeDoc(&g.body, typeName, s.Description)

	if len(s.Enum) > 0 && s.Type == "string" {
		fmt.Fprintf(&g.body, "type %s string\n\n", typeName)
		g.body.WriteString("const (\n")
		for _, v := range s.Enum {
			str, ok := v.(string)
			if !ok {
				continue
			}
			fmt.Fprintf(&g.body, "\t%s%s %s = %q\n", typeName, GoName(str), typeName, str)
		}
		g.body.WriteString(")\n\n")
		return
	}

	if s.Type != "" && s.Type != "object" {
		fmt.Fprintf(&g.body, "type %s %s\n\n", typeName, g.goType(openapi3.NewSchemaRef("", s), false))
		return
	}

	fmt.Fprintf(&g.body, "type %s struct {\n", typeName)
	props := make([]string, 0, len(s.Properties))
	for prop := range s.Properties {
		props = append(props, prop)
	}
	sort.Strings(props)
	for _, prop := range props {
		ref := s.Properties[prop]
		if ref.Value != nil && ref.Value.Description != "" {
			for _, line := range strings.Split(strings.TrimSpace(ref.Value.Description), "\n") {
				fmt.Fprintf(&g.body, "\t// %s\n", strings.TrimSpace(line))
			}
		}
		// ids stay plain strings
		fmt.Fprintf(&g.body, "\t%s %s `json:\"%s,omitempty\"`\n", GoName(prop), g.goType(ref, prop != "id"), prop)
	}
	if len(props) > 0 {
		g.body.WriteString("\n")
	}
	g.body.WriteString("\tExtra apimodel.Extra `json:\"-\"`\n")
	g.usesExtra = true
	g.body.WriteString("}\n\n")
}

// goType maps a schema to a Go type. Optional scalars become pointers.
func (g *generator) goType(ref *openapi3.SchemaRef, optional bool) string {
	if ref == nil {
		return "any"
	}
	if ref.Ref != "" {
		name := GoName(ref.Ref[strings.LastIndex(ref.Ref, "/")+1:])
		if optional && ref.Value != nil && (ref.Value.Type == "object" || ref.Value.Type == "") {
			return "*" + name
		}
		return name
	}
	s := ref.Value
	if s == nil {
		return "any"
	}
	ptr := func(t string) string {
		if optional {
			return "*" + t
		}
		return t
	}
	switch s.Type {
	case "string":
		if s.Format == "date-time" {
			g.usesTime = true
			return ptr("time.Time")
		}
		return ptr("string")
	case "integer":
		if s.Format == "int64" {
			return ptr("int64")
		}
		return ptr("int")
	case "number":
		return ptr("float64")
	case "boolean":
		return ptr("bool")
	case "array":
		return "[]" + g.goType(s.Items, false)
	default:
		if s.AdditionalProperties.Schema != nil {
			return "map[string]" + g.goType(s.AdditionalProperties.Schema, false)
		}
		return "map[string]any"
	}
}

// initialisms are rendered upper case in Go names.
var initialisms = map[string]string{
	"Id": "ID", "Url": "URL", "Uri": "URI", "Sip": "SIP", "Api": "API",
	"Mwi": "MWI", "Pstn": "PSTN", "Esn": "ESN", "Http": "HTTP", "Json": "JSON",
}

// GoName converts a schema or property name to an exported Go identifier.
func GoName(name string) string {
	camel := strcase.ToCamel(name)
	if camel == "" {
		return "X"
	}
	// split on upper-case boundaries and fix initialisms word by word
	var out strings.Builder
	start := 0
	for i := 1; i <= len(camel); i++ {
		if i == len(camel) || (camel[i] >= 'A' && camel[i] <= 'Z') {
			word := camel[start:i]
			if fixed, ok := initialisms[word]; ok {
				word = fixed
			}
			out.WriteString(word)
			start = i
		}
	}
	result := out.String()
	if result[0] >= '0' && result[0] <= '9' {
		result = "X" + result
	}
	return result
}

func writeDoc(buf *bytes.Buffer, name, description string) {
	description = strings.TrimSpace(description)
	if description == "" {
		return
	}
	lines := strings.Split(description, "\n")
	fmt.Fprintf(buf, "// %s %s\n", name, lowerFirst(strings.TrimSpace(lines[0])))
	for _, line := range lines[1:] {
		fmt.Fprintf(buf, "// %s\n", strings.TrimSpace(line))
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
