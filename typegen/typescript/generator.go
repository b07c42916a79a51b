// Package typescript renders schema graph nodes as TypeScript declarations.
package typescript

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	gojson "github.com/goccy/go-json"

	"github.com/teranos/schemats/schema"
	"github.com/teranos/schemats/typegen"
	"github.com/teranos/schemats/typegen/util"
)

// Generator implements typegen.Generator for TypeScript
type Generator struct {
	constEnums bool
}

// GeneratorOption configures a Generator
type GeneratorOption func(*Generator)

// WithConstEnums emits `export const enum` instead of `export enum`
func WithConstEnums(enabled bool) GeneratorOption {
	return func(g *Generator) { g.constEnums = enabled }
}

// NewGenerator creates a new TypeScript generator
func NewGenerator(opts ...GeneratorOption) *Generator {
	g := &Generator{}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate renders roots into a TypeScript module.
func Generate(roots []schema.Root, opts ...typegen.Option) (string, error) {
	return typegen.Generate(roots, NewGenerator(), opts...)
}

// Language returns "typescript"
func (g *Generator) Language() string {
	return "typescript"
}

// FileExtension returns "ts"
func (g *Generator) FileExtension() string {
	return "ts"
}

// TypeName returns a legal TypeScript declaration name for short
func (g *Generator) TypeName(short string) string {
	return TypeName(short)
}

// Header returns the do-not-edit banner
func (g *Generator) Header(source string) string {
	var sb strings.Builder
	sb.WriteString("/* eslint-disable */\n")
	sb.WriteString("// Code generated by schemats. DO NOT EDIT.\n")
	sb.WriteString("// Update the source models and regenerate instead of editing this file.\n")
	if source != "" {
		sb.WriteString(fmt.Sprintf("// Source: %s\n", source))
	}
	return sb.String()
}

// TypeMapping defines how primitive kinds map to TypeScript types
var TypeMapping = map[schema.Kind]string{
	schema.KindString:  "string",
	schema.KindNumber:  "number",
	schema.KindInteger: "number",
	schema.KindBoolean: "boolean",
	schema.KindNull:    "null",
	schema.KindAny:     "unknown",
}

// nullMarker is the member Optional adds to a union
const nullMarker = "null"

// RenderRecord renders an interface declaration. Fields keep declaration
// order; Required=false adds `?`, Optional types add `| null`.
func (g *Generator) RenderRecord(node *typegen.Node, names typegen.Names) (string, error) {
	model := node.Record
	if model == nil {
		return "", typegen.Unsupported(node.ID, "", "%s node has no record body", node.Kind)
	}

	var sb strings.Builder
	writeDoc(&sb, "", model.Description)

	name := names.Of(node.ID)
	if len(model.Fields) == 0 && !model.AllowExtra {
		sb.WriteString(fmt.Sprintf("export interface %s {}", name))
		return sb.String(), nil
	}

	sb.WriteString(fmt.Sprintf("export interface %s {\n", name))
	for _, field := range model.Fields {
		members, err := g.renderType(field.Type, node, field.Name, names)
		if err != nil {
			return "", err
		}

		optionalMark := ""
		if !field.Required {
			optionalMark = "?"
		}

		writeDoc(&sb, "  ", field.Description)
		sb.WriteString(fmt.Sprintf("  %s%s: %s;\n", propertyName(field.Name), optionalMark, joinUnion(members)))
	}
	if model.AllowExtra {
		sb.WriteString("  [k: string]: unknown;\n")
	}
	sb.WriteString("}")

	return sb.String(), nil
}

// RenderEnum renders a literal-valued enum. Member order is preserved as
// declared; values are written unchanged.
func (g *Generator) RenderEnum(node *typegen.Node, names typegen.Names) (string, error) {
	enum := node.Enum
	if enum == nil {
		return "", typegen.Unsupported(node.ID, "", "%s node has no enum body", node.Kind)
	}

	var sb strings.Builder
	writeDoc(&sb, "", enum.Description)

	keyword := "export enum"
	if g.constEnums {
		keyword = "export const enum"
	}

	name := names.Of(node.ID)
	if len(enum.Members) == 0 {
		sb.WriteString(fmt.Sprintf("%s %s {}", keyword, name))
		return sb.String(), nil
	}

	sb.WriteString(fmt.Sprintf("%s %s {\n", keyword, name))
	used := make(map[string]bool, len(enum.Members))
	for _, member := range enum.Members {
		memberName := uniqueMemberName(memberName(member), used)

		literal, err := renderEnumValue(member.Value)
		if err != nil {
			return "", typegen.Unsupported(node.ID, memberName, "%v", err)
		}
		sb.WriteString(fmt.Sprintf("  %s = %s,\n", memberName, literal))
	}
	sb.WriteString("}")

	return sb.String(), nil
}

// renderType returns the union members of t's rendering. A non-union type
// is a single member.
func (g *Generator) renderType(t schema.Type, node *typegen.Node, field string, names typegen.Names) ([]string, error) {
	switch v := t.(type) {
	case schema.Primitive:
		ts, ok := TypeMapping[v.Kind]
		if !ok {
			return nil, typegen.Unsupported(node.ID, field, "unknown primitive kind %q", v.Kind)
		}
		return []string{ts}, nil

	case schema.Ref:
		name := names.Of(node.Target(v))
		if name == "" {
			return nil, typegen.Unsupported(node.ID, field, "reference to %s has no emitted name", node.Target(v))
		}
		return []string{name}, nil

	case schema.Array:
		elem, err := g.renderType(v.Elem, node, field, names)
		if err != nil {
			return nil, err
		}
		if len(elem) > 1 {
			return []string{"(" + joinUnion(elem) + ")[]"}, nil
		}
		return []string{elem[0] + "[]"}, nil

	case schema.Optional:
		elem, err := g.renderType(v.Elem, node, field, names)
		if err != nil {
			return nil, err
		}
		return appendUnique(elem, nullMarker), nil

	case schema.Union:
		if len(v.Members) == 0 {
			return nil, typegen.Unsupported(node.ID, field, "union without members")
		}
		var members []string
		for _, m := range v.Members {
			rendered, err := g.renderType(m, node, field, names)
			if err != nil {
				return nil, err
			}
			members = appendUnique(members, rendered...)
		}
		return members, nil

	case schema.Map:
		value, err := g.renderType(v.Value, node, field, names)
		if err != nil {
			return nil, err
		}
		return []string{fmt.Sprintf("Record<string, %s>", joinUnion(value))}, nil

	case schema.Literal:
		literal, err := renderLiteral(v.Value)
		if err != nil {
			return nil, typegen.Unsupported(node.ID, field, "%v", err)
		}
		return []string{literal}, nil

	case nil:
		return nil, typegen.Unsupported(node.ID, field, "missing type")

	default:
		return nil, typegen.Unsupported(node.ID, field, "unknown type variant %T", t)
	}
}

func joinUnion(members []string) string {
	return strings.Join(members, " | ")
}

// appendUnique appends members not already present, keeping first positions
func appendUnique(dst []string, members ...string) []string {
	out := append([]string(nil), dst...)
	for _, m := range members {
		found := false
		for _, existing := range out {
			if existing == m {
				found = true
				break
			}
		}
		if !found {
			out = append(out, m)
		}
	}
	return out
}

func renderLiteral(v schema.Value) (string, error) {
	switch v.Kind {
	case schema.ValueString:
		return quote(v.Text), nil
	case schema.ValueNumber:
		if _, err := strconv.ParseFloat(v.Text, 64); err != nil {
			return "", fmt.Errorf("invalid number literal %q", v.Text)
		}
		return v.Text, nil
	case schema.ValueBool:
		if v.Text != "true" && v.Text != "false" {
			return "", fmt.Errorf("invalid boolean literal %q", v.Text)
		}
		return v.Text, nil
	default:
		return "", fmt.Errorf("unknown literal kind %d", v.Kind)
	}
}

// renderEnumValue allows only string and number initializers
func renderEnumValue(v schema.Value) (string, error) {
	if v.Kind == schema.ValueBool {
		return "", fmt.Errorf("enum members cannot be boolean (got %s)", v.Text)
	}
	return renderLiteral(v)
}

func memberName(m schema.Member) string {
	if m.Name != "" {
		return SanitizeIdentifier(m.Name)
	}
	derived := util.ToConstantCase(m.Value.Text)
	if derived == "" {
		derived = m.Value.Text
	}
	return SanitizeIdentifier(derived)
}

func uniqueMemberName(name string, used map[string]bool) string {
	candidate := name
	for i := 1; used[candidate]; i++ {
		candidate = name + strconv.Itoa(i)
	}
	used[candidate] = true
	return candidate
}

func propertyName(name string) string {
	if IsIdentifier(name) {
		return name
	}
	return quote(name)
}

// quote writes s as a JSON string literal, which is also a valid TypeScript one
func quote(s string) string {
	var buf bytes.Buffer
	enc := gojson.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return strconv.Quote(s)
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

// writeDoc writes text as a JSDoc block at the given indentation
func writeDoc(sb *strings.Builder, indent, text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	sb.WriteString(indent + "/**\n")
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, " \t\r")
		line = strings.ReplaceAll(line, "*/", "*\\/")
		if line == "" {
			sb.WriteString(indent + " *\n")
			continue
		}
		sb.WriteString(indent + " * " + line + "\n")
	}
	sb.WriteString(indent + " */\n")
}
