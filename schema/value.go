package schema

import (
	"strconv"
)

// ValueKind distinguishes literal values
type ValueKind int

const (
	ValueString ValueKind = iota
	ValueNumber
	ValueBool
)

// Value is a literal as written in the descriptor. JSON and YAML numbers in
// decimal notation keep their source text, so "1.50" is emitted as 1.50.
// TOML floats and other YAML number forms (0x1F, +1.5, 1_000) are decoded
// and written in shortest round-trip form.
type Value struct {
	Kind ValueKind
	Text string
}

// StringValue returns a string literal
func StringValue(s string) Value { return Value{Kind: ValueString, Text: s} }

// NumberValue returns a number literal from its source text
func NumberValue(text string) Value { return Value{Kind: ValueNumber, Text: text} }

// IntValue returns an integer literal
func IntValue(n int64) Value { return NumberValue(strconv.FormatInt(n, 10)) }

// FloatValue returns a number literal in shortest round-trip form
func FloatValue(f float64) Value { return NumberValue(strconv.FormatFloat(f, 'f', -1, 64)) }

// BoolValue returns a boolean literal
func BoolValue(b bool) Value { return Value{Kind: ValueBool, Text: strconv.FormatBool(b)} }
