package typescript

import (
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// reservedWords cannot name a type or appear unquoted where an identifier
// binding is required.
var reservedWords = map[string]bool{
	"break": true, "case": true, "catch": true, "class": true, "const": true,
	"continue": true, "debugger": true, "default": true, "delete": true, "do": true,
	"else": true, "enum": true, "export": true, "extends": true, "false": true,
	"finally": true, "for": true, "function": true, "if": true, "import": true,
	"in": true, "instanceof": true, "new": true, "null": true, "return": true,
	"super": true, "switch": true, "this": true, "throw": true, "true": true,
	"try": true, "typeof": true, "var": true, "void": true, "while": true,
	"with": true, "implements": true, "interface": true, "let": true,
	"package": true, "private": true, "protected": true, "public": true,
	"static": true, "yield": true,
}

// predefinedTypes are builtin type names an interface or enum may not take
var predefinedTypes = map[string]bool{
	"any": true, "unknown": true, "never": true, "number": true, "bigint": true,
	"boolean": true, "string": true, "symbol": true, "object": true,
	"undefined": true,
}

// SanitizeIdentifier maps s to a legal identifier: NFC-normalized, invalid
// runes replaced by '_', a leading digit prefixed with '_'. Idempotent.
func SanitizeIdentifier(s string) string {
	s = norm.NFC.String(s)
	if s == "" {
		return "_"
	}

	out := make([]rune, 0, len(s)+1)
	for i, r := range []rune(s) {
		switch {
		case r == '_' || r == '$' || unicode.IsLetter(r):
			out = append(out, r)
		case unicode.IsDigit(r):
			if i == 0 {
				out = append(out, '_')
			}
			out = append(out, r)
		default:
			out = append(out, '_')
		}
	}
	return string(out)
}

// IsIdentifier reports whether s can be written unquoted as a property name.
func IsIdentifier(s string) bool {
	return s != "" && SanitizeIdentifier(s) == s
}

// TypeName maps a short name to a legal interface/enum name.
func TypeName(short string) string {
	name := SanitizeIdentifier(short)
	if reservedWords[name] || predefinedTypes[name] {
		name += "_"
	}
	return name
}
