// Package util holds naming helpers shared by renderers.
package util

import (
	"strings"
	"unicode"
)

// ToSnakeCase converts PascalCase or camelCase to snake_case.
// Handles acronyms properly (e.g., "HTTPSConnection" -> "https_connection").
// Runs of separators ('-', ' ', '.') collapse into a single underscore.
func ToSnakeCase(s string) string {
	var result strings.Builder
	runes := []rune(s)

	for i := 0; i < len(runes); i++ {
		r := runes[i]

		if r == '-' || r == ' ' || r == '.' || r == '_' {
			if result.Len() > 0 && !strings.HasSuffix(result.String(), "_") {
				result.WriteRune('_')
			}
			continue
		}

		if i > 0 && unicode.IsUpper(r) {
			// Don't split inside an acronym unless the next rune starts a word
			prevUpper := unicode.IsUpper(runes[i-1])
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			prevSep := strings.HasSuffix(result.String(), "_")

			if (!prevUpper || nextLower) && !prevSep && result.Len() > 0 {
				result.WriteRune('_')
			}
		}

		result.WriteRune(r)
	}

	return strings.ToLower(strings.TrimSuffix(result.String(), "_"))
}

// ToConstantCase converts any casing to SCREAMING_SNAKE_CASE
// ("oneA" -> "ONE_A", "two-b" -> "TWO_B").
func ToConstantCase(s string) string {
	return strings.ToUpper(ToSnakeCase(s))
}
