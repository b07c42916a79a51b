package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToSnakeCase(t *testing.T) {
	tests := map[string]string{
		"":                "",
		"simple":          "simple",
		"camelCase":       "camel_case",
		"PascalCase":      "pascal_case",
		"HTTPSConnection": "https_connection",
		"already_snake":   "already_snake",
		"kebab-case":      "kebab_case",
		"dotted.name":     "dotted_name",
		"double--dash":    "double_dash",
		"trailing-":       "trailing",
		"one_a":           "one_a",
	}
	for in, want := range tests {
		assert.Equal(t, want, ToSnakeCase(in), in)
	}
}

func TestToConstantCase(t *testing.T) {
	assert.Equal(t, "ONE_A", ToConstantCase("one_a"))
	assert.Equal(t, "ONE_A", ToConstantCase("oneA"))
	assert.Equal(t, "TWO_B", ToConstantCase("two-b"))
	assert.Equal(t, "SIAMESE", ToConstantCase("siamese"))
}
