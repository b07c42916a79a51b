package typescript

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeIdentifier(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Cat", "Cat"},
		{"my-model", "my_model"},
		{"has space", "has_space"},
		{"9lives", "_9lives"},
		{"$ref", "$ref"},
		{"", "_"},
		{"Café", "Café"},
		{"Cafe\u0301", "Café"},
		{"a.b", "a_b"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := SanitizeIdentifier(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, SanitizeIdentifier(got), "idempotent")
		})
	}
}

func TestIsIdentifier(t *testing.T) {
	assert.True(t, IsIdentifier("name"))
	assert.True(t, IsIdentifier("default"))
	assert.True(t, IsIdentifier("_private"))
	assert.False(t, IsIdentifier(""))
	assert.False(t, IsIdentifier("content-type"))
	assert.False(t, IsIdentifier("2fa"))
}

func TestTypeName(t *testing.T) {
	assert.Equal(t, "Shelter", TypeName("Shelter"))
	assert.Equal(t, "string_", TypeName("string"))
	assert.Equal(t, "class_", TypeName("class"))
	assert.Equal(t, "unknown_", TypeName("unknown"))
	assert.Equal(t, "String", TypeName("String"))
	assert.Equal(t, "my_type", TypeName("my-type"))
}
