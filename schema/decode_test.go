package schema

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/schemats/errors"
)

const shelterJSON = `{
  "module": "pets",
  "models": [
    {"name": "Cat", "fields": [
      {"name": "name", "type": "string"},
      {"name": "breed", "type": "CatEnum"}
    ]},
    {"name": "Shelter", "description": "Where animals wait", "allow_extra": true, "fields": [
      {"name": "cats", "type": "Cat[]"},
      {"name": "owner", "type": {"kind": "optional", "type": {"kind": "ref", "name": "Person", "module": "people"}}, "required": false},
      {"name": "tags", "type": {"kind": "map", "values": "integer"}},
      {"name": "id", "type": {"kind": "union", "members": ["string", {"kind": "number"}]}}
    ]}
  ],
  "enums": [
    {"name": "CatEnum", "members": [
      {"name": "TABBY", "value": "tabby"},
      {"name": "PRICE", "value": 1.50},
      "siamese"
    ]}
  ]
}`

func TestDecode_JSON(t *testing.T) {
	roots, err := Decode([]byte(shelterJSON), FormatJSON)
	require.NoError(t, err)
	require.Len(t, roots, 1)

	root := roots[0]
	assert.Equal(t, "pets", root.Module)
	require.Len(t, root.Models, 2)
	require.Len(t, root.Enums, 1)

	cat := root.Models[0]
	assert.Equal(t, "Cat", cat.Name)
	assert.Equal(t, Field{Name: "name", Type: String(), Required: true}, cat.Fields[0])
	assert.Equal(t, RefTo("CatEnum"), cat.Fields[1].Type)

	shelter := root.Models[1]
	assert.True(t, shelter.AllowExtra)
	assert.Equal(t, "Where animals wait", shelter.Description)
	assert.Equal(t, ArrayOf(RefTo("Cat")), shelter.Fields[0].Type)
	assert.Equal(t, OptionalOf(RefIn("people", "Person")), shelter.Fields[1].Type)
	assert.False(t, shelter.Fields[1].Required)
	assert.Equal(t, MapOf(Integer()), shelter.Fields[2].Type)
	assert.Equal(t, UnionOf(String(), Number()), shelter.Fields[3].Type)

	members := root.Enums[0].Members
	require.Len(t, members, 3)
	assert.Equal(t, Member{Name: "TABBY", Value: StringValue("tabby")}, members[0])
	assert.Equal(t, NumberValue("1.50"), members[1].Value, "JSON numbers keep their source text")
	assert.Equal(t, Member{Value: StringValue("siamese")}, members[2])
}

func TestDecode_YAMLRootsList(t *testing.T) {
	doc := `
roots:
  - module: m1
    models:
      - name: Foo
        fields:
          - name: count
            type: integer
  - module: m2
    models:
      - name: Foo
        fields:
          - name: other
            type: {kind: ref, module: m1, name: Foo}
            required: false
    enums:
      - name: Level
        members:
          - {name: LOW, value: 1}
          - {name: HIGH, value: 10}
`
	roots, err := Decode([]byte(doc), FormatYAML)
	require.NoError(t, err)
	require.Len(t, roots, 2)

	assert.Equal(t, "m1", roots[0].Module)
	assert.Equal(t, "m2", roots[1].Module)
	assert.Equal(t, RefIn("m1", "Foo"), roots[1].Models[0].Fields[0].Type)
	assert.False(t, roots[1].Models[0].Fields[0].Required)
	assert.Equal(t, IntValue(10), roots[1].Enums[0].Members[1].Value)
}

func TestDecode_NumberText(t *testing.T) {
	yamlDoc := `
module: m
enums:
  - name: Price
    members:
      - {name: A, value: 1.50}
      - {name: B, value: 0x1F}
      - {name: C, value: +1.5}
      - {name: D, value: "1.50"}
      - {name: E, value: -2.50e3}
      - {name: F, value: 7}
`
	roots, err := Decode([]byte(yamlDoc), FormatYAML)
	require.NoError(t, err)
	members := roots[0].Enums[0].Members
	require.Len(t, members, 6)
	assert.Equal(t, NumberValue("1.50"), members[0].Value)
	assert.Equal(t, IntValue(31), members[1].Value)
	assert.Equal(t, FloatValue(1.5), members[2].Value)
	assert.Equal(t, StringValue("1.50"), members[3].Value)
	assert.Equal(t, NumberValue("-2.50e3"), members[4].Value)
	assert.Equal(t, IntValue(7), members[5].Value)

	// TOML floats are decoded before the walker sees them
	tomlDoc := `
module = "m"

[[enums]]
name = "Price"
members = [ { name = "A", value = 1.50 }, { name = "B", value = 3 } ]
`
	roots, err = Decode([]byte(tomlDoc), FormatTOML)
	require.NoError(t, err)
	members = roots[0].Enums[0].Members
	assert.Equal(t, FloatValue(1.5), members[0].Value)
	assert.Equal(t, IntValue(3), members[1].Value)
}

func TestIsDecimalLiteral(t *testing.T) {
	for _, ok := range []string{"0", "-0", "1.50", "10", "2e3", "-2.50E+3", "0.5"} {
		assert.True(t, isDecimalLiteral(ok), ok)
	}
	for _, bad := range []string{"", "-", "01", "1.", ".5", "+1", "0x1F", "1_000", "1e", ".inf", "NaN"} {
		assert.False(t, isDecimalLiteral(bad), bad)
	}
}

func TestDecode_TOML(t *testing.T) {
	doc := `
module = "pets"

[[models]]
name = "Dog"

[[models.fields]]
name = "name"
type = "string"

[[models.fields]]
name = "nicknames"
type = { kind = "array", items = { kind = "optional", type = "string" } }

[[enums]]
name = "Size"
members = [ { name = "S", value = "small" }, { name = "L", value = "large" } ]
`
	roots, err := Decode([]byte(doc), FormatTOML)
	require.NoError(t, err)
	require.Len(t, roots, 1)

	dog := roots[0].Models[0]
	assert.Equal(t, "Dog", dog.Name)
	assert.Equal(t, ArrayOf(OptionalOf(String())), dog.Fields[1].Type)
	assert.Equal(t, "small", roots[0].Enums[0].Members[0].Value.Text)
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantMsg string
	}{
		{
			name:    "missing module",
			doc:     `{"models": []}`,
			wantMsg: `roots[0]: missing "module"`,
		},
		{
			name:    "unknown kind",
			doc:     `{"module": "m", "models": [{"name": "A", "fields": [{"name": "x", "type": {"kind": "tuple"}}]}]}`,
			wantMsg: `roots[0].models[0].fields[0].type: unknown kind "tuple"`,
		},
		{
			name:    "unknown key",
			doc:     `{"module": "m", "modles": []}`,
			wantMsg: "unknown keys modles",
		},
		{
			name:    "field without type",
			doc:     `{"module": "m", "models": [{"name": "A", "fields": [{"name": "x"}]}]}`,
			wantMsg: `missing "type"`,
		},
		{
			name:    "object member value",
			doc:     `{"module": "m", "enums": [{"name": "E", "members": [{"name": "A", "value": {}}]}]}`,
			wantMsg: "expected a string, number or boolean literal",
		},
		{
			name:    "malformed json",
			doc:     `{"module": `,
			wantMsg: "invalid JSON",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.doc), FormatJSON)
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrInvalidDescriptor))
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestFormatFromPath(t *testing.T) {
	for path, want := range map[string]Format{
		"a.json":      FormatJSON,
		"dir/b.YAML":  FormatYAML,
		"c.yml":       FormatYAML,
		"models.toml": FormatTOML,
	} {
		got, err := FormatFromPath(path)
		require.NoError(t, err, path)
		assert.Equal(t, want, got, path)
	}

	_, err := FormatFromPath("schema.py")
	assert.True(t, errors.Is(err, errors.ErrInvalidDescriptor))
}

func TestDecodeFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pets.json")
	require.NoError(t, os.WriteFile(path, []byte(shelterJSON), 0644))

	roots, err := DecodeFile(path)
	require.NoError(t, err)
	require.Len(t, roots, 1)
	assert.Equal(t, "pets", roots[0].Module)

	_, err = DecodeFile(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

func TestRefs(t *testing.T) {
	typ := UnionOf(RefTo("A"), ArrayOf(OptionalOf(RefIn("m", "B"))), MapOf(RefTo("C")), String())
	assert.Equal(t, []Ref{{Name: "A"}, {Module: "m", Name: "B"}, {Name: "C"}}, Refs(typ))
	assert.Empty(t, Refs(nil))
}
