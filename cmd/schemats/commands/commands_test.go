package commands

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/schemats/config"
	"github.com/teranos/schemats/errors"
)

const petsJSON = `{
  "module": "pets",
  "models": [
    {"name": "Cat", "fields": [
      {"name": "name", "type": "string"},
      {"name": "breed", "type": "CatEnum"}
    ]},
    {"name": "Shelter", "fields": [
      {"name": "cats", "type": "Cat[]"},
      {"name": "owner", "type": {"kind": "optional", "type": {"kind": "ref", "module": "people", "name": "Person"}}, "required": false}
    ]}
  ],
  "enums": [
    {"name": "CatEnum", "members": [{"name": "TABBY", "value": "tabby"}]}
  ]
}`

const peopleYAML = `
module: people
models:
  - name: Person
    fields:
      - name: name
        type: string
  - name: Cat
    fields:
      - name: nickname
        type: string
`

func writeFixture(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), config.DefaultFilePermissions))
	return path
}

func fixtureTarget(t *testing.T) config.TargetConfig {
	t.Helper()
	dir := t.TempDir()
	return config.TargetConfig{
		Name:        "pets",
		Inputs:      []string{writeFixture(t, dir, "pets.json", petsJSON), writeFixture(t, dir, "people.yaml", peopleYAML)},
		Output:      filepath.Join(dir, "out", "types.ts"),
		SourceLabel: "fixtures",
	}
}

func TestBuildTarget(t *testing.T) {
	result, err := BuildTarget(fixtureTarget(t))
	require.NoError(t, err)

	// people.Cat collides with pets.Cat and is discovered last
	assert.Equal(t, []string{"Cat", "Shelter", "Person", "Cat1", "CatEnum"}, result.TypeNames())
	assert.Contains(t, result.Text, "// Source: fixtures\n")
	assert.Contains(t, result.Text, "  owner?: Person | null;\n")
	assert.Contains(t, result.Text, "export interface Cat1 {\n  nickname: string;\n}")
}

func TestBuildTarget_Options(t *testing.T) {
	target := fixtureTarget(t)
	target.Exclude = []string{"people.Cat"}
	target.Renames = []string{"pets.CatEnum=Breed"}
	target.ConstEnums = true

	result, err := BuildTarget(target)
	require.NoError(t, err)
	assert.Equal(t, []string{"Cat", "Shelter", "Person", "Breed"}, result.TypeNames())
	assert.Contains(t, result.Text, "export const enum Breed {")
}

func TestBuildTarget_Errors(t *testing.T) {
	dir := t.TempDir()

	// Without people.yaml the Person reference dangles
	target := config.TargetConfig{Inputs: []string{writeFixture(t, dir, "pets.json", petsJSON)}}
	_, err := BuildTarget(target)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrUnresolvedReference))
	assert.NotEmpty(t, errors.GetAllHints(err))

	target = config.TargetConfig{Inputs: []string{filepath.Join(dir, "missing.json")}}
	_, err = BuildTarget(target)
	assert.Error(t, err)

	target = config.TargetConfig{Inputs: []string{writeFixture(t, dir, "bad.json", `{"module": "m", "models": [{"name": "A", "fields": [{"name": "x", "type": {"kind": "tuple"}}]}]}`)}}
	_, err = BuildTarget(target)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidDescriptor))
}

func TestBuildAll(t *testing.T) {
	a, b := fixtureTarget(t), fixtureTarget(t)
	b.ConstEnums = true

	results, err := BuildAll(context.Background(), []config.TargetConfig{a, b})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Contains(t, results[0].Text, "export enum CatEnum")
	assert.Contains(t, results[1].Text, "export const enum CatEnum")

	broken := config.TargetConfig{Name: "broken", Inputs: []string{filepath.Join(t.TempDir(), "missing.json")}}
	results, err = BuildAll(context.Background(), []config.TargetConfig{a, broken})
	require.Error(t, err)
	assert.Nil(t, results)
	assert.Contains(t, err.Error(), "target broken")
}

func TestWriteOutputAndCompare(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "types.ts")

	diff, err := CompareOutput(path, "a\n")
	require.NoError(t, err)
	require.NotNil(t, diff)
	assert.True(t, diff.Missing)

	changed, err := WriteOutput(path, "line one\nline two\n")
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = WriteOutput(path, "line one\nline two\n")
	require.NoError(t, err)
	assert.False(t, changed)

	diff, err = CompareOutput(path, "line one\nline two\n")
	require.NoError(t, err)
	assert.Nil(t, diff)

	diff, err = CompareOutput(path, "line one\nline 2\n")
	require.NoError(t, err)
	require.NotNil(t, diff)
	assert.Equal(t, 2, diff.Line)
	assert.Equal(t, "line 2", diff.Want)
	assert.Equal(t, "line two", diff.Got)

	diff, err = CompareOutput(path, "line one\nline two\nline three\n")
	require.NoError(t, err)
	require.NotNil(t, diff)
	assert.Equal(t, 3, diff.Line)
	assert.Equal(t, "line three", diff.Want)
	assert.Equal(t, "", diff.Got)
}

func TestGenerateThenCheck(t *testing.T) {
	target := fixtureTarget(t)

	results, err := BuildAll(context.Background(), []config.TargetConfig{target})
	require.NoError(t, err)
	_, err = WriteOutput(target.Output, results[0].Text)
	require.NoError(t, err)

	again, err := BuildTarget(target)
	require.NoError(t, err)
	diff, err := CompareOutput(target.Output, again.Text)
	require.NoError(t, err)
	assert.Nil(t, diff, "regenerating identical input must not change the file")
}

func TestAffectedTargets(t *testing.T) {
	dir := t.TempDir()
	shared := filepath.Join(dir, "shared.json")
	onlyA := filepath.Join(dir, "a.json")
	a := config.TargetConfig{Name: "a", Inputs: []string{shared, onlyA}}
	b := config.TargetConfig{Name: "b", Inputs: []string{shared}}
	targets := []config.TargetConfig{a, b}

	assert.Equal(t, []string{shared, onlyA}, WatchedPaths(targets))

	names := func(ts []config.TargetConfig) []string {
		var out []string
		for _, t := range ts {
			out = append(out, t.Name)
		}
		return out
	}
	assert.Equal(t, []string{"a", "b"}, names(AffectedTargets(targets, []string{shared})))
	assert.Equal(t, []string{"a"}, names(AffectedTargets(targets, []string{onlyA})))
	assert.Empty(t, AffectedTargets(targets, []string{filepath.Join(dir, "other.json")}))
}

func TestCheckStdoutTargets(t *testing.T) {
	assert.NoError(t, checkStdoutTargets([]config.TargetConfig{{Name: "one"}}))
	assert.NoError(t, checkStdoutTargets([]config.TargetConfig{{Output: "a.ts"}, {Output: "b.ts"}}))
	assert.Error(t, checkStdoutTargets([]config.TargetConfig{{Output: "a.ts"}, {Name: "b"}}))
}

func TestLoadTargets_FromFlags(t *testing.T) {
	defer func() { inputs, output, renames = nil, "", nil }()

	inputs = []string{"models.json"}
	output = "types.ts"
	renames = []string{"pets.Cat=Kitty"}

	targets, cfg, err := loadTargets()
	require.NoError(t, err)
	assert.Nil(t, cfg)
	require.Len(t, targets, 1)
	assert.Equal(t, "types.ts", targets[0].Output)

	renames = []string{"Kitty"}
	_, _, err = loadTargets()
	assert.Error(t, err)
}

func TestLoadTargets_FromConfig(t *testing.T) {
	defer func() { configPath = "" }()

	dir := t.TempDir()
	writeFixture(t, dir, "pets.json", petsJSON)
	configPath = writeFixture(t, dir, config.FileName, strings.Join([]string{
		"[[targets]]",
		`name = "web"`,
		`inputs = ["pets.json"]`,
		`output = "gen/types.ts"`,
	}, "\n"))

	targets, cfg, err := loadTargets()
	require.NoError(t, err)
	require.NotNil(t, cfg)
	require.Len(t, targets, 1)
	assert.Equal(t, filepath.Join(dir, "pets.json"), targets[0].Inputs[0])
	assert.Equal(t, filepath.Join(dir, "gen", "types.ts"), targets[0].Output)
}
