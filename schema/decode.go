package schema

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	gojson "github.com/goccy/go-json"
	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/teranos/schemats/errors"
)

// Format is a descriptor file encoding
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatFromPath picks a Format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", errors.NewInvalidDescriptorError("cannot infer descriptor format from %q (want .json, .yaml, .yml or .toml)", path)
	}
}

// DecodeFile reads and decodes a descriptor file.
func DecodeFile(path string) ([]Root, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read descriptor %s", path)
	}
	roots, err := Decode(data, format)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to decode %s", path)
	}
	return roots, nil
}

// Decode parses descriptor bytes. A document is either a single root
// (an object with "module"), an object with a "roots" list, or a list of roots.
//
// Types are written either as shorthand strings ("string", "Cat", "Cat[]") or
// as objects tagged with "kind":
//
//	{"kind": "ref", "name": "Foo", "module": "pkg.other"}
//	{"kind": "array", "items": "string"}
//	{"kind": "optional", "type": "Dog"}
//	{"kind": "union", "members": ["string", "number"]}
//	{"kind": "map", "values": "integer"}
//	{"kind": "literal", "value": "cat"}
func Decode(data []byte, format Format) ([]Root, error) {
	tree, err := decodeTree(data, format)
	if err != nil {
		return nil, err
	}

	var rawRoots []any
	switch t := tree.(type) {
	case []any:
		rawRoots = t
	case map[string]any:
		if list, ok := t["roots"]; ok {
			if err := checkKeys(t, "", "roots"); err != nil {
				return nil, err
			}
			items, ok := list.([]any)
			if !ok {
				return nil, errors.NewInvalidDescriptorError("roots: expected a list, got %s", describe(list))
			}
			rawRoots = items
		} else {
			rawRoots = []any{t}
		}
	case nil:
		return nil, nil
	default:
		return nil, errors.NewInvalidDescriptorError("expected an object or a list at top level, got %s", describe(tree))
	}

	roots := make([]Root, 0, len(rawRoots))
	for i, raw := range rawRoots {
		root, err := rootFrom(raw, fmt.Sprintf("roots[%d]", i))
		if err != nil {
			return nil, err
		}
		roots = append(roots, root)
	}
	return roots, nil
}

func decodeTree(data []byte, format Format) (any, error) {
	var tree any
	switch format {
	case FormatJSON:
		dec := gojson.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&tree); err != nil {
			return nil, errors.Mark(errors.Wrap(err, "invalid JSON"), errors.ErrInvalidDescriptor)
		}
	case FormatYAML:
		var doc yaml.Node
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, errors.Mark(errors.Wrap(err, "invalid YAML"), errors.ErrInvalidDescriptor)
		}
		var err error
		if tree, err = yamlTree(&doc); err != nil {
			return nil, errors.Mark(errors.Wrap(err, "invalid YAML"), errors.ErrInvalidDescriptor)
		}
	case FormatTOML:
		if err := toml.Unmarshal(data, &tree); err != nil {
			return nil, errors.Mark(errors.Wrap(err, "invalid TOML"), errors.ErrInvalidDescriptor)
		}
	default:
		return nil, errors.NewInvalidDescriptorError("unknown descriptor format %q", format)
	}
	return tree, nil
}

// yamlTree converts a YAML node into the generic tree the walker reads.
// Decimal numbers become gojson.Number so "1.50" keeps its source text.
func yamlTree(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return yamlTree(n.Content[0])
	case yaml.AliasNode:
		return yamlTree(n.Alias)
	case yaml.MappingNode:
		out := make(map[string]any, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			v, err := yamlTree(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			out[n.Content[i].Value] = v
		}
		return out, nil
	case yaml.SequenceNode:
		out := make([]any, len(n.Content))
		for i, c := range n.Content {
			v, err := yamlTree(c)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	}

	switch n.ShortTag() {
	case "!!str":
		return n.Value, nil
	case "!!null":
		return nil, nil
	case "!!int", "!!float":
		if isDecimalLiteral(n.Value) {
			return gojson.Number(n.Value), nil
		}
	}
	var v any
	if err := n.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

// isDecimalLiteral reports whether s is a number in JSON syntax
func isDecimalLiteral(s string) bool {
	i := 0
	digits := func() int {
		start := i
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
		}
		return i - start
	}

	if i < len(s) && s[i] == '-' {
		i++
	}
	if n := digits(); n == 0 || (n > 1 && s[i-n] == '0') {
		return false
	}
	if i < len(s) && s[i] == '.' {
		i++
		if digits() == 0 {
			return false
		}
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		i++
		if i < len(s) && (s[i] == '+' || s[i] == '-') {
			i++
		}
		if digits() == 0 {
			return false
		}
	}
	return i == len(s)
}

func rootFrom(raw any, path string) (Root, error) {
	obj, err := asObject(raw, path)
	if err != nil {
		return Root{}, err
	}
	if err := checkKeys(obj, path, "module", "models", "enums"); err != nil {
		return Root{}, err
	}

	module, err := requiredString(obj, "module", path)
	if err != nil {
		return Root{}, err
	}
	root := Root{Module: module}

	models, err := optionalList(obj, "models", path)
	if err != nil {
		return Root{}, err
	}
	for i, rawModel := range models {
		model, err := modelFrom(rawModel, fmt.Sprintf("%s.models[%d]", path, i))
		if err != nil {
			return Root{}, err
		}
		root.Models = append(root.Models, model)
	}

	enums, err := optionalList(obj, "enums", path)
	if err != nil {
		return Root{}, err
	}
	for i, rawEnum := range enums {
		enum, err := enumFrom(rawEnum, fmt.Sprintf("%s.enums[%d]", path, i))
		if err != nil {
			return Root{}, err
		}
		root.Enums = append(root.Enums, enum)
	}
	return root, nil
}

func modelFrom(raw any, path string) (*Model, error) {
	obj, err := asObject(raw, path)
	if err != nil {
		return nil, err
	}
	if err := checkKeys(obj, path, "name", "description", "fields", "allow_extra"); err != nil {
		return nil, err
	}

	name, err := requiredString(obj, "name", path)
	if err != nil {
		return nil, err
	}
	model := &Model{Name: name}
	if model.Description, err = optionalString(obj, "description", path); err != nil {
		return nil, err
	}
	if model.AllowExtra, err = optionalBool(obj, "allow_extra", false, path); err != nil {
		return nil, err
	}

	fields, err := optionalList(obj, "fields", path)
	if err != nil {
		return nil, err
	}
	for i, rawField := range fields {
		fieldPath := fmt.Sprintf("%s.fields[%d]", path, i)
		fobj, err := asObject(rawField, fieldPath)
		if err != nil {
			return nil, err
		}
		if err := checkKeys(fobj, fieldPath, "name", "type", "required", "description"); err != nil {
			return nil, err
		}
		field := Field{}
		if field.Name, err = requiredString(fobj, "name", fieldPath); err != nil {
			return nil, err
		}
		rawType, ok := fobj["type"]
		if !ok {
			return nil, errors.NewInvalidDescriptorError("%s: missing \"type\"", fieldPath)
		}
		if field.Type, err = typeFrom(rawType, fieldPath+".type"); err != nil {
			return nil, err
		}
		if field.Required, err = optionalBool(fobj, "required", true, fieldPath); err != nil {
			return nil, err
		}
		if field.Description, err = optionalString(fobj, "description", fieldPath); err != nil {
			return nil, err
		}
		model.Fields = append(model.Fields, field)
	}
	return model, nil
}

func enumFrom(raw any, path string) (*Enum, error) {
	obj, err := asObject(raw, path)
	if err != nil {
		return nil, err
	}
	if err := checkKeys(obj, path, "name", "description", "members"); err != nil {
		return nil, err
	}

	name, err := requiredString(obj, "name", path)
	if err != nil {
		return nil, err
	}
	enum := &Enum{Name: name}
	if enum.Description, err = optionalString(obj, "description", path); err != nil {
		return nil, err
	}

	members, err := optionalList(obj, "members", path)
	if err != nil {
		return nil, err
	}
	for i, rawMember := range members {
		memberPath := fmt.Sprintf("%s.members[%d]", path, i)
		// A bare literal is a member whose name is derived from its value
		mobj, ok := rawMember.(map[string]any)
		if !ok {
			v, err := valueFrom(rawMember, memberPath)
			if err != nil {
				return nil, err
			}
			enum.Members = append(enum.Members, Member{Value: v})
			continue
		}
		if err := checkKeys(mobj, memberPath, "name", "value"); err != nil {
			return nil, err
		}
		member := Member{}
		if member.Name, err = optionalString(mobj, "name", memberPath); err != nil {
			return nil, err
		}
		rawValue, ok := mobj["value"]
		if !ok {
			return nil, errors.NewInvalidDescriptorError("%s: missing \"value\"", memberPath)
		}
		if member.Value, err = valueFrom(rawValue, memberPath+".value"); err != nil {
			return nil, err
		}
		enum.Members = append(enum.Members, member)
	}
	return enum, nil
}

func typeFrom(raw any, path string) (Type, error) {
	switch t := raw.(type) {
	case string:
		return shorthandType(t, path)
	case map[string]any:
		return taggedType(t, path)
	default:
		return nil, errors.NewInvalidDescriptorError("%s: expected a type name or object, got %s", path, describe(raw))
	}
}

func shorthandType(s, path string) (Type, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, errors.NewInvalidDescriptorError("%s: empty type name", path)
	}
	if strings.HasSuffix(s, "[]") {
		elem, err := shorthandType(strings.TrimSuffix(s, "[]"), path)
		if err != nil {
			return nil, err
		}
		return ArrayOf(elem), nil
	}
	switch Kind(s) {
	case KindString, KindNumber, KindInteger, KindBoolean, KindNull, KindAny:
		return Primitive{Kind: Kind(s)}, nil
	}
	return RefTo(s), nil
}

func taggedType(obj map[string]any, path string) (Type, error) {
	kind, err := requiredString(obj, "kind", path)
	if err != nil {
		return nil, err
	}

	switch kind {
	case string(KindString), string(KindNumber), string(KindInteger), string(KindBoolean), string(KindNull), string(KindAny):
		if err := checkKeys(obj, path, "kind"); err != nil {
			return nil, err
		}
		return Primitive{Kind: Kind(kind)}, nil

	case "ref":
		if err := checkKeys(obj, path, "kind", "name", "module"); err != nil {
			return nil, err
		}
		name, err := requiredString(obj, "name", path)
		if err != nil {
			return nil, err
		}
		module, err := optionalString(obj, "module", path)
		if err != nil {
			return nil, err
		}
		return RefIn(module, name), nil

	case "array":
		elem, err := nestedType(obj, "items", path)
		if err != nil {
			return nil, err
		}
		return ArrayOf(elem), nil

	case "optional":
		elem, err := nestedType(obj, "type", path)
		if err != nil {
			return nil, err
		}
		return OptionalOf(elem), nil

	case "map":
		value, err := nestedType(obj, "values", path)
		if err != nil {
			return nil, err
		}
		return MapOf(value), nil

	case "union":
		if err := checkKeys(obj, path, "kind", "members"); err != nil {
			return nil, err
		}
		rawMembers, err := optionalList(obj, "members", path)
		if err != nil {
			return nil, err
		}
		members := make([]Type, 0, len(rawMembers))
		for i, rm := range rawMembers {
			m, err := typeFrom(rm, fmt.Sprintf("%s.members[%d]", path, i))
			if err != nil {
				return nil, err
			}
			members = append(members, m)
		}
		return UnionOf(members...), nil

	case "literal":
		if err := checkKeys(obj, path, "kind", "value"); err != nil {
			return nil, err
		}
		rawValue, ok := obj["value"]
		if !ok {
			return nil, errors.NewInvalidDescriptorError("%s: missing \"value\"", path)
		}
		v, err := valueFrom(rawValue, path+".value")
		if err != nil {
			return nil, err
		}
		return LiteralOf(v), nil

	default:
		return nil, errors.NewInvalidDescriptorError("%s: unknown kind %q", path, kind)
	}
}

func nestedType(obj map[string]any, key, path string) (Type, error) {
	if err := checkKeys(obj, path, "kind", key); err != nil {
		return nil, err
	}
	raw, ok := obj[key]
	if !ok {
		return nil, errors.NewInvalidDescriptorError("%s: missing %q", path, key)
	}
	return typeFrom(raw, path+"."+key)
}

func valueFrom(raw any, path string) (Value, error) {
	switch v := raw.(type) {
	case string:
		return StringValue(v), nil
	case bool:
		return BoolValue(v), nil
	case gojson.Number:
		return NumberValue(v.String()), nil
	case int:
		return IntValue(int64(v)), nil
	case int64:
		return IntValue(v), nil
	case uint64:
		return NumberValue(strconv.FormatUint(v, 10)), nil
	case float64:
		return FloatValue(v), nil
	default:
		return Value{}, errors.NewInvalidDescriptorError("%s: expected a string, number or boolean literal, got %s", path, describe(raw))
	}
}

func asObject(raw any, path string) (map[string]any, error) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, errors.NewInvalidDescriptorError("%s: expected an object, got %s", path, describe(raw))
	}
	return obj, nil
}

// checkKeys rejects keys outside allowed so typos do not silently drop data.
func checkKeys(obj map[string]any, path string, allowed ...string) error {
	var unknown []string
	for k := range obj {
		found := false
		for _, a := range allowed {
			if k == a {
				found = true
				break
			}
		}
		if !found {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) == 0 {
		return nil
	}
	sort.Strings(unknown)
	where := path
	if where == "" {
		where = "document"
	}
	return errors.NewInvalidDescriptorError("%s: unknown keys %s", where, strings.Join(unknown, ", "))
}

func requiredString(obj map[string]any, key, path string) (string, error) {
	s, err := optionalString(obj, key, path)
	if err != nil {
		return "", err
	}
	if s == "" {
		return "", errors.NewInvalidDescriptorError("%s: missing %q", path, key)
	}
	return s, nil
}

func optionalString(obj map[string]any, key, path string) (string, error) {
	raw, ok := obj[key]
	if !ok || raw == nil {
		return "", nil
	}
	s, ok := raw.(string)
	if !ok {
		return "", errors.NewInvalidDescriptorError("%s.%s: expected a string, got %s", path, key, describe(raw))
	}
	return s, nil
}

func optionalBool(obj map[string]any, key string, def bool, path string) (bool, error) {
	raw, ok := obj[key]
	if !ok || raw == nil {
		return def, nil
	}
	b, ok := raw.(bool)
	if !ok {
		return false, errors.NewInvalidDescriptorError("%s.%s: expected a boolean, got %s", path, key, describe(raw))
	}
	return b, nil
}

func optionalList(obj map[string]any, key, path string) ([]any, error) {
	raw, ok := obj[key]
	if !ok || raw == nil {
		return nil, nil
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, errors.NewInvalidDescriptorError("%s.%s: expected a list, got %s", path, key, describe(raw))
	}
	return list, nil
}

func describe(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "an object"
	case []any:
		return "a list"
	case string:
		return "a string"
	case bool:
		return "a boolean"
	default:
		return fmt.Sprintf("%T", v)
	}
}
