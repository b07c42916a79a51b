// Package schema describes the model definitions the generator consumes.
//
// A Root carries the models and enums declared by one originating submodule.
// Field types form a closed set of variants implementing Type; code that
// switches over them handles every variant listed in this file.
package schema

// Root is the descriptor of one originating submodule.
type Root struct {
	// Module identifies the submodule (e.g. "schemas.sub_model")
	Module string
	// Models in declaration order. Every model is a walk root.
	Models []*Model
	// Enums in declaration order. Enums are only emitted when referenced.
	Enums []*Enum
}

// Model is a record: a named, ordered list of fields.
type Model struct {
	Name        string
	Description string
	Fields      []Field
	// AllowExtra admits undeclared keys (pydantic extra="allow")
	AllowExtra bool
}

// Field is one named member of a Model.
type Field struct {
	Name        string
	Type        Type
	Required    bool
	Description string
}

// Enum is an ordered list of literal-valued members.
type Enum struct {
	Name        string
	Description string
	Members     []Member
}

// Member is one enum entry. Name may be empty, in which case the renderer
// derives an identifier from the value.
type Member struct {
	Name  string
	Value Value
}

// Type is a field type descriptor.
type Type interface {
	isType()
}

// Kind names a primitive type
type Kind string

const (
	KindString  Kind = "string"
	KindNumber  Kind = "number"
	KindInteger Kind = "integer"
	KindBoolean Kind = "boolean"
	KindNull    Kind = "null"
	KindAny     Kind = "any"
)

// Primitive is a scalar type.
type Primitive struct {
	Kind Kind
}

// Ref points at a model or enum by (module, name). An empty Module means the
// module of the root that declares the referencing field.
type Ref struct {
	Module string
	Name   string
}

// Array is a homogeneous list.
type Array struct {
	Elem Type
}

// Optional marks a value that may be null. Absence is expressed separately
// through Field.Required.
type Optional struct {
	Elem Type
}

// Union is an ordered set of alternatives. Order is significant.
type Union struct {
	Members []Type
}

// Map is a string-keyed dictionary.
type Map struct {
	Value Type
}

// Literal is a single constant value.
type Literal struct {
	Value Value
}

func (Primitive) isType() {}
func (Ref) isType()       {}
func (Array) isType()     {}
func (Optional) isType()  {}
func (Union) isType()     {}
func (Map) isType()       {}
func (Literal) isType()   {}

// String, Number, Integer, Boolean, Null and Any build primitives.
func String() Type  { return Primitive{Kind: KindString} }
func Number() Type  { return Primitive{Kind: KindNumber} }
func Integer() Type { return Primitive{Kind: KindInteger} }
func Boolean() Type { return Primitive{Kind: KindBoolean} }
func Null() Type    { return Primitive{Kind: KindNull} }
func Any() Type     { return Primitive{Kind: KindAny} }

// RefTo references a type declared in the same module as the field.
func RefTo(name string) Type { return Ref{Name: name} }

// RefIn references a type declared in another module.
func RefIn(module, name string) Type { return Ref{Module: module, Name: name} }

// ArrayOf wraps elem in an Array.
func ArrayOf(elem Type) Type { return Array{Elem: elem} }

// OptionalOf wraps elem in an Optional.
func OptionalOf(elem Type) Type { return Optional{Elem: elem} }

// UnionOf builds a Union preserving member order.
func UnionOf(members ...Type) Type { return Union{Members: members} }

// MapOf builds a string-keyed Map.
func MapOf(value Type) Type { return Map{Value: value} }

// LiteralOf builds a Literal.
func LiteralOf(v Value) Type { return Literal{Value: v} }

// Walk calls fn for t and every type nested in it, depth first, in order.
func Walk(t Type, fn func(Type)) {
	if t == nil {
		return
	}
	fn(t)
	switch v := t.(type) {
	case Array:
		Walk(v.Elem, fn)
	case Optional:
		Walk(v.Elem, fn)
	case Map:
		Walk(v.Value, fn)
	case Union:
		for _, m := range v.Members {
			Walk(m, fn)
		}
	}
}

// Refs returns the references in t in encounter order.
func Refs(t Type) []Ref {
	var refs []Ref
	Walk(t, func(n Type) {
		if r, ok := n.(Ref); ok {
			refs = append(refs, r)
		}
	})
	return refs
}
