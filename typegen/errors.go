package typegen

import (
	"fmt"
	"strings"

	"github.com/teranos/schemats/errors"
)

// UnresolvedReferenceError reports a field whose type names a model or enum
// that no supplied root declares.
type UnresolvedReferenceError struct {
	Node   NodeID // declaring record
	Field  string
	Target NodeID // missing type
}

func (e *UnresolvedReferenceError) Error() string {
	return fmt.Sprintf("field %s.%s references undeclared type %s", e.Node, e.Field, e.Target)
}

// NameCollisionAmbiguityError reports emitted names that deterministic
// suffixing cannot settle, such as two rename directives claiming one name.
type NameCollisionAmbiguityError struct {
	Name   string
	Nodes  []NodeID
	Reason string
}

func (e *NameCollisionAmbiguityError) Error() string {
	ids := make([]string, len(e.Nodes))
	for i, id := range e.Nodes {
		ids[i] = id.String()
	}
	return fmt.Sprintf("cannot emit %q for %s: %s", e.Name, strings.Join(ids, ", "), e.Reason)
}

// UnsupportedTypeError reports a field type the target language cannot express.
type UnsupportedTypeError struct {
	Node   NodeID
	Field  string
	Detail string
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("unsupported type for %s.%s: %s", e.Node, e.Field, e.Detail)
}

// ErrDuplicateDeclaration marks two declarations sharing (module, name)
var ErrDuplicateDeclaration = errors.Mark(errors.New("duplicate declaration"), errors.ErrInvalidDescriptor)

func unresolved(node NodeID, field string, target NodeID) error {
	return errors.WithStack(errors.Mark(&UnresolvedReferenceError{Node: node, Field: field, Target: target}, errors.ErrUnresolvedReference))
}

func ambiguous(name, reason string, nodes ...NodeID) error {
	return errors.WithStack(errors.Mark(&NameCollisionAmbiguityError{Name: name, Nodes: nodes, Reason: reason}, errors.ErrNameCollision))
}

// Unsupported builds the error renderers return for inexpressible types.
func Unsupported(node NodeID, field, format string, args ...interface{}) error {
	return errors.WithStack(errors.Mark(&UnsupportedTypeError{Node: node, Field: field, Detail: fmt.Sprintf(format, args...)}, errors.ErrUnsupportedType))
}
