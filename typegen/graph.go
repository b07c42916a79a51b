package typegen

import (
	"github.com/teranos/schemats/errors"
	"github.com/teranos/schemats/schema"
)

// NodeID identifies a declaration by originating module and short name.
type NodeID struct {
	Module string
	Name   string
}

func (id NodeID) String() string {
	return id.Module + "." + id.Name
}

// NodeKind distinguishes records from enums
type NodeKind int

const (
	RecordNode NodeKind = iota
	EnumNode
)

func (k NodeKind) String() string {
	if k == EnumNode {
		return "enum"
	}
	return "record"
}

// Node is one declaration in the schema graph.
type Node struct {
	ID   NodeID
	Kind NodeKind

	// Exactly one of Record or Enum is set, matching Kind
	Record *schema.Model
	Enum   *schema.Enum

	// Root is the index of the declaring root in the input list
	Root int
	// Discovery is the position at which the walk first reached this node
	Discovery int
}

// ShortName is the name as declared in its module.
func (n *Node) ShortName() string {
	return n.ID.Name
}

// Target resolves a reference made by one of n's fields to a NodeID.
func (n *Node) Target(ref schema.Ref) NodeID {
	if ref.Module == "" {
		return NodeID{Module: n.ID.Module, Name: ref.Name}
	}
	return NodeID{Module: ref.Module, Name: ref.Name}
}

// Edge is a "field references type" relation.
type Edge struct {
	From  NodeID
	Field string
	To    NodeID
}

// Graph is the merged set of declarations reachable from the roots.
type Graph struct {
	// Nodes in discovery order
	Nodes []*Node
	// Edges in discovery order, one per reference occurrence
	Edges []Edge

	byID map[NodeID]*Node
}

// Node looks up a materialized node.
func (g *Graph) Node(id NodeID) (*Node, bool) {
	n, ok := g.byID[id]
	return n, ok
}

// LoadOptions tunes the graph walk
type LoadOptions struct {
	// Exclude lists models that are not walked as roots, either by short name
	// ("Cat") or qualified ("pets.Cat"). Excluded models still appear when
	// another walked model references them.
	Exclude []string
}

type declaration struct {
	kind   NodeKind
	record *schema.Model
	enum   *schema.Enum
	root   int
}

// loader carries the walk state for a single Load call
type loader struct {
	decls map[NodeID]declaration
	graph *Graph
}

// Load builds the schema graph. Roots are walked in order; within a root,
// models in declaration order. Each node is materialized at its first
// encounter, then the types its fields reference are visited depth first.
func Load(roots []schema.Root, opts LoadOptions) (*Graph, error) {
	l := &loader{
		decls: make(map[NodeID]declaration),
		graph: &Graph{byID: make(map[NodeID]*Node)},
	}

	if err := l.index(roots); err != nil {
		return nil, err
	}

	excluded := make(map[string]bool, len(opts.Exclude))
	for _, name := range opts.Exclude {
		excluded[name] = true
	}

	for _, root := range roots {
		for _, model := range root.Models {
			id := NodeID{Module: root.Module, Name: model.Name}
			if excluded[id.Name] || excluded[id.String()] {
				continue
			}
			if err := l.visit(id); err != nil {
				return nil, err
			}
		}
	}

	return l.graph, nil
}

// index records every declaration so references can be resolved across roots.
func (l *loader) index(roots []schema.Root) error {
	add := func(id NodeID, d declaration) error {
		if id.Module == "" {
			return errors.NewInvalidDescriptorError("root %d has no module identifier", d.root)
		}
		if id.Name == "" {
			return errors.NewInvalidDescriptorError("module %s declares a %s without a name", id.Module, d.kind)
		}
		if _, dup := l.decls[id]; dup {
			return errors.Wrapf(ErrDuplicateDeclaration, "%s is declared more than once", id)
		}
		l.decls[id] = d
		return nil
	}

	for i, root := range roots {
		for _, model := range root.Models {
			if model == nil {
				return errors.NewInvalidDescriptorError("module %s has a nil model", root.Module)
			}
			if err := add(NodeID{Module: root.Module, Name: model.Name}, declaration{kind: RecordNode, record: model, root: i}); err != nil {
				return err
			}
		}
		for _, enum := range root.Enums {
			if enum == nil {
				return errors.NewInvalidDescriptorError("module %s has a nil enum", root.Module)
			}
			if err := add(NodeID{Module: root.Module, Name: enum.Name}, declaration{kind: EnumNode, enum: enum, root: i}); err != nil {
				return err
			}
		}
	}
	return nil
}

func (l *loader) visit(id NodeID) error {
	if _, seen := l.graph.byID[id]; seen {
		return nil
	}

	d := l.decls[id]
	node := &Node{
		ID:        id,
		Kind:      d.kind,
		Record:    d.record,
		Enum:      d.enum,
		Root:      d.root,
		Discovery: len(l.graph.Nodes),
	}
	l.graph.Nodes = append(l.graph.Nodes, node)
	l.graph.byID[id] = node

	if node.Kind != RecordNode {
		return nil
	}

	for _, field := range node.Record.Fields {
		for _, ref := range schema.Refs(field.Type) {
			target := node.Target(ref)
			if _, ok := l.decls[target]; !ok {
				return unresolved(id, field.Name, target)
			}
			l.graph.Edges = append(l.graph.Edges, Edge{From: id, Field: field.Name, To: target})
			if err := l.visit(target); err != nil {
				return err
			}
		}
	}
	return nil
}
