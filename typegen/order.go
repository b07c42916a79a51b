package typegen

// EmissionOrder is the sequence in which declarations are written.
//
// Records come first in discovery order, then enums in discovery order.
// TypeScript resolves interface and enum references regardless of position,
// so no topological reordering is applied.
type EmissionOrder struct {
	Records []*Node
	Enums   []*Node
}

// Order splits the graph's nodes into the emission blocks.
func Order(g *Graph) EmissionOrder {
	var order EmissionOrder
	for _, node := range g.Nodes {
		switch node.Kind {
		case RecordNode:
			order.Records = append(order.Records, node)
		case EnumNode:
			order.Enums = append(order.Enums, node)
		}
	}
	return order
}

// All returns records followed by enums
func (o EmissionOrder) All() []*Node {
	all := make([]*Node, 0, len(o.Records)+len(o.Enums))
	all = append(all, o.Records...)
	return append(all, o.Enums...)
}
