package typegen

// Result holds the outcome of one generation run.
type Result struct {
	// Text is the complete module
	Text string

	// Language of the generator that produced Text
	Language string

	// Declarations in emission order
	Declarations []Declaration

	// Names maps every emitted node to its identifier
	Names Names
}

// Declaration is one rendered record or enum.
type Declaration struct {
	Node *Node
	Name string
	Text string
}

// TypeNames returns emitted names in emission order
func (r *Result) TypeNames() []string {
	out := make([]string, len(r.Declarations))
	for i, d := range r.Declarations {
		out[i] = d.Name
	}
	return out
}
