package typegen

// Generator defines the interface for language-specific renderers.
// Implementations must be pure: output depends only on the node and names.
type Generator interface {
	// Language returns the language name (e.g., "typescript")
	Language() string

	// FileExtension returns the file extension for this language (e.g., "ts")
	FileExtension() string

	// TypeName maps a short name to a legal declaration name
	TypeName(short string) string

	// Header returns the provenance header. source may be empty.
	Header(source string) string

	// RenderRecord renders a record node as a declaration
	RenderRecord(node *Node, names Names) (string, error)

	// RenderEnum renders an enum node as a declaration
	RenderEnum(node *Node, names Names) (string, error)
}
