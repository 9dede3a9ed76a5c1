// Package ptree is the seam between the external parser runtime and the
// builder: an opaque parse tree with typed node kinds, fields,
// byte/row/column ranges, and named/anonymous flags, plus one concrete
// adapter over github.com/smacker/go-tree-sitter.
package ptree

// Point is a (row, column) position as reported by the parser: 0-based,
// columns measured in bytes. The builder does the +1 conversion to the
// arena's 1-based attribute values.
type Point struct {
	Row    int
	Column int
}

// Child pairs a parse-tree node with the field name its parent used to
// reach it, if any ("" when the edge is positional/unnamed).
type Child struct {
	Node  Node
	Field string
}

// Node is the minimal surface the builder needs from a parse tree:
// kind, named/anonymous flag, source range, and a field-annotated child
// list in source order. The child list includes anonymous children: the
// builder must see punctuation tokens to decide whether to drop or keep
// them as text, and transforms need anonymous operator tokens.
type Node interface {
	Kind() string
	IsNamed() bool
	Start() Point
	End() Point
	StartByte() int
	EndByte() int
	Children() []Child
}

// Tree is a parsed document: its root node plus the source bytes it was
// parsed from (Builder needs the bytes to materialize leaf text).
type Tree struct {
	Root   Node
	Source []byte
}
