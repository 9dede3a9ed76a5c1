package ptree

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
)

// sitterNode adapts *sitter.Node to the Node interface. It is constructed
// lazily: child field names require walking a sitter.TreeCursor once per
// node, which we do on first Children() call and cache.
type sitterNode struct {
	n        *sitter.Node
	children []Child
}

func wrap(n *sitter.Node) Node {
	if n == nil {
		return nil
	}
	return &sitterNode{n: n}
}

func (s *sitterNode) Kind() string   { return s.n.Type() }
func (s *sitterNode) IsNamed() bool  { return s.n.IsNamed() }
func (s *sitterNode) StartByte() int { return int(s.n.StartByte()) }
func (s *sitterNode) EndByte() int   { return int(s.n.EndByte()) }

func (s *sitterNode) Start() Point {
	p := s.n.StartPoint()
	return Point{Row: int(p.Row), Column: int(p.Column)}
}

func (s *sitterNode) End() Point {
	p := s.n.EndPoint()
	return Point{Row: int(p.Row), Column: int(p.Column)}
}

// Children walks a fresh TreeCursor rooted at s.n to pair every child
// (named or anonymous) with the field name the cursor reports, which
// sitter.Node.Child alone does not expose.
func (s *sitterNode) Children() []Child {
	if s.children != nil {
		return s.children
	}
	count := int(s.n.ChildCount())
	out := make([]Child, 0, count)
	cursor := sitter.NewTreeCursor(s.n)
	defer cursor.Close()

	if cursor.GoToFirstChild() {
		for {
			field := cursor.CurrentFieldName()
			out = append(out, Child{Node: wrap(cursor.CurrentNode()), Field: field})
			if !cursor.GoToNextSibling() {
				break
			}
		}
	}
	s.children = out
	return out
}

// Parse runs the given tree-sitter grammar over source and returns the
// resulting Tree. The caller owns source for the Tree's lifetime (Builder
// reads leaf text out of it via byte offsets).
func Parse(ctx context.Context, lang *sitter.Language, source []byte) (*Tree, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(lang)
	tree, err := parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("ptree: parse failed: %w", err)
	}
	if tree == nil {
		return nil, fmt.Errorf("ptree: parser returned no tree")
	}
	root := tree.RootNode()
	if root == nil {
		return nil, fmt.Errorf("ptree: parser returned an empty tree")
	}
	return &Tree{Root: wrap(root), Source: source}, nil
}
