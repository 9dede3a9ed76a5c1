package xpathbridge

import (
	"github.com/antchfx/xpath"

	"github.com/oxhq/tractor/internal/arena"
)

// navigator implements xpath.NodeNavigator directly over an Arena, so
// queries execute against the live, mutable store the builder and
// transformer populated, with no serialization round-trip.
//
// attrIdx tracks position within the current element's attribute axis:
// -1 means the navigator is positioned on the node itself; >= 0 means it is
// positioned on that node's Nth attribute, the convention antchfx's own
// xmlquery/htmlquery navigators use.
type navigator struct {
	a       *arena.Arena
	cur     arena.Handle
	attrIdx int
}

func newNavigator(a *arena.Arena, start arena.Handle) *navigator {
	return &navigator{a: a, cur: start, attrIdx: -1}
}

func (n *navigator) attrValue() string {
	attrs := n.a.Attrs(n.cur)
	if n.attrIdx < 0 || n.attrIdx >= len(attrs) {
		return ""
	}
	return attrs[n.attrIdx].Value
}

func (n *navigator) attrName() string {
	attrs := n.a.Attrs(n.cur)
	if n.attrIdx < 0 || n.attrIdx >= len(attrs) {
		return ""
	}
	return attrs[n.attrIdx].Name
}

func (n *navigator) NodeType() xpath.NodeType {
	if n.attrIdx >= 0 {
		return xpath.AttributeNode
	}
	switch n.a.Kind(n.cur) {
	case arena.KindDocument:
		return xpath.RootNode
	case arena.KindElement:
		return xpath.ElementNode
	case arena.KindComment:
		return xpath.CommentNode
	case arena.KindPI:
		// antchfx/xpath has no dedicated PI node type; TextNode keeps the
		// instruction's text selectable without misclassifying it as an
		// element.
		return xpath.TextNode
	default:
		return xpath.TextNode
	}
}

func (n *navigator) LocalName() string {
	if n.attrIdx >= 0 {
		return n.attrName()
	}
	if n.a.Kind(n.cur) == arena.KindElement {
		return n.a.Name(n.cur)
	}
	return ""
}

func (n *navigator) Prefix() string { return "" }

func (n *navigator) Value() string {
	if n.attrIdx >= 0 {
		return n.attrValue()
	}
	return stringValue(n.a, n.cur)
}

func (n *navigator) Copy() xpath.NodeNavigator {
	cp := *n
	return &cp
}

func (n *navigator) MoveToRoot() {
	n.cur = n.a.Root()
	n.attrIdx = -1
}

func (n *navigator) MoveToParent() bool {
	if n.attrIdx >= 0 {
		n.attrIdx = -1
		return true
	}
	p := n.a.Parent(n.cur)
	if p == arena.Nil {
		return false
	}
	n.cur = p
	return true
}

func (n *navigator) MoveToNextAttribute() bool {
	if n.a.Kind(n.cur) != arena.KindElement {
		return false
	}
	attrs := n.a.Attrs(n.cur)
	if n.attrIdx+1 >= len(attrs) {
		return false
	}
	n.attrIdx++
	return true
}

func (n *navigator) MoveToChild() bool {
	if n.attrIdx >= 0 {
		return false
	}
	children := n.a.Children(n.cur)
	if len(children) == 0 {
		return false
	}
	n.cur = children[0]
	return true
}

func (n *navigator) MoveToFirst() bool {
	if n.attrIdx >= 0 {
		return false
	}
	p := n.a.Parent(n.cur)
	if p == arena.Nil {
		return false
	}
	siblings := n.a.Children(p)
	if len(siblings) == 0 {
		return false
	}
	n.cur = siblings[0]
	return true
}

func (n *navigator) MoveToNext() bool {
	if n.attrIdx >= 0 {
		return false
	}
	p := n.a.Parent(n.cur)
	if p == arena.Nil {
		return false
	}
	siblings := n.a.Children(p)
	idx := indexOf(siblings, n.cur)
	if idx < 0 || idx+1 >= len(siblings) {
		return false
	}
	n.cur = siblings[idx+1]
	return true
}

func (n *navigator) MoveToPrevious() bool {
	if n.attrIdx >= 0 {
		return false
	}
	p := n.a.Parent(n.cur)
	if p == arena.Nil {
		return false
	}
	siblings := n.a.Children(p)
	idx := indexOf(siblings, n.cur)
	if idx <= 0 {
		return false
	}
	n.cur = siblings[idx-1]
	return true
}

func (n *navigator) MoveTo(other xpath.NodeNavigator) bool {
	o, ok := other.(*navigator)
	if !ok || o.a != n.a {
		return false
	}
	n.cur = o.cur
	n.attrIdx = o.attrIdx
	return true
}

func indexOf(hs []arena.Handle, target arena.Handle) int {
	for i, h := range hs {
		if h == target {
			return i
		}
	}
	return -1
}
