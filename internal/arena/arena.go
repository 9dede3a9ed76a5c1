// Package arena implements the process-local, handle-addressable XML node
// store shared by the Builder, the language Transformers and the XPath
// bridge. The CLI pipeline builds a fresh Arena for each file it processes
// (see buildFile in cmd/tractor); an Arena is never safe for concurrent use
// by more than one goroutine.
package arena

import (
	"fmt"
	"strings"
)

// Kind identifies the node variety: Document, Element, Text, Comment or
// Processing-Instruction.
type Kind uint8

const (
	KindDocument Kind = iota
	KindElement
	KindText
	KindComment
	KindPI
)

func (k Kind) String() string {
	switch k {
	case KindDocument:
		return "document"
	case KindElement:
		return "element"
	case KindText:
		return "text"
	case KindComment:
		return "comment"
	case KindPI:
		return "pi"
	default:
		return "unknown"
	}
}

// Handle is an opaque, process-local address into one Arena. Handle 0 is
// the Document root that New creates; Nil is returned by lookups that find
// nothing.
type Handle int32

// Nil is the invalid/absent handle, returned by e.g. Parent of a root node.
const Nil Handle = -1

// attr is one ordered (name, value) pair. Child order and attribute
// insertion order are both significant.
type attr struct {
	name  string
	value string
}

type node struct {
	kind Kind

	// Element-only.
	name  string
	attrs []attr

	// Text/Comment/PI-only.
	text   string
	target string // PI target

	parent   Handle
	children []Handle
	detached bool
}

// Arena owns every node created during one invocation's worker lifetime.
// The zero value is not usable; construct with New.
type Arena struct {
	nodes  []*node
	intern map[string]string
}

// New creates an empty Arena with a single Document root handle at index 0.
func New() *Arena {
	a := &Arena{intern: make(map[string]string)}
	a.nodes = append(a.nodes, &node{kind: KindDocument, parent: Nil})
	return a
}

// Root returns the handle of the Document node created by New.
func (a *Arena) Root() Handle { return 0 }

func (a *Arena) get(h Handle) *node {
	if h < 0 || int(h) >= len(a.nodes) {
		panic(fmt.Sprintf("arena: invalid handle %d", h))
	}
	n := a.nodes[h]
	if n == nil {
		panic(fmt.Sprintf("arena: handle %d was freed", h))
	}
	return n
}

func (a *Arena) internName(s string) string {
	if v, ok := a.intern[s]; ok {
		return v
	}
	a.intern[s] = s
	return s
}

func (a *Arena) alloc(n *node) Handle {
	h := Handle(len(a.nodes))
	a.nodes = append(a.nodes, n)
	return h
}

// NewElement creates a detached Element node with the given name. Callers
// attach it with Append/Prepend/InsertBefore/InsertAfter.
func (a *Arena) NewElement(name string) Handle {
	return a.alloc(&node{kind: KindElement, name: a.internName(name), parent: Nil})
}

// NewText creates a detached Text node carrying the given literal content.
func (a *Arena) NewText(content string) Handle {
	return a.alloc(&node{kind: KindText, text: content, parent: Nil})
}

// NewComment creates a detached Comment node.
func (a *Arena) NewComment(content string) Handle {
	return a.alloc(&node{kind: KindComment, text: content, parent: Nil})
}

// NewPI creates a detached Processing-Instruction node.
func (a *Arena) NewPI(target, content string) Handle {
	return a.alloc(&node{kind: KindPI, target: target, text: content, parent: Nil})
}

// Kind returns the node's kind.
func (a *Arena) Kind(h Handle) Kind { return a.get(h).kind }

// Name returns the current Element name (post-rename). Empty for non-Element
// nodes.
func (a *Arena) Name(h Handle) string { return a.get(h).name }

// Text returns the literal content of a Text/Comment/PI node.
func (a *Arena) Text(h Handle) string { return a.get(h).text }

// SetText overwrites a Text/Comment/PI node's literal content in place,
// used by `-W/--ignore-whitespace` to strip whitespace from text before a
// query executes, without disturbing the node's position attributes.
func (a *Arena) SetText(h Handle, content string) { a.get(h).text = content }

// PITarget returns the target of a Processing-Instruction node.
func (a *Arena) PITarget(h Handle) string { return a.get(h).target }

// Parent returns h's parent, or Nil if h is detached or is the document
// root.
func (a *Arena) Parent(h Handle) Handle { return a.get(h).parent }

// Children returns h's direct children in document order. The returned
// slice must not be mutated by the caller; it is shared with the Arena.
func (a *Arena) Children(h Handle) []Handle { return a.get(h).children }

// ChildCount is len(Children(h)) without an allocation.
func (a *Arena) ChildCount(h Handle) int { return len(a.get(h).children) }

// Descendants appends every node beneath h, in document (pre-order) order,
// to the result.
func (a *Arena) Descendants(h Handle) []Handle {
	var out []Handle
	a.walkDescendants(h, &out)
	return out
}

func (a *Arena) walkDescendants(h Handle, out *[]Handle) {
	for _, c := range a.get(h).children {
		*out = append(*out, c)
		a.walkDescendants(c, out)
	}
}

// Rename replaces an Element's name; attributes and children are
// untouched. In particular the `kind` attribute set by the builder
// survives, preserving the node's durable identity for context-sensitive
// transforms.
func (a *Arena) Rename(h Handle, newName string) {
	n := a.get(h)
	if n.kind != KindElement {
		panic("arena: Rename on non-element node")
	}
	n.name = a.internName(newName)
}

// Attr returns an attribute's value and whether it was set.
func (a *Arena) Attr(h Handle, name string) (string, bool) {
	n := a.get(h)
	for _, at := range n.attrs {
		if at.name == name {
			return at.value, true
		}
	}
	return "", false
}

// SetAttr sets (or replaces, in place) an attribute value. New attributes
// are appended, preserving insertion order.
func (a *Arena) SetAttr(h Handle, name, value string) {
	n := a.get(h)
	for i := range n.attrs {
		if n.attrs[i].name == name {
			n.attrs[i].value = value
			return
		}
	}
	n.attrs = append(n.attrs, attr{name: a.internName(name), value: value})
}

// RemoveAttr deletes an attribute if present.
func (a *Arena) RemoveAttr(h Handle, name string) {
	n := a.get(h)
	for i := range n.attrs {
		if n.attrs[i].name == name {
			n.attrs = append(n.attrs[:i], n.attrs[i+1:]...)
			return
		}
	}
}

// Attrs returns the ordered attribute list as (name, value) pairs. The
// returned slice must not be mutated.
func (a *Arena) Attrs(h Handle) []struct{ Name, Value string } {
	n := a.get(h)
	out := make([]struct{ Name, Value string }, len(n.attrs))
	for i, at := range n.attrs {
		out[i] = struct{ Name, Value string }{at.name, at.value}
	}
	return out
}

// isDescendant reports whether candidate is h or a descendant of h; used to
// reject structural edits that would create a cycle.
func (a *Arena) isDescendant(h, candidate Handle) bool {
	if h == candidate {
		return true
	}
	for _, c := range a.get(h).children {
		if a.isDescendant(c, candidate) {
			return true
		}
	}
	return false
}

// Detach removes h from its parent's child list. h keeps its own children
// and attributes and becomes a free-floating subtree; it may be reattached
// elsewhere.
func (a *Arena) Detach(h Handle) error {
	n := a.get(h)
	if n.parent == Nil {
		return nil
	}
	p := a.get(n.parent)
	idx := indexOf(p.children, h)
	if idx < 0 {
		return fmt.Errorf("arena: node %d not found in parent %d's children", h, n.parent)
	}
	p.children = append(p.children[:idx], p.children[idx+1:]...)
	n.parent = Nil
	return nil
}

// Append adds child as the last child of parent.
func (a *Arena) Append(parent, child Handle) error {
	return a.attach(parent, child, func(p *node) { p.children = append(p.children, child) })
}

// Prepend adds child as the first child of parent.
func (a *Arena) Prepend(parent, child Handle) error {
	return a.attach(parent, child, func(p *node) {
		p.children = append([]Handle{child}, p.children...)
	})
}

// InsertBefore inserts newNode immediately before ref in ref's parent.
func (a *Arena) InsertBefore(ref, newNode Handle) error {
	n := a.get(ref)
	if n.parent == Nil {
		return fmt.Errorf("arena: cannot insert before a detached node")
	}
	return a.insertAt(n.parent, newNode, ref, 0)
}

// InsertAfter inserts newNode immediately after ref in ref's parent.
func (a *Arena) InsertAfter(ref, newNode Handle) error {
	n := a.get(ref)
	if n.parent == Nil {
		return fmt.Errorf("arena: cannot insert after a detached node")
	}
	return a.insertAt(n.parent, newNode, ref, 1)
}

func (a *Arena) insertAt(parent, child, ref Handle, offset int) error {
	return a.attach(parent, child, func(p *node) {
		idx := indexOf(p.children, ref)
		if idx < 0 {
			p.children = append(p.children, child)
			return
		}
		at := idx + offset
		p.children = append(p.children, Nil)
		copy(p.children[at+1:], p.children[at:])
		p.children[at] = child
	})
}

func (a *Arena) attach(parent, child Handle, splice func(p *node)) error {
	if a.isDescendant(child, parent) {
		return fmt.Errorf("arena: cannot attach node %d to its own descendant %d", child, parent)
	}
	c := a.get(child)
	if c.parent != Nil {
		if err := a.Detach(child); err != nil {
			return err
		}
	}
	p := a.get(parent)
	splice(p)
	c.parent = parent
	return nil
}

func indexOf(hs []Handle, target Handle) int {
	for i, h := range hs {
		if h == target {
			return i
		}
	}
	return -1
}

// String renders a debug form: tag names and nesting, no attributes. Useful
// in test failure messages; the real output path is internal/render.
func (a *Arena) String(h Handle) string {
	var sb strings.Builder
	a.debugWrite(&sb, h, 0)
	return sb.String()
}

func (a *Arena) debugWrite(sb *strings.Builder, h Handle, depth int) {
	n := a.get(h)
	sb.WriteString(strings.Repeat("  ", depth))
	switch n.kind {
	case KindText:
		sb.WriteString(fmt.Sprintf("#text(%q)\n", n.text))
		return
	case KindComment:
		sb.WriteString(fmt.Sprintf("#comment(%q)\n", n.text))
		return
	case KindPI:
		sb.WriteString(fmt.Sprintf("#pi(%s)\n", n.target))
		return
	case KindDocument:
		sb.WriteString("#document\n")
	default:
		sb.WriteString(n.name + "\n")
	}
	for _, c := range n.children {
		a.debugWrite(sb, c, depth+1)
	}
}
