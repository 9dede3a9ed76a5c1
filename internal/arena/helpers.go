package arena

import "strings"

// GetKind reads the durable `kind` attribute set by the builder.
// Transforms key their rename tables on this value, never on the current
// element name, so re-running a transform stays idempotent.
func GetKind(a *Arena, h Handle) string {
	v, _ := a.Attr(h, "kind")
	return v
}

// GetElementName returns h's current (post-rename) element name.
func GetElementName(a *Arena, h Handle) string {
	return a.Name(h)
}

// GetTextContent concatenates the values of h's direct Text children. It
// does not recurse into descendant elements; transform call sites only
// ever need the direct text.
func GetTextContent(a *Arena, h Handle) string {
	var sb strings.Builder
	for _, c := range a.Children(h) {
		if a.Kind(c) == KindText {
			sb.WriteString(a.Text(c))
		}
	}
	return sb.String()
}

// GetTextChildren returns the ordered text values of h's direct Text
// children, used by operator extraction to scan anonymous tokens without
// disturbing element children.
func GetTextChildren(a *Arena, h Handle) []string {
	var out []string
	for _, c := range a.Children(h) {
		if a.Kind(c) == KindText {
			out = append(out, a.Text(c))
		}
	}
	return out
}

// GetFollowingSiblings returns the siblings after h in its parent's child
// order. Used by identifier classification to detect e.g. a trailing
// parameter list that marks a preceding identifier as a method name.
func GetFollowingSiblings(a *Arena, h Handle) []Handle {
	p := a.Parent(h)
	if p == Nil {
		return nil
	}
	siblings := a.Children(p)
	idx := indexOf(siblings, h)
	if idx < 0 || idx+1 >= len(siblings) {
		return nil
	}
	out := make([]Handle, len(siblings)-idx-1)
	copy(out, siblings[idx+1:])
	return out
}

// PrependElementWithText inserts <name>text</name> as h's first child.
func PrependElementWithText(a *Arena, h Handle, name, text string) Handle {
	el := a.NewElement(name)
	txt := a.NewText(text)
	_ = a.Append(el, txt)
	_ = a.Prepend(h, el)
	return el
}

// InsertEmptyBefore inserts a childless <name/> immediately before h.
func InsertEmptyBefore(a *Arena, h Handle, name string) Handle {
	el := a.NewElement(name)
	_ = a.InsertBefore(h, el)
	return el
}

// Flatten detaches h, splicing its children into its former parent at its
// former position, preserving order. A no-op if h is already detached or
// document root.
func Flatten(a *Arena, h Handle) error {
	parent := a.Parent(h)
	if parent == Nil {
		return nil
	}
	children := append([]Handle(nil), a.Children(h)...)
	anchor := h
	for _, c := range children {
		if err := a.InsertBefore(anchor, c); err != nil {
			return err
		}
	}
	return a.Detach(h)
}

// RemoveTextChildren detaches every direct Text child of h, leaving element
// children in place. Used after modifier extraction collapses a wrapper's
// text into the wrapper's new name.
func RemoveTextChildren(a *Arena, h Handle) {
	for _, c := range append([]Handle(nil), a.Children(h)...) {
		if a.Kind(c) == KindText {
			_ = a.Detach(c)
		}
	}
}

// ReplaceChildrenWithText detaches every child of h and appends a single
// Text node carrying content. Used by name-wrapper inlining and by
// nullable/typed-wrapper rewrites that collapse a subtree to its textual
// value.
func ReplaceChildrenWithText(a *Arena, h Handle, content string) {
	for _, c := range append([]Handle(nil), a.Children(h)...) {
		_ = a.Detach(c)
	}
	txt := a.NewText(content)
	_ = a.Append(h, txt)
}
