// Package transform provides the single generic walker that drives every
// language's rewrite rules. All language knowledge lives behind the Func
// type; the walker itself only interprets the returned Verdict.
package transform

import "github.com/oxhq/tractor/internal/arena"

// Verdict directs the walker's behavior after Func has run (and possibly
// mutated) a node.
type Verdict int

const (
	// Continue descends into children normally.
	Continue Verdict = iota
	// Skip removes this element but keeps its children, splicing them
	// into the parent at this element's former position.
	Skip
	// Flatten is like Skip but marks "intentionally remove wrapper"
	// (block/body wrappers); the walker treats it identically to Skip,
	// the distinction is for the language transform's own readability.
	Flatten
	// Done means Func already performed all mutations for this subtree;
	// the walker must not descend further.
	Done
)

// Func is one language's complete rewrite function, invoked once per
// element, on a parent before its children, with the children taken from a
// list collected before the call (see Walk). It may
// freely mutate node or its children and must return a Verdict describing
// what the walker should do next.
type Func func(a *arena.Arena, node arena.Handle) Verdict

// Walk drives fn over every Element in root's subtree (root included). For
// each node, fn runs first and may freely mutate the node or splice its
// children; only afterward does the walker descend into that node's
// children, from a list snapshotted before fn ran.
//
// Children are enumerated to a temporary list before fn runs and before
// children are visited, so fn may freely reorder, insert, or remove
// siblings without invalidating iteration. Skip and Flatten
// splice the pre-collected children into node's former position in the
// parent; the walker still descends into them there. Done means fn already
// finished this subtree itself, so the walker does not descend at all.
func Walk(a *arena.Arena, root arena.Handle, fn Func) {
	walk(a, root, fn)
}

func walk(a *arena.Arena, node arena.Handle, fn Func) {
	if a.Kind(node) != arena.KindElement {
		return
	}

	children := append([]arena.Handle(nil), a.Children(node)...)

	switch fn(a, node) {
	case Skip, Flatten:
		_ = arena.Flatten(a, node)
	case Done:
		return
	case Continue:
	}

	for _, c := range children {
		walk(a, c, fn)
	}
}
