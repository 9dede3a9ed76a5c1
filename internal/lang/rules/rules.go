// Package rules implements the rewrite repertoire shared by every
// language transform: rename map, flatten list, skip list, modifier
// extraction, operator extraction, identifier classification, and
// name-wrapper inlining. Each language package builds
// one Table of data and gets a transform.Func for free; none of them
// hand-write the traversal or the mechanics of any single rewrite twice.
package rules

import (
	"strings"

	"github.com/oxhq/tractor/internal/arena"
	"github.com/oxhq/tractor/internal/transform"
)

// Identifier classifies a bare identifier element given its parent's kind,
// grandparent's kind (the wrapped-field element one level up, if any), its
// own field attribute, and whether it has following siblings. It returns
// the new element name ("name", "type", "ref", ...) or "" to leave the
// identifier unrenamed.
type Identifier func(ctx IdentifierContext) string

// IdentifierContext is everything a language's Identifier func needs to
// decide a bare identifier's role, gathered once by Table.classify so each
// language only writes the decision table, not the tree inspection.
type IdentifierContext struct {
	ParentKind      string
	GrandparentKind string
	Field           string
	HasNextSibling  bool
}

// Table is one language's complete rewrite data. Every field is optional;
// a nil or empty map/set means that step never fires.
type Table struct {
	// Rename maps a `kind` (the durable original-grammar name) to the
	// canonical element name it should carry.
	Rename map[string]string
	// Flatten lists kinds whose wrapper element disappears, splicing its
	// children into its parent (declaration_list, block, ...).
	Flatten map[string]bool
	// Skip lists kinds whose entire subtree surfaces one level up with no
	// wrapper at all (expression_statement and similar).
	Skip map[string]bool
	// ModifierWrapper lists kinds that hold modifier keywords as text
	// (the "modifier"/"modifiers"/"visibility_modifier" family). Their
	// recognized words become empty sibling elements inserted before the
	// wrapper, and the wrapper is then detached together with everything
	// it still holds.
	ModifierWrapper map[string]bool
	// ModifierWords is the language's recognized modifier vocabulary
	// (public, static, async, readonly, const, mut, pub, let, final, ...).
	ModifierWords map[string]bool
	// OperatorHolder lists kinds (binary/unary/assignment expressions)
	// whose first non-bracket text child should be lifted into a
	// prepended <op> element.
	OperatorHolder map[string]bool
	// IdentifierKinds is the `kind` a language's bare-identifier token
	// carries (usually "identifier", sometimes "field_identifier" too;
	// callers list every alias they want classified).
	IdentifierKinds map[string]bool
	// Classify decides a bare identifier's new name; see Identifier.
	Classify Identifier
	// NameWrapperParents lists declaration kinds (keyed on the *parent's*
	// `kind`) whose <name> field should inline its sole identifier child's
	// text directly. Nil disables the step.
	NameWrapperParents map[string]bool
	// NameWrapperChildKinds restricts which child `kind`s are eligible to
	// be inlined (usually {"identifier"}, sometimes also
	// "type_identifier" or "field_identifier"). Nil means any single
	// element child qualifies.
	NameWrapperChildKinds map[string]bool
	// KeywordModifierHolder lists kinds that carry leading keyword
	// modifiers (let/const/var/async/export/...) as plain text children
	// alongside their real content, rather than in a dedicated wrapper
	// element. Matching text children are replaced in place with empty
	// elements prepended to the same node (the node itself survives,
	// unlike ModifierWrapper).
	KeywordModifierHolder map[string]bool
	// KeywordModifiers is the recognized vocabulary for KeywordModifierHolder.
	KeywordModifiers map[string]bool
}

// Func returns a transform.Func closed over t, ready to hand to
// transform.Walk.
func (t *Table) Func() transform.Func {
	return func(a *arena.Arena, h arena.Handle) transform.Verdict {
		return t.apply(a, h)
	}
}

func (t *Table) apply(a *arena.Arena, h arena.Handle) transform.Verdict {
	// The builder sets `kind` from the parse tree; fall back to the
	// element name for hand-built trees without one.
	kind := kindOrName(a, h)

	if t.Skip[kind] {
		return transform.Skip
	}
	if t.ModifierWrapper[kind] {
		t.extractModifiers(a, h)
		return transform.Done
	}
	if t.Flatten[kind] {
		return transform.Flatten
	}

	if t.OperatorHolder[kind] {
		t.extractOperator(a, h)
	}
	if t.KeywordModifierHolder[kind] {
		t.extractKeywordModifiers(a, h)
	}

	if newName, ok := t.Rename[kind]; ok {
		a.Rename(h, newName)
	}

	if t.IdentifierKinds[kind] {
		if newName := t.classify(a, h); newName != "" {
			a.Rename(h, newName)
		}
	}

	if t.NameWrapperParents != nil && arena.GetElementName(a, h) == "name" {
		if t.tryInlineName(a, h) {
			return transform.Done
		}
	}

	return transform.Continue
}

// extractModifiers splits h's text content into words, inserts one empty
// element per recognized word immediately before h (in source order), then
// detaches h entirely. Unrecognized words are dropped silently: transforms
// tolerate vocabulary they don't know about rather than erroring, so a
// newer grammar doesn't break them. This covers both a single-token modifier
// element (one word, becomes one sibling) and a combined wrapper holding
// several space-separated words.
func (t *Table) extractModifiers(a *arena.Arena, h arena.Handle) {
	// Modifiers arrive either as one text child holding several
	// space-separated words or as one text child per keyword token;
	// iterating text children and splitting each covers both.
	for _, text := range arena.GetTextChildren(a, h) {
		for _, word := range strings.Fields(text) {
			if !t.ModifierWords[word] {
				continue
			}
			arena.InsertEmptyBefore(a, h, word)
		}
	}
	_ = a.Detach(h)
}

// extractOperator lifts the first non-bracket text child of h into a new
// <op> element prepended to h's children, leaving the original text
// content removed (its value now lives as op's single Text child).
func (t *Table) extractOperator(a *arena.Arena, h arena.Handle) {
	for _, c := range a.Children(h) {
		if a.Kind(c) != arena.KindText {
			continue
		}
		text := a.Text(c)
		if isStructuralPunctuation(text) {
			continue
		}
		op := a.NewElement("op")
		opText := a.NewText(text)
		_ = a.Append(op, opText)
		_ = a.Prepend(h, op)
		_ = a.Detach(c)
		return
	}
}

// extractKeywordModifiers replaces each recognized leading keyword among
// h's direct text children with an empty element prepended to h, in
// source order, leaving h itself (and its other children) in place.
func (t *Table) extractKeywordModifiers(a *arena.Arena, h arena.Handle) {
	var found []string
	var toDetach []arena.Handle
	for _, c := range a.Children(h) {
		if a.Kind(c) != arena.KindText {
			continue
		}
		word := strings.TrimSpace(a.Text(c))
		if t.KeywordModifiers[word] {
			found = append(found, word)
			toDetach = append(toDetach, c)
		}
	}
	for _, c := range toDetach {
		_ = a.Detach(c)
	}
	for i := len(found) - 1; i >= 0; i-- {
		el := a.NewElement(found[i])
		_ = a.Prepend(h, el)
	}
}

func isStructuralPunctuation(text string) bool {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return true
	}
	for _, r := range trimmed {
		switch r {
		case '{', '}', '(', ')', '[', ']', ',', ';':
			continue
		default:
			return false
		}
	}
	return true
}

// classify gathers IdentifierContext from the arena and defers the
// decision to t.Classify. Ancestor context is read from the durable
// `kind` attribute, not the current element name: ancestors have already
// been renamed by the time their identifier children are visited.
// Wrapped-field elements (<name>, <value>, ...) carry no kind attribute
// and report their element name instead.
func (t *Table) classify(a *arena.Arena, h arena.Handle) string {
	if t.Classify == nil {
		return ""
	}
	field, _ := a.Attr(h, "field")
	parent := a.Parent(h)
	ctx := IdentifierContext{Field: field}
	if parent != arena.Nil {
		ctx.ParentKind = kindOrName(a, parent)
		grandparent := a.Parent(parent)
		if grandparent != arena.Nil {
			ctx.GrandparentKind = kindOrName(a, grandparent)
		}
	}
	ctx.HasNextSibling = len(arena.GetFollowingSiblings(a, h)) > 0
	return t.Classify(ctx)
}

func kindOrName(a *arena.Arena, h arena.Handle) string {
	if kind := arena.GetKind(a, h); kind != "" {
		return kind
	}
	return arena.GetElementName(a, h)
}

// tryInlineName dissolves a <name> wrapper's single identifier child,
// making class/name a text-bearing leaf, but only when the wrapper sits
// under one of NameWrapperParents and its sole child's kind is eligible.
// Returns whether it fired.
func (t *Table) tryInlineName(a *arena.Arena, h arena.Handle) bool {
	parent := a.Parent(h)
	if parent == arena.Nil {
		return false
	}
	if !t.NameWrapperParents[kindOrName(a, parent)] {
		return false
	}

	children := a.Children(h)
	if len(children) != 1 {
		return false
	}
	only := children[0]
	if a.Kind(only) != arena.KindElement {
		return false
	}
	if t.NameWrapperChildKinds != nil {
		childKind := arena.GetKind(a, only)
		if !t.NameWrapperChildKinds[childKind] {
			return false
		}
	}

	text := arena.GetTextContent(a, only)
	arena.ReplaceChildrenWithText(a, h, text)
	return true
}
