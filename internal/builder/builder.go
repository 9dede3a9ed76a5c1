// Package builder projects an external parse tree into the shared XML
// arena with a pre-order walk: one Element per named node, with location
// and `kind` attributes and wrapped-field promotion.
package builder

import (
	"fmt"
	"strings"

	"github.com/oxhq/tractor/internal/arena"
	"github.com/oxhq/tractor/internal/ptree"
)

// wrappedFields is the small fixed set of field names promoted to
// semantic wrapper elements rather than stored as a `field` attribute.
var wrappedFields = map[string]bool{
	"name": true, "value": true, "left": true, "right": true,
	"body": true, "parameters": true, "condition": true,
	"consequence": true, "alternative": true, "returns": true,
	"arguments": true, "key": true,
}

// Options tune Build; EmitRawPunctuation is threaded from the CLI's
// --raw flag. In raw mode even pure punctuation tokens get emitted so
// the output preserves the parser's vocabulary losslessly.
type Options struct {
	// EmitRawPunctuation, when true, never drops anonymous punctuation
	// tokens (braces, commas, semicolons); they are emitted as Text
	// children like any other anonymous token.
	EmitRawPunctuation bool
}

// Structural punctuation is dropped unless Options.EmitRawPunctuation is
// set or the token contains a non-bracket/non-separator character, so
// expression-like tokens (operators, keywords) always survive for
// operator extraction.
func isPureStructuralPunctuation(text string) bool {
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

// Build projects tree into a fresh Document subtree under root's `<File
// path="...">` element, appending one Element per named parse-tree node.
// root must already be attached in a (the caller builds the
// <Files><File path="..."> envelope; see BuildFile).
func Build(a *arena.Arena, root arena.Handle, tree *ptree.Tree, opts Options) {
	b := &builderState{a: a, source: tree.Source, opts: opts}
	b.walk(root, tree.Root, "")
}

// BuildFile wraps a parsed tree in its `<File path="…">` envelope,
// returning the handle of the new <File> element. filesRoot must be the
// `<Files>` element (or the Arena's document root when building a
// single-file invocation incrementally).
func BuildFile(a *arena.Arena, filesRoot arena.Handle, path string, tree *ptree.Tree, opts Options) arena.Handle {
	fileEl := a.NewElement("File")
	a.SetAttr(fileEl, "path", path)
	_ = a.Append(filesRoot, fileEl)
	Build(a, fileEl, tree, opts)
	return fileEl
}

type builderState struct {
	a      *arena.Arena
	source []byte
	opts   Options
}

// walk emits parent's projection of ptreeNode onto arena node parent, using
// field (the field name the caller's parent used to reach ptreeNode, if
// any; empty for the tree root).
func (b *builderState) walk(parent arena.Handle, n ptree.Node, field string) {
	if n == nil {
		return
	}
	if !n.IsNamed() {
		b.emitAnonymous(parent, n)
		return
	}

	el := b.a.NewElement(n.Kind())
	b.a.SetAttr(el, "start", formatPos(n.Start()))
	b.a.SetAttr(el, "end", formatPos(n.End()))
	b.a.SetAttr(el, "kind", n.Kind())

	if field != "" {
		if wrappedFields[field] {
			wrapper := b.a.NewElement(field)
			b.a.SetAttr(wrapper, "start", formatPos(n.Start()))
			b.a.SetAttr(wrapper, "end", formatPos(n.End()))
			_ = b.a.Append(parent, wrapper)
			_ = b.a.Append(wrapper, el)
		} else {
			b.a.SetAttr(el, "field", field)
			_ = b.a.Append(parent, el)
		}
	} else {
		_ = b.a.Append(parent, el)
	}

	for _, c := range n.Children() {
		b.walk(el, c.Node, c.Field)
	}

	// A named leaf (identifier, number, ...) has no children to carry its
	// text, so its source slice becomes its text content; without this the
	// XPath string-value of every leaf would be empty.
	if b.a.ChildCount(el) == 0 {
		if text := b.sliceSource(n); text != "" {
			_ = b.a.Append(el, b.a.NewText(text))
		}
	}
}

// emitAnonymous projects an unnamed parse-tree token either as a Text
// child of parent, or drops it when it is pure structural punctuation.
func (b *builderState) emitAnonymous(parent arena.Handle, n ptree.Node) {
	text := b.sliceSource(n)
	if !b.opts.EmitRawPunctuation && isPureStructuralPunctuation(text) {
		return
	}
	txt := b.a.NewText(text)
	_ = b.a.Append(parent, txt)
}

func (b *builderState) sliceSource(n ptree.Node) string {
	start, end := n.StartByte(), n.EndByte()
	if start < 0 || end > len(b.source) || start > end {
		return ""
	}
	return string(b.source[start:end])
}

// formatPos renders a 0-based ptree.Point as the arena's 1-based
// "line:col" attribute value. The +1 conversion is unconditional.
func formatPos(p ptree.Point) string {
	return fmt.Sprintf("%d:%d", p.Row+1, p.Column+1)
}
