// Package render turns an arena subtree back into an XML string, with
// the options the CLI and the XPath bridge need: color, location
// attribute stripping, depth clamping, highlight spans, and a canonical
// single-line mode backed by github.com/ucarion/c14n.
package render

import (
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/ucarion/c14n"

	"github.com/oxhq/tractor/internal/arena"
)

// HighlightKey identifies one element to highlight, by its 1-based
// (line, col) start position (matching the `start` attribute's value).
type HighlightKey struct {
	Line, Col int
}

// Options tune one Render call.
type Options struct {
	// UseColor renders element names, attributes and text with ANSI color.
	UseColor bool
	// IncludeLocations keeps start/end/kind attributes; stripped by default
	// so query-authoring output (the common case) isn't cluttered with
	// them unless --keep-locations asked for them.
	IncludeLocations bool
	// Indent is the per-depth indentation string; "  " if empty and
	// PrettyPrint is true.
	Indent string
	// MaxDepth clamps rendering; 0 means unlimited. Children beyond the
	// clamp are elided as "<!-- ... (N more) -->", N counting every elided
	// descendant element, not just direct children.
	MaxDepth int
	// PrettyPrint enables newlines/indentation. False is required when
	// XPath predicates must match text content verbatim; false also
	// routes through the c14n canonical path when color and highlights
	// are both absent.
	PrettyPrint bool
	// Highlights marks elements (by start position) to render with a
	// highlighted background; used by --debug.
	Highlights map[HighlightKey]bool
}

var (
	colorTag    = color.New(color.FgCyan).SprintFunc()
	colorAttr   = color.New(color.FgYellow).SprintFunc()
	colorText   = color.New(color.FgWhite).SprintFunc()
	colorHi     = color.New(color.BgYellow, color.FgBlack).SprintFunc()
	colorDimmed = color.New(color.Faint).SprintFunc()
)

// Render renders h's subtree to a string under opts.
func Render(a *arena.Arena, h arena.Handle, opts Options) string {
	if !opts.UseColor && !opts.PrettyPrint && len(opts.Highlights) == 0 {
		if canon, ok := canonicalize(a, h, opts); ok {
			return canon
		}
	}
	r := &renderer{a: a, opts: opts}
	if opts.Indent == "" {
		r.indent = "  "
	} else {
		r.indent = opts.Indent
	}
	var sb strings.Builder
	r.write(&sb, h, 0)
	return sb.String()
}

// canonicalize renders through encoding/xml + c14n.Canonicalize for a
// deterministic, whitespace-stable single-line byte stream. It falls
// back to the plain writer (ok=false) for non-Element roots, which c14n
// cannot canonicalize (it expects exactly one root element).
func canonicalize(a *arena.Arena, h arena.Handle, opts Options) (string, bool) {
	if a.Kind(h) != arena.KindElement {
		return "", false
	}
	var plain strings.Builder
	r := &renderer{a: a, opts: Options{IncludeLocations: opts.IncludeLocations, MaxDepth: opts.MaxDepth}}
	r.writeRawXML(&plain, h, 0)
	dec := xml.NewDecoder(strings.NewReader(plain.String()))
	out, err := c14n.Canonicalize(dec)
	if err != nil {
		return "", false
	}
	return string(out), true
}

type renderer struct {
	a      *arena.Arena
	opts   Options
	indent string
}

func (r *renderer) write(sb *strings.Builder, h arena.Handle, depth int) {
	if r.opts.MaxDepth > 0 && depth > r.opts.MaxDepth {
		return
	}
	switch r.a.Kind(h) {
	case arena.KindText:
		sb.WriteString(escape(r.a.Text(h)))
		return
	case arena.KindComment:
		sb.WriteString("<!--" + r.a.Text(h) + "-->")
		return
	case arena.KindPI:
		sb.WriteString("<?" + r.a.PITarget(h) + " " + r.a.Text(h) + "?>")
		return
	case arena.KindDocument:
		for _, c := range r.a.Children(h) {
			r.write(sb, c, depth)
			r.maybeNewline(sb)
		}
		return
	}

	name := r.a.Name(h)
	highlighted := r.isHighlighted(h)
	r.writeIndent(sb, depth)

	open := "<" + name
	if highlighted {
		open = colorHi(open)
	} else if r.opts.UseColor {
		open = colorTag(open)
	}
	sb.WriteString(open)
	r.writeAttrs(sb, h)

	children := r.visibleChildren(h, depth)
	if len(children) == 0 && r.elidedCount(h, depth) == 0 {
		closeTag := "/>"
		if r.opts.UseColor {
			closeTag = colorTag(closeTag)
		}
		sb.WriteString(closeTag)
		return
	}

	gt := ">"
	if r.opts.UseColor {
		gt = colorTag(gt)
	}
	sb.WriteString(gt)

	if len(children) == 1 && r.a.Kind(children[0]) == arena.KindText {
		text := r.a.Text(children[0])
		if r.opts.UseColor {
			sb.WriteString(colorText(escape(text)))
		} else {
			sb.WriteString(escape(text))
		}
	} else {
		for _, c := range children {
			r.maybeNewline(sb)
			r.write(sb, c, depth+1)
		}
		if elided := r.elidedCount(h, depth); elided > 0 {
			r.maybeNewline(sb)
			r.writeIndent(sb, depth+1)
			sb.WriteString(colorDimmedIf(r.opts.UseColor, fmt.Sprintf("<!-- ... (%d more) -->", elided)))
		}
		r.maybeNewline(sb)
		r.writeIndent(sb, depth)
	}

	closeTag := "</" + name + ">"
	if r.opts.UseColor {
		closeTag = colorTag(closeTag)
	}
	sb.WriteString(closeTag)
}

// writeRawXML renders without color/highlight markup, for the canonical
// path: plain, valid XML that encoding/xml can re-tokenize.
func (r *renderer) writeRawXML(sb *strings.Builder, h arena.Handle, depth int) {
	save := r.opts.UseColor
	r.opts.UseColor = false
	savedHi := r.opts.Highlights
	r.opts.Highlights = nil
	r.write(sb, h, depth)
	r.opts.UseColor = save
	r.opts.Highlights = savedHi
}

func (r *renderer) visibleChildren(h arena.Handle, depth int) []arena.Handle {
	all := r.a.Children(h)
	if r.opts.MaxDepth <= 0 || depth+1 <= r.opts.MaxDepth {
		return all
	}
	return nil
}

// elidedCount is the number of descendant elements clamped away at h
// because depth+1 exceeds MaxDepth.
func (r *renderer) elidedCount(h arena.Handle, depth int) int {
	if r.opts.MaxDepth <= 0 || depth+1 <= r.opts.MaxDepth {
		return 0
	}
	count := 0
	for _, d := range r.a.Descendants(h) {
		if r.a.Kind(d) == arena.KindElement {
			count++
		}
	}
	return count
}

func (r *renderer) writeAttrs(sb *strings.Builder, h arena.Handle) {
	for _, at := range r.a.Attrs(h) {
		if !r.opts.IncludeLocations && isLocationAttr(at.Name) {
			continue
		}
		piece := fmt.Sprintf(` %s="%s"`, at.Name, escape(at.Value))
		if r.opts.UseColor {
			piece = colorAttr(piece)
		}
		sb.WriteString(piece)
	}
}

func (r *renderer) writeIndent(sb *strings.Builder, depth int) {
	if r.opts.PrettyPrint {
		sb.WriteString(strings.Repeat(r.indent, depth))
	}
}

func (r *renderer) maybeNewline(sb *strings.Builder) {
	if r.opts.PrettyPrint {
		sb.WriteString("\n")
	}
}

func (r *renderer) isHighlighted(h arena.Handle) bool {
	if len(r.opts.Highlights) == 0 {
		return false
	}
	v, ok := r.a.Attr(h, "start")
	if !ok {
		return false
	}
	var line, col int
	if _, err := fmt.Sscanf(v, "%d:%d", &line, &col); err != nil {
		return false
	}
	return r.opts.Highlights[HighlightKey{Line: line, Col: col}]
}

func colorDimmedIf(use bool, s string) string {
	if use {
		return colorDimmed(s)
	}
	return s
}

func isLocationAttr(name string) bool {
	switch name {
	case "start", "end", "kind", "startLine", "startCol", "endLine", "endCol":
		return true
	default:
		return false
	}
}

func escape(s string) string {
	var sb strings.Builder
	for _, r := range s {
		switch r {
		case '&':
			sb.WriteString("&amp;")
		case '<':
			sb.WriteString("&lt;")
		case '>':
			sb.WriteString("&gt;")
		case '"':
			sb.WriteString("&quot;")
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
