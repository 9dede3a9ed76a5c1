// Package xpathbridge runs XPath queries directly against the shared
// arena the builder and transformer produced, with no string
// serialization and no re-parsing. It wires github.com/antchfx/xpath by
// implementing xpath.NodeNavigator over internal/arena, the way the
// xmlquery/htmlquery/jsonquery sibling packages each implement it over
// their own document model.
package xpathbridge

import (
	"fmt"
	"regexp"
	"runtime"
	"strings"

	"github.com/antchfx/xpath"

	"github.com/oxhq/tractor/internal/arena"
	"github.com/oxhq/tractor/internal/render"
)

// Query is a compiled XPath expression, ready to Execute against any number
// of arenas.
type Query struct {
	expr *xpath.Expr
	src  string
}

// CompileResult is either a usable Query, or structured error detail
// with a byte range into the expression.
type CompileResult struct {
	Valid      bool
	Query      *Query
	Error      string
	ErrorStart int
	ErrorEnd   int
	Warnings   []string
}

// positionSuffix matches a trailing "(start..end)" range some compiler
// error messages embed.
var positionSuffix = regexp.MustCompile(`\((\d+)\.\.(\d+)\)\s*$`)

// Compile validates and compiles an XPath expression. Auto-prefixing is
// the caller's responsibility (see Normalize) so that the exact string
// actually executed is always visible to the caller for diagnostics.
func Compile(expression string) CompileResult {
	expr, err := xpath.Compile(expression)
	if err != nil {
		start, end := errorRange(expression, err)
		return CompileResult{
			Valid:      false,
			Error:      err.Error(),
			ErrorStart: start,
			ErrorEnd:   end,
		}
	}
	return CompileResult{Valid: true, Query: &Query{expr: expr, src: expression}}
}

// errorRange extracts a "(start..end)" suffix from a compiler error message,
// defaulting to the whole expression when the underlying library (antchfx/
// xpath does not itself embed byte ranges in its errors) gives no position.
func errorRange(expression string, err error) (int, int) {
	if m := positionSuffix.FindStringSubmatch(err.Error()); m != nil {
		var start, end int
		fmt.Sscanf(m[1], "%d", &start)
		fmt.Sscanf(m[2], "%d", &end)
		return start, end
	}
	return 0, len(expression)
}

// Normalize applies the auto-prefix convenience rewrite: a query that
// does not start with "/", "(" or "." is rewritten to "//{query}".
func Normalize(query string) string {
	q := query
	if runtime.GOOS == "windows" && strings.HasPrefix(q, "/") && !strings.HasPrefix(q, "//") {
		// MSYS/MinGW occasionally mangles a leading "//" down to a single
		// "/" before the argument reaches the process; restore it so a
		// query the user actually typed as "//foo" (or that Normalize
		// itself would have produced) isn't silently narrowed to an
		// absolute-from-document-root query starting at "/foo".
		q = "/" + q
	}
	if strings.HasPrefix(q, "/") || strings.HasPrefix(q, "(") || strings.HasPrefix(q, ".") {
		return q
	}
	return "//" + q
}

// ItemKind classifies one result of Execute as a node, an atomic scalar,
// or a function item. antchfx/xpath's evaluator never produces function
// items; FunctionItem exists for contract completeness and is never
// returned.
type ItemKind int

const (
	NodeItem ItemKind = iota
	AtomicItem
	FunctionItem
)

// Item is one element of a Sequence: a node handle, an atomic scalar, or
// (never, with this backend) a function.
type Item struct {
	Kind   ItemKind
	Node   arena.Handle
	Atomic string
}

// Execute runs q against a, starting from context. An empty or Nil context
// defaults to the document root, matching "/" semantics regardless.
func Execute(q *Query, a *arena.Arena, context arena.Handle) ([]Item, error) {
	if context == arena.Nil {
		context = a.Root()
	}
	nav := newNavigator(a, context)
	result := q.expr.Evaluate(nav)
	switch v := result.(type) {
	case *xpath.NodeIterator:
		var out []Item
		for v.MoveNext() {
			cur, ok := v.Current().(*navigator)
			if !ok {
				continue
			}
			if cur.attrIdx >= 0 {
				out = append(out, Item{Kind: AtomicItem, Atomic: cur.attrValue()})
				continue
			}
			out = append(out, Item{Kind: NodeItem, Node: cur.cur})
		}
		return out, nil
	case string:
		return []Item{{Kind: AtomicItem, Atomic: v}}, nil
	case float64:
		return []Item{{Kind: AtomicItem, Atomic: formatNumber(v)}}, nil
	case bool:
		return []Item{{Kind: AtomicItem, Atomic: formatBool(v)}}, nil
	default:
		return nil, fmt.Errorf("xpathbridge: unrecognized result type %T", result)
	}
}

func formatNumber(f float64) string {
	if f == float64(int64(f)) {
		return fmt.Sprintf("%d", int64(f))
	}
	return fmt.Sprintf("%g", f)
}

func formatBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// Match is one query result bound to a file path and a source range.
type Match struct {
	File        string
	StartLine   int
	StartCol    int
	EndLine     int
	EndCol      int
	Value       string
	SourceLines []string
	XML         string
}

// NodeToMatch builds a Match for a node-item result. The legacy
// startLine/startCol/endLine/endCol attribute names are read as a
// fallback; the builder itself emits only start/end.
func NodeToMatch(a *arena.Arena, node arena.Handle, file string, sourceLines []string) Match {
	sl, sc := readPos(a, node, "start", "startLine", "startCol")
	el, ec := readPos(a, node, "end", "endLine", "endCol")
	return Match{
		File:        file,
		StartLine:   sl,
		StartCol:    sc,
		EndLine:     el,
		EndCol:      ec,
		Value:       stringValue(a, node),
		SourceLines: sourceLines,
		XML:         render.Render(a, node, render.Options{}),
	}
}

// AtomicToMatch builds a Match for an atomic-item result. Atomic items have
// no arena position of their own, so position fields are zero.
func AtomicToMatch(value, file string, sourceLines []string) Match {
	return Match{File: file, Value: value, SourceLines: sourceLines}
}

func readPos(a *arena.Arena, h arena.Handle, combined, legacyLine, legacyCol string) (int, int) {
	if v, ok := a.Attr(h, combined); ok {
		var line, col int
		if _, err := fmt.Sscanf(v, "%d:%d", &line, &col); err == nil {
			return line, col
		}
	}
	var line, col int
	if v, ok := a.Attr(h, legacyLine); ok {
		fmt.Sscanf(v, "%d", &line)
	}
	if v, ok := a.Attr(h, legacyCol); ok {
		fmt.Sscanf(v, "%d", &col)
	}
	return line, col
}

// stringValue computes the XPath string-value of a node: an Element's is
// the concatenation of all descendant Text node values; a Text/Comment
// node's is its own literal content.
func stringValue(a *arena.Arena, h arena.Handle) string {
	switch a.Kind(h) {
	case arena.KindText, arena.KindComment:
		return a.Text(h)
	case arena.KindPI:
		return a.Text(h)
	default:
		var sb strings.Builder
		for _, d := range a.Descendants(h) {
			if a.Kind(d) == arena.KindText {
				sb.WriteString(a.Text(d))
			}
		}
		return sb.String()
	}
}
