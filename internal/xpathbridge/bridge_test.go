package xpathbridge

import (
	"strings"
	"testing"

	"github.com/oxhq/tractor/internal/arena"
)

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"foo":    "//foo",
		"/foo":   "/foo",
		"//foo":  "//foo",
		"(a|b)":  "(a|b)",
		".//foo": ".//foo",
	}
	for in, want := range cases {
		if got := Normalize(in); got != want {
			t.Errorf("Normalize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCompileError(t *testing.T) {
	result := Compile("//foo[")
	if result.Valid {
		t.Fatal("expected invalid compile result")
	}
	if result.Error == "" {
		t.Fatal("expected an error message")
	}
	if result.ErrorStart < 0 || result.ErrorEnd < result.ErrorStart {
		t.Fatalf("bad error range %d..%d", result.ErrorStart, result.ErrorEnd)
	}
}

// buildClassDoc builds <File path="a.cs"><class><name>Foo</name></class></File>.
func buildClassDoc(t *testing.T) (*arena.Arena, arena.Handle) {
	t.Helper()
	a := arena.New()
	file := a.NewElement("File")
	a.SetAttr(file, "path", "a.cs")
	if err := a.Append(a.Root(), file); err != nil {
		t.Fatal(err)
	}
	cls := a.NewElement("class")
	a.SetAttr(cls, "start", "1:1")
	a.SetAttr(cls, "end", "1:42")
	a.SetAttr(cls, "kind", "class_declaration")
	_ = a.Append(file, cls)
	name := a.NewElement("name")
	a.SetAttr(name, "start", "1:14")
	a.SetAttr(name, "end", "1:17")
	_ = a.Append(cls, name)
	_ = a.Append(name, a.NewText("Foo"))
	return a, file
}

func TestExecuteNodeQuery(t *testing.T) {
	a, file := buildClassDoc(t)
	result := Compile("//class/name")
	if !result.Valid {
		t.Fatalf("compile failed: %s", result.Error)
	}
	items, err := Execute(result.Query, a, file)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 || items[0].Kind != NodeItem {
		t.Fatalf("expected one node item, got %v", items)
	}
	if got := stringValue(a, items[0].Node); got != "Foo" {
		t.Fatalf("expected string-value Foo, got %q", got)
	}
}

func TestExecuteAtomicCount(t *testing.T) {
	a, file := buildClassDoc(t)
	result := Compile("count(//class)")
	if !result.Valid {
		t.Fatalf("compile failed: %s", result.Error)
	}
	items, err := Execute(result.Query, a, file)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 || items[0].Kind != AtomicItem || items[0].Atomic != "1" {
		t.Fatalf("expected atomic \"1\", got %v", items)
	}
}

func TestExecuteAttributePredicate(t *testing.T) {
	a, file := buildClassDoc(t)
	result := Compile("//*[@kind='class_declaration']")
	if !result.Valid {
		t.Fatalf("compile failed: %s", result.Error)
	}
	items, err := Execute(result.Query, a, file)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 || items[0].Kind != NodeItem {
		t.Fatalf("expected the class element by kind attribute, got %v", items)
	}
}

func TestExecuteTextPredicate(t *testing.T) {
	a, file := buildClassDoc(t)
	result := Compile("//name[.='Foo']")
	if !result.Valid {
		t.Fatalf("compile failed: %s", result.Error)
	}
	items, err := Execute(result.Query, a, file)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 {
		t.Fatalf("expected one match for text predicate, got %v", items)
	}
}

func TestChainedQuery(t *testing.T) {
	a, file := buildClassDoc(t)
	outer := Compile("//class")
	items, err := Execute(outer.Query, a, file)
	if err != nil || len(items) != 1 {
		t.Fatalf("outer query failed: %v %v", items, err)
	}

	inner := Compile("name")
	if !inner.Valid {
		t.Fatalf("compile failed: %s", inner.Error)
	}
	// Relative query against the matched node, no re-serialization.
	chained, err := Execute(inner.Query, a, items[0].Node)
	if err != nil {
		t.Fatal(err)
	}
	if len(chained) != 1 || stringValue(a, chained[0].Node) != "Foo" {
		t.Fatalf("expected chained name match, got %v", chained)
	}
}

func TestNodeToMatch(t *testing.T) {
	a, file := buildClassDoc(t)
	result := Compile("//name")
	items, err := Execute(result.Query, a, file)
	if err != nil || len(items) != 1 {
		t.Fatalf("query failed: %v %v", items, err)
	}

	lines := []string{"public class Foo { }"}
	m := NodeToMatch(a, items[0].Node, "a.cs", lines)
	if m.File != "a.cs" || m.StartLine != 1 || m.StartCol != 14 || m.EndLine != 1 || m.EndCol != 17 {
		t.Fatalf("unexpected match positions: %+v", m)
	}
	if m.Value != "Foo" {
		t.Fatalf("expected value Foo, got %q", m.Value)
	}
	if !strings.Contains(m.XML, "Foo") {
		t.Fatalf("expected rendered fragment to contain Foo, got %q", m.XML)
	}
}

func TestNodeToMatchLegacyAttributeFallback(t *testing.T) {
	a := arena.New()
	el := a.NewElement("thing")
	a.SetAttr(el, "startLine", "3")
	a.SetAttr(el, "startCol", "7")
	a.SetAttr(el, "endLine", "3")
	a.SetAttr(el, "endCol", "9")
	_ = a.Append(a.Root(), el)

	m := NodeToMatch(a, el, "x.go", nil)
	if m.StartLine != 3 || m.StartCol != 7 || m.EndLine != 3 || m.EndCol != 9 {
		t.Fatalf("legacy attribute fallback broken: %+v", m)
	}
}
