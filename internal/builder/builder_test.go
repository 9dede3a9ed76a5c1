package builder

import (
	"testing"

	"github.com/oxhq/tractor/internal/arena"
	"github.com/oxhq/tractor/internal/ptree"
)

// Builds `let x = 1 + 2;` in a shape loosely matching a tree-sitter
// "lexical_declaration" grammar, to exercise wrapped-field promotion,
// operator text emission, and field attributes.
func buildLetStatement() *ptree.Tree {
	source := "let x = 1 + 2;"
	ident := ptree.NewFake("identifier", 4, 5, ptree.Point{Row: 0, Column: 4}, ptree.Point{Row: 0, Column: 5})
	left := ptree.NewFake("number", 8, 9, ptree.Point{Row: 0, Column: 8}, ptree.Point{Row: 0, Column: 9})
	plus := ptree.NewFake("+", 10, 11, ptree.Point{Row: 0, Column: 10}, ptree.Point{Row: 0, Column: 11}).Anonymous()
	right := ptree.NewFake("number", 12, 13, ptree.Point{Row: 0, Column: 12}, ptree.Point{Row: 0, Column: 13})
	binary := ptree.NewFake("binary_expression", 8, 13, ptree.Point{Row: 0, Column: 8}, ptree.Point{Row: 0, Column: 13}).
		WithChild("left", left).
		WithChild("", plus).
		WithChild("right", right)
	declarator := ptree.NewFake("variable_declarator", 4, 13, ptree.Point{Row: 0, Column: 4}, ptree.Point{Row: 0, Column: 13}).
		WithChild("name", ident).
		WithChild("value", binary)
	root := ptree.NewFake("lexical_declaration", 0, 14, ptree.Point{Row: 0, Column: 0}, ptree.Point{Row: 0, Column: 14}).
		WithChild("", declarator)
	return &ptree.Tree{Root: root, Source: []byte(source)}
}

func TestBuildFileEnvelope(t *testing.T) {
	a := arena.New()
	filesEl := a.NewElement("Files")
	_ = a.Append(a.Root(), filesEl)

	fileEl := BuildFile(a, filesEl, "in.ts", buildLetStatement(), Options{})

	if v, _ := a.Attr(fileEl, "path"); v != "in.ts" {
		t.Fatalf("expected path attribute, got %q", v)
	}
	if len(a.Children(fileEl)) != 1 {
		t.Fatalf("expected one root child under <File>, got %d", len(a.Children(fileEl)))
	}
}

func TestBuildWrapsNameAndValueFields(t *testing.T) {
	a := arena.New()
	root := a.NewElement("root")
	_ = a.Append(a.Root(), root)
	Build(a, root, buildLetStatement(), Options{})

	decl := a.Children(root)[0]
	if arena.GetElementName(a, decl) != "lexical_declaration" {
		t.Fatalf("unexpected top element: %s", arena.GetElementName(a, decl))
	}
	declarator := a.Children(decl)[0]
	if arena.GetElementName(a, declarator) != "variable_declarator" {
		t.Fatalf("unexpected declarator element: %s", arena.GetElementName(a, declarator))
	}

	children := a.Children(declarator)
	if len(children) != 2 {
		t.Fatalf("expected 2 wrapped fields, got %d", len(children))
	}
	if arena.GetElementName(a, children[0]) != "name" {
		t.Fatalf("expected <name> wrapper, got %s", arena.GetElementName(a, children[0]))
	}
	if arena.GetElementName(a, children[1]) != "value" {
		t.Fatalf("expected <value> wrapper, got %s", arena.GetElementName(a, children[1]))
	}
}

func TestBuildPreservesOperatorText(t *testing.T) {
	a := arena.New()
	root := a.NewElement("root")
	_ = a.Append(a.Root(), root)
	Build(a, root, buildLetStatement(), Options{})

	declarator := a.Children(a.Children(root)[0])[0]
	valueWrapper := a.Children(declarator)[1]
	binary := a.Children(valueWrapper)[0]

	// left, "+", right: the "+" token is not pure bracket punctuation so
	// it must survive as a Text child.
	bChildren := a.Children(binary)
	if len(bChildren) != 3 {
		t.Fatalf("expected left, operator text, right; got %d children", len(bChildren))
	}
	if a.Kind(bChildren[1]) != arena.KindText || a.Text(bChildren[1]) != "+" {
		t.Fatalf("expected operator text child '+', got kind=%v text=%q", a.Kind(bChildren[1]), a.Text(bChildren[1]))
	}
}

func TestBuildSetsStartEndAndKindAttributes(t *testing.T) {
	a := arena.New()
	root := a.NewElement("root")
	_ = a.Append(a.Root(), root)
	Build(a, root, buildLetStatement(), Options{})

	declarator := a.Children(a.Children(root)[0])[0]
	start, _ := a.Attr(declarator, "start")
	end, _ := a.Attr(declarator, "end")
	kind, _ := a.Attr(declarator, "kind")

	if start != "1:5" {
		t.Errorf("expected start '1:5' (1-based from row 0, col 4), got %q", start)
	}
	if end != "1:14" {
		t.Errorf("expected end '1:14', got %q", end)
	}
	if kind != "variable_declarator" {
		t.Errorf("expected kind 'variable_declarator', got %q", kind)
	}
}

func TestBuildFieldAttributeForUnwrappedField(t *testing.T) {
	a := arena.New()
	root := a.NewElement("root")
	_ = a.Append(a.Root(), root)

	// "arguments" is in the wrapped-field set; "index" is not.
	child := ptree.NewFake("number", 2, 3, ptree.Point{Row: 0, Column: 2}, ptree.Point{Row: 0, Column: 3})
	top := ptree.NewFake("subscript_expression", 0, 4, ptree.Point{Row: 0, Column: 0}, ptree.Point{Row: 0, Column: 4}).
		WithChild("index", child)
	Build(a, root, &ptree.Tree{Root: top, Source: []byte("a[1]")}, Options{})

	sub := a.Children(root)[0]
	indexChild := a.Children(sub)[0]
	if arena.GetElementName(a, indexChild) != "number" {
		t.Fatalf("expected non-wrapped field to remain unwrapped, got element %q", arena.GetElementName(a, indexChild))
	}
	if field, ok := a.Attr(indexChild, "field"); !ok || field != "index" {
		t.Fatalf("expected field attribute 'index', got (%q, %v)", field, ok)
	}
}

func TestBuildNamedLeafCarriesSourceText(t *testing.T) {
	a := arena.New()
	root := a.NewElement("root")
	_ = a.Append(a.Root(), root)
	Build(a, root, buildLetStatement(), Options{})

	declarator := a.Children(a.Children(root)[0])[0]
	nameWrapper := a.Children(declarator)[0]
	ident := a.Children(nameWrapper)[0]

	if got := arena.GetTextContent(a, ident); got != "x" {
		t.Fatalf("expected identifier leaf to carry source text 'x', got %q", got)
	}
}

func TestRawModeEmitsPunctuationTokens(t *testing.T) {
	a := arena.New()
	root := a.NewElement("root")
	_ = a.Append(a.Root(), root)

	paren := ptree.NewFake("(", 1, 2, ptree.Point{Row: 0, Column: 1}, ptree.Point{Row: 0, Column: 2}).Anonymous()
	call := ptree.NewFake("call_expression", 0, 3, ptree.Point{Row: 0, Column: 0}, ptree.Point{Row: 0, Column: 3}).
		WithChild("", paren)

	Build(a, root, &ptree.Tree{Root: call, Source: []byte("f()")}, Options{EmitRawPunctuation: true})
	callEl := a.Children(root)[0]
	if len(a.Children(callEl)) != 1 {
		t.Fatalf("expected raw mode to keep the punctuation token, got %d children", len(a.Children(callEl)))
	}
}
