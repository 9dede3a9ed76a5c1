package rules

import (
	"testing"

	"github.com/oxhq/tractor/internal/arena"
	"github.com/oxhq/tractor/internal/transform"
)

func newKindElement(a *arena.Arena, kind string) arena.Handle {
	h := a.NewElement(kind)
	a.SetAttr(h, "kind", kind)
	return h
}

func TestSkipRemovesWrapperKeepingChildren(t *testing.T) {
	a := arena.New()
	root := a.NewElement("root")
	_ = a.Append(a.Root(), root)
	stmt := newKindElement(a, "expression_statement")
	_ = a.Append(root, stmt)
	call := newKindElement(a, "call_expression")
	_ = a.Append(stmt, call)

	tbl := &Table{Skip: map[string]bool{"expression_statement": true}}
	transform.Walk(a, root, tbl.Func())

	children := a.Children(root)
	if len(children) != 1 || children[0] != call {
		t.Fatalf("expected call spliced directly under root, got %v", children)
	}
}

func TestModifierWrapperSplitsWordsIntoSiblings(t *testing.T) {
	a := arena.New()
	root := a.NewElement("root")
	_ = a.Append(a.Root(), root)
	mods := newKindElement(a, "modifiers")
	_ = a.Append(root, mods)
	txt := a.NewText("public static")
	_ = a.Append(mods, txt)
	method := newKindElement(a, "method_declaration")
	_ = a.Append(root, method)

	tbl := &Table{
		ModifierWrapper: map[string]bool{"modifiers": true},
		ModifierWords:   map[string]bool{"public": true, "static": true, "final": true},
	}
	transform.Walk(a, root, tbl.Func())

	children := a.Children(root)
	if len(children) != 3 {
		t.Fatalf("expected public, static, method_declaration; got %d children", len(children))
	}
	if arena.GetElementName(a, children[0]) != "public" || arena.GetElementName(a, children[1]) != "static" {
		t.Fatalf("expected public/static siblings in order, got %v %v",
			arena.GetElementName(a, children[0]), arena.GetElementName(a, children[1]))
	}
	if children[2] != method {
		t.Fatalf("expected method_declaration preserved after inserted modifiers")
	}
}

func TestModifierWrapperWithPerTokenTextChildren(t *testing.T) {
	// Grammars emit each modifier keyword as its own token, so the
	// wrapper holds several single-word text children rather than one
	// space-joined run.
	a := arena.New()
	root := a.NewElement("root")
	_ = a.Append(a.Root(), root)
	mods := newKindElement(a, "modifiers")
	_ = a.Append(root, mods)
	_ = a.Append(mods, a.NewText("public"))
	_ = a.Append(mods, a.NewText("static"))

	tbl := &Table{
		ModifierWrapper: map[string]bool{"modifiers": true},
		ModifierWords:   map[string]bool{"public": true, "static": true},
	}
	transform.Walk(a, root, tbl.Func())

	children := a.Children(root)
	if len(children) != 2 {
		t.Fatalf("expected public and static siblings, got %d children", len(children))
	}
	if arena.GetElementName(a, children[0]) != "public" || arena.GetElementName(a, children[1]) != "static" {
		t.Fatalf("unexpected modifier order: %v %v",
			arena.GetElementName(a, children[0]), arena.GetElementName(a, children[1]))
	}
}

func TestOperatorHolderLiftsFirstNonBracketText(t *testing.T) {
	a := arena.New()
	root := a.NewElement("root")
	_ = a.Append(a.Root(), root)
	bin := newKindElement(a, "binary_expression")
	_ = a.Append(root, bin)
	left := newKindElement(a, "number")
	_ = a.Append(bin, left)
	op := a.NewText("+")
	_ = a.Append(bin, op)
	right := newKindElement(a, "number")
	_ = a.Append(bin, right)

	tbl := &Table{OperatorHolder: map[string]bool{"binary_expression": true}}
	transform.Walk(a, root, tbl.Func())

	children := a.Children(bin)
	if len(children) != 3 {
		t.Fatalf("expected op, left, right; got %d", len(children))
	}
	if arena.GetElementName(a, children[0]) != "op" {
		t.Fatalf("expected <op> prepended, got %q", arena.GetElementName(a, children[0]))
	}
	if arena.GetTextContent(a, children[0]) != "+" {
		t.Fatalf("expected op text '+', got %q", arena.GetTextContent(a, children[0]))
	}
}

func TestIdentifierClassificationRenamesBasedOnParent(t *testing.T) {
	a := arena.New()
	root := a.NewElement("root")
	_ = a.Append(a.Root(), root)
	fn := newKindElement(a, "function_declaration")
	_ = a.Append(root, fn)
	ident := newKindElement(a, "identifier")
	_ = a.Append(fn, ident)

	tbl := &Table{
		IdentifierKinds: map[string]bool{"identifier": true},
		Classify: func(ctx IdentifierContext) string {
			if ctx.ParentKind == "function_declaration" {
				return "name"
			}
			return "type"
		},
	}
	transform.Walk(a, root, tbl.Func())

	if arena.GetElementName(a, ident) != "name" {
		t.Fatalf("expected identifier renamed to name, got %q", arena.GetElementName(a, ident))
	}
	if arena.GetKind(a, ident) != "identifier" {
		t.Fatalf("expected kind attribute preserved as 'identifier', got %q", arena.GetKind(a, ident))
	}
}

func TestIdentifierClassificationSeesOriginalAncestorKinds(t *testing.T) {
	// The walker renames ancestors before visiting their children, so
	// classification context must come from the durable kind attribute,
	// not the already-rewritten element names.
	a := arena.New()
	root := a.NewElement("root")
	_ = a.Append(a.Root(), root)
	cls := newKindElement(a, "class_declaration")
	_ = a.Append(root, cls)
	nameWrapper := a.NewElement("name") // field wrapper: no kind attribute
	_ = a.Append(cls, nameWrapper)
	ident := newKindElement(a, "identifier")
	_ = a.Append(nameWrapper, ident)

	tbl := &Table{
		Rename:          map[string]string{"class_declaration": "class"},
		IdentifierKinds: map[string]bool{"identifier": true},
		Classify: func(ctx IdentifierContext) string {
			if ctx.ParentKind == "name" && ctx.GrandparentKind == "class_declaration" {
				return "name"
			}
			return "ref"
		},
	}
	transform.Walk(a, root, tbl.Func())

	if arena.GetElementName(a, cls) != "class" {
		t.Fatalf("expected class_declaration renamed to class, got %q", arena.GetElementName(a, cls))
	}
	if arena.GetElementName(a, ident) != "name" {
		t.Fatalf("expected identifier under renamed class classified as name, got %q", arena.GetElementName(a, ident))
	}
}

func TestNameWrapperInlinesSingleIdentifierUnderDeclaration(t *testing.T) {
	a := arena.New()
	root := a.NewElement("root")
	_ = a.Append(a.Root(), root)
	fn := newKindElement(a, "function_declaration")
	_ = a.Append(root, fn)
	nameWrapper := a.NewElement("name") // field wrapper: no kind attribute
	_ = a.Append(fn, nameWrapper)
	ident := newKindElement(a, "identifier")
	identText := a.NewText("DoWork")
	_ = a.Append(ident, identText)
	_ = a.Append(nameWrapper, ident)

	tbl := &Table{
		NameWrapperParents:    map[string]bool{"function_declaration": true},
		NameWrapperChildKinds: map[string]bool{"identifier": true},
	}
	transform.Walk(a, root, tbl.Func())

	children := a.Children(nameWrapper)
	if len(children) != 1 || a.Kind(children[0]) != arena.KindText || a.Text(children[0]) != "DoWork" {
		t.Fatalf("expected <name> to collapse to text leaf 'DoWork', got %v", children)
	}
}

func TestNameWrapperLeavesNonDeclarationParentsAlone(t *testing.T) {
	a := arena.New()
	root := a.NewElement("root")
	_ = a.Append(a.Root(), root)
	call := newKindElement(a, "call_expression")
	_ = a.Append(root, call)
	nameWrapper := a.NewElement("name")
	_ = a.Append(call, nameWrapper)
	ident := newKindElement(a, "identifier")
	_ = a.Append(nameWrapper, ident)

	tbl := &Table{NameWrapperParents: map[string]bool{"function_declaration": true}}
	transform.Walk(a, root, tbl.Func())

	if len(a.Children(nameWrapper)) != 1 || a.Children(nameWrapper)[0] != ident {
		t.Fatalf("expected name wrapper under call_expression left untouched")
	}
}

func TestKeywordModifierHolderPrependsInPlace(t *testing.T) {
	a := arena.New()
	root := a.NewElement("root")
	_ = a.Append(a.Root(), root)
	decl := newKindElement(a, "lexical_declaration")
	_ = a.Append(root, decl)
	kw := a.NewText("let")
	_ = a.Append(decl, kw)
	declarator := newKindElement(a, "variable_declarator")
	_ = a.Append(decl, declarator)

	tbl := &Table{
		KeywordModifierHolder: map[string]bool{"lexical_declaration": true},
		KeywordModifiers:      map[string]bool{"let": true, "const": true, "var": true},
	}
	transform.Walk(a, root, tbl.Func())

	children := a.Children(decl)
	if len(children) != 2 {
		t.Fatalf("expected <let/> + declarator, got %d children", len(children))
	}
	if arena.GetElementName(a, children[0]) != "let" {
		t.Fatalf("expected <let/> prepended, got %q", arena.GetElementName(a, children[0]))
	}
	if children[1] != declarator {
		t.Fatalf("expected declarator to remain as a child")
	}
}

func TestRenameMapPreservesKindAttribute(t *testing.T) {
	a := arena.New()
	root := a.NewElement("root")
	_ = a.Append(a.Root(), root)
	src := newKindElement(a, "source_file")
	_ = a.Append(root, src)

	tbl := &Table{Rename: map[string]string{"source_file": "file"}}
	transform.Walk(a, root, tbl.Func())

	if arena.GetElementName(a, src) != "file" {
		t.Fatalf("expected element renamed to 'file', got %q", arena.GetElementName(a, src))
	}
	if arena.GetKind(a, src) != "source_file" {
		t.Fatalf("expected kind attribute to remain 'source_file' for idempotent reruns, got %q", arena.GetKind(a, src))
	}
}

func TestUnknownKindPassesThroughUnchanged(t *testing.T) {
	a := arena.New()
	root := a.NewElement("root")
	_ = a.Append(a.Root(), root)
	mystery := newKindElement(a, "some_future_grammar_node")
	_ = a.Append(root, mystery)

	tbl := &Table{Rename: map[string]string{"source_file": "file"}}
	transform.Walk(a, root, tbl.Func())

	if arena.GetElementName(a, mystery) != "some_future_grammar_node" {
		t.Fatalf("unknown kind should pass through unchanged, got %q", arena.GetElementName(a, mystery))
	}
}
