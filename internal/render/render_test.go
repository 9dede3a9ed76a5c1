package render

import (
	"strings"
	"testing"

	"github.com/oxhq/tractor/internal/arena"
)

func buildSample(a *arena.Arena) arena.Handle {
	root := a.NewElement("class")
	a.SetAttr(root, "start", "1:1")
	a.SetAttr(root, "end", "1:10")
	a.SetAttr(root, "kind", "class_declaration")
	name := a.NewElement("name")
	txt := a.NewText("Foo")
	a.Append(name, txt)
	a.Append(root, name)
	a.Append(a.Root(), root)
	return root
}

func TestRenderStripsLocationsByDefault(t *testing.T) {
	a := arena.New()
	root := buildSample(a)
	out := Render(a, root, Options{PrettyPrint: true})
	if strings.Contains(out, `kind=`) {
		t.Errorf("expected kind attribute stripped, got %q", out)
	}
	if !strings.Contains(out, "<name>Foo</name>") {
		t.Errorf("expected inline name element, got %q", out)
	}
}

func TestRenderKeepsLocations(t *testing.T) {
	a := arena.New()
	root := buildSample(a)
	out := Render(a, root, Options{PrettyPrint: true, IncludeLocations: true})
	if !strings.Contains(out, `kind="class_declaration"`) {
		t.Errorf("expected kind attribute, got %q", out)
	}
}

func TestRenderDepthClamp(t *testing.T) {
	a := arena.New()
	root := a.NewElement("class")
	name := a.NewElement("name")
	ident := a.NewElement("identifier")
	txt := a.NewText("Foo")
	a.Append(ident, txt)
	a.Append(name, ident)
	a.Append(root, name)
	a.Append(a.Root(), root)

	out := Render(a, root, Options{PrettyPrint: true, MaxDepth: 0})
	if out == "" {
		t.Fatal("expected non-empty render")
	}
	clamped := Render(a, root, Options{PrettyPrint: true, MaxDepth: 1})
	if !strings.Contains(clamped, "more)") {
		t.Errorf("expected elision marker, got %q", clamped)
	}
}

func TestRenderNoPrettyCanonical(t *testing.T) {
	a := arena.New()
	root := buildSample(a)
	out := Render(a, root, Options{})
	if strings.Contains(out, "\n") {
		t.Errorf("expected single-line canonical output, got %q", out)
	}
	if !strings.Contains(out, "<name>Foo</name>") {
		t.Errorf("expected canonical form to preserve text, got %q", out)
	}
}
