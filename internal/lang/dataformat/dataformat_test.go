package dataformat

import (
	"strings"
	"testing"

	"github.com/oxhq/tractor/internal/arena"
)

func elementNames(a *arena.Arena, h arena.Handle) []string {
	var out []string
	for _, c := range a.Children(h) {
		if a.Kind(c) == arena.KindElement {
			out = append(out, a.Name(c))
		}
	}
	return out
}

func assertSpan(t *testing.T, a *arena.Arena, h arena.Handle, start, end string) {
	t.Helper()
	if got, _ := a.Attr(h, "start"); got != start {
		t.Errorf("element %s: start = %q, want %q", a.Name(h), got, start)
	}
	if got, _ := a.Attr(h, "end"); got != end {
		t.Errorf("element %s: end = %q, want %q", a.Name(h), got, end)
	}
}

func TestBuildJSONPositions(t *testing.T) {
	a := arena.New()
	root := a.NewElement("File")
	_ = a.Append(a.Root(), root)

	if err := buildJSON(a, root, []byte(`{"foo": "bar"}`), false); err != nil {
		t.Fatal(err)
	}
	// The foo element spans from its key's opening quote through the end
	// of its value token.
	foo := a.Children(root)[0]
	assertSpan(t, a, foo, "1:2", "1:14")
}

func TestBuildJSONSyntaxViewPositions(t *testing.T) {
	a := arena.New()
	root := a.NewElement("File")
	_ = a.Append(a.Root(), root)

	if err := buildJSON(a, root, []byte(`{"n": 1}`), true); err != nil {
		t.Fatal(err)
	}
	obj := a.Children(root)[0]
	assertSpan(t, a, obj, "1:1", "1:9")
}

func TestBuildYAMLPositions(t *testing.T) {
	a := arena.New()
	root := a.NewElement("File")
	_ = a.Append(a.Root(), root)

	if err := buildYAML(a, root, []byte("foo:\n  bar: baz\n"), false); err != nil {
		t.Fatal(err)
	}
	foo := a.Children(root)[0]
	bar := a.Children(foo)[0]
	if got, _ := a.Attr(foo, "start"); got != "1:1" {
		t.Errorf("foo start = %q, want 1:1", got)
	}
	assertSpan(t, a, bar, "2:3", "2:11")
}

func TestBuildDotenvPositions(t *testing.T) {
	a := arena.New()
	root := a.NewElement("File")
	_ = a.Append(a.Root(), root)

	if err := buildDotenv(a, root, []byte("FOO=bar\n"), false); err != nil {
		t.Fatal(err)
	}
	foo := a.Children(root)[0]
	assertSpan(t, a, foo, "1:1", "1:8")
}

func TestBuildINIPositions(t *testing.T) {
	a := arena.New()
	root := a.NewElement("File")
	_ = a.Append(a.Root(), root)

	if err := buildINI(a, root, []byte("[section]\nname=alice\n"), false); err != nil {
		t.Fatal(err)
	}
	section := a.Children(root)[0]
	if a.Name(section) != "section" {
		t.Fatalf("expected section element, got %s", a.Name(section))
	}
	// The table header is found on line 1, the nested key below it; the
	// section's span stretches to its last child's line end.
	assertSpan(t, a, section, "1:2", "2:11")
	name := a.Children(section)[0]
	assertSpan(t, a, name, "2:1", "2:11")
}

func TestBuildXMLPositions(t *testing.T) {
	a := arena.New()
	root := a.NewElement("File")
	_ = a.Append(a.Root(), root)

	if err := buildXML(a, root, []byte(`<a attr="1"><b>hi</b></a>`), false); err != nil {
		t.Fatal(err)
	}
	aEl := a.Children(root)[0]
	assertSpan(t, a, aEl, "1:1", "1:26")
	bEl := a.Children(aEl)[0]
	assertSpan(t, a, bEl, "1:13", "1:22")
}

func TestAnnotatePositionsLeavesUnknownKeysUnpositioned(t *testing.T) {
	v := fromAny(map[string]any{"missing": "x"})
	annotatePositions([]byte("other=1\n"), v)
	if v.entries[0].keyPos.known() {
		t.Fatalf("expected unfound key to stay unpositioned, got %+v", v.entries[0].keyPos)
	}
}

func TestBuildJSONDataView(t *testing.T) {
	a := arena.New()
	root := a.NewElement("File")
	if err := a.Append(a.Root(), root); err != nil {
		t.Fatal(err)
	}
	if err := buildJSON(a, root, []byte(`{"foo":{"bar":"baz"}}`), false); err != nil {
		t.Fatal(err)
	}

	foo := a.Children(root)[0]
	if a.Name(foo) != "foo" {
		t.Fatalf("expected foo element, got %s", a.Name(foo))
	}
	bar := a.Children(foo)[0]
	if a.Name(bar) != "bar" {
		t.Fatalf("expected bar element, got %s", a.Name(bar))
	}
	text := a.Children(bar)[0]
	if a.Kind(text) != arena.KindText || a.Text(text) != "baz" {
		t.Fatalf("expected text baz, got %v", a.Text(text))
	}
}

func TestBuildJSONSanitizedKey(t *testing.T) {
	a := arena.New()
	root := a.NewElement("File")
	a.Append(a.Root(), root)

	if err := buildJSON(a, root, []byte(`{"first name":"Jo"}`), false); err != nil {
		t.Fatal(err)
	}
	el := a.Children(root)[0]
	if a.Name(el) != "first_name" {
		t.Fatalf("expected sanitized name first_name, got %s", a.Name(el))
	}
	key, ok := a.Attr(el, "key")
	if !ok || key != "first name" {
		t.Fatalf("expected key attr %q, got %q (ok=%v)", "first name", key, ok)
	}
}

func TestBuildJSONArraySiblings(t *testing.T) {
	a := arena.New()
	root := a.NewElement("File")
	a.Append(a.Root(), root)

	if err := buildJSON(a, root, []byte(`{"tags":["a","b"]}`), false); err != nil {
		t.Fatal(err)
	}
	names := elementNames(a, root)
	if len(names) != 2 || names[0] != "tags" || names[1] != "tags" {
		t.Fatalf("expected two sibling tags elements, got %v", names)
	}
}

func TestBuildJSONSyntaxView(t *testing.T) {
	a := arena.New()
	root := a.NewElement("File")
	a.Append(a.Root(), root)

	if err := buildJSON(a, root, []byte(`{"n":1}`), true); err != nil {
		t.Fatal(err)
	}
	obj := a.Children(root)[0]
	if a.Name(obj) != "object" {
		t.Fatalf("expected object element, got %s", a.Name(obj))
	}
	prop := a.Children(obj)[0]
	if a.Name(prop) != "property" {
		t.Fatalf("expected property element, got %s", a.Name(prop))
	}
}

func TestBuildYAMLDataView(t *testing.T) {
	a := arena.New()
	root := a.NewElement("File")
	a.Append(a.Root(), root)

	if err := buildYAML(a, root, []byte("foo:\n  bar: baz\n"), false); err != nil {
		t.Fatal(err)
	}
	foo := a.Children(root)[0]
	bar := a.Children(foo)[0]
	text := a.Children(bar)[0]
	if a.Text(text) != "baz" {
		t.Fatalf("expected baz, got %q", a.Text(text))
	}
}

func TestBuildINISections(t *testing.T) {
	a := arena.New()
	root := a.NewElement("File")
	a.Append(a.Root(), root)

	src := "key=value\n[section]\nname=alice\n"
	if err := buildINI(a, root, []byte(src), false); err != nil {
		t.Fatal(err)
	}
	names := elementNames(a, root)
	var hasKey, hasSection bool
	for _, n := range names {
		if n == "key" {
			hasKey = true
		}
		if n == "section" {
			hasSection = true
		}
	}
	if !hasKey || !hasSection {
		t.Fatalf("expected key and section elements, got %v", names)
	}
}

func TestBuildDotenv(t *testing.T) {
	a := arena.New()
	root := a.NewElement("File")
	a.Append(a.Root(), root)

	if err := buildDotenv(a, root, []byte("FOO=bar\n"), false); err != nil {
		t.Fatal(err)
	}
	el := a.Children(root)[0]
	if a.Name(el) != "FOO" {
		t.Fatalf("expected FOO element, got %s", a.Name(el))
	}
}

func TestBuildXMLPassthrough(t *testing.T) {
	a := arena.New()
	root := a.NewElement("File")
	a.Append(a.Root(), root)

	if err := buildXML(a, root, []byte(`<a attr="1"><b>hi</b></a>`), false); err != nil {
		t.Fatal(err)
	}
	aEl := a.Children(root)[0]
	if a.Name(aEl) != "a" {
		t.Fatalf("expected a element, got %s", a.Name(aEl))
	}
	if v, ok := a.Attr(aEl, "attr"); !ok || v != "1" {
		t.Fatalf("expected attr=1, got %q (ok=%v)", v, ok)
	}
	bEl := a.Children(aEl)[0]
	if a.Name(bEl) != "b" {
		t.Fatalf("expected b element, got %s", a.Name(bEl))
	}
	text := a.Children(bEl)[0]
	if a.Text(text) != "hi" {
		t.Fatalf("expected hi, got %q", a.Text(text))
	}
}

func TestSanitizeKey(t *testing.T) {
	cases := map[string]string{
		"foo":        "foo",
		"":           "_",
		"1abc":       "_1abc",
		"first name": "first_name",
		"a.b-c_d":    "a.b-c_d",
	}
	for in, want := range cases {
		got, _ := sanitizeKey(in)
		if got != want {
			t.Errorf("sanitizeKey(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestRegisterAllNoPanics(t *testing.T) {
	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("RegisterAll panicked: %v", r)
		}
	}()
	RegisterAll()
}

func TestSyntaxCategory(t *testing.T) {
	if syntaxCategory("string") != "string" {
		t.Errorf("expected string category")
	}
	if syntaxCategory("object") != "" {
		t.Errorf("expected empty category for object")
	}
	if !strings.Contains("identifier", syntaxCategory("key")) {
		t.Errorf("expected identifier category for key")
	}
}
