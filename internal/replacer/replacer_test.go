package replacer

import (
	"testing"

	"github.com/oxhq/tractor/internal/xpathbridge"
)

func fakeIO(files map[string]string) (ReadFile, WriteFile, map[string]string) {
	written := make(map[string]string)
	read := func(path string) ([]byte, error) { return []byte(files[path]), nil }
	write := func(path string, content []byte) error {
		written[path] = string(content)
		return nil
	}
	return read, write, written
}

func TestReplaceNonOverlapping(t *testing.T) {
	files := map[string]string{"a.go": "let x = 1;\nlet y = 2;\n"}
	read, write, written := fakeIO(files)

	matches := []xpathbridge.Match{
		{File: "a.go", StartLine: 1, StartCol: 5, EndLine: 1, EndCol: 6},
		{File: "a.go", StartLine: 2, StartCol: 5, EndLine: 2, EndCol: 6},
	}
	summary, err := replace(matches, "renamed", read, write)
	if err != nil {
		t.Fatal(err)
	}
	if len(summary.FilesChanged) != 1 {
		t.Fatalf("expected 1 file changed, got %v", summary.FilesChanged)
	}
	want := "let renamed = 1;\nlet renamed = 2;\n"
	if written["a.go"] != want {
		t.Errorf("got %q, want %q", written["a.go"], want)
	}
}

func TestReplaceOverlapErrors(t *testing.T) {
	files := map[string]string{"a.go": "abcdef"}
	read, write, _ := fakeIO(files)

	matches := []xpathbridge.Match{
		{File: "a.go", StartLine: 1, StartCol: 1, EndLine: 1, EndCol: 4},
		{File: "a.go", StartLine: 1, StartCol: 3, EndLine: 1, EndCol: 6},
	}
	if _, err := replace(matches, "X", read, write); err == nil {
		t.Fatal("expected overlap error")
	}
}

func TestReplaceDedupesExactDuplicates(t *testing.T) {
	files := map[string]string{"a.go": "abcdef"}
	read, write, written := fakeIO(files)

	matches := []xpathbridge.Match{
		{File: "a.go", StartLine: 1, StartCol: 1, EndLine: 1, EndCol: 4},
		{File: "a.go", StartLine: 1, StartCol: 1, EndLine: 1, EndCol: 4},
	}
	summary, err := replace(matches, "XYZ", read, write)
	if err != nil {
		t.Fatal(err)
	}
	if written["a.go"] != "XYZdef" {
		t.Errorf("got %q", written["a.go"])
	}
	_ = summary
}

func TestReplaceRejectsStdin(t *testing.T) {
	matches := []xpathbridge.Match{{File: StdinPath, StartLine: 1, StartCol: 1, EndLine: 1, EndCol: 1}}
	read, write, _ := fakeIO(nil)
	if _, err := replace(matches, "x", read, write); err == nil {
		t.Fatal("expected stdin rejection error")
	}
}

func TestReplaceNoOpWhenUnchanged(t *testing.T) {
	files := map[string]string{"a.go": "abcdef"}
	read, write, written := fakeIO(files)

	matches := []xpathbridge.Match{{File: "a.go", StartLine: 1, StartCol: 1, EndLine: 1, EndCol: 4}}
	summary, err := replace(matches, "abc", read, write)
	if err != nil {
		t.Fatal(err)
	}
	if len(summary.FilesChanged) != 0 {
		t.Errorf("expected no-op, got %v", summary.FilesChanged)
	}
	if _, ok := written["a.go"]; ok {
		t.Errorf("expected no write for unchanged content")
	}
}
