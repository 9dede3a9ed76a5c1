package transform

import (
	"testing"

	"github.com/oxhq/tractor/internal/arena"
)

// buildTree builds root(a(b, c)) and returns the handles.
func buildTree(a *arena.Arena) (root, nodeA, nodeB, nodeC arena.Handle) {
	root = a.NewElement("root")
	_ = a.Append(a.Root(), root)
	nodeA = a.NewElement("a")
	_ = a.Append(root, nodeA)
	nodeB = a.NewElement("b")
	_ = a.Append(nodeA, nodeB)
	nodeC = a.NewElement("c")
	_ = a.Append(nodeA, nodeC)
	return
}

func TestContinueDescendsIntoSnapshottedChildrenOnly(t *testing.T) {
	a := arena.New()
	root, nodeA, _, _ := buildTree(a)

	var visited []string
	Walk(a, root, func(a *arena.Arena, n arena.Handle) Verdict {
		if n == nodeA {
			// Mutate during fn: append a new child "d". Because the walker
			// snapshots children before calling fn, this mutation is only
			// observed by a re-read of a.Children, not by the snapshot
			// used for descent; "d" must NOT be visited by this Walk.
			d := a.NewElement("d")
			_ = a.Append(nodeA, d)
		}
		visited = append(visited, arena.GetElementName(a, n))
		return Continue
	})

	want := []string{"root", "a", "b", "c"}
	if len(visited) != len(want) {
		t.Fatalf("visited = %v, want %v", visited, want)
	}
	for i, name := range want {
		if visited[i] != name {
			t.Fatalf("visited[%d] = %q, want %q (full: %v)", i, visited[i], name, visited)
		}
	}
}

func TestSkipSplicesChildrenAndStillDescends(t *testing.T) {
	a := arena.New()
	root, nodeA, nodeB, nodeC := buildTree(a)

	var visited []string
	Walk(a, root, func(a *arena.Arena, n arena.Handle) Verdict {
		visited = append(visited, arena.GetElementName(a, n))
		if n == nodeA {
			return Skip
		}
		return Continue
	})

	want := []string{"root", "a", "b", "c"}
	if len(visited) != len(want) {
		t.Fatalf("visited = %v, want %v", visited, want)
	}
	for i, name := range want {
		if visited[i] != name {
			t.Fatalf("visited[%d] = %q, want %q (full: %v)", i, visited[i], name, visited)
		}
	}

	children := a.Children(root)
	if len(children) != 2 || children[0] != nodeB || children[1] != nodeC {
		t.Fatalf("expected b,c spliced directly under root, got %v", children)
	}
}

func TestFlattenBehavesLikeSkip(t *testing.T) {
	a := arena.New()
	root, nodeA, nodeB, nodeC := buildTree(a)

	Walk(a, root, func(a *arena.Arena, n arena.Handle) Verdict {
		if n == nodeA {
			return Flatten
		}
		return Continue
	})

	children := a.Children(root)
	if len(children) != 2 || children[0] != nodeB || children[1] != nodeC {
		t.Fatalf("expected b,c spliced directly under root, got %v", children)
	}
}

func TestDonePreventsFurtherDescent(t *testing.T) {
	a := arena.New()
	root, nodeA, _, _ := buildTree(a)

	var visited []string
	Walk(a, root, func(a *arena.Arena, n arena.Handle) Verdict {
		visited = append(visited, arena.GetElementName(a, n))
		if n == nodeA {
			return Done
		}
		return Continue
	})

	want := []string{"root", "a"}
	if len(visited) != len(want) {
		t.Fatalf("visited = %v, want %v (Done must stop descent into a's subtree)", visited, want)
	}
	for i, name := range want {
		if visited[i] != name {
			t.Fatalf("visited[%d] = %q, want %q", i, visited[i], name)
		}
	}
}

func TestWalkIgnoresNonElementNodes(t *testing.T) {
	a := arena.New()
	root := a.NewElement("root")
	_ = a.Append(a.Root(), root)
	txt := a.NewText("hello")
	_ = a.Append(root, txt)

	count := 0
	Walk(a, root, func(a *arena.Arena, n arena.Handle) Verdict {
		count++
		return Continue
	})

	if count != 1 {
		t.Fatalf("expected Walk to call fn only for the Element, got %d calls", count)
	}
}
