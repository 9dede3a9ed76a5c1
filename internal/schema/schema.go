// Package schema aggregates the set of distinct ancestor-name paths seen
// across one or many subtrees, annotated with occurrence counts and a
// capped sample of distinct text values, rendered as a box-drawing
// indented tree for the `schema` output format.
package schema

import (
	"fmt"
	"sort"
	"strings"

	"github.com/oxhq/tractor/internal/arena"
)

// DefaultSampleCap is the number of distinct text values kept per path
// when --schema-samples is not given.
const DefaultSampleCap = 3

// pathNode is one node of the path trie: every distinct path from a root to
// some element is a walk from the collector's synthetic root down through
// pathNodes named after each ancestor.
type pathNode struct {
	name     string
	count    int
	samples  []string
	sampleOK map[string]bool
	children map[string]*pathNode
	order    []string // insertion order of children, for stable rendering
}

func newPathNode(name string) *pathNode {
	return &pathNode{name: name, children: make(map[string]*pathNode), sampleOK: make(map[string]bool)}
}

func (p *pathNode) child(name string) *pathNode {
	if c, ok := p.children[name]; ok {
		return c
	}
	c := newPathNode(name)
	p.children[name] = c
	p.order = append(p.order, name)
	return c
}

// Collector accumulates ancestor-paths across any number of Collect calls,
// possibly from different files or workers (see Merge).
type Collector struct {
	root      *pathNode
	sampleCap int
}

// New creates an empty Collector. sampleCap <= 0 uses DefaultSampleCap.
func New(sampleCap int) *Collector {
	if sampleCap <= 0 {
		sampleCap = DefaultSampleCap
	}
	return &Collector{root: newPathNode(""), sampleCap: sampleCap}
}

// Collect walks h's subtree (h included), recording one path occurrence
// per element and up to sampleCap distinct text values observed at that
// path.
func (c *Collector) Collect(a *arena.Arena, h arena.Handle) {
	c.walk(a, h, c.root)
}

func (c *Collector) walk(a *arena.Arena, h arena.Handle, parent *pathNode) {
	switch a.Kind(h) {
	case arena.KindElement:
		node := parent.child(a.Name(h))
		node.count++
		if text := directText(a, h); text != "" {
			c.addSample(node, text)
		}
		for _, ch := range a.Children(h) {
			c.walk(a, ch, node)
		}
	case arena.KindDocument:
		for _, ch := range a.Children(h) {
			c.walk(a, ch, parent)
		}
	default:
		// Text/Comment/PI nodes contribute sample values to their parent
		// element's path node (handled via directText above) but are not
		// themselves path segments.
	}
}

func directText(a *arena.Arena, h arena.Handle) string {
	var sb strings.Builder
	for _, c := range a.Children(h) {
		if a.Kind(c) == arena.KindText {
			sb.WriteString(a.Text(c))
		}
	}
	return sb.String()
}

func (c *Collector) addSample(node *pathNode, text string) {
	if node.sampleOK[text] {
		return
	}
	if len(node.samples) >= c.sampleCap {
		return
	}
	node.sampleOK[text] = true
	node.samples = append(node.samples, text)
}

// Merge folds other into c, summing counts and merging sample sets up to
// the cap. Safe across workers because collectors hold only strings and
// counts, never arena handles.
func (c *Collector) Merge(other *Collector) {
	mergeNode(c.root, other.root, c.sampleCap)
}

func mergeNode(dst, src *pathNode, cap int) {
	dst.count += src.count
	for _, text := range src.samples {
		if dst.sampleOK[text] {
			continue
		}
		if len(dst.samples) >= cap {
			continue
		}
		dst.sampleOK[text] = true
		dst.samples = append(dst.samples, text)
	}
	for _, name := range src.order {
		srcChild := src.children[name]
		dstChild := dst.child(name)
		mergeNode(dstChild, srcChild, cap)
	}
}

// Render renders the collected paths as an indented box-drawing tree,
// truncating any branch deeper than maxDepth with a "... (N more)"
// summary. maxDepth <= 0 means unlimited.
func (c *Collector) Render(maxDepth int) string {
	var sb strings.Builder
	names := sortedNames(c.root)
	for i, name := range names {
		last := i == len(names)-1
		renderNode(&sb, c.root.children[name], "", last, 1, maxDepth)
	}
	return sb.String()
}

func sortedNames(p *pathNode) []string {
	names := append([]string(nil), p.order...)
	sort.Strings(names)
	return names
}

func renderNode(sb *strings.Builder, n *pathNode, prefix string, last bool, depth, maxDepth int) {
	connector := "├── "
	nextPrefix := prefix + "│   "
	if last {
		connector = "└── "
		nextPrefix = prefix + "    "
	}

	fmt.Fprintf(sb, "%s%s%s (%d)", prefix, connector, n.name, n.count)
	if len(n.samples) > 0 {
		fmt.Fprintf(sb, " [%s]", strings.Join(n.samples, ", "))
	}
	sb.WriteString("\n")

	if maxDepth > 0 && depth >= maxDepth && len(n.order) > 0 {
		remaining := countDescendantPaths(n)
		fmt.Fprintf(sb, "%s└── ... (%d more)\n", nextPrefix, remaining)
		return
	}

	names := sortedNames(n)
	for i, name := range names {
		renderNode(sb, n.children[name], nextPrefix, i == len(names)-1, depth+1, maxDepth)
	}
}

func countDescendantPaths(n *pathNode) int {
	total := 0
	for _, name := range n.order {
		child := n.children[name]
		total++
		total += countDescendantPaths(child)
	}
	return total
}
