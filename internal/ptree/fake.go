package ptree

// Fake is an in-memory Node implementation used by tests that need a parse
// tree without invoking a real grammar. Language transform tests build
// small Fake trees shaped like the tree-sitter output they are meant to
// rewrite.
type Fake struct {
	kind     string
	named    bool
	start    Point
	end      Point
	startB   int
	endB     int
	children []Child
}

// NewFake constructs a named Fake node spanning the given byte range. Rows
// and columns are 0-based, matching real parser output, so Builder's +1
// conversion is exercised the same way on fakes and real parses.
func NewFake(kind string, startB, endB int, start, end Point) *Fake {
	return &Fake{kind: kind, named: true, start: start, end: end, startB: startB, endB: endB}
}

// Anonymous marks the node as an anonymous (unnamed) token.
func (f *Fake) Anonymous() *Fake {
	f.named = false
	return f
}

// WithChild appends a child under the given field name ("" for none).
func (f *Fake) WithChild(field string, child *Fake) *Fake {
	f.children = append(f.children, Child{Node: child, Field: field})
	return f
}

func (f *Fake) Kind() string      { return f.kind }
func (f *Fake) IsNamed() bool     { return f.named }
func (f *Fake) Start() Point      { return f.start }
func (f *Fake) End() Point        { return f.end }
func (f *Fake) StartByte() int    { return f.startB }
func (f *Fake) EndByte() int      { return f.endB }
func (f *Fake) Children() []Child { return f.children }
