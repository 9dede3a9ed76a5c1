package orchestrate

import (
	"strconv"
	"strings"

	"github.com/oxhq/tractor/internal/xpathbridge"
)

// Expectation is the parsed form of `-e/--expect`: "none", "some", or an
// exact integer count.
type Expectation struct {
	Kind  ExpectKind
	Count int
}

type ExpectKind int

const (
	ExpectNone ExpectKind = iota
	ExpectSome
	ExpectCount
)

// ParseExpectation parses `-e/--expect`'s value.
func ParseExpectation(val string) (Expectation, bool) {
	switch strings.ToLower(strings.TrimSpace(val)) {
	case "none":
		return Expectation{Kind: ExpectNone}, true
	case "some":
		return Expectation{Kind: ExpectSome}, true
	default:
		n, err := strconv.Atoi(val)
		if err != nil || n < 0 {
			return Expectation{}, false
		}
		return Expectation{Kind: ExpectCount, Count: n}, true
	}
}

// Satisfied reports whether the expectation holds for the given match count.
func (e Expectation) Satisfied(count int) bool {
	switch e.Kind {
	case ExpectNone:
		return count == 0
	case ExpectSome:
		return count > 0
	default:
		return count == e.Count
	}
}

// ExpectResult is the outcome of evaluating an expectation against the
// full set of matches. A failed expectation prints the offending matches
// via the GCC formatter.
type ExpectResult struct {
	Satisfied bool
	Matches   []xpathbridge.Match
	Glyph     string
}

// Evaluate checks matches against an expectation. warningMode is `--warning`
// (failure still exits 0).
func Evaluate(exp Expectation, matches []xpathbridge.Match, warningMode bool) ExpectResult {
	ok := exp.Satisfied(len(matches))
	glyph := "✓"
	if !ok {
		if warningMode {
			glyph = "⚠"
		} else {
			glyph = "✗"
		}
	}
	return ExpectResult{Satisfied: ok, Matches: matches, Glyph: glyph}
}

// ExitCode returns the process exit code for an expectation result:
// 0 on success or on failure under --warning, non-zero otherwise.
func (r ExpectResult) ExitCode(warningMode bool) int {
	if r.Satisfied || warningMode {
		return 0
	}
	return 1
}
