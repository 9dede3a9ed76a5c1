// Package replacer performs position-anchored textual replacement of
// Match ranges back into their source files, writing through a temp file
// and rename. No cross-process file locking: one tractor invocation owns
// the files it edits for its whole run.
package replacer

import (
	"fmt"
	"os"
	"sort"

	"github.com/oxhq/tractor/internal/srcutil"
	"github.com/oxhq/tractor/internal/xpathbridge"
)

// StdinPath is the file path Match records carry for stdin-sourced
// input; Replace rejects any match with this path since there is no file
// to write.
const StdinPath = "<stdin>"

// Summary reports what Replace actually did.
type Summary struct {
	FilesChanged []string
	Warnings     []string
}

// ReadFile abstracts file reads so tests can supply in-memory content
// without touching disk.
type ReadFile func(path string) ([]byte, error)

// WriteFile abstracts the atomic write-back so tests can observe it without
// touching disk.
type WriteFile func(path string, content []byte) error

// Replace edits every file named by matches, splicing replacement in
// place of each match's byte range. Matches are grouped by file, sorted,
// deduplicated, and overlap-checked before any byte moves.
func Replace(matches []xpathbridge.Match, replacement string) (*Summary, error) {
	return replace(matches, replacement, osRead, osWrite)
}

func osRead(path string) ([]byte, error) { return os.ReadFile(path) }

func osWrite(path string, content []byte) error {
	info, err := os.Stat(path)
	mode := os.FileMode(0o644)
	if err == nil {
		mode = info.Mode()
	}
	return writeFileAtomic(path, content, mode)
}

func replace(matches []xpathbridge.Match, replacement string, read ReadFile, write WriteFile) (*Summary, error) {
	byFile := make(map[string][]xpathbridge.Match)
	var order []string
	for _, m := range matches {
		if m.File == StdinPath {
			return nil, fmt.Errorf("replacer: cannot replace matches from %s: no file to write", StdinPath)
		}
		if _, seen := byFile[m.File]; !seen {
			order = append(order, m.File)
		}
		byFile[m.File] = append(byFile[m.File], m)
	}

	summary := &Summary{}
	for _, file := range order {
		ms := dedupe(sortMatches(byFile[file]))
		if err := detectOverlap(file, ms); err != nil {
			return nil, err
		}

		original, err := read(file)
		if err != nil {
			return nil, fmt.Errorf("replacer: reading %s: %w", file, err)
		}
		src := srcutil.New(original)

		updated, warnings := splice(src, original, ms, replacement)
		summary.Warnings = append(summary.Warnings, warnings...)

		if string(updated) == string(original) {
			continue
		}
		if err := write(file, updated); err != nil {
			return nil, fmt.Errorf("replacer: writing %s: %w", file, err)
		}
		summary.FilesChanged = append(summary.FilesChanged, file)
	}
	return summary, nil
}

func sortMatches(ms []xpathbridge.Match) []xpathbridge.Match {
	out := append([]xpathbridge.Match(nil), ms...)
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.StartLine != b.StartLine {
			return a.StartLine < b.StartLine
		}
		return a.StartCol < b.StartCol
	})
	return out
}

func dedupe(ms []xpathbridge.Match) []xpathbridge.Match {
	var out []xpathbridge.Match
	for i, m := range ms {
		if i > 0 && sameRange(ms[i-1], m) {
			continue
		}
		out = append(out, m)
	}
	return out
}

func sameRange(a, b xpathbridge.Match) bool {
	return a.StartLine == b.StartLine && a.StartCol == b.StartCol &&
		a.EndLine == b.EndLine && a.EndCol == b.EndCol
}

// detectOverlap fails when one match's end comes after the next match's
// start in document order.
func detectOverlap(file string, ms []xpathbridge.Match) error {
	for i := 1; i < len(ms); i++ {
		prev, cur := ms[i-1], ms[i]
		if after(prev.EndLine, prev.EndCol, cur.StartLine, cur.StartCol) {
			return fmt.Errorf(
				"replacer: overlapping matches in %s: %d:%d..%d:%d overlaps %d:%d..%d:%d",
				file, prev.StartLine, prev.StartCol, prev.EndLine, prev.EndCol,
				cur.StartLine, cur.StartCol, cur.EndLine, cur.EndCol,
			)
		}
	}
	return nil
}

func after(line1, col1, line2, col2 int) bool {
	if line1 != line2 {
		return line1 > line2
	}
	return col1 > col2
}

// splice builds the new file content in a single pass: unchanged bytes
// before each match, the replacement, then the remainder. Out-of-bounds
// matches are skipped with a warning rather than aborting the whole
// file.
func splice(src *srcutil.Source, original []byte, ms []xpathbridge.Match, replacement string) ([]byte, []string) {
	var out []byte
	var warnings []string
	lastEnd := 0

	for _, m := range ms {
		start, ok1 := src.ToByte(m.StartLine, m.StartCol)
		end, ok2 := src.ToByte(m.EndLine, m.EndCol)
		if !ok1 || !ok2 || start < lastEnd || end > len(original) || start > end {
			warnings = append(warnings, fmt.Sprintf(
				"replacer: skipping out-of-bounds match %s:%d:%d..%d:%d",
				m.File, m.StartLine, m.StartCol, m.EndLine, m.EndCol))
			continue
		}
		out = append(out, original[lastEnd:start]...)
		out = append(out, replacement...)
		lastEnd = end
	}
	out = append(out, original[lastEnd:]...)
	return out, warnings
}
