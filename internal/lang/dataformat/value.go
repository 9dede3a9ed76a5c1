// Package dataformat registers the structured-data languages that have no
// tree-sitter grammar: JSON, YAML, TOML, INI, .env and the XML pass-through.
// Instead of going through ptree.Parse and internal/builder, each of these
// decodes to a positioned value tree (via the decoder's token or AST API
// where it exposes source positions, or a line scan where it does not) and
// builds the arena subtree from that.
package dataformat

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/oxhq/tractor/internal/arena"
)

// RegisterAll installs every data-format language into the catalog.
func RegisterAll() {
	registerJSON()
	registerYAML()
	registerTOML()
	registerINI()
	registerDotenv()
	registerXML()
}

// Pos is a 1-based (line, column) source position, column counted in
// bytes. The zero value means unknown; elements built from an unknown
// position carry no start/end attributes.
type Pos struct {
	Line, Col int
}

func (p Pos) known() bool { return p.Line > 0 }

func (p Pos) after(o Pos) bool {
	if p.Line != o.Line {
		return p.Line > o.Line
	}
	return p.Col > o.Col
}

// entry is one mapping pair: the key, where the key appears in source,
// and the decoded value.
type entry struct {
	key    string
	keyPos Pos
	val    *val
}

// val is one decoded datum annotated with source positions, the common
// shape every format decoder hands to the view builders.
type val struct {
	start, end Pos
	scalar     any
	entries    []entry // mapping pairs, in source order where known
	items      []*val  // sequence items
	isMap      bool
	isSeq      bool
}

// fromAny converts a position-less decoded value (map[string]any /
// []any / scalar) to a val tree with unknown positions. Mapping keys are
// sorted for determinism since the decoder has already lost source
// order; annotatePositions can recover line positions afterward.
func fromAny(v any) *val {
	if m, ok := asMap(v); ok {
		out := &val{isMap: true}
		for _, k := range sortedKeys(m) {
			out.entries = append(out.entries, entry{key: k, val: fromAny(m[k])})
		}
		return out
	}
	if items, ok := asSlice(v); ok {
		out := &val{isSeq: true}
		for _, item := range items {
			out.items = append(out.items, fromAny(item))
		}
		return out
	}
	return &val{scalar: v}
}

// entryStart is where an entry's element begins: the key when its
// position is known, else the value.
func entryStart(e entry) Pos {
	if e.keyPos.known() {
		return e.keyPos
	}
	if e.val != nil {
		return e.val.start
	}
	return Pos{}
}

func entryEnd(e entry) Pos {
	if e.val != nil && e.val.end.known() {
		return e.val.end
	}
	return entryStart(e)
}

// spanEnd is the furthest end position among v's children, used to close
// container spans when the decoder only positions leaves.
func spanEnd(v *val) Pos {
	end := v.start
	for _, e := range v.entries {
		if p := entryEnd(e); p.after(end) {
			end = p
		}
	}
	for _, item := range v.items {
		if item.end.after(end) {
			end = item.end
		}
	}
	return end
}

// setSpan writes start/end attributes in the builder's "line:col" form.
// Both or neither are written, so the start<=end invariant holds for
// every positioned element.
func setSpan(a *arena.Arena, el arena.Handle, start, end Pos) {
	if !start.known() {
		return
	}
	if !end.known() || start.after(end) {
		end = start
	}
	a.SetAttr(el, "start", fmt.Sprintf("%d:%d", start.Line, start.Col))
	a.SetAttr(el, "end", fmt.Sprintf("%d:%d", end.Line, end.Col))
}

// buildValue renders a val tree under parent using the data view:
// mapping keys become element names, sequence items become siblings
// named after the enclosing key.
func buildValue(a *arena.Arena, parent arena.Handle, v *val) error {
	return fillElement(a, parent, v)
}

func appendKeyed(a *arena.Arena, parent arena.Handle, e entry) error {
	if e.val != nil && e.val.isSeq {
		name := e.key
		if name == "" {
			name = "item"
		}
		for _, item := range e.val.items {
			el := newKeyElement(a, name)
			if item.start.known() {
				setSpan(a, el, item.start, item.end)
			} else {
				// Line-scanned formats position the whole sequence, not
				// its items; every sibling shares the sequence's span.
				setSpan(a, el, e.val.start, e.val.end)
			}
			if err := a.Append(parent, el); err != nil {
				return err
			}
			if err := fillElement(a, el, item); err != nil {
				return err
			}
		}
		return nil
	}

	el := newKeyElement(a, e.key)
	setSpan(a, el, entryStart(e), entryEnd(e))
	if err := a.Append(parent, el); err != nil {
		return err
	}
	return fillElement(a, el, e.val)
}

func fillElement(a *arena.Arena, el arena.Handle, v *val) error {
	if v == nil {
		return nil
	}
	if v.isMap {
		for _, e := range v.entries {
			if err := appendKeyed(a, el, e); err != nil {
				return err
			}
		}
		return nil
	}
	if v.isSeq {
		for _, item := range v.items {
			child := newKeyElement(a, "item")
			setSpan(a, child, item.start, item.end)
			if err := a.Append(el, child); err != nil {
				return err
			}
			if err := fillElement(a, child, item); err != nil {
				return err
			}
		}
		return nil
	}
	text := scalarText(v.scalar)
	if text == "" {
		return nil
	}
	return a.Append(el, a.NewText(text))
}

// buildSyntax renders a val tree under parent using the unified
// object/array/property/key/string/number/bool/null/item vocabulary, the
// same regardless of source format.
func buildSyntax(a *arena.Arena, parent arena.Handle, v *val) error {
	if v == nil {
		return nil
	}
	if v.isMap {
		obj := a.NewElement("object")
		setSpan(a, obj, v.start, v.end)
		if err := a.Append(parent, obj); err != nil {
			return err
		}
		for _, e := range v.entries {
			prop := a.NewElement("property")
			setSpan(a, prop, entryStart(e), entryEnd(e))
			if err := a.Append(obj, prop); err != nil {
				return err
			}
			keyEl := a.NewElement("key")
			if e.keyPos.known() {
				setSpan(a, keyEl, e.keyPos, Pos{Line: e.keyPos.Line, Col: e.keyPos.Col + len(e.key)})
			}
			if err := a.Append(prop, keyEl); err != nil {
				return err
			}
			if err := a.Append(keyEl, a.NewText(e.key)); err != nil {
				return err
			}
			if err := buildSyntax(a, prop, e.val); err != nil {
				return err
			}
		}
		return nil
	}

	if v.isSeq {
		arr := a.NewElement("array")
		setSpan(a, arr, v.start, v.end)
		if err := a.Append(parent, arr); err != nil {
			return err
		}
		for _, item := range v.items {
			itemEl := a.NewElement("item")
			setSpan(a, itemEl, item.start, item.end)
			if err := a.Append(arr, itemEl); err != nil {
				return err
			}
			if err := buildSyntax(a, itemEl, item); err != nil {
				return err
			}
		}
		return nil
	}

	name := "number"
	switch v.scalar.(type) {
	case nil:
		name = "null"
	case string:
		name = "string"
	case bool:
		name = "bool"
	}
	el := a.NewElement(name)
	setSpan(a, el, v.start, v.end)
	if err := a.Append(parent, el); err != nil {
		return err
	}
	if text := scalarText(v.scalar); text != "" {
		return a.Append(el, a.NewText(text))
	}
	return nil
}

// annotatePositions assigns line positions to a position-less val tree
// by scanning the raw source for each key at line starts. This backs the
// formats whose decoders expose no token positions (TOML, INI, .env);
// all three are line-oriented with keys and `[table]` headers at the
// start of a line. Nested keys are searched only on lines below the line
// where their enclosing table was found; a key the scan cannot find is
// left unpositioned rather than guessed.
func annotatePositions(src []byte, v *val) {
	lines := strings.Split(string(src), "\n")
	annotateEntries(lines, v, 0)
}

func annotateEntries(lines []string, v *val, floor int) {
	for i := range v.entries {
		e := &v.entries[i]
		line, col := findKeyLine(lines, e.key, floor)
		if line == 0 {
			continue
		}
		e.keyPos = Pos{Line: line, Col: col}
		lineEnd := Pos{Line: line, Col: len(strings.TrimRight(lines[line-1], "\r")) + 1}
		if e.val == nil {
			continue
		}
		e.val.start = e.keyPos
		e.val.end = lineEnd
		if e.val.isMap {
			annotateEntries(lines, e.val, line)
			if p := spanEnd(e.val); p.after(e.val.end) {
				e.val.end = p
			}
		}
	}
}

// findKeyLine returns the 1-based line and byte column of the first line
// at or after floor whose content starts with key (followed by a
// separator) or with a [key] table header.
func findKeyLine(lines []string, key string, floor int) (int, int) {
	if key == "" {
		return 0, 0
	}
	for i := floor; i < len(lines); i++ {
		raw := strings.TrimRight(lines[i], "\r")
		trimmed := strings.TrimSpace(raw)
		if rest, ok := strings.CutPrefix(trimmed, key); ok {
			if rest == "" || rest[0] == '=' || rest[0] == ':' || rest[0] == ' ' || rest[0] == '\t' {
				return i + 1, strings.Index(raw, key) + 1
			}
		}
		if inner, ok := strings.CutPrefix(trimmed, "["); ok {
			if rest, ok := strings.CutPrefix(inner, key); ok && strings.HasPrefix(rest, "]") {
				return i + 1, strings.Index(raw, key) + 1
			}
		}
	}
	return 0, 0
}

func newKeyElement(a *arena.Arena, key string) arena.Handle {
	sanitized, changed := sanitizeKey(key)
	el := a.NewElement(sanitized)
	if changed {
		a.SetAttr(el, "key", key)
	}
	return el
}

// sanitizeKey makes a mapping key usable as an element name: a leading
// non-letter is prefixed with `_`, any character outside
// alphanumeric/-/./_ becomes `_`, and an empty key becomes `_`.
func sanitizeKey(key string) (string, bool) {
	if key == "" {
		return "_", true
	}
	var b strings.Builder
	for _, r := range key {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '.' || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	sanitized := b.String()
	first, _ := utf8.DecodeRuneInString(sanitized)
	if !unicode.IsLetter(first) {
		sanitized = "_" + sanitized
	}
	return sanitized, sanitized != key
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// asMap normalizes the handful of map shapes decoders may hand back
// (map[string]any, map[any]any with string-ish keys) to map[string]any.
func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[interface{}]interface{}:
		out := make(map[string]any, len(m))
		for k, val := range m {
			out[fmt.Sprint(k)] = val
		}
		return out, true
	default:
		return nil, false
	}
}

func asSlice(v any) ([]any, bool) {
	s, ok := v.([]any)
	return s, ok
}

func scalarText(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case json.Number:
		return val.String()
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'g', -1, 32)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case uint64:
		return strconv.FormatUint(val, 10)
	default:
		return fmt.Sprint(val)
	}
}
