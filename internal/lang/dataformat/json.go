package dataformat

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/oxhq/tractor/internal/arena"
	"github.com/oxhq/tractor/internal/lang/catalog"
	"github.com/oxhq/tractor/internal/srcutil"
)

// registerJSON installs the JSON data-format language. Decoding walks
// json.Decoder.Token() rather than Unmarshal: InputOffset() after each
// token gives the byte position every element's start/end attributes are
// derived from, and the token stream preserves key order.
func registerJSON() {
	catalog.Register(catalog.Language{
		ID:         "json",
		Extensions: []string{".json"},
		Build:      buildJSON,
		Category:   syntaxCategory,
	})
}

func buildJSON(a *arena.Arena, parent arena.Handle, source []byte, raw bool) error {
	v, err := decodeJSON(source)
	if err != nil {
		return fmt.Errorf("dataformat: decoding json: %w", err)
	}
	if raw {
		return buildSyntax(a, parent, v)
	}
	return buildValue(a, parent, v)
}

type jsonDecoder struct {
	dec *json.Decoder
	src []byte
	s   *srcutil.Source
}

func decodeJSON(source []byte) (*val, error) {
	if len(bytes.TrimSpace(source)) == 0 {
		return nil, nil
	}
	d := &jsonDecoder{
		dec: json.NewDecoder(bytes.NewReader(source)),
		src: source,
		s:   srcutil.New(source),
	}
	// UseNumber keeps the literal text of numbers instead of a float64
	// round-trip.
	d.dec.UseNumber()
	tok, start, end, err := d.next()
	if err != nil {
		return nil, err
	}
	return d.value(tok, start, end)
}

// next reads one token and returns its byte range. InputOffset before
// the read marks the end of the previous token; only whitespace and the
// structural ':'/',' separators can sit between tokens, so skipping them
// lands exactly on the token's first byte.
func (d *jsonDecoder) next() (json.Token, int, int, error) {
	before := int(d.dec.InputOffset())
	tok, err := d.dec.Token()
	if err != nil {
		return nil, 0, 0, err
	}
	end := int(d.dec.InputOffset())
	start := before
	for start < end && isJSONFiller(d.src[start]) {
		start++
	}
	return tok, start, end, nil
}

func isJSONFiller(b byte) bool {
	switch b {
	case ' ', '\t', '\r', '\n', ',', ':':
		return true
	default:
		return false
	}
}

func (d *jsonDecoder) pos(offset int) Pos {
	line, col := d.s.ToLineCol(offset)
	return Pos{Line: line, Col: col}
}

func (d *jsonDecoder) value(tok json.Token, start, end int) (*val, error) {
	if delim, ok := tok.(json.Delim); ok {
		switch delim {
		case '{':
			v := &val{isMap: true, start: d.pos(start)}
			for {
				ktok, kstart, kend, err := d.next()
				if err != nil {
					return nil, err
				}
				if closer, ok := ktok.(json.Delim); ok && closer == '}' {
					v.end = d.pos(kend)
					return v, nil
				}
				key, _ := ktok.(string)
				keyPos := d.pos(kstart)
				vtok, vstart, vend, err := d.next()
				if err != nil {
					return nil, err
				}
				child, err := d.value(vtok, vstart, vend)
				if err != nil {
					return nil, err
				}
				v.entries = append(v.entries, entry{key: key, keyPos: keyPos, val: child})
			}
		case '[':
			v := &val{isSeq: true, start: d.pos(start)}
			for {
				itok, istart, iend, err := d.next()
				if err != nil {
					return nil, err
				}
				if closer, ok := itok.(json.Delim); ok && closer == ']' {
					v.end = d.pos(iend)
					return v, nil
				}
				item, err := d.value(itok, istart, iend)
				if err != nil {
					return nil, err
				}
				v.items = append(v.items, item)
			}
		}
		return nil, fmt.Errorf("unexpected delimiter %v", delim)
	}
	return &val{scalar: tok, start: d.pos(start), end: d.pos(end)}, nil
}
