package dataformat

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/oxhq/tractor/internal/arena"
	"github.com/oxhq/tractor/internal/lang/catalog"
	"github.com/oxhq/tractor/internal/srcutil"
)

// registerXML installs the XML pass-through language. Unlike the other
// data-format languages, XML is already hierarchical with named elements, so
// there's no syntax/data view split to make; the parsed document mirrors
// 1:1 into the arena via encoding/xml.Decoder tokens, with
// Decoder.InputOffset() supplying each element's start/end positions.
func registerXML() {
	catalog.Register(catalog.Language{
		ID:         "xml",
		Extensions: []string{".xml"},
		Build:      buildXML,
		Category:   func(string) string { return "" },
	})
}

func buildXML(a *arena.Arena, parent arena.Handle, source []byte, _ bool) error {
	s := srcutil.New(source)
	dec := xml.NewDecoder(bytes.NewReader(source))
	stack := []arena.Handle{parent}

	for {
		before := int(dec.InputOffset())
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("dataformat: decoding xml: %w", err)
		}
		after := int(dec.InputOffset())

		top := stack[len(stack)-1]
		switch t := tok.(type) {
		case xml.StartElement:
			el := a.NewElement(t.Name.Local)
			for _, attr := range t.Attr {
				a.SetAttr(el, attr.Name.Local, attr.Value)
			}
			// The '<' of the open tag sits somewhere in [before, after);
			// only whitespace and preceding character data come first.
			if idx := bytes.IndexByte(source[before:after], '<'); idx >= 0 {
				line, col := s.ToLineCol(before + idx)
				a.SetAttr(el, "start", fmt.Sprintf("%d:%d", line, col))
			}
			if err := a.Append(top, el); err != nil {
				return err
			}
			stack = append(stack, el)
		case xml.EndElement:
			if len(stack) > 1 {
				line, col := s.ToLineCol(after)
				a.SetAttr(top, "end", fmt.Sprintf("%d:%d", line, col))
				stack = stack[:len(stack)-1]
			}
		case xml.CharData:
			if text := strings.TrimSpace(string(t)); text != "" {
				if err := a.Append(top, a.NewText(text)); err != nil {
					return err
				}
			}
		case xml.Comment:
			if err := a.Append(top, a.NewComment(string(t))); err != nil {
				return err
			}
		case xml.ProcInst:
			if err := a.Append(top, a.NewPI(t.Target, string(t.Inst))); err != nil {
				return err
			}
		}
	}
	return nil
}
