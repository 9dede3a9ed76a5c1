package dataformat

import (
	"bytes"
	"fmt"

	"github.com/goccy/go-yaml/ast"
	"github.com/goccy/go-yaml/parser"

	"github.com/oxhq/tractor/internal/arena"
	"github.com/oxhq/tractor/internal/lang/catalog"
)

// registerYAML installs the YAML data-format language on goccy/go-yaml,
// going through its parser/ast packages rather than yaml.Unmarshal: every
// ast node carries its token's 1-based line/column, which becomes the
// element start/end attributes.
func registerYAML() {
	catalog.Register(catalog.Language{
		ID:         "yaml",
		Aliases:    []string{"yml"},
		Extensions: []string{".yaml", ".yml"},
		Build:      buildYAML,
		Category:   syntaxCategory,
	})
}

func buildYAML(a *arena.Arena, parent arena.Handle, source []byte, raw bool) error {
	if len(bytes.TrimSpace(source)) == 0 {
		return nil
	}
	f, err := parser.ParseBytes(source, 0)
	if err != nil {
		return fmt.Errorf("dataformat: decoding yaml: %w", err)
	}
	if len(f.Docs) == 0 || f.Docs[0].Body == nil {
		return nil
	}
	v := yamlVal(f.Docs[0].Body)
	if raw {
		return buildSyntax(a, parent, v)
	}
	return buildValue(a, parent, v)
}

func yamlVal(n ast.Node) *val {
	if n == nil {
		return &val{}
	}
	switch t := n.(type) {
	case *ast.MappingNode:
		v := &val{isMap: true, start: yamlPos(n)}
		for _, mv := range t.Values {
			v.entries = append(v.entries, yamlEntry(mv))
		}
		v.end = spanEnd(v)
		return v
	case *ast.MappingValueNode:
		// A single-pair mapping parses to a bare MappingValueNode.
		v := &val{isMap: true, start: yamlPos(n)}
		v.entries = append(v.entries, yamlEntry(t))
		v.end = spanEnd(v)
		return v
	case *ast.SequenceNode:
		v := &val{isSeq: true, start: yamlPos(n)}
		for _, item := range t.Values {
			v.items = append(v.items, yamlVal(item))
		}
		v.end = spanEnd(v)
		return v
	default:
		v := &val{start: yamlPos(n), end: yamlScalarEnd(n)}
		if s, ok := n.(ast.ScalarNode); ok {
			v.scalar = s.GetValue()
		} else {
			v.scalar = n.String()
		}
		return v
	}
}

func yamlEntry(mv *ast.MappingValueNode) entry {
	key := ""
	if s, ok := mv.Key.(ast.ScalarNode); ok {
		key = fmt.Sprint(s.GetValue())
	} else if mv.Key != nil {
		key = mv.Key.String()
	}
	return entry{key: key, keyPos: yamlPos(mv.Key), val: yamlVal(mv.Value)}
}

func yamlPos(n ast.Node) Pos {
	if n == nil {
		return Pos{}
	}
	tok := n.GetToken()
	if tok == nil || tok.Position == nil {
		return Pos{}
	}
	return Pos{Line: tok.Position.Line, Col: tok.Position.Column}
}

// yamlScalarEnd is the position one past a scalar's token text. Scalars
// never span lines in the token's Value form goccy reports for plain
// scalars, so advancing the column suffices.
func yamlScalarEnd(n ast.Node) Pos {
	if n == nil {
		return Pos{}
	}
	tok := n.GetToken()
	if tok == nil || tok.Position == nil {
		return Pos{}
	}
	return Pos{Line: tok.Position.Line, Col: tok.Position.Column + len(tok.Value)}
}
