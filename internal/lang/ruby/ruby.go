// Package ruby registers Ruby: extensions, grammar, rewrite table, and
// syntax-highlight categories.
package ruby

import (
	sitter "github.com/smacker/go-tree-sitter"
	tsruby "github.com/smacker/go-tree-sitter/ruby"

	"github.com/oxhq/tractor/internal/lang/catalog"
	"github.com/oxhq/tractor/internal/lang/rules"
)

var rename = map[string]string{
	"program":     "program",
	"method":      "method",
	"class":       "class",
	"module":      "module",
	"if":          "if",
	"unless":      "unless",
	"case":        "case",
	"while":       "while",
	"until":       "until",
	"for":         "for",
	"begin":       "begin",
	"rescue":      "rescue",
	"ensure":      "ensure",
	"call":        "call",
	"method_call": "call",
	"assignment":  "assign",
	"binary":      "binary",
	"string":      "string",
	"integer":     "int",
	"float":       "float",
	"symbol":      "symbol",
	"array":       "array",
	"hash":        "hash",
}

var categories = map[string]string{
	"name": "identifier", "type": "type",
	"string": "string", "int": "number", "float": "number", "symbol": "string",
	"true": "keyword", "false": "keyword", "nil": "keyword",
	"class": "keyword", "module": "keyword", "method": "keyword",
	"if": "keyword", "unless": "keyword", "else": "keyword", "elsif": "keyword",
	"case": "keyword", "when": "keyword",
	"while": "keyword", "until": "keyword", "for": "keyword",
	"begin": "keyword", "rescue": "keyword", "ensure": "keyword", "raise": "keyword",
	"return": "keyword", "break": "keyword", "next": "keyword", "redo": "keyword", "retry": "keyword",
	"yield": "keyword", "def": "keyword", "end": "keyword", "do": "keyword",
	"self": "keyword", "super": "keyword",
	"array": "type", "hash": "type",
	"call": "function",
	"op":   "operator", "binary": "operator", "unary": "operator", "assign": "operator",
	"comment": "comment",
}

func table() *rules.Table {
	return &rules.Table{
		Rename:                rename,
		Flatten:               map[string]bool{"body_statement": true},
		NameWrapperParents:    map[string]bool{"method": true, "class": true, "module": true},
		NameWrapperChildKinds: map[string]bool{"identifier": true},
	}
}

// Register installs Ruby into the catalog.
func Register() {
	tbl := table()
	catalog.Register(catalog.Language{
		ID:         "ruby",
		Aliases:    []string{"rb"},
		Extensions: []string{".rb", ".rake", ".gemspec"},
		Grammar:    func() *sitter.Language { return tsruby.GetLanguage() },
		Transform:  tbl.Func(),
		Category:   func(name string) string { return categories[name] },
	})
}
