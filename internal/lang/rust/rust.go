// Package rust registers Rust: extensions, grammar, rewrite table, and
// syntax-highlight categories.
package rust

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	tsrust "github.com/smacker/go-tree-sitter/rust"

	"github.com/oxhq/tractor/internal/arena"
	"github.com/oxhq/tractor/internal/lang/catalog"
	"github.com/oxhq/tractor/internal/lang/rules"
	"github.com/oxhq/tractor/internal/transform"
)

var rename = map[string]string{
	"source_file":            "file",
	"function_item":          "function",
	"impl_item":              "impl",
	"struct_item":            "struct",
	"enum_item":              "enum",
	"trait_item":             "trait",
	"mod_item":               "mod",
	"use_declaration":        "use",
	"const_item":             "const",
	"static_item":            "static",
	"type_item":              "typedef",
	"parameters":             "params",
	"parameter":              "param",
	"self_parameter":         "self",
	"reference_type":         "ref",
	"generic_type":           "generic",
	"scoped_type_identifier": "path",
	"return_expression":      "return",
	"if_expression":          "if",
	"else_clause":            "else",
	"for_expression":         "for",
	"while_expression":       "while",
	"loop_expression":        "loop",
	"match_expression":       "match",
	"match_arm":              "arm",
	"call_expression":        "call",
	"method_call_expression": "methodcall",
	"field_expression":       "field",
	"index_expression":       "index",
	"binary_expression":      "binary",
	"unary_expression":       "unary",
	"closure_expression":     "closure",
	"await_expression":       "await",
	"try_expression":         "try",
	"macro_invocation":       "macro",
	"string_literal":         "string",
	"raw_string_literal":     "rawstring",
	"integer_literal":        "int",
	"float_literal":          "float",
	"boolean_literal":        "bool",
	"type_identifier":        "type",
	"primitive_type":         "type",
}

var categories = map[string]string{
	"name": "identifier", "type": "type", "field": "identifier",
	"string": "string", "rawstring": "string", "int": "number", "float": "number", "bool": "keyword",
	"function": "keyword", "impl": "keyword", "struct": "keyword", "enum": "keyword",
	"trait": "keyword", "mod": "keyword", "use": "keyword", "const": "keyword", "static": "keyword",
	"typedef": "keyword", "param": "keyword", "params": "keyword", "self": "keyword",
	"pub": "keyword", "mut": "keyword", "async": "keyword", "unsafe": "keyword",
	"if": "keyword", "else": "keyword", "for": "keyword", "while": "keyword", "loop": "keyword",
	"match": "keyword", "arm": "keyword", "return": "keyword", "await": "keyword", "try": "keyword",
	"ref": "type", "generic": "type", "path": "type",
	"call": "function", "methodcall": "function", "macro": "function",
	"op": "operator", "binary": "operator", "unary": "operator",
	"comment": "comment",
}

func table() *rules.Table {
	return &rules.Table{
		Rename:         rename,
		Skip:           map[string]bool{"expression_statement": true},
		Flatten:        map[string]bool{"block": true, "declaration_list": true},
		OperatorHolder: map[string]bool{"binary_expression": true, "unary_expression": true},
		KeywordModifierHolder: map[string]bool{
			"let_declaration": true,
		},
		KeywordModifiers: map[string]bool{"mut": true, "async": true, "unsafe": true, "const": true},
		IdentifierKinds:  map[string]bool{"identifier": true},
		Classify: func(ctx rules.IdentifierContext) string {
			switch ctx.ParentKind {
			case "function_item":
				if ctx.HasNextSibling {
					return "name"
				}
				return "type"
			case "struct_item", "enum_item", "trait_item", "mod_item", "type_item":
				return "name"
			case "let_declaration", "parameter":
				return "name"
			default:
				return "type"
			}
		},
		NameWrapperParents: map[string]bool{
			"function_item": true, "struct_item": true, "enum_item": true,
			"trait_item": true, "mod_item": true, "type_item": true,
		},
		NameWrapperChildKinds: map[string]bool{"identifier": true, "type_identifier": true},
	}
}

// transformFunc wraps the shared table with Rust's one bespoke rewrite:
// visibility_modifier ("pub", "pub(crate)", ...) collapses to a bare
// <pub/> marker, trimming any crate-restriction suffix.
func transformFunc(tbl *rules.Table) transform.Func {
	base := tbl.Func()
	return func(a *arena.Arena, h arena.Handle) transform.Verdict {
		if arena.GetKind(a, h) == "visibility_modifier" {
			text := strings.TrimSpace(arena.GetTextContent(a, h))
			word := text
			if strings.HasPrefix(text, "pub") {
				word = "pub"
			}
			a.Rename(h, word)
			arena.RemoveTextChildren(a, h)
			return transform.Done
		}
		return base(a, h)
	}
}

// Register installs Rust into the catalog.
func Register() {
	tbl := table()
	catalog.Register(catalog.Language{
		ID:         "rust",
		Aliases:    []string{"rs"},
		Extensions: []string{".rs"},
		Grammar:    func() *sitter.Language { return tsrust.GetLanguage() },
		Transform:  transformFunc(tbl),
		Category:   func(name string) string { return categories[name] },
	})
}
