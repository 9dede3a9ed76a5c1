// Package golang registers the Go language: extensions, grammar, rewrite
// table, and syntax-highlight categories.
package golang

import (
	sitter "github.com/smacker/go-tree-sitter"
	tsgo "github.com/smacker/go-tree-sitter/golang"

	"github.com/oxhq/tractor/internal/lang/catalog"
	"github.com/oxhq/tractor/internal/lang/rules"
)

var rename = map[string]string{
	"source_file":                "file",
	"package_clause":              "package",
	"function_declaration":        "function",
	"method_declaration":          "method",
	"type_declaration":            "typedef",
	"type_spec":                   "typespec",
	"struct_type":                 "struct",
	"interface_type":              "interface",
	"const_declaration":           "const",
	"var_declaration":             "var",
	"parameter_list":              "params",
	"parameter_declaration":       "param",
	"pointer_type":                "pointer",
	"slice_type":                  "slice",
	"map_type":                    "map",
	"channel_type":                "chan",
	"return_statement":            "return",
	"if_statement":                "if",
	"else_clause":                 "else",
	"for_statement":               "for",
	"range_clause":                "range",
	"switch_statement":            "switch",
	"case_clause":                 "case",
	"default_case":                "default",
	"defer_statement":             "defer",
	"go_statement":                "go",
	"select_statement":            "select",
	"call_expression":             "call",
	"selector_expression":         "member",
	"index_expression":            "index",
	"composite_literal":           "literal",
	"binary_expression":           "binary",
	"unary_expression":            "unary",
	"interpreted_string_literal":  "string",
	"raw_string_literal":          "rawstring",
	"int_literal":                 "int",
	"float_literal":               "float",
	"true":                       "true",
	"false":                      "false",
	"nil":                        "nil",
	"field_identifier":            "field",
	"package_identifier":          "pkg",
	"type_identifier":             "type",
}

var categories = map[string]string{
	"name": "identifier", "field": "identifier", "pkg": "identifier",
	"string": "string", "rawstring": "string",
	"int": "number", "float": "number",
	"true": "keyword", "false": "keyword", "nil": "keyword",
	"function": "keyword", "method": "keyword",
	"struct": "keyword", "interface": "keyword",
	"typedef": "keyword", "typespec": "keyword",
	"const": "keyword", "var": "keyword", "package": "keyword",
	"param": "keyword", "params": "keyword",
	"if": "keyword", "else": "keyword", "for": "keyword", "range": "keyword",
	"switch": "keyword", "case": "keyword", "default": "keyword",
	"select": "keyword", "return": "keyword", "break": "keyword",
	"continue": "keyword", "goto": "keyword", "defer": "keyword", "go": "keyword",
	"pointer": "type", "slice": "type", "map": "type", "chan": "type", "type": "type",
	"call": "function",
	"op":   "operator", "binary": "operator", "unary": "operator",
	"comment": "comment",
}

func table() *rules.Table {
	return &rules.Table{
		Rename:         rename,
		Skip:           map[string]bool{"expression_statement": true},
		Flatten:        map[string]bool{"block": true},
		OperatorHolder: map[string]bool{"binary_expression": true, "unary_expression": true},
		IdentifierKinds: map[string]bool{"identifier": true},
		Classify: func(ctx rules.IdentifierContext) string {
			switch ctx.ParentKind {
			case "function_declaration", "method_declaration", "type_spec",
				"parameter_declaration", "var_spec", "const_spec":
				return "name"
			default:
				return "type"
			}
		},
		NameWrapperParents: map[string]bool{
			"function_declaration": true, "method_declaration": true, "type_spec": true,
		},
		NameWrapperChildKinds: map[string]bool{"identifier": true, "type_identifier": true},
	}
}

// Register installs Go into the catalog.
func Register() {
	tbl := table()
	catalog.Register(catalog.Language{
		ID:         "go",
		Aliases:    []string{"golang"},
		Extensions: []string{".go"},
		Grammar:    func() *sitter.Language { return tsgo.GetLanguage() },
		Transform:  tbl.Func(),
		Category:   func(name string) string { return categories[name] },
	})
}
