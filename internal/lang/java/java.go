// Package java registers Java: extensions, grammar, rewrite table, and
// syntax-highlight categories.
package java

import (
	sitter "github.com/smacker/go-tree-sitter"
	tsjava "github.com/smacker/go-tree-sitter/java"

	"github.com/oxhq/tractor/internal/lang/catalog"
	"github.com/oxhq/tractor/internal/lang/rules"
)

var rename = map[string]string{
	"program":                        "program",
	"class_declaration":              "class",
	"interface_declaration":          "interface",
	"enum_declaration":               "enum",
	"method_declaration":             "method",
	"constructor_declaration":        "ctor",
	"field_declaration":              "field",
	"formal_parameters":              "params",
	"formal_parameter":               "param",
	"argument_list":                  "args",
	"generic_type":                   "generic",
	"array_type":                     "array",
	"return_statement":               "return",
	"if_statement":                   "if",
	"else_clause":                    "else",
	"for_statement":                  "for",
	"enhanced_for_statement":         "foreach",
	"while_statement":                "while",
	"try_statement":                  "try",
	"catch_clause":                   "catch",
	"finally_clause":                 "finally",
	"throw_statement":                "throw",
	"switch_expression":              "switch",
	"switch_block_statement_group":   "case",
	"method_invocation":              "call",
	"object_creation_expression":     "new",
	"field_access":                   "member",
	"array_access":                   "index",
	"assignment_expression":          "assign",
	"binary_expression":              "binary",
	"unary_expression":               "unary",
	"ternary_expression":             "ternary",
	"lambda_expression":              "lambda",
	"string_literal":                 "string",
	"decimal_integer_literal":        "int",
	"decimal_floating_point_literal": "float",
	"true":                           "true",
	"false":                          "false",
	"null_literal":                   "null",
	"import_declaration":             "import",
	"package_declaration":            "package",
}

var modifiers = map[string]bool{
	"public": true, "private": true, "protected": true,
	"static": true, "final": true, "abstract": true, "synchronized": true,
	"volatile": true, "transient": true, "native": true, "strictfp": true,
}

var categories = map[string]string{
	"name": "identifier", "type": "type",
	"string": "string", "int": "number", "float": "number",
	"true": "keyword", "false": "keyword", "null": "keyword",
	"class": "keyword", "interface": "keyword", "enum": "keyword",
	"method": "keyword", "ctor": "keyword", "field": "keyword",
	"param": "keyword", "params": "keyword",
	"import": "keyword", "package": "keyword",
	"if": "keyword", "else": "keyword",
	"for": "keyword", "foreach": "keyword", "while": "keyword", "do": "keyword",
	"switch": "keyword", "case": "keyword",
	"try": "keyword", "catch": "keyword", "finally": "keyword", "throw": "keyword",
	"return": "keyword", "break": "keyword", "continue": "keyword",
	"public": "keyword", "private": "keyword", "protected": "keyword",
	"static": "keyword", "final": "keyword", "abstract": "keyword", "synchronized": "keyword",
	"volatile": "keyword", "transient": "keyword", "native": "keyword", "strictfp": "keyword",
	"new": "keyword", "this": "keyword", "super": "keyword",
	"generic": "type", "array": "type",
	"call": "function", "lambda": "function",
	"op": "operator", "binary": "operator", "unary": "operator",
	"assign": "operator", "ternary": "operator",
	"comment": "comment",
}

func table() *rules.Table {
	return &rules.Table{
		Rename:          rename,
		Skip:            map[string]bool{"expression_statement": true},
		Flatten:         map[string]bool{"class_body": true, "interface_body": true, "block": true},
		ModifierWrapper: map[string]bool{"modifiers": true},
		ModifierWords:   modifiers,
		OperatorHolder:  map[string]bool{"binary_expression": true, "unary_expression": true, "assignment_expression": true},
		IdentifierKinds: map[string]bool{"identifier": true},
		Classify: func(ctx rules.IdentifierContext) string {
			switch ctx.ParentKind {
			case "method_declaration", "constructor_declaration":
				if ctx.HasNextSibling {
					return "name"
				}
				return "type"
			case "class_declaration", "interface_declaration", "enum_declaration":
				return "name"
			case "variable_declarator", "formal_parameter":
				return "name"
			default:
				return "type"
			}
		},
		NameWrapperParents: map[string]bool{
			"class_declaration": true, "interface_declaration": true, "enum_declaration": true,
			"method_declaration": true, "constructor_declaration": true,
		},
		NameWrapperChildKinds: map[string]bool{"identifier": true},
	}
}

// Register installs Java into the catalog.
func Register() {
	tbl := table()
	catalog.Register(catalog.Language{
		ID:         "java",
		Extensions: []string{".java"},
		Grammar:    func() *sitter.Language { return tsjava.GetLanguage() },
		Transform:  tbl.Func(),
		Category:   func(name string) string { return categories[name] },
	})
}
