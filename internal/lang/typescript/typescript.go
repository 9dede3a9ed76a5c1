// Package typescript registers TypeScript and JavaScript as one shared
// transform vocabulary, differing only in grammar and extensions.
package typescript

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	tstypescript "github.com/smacker/go-tree-sitter/typescript/typescript"

	"github.com/oxhq/tractor/internal/lang/catalog"
	"github.com/oxhq/tractor/internal/lang/rules"
)

var rename = map[string]string{
	"program":                 "program",
	"class_declaration":       "class",
	"function_declaration":    "function",
	"method_definition":       "method",
	"arrow_function":          "lambda",
	"interface_declaration":   "interface",
	"type_alias_declaration":  "typealias",
	"enum_declaration":        "enum",
	"formal_parameters":       "params",
	"required_parameter":      "param",
	"optional_parameter":      "param",
	"statement_block":         "block",
	"return_statement":        "return",
	"if_statement":            "if",
	"else_clause":             "else",
	"for_statement":           "for",
	"while_statement":         "while",
	"try_statement":           "try",
	"catch_clause":            "catch",
	"throw_statement":         "throw",
	"call_expression":         "call",
	"new_expression":          "new",
	"member_expression":       "member",
	"assignment_expression":   "assign",
	"binary_expression":       "binary",
	"unary_expression":        "unary",
	"ternary_expression":      "ternary",
	"await_expression":        "await",
	"import_statement":        "import",
	"export_statement":        "export",
	"string":                  "string",
	"number":                  "number",
	"true":                    "true",
	"false":                   "false",
	"null":                    "null",
	"type_annotation":         "typeof",
	"type_parameters":         "typeparams",
	"type_parameter":          "typeparam",
}

var categories = map[string]string{
	"name": "identifier", "type": "type",
	"string": "string", "number": "number",
	"true": "keyword", "false": "keyword", "null": "keyword",
	"class": "keyword", "function": "keyword", "method": "keyword",
	"lambda": "keyword", "interface": "keyword", "typealias": "keyword",
	"enum": "keyword", "variable": "keyword", "let": "keyword",
	"const": "keyword", "var": "keyword", "async": "keyword",
	"export": "keyword", "default": "keyword",
	"param": "keyword", "params": "keyword",
	"if": "keyword", "else": "keyword", "for": "keyword", "while": "keyword",
	"try": "keyword", "catch": "keyword", "throw": "keyword",
	"import": "keyword", "new": "keyword", "await": "keyword",
	"call": "function",
	"op":   "operator", "binary": "operator", "unary": "operator", "assign": "operator",
	"comment": "comment",
}

func table() *rules.Table {
	return &rules.Table{
		Rename:  rename,
		Skip:    map[string]bool{"expression_statement": true},
		Flatten: map[string]bool{"variable_declarator": true, "class_body": true},
		OperatorHolder: map[string]bool{
			"binary_expression": true, "unary_expression": true,
			"assignment_expression": true, "augmented_assignment_expression": true,
			"update_expression": true,
		},
		KeywordModifierHolder: map[string]bool{
			"lexical_declaration": true, "variable_declaration": true,
		},
		KeywordModifiers: map[string]bool{
			"let": true, "const": true, "var": true,
			"async": true, "export": true, "default": true,
		},
		IdentifierKinds: map[string]bool{"identifier": true, "property_identifier": true},
		Classify: func(ctx rules.IdentifierContext) string {
			switch ctx.ParentKind {
			case "method_definition", "function_declaration", "arrow_function":
				if ctx.HasNextSibling {
					return "name"
				}
				return "type"
			case "class_declaration", "interface_declaration", "type_alias_declaration", "enum_declaration":
				return "name"
			case "variable_declarator", "required_parameter", "optional_parameter", "pair":
				return "name"
			default:
				return "type"
			}
		},
		NameWrapperParents: map[string]bool{
			"function_declaration": true, "class_declaration": true, "method_definition": true,
		},
		NameWrapperChildKinds: map[string]bool{"identifier": true, "property_identifier": true},
	}
}

// Register installs both TypeScript and JavaScript into the catalog; they
// share a rewrite table but parse with different grammars.
func Register() {
	tbl := table()
	category := func(name string) string { return categories[name] }

	catalog.Register(catalog.Language{
		ID:         "typescript",
		Aliases:    []string{"ts", "tsx"},
		Extensions: []string{".ts", ".tsx", ".d.ts"},
		Grammar:    func() *sitter.Language { return tstypescript.GetLanguage() },
		Transform:  tbl.Func(),
		Category:   category,
	})
	catalog.Register(catalog.Language{
		ID:         "javascript",
		Aliases:    []string{"js", "jsx"},
		Extensions: []string{".js", ".jsx", ".mjs", ".cjs"},
		Grammar:    func() *sitter.Language { return javascript.GetLanguage() },
		Transform:  tbl.Func(),
		Category:   category,
	})
}
