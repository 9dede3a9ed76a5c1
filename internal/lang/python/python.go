// Package python registers Python: extensions, grammar, rewrite table,
// and syntax-highlight categories.
package python

import (
	sitter "github.com/smacker/go-tree-sitter"
	tspython "github.com/smacker/go-tree-sitter/python"

	"github.com/oxhq/tractor/internal/lang/catalog"
	"github.com/oxhq/tractor/internal/lang/rules"
)

var rename = map[string]string{
	"module":                   "module",
	"class_definition":         "class",
	"function_definition":      "function",
	"decorated_definition":     "decorated",
	"decorator":                "decorator",
	"parameters":               "params",
	"default_parameter":        "param",
	"typed_parameter":          "param",
	"typed_default_parameter":  "param",
	"return_statement":         "return",
	"if_statement":              "if",
	"elif_clause":              "elif",
	"else_clause":              "else",
	"for_statement":            "for",
	"while_statement":          "while",
	"try_statement":            "try",
	"except_clause":            "except",
	"finally_clause":           "finally",
	"with_statement":           "with",
	"raise_statement":          "raise",
	"pass_statement":           "pass",
	"import_statement":         "import",
	"import_from_statement":    "from",
	"call":                     "call",
	"attribute":                "member",
	"subscript":                "subscript",
	"assignment":               "assign",
	"augmented_assignment":     "augassign",
	"binary_operator":          "binary",
	"unary_operator":           "unary",
	"comparison_operator":      "compare",
	"boolean_operator":         "logical",
	"conditional_expression":   "ternary",
	"lambda":                   "lambda",
	"await":                    "await",
	"list_comprehension":       "listcomp",
	"dictionary_comprehension": "dictcomp",
	"set_comprehension":        "setcomp",
	"generator_expression":     "genexp",
	"string":                   "string",
	"integer":                  "int",
	"float":                    "float",
	"true":                     "true",
	"false":                    "false",
	"none":                     "none",
}

var categories = map[string]string{
	"name": "identifier", "type": "type",
	"string": "string", "int": "number", "float": "number",
	"true": "keyword", "false": "keyword", "none": "keyword",
	"class": "keyword", "function": "keyword", "decorated": "keyword", "decorator": "keyword",
	"param": "keyword", "params": "keyword",
	"if": "keyword", "elif": "keyword", "else": "keyword",
	"for": "keyword", "while": "keyword",
	"try": "keyword", "except": "keyword", "finally": "keyword",
	"with": "keyword", "raise": "keyword", "pass": "keyword",
	"import": "keyword", "from": "keyword", "lambda": "keyword", "await": "keyword",
	"call": "function", "member": "identifier",
	"op": "operator", "binary": "operator", "unary": "operator",
	"compare": "operator", "logical": "operator", "assign": "operator", "augassign": "operator",
	"comment": "comment",
}

func table() *rules.Table {
	return &rules.Table{
		Rename:  rename,
		Skip:    map[string]bool{"expression_statement": true},
		Flatten: map[string]bool{"block": true},
		OperatorHolder: map[string]bool{
			"binary_operator": true, "comparison_operator": true,
			"boolean_operator": true, "unary_operator": true, "augmented_assignment": true,
		},
		IdentifierKinds: map[string]bool{"identifier": true},
		Classify: func(ctx rules.IdentifierContext) string {
			switch ctx.ParentKind {
			case "function_definition", "class_definition":
				return "name"
			case "parameter", "default_parameter", "typed_parameter":
				return "name"
			case "assignment":
				return "name"
			default:
				return "type"
			}
		},
		NameWrapperParents:    map[string]bool{"function_definition": true, "class_definition": true},
		NameWrapperChildKinds: map[string]bool{"identifier": true},
	}
}

// Register installs Python into the catalog.
func Register() {
	tbl := table()
	catalog.Register(catalog.Language{
		ID:         "python",
		Aliases:    []string{"py"},
		Extensions: []string{".py", ".pyw", ".pyi"},
		Grammar:    func() *sitter.Language { return tspython.GetLanguage() },
		Transform:  tbl.Func(),
		Category:   func(name string) string { return categories[name] },
	})
}
