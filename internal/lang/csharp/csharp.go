// Package csharp registers C#: extensions, grammar, rewrite table, and
// syntax-highlight categories.
//
// Beyond the shared repertoire, two type shapes get bespoke rewrites:
// nullable_type (Foo? becomes <type>Foo<nullable/></type>) and
// generic_name (List<T> becomes <type><generic/>List<arguments>...
// </arguments></type>), so type queries see one <type> element per
// annotation regardless of nullability or generic arity.
package csharp

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	tscsharp "github.com/smacker/go-tree-sitter/csharp"

	"github.com/oxhq/tractor/internal/arena"
	"github.com/oxhq/tractor/internal/lang/catalog"
	"github.com/oxhq/tractor/internal/lang/rules"
	"github.com/oxhq/tractor/internal/transform"
)

var rename = map[string]string{
	"compilation_unit":            "unit",
	"class_declaration":           "class",
	"struct_declaration":          "struct",
	"interface_declaration":       "interface",
	"enum_declaration":            "enum",
	"record_declaration":          "record",
	"method_declaration":          "method",
	"constructor_declaration":     "constructor",
	"property_declaration":        "property",
	"field_declaration":           "field",
	"namespace_declaration":       "namespace",
	"parameter_list":              "parameters",
	"parameter":                   "parameter",
	"argument_list":               "arguments",
	"argument":                    "argument",
	"type_argument_list":          "arguments",
	"array_type":                  "array",
	"block":                       "block",
	"return_statement":            "return",
	"if_statement":                "if",
	"else_clause":                 "else",
	"for_statement":               "for",
	"foreach_statement":           "foreach",
	"while_statement":             "while",
	"try_statement":               "try",
	"catch_clause":                "catch",
	"throw_statement":             "throw",
	"using_statement":             "using",
	"invocation_expression":       "call",
	"member_access_expression":    "member",
	"object_creation_expression":  "new",
	"assignment_expression":       "assign",
	"binary_expression":           "binary",
	"unary_expression":            "unary",
	"conditional_expression":      "ternary",
	"lambda_expression":           "lambda",
	"await_expression":            "await",
	"variable_declaration":        "variable",
	"variable_declarator":         "declarator",
	"local_declaration_statement": "local",
	"string_literal":              "string",
	"integer_literal":              "int",
	"real_literal":                "float",
	"boolean_literal":              "bool",
	"null_literal":                "null",
	"attribute_list":              "attributes",
	"attribute":                   "attribute",
	"attribute_argument_list":     "arguments",
	"attribute_argument":          "argument",
	"accessor_list":               "accessors",
	"accessor_declaration":        "accessor",
	"using_directive":             "import",
	"type_identifier":             "type",
	"predefined_type":             "type",
}

var modifiers = map[string]bool{
	"public": true, "private": true, "protected": true, "internal": true,
	"static": true, "async": true, "abstract": true, "virtual": true, "override": true,
	"sealed": true, "readonly": true, "const": true, "partial": true, "this": true,
}

var categories = map[string]string{
	"name": "identifier", "type": "type",
	"string": "string", "int": "number", "float": "number", "bool": "keyword", "null": "keyword",
	"class": "keyword", "struct": "keyword", "interface": "keyword", "enum": "keyword", "record": "keyword",
	"method": "keyword", "constructor": "keyword", "property": "keyword", "field": "keyword",
	"namespace": "keyword", "parameter": "keyword", "parameters": "keyword",
	"import": "keyword", "using": "keyword",
	"if": "keyword", "else": "keyword", "for": "keyword", "foreach": "keyword", "while": "keyword",
	"try": "keyword", "catch": "keyword", "throw": "keyword",
	"public": "keyword", "private": "keyword", "protected": "keyword", "internal": "keyword",
	"static": "keyword", "async": "keyword", "abstract": "keyword", "virtual": "keyword", "override": "keyword",
	"sealed": "keyword", "readonly": "keyword", "const": "keyword", "partial": "keyword",
	"array": "type",
	"call":  "function", "lambda": "function",
	"op": "operator", "binary": "operator", "unary": "operator", "assign": "operator", "ternary": "operator",
	"comment": "comment",
}

func table() *rules.Table {
	return &rules.Table{
		Rename:          rename,
		Skip:            map[string]bool{"expression_statement": true},
		Flatten:         map[string]bool{"declaration_list": true, "parameters": true},
		ModifierWrapper: map[string]bool{"modifier": true},
		ModifierWords:   modifiers,
		OperatorHolder:  map[string]bool{"binary_expression": true, "unary_expression": true, "assignment_expression": true},
		IdentifierKinds: map[string]bool{"identifier": true},
		Classify: func(ctx rules.IdentifierContext) string {
			if ctx.Field == "type" {
				return "type"
			}
			if ctx.GrandparentKind != "" && ctx.ParentKind == "name" {
				switch ctx.GrandparentKind {
				case "class_declaration", "struct_declaration", "interface_declaration",
					"enum_declaration", "record_declaration", "namespace_declaration",
					"method_declaration", "constructor_declaration", "property_declaration",
					"parameter", "variable_declarator":
					return "name"
				}
			}
			switch ctx.ParentKind {
			case "method_declaration", "constructor_declaration":
				if ctx.HasNextSibling {
					return "name"
				}
				return "type"
			case "class_declaration", "struct_declaration", "interface_declaration",
				"enum_declaration", "record_declaration", "namespace_declaration":
				return "name"
			case "variable_declarator", "parameter":
				return "name"
			default:
				return "type"
			}
		},
		NameWrapperParents: map[string]bool{
			"class_declaration": true, "struct_declaration": true, "interface_declaration": true,
			"enum_declaration": true, "record_declaration": true, "namespace_declaration": true,
			"method_declaration": true, "constructor_declaration": true, "property_declaration": true,
			"parameter": true, "variable_declarator": true,
		},
		NameWrapperChildKinds: map[string]bool{"identifier": true},
	}
}

// transformFunc layers the two bespoke type rewrites over the shared
// table. Both key on `kind`, so rerunning the transform over an
// already-rewritten tree changes nothing.
func transformFunc() transform.Func {
	base := table().Func()
	return func(a *arena.Arena, h arena.Handle) transform.Verdict {
		switch arena.GetKind(a, h) {
		case "nullable_type":
			rewriteNullable(a, h)
			return transform.Continue
		case "generic_name":
			rewriteGeneric(a, h)
			return transform.Continue
		}
		return base(a, h)
	}
}

// rewriteNullable renames the node to <type>, drops the trailing "?"
// token, and appends an empty <nullable/> marker.
func rewriteNullable(a *arena.Arena, h arena.Handle) {
	a.Rename(h, "type")
	for _, c := range append([]arena.Handle(nil), a.Children(h)...) {
		if a.Kind(c) == arena.KindText && strings.TrimSpace(a.Text(c)) == "?" {
			_ = a.Detach(c)
		}
	}
	if !hasChildElement(a, h, "nullable") {
		_ = a.Append(h, a.NewElement("nullable"))
	}
}

// rewriteGeneric renames the node to <type> and prepends an empty
// <generic/> marker; the type_argument_list child renames to <arguments>
// through the shared table when the walker descends.
func rewriteGeneric(a *arena.Arena, h arena.Handle) {
	a.Rename(h, "type")
	if !hasChildElement(a, h, "generic") {
		_ = a.Prepend(h, a.NewElement("generic"))
	}
}

func hasChildElement(a *arena.Arena, h arena.Handle, name string) bool {
	for _, c := range a.Children(h) {
		if a.Kind(c) == arena.KindElement && a.Name(c) == name {
			return true
		}
	}
	return false
}

// Register installs C# into the catalog.
func Register() {
	catalog.Register(catalog.Language{
		ID:         "csharp",
		Aliases:    []string{"cs"},
		Extensions: []string{".cs"},
		Grammar:    func() *sitter.Language { return tscsharp.GetLanguage() },
		Transform:  transformFunc(),
		Category:   func(name string) string { return categories[name] },
	})
}
