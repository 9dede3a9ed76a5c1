package dataformat

// syntaxCategory maps the unified syntax-view vocabulary to highlight
// categories; it's shared by every data-format language since the vocabulary
// itself is format-independent.
func syntaxCategory(name string) string {
	switch name {
	case "key":
		return "identifier"
	case "string":
		return "string"
	case "number":
		return "number"
	case "bool", "null":
		return "keyword"
	default:
		return ""
	}
}
