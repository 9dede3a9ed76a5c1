package cli

import "github.com/oxhq/tractor/internal/lang/catalog"

// ResolveLang resolves an explicit `--lang` value (name or alias) to its
// canonical language, returning a one-line diagnostic naming which
// canonical ID the alias resolved to. Logged under verbose mode; helps
// debug `--lang` typos.
func ResolveLang(name string) (catalog.Language, string, bool) {
	lang, ok := catalog.LookupByAlias(name)
	if !ok {
		return catalog.Language{}, "", false
	}
	diag := ""
	if lang.ID != name {
		diag = name + " resolved to language " + lang.ID
	}
	return lang, diag, true
}
