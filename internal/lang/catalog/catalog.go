// Package catalog is the language registry: extension and alias lookup
// for every language the tool understands, each entry keyed to a grammar
// or data builder, a transform function, and a syntax-highlight category
// table.
package catalog

import (
	"sort"
	"strings"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/oxhq/tractor/internal/arena"
	"github.com/oxhq/tractor/internal/transform"
)

// DataBuilder constructs a data-format language's tree directly from source
// bytes into an already-created parent element, bypassing ptree.Parse and
// internal/builder entirely. raw selects the syntax view (the unified
// object/array/property vocabulary) over the default data view (keys lifted
// to element names), the data-format analogue of --raw's "emit the
// parser's vocabulary" for grammar-backed languages.
type DataBuilder func(a *arena.Arena, parent arena.Handle, source []byte, raw bool) error

// CategoryFunc classifies an element's canonical name into a highlight
// category. Returning "" means no highlight applies.
type CategoryFunc func(elementName string) string

// Language describes one supported language: how to find it, how to parse
// it, and how to rewrite its parse tree into the shared vocabulary.
type Language struct {
	ID         string
	Aliases    []string
	Extensions []string
	// Grammar is nil for data-format languages (JSON/YAML/TOML/INI/.env)
	// that build the arena directly from a decoded value instead of a
	// tree-sitter parse (see internal/lang/dataformat).
	Grammar   func() *sitter.Language
	Transform transform.Func
	Category  CategoryFunc
	// Build is set instead of Transform for data-format languages (Grammar
	// is nil in that case).
	Build DataBuilder
}

var (
	mu        sync.RWMutex
	byID      = make(map[string]Language)
	byAlias   = make(map[string]Language)
	byExt     = make(map[string]Language)
	registerO []string
)

// Register stores a language's metadata, indexing it by ID, every alias,
// and every extension (case-insensitively). Re-registering the same ID
// overwrites the prior entry.
func Register(lang Language) {
	if lang.ID == "" {
		return
	}
	id := strings.ToLower(lang.ID)

	mu.Lock()
	defer mu.Unlock()

	if _, exists := byID[id]; !exists {
		registerO = append(registerO, id)
	}
	byID[id] = lang
	byAlias[id] = lang
	for _, alias := range lang.Aliases {
		byAlias[strings.ToLower(alias)] = lang
	}
	for _, ext := range normalizeExtensions(lang.Extensions) {
		byExt[ext] = lang
	}
}

// LookupByExtension returns the language registered for a file extension
// (with or without a leading dot).
func LookupByExtension(ext string) (Language, bool) {
	mu.RLock()
	defer mu.RUnlock()
	lang, ok := byExt[normalizeExt(ext)]
	return lang, ok
}

// LookupByAlias resolves an explicit `--lang` value: the language ID
// itself or one of its aliases (ts/tsx resolve to typescript, py to
// python, and so on).
func LookupByAlias(name string) (Language, bool) {
	mu.RLock()
	defer mu.RUnlock()
	lang, ok := byAlias[strings.ToLower(strings.TrimSpace(name))]
	return lang, ok
}

// Languages returns every registered language sorted by ID, for listing
// and diagnostics.
func Languages() []Language {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]Language, 0, len(byID))
	for _, id := range registerO {
		out = append(out, byID[id])
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

func normalizeExtensions(exts []string) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0, len(exts))
	for _, ext := range exts {
		n := normalizeExt(ext)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
