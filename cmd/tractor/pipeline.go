// This file wires the per-file pipeline: parse -> build -> transform ->
// query, all against one arena owned exclusively by the calling worker.
// It is the seam between internal/orchestrate's batching and every other
// component package.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/oxhq/tractor/internal/arena"
	"github.com/oxhq/tractor/internal/builder"
	"github.com/oxhq/tractor/internal/cli"
	"github.com/oxhq/tractor/internal/lang/catalog"
	"github.com/oxhq/tractor/internal/ptree"
	"github.com/oxhq/tractor/internal/render"
	"github.com/oxhq/tractor/internal/schema"
	"github.com/oxhq/tractor/internal/srcutil"
	"github.com/oxhq/tractor/internal/transform"
	"github.com/oxhq/tractor/internal/xpathbridge"
)

// langAliases maps file extensions to a catalog language ID when the
// catalog's own extension table (keyed one-to-one) doesn't cover them.
// The catalog already indexes by extension per language registration;
// this table only resolves extensions two languages could plausibly
// claim or that --lang spells differently than any registered alias.
var langAliases = map[string]string{
	"pyw": "python",
}

// resolveLanguage picks the language: forced via --lang/-l (through
// cli.ResolveLang, which also surfaces an alias diagnostic), else by
// file extension. Unsupported extensions are skipped silently unless
// --verbose.
func resolveLanguage(path, forced string, verbose bool) (catalog.Language, bool) {
	if forced != "" {
		lang, diag, ok := cli.ResolveLang(forced)
		if ok && diag != "" && verbose {
			fmt.Fprintln(os.Stderr, "tractor:", diag)
		}
		return lang, ok
	}
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if id, ok := langAliases[strings.ToLower(ext)]; ok {
		if lang, ok := catalog.LookupByAlias(id); ok {
			return lang, true
		}
	}
	return catalog.LookupByExtension(ext)
}

// fileResult is what running one file through the pipeline up to (but not
// including) query execution produces: a built, transformed arena ready
// for either rendering (no -x) or XPath (-x).
type fileResult struct {
	arena  *arena.Arena
	fileEl arena.Handle
	source *srcutil.Source
	lang   catalog.Language
}

// buildFile parses source under the given path, building and (unless raw)
// transforming it into a fresh single-file arena. A recognized but
// malformed source does not fail: a parser returning a best-effort error
// tree is still built, since tree-sitter grammars are error-tolerant.
func buildFile(ctx context.Context, path string, source []byte, lang catalog.Language, opts runOptions) (*fileResult, error) {
	a := arena.New()
	filesRoot := a.NewElement("Files")
	_ = a.Append(a.Root(), filesRoot)

	fileEl := a.NewElement("File")
	a.SetAttr(fileEl, "path", path)
	_ = a.Append(filesRoot, fileEl)

	if lang.Build != nil {
		if err := lang.Build(a, fileEl, source, opts.Raw); err != nil {
			return nil, fmt.Errorf("pipeline: %s: %w", path, err)
		}
	} else {
		if lang.Grammar == nil {
			return nil, fmt.Errorf("pipeline: %s: language %q has neither a grammar nor a data builder", path, lang.ID)
		}
		tree, err := ptree.Parse(ctx, lang.Grammar(), source)
		if err != nil {
			return nil, fmt.Errorf("pipeline: %s: %w", path, err)
		}
		builder.Build(a, fileEl, tree, builder.Options{EmitRawPunctuation: opts.Raw})
		if !opts.Raw && lang.Transform != nil {
			transform.Walk(a, fileEl, lang.Transform)
		}
	}

	if opts.IgnoreWhitespace {
		normalizeWhitespace(a, fileEl)
	}

	return &fileResult{arena: a, fileEl: fileEl, source: srcutil.New(source), lang: lang}, nil
}

// normalizeWhitespace backs -W/--ignore-whitespace: text nodes are
// pre-normalized at build time (the compiled XPath engine is opaque) so
// predicates like [.='Dictionary<string,int>'] match regardless of
// source whitespace.
func normalizeWhitespace(a *arena.Arena, root arena.Handle) {
	for _, h := range a.Descendants(root) {
		if a.Kind(h) != arena.KindText {
			continue
		}
		a.SetText(h, strings.Join(strings.Fields(a.Text(h)), ""))
	}
}

// queryFile runs the compiled query against one file's arena, turning
// node and atomic results into Match records.
func queryFile(q *xpathbridge.Query, fr *fileResult, path string) ([]xpathbridge.Match, error) {
	items, err := xpathbridge.Execute(q, fr.arena, fr.fileEl)
	if err != nil {
		return nil, fmt.Errorf("pipeline: %s: query execute: %w", path, err)
	}
	lines := fr.source.Lines()
	matches := make([]xpathbridge.Match, 0, len(items))
	for _, it := range items {
		switch it.Kind {
		case xpathbridge.NodeItem:
			matches = append(matches, xpathbridge.NodeToMatch(fr.arena, it.Node, path, lines))
		case xpathbridge.AtomicItem:
			matches = append(matches, xpathbridge.AtomicToMatch(it.Atomic, path, lines))
		}
	}
	return matches, nil
}

// collectSchema feeds one file's arena into a shared schema.Collector
// for the `-o schema` output format.
func collectSchema(c *schema.Collector, fr *fileResult) {
	c.Collect(fr.arena, fr.fileEl)
}

// renderFile renders the whole file's XML tree for the default (no -x)
// output, honoring --keep-locations, --no-pretty, and --color.
func renderFile(fr *fileResult, opts runOptions) string {
	return render.Render(fr.arena, fr.fileEl, render.Options{
		UseColor:         opts.UseColor,
		IncludeLocations: opts.KeepLocations,
		PrettyPrint:      !opts.NoPretty,
		MaxDepth:         opts.Depth,
	})
}

// renderDebug implements `--debug`: the whole document, with every matched
// element's start position marked for render.Options.Highlights.
func renderDebug(fr *fileResult, matches []xpathbridge.Match, opts runOptions) string {
	highlights := make(map[render.HighlightKey]bool, len(matches))
	for _, m := range matches {
		if m.StartLine == 0 {
			continue
		}
		highlights[render.HighlightKey{Line: m.StartLine, Col: m.StartCol}] = true
	}
	return render.Render(fr.arena, fr.fileEl, render.Options{
		UseColor:         opts.UseColor,
		IncludeLocations: opts.KeepLocations,
		PrettyPrint:      !opts.NoPretty,
		MaxDepth:         opts.Depth,
		Highlights:       highlights,
	})
}
