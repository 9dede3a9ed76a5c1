// Command tractor queries and rewrites source code structure with XPath.
// It turns positional file arguments and the flag set into calls against
// the library packages under internal/.
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/oxhq/tractor/internal/cli"
	"github.com/oxhq/tractor/internal/format"
	"github.com/oxhq/tractor/internal/lang"
	"github.com/oxhq/tractor/internal/lang/catalog"
	"github.com/oxhq/tractor/internal/orchestrate"
	"github.com/oxhq/tractor/internal/replacer"
	"github.com/oxhq/tractor/internal/schema"
	"github.com/oxhq/tractor/internal/xpathbridge"
)

// version is the string `--version` prints. Set at release time; a
// development build reports "dev".
var version = "dev"

// runOptions is the fully parsed flag set for one invocation, threaded
// through pipeline.go so neither it nor main need a second flag-parsing
// pass.
type runOptions struct {
	XPath            string
	Lang             string
	Output           string
	Message          string
	Limit            int
	Depth            int
	Expect           string
	ErrorTemplate    string
	Warning          bool
	IgnoreWhitespace bool
	Raw              bool
	NoPretty         bool
	Debug            bool
	KeepLocations    bool
	Include          []string
	Exclude          []string
	Color            string
	Concurrency      int
	Verbose          bool
	SchemaSamples    int
	Replace          string
	UseColor         bool
}

func main() {
	cli.LoadDotenv()
	os.Exit(Execute(os.Args[1:]))
}

// Execute builds the cobra root command, parses args, and dispatches to
// the file or stdin pipeline. Exit code is 0 on success (including
// `--warning` over a failed expectation), non-zero on expectation
// failure, parse failure of all inputs, or invalid arguments.
func Execute(args []string) int {
	lang.RegisterAll()

	opts := &runOptions{Limit: -1}
	exitCode := 0
	var showVersion bool

	root := &cobra.Command{
		Use:           "tractor [flags] [paths...]",
		Short:         "Query and rewrite source code structure with XPath",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, cmdArgs []string) error {
			if showVersion {
				printVersion()
				return nil
			}
			defer reportProfile(time.Now())
			exitCode = dispatch(cmdArgs, *opts)
			return nil
		},
	}

	// TRACTOR_COLOR and TRACTOR_CONCURRENCY (possibly loaded from .env)
	// override the hardcoded flag defaults; explicit flags still win.
	defaultColor := cli.GetenvDefault("TRACTOR_COLOR", "auto")
	defaultConcurrency := 0
	if n, ok := cli.GetenvInt("TRACTOR_CONCURRENCY"); ok {
		defaultConcurrency = n
	}

	flags := root.Flags()
	flags.SortFlags = false
	flags.StringVarP(&opts.XPath, "xpath", "x", "", "XPath expression; without it, print the parsed XML")
	flags.StringVarP(&opts.Lang, "lang", "l", "", "force language (required for stdin)")
	flags.StringVarP(&opts.Output, "output", "o", "xml", "xml|lines|source|value|gcc|json|count|schema")
	flags.StringVarP(&opts.Message, "message", "m", "", "per-match message template: {file} {line} {col} {value}")
	flags.IntVarP(&opts.Limit, "limit", "n", -1, "truncate to first N matches")
	flags.IntVarP(&opts.Depth, "depth", "d", 0, "clamp rendering depth")
	flags.StringVarP(&opts.Expect, "expect", "e", "", "none|some|integer")
	flags.StringVar(&opts.ErrorTemplate, "error", "", "error message template on expectation failure")
	flags.BoolVar(&opts.Warning, "warning", false, "expectation failure exits 0 with a warning glyph")
	flags.BoolVarP(&opts.IgnoreWhitespace, "ignore-whitespace", "W", false, "strip whitespace in text nodes before matching")
	flags.BoolVar(&opts.Raw, "raw", false, "skip language transforms, emit the parser's vocabulary")
	flags.BoolVar(&opts.NoPretty, "no-pretty", false, "single-line XML (required when XPath predicates match text)")
	flags.BoolVar(&opts.Debug, "debug", false, "render the full document with matches highlighted")
	flags.BoolVar(&opts.KeepLocations, "keep-locations", false, "retain start/end/kind attributes in output")
	flags.StringArrayVar(&opts.Include, "include", nil, "only process files matching this glob (repeatable)")
	flags.StringArrayVar(&opts.Exclude, "exclude", nil, "skip files matching this glob (repeatable)")
	flags.StringVar(&opts.Color, "color", defaultColor, "auto|always|never")
	flags.IntVarP(&opts.Concurrency, "concurrency", "c", defaultConcurrency, "worker count (0 = CPU count)")
	flags.BoolVarP(&opts.Verbose, "verbose", "v", false, "diagnostic messages per file")
	flags.IntVar(&opts.SchemaSamples, "schema-samples", 3, "distinct text values kept per schema path")
	flags.StringVarP(&opts.Replace, "replace", "r", "", "replace every match with this literal text")
	flags.BoolVar(&showVersion, "version", false, "print version and registered language IDs (no grammar ABI versions)")

	root.SetArgs(args)
	root.SetOut(os.Stdout)
	root.SetErr(os.Stderr)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "tractor:", err)
		if exitCode == 0 {
			exitCode = 2
		}
	}
	return exitCode
}

// dispatch resolves inputs (file args, globs, or stdin) and runs the
// appropriate pipeline. SIGINT/SIGTERM cancel cooperatively between
// batches.
func dispatch(patterns []string, opts runOptions) int {
	opts.UseColor = resolveColor(opts.Color)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigs)
	go func() {
		<-sigs
		cancel()
	}()

	paths, stdinSource, err := resolveInputs(patterns, opts)
	if err != nil {
		fmt.Fprintln(os.Stderr, "tractor:", err)
		return 2
	}
	if stdinSource != nil {
		return runStdin(ctx, *stdinSource, opts)
	}
	return runFiles(ctx, paths, opts)
}

// resolveInputs picks between the stdin modes and positional paths:
// source on stdin with --lang set is a single virtual "<stdin>" file;
// file paths on stdin (one per line) populate patterns when none were
// given and stdin is not a TTY; otherwise positional args are globbed
// via internal/orchestrate.
func resolveInputs(patterns []string, opts runOptions) ([]string, *stdinInput, error) {
	if len(patterns) == 0 {
		stat, statErr := os.Stdin.Stat()
		isPipe := statErr == nil && (stat.Mode()&os.ModeCharDevice) == 0
		if isPipe {
			if opts.Lang != "" {
				data, err := io.ReadAll(os.Stdin)
				if err != nil {
					return nil, nil, fmt.Errorf("reading stdin: %w", err)
				}
				return nil, &stdinInput{source: data}, nil
			}
			var files []string
			scan := bufio.NewScanner(os.Stdin)
			for scan.Scan() {
				line := strings.TrimSpace(scan.Text())
				if line != "" {
					files = append(files, line)
				}
			}
			return orchestrate.Filter(files, opts.Include, opts.Exclude), nil, nil
		}
		return nil, nil, fmt.Errorf("no input paths given and stdin is a terminal")
	}
	files, err := orchestrate.Discover(patterns)
	if err != nil {
		return nil, nil, err
	}
	return orchestrate.Filter(files, opts.Include, opts.Exclude), nil, nil
}

type stdinInput struct {
	source []byte
}

func runStdin(ctx context.Context, in stdinInput, opts runOptions) int {
	l, ok := resolveLanguage("<stdin>", opts.Lang, opts.Verbose)
	if !ok {
		fmt.Fprintf(os.Stderr, "tractor: unsupported language %q\n", opts.Lang)
		return 2
	}
	fr, err := buildFile(ctx, "<stdin>", in.source, l, opts)
	if err != nil {
		fmt.Fprintln(os.Stderr, "tractor:", err)
		return 1
	}

	if opts.Output == string(format.Schema) {
		c := schema.New(opts.SchemaSamples)
		collectSchema(c, fr)
		fmt.Println(format.RenderSchema(c, opts.Depth))
		return 0
	}
	if opts.XPath == "" {
		fmt.Println(renderFile(fr, opts))
		return 0
	}

	normalized := xpathbridge.Normalize(opts.XPath)
	result := xpathbridge.Compile(normalized)
	if !result.Valid {
		fmt.Fprintf(os.Stderr, "tractor: query compile error: %s (%d..%d)\n", result.Error, result.ErrorStart, result.ErrorEnd)
		return 2
	}
	matches, err := queryFile(result.Query, fr, "<stdin>")
	if err != nil {
		fmt.Fprintln(os.Stderr, "tractor:", err)
		return 1
	}
	if opts.Limit >= 0 {
		matches, _ = orchestrate.Truncate(matches, opts.Limit)
	}
	if opts.Debug {
		fmt.Println(renderDebug(fr, matches, opts))
	} else {
		flushMatches(matches, opts)
	}
	if opts.Replace != "" {
		// Replace on stdin input aborts as soon as there is a match to
		// rewrite: no file to write.
		return runReplace(matches, opts)
	}
	return finish(matches, opts)
}

// runFiles drives internal/orchestrate's worker pool across every
// discovered path and streams each batch's formatted output as the batch
// arrives. The pool starts the next batch as soon as the previous one has
// been received, so flushing a batch overlaps with work on the next one.
func runFiles(ctx context.Context, paths []string, opts runOptions) int {
	if len(paths) == 0 {
		fmt.Fprintln(os.Stderr, "tractor: no input files")
		return 2
	}

	var q *xpathbridge.Query
	if opts.XPath != "" {
		normalized := xpathbridge.Normalize(opts.XPath)
		result := xpathbridge.Compile(normalized)
		if !result.Valid {
			fmt.Fprintf(os.Stderr, "tractor: query compile error: %s (%d..%d)\n", result.Error, result.ErrorStart, result.ErrorEnd)
			return 2
		}
		q = result.Query
	}

	concurrency := orchestrate.ResolveConcurrency(opts.Concurrency)
	schemaCollector := schema.New(opts.SchemaSamples)
	var allMatches []xpathbridge.Match
	limit := opts.Limit
	deferReplace := opts.Replace != ""
	matchedFiles := make(map[string]bool)
	summary := cli.Summary{}

	process := func(path string) ([]xpathbridge.Match, error) {
		source, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		l, ok := resolveLanguage(path, opts.Lang, opts.Verbose)
		if !ok {
			if opts.Verbose {
				fmt.Fprintf(os.Stderr, "tractor: skipping %s: unsupported language\n", path)
			}
			return nil, nil
		}
		fr, err := buildFile(ctx, path, source, l, opts)
		if err != nil {
			return nil, err
		}

		if opts.Output == string(format.Schema) {
			collectSchema(schemaCollector, fr)
			return nil, nil
		}
		if q == nil {
			fmt.Println(renderFile(fr, opts))
			return nil, nil
		}
		matches, err := queryFile(q, fr, path)
		if err != nil {
			return nil, err
		}
		if opts.Debug {
			fmt.Println(renderDebug(fr, matches, opts))
		}
		return matches, nil
	}

	for batch := range orchestrate.Batches(paths, concurrency, process) {
		summary.FilesErrored += len(batch.Errors)
		for _, outcome := range batch.Errors {
			if opts.Verbose {
				fmt.Fprintf(os.Stderr, "tractor: %s: %v\n", outcome.Path, outcome.Err)
			}
		}
		ms := batch.Matches
		if limit >= 0 {
			ms, limit = orchestrate.Truncate(ms, limit)
		}
		for _, m := range ms {
			matchedFiles[m.File] = true
		}
		allMatches = append(allMatches, ms...)
		if q != nil && !deferReplace && !opts.Debug {
			flushMatches(ms, opts)
		}
		if limit == 0 {
			break
		}
		select {
		case <-ctx.Done():
			fmt.Fprintln(os.Stderr, "tractor: interrupted")
			return 130
		default:
		}
	}
	summary.FilesProcessed = len(paths)
	summary.FilesMatched = len(matchedFiles)
	if opts.Verbose {
		fmt.Fprintln(os.Stderr, "tractor:", summary.String())
	}

	if opts.Output == string(format.Schema) {
		fmt.Println(format.RenderSchema(schemaCollector, opts.Depth))
		return 0
	}
	if q == nil {
		return 0
	}
	if deferReplace {
		return runReplace(allMatches, opts)
	}
	return finish(allMatches, opts)
}

func flushMatches(ms []xpathbridge.Match, opts runOptions) {
	if len(ms) == 0 {
		return
	}
	out, err := format.Matches(ms, format.Format(opts.Output), opts.Message)
	if err != nil {
		fmt.Fprintln(os.Stderr, "tractor:", err)
		return
	}
	if out != "" {
		fmt.Print(out)
	}
}

// runReplace applies `-r/--replace` to the collected matches. Under
// --verbose it shows a unified diff of each changed file.
func runReplace(matches []xpathbridge.Match, opts runOptions) int {
	var before map[string][]byte
	if opts.Verbose {
		before = make(map[string][]byte)
		for _, m := range matches {
			if m.File == replacer.StdinPath {
				continue
			}
			if _, ok := before[m.File]; ok {
				continue
			}
			if b, err := os.ReadFile(m.File); err == nil {
				before[m.File] = b
			}
		}
	}

	summary, err := replacer.Replace(matches, opts.Replace)
	if err != nil {
		fmt.Fprintln(os.Stderr, "tractor: replace:", err)
		return 1
	}
	for _, w := range summary.Warnings {
		fmt.Fprintln(os.Stderr, "tractor:", w)
	}
	if opts.Verbose {
		for _, file := range summary.FilesChanged {
			after, err := os.ReadFile(file)
			if err != nil {
				continue
			}
			fmt.Fprint(os.Stderr, cli.UnifiedDiff(string(before[file]), string(after), file, 3, opts.UseColor))
		}
		fmt.Fprintf(os.Stderr, "tractor: rewrote %d file(s)\n", len(summary.FilesChanged))
	}
	return 0
}

// finish evaluates `-e/--expect` against the final match set. A failed
// expectation prints the offending matches via the GCC formatter and
// exits non-zero unless --warning.
func finish(matches []xpathbridge.Match, opts runOptions) int {
	if opts.Expect == "" {
		return 0
	}
	exp, ok := orchestrate.ParseExpectation(opts.Expect)
	if !ok {
		fmt.Fprintf(os.Stderr, "tractor: invalid --expect value %q\n", opts.Expect)
		return 2
	}
	result := orchestrate.Evaluate(exp, matches, opts.Warning)
	if !result.Satisfied {
		msg := opts.ErrorTemplate
		if msg == "" {
			msg = fmt.Sprintf("%s expectation failed: got %d match(es)", result.Glyph, len(matches))
		}
		fmt.Fprintln(os.Stderr, msg)
		if gcc, err := format.Matches(matches, format.GCC, ""); err == nil {
			fmt.Fprint(os.Stderr, gcc)
		}
	} else if opts.Verbose {
		fmt.Fprintf(os.Stderr, "tractor: %s expectation satisfied\n", result.Glyph)
	}
	return result.ExitCode(opts.Warning)
}

// resolveColor applies `--color`'s auto|always|never policy, honoring
// NO_COLOR in auto mode.
func resolveColor(policy string) bool {
	switch policy {
	case "always":
		return true
	case "never":
		return false
	default:
		if os.Getenv("NO_COLOR") != "" {
			return false
		}
		return !color.NoColor
	}
}

// reportProfile prints the invocation's wall-clock duration to stderr
// when TRACTOR_PROFILE is set to any value.
func reportProfile(start time.Time) {
	if os.Getenv("TRACTOR_PROFILE") == "" {
		return
	}
	fmt.Fprintf(os.Stderr, "tractor: completed in %s\n", time.Since(start))
}

func printVersion() {
	fmt.Printf("tractor %s\n", version)
	fmt.Println("grammars:")
	for _, l := range catalog.Languages() {
		fmt.Printf("  %s\n", l.ID)
	}
}
