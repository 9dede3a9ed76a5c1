package orchestrate

import (
	"os"
	"runtime"
	"sort"
	"strconv"
	"sync"

	"github.com/oxhq/tractor/internal/xpathbridge"
)

// FileOutcome is what one worker produces for one file. Err is set for
// file-level failures that degrade gracefully (unsupported language,
// parse failure, query execute error); the batch loop reports these as
// warnings rather than aborting the invocation.
type FileOutcome struct {
	Path    string
	Matches []xpathbridge.Match
	Err     error
}

// BatchResult is one batch's worth of work: matches from every file in the
// batch, sorted by (file, line, col), and the outcomes that errored.
type BatchResult struct {
	Matches []xpathbridge.Match
	Errors  []FileOutcome
}

// Process runs one file through whatever pipeline the caller supplies.
type Process func(path string) ([]xpathbridge.Match, error)

// ResolveConcurrency returns override if positive, else the
// TRACTOR_WORKERS environment override, else runtime.NumCPU().
func ResolveConcurrency(override int) int {
	if override > 0 {
		return override
	}
	if v := os.Getenv("TRACTOR_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	n := runtime.NumCPU()
	if n < 1 {
		return 1
	}
	return n
}

// Batches runs files through process across a worker pool sized to
// concurrency, dispatching in exponentially growing batches: the first
// batch is sized to concurrency, each subsequent batch doubles up
// to a cap of 8x concurrency. Each batch's matches are sorted and sent on
// the returned channel before the next batch starts, so early output
// streams while later files are still being processed.
func Batches(files []string, concurrency int, process Process) <-chan BatchResult {
	out := make(chan BatchResult)
	if concurrency < 1 {
		concurrency = 1
	}
	maxBatch := concurrency * 8

	go func() {
		defer close(out)
		batchSize := concurrency
		i := 0
		for i < len(files) {
			end := i + batchSize
			if end > len(files) {
				end = len(files)
			}
			out <- runBatch(files[i:end], concurrency, process)
			i = end

			batchSize *= 2
			if batchSize > maxBatch {
				batchSize = maxBatch
			}
		}
	}()
	return out
}

func runBatch(files []string, concurrency int, process Process) BatchResult {
	outcomes := make([]FileOutcome, len(files))
	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup

	for i, path := range files {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, path string) {
			defer wg.Done()
			defer func() { <-sem }()
			matches, err := process(path)
			outcomes[i] = FileOutcome{Path: path, Matches: matches, Err: err}
		}(i, path)
	}
	wg.Wait()

	var result BatchResult
	for _, o := range outcomes {
		if o.Err != nil {
			result.Errors = append(result.Errors, o)
			continue
		}
		result.Matches = append(result.Matches, o.Matches...)
	}
	sort.Slice(result.Matches, func(i, j int) bool {
		a, b := result.Matches[i], result.Matches[j]
		if a.File != b.File {
			return a.File < b.File
		}
		if a.StartLine != b.StartLine {
			return a.StartLine < b.StartLine
		}
		return a.StartCol < b.StartCol
	})
	return result
}

// Truncate returns at most remaining matches from ms, and the remaining
// budget after taking them, for `-n/--limit` truncation across batches.
func Truncate(ms []xpathbridge.Match, remaining int) ([]xpathbridge.Match, int) {
	if remaining < 0 {
		return ms, remaining
	}
	if len(ms) > remaining {
		ms = ms[:remaining]
	}
	return ms, remaining - len(ms)
}
