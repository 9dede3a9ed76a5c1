// Package cli carries the small pieces of CLI-facing behavior shared by
// the command entrypoints: the per-run processing summary, .env-backed
// flag defaults, and a unified-diff helper for --verbose replace output.
package cli

import "fmt"

// Summary is the end-of-run line printed to stderr under --verbose:
// files processed, matched, errored.
type Summary struct {
	FilesProcessed int
	FilesMatched   int
	FilesErrored   int
}

func (s Summary) String() string {
	return fmt.Sprintf("%d file(s) processed, %d matched, %d errored", s.FilesProcessed, s.FilesMatched, s.FilesErrored)
}
