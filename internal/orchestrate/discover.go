// Package orchestrate turns CLI positional arguments into a concrete
// file list, then fans work out across a worker pool in exponentially
// growing batches.
package orchestrate

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	ignore "github.com/sabhiram/go-gitignore"
)

// Discover expands positional CLI arguments (file paths or glob patterns)
// into a deduplicated, gitignore-filtered list of file paths. A bare
// directory argument is walked recursively.
func Discover(patterns []string) ([]string, error) {
	gi := loadGitignore()

	seen := make(map[string]struct{})
	var out []string
	add := func(path string) {
		if gi != nil && gi.MatchesPath(relOrSelf(path)) {
			return
		}
		if _, ok := seen[path]; ok {
			return
		}
		seen[path] = struct{}{}
		out = append(out, path)
	}

	for _, pattern := range patterns {
		info, err := os.Stat(pattern)
		if err == nil && info.IsDir() {
			files, err := walkDir(pattern, gi)
			if err != nil {
				return nil, err
			}
			for _, f := range files {
				add(f)
			}
			continue
		}
		if err == nil {
			add(pattern)
			continue
		}

		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, fmt.Errorf("orchestrate: invalid glob %q: %w", pattern, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("orchestrate: no files matched %q", pattern)
		}
		for _, m := range matches {
			info, err := os.Stat(m)
			if err != nil {
				continue
			}
			if info.IsDir() {
				files, err := walkDir(m, gi)
				if err != nil {
					return nil, err
				}
				for _, f := range files {
					add(f)
				}
				continue
			}
			add(m)
		}
	}
	return out, nil
}

// Filter narrows files to those matching at least one include pattern
// (when any are given) and no exclude pattern. Patterns use doublestar
// glob syntax and match against the path as discovered.
func Filter(files, includes, excludes []string) []string {
	matchAny := func(patterns []string, path string) bool {
		for _, p := range patterns {
			if ok, err := doublestar.Match(p, filepath.ToSlash(path)); err == nil && ok {
				return true
			}
		}
		return false
	}
	var out []string
	for _, f := range files {
		if len(includes) > 0 && !matchAny(includes, f) {
			continue
		}
		if matchAny(excludes, f) {
			continue
		}
		out = append(out, f)
	}
	return out
}

var skipDirs = map[string]bool{
	".git": true, "vendor": true, "node_modules": true, "dist": true, "build": true,
}

func walkDir(root string, gi *ignore.GitIgnore) ([]string, error) {
	var files []string
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			name := info.Name()
			if name != "." && (skipDirs[name] || (name[0] == '.' && path != root)) {
				return filepath.SkipDir
			}
			if gi != nil && gi.MatchesPath(relOrSelf(path)) {
				return filepath.SkipDir
			}
			return nil
		}
		if gi != nil && gi.MatchesPath(relOrSelf(path)) {
			return nil
		}
		files = append(files, path)
		return nil
	})
	return files, err
}

func relOrSelf(path string) string {
	cwd, err := os.Getwd()
	if err != nil {
		return path
	}
	rel, err := filepath.Rel(cwd, path)
	if err != nil {
		return path
	}
	return rel
}

// loadGitignore reads .gitignore files from the working directory up to
// the filesystem root, closer files taking precedence. A missing or
// unreadable .gitignore silently disables filtering rather than failing
// discovery.
func loadGitignore() *ignore.GitIgnore {
	cwd, err := os.Getwd()
	if err != nil {
		return nil
	}

	var files []string
	dir := cwd
	for {
		path := filepath.Join(dir, ".gitignore")
		if _, err := os.Stat(path); err == nil {
			files = append(files, path)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	if len(files) == 0 {
		return nil
	}
	for i, j := 0, len(files)-1; i < j; i, j = i+1, j-1 {
		files[i], files[j] = files[j], files[i]
	}

	var lines []string
	for _, f := range files[1:] {
		b, err := os.ReadFile(f)
		if err != nil {
			return nil
		}
		lines = append(lines, strings.Split(string(b), "\n")...)
	}
	gi, err := ignore.CompileIgnoreFileAndLines(files[0], lines...)
	if err != nil {
		return nil
	}
	return gi
}
