// Package filesystem walks project trees for analysis.
package filesystem

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// DefaultIgnoreDirs are version-control and dependency-cache directories.
// They are pruned from traversal entirely: their contents can be huge and
// never say anything about the project itself.
var DefaultIgnoreDirs = []string{
	".git", ".svn", ".hg",
	"node_modules", "bower_components",
	"__pycache__", ".venv", "venv", ".tox", ".mypy_cache", ".pytest_cache",
}

// WalkOptions configures directory traversal behavior
type WalkOptions struct {
	IgnoreDirs     []string // Directory names to prune (default: DefaultIgnoreDirs)
	IgnorePatterns []string // File name patterns to skip (e.g., "*.log")
	SkipHidden     bool     // Skip dot files and dot directories
}

// Walk traverses a directory tree, calling visitor for every file and
// directory that survives the ignore rules. Returning filepath.SkipDir from
// the visitor skips a directory.
func Walk(rootPath string, opts WalkOptions, visitor func(path string, d fs.DirEntry) error) error {
	ignore := make(map[string]bool)
	ignoreDirs := opts.IgnoreDirs
	if ignoreDirs == nil {
		ignoreDirs = DefaultIgnoreDirs
	}
	for _, name := range ignoreDirs {
		ignore[name] = true
	}

	return filepath.WalkDir(rootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable subdirectories are skipped, the root is not
			if path != rootPath && d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return err
		}

		if path == rootPath {
			return visitor(path, d)
		}

		name := d.Name()
		if d.IsDir() {
			if ignore[name] || (opts.SkipHidden && strings.HasPrefix(name, ".")) {
				return filepath.SkipDir
			}
			return visitor(path, d)
		}

		if opts.SkipHidden && strings.HasPrefix(name, ".") {
			return nil
		}
		for _, pattern := range opts.IgnorePatterns {
			if matched, _ := filepath.Match(pattern, name); matched {
				return nil
			}
		}

		return visitor(path, d)
	})
}

// ListFiles returns every regular file under rootPath as a sorted,
// slash-separated path relative to rootPath. Hidden files are included.
func ListFiles(rootPath string, opts WalkOptions) ([]string, error) {
	var files []string
	err := Walk(rootPath, opts, func(path string, d fs.DirEntry) error {
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(rootPath, path)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}
