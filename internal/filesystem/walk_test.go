package filesystem

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, root string, files ...string) {
	t.Helper()
	for _, f := range files {
		path := filepath.Join(root, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
	}
}

func TestListFiles_PrunesDependencyCaches(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root,
		"package.json",
		"src/index.js",
		".env",
		".eslintrc.json",
		"node_modules/express/index.js",
		".git/HEAD",
		"app/__pycache__/main.cpython-312.pyc",
		".venv/lib/site.py",
	)

	files, err := ListFiles(root, WalkOptions{})
	require.NoError(t, err)

	assert.Equal(t, []string{".env", ".eslintrc.json", "package.json", "src/index.js"}, files)
}

func TestListFiles_Sorted(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "b.txt", "a/z.txt", "a/b.txt", "c/a.txt")

	files, err := ListFiles(root, WalkOptions{})
	require.NoError(t, err)

	assert.Equal(t, []string{"a/b.txt", "a/z.txt", "b.txt", "c/a.txt"}, files)
}

func TestWalk_IgnoredDirectoriesAreNeverEntered(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "node_modules/a/b/c.js", "keep.js")

	var visited []string
	err := Walk(root, WalkOptions{}, func(path string, d fs.DirEntry) error {
		visited = append(visited, path)
		return nil
	})
	require.NoError(t, err)

	for _, v := range visited {
		assert.False(t, strings.Contains(v, "node_modules"), "visited ignored directory: %s", v)
	}
}

func TestWalk_CustomIgnoreAndPatterns(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "dist/bundle.js", "src/app.js", "debug.log", ".hidden/x.js")

	files, err := ListFiles(root, WalkOptions{
		IgnoreDirs:     []string{"dist"},
		IgnorePatterns: []string{"*.log"},
		SkipHidden:     true,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"src/app.js"}, files)
}

func TestWalk_SkipDirFromVisitor(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "skipme/a.js", "other/b.js")

	var files []string
	err := Walk(root, WalkOptions{}, func(path string, d fs.DirEntry) error {
		if d.IsDir() && d.Name() == "skipme" {
			return filepath.SkipDir
		}
		if !d.IsDir() {
			rel, _ := filepath.Rel(root, path)
			files = append(files, filepath.ToSlash(rel))
		}
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"other/b.js"}, files)
}

func TestListFiles_MissingRoot(t *testing.T) {
	_, err := ListFiles(filepath.Join(t.TempDir(), "missing"), WalkOptions{})
	assert.Error(t, err)
}
