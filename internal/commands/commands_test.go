package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simonhull/firebird-suite/hatch/internal/output"
)

// run executes the hatch CLI in-process and returns everything it printed
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	var buf bytes.Buffer
	prev := output.SetWriter(&buf)
	t.Cleanup(func() { output.SetWriter(prev) })

	root := RootCmd()
	root.AddCommand(NewCmd(), EnhanceCmd(), AnalyzeCmd(), TemplatesCmd())
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs(args)

	err := root.Execute()
	return buf.String(), err
}

func TestTemplatesCmd(t *testing.T) {
	out, err := run(t, "templates")
	require.NoError(t, err)

	for _, name := range []string{"node", "react", "python", "full-stack"} {
		assert.Contains(t, out, name)
	}
}

func TestNewCmd(t *testing.T) {
	dir := t.TempDir()

	out, err := run(t, "new", "shop", "--dir", dir, "--template", "react", "--deploy", "netlify", "--no-install", "--no-git")
	require.NoError(t, err)

	assert.Contains(t, out, "Created react project: shop")
	assert.Contains(t, out, "npm run dev")
	assert.FileExists(t, filepath.Join(dir, "shop", "netlify.toml"))
	assert.FileExists(t, filepath.Join(dir, "shop", "src", "App.jsx"))
	assert.NoFileExists(t, filepath.Join(dir, "shop", "ENHANCEMENTS.md"))
}

func TestNewCmd_Enhance(t *testing.T) {
	dir := t.TempDir()

	out, err := run(t, "new", "api", "--dir", dir, "--template", "python", "--enhance", "--no-install", "--no-git")
	require.NoError(t, err)

	assert.Contains(t, out, "Applied")
	assert.FileExists(t, filepath.Join(dir, "api", "ENHANCEMENTS.md"))
	assert.FileExists(t, filepath.Join(dir, "api", "app", "logging_config.py"))
}

func TestNewCmd_InvalidFlags(t *testing.T) {
	tests := map[string][]string{
		"template":        {"--template", "rails"},
		"deploy":          {"--deploy", "heroku"},
		"package manager": {"--package-manager", "bun"},
	}

	for name, flags := range tests {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			args := append([]string{"new", "demo", "--dir", dir, "--no-install", "--no-git"}, flags...)

			_, err := run(t, args...)
			assert.Error(t, err)
			assert.NoDirExists(t, filepath.Join(dir, "demo"))
		})
	}
}

func TestNewCmd_ExistingDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "demo"), 0755))

	_, err := run(t, "new", "demo", "--dir", dir, "--no-install", "--no-git")
	assert.ErrorContains(t, err, "already exists")
}

func TestEnhanceCmd(t *testing.T) {
	dir := t.TempDir()
	_, err := run(t, "new", "svc", "--dir", dir, "--template", "node", "--no-install", "--no-git")
	require.NoError(t, err)
	root := filepath.Join(dir, "svc")

	out, err := run(t, "enhance", root)
	require.NoError(t, err)
	assert.Contains(t, out, "Enhancing node project")
	assert.FileExists(t, filepath.Join(root, "src", "utils", "logger.js"))

	out, err = run(t, "analyze", root)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ hasLogging")
}

func TestEnhanceCmd_Failure(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "package.json"), []byte("{not json"), 0644))

	out, err := run(t, "enhance", root, "--template", "node")
	require.NoError(t, err)
	assert.Contains(t, out, "Enhancement stopped early")
	assert.FileExists(t, filepath.Join(root, "ENHANCEMENTS.md"))
}

func TestAnalyzeCmd(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "requirements.txt"), []byte("flask==3.0.3\n"), 0644))

	out, err := run(t, "analyze", root)
	require.NoError(t, err)
	assert.Contains(t, out, "Python project")
	assert.Contains(t, out, "✗ hasLogging")
	assert.Contains(t, out, "[high] Add logging configuration")
	assert.NoFileExists(t, filepath.Join(root, "ENHANCEMENTS.md"))
}

func TestAnalyzeCmd_MissingRoot(t *testing.T) {
	_, err := run(t, "analyze", filepath.Join(t.TempDir(), "nope"), "--template", "node")
	assert.Error(t, err)
}
