package testutil

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/simonhull/firebird-suite/hatch/internal/commands"
	"github.com/simonhull/firebird-suite/hatch/internal/output"
)

// TestProject represents a temporary hatch project for testing
type TestProject struct {
	Root string
	Name string
	t    *testing.T
}

// NewTestProject creates a temporary parent directory for a project
func NewTestProject(t *testing.T, name string) *TestProject {
	t.Helper()

	t.Setenv("HOME", t.TempDir())

	return &TestProject{
		Root: t.TempDir(),
		Name: name,
		t:    t,
	}
}

// Dir returns the project directory
func (p *TestProject) Dir() string {
	return filepath.Join(p.Root, p.Name)
}

// RunHatch executes a hatch command in-process. "new" is run with --dir set
// to the parent directory; enhance and analyze are given the project directory.
func (p *TestProject) RunHatch(args ...string) (string, error) {
	p.t.Helper()

	if len(args) > 0 {
		switch args[0] {
		case "new":
			args = append(args, "--dir", p.Root)
		case "enhance", "analyze":
			args = append([]string{args[0], p.Dir()}, args[1:]...)
		}
	}

	var buf bytes.Buffer
	prev := output.SetWriter(&buf)
	defer output.SetWriter(prev)

	root := commands.RootCmd()
	root.AddCommand(commands.NewCmd(), commands.EnhanceCmd(), commands.AnalyzeCmd(), commands.TemplatesCmd())
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs(args)

	err := root.Execute()
	if err != nil {
		p.t.Logf("hatch %v failed: %s\nOutput: %s", args, err, buf.String())
		return buf.String(), err
	}

	p.t.Logf("hatch output: %s", buf.String())
	return buf.String(), nil
}

// FileExists checks if a file exists in the project
func (p *TestProject) FileExists(path string) bool {
	p.t.Helper()

	_, err := os.Stat(filepath.Join(p.Dir(), path))
	return err == nil
}

// ReadFile reads a file from the project
func (p *TestProject) ReadFile(path string) (string, error) {
	p.t.Helper()

	content, err := os.ReadFile(filepath.Join(p.Dir(), path))
	return string(content), err
}

// WriteFile writes a file into the project, creating parent directories
func (p *TestProject) WriteFile(path, content string) error {
	p.t.Helper()

	full := filepath.Join(p.Dir(), path)
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		return err
	}
	return os.WriteFile(full, []byte(content), 0644)
}

// Snapshot returns every file in the project keyed by relative path
func (p *TestProject) Snapshot() map[string]string {
	p.t.Helper()

	files := map[string]string{}
	err := filepath.WalkDir(p.Dir(), func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		rel, _ := filepath.Rel(p.Dir(), path)
		files[filepath.ToSlash(rel)] = string(data)
		return nil
	})
	if err != nil {
		p.t.Fatalf("snapshotting %s: %v", p.Dir(), err)
	}
	return files
}
