package create

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	osexec "os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simonhull/firebird-suite/hatch/internal/config"
	"github.com/simonhull/firebird-suite/hatch/internal/exec"
	"github.com/simonhull/firebird-suite/hatch/internal/generators/deploy"
	"github.com/simonhull/firebird-suite/hatch/internal/output"
	"github.com/simonhull/firebird-suite/hatch/internal/project"
)

func TestMain(m *testing.M) {
	output.SetWriter(io.Discard)
	os.Exit(m.Run())
}

// TestHelperProcess plays npm, pip and git; HATCH_TEST_FAIL names a tool
// that exits non-zero
func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}

	args := os.Args
	for i, arg := range args {
		if arg == "--" {
			args = args[i+1:]
			break
		}
	}

	if f, err := os.OpenFile(os.Getenv("HATCH_TEST_LOG"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644); err == nil {
		fmt.Fprintln(f, strings.Join(args, " "))
		f.Close()
	}

	if args[0] == os.Getenv("HATCH_TEST_FAIL") {
		fmt.Fprintln(os.Stderr, args[0]+" is broken")
		os.Exit(1)
	}
	os.Exit(0)
}

func fakeExecutor(t *testing.T, failTool string) (*exec.Executor, string) {
	t.Helper()
	log := filepath.Join(t.TempDir(), "commands.log")

	return exec.NewExecutor(&exec.Options{
		Stdout: io.Discard,
		Stderr: io.Discard,
		CommandFunc: func(name string, args ...string) *osexec.Cmd {
			cs := append([]string{"-test.run=TestHelperProcess", "--", name}, args...)
			cmd := osexec.Command(os.Args[0], cs...)
			cmd.Env = []string{
				"GO_WANT_HELPER_PROCESS=1",
				"HATCH_TEST_LOG=" + log,
				"HATCH_TEST_FAIL=" + failTool,
			}
			return cmd
		},
	}), log
}

func baseOptions(t *testing.T, family project.Family) Options {
	return Options{
		Name:        "demo-app",
		Description: "A demo",
		Family:      family,
		Author:      config.Author{Name: "Ada Lovelace", Email: "ada@example.com"},
		Dir:         t.TempDir(),
		Writer:      io.Discard,
	}
}

func TestValidateName(t *testing.T) {
	valid := []string{"demo", "demo-app", "demo_app", "demo.app", "Demo2"}
	for _, name := range valid {
		assert.NoError(t, ValidateName(name), name)
	}

	invalid := []string{"", "-demo", ".demo", "demo app", "demo/app", "../demo", strings.Repeat("a", 215)}
	for _, name := range invalid {
		assert.Error(t, ValidateName(name), name)
	}
}

func TestScaffold_AllFamilies(t *testing.T) {
	for _, family := range project.Families {
		t.Run(string(family), func(t *testing.T) {
			opts := baseOptions(t, family)

			result, err := NewScaffolder(opts).Scaffold(context.Background())
			require.NoError(t, err)

			assert.Equal(t, filepath.Join(opts.Dir, "demo-app"), result.Root)
			assert.Nil(t, result.Enhancements)
			assert.Empty(t, result.Warnings)
			assert.NotEmpty(t, result.Commands)

			for _, f := range []string{"README.md", "LICENSE", "SECURITY.md", ".gitignore", ".github/workflows/ci.yml", ".github/dependabot.yml"} {
				assert.FileExists(t, filepath.Join(result.Root, f))
			}

			detected, err := project.Detect(result.Root)
			require.NoError(t, err)
			assert.Equal(t, family, detected)
		})
	}
}

func TestScaffold_InvalidName(t *testing.T) {
	opts := baseOptions(t, project.FamilyNode)
	opts.Name = "bad name"

	_, err := NewScaffolder(opts).Scaffold(context.Background())
	require.Error(t, err)
	assert.NoDirExists(t, filepath.Join(opts.Dir, "bad name"))
}

func TestScaffold_ExistingDirectory(t *testing.T) {
	opts := baseOptions(t, project.FamilyNode)
	existing := filepath.Join(opts.Dir, opts.Name)
	require.NoError(t, os.Mkdir(existing, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(existing, "keep.txt"), []byte("mine"), 0644))

	_, err := NewScaffolder(opts).Scaffold(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrExists))

	data, err := os.ReadFile(filepath.Join(existing, "keep.txt"))
	require.NoError(t, err)
	assert.Equal(t, "mine", string(data))
}

func TestScaffold_UnknownFamilyWritesNothing(t *testing.T) {
	opts := baseOptions(t, project.Family("elixir"))

	_, err := NewScaffolder(opts).Scaffold(context.Background())
	require.Error(t, err)
	assert.NoDirExists(t, filepath.Join(opts.Dir, opts.Name))
}

func TestScaffold_Deploy(t *testing.T) {
	tests := map[deploy.Target]string{
		deploy.TargetVercel:  "vercel.json",
		deploy.TargetNetlify: "netlify.toml",
		deploy.TargetAWS:     "serverless.yml",
		deploy.TargetGCP:     "app.yaml",
	}

	for target, file := range tests {
		t.Run(string(target), func(t *testing.T) {
			opts := baseOptions(t, project.FamilyReact)
			opts.Deploy = target

			result, err := NewScaffolder(opts).Scaffold(context.Background())
			require.NoError(t, err)
			assert.FileExists(t, filepath.Join(result.Root, file))
		})
	}
}

func TestScaffold_TemplateData(t *testing.T) {
	opts := baseOptions(t, project.FamilyNode)
	opts.Name = "Demo-App"
	opts.PackageManager = "pnpm"

	result, err := NewScaffolder(opts).Scaffold(context.Background())
	require.NoError(t, err)

	pkg, err := os.ReadFile(filepath.Join(result.Root, "package.json"))
	require.NoError(t, err)
	assert.Contains(t, string(pkg), `"name": "demo-app"`)

	license, err := os.ReadFile(filepath.Join(result.Root, "LICENSE"))
	require.NoError(t, err)
	assert.Contains(t, string(license), "Ada Lovelace")

	ci, err := os.ReadFile(filepath.Join(result.Root, ".github", "workflows", "ci.yml"))
	require.NoError(t, err)
	assert.Contains(t, string(ci), "pnpm install --frozen-lockfile")

	for _, c := range result.Commands {
		assert.False(t, strings.HasPrefix(c, "npm "), c)
	}
}

func TestScaffold_Enhance(t *testing.T) {
	opts := baseOptions(t, project.FamilyNode)
	opts.Enhance = true

	result, err := NewScaffolder(opts).Scaffold(context.Background())
	require.NoError(t, err)
	require.NotNil(t, result.Enhancements)
	assert.NoError(t, result.Enhancements.Err)
	assert.Empty(t, result.Warnings)

	assert.FileExists(t, filepath.Join(result.Root, "ENHANCEMENTS.md"))
	assert.FileExists(t, filepath.Join(result.Root, "src", "utils", "logger.js"))
	assert.FileExists(t, filepath.Join(result.Root, "src", "middleware", "security.js"))
}

func TestScaffold_InstallAndGit(t *testing.T) {
	executor, log := fakeExecutor(t, "")
	opts := baseOptions(t, project.FamilyPython)
	opts.Install = true
	opts.Git = true

	result, err := NewScaffolder(opts).WithExecutor(executor).Scaffold(context.Background())
	require.NoError(t, err)
	assert.Empty(t, result.Warnings)

	data, err := os.ReadFile(log)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"pip install -r requirements.txt",
		"git init --quiet",
		"git add -A",
		"git commit --quiet -m Initial commit from hatch",
	}, strings.Split(strings.TrimSpace(string(data)), "\n"))
}

func TestScaffold_ToolFailuresAreWarnings(t *testing.T) {
	executor, log := fakeExecutor(t, "npm")
	opts := baseOptions(t, project.FamilyNode)
	opts.Install = true
	opts.Git = true

	result, err := NewScaffolder(opts).WithExecutor(executor).Scaffold(context.Background())
	require.NoError(t, err)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "Dependency install failed")
	assert.Contains(t, result.Warnings[0], "npm is broken")

	data, err := os.ReadFile(log)
	require.NoError(t, err)
	assert.Contains(t, string(data), "git commit")
	assert.DirExists(t, result.Root)
}
