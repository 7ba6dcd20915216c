// Package install runs the external tools a fresh project needs: the package
// manager for its dependencies and git for its first commit.
package install

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/simonhull/firebird-suite/hatch/internal/exec"
	"github.com/simonhull/firebird-suite/hatch/internal/project"
)

// Registered command names
const (
	CommandNPM  = "npm-install"
	CommandYarn = "yarn-install"
	CommandPNPM = "pnpm-install"
	CommandPip  = "pip-install"
	CommandGit  = "git-init"
)

// CommitMessage is used for the first commit of every generated project
const CommitMessage = "Initial commit from hatch"

// packageInstall installs dependencies with a single tool invocation
type packageInstall struct {
	name string
	tool string
	args []string
}

func (p *packageInstall) Name() string { return p.name }

func (p *packageInstall) Description() string {
	return fmt.Sprintf("Install dependencies with %s", p.tool)
}

func (p *packageInstall) Execute(ctx context.Context, executor *exec.Executor) error {
	return exec.NewGenericCommand(executor, p.tool).
		WithArgs(p.args...).
		WithSpinner("Installing dependencies with " + p.tool).
		Run(ctx)
}

// pipInstall installs requirements.txt, plus requirements-dev.txt when the
// project has one
type pipInstall struct{}

func (pipInstall) Name() string        { return CommandPip }
func (pipInstall) Description() string { return "Install dependencies with pip" }

func (pipInstall) Execute(ctx context.Context, executor *exec.Executor) error {
	return exec.NewGenericCommand(executor, "pip").
		WithArgs(pipArgs(executor.Dir())...).
		WithSpinner("Installing dependencies with pip").
		Run(ctx)
}

func pipArgs(dir string) []string {
	args := []string{"install", "-r", "requirements.txt"}
	if _, err := os.Stat(filepath.Join(dir, "requirements-dev.txt")); err == nil {
		args = append(args, "-r", "requirements-dev.txt")
	}
	return args
}

// gitSetup initializes a repository and commits everything in it
type gitSetup struct {
	env []string
}

func (g *gitSetup) Name() string        { return CommandGit }
func (g *gitSetup) Description() string { return "Initialize a git repository" }

func (g *gitSetup) Execute(ctx context.Context, executor *exec.Executor) error {
	steps := []*exec.GenericCommand{
		exec.NewGenericCommand(executor, "git").WithArgs("init", "--quiet"),
		exec.NewGenericCommand(executor, "git").WithArgs("add", "-A"),
		exec.NewGenericCommand(executor, "git").
			WithArgs("commit", "--quiet", "-m", CommitMessage).
			WithEnv(g.env...),
	}

	for _, step := range steps {
		if err := step.Run(ctx); err != nil {
			return fmt.Errorf("%s: %w", step, err)
		}
	}
	return nil
}

// Options configures an Installer
type Options struct {
	// PackageManager is npm, yarn or pnpm; empty means npm
	PackageManager string
	// AuthorName and AuthorEmail, when set, sign the first commit
	AuthorName  string
	AuthorEmail string
}

// Installer looks up and runs registered install commands
type Installer struct {
	registry *exec.CommandRegistry
	executor *exec.Executor
	pm       string
}

// New creates an installer whose commands run through executor
func New(executor *exec.Executor, opts Options) (*Installer, error) {
	registry := exec.NewCommandRegistry()

	commands := []exec.CommandWrapper{
		&packageInstall{name: CommandNPM, tool: "npm", args: []string{"install"}},
		&packageInstall{name: CommandYarn, tool: "yarn", args: []string{"install"}},
		&packageInstall{name: CommandPNPM, tool: "pnpm", args: []string{"install"}},
		pipInstall{},
		&gitSetup{env: authorEnv(opts.AuthorName, opts.AuthorEmail)},
	}
	if err := registry.Register(commands...); err != nil {
		return nil, err
	}

	pm := opts.PackageManager
	if pm == "" {
		pm = "npm"
	}

	return &Installer{registry: registry, executor: executor, pm: pm}, nil
}

// Commands returns the registered command names
func (i *Installer) Commands() []string {
	return i.registry.List()
}

// DependencyCommand returns the registered command that installs
// dependencies for family
func (i *Installer) DependencyCommand(family project.Family) (string, error) {
	if family == project.FamilyPython {
		return CommandPip, nil
	}

	name := i.pm + "-install"
	if !i.registry.Has(name) {
		return "", fmt.Errorf("unsupported package manager %q", i.pm)
	}
	return name, nil
}

// Dependencies installs the project's dependencies
func (i *Installer) Dependencies(ctx context.Context, family project.Family) error {
	name, err := i.DependencyCommand(family)
	if err != nil {
		return err
	}
	return i.registry.Execute(ctx, name, i.executor)
}

// Git initializes a repository and creates the first commit
func (i *Installer) Git(ctx context.Context) error {
	return i.registry.Execute(ctx, CommandGit, i.executor)
}

func authorEnv(name, email string) []string {
	var env []string
	if name != "" {
		env = append(env, "GIT_AUTHOR_NAME="+name, "GIT_COMMITTER_NAME="+name)
	}
	if email != "" {
		env = append(env, "GIT_AUTHOR_EMAIL="+email, "GIT_COMMITTER_EMAIL="+email)
	}
	return env
}
