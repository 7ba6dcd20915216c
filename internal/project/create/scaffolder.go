// Package create builds a new project end to end: template, CI, deployment,
// enhancements, dependencies and the first commit.
package create

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/simonhull/firebird-suite/hatch/internal/config"
	"github.com/simonhull/firebird-suite/hatch/internal/enhance"
	"github.com/simonhull/firebird-suite/hatch/internal/exec"
	"github.com/simonhull/firebird-suite/hatch/internal/generator"
	"github.com/simonhull/firebird-suite/hatch/internal/generators/ci"
	"github.com/simonhull/firebird-suite/hatch/internal/generators/deploy"
	"github.com/simonhull/firebird-suite/hatch/internal/install"
	"github.com/simonhull/firebird-suite/hatch/internal/output"
	"github.com/simonhull/firebird-suite/hatch/internal/project"
	"github.com/simonhull/firebird-suite/hatch/internal/scaffold"
)

// maxNameLength matches npm's package name limit
const maxNameLength = 214

var namePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ErrExists is returned when the target directory is already present
var ErrExists = errors.New("directory already exists")

// ValidateName checks that name is usable as both a directory and a package name
func ValidateName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("project name is required")
	case len(name) > maxNameLength:
		return fmt.Errorf("project name must be at most %d characters", maxNameLength)
	case !namePattern.MatchString(name):
		return fmt.Errorf("invalid project name %q: use letters, digits, '.', '_' or '-', starting with a letter or digit", name)
	}
	return nil
}

// Options describes the project to create
type Options struct {
	Name           string
	Description    string
	Family         project.Family
	Deploy         deploy.Target
	PackageManager string
	Author         config.Author

	Install bool
	Git     bool
	Enhance bool

	// Dir is the parent directory; empty means the working directory
	Dir string
	// Writer receives the per-file progress lines; nil means os.Stdout
	Writer io.Writer
}

// Result reports what Scaffold did
type Result struct {
	Root       string
	Descriptor *scaffold.Descriptor
	Commands   []string
	// Enhancements is nil when enhancement was not requested
	Enhancements *enhance.Summary
	Warnings     []string
}

// Scaffolder creates new projects
type Scaffolder struct {
	opts     Options
	executor *exec.Executor
	engine   *enhance.Engine
	now      func() time.Time
}

// NewScaffolder creates a scaffolder for opts
func NewScaffolder(opts Options) *Scaffolder {
	if opts.Deploy == "" {
		opts.Deploy = deploy.TargetNone
	}
	if opts.PackageManager == "" {
		opts.PackageManager = "npm"
	}
	return &Scaffolder{
		opts:   opts,
		engine: enhance.NewEngine(),
		now:    time.Now,
	}
}

// WithExecutor runs install and git through executor instead of one rooted
// at the new project
func (s *Scaffolder) WithExecutor(executor *exec.Executor) *Scaffolder {
	s.executor = executor
	return s
}

// Scaffold creates the project. Template, CI and deployment files are all
// validated before any is written, and a failure removes the new directory.
// Enhancement, install and git failures are reported as warnings.
func (s *Scaffolder) Scaffold(ctx context.Context) (*Result, error) {
	if err := ValidateName(s.opts.Name); err != nil {
		return nil, err
	}

	root, err := filepath.Abs(filepath.Join(s.opts.Dir, s.opts.Name))
	if err != nil {
		return nil, fmt.Errorf("resolving project path: %w", err)
	}
	if _, err := os.Stat(root); err == nil {
		return nil, fmt.Errorf("%s: %w", root, ErrExists)
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("checking %s: %w", root, err)
	}

	tmpl := scaffold.New(s.opts.Family)
	desc, err := tmpl.Descriptor()
	if err != nil {
		return nil, err
	}

	result := &Result{
		Root:       root,
		Descriptor: desc,
		Commands:   desc.CommandsFor(s.opts.PackageManager),
	}

	ops, err := s.operations(tmpl, root, result.Commands)
	if err != nil {
		return nil, err
	}

	output.Verbose(fmt.Sprintf("Writing %d files to %s", len(ops), root))
	if err := generator.Execute(ctx, ops, generator.ExecuteOptions{Writer: s.opts.Writer, Root: root}); err != nil {
		_ = os.RemoveAll(root)
		return nil, err
	}

	if s.opts.Enhance {
		summary, err := s.engine.Run(ctx, root, s.opts.Family)
		if err != nil {
			result.warn(fmt.Sprintf("Enhancement skipped: %v", err))
		} else {
			result.Enhancements = summary
			if summary.Err != nil {
				result.warn(fmt.Sprintf("Enhancement stopped early: %v", summary.Err))
			}
		}
	}

	if s.opts.Install || s.opts.Git {
		s.runTools(ctx, root, result)
	}

	return result, nil
}

func (s *Scaffolder) operations(tmpl *scaffold.Generator, root string, commands []string) ([]generator.Operation, error) {
	data := scaffold.Data{
		ProjectName: s.opts.Name,
		PackageName: strings.ToLower(s.opts.Name),
		Description: s.opts.Description,
		Author:      s.opts.Author.Name,
		Year:        s.now().Year(),
		Commands:    commands,
	}

	ops, err := tmpl.Generate(root, data)
	if err != nil {
		return nil, fmt.Errorf("rendering template: %w", err)
	}

	ciOps, err := ci.New(s.opts.Family, ci.Options{
		ProjectName:    s.opts.Name,
		PackageManager: s.opts.PackageManager,
		Contact:        s.opts.Author.Email,
	}).Generate(root)
	if err != nil {
		return nil, fmt.Errorf("generating CI files: %w", err)
	}

	deployOps, err := deploy.New(s.opts.Family, s.opts.Deploy, s.opts.Name).Generate(root)
	if err != nil {
		return nil, fmt.Errorf("generating deployment files: %w", err)
	}

	ops = append(ops, ciOps...)
	return append(ops, deployOps...), nil
}

func (s *Scaffolder) runTools(ctx context.Context, root string, result *Result) {
	executor := s.executor
	if executor == nil {
		executor = exec.NewExecutor(&exec.Options{Dir: root})
	}

	installer, err := install.New(executor, install.Options{
		PackageManager: s.opts.PackageManager,
		AuthorName:     s.opts.Author.Name,
		AuthorEmail:    s.opts.Author.Email,
	})
	if err != nil {
		result.warn(err.Error())
		return
	}

	if s.opts.Install {
		if err := installer.Dependencies(ctx, s.opts.Family); err != nil {
			result.warn(fmt.Sprintf("Dependency install failed: %v", err))
		}
	}

	if s.opts.Git {
		if err := installer.Git(ctx); err != nil {
			result.warn(fmt.Sprintf("Git setup failed: %v", err))
		}
	}
}

func (r *Result) warn(msg string) {
	output.Warning(msg)
	r.Warnings = append(r.Warnings, msg)
}
