package commands

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/simonhull/firebird-suite/hatch/internal/input"
	"github.com/simonhull/firebird-suite/hatch/internal/output"
	"github.com/simonhull/firebird-suite/hatch/internal/project"
	"github.com/simonhull/firebird-suite/hatch/internal/scaffold"
)

// selectTemplate asks for a template when running in a terminal, otherwise
// returns fallback
func selectTemplate(fallback string) (string, error) {
	if !input.Interactive() {
		return fallback, nil
	}

	descriptors, err := scaffold.List()
	if err != nil {
		return "", err
	}

	options := make([]input.Option, 0, len(descriptors))
	for _, d := range descriptors {
		options = append(options, input.Option{
			Label: fmt.Sprintf("%-10s %s", d.Name, d.Description),
			Value: d.Name,
		})
	}

	return input.Select("Template", options, fallback)
}

// resolveFamily uses the --template value when given, otherwise detects the
// family of the project at root
func resolveFamily(template, root string) (project.Family, error) {
	if template != "" {
		return project.ParseFamily(template)
	}

	if !project.IsProject(root) {
		output.Warning(fmt.Sprintf("No package.json, requirements.txt or pyproject.toml in %s", displayPath(root)))
	}

	family, err := project.Detect(root)
	if err != nil {
		return "", err
	}
	output.Verbose(fmt.Sprintf("Detected %s project", family))
	return family, nil
}

// projectRoot returns the optional positional path argument
func projectRoot(args []string) string {
	if len(args) == 0 {
		return "."
	}
	return args[0]
}

func displayPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

func check(present bool) string {
	if present {
		return "✓"
	}
	return "✗"
}

func title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
