// Package ci generates GitHub Actions workflows, Dependabot configuration
// and a security policy for a new project.
package ci

import (
	"bytes"
	"embed"
	"fmt"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/simonhull/firebird-suite/hatch/internal/generator"
	"github.com/simonhull/firebird-suite/hatch/internal/project"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

var (
	nodeVersions   = []string{"18.x", "20.x", "22.x"}
	pythonVersions = []string{"3.10", "3.11", "3.12"}
)

// Options configures the generated files
type Options struct {
	ProjectName    string
	PackageManager string // npm, yarn or pnpm
	Contact        string // security contact, optional
}

// Generator generates CI and security files
type Generator struct {
	renderer *generator.Renderer
	family   project.Family
	opts     Options
}

// New creates a CI generator for family
func New(family project.Family, opts Options) *Generator {
	if opts.PackageManager == "" {
		opts.PackageManager = "npm"
	}
	return &Generator{
		renderer: generator.NewRenderer(),
		family:   family,
		opts:     opts,
	}
}

// Generate returns the write operations for every CI file under root
func (g *Generator) Generate(root string) ([]generator.Operation, error) {
	files := []struct {
		path  string
		build func() ([]byte, error)
	}{
		{".github/workflows/ci.yml", func() ([]byte, error) { return marshalYAML(g.ciWorkflow()) }},
		{".github/workflows/codeql.yml", func() ([]byte, error) { return marshalYAML(g.codeqlWorkflow()) }},
		{".github/dependabot.yml", func() ([]byte, error) { return marshalYAML(g.dependabot()) }},
		{"SECURITY.md", g.securityPolicy},
	}

	var ops []generator.Operation
	for _, f := range files {
		content, err := f.build()
		if err != nil {
			return nil, fmt.Errorf("generating %s: %w", f.path, err)
		}
		ops = append(ops, &generator.WriteFileOp{
			Path:    filepath.Join(root, filepath.FromSlash(f.path)),
			Content: content,
			Mode:    0644,
		})
	}
	return ops, nil
}

func (g *Generator) ciWorkflow() workflow {
	var test job
	if g.family.JavaScript() {
		test = g.nodeJob()
	} else {
		test = pythonJob()
	}

	return workflow{
		Name: "CI",
		On: map[string]any{
			"push":         map[string][]string{"branches": {"main"}},
			"pull_request": map[string][]string{"branches": {"main"}},
		},
		Permissions: map[string]string{"contents": "read"},
		Jobs:        map[string]job{"test": test},
	}
}

func (g *Generator) nodeJob() job {
	pm := g.opts.PackageManager

	steps := []step{{Uses: "actions/checkout@v4"}}
	if pm == "pnpm" {
		steps = append(steps, step{Uses: "pnpm/action-setup@v4", With: map[string]string{"version": "9"}})
	}
	steps = append(steps,
		step{
			Name: "Use Node.js ${{ matrix.node-version }}",
			Uses: "actions/setup-node@v4",
			With: map[string]string{"node-version": "${{ matrix.node-version }}", "cache": pm},
		},
		step{Name: "Install dependencies", Run: installCommand(pm)},
		step{Name: "Lint", Run: pm + " run lint --if-present"},
		step{Name: "Test", Run: pm + " test --if-present"},
		step{Name: "Build", Run: pm + " run build --if-present"},
	)

	return job{
		RunsOn:   "ubuntu-latest",
		Strategy: &strategy{Matrix: map[string][]string{"node-version": nodeVersions}},
		Steps:    steps,
	}
}

func pythonJob() job {
	return job{
		RunsOn:   "ubuntu-latest",
		Strategy: &strategy{Matrix: map[string][]string{"python-version": pythonVersions}},
		Steps: []step{
			{Uses: "actions/checkout@v4"},
			{
				Name: "Set up Python ${{ matrix.python-version }}",
				Uses: "actions/setup-python@v5",
				With: map[string]string{"python-version": "${{ matrix.python-version }}", "cache": "pip"},
			},
			{
				Name: "Install dependencies",
				Run:  "python -m pip install --upgrade pip\npip install -r requirements.txt\nif [ -f requirements-dev.txt ]; then pip install -r requirements-dev.txt; fi\n",
			},
			{Name: "Test", Run: "if [ -d tests ]; then python -m pytest; fi"},
		},
	}
}

func installCommand(pm string) string {
	switch pm {
	case "yarn":
		return "yarn install --frozen-lockfile"
	case "pnpm":
		return "pnpm install --frozen-lockfile"
	default:
		return "npm ci"
	}
}

func (g *Generator) codeqlWorkflow() workflow {
	language := "javascript-typescript"
	if !g.family.JavaScript() {
		language = "python"
	}

	return workflow{
		Name: "CodeQL",
		On: map[string]any{
			"push":         map[string][]string{"branches": {"main"}},
			"pull_request": map[string][]string{"branches": {"main"}},
			"schedule":     []map[string]string{{"cron": "30 4 * * 1"}},
		},
		Jobs: map[string]job{
			"analyze": {
				Name:   "Analyze",
				RunsOn: "ubuntu-latest",
				Permissions: map[string]string{
					"actions":         "read",
					"contents":        "read",
					"security-events": "write",
				},
				Steps: []step{
					{Uses: "actions/checkout@v4"},
					{Name: "Initialize CodeQL", Uses: "github/codeql-action/init@v3", With: map[string]string{"languages": language}},
					{Name: "Perform CodeQL Analysis", Uses: "github/codeql-action/analyze@v3"},
				},
			},
		},
	}
}

func (g *Generator) ecosystem() string {
	if g.family.JavaScript() {
		return "npm"
	}
	return "pip"
}

func (g *Generator) dependabot() dependabotConfig {
	return dependabotConfig{
		Version: 2,
		Updates: []dependabotUpdate{
			{
				PackageEcosystem:      g.ecosystem(),
				Directory:             "/",
				Schedule:              dependabotSchedule{Interval: "weekly"},
				OpenPullRequestsLimit: 10,
			},
			{
				PackageEcosystem: "github-actions",
				Directory:        "/",
				Schedule:         dependabotSchedule{Interval: "weekly"},
			},
		},
	}
}

func (g *Generator) securityPolicy() ([]byte, error) {
	return g.renderer.RenderFS(templatesFS, "templates/SECURITY.md.tmpl", struct {
		ProjectName string
		Contact     string
		Ecosystem   string
	}{
		ProjectName: g.opts.ProjectName,
		Contact:     g.opts.Contact,
		Ecosystem:   g.ecosystem(),
	})
}

func marshalYAML(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
