// Package scaffold materializes the bundled project templates.
//
// Each family has a directory under templates/ holding a template.yml
// descriptor and a files/ tree. Files ending in .tmpl are rendered with Data
// and lose the suffix; everything else is copied verbatim. A single leading
// underscore in a file name becomes a dot (_gitignore → .gitignore).
// Files in templates/_shared are added to every family.
package scaffold

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/simonhull/firebird-suite/hatch/internal/generator"
	"github.com/simonhull/firebird-suite/hatch/internal/project"
)

//go:embed all:templates
var templatesFS embed.FS

const sharedDir = "templates/_shared"

// Descriptor is the parsed template.yml of a family
type Descriptor struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Runtime     string   `yaml:"runtime"`
	Commands    []string `yaml:"commands"`
}

// CommandsFor returns the getting-started commands with npm swapped for the
// chosen package manager
func (d *Descriptor) CommandsFor(packageManager string) []string {
	out := make([]string, len(d.Commands))
	for i, c := range d.Commands {
		if packageManager != "" && packageManager != "npm" && strings.HasPrefix(c, "npm ") {
			c = packageManager + strings.TrimPrefix(c, "npm")
		}
		out[i] = c
	}
	return out
}

// Data is substituted into .tmpl files
type Data struct {
	ProjectName string
	PackageName string
	Description string
	Author      string
	Year        int
	Commands    []string
}

// Generator produces the operations that materialize one template
type Generator struct {
	renderer *generator.Renderer
	family   project.Family
}

// New creates a template generator for family
func New(family project.Family) *Generator {
	return &Generator{
		renderer: generator.NewRenderer(),
		family:   family,
	}
}

// Descriptor reads the family's template.yml
func (g *Generator) Descriptor() (*Descriptor, error) {
	return loadDescriptor(string(g.family))
}

// Generate returns one write operation per template file, rooted at targetDir
func (g *Generator) Generate(targetDir string, data Data) ([]generator.Operation, error) {
	desc, err := g.Descriptor()
	if err != nil {
		return nil, err
	}
	if data.Commands == nil {
		data.Commands = desc.Commands
	}

	var ops []generator.Operation
	for _, dir := range []string{path.Join("templates", string(g.family), "files"), sharedDir} {
		dirOps, err := g.generateDir(dir, targetDir, data)
		if err != nil {
			return nil, err
		}
		ops = append(ops, dirOps...)
	}

	return ops, nil
}

func (g *Generator) generateDir(dir, targetDir string, data Data) ([]generator.Operation, error) {
	var ops []generator.Operation

	err := fs.WalkDir(templatesFS, dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		rel := strings.TrimPrefix(p, dir+"/")
		content, err := g.render(p, data)
		if err != nil {
			return err
		}

		ops = append(ops, &generator.WriteFileOp{
			Path:    filepath.Join(targetDir, filepath.FromSlash(outputPath(rel))),
			Content: content,
			Mode:    0644,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("reading template %s: %w", g.family, err)
	}

	return ops, nil
}

func (g *Generator) render(p string, data Data) ([]byte, error) {
	if strings.HasSuffix(p, ".tmpl") {
		return g.renderer.RenderFS(templatesFS, p, data)
	}
	content, err := fs.ReadFile(templatesFS, p)
	if err != nil {
		return nil, err
	}
	return content, nil
}

// outputPath maps a template path to the path written in the project
func outputPath(rel string) string {
	rel = strings.TrimSuffix(rel, ".tmpl")
	dir, name := path.Split(rel)
	if strings.HasPrefix(name, "_") && !strings.HasPrefix(name, "__") {
		name = "." + name[1:]
	}
	return dir + name
}

// List returns the descriptor of every bundled family, in family order
func List() ([]*Descriptor, error) {
	var out []*Descriptor
	for _, f := range project.Families {
		d, err := loadDescriptor(string(f))
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

func loadDescriptor(family string) (*Descriptor, error) {
	data, err := templatesFS.ReadFile(path.Join("templates", family, "template.yml"))
	if err != nil {
		return nil, fmt.Errorf("template %q not found: %w", family, err)
	}

	var d Descriptor
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("parsing template.yml for %s: %w", family, err)
	}
	return &d, nil
}
