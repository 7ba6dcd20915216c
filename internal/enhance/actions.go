package enhance

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	gitignore "github.com/denormal/go-gitignore"
	"github.com/pelletier/go-toml/v2"

	"github.com/simonhull/firebird-suite/hatch/internal/generator"
	"github.com/simonhull/firebird-suite/hatch/internal/manifest"
	"github.com/simonhull/firebird-suite/hatch/internal/output"
	"github.com/simonhull/firebird-suite/hatch/internal/project"
)

//go:embed all:assets
var assetsFS embed.FS

var assetRenderer = generator.NewRenderer()

// StepKind tags the variant held by a Step
type StepKind string

const (
	StepWriteFile       StepKind = "write-file"
	StepAddDependencies StepKind = "add-dependencies"
	StepAddScripts      StepKind = "add-scripts"
	StepAppendIgnore    StepKind = "append-ignore"
	StepMergeTOML       StepKind = "merge-toml"
)

// Step is one idempotent change. Which fields matter depends on Kind.
type Step struct {
	Kind StepKind

	// write-file: project-relative target and embedded asset to render.
	// append-ignore and merge-toml: project-relative target.
	Path  string
	Asset string

	// add-dependencies
	Packages map[string]string
	Dev      bool

	// add-scripts
	Scripts map[string]string

	// append-ignore
	Patterns []string

	// merge-toml: dotted table path and keys to add when absent
	Table  string
	Values map[string]any
}

// WriteFile renders asset to path unless path already exists
func WriteFile(path, asset string) Step {
	return Step{Kind: StepWriteFile, Path: path, Asset: asset}
}

// AddDependencies adds runtime packages to the manifest
func AddDependencies(packages map[string]string) Step {
	return Step{Kind: StepAddDependencies, Packages: packages}
}

// AddDevDependencies adds development packages to the manifest
func AddDevDependencies(packages map[string]string) Step {
	return Step{Kind: StepAddDependencies, Packages: packages, Dev: true}
}

// AddScripts adds package.json scripts that are not defined yet
func AddScripts(scripts map[string]string) Step {
	return Step{Kind: StepAddScripts, Scripts: scripts}
}

// AppendIgnore adds patterns to .gitignore unless already ignored
func AppendIgnore(patterns ...string) Step {
	return Step{Kind: StepAppendIgnore, Path: ".gitignore", Patterns: patterns}
}

// MergeTOML adds keys to a table of a TOML file unless already set
func MergeTOML(path, table string, values map[string]any) Step {
	return Step{Kind: StepMergeTOML, Path: path, Table: table, Values: values}
}

// String describes the step for logs and errors
func (s Step) String() string {
	switch s.Kind {
	case StepWriteFile:
		return fmt.Sprintf("write %s", s.Path)
	case StepAddDependencies:
		kind := "dependencies"
		if s.Dev {
			kind = "dev dependencies"
		}
		return fmt.Sprintf("add %s %s", kind, strings.Join(sortedKeys(s.Packages), ", "))
	case StepAddScripts:
		return fmt.Sprintf("add scripts %s", strings.Join(sortedKeys(s.Scripts), ", "))
	case StepAppendIgnore:
		return fmt.Sprintf("ignore %s", strings.Join(s.Patterns, ", "))
	case StepMergeTOML:
		return fmt.Sprintf("configure [%s] in %s", s.Table, s.Path)
	default:
		return string(s.Kind)
	}
}

// Action applies a list of steps to one project. Files are written first as
// a single transaction, then the remaining steps run in order.
type Action struct {
	Root   string
	Family project.Family
	Steps  []Step
}

// assetData is what embedded assets are rendered with
type assetData struct {
	ProjectName string
	Family      string
	ServerDir   string
	ClientDir   string
	NodeLike    bool
	HasClient   bool
	HasServer   bool
	JavaScript  bool
}

// Apply performs every step. Re-applying a completed action changes nothing.
func (a Action) Apply(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := a.writeFiles(); err != nil {
		return err
	}

	for _, step := range a.Steps {
		if err := ctx.Err(); err != nil {
			return err
		}

		var err error
		switch step.Kind {
		case StepWriteFile:
			continue
		case StepAddDependencies:
			err = a.updateManifest(func(m *manifest.Manifest) {
				m.AddDependencies(step.Packages, step.Dev)
			})
		case StepAddScripts:
			if !a.Family.JavaScript() {
				continue
			}
			err = a.updateManifest(func(m *manifest.Manifest) {
				m.AddScripts(step.Scripts)
			})
		case StepAppendIgnore:
			err = appendIgnore(a.Root, step.Path, step.Patterns)
		case StepMergeTOML:
			err = mergeTOML(filepath.Join(a.Root, filepath.FromSlash(step.Path)), step.Table, step.Values)
		default:
			err = fmt.Errorf("unknown step kind %q", step.Kind)
		}
		if err != nil {
			return fmt.Errorf("%s: %w", step, err)
		}
		output.Verbose(fmt.Sprintf("Applied: %s", step))
	}

	return nil
}

func (a Action) data() assetData {
	layout := a.Family.Layout()
	return assetData{
		ProjectName: filepath.Base(a.Root),
		Family:      string(a.Family),
		ServerDir:   layout.ServerDir,
		ClientDir:   layout.ClientDir,
		NodeLike:    a.Family.NodeLike(),
		HasClient:   a.Family.HasClient(),
		HasServer:   a.Family.HasServer(),
		JavaScript:  a.Family.JavaScript(),
	}
}

func (a Action) writeFiles() error {
	tx := generator.NewTransaction()
	data := a.data()

	for _, step := range a.Steps {
		if step.Kind != StepWriteFile {
			continue
		}

		target := filepath.Join(a.Root, filepath.FromSlash(step.Path))
		if _, err := os.Stat(target); err == nil {
			output.Verbose(fmt.Sprintf("Keeping %s (already exists)", step.Path))
			continue
		}

		content, err := assetRenderer.RenderFS(assetsFS, "assets/"+step.Asset, data)
		if err != nil {
			return fmt.Errorf("rendering %s: %w", step.Path, err)
		}
		tx.AddFile(target, content, 0644)
	}

	if tx.Len() == 0 {
		return nil
	}
	return tx.Commit()
}

func (a Action) updateManifest(fn func(*manifest.Manifest)) error {
	kind := manifest.KindPackageJSON
	if !a.Family.JavaScript() {
		kind = manifest.KindRequirements
	}
	return manifest.Update(a.Root, kind, func(m *manifest.Manifest) error {
		fn(m)
		return nil
	})
}

// appendIgnore adds the patterns .gitignore does not already cover
func appendIgnore(root, rel string, patterns []string) error {
	path := filepath.Join(root, filepath.FromSlash(rel))

	existing, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to read %s: %w", rel, err)
	}

	ignore := gitignore.New(bytes.NewReader(existing), root, nil)
	lines := map[string]bool{}
	for _, line := range strings.Split(string(existing), "\n") {
		lines[strings.TrimSpace(line)] = true
	}

	var missing []string
	for _, pattern := range patterns {
		if lines[pattern] {
			continue
		}
		if ignore == nil {
			missing = append(missing, pattern)
			continue
		}
		if match := ignore.Relative(strings.TrimSuffix(pattern, "/"), strings.HasSuffix(pattern, "/")); match != nil && match.Ignore() {
			continue
		}
		missing = append(missing, pattern)
	}
	if len(missing) == 0 {
		return nil
	}

	var buf bytes.Buffer
	buf.Write(existing)
	if len(existing) > 0 && !bytes.HasSuffix(existing, []byte("\n")) {
		buf.WriteString("\n")
	}
	for _, pattern := range missing {
		buf.WriteString(pattern)
		buf.WriteString("\n")
	}

	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", rel, err)
	}
	return nil
}

// mergeTOML sets keys of the dotted table that are not present yet. Existing
// values are never replaced, and the rest of the file keeps its comments and
// key order.
func mergeTOML(path, table string, values map[string]any) error {
	doc := map[string]any{}

	existing, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := toml.Unmarshal(existing, &doc); err != nil {
			return fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
	case !os.IsNotExist(err):
		return fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}

	current, exists, err := lookupTable(doc, table)
	if err != nil {
		return fmt.Errorf("%s: %w", filepath.Base(path), err)
	}

	missing := map[string]any{}
	for key, value := range values {
		if _, ok := current[key]; !ok {
			missing[key] = value
		}
	}
	if len(missing) == 0 {
		return nil
	}

	lines, err := toml.Marshal(missing)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", filepath.Base(path), err)
	}

	data, ok := insertTOMLKeys(string(existing), table, exists, string(lines), missing)
	if !ok {
		// The table is defined inline or by dotted keys; re-encode the whole
		// document instead of editing text
		target, err := ensureTable(doc, table)
		if err != nil {
			return fmt.Errorf("%s: %w", filepath.Base(path), err)
		}
		for key, value := range missing {
			target[key] = value
		}
		encoded, err := toml.Marshal(doc)
		if err != nil {
			return fmt.Errorf("failed to encode %s: %w", filepath.Base(path), err)
		}
		data = string(encoded)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	return nil
}

// lookupTable follows a dotted table path. A missing table is reported with
// exists=false; a path through a non-table value is an error.
func lookupTable(doc map[string]any, table string) (map[string]any, bool, error) {
	current := doc
	for _, part := range strings.Split(table, ".") {
		next, ok := current[part]
		if !ok {
			return nil, false, nil
		}
		nested, ok := next.(map[string]any)
		if !ok {
			return nil, false, fmt.Errorf("%s is not a table", table)
		}
		current = nested
	}
	return current, true, nil
}

func ensureTable(doc map[string]any, table string) (map[string]any, error) {
	current := doc
	for _, part := range strings.Split(table, ".") {
		next, ok := current[part]
		if !ok {
			created := map[string]any{}
			current[part] = created
			current = created
			continue
		}
		nested, ok := next.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%s is not a table", table)
		}
		current = nested
	}
	return current, nil
}

// insertTOMLKeys adds key lines to src without touching the rest of the
// text: below the table's header when it has one, otherwise in a new section
// at the end. It reports false when the edited text does not parse back with
// every key in place.
func insertTOMLKeys(src, table string, exists bool, lines string, want map[string]any) (string, bool) {
	at := -1
	all := strings.SplitAfter(src, "\n")
	if exists {
		header := tableHeader(table)
		for i, line := range all {
			if header.MatchString(strings.TrimRight(line, "\r\n")) {
				at = i
				break
			}
		}
	}

	var out string
	if at >= 0 {
		if !strings.HasSuffix(all[at], "\n") {
			all[at] += "\n"
		}
		out = strings.Join(all[:at+1], "") + lines + strings.Join(all[at+1:], "")
	} else {
		out = src
		if out != "" {
			if !strings.HasSuffix(out, "\n") {
				out += "\n"
			}
			out += "\n"
		}
		out += "[" + table + "]\n" + lines
	}

	var check map[string]any
	if err := toml.Unmarshal([]byte(out), &check); err != nil {
		return "", false
	}
	got, ok, err := lookupTable(check, table)
	if err != nil || !ok {
		return "", false
	}
	for key := range want {
		if _, ok := got[key]; !ok {
			return "", false
		}
	}
	return out, true
}

// tableHeader matches the [a.b.c] line that opens table
func tableHeader(table string) *regexp.Regexp {
	parts := strings.Split(table, ".")
	for i, p := range parts {
		parts[i] = regexp.QuoteMeta(p)
	}
	return regexp.MustCompile(`^\s*\[\s*` + strings.Join(parts, `\s*\.\s*`) + `\s*\]\s*(#.*)?$`)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
