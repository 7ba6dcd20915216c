// Package manifest reads and updates a project's dependency manifest.
//
// Two sources are understood, first match wins:
//
//	package.json                            JavaScript families
//	requirements.txt + requirements-dev.txt python, name from pyproject.toml
//
// A project without either yields Empty(). Reads never fail on a missing
// file; updates are self-contained read-modify-write cycles (Update).
package manifest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Kind identifies where a manifest was read from
type Kind string

const (
	KindNone         Kind = "none"
	KindPackageJSON  Kind = "package.json"
	KindRequirements Kind = "requirements.txt"
)

const (
	packageJSONFile    = "package.json"
	requirementsTxt    = "requirements.txt"
	requirementsDevTxt = "requirements-dev.txt"
	pyprojectFile      = "pyproject.toml"
)

// ErrInvalid is returned when a manifest exists but does not have the
// expected shape
var ErrInvalid = errors.New("invalid manifest")

// Manifest is the dependency view of a project. Maps are never nil.
type Manifest struct {
	Kind            Kind
	Name            string
	Dependencies    map[string]string
	DevDependencies map[string]string
	Scripts         map[string]string
}

// Empty returns a manifest with no entries
func Empty() *Manifest {
	return &Manifest{
		Kind:            KindNone,
		Dependencies:    map[string]string{},
		DevDependencies: map[string]string{},
		Scripts:         map[string]string{},
	}
}

// Load reads the manifest under root. A missing manifest is Empty(), not an
// error. A malformed one returns Empty() together with an error wrapping
// ErrInvalid.
func Load(root string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(root, packageJSONFile))
	switch {
	case err == nil:
		doc, err := parsePackageJSON(data)
		if err != nil {
			return Empty(), err
		}
		return doc.manifest()
	case !os.IsNotExist(err):
		return Empty(), fmt.Errorf("failed to read package.json: %w", err)
	}

	reqs, err := loadRequirements(root)
	if err != nil {
		return Empty(), err
	}

	name, err := pyprojectName(root)
	if err != nil {
		return Empty(), err
	}

	if reqs == nil {
		m := Empty()
		m.Name = name
		return m, nil
	}

	m := reqs.manifest()
	m.Name = name
	return m, nil
}

// HasDependency reports whether name is a runtime or development dependency
func (m *Manifest) HasDependency(name string) bool {
	name = m.key(name)
	if _, ok := m.Dependencies[name]; ok {
		return true
	}
	_, ok := m.DevDependencies[name]
	return ok
}

// HasDevDependency reports whether name is a development dependency
func (m *Manifest) HasDevDependency(name string) bool {
	_, ok := m.DevDependencies[m.key(name)]
	return ok
}

// key maps a package name to the form dependency maps are keyed by.
// Requirements manifests are keyed by normalized name.
func (m *Manifest) key(name string) string {
	if m.Kind == KindRequirements {
		return NormalizeName(name)
	}
	return name
}

// HasAnyDependency reports whether any of names is a runtime or development
// dependency
func (m *Manifest) HasAnyDependency(names ...string) bool {
	for _, name := range names {
		if m.HasDependency(name) {
			return true
		}
	}
	return false
}

// HasAnyDevDependency reports whether any of names is a development dependency
func (m *Manifest) HasAnyDevDependency(names ...string) bool {
	for _, name := range names {
		if m.HasDevDependency(name) {
			return true
		}
	}
	return false
}

// AddDependencies merges deps into the runtime (dev=false) or development
// dependencies. An existing entry is only replaced by a range with a higher
// lower bound, and a package already present on the other side is left there.
// Reports whether anything changed.
func (m *Manifest) AddDependencies(deps map[string]string, dev bool) bool {
	target, other := m.Dependencies, m.DevDependencies
	if dev {
		target, other = m.DevDependencies, m.Dependencies
	}

	changed := false
	for name, version := range deps {
		name = m.key(name)
		if _, ok := other[name]; ok {
			continue
		}
		existing, ok := target[name]
		if ok && !IsUpgrade(existing, version) {
			continue
		}
		target[name] = version
		changed = true
	}
	return changed
}

// AddScripts adds scripts that are not defined yet. Existing scripts are
// never overwritten. Reports whether anything changed.
func (m *Manifest) AddScripts(scripts map[string]string) bool {
	changed := false
	for name, command := range scripts {
		if _, ok := m.Scripts[name]; ok {
			continue
		}
		m.Scripts[name] = command
		changed = true
	}
	return changed
}

func pyprojectName(root string) (string, error) {
	data, err := os.ReadFile(filepath.Join(root, pyprojectFile))
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read pyproject.toml: %w", err)
	}

	var doc struct {
		Project struct {
			Name string `toml:"name"`
		} `toml:"project"`
		Tool struct {
			Poetry struct {
				Name string `toml:"name"`
			} `toml:"poetry"`
		} `toml:"tool"`
	}
	if err := toml.Unmarshal(data, &doc); err != nil {
		return "", fmt.Errorf("%w: pyproject.toml: %v", ErrInvalid, err)
	}

	if doc.Project.Name != "" {
		return doc.Project.Name, nil
	}
	return doc.Tool.Poetry.Name, nil
}
