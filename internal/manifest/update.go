package manifest

import (
	"bytes"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"sort"
)

// Update performs one read-modify-write cycle of the manifest of the given
// kind under root. The file is created when missing. Nothing is written when
// fn leaves the manifest unchanged. A malformed manifest is an error.
func Update(root string, kind Kind, fn func(*Manifest) error) error {
	switch kind {
	case KindPackageJSON:
		return updatePackageJSON(root, fn)
	case KindRequirements:
		return updateRequirements(root, fn)
	default:
		return fmt.Errorf("cannot update manifest of kind %q", kind)
	}
}

func updatePackageJSON(root string, fn func(*Manifest) error) error {
	path := filepath.Join(root, packageJSONFile)

	var doc *packageDocument
	original, err := os.ReadFile(path)
	switch {
	case err == nil:
		doc, err = parsePackageJSON(original)
		if err != nil {
			return err
		}
	case os.IsNotExist(err):
		doc = newPackageDocument(filepath.Base(root))
	default:
		return fmt.Errorf("failed to read package.json: %w", err)
	}

	m, err := doc.manifest()
	if err != nil {
		return err
	}
	before := m.clone()
	if err := fn(m); err != nil {
		return err
	}
	if original != nil && m.equal(before) {
		return nil
	}
	if err := doc.apply(m); err != nil {
		return err
	}

	data, err := doc.bytes()
	if err != nil {
		return err
	}
	return writeIfChanged(path, original, data)
}

func updateRequirements(root string, fn func(*Manifest) error) error {
	runtimePath := filepath.Join(root, requirementsTxt)
	devPath := filepath.Join(root, requirementsDevTxt)

	runtime, err := readRequirementsFile(runtimePath)
	if err != nil {
		return err
	}
	dev, err := readRequirementsFile(devPath)
	if err != nil {
		return err
	}

	var runtimeOriginal, devOriginal []byte
	if runtime == nil {
		runtime = &requirementsFile{}
	} else {
		runtimeOriginal = runtime.bytes()
	}
	if dev == nil {
		dev = &requirementsFile{}
	} else {
		devOriginal = dev.bytes()
	}

	m := (&requirementsSet{runtime: runtime, dev: dev}).manifest()
	name, err := pyprojectName(root)
	if err != nil {
		return err
	}
	m.Name = name

	if err := fn(m); err != nil {
		return err
	}

	runtime.sync(m.Dependencies)
	if devOriginal == nil && len(m.DevDependencies) > 0 {
		dev.lines = append(dev.lines, requirement{raw: "-r " + requirementsTxt})
	}
	dev.sync(m.DevDependencies)

	if runtimeOriginal != nil || len(runtime.lines) > 0 {
		if err := writeIfChanged(runtimePath, runtimeOriginal, runtime.bytes()); err != nil {
			return err
		}
	}
	if devOriginal != nil || len(m.DevDependencies) > 0 {
		if err := writeIfChanged(devPath, devOriginal, dev.bytes()); err != nil {
			return err
		}
	}
	return nil
}

// writeIfChanged leaves the file alone when the content is identical so
// repeated runs do not touch modification times
func writeIfChanged(path string, original, data []byte) error {
	if original != nil && bytes.Equal(original, data) {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	return nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (m *Manifest) clone() *Manifest {
	return &Manifest{
		Kind:            m.Kind,
		Name:            m.Name,
		Dependencies:    maps.Clone(m.Dependencies),
		DevDependencies: maps.Clone(m.DevDependencies),
		Scripts:         maps.Clone(m.Scripts),
	}
}

func (m *Manifest) equal(other *Manifest) bool {
	return maps.Equal(m.Dependencies, other.Dependencies) &&
		maps.Equal(m.DevDependencies, other.DevDependencies) &&
		maps.Equal(m.Scripts, other.Scripts)
}
