package manifest

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var separatorRun = regexp.MustCompile(`[-_.]+`)

// NormalizeName returns the canonical form of a Python package name: pip
// compares names case-insensitively and treats runs of '-', '_' and '.' as
// one '-'
func NormalizeName(name string) string {
	return separatorRun.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "-")
}

// requirement is one line of a requirements file. Lines that are not
// package requirements (comments, blank lines, -r includes, options) keep
// an empty name and are written back untouched.
type requirement struct {
	raw  string
	name string
	spec string
}

type requirementsFile struct {
	lines []requirement
}

type requirementsSet struct {
	runtime *requirementsFile
	dev     *requirementsFile
}

// loadRequirements returns nil when neither requirements file exists
func loadRequirements(root string) (*requirementsSet, error) {
	runtime, err := readRequirementsFile(filepath.Join(root, requirementsTxt))
	if err != nil {
		return nil, err
	}
	dev, err := readRequirementsFile(filepath.Join(root, requirementsDevTxt))
	if err != nil {
		return nil, err
	}
	if runtime == nil && dev == nil {
		return nil, nil
	}
	return &requirementsSet{runtime: runtime, dev: dev}, nil
}

func readRequirementsFile(path string) (*requirementsFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}
	return parseRequirements(data), nil
}

func parseRequirements(data []byte) *requirementsFile {
	f := &requirementsFile{}
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		f.lines = append(f.lines, parseRequirement(scanner.Text()))
	}
	return f
}

func parseRequirement(line string) requirement {
	req := requirement{raw: line}

	content := line
	if i := strings.Index(content, "#"); i >= 0 {
		content = content[:i]
	}
	content = strings.TrimSpace(content)
	if content == "" || strings.HasPrefix(content, "-") {
		return req
	}

	end := strings.IndexAny(content, "=<>!~[;@ ")
	if end < 0 {
		req.name = content
		return req
	}

	req.name = content[:end]
	rest := content[end:]
	if strings.HasPrefix(rest, "[") {
		if close := strings.Index(rest, "]"); close >= 0 {
			rest = rest[close+1:]
		}
	}
	if i := strings.Index(rest, ";"); i >= 0 {
		rest = rest[:i]
	}
	req.spec = strings.TrimSpace(rest)
	return req
}

func (f *requirementsFile) entries() map[string]string {
	out := map[string]string{}
	if f == nil {
		return out
	}
	for _, line := range f.lines {
		if line.name != "" {
			out[NormalizeName(line.name)] = line.spec
		}
	}
	return out
}

// sync rewrites lines whose spec changed, drops removed packages and
// appends new ones in sorted order. Names are matched in normalized form,
// and existing lines keep their spelling.
func (f *requirementsFile) sync(want map[string]string) {
	normalized := make(map[string]string, len(want))
	for name, spec := range want {
		normalized[NormalizeName(name)] = spec
	}

	seen := map[string]bool{}
	kept := f.lines[:0]
	for _, line := range f.lines {
		if line.name == "" {
			kept = append(kept, line)
			continue
		}
		key := NormalizeName(line.name)
		spec, ok := normalized[key]
		if !ok || seen[key] {
			continue
		}
		seen[key] = true
		if spec != line.spec {
			line = requirement{raw: line.name + spec, name: line.name, spec: spec}
		}
		kept = append(kept, line)
	}
	f.lines = kept

	for _, name := range sortedKeys(want) {
		key := NormalizeName(name)
		if seen[key] {
			continue
		}
		seen[key] = true
		spec := want[name]
		f.lines = append(f.lines, requirement{raw: name + spec, name: name, spec: spec})
	}
}

func (f *requirementsFile) bytes() []byte {
	var buf bytes.Buffer
	for _, line := range f.lines {
		buf.WriteString(line.raw)
		buf.WriteString("\n")
	}
	return buf.Bytes()
}

func (s *requirementsSet) manifest() *Manifest {
	m := Empty()
	m.Kind = KindRequirements
	m.Dependencies = s.runtime.entries()
	m.DevDependencies = s.dev.entries()
	return m
}
