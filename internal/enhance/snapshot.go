package enhance

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/simonhull/firebird-suite/hatch/internal/filesystem"
	"github.com/simonhull/firebird-suite/hatch/internal/manifest"
	"github.com/simonhull/firebird-suite/hatch/internal/output"
	"github.com/simonhull/firebird-suite/hatch/internal/project"
)

// Snapshot is a read-only view of a project taken at the start of a run
type Snapshot struct {
	Root     string
	Family   project.Family
	Manifest *manifest.Manifest
	Files    []string // slash-separated, relative to Root, sorted
}

// Capture walks root and reads its manifest. Only a missing or unreadable
// root is an error; a malformed manifest is reported and treated as absent.
func Capture(root string, family project.Family) (*Snapshot, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving project root: %w", err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("reading project root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("project root %s is not a directory", abs)
	}

	m, err := manifest.Load(abs)
	if err != nil {
		if errors.Is(err, manifest.ErrInvalid) {
			output.Verbose(fmt.Sprintf("Ignoring manifest: %v", err))
		} else {
			output.Verbose(fmt.Sprintf("Could not read manifest: %v", err))
		}
		m = manifest.Empty()
	}

	files, err := filesystem.ListFiles(abs, filesystem.WalkOptions{})
	if err != nil {
		return nil, fmt.Errorf("scanning project: %w", err)
	}

	output.Verbose(fmt.Sprintf("Scanned %d files (manifest: %s)", len(files), m.Kind))

	return &Snapshot{
		Root:     abs,
		Family:   family,
		Manifest: m,
		Files:    files,
	}, nil
}
