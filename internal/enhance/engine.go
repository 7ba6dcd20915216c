package enhance

import (
	"context"
	"fmt"
	"time"

	"github.com/simonhull/firebird-suite/hatch/internal/output"
	"github.com/simonhull/firebird-suite/hatch/internal/project"
)

// Engine runs the capture, classify, synthesize, apply pipeline
type Engine struct {
	now   func() time.Time
	runID func() (string, error)
}

// NewEngine creates an engine using the wall clock and random run ids
func NewEngine() *Engine {
	return &Engine{
		now:   time.Now,
		runID: NewRunID,
	}
}

// Analysis is the read-only part of a run
type Analysis struct {
	Snapshot     *Snapshot
	Features     Features
	Enhancements []Enhancement
}

// Analyze captures and classifies a project and lists the enhancements it
// would receive, in application order. Nothing is written.
func (e *Engine) Analyze(root string, family project.Family) (*Analysis, error) {
	snap, err := Capture(root, family)
	if err != nil {
		return nil, err
	}

	features := Classify(snap)
	enhancements := Synthesize(snap.Root, features, snap.Manifest, family)

	return &Analysis{
		Snapshot:     snap,
		Features:     features,
		Enhancements: SortByPriority(enhancements),
	}, nil
}

// Run enhances the project at root and writes ENHANCEMENTS.md. Only a
// missing or unreadable root is returned as an error; failures while
// applying or writing the report are recorded in the summary and reported.
func (e *Engine) Run(ctx context.Context, root string, family project.Family) (*Summary, error) {
	snap, err := Capture(root, family)
	if err != nil {
		return nil, err
	}

	features := Classify(snap)
	enhancements := Synthesize(snap.Root, features, snap.Manifest, family)
	output.Verbose(fmt.Sprintf("Synthesized %d enhancements for %s", len(enhancements), family))

	summary := ApplyAll(ctx, enhancements)
	summary.Family = family
	summary.Root = snap.Root
	summary.Timestamp = e.now()
	summary.Features = features
	summary.DependencyCount = len(snap.Manifest.Dependencies)
	summary.DevDependencyCount = len(snap.Manifest.DevDependencies)

	id, err := e.runID()
	if err != nil {
		output.Warning(fmt.Sprintf("Could not generate run id: %v", err))
		id = fmt.Sprintf("%d", summary.Timestamp.UnixNano())
	}
	summary.RunID = id

	if err := summary.Write(); err != nil {
		output.Error(fmt.Sprintf("Could not write %s: %v", ReportFile, err))
	}

	return summary, nil
}
