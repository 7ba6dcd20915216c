package enhance

import (
	"context"
	"fmt"
	"sort"

	"github.com/simonhull/firebird-suite/hatch/internal/output"
)

// Status is the outcome of one enhancement
type Status string

const (
	StatusApplied Status = "applied"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
)

// Result pairs an enhancement with what happened to it
type Result struct {
	Enhancement Enhancement
	Status      Status
	Err         error
}

// SortByPriority orders enhancements high, medium, low, keeping insertion
// order within a tier. The input slice is not modified.
func SortByPriority(enhancements []Enhancement) []Enhancement {
	sorted := append([]Enhancement(nil), enhancements...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Priority.rank() < sorted[j].Priority.rank()
	})
	return sorted
}

// ApplyAll applies enhancements in priority order, one at a time. The first
// failure stops the run: it is reported and recorded, and everything after
// it is marked skipped. Work already applied is left in place.
func ApplyAll(ctx context.Context, enhancements []Enhancement) *Summary {
	summary := &Summary{}

	var failed error
	for _, e := range SortByPriority(enhancements) {
		if failed != nil {
			summary.Results = append(summary.Results, Result{Enhancement: e, Status: StatusSkipped})
			continue
		}

		output.Verbose(fmt.Sprintf("Applying: %s", e.Description))
		if err := e.Action.Apply(ctx); err != nil {
			failed = fmt.Errorf("%s: %w", e.Description, err)
			output.Error(fmt.Sprintf("Enhancement failed: %v", failed))
			summary.Results = append(summary.Results, Result{Enhancement: e, Status: StatusFailed, Err: err})
			continue
		}

		output.Step(fmt.Sprintf("✓ %s", e.Description))
		summary.Results = append(summary.Results, Result{Enhancement: e, Status: StatusApplied})
	}

	summary.Err = failed
	return summary
}
