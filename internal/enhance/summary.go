package enhance

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/simonhull/firebird-suite/hatch/internal/project"
)

// ReportFile is written at the project root after every run
const ReportFile = "ENHANCEMENTS.md"

const runIDAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// Summary describes one enhancement run
type Summary struct {
	RunID              string
	Family             project.Family
	Root               string
	Timestamp          time.Time
	Features           Features
	DependencyCount    int
	DevDependencyCount int
	Results            []Result

	// Err is the first application failure, nil when every enhancement applied
	Err error
	// ReportPath is set once ENHANCEMENTS.md has been written
	ReportPath string
}

// Count returns how many results have status s
func (s *Summary) Count(status Status) int {
	n := 0
	for _, r := range s.Results {
		if r.Status == status {
			n++
		}
	}
	return n
}

// NewRunID returns a short random identifier for a run
func NewRunID() (string, error) {
	return gonanoid.Generate(runIDAlphabet, 10)
}

type reportItem struct {
	Description string
	Category    Category
	Status      Status
}

type reportGroup struct {
	Title string
	Items []reportItem
}

type reportData struct {
	RunID              string
	Family             string
	Timestamp          string
	DependencyCount    int
	DevDependencyCount int
	Failure            string
	Groups             []reportGroup
	Features           []FeatureValue
}

// Render produces the Markdown report
func (s *Summary) Render() ([]byte, error) {
	data := reportData{
		RunID:              s.RunID,
		Family:             string(s.Family),
		Timestamp:          s.Timestamp.UTC().Format(time.RFC3339),
		DependencyCount:    s.DependencyCount,
		DevDependencyCount: s.DevDependencyCount,
		Features:           s.Features.List(),
	}
	if s.Err != nil {
		data.Failure = s.Err.Error()
	}

	for _, p := range Priorities {
		group := reportGroup{Title: strings.ToUpper(string(p[:1])) + string(p[1:])}
		for _, r := range s.Results {
			if r.Enhancement.Priority != p {
				continue
			}
			group.Items = append(group.Items, reportItem{
				Description: r.Enhancement.Description,
				Category:    r.Enhancement.Category,
				Status:      r.Status,
			})
		}
		if len(group.Items) > 0 {
			data.Groups = append(data.Groups, group)
		}
	}

	return assetRenderer.RenderFS(assetsFS, "assets/summary.md.tmpl", data)
}

// Write renders the report to ENHANCEMENTS.md under Root
func (s *Summary) Write() error {
	content, err := s.Render()
	if err != nil {
		return fmt.Errorf("rendering %s: %w", ReportFile, err)
	}

	path := filepath.Join(s.Root, ReportFile)
	if err := os.WriteFile(path, content, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", ReportFile, err)
	}

	s.ReportPath = path
	return nil
}
