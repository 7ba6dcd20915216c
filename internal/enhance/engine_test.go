package enhance

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simonhull/firebird-suite/hatch/internal/project"
)

func testEngine() *Engine {
	return &Engine{
		now:   func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) },
		runID: func() (string, error) { return "run123", nil },
	}
}

func TestEngine_Run_NodeScenario(t *testing.T) {
	root := newProject(t, map[string]string{
		"package.json": `{"name": "demo-app", "dependencies": {"express": "^4.19.2"}, "devDependencies": {"jest": "^29.7.0"}}`,
		"src/index.js": "const app = require('express')();\napp.listen(3000);\n",
	})

	analysis, err := testEngine().Analyze(root, project.FamilyNode)
	require.NoError(t, err)
	assert.Equal(t, Features{HasTests: true}, analysis.Features)

	summary, err := testEngine().Run(context.Background(), root, project.FamilyNode)
	require.NoError(t, err)
	require.NoError(t, summary.Err)

	var applied []string
	for _, r := range summary.Results {
		assert.Equal(t, StatusApplied, r.Status, r.Enhancement.Description)
		applied = append(applied, r.Enhancement.Description)
	}
	assert.Equal(t, []string{
		"Add structured logging",
		"Add comprehensive error handling",
		"Add security middleware",
		"Add environment configuration",
		"Add input validation",
		"Add API documentation",
		"Enhance testing configuration",
		"Add database connection utility",
		"Add caching and rate limiting",
		"Add linting and formatting",
	}, applied)
	assert.Equal(t, applied, descriptions(analysis.Enhancements))

	assert.Equal(t, 1, summary.DependencyCount)
	assert.Equal(t, 1, summary.DevDependencyCount)
	assert.Equal(t, "run123", summary.RunID)

	pkg := readProjectFile(t, root, "package.json")
	assert.Contains(t, pkg, `"winston"`)
	assert.Contains(t, pkg, `"helmet"`)
	assert.Contains(t, pkg, `"jest": "^29.7.0"`)
	assert.Contains(t, readProjectFile(t, root, ".gitignore"), ".env\n")
}

func TestEngine_Run_WritesReport(t *testing.T) {
	root := newProject(t, familySeeds[project.FamilyPython])

	summary, err := testEngine().Run(context.Background(), root, project.FamilyPython)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(summary.Root, ReportFile), summary.ReportPath)

	report := readProjectFile(t, root, ReportFile)
	assert.Contains(t, report, "- Run: `run123`")
	assert.Contains(t, report, "- Family: python")
	assert.Contains(t, report, "- Generated: 2026-01-02T03:04:05Z")
	assert.Contains(t, report, "- Dependencies: 1 (0 dev)")
	assert.Contains(t, report, "## High priority")
	assert.Contains(t, report, "| Add logging configuration | config | applied |")
	assert.Contains(t, report, "## Low priority")
	assert.Contains(t, report, "| hasLogging | no |")

	high := strings.Index(report, "## High priority")
	medium := strings.Index(report, "## Medium priority")
	low := strings.Index(report, "## Low priority")
	assert.True(t, high < medium && medium < low)
}

func TestSummary_WriteWithoutEnhancements(t *testing.T) {
	root := newProject(t, nil)
	summary := &Summary{
		RunID:     "empty",
		Family:    project.FamilyPython,
		Root:      root,
		Timestamp: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	require.NoError(t, summary.Write())

	report := readProjectFile(t, root, ReportFile)
	assert.Contains(t, report, "No enhancements were needed.")
	assert.Contains(t, report, "## Detected features")
	assert.NotContains(t, report, "priority")
}

func TestEngine_Run_MissingRoot(t *testing.T) {
	_, err := testEngine().Run(context.Background(), filepath.Join(t.TempDir(), "missing"), project.FamilyNode)
	assert.Error(t, err)
}

func TestEngine_Run_NoManifest(t *testing.T) {
	root := newProject(t, nil)

	summary, err := testEngine().Run(context.Background(), root, project.FamilyNode)
	require.NoError(t, err)
	require.NoError(t, summary.Err)
	assert.Equal(t, 0, summary.DependencyCount)
	assert.FileExists(t, filepath.Join(root, "package.json"))
}

func TestEngine_Run_FailureIsContained(t *testing.T) {
	root := newProject(t, map[string]string{
		"package.json": `{"name": "demo-app", "dependencies": ["express"]}`,
	})

	summary, err := testEngine().Run(context.Background(), root, project.FamilyNode)
	require.NoError(t, err)
	require.Error(t, summary.Err)

	require.NotEmpty(t, summary.Results)
	assert.Equal(t, "Add structured logging", summary.Results[0].Enhancement.Description)
	assert.Equal(t, StatusFailed, summary.Results[0].Status)
	assert.Equal(t, len(summary.Results)-1, summary.Count(StatusSkipped))
	assert.Contains(t, readProjectFile(t, root, ReportFile), "Stopped after a failure")
}

func TestEngine_Run_RunIDFallback(t *testing.T) {
	e := testEngine()
	e.runID = func() (string, error) { return "", errors.New("no entropy") }

	summary, err := e.Run(context.Background(), newProject(t, nil), project.FamilyReact)
	require.NoError(t, err)
	assert.NotEmpty(t, summary.RunID)
}

func TestNewRunID(t *testing.T) {
	id, err := NewRunID()
	require.NoError(t, err)
	assert.Len(t, id, 10)
}

func TestEngine_Run_PythonRequirementSpelling(t *testing.T) {
	root := newProject(t, map[string]string{
		"requirements.txt": "Flask==3.0.3\nStructlog==24.4.0\npython_dotenv==1.0.1\n",
	})

	summary, err := testEngine().Run(context.Background(), root, project.FamilyPython)
	require.NoError(t, err)
	require.NoError(t, summary.Err)

	assert.True(t, summary.Features.HasLogging)
	assert.NotContains(t, descriptions(resultEnhancements(summary)), "Add structured logging")
	assert.Equal(t, "Flask==3.0.3\nStructlog==24.4.0\npython_dotenv==1.0.1\n", readProjectFile(t, root, "requirements.txt"))
}

func resultEnhancements(s *Summary) []Enhancement {
	out := make([]Enhancement, len(s.Results))
	for i, r := range s.Results {
		out[i] = r.Enhancement
	}
	return out
}

func TestEngine_Run_FullStackClientImportsResolve(t *testing.T) {
	root := newProject(t, map[string]string{
		"package.json":          `{"name": "demo-app", "dependencies": {"express": "^4.19.2", "react": "^18.3.1"}}`,
		"server/index.js":       "try { start(); } catch (err) { throw err; }\n",
		"client/vite.config.js": "export default { server: { proxy: { '/api': 'http://localhost:3000' } } };\n",
		"client/src/main.jsx":   "",
	})

	summary, err := testEngine().Run(context.Background(), root, project.FamilyFullStack)
	require.NoError(t, err)
	require.NoError(t, summary.Err)

	assert.True(t, summary.Features.HasEnvironmentConfig)
	assert.True(t, summary.Features.HasErrorHandling)

	client := readProjectFile(t, root, "client/src/api/client.js")
	assert.Contains(t, client, "from '../config/env'")
	assert.Contains(t, client, "from '../utils/errors'")
	assert.FileExists(t, filepath.Join(root, "client", "src", "config", "env.js"))
	assert.FileExists(t, filepath.Join(root, "client", "src", "utils", "errors.js"))
}
