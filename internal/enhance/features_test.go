package enhance

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simonhull/firebird-suite/hatch/internal/project"
)

func classify(t *testing.T, files map[string]string) Features {
	t.Helper()
	snap, err := Capture(newProject(t, files), project.FamilyNode)
	require.NoError(t, err)
	return Classify(snap)
}

func TestClassify_EmptyProject(t *testing.T) {
	assert.Equal(t, Features{}, classify(t, nil))
}

func TestClassify_Detectors(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
		check func(Features) bool
	}{
		{"tests by path", map[string]string{"src/user.test.js": ""}, func(f Features) bool { return f.HasTests }},
		{"tests by spec dir", map[string]string{"Spec/helper.rb": ""}, func(f Features) bool { return f.HasTests }},
		{"tests by dev dependency", map[string]string{"package.json": `{"devDependencies": {"vitest": "^1.0.0"}}`}, func(f Features) bool { return f.HasTests }},
		{"tests by pytest", map[string]string{"requirements-dev.txt": "pytest>=8\n"}, func(f Features) bool { return f.HasTests }},
		{"linting by dev dependency", map[string]string{"package.json": `{"devDependencies": {"eslint": "^8.0.0"}}`}, func(f Features) bool { return f.HasLinting }},
		{"linting by config file", map[string]string{".eslintrc.json": "{}"}, func(f Features) bool { return f.HasLinting }},
		{"linting by flat config", map[string]string{"eslint.config.js": ""}, func(f Features) bool { return f.HasLinting }},
		{"linting by ruff", map[string]string{"ruff.toml": ""}, func(f Features) bool { return f.HasLinting }},
		{"formatting by dev dependency", map[string]string{"package.json": `{"devDependencies": {"prettier": "^3.0.0"}}`}, func(f Features) bool { return f.HasFormatting }},
		{"formatting by editorconfig", map[string]string{".editorconfig": ""}, func(f Features) bool { return f.HasFormatting }},
		{"types by extension", map[string]string{"src/index.ts": ""}, func(f Features) bool { return f.HasTypeBinding }},
		{"types by stub", map[string]string{"app/models.pyi": ""}, func(f Features) bool { return f.HasTypeBinding }},
		{"types by runtime dependency", map[string]string{"package.json": `{"dependencies": {"typescript": "^5.0.0"}}`}, func(f Features) bool { return f.HasTypeBinding }},
		{"documentation", map[string]string{"docs/ReadMe.txt": ""}, func(f Features) bool { return f.HasDocumentation }},
		{"error handling try", map[string]string{"src/a.js": "try { run() } finally {}"}, func(f Features) bool { return f.HasErrorHandling }},
		{"error handling raise", map[string]string{"app/a.py": "raise ValueError()\n"}, func(f Features) bool { return f.HasErrorHandling }},
		{"environment by dotenv", map[string]string{".env": "PORT=3000"}, func(f Features) bool { return f.HasEnvironmentConfig }},
		{"environment by config path", map[string]string{"src/config/index.js": ""}, func(f Features) bool { return f.HasEnvironmentConfig }},
		{"logging by dependency", map[string]string{"package.json": `{"dependencies": {"pino": "^9.0.0"}}`}, func(f Features) bool { return f.HasLogging }},
		{"logging by dev dependency", map[string]string{"package.json": `{"devDependencies": {"morgan": "^1.0.0"}}`}, func(f Features) bool { return f.HasLogging }},
		{"logging by structlog", map[string]string{"requirements.txt": "structlog==24.1.0\n"}, func(f Features) bool { return f.HasLogging }},
		{"validation by dependency", map[string]string{"package.json": `{"dependencies": {"zod": "^3.0.0"}}`}, func(f Features) bool { return f.HasValidation }},
		{"validation by pydantic", map[string]string{"requirements.txt": "pydantic>=2\n"}, func(f Features) bool { return f.HasValidation }},
		{"api docs by swagger", map[string]string{"docs/swagger.yaml": ""}, func(f Features) bool { return f.HasAPIDocumentation }},
		{"api docs by openapi", map[string]string{"openapi.json": ""}, func(f Features) bool { return f.HasAPIDocumentation }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.check(classify(t, tt.files)))
		})
	}
}

func TestClassify_ErrorHandlingWordBoundaries(t *testing.T) {
	f := classify(t, map[string]string{
		"src/a.js":   "const retry = 1; const catcher = raised;",
		"notes.txt":  "try catch throw",
		"src/b.json": `{"try": true}`,
	})
	assert.False(t, f.HasErrorHandling)
}

func TestClassify_SkipsBinaryFiles(t *testing.T) {
	f := classify(t, map[string]string{
		"src/blob.js": "\x00\x01binary try catch",
	})
	assert.False(t, f.HasErrorHandling)
}

func TestClassify_PrunedDirectoriesAreIgnored(t *testing.T) {
	f := classify(t, map[string]string{
		"node_modules/lib/index.test.js": "try {} catch (e) {}",
		"node_modules/lib/README.md":     "",
		".git/config":                    "",
		"__pycache__/x.py":               "raise X",
	})
	assert.Equal(t, Features{}, f)
}

func TestClassify_Deterministic(t *testing.T) {
	root := newProject(t, map[string]string{
		"package.json": `{"dependencies": {"express": "^4.19.2"}, "devDependencies": {"jest": "^29.7.0"}}`,
		"src/index.js": "app.listen(3000)",
		"README.md":    "# demo",
	})

	snap, err := Capture(root, project.FamilyNode)
	require.NoError(t, err)

	first := Classify(snap)
	second := Classify(snap)
	assert.Equal(t, first, second)
}

func TestClassify_InvalidManifestIsIgnored(t *testing.T) {
	root := newProject(t, map[string]string{
		"package.json": `{"devDependencies": ["jest"]}`,
	})

	snap, err := Capture(root, project.FamilyNode)
	require.NoError(t, err)
	assert.Empty(t, snap.Manifest.DevDependencies)
	assert.False(t, Classify(snap).HasTests)
}

func TestCapture_Files(t *testing.T) {
	root := newProject(t, map[string]string{
		"src/b.js":             "",
		"src/a.js":             "",
		".env":                 "",
		"node_modules/x/y.js":  "",
		".venv/lib/site.py":    "",
		"nested/.hidden/z.txt": "",
	})

	snap, err := Capture(root, project.FamilyNode)
	require.NoError(t, err)

	assert.Equal(t, []string{".env", "nested/.hidden/z.txt", "src/a.js", "src/b.js"}, snap.Files)
	assert.True(t, filepath.IsAbs(snap.Root))
}

func TestCapture_Errors(t *testing.T) {
	_, err := Capture("/definitely/not/here", project.FamilyNode)
	assert.Error(t, err)

	root := newProject(t, map[string]string{"file.txt": ""})
	_, err = Capture(root+"/file.txt", project.FamilyNode)
	assert.Error(t, err)
}

func TestFeaturesList(t *testing.T) {
	list := Features{HasTests: true, HasAPIDocumentation: true}.List()
	require.Len(t, list, 10)
	assert.Equal(t, FeatureValue{Name: "hasTests", Present: true}, list[0])
	assert.Equal(t, FeatureValue{Name: "hasLinting", Present: false}, list[1])
	assert.Equal(t, FeatureValue{Name: "hasApiDocumentation", Present: true}, list[9])
}

func TestClassify_PythonNamesAreNormalized(t *testing.T) {
	root := newProject(t, map[string]string{
		"requirements.txt": "Flask==3.0.3\nStructlog==24.4.0\n",
	})

	snap, err := Capture(root, project.FamilyPython)
	require.NoError(t, err)
	assert.True(t, Classify(snap).HasLogging)
}
