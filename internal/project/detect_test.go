package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func write(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
		want  Family
	}{
		{
			name:  "python requirements",
			files: map[string]string{"requirements.txt": "flask==3.0.0\n"},
			want:  FamilyPython,
		},
		{
			name:  "python pyproject",
			files: map[string]string{"pyproject.toml": "[project]\nname = \"x\"\n"},
			want:  FamilyPython,
		},
		{
			name: "full stack",
			files: map[string]string{
				"package.json":        `{"name": "x"}`,
				"client/src/main.jsx": "",
				"server/index.js":     "",
			},
			want: FamilyFullStack,
		},
		{
			name:  "react",
			files: map[string]string{"package.json": `{"dependencies": {"react": "^18.3.1"}}`},
			want:  FamilyReact,
		},
		{
			name:  "node",
			files: map[string]string{"package.json": `{"dependencies": {"express": "^4.19.2"}}`},
			want:  FamilyNode,
		},
		{
			name:  "empty directory defaults to node",
			files: map[string]string{},
			want:  FamilyNode,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			for rel, content := range tt.files {
				write(t, root, rel, content)
			}

			got, err := Detect(root)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDetect_Errors(t *testing.T) {
	_, err := Detect(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)

	root := t.TempDir()
	write(t, root, "package.json", "{not json")
	_, err = Detect(root)
	assert.Error(t, err)
}

func TestIsProject(t *testing.T) {
	root := t.TempDir()
	assert.False(t, IsProject(root))

	write(t, root, "package.json", "{}")
	assert.True(t, IsProject(root))
}
