package input

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// withInput feeds s to the prompt functions for the duration of the test
func withInput(t *testing.T, s string) {
	t.Helper()
	prevIn, prevOut := in, out
	in = strings.NewReader(s)
	out = io.Discard
	t.Cleanup(func() {
		in, out = prevIn, prevOut
	})
}

func TestPrompt(t *testing.T) {
	tests := []struct {
		name  string
		input string
		def   string
		want  string
	}{
		{"typed value", "my-api\n", "my-app", "my-api"},
		{"enter takes default", "\n", "my-app", "my-app"},
		{"eof takes default", "", "my-app", "my-app"},
		{"trims whitespace", "  spaced  \n", "", "spaced"},
		{"no trailing newline", "last", "x", "last"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withInput(t, tt.input)
			assert.Equal(t, tt.want, Prompt("Project name", tt.def))
		})
	}
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		defaultYes bool
		want       bool
	}{
		{"yes", "y\n", false, true},
		{"YES", "YES\n", false, true},
		{"no", "n\n", true, false},
		{"enter default yes", "\n", true, true},
		{"enter default no", "\n", false, false},
		{"garbage is no", "maybe\n", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withInput(t, tt.input)
			assert.Equal(t, tt.want, Confirm("Continue?", tt.defaultYes))
		})
	}
}

func TestPrompt_RendersDefaultHint(t *testing.T) {
	prevIn, prevOut := in, out
	t.Cleanup(func() { in, out = prevIn, prevOut })

	var buf bytes.Buffer
	in = strings.NewReader("\n")
	out = &buf

	Prompt("Project name", "my-app")
	assert.Contains(t, buf.String(), "(my-app)")
}

func TestInteractive_FalseWithInjectedReader(t *testing.T) {
	withInput(t, "")
	assert.False(t, Interactive())
}

func TestSelect_NoOptions(t *testing.T) {
	_, err := Select("Template", nil, "")
	assert.Error(t, err)
}
