package output

import (
	"bytes"
	"strings"
	"testing"
)

// captureOutput captures everything written through the package during f
func captureOutput(f func()) string {
	var buf bytes.Buffer
	prev := SetWriter(&buf)
	defer SetWriter(prev)

	f()

	return buf.String()
}

func TestSuccess(t *testing.T) {
	got := captureOutput(func() {
		Success("Test message")
	})

	if !strings.Contains(got, "🐣") {
		t.Error("Success output should contain hatch emoji")
	}
	if !strings.Contains(got, "Test message") {
		t.Error("Success output should contain the message")
	}
}

func TestError(t *testing.T) {
	got := captureOutput(func() {
		Error("Error message")
	})

	if !strings.Contains(got, "❌") {
		t.Error("Error output should contain X emoji")
	}
	if !strings.Contains(got, "Error message") {
		t.Error("Error output should contain the message")
	}
}

func TestWarning(t *testing.T) {
	got := captureOutput(func() {
		Warning("careful")
	})

	if !strings.Contains(got, "careful") {
		t.Error("Warning output should contain the message")
	}
}

func TestStep(t *testing.T) {
	got := captureOutput(func() {
		Step("cd myapp")
	})

	if !strings.Contains(got, "   cd myapp") {
		t.Errorf("Step output should be indented, got %q", got)
	}
}

func TestVerbose(t *testing.T) {
	t.Cleanup(func() { SetVerbose(false) })

	SetVerbose(false)
	got := captureOutput(func() {
		Verbose("hidden")
	})
	if got != "" {
		t.Errorf("Verbose output should be empty when disabled, got %q", got)
	}

	SetVerbose(true)
	got = captureOutput(func() {
		Verbose("shown")
	})
	if !strings.Contains(got, "shown") {
		t.Error("Verbose output should print when enabled")
	}
	if !IsVerbose() {
		t.Error("IsVerbose should report true")
	}
}
