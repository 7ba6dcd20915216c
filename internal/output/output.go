// Package output provides styled terminal output for the hatch CLI.
//
// Every command reports through this package so the UX stays consistent.
// Functions use lipgloss for styling but abstract away the details from callers.
package output

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("green")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("red")).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("yellow"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("cyan"))
	stepStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	verboseMode bool
	out         io.Writer = os.Stdout
)

// SetVerbose enables or disables verbose output for debugging.
// This should be called by the CLI when the --verbose flag is set.
func SetVerbose(v bool) {
	verboseMode = v
}

// IsVerbose reports whether verbose output is enabled.
func IsVerbose() bool {
	return verboseMode
}

// SetWriter redirects all output to w and returns the previous writer.
// Tests use this to capture output; nil restores os.Stdout.
func SetWriter(w io.Writer) io.Writer {
	prev := out
	if w == nil {
		w = os.Stdout
	}
	out = w
	return prev
}

// Success prints a success message with 🐣 emoji and green color.
// Use this for completed operations.
//
// Example:
//
//	output.Success("Created project: myapp")
func Success(msg string) {
	fmt.Fprintln(out, successStyle.Render("🐣 "+msg))
}

// Error prints an error message with ❌ emoji and red color.
// Use this for failures that need user attention.
func Error(msg string) {
	fmt.Fprintln(out, errorStyle.Render("❌ "+msg))
}

// Warning prints a non-fatal problem with ⚠️ emoji and yellow color.
//
// Example:
//
//	output.Warning("npm install failed, run it manually")
func Warning(msg string) {
	fmt.Fprintln(out, warningStyle.Render("⚠️  "+msg))
}

// Info prints an informational message with ℹ️ emoji and cyan color.
func Info(msg string) {
	fmt.Fprintln(out, infoStyle.Render("ℹ️  "+msg))
}

// Step prints an indented step message in gray.
// Use this for actionable next steps or sub-items.
func Step(msg string) {
	fmt.Fprintln(out, stepStyle.Render("   "+msg))
}

// Verbose prints a debug message with 🔍 emoji only if verbose mode is enabled.
//
// Example:
//
//	output.Verbose("Scanning project tree: /tmp/myapp")
func Verbose(msg string) {
	if verboseMode {
		fmt.Fprintln(out, stepStyle.Render("🔍 "+msg))
	}
}
