// Package input provides interactive terminal input utilities.
//
// Commands only prompt when stdin is a terminal; see Interactive.
package input

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

var (
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("cyan")).Bold(true)
	hintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	in  io.Reader = os.Stdin
	out io.Writer = os.Stdout
)

// Option is a single choice offered by Select.
type Option struct {
	Label string
	Value string
}

// Interactive reports whether stdin is attached to a terminal.
func Interactive() bool {
	if in != os.Stdin {
		return false
	}
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// Prompt asks the user for text input with an optional default value.
// If the user presses Enter without typing anything, the default is returned.
//
// Example:
//
//	name := input.Prompt("Project name", "my-app")
//	// Displays: Project name (my-app): _
func Prompt(message, defaultValue string) string {
	reader := bufio.NewReader(in)

	if defaultValue != "" {
		fmt.Fprint(out, promptStyle.Render(message)+" "+
			hintStyle.Render(fmt.Sprintf("(%s)", defaultValue))+": ")
	} else {
		fmt.Fprint(out, promptStyle.Render(message)+": ")
	}

	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return defaultValue
	}

	line = strings.TrimSpace(line)
	if line == "" {
		return defaultValue
	}

	return line
}

// Confirm asks the user a yes/no question.
// Returns true if the user answers yes (y/Y/yes/YES), false otherwise.
// If defaultYes is true, pressing Enter returns true.
//
// Example:
//
//	if input.Confirm("Apply AI enhancements?", false) {
//	    // ...
//	}
//	// Displays: Apply AI enhancements? [y/N]: _
func Confirm(message string, defaultYes bool) bool {
	reader := bufio.NewReader(in)

	hint := "[y/N]"
	if defaultYes {
		hint = "[Y/n]"
	}

	fmt.Fprint(out, promptStyle.Render(message)+" "+hintStyle.Render(hint)+": ")

	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return defaultYes
	}

	line = strings.TrimSpace(strings.ToLower(line))
	if line == "" {
		return defaultYes
	}

	return line == "y" || line == "yes"
}

// Select shows an arrow-key picker and returns the chosen value.
// The first option is preselected when defaultValue matches nothing.
func Select(title string, options []Option, defaultValue string) (string, error) {
	if len(options) == 0 {
		return "", fmt.Errorf("no options to select from")
	}

	choice := options[0].Value
	huhOptions := make([]huh.Option[string], 0, len(options))
	for _, opt := range options {
		if opt.Value == defaultValue {
			choice = opt.Value
		}
		huhOptions = append(huhOptions, huh.NewOption(opt.Label, opt.Value))
	}

	err := huh.NewSelect[string]().
		Title(title).
		Options(huhOptions...).
		Value(&choice).
		Run()
	if err != nil {
		return "", fmt.Errorf("selecting %s: %w", strings.ToLower(title), err)
	}

	return choice, nil
}
