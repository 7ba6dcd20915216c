// Package exec runs the external tools hatch shells out to (package
// managers, git) with spinner feedback and friendly "not found" errors.
package exec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Executor runs external commands in a fixed working directory
type Executor struct {
	stdout io.Writer
	stderr io.Writer
	env    []string
	dir    string

	// For mocking in tests
	commandFunc func(name string, args ...string) *exec.Cmd
	// Reports whether a spinner can be drawn; mocked in tests
	ttyFunc func() bool
}

// Options configures command execution
type Options struct {
	Stdout io.Writer
	Stderr io.Writer
	Env    []string // Additional environment variables
	Dir    string   // Working directory

	// CommandFunc replaces exec.Command; used to fake tools in tests
	CommandFunc func(name string, args ...string) *exec.Cmd
}

// NewExecutor creates an executor; nil options use the process streams
func NewExecutor(opts *Options) *Executor {
	if opts == nil {
		opts = &Options{}
	}

	stdout, stderr := opts.Stdout, opts.Stderr
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}

	commandFunc := opts.CommandFunc
	if commandFunc == nil {
		commandFunc = exec.Command
	}

	return &Executor{
		stdout:      stdout,
		stderr:      stderr,
		env:         opts.Env,
		dir:         opts.Dir,
		commandFunc: commandFunc,
		ttyFunc: func() bool {
			return term.IsTerminal(int(os.Stderr.Fd()))
		},
	}
}

// Dir returns the working directory commands run in
func (e *Executor) Dir() string {
	return e.dir
}

// LookPath reports whether name is available on PATH
func (e *Executor) LookPath(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

// Run executes a command, streaming its output to the executor's writers
func (e *Executor) Run(ctx context.Context, name string, args ...string) error {
	return e.run(ctx, e.stdout, e.stderr, name, args...)
}

func (e *Executor) run(ctx context.Context, stdout, stderr io.Writer, name string, args ...string) error {
	cmd := e.commandFunc(name, args...)

	if e.dir != "" {
		cmd.Dir = e.dir
	}

	if len(e.env) > 0 {
		base := cmd.Env
		if base == nil {
			base = os.Environ()
		}
		cmd.Env = append(base, e.env...)
	}

	cmd.Stdout = stdout
	cmd.Stderr = stderr

	if err := cmd.Start(); err != nil {
		if isCommandNotFound(err) {
			return enhanceError(err, name)
		}
		return fmt.Errorf("failed to start %s: %w", name, err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- cmd.Wait()
	}()

	select {
	case <-ctx.Done():
		if cmd.Process != nil {
			_ = cmd.Process.Kill()
		}
		<-errCh
		return fmt.Errorf("%s cancelled: %w", name, ctx.Err())
	case err := <-errCh:
		if err != nil {
			if isCommandNotFound(err) {
				return enhanceError(err, name)
			}
			return fmt.Errorf("%s failed: %w", name, err)
		}
		return nil
	}
}

// RunWithSpinner runs a command behind a progress spinner.
// Command output is captured; on failure the tail of stderr is folded into
// the returned error. Without a terminal it prints a single status line.
func (e *Executor) RunWithSpinner(ctx context.Context, message string, name string, args ...string) error {
	var stderrBuf bytes.Buffer

	if !e.ttyFunc() {
		fmt.Fprintf(e.stderr, "• %s...\n", message)
		err := e.run(ctx, io.Discard, &stderrBuf, name, args...)
		return withStderr(err, stderrBuf.String())
	}

	done := make(chan error, 1)
	go func() {
		done <- e.run(ctx, io.Discard, &stderrBuf, name, args...)
	}()

	p := tea.NewProgram(newSpinnerModel(message), tea.WithOutput(e.stderr), tea.WithInput(nil))
	finished := make(chan struct{})
	go func() {
		// Spinner rendering errors never fail the command
		_, _ = p.Run()
		close(finished)
	}()

	err := <-done
	p.Send(spinnerDoneMsg{err: err})

	select {
	case <-finished:
	case <-time.After(250 * time.Millisecond):
		p.Quit()
		<-finished
	}

	return withStderr(err, stderrBuf.String())
}

// withStderr appends the last few stderr lines to err
func withStderr(err error, stderr string) error {
	if err == nil {
		return nil
	}
	stderr = strings.TrimSpace(stderr)
	if stderr == "" {
		return err
	}
	lines := strings.Split(stderr, "\n")
	if len(lines) > 5 {
		lines = lines[len(lines)-5:]
	}
	return fmt.Errorf("%w\n%s", err, strings.Join(lines, "\n"))
}

// spinnerModel is the bubbletea model for the spinner
type spinnerModel struct {
	spinner spinner.Model
	message string
	done    bool
	err     error
}

type spinnerDoneMsg struct {
	err error
}

func newSpinnerModel(message string) *spinnerModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	return &spinnerModel{
		spinner: s,
		message: message,
	}
}

func (m *spinnerModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m *spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinnerDoneMsg:
		m.done = true
		m.err = msg.err
		return m, tea.Quit
	case spinner.TickMsg:
		if !m.done {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

func (m *spinnerModel) View() string {
	if m.done {
		if m.err != nil {
			return fmt.Sprintf("❌ %s\n", m.message)
		}
		return fmt.Sprintf("✅ %s\n", m.message)
	}
	return fmt.Sprintf("%s %s...", m.spinner.View(), m.message)
}

// isCommandNotFound checks if an error indicates a command was not found
func isCommandNotFound(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, exec.ErrNotFound) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "executable file not found") ||
		strings.Contains(msg, "command not found")
}

// enhanceError adds helpful message for missing commands
func enhanceError(err error, cmd string) error {
	return fmt.Errorf("%w\n💡 Command '%s' not found. Please install it and try again", err, cmd)
}
