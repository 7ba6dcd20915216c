package exec

import (
	"context"
	"strings"
)

// GenericCommand provides a fluent API for building and executing commands
type GenericCommand struct {
	executor   *Executor
	command    string
	args       []string
	env        []string
	dir        string
	spinnerMsg string
}

// NewGenericCommand creates a new generic command builder
func NewGenericCommand(executor *Executor, command string) *GenericCommand {
	return &GenericCommand{
		executor: executor,
		command:  command,
	}
}

// WithArgs adds arguments to the command
func (g *GenericCommand) WithArgs(args ...string) *GenericCommand {
	g.args = append(g.args, args...)
	return g
}

// WithEnv adds environment variables
func (g *GenericCommand) WithEnv(env ...string) *GenericCommand {
	g.env = append(g.env, env...)
	return g
}

// WithDir overrides the executor's working directory
func (g *GenericCommand) WithDir(dir string) *GenericCommand {
	g.dir = dir
	return g
}

// WithSpinner shows a spinner with the given message while running
func (g *GenericCommand) WithSpinner(message string) *GenericCommand {
	g.spinnerMsg = message
	return g
}

// Run executes the command
func (g *GenericCommand) Run(ctx context.Context) error {
	cmdExecutor := &Executor{
		stdout:      g.executor.stdout,
		stderr:      g.executor.stderr,
		env:         append(append([]string{}, g.executor.env...), g.env...),
		dir:         g.executor.dir,
		commandFunc: g.executor.commandFunc,
		ttyFunc:     g.executor.ttyFunc,
	}
	if g.dir != "" {
		cmdExecutor.dir = g.dir
	}

	if g.spinnerMsg != "" {
		return cmdExecutor.RunWithSpinner(ctx, g.spinnerMsg, g.command, g.args...)
	}
	return cmdExecutor.Run(ctx, g.command, g.args...)
}

// String returns the command line for display
func (g *GenericCommand) String() string {
	parts := append([]string{g.command}, g.args...)
	return strings.Join(parts, " ")
}
