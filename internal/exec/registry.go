package exec

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
)

// CommandWrapper is a named external step such as a package manager install
// or the git setup of a new project
type CommandWrapper interface {
	Name() string
	Description() string
	Execute(ctx context.Context, exec *Executor) error
}

// ErrUnknownCommand is returned by Execute for names never registered
var ErrUnknownCommand = errors.New("unknown command")

// CommandRegistry maps names to command wrappers
type CommandRegistry struct {
	mu       sync.RWMutex
	commands map[string]CommandWrapper
}

// NewCommandRegistry creates an empty registry
func NewCommandRegistry() *CommandRegistry {
	return &CommandRegistry{commands: map[string]CommandWrapper{}}
}

// Register adds commands; it stops at the first nil, unnamed or duplicate one
func (r *CommandRegistry) Register(cmds ...CommandWrapper) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, cmd := range cmds {
		if cmd == nil {
			return errors.New("register: nil command")
		}
		name := cmd.Name()
		if name == "" {
			return errors.New("register: command has no name")
		}
		if _, dup := r.commands[name]; dup {
			return fmt.Errorf("register: %s already registered", name)
		}
		r.commands[name] = cmd
	}
	return nil
}

// Get looks up a command by name
func (r *CommandRegistry) Get(name string) (CommandWrapper, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cmd, ok := r.commands[name]
	return cmd, ok
}

// Has reports whether name is registered
func (r *CommandRegistry) Has(name string) bool {
	_, ok := r.Get(name)
	return ok
}

// List returns the registered names, sorted
func (r *CommandRegistry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.commands))
	for name := range r.commands {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Execute runs the named command through exec. Errors carry the command's
// description.
func (r *CommandRegistry) Execute(ctx context.Context, name string, exec *Executor) error {
	cmd, ok := r.Get(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCommand, name)
	}
	if err := cmd.Execute(ctx, exec); err != nil {
		return fmt.Errorf("%s: %w", cmd.Description(), err)
	}
	return nil
}
