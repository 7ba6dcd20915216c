package generator

import (
	"fmt"
	"os"
	"path/filepath"
)

// Transaction stages a set of file writes and commits them together.
// If a write fails, files written so far are restored to their previous
// content (or removed when they did not exist before).
type Transaction struct {
	operations []fileOperation
	committed  bool
}

type fileOperation struct {
	path    string
	content []byte
	mode    os.FileMode
}

// previousState records what was on disk before a staged write
type previousState struct {
	path    string
	existed bool
	content []byte
	mode    os.FileMode
}

// NewTransaction creates a new file operation transaction
func NewTransaction() *Transaction {
	return &Transaction{}
}

// AddFile stages a file write operation (doesn't write yet)
func (t *Transaction) AddFile(path string, content []byte, mode os.FileMode) {
	t.operations = append(t.operations, fileOperation{
		path:    path,
		content: content,
		mode:    mode,
	})
}

// Len returns the number of staged writes
func (t *Transaction) Len() int {
	return len(t.operations)
}

// Commit writes all staged files to disk
func (t *Transaction) Commit() error {
	if t.committed {
		return fmt.Errorf("transaction already committed")
	}

	written := make([]previousState, 0, len(t.operations))

	for _, op := range t.operations {
		prev := capture(op.path)

		dir := filepath.Dir(op.path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			restore(written)
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}

		mode := op.mode
		if mode == 0 {
			mode = 0644
		}
		if err := os.WriteFile(op.path, op.content, mode); err != nil {
			restore(written)
			return fmt.Errorf("failed to write file %s: %w", op.path, err)
		}

		written = append(written, prev)
	}

	t.committed = true
	return nil
}

func capture(path string) previousState {
	state := previousState{path: path}
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return state
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return state
	}
	state.existed = true
	state.content = content
	state.mode = info.Mode().Perm()
	return state
}

// restore undoes writes in reverse order; best effort
func restore(states []previousState) {
	for i := len(states) - 1; i >= 0; i-- {
		s := states[i]
		if s.existed {
			_ = os.WriteFile(s.path, s.content, s.mode)
			continue
		}
		_ = os.Remove(s.path)
	}
}
