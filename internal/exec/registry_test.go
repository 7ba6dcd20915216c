package exec

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCommand struct {
	name string
	err  error
	ran  bool
}

func (f *fakeCommand) Name() string        { return f.name }
func (f *fakeCommand) Description() string { return "fake " + f.name }
func (f *fakeCommand) Execute(ctx context.Context, exec *Executor) error {
	f.ran = true
	return f.err
}

func TestCommandRegistry(t *testing.T) {
	r := NewCommandRegistry()

	require.NoError(t, r.Register(&fakeCommand{name: "npm-install"}, &fakeCommand{name: "git-init"}))

	assert.Equal(t, []string{"git-init", "npm-install"}, r.List())
	assert.True(t, r.Has("git-init"))
	assert.False(t, r.Has("pip-install"))
}

func TestCommandRegistry_RegisterErrors(t *testing.T) {
	r := NewCommandRegistry()

	assert.Error(t, r.Register(nil))
	assert.Error(t, r.Register(&fakeCommand{}))

	require.NoError(t, r.Register(&fakeCommand{name: "dup"}))
	assert.Error(t, r.Register(&fakeCommand{name: "dup"}))
}

func TestCommandRegistry_Execute(t *testing.T) {
	r := NewCommandRegistry()
	boom := errors.New("boom")
	ok := &fakeCommand{name: "ok"}
	bad := &fakeCommand{name: "bad", err: boom}
	require.NoError(t, r.Register(ok))
	require.NoError(t, r.Register(bad))

	require.NoError(t, r.Execute(context.Background(), "ok", nil))
	assert.True(t, ok.ran)

	err := r.Execute(context.Background(), "bad", nil)
	assert.ErrorIs(t, err, boom)
	assert.ErrorContains(t, err, "fake bad")

	assert.ErrorIs(t, r.Execute(context.Background(), "missing", nil), ErrUnknownCommand)
}
