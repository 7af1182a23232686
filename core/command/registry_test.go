package command

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cristivlas/shmy-sub000/core/value"
)

func nop(name string) Exec {
	return Func(func(env *Env, _ string, args []string) (value.Value, error) {
		return value.Str(name), nil
	})
}

func TestRegistry_Register(t *testing.T) {
	reg := NewRegistry(afero.NewMemMapFs(), func() string { return "" })

	assert.Nil(t, reg.Register("echo", nop("first")))

	prev := reg.Register("echo", nop("second"))
	require.NotNil(t, prev)
	got, _ := prev.Exec(nil, "echo", nil)
	assert.Equal(t, value.Str("first"), got)

	cmd, ok := reg.Get("echo")
	require.True(t, ok)
	got, _ = cmd.Exec(nil, "echo", nil)
	assert.Equal(t, value.Str("second"), got)

	assert.True(t, reg.Unregister("echo"))
	assert.False(t, reg.Unregister("echo"))

	_, ok = reg.Get("echo")
	assert.False(t, ok)
}

func TestRegistry_Names(t *testing.T) {
	reg := NewRegistry(afero.NewMemMapFs(), func() string { return "" })
	reg.Register("vars", nop(""))
	reg.Register("cd", nop(""))
	reg.Register("alias", nop(""))

	assert.Equal(t, []string{"alias", "cd", "vars"}, reg.Names())
}

func TestRegistry_emptyName(t *testing.T) {
	reg := NewRegistry(afero.NewMemMapFs(), func() string { return "." })

	_, ok := reg.Get("")
	assert.False(t, ok)
}

func TestArgError(t *testing.T) {
	err := &ArgError{Index: 2, Err: ErrNotFound}

	assert.Equal(t, ErrNotFound.Error(), err.Error())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestExitRequest(t *testing.T) {
	assert.Equal(t, "exit 3", (&ExitRequest{Code: 3}).Error())
}
