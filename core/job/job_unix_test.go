//go:build unix

package job

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cristivlas/shmy-sub000/core/scope"
	"github.com/cristivlas/shmy-sub000/core/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJob(t *testing.T, sc *scope.Scope, path string, args ...string) (*Job, *bytes.Buffer) {
	t.Helper()
	if sc == nil {
		sc = scope.New(nil)
	}
	out := &bytes.Buffer{}
	j := New(sc, path, args, false)
	j.Stdin = bytes.NewReader(nil)
	j.Stdout = out
	j.Stderr = out
	j.Interrupt = NewSignal()
	return j, out
}

func TestRun(t *testing.T) {
	j, out := newTestJob(t, nil, "/bin/sh", "-c", "echo hello")

	assert.Equal(t, Created, j.State())
	assert.Nil(t, j.Run())
	assert.Equal(t, Completed, j.State())
	assert.Equal(t, 0, j.ExitCode())
	assert.Equal(t, "hello\n", out.String())

	assert.NotNil(t, j.Run(), "a job only runs once")
}

func TestRun_exitCode(t *testing.T) {
	j, _ := newTestJob(t, nil, "/bin/sh", "-c", "exit 3")

	err := j.Run()
	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, 3, exitErr.Code)
	assert.Equal(t, "exit code: 3 (0x3)", err.Error())
	assert.Equal(t, Completed, j.State())
}

func TestRun_environment(t *testing.T) {
	global := scope.New(nil)
	global.Insert("OUTER", value.Str("outer"))
	global.Insert(scope.Errors, value.Str("secret"))
	local := scope.New(global)
	local.Insert("INNER", value.Int(7))

	j, out := newTestJob(t, local, "/bin/sh", "-c", `echo "$OUTER:$INNER:$__errors:$HOME"`)

	require.Nil(t, j.Run())
	assert.Equal(t, "outer:7::\n", out.String())
}

func TestRun_launchFailed(t *testing.T) {
	j, _ := newTestJob(t, nil, filepath.Join(t.TempDir(), "missing"))

	assert.NotNil(t, j.Run())
	assert.Equal(t, LaunchFailed, j.State())
}

func TestRun_scriptWithoutExecBit(t *testing.T) {
	script := filepath.Join(t.TempDir(), "hello")
	require.Nil(t, os.WriteFile(script, []byte("echo from script $1\n"), 0644))

	j, out := newTestJob(t, nil, script, "arg")

	require.Nil(t, j.Run())
	assert.Equal(t, "from script arg\n", out.String())
}

func TestRun_launcher(t *testing.T) {
	script := filepath.Join(t.TempDir(), "hello.shmytest")
	require.Nil(t, os.WriteFile(script, []byte("echo launched\n"), 0644))

	j, out := newTestJob(t, nil, script)
	j.Launchers = map[string]string{".SHMYTEST": "/bin/sh -e"}

	require.Nil(t, j.Run())
	assert.Equal(t, "launched\n", out.String())
}

func TestRun_interrupt(t *testing.T) {
	j, _ := newTestJob(t, nil, "/bin/sh", "-c", "sleep 30")

	go func() {
		time.Sleep(100 * time.Millisecond)
		j.Interrupt.Raise()
	}()

	start := time.Now()
	err := j.Run()

	assert.True(t, errors.Is(err, ErrInterrupted))
	assert.Equal(t, Interrupted, j.State())
	assert.True(t, time.Since(start) < 10*time.Second, "run did not return promptly")
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "launch failed", LaunchFailed.String())
	assert.Equal(t, "waiting", Waiting.String())
}

func TestRun_states(t *testing.T) {
	j, _ := newTestJob(t, nil, "/bin/sh", "-c", "exit 0")
	var states []State
	j.onState = func(s State) { states = append(states, s) }

	require.Nil(t, j.Run())

	assert.Equal(t, []State{Spawned, Running, Waiting, Completed}, states)
}
