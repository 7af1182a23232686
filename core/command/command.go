// Package command defines how the evaluator hands command nodes to built-in
// handlers and external programs.
package command

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/afero"

	"github.com/cristivlas/shmy-sub000/core/job"
	"github.com/cristivlas/shmy-sub000/core/logger"
	"github.com/cristivlas/shmy-sub000/core/scope"
	"github.com/cristivlas/shmy-sub000/core/value"
)

// Exec is implemented by everything that can be invoked as a command.
//
// The returned value becomes the result of the command expression, a
// non-nil error is turned into a failed command status by the evaluator.
type Exec interface {
	Exec(env *Env, name string, args []string) (value.Value, error)
}

// Func adapts a function to the Exec interface.
type Func func(env *Env, name string, args []string) (value.Value, error)

func (f Func) Exec(env *Env, name string, args []string) (value.Value, error) {
	return f(env, name, args)
}

var _ Exec = (Func)(nil)

// Flag describes one option accepted by a command.
type Flag struct {
	Short      rune
	Long       string
	Help       string
	TakesValue bool
}

// FlagLister is implemented by commands that can describe their options,
// e.g. for completion.
type FlagLister interface {
	Flags() []Flag
}

// Hooks runs user scripts attached to shell events.
type Hooks interface {
	Run(sc *scope.Scope, event string, args []string) error
}

// Evaluator runs source text in the scope and I/O of env.
type Evaluator interface {
	EvalText(env *Env, text string) (value.Value, error)
}

// Env is the context a command runs in.
type Env struct {
	// Scope holds the variables visible to the command.
	Scope *scope.Scope

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// FS is used for every file access.
	FS afero.Fs

	Registry  *Registry
	Hooks     Hooks
	Evaluator Evaluator

	// Interrupt is raised by Ctrl-C.
	Interrupt *job.Signal
	// Launchers maps file extensions to interpreters, see job.Job.
	Launchers map[string]string

	Logger *logger.SessionLogger

	// Source is the script being evaluated, empty for interactive input.
	Source string
}

// NewEnv creates an environment bound to the process' standard streams and
// the OS filesystem.
func NewEnv(sc *scope.Scope, reg *Registry) *Env {
	return &Env{
		Scope:     sc,
		Stdin:     os.Stdin,
		Stdout:    os.Stdout,
		Stderr:    os.Stderr,
		FS:        afero.NewOsFs(),
		Registry:  reg,
		Interrupt: job.Interrupt,
	}
}

// WithScope returns a copy of e using sc.
func (e *Env) WithScope(sc *scope.Scope) *Env {
	out := *e
	out.Scope = sc
	return &out
}

// WithIO returns a copy of e using the given streams, nil keeps the current
// one.
func (e *Env) WithIO(stdin io.Reader, stdout, stderr io.Writer) *Env {
	out := *e
	if stdin != nil {
		out.Stdin = stdin
	}
	if stdout != nil {
		out.Stdout = stdout
	}
	if stderr != nil {
		out.Stderr = stderr
	}
	return &out
}

// Getenv returns the text of a variable visible from the command's scope.
func (e *Env) Getenv(name string) string {
	if e.Scope == nil {
		return ""
	}
	return e.Scope.Getenv(name)
}

// Record logs an event, it's a no-op without a logger.
func (e *Env) Record(event logger.LogType) {
	if e == nil || e.Logger == nil {
		return
	}
	e.Logger.Record(event)
}

// RunHook fires the hook scripts registered for event. Failures are reported
// on stderr and don't affect the caller.
func (e *Env) RunHook(event string, args ...string) {
	if e.Hooks == nil {
		return
	}
	if err := e.Hooks.Run(e.Scope, event, args); err != nil {
		fmt.Fprintf(e.Stderr, "%s: %v\n", event, err)
	}
}

// ArgError is returned by a command when one of its arguments is invalid.
// Index is the position of the argument, not counting the command name.
type ArgError struct {
	Index int
	Err   error
}

func (e *ArgError) Error() string {
	return e.Err.Error()
}

func (e *ArgError) Unwrap() error {
	return e.Err
}

// ExitRequest is returned by the exit built-in to end the shell.
type ExitRequest struct {
	Code int
}

func (e *ExitRequest) Error() string {
	return fmt.Sprintf("exit %d", e.Code)
}
