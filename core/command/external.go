package command

import (
	"time"

	"github.com/cristivlas/shmy-sub000/core/job"
	"github.com/cristivlas/shmy-sub000/core/logger"
	"github.com/cristivlas/shmy-sub000/core/value"
)

// HookExternalCommand fires after an external program exits successfully.
const HookExternalCommand = "external_command"

// External runs a program found on the PATH.
type External struct {
	Name string

	resolve func(name string) (string, error)
}

// NewExternal creates a handler for the program at name, resolved with
// reg's search path on every run.
func NewExternal(reg *Registry, name string) *External {
	return &External{Name: name, resolve: reg.LookPath}
}

// Path resolves the program's location.
func (e *External) Path() (string, error) {
	if e.resolve == nil {
		return e.Name, nil
	}
	return e.resolve(e.Name)
}

// Exec runs the program with the variables of env.Scope as its environment.
func (e *External) Exec(env *Env, name string, args []string) (value.Value, error) {
	path, err := e.Path()
	if err != nil {
		return value.Value{}, err
	}

	j := job.New(env.Scope, path, args, false)
	if env.Stdin != nil {
		j.Stdin = env.Stdin
	}
	if env.Stdout != nil {
		j.Stdout = env.Stdout
	}
	if env.Stderr != nil {
		j.Stderr = env.Stderr
	}
	if env.Interrupt != nil {
		j.Interrupt = env.Interrupt
	}
	j.Launchers = env.Launchers

	start := time.Now()
	err = j.Run()

	exit := &logger.JobExit{
		Path:           path,
		Args:           args,
		State:          j.State().String(),
		Code:           j.ExitCode(),
		DurationMicros: time.Since(start).Microseconds(),
	}
	if err != nil {
		exit.Error = err.Error()
	}
	env.Record(exit)

	if err != nil {
		return value.Value{}, err
	}

	env.RunHook(HookExternalCommand, append([]string{name}, args...)...)
	return value.Success(), nil
}
