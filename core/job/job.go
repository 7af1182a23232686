// Package job runs external programs to completion while honoring an
// interrupt signal.
package job

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/cristivlas/shmy-sub000/core/scope"
)

// State is a step in the life of a job.
type State int

const (
	Created State = iota
	Spawned
	Running
	Waiting
	Completed
	Interrupted
	LaunchFailed
)

func (s State) String() string {
	switch s {
	case Created:
		return "created"
	case Spawned:
		return "spawned"
	case Running:
		return "running"
	case Waiting:
		return "waiting"
	case Completed:
		return "completed"
	case Interrupted:
		return "interrupted"
	case LaunchFailed:
		return "launch failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// ExitError reports a program that exited with a non-zero code.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit code: %d (%#x)", e.Code, uint32(e.Code))
}

// ElevationError wraps a failure that could succeed with more privileges.
type ElevationError struct {
	Err  error
	Args []string
}

func (e *ElevationError) Error() string {
	return fmt.Sprintf("%v; try: sudo %s", e.Err, strings.Join(e.Args, " "))
}

func (e *ElevationError) Unwrap() error {
	return e.Err
}

// Job is a single run of an external program.
type Job struct {
	// Path of the program to run.
	Path string
	// Args excluding the program name.
	Args []string
	// Elevated runs the program through the platform's privileged launcher.
	Elevated bool

	// Env replaces the environment of the child.
	Env []string
	// Dir is the working directory, empty for the current one.
	Dir string

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// Interrupt cancels the wait and kills the process tree.
	Interrupt *Signal

	// Launchers maps file extensions (".py") to the interpreter used to run
	// files that the OS can't run directly.
	Launchers map[string]string

	state    State
	exitCode int
	// onState observes every transition.
	onState func(State)
}

func (j *Job) setState(s State) {
	j.state = s
	if j.onState != nil {
		j.onState(s)
	}
}

// New creates a job whose environment is every exportable variable visible
// from sc.
func New(sc *scope.Scope, path string, args []string, elevated bool) *Job {
	return &Job{
		Path:      path,
		Args:      args,
		Elevated:  elevated,
		Env:       sc.Environ(),
		Stdin:     os.Stdin,
		Stdout:    os.Stdout,
		Stderr:    os.Stderr,
		Interrupt: Interrupt,
	}
}

// State returns where the job is in its life cycle.
func (j *Job) State() State {
	return j.state
}

// ExitCode returns the code of a completed job.
func (j *Job) ExitCode() int {
	return j.exitCode
}

// Run starts the program and waits for it to exit or for the interrupt
// signal, whichever comes first.
func (j *Job) Run() error {
	if j.state != Created {
		return fmt.Errorf("job %q already ran", j.Path)
	}
	if j.Interrupt == nil {
		j.Interrupt = Interrupt
	}

	argv, err := j.command()
	if err != nil {
		j.setState(LaunchFailed)
		return err
	}

	return j.run(argv)
}

// command builds the argument vector that launches the job.
func (j *Job) command() ([]string, error) {
	if j.Elevated {
		return elevatedCommand(j.Path, j.Args), nil
	}

	info, err := os.Stat(j.Path)
	switch {
	case err != nil:
		return nil, err
	case info.IsDir():
		return nil, fmt.Errorf("%s: %w", j.Path, errIsDir)
	}

	if isNative(j.Path, info) {
		return append([]string{j.Path}, j.Args...), nil
	}

	if launcher, ok := j.launcherFor(j.Path); ok {
		out := strings.Fields(launcher)
		out = append(out, j.Path)
		return append(out, j.Args...), nil
	}

	return shellCommand(j.Path, j.Args), nil
}

var errIsDir = errors.New("is a directory")

func (j *Job) launcherFor(path string) (string, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return "", false
	}
	for k, v := range j.Launchers {
		if strings.ToLower(k) == ext && v != "" {
			return v, true
		}
	}
	return "", false
}

// finish records the exit of the process.
func (j *Job) finish(code int) error {
	j.setState(Completed)
	j.exitCode = code
	if code == 0 {
		return nil
	}
	err := error(&ExitError{Code: code})
	if code == elevationRequiredCode {
		err = &ElevationError{Err: err, Args: append([]string{j.Path}, j.Args...)}
	}
	return err
}

// launchFailed records a failure to start the process.
func (j *Job) launchFailed(err error) error {
	j.setState(LaunchFailed)
	if needsElevation(err) {
		return &ElevationError{Err: err, Args: append([]string{j.Path}, j.Args...)}
	}
	return err
}

func (j *Job) interrupted() error {
	j.setState(Interrupted)
	return ErrInterrupted
}

func isPermission(err error) bool {
	return errors.Is(err, fs.ErrPermission)
}
