package shell

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/afero"

	"github.com/cristivlas/shmy-sub000/core/command"
	"github.com/cristivlas/shmy-sub000/core/job"
	"github.com/cristivlas/shmy-sub000/core/logger"
	"github.com/cristivlas/shmy-sub000/core/scope"
	"github.com/cristivlas/shmy-sub000/core/value"
)

// Interp evaluates source text. It isn't safe for concurrent use.
type Interp struct {
	env *command.Env
}

var _ command.Evaluator = (*Interp)(nil)

// Option configures an Interp.
type Option func(*Interp)

// WithScope sets the global scope, the default is built from the process
// environment.
func WithScope(sc *scope.Scope) Option {
	return func(i *Interp) {
		i.env.Scope = sc
	}
}

// WithRegistry sets the commands known to the interpreter.
func WithRegistry(reg *command.Registry) Option {
	return func(i *Interp) {
		i.env.Registry = reg
	}
}

// WithIO sets the standard streams, nil keeps the process' stream.
func WithIO(stdin io.Reader, stdout, stderr io.Writer) Option {
	return func(i *Interp) {
		i.env = i.env.WithIO(stdin, stdout, stderr)
	}
}

// WithFS sets the filesystem used for globbing and by commands.
func WithFS(fs afero.Fs) Option {
	return func(i *Interp) {
		i.env.FS = fs
	}
}

// WithHooks sets the scripts run on shell events.
func WithHooks(h command.Hooks) Option {
	return func(i *Interp) {
		i.env.Hooks = h
	}
}

// WithLogger records events to l.
func WithLogger(l *logger.SessionLogger) Option {
	return func(i *Interp) {
		i.env.Logger = l
	}
}

// WithInterrupt replaces the process-wide interrupt signal.
func WithInterrupt(sig *job.Signal) Option {
	return func(i *Interp) {
		i.env.Interrupt = sig
	}
}

// WithLaunchers maps file extensions to the interpreters that run them.
func WithLaunchers(launchers map[string]string) Option {
	return func(i *Interp) {
		i.env.Launchers = launchers
	}
}

// New creates an interpreter. Without options it uses the process
// environment, the standard streams, the OS filesystem and an empty
// registry that finds programs on the PATH.
func New(opts ...Option) *Interp {
	i := &Interp{
		env: command.NewEnv(scope.NewFromEnv(os.Environ()), nil),
	}
	for _, opt := range opts {
		opt(i)
	}
	if i.env.FS == nil {
		i.env.FS = afero.NewOsFs()
	}
	if i.env.Registry == nil {
		i.env.Registry = command.NewRegistry(i.env.FS, nil)
	}
	i.env.Evaluator = i
	return i
}

// Scope returns the global scope.
func (i *Interp) Scope() *scope.Scope {
	return i.env.Scope
}

// Env returns the environment commands run in.
func (i *Interp) Env() *command.Env {
	return i.env
}

// Parse parses text without evaluating it.
func (i *Interp) Parse(text string) (*Group, error) {
	return Parse(text, i.env.Registry, i.env.Scope, i.env.FS)
}

// Eval evaluates one input line or script. The global error list is reset
// first. Errors are recorded to the event log.
func (i *Interp) Eval(text string) (value.Value, error) {
	if i.env.Scope.IsGlobal() {
		i.env.Scope.Insert(scope.Errors, value.Str(""))
	}

	v, err := i.EvalText(i.env, text)
	if err != nil {
		i.recordError(text, err)
	}
	return v, err
}

func (i *Interp) recordError(text string, err error) {
	var exit *command.ExitRequest
	if errors.As(err, &exit) {
		return
	}

	var serr *Error
	if errors.As(err, &serr) && serr.Kind == Interrupted {
		i.env.Record(&logger.Interrupted{Input: text})
		return
	}

	event := &logger.EvalError{Input: text, Error: err.Error()}
	if serr != nil {
		event.Kind = serr.Kind.String()
		event.Line = serr.Loc.Line
		event.Col = serr.Loc.Col
	}
	i.env.Record(event)
}

// EvalText evaluates text in the scope and with the streams of env. The
// error of a failed command in last position is returned.
func (i *Interp) EvalText(env *command.Env, text string) (value.Value, error) {
	root, err := Parse(text, env.Registry, env.Scope, env.FS)
	if err != nil {
		return value.Value{}, err
	}

	v, err := evalGroup(env, root)
	if err != nil {
		var lc *loopControl
		if errors.As(err, &lc) {
			return v, newError(EvalError, root.loc, lc)
		}
		return v, err
	}
	if st := v.Status(); st != nil && st.Failed() {
		return v, st.Err
	}
	return v, nil
}

// EvalFile runs the script at path with args bound to $1 and up. $0 is the
// path, $# the number of arguments and $@ all of them.
func (i *Interp) EvalFile(path string, args []string) (value.Value, error) {
	text, err := afero.ReadFile(i.env.FS, path)
	if err != nil {
		return value.Value{}, err
	}

	sc := i.env.Scope
	sc.Insert("0", value.Str(path))
	for n, arg := range args {
		sc.Insert(fmt.Sprint(n+1), value.Parse(arg))
	}
	sc.Insert("#", value.Int(int64(len(args))))
	sc.Insert("@", value.Str(strings.Join(args, " ")))

	prev := i.env.Source
	i.env.Source = path
	defer func() { i.env.Source = prev }()

	return i.Eval(string(text))
}
