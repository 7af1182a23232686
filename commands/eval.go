package commands

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/afero"

	"github.com/cristivlas/shmy-sub000/core/command"
	"github.com/cristivlas/shmy-sub000/core/job"
	"github.com/cristivlas/shmy-sub000/core/scope"
	"github.com/cristivlas/shmy-sub000/core/value"
)

// errorShower is implemented by errors that can point at the input that
// caused them.
type errorShower interface {
	Show(w io.Writer, input string)
}

// Eval evaluates each argument as an expression, or runs a script with
// --source.
func Eval() *SimpleCommand {
	cmd := &SimpleCommand{
		Use:   "eval [OPTION...] EXPR...",
		Short: "Evaluate each argument as an expression, stopping at the first error.",
		Long: `
If --source is specified, the 1st argument after that is assumed to be the path
to a file containing script code, and the rest of the arguments are passed to
the script.

Each expression to be evaluated must be surrounded by quotes if non-trivial:
    eval --export "x = 100"
    eval "x = 1" "y = 2"`,
	}

	export := cmd.Bool('x', "export", "export variables to the global scope")
	source := cmd.Bool('s', "source", "treat the argument as path to script source")
	quiet := cmd.Bool('q', "quiet", "suppress output")

	cmd.Action = func(env *command.Env, args []string) (value.Value, error) {
		if env.Evaluator == nil {
			return value.Value{}, errors.New("no evaluator")
		}

		evalEnv := env.WithScope(scope.New(env.Scope))

		for i := 0; i < len(args); i++ {
			at, arg := i, args[i]
			input := arg

			if *source {
				text, err := afero.ReadFile(env.FS, arg)
				if err != nil {
					return value.Value{}, &command.ArgError{Index: i, Err: err}
				}
				input = string(text)

				scriptArgs := args[i+1:]
				env.Scope.Insert("0", value.Str(arg))
				for n, a := range scriptArgs {
					env.Scope.Insert(fmt.Sprint(n+1), value.Parse(a))
				}
				env.Scope.Insert("#", value.Int(int64(len(scriptArgs))))
				env.Scope.Insert("@", value.Str(strings.Join(args[i:], " ")))

				evalEnv.Source = arg
				i = len(args)
			}

			v, err := env.Evaluator.EvalText(evalEnv, input)
			if err != nil {
				if st := v.Status(); st.Failed() {
					return value.Value{}, st.Err
				}

				var exit *command.ExitRequest
				if errors.As(err, &exit) || errors.Is(err, job.ErrInterrupted) {
					return value.Value{}, err
				}

				var shower errorShower
				if errors.As(err, &shower) {
					shower.Show(env.Stderr, input)
				} else {
					fmt.Fprintln(env.Stderr, err)
				}
				return value.Value{}, &command.ArgError{Index: at, Err: fmt.Errorf("Error evaluating '%s'", arg)}
			}

			switch {
			case *export:
				global := env.Scope.Global()
				for _, v := range evalEnv.Scope.Vars() {
					if !scope.IsSpecial(v.Name) {
						global.Insert(v.Name, v.Value())
					}
				}
			case !v.IsStat() && !*quiet:
				fmt.Fprintln(env.Stdout, v)
			}
		}

		return value.Success(), nil
	}
	return cmd
}

func init() {
	addBuiltin(Eval, "eval")
}
