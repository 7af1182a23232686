package commands

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	shlex "github.com/anmitsu/go-shlex"

	"github.com/cristivlas/shmy-sub000/core/command"
	"github.com/cristivlas/shmy-sub000/core/value"
)

// Run executes a command by name, optionally tokenizing raw argument
// strings first.
func Run() *SimpleCommand {
	cmd := &SimpleCommand{
		Use:     "run [OPTION...] COMMAND [ARGS]...",
		Short:   "Execute the specified command with its arguments.",
		Relaxed: true,
	}

	debug := cmd.Bool('D', "debug", "dump the command line arguments")
	raw := cmd.Bool('r', "raw", "arguments are raw strings that need to be tokenized")
	extra := cmd.String('a', "args", "", "pass the (whitespace separated) arguments to COMMAND")
	delimiter := cmd.String('d', "delimiter", "", "regex to split raw arguments on, instead of shell quoting rules")

	cmd.Action = func(env *command.Env, args []string) (value.Value, error) {
		if len(args) == 0 {
			return value.Value{}, errors.New("No command specified")
		}

		name := args[0]
		target, ok := env.Registry.Get(name)
		if !ok {
			return value.Value{}, &command.ArgError{Index: 0, Err: fmt.Errorf("Command not found: %s", name)}
		}

		cmdArgs := append([]string(nil), args[1:]...)
		cmdArgs = append(cmdArgs, strings.Fields(*extra)...)

		if *raw {
			split, err := splitRaw(cmdArgs, *delimiter)
			if err != nil {
				return value.Value{}, err
			}
			cmdArgs = split
		}

		if *debug {
			fmt.Fprintf(env.Stdout, "cmd: %q, args: %q\n", name, cmdArgs)
		}

		v, err := target.Exec(env, name, cmdArgs)
		if err != nil {
			var argErr *command.ArgError
			if errors.As(err, &argErr) {
				// Positions inside the tokenized strings don't map to ours.
				err = argErr.Err
			}
			return v, err
		}
		return v, nil
	}
	return cmd
}

func splitRaw(args []string, delimiter string) ([]string, error) {
	var out []string
	if delimiter != "" {
		re, err := regexp.Compile(delimiter)
		if err != nil {
			return nil, fmt.Errorf("Invalid delimiter %q: %w", delimiter, err)
		}
		for _, arg := range args {
			for _, tok := range re.Split(arg, -1) {
				if tok != "" {
					out = append(out, tok)
				}
			}
		}
		return out, nil
	}

	for _, arg := range args {
		tokens, err := shlex.Split(arg, true)
		if err != nil {
			return nil, err
		}
		out = append(out, tokens...)
	}
	return out, nil
}

func init() {
	addBuiltin(Run, "run")
}
