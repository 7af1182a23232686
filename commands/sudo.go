package commands

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/cristivlas/shmy-sub000/core/command"
	"github.com/cristivlas/shmy-sub000/core/job"
	"github.com/cristivlas/shmy-sub000/core/value"
)

// Sudo runs a command with elevated privileges. Builtins and aliases are run
// by a new elevated instance of the shell.
func Sudo() *SimpleCommand {
	cmd := &SimpleCommand{
		Use:     "sudo [OPTION...] COMMAND [ARGS]...",
		Short:   "Execute a command with elevated privileges.",
		Relaxed: true,
	}

	extra := cmd.String('a', "args", "", "pass the (whitespace separated) arguments to COMMAND")

	cmd.Action = func(env *command.Env, args []string) (value.Value, error) {
		if len(args) == 0 {
			return value.Value{}, errors.New("No command specified")
		}

		name := args[0]
		cmdArgs := append([]string(nil), args[1:]...)
		cmdArgs = append(cmdArgs, strings.Fields(*extra)...)

		target, ok := env.Registry.Get(name)
		if !ok {
			return value.Value{}, &command.ArgError{Index: 0, Err: fmt.Errorf("Command not found: %s", name)}
		}

		var path string
		if ext, isExt := target.(*command.External); isExt {
			resolved, err := ext.Path()
			if err != nil {
				return value.Value{}, &command.ArgError{Index: 0, Err: err}
			}
			path = resolved
		} else {
			self, err := os.Executable()
			if err != nil {
				return value.Value{}, fmt.Errorf("Could not get executable path: %w", err)
			}
			path = self
			line := &AliasRunner{Template: []string{name}}
			cmdArgs = []string{"-c", line.Expand(cmdArgs)}
			if runtime.GOOS == "windows" {
				// The elevated shell gets its own console, keep it open.
				cmdArgs = append([]string{"-k"}, cmdArgs...)
			}
		}

		j := job.New(env.Scope, path, cmdArgs, true)
		j.Stdin, j.Stdout, j.Stderr = env.Stdin, env.Stdout, env.Stderr
		if env.Interrupt != nil {
			j.Interrupt = env.Interrupt
		}
		j.Launchers = env.Launchers

		if err := j.Run(); err != nil {
			return value.Value{}, err
		}
		return value.Success(), nil
	}
	return cmd
}

func init() {
	addBuiltin(Sudo, "sudo")
}
