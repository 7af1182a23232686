package commands

import (
	"errors"
	"strconv"

	"github.com/cristivlas/shmy-sub000/core/command"
	"github.com/cristivlas/shmy-sub000/core/value"
)

var errInvalidExitCode = errors.New("Invalid exit code. Please provide a valid integer.")

// Exit asks the shell to end with the given code.
func Exit() *SimpleCommand {
	cmd := &SimpleCommand{
		Use:   "exit [CODE]",
		Short: "Exit the shell with the specified exit code (default: 0).",
	}

	cmd.Action = func(env *command.Env, args []string) (value.Value, error) {
		code := 0
		if len(args) > 0 {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return value.Value{}, &command.ArgError{Index: 0, Err: errInvalidExitCode}
			}
			code = n
		}
		return value.Value{}, &command.ExitRequest{Code: code}
	}
	return cmd
}

func init() {
	addBuiltin(Exit, "exit", "quit")
}
