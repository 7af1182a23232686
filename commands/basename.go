package commands

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/cristivlas/shmy-sub000/core/command"
	"github.com/cristivlas/shmy-sub000/core/value"
)

// Basename prints the last element of each path.
func Basename() *SimpleCommand {
	cmd := &SimpleCommand{
		Use:   "basename NAME...",
		Short: "Print the base name of each NAME.",
	}

	base := eachArg(func(env *command.Env, arg string) error {
		name := filepath.Base(filepath.Clean(arg))
		if name == "." || name == ".." || name == string(filepath.Separator) {
			return errors.New("Failed to get file name")
		}
		fmt.Fprintln(env.Stdout, name)
		return nil
	})

	cmd.Action = func(env *command.Env, args []string) (value.Value, error) {
		if len(args) == 0 {
			return value.Value{}, errors.New("No arguments provided")
		}
		return base(env, args)
	}
	return cmd
}

func init() {
	addBuiltin(Basename, "basename")
}
