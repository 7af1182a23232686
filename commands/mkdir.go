package commands

import (
	"errors"
	"fmt"

	"github.com/cristivlas/shmy-sub000/core/command"
	"github.com/cristivlas/shmy-sub000/core/value"
)

// Mkdir implements a POSIX mkdir command.
//
// https://pubs.opengroup.org/onlinepubs/9699919799.2018edition/utilities/mkdir.html
func Mkdir() *SimpleCommand {
	cmd := &SimpleCommand{
		Use:   "mkdir [OPTION...] DIRECTORY...",
		Short: "Create directories if they don't exist.",
	}

	makeParents := cmd.Bool('p', "parents", "make parents if needed")
	verbose := cmd.Bool('v', "verbose", "print line for every created directory")

	makeDir := eachArg(func(env *command.Env, dir string) error {
		var err error
		if *makeParents {
			err = env.FS.MkdirAll(dir, 0777)
		} else {
			err = env.FS.Mkdir(dir, 0777)
		}

		switch {
		case err != nil:
			return fmt.Errorf("cannot create directory %q: %w", dir, err)
		case *verbose:
			fmt.Fprintf(env.Stdout, "mkdir: created directory: %s\n", dir)
		}
		return nil
	})

	cmd.Action = func(env *command.Env, args []string) (value.Value, error) {
		if len(args) == 0 {
			return value.Value{}, errors.New("missing operand")
		}
		return makeDir(env, args)
	}
	return cmd
}

func init() {
	addBuiltin(Mkdir, "mkdir")
}
