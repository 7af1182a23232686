package commands

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/cristivlas/shmy-sub000/core/command"
)

// Rm implements a POSIX rm command.
func Rm() *SimpleCommand {
	cmd := &SimpleCommand{
		Use:   "rm [OPTION...] FILE...",
		Short: "Remove files or directories.",
	}

	recursive := cmd.Bool('r', "recursive", "remove directories and their contents recursively")
	force := cmd.Bool('f', "force", "ignore missing files and arguments, never prompt")

	cmd.Action = eachArg(func(env *command.Env, file string) error {
		stat, statErr := env.FS.Stat(file)
		switch {
		case errors.Is(statErr, fs.ErrNotExist):
			if !*force {
				return fmt.Errorf("can't remove %q: no such file or directory", file)
			}
			return nil
		case statErr != nil:
			return fmt.Errorf("can't stat %q: %w", file, statErr)
		case stat.Mode().IsDir():
			if !*recursive {
				return fmt.Errorf("can't remove %q: is a directory", file)
			}
			if err := env.FS.RemoveAll(file); err != nil {
				return fmt.Errorf("can't remove %q: %w", file, err)
			}
			return nil
		default:
			// regular file, remove
			if err := env.FS.Remove(file); err != nil {
				return fmt.Errorf("can't remove %q: %w", file, err)
			}
			return nil
		}
	})
	return cmd
}

func init() {
	addBuiltin(Rm, "rm")
}
