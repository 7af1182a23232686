package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/cristivlas/shmy-sub000/core/command"
)

// Touch implements a POSIX touch command.
func Touch() *SimpleCommand {
	cmd := &SimpleCommand{
		Use:   "touch [OPTION...] FILE...",
		Short: "Update the access and modification times of files to now.",
	}

	noCreate := cmd.Bool('c', "no-create", "don't create files")

	cmd.Action = eachArg(func(env *command.Env, path string) error {
		now := time.Now()

		err := env.FS.Chtimes(path, now, now)
		switch {
		case errors.Is(err, fs.ErrNotExist) && !*noCreate:
			fd, err := env.FS.Create(path)
			if err != nil {
				return fmt.Errorf("cannot touch %q: %w", path, err)
			}
			return fd.Close()
		case errors.Is(err, fs.ErrNotExist) && *noCreate:
			// Not an error.
			return nil
		case err != nil:
			return fmt.Errorf("setting times of %q: %w", path, err)
		}
		return nil
	})
	return cmd
}

func init() {
	addBuiltin(Touch, "touch")
}
