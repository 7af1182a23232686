package commands

import (
	"errors"
	"fmt"
	"path"

	"github.com/cristivlas/shmy-sub000/core/command"
	"github.com/cristivlas/shmy-sub000/core/value"
)

// Rmdir implements a POSIX rmdir command.
func Rmdir() *SimpleCommand {
	cmd := &SimpleCommand{
		Use:   "rmdir [OPTION...] DIRECTORY...",
		Short: "Remove empty directories.",
	}

	parents := cmd.Bool('p', "parents", "remove DIRECTORY and its ancestors")
	verbose := cmd.Bool('v', "verbose", "print line for every deleted directory")

	removeDir := eachArg(func(env *command.Env, dir string) error {
		steps := []string{dir}
		if *parents {
			steps = nil
			// Deepest first.
			for d := path.Clean(dir); d != "." && d != "/"; d = path.Dir(d) {
				steps = append(steps, d)
			}
		}

		for _, dir := range steps {
			file, err := env.FS.Open(dir)
			if err != nil {
				return fmt.Errorf("cannot read directory %q: %w", dir, err)
			}
			contents, err := file.Readdir(-1)
			file.Close()
			if err != nil {
				return fmt.Errorf("cannot read directory %q: %w", dir, err)
			}
			if len(contents) > 0 {
				return fmt.Errorf("directory not empty %q", dir)
			}

			if err := env.FS.Remove(dir); err != nil {
				return fmt.Errorf("cannot remove directory %q: %w", dir, err)
			}
			if *verbose {
				fmt.Fprintf(env.Stdout, "rmdir: removed directory: %s\n", dir)
			}
		}
		return nil
	})

	cmd.Action = func(env *command.Env, args []string) (value.Value, error) {
		if len(args) == 0 {
			return value.Value{}, errors.New("missing operand")
		}
		return removeDir(env, args)
	}
	return cmd
}

func init() {
	addBuiltin(Rmdir, "rmdir")
}
