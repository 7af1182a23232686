package commands

import (
	"io"

	"github.com/cristivlas/shmy-sub000/core/command"
	"github.com/cristivlas/shmy-sub000/core/value"
)

// Cat implements the UNIX cat command. With no FILE, or when FILE is -, it
// reads standard input.
func Cat() *SimpleCommand {
	cmd := &SimpleCommand{
		Use:   "cat [FILE]...",
		Short: "Concatenate FILE(s) to standard output.",
	}

	copyFile := func(env *command.Env, arg string) error {
		if arg == "-" {
			_, err := io.Copy(env.Stdout, env.Stdin)
			return err
		}

		fd, err := env.FS.Open(arg)
		if err != nil {
			return err
		}
		defer fd.Close()

		_, err = io.Copy(env.Stdout, fd)
		return err
	}

	cmd.Action = func(env *command.Env, args []string) (value.Value, error) {
		if len(args) == 0 {
			args = []string{"-"}
		}
		return eachArg(copyFile)(env, args)
	}
	return cmd
}

func init() {
	addBuiltin(Cat, "cat")
}
