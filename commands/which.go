package commands

import (
	"fmt"

	"github.com/cristivlas/shmy-sub000/core/command"
)

// Which implements the UNIX which command, builtins and aliases included.
func Which() *SimpleCommand {
	cmd := &SimpleCommand{
		Use:   "which [COMMAND...]",
		Short: "Locate a command.",
	}

	cmd.Action = eachArg(func(env *command.Env, arg string) error {
		if found, ok := env.Registry.Lookup(arg); ok {
			switch found := found.(type) {
			case *command.External:
			case *AliasRunner:
				fmt.Fprintf(env.Stdout, "%s: aliased to %s\n", arg, found.Expand(nil))
				return nil
			default:
				fmt.Fprintf(env.Stdout, "%s: shell built-in command\n", arg)
				return nil
			}
		}

		res, err := env.Registry.LookPath(arg)
		if err != nil {
			return err
		}
		fmt.Fprintln(env.Stdout, res)
		return nil
	})
	return cmd
}

func init() {
	addBuiltin(Which, "which")
}
