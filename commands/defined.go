package commands

import (
	"fmt"

	"github.com/cristivlas/shmy-sub000/core/command"
)

// Defined fails unless every NAME is a visible variable.
func Defined() *SimpleCommand {
	cmd := &SimpleCommand{
		Use:   "defined NAME...",
		Short: "Check the existence of variable(s) with the given name(s).",
	}

	cmd.Action = eachArg(func(env *command.Env, name string) error {
		if env.Scope.Lookup(name) == nil {
			return fmt.Errorf("%s is undefined", name)
		}
		return nil
	})
	return cmd
}

func init() {
	addBuiltin(Defined, "defined")
}
