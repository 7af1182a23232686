package commands

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/cristivlas/shmy-sub000/core/command"
	"github.com/cristivlas/shmy-sub000/core/value"
)

// Help lists the registered commands or shows the help of one.
func Help() *SimpleCommand {
	cmd := &SimpleCommand{
		Use:   "help [COMMAND]",
		Short: "List the available commands, or show the help for COMMAND.",
	}

	cmd.Action = func(env *command.Env, args []string) (value.Value, error) {
		if len(args) > 0 {
			target, ok := env.Registry.Get(args[0])
			if !ok {
				return value.Value{}, &command.ArgError{Index: 0, Err: fmt.Errorf("Command not found: %s", args[0])}
			}
			return target.Exec(env, args[0], []string{"--help"})
		}

		w := tabwriter.NewWriter(env.Stdout, 0, 8, 2, ' ', 0)
		for _, name := range env.Registry.Names() {
			found, _ := env.Registry.Lookup(name)
			switch found := found.(type) {
			case *Builtin:
				fmt.Fprintf(w, "%s\t%s\n", name, found.New().Short)
			case *AliasRunner:
				fmt.Fprintf(w, "%s\talias for %s\n", name, strings.Join(found.Template, " "))
			}
		}
		if err := w.Flush(); err != nil {
			return value.Value{}, err
		}
		return value.Success(), nil
	}
	return cmd
}

func init() {
	addBuiltin(Help, "help")
}
