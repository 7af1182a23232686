package commands

import (
	"fmt"
	"strconv"

	"github.com/cristivlas/shmy-sub000/core/command"
	"github.com/cristivlas/shmy-sub000/core/scope"
	"github.com/cristivlas/shmy-sub000/core/value"
)

// Vars prints variables. Invoked as env it prints what a child process
// would get, as vars every visible variable.
func Vars() *SimpleCommand {
	cmd := &SimpleCommand{
		Use:   "vars [OPTION...]",
		Short: "Display variables visible in the current scope.",
	}

	local := cmd.Bool('l', "local", "display local scope variables only")
	quote := cmd.Bool('q', "quote", "escape variable values and surround with double quotes")

	var colors ColorPrinter
	colors.Init(cmd)

	cmd.Action = func(env *command.Env, args []string) (value.Value, error) {
		colors.Bind(env)

		var vars []scope.Var
		switch {
		case *local:
			vars = env.Scope.Vars()
		default:
			vars = env.Scope.Visible()
		}

		for _, v := range vars {
			if cmd.Name() == "env" && scope.IsSpecial(v.Name) {
				continue
			}
			text := v.Value().String()
			if *quote {
				text = strconv.Quote(text)
			}
			fmt.Fprintf(env.Stdout, "%s=%s\n", colors.Sprintf(ColorBoldCyan, "%s", v.Name), text)
		}
		return value.Success(), nil
	}
	return cmd
}

func init() {
	addBuiltin(Vars, "vars", "env")
}
