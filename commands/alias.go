package commands

import (
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/cristivlas/shmy-sub000/core/command"
	"github.com/cristivlas/shmy-sub000/core/value"
)

// AliasRunner expands an alias and evaluates it with eval. The caller's
// arguments are appended as raw strings so they're never re-tokenized.
type AliasRunner struct {
	Template []string

	target     string
	overridden command.Exec
	// active counts nested expansions.
	active int32
}

const maxAliasDepth = 64

var _ command.Exec = (*AliasRunner)(nil)
var _ command.FlagLister = (*AliasRunner)(nil)

func newAliasRunner(reg *command.Registry, name string, template []string) *AliasRunner {
	a := &AliasRunner{Template: template}
	if fields := strings.Fields(template[0]); len(fields) > 0 {
		a.target = fields[0]
	}
	a.overridden, _ = reg.Lookup(name)
	return a
}

// Expand renders the expression run for args.
func (a *AliasRunner) Expand(args []string) string {
	parts := append([]string(nil), a.Template...)
	for _, arg := range args {
		parts = append(parts, `r"(`+arg+`)"`)
	}
	return strings.Join(parts, " ")
}

// Exec implements command.Exec.
func (a *AliasRunner) Exec(env *command.Env, name string, args []string) (value.Value, error) {
	eval, ok := env.Registry.Lookup("eval")
	if !ok {
		return value.Value{}, errors.New("eval command not registered")
	}

	if atomic.AddInt32(&a.active, 1) > maxAliasDepth {
		atomic.AddInt32(&a.active, -1)
		return value.Value{}, fmt.Errorf("alias %s: expansion too deep", name)
	}
	defer atomic.AddInt32(&a.active, -1)

	return eval.Exec(env, name, []string{a.Expand(args)})
}

// Flags lists the flags of the aliased command, for completion.
func (a *AliasRunner) Flags() []command.Flag {
	if lister, ok := a.overriddenOrTarget().(command.FlagLister); ok {
		return lister.Flags()
	}
	return nil
}

func (a *AliasRunner) overriddenOrTarget() command.Exec {
	if a.overridden != nil {
		return a.overridden
	}
	for _, b := range allBuiltins {
		for _, n := range b.Names {
			if n == a.target {
				return b
			}
		}
	}
	return nil
}

func addAlias(reg *command.Registry, name string, template []string) {
	reg.Register(name, newAliasRunner(reg, name, template))
}

func removeAlias(reg *command.Registry, name string) error {
	cmd, ok := reg.Lookup(name)
	if !ok {
		return fmt.Errorf("%s: alias not found", name)
	}
	runner, ok := cmd.(*AliasRunner)
	if !ok {
		return fmt.Errorf("%s is not an alias", name)
	}

	reg.Unregister(name)
	if runner.overridden != nil {
		reg.Register(name, runner.overridden)
	}
	return nil
}

func installDefaultAliases(reg *command.Registry) {
	addAlias(reg, "export", []string{"eval", "--export"})
	addAlias(reg, "source", []string{"eval", "--source"})
}

// InstallAliases registers aliases read from the configuration.
func InstallAliases(reg *command.Registry, aliases map[string]string) {
	for name, expr := range aliases {
		addAlias(reg, name, []string{expr})
	}
}

// Alias registers and removes aliases.
func Alias() *SimpleCommand {
	cmd := &SimpleCommand{
		Use:   "alias [NAME EXPRESSION] [OPTION...]",
		Short: "Register or deregister aliases (expression shortcuts).",
		Long: `
Examples:
    alias la "ls -al"
    alias --remove la
    alias unalias "alias --remove"

Using quotes is recommended when registering aliases.`,
		Relaxed: true,
	}

	remove := cmd.Bool('r', "remove", "remove an existing alias")
	list := cmd.Bool('l', "list", "list all aliases")

	cmd.Action = func(env *command.Env, args []string) (value.Value, error) {
		reg := env.Registry

		switch {
		case *list:
			if len(args) > 0 {
				return value.Value{}, &command.ArgError{Index: 0, Err: errors.New("--list (or -l) was specified but other arguments were present")}
			}
			count := 0
			for _, name := range reg.Names() {
				if runner, ok := lookupAlias(reg, name); ok {
					count++
					fmt.Fprintf(env.Stdout, "%s: %s\n", name, strings.Join(runner.Template, " "))
				}
			}
			if count == 0 {
				fmt.Fprintln(env.Stdout, "No aliases found.")
			}
			return value.Success(), nil

		case *remove:
			if len(args) == 0 {
				return value.Value{}, errors.New("Please specify an alias to remove")
			}
			if err := removeAlias(reg, args[0]); err != nil {
				return value.Value{}, &command.ArgError{Index: 0, Err: err}
			}
			return value.Success(), nil
		}

		switch len(args) {
		case 0:
			return value.Value{}, errors.New("NAME not specified")
		case 1:
			return value.Value{}, errors.New("EXPRESSION not specified")
		}

		addAlias(reg, args[0], args[1:])
		return value.Success(), nil
	}
	return cmd
}

func lookupAlias(reg *command.Registry, name string) (*AliasRunner, bool) {
	cmd, ok := reg.Lookup(name)
	if !ok {
		return nil, false
	}
	runner, ok := cmd.(*AliasRunner)
	return runner, ok
}

func init() {
	addBuiltin(Alias, "alias")
}
