// Package hooks runs user scripts when shell events fire.
//
// Example configuration:
//
//	hooks:
//	  on_change_dir:
//	  - action: hooks/git_branch.my
//
// Each action is sourced with `eval -q -s SCRIPT ARGS...` in the scope of
// the command that fired the event.
package hooks

import (
	"errors"
	"fmt"
	"os"

	"github.com/tevino/abool/v2"

	"github.com/cristivlas/shmy-sub000/core/command"
	"github.com/cristivlas/shmy-sub000/core/logger"
	"github.com/cristivlas/shmy-sub000/core/scope"
)

// ActionSource lists the scripts attached to an event.
type ActionSource interface {
	HookActions(event string) []string
}

// Hooks implements command.Hooks.
type Hooks struct {
	actions ActionSource
	env     *command.Env
	running *abool.AtomicBool
}

var _ command.Hooks = (*Hooks)(nil)

// New creates hooks for the actions. Bind must be called before they run.
func New(actions ActionSource) *Hooks {
	return &Hooks{actions: actions, running: abool.New()}
}

// Bind sets the environment hooks run in, usually the interpreter's.
func (h *Hooks) Bind(env *command.Env) {
	h.env = env
}

// isElevated reports whether the shell runs as root. Hooks are skipped then.
var isElevated = func() bool {
	return os.Geteuid() == 0
}

// Run sources every action of event. Events fired while a hook is running
// are ignored.
func (h *Hooks) Run(sc *scope.Scope, event string, args []string) error {
	if h == nil || h.env == nil || isElevated() {
		return nil
	}
	actions := h.actions.HookActions(event)
	if len(actions) == 0 {
		return nil
	}
	if !h.running.SetToIf(false, true) {
		return nil
	}
	defer h.running.UnSet()

	eval, ok := h.env.Registry.Lookup("eval")
	if !ok {
		return errors.New("eval command not registered")
	}

	env := h.env.WithScope(sc)
	var errs []error
	for _, action := range actions {
		evalArgs := append([]string{"-q", "-s", action}, args...)
		_, err := eval.Exec(env, "eval", evalArgs)

		run := &logger.HookRun{Event: event, Action: action}
		if err != nil {
			run.Error = err.Error()
			errs = append(errs, fmt.Errorf("%s: %w", action, err))
		}
		env.Record(run)
	}
	return errors.Join(errs...)
}
