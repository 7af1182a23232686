package shell

import (
	"bufio"
	"bytes"
	"errors"
	"strings"

	"github.com/cristivlas/shmy-sub000/core/command"
	"github.com/cristivlas/shmy-sub000/core/job"
	"github.com/cristivlas/shmy-sub000/core/logger"
	"github.com/cristivlas/shmy-sub000/core/scope"
	"github.com/cristivlas/shmy-sub000/core/value"
)

// loopControl unwinds the evaluation up to the innermost loop.
type loopControl struct {
	brk bool
	// Value of the last statement evaluated before BREAK or CONTINUE.
	val    value.Value
	hasVal bool
}

func (c *loopControl) Error() string {
	if c.brk {
		return "BREAK outside loop"
	}
	return "CONTINUE outside loop"
}

// eval evaluates n in the scope and with the streams of env.
func eval(env *command.Env, n Node) (value.Value, error) {
	switch n := n.(type) {
	case nil:
		return value.Value{}, newError(EvalError, Location{}, ErrEmptyExpression)
	case *Literal:
		return evalLiteral(env, n)
	case *Binary:
		return evalBinary(env, n)
	case *Unary:
		v, err := eval(env, n.operand)
		if err != nil {
			return v, err
		}
		return value.Bool(!truth(env, v)), nil
	case *Group:
		return evalGroup(env.WithScope(scope.New(env.Scope)), n)
	case *Command:
		return evalCommand(env, n)
	case *Branch:
		return evalBranch(env, n)
	case *Loop:
		return evalLoop(env, n)
	case *For:
		return evalFor(env, n)
	case *Break:
		return value.Value{}, &loopControl{brk: true}
	case *Continue:
		return value.Value{}, &loopControl{}
	}
	return value.Value{}, errorf(EvalError, n.Loc(), "Unexpected expression %s", n)
}

func evalLiteral(env *command.Env, n *Literal) (value.Value, error) {
	if n.raw {
		return value.Str(n.text), nil
	}
	text, err := Substitute(env.Scope, n.text)
	if err != nil {
		return value.Value{}, newError(EvalError, n.loc, err)
	}
	return value.Parse(text), nil
}

// truth converts v to a condition. A failed command status consumed here
// counts as handled and its message is added to the global error list.
func truth(env *command.Env, v value.Value) bool {
	if st := v.Status(); st != nil && st.Failed() {
		if st.Check() {
			appendError(env.Scope, st.Message())
		}
		return false
	}
	return v.Truthy()
}

func appendError(sc *scope.Scope, msg string) {
	g := sc.Global()
	if prev, ok := g.LookupValue(scope.Errors); ok && prev.String() != "" {
		msg = prev.String() + "\n" + msg
	}
	g.Insert(scope.Errors, value.Str(msg))
}

// evalGroup evaluates the statements of g in env's scope. A failed command
// that nothing checked stops the group, unless it is the last statement.
func evalGroup(env *command.Env, g *Group) (value.Value, error) {
	var (
		result   value.Value
		haveLast bool
	)
	for i, item := range g.items {
		v, err := eval(env, item)
		if err != nil {
			var lc *loopControl
			if errors.As(err, &lc) && !lc.hasVal && haveLast {
				lc.val, lc.hasVal = result, true
			}
			return v, err
		}
		if st := v.Status(); st != nil && st.Failed() && !st.Checked() && i < len(g.items)-1 {
			return v, st.Err
		}
		result, haveLast = v, true
	}
	return result, nil
}

func evalBinary(env *command.Env, n *Binary) (value.Value, error) {
	switch n.op {
	case OpAssign:
		return evalAssign(env, n)
	case OpPipe:
		return evalPipe(env, n)
	case OpAnd, OpOr:
		lhs, err := eval(env, n.lhs)
		if err != nil {
			return lhs, err
		}
		if truth(env, lhs) == (n.op == OpOr) {
			if lhs.IsStat() {
				return lhs, nil
			}
			return value.Bool(n.op == OpOr), nil
		}
		rhs, err := eval(env, n.rhs)
		if err != nil || rhs.IsStat() {
			return rhs, err
		}
		return value.Bool(rhs.Truthy()), nil
	}

	lhs, err := eval(env, n.lhs)
	if err != nil {
		return lhs, err
	}
	rhs, err := eval(env, n.rhs)
	if err != nil {
		return rhs, err
	}
	v, err := apply(n.op, lhs, rhs)
	if err != nil {
		return v, newError(EvalError, n.loc, err)
	}
	return v, nil
}

func evalAssign(env *command.Env, n *Binary) (value.Value, error) {
	lit, ok := n.lhs.(*Literal)
	if !ok || lit.quoted || lit.raw || lit.text == "" {
		return value.Value{}, errorf(EvalError, n.loc, "Identifier expected on left hand-side of assignment")
	}

	name := lit.text
	if !strings.HasPrefix(name, "$") {
		if n.rhs == nil {
			return value.Value{}, errorf(EvalError, n.loc, "Expecting right hand-side expression")
		}
		v, err := eval(env, n.rhs)
		if err != nil {
			return v, err
		}
		env.Scope.Insert(name, v)
		return v, nil
	}

	// $x = value updates an existing variable, $x = erases it.
	name = strings.TrimSuffix(strings.TrimPrefix(name[1:], "{"), "}")
	if n.rhs == nil {
		if erased := env.Scope.Erase(name); erased != nil {
			return erased.Value(), nil
		}
		return value.Value{}, errorf(EvalError, lit.loc, "Variable not found: $%s", name)
	}

	variable := env.Scope.Lookup(name)
	if variable == nil {
		return value.Value{}, errorf(EvalError, lit.loc, "Variable not found: $%s", name)
	}
	v, err := eval(env, n.rhs)
	if err != nil {
		return v, err
	}
	variable.Assign(v)
	return v, nil
}

// evalPipe runs the left side with its output captured and feeds it to the
// right side. A bare identifier on the right receives the output.
func evalPipe(env *command.Env, n *Binary) (value.Value, error) {
	var out bytes.Buffer
	lhs, err := eval(env.WithIO(nil, &out, nil), n.lhs)
	if err != nil || lhs.Failed() {
		return lhs, err
	}

	if lit, ok := n.rhs.(*Literal); ok && !lit.quoted && !lit.raw && isIdentifier(lit.text) {
		v := value.Parse(strings.TrimRight(out.String(), "\r\n"))
		env.Scope.Insert(lit.text, v)
		return v, nil
	}
	return eval(env.WithIO(&out, nil, nil), n.rhs)
}

func isIdentifier(s string) bool {
	return s != "" && varName(s) == s && !isDigit(s[0]) && s[0] != '#' && s[0] != '@'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func evalBranch(env *command.Env, n *Branch) (value.Value, error) {
	cond, err := eval(env, n.cond)
	if err != nil {
		return cond, err
	}
	if truth(env, cond) {
		return eval(env, n.then)
	}
	if n.els != nil {
		return eval(env, n.els)
	}
	return value.Int(0), nil
}

func interrupted(env *command.Env, loc Location) error {
	if env.Interrupt != nil && env.Interrupt.IsRaised() {
		return newError(Interrupted, loc, job.ErrInterrupted)
	}
	return nil
}

// runBody evaluates one iteration. It reports whether the loop should stop.
func runBody(env *command.Env, body Node, result *value.Value) (bool, error) {
	v, err := eval(env, body)
	if err == nil {
		*result = v
		return false, nil
	}

	var lc *loopControl
	if !errors.As(err, &lc) {
		return true, err
	}
	if lc.hasVal {
		*result = lc.val
	}
	return lc.brk, nil
}

func evalLoop(env *command.Env, n *Loop) (value.Value, error) {
	result := value.Int(0)
	for {
		if err := interrupted(env, n.loc); err != nil {
			return result, err
		}

		cond, err := eval(env, n.cond)
		if err != nil {
			return cond, err
		}
		if !truth(env, cond) {
			return result, nil
		}

		if stop, err := runBody(env, n.body, &result); err != nil || stop {
			return result, err
		}
	}
}

func evalFor(env *command.Env, n *For) (value.Value, error) {
	vals, err := forValues(env, n.args)
	if err != nil {
		return value.Value{}, err
	}

	result := value.Int(0)
	for _, v := range vals {
		if err := interrupted(env, n.loc); err != nil {
			return result, err
		}

		env.Scope.Insert(n.Var(), v)
		if stop, err := runBody(env, n.body, &result); err != nil || stop {
			return result, err
		}
	}
	return result, nil
}

// forValues expands the arguments of FOR. A lone dash reads the values from
// standard input, one per line.
func forValues(env *command.Env, args *Group) ([]value.Value, error) {
	argEnv := env.WithScope(scope.New(env.Scope))

	var out []value.Value
	for _, item := range args.items {
		v, err := argValue(argEnv, item)
		if err != nil {
			return nil, err
		}

		switch s := v.String(); {
		case s == "-" && v.Kind() == value.KindStr:
			scanner := bufio.NewScanner(env.Stdin)
			for scanner.Scan() {
				out = append(out, value.Parse(scanner.Text()))
			}
			if err := scanner.Err(); err != nil {
				return nil, newError(EvalError, item.Loc(), err)
			}
		case strings.HasPrefix(s, "~"):
			out = append(out, value.Parse(expandTilde(env, s)))
		default:
			out = append(out, v)
		}
	}
	return out, nil
}

// argValue evaluates an argument. Failed commands raise their error, the
// status of successful ones can't be used as an argument.
func argValue(env *command.Env, item Node) (value.Value, error) {
	v, err := eval(env, item)
	if err != nil {
		return v, err
	}
	if st := v.Status(); st != nil {
		if st.Failed() {
			return v, st.Err
		}
		return v, errorf(EvalError, item.Loc(), "Command status argument is not allowed")
	}
	return v, nil
}

func expandTilde(env *command.Env, s string) string {
	if !strings.HasPrefix(s, "~") {
		return s
	}
	home, ok := env.Scope.LookupValue("HOME")
	if !ok {
		return s
	}
	return home.String() + s[1:]
}

func evalCommand(env *command.Env, n *Command) (value.Value, error) {
	var (
		args []string
		locs []Location
	)
	if n.args != nil {
		argEnv := env.WithScope(scope.New(env.Scope))
		for _, item := range n.args.items {
			v, err := argValue(argEnv, item)
			if err != nil {
				return v, err
			}
			args = append(args, expandTilde(env, v.String()))
			locs = append(locs, item.Loc())
		}
	}

	argv := append([]string{n.name}, args...)
	cmdline := strings.Join(argv, " ")

	var (
		cmd command.Exec
		ok  bool
	)
	if env.Registry != nil {
		cmd, ok = env.Registry.Get(n.name)
	}
	if !ok {
		env.Record(&logger.UnknownCommand{Command: argv})
		return value.Failure(cmdline, newError(CommandError, n.loc, ErrCommandNotFound)), nil
	}

	event := &logger.RunCommand{Command: argv, Builtin: true}
	if ext, isExt := cmd.(*command.External); isExt {
		event.Builtin = false
		event.ResolvedPath, _ = ext.Path()
	}
	env.Record(event)

	v, err := cmd.Exec(env, n.name, args)
	if err == nil {
		return v, nil
	}

	var exit *command.ExitRequest
	if errors.As(err, &exit) {
		return value.Value{}, err
	}
	if errors.Is(err, job.ErrInterrupted) {
		return value.Value{}, newError(Interrupted, n.loc, err)
	}

	loc := n.loc
	var argErr *command.ArgError
	if errors.As(err, &argErr) {
		if argErr.Index >= 0 && argErr.Index < len(locs) {
			loc = locs[argErr.Index]
		}
		env.Record(&logger.InvalidInvocation{Command: argv, Error: err.Error()})
	}
	return value.Failure(cmdline, newError(CommandError, loc, err)), nil
}
