package commands

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	getopt "github.com/pborman/getopt/v2"

	"github.com/cristivlas/shmy-sub000/core/command"
	"github.com/cristivlas/shmy-sub000/core/value"
)

// Builtin is a command that runs inside the shell process.
type Builtin struct {
	Names []string
	// New creates a fresh instance for each invocation.
	New func() *SimpleCommand
}

var _ command.Exec = (*Builtin)(nil)
var _ command.FlagLister = (*Builtin)(nil)

// Exec implements command.Exec.
func (b *Builtin) Exec(env *command.Env, name string, args []string) (value.Value, error) {
	return b.New().Run(env, name, args)
}

// Flags implements command.FlagLister.
func (b *Builtin) Flags() []command.Flag {
	cmd := b.New()
	cmd.addHelp()
	return cmd.known
}

var allBuiltins []*Builtin

// addBuiltin registers a builtin under one or more names.
func addBuiltin(newCmd func() *SimpleCommand, names ...string) {
	allBuiltins = append(allBuiltins, &Builtin{Names: names, New: newCmd})
}

// ListBuiltinCommands returns every builtin sorted by its first name.
func ListBuiltinCommands() []*Builtin {
	out := append([]*Builtin(nil), allBuiltins...)
	sort.Slice(out, func(i, j int) bool {
		return out[i].Names[0] < out[j].Names[0]
	})
	return out
}

// Install registers the builtins and the default aliases.
func Install(reg *command.Registry) {
	for _, b := range allBuiltins {
		for _, name := range b.Names {
			reg.Register(name, b)
		}
	}
	installDefaultAliases(reg)
}

type SimpleCommand struct {
	// Use holds a one line usage string
	Use string
	// Short holds a one line description of the command.
	Short string
	// Long is printed after the flags in the help.
	Long string
	// ShowHelp sets whether help is displayed or not.
	// If this is non-nil when Run() is called, then the default help flag isn't
	// added.
	ShowHelp *bool
	// Relaxed treats the first unknown flag as the start of the operands
	// instead of failing, for commands that pass arguments on.
	Relaxed bool
	// Action is called with the operands once the flags are parsed. Argument
	// errors it returns are indexed from the first operand.
	Action func(env *command.Env, args []string) (value.Value, error)

	flags *getopt.Set
	known []command.Flag
	name  string
}

// Name returns the name the command was invoked as.
func (s *SimpleCommand) Name() string {
	return s.name
}

// Flags gets the command's flag set.
func (s *SimpleCommand) Flags() *getopt.Set {
	if s.flags == nil {
		s.flags = getopt.New()
	}

	return s.flags
}

// Bool declares a flag without a value. long may be empty.
func (s *SimpleCommand) Bool(short rune, long, help string) *bool {
	s.known = append(s.known, command.Flag{Short: short, Long: long, Help: help})
	if long == "" {
		return s.Flags().Bool(short, help)
	}
	return s.Flags().BoolLong(long, short, help)
}

// String declares a flag that takes a value.
func (s *SimpleCommand) String(short rune, long, def, help string) *string {
	s.known = append(s.known, command.Flag{Short: short, Long: long, Help: help, TakesValue: true})
	if long == "" {
		return s.Flags().String(short, def, help)
	}
	return s.Flags().StringLong(long, short, def, help)
}

// PrintHelp writes help for the command to the given writer.
func (s *SimpleCommand) PrintHelp(w io.Writer) {
	fmt.Fprint(w, "usage: ")
	fmt.Fprintln(w, s.Use)
	fmt.Fprintln(w, s.Short)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	s.Flags().PrintOptions(w)
	if s.Long != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, strings.TrimSpace(s.Long))
	}
}

func (s *SimpleCommand) addHelp() {
	// Add help flag if not overridden.
	if s.ShowHelp == nil {
		s.ShowHelp = s.Bool('h', "help", "show this help and exit")
	}
}

// Run parses the flags in args and, unless help was requested, calls the
// action with the remaining operands.
func (s *SimpleCommand) Run(env *command.Env, name string, args []string) (value.Value, error) {
	s.addHelp()
	s.name = name

	n, err := s.scan(args)
	if err != nil {
		return value.Value{}, err
	}

	opts := s.Flags()
	opts.SetProgram(name)
	if err := opts.Getopt(append([]string{name}, args[:n]...), nil); err != nil {
		return value.Value{}, &command.ArgError{Index: 0, Err: err}
	}

	if *s.ShowHelp {
		s.PrintHelp(env.Stdout)
		return value.Success(), nil
	}

	operands := append(append([]string(nil), opts.Args()...), args[n:]...)
	if s.Action == nil {
		return value.Success(), nil
	}

	v, err := s.Action(env, operands)
	if argErr, ok := err.(*command.ArgError); ok {
		return v, &command.ArgError{Index: argErr.Index + len(args) - len(operands), Err: argErr.Err}
	}
	return v, err
}

// scan finds how many leading arguments are flags or flag values. Parsing
// stops at the first operand, a lone "-", a number or "--".
func (s *SimpleCommand) scan(args []string) (int, error) {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--":
			return i + 1, nil

		case arg == "-" || !strings.HasPrefix(arg, "-") || value.IsNumeric(arg):
			return i, nil

		case strings.HasPrefix(arg, "--"):
			name := arg[2:]
			attached := false
			if eq := strings.IndexByte(name, '='); eq >= 0 {
				name, attached = name[:eq], true
			}
			f, ok := s.lookupLong(name)
			if !ok {
				if s.Relaxed {
					return i, nil
				}
				return 0, &command.ArgError{Index: i, Err: fmt.Errorf("Unknown flag: %s", arg)}
			}
			if f.TakesValue && !attached {
				if i+1 >= len(args) {
					return 0, &command.ArgError{Index: i, Err: fmt.Errorf("Flag --%s requires a value", name)}
				}
				i++
			}

		default:
			short := arg[1:]
			for j, r := range short {
				f, ok := s.lookupShort(r)
				if !ok {
					if s.Relaxed {
						return i, nil
					}
					return 0, &command.ArgError{Index: i, Err: fmt.Errorf("Unknown flag: -%c", r)}
				}
				if !f.TakesValue {
					continue
				}
				if j+utf8.RuneLen(r) == len(short) {
					if i+1 >= len(args) {
						return 0, &command.ArgError{Index: i, Err: fmt.Errorf("Flag -%c requires a value", r)}
					}
					i++
				}
				break
			}
		}
	}
	return len(args), nil
}

func (s *SimpleCommand) lookupLong(name string) (command.Flag, bool) {
	for _, f := range s.known {
		if f.Long != "" && f.Long == name {
			return f, true
		}
	}
	return command.Flag{}, false
}

func (s *SimpleCommand) lookupShort(r rune) (command.Flag, bool) {
	for _, f := range s.known {
		if f.Short != 0 && f.Short == r {
			return f, true
		}
	}
	return command.Flag{}, false
}

// eachArg builds an action that calls fn on every operand and stops at the
// first failure, pointing the error at that operand.
func eachArg(fn func(env *command.Env, arg string) error) func(*command.Env, []string) (value.Value, error) {
	return func(env *command.Env, args []string) (value.Value, error) {
		for i, arg := range args {
			if err := fn(env, arg); err != nil {
				return value.Value{}, &command.ArgError{Index: i, Err: err}
			}
		}
		return value.Success(), nil
	}
}

const (
	colorAlways = "always"
	colorAuto   = "auto"
	colorNever  = "never"
)

var (
	ColorBoldBlue  = color.New(color.FgBlue, color.Bold)
	ColorBoldGreen = color.New(color.FgGreen, color.Bold)
	ColorBoldCyan  = color.New(color.FgCyan, color.Bold)
	ColorBoldRed   = color.New(color.FgRed, color.Bold)
)

type ColorPrinter struct {
	value *string
	env   *command.Env
}

// Init sets up the flag and environment to determine the color output.
func (c *ColorPrinter) Init(cmd *SimpleCommand) {
	cmd.known = append(cmd.known, command.Flag{Long: "color", Help: "colorize the output (always|auto|never)", TakesValue: true})
	c.value = cmd.Flags().EnumLong(
		"color",
		rune(0), // No short flag.
		[]string{colorAlways, colorAuto, colorNever},
		colorAuto,
		"colorize the output (always|auto|never)")
}

// Bind attaches the environment the output goes to.
func (c *ColorPrinter) Bind(env *command.Env) {
	c.env = env
}

func (c *ColorPrinter) ShouldColor() bool {
	switch {
	case *c.value == colorNever:
		return false
	case *c.value == colorAlways:
		return true
	default:
		return UseColors(c.env, c.env.Stdout)
	}
}

func (c *ColorPrinter) Sprintf(color *color.Color, format string, a ...interface{}) string {
	if c.ShouldColor() {
		// The package level switch may be off when stdout isn't a terminal.
		color.EnableColor()
		return color.Sprintf(format, a...)
	}
	return fmt.Sprintf(format, a...)
}

// UseColors reports whether w is a terminal and NO_COLOR isn't set.
func UseColors(env *command.Env, w io.Writer) bool {
	if env != nil && env.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
