// Package repl implements the interactive loop of the shell.
package repl

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/abiosoft/readline"
	"github.com/fatih/color"

	"github.com/cristivlas/shmy-sub000/core/command"
	"github.com/cristivlas/shmy-sub000/core/shell"
)

// DefaultPrompt is used when the configuration doesn't set one.
const DefaultPrompt = "{cwd}> "

// LineReader reads edited input lines, *readline.Instance implements it.
type LineReader interface {
	SetPrompt(prompt string)
	Readline() (string, error)
}

// Options configure the loop.
type Options struct {
	// Prompt is shown before every line, {cwd} is replaced by the working
	// directory with the home directory shortened to ~.
	Prompt string
	// HistoryPath is where the history is kept, empty disables it.
	HistoryPath string
	HistorySize int
	// Color enables colored prompts and error carets.
	Color bool
}

var (
	colorPrompt = color.New(color.FgGreen, color.Bold)
	colorError  = color.New(color.FgRed)
)

// REPL reads lines and evaluates them until exit or end of input.
type REPL struct {
	interp *shell.Interp
	line   LineReader
	opts   Options
	getwd  func() (string, error)
}

// New creates a REPL reading from the terminal.
func New(interp *shell.Interp, opts Options) (*REPL, *readline.Instance, error) {
	env := interp.Env()
	cfg := &readline.Config{
		HistoryFile:     opts.HistoryPath,
		HistoryLimit:    opts.HistorySize,
		AutoComplete:    &Completer{Env: env},
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	}
	if opts.HistorySize == 0 {
		cfg.HistoryFile = ""
		cfg.HistoryLimit = -1
	}

	rl, err := readline.NewEx(cfg)
	if err != nil {
		return nil, nil, err
	}
	return NewWithReader(interp, rl, opts), rl, nil
}

// NewWithReader creates a REPL reading lines from line.
func NewWithReader(interp *shell.Interp, line LineReader, opts Options) *REPL {
	if opts.Prompt == "" {
		opts.Prompt = DefaultPrompt
	}
	return &REPL{interp: interp, line: line, opts: opts, getwd: os.Getwd}
}

// Prompt renders the prompt for the next line.
func (r *REPL) Prompt() string {
	wd, err := r.getwd()
	if err != nil {
		wd = "?"
	}
	if home := r.interp.Env().Getenv("HOME"); home != "" {
		if rel, err := filepath.Rel(home, wd); err == nil && !strings.HasPrefix(rel, "..") {
			wd = filepath.Join("~", rel)
		}
	}

	prompt := strings.ReplaceAll(r.opts.Prompt, "{cwd}", wd)
	if r.opts.Color {
		colorPrompt.EnableColor()
		return colorPrompt.Sprint(prompt)
	}
	return prompt
}

// Run evaluates lines until the input ends or exit is called. The exit
// code requested by exit is returned.
func (r *REPL) Run() (int, error) {
	env := r.interp.Env()
	for {
		r.line.SetPrompt(r.Prompt())
		line, err := r.line.Readline()

		switch {
		case err == io.EOF:
			return 0, nil // Input closed, quit.

		case err == readline.ErrInterrupt:
			fmt.Fprintln(env.Stderr, `Type "exit" or "quit" to leave the shell.`)
			continue

		case err != nil:
			return 0, err

		case strings.TrimSpace(line) == "":
			continue // empty line
		}

		if env.Interrupt != nil {
			env.Interrupt.Clear()
		}
		if exit := r.Eval(line); exit != nil {
			return exit.Code, nil
		}
	}
}

// Eval evaluates one line and reports errors on stderr. It returns the
// request of an exit command.
func (r *REPL) Eval(line string) *command.ExitRequest {
	_, err := r.interp.Eval(line)
	if err == nil {
		return nil
	}

	var exit *command.ExitRequest
	if errors.As(err, &exit) {
		return exit
	}
	ShowError(r.interp.Env().Stderr, line, err, r.opts.Color)
	return nil
}

// ShowError prints err, pointing at the offending input when it knows the
// location.
func ShowError(w io.Writer, input string, err error, useColor bool) {
	prev := color.NoColor
	color.NoColor = !useColor
	defer func() { color.NoColor = prev }()

	var serr *shell.Error
	if errors.As(err, &serr) {
		serr.Show(w, input)
		return
	}
	fmt.Fprintln(w, colorError.Sprint(err))
}
