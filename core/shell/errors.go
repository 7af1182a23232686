package shell

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// ErrorKind classifies errors by the stage that produced them.
type ErrorKind int

const (
	LexError ErrorKind = iota
	ParseError
	EvalError
	CommandError
	Interrupted
)

func (k ErrorKind) String() string {
	switch k {
	case LexError:
		return "lex error"
	case ParseError:
		return "parse error"
	case EvalError:
		return "eval error"
	case CommandError:
		return "command error"
	case Interrupted:
		return "interrupted"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

var (
	ErrUnrecognizedToken          = errors.New("Unrecognized token")
	ErrUnbalancedQuotes           = errors.New("Unbalanced quotes")
	ErrUnmatchedParenthesis       = errors.New("Unbalanced parenthesis")
	ErrUnmatchedClosedParenthesis = errors.New("Unmatched right parenthesis")
	ErrEmptyExpression            = errors.New("Empty expression")
	ErrExpressionAfterLiteral     = errors.New("Dangling expression after literal")
	ErrCommandNotFound            = errors.New("command not found")
)

// Error is an error attached to a location in the input.
type Error struct {
	Kind ErrorKind
	Loc  Location
	Err  error
}

func (e *Error) Error() string {
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind ErrorKind, loc Location, err error) *Error {
	return &Error{Kind: kind, Loc: loc, Err: err}
}

func errorf(kind ErrorKind, loc Location, format string, a ...interface{}) *Error {
	return newError(kind, loc, fmt.Errorf(format, a...))
}

var (
	colorErrorLine = color.New(color.FgCyan)
	colorCaret     = color.New(color.FgRed, color.Bold)
)

// Show writes the line of input the error refers to with a caret under the
// offending column.
func (e *Error) Show(w io.Writer, input string) {
	lines := strings.Split(input, "\n")
	line := ""
	if e.Loc.Line >= 1 && e.Loc.Line <= len(lines) {
		line = lines[e.Loc.Line-1]
	}

	fmt.Fprintf(w, "Error at line %d, column %d:\n", e.Loc.Line, e.Loc.Col+1)
	colorErrorLine.Fprintln(w, line)
	colorCaret.Fprintln(w, strings.Repeat("-", e.Loc.Col)+"^")
	fmt.Fprintln(w, e.Err)
}
