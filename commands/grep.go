package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"regexp"

	"github.com/cristivlas/shmy-sub000/core/command"
	"github.com/cristivlas/shmy-sub000/core/value"
)

// Grep implements the POSIX grep command.
//
// https://pubs.opengroup.org/onlinepubs/9699919799.2018edition/
func Grep() *SimpleCommand {
	cmd := &SimpleCommand{
		Use:   "grep [-inv] PATTERN [FILE]...",
		Short: "Search files for text matching a pattern.",
	}

	invert := cmd.Bool('v', "", "Select lines not matching any of the specified patterns.")
	ignoreCase := cmd.Bool('i', "", "Perform pattern matching in searches without regard to case.")
	showLineNumbers := cmd.Bool('n', "", "Show line numbers.")

	cmd.Action = func(env *command.Env, args []string) (value.Value, error) {
		if len(args) == 0 {
			return value.Value{}, errors.New("missing argument PATTERN")
		}

		pattern := args[0]
		if *ignoreCase {
			pattern = "(?i)" + pattern
		}
		regex, err := regexp.Compile(pattern)
		if err != nil {
			return value.Value{}, &command.ArgError{Index: 0, Err: err}
		}

		files := args[1:]
		showFileName := len(files) > 1
		search := func(name string, fd io.Reader) error {
			scanner := bufio.NewScanner(fd)
			for lineNo := 1; scanner.Scan(); lineNo++ {
				line := scanner.Bytes()
				if regex.Match(line) == *invert {
					continue
				}
				if showFileName {
					fmt.Fprintf(env.Stdout, "%s:", name)
				}
				if *showLineNumbers {
					fmt.Fprintf(env.Stdout, "%d:", lineNo)
				}
				fmt.Fprintf(env.Stdout, "%s\n", line)
			}
			return scanner.Err()
		}

		if len(files) == 0 {
			files = []string{"-"}
		}
		v, err := eachArg(func(env *command.Env, name string) error {
			if name == "-" {
				return search(name, env.Stdin)
			}
			fd, err := env.FS.Open(name)
			if err != nil {
				return err
			}
			defer fd.Close()
			return search(name, fd)
		})(env, files)

		var argErr *command.ArgError
		if errors.As(err, &argErr) {
			argErr.Index++
		}
		return v, err
	}
	return cmd
}

func init() {
	addBuiltin(Grep, "grep")
}
