package commands

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/cristivlas/shmy-sub000/core/command"
	"github.com/cristivlas/shmy-sub000/core/value"
)

// HookChangeDir fires after the working directory changes.
const HookChangeDir = "change_dir"

var dirStack struct {
	sync.Mutex
	dirs []string
}

func chdir(env *command.Env, dir string) error {
	info, err := env.FS.Stat(dir)
	if err != nil {
		return fmt.Errorf("Change dir to %q: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("Change dir to %q: not a directory", dir)
	}
	if err := os.Chdir(dir); err != nil {
		return fmt.Errorf("Change dir to %q: %w", dir, err)
	}

	env.RunHook(HookChangeDir, dir)
	return nil
}

// Cd changes the working directory of the shell, HOME by default.
func Cd() *SimpleCommand {
	cmd := &SimpleCommand{
		Use:   "cd [DIR]",
		Short: "Change the current directory to DIR.",
	}

	cmd.Action = func(env *command.Env, args []string) (value.Value, error) {
		dir := env.Getenv("HOME")
		if len(args) > 0 {
			dir = strings.Join(args, " ")
		}
		if err := chdir(env, dir); err != nil {
			return value.Value{}, &command.ArgError{Index: 0, Err: err}
		}
		return value.Success(), nil
	}
	return cmd
}

// Pushd saves the working directory on a stack and changes to DIR.
func Pushd() *SimpleCommand {
	cmd := &SimpleCommand{
		Use:   "pushd DIR",
		Short: "Push the current directory onto the stack and change to DIR.",
	}

	cmd.Action = func(env *command.Env, args []string) (value.Value, error) {
		if len(args) == 0 {
			return value.Value{}, errors.New("no directory specified")
		}
		wd, err := os.Getwd()
		if err != nil {
			return value.Value{}, err
		}
		if err := chdir(env, strings.Join(args, " ")); err != nil {
			return value.Value{}, &command.ArgError{Index: 0, Err: err}
		}

		dirStack.Lock()
		defer dirStack.Unlock()
		dirStack.dirs = append(dirStack.dirs, wd)
		return value.Success(), nil
	}
	return cmd
}

// Popd returns to the directory saved by the last pushd.
func Popd() *SimpleCommand {
	cmd := &SimpleCommand{
		Use:   "popd",
		Short: "Pop the top directory from the stack and change to it.",
	}

	cmd.Action = func(env *command.Env, args []string) (value.Value, error) {
		dirStack.Lock()
		defer dirStack.Unlock()

		n := len(dirStack.dirs)
		if n == 0 {
			return value.Value{}, errors.New("directory stack empty")
		}
		if err := chdir(env, dirStack.dirs[n-1]); err != nil {
			return value.Value{}, err
		}
		dirStack.dirs = dirStack.dirs[:n-1]
		return value.Success(), nil
	}
	return cmd
}

// Pwd implements the UNIX pwd command.
func Pwd() *SimpleCommand {
	cmd := &SimpleCommand{
		Use:   "pwd",
		Short: "Print the name of the current working directory.",
	}

	cmd.Action = func(env *command.Env, args []string) (value.Value, error) {
		wd, err := os.Getwd()
		if err != nil {
			return value.Value{}, err
		}
		fmt.Fprintln(env.Stdout, wd)
		return value.Success(), nil
	}
	return cmd
}

func init() {
	addBuiltin(Cd, "cd", "chdir")
	addBuiltin(Pushd, "pushd")
	addBuiltin(Popd, "popd")
	addBuiltin(Pwd, "pwd")
}
