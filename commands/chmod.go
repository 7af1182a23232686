package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"

	"github.com/cristivlas/shmy-sub000/core/command"
	"github.com/cristivlas/shmy-sub000/core/value"
)

const (
	ModeMaskUser  fs.FileMode = 0700
	ModeMaskGroup             = 0070
	ModeMaskOther             = 0007
	ModeMaskAll               = ModeMaskUser | ModeMaskGroup | ModeMaskOther

	ModeRead  fs.FileMode = 0444
	ModeWrite             = 0222
	ModeExec              = 0111

	ChmodMask = ModeMaskAll
)

func blendChmod(origValue, newValue fs.FileMode) fs.FileMode {
	return (origValue &^ ChmodMask) | (newValue & ChmodMask)
}

func ChmodApplyMode(mode string, orig fs.FileMode) (fs.FileMode, error) {

	// If mode is an octal integer, the value is absolute
	if octalMode, err := strconv.ParseUint(mode, 8, 32); err == nil {
		return blendChmod(orig, fs.FileMode(octalMode)), nil
	}

	var who fs.FileMode
	var apply fs.FileMode
	var action func(orig, who, apply fs.FileMode) fs.FileMode

	// This is a simplified algorithm that doesn't handle the full grammar or
	// semantics but should be good enough to pass a sniff test.
	for _, modeChar := range mode {
		switch modeChar {
		// Mask groups
		case 'a':
			who |= ModeMaskAll
		case 'u':
			who |= ModeMaskUser
		case 'g':
			who |= ModeMaskGroup
		case 'o':
			who |= ModeMaskOther
		case '+':
			action = func(orig, who, apply fs.FileMode) fs.FileMode {
				return blendChmod(orig, orig|(apply&who))
			}
		case '=':
			action = func(orig, who, apply fs.FileMode) fs.FileMode {
				return blendChmod(orig, (apply & who))
			}
		case '-':
			action = func(orig, who, apply fs.FileMode) fs.FileMode {
				return blendChmod(orig, orig & ^(apply&who))
			}
		case 'r':
			apply |= ModeRead
		case 'w':
			apply |= ModeWrite
		case 'x':
			apply |= ModeExec
		case 'X':
			if (who&ModeExec) > 0 || (orig&fs.ModeDir) > 0 {
				apply |= ModeExec
			}
		case 's', 't':
			// Not implemented
		default:
			return orig, fmt.Errorf("unknown symbol %q", modeChar)
		}
	}

	if action == nil {
		return orig, errors.New("no action provided")
	}

	if who == 0 {
		who = ModeMaskAll
	}

	return action(orig, who, apply), nil
}

// Chmod implements a POSIX chmod command.
func Chmod() *SimpleCommand {
	cmd := &SimpleCommand{
		Use:   "chmod MODE FILE...",
		Short: "Change the mode of each FILE to MODE.",
		// Symbolic modes such as -w look like flags.
		Relaxed: true,
	}

	cmd.Action = func(env *command.Env, args []string) (value.Value, error) {
		if len(args) < 2 {
			return value.Value{}, errors.New("not enough arguments")
		}

		modeExpr := args[0]
		v, err := eachArg(func(env *command.Env, path string) error {
			stat, err := env.FS.Stat(path)
			if err != nil {
				return fmt.Errorf("couldn't stat %s: %w", path, err)
			}

			newMode, err := ChmodApplyMode(modeExpr, stat.Mode())
			if err != nil {
				return err
			}

			if err := env.FS.Chmod(path, newMode); err != nil {
				return fmt.Errorf("couldn't update %s: %w", path, err)
			}
			return nil
		})(env, args[1:])

		var argErr *command.ArgError
		if errors.As(err, &argErr) {
			argErr.Index++
		}
		return v, err
	}
	return cmd
}

func init() {
	addBuiltin(Chmod, "chmod")
}
