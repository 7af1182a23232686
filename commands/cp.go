package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/cristivlas/shmy-sub000/core/command"
	"github.com/cristivlas/shmy-sub000/core/value"
)

type copier struct {
	fs        afero.Fs
	recursive bool
	noClobber bool
	// log receives a line per copied file when set.
	log io.Writer
}

func (c *copier) copyPath(src, dst string) error {
	info, err := c.fs.Stat(src)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return c.copyFile(src, dst, info.Mode())
	}
	if !c.recursive {
		return fmt.Errorf("%s: is a directory (not copied)", src)
	}

	return afero.Walk(c.fs, src, func(path string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if fi.IsDir() {
			return c.fs.MkdirAll(target, fi.Mode().Perm()|0700)
		}
		return c.copyFile(path, target, fi.Mode())
	})
}

func (c *copier) copyFile(src, dst string, mode os.FileMode) error {
	if c.noClobber {
		if _, err := c.fs.Stat(dst); err == nil {
			return nil
		}
	}

	in, err := c.fs.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := c.fs.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode.Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}

	if c.log != nil {
		fmt.Fprintf(c.log, "'%s' -> '%s'\n", src, dst)
	}
	return nil
}

// Cp copies files, and directories with -r.
func Cp() *SimpleCommand {
	cmd := &SimpleCommand{
		Use:   "cp [OPTION...] SOURCE... DEST",
		Short: "Copy SOURCE to DEST, or multiple SOURCE(s) to directory DEST.",
	}

	recursive := cmd.Bool('r', "recursive", "copy directories recursively")
	noClobber := cmd.Bool('n', "no-clobber", "do not overwrite an existing file")
	verbose := cmd.Bool('v', "verbose", "explain what is being done")

	cmd.Action = func(env *command.Env, args []string) (value.Value, error) {
		switch len(args) {
		case 0:
			return value.Value{}, errors.New("Missing source and destination")
		case 1:
			return value.Value{}, errors.New("Missing destination")
		}

		c := &copier{fs: env.FS, recursive: *recursive, noClobber: *noClobber}
		if *verbose {
			c.log = env.Stdout
		}

		last := len(args) - 1
		srcs, dest := args[:last], args[last]

		info, err := env.FS.Stat(dest)
		destIsDir := err == nil && info.IsDir()
		if len(srcs) > 1 && !destIsDir {
			return value.Value{}, &command.ArgError{Index: last, Err: fmt.Errorf("%s: not a directory", dest)}
		}

		for i, src := range srcs {
			target := dest
			if destIsDir {
				target = filepath.Join(dest, filepath.Base(src))
			}
			if err := c.copyPath(src, target); err != nil {
				return value.Value{}, &command.ArgError{Index: i, Err: err}
			}
		}
		return value.Success(), nil
	}
	return cmd
}

func init() {
	addBuiltin(Cp, "cp")
}
