package command

import (
	"errors"
	iofs "io/fs"
	"os/exec"
	"path/filepath"

	"github.com/spf13/afero"
)

// ErrNotFound is the error resulting if a path search failed to find an executable file.
var ErrNotFound = exec.ErrNotFound

func findExecutable(fs afero.Fs, file string) error {
	d, err := fs.Stat(file)
	switch {
	case errors.Is(err, iofs.ErrNotExist):
		return ErrNotFound
	case err != nil:
		return err
	}
	if m := d.Mode(); !m.IsDir() && isExecutable(file, m) {
		return nil
	}
	return iofs.ErrPermission
}

func findCandidate(fs afero.Fs, file string) (string, error) {
	var firstErr error
	for _, candidate := range candidates(file) {
		err := findExecutable(fs, candidate)
		if err == nil {
			return candidate, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return "", firstErr
}

// LookPath searches for an executable named file in the directories of
// pathList. If file contains a path separator, it is tried directly and the
// list is not consulted. The result may be an absolute path or a path
// relative to the current directory.
func LookPath(fs afero.Fs, pathList, file string) (string, error) {
	if isPathLike(file) {
		return findCandidate(fs, file)
	}

	for _, dir := range filepath.SplitList(pathList) {
		if dir == "" {
			// Unix shell semantics: path element "" means "."
			dir = "."
		}
		if path, err := findCandidate(fs, filepath.Join(dir, file)); err == nil {
			return path, nil
		}
	}
	return "", ErrNotFound
}
