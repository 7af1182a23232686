//go:build !windows

package command

import (
	iofs "io/fs"
)

const pathSeparators = "/"

func isExecutable(_ string, m iofs.FileMode) bool {
	return m&0111 != 0
}

func candidates(file string) []string {
	return []string{file}
}
