package command

import (
	iofs "io/fs"
	"os"
	"path/filepath"
	"strings"
)

const pathSeparators = `/\:`

func pathExts() []string {
	exts := os.Getenv("PATHEXT")
	if exts == "" {
		return []string{".com", ".exe", ".bat", ".cmd"}
	}
	var out []string
	for _, e := range strings.Split(strings.ToLower(exts), ";") {
		if e == "" {
			continue
		}
		if e[0] != '.' {
			e = "." + e
		}
		out = append(out, e)
	}
	return out
}

func hasExecExt(file string) bool {
	ext := strings.ToLower(filepath.Ext(file))
	if ext == "" {
		return false
	}
	for _, e := range pathExts() {
		if e == ext {
			return true
		}
	}
	return false
}

func isExecutable(file string, _ iofs.FileMode) bool {
	return hasExecExt(file)
}

func candidates(file string) []string {
	if hasExecExt(file) {
		return []string{file}
	}
	out := []string{file}
	for _, e := range pathExts() {
		out = append(out, file+e)
	}
	return out
}
