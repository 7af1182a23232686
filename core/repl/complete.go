package repl

import (
	"path"
	"sort"
	"strings"

	"github.com/spf13/afero"

	"github.com/cristivlas/shmy-sub000/core/command"
)

var keywords = []string{"break", "continue", "else", "for", "if", "in", "while"}

// Completer completes command names, flags of the command being typed and
// paths.
type Completer struct {
	Env *command.Env
}

// Do implements readline.AutoCompleter. It returns the text that can follow
// the word under the cursor and the length of that word.
func (c *Completer) Do(line []rune, pos int) ([][]rune, int) {
	before := string(line[:pos])
	start := strings.LastIndexAny(before, " \t(;|&") + 1
	word := before[start:]

	var candidates []string
	switch {
	case c.isCommandPosition(before[:start]):
		candidates = c.commandNames(word)
	case strings.HasPrefix(word, "-"):
		candidates = c.flags(before[:start], word)
	default:
		candidates = c.paths(word)
	}

	out := make([][]rune, 0, len(candidates))
	for _, cand := range candidates {
		out = append(out, []rune(strings.TrimPrefix(cand, word)))
	}
	return out, len([]rune(word))
}

// isCommandPosition reports whether a word starting after prefix names a
// command.
func (c *Completer) isCommandPosition(prefix string) bool {
	trimmed := strings.TrimRight(prefix, " \t")
	return trimmed == "" || strings.ContainsAny(trimmed[len(trimmed)-1:], "(;|&")
}

func (c *Completer) commandNames(word string) []string {
	var out []string
	names := append(c.Env.Registry.Names(), keywords...)
	sort.Strings(names)
	for _, name := range names {
		if strings.HasPrefix(name, word) && name != word {
			out = append(out, name+" ")
		}
	}
	return out
}

// flags completes the options of the command the current statement starts
// with.
func (c *Completer) flags(prefix, word string) []string {
	stmt := prefix[strings.LastIndexAny(prefix, "(;|&")+1:]
	fields := strings.Fields(stmt)
	if len(fields) == 0 {
		return nil
	}
	cmd, ok := c.Env.Registry.Lookup(fields[0])
	if !ok {
		return nil
	}
	lister, ok := cmd.(command.FlagLister)
	if !ok {
		return nil
	}

	var out []string
	for _, f := range lister.Flags() {
		for _, name := range flagNames(f) {
			if strings.HasPrefix(name, word) && name != word {
				out = append(out, name+" ")
			}
		}
	}
	sort.Strings(out)
	return out
}

func flagNames(f command.Flag) []string {
	var out []string
	if f.Long != "" {
		out = append(out, "--"+f.Long)
	}
	if f.Short != 0 {
		out = append(out, "-"+string(f.Short))
	}
	return out
}

// paths completes file names. Directories get a trailing slash.
func (c *Completer) paths(word string) []string {
	expanded := word
	home := c.Env.Getenv("HOME")
	if strings.HasPrefix(word, "~/") && home != "" {
		expanded = home + word[1:]
	}

	dir, base := path.Split(expanded)
	readDir := dir
	if readDir == "" {
		readDir = "."
	}
	infos, err := afero.ReadDir(c.Env.FS, readDir)
	if err != nil {
		return nil
	}

	var out []string
	for _, info := range infos {
		name := info.Name()
		if !strings.HasPrefix(name, base) || (base == "" && strings.HasPrefix(name, ".")) {
			continue
		}
		full := word[:len(word)-len(base)] + name
		if info.IsDir() {
			full += "/"
		}
		out = append(out, full)
	}
	return out
}
