package shell

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/cristivlas/shmy-sub000/core/scope"
)

var backref = regexp.MustCompile(`\\(\d+)`)

// Substitute expands $NAME, ${NAME} and ${NAME/regex/replacement} using the
// variables visible from sc. References to undefined variables are replaced
// with $NAME.
func Substitute(sc *scope.Scope, text string) (string, error) {
	if !strings.Contains(text, "$") {
		return text, nil
	}

	var sb strings.Builder
	for i := 0; i < len(text); {
		if text[i] != '$' || i+1 == len(text) {
			sb.WriteByte(text[i])
			i++
			continue
		}

		if text[i+1] == '{' {
			end := closingBrace(text, i+2)
			if end < 0 {
				sb.WriteString(text[i:])
				break
			}
			out, err := expandBraced(sc, text[i+2:end])
			if err != nil {
				return "", err
			}
			sb.WriteString(out)
			i = end + 1
			continue
		}

		name := varName(text[i+1:])
		if name == "" {
			sb.WriteByte('$')
			i++
			continue
		}
		sb.WriteString(lookup(sc, name))
		i += 1 + len(name)
	}
	return sb.String(), nil
}

// varName returns the variable name at the start of s: an identifier, a
// positional argument, or one of # and @.
func varName(s string) string {
	if s == "" {
		return ""
	}
	switch c := rune(s[0]); {
	case c == '#' || c == '@':
		return s[:1]
	case unicode.IsDigit(c):
		n := 1
		for n < len(s) && unicode.IsDigit(rune(s[n])) {
			n++
		}
		return s[:n]
	case c == '_' || unicode.IsLetter(c):
		n := 1
		for n < len(s) && (s[n] == '_' || unicode.IsLetter(rune(s[n])) || unicode.IsDigit(rune(s[n]))) {
			n++
		}
		return s[:n]
	}
	return ""
}

func lookup(sc *scope.Scope, name string) string {
	if sc != nil {
		if v, ok := sc.LookupValue(name); ok {
			return v.String()
		}
	}
	return "$" + name
}

func closingBrace(text string, from int) int {
	depth := 1
	for i := from; i < len(text); i++ {
		switch text[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// expandBraced handles the inside of ${...}.
func expandBraced(sc *scope.Scope, inner string) (string, error) {
	name := varName(inner)
	rest := inner[len(name):]
	if name == "" || (rest != "" && rest[0] != '/') {
		return "${" + inner + "}", nil
	}

	val := lookup(sc, name)
	if rest == "" || sc == nil {
		return val, nil
	}
	if _, ok := sc.LookupValue(name); !ok {
		return val, nil
	}

	pattern, repl := splitReplace(rest[1:])
	re, err := regexp.Compile(pattern)
	if err != nil {
		return "", fmt.Errorf("Invalid regular expression %q: %w", pattern, err)
	}

	repl, err = Substitute(sc, repl)
	if err != nil {
		return "", err
	}
	repl = strings.ReplaceAll(repl, "$", "$$")
	repl = backref.ReplaceAllString(repl, "$${$1}")

	return re.ReplaceAllString(val, repl), nil
}

// splitReplace splits "regex/replacement" at the first slash that isn't
// escaped.
func splitReplace(s string) (pattern, repl string) {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '/':
			return strings.ReplaceAll(s[:i], `\/`, "/"), s[i+1:]
		}
	}
	return s, ""
}
