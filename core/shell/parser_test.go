package shell

import (
	"errors"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cristivlas/shmy-sub000/core/command"
	"github.com/cristivlas/shmy-sub000/core/scope"
	"github.com/cristivlas/shmy-sub000/core/value"
)

func testRegistry() *command.Registry {
	reg := command.NewRegistry(afero.NewMemMapFs(), func() string { return "" })
	nop := command.Func(func(*command.Env, string, []string) (value.Value, error) {
		return value.Success(), nil
	})
	reg.Register("echo", nop)
	reg.Register("cp", nop)
	return reg
}

func parseStatements(t *testing.T, input string) []string {
	t.Helper()

	root, err := Parse(input, testRegistry(), scope.New(nil), nil)
	require.Nil(t, err)

	var out []string
	for _, n := range root.Items() {
		out = append(out, n.String())
	}
	return out
}

func TestParse(t *testing.T) {
	cases := map[string]struct {
		input string
		want  []string
	}{
		"precedence":       {"1 - 2 * 2 + 3", []string{"((1 - (2 * 2)) + 3)"}},
		"right assignment": {"i = j = 3", []string{"(i = (j = 3))"}},
		"statements":       {"i = 3; $i", []string{"(i = 3)", "$i"}},
		"trailing semicolon": {"a;", []string{"a"}},
		"comparison chain": {
			"$i == $j && $i == 3 || x",
			[]string{"((($i == $j) && ($i == 3)) || x)"},
		},
		"not":     {"!$x && y", []string{"(!$x && y)"}},
		"command": {"echo a b | x", []string{"({echo a b} | x)"}},
		"command without args": {"cp", []string{"{cp}"}},
		"commands and logic": {
			"echo a && cp x || echo b",
			[]string{"(({echo a} && {cp x}) || {echo b})"},
		},
		"quoted name is not a command": {`"echo" a`, nil},
		"if": {"if $x (a)", []string{"if $x (a)"}},
		"if else": {
			"if ($i < 0) (Apple) else (Orange)",
			[]string{"if (($i < 0)) (Apple) else (Orange)"},
		},
		"if expression": {"if $x > 3 (a)", []string{"if ($x > 3) (a)"}},
		"negated if":    {"if (!(cp)) (123)", []string{"if (!({cp})) (123)"}},
		"for": {
			"for i in a b c; ($i)",
			[]string{"for i in a b c ($i)"},
		},
		"for expressions": {
			"for i in x ($x + 2) (2 - $x * 2) y; ($i)",
			[]string{"for i in x (($x + 2)) ((2 - ($x * 2))) y ($i)"},
		},
		"while": {
			"while ($i > 0) ($i = $i - 1; break)",
			[]string{"while (($i > 0)) (($i = ($i - 1)); break)"},
		},
		"args with expression": {"echo $x + 1", []string{"{echo ($x + 1)}"}},
		"nested group":         {"((a))", []string{"((a))"}},
		"empty group":          {"()", []string{"()"}},
		"erase":                {"$x =", []string{"($x = <empty>)"}},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			if tc.want == nil {
				_, err := Parse(tc.input, testRegistry(), scope.New(nil), nil)
				assert.ErrorIs(t, err, ErrExpressionAfterLiteral)
				return
			}
			assert.Equal(t, tc.want, parseStatements(t, tc.input))
		})
	}
}

func TestParse_errors(t *testing.T) {
	cases := map[string]struct {
		input string
		want  string
	}{
		"unbalanced":            {"(a", "Unbalanced parenthesis"},
		"unmatched close":       {"a)", "Unmatched right parenthesis"},
		"dangling literal":      {"a b", "Dangling expression after literal"},
		"missing left operand":  {"+ 2", "Expecting left-hand term in binary operation"},
		"missing right operand": {"2 +", "Expecting right hand-side expression"},
		"else without if":       {"else fail", "ELSE without IF"},
		"dangling else":         {"if (a) (b) else", "Dangling ELSE"},
		"if without parens":     {"i = 1; if $i true", "Parentheses are required around IF body"},
		"else without parens":   {"if $i (1) else 0", "Parentheses are required around ELSE body"},
		"while without parens":  {"while (1) hello", "Parentheses are required around WHILE body"},
		"for without parens":    {"for i in _; hello", "Parentheses are required around FOR body"},
		"in without for":        {"in a", "IN without FOR"},
		"for without variable":  {"for in a; ()", "Expecting identifier in FOR expression"},
		"for without body":      {"for i in a b", "Expecting FOR body"},
		"if without body":       {"if (a)", "Expecting IF body"},
		"if without condition":  {"if", "Expecting IF condition"},
		"while without body":    {"while (a)", "Expecting WHILE body"},
		"break outside loop":    {"break", "BREAK outside loop"},
		"continue outside loop": {"if (1) (continue)", "CONTINUE outside loop"},
		"empty negation":        {"!", "Empty expression"},
		"lexer error":           {"a & b", "Unrecognized token"},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			_, err := Parse(tc.input, testRegistry(), scope.New(nil), nil)

			require.NotNil(t, err)
			assert.Equal(t, tc.want, err.Error())

			var serr *Error
			require.True(t, errors.As(err, &serr))
			if !strings.HasPrefix(tn, "lexer") {
				assert.Equal(t, ParseError, serr.Kind)
			}
		})
	}
}

func TestParse_breakInLoop(t *testing.T) {
	for _, input := range []string{
		"while (1) (break)",
		"while (1) (if (1) (continue))",
		"for i in a; (if ($i) (break))",
	} {
		_, err := Parse(input, testRegistry(), scope.New(nil), nil)
		assert.Nil(t, err, input)
	}
}

func TestParse_numericSplitUsesScope(t *testing.T) {
	sc := scope.New(nil)
	sc.Insert("i", value.Int(5))

	root, err := Parse("$i-1", testRegistry(), sc, nil)

	require.Nil(t, err)
	assert.Equal(t, "($i - 1)", root.Items()[0].String())
}
