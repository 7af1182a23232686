package commands

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cristivlas/shmy-sub000/core/command"
	"github.com/cristivlas/shmy-sub000/core/job"
	"github.com/cristivlas/shmy-sub000/core/scope"
	"github.com/cristivlas/shmy-sub000/core/shell"
	"github.com/cristivlas/shmy-sub000/core/value"
)

// newTestShell creates an interpreter with the builtins installed, an in
// memory filesystem and no PATH.
func newTestShell() (*shell.Interp, *bytes.Buffer) {
	fs := afero.NewMemMapFs()
	reg := command.NewRegistry(fs, func() string { return "" })
	Install(reg)

	out := &bytes.Buffer{}
	interp := shell.New(
		shell.WithScope(scope.New(nil)),
		shell.WithRegistry(reg),
		shell.WithFS(fs),
		shell.WithIO(&bytes.Buffer{}, out, out),
		shell.WithInterrupt(job.NewSignal()),
	)
	return interp, out
}

func run(env *command.Env, newCmd func() *SimpleCommand, args ...string) (value.Value, error) {
	return newCmd().Run(env, args[0], args[1:])
}

func TestAllCommands(t *testing.T) {
	for _, cmdEntry := range ListBuiltinCommands() {
		t.Run(strings.Join(cmdEntry.Names, ","), func(t *testing.T) {
			if cmdEntry.New == nil {
				t.Fatal("nil command", cmdEntry.Names)
			}

			sh, out := newTestShell()
			got, err := cmdEntry.Exec(sh.Env(), cmdEntry.Names[0], []string{"--help"})

			require.Nil(t, err)
			assert.Equal(t, value.Success(), got)
			assert.True(t, strings.HasPrefix(out.String(), "usage: "+cmdEntry.New().Use+"\n"), out.String())
			assert.Contains(t, out.String(), "--help")
		})
	}
}

func TestInstall(t *testing.T) {
	reg := command.NewRegistry(afero.NewMemMapFs(), func() string { return "" })
	Install(reg)

	for _, name := range []string{"alias", "cd", "echo", "eval", "exit", "export", "source", "vars", "env"} {
		_, ok := reg.Lookup(name)
		assert.True(t, ok, name)
	}
}

func TestBuiltin_Flags(t *testing.T) {
	b := &Builtin{Names: []string{"cp"}, New: Cp}

	flags := b.Flags()

	assert.Contains(t, flags, command.Flag{Short: 'r', Long: "recursive", Help: "copy directories recursively"})
	assert.Contains(t, flags, command.Flag{Short: 'h', Long: "help", Help: "show this help and exit"})
}

func TestSimpleCommand_argErrors(t *testing.T) {
	newCmd := func() *SimpleCommand {
		cmd := &SimpleCommand{Use: "test"}
		cmd.Bool('v', "verbose", "be verbose")
		cmd.String('o', "output", "", "output file")
		return cmd
	}

	cases := map[string]struct {
		args      []string
		wantIndex int
		wantErr   string
	}{
		"unknown short":     {[]string{"-x"}, 0, "Unknown flag: -x"},
		"unknown in group":  {[]string{"-v", "-vx"}, 1, "Unknown flag: -x"},
		"unknown long":      {[]string{"--nope"}, 0, "Unknown flag: --nope"},
		"missing value":     {[]string{"-v", "-o"}, 1, "Flag -o requires a value"},
		"missing long":      {[]string{"--output"}, 0, "Flag --output requires a value"},
		"error after value": {[]string{"-o", "out", "--bad"}, 2, "Unknown flag: --bad"},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			sh, _ := newTestShell()

			_, err := newCmd().Run(sh.Env(), "test", tc.args)

			var argErr *command.ArgError
			require.ErrorAs(t, err, &argErr)
			assert.Equal(t, tc.wantIndex, argErr.Index)
			assert.EqualError(t, err, tc.wantErr)
		})
	}
}

func TestSimpleCommand_operands(t *testing.T) {
	cases := map[string]struct {
		args    []string
		relaxed bool
		want    []string
		wantOut string
	}{
		"flags then operands": {args: []string{"-v", "-o", "f", "a", "-b"}, want: []string{"a", "-b"}, wantOut: "f"},
		"attached value":      {args: []string{"-ofile", "a"}, want: []string{"a"}, wantOut: "file"},
		"long with equals":    {args: []string{"--output=x", "a"}, want: []string{"a"}, wantOut: "x"},
		"double dash":         {args: []string{"-v", "--", "-v"}, want: []string{"-v"}},
		"negative number":     {args: []string{"-1", "-v"}, want: []string{"-1", "-v"}},
		"stdin":               {args: []string{"-", "-v"}, want: []string{"-", "-v"}},
		"relaxed":             {args: []string{"-v", "-la", "x"}, relaxed: true, want: []string{"-la", "x"}},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			var got []string
			cmd := &SimpleCommand{Use: "test", Relaxed: tc.relaxed}
			cmd.Bool('v', "verbose", "be verbose")
			output := cmd.String('o', "output", "", "output file")
			cmd.Action = func(env *command.Env, args []string) (value.Value, error) {
				got = args
				return value.Success(), nil
			}

			sh, _ := newTestShell()
			_, err := cmd.Run(sh.Env(), "test", tc.args)

			require.Nil(t, err)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.wantOut, *output)
		})
	}
}

func TestSimpleCommand_actionArgErrorIndex(t *testing.T) {
	cmd := &SimpleCommand{Use: "test"}
	cmd.Bool('v', "verbose", "be verbose")
	cmd.Action = eachArg(func(env *command.Env, arg string) error {
		if arg == "bad" {
			return fmt.Errorf("bad argument")
		}
		return nil
	})

	sh, _ := newTestShell()
	_, err := cmd.Run(sh.Env(), "test", []string{"-v", "good", "bad"})

	var argErr *command.ArgError
	require.ErrorAs(t, err, &argErr)
	assert.Equal(t, 2, argErr.Index)
}

type goldenTestSuite map[string]goldenTest

type goldenTest struct {
	Args []string
	// Setup prepares the environment before the command runs.
	Setup func(t *testing.T, env *command.Env)
}

// Run executes each case and compares the combined output, followed by the
// returned error if any, with testdata/golden/<test>/<case>.golden.
func (gts goldenTestSuite) Run(t *testing.T, newCmd func() *SimpleCommand) {
	t.Helper()

	g := goldie.New(
		t,
		goldie.WithFixtureDir(filepath.Join("testdata", "golden")),
		goldie.WithDiffEngine(goldie.ColoredDiff),
		goldie.WithTestNameForDir(true),
	)

	for tn, tc := range gts {
		t.Run(tn, func(t *testing.T) {
			sh, out := newTestShell()
			env := sh.Env()
			if tc.Setup != nil {
				tc.Setup(t, env)
			}

			if _, err := run(env, newCmd, tc.Args...); err != nil {
				fmt.Fprintf(out, "error: %v\n", err)
			}

			g.Assert(t, tn, out.Bytes())
		})
	}
}

func writeFile(path, content string) func(*testing.T, *command.Env) {
	return func(t *testing.T, env *command.Env) {
		require.Nil(t, afero.WriteFile(env.FS, path, []byte(content), 0644))
	}
}
