package repl

import (
	"bytes"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompleter_Do(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.Nil(t, fs.MkdirAll("/home/me/docs", 0755))
	require.Nil(t, afero.WriteFile(fs, "/home/me/notes.txt", nil, 0644))
	require.Nil(t, afero.WriteFile(fs, "/home/me/.hidden", nil, 0644))
	require.Nil(t, afero.WriteFile(fs, "/etc/hosts", nil, 0644))

	c := &Completer{Env: newInterp(fs, &bytes.Buffer{}).Env()}

	cases := map[string]struct {
		line       string
		want       []string
		wantLength int
	}{
		"command":          {"ec", []string{"ho "}, 2},
		"command names":    {"p", []string{"opd ", "ushd ", "wd "}, 1},
		"keyword":          {"whi", []string{"ch ", "le "}, 3},
		"after separator":  {"echo a; bas", []string{"ename "}, 3},
		"after paren":      {"if (def", []string{"ined "}, 3},
		"long flag":        {"cp --re", []string{"cursive "}, 4},
		"flags":            {"mkdir -", []string{"-help ", "-parents ", "-verbose ", "h ", "p ", "v "}, 1},
		"alias flags":      {"export --", []string{"export ", "help ", "quiet ", "source "}, 2},
		"unknown command":  {"nope --", nil, 2},
		"absolute path":    {"cat /etc/ho", []string{"sts"}, 7},
		"home path":        {"cat ~/d", []string{"ocs/"}, 3},
		"hidden skipped":   {"cat ~/", []string{"docs/", "notes.txt"}, 2},
		"missing dir":      {"cat /nope/x", nil, 7},
		"exact match only": {"echo", nil, 4},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			got, length := c.Do([]rune(tc.line), len([]rune(tc.line)))

			var gotStrings []string
			for _, g := range got {
				gotStrings = append(gotStrings, string(g))
			}
			assert.Equal(t, tc.want, gotStrings)
			assert.Equal(t, tc.wantLength, length)
		})
	}
}
