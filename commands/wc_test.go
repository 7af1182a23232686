package commands

import (
	"bytes"
	"io/fs"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
)

func TestWc(t *testing.T) {
	cases := goldenTestSuite{
		"single-file": {Args: []string{"wc", "/foo.txt"}, Setup: writeFile("/foo.txt", "Hello,\nworld !")},
		"lines-only":  {Args: []string{"wc", "-l", "/foo.txt"}, Setup: writeFile("/foo.txt", "a\nb\nc\n")},
	}

	cases.Run(t, Wc)
}

func TestWc_multipleFiles(t *testing.T) {
	sh, out := newTestShell()
	env := sh.Env()
	assert.Nil(t, afero.WriteFile(env.FS, "/a.txt", []byte("a b\n"), 0600))
	assert.Nil(t, afero.WriteFile(env.FS, "/b.txt", []byte("c\n"), 0600))

	_, err := run(env, Wc, "wc", "/a.txt", "/b.txt")

	assert.Nil(t, err)
	assert.Equal(t, "1 2 4 /a.txt\n1 1 2 /b.txt\n2 3 6 total\n", out.String())
}

func TestWc_stdin(t *testing.T) {
	sh, out := newTestShell()
	env := sh.Env().WithIO(bytes.NewBufferString("one two\nthree\n"), nil, nil)

	_, err := run(env, Wc, "wc", "-w")

	assert.Nil(t, err)
	assert.Equal(t, "3\n", out.String())
}

func TestWc_missing(t *testing.T) {
	sh, _ := newTestShell()

	_, err := run(sh.Env(), Wc, "wc", "does-not-exist.txt")

	assert.ErrorIs(t, err, fs.ErrNotExist)
}
