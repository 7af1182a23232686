//go:build !windows

package command

import (
	"fmt"
	"sync"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFs(t *testing.T) afero.Fs {
	t.Helper()

	fs := afero.NewMemMapFs()
	require.Nil(t, afero.WriteFile(fs, "/usr/bin/tool", []byte("#!/bin/sh\n"), 0755))
	require.Nil(t, afero.WriteFile(fs, "/opt/bin/tool", []byte("#!/bin/sh\n"), 0755))
	require.Nil(t, afero.WriteFile(fs, "/usr/bin/notes", []byte("text"), 0644))
	require.Nil(t, fs.MkdirAll("/usr/bin/subdir", 0755))
	return fs
}

func TestLookPath(t *testing.T) {
	fs := newTestFs(t)

	cases := map[string]struct {
		pathList string
		file     string
		want     string
		wantErr  error
	}{
		"found":            {"/usr/bin", "tool", "/usr/bin/tool", nil},
		"first wins":       {"/opt/bin:/usr/bin", "tool", "/opt/bin/tool", nil},
		"missing":          {"/usr/bin", "nothing", "", ErrNotFound},
		"not executable":   {"/usr/bin", "notes", "", ErrNotFound},
		"directory":        {"/usr/bin", "subdir", "", ErrNotFound},
		"direct path":      {"", "/usr/bin/tool", "/usr/bin/tool", nil},
		"direct not found": {"/usr/bin", "/usr/bin/nothing", "", ErrNotFound},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			got, err := LookPath(fs, tc.pathList, tc.file)

			assert.Equal(t, tc.want, got)
			if tc.wantErr == nil {
				assert.Nil(t, err)
			} else {
				assert.ErrorIs(t, err, tc.wantErr)
			}
		})
	}
}

func TestLookPath_directNotExecutable(t *testing.T) {
	_, err := LookPath(newTestFs(t), "", "/usr/bin/notes")

	assert.NotNil(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestRegistry_GetFromPath(t *testing.T) {
	path := "/usr/bin"
	reg := NewRegistry(newTestFs(t), func() string { return path })

	_, ok := reg.Lookup("tool")
	assert.False(t, ok, "not registered until first use")

	cmd, ok := reg.Get("tool")
	require.True(t, ok)
	ext, ok := cmd.(*External)
	require.True(t, ok)
	assert.Equal(t, "tool", ext.Name)
	assert.Contains(t, reg.Names(), "tool")

	resolved, err := ext.Path()
	assert.Nil(t, err)
	assert.Equal(t, "/usr/bin/tool", resolved)

	// The location isn't cached.
	path = "/opt/bin"
	resolved, err = ext.Path()
	assert.Nil(t, err)
	assert.Equal(t, "/opt/bin/tool", resolved)

	_, ok = reg.Get("nothing")
	assert.False(t, ok)
}

func TestRegistry_GetPathLikeNotRegistered(t *testing.T) {
	reg := NewRegistry(newTestFs(t), func() string { return "" })

	_, ok := reg.Get("/usr/bin/tool")
	assert.True(t, ok)
	assert.Empty(t, reg.Names())
}

func TestRegistry_concurrentUse(t *testing.T) {
	reg := NewRegistry(newTestFs(t), func() string { return "/usr/bin" })

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			name := fmt.Sprintf("cmd%d", i)
			for n := 0; n < 100; n++ {
				reg.Register(name, Func(nil))
				_, ok := reg.Get("tool")
				assert.True(t, ok)
				_, ok = reg.Lookup(name)
				assert.True(t, ok)
				reg.Names()
				assert.True(t, reg.Unregister(name))
			}
		}(i)
	}
	wg.Wait()

	found, ok := reg.Lookup("tool")
	require.True(t, ok)
	assert.IsType(t, &External{}, found)
	assert.Equal(t, []string{"tool"}, reg.Names())
}
