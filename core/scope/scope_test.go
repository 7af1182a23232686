package scope

import (
	"fmt"
	"os"
	"testing"

	"github.com/cristivlas/shmy-sub000/core/value"
	"github.com/stretchr/testify/assert"
)

func ExampleScope_Environ() {
	global := NewFromEnv([]string{"PATH=/bin", "HOME=/root"})
	local := New(global)
	local.Insert("COLOR", value.Str("blue"))
	local.Insert(Errors, value.Str("cp: Missing destination"))

	for _, e := range local.Environ() {
		fmt.Println(e)
	}

	// Output: COLOR=blue
	// HOME=/root
	// PATH=/bin
}

func TestNewFromEnv(t *testing.T) {
	s := NewFromEnv([]string{"A=1", "B=two", "EMPTY=", "NOVALUE", "=C:=C:\\"})

	cases := []struct {
		name     string
		expected value.Value
	}{
		{"A", value.Int(1)},
		{"B", value.Str("two")},
		{"EMPTY", value.Str("")},
		{"NOVALUE", value.Str("")},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			val, ok := s.LookupValue(tc.name)
			assert.True(t, ok)
			assert.Equal(t, tc.expected, val)
		})
	}

	assert.Len(t, s.Vars(), 4)
	assert.True(t, s.IsGlobal())
}

func TestLookupWalksParents(t *testing.T) {
	global := New(nil)
	global.Insert("x", value.Int(1))
	child := New(global)
	grandchild := New(child)

	assert.Same(t, global.Lookup("x"), grandchild.Lookup("x"))
	assert.Nil(t, grandchild.LookupLocal("x"))
	assert.Same(t, global, grandchild.Global())
	assert.Same(t, child, grandchild.Parent())
}

func TestShadowing(t *testing.T) {
	global := New(nil)
	global.Insert("x", value.Int(1))

	nested := New(global)
	nested.Insert("x", value.Int(2))
	nested.Insert("y", value.Int(3))

	val, _ := nested.LookupValue("x")
	assert.Equal(t, value.Int(2), val)

	val, _ = global.LookupValue("x")
	assert.Equal(t, value.Int(1), val, "outer frame keeps its own binding")
	assert.Nil(t, global.Lookup("y"), "outer frame must not see nested variables")
}

func TestInsertUpdatesInPlace(t *testing.T) {
	s := New(nil)
	v := s.Insert("x", value.Int(1))
	w := s.Insert("x", value.Int(2))

	assert.Same(t, v, w)
	assert.Equal(t, value.Int(2), v.Value())
}

func TestErase(t *testing.T) {
	t.Setenv("SHMY_SCOPE_TEST", "1")

	global := NewFromEnv(os.Environ())
	child := New(global)
	child.Insert("local", value.Int(1))

	assert.NotNil(t, child.Erase("local"))
	assert.Nil(t, child.Lookup("local"))
	assert.Nil(t, child.Erase("local"), "second erase finds nothing")

	assert.NotNil(t, child.Erase("SHMY_SCOPE_TEST"))
	_, ok := os.LookupEnv("SHMY_SCOPE_TEST")
	assert.False(t, ok, "erasing a global also unsets the environment variable")
}

func TestVisible(t *testing.T) {
	global := New(nil)
	global.Insert("a", value.Int(1))
	global.Insert("b", value.Int(2))
	child := New(global)
	child.Insert("b", value.Int(20))
	child.Insert("c", value.Int(30))

	var got []string
	for _, v := range child.Visible() {
		got = append(got, fmt.Sprintf("%s=%s", v.Name, v.Value()))
	}
	assert.Equal(t, []string{"a=1", "b=20", "c=30"}, got)
}

func TestEnvironExcludesSpecial(t *testing.T) {
	global := New(nil)
	global.Insert("KEEP", value.Str("yes"))
	global.Insert(Errors, value.Str("oops"))
	global.Insert(Stdout, value.Str("out"))
	global.Insert(Stderr, value.Str("err"))

	assert.Equal(t, []string{"KEEP=yes"}, New(global).Environ())
	assert.True(t, IsSpecial("__errors"))
	assert.False(t, IsSpecial("errors"))
}

func TestGetenv(t *testing.T) {
	s := New(nil)
	s.Insert("N", value.Real(2.5))

	assert.Equal(t, "2.5", s.Getenv("N"))
	assert.Equal(t, "", s.Getenv("MISSING"))
}
