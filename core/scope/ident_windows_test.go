package scope

import (
	"testing"

	"github.com/cristivlas/shmy-sub000/core/value"
	"github.com/stretchr/testify/assert"
)

func TestIdentifiersIgnoreCase(t *testing.T) {
	s := New(nil)
	s.Insert("Path", value.Str("a"))

	assert.NotNil(t, s.Lookup("PATH"))
	assert.Equal(t, "Path", s.Vars()[0].Name, "case is preserved")
}
