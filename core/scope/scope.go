// Package scope implements the nested variable frames used by the evaluator.
package scope

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/cristivlas/shmy-sub000/core/value"
)

// Special variables used for internal bookkeeping. They are never exported
// or passed to child processes.
const (
	Errors = "__errors"
	Stderr = "__stderr"
	Stdout = "__stdout"
)

// IsSpecial reports whether name is an internal bookkeeping variable.
func IsSpecial(name string) bool {
	switch Key(name) {
	case Key(Errors), Key(Stderr), Key(Stdout):
		return true
	}
	return false
}

// Variable is a mutable single-slot holder of a value.
type Variable struct {
	val value.Value
}

// Value returns the current value.
func (v *Variable) Value() value.Value {
	return v.val
}

// Assign replaces the value in place.
func (v *Variable) Assign(val value.Value) {
	v.val = val
}

// Var pairs a variable with the name it was stored under.
type Var struct {
	Name string
	*Variable
}

type entry struct {
	name string
	v    *Variable
}

// Scope is one frame of variables linked to its parent. The root frame has
// no parent and mirrors the process environment.
type Scope struct {
	parent *Scope

	rw   sync.RWMutex
	vars map[string]entry
}

// New creates an empty frame nested in parent, parent may be nil.
func New(parent *Scope) *Scope {
	return &Scope{parent: parent, vars: make(map[string]entry)}
}

// NewFromEnv creates a root frame with one variable per KEY=VALUE entry.
func NewFromEnv(environ []string) *Scope {
	out := New(nil)
	for _, e := range environ {
		split := strings.SplitN(e, "=", 2)
		key, val := split[0], ""
		if len(split) > 1 {
			val = split[1]
		}
		// Windows keeps per-drive working directories as "=C:" entries.
		if key == "" {
			continue
		}
		out.Insert(key, value.Parse(val))
	}
	return out
}

// Parent returns the enclosing frame, nil for the root.
func (s *Scope) Parent() *Scope {
	return s.parent
}

// Global returns the root frame.
func (s *Scope) Global() *Scope {
	g := s
	for g.parent != nil {
		g = g.parent
	}
	return g
}

// IsGlobal reports whether s is a root frame.
func (s *Scope) IsGlobal() bool {
	return s.parent == nil
}

// Insert binds name in this frame. An existing local variable is updated in
// place.
func (s *Scope) Insert(name string, val value.Value) *Variable {
	s.rw.Lock()
	defer s.rw.Unlock()

	key := Key(name)
	if e, ok := s.vars[key]; ok {
		e.v.Assign(val)
		return e.v
	}

	v := &Variable{val: val}
	s.vars[key] = entry{name: name, v: v}
	return v
}

// LookupLocal finds name in this frame only.
func (s *Scope) LookupLocal(name string) *Variable {
	s.rw.RLock()
	defer s.rw.RUnlock()

	if e, ok := s.vars[Key(name)]; ok {
		return e.v
	}
	return nil
}

// Lookup finds name walking outward from this frame to the root.
func (s *Scope) Lookup(name string) *Variable {
	for f := s; f != nil; f = f.parent {
		if v := f.LookupLocal(name); v != nil {
			return v
		}
	}
	return nil
}

// LookupValue returns the value of name if it is defined.
func (s *Scope) LookupValue(name string) (value.Value, bool) {
	if v := s.Lookup(name); v != nil {
		return v.Value(), true
	}
	return value.Value{}, false
}

// Erase removes the innermost variable called name and returns it. Erasing
// from the root frame also removes the environment variable.
func (s *Scope) Erase(name string) *Variable {
	for f := s; f != nil; f = f.parent {
		if v := f.eraseLocal(name); v != nil {
			if f.parent == nil {
				os.Unsetenv(name)
			}
			return v
		}
	}
	return nil
}

func (s *Scope) eraseLocal(name string) *Variable {
	s.rw.Lock()
	defer s.rw.Unlock()

	key := Key(name)
	e, ok := s.vars[key]
	if !ok {
		return nil
	}
	delete(s.vars, key)
	return e.v
}

// Vars lists the variables of this frame sorted by name.
func (s *Scope) Vars() []Var {
	s.rw.RLock()
	defer s.rw.RUnlock()

	out := make([]Var, 0, len(s.vars))
	for _, e := range s.vars {
		out = append(out, Var{Name: e.name, Variable: e.v})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out
}

// Visible lists every variable reachable from this frame, inner frames
// shadowing outer ones, sorted by name.
func (s *Scope) Visible() []Var {
	seen := make(map[string]bool)
	var out []Var
	for f := s; f != nil; f = f.parent {
		for _, v := range f.Vars() {
			if key := Key(v.Name); !seen[key] {
				seen[key] = true
				out = append(out, v)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out
}

// Environ renders the visible non-special variables as KEY=VALUE entries
// suitable for a child process.
func (s *Scope) Environ() []string {
	var env []string
	for _, v := range s.Visible() {
		if IsSpecial(v.Name) {
			continue
		}
		env = append(env, fmt.Sprintf("%s=%s", v.Name, v.Value()))
	}
	return env
}

// Getenv returns the text of a visible variable, empty if undefined.
func (s *Scope) Getenv(name string) string {
	if val, ok := s.LookupValue(name); ok {
		return val.String()
	}
	return ""
}
