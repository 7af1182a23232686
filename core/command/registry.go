package command

import (
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/spf13/afero"

	"github.com/cristivlas/shmy-sub000/core/scope"
)

type registered struct {
	name string
	cmd  Exec
}

// Registry maps command names to handlers. Names that aren't registered are
// searched for on the PATH. It's safe for concurrent use.
type Registry struct {
	fs         afero.Fs
	searchPath func() string

	mu   sync.RWMutex
	cmds map[string]registered
}

// NewRegistry creates an empty registry that resolves external commands
// against fs using the list returned by searchPath.
func NewRegistry(fs afero.Fs, searchPath func() string) *Registry {
	if searchPath == nil {
		searchPath = func() string { return os.Getenv("PATH") }
	}
	return &Registry{
		fs:         fs,
		searchPath: searchPath,
		cmds:       make(map[string]registered),
	}
}

// Register binds name to cmd and returns the handler it replaced, if any.
func (r *Registry) Register(name string, cmd Exec) (prev Exec) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := scope.Key(name)
	if old, ok := r.cmds[key]; ok {
		prev = old.cmd
	}
	r.cmds[key] = registered{name: name, cmd: cmd}
	return prev
}

// Unregister removes name and reports whether it was registered.
func (r *Registry) Unregister(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := scope.Key(name)
	_, ok := r.cmds[key]
	delete(r.cmds, key)
	return ok
}

// Lookup returns a registered handler without consulting the PATH.
func (r *Registry) Lookup(name string) (Exec, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.cmds[scope.Key(name)]
	return e.cmd, ok
}

// Get returns the handler for name. Executables found on the PATH are
// registered under their name the first time they're seen, their location
// is resolved again on every run.
func (r *Registry) Get(name string) (Exec, bool) {
	if name == "" {
		return nil, false
	}
	if cmd, ok := r.Lookup(name); ok {
		return cmd, true
	}

	if _, err := r.LookPath(name); err != nil {
		return nil, false
	}

	ext := &External{Name: name, resolve: r.LookPath}
	if isPathLike(name) {
		return ext, true
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Another caller may have won the race.
	if e, ok := r.cmds[scope.Key(name)]; ok {
		return e.cmd, true
	}
	r.cmds[scope.Key(name)] = registered{name: name, cmd: ext}
	return ext, true
}

// Names lists the registered command names in order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []string
	for _, e := range r.cmds {
		out = append(out, e.name)
	}
	sort.Strings(out)
	return out
}

// LookPath finds an executable on the registry's search path.
func (r *Registry) LookPath(name string) (string, error) {
	return LookPath(r.fs, r.searchPath(), name)
}

func isPathLike(name string) bool {
	return strings.ContainsAny(name, pathSeparators)
}
