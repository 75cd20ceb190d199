package mapio

import (
	"sort"
	"sync"

	"github.com/beetlebugorg/xestopo/pkg/pmwx"
)

// TokenConversionMap rewrites enumerated values from the token space a file
// was written in to the in-memory one. A nil map is the identity.
type TokenConversionMap map[int]int

// Convert maps one file token. NoValue always passes through.
func (c TokenConversionMap) Convert(t int) (int, error) {
	if t == pmwx.NoValue || c == nil {
		return t, nil
	}
	if v, ok := c[t]; ok {
		return v, nil
	}
	return 0, &ErrUnknownToken{Token: t}
}

// Registry is the in-memory token table: a name for each enumerated value.
// Ids are dense and assigned in registration order. A Registry is safe for
// concurrent use.
type Registry struct {
	mu    sync.RWMutex
	names []string
	ids   map[string]int
}

// NewRegistry returns a registry holding names with ids 0, 1, ...
func NewRegistry(names ...string) *Registry {
	r := &Registry{ids: make(map[string]int, len(names))}
	for _, n := range names {
		r.Register(n)
	}
	return r
}

// Register returns the id of name, adding it if needed.
func (r *Registry) Register(name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if id, ok := r.ids[name]; ok {
		return id
	}
	id := len(r.names)
	r.names = append(r.names, name)
	r.ids[name] = id
	return id
}

// Lookup returns the id registered for name.
func (r *Registry) Lookup(name string) (int, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.ids[name]
	return id, ok
}

// Name returns the name registered for id.
func (r *Registry) Name(id int) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if id < 0 || id >= len(r.names) {
		return "", false
	}
	return r.names[id], true
}

// Len returns the number of registered tokens.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.names)
}

// Table returns the registry as an id to name table.
func (r *Registry) Table() map[int]string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[int]string, len(r.names))
	for id, n := range r.names {
		out[id] = n
	}
	return out
}

// BuildTokenMap matches the token table a file was written with against reg
// by name. Names reg does not know yet are registered, so data written by a
// newer build still loads.
func BuildTokenMap(fileTable map[int]string, reg *Registry) TokenConversionMap {
	ids := make([]int, 0, len(fileTable))
	for id := range fileTable {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	c := make(TokenConversionMap, len(fileTable))
	for _, id := range ids {
		c[id] = reg.Register(fileTable[id])
	}
	return c
}
