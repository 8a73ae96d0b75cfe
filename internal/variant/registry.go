// path: internal/variant/registry.go
package variant

import (
	"errors"
	"sort"
	"sync"
)

// Registry holds named variants. Safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	variants map[string]*Variant
}

// NewRegistry returns a registry seeded with the built-in variants.
func NewRegistry() *Registry {
	r := &Registry{variants: make(map[string]*Variant)}
	_ = r.Register(Standard())
	return r
}

// Register adds or replaces v under its name.
func (r *Registry) Register(v *Variant) error {
	if v == nil || v.Name == "" {
		return errors.New("variant needs a name")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.variants[v.Name] = v
	return nil
}

// Get returns the named variant.
func (r *Registry) Get(name string) (*Variant, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.variants[name]
	return v, ok
}

// Names returns the registered variant names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.variants))
	for name := range r.variants {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
