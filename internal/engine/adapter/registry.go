package adapter

import (
	"fmt"
	"sync"

	"astfind/internal/shared/util"
)

// Registry maps grammar ids to adapters.
type Registry struct {
	mu       sync.RWMutex
	adapters map[string]Adapter
}

func NewRegistry() *Registry {
	return &Registry{adapters: make(map[string]Adapter)}
}

// Register binds a to grammar. Registering a grammar twice is an error.
func (r *Registry) Register(grammar string, a Adapter) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.adapters[grammar]; exists {
		return fmt.Errorf("adapter already registered for %q", grammar)
	}
	r.adapters[grammar] = a
	return nil
}

func (r *Registry) Lookup(grammar string) (Adapter, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.adapters[grammar]
	return a, ok
}

// Grammars lists registered grammar ids in sorted order.
func (r *Registry) Grammars() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return util.SortedStringKeys(r.adapters)
}

// Default returns a registry holding every built-in adapter.
func Default() *Registry {
	r := NewRegistry()
	for grammar, a := range map[string]Adapter{
		"csharp":     NewCSharp(),
		"go":         NewGo(),
		"java":       NewJava(),
		"javascript": NewJavaScript(),
		"python":     NewPython(),
		"rust":       NewRust(),
		"tsx":        NewTypeScript(),
		"typescript": NewTypeScript(),
	} {
		_ = r.Register(grammar, a)
	}
	return r
}
