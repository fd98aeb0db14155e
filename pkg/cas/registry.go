package cas

import (
	"sort"
	"sync"

	"github.com/pkg/errors"
)

// Registry is a named store of expressions shared by every interpreter that
// holds it.
type Registry struct {
	mu    sync.Mutex
	exprs map[string]*Node
}

// DefaultRegistry is the process-wide registry.
var DefaultRegistry = NewRegistry()

func NewRegistry() *Registry {
	return &Registry{exprs: make(map[string]*Node)}
}

func (r *Registry) Store(name string, n *Node) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.exprs[name] = n
}

func (r *Registry) Load(name string) (*Node, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.exprs[name]
	if !ok {
		return nil, errors.Wrapf(ErrNotFound, "expression '%s'", name)
	}
	return n, nil
}

// Names returns the stored names in sorted order.
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.exprs))
	for name := range r.exprs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
