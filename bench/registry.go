package bench

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrDuplicateCase reports a registration under an already-taken name.
var ErrDuplicateCase = errors.New("bench: duplicate case name")

// Registry holds registered cases in registration order.
type Registry struct {
	mu    sync.Mutex
	cases []Case
	names map[string]struct{}
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{names: make(map[string]struct{})}
}

// Register adds a case. Names must be unique and the body non-nil.
func (r *Registry) Register(c Case) error {
	if c.Name == "" {
		return errors.New("bench: case has no name")
	}
	if c.Run == nil {
		return fmt.Errorf("bench: case %q has no body", c.Name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.names[c.Name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateCase, c.Name)
	}
	r.names[c.Name] = struct{}{}
	r.cases = append(r.cases, c)
	return nil
}

// MustRegister is Register that panics on error, for suite init-time use.
func (r *Registry) MustRegister(c Case) {
	if err := r.Register(c); err != nil {
		panic(err)
	}
}

// Cases returns the registered cases in registration order.
func (r *Registry) Cases() []Case {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Case, len(r.cases))
	copy(out, r.cases)
	return out
}

// RowNames returns every reportable row name, sorted.
func (r *Registry) RowNames() []string {
	var names []string
	for _, c := range r.Cases() {
		for _, args := range c.rows() {
			names = append(names, RowName(c.Name, args))
		}
	}
	sort.Strings(names)
	return names
}
