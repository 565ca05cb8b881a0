package step

import (
	"fmt"
)

// Registry is the ordered catalog of provisioning steps. Execution
// follows registration order strictly: steps may have hidden host-state
// dependencies (the package manager lock, an account that must exist),
// so there is no reordering and no parallel execution.
type Registry struct {
	steps []Step
	byID  map[string]Step
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byID: make(map[string]Step),
	}
}

// Register appends a step, rejecting duplicate IDs.
func (r *Registry) Register(s Step) error {
	key := s.ID().String()
	if _, exists := r.byID[key]; exists {
		return fmt.Errorf("duplicate step ID %q", key)
	}
	r.steps = append(r.steps, s)
	r.byID[key] = s
	return nil
}

// MustRegister registers a step, panicking on duplicates. Registries
// are assembled from compile-time known step lists.
func (r *Registry) MustRegister(steps ...Step) {
	for _, s := range steps {
		if err := r.Register(s); err != nil {
			panic(err)
		}
	}
}

// Steps returns all steps in registration order.
func (r *Registry) Steps() []Step {
	return r.steps
}

// Len returns the number of registered steps.
func (r *Registry) Len() int {
	return len(r.steps)
}

// Lookup returns the step with the given ID, or nil.
func (r *Registry) Lookup(id ID) Step {
	return r.byID[id.String()]
}
