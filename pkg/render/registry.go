package render

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Output serialises a Tree into one format (HTML, terminal text).
type Output interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, tree Tree) ([]byte, error)
}

// Registry stores outputs by name.
type Registry struct {
	mu      sync.RWMutex
	outputs map[string]Output
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		outputs: make(map[string]Output),
	}
}

// Register adds an output by its Name(). Duplicate names return an error.
func (r *Registry) Register(output Output) error {
	if output == nil {
		return fmt.Errorf("render: output is required")
	}
	name := output.Name()
	if name == "" {
		return fmt.Errorf("render: output name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.outputs[name]; exists {
		return fmt.Errorf("render: output %q already registered", name)
	}
	r.outputs[name] = output
	return nil
}

// MustRegister panics on registration failure.
func (r *Registry) MustRegister(output Output) {
	if err := r.Register(output); err != nil {
		panic(err)
	}
}

// Get retrieves an output by name.
func (r *Registry) Get(name string) (Output, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	output, ok := r.outputs[name]
	if !ok {
		return nil, fmt.Errorf("render: output %q not found", name)
	}
	return output, nil
}

// List returns the sorted output names.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.outputs))
	for name := range r.outputs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
