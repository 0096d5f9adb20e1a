// Package registry holds the catalog of known node types. It is an
// explicitly constructed instance passed by reference (no package-level
// state): created at session start, populated once, read-only thereafter.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/arbor/pkg/domain"
)

// Registry maps node type names to their declared models.
// Safe for concurrent read access.
type Registry struct {
	mu      sync.RWMutex
	models  map[string]domain.NodeModel
	builtin map[string]bool
}

// New creates a registry seeded with the built-in node types.
func New() *Registry {
	r := &Registry{
		models:  make(map[string]domain.NodeModel),
		builtin: make(map[string]bool),
	}
	for _, m := range builtins() {
		r.models[m.Name] = m
		r.builtin[m.Name] = true
	}
	return r
}

func builtins() []domain.NodeModel {
	return []domain.NodeModel{
		{Name: "Root", Category: domain.CategoryRoot},
		{Name: "Sequence", Category: domain.CategoryControl},
		{Name: "SequenceStar", Category: domain.CategoryControl},
		{Name: "Fallback", Category: domain.CategoryControl},
		{Name: "Negation", Category: domain.CategoryDecorator},
		{Name: "Retry", Category: domain.CategoryDecorator, Params: []domain.ParamSpec{
			{Label: "num_attempts", Type: domain.ParamInt},
		}},
	}
}

// Register adds a node model. Registration is idempotent per name: the
// first registration wins, re-registering an identical model is a no-op,
// and a conflicting shape is an error. There is no removal operation.
func (r *Registry) Register(model domain.NodeModel) error {
	if model.Name == "" {
		return fmt.Errorf("cannot register a node model without a name")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.models[model.Name]; ok {
		if existing.Equal(model) {
			return nil
		}
		return fmt.Errorf("node type %q already registered with a different shape", model.Name)
	}
	r.models[model.Name] = model
	return nil
}

// Lookup returns the model for a type name.
func (r *Registry) Lookup(name string) (domain.NodeModel, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.models[name]
	return m, ok
}

// Models returns every registered model sorted by name.
func (r *Registry) Models() []domain.NodeModel {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.models))
	for name := range r.models {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]domain.NodeModel, 0, len(names))
	for _, name := range names {
		out = append(out, r.models[name])
	}
	return out
}

// Customs returns the registered models that are not built-ins, sorted by
// name. The codec appends these to the persisted TreeNodesModel so custom
// palettes survive a save/load cycle.
func (r *Registry) Customs() []domain.NodeModel {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.models))
	for name := range r.models {
		if !r.builtin[name] {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	out := make([]domain.NodeModel, 0, len(names))
	for _, name := range names {
		out = append(out, r.models[name])
	}
	return out
}

// IsBuiltin reports whether a type name is one of the seeded built-ins.
func (r *Registry) IsBuiltin(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.builtin[name]
}
