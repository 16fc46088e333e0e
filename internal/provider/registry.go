// Package provider holds the ordered set of compute providers a workflow is
// translated onto.
package provider

import (
	"errors"
	"fmt"

	"github.com/me/wfsynth/pkg/model"
)

// Registry is an ordered, name-unique list of compute providers. Order matters:
// it is the round-robin ring order and the first entry is the fallback target.
// A Registry is built once before translation and never mutated afterwards.
type Registry struct {
	providers []model.ComputeProvider
	byName    map[string]int
}

// New builds a Registry from the given providers.
func New(providers ...model.ComputeProvider) (*Registry, error) {
	if len(providers) == 0 {
		return nil, errors.New("provider registry: at least one provider is required")
	}
	r := &Registry{
		providers: make([]model.ComputeProvider, 0, len(providers)),
		byName:    make(map[string]int, len(providers)),
	}
	for _, p := range providers {
		if p.Name == "" {
			return nil, errors.New("provider registry: provider name is required")
		}
		if !p.Kind.IsValid() {
			return nil, fmt.Errorf("provider registry: %s: unknown kind %q", p.Name, p.Kind)
		}
		if _, dup := r.byName[p.Name]; dup {
			return nil, fmt.Errorf("provider registry: duplicate provider name %q", p.Name)
		}
		r.byName[p.Name] = len(r.providers)
		r.providers = append(r.providers, p)
	}
	return r, nil
}

// Len returns the number of providers.
func (r *Registry) Len() int {
	return len(r.providers)
}

// Providers returns a copy of the providers in ring order.
func (r *Registry) Providers() []model.ComputeProvider {
	out := make([]model.ComputeProvider, len(r.providers))
	copy(out, r.providers)
	return out
}

// At returns the provider at ring position i modulo Len.
func (r *Registry) At(i int) model.ComputeProvider {
	return r.providers[i%len(r.providers)]
}

// Get returns the provider with the given name or an error if none is registered.
func (r *Registry) Get(name string) (model.ComputeProvider, error) {
	i, ok := r.byName[name]
	if !ok {
		return model.ComputeProvider{}, fmt.Errorf("no provider registered with name %q", name)
	}
	return r.providers[i], nil
}

// First returns the first configured provider.
func (r *Registry) First() model.ComputeProvider {
	return r.providers[0]
}

// FirstUnconstrained returns the first provider whose kind has no eligibility
// predicate.
func (r *Registry) FirstUnconstrained() (model.ComputeProvider, bool) {
	for _, p := range r.providers {
		if !p.Kind.HasPredicate() {
			return p, true
		}
	}
	return model.ComputeProvider{}, false
}
