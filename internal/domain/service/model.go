package service

import (
	"fmt"
	"sort"

	"ArbLens/internal/domain/models"
)

// Model is the uniform contract every valuation and arbitrage model
// implements. Evaluate is a pure function of its arguments: no hidden state,
// no I/O, and bit-identical results for identical inputs and scenario.
type Model interface {
	Name() string
	Evaluate(in models.Inputs, sc models.Scenario) (models.ModelResult, error)
}

// Registry holds the pluggable model set keyed by name.
type Registry struct {
	byName map[string]Model
}

// NewRegistry builds a registry from the given models.
func NewRegistry(ms ...Model) *Registry {
	r := &Registry{byName: make(map[string]Model, len(ms))}
	for _, m := range ms {
		r.byName[m.Name()] = m
	}
	return r
}

// Get resolves a model by name.
func (r *Registry) Get(name string) (Model, error) {
	m, ok := r.byName[name]
	if !ok {
		return nil, fmt.Errorf("unknown model %q", name)
	}
	return m, nil
}

// Names lists registered model names in stable order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.byName))
	for n := range r.byName {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
