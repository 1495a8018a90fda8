// Package adapter provides a unified interface for LLM provider backends.
package adapter

import (
	"context"
	"sort"
)

// Adapter is the interface all provider backends implement.
type Adapter interface {
	// Generate sends one completion request and returns the model output.
	Generate(ctx context.Context, req Request) (*Response, error)

	// Name returns the provider identifier (e.g. "anthropic", "google").
	Name() string

	// Models returns the list of model IDs this adapter serves.
	Models() []string
}

// Registry maps provider names to adapters.
type Registry struct {
	adapters map[string]Adapter
}

// NewRegistry creates a registry, optionally pre-populated.
func NewRegistry(adapters ...Adapter) *Registry {
	r := &Registry{adapters: make(map[string]Adapter)}
	for _, a := range adapters {
		r.Register(a)
	}
	return r
}

// Register adds an adapter, keyed by its Name.
func (r *Registry) Register(a Adapter) {
	if a == nil {
		return
	}
	r.adapters[a.Name()] = a
}

// Get returns the adapter for a provider.
func (r *Registry) Get(provider string) (Adapter, bool) {
	a, ok := r.adapters[provider]
	return a, ok
}

// Providers returns the registered provider names in sorted order.
func (r *Registry) Providers() []string {
	names := make([]string, 0, len(r.adapters))
	for name := range r.adapters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
