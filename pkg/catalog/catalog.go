// Package catalog holds the static model registry: provider, pricing,
// token ceilings, capability tags, and the fallback chain each model
// resolves through when it is unavailable.
package catalog

import (
	"errors"
	"fmt"
)

var (
	// ErrModelNotFound marks lookups of ids absent from the catalog.
	ErrModelNotFound = errors.New("model not found")
	// ErrNoAvailableModel marks a fallback chain that ends with every
	// model unavailable.
	ErrNoAvailableModel = errors.New("no available model in fallback chain")
)

// ModelConfig describes one generation model. Entries are static data,
// immutable after the catalog is built.
type ModelConfig struct {
	ID           string   `yaml:"id" json:"id"`
	Provider     string   `yaml:"provider" json:"provider"`
	MaxTokens    int      `yaml:"maxTokens" json:"maxTokens"`
	CostPer1KIn  float64  `yaml:"costPer1kIn" json:"costPer1kIn"`
	CostPer1KOut float64  `yaml:"costPer1kOut" json:"costPer1kOut"`
	Capabilities []string `yaml:"capabilities" json:"capabilities,omitempty"`
	Available    bool     `yaml:"available" json:"available"`
	FallbackTo   string   `yaml:"fallbackTo" json:"fallbackTo,omitempty"`
}

// Catalog is a validated, read-only model registry. Safe for concurrent use.
type Catalog struct {
	models map[string]ModelConfig
	order  []string
}

// New validates and indexes the given models. Duplicate ids, dangling
// fallback references, and fallback cycles are configuration errors and
// must abort startup.
func New(models []ModelConfig) (*Catalog, error) {
	c := &Catalog{models: make(map[string]ModelConfig, len(models))}

	for _, m := range models {
		if m.ID == "" {
			return nil, fmt.Errorf("model with empty id")
		}
		if m.Provider == "" {
			return nil, fmt.Errorf("model %q: empty provider", m.ID)
		}
		if _, exists := c.models[m.ID]; exists {
			return nil, fmt.Errorf("duplicate model id %q", m.ID)
		}
		c.models[m.ID] = m
		c.order = append(c.order, m.ID)
	}

	for _, m := range models {
		if m.FallbackTo == "" {
			continue
		}
		if _, ok := c.models[m.FallbackTo]; !ok {
			return nil, fmt.Errorf("model %q: fallback %q not in catalog", m.ID, m.FallbackTo)
		}
	}

	// Fallback links form a directed graph; reject cycles eagerly so
	// chain walks never need a runtime guard.
	for _, m := range models {
		if err := c.checkChain(m.ID); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// MustNew is New for static tables known to be valid.
func MustNew(models []ModelConfig) *Catalog {
	c, err := New(models)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Catalog) checkChain(id string) error {
	visited := map[string]bool{}
	for cur := id; cur != ""; {
		if visited[cur] {
			return fmt.Errorf("fallback cycle detected starting at model %q (revisits %q)", id, cur)
		}
		visited[cur] = true
		cur = c.models[cur].FallbackTo
	}
	return nil
}

// Get returns the config for id.
func (c *Catalog) Get(id string) (ModelConfig, error) {
	m, ok := c.models[id]
	if !ok {
		return ModelConfig{}, fmt.Errorf("%w: %s", ErrModelNotFound, id)
	}
	return m, nil
}

// Has reports whether id is in the catalog.
func (c *Catalog) Has(id string) bool {
	_, ok := c.models[id]
	return ok
}

// All returns the models in registration order.
func (c *Catalog) All() []ModelConfig {
	out := make([]ModelConfig, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.models[id])
	}
	return out
}

// Resolve walks id's fallback chain and returns the first available model.
// The walk always terminates: chains are validated acyclic at load.
func (c *Catalog) Resolve(id string) (ModelConfig, error) {
	m, ok := c.models[id]
	if !ok {
		return ModelConfig{}, fmt.Errorf("%w: %s", ErrModelNotFound, id)
	}
	for {
		if m.Available {
			return m, nil
		}
		if m.FallbackTo == "" {
			return ModelConfig{}, fmt.Errorf("%w: chain from %s", ErrNoAvailableModel, id)
		}
		m = c.models[m.FallbackTo]
	}
}

// FallbackList returns the available models on id's chain after id itself,
// in chain order.
func (c *Catalog) FallbackList(id string) []string {
	m, ok := c.models[id]
	if !ok {
		return nil
	}
	var out []string
	for cur := m.FallbackTo; cur != ""; {
		next := c.models[cur]
		if next.Available {
			out = append(out, next.ID)
		}
		cur = next.FallbackTo
	}
	return out
}

// EstimateTokens approximates the token count of content at four
// characters per token.
func EstimateTokens(content string) int {
	return len(content) / 4
}

// EstimateCost projects the USD cost of a call with the given input token
// count, assuming output at half the input size.
func (c *Catalog) EstimateCost(id string, inputTokens int) float64 {
	m, ok := c.models[id]
	if !ok {
		return 0
	}
	inCost := float64(inputTokens) / 1000.0 * m.CostPer1KIn
	outCost := float64(inputTokens/2) / 1000.0 * m.CostPer1KOut
	return inCost + outCost
}
