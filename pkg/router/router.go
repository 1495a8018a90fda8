// Package router selects a generation model for a document from a
// priority-ordered rule table, resolves unavailable models through the
// catalog's fallback chains, and estimates token usage and cost.
package router

import (
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"github.com/mindsparkle/docintel/pkg/catalog"
)

// Rule is one row of the routing table. Rules are evaluated highest
// priority first; the first matching predicate wins.
type Rule struct {
	Name     string
	Priority int
	Model    string
	Reason   string
	When     func(Context) bool
}

// Decision is the outcome of one routing call.
type Decision struct {
	Model           string   `json:"model"`
	Provider        string   `json:"provider"`
	Rule            string   `json:"rule"`
	Reason          string   `json:"reason"`
	EstimatedTokens int      `json:"estimatedTokens"`
	EstimatedCost   float64  `json:"estimatedCost"`
	Fallbacks       []string `json:"fallbacks,omitempty"`
}

// Router evaluates the rule table against routing contexts. Safe for
// concurrent use once constructed.
type Router struct {
	catalog *catalog.Catalog
	rules   []Rule
	logger  zerolog.Logger
}

// Option configures a Router.
type Option func(*Router)

// WithRules replaces the default rule table.
func WithRules(rules []Rule) Option {
	return func(r *Router) { r.rules = rules }
}

// WithLogger sets the router's logger.
func WithLogger(l zerolog.Logger) Option {
	return func(r *Router) { r.logger = l }
}

// New creates a Router over the given catalog. Rules are sorted by
// descending priority at construction; ties keep table order.
func New(cat *catalog.Catalog, opts ...Option) *Router {
	r := &Router{
		catalog: cat,
		rules:   DefaultRules(),
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	sort.SliceStable(r.rules, func(i, j int) bool {
		return r.rules[i].Priority > r.rules[j].Priority
	})
	return r
}

// Rules returns the rule table in evaluation order.
func (r *Router) Rules() []Rule {
	out := make([]Rule, len(r.rules))
	copy(out, r.rules)
	return out
}

// SelectModel picks a model for the given context. It never fails: an
// unavailable winner resolves through its fallback chain, and when nothing
// matches or resolution dead-ends the hardcoded default is returned.
func (r *Router) SelectModel(rc Context) Decision {
	candidate := catalog.DefaultModelID
	ruleName := "default"
	reason := "no routing rule matched"

	for _, rule := range r.rules {
		if rule.When(rc) {
			candidate = rule.Model
			ruleName = rule.Name
			reason = rule.Reason
			break
		}
	}

	resolved, err := r.catalog.Resolve(candidate)
	if err != nil {
		r.logger.Warn().
			Err(err).
			Str("rule", ruleName).
			Str("model", candidate).
			Msg("routing candidate unresolvable, using default")
		resolved, err = r.catalog.Resolve(catalog.DefaultModelID)
		if err != nil {
			// Catalog without a usable default; answer with the
			// hardcoded pair rather than failing the request.
			return Decision{
				Model:    catalog.DefaultModelID,
				Provider: catalog.DefaultProvider,
				Rule:     ruleName,
				Reason:   reason + " (catalog default unavailable)",
			}
		}
	}
	if resolved.ID != candidate {
		reason = fmt.Sprintf("%s (%s unavailable, fallback to %s)", reason, candidate, resolved.ID)
	}

	inputTokens := rc.ContentLength / 4

	r.logger.Debug().
		Str("rule", ruleName).
		Str("model", resolved.ID).
		Str("vendor", rc.VendorID).
		Str("mode", rc.Mode.String()).
		Str("complexity", string(rc.Complexity)).
		Msg("model selected")

	return Decision{
		Model:           resolved.ID,
		Provider:        resolved.Provider,
		Rule:            ruleName,
		Reason:          reason,
		EstimatedTokens: inputTokens,
		EstimatedCost:   r.catalog.EstimateCost(resolved.ID, inputTokens),
		Fallbacks:       r.fallbacks(resolved.ID),
	}
}

// fallbacks lists the available models tried after the selected one: its
// chain first, then the default model, deduplicated.
func (r *Router) fallbacks(selected string) []string {
	list := r.catalog.FallbackList(selected)

	seen := map[string]bool{selected: true}
	out := make([]string, 0, len(list)+1)
	for _, id := range list {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	if !seen[catalog.DefaultModelID] && r.catalog.Has(catalog.DefaultModelID) {
		out = append(out, catalog.DefaultModelID)
	}
	return out
}
