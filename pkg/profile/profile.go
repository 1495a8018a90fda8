// Package profile holds the static vendor profile registry: the keywords,
// CLI syntax patterns, certification names, and AI grounding rules that
// drive vendor detection and prompt construction.
package profile

import (
	"fmt"
	"regexp"
)

// GenericID is the fallback profile present in every registry. It has no
// keywords and matches any document that no real vendor claims.
const GenericID = "generic"

// Depth is the technical depth a vendor's material is assumed to have.
type Depth string

const (
	DepthBasic        Depth = "basic"
	DepthIntermediate Depth = "intermediate"
	DepthAdvanced     Depth = "advanced"
	DepthExpert       Depth = "expert"
)

// AIRules bundles the per-vendor generation constraints consumed by the
// grounding engine when it assembles a system prompt.
type AIRules struct {
	PreserveCLICommands    bool
	PreserveConfigBlocks   bool
	UseStrictGrounding     bool
	AllowExternalKnowledge bool
	TechnicalDepth         Depth
	SpecialInstructions    []string
}

// Profile describes one vendor. Profiles are static data: built once at
// startup, validated, and never mutated afterwards.
type Profile struct {
	ID             string
	Name           string
	Keywords       []string
	CLIPatterns    []*regexp.Regexp
	Certifications []string
	Rules          AIRules
}

// Registry is the read-only set of vendor profiles.
type Registry struct {
	profiles map[string]*Profile
	order    []string
}

// NewRegistry validates and indexes the given profiles. Exactly one profile
// must carry GenericID; duplicate IDs are rejected. Registry construction
// failures are configuration errors and should abort startup.
func NewRegistry(profiles []*Profile) (*Registry, error) {
	r := &Registry{profiles: make(map[string]*Profile, len(profiles))}

	genericCount := 0
	for _, p := range profiles {
		if p.ID == "" {
			return nil, fmt.Errorf("profile with empty id")
		}
		if _, exists := r.profiles[p.ID]; exists {
			return nil, fmt.Errorf("duplicate profile id %q", p.ID)
		}
		if p.ID == GenericID {
			genericCount++
			if len(p.Keywords) != 0 {
				return nil, fmt.Errorf("generic profile must have no keywords, has %d", len(p.Keywords))
			}
		}
		if !p.Rules.TechnicalDepth.valid() {
			return nil, fmt.Errorf("profile %q: invalid technical depth %q", p.ID, p.Rules.TechnicalDepth)
		}
		r.profiles[p.ID] = p
		r.order = append(r.order, p.ID)
	}

	if genericCount != 1 {
		return nil, fmt.Errorf("registry requires exactly one %q profile, found %d", GenericID, genericCount)
	}

	return r, nil
}

// MustRegistry is NewRegistry for static tables known to be valid.
func MustRegistry(profiles []*Profile) *Registry {
	r, err := NewRegistry(profiles)
	if err != nil {
		panic(err)
	}
	return r
}

// Get returns the profile for id. Unknown ids are configuration errors.
func (r *Registry) Get(id string) (*Profile, error) {
	p, ok := r.profiles[id]
	if !ok {
		return nil, fmt.Errorf("vendor profile not found: %s", id)
	}
	return p, nil
}

// Generic returns the fallback profile.
func (r *Registry) Generic() *Profile {
	return r.profiles[GenericID]
}

// All returns the profiles in registration order.
func (r *Registry) All() []*Profile {
	out := make([]*Profile, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.profiles[id])
	}
	return out
}

// Vendors returns the non-generic profiles in registration order.
func (r *Registry) Vendors() []*Profile {
	out := make([]*Profile, 0, len(r.order)-1)
	for _, id := range r.order {
		if id == GenericID {
			continue
		}
		out = append(out, r.profiles[id])
	}
	return out
}

func (d Depth) valid() bool {
	switch d {
	case DepthBasic, DepthIntermediate, DepthAdvanced, DepthExpert:
		return true
	default:
		return false
	}
}
