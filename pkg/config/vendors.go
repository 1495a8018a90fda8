package config

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/mindsparkle/docintel/pkg/profile"
)

// VendorsFile represents a vendors.yaml override file. File entries
// extend the builtin profiles: a matching ID replaces the builtin
// profile, a new ID adds a vendor.
type VendorsFile struct {
	Vendors []VendorSpec `yaml:"vendors"`
}

// VendorSpec is the serializable form of a vendor profile. CLI patterns
// are regular expressions compiled at load.
type VendorSpec struct {
	ID             string    `yaml:"id"`
	Name           string    `yaml:"name"`
	Keywords       []string  `yaml:"keywords"`
	CLIPatterns    []string  `yaml:"cli_patterns"`
	Certifications []string  `yaml:"certifications"`
	Rules          RulesSpec `yaml:"rules"`
}

// RulesSpec is the serializable form of a profile's generation rules.
type RulesSpec struct {
	PreserveCLICommands    bool     `yaml:"preserve_cli_commands"`
	PreserveConfigBlocks   bool     `yaml:"preserve_config_blocks"`
	UseStrictGrounding     bool     `yaml:"use_strict_grounding"`
	AllowExternalKnowledge bool     `yaml:"allow_external_knowledge"`
	TechnicalDepth         string   `yaml:"technical_depth"`
	SpecialInstructions    []string `yaml:"special_instructions"`
}

// LoadVendorsFile reads vendor profile overrides from a YAML file,
// merges them over the builtin profiles, and validates the result.
func LoadVendorsFile(path string) (*profile.Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var file VendorsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse vendors file: %w", err)
	}
	if len(file.Vendors) == 0 {
		return nil, fmt.Errorf("vendors file defines no vendors")
	}

	merged := profile.Builtin()
	index := make(map[string]int, len(merged))
	for i, p := range merged {
		index[p.ID] = i
	}

	for _, spec := range file.Vendors {
		p, err := spec.compile()
		if err != nil {
			return nil, err
		}
		if i, ok := index[p.ID]; ok {
			merged[i] = p
		} else {
			index[p.ID] = len(merged)
			merged = append(merged, p)
		}
	}

	reg, err := profile.NewRegistry(merged)
	if err != nil {
		return nil, fmt.Errorf("invalid vendor profiles: %w", err)
	}
	return reg, nil
}

func (spec VendorSpec) compile() (*profile.Profile, error) {
	if spec.ID == "" {
		return nil, fmt.Errorf("vendor spec with empty id")
	}

	patterns := make([]*regexp.Regexp, 0, len(spec.CLIPatterns))
	for _, pat := range spec.CLIPatterns {
		re, err := regexp.Compile(pat)
		if err != nil {
			return nil, fmt.Errorf("vendor %q: invalid cli pattern %q: %w", spec.ID, pat, err)
		}
		patterns = append(patterns, re)
	}

	depth := profile.Depth(spec.Rules.TechnicalDepth)
	if spec.Rules.TechnicalDepth == "" {
		depth = profile.DepthIntermediate
	}

	return &profile.Profile{
		ID:             spec.ID,
		Name:           spec.Name,
		Keywords:       spec.Keywords,
		CLIPatterns:    patterns,
		Certifications: spec.Certifications,
		Rules: profile.AIRules{
			PreserveCLICommands:    spec.Rules.PreserveCLICommands,
			PreserveConfigBlocks:   spec.Rules.PreserveConfigBlocks,
			UseStrictGrounding:     spec.Rules.UseStrictGrounding,
			AllowExternalKnowledge: spec.Rules.AllowExternalKnowledge,
			TechnicalDepth:         depth,
			SpecialInstructions:    spec.Rules.SpecialInstructions,
		},
	}, nil
}
