// Package grounding assembles per-vendor grounded system prompts and runs
// lightweight hallucination heuristics over generated content.
package grounding

import (
	"fmt"
	"strings"

	"github.com/mindsparkle/docintel/pkg/modes"
	"github.com/mindsparkle/docintel/pkg/profile"
)

// Clauses assembled into grounded system prompts. Callers match on these
// to confirm a constraint made it into the prompt.
const (
	ClauseStrictGrounding = "Base every statement strictly on the provided document. Do not invent facts, figures, or steps that are not in the source."
	ClauseNoExternal      = "Do not draw on outside knowledge. If the document does not cover something, say so instead of filling the gap."
	ClausePreserveCLI     = "Preserve all CLI commands and device prompts exactly as they appear in the source document, character for character."
	ClausePreserveConfig  = "Reproduce configuration blocks verbatim, keeping indentation, ordering, and syntax untouched."
	ClauseFormatting      = "Preserve the document's heading hierarchy, tables, and list structure."
)

// Config selects the vendor and mode an Engine builds prompts for.
type Config struct {
	VendorID           string
	Mode               modes.Mode
	Language           string
	PreserveFormatting bool
}

// Engine builds grounded system prompts for one vendor and mode. Construct
// per request; it is cheap and holds only references to static profile data.
type Engine struct {
	profile            *profile.Profile
	mode               modes.Mode
	language           string
	preserveFormatting bool
}

// NewEngine resolves cfg against the registry. A vendor id absent from the
// registry is a configuration error: fail loudly, never default silently.
func NewEngine(reg *profile.Registry, cfg Config) (*Engine, error) {
	p, err := reg.Get(cfg.VendorID)
	if err != nil {
		return nil, fmt.Errorf("grounding engine: %w", err)
	}
	if !cfg.Mode.Valid() {
		return nil, fmt.Errorf("grounding engine: unknown mode %q", cfg.Mode)
	}
	return &Engine{
		profile:            p,
		mode:               cfg.Mode,
		language:           cfg.Language,
		preserveFormatting: cfg.PreserveFormatting,
	}, nil
}

// Profile returns the engine's vendor profile.
func (e *Engine) Profile() *profile.Profile {
	return e.profile
}

// BuildSystemPrompt assembles the grounded system prompt from the vendor's
// rules. Each clause appears only when its gating flag is set.
func (e *Engine) BuildSystemPrompt() string {
	var sb strings.Builder
	rules := e.profile.Rules

	sb.WriteString(fmt.Sprintf(
		"You are an expert educational content creator preparing %s study material.\n",
		e.profile.Name,
	))
	sb.WriteString(fmt.Sprintf("Target %s-level technical depth.\n", rules.TechnicalDepth))

	if rules.UseStrictGrounding {
		sb.WriteString("\n" + ClauseStrictGrounding + "\n")
	}
	if !rules.AllowExternalKnowledge {
		sb.WriteString(ClauseNoExternal + "\n")
	}
	if rules.PreserveCLICommands {
		sb.WriteString(ClausePreserveCLI + "\n")
	}
	if rules.PreserveConfigBlocks {
		sb.WriteString(ClausePreserveConfig + "\n")
	}

	if len(rules.SpecialInstructions) > 0 {
		sb.WriteString("\nVendor-specific rules:\n")
		for _, inst := range rules.SpecialInstructions {
			sb.WriteString("- " + inst + "\n")
		}
	}

	if e.preserveFormatting {
		sb.WriteString("\n" + ClauseFormatting + "\n")
	}
	if e.language != "" && !strings.EqualFold(e.language, "en") && !strings.EqualFold(e.language, "english") {
		sb.WriteString(fmt.Sprintf("\nWrite all output in %s.\n", e.language))
	}

	return sb.String()
}
