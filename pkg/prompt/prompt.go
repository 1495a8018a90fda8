// Package prompt turns a document and a generation mode into the
// system/user prompt pair and decoding parameters for one model call.
package prompt

import (
	"fmt"
	"unicode/utf8"

	"github.com/mindsparkle/docintel/pkg/grounding"
	"github.com/mindsparkle/docintel/pkg/modes"
	"github.com/mindsparkle/docintel/pkg/profile"
)

// Config selects what to build a prompt for. Model is carried through from
// the routing decision; the builder does not choose models.
type Config struct {
	Mode               modes.Mode
	VendorID           string
	Model              string
	Language           string
	PreserveFormatting bool
}

// Prompt is a ready-to-send generation request. Pure data; no network
// calls happen here.
type Prompt struct {
	System      string  `json:"system"`
	User        string  `json:"user"`
	Model       string  `json:"model"`
	MaxTokens   int     `json:"maxTokens"`
	Temperature float64 `json:"temperature"`
}

// modeParams are the per-mode content budget and decoding parameters.
// Factual modes run cold; narrative modes get room to phrase.
type modeParams struct {
	charBudget  int
	maxTokens   int
	temperature float64
}

var paramsByMode = map[modes.Mode]modeParams{
	modes.ModeStudy:      {charBudget: 60000, maxTokens: 8192, temperature: 0.3},
	modes.ModeQuiz:       {charBudget: 30000, maxTokens: 4096, temperature: 0.3},
	modes.ModeInterview:  {charBudget: 30000, maxTokens: 4096, temperature: 0.6},
	modes.ModeVideo:      {charBudget: 25000, maxTokens: 4096, temperature: 0.7},
	modes.ModeLabs:       {charBudget: 50000, maxTokens: 8192, temperature: 0.3},
	modes.ModeSummary:    {charBudget: 40000, maxTokens: 2048, temperature: 0.4},
	modes.ModeFlashcards: {charBudget: 20000, maxTokens: 4096, temperature: 0.3},
}

// Builder constructs prompts against a profile registry. Safe for
// concurrent use.
type Builder struct {
	registry *profile.Registry
}

// NewBuilder creates a Builder over the given registry.
func NewBuilder(reg *profile.Registry) *Builder {
	return &Builder{registry: reg}
}

// Build assembles the prompt for cfg over content: grounding prefix, mode
// instructions, and the source document truncated to the mode's budget.
func (b *Builder) Build(cfg Config, content string) (Prompt, error) {
	p, ok := paramsByMode[cfg.Mode]
	if !ok {
		return Prompt{}, fmt.Errorf("prompt builder: unknown mode %q", cfg.Mode)
	}

	engine, err := grounding.NewEngine(b.registry, grounding.Config{
		VendorID:           cfg.VendorID,
		Mode:               cfg.Mode,
		Language:           cfg.Language,
		PreserveFormatting: cfg.PreserveFormatting,
	})
	if err != nil {
		return Prompt{}, fmt.Errorf("prompt builder: %w", err)
	}

	tpl := templateFor(cfg.Mode)
	system := engine.BuildSystemPrompt() + "\n" + tpl.system
	user := fmt.Sprintf("%s\n\nDocument:\n---\n%s\n---", tpl.task, truncate(content, p.charBudget))

	return Prompt{
		System:      system,
		User:        user,
		Model:       cfg.Model,
		MaxTokens:   p.maxTokens,
		Temperature: p.temperature,
	}, nil
}

// CharBudget returns the content budget for a mode, or 0 for unknown modes.
func CharBudget(m modes.Mode) int {
	return paramsByMode[m].charBudget
}

// truncate cuts s to at most limit bytes without splitting a rune.
func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	for limit > 0 && !utf8.RuneStart(s[limit]) {
		limit--
	}
	return s[:limit]
}
