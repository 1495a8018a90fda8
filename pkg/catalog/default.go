package catalog

// DefaultModelID is the terminal fallback: cheap, always available, and the
// router's answer when no rule matches.
const (
	DefaultModelID  = "gemini-2.0-flash"
	DefaultProvider = "google"
)

// DefaultModels returns the standard model table. Every fallback chain
// terminates at DefaultModelID, which has no fallback and is always
// available.
func DefaultModels() []ModelConfig {
	return []ModelConfig{
		{
			ID:           "claude-opus-4-20250514",
			Provider:     "anthropic",
			MaxTokens:    32000,
			CostPer1KIn:  0.015,
			CostPer1KOut: 0.075,
			Capabilities: []string{"reasoning", "long-context", "technical"},
			Available:    true,
			FallbackTo:   "claude-sonnet-4-20250514",
		},
		{
			ID:           "claude-sonnet-4-20250514",
			Provider:     "anthropic",
			MaxTokens:    64000,
			CostPer1KIn:  0.003,
			CostPer1KOut: 0.015,
			Capabilities: []string{"reasoning", "long-context", "technical", "balanced"},
			Available:    true,
			FallbackTo:   "gemini-2.0-pro",
		},
		{
			ID:           "gpt-5.2-pro",
			Provider:     "openai",
			MaxTokens:    65536,
			CostPer1KIn:  0.010,
			CostPer1KOut: 0.040,
			Capabilities: []string{"reasoning", "technical"},
			Available:    true,
			FallbackTo:   "gpt-5.2-thinking",
		},
		{
			ID:           "gpt-5.2-thinking",
			Provider:     "openai",
			MaxTokens:    65536,
			CostPer1KIn:  0.003,
			CostPer1KOut: 0.012,
			Capabilities: []string{"reasoning", "structured-output"},
			Available:    true,
			FallbackTo:   "gpt-5.2-instant",
		},
		{
			ID:           "gpt-5.2-instant",
			Provider:     "openai",
			MaxTokens:    16384,
			CostPer1KIn:  0.0005,
			CostPer1KOut: 0.0015,
			Capabilities: []string{"fast", "structured-output"},
			Available:    true,
			FallbackTo:   "gemini-2.0-flash",
		},
		{
			ID:           "gemini-2.0-pro",
			Provider:     "google",
			MaxTokens:    65536,
			CostPer1KIn:  0.00125,
			CostPer1KOut: 0.005,
			Capabilities: []string{"long-context", "technical"},
			Available:    true,
			FallbackTo:   "gemini-2.0-flash",
		},
		{
			ID:           "gemini-2.0-flash",
			Provider:     "google",
			MaxTokens:    8192,
			CostPer1KIn:  0.000075,
			CostPer1KOut: 0.0003,
			Capabilities: []string{"fast", "cheap"},
			Available:    true,
		},
		{
			ID:           "deepseek-chat",
			Provider:     "deepseek",
			MaxTokens:    8192,
			CostPer1KIn:  0.00014,
			CostPer1KOut: 0.00028,
			Capabilities: []string{"cheap", "technical"},
			Available:    true,
			FallbackTo:   "gemini-2.0-flash",
		},
	}
}

// Default returns a catalog over DefaultModels.
func Default() *Catalog {
	return MustNew(DefaultModels())
}
