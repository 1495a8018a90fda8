package router

import "github.com/mindsparkle/docintel/pkg/modes"

func isNetworkVendor(id string) bool {
	switch id {
	case "cisco", "juniper", "arista", "paloalto", "fortinet", "f5":
		return true
	default:
		return false
	}
}

func isCloudVendor(id string) bool {
	switch id {
	case "aws", "azure", "gcp":
		return true
	default:
		return false
	}
}

// DefaultRules is the standard routing table. Higher priority wins; the
// first matching rule ends evaluation.
func DefaultRules() []Rule {
	return []Rule{
		{
			Name:     "cisco-labs-cli",
			Priority: 100,
			Model:    "claude-opus-4-20250514",
			Reason:   "Cisco lab material with live CLI needs the strongest technical model",
			When: func(c Context) bool {
				return c.VendorID == "cisco" && c.Mode == modes.ModeLabs && c.HasCLICommands
			},
		},
		{
			Name:     "expert-complexity",
			Priority: 95,
			Model:    "claude-opus-4-20250514",
			Reason:   "expert-tier document complexity",
			When: func(c Context) bool {
				return c.Complexity == ComplexityExpert
			},
		},
		{
			Name:     "expert-certification",
			Priority: 94,
			Model:    "claude-opus-4-20250514",
			Reason:   "expert-level certification track",
			When: func(c Context) bool {
				return c.Certification == CertTierExpert
			},
		},
		{
			Name:     "network-labs",
			Priority: 90,
			Model:    "claude-sonnet-4-20250514",
			Reason:   "network vendor lab walkthrough",
			When: func(c Context) bool {
				return isNetworkVendor(c.VendorID) && c.Mode == modes.ModeLabs
			},
		},
		{
			Name:     "cli-study-high",
			Priority: 80,
			Model:    "claude-sonnet-4-20250514",
			Reason:   "CLI-heavy study material at high complexity",
			When: func(c Context) bool {
				return c.HasCLICommands && c.Mode == modes.ModeStudy && c.Complexity.AtLeast(ComplexityHigh)
			},
		},
		{
			Name:     "config-blocks",
			Priority: 75,
			Model:    "claude-sonnet-4-20250514",
			Reason:   "configuration blocks must survive generation intact",
			When: func(c Context) bool {
				return c.HasConfigBlocks && (c.Mode == modes.ModeStudy || c.Mode == modes.ModeLabs)
			},
		},
		{
			Name:     "interview",
			Priority: 70,
			Model:    "gpt-5.2-thinking",
			Reason:   "interview preparation favors structured question depth",
			When: func(c Context) bool {
				return c.Mode == modes.ModeInterview
			},
		},
		{
			Name:     "quiz",
			Priority: 65,
			Model:    "gpt-5.2-thinking",
			Reason:   "quiz generation carries a strict JSON contract",
			When: func(c Context) bool {
				return c.Mode == modes.ModeQuiz
			},
		},
		{
			Name:     "flashcards",
			Priority: 60,
			Model:    "gpt-5.2-instant",
			Reason:   "flashcards are short structured JSON",
			When: func(c Context) bool {
				return c.Mode == modes.ModeFlashcards
			},
		},
		{
			Name:     "video-script",
			Priority: 55,
			Model:    "gemini-2.0-pro",
			Reason:   "narrative video scripts benefit from long context",
			When: func(c Context) bool {
				return c.Mode == modes.ModeVideo
			},
		},
		{
			Name:     "summary-long",
			Priority: 50,
			Model:    "gemini-2.0-pro",
			Reason:   "long document summarization",
			When: func(c Context) bool {
				return c.Mode == modes.ModeSummary && c.ContentLength > 50000
			},
		},
		{
			Name:     "summary",
			Priority: 45,
			Model:    "gemini-2.0-flash",
			Reason:   "short summaries run on the cheap fast tier",
			When: func(c Context) bool {
				return c.Mode == modes.ModeSummary
			},
		},
		{
			Name:     "cloud-study",
			Priority: 40,
			Model:    "claude-sonnet-4-20250514",
			Reason:   "cloud platform study guides",
			When: func(c Context) bool {
				return isCloudVendor(c.VendorID) && c.Mode == modes.ModeStudy
			},
		},
		{
			Name:     "comptia-economy",
			Priority: 35,
			Model:    "deepseek-chat",
			Reason:   "vendor-neutral exam prep runs on the economy tier",
			When: func(c Context) bool {
				return c.VendorID == "comptia" && !c.Complexity.AtLeast(ComplexityHigh)
			},
		},
		{
			Name:     "high-complexity",
			Priority: 30,
			Model:    "claude-sonnet-4-20250514",
			Reason:   "high-tier document complexity",
			When: func(c Context) bool {
				return c.Complexity == ComplexityHigh
			},
		},
		{
			Name:     "study-default",
			Priority: 25,
			Model:    "gemini-2.0-pro",
			Reason:   "study guides default to the long-context tier",
			When: func(c Context) bool {
				return c.Mode == modes.ModeStudy
			},
		},
		{
			Name:     "labs-default",
			Priority: 20,
			Model:    "claude-sonnet-4-20250514",
			Reason:   "lab instructions need technical precision",
			When: func(c Context) bool {
				return c.Mode == modes.ModeLabs
			},
		},
	}
}
