// Package detect scores document text against the vendor profile registry
// and reports the best-matching vendor with a confidence estimate.
package detect

import (
	"strings"

	"github.com/mindsparkle/docintel/pkg/profile"
)

// Weights is the scoring policy for vendor detection. It is plain data so
// threshold changes never touch the matching algorithm.
type Weights struct {
	LongKeyword   int // keyword length > 6
	MediumKeyword int // keyword length > 3
	ShortKeyword  int
	CLIPattern    int
	Certification int
	// Threshold is the minimum raw score for a positive detection.
	Threshold int
	// MaxMatches caps the reported keyword and pattern lists.
	MaxMatches int
	// StrongSignalConfidence is assigned when a strong signal phrase
	// short-circuits scoring.
	StrongSignalConfidence float64
}

// DefaultWeights returns the standard detection policy.
func DefaultWeights() Weights {
	return Weights{
		LongKeyword:            3,
		MediumKeyword:          2,
		ShortKeyword:           1,
		CLIPattern:             5,
		Certification:          20,
		Threshold:              5,
		MaxMatches:             8,
		StrongSignalConfidence: 0.95,
	}
}

// Result is one detection outcome. Constructed fresh per call and never
// mutated afterwards.
type Result struct {
	Detected        bool     `json:"detected"`
	VendorID        string   `json:"vendorId"`
	VendorName      string   `json:"vendorName"`
	Confidence      float64  `json:"confidence"`
	MatchedKeywords []string `json:"matchedKeywords,omitempty"`
	MatchedPatterns []string `json:"matchedPatterns,omitempty"`
	Certification   string   `json:"certification,omitempty"`
}

// Detector matches documents against a profile registry. Safe for
// concurrent use; it holds only read-only tables.
type Detector struct {
	registry *profile.Registry
	weights  Weights
}

// Option configures a Detector.
type Option func(*Detector)

// WithWeights overrides the default scoring policy.
func WithWeights(w Weights) Option {
	return func(d *Detector) { d.weights = w }
}

// New creates a Detector over the given registry.
func New(reg *profile.Registry, opts ...Option) *Detector {
	d := &Detector{
		registry: reg,
		weights:  DefaultWeights(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// strongSignal phrases short-circuit scoring for vendors whose short
// keywords collide with other vendors' terminology ("ACE" is both a Cisco
// ACL term and an Arista certification). Only Cisco carries them today.
type strongSignal struct {
	vendorID string
	phrases  []string
}

var strongSignals = []strongSignal{
	{
		vendorID: "cisco",
		phrases: []string{
			"cisco press",
			"ccna",
			"ccnp",
			"ccie",
			"netacad",
			"networking academy",
			"packet tracer",
		},
	},
}

// Detect scores text (and optionally its file name) against every vendor
// profile. Pure function over the static tables: no I/O, no mutation.
func (d *Detector) Detect(text, fileName string) Result {
	haystack := strings.ToLower(text)
	nameLower := strings.ToLower(fileName)

	if r, ok := d.detectStrong(haystack, nameLower); ok {
		return r
	}

	var best candidate
	for _, p := range d.registry.Vendors() {
		c := d.score(p, text, haystack, nameLower)
		if c.score > best.score {
			best = c
		}
	}

	if best.score >= d.weights.Threshold {
		conf := float64(best.score) / float64(3*len(best.profile.Keywords)+50)
		if conf > 1 {
			conf = 1
		}
		return Result{
			Detected:        true,
			VendorID:        best.profile.ID,
			VendorName:      best.profile.Name,
			Confidence:      conf,
			MatchedKeywords: capList(best.keywords, d.weights.MaxMatches),
			MatchedPatterns: capList(best.patterns, d.weights.MaxMatches),
			Certification:   best.certification,
		}
	}

	g := d.registry.Generic()
	return Result{
		Detected:   false,
		VendorID:   g.ID,
		VendorName: g.Name,
		Confidence: 0,
	}
}

func (d *Detector) detectStrong(haystack, nameLower string) (Result, bool) {
	for _, sig := range strongSignals {
		for _, phrase := range sig.phrases {
			if !matchKeyword(haystack, phrase) && !matchKeyword(nameLower, phrase) {
				continue
			}
			p, err := d.registry.Get(sig.vendorID)
			if err != nil {
				continue
			}
			return Result{
				Detected:        true,
				VendorID:        p.ID,
				VendorName:      p.Name,
				Confidence:      d.weights.StrongSignalConfidence,
				MatchedKeywords: []string{phrase},
			}, true
		}
	}
	return Result{}, false
}

type candidate struct {
	profile       *profile.Profile
	score         int
	keywords      []string
	patterns      []string
	certification string
}

func (d *Detector) score(p *profile.Profile, text, haystack, nameLower string) candidate {
	c := candidate{profile: p}

	for _, kw := range p.Keywords {
		k := strings.ToLower(kw)
		if !matchKeyword(haystack, k) && !matchKeyword(nameLower, k) {
			continue
		}
		c.score += d.keywordWeight(k)
		c.keywords = append(c.keywords, kw)
	}

	// CLI patterns run on the raw text: prompts are case-sensitive.
	for _, re := range p.CLIPatterns {
		if re.MatchString(text) {
			c.score += d.weights.CLIPattern
			c.patterns = append(c.patterns, re.String())
		}
	}

	for _, cert := range p.Certifications {
		if !matchKeyword(haystack, strings.ToLower(cert)) {
			continue
		}
		c.score += d.weights.Certification
		if c.certification == "" {
			c.certification = cert
		}
	}

	return c
}

func (d *Detector) keywordWeight(keyword string) int {
	switch {
	case len(keyword) > 6:
		return d.weights.LongKeyword
	case len(keyword) > 3:
		return d.weights.MediumKeyword
	default:
		return d.weights.ShortKeyword
	}
}

// matchKeyword matches multi-word or long keywords as substrings. Short
// single-token keywords require word boundaries so "ios" never fires
// inside "bios" or "ace" inside "interface".
func matchKeyword(haystack, keyword string) bool {
	if keyword == "" || haystack == "" {
		return false
	}
	if len(keyword) <= 4 && !strings.ContainsAny(keyword, " -/") {
		return containsToken(haystack, keyword)
	}
	return strings.Contains(haystack, keyword)
}

// containsToken checks every occurrence of token for word boundaries on
// both sides.
func containsToken(haystack, token string) bool {
	for start := 0; ; {
		idx := strings.Index(haystack[start:], token)
		if idx == -1 {
			return false
		}
		idx += start

		end := idx + len(token)
		beforeOK := idx == 0 || !isWordChar(haystack[idx-1])
		afterOK := end >= len(haystack) || !isWordChar(haystack[end])
		if beforeOK && afterOK {
			return true
		}
		start = idx + 1
	}
}

func isWordChar(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '_'
}

func capList(list []string, n int) []string {
	if len(list) <= n {
		return list
	}
	return list[:n]
}
