// Package validation scores generated study content against its source
// document. Every check here is a lexical heuristic: it bounds confidence in
// the output, it does not prove correctness. False positives and negatives
// are expected at the margins.
package validation

import (
	"strings"

	"github.com/mindsparkle/docintel/pkg/profile"
)

// Severity classifies how a failed check affects the overall verdict.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
	SeverityInfo     Severity = "info"
)

// Tunable scoring policy. The thresholds are starting points, not measured
// optima.
const (
	// PassScore is the minimum overall score for a valid report.
	PassScore = 70.0
	// CriticalPenalty is deducted from the overall score per failed
	// critical check.
	CriticalPenalty = 20.0

	groundingPassScore   = 70.0
	accuracyPassScore    = 70.0
	terminologyPassScore = 80.0
	fuzzyOverlap         = 0.70
)

// Check records a single validation check outcome.
type Check struct {
	Name     string   `json:"name"`
	Category string   `json:"category"`
	Passed   bool     `json:"passed"`
	Score    float64  `json:"score"`
	Severity Severity `json:"severity"`
	Details  string   `json:"details,omitempty"`
}

// Warning surfaces a non-fatal quality issue.
type Warning struct {
	Type       string `json:"type"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion,omitempty"`
}

// Report is the outcome of a full validation run.
type Report struct {
	IsValid      bool      `json:"isValid"`
	OverallScore float64   `json:"overallScore"`
	Checks       []Check   `json:"checks"`
	Warnings     []Warning `json:"warnings,omitempty"`
}

// QuickReport is the outcome of the fast-path validation.
type QuickReport struct {
	Score  float64  `json:"score"`
	Issues []string `json:"issues,omitempty"`
}

// Validator runs the check battery. Safe for concurrent use.
type Validator struct {
	registry *profile.Registry
}

// New creates a validator backed by the given profile registry. A nil
// registry falls back to the builtin profiles.
func New(registry *profile.Registry) *Validator {
	if registry == nil {
		registry = profile.MustRegistry(profile.Builtin())
	}
	return &Validator{registry: registry}
}

// checkDef declares one entry of the fixed battery.
type checkDef struct {
	name       string
	category   string
	severity   Severity
	vendorOnly bool
	run        func(in *checkInput) (passed bool, score float64, details string)
}

// battery is the ordered list of checks Validate runs. Order is part of the
// report contract.
var battery = []checkDef{
	{name: "source-grounding", category: "grounding", severity: SeverityWarning, run: checkSourceGrounding},
	{name: "factual-accuracy", category: "accuracy", severity: SeverityWarning, run: checkFactualAccuracy},
	{name: "numerical-accuracy", category: "accuracy", severity: SeverityCritical, run: checkNumericalAccuracy},
	{name: "terminology-consistency", category: "terminology", severity: SeverityWarning, run: checkTerminology},
	{name: "vendor-accuracy", category: "vendor", severity: SeverityCritical, vendorOnly: true, run: checkVendorAccuracy},
	{name: "cli-syntax", category: "cli", severity: SeverityCritical, run: checkCLISyntax},
	{name: "logical-consistency", category: "logic", severity: SeverityWarning, run: checkLogicalConsistency},
	{name: "completeness", category: "completeness", severity: SeverityWarning, run: checkCompleteness},
}

// Validate scores generated content against the source document. vendorID
// may be empty or "generic" when no vendor was detected; vendor-specific
// checks are skipped in that case.
func (v *Validator) Validate(generated, source, vendorID string) *Report {
	in := newCheckInput(generated, source, v.vendorProfile(vendorID))

	report := &Report{Checks: make([]Check, 0, len(battery))}
	criticalFailures := 0
	passed := 0

	for _, def := range battery {
		if def.vendorOnly && in.prof == nil {
			continue
		}
		ok, score, details := def.run(in)
		report.Checks = append(report.Checks, Check{
			Name:     def.name,
			Category: def.category,
			Passed:   ok,
			Score:    score,
			Severity: def.severity,
			Details:  details,
		})
		if ok {
			passed++
			continue
		}
		if def.severity == SeverityCritical {
			criticalFailures++
		}
		report.Warnings = append(report.Warnings, Warning{
			Type:       def.name,
			Message:    details,
			Suggestion: suggestionFor(def.name),
		})
	}

	total := len(report.Checks)
	score := 0.0
	if total > 0 {
		score = float64(passed) / float64(total) * 100
	}
	score -= CriticalPenalty * float64(criticalFailures)
	report.OverallScore = clampScore(score)
	report.IsValid = criticalFailures == 0 && report.OverallScore >= PassScore
	return report
}

// QuickValidate runs only the numeric-grounding and fabricated-product-name
// heuristics. Intended for low-latency paths where the full battery is too
// expensive.
func (v *Validator) QuickValidate(generated, source string) *QuickReport {
	report := &QuickReport{Score: 100}

	sourceNums := numericTokenSet(source)
	for _, tok := range numericTokens(generated) {
		if !sourceNums[tok] {
			report.Score -= quickNumericPenalty
			report.Issues = append(report.Issues, "number not in source: "+tok)
		}
	}

	sourceWords := lowerWordSet(source)
	for _, name := range productNames(generated) {
		if !sourceWords[strings.ToLower(name)] {
			report.Score -= quickProductPenalty
			report.Issues = append(report.Issues, "product name not in source: "+name)
		}
	}

	report.Score = clampScore(report.Score)
	return report
}

// vendorProfile resolves vendorID to the view the checks need, or nil when
// validation should treat the document as vendorless.
func (v *Validator) vendorProfile(vendorID string) *vendorProfileView {
	if vendorID == "" || vendorID == profile.GenericID {
		return nil
	}
	p, err := v.registry.Get(vendorID)
	if err != nil {
		return nil
	}
	return &vendorProfileView{id: p.ID, cliPatterns: p.CLIPatterns}
}

func suggestionFor(checkName string) string {
	switch checkName {
	case "source-grounding":
		return "Regenerate with strict grounding or reduce enrichment."
	case "factual-accuracy":
		return "Cross-check flagged sentences against the source document."
	case "numerical-accuracy":
		return "Verify every number against the source; remove invented values."
	case "terminology-consistency":
		return "Replace introduced terms with the source document's vocabulary."
	case "vendor-accuracy":
		return "Remove competitor product references not present in the source."
	case "cli-syntax":
		return "Copy CLI commands verbatim from the source document."
	case "logical-consistency":
		return "Resolve contradictory statements and renumber steps."
	case "completeness":
		return "Regenerate the truncated or placeholder sections."
	default:
		return ""
	}
}

func clampScore(s float64) float64 {
	if s < 0 {
		return 0
	}
	if s > 100 {
		return 100
	}
	return s
}
