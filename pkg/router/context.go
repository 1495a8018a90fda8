package router

import (
	"regexp"

	"github.com/mindsparkle/docintel/pkg/detect"
	"github.com/mindsparkle/docintel/pkg/modes"
)

// Complexity is the coarse difficulty tier of a document.
type Complexity string

const (
	ComplexityLow    Complexity = "low"
	ComplexityMedium Complexity = "medium"
	ComplexityHigh   Complexity = "high"
	ComplexityExpert Complexity = "expert"
)

func (c Complexity) rank() int {
	switch c {
	case ComplexityMedium:
		return 1
	case ComplexityHigh:
		return 2
	case ComplexityExpert:
		return 3
	default:
		return 0
	}
}

// AtLeast reports whether c is min or a higher tier.
func (c Complexity) AtLeast(min Complexity) bool {
	return c.rank() >= min.rank()
}

// CertTier is the certification level a document targets.
type CertTier string

const (
	CertTierNone         CertTier = ""
	CertTierEntry        CertTier = "entry"
	CertTierAssociate    CertTier = "associate"
	CertTierProfessional CertTier = "professional"
	CertTierExpert       CertTier = "expert"
)

// Context carries the signals one routing decision is made from. Built per
// request from the detection result and raw text, consumed immediately,
// never persisted.
type Context struct {
	VendorID        string
	Mode            modes.Mode
	ContentLength   int
	HasCLICommands  bool
	HasConfigBlocks bool
	Complexity      Complexity
	Certification   CertTier
}

// complexitySignal is one weighted pattern in the complexity score. The
// table is data so tier policy can change without touching the analyzer.
type complexitySignal struct {
	name   string
	re     *regexp.Regexp
	weight int
}

var complexitySignals = []complexitySignal{
	{
		name:   "architecture-terms",
		re:     regexp.MustCompile(`(?i)\b(?:architecture|topology|redundanc\w*|high availability|failover|scalab\w*|convergence|multicast|troubleshoot\w*|optimiz\w*|design considerations?)\b`),
		weight: 3,
	},
	{
		name:   "protocol-acronyms",
		re:     regexp.MustCompile(`\b(?:OSPF|BGP|EIGRP|IS-IS|MPLS|VXLAN|EVPN|STP|RSTP|HSRP|VRRP|LACP|IPsec|IKEv2|QoS|NAT|ACLs?|VLANs?|SNMP|NetFlow|GRE|DMVPN)\b`),
		weight: 2,
	},
	{
		name:   "cli-prompt-lines",
		re:     regexp.MustCompile(`(?m)^\s*[A-Za-z][\w.()/@-]*[>#]\s*\S+`),
		weight: 2,
	},
	{
		name:   "config-stanzas",
		re:     regexp.MustCompile(`(?s)\{[^{}]{40,}\}`),
		weight: 4,
	},
}

// Complexity tier thresholds over the weighted signal score.
const (
	complexityExpertScore = 30
	complexityHighScore   = 15
	complexityMediumScore = 5
)

// AnalyzeComplexity classifies text into a difficulty tier from weighted
// pattern hits.
func AnalyzeComplexity(text string) Complexity {
	score := 0
	for _, sig := range complexitySignals {
		hits := len(sig.re.FindAllStringIndex(text, -1))
		score += hits * sig.weight
	}

	switch {
	case score >= complexityExpertScore:
		return ComplexityExpert
	case score >= complexityHighScore:
		return ComplexityHigh
	case score >= complexityMediumScore:
		return ComplexityMedium
	default:
		return ComplexityLow
	}
}

// certTierPatterns are evaluated top tier first; the first hit wins.
var certTierPatterns = []struct {
	tier CertTier
	re   *regexp.Regexp
}{
	{
		tier: CertTierExpert,
		re:   regexp.MustCompile(`(?i)(?:\b(?:ccie|ccde|jncie|vcdx|rhca|pcnse)\b|\bcasp\+|\bnse ?8\b|\bf5-cse\b)`),
	},
	{
		tier: CertTierProfessional,
		re:   regexp.MustCompile(`(?i)(?:\b(?:ccnp|jncip|vcap|rhce|fcss)\b|\b(?:cysa|pentest)\+|\bnse ?7\b|\bprofessional cloud \w+|\baws certified [a-z ]+professional|\baz-(?:305|500)\b)`),
	},
	{
		tier: CertTierAssociate,
		re:   regexp.MustCompile(`(?i)(?:\b(?:ccna|jncia|vcp|rhcsa|pcnsa|fcp)\b|\b(?:security|network|linux|cloud|server|data)\+|\baz-104\b|\bassociate cloud engineer\b|\baws certified [a-z ]*associate\b|\bnse ?4\b)`),
	},
	{
		tier: CertTierEntry,
		re:   regexp.MustCompile(`(?i)(?:\b(?:ccst|pccet|fcf|fca)\b|\bitf\+|\ba\+ certification\b|\bcomptia a\+|\baz-900\b|\bsc-900\b|\bms-900\b|\bclf-c02\b|\bcloud practitioner\b|\bcloud essentials\b)`),
	},
}

// DetectCertificationTier returns the highest certification tier named in
// the text, or CertTierNone.
func DetectCertificationTier(text string) CertTier {
	for _, p := range certTierPatterns {
		if p.re.MatchString(text) {
			return p.tier
		}
	}
	return CertTierNone
}

var (
	cliPromptRe = regexp.MustCompile(`(?m)(?:^\s*[A-Za-z][\w.()/@-]*[>#]\s*\S+|^\s*\$\s+\w+)`)
	fencedRe    = regexp.MustCompile("(?m)^```")
	braceRe     = regexp.MustCompile(`(?s)\{[^{}]*\n[^{}]*\}`)
)

// BuildContext derives a routing context from a detection result, the
// requested mode, and the raw text.
func BuildContext(det detect.Result, mode modes.Mode, text string) Context {
	return Context{
		VendorID:        det.VendorID,
		Mode:            mode,
		ContentLength:   len(text),
		HasCLICommands:  len(det.MatchedPatterns) > 0 || cliPromptRe.MatchString(text),
		HasConfigBlocks: fencedRe.MatchString(text) || braceRe.MatchString(text),
		Complexity:      AnalyzeComplexity(text),
		Certification:   DetectCertificationTier(text),
	}
}
