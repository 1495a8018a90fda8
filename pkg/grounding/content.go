package grounding

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/mindsparkle/docintel/pkg/profile"
)

// Confidence penalties applied by ValidateContent. These are tunable
// policy, not calibrated constants.
const (
	penaltyMissingNumber  = 0.05
	penaltyMissingVersion = 0.10
	penaltyMissingProduct = 0.05
	penaltyContradiction  = 0.15
)

// ContentCheck is the outcome of the lightweight hallucination heuristics.
// The heuristics bound confidence; they do not prove correctness.
type ContentCheck struct {
	Confidence float64  `json:"confidence"`
	Issues     []string `json:"issues,omitempty"`
}

var (
	integerRe   = regexp.MustCompile(`\b\d+\b`)
	versionRe   = regexp.MustCompile(`\bv?\d+\.\d+(?:[.\w()]*)?\b`)
	camelCaseRe = regexp.MustCompile(`\b[A-Z][a-z]+(?:[A-Z][a-z]+)+\b`)
	sentenceRe  = regexp.MustCompile(`[.!?\n]+`)
)

// oppositePairs flag likely self-contradiction when both words appear in
// sentences sharing a subject.
var oppositePairs = [][2]string{
	{"always", "never"},
	{"enable", "disable"},
	{"enabled", "disabled"},
	{"allow", "deny"},
	{"allowed", "denied"},
	{"permit", "deny"},
	{"required", "optional"},
	{"increase", "decrease"},
	{"true", "false"},
}

var sharedNounStopwords = map[string]bool{
	"about": true, "after": true, "again": true, "before": true,
	"between": true, "could": true, "every": true, "first": true,
	"other": true, "should": true, "their": true, "there": true,
	"these": true, "thing": true, "those": true, "through": true,
	"using": true, "where": true, "which": true, "while": true,
	"would": true,
}

// ValidateContent runs the lightweight grounding heuristics: numeric and
// version tokens must appear in the source, CamelCase product names must
// appear in the source, and opposite-word pairs sharing a subject are
// flagged as contradictions. Confidence starts at 1.0 and each finding
// subtracts its penalty, floored at 0. The vendor profile is accepted for
// signature symmetry with the full validation layer; the light checks are
// vendor-independent.
func ValidateContent(generated, source string, _ *profile.Profile) ContentCheck {
	check := ContentCheck{Confidence: 1.0}
	penalize := func(amount float64, format string, args ...any) {
		check.Confidence -= amount
		if check.Confidence < 0 {
			check.Confidence = 0
		}
		check.Issues = append(check.Issues, fmt.Sprintf(format, args...))
	}

	sourceVersions := stringSet(versionRe.FindAllString(source, -1))
	genVersions := versionRe.FindAllString(generated, -1)
	for _, v := range dedupe(genVersions) {
		if !sourceVersions[v] {
			penalize(penaltyMissingVersion, "version %q not found in source", v)
		}
	}

	versionSpans := versionRe.FindAllStringIndex(generated, -1)
	sourceInts := stringSet(integerRe.FindAllString(source, -1))
	intSpans := integerRe.FindAllStringIndex(generated, -1)
	seenInts := map[string]bool{}
	for _, span := range intSpans {
		if insideAny(span, versionSpans) {
			continue
		}
		n := generated[span[0]:span[1]]
		if seenInts[n] {
			continue
		}
		seenInts[n] = true
		if !sourceInts[n] {
			penalize(penaltyMissingNumber, "number %q not found in source", n)
		}
	}

	sourceProducts := stringSet(camelCaseRe.FindAllString(source, -1))
	for _, p := range dedupe(camelCaseRe.FindAllString(generated, -1)) {
		if !sourceProducts[p] {
			penalize(penaltyMissingProduct, "product name %q not found in source", p)
		}
	}

	for _, pair := range oppositePairs {
		if noun, ok := contradictionSubject(generated, pair[0], pair[1]); ok {
			penalize(penaltyContradiction, "%q and %q both describe %q", pair[0], pair[1], noun)
		}
	}

	return check
}

// contradictionSubject looks for a significant word shared between a
// sentence containing a and a sentence containing b.
func contradictionSubject(text, a, b string) (string, bool) {
	sentences := sentenceRe.Split(strings.ToLower(text), -1)

	var withA, withB []string
	for _, s := range sentences {
		if containsWord(s, a) {
			withA = append(withA, s)
		}
		if containsWord(s, b) {
			withB = append(withB, s)
		}
	}
	if len(withA) == 0 || len(withB) == 0 {
		return "", false
	}

	for _, sa := range withA {
		nouns := significantWords(sa, a, b)
		for _, sb := range withB {
			if sa == sb {
				continue
			}
			for _, n := range nouns {
				if containsWord(sb, n) {
					return n, true
				}
			}
		}
	}
	return "", false
}

func significantWords(sentence, skipA, skipB string) []string {
	var out []string
	for _, w := range strings.FieldsFunc(sentence, func(r rune) bool {
		return !('a' <= r && r <= 'z')
	}) {
		if len(w) <= 4 || w == skipA || w == skipB || sharedNounStopwords[w] {
			continue
		}
		out = append(out, w)
	}
	return out
}

func containsWord(haystack, word string) bool {
	for start := 0; ; {
		idx := strings.Index(haystack[start:], word)
		if idx == -1 {
			return false
		}
		idx += start
		end := idx + len(word)
		beforeOK := idx == 0 || !isWordByte(haystack[idx-1])
		afterOK := end >= len(haystack) || !isWordByte(haystack[end])
		if beforeOK && afterOK {
			return true
		}
		start = idx + 1
	}
}

func isWordByte(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '_'
}

func insideAny(span []int, ranges [][]int) bool {
	for _, r := range ranges {
		if span[0] >= r[0] && span[1] <= r[1] {
			return true
		}
	}
	return false
}

func stringSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, it := range items {
		set[it] = true
	}
	return set
}

func dedupe(items []string) []string {
	seen := make(map[string]bool, len(items))
	var out []string
	for _, it := range items {
		if seen[it] {
			continue
		}
		seen[it] = true
		out = append(out, it)
	}
	return out
}
