package validation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Quick-path penalties per finding.
const (
	quickNumericPenalty = 5.0
	quickProductPenalty = 5.0
)

var (
	numericRe  = regexp.MustCompile(`\b\d+(?:\.\d+)?[a-zA-Z%]*`)
	productRe  = regexp.MustCompile(`\b[A-Z][a-z]+(?:[A-Z][a-z0-9]+)+\b`)
	wordRe     = regexp.MustCompile(`[A-Za-z0-9][A-Za-z0-9_-]*`)
	capTermRe  = regexp.MustCompile(`^[A-Z][A-Za-z0-9-]{3,}$`)
	cliLineRe  = regexp.MustCompile(`^\s*(?:[A-Za-z][\w.()/@-]*[>#]\s*\S.*|\$\s+\w.*)$`)
	stepRe     = regexp.MustCompile(`(?mi)^\s*step\s+(\d+)\b`)
	sentenceRe = regexp.MustCompile(`[.!?\n]+`)
	spaceRe    = regexp.MustCompile(`\s+`)
)

// oppositeWordPairs flag likely self-contradiction when both words appear
// in sentences sharing a subject.
var oppositeWordPairs = [][2]string{
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

var stopwords = map[string]bool{
	"about": true, "after": true, "again": true, "before": true,
	"between": true, "could": true, "every": true, "first": true,
	"other": true, "should": true, "their": true, "there": true,
	"these": true, "thing": true, "those": true, "through": true,
	"using": true, "where": true, "which": true, "while": true,
	"would": true,
}

// placeholderMarkers are tokens that indicate the model emitted scaffolding
// instead of content.
var placeholderMarkers = []string{
	"[insert",
	"[placeholder",
	"[todo",
	"[tbd",
	"lorem ipsum",
	"to be added",
	"fill in the",
	"coming soon",
	"[content continues",
	"rest of the document",
	"[truncated",
	"[continued",
}

// danglingEndings are suffixes that indicate a mid-sentence cutoff.
var danglingEndings = []string{
	",", ";", ":", "(",
	" and", " or", " the", " to", " of", " with", " for",
}

// checkInput carries the per-run precomputed views shared by all checks.
type checkInput struct {
	generated string
	source    string
	genLower  string
	srcLower  string
	srcNorm   string
	prof      *vendorProfileView
	sentences []string
	srcWords  map[string]bool
	srcNums   map[string]bool
}

// vendorProfileView is the slice of a vendor profile the checks need.
type vendorProfileView struct {
	id          string
	cliPatterns []*regexp.Regexp
}

func newCheckInput(generated, source string, prof *vendorProfileView) *checkInput {
	return &checkInput{
		generated: generated,
		source:    source,
		genLower:  strings.ToLower(generated),
		srcLower:  strings.ToLower(source),
		srcNorm:   normalizeSpace(strings.ToLower(source)),
		prof:      prof,
		sentences: splitSentences(generated),
		srcWords:  lowerWordSet(source),
		srcNums:   numericTokenSet(source),
	}
}

// === grounding ===

func checkSourceGrounding(in *checkInput) (bool, float64, string) {
	claims := claimSentences(in.sentences)
	if len(claims) == 0 {
		return true, 100, "no claims to ground"
	}

	grounded := 0
	for _, claim := range claims {
		if strings.Contains(in.srcNorm, normalizeSpace(strings.ToLower(claim))) {
			grounded++
			continue
		}
		if keywordOverlap(keywordsOf(claim), in.srcWords) >= fuzzyOverlap {
			grounded++
		}
	}

	score := float64(grounded) / float64(len(claims)) * 100
	if score >= groundingPassScore {
		return true, score, fmt.Sprintf("%d of %d claims grounded", grounded, len(claims))
	}
	return false, score, fmt.Sprintf("%d of %d claims not grounded in source", len(claims)-grounded, len(claims))
}

func checkFactualAccuracy(in *checkInput) (bool, float64, string) {
	var sum float64
	verified := 0
	n := 0
	for _, s := range in.sentences {
		kw := keywordsOf(s)
		if len(kw) == 0 {
			continue
		}
		ratio := keywordOverlap(kw, in.srcWords)
		sum += ratio
		if ratio >= fuzzyOverlap {
			verified++
		}
		n++
	}
	if n == 0 {
		return true, 100, "no sentences to verify"
	}

	score := sum / float64(n) * 100
	if score >= accuracyPassScore {
		return true, score, fmt.Sprintf("%d of %d sentences verified against source", verified, n)
	}
	return false, score, fmt.Sprintf("%d of %d sentences diverge from source vocabulary", n-verified, n)
}

// === accuracy ===

func checkNumericalAccuracy(in *checkInput) (bool, float64, string) {
	tokens := numericTokens(in.generated)
	if len(tokens) == 0 {
		return true, 100, "no numeric values present"
	}

	var missing []string
	for _, tok := range tokens {
		if !in.srcNums[tok] {
			missing = append(missing, tok)
		}
	}

	score := float64(len(tokens)-len(missing)) / float64(len(tokens)) * 100
	if len(missing) == 0 {
		return true, score, fmt.Sprintf("all %d numeric values grounded", len(tokens))
	}
	return false, score, "numbers not in source: " + strings.Join(capStrings(missing, 5), ", ")
}

// === terminology ===

func checkTerminology(in *checkInput) (bool, float64, string) {
	terms := capitalizedTerms(in.sentences)
	if len(terms) == 0 {
		return true, 100, "no technical terms introduced"
	}

	var missing []string
	for _, term := range terms {
		if !in.srcWords[strings.ToLower(term)] {
			missing = append(missing, term)
		}
	}

	score := float64(len(terms)-len(missing)) / float64(len(terms)) * 100
	if score >= terminologyPassScore {
		return true, score, fmt.Sprintf("%d of %d terms consistent with source", len(terms)-len(missing), len(terms))
	}
	return false, score, "terms not in source: " + strings.Join(capStrings(missing, 5), ", ")
}

// === vendor ===

func checkVendorAccuracy(in *checkInput) (bool, float64, string) {
	var leaks []string
	for _, term := range competitorTerms[in.prof.id] {
		if phraseInText(in.genLower, term) && !phraseInText(in.srcLower, term) {
			leaks = append(leaks, term)
		}
	}

	if len(leaks) == 0 {
		return true, 100, "no competitor leakage"
	}
	score := clampScore(100 - 25*float64(len(leaks)))
	return false, score, "competitor terms not in source: " + strings.Join(leaks, ", ")
}

// === cli ===

func checkCLISyntax(in *checkInput) (bool, float64, string) {
	var lines []string
	for _, line := range strings.Split(in.generated, "\n") {
		if cliLineRe.MatchString(line) {
			lines = append(lines, strings.TrimSpace(line))
		}
	}
	lines = dedupeStrings(lines)
	if len(lines) == 0 {
		return true, 100, "no CLI commands present"
	}

	var invalid []string
	for _, line := range lines {
		if strings.Contains(in.source, line) {
			continue
		}
		if in.prof != nil && matchesAnyPattern(line, in.prof.cliPatterns) {
			continue
		}
		invalid = append(invalid, line)
	}

	score := float64(len(lines)-len(invalid)) / float64(len(lines)) * 100
	if len(invalid) == 0 {
		return true, score, fmt.Sprintf("all %d CLI lines valid", len(lines))
	}
	return false, score, "CLI lines neither in source nor vendor syntax: " + strings.Join(capStrings(invalid, 3), " | ")
}

// === logic ===

func checkLogicalConsistency(in *checkInput) (bool, float64, string) {
	var issues []string
	contradictions := 0
	for _, pair := range oppositeWordPairs {
		if noun, ok := selfContradiction(in.sentences, pair[0], pair[1]); ok {
			contradictions++
			issues = append(issues, fmt.Sprintf("%q and %q both describe %q", pair[0], pair[1], noun))
		}
	}

	gaps := stepNumberingGaps(in.generated)
	if gaps > 0 {
		issues = append(issues, fmt.Sprintf("%d gap(s) in step numbering", gaps))
	}

	if len(issues) == 0 {
		return true, 100, "no contradictions or numbering gaps"
	}
	score := clampScore(100 - 20*float64(contradictions) - 10*float64(gaps))
	return false, score, strings.Join(issues, "; ")
}

// === completeness ===

func checkCompleteness(in *checkInput) (bool, float64, string) {
	var issues []string
	markers := 0
	for _, marker := range placeholderMarkers {
		if strings.Contains(in.genLower, marker) {
			markers++
			issues = append(issues, "placeholder text "+strconv.Quote(marker))
		}
	}

	truncated := false
	trimmed := strings.TrimRight(in.genLower, " \t\n")
	for _, suffix := range danglingEndings {
		if strings.HasSuffix(trimmed, suffix) {
			truncated = true
			issues = append(issues, "output ends mid-sentence")
			break
		}
	}

	if len(issues) == 0 {
		return true, 100, "output complete"
	}
	score := 100 - 30*float64(markers)
	if truncated {
		score -= 20
	}
	return false, clampScore(score), strings.Join(issues, "; ")
}

// === text helpers ===

func splitSentences(text string) []string {
	var out []string
	for _, s := range sentenceRe.Split(text, -1) {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// claimSentences filters sentences down to ones long enough to carry a
// verifiable claim.
func claimSentences(sentences []string) []string {
	var out []string
	for _, s := range sentences {
		if len(strings.Fields(s)) >= 4 {
			out = append(out, s)
		}
	}
	return out
}

func keywordsOf(s string) []string {
	var out []string
	seen := map[string]bool{}
	for _, w := range wordRe.FindAllString(strings.ToLower(s), -1) {
		if len(w) <= 3 || seen[w] {
			continue
		}
		seen[w] = true
		out = append(out, w)
	}
	return out
}

func keywordOverlap(words []string, set map[string]bool) float64 {
	if len(words) == 0 {
		return 1.0
	}
	hits := 0
	for _, w := range words {
		if set[w] {
			hits++
		}
	}
	return float64(hits) / float64(len(words))
}

func lowerWordSet(text string) map[string]bool {
	set := map[string]bool{}
	for _, w := range wordRe.FindAllString(strings.ToLower(text), -1) {
		set[w] = true
	}
	return set
}

func numericTokens(text string) []string {
	var out []string
	seen := map[string]bool{}
	for _, tok := range numericRe.FindAllString(text, -1) {
		tok = strings.ToLower(tok)
		if seen[tok] {
			continue
		}
		seen[tok] = true
		out = append(out, tok)
	}
	return out
}

func numericTokenSet(text string) map[string]bool {
	set := map[string]bool{}
	for _, tok := range numericRe.FindAllString(text, -1) {
		set[strings.ToLower(tok)] = true
	}
	return set
}

func productNames(text string) []string {
	return dedupeStrings(productRe.FindAllString(text, -1))
}

// capitalizedTerms collects capitalized words that are not sentence-initial,
// so ordinary sentence openers do not count as technical terms.
func capitalizedTerms(sentences []string) []string {
	var out []string
	seen := map[string]bool{}
	for _, s := range sentences {
		fields := strings.Fields(s)
		for i, f := range fields {
			if i == 0 {
				continue
			}
			term := strings.Trim(f, ".,;:()[]{}\"'!?*#`")
			if !capTermRe.MatchString(term) || seen[term] {
				continue
			}
			seen[term] = true
			out = append(out, term)
		}
	}
	return out
}

func selfContradiction(sentences []string, a, b string) (string, bool) {
	var withA, withB []string
	for _, s := range sentences {
		ls := strings.ToLower(s)
		if phraseInText(ls, a) {
			withA = append(withA, ls)
		}
		if phraseInText(ls, b) {
			withB = append(withB, ls)
		}
	}
	if len(withA) == 0 || len(withB) == 0 {
		return "", false
	}

	for _, sa := range withA {
		var nouns []string
		for _, w := range wordRe.FindAllString(sa, -1) {
			if len(w) <= 4 || w == a || w == b || stopwords[w] {
				continue
			}
			nouns = append(nouns, w)
		}
		for _, sb := range withB {
			if sa == sb {
				continue
			}
			for _, n := range nouns {
				if phraseInText(sb, n) {
					return n, true
				}
			}
		}
	}
	return "", false
}

func stepNumberingGaps(text string) int {
	gaps := 0
	prev := 0
	for _, m := range stepRe.FindAllStringSubmatch(text, -1) {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		switch {
		case n == 1:
			prev = 1
		case n == prev+1:
			prev = n
		case n > prev+1:
			gaps++
			prev = n
		default:
			prev = n
		}
	}
	return gaps
}

// phraseInText reports whether phrase occurs in haystack bounded by
// non-word characters on both sides.
func phraseInText(haystack, phrase string) bool {
	for start := 0; ; {
		idx := strings.Index(haystack[start:], phrase)
		if idx == -1 {
			return false
		}
		idx += start
		end := idx + len(phrase)
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

func matchesAnyPattern(line string, patterns []*regexp.Regexp) bool {
	for _, p := range patterns {
		if p.MatchString(line) {
			return true
		}
	}
	return false
}

func normalizeSpace(s string) string {
	return spaceRe.ReplaceAllString(strings.TrimSpace(s), " ")
}

func dedupeStrings(items []string) []string {
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

func capStrings(items []string, n int) []string {
	if len(items) <= n {
		return items
	}
	return items[:n]
}
