package grounding

import (
	"regexp"
	"strings"
)

// ExtractCLICommands returns the lines of text matching the engine's vendor
// CLI patterns, trimmed and deduplicated in order of first appearance.
func (e *Engine) ExtractCLICommands(text string) []string {
	if len(e.profile.CLIPatterns) == 0 {
		return nil
	}

	var out []string
	seen := map[string]bool{}
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || seen[trimmed] {
			continue
		}
		for _, re := range e.profile.CLIPatterns {
			if re.MatchString(line) {
				seen[trimmed] = true
				out = append(out, trimmed)
				break
			}
		}
	}
	return out
}

var (
	fencedBlockRe = regexp.MustCompile("(?s)```[a-zA-Z0-9_-]*\n(.*?)```")
	braceBlockRe  = regexp.MustCompile(`(?m)^[ \t]*[\w-][^\n{]*\{[^{}]*(?:\n[^{}]*)*?\}`)
)

// ExtractConfigBlocks returns fenced code blocks and brace-delimited
// stanzas found in text, deduplicated in order of first appearance.
func ExtractConfigBlocks(text string) []string {
	var out []string
	seen := map[string]bool{}

	add := func(block string) {
		block = strings.TrimSpace(block)
		if block == "" || seen[block] {
			return
		}
		seen[block] = true
		out = append(out, block)
	}

	for _, m := range fencedBlockRe.FindAllStringSubmatch(text, -1) {
		add(m[1])
	}
	// Strip fenced regions before brace scanning so a stanza inside a
	// fence is not reported twice.
	stripped := fencedBlockRe.ReplaceAllString(text, "")
	for _, m := range braceBlockRe.FindAllString(stripped, -1) {
		add(m)
	}

	return out
}
