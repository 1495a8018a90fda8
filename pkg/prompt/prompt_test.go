package prompt

import (
	"strings"
	"testing"

	"github.com/mindsparkle/docintel/pkg/grounding"
	"github.com/mindsparkle/docintel/pkg/modes"
	"github.com/mindsparkle/docintel/pkg/profile"
)

func testBuilder(t *testing.T) *Builder {
	t.Helper()
	reg, err := profile.NewRegistry(profile.Builtin())
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	return NewBuilder(reg)
}

func TestBuildStudyPrompt(t *testing.T) {
	b := testBuilder(t)

	got, err := b.Build(Config{
		Mode:     modes.ModeStudy,
		VendorID: "cisco",
		Model:    "claude-sonnet-4-20250514",
	}, "OSPF adjacency requires matching hello timers.")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if got.Model != "claude-sonnet-4-20250514" {
		t.Errorf("Model = %q", got.Model)
	}
	if got.Temperature != 0.3 {
		t.Errorf("Temperature = %v, want 0.3", got.Temperature)
	}
	if got.MaxTokens != 8192 {
		t.Errorf("MaxTokens = %d, want 8192", got.MaxTokens)
	}
	if !strings.Contains(got.System, grounding.ClausePreserveCLI) {
		t.Error("system prompt missing the CLI preservation clause")
	}
	if !strings.Contains(got.System, "## Review Questions") {
		t.Error("system prompt missing study structure")
	}
	if !strings.Contains(got.User, "OSPF adjacency requires matching hello timers.") {
		t.Error("user prompt missing document content")
	}
	if !strings.Contains(got.User, "study guide") {
		t.Error("user prompt missing task statement")
	}
}

func TestBuildModeParameters(t *testing.T) {
	b := testBuilder(t)

	tests := []struct {
		mode     modes.Mode
		wantTemp float64
		wantJSON bool
	}{
		{modes.ModeStudy, 0.3, false},
		{modes.ModeQuiz, 0.3, true},
		{modes.ModeInterview, 0.6, false},
		{modes.ModeVideo, 0.7, false},
		{modes.ModeLabs, 0.3, false},
		{modes.ModeSummary, 0.4, false},
		{modes.ModeFlashcards, 0.3, true},
	}

	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			got, err := b.Build(Config{Mode: tt.mode, VendorID: "generic", Model: "m"}, "content")
			if err != nil {
				t.Fatalf("Build: %v", err)
			}
			if got.Temperature != tt.wantTemp {
				t.Errorf("Temperature = %v, want %v", got.Temperature, tt.wantTemp)
			}
			hasJSON := strings.Contains(got.System, "Respond ONLY with JSON")
			if hasJSON != tt.wantJSON {
				t.Errorf("JSON contract present = %v, want %v", hasJSON, tt.wantJSON)
			}
			if got.MaxTokens <= 0 {
				t.Errorf("MaxTokens = %d, want > 0", got.MaxTokens)
			}
		})
	}
}

func TestBuildTruncatesToBudget(t *testing.T) {
	b := testBuilder(t)

	long := strings.Repeat("flashcard source text. ", 2000) // ~46k chars
	got, err := b.Build(Config{Mode: modes.ModeFlashcards, VendorID: "generic", Model: "m"}, long)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	budget := CharBudget(modes.ModeFlashcards)
	if budget != 20000 {
		t.Fatalf("CharBudget = %d, want 20000", budget)
	}
	// The user prompt holds the task text plus the truncated document.
	if len(got.User) > budget+1000 {
		t.Errorf("user prompt length %d exceeds budget %d plus scaffolding", len(got.User), budget)
	}
}

func TestTruncateRuneSafe(t *testing.T) {
	s := strings.Repeat("é", 100) // 2 bytes each
	got := truncate(s, 101)
	if len(got) != 100 {
		t.Errorf("truncate split a rune: got %d bytes", len(got))
	}
	if got != strings.Repeat("é", 50) {
		t.Error("truncate returned invalid content")
	}

	if truncate("short", 100) != "short" {
		t.Error("truncate modified content under the limit")
	}
}

func TestBuildUnknownModeAndVendor(t *testing.T) {
	b := testBuilder(t)

	if _, err := b.Build(Config{Mode: modes.Mode("essay"), VendorID: "generic"}, "x"); err == nil {
		t.Error("unknown mode must fail")
	}
	if _, err := b.Build(Config{Mode: modes.ModeStudy, VendorID: "oracle"}, "x"); err == nil {
		t.Error("unknown vendor must fail")
	}
}

func TestBuildQuizGrounding(t *testing.T) {
	b := testBuilder(t)

	got, err := b.Build(Config{Mode: modes.ModeQuiz, VendorID: "juniper", Model: "m"}, "Junos commit model.")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !strings.Contains(got.System, grounding.ClauseStrictGrounding) {
		t.Error("quiz system prompt missing strict grounding clause")
	}
	if !strings.Contains(got.User, "answerable from the document alone") {
		t.Error("quiz user prompt missing grounding requirement")
	}
}
