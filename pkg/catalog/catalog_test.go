package catalog

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func TestDefaultCatalogValid(t *testing.T) {
	c, err := New(DefaultModels())
	if err != nil {
		t.Fatalf("New(DefaultModels()) error: %v", err)
	}

	def, err := c.Get(DefaultModelID)
	if err != nil {
		t.Fatalf("Get(%q) error: %v", DefaultModelID, err)
	}
	if !def.Available {
		t.Errorf("default model %q must be available", DefaultModelID)
	}
	if def.FallbackTo != "" {
		t.Errorf("default model %q must be terminal, falls back to %q", DefaultModelID, def.FallbackTo)
	}

	// Every chain must reach an available model.
	for _, m := range c.All() {
		if _, err := c.Resolve(m.ID); err != nil {
			t.Errorf("Resolve(%q) error: %v", m.ID, err)
		}
	}
}

func TestNewRejectsCycle(t *testing.T) {
	models := []ModelConfig{
		{ID: "a", Provider: "p", Available: true, FallbackTo: "b"},
		{ID: "b", Provider: "p", Available: true, FallbackTo: "c"},
		{ID: "c", Provider: "p", Available: true, FallbackTo: "a"},
	}
	_, err := New(models)
	if err == nil {
		t.Fatal("expected cycle rejection, got nil")
	}
	if !strings.Contains(err.Error(), "cycle") {
		t.Errorf("error %q does not mention cycle", err)
	}
}

func TestNewRejectsSelfCycle(t *testing.T) {
	models := []ModelConfig{
		{ID: "a", Provider: "p", Available: true, FallbackTo: "a"},
	}
	if _, err := New(models); err == nil {
		t.Fatal("expected self-cycle rejection, got nil")
	}
}

func TestNewRejectsDanglingFallback(t *testing.T) {
	models := []ModelConfig{
		{ID: "a", Provider: "p", Available: true, FallbackTo: "ghost"},
	}
	_, err := New(models)
	if err == nil {
		t.Fatal("expected dangling fallback rejection, got nil")
	}
	if !strings.Contains(err.Error(), "ghost") {
		t.Errorf("error %q does not name the missing model", err)
	}
}

func TestNewRejectsDuplicateID(t *testing.T) {
	models := []ModelConfig{
		{ID: "a", Provider: "p", Available: true},
		{ID: "a", Provider: "q", Available: true},
	}
	if _, err := New(models); err == nil {
		t.Fatal("expected duplicate id rejection, got nil")
	}
}

func TestResolveSkipsUnavailable(t *testing.T) {
	c := MustNew([]ModelConfig{
		{ID: "primary", Provider: "p", Available: false, FallbackTo: "secondary"},
		{ID: "secondary", Provider: "p", Available: false, FallbackTo: "tertiary"},
		{ID: "tertiary", Provider: "p", Available: true},
	})

	got, err := c.Resolve("primary")
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if got.ID != "tertiary" {
		t.Errorf("Resolve = %q, want tertiary", got.ID)
	}
}

func TestResolveExhaustedChain(t *testing.T) {
	c := MustNew([]ModelConfig{
		{ID: "primary", Provider: "p", Available: false, FallbackTo: "secondary"},
		{ID: "secondary", Provider: "p", Available: false},
	})

	_, err := c.Resolve("primary")
	if !errors.Is(err, ErrNoAvailableModel) {
		t.Errorf("Resolve error = %v, want ErrNoAvailableModel", err)
	}
}

func TestResolveUnknown(t *testing.T) {
	c := Default()
	_, err := c.Resolve("no-such-model")
	if !errors.Is(err, ErrModelNotFound) {
		t.Errorf("Resolve error = %v, want ErrModelNotFound", err)
	}
}

func TestFallbackList(t *testing.T) {
	c := MustNew([]ModelConfig{
		{ID: "a", Provider: "p", Available: true, FallbackTo: "b"},
		{ID: "b", Provider: "p", Available: false, FallbackTo: "c"},
		{ID: "c", Provider: "p", Available: true, FallbackTo: "d"},
		{ID: "d", Provider: "p", Available: true},
	})

	got := c.FallbackList("a")
	want := []string{"c", "d"}
	if len(got) != len(want) {
		t.Fatalf("FallbackList = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("FallbackList[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	if list := c.FallbackList("d"); len(list) != 0 {
		t.Errorf("FallbackList(terminal) = %v, want empty", list)
	}
	if list := c.FallbackList("ghost"); list != nil {
		t.Errorf("FallbackList(unknown) = %v, want nil", list)
	}
}

func TestEstimateTokens(t *testing.T) {
	tests := []struct {
		content string
		want    int
	}{
		{"", 0},
		{"abcd", 1},
		{strings.Repeat("x", 4000), 1000},
		{"abc", 0},
	}
	for _, tt := range tests {
		if got := EstimateTokens(tt.content); got != tt.want {
			t.Errorf("EstimateTokens(%d chars) = %d, want %d", len(tt.content), got, tt.want)
		}
	}
}

func TestEstimateCost(t *testing.T) {
	c := MustNew([]ModelConfig{
		{ID: "m", Provider: "p", Available: true, CostPer1KIn: 0.01, CostPer1KOut: 0.03},
	})

	// 2000 input tokens: 2.0 * 0.01 + 1.0 * 0.03 = 0.05.
	got := c.EstimateCost("m", 2000)
	if math.Abs(got-0.05) > 1e-9 {
		t.Errorf("EstimateCost = %v, want 0.05", got)
	}

	if got := c.EstimateCost("ghost", 2000); got != 0 {
		t.Errorf("EstimateCost(unknown) = %v, want 0", got)
	}
}
