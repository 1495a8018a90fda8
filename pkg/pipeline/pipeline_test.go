package pipeline

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/mindsparkle/docintel/pkg/adapter"
	"github.com/mindsparkle/docintel/pkg/grounding"
	"github.com/mindsparkle/docintel/pkg/modes"
)

const testSource = `OSPF neighbors exchange hello packets every 10 seconds.
Router# show ip ospf neighbor
The dead interval defaults to 40 seconds.`

// scriptedGen fails the call numbers listed in fail (1-based) and echoes
// the call number and model for the rest, so tests can trace which model
// served which pass.
type scriptedGen struct {
	calls []adapter.Request
	fail  map[int]error
}

func (g *scriptedGen) Generate(_ context.Context, req adapter.Request) (*adapter.Response, error) {
	g.calls = append(g.calls, req)
	n := len(g.calls)
	if err, ok := g.fail[n]; ok {
		return nil, err
	}
	return &adapter.Response{
		Text:  fmt.Sprintf("pass output %d from %s", n, req.Model),
		Model: req.Model,
		Usage: adapter.Usage{PromptTokens: 100, CompletionTokens: 50},
	}, nil
}

func testRequest() Request {
	return Request{
		Source:   testSource,
		Mode:     modes.ModeStudy,
		VendorID: "cisco",
		Model:    "mock-1",
		Provider: "mock",
	}
}

func hasWarning(res *Result, substr string) bool {
	for _, w := range res.Warnings {
		if strings.Contains(w, substr) {
			return true
		}
	}
	return false
}

func TestProcessRunsAllPasses(t *testing.T) {
	gen := &scriptedGen{}
	p := New(gen, nil)

	res, err := p.Process(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("process: %v", err)
	}

	if !res.Success {
		t.Error("expected success")
	}
	if len(res.Passes) != 4 {
		t.Fatalf("expected 4 passes, got %d", len(res.Passes))
	}
	wantOrder := []string{PassExtraction, PassEnrichment, PassValidation, PassFormatting}
	for i, pass := range res.Passes {
		if pass.Name != wantOrder[i] {
			t.Errorf("pass %d = %q, want %q", i, pass.Name, wantOrder[i])
		}
		if pass.Status != StatusCompleted {
			t.Errorf("pass %s status = %q, want %q", pass.Name, pass.Status, StatusCompleted)
		}
	}
	if res.FinalOutput != "pass output 4 from mock-1" {
		t.Errorf("final output = %q", res.FinalOutput)
	}
	if res.Validation == nil {
		t.Fatal("expected a validation report")
	}
	if res.Metadata.ValidationScore != res.Validation.OverallScore {
		t.Errorf("metadata score %.1f != report score %.1f",
			res.Metadata.ValidationScore, res.Validation.OverallScore)
	}
	if res.Metadata.TokensUsed != 600 {
		t.Errorf("tokens used = %d, want 600", res.Metadata.TokensUsed)
	}
	if res.Metadata.PassCount != 4 {
		t.Errorf("pass count = %d, want 4", res.Metadata.PassCount)
	}
	if res.Metadata.Model != "mock-1" || res.Metadata.Vendor != "cisco" {
		t.Errorf("metadata model/vendor = %q/%q", res.Metadata.Model, res.Metadata.Vendor)
	}
	if len(res.Metadata.FallbacksUsed) != 0 {
		t.Errorf("unexpected fallbacks: %v", res.Metadata.FallbacksUsed)
	}
	if res.Passes[0].ValidationScore == 0 {
		t.Error("extraction pass missing a quick validation score")
	}
	if res.Passes[2].ValidationScore != 0 {
		t.Error("self-review pass should not carry a quick validation score")
	}

	if len(gen.calls) != 4 {
		t.Fatalf("expected 4 generator calls, got %d", len(gen.calls))
	}
	if !strings.Contains(gen.calls[0].Prompt, "hello packets every 10 seconds") {
		t.Error("extraction prompt missing source text")
	}
	if !strings.Contains(gen.calls[0].System, grounding.ClausePreserveCLI) {
		t.Error("extraction system prompt missing CLI preservation clause")
	}
	if !strings.Contains(gen.calls[1].Prompt, "pass output 1 from mock-1") {
		t.Error("enrichment prompt missing extraction output")
	}
	if !strings.Contains(gen.calls[3].System, "## Overview") {
		t.Error("formatting system prompt missing mode structure")
	}
	if !strings.Contains(gen.calls[3].Prompt, "pass output 3 from mock-1") {
		t.Error("formatting prompt missing review findings")
	}
}

func TestProcessExtractionFailureIsFatal(t *testing.T) {
	gen := &scriptedGen{fail: map[int]error{1: errors.New("model unavailable")}}
	p := New(gen, nil)

	res, err := p.Process(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("process: %v", err)
	}

	if res.Success {
		t.Error("expected failure")
	}
	if len(gen.calls) != 1 {
		t.Errorf("expected 1 generator call, got %d", len(gen.calls))
	}
	if res.Passes[0].Status != StatusFailed {
		t.Errorf("first pass status = %q, want %q", res.Passes[0].Status, StatusFailed)
	}
	if !strings.Contains(res.Passes[0].Err, "model unavailable") {
		t.Errorf("first pass error = %q", res.Passes[0].Err)
	}
	for _, pass := range res.Passes[1:] {
		if pass.Status != StatusPending {
			t.Errorf("pass %s status = %q, want pending", pass.Name, pass.Status)
		}
	}
	if res.FinalOutput != "" {
		t.Errorf("unexpected final output %q", res.FinalOutput)
	}
	if res.Validation != nil {
		t.Error("unexpected validation report")
	}
	if !hasWarning(res, "extraction pass failed") {
		t.Errorf("missing fatal warning, got %v", res.Warnings)
	}
}

func TestProcessFormattingFailureFallsBack(t *testing.T) {
	gen := &scriptedGen{fail: map[int]error{4: errors.New("overloaded")}}
	p := New(gen, nil)

	res, err := p.Process(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("process: %v", err)
	}

	if !res.Success {
		t.Error("expected success despite formatting failure")
	}
	if res.Passes[3].Status != StatusFailed {
		t.Errorf("formatting status = %q, want failed", res.Passes[3].Status)
	}
	if res.FinalOutput != "pass output 2 from mock-1" {
		t.Errorf("final output = %q, want the enrichment result", res.FinalOutput)
	}
	if !hasWarning(res, "formatting pass failed") {
		t.Errorf("missing degradation warning, got %v", res.Warnings)
	}
}

func TestProcessEnrichmentFailureContinues(t *testing.T) {
	gen := &scriptedGen{fail: map[int]error{2: errors.New("overloaded")}}
	p := New(gen, nil)

	res, err := p.Process(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("process: %v", err)
	}

	if !res.Success {
		t.Error("expected success")
	}
	if res.Passes[1].Status != StatusFailed {
		t.Errorf("enrichment status = %q, want failed", res.Passes[1].Status)
	}
	if res.Passes[2].Status != StatusCompleted || res.Passes[3].Status != StatusCompleted {
		t.Error("later passes should still run")
	}

	// Review and formatting get the extraction output; the enrichment
	// section disappears entirely.
	review := gen.calls[2]
	if !strings.Contains(review.Prompt, "pass output 1 from mock-1") {
		t.Error("review prompt missing extraction output")
	}
	if strings.Contains(review.Prompt, "Enrichment:") {
		t.Error("review prompt should not have an enrichment section")
	}
	if res.FinalOutput != "pass output 4 from mock-1" {
		t.Errorf("final output = %q", res.FinalOutput)
	}
}

func TestProcessFallbackModels(t *testing.T) {
	gen := &scriptedGen{fail: map[int]error{
		1: &adapter.AdapterError{Status: 429, Err: errors.New("rate limited")},
	}}
	p := New(gen, nil)

	req := testRequest()
	req.Fallbacks = []string{"mock-2", "mock-3"}
	res, err := p.Process(context.Background(), req)
	if err != nil {
		t.Fatalf("process: %v", err)
	}

	if !res.Success {
		t.Error("expected success")
	}
	if res.Passes[0].Status != StatusCompleted {
		t.Errorf("extraction status = %q", res.Passes[0].Status)
	}
	if res.Passes[0].Result != "pass output 2 from mock-2" {
		t.Errorf("extraction result = %q", res.Passes[0].Result)
	}
	if got := res.Metadata.FallbacksUsed; len(got) != 1 || got[0] != "mock-2" {
		t.Errorf("fallbacks used = %v, want [mock-2]", got)
	}
	// The model chain resets for the next pass.
	if gen.calls[2].Model != "mock-1" {
		t.Errorf("enrichment model = %q, want mock-1", gen.calls[2].Model)
	}
}

func TestProcessRequestErrors(t *testing.T) {
	tests := []struct {
		name string
		req  Request
	}{
		{"empty source", Request{Mode: modes.ModeStudy, VendorID: "cisco", Model: "mock-1"}},
		{"missing model", Request{Source: testSource, Mode: modes.ModeStudy, VendorID: "cisco"}},
		{"unknown vendor", Request{Source: testSource, Mode: modes.ModeStudy, VendorID: "acme", Model: "mock-1"}},
		{"unknown mode", Request{Source: testSource, Mode: modes.Mode("bogus"), VendorID: "cisco", Model: "mock-1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(&scriptedGen{}, nil)
			if _, err := p.Process(context.Background(), tt.req); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestProcessEmptyVendorUsesGeneric(t *testing.T) {
	gen := &scriptedGen{}
	p := New(gen, nil)

	req := testRequest()
	req.VendorID = ""
	res, err := p.Process(context.Background(), req)
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if !res.Success {
		t.Error("expected success")
	}
	if res.Metadata.Vendor != "generic" {
		t.Errorf("vendor = %q, want generic", res.Metadata.Vendor)
	}
}

func TestProcessContextCanceledStopsFallbackChain(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	gen := GeneratorFunc(func(ctx context.Context, _ adapter.Request) (*adapter.Response, error) {
		calls++
		return nil, ctx.Err()
	})
	p := New(gen, nil)

	req := testRequest()
	req.Fallbacks = []string{"mock-2", "mock-3"}
	res, err := p.Process(ctx, req)
	if err != nil {
		t.Fatalf("process: %v", err)
	}

	if res.Success {
		t.Error("expected failure")
	}
	if calls != 1 {
		t.Errorf("expected 1 generator call before stopping, got %d", calls)
	}
}

func TestAddPassInsertsAtPosition(t *testing.T) {
	gen := &scriptedGen{}
	p := New(gen, nil)
	p.AddPass(PassDef{
		Name: "glossary",
		Build: func(pc PassContext) (string, string) {
			return "glossary system", "list terms from:\n" + pc.Best
		},
	}, 1)

	want := []string{PassExtraction, "glossary", PassEnrichment, PassValidation, PassFormatting}
	if got := p.Passes(); !reflect.DeepEqual(got, want) {
		t.Fatalf("passes = %v, want %v", got, want)
	}

	res, err := p.Process(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if len(res.Passes) != 5 {
		t.Fatalf("expected 5 passes, got %d", len(res.Passes))
	}
	if gen.calls[1].System != "glossary system" {
		t.Errorf("glossary system prompt = %q", gen.calls[1].System)
	}
	if !strings.Contains(gen.calls[1].Prompt, "pass output 1 from mock-1") {
		t.Error("glossary prompt missing prior output")
	}
	if res.FinalOutput != "pass output 5 from mock-1" {
		t.Errorf("final output = %q", res.FinalOutput)
	}
}

func TestAddPassAppendsWhenOutOfRange(t *testing.T) {
	p := New(&scriptedGen{}, nil)
	p.AddPass(PassDef{Name: "audit"}, -1)

	want := []string{PassExtraction, PassEnrichment, PassValidation, PassFormatting, "audit"}
	if got := p.Passes(); !reflect.DeepEqual(got, want) {
		t.Fatalf("passes = %v, want %v", got, want)
	}
}

func TestWithMaxPassesTruncates(t *testing.T) {
	gen := &scriptedGen{}
	p := New(gen, nil, WithMaxPasses(2))

	res, err := p.Process(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if len(res.Passes) != 2 {
		t.Fatalf("expected 2 passes, got %d", len(res.Passes))
	}
	if len(gen.calls) != 2 {
		t.Errorf("expected 2 generator calls, got %d", len(gen.calls))
	}
	if res.FinalOutput != "pass output 2 from mock-1" {
		t.Errorf("final output = %q", res.FinalOutput)
	}
	if res.Metadata.PassCount != 2 {
		t.Errorf("pass count = %d, want 2", res.Metadata.PassCount)
	}
}

func TestWithoutValidationPass(t *testing.T) {
	gen := &scriptedGen{}
	p := New(gen, nil, WithoutValidationPass())

	res, err := p.Process(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	want := []string{PassExtraction, PassEnrichment, PassFormatting}
	if len(res.Passes) != len(want) {
		t.Fatalf("expected %d passes, got %d", len(want), len(res.Passes))
	}
	for i, name := range want {
		if res.Passes[i].Name != name {
			t.Errorf("pass %d = %q, want %q", i, res.Passes[i].Name, name)
		}
	}
	if strings.Contains(gen.calls[2].Prompt, "Review findings") {
		t.Error("formatting prompt should not carry review findings")
	}
	if res.Validation == nil {
		t.Error("final heuristic validation should still run")
	}
}

func TestProgressCallback(t *testing.T) {
	var seen []string
	p := New(&scriptedGen{}, nil, WithProgress(func(index, total int, message string) {
		seen = append(seen, fmt.Sprintf("%d/%d %s", index, total, message))
	}))

	if _, err := p.Process(context.Background(), testRequest()); err != nil {
		t.Fatalf("process: %v", err)
	}

	want := []string{
		"0/4 running extraction pass",
		"1/4 running enrichment pass",
		"2/4 running validation pass",
		"3/4 running formatting pass",
	}
	if !reflect.DeepEqual(seen, want) {
		t.Fatalf("progress = %v, want %v", seen, want)
	}
}

func TestMinValidationScoreWarning(t *testing.T) {
	// Mock outputs share almost nothing with the source, so the default
	// threshold flags them and a permissive one does not.
	p := New(&scriptedGen{}, nil)
	res, err := p.Process(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if !hasWarning(res, "below") {
		t.Errorf("expected a low score warning, got %v", res.Warnings)
	}

	relaxed := New(&scriptedGen{}, nil, WithMinValidationScore(10))
	res, err = relaxed.Process(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if hasWarning(res, "below") {
		t.Errorf("unexpected low score warning: %v", res.Warnings)
	}
}

func TestWithPassesReplacesChain(t *testing.T) {
	gen := &scriptedGen{}
	p := New(gen, nil, WithPasses(PassDef{
		Name:        "generation",
		MaxTokens:   2048,
		Temperature: 0.7,
		Build: func(PassContext) (string, string) {
			return "single system", "single user"
		},
	}))

	if got := p.Passes(); len(got) != 1 || got[0] != "generation" {
		t.Fatalf("passes = %v", got)
	}

	res, err := p.Process(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if len(gen.calls) != 1 {
		t.Fatalf("calls = %d, want 1", len(gen.calls))
	}
	call := gen.calls[0]
	if call.System != "single system" || call.Prompt != "single user" {
		t.Errorf("prompts = %q / %q", call.System, call.Prompt)
	}
	if call.MaxTokens != 2048 {
		t.Errorf("max tokens = %d, want 2048", call.MaxTokens)
	}
	if call.Temperature != 0.7 {
		t.Errorf("temperature = %v, want 0.7", call.Temperature)
	}
	if res.FinalOutput != "pass output 1 from mock-1" {
		t.Errorf("final output = %q", res.FinalOutput)
	}
	if res.Metadata.PassCount != 1 {
		t.Errorf("pass count = %d", res.Metadata.PassCount)
	}
	if res.Validation == nil {
		t.Error("expected a validation report")
	}
}
