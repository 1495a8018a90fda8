// Package pipeline runs multi-pass document generation: extraction,
// enrichment, model self-review, and formatting, each pass building on
// the outputs of the passes before it.
//
// A failing pass is retried once per fallback model from the routing
// decision. Failure before any content exists aborts the run; later
// failures degrade it, and the pipeline finishes from the best output
// it has.
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/mindsparkle/docintel/pkg/adapter"
	"github.com/mindsparkle/docintel/pkg/grounding"
	"github.com/mindsparkle/docintel/pkg/modes"
	"github.com/mindsparkle/docintel/pkg/profile"
	"github.com/mindsparkle/docintel/pkg/prompt"
	"github.com/mindsparkle/docintel/pkg/validation"
)

// DefaultMinValidationScore is the final report score below which the
// result carries a review warning.
const DefaultMinValidationScore = 70.0

// passMaxTokens bounds every pass call. Intermediate passes produce
// long-form content regardless of mode.
const passMaxTokens = 8192

// Generator produces text for a single pass call. adapter
// implementations satisfy it directly.
type Generator interface {
	Generate(ctx context.Context, req adapter.Request) (*adapter.Response, error)
}

// GeneratorFunc adapts a plain function to the Generator interface.
type GeneratorFunc func(ctx context.Context, req adapter.Request) (*adapter.Response, error)

// Generate calls f.
func (f GeneratorFunc) Generate(ctx context.Context, req adapter.Request) (*adapter.Response, error) {
	return f(ctx, req)
}

// ProgressFunc observes the pipeline. It is invoked synchronously before
// each pass starts; index is zero-based.
type ProgressFunc func(index, total int, message string)

// Request configures one pipeline run. Model, Provider, and Fallbacks
// carry over from the routing decision. An empty VendorID means no
// detected vendor and resolves to the generic profile.
type Request struct {
	Source    string
	Mode      modes.Mode
	VendorID  string
	Model     string
	Provider  string
	Fallbacks []string
}

// Metadata summarizes a finished run.
type Metadata struct {
	ElapsedMs       int64    `json:"elapsedMs"`
	TokensUsed      int      `json:"tokensUsed"`
	Model           string   `json:"model"`
	Provider        string   `json:"provider,omitempty"`
	Vendor          string   `json:"vendor,omitempty"`
	PassCount       int      `json:"passCount"`
	ValidationScore float64  `json:"validationScore"`
	FallbacksUsed   []string `json:"fallbacksUsed,omitempty"`
}

// Result is the outcome of one run. Success only reports whether the
// pipeline produced output; callers must check the validation report and
// warnings before trusting it.
type Result struct {
	Success     bool               `json:"success"`
	Passes      []*Pass            `json:"passes"`
	FinalOutput string             `json:"finalOutput,omitempty"`
	Validation  *validation.Report `json:"validation,omitempty"`
	Warnings    []string           `json:"warnings,omitempty"`
	Metadata    Metadata           `json:"metadata"`
}

// Processor executes multi-pass runs. Configure it up front; each
// Process call keeps its own state, so a configured Processor is safe
// for concurrent use.
type Processor struct {
	gen       Generator
	registry  *profile.Registry
	validator *validation.Validator
	logger    zerolog.Logger
	passes    []PassDef
	minScore  float64
	progress  ProgressFunc
}

// Option configures a Processor.
type Option func(*Processor)

// WithValidator replaces the default content validator.
func WithValidator(v *validation.Validator) Option {
	return func(p *Processor) { p.validator = v }
}

// WithLogger sets the processor's logger.
func WithLogger(l zerolog.Logger) Option {
	return func(p *Processor) { p.logger = l }
}

// WithMinValidationScore sets the score threshold for the final report
// warning.
func WithMinValidationScore(score float64) Option {
	return func(p *Processor) { p.minScore = score }
}

// WithProgress registers a progress callback.
func WithProgress(fn ProgressFunc) Option {
	return func(p *Processor) { p.progress = fn }
}

// WithPasses replaces the whole pass chain. Later pass-shaping options
// apply to the replacement.
func WithPasses(defs ...PassDef) Option {
	return func(p *Processor) {
		p.passes = append([]PassDef(nil), defs...)
	}
}

// WithMaxPasses truncates the pipeline to its first n passes.
func WithMaxPasses(n int) Option {
	return func(p *Processor) {
		if n >= 0 && n < len(p.passes) {
			p.passes = p.passes[:n]
		}
	}
}

// WithoutValidationPass removes the model self-review pass. The final
// heuristic validation still runs.
func WithoutValidationPass() Option {
	return func(p *Processor) {
		kept := p.passes[:0]
		for _, def := range p.passes {
			if def.Name != PassValidation {
				kept = append(kept, def)
			}
		}
		p.passes = kept
	}
}

// New creates a Processor over gen. A nil registry uses the builtin
// vendor profiles.
func New(gen Generator, reg *profile.Registry, opts ...Option) *Processor {
	if reg == nil {
		reg = profile.MustRegistry(profile.Builtin())
	}
	p := &Processor{
		gen:      gen,
		registry: reg,
		logger:   zerolog.Nop(),
		passes:   defaultPasses(),
		minScore: DefaultMinValidationScore,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.validator == nil {
		p.validator = validation.New(reg)
	}
	return p
}

// AddPass inserts a custom pass at position; positions out of range
// append. Configure passes before sharing the Processor across
// goroutines.
func (p *Processor) AddPass(def PassDef, position int) {
	if position < 0 || position >= len(p.passes) {
		p.passes = append(p.passes, def)
		return
	}
	rest := append([]PassDef{def}, p.passes[position:]...)
	p.passes = append(p.passes[:position], rest...)
}

// Passes returns the configured pass names in order.
func (p *Processor) Passes() []string {
	names := make([]string, len(p.passes))
	for i, def := range p.passes {
		names[i] = def.Name
	}
	return names
}

// Process runs the configured passes over req.Source. Generation
// failures are recorded in the result rather than returned; the error
// covers only unusable requests.
func (p *Processor) Process(ctx context.Context, req Request) (*Result, error) {
	if p.gen == nil {
		return nil, fmt.Errorf("pipeline: generator is required")
	}
	if strings.TrimSpace(req.Source) == "" {
		return nil, fmt.Errorf("pipeline: source text is required")
	}
	if req.Model == "" {
		return nil, fmt.Errorf("pipeline: model is required")
	}
	if len(p.passes) == 0 {
		return nil, fmt.Errorf("pipeline: no passes configured")
	}
	if req.VendorID == "" {
		req.VendorID = profile.GenericID
	}

	engine, err := grounding.NewEngine(p.registry, grounding.Config{
		VendorID: req.VendorID,
		Mode:     req.Mode,
	})
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}

	start := time.Now()
	run := &runState{
		req: req,
		pc: PassContext{
			Source:    truncateForPrompt(req.Source, sourceBudget(req.Mode)),
			Grounding: engine.BuildSystemPrompt(),
			Structure: prompt.Structure(req.Mode),
			Mode:      req.Mode,
		},
	}

	result := &Result{
		Success: true,
		Passes:  make([]*Pass, 0, len(p.passes)),
	}
	for _, def := range p.passes {
		result.Passes = append(result.Passes, &Pass{Name: def.Name, Status: StatusPending})
	}

	total := len(p.passes)
	for i, def := range p.passes {
		if p.progress != nil {
			p.progress(i, total, fmt.Sprintf("running %s pass", def.Name))
		}

		pass := result.Passes[i]
		pass.Status = StatusRunning
		pass.StartedAt = time.Now()

		text, err := p.runPass(ctx, def, run)
		pass.EndedAt = time.Now()
		if err != nil {
			pass.Status = StatusFailed
			pass.Err = err.Error()
			p.logger.Warn().Err(err).Str("pass", def.Name).Msg("pass failed")

			if run.pc.Best == "" {
				// Nothing generated yet, so later passes have no
				// content to build on.
				result.Success = false
				result.Warnings = append(result.Warnings,
					fmt.Sprintf("%s pass failed with no output to fall back to: %v", def.Name, err))
				p.finish(result, run, start)
				return result, nil
			}
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("%s pass failed, continuing with prior output: %v", def.Name, err))
			continue
		}

		pass.Status = StatusCompleted
		pass.Result = text
		run.record(def.Name, text)
		if def.Name != PassValidation {
			pass.ValidationScore = p.validator.QuickValidate(text, run.pc.Source).Score
		}
		p.logger.Debug().Str("pass", def.Name).Int("chars", len(text)).Msg("pass completed")
	}

	p.finish(result, run, start)
	return result, nil
}

// runPass tries the primary model, then each fallback once, in order.
// Fallbacks actually attempted are recorded on the run.
func (p *Processor) runPass(ctx context.Context, def PassDef, run *runState) (string, error) {
	if def.Build == nil {
		return "", fmt.Errorf("pass %s has no prompt builder", def.Name)
	}
	system, user := def.Build(run.pc)

	maxTokens := def.MaxTokens
	if maxTokens <= 0 {
		maxTokens = passMaxTokens
	}
	temperature := def.Temperature
	if temperature <= 0 {
		temperature = temperatureFor(def.Name)
	}

	models := make([]string, 0, 1+len(run.req.Fallbacks))
	models = append(models, run.req.Model)
	models = append(models, run.req.Fallbacks...)

	var lastErr error
	for i, model := range models {
		if i > 0 {
			run.useFallback(model)
			p.logger.Info().
				Str("pass", def.Name).
				Str("model", model).
				Msg("retrying pass on fallback model")
		}

		resp, err := p.gen.Generate(ctx, adapter.Request{
			Model:       model,
			System:      system,
			Prompt:      user,
			MaxTokens:   maxTokens,
			Temperature: temperature,
		})
		if err == nil {
			if strings.TrimSpace(resp.Text) == "" {
				lastErr = fmt.Errorf("model %s returned empty output", model)
				continue
			}
			run.tokens += totalTokens(resp.Usage)
			return resp.Text, nil
		}

		lastErr = err
		p.logger.Warn().
			Err(err).
			Str("pass", def.Name).
			Str("model", model).
			Bool("transient", adapter.IsTransient(err)).
			Msg("generation attempt failed")
		if ctx.Err() != nil {
			break
		}
	}
	return "", fmt.Errorf("all models exhausted: %w", lastErr)
}

// finish computes the final output, runs the heuristic validation over
// it, and fills the run metadata.
func (p *Processor) finish(result *Result, run *runState, start time.Time) {
	if run.pc.Best != "" {
		result.FinalOutput = run.pc.Best
		report := p.validator.Validate(result.FinalOutput, run.pc.Source, run.req.VendorID)
		result.Validation = report
		result.Metadata.ValidationScore = report.OverallScore
		if report.OverallScore < p.minScore {
			result.Warnings = append(result.Warnings, fmt.Sprintf(
				"validation score %.1f is below the %.1f threshold, review the output before use",
				report.OverallScore, p.minScore))
		}
	}

	result.Metadata.ElapsedMs = time.Since(start).Milliseconds()
	result.Metadata.TokensUsed = run.tokens
	result.Metadata.Model = run.req.Model
	result.Metadata.Provider = run.req.Provider
	result.Metadata.Vendor = run.req.VendorID
	result.Metadata.PassCount = len(result.Passes)
	result.Metadata.FallbacksUsed = run.fallbacksUsed
}

// runState is the mutable state of a single Process invocation.
type runState struct {
	req           Request
	pc            PassContext
	tokens        int
	fallbacksUsed []string
	seenFallback  map[string]bool
}

// record stores a completed pass output in the context for later passes.
// The self-review critique is context, not content, so it never becomes
// the best output.
func (r *runState) record(name, text string) {
	switch name {
	case PassExtraction:
		r.pc.Extraction = text
	case PassEnrichment:
		r.pc.Enrichment = text
	case PassValidation:
		r.pc.Validation = text
	}
	if name != PassValidation {
		r.pc.Best = text
	}
}

func (r *runState) useFallback(model string) {
	if r.seenFallback == nil {
		r.seenFallback = make(map[string]bool)
	}
	if r.seenFallback[model] {
		return
	}
	r.seenFallback[model] = true
	r.fallbacksUsed = append(r.fallbacksUsed, model)
}

// totalTokens sums a usage report, tolerating adapters that leave
// TotalTokens unset.
func totalTokens(u adapter.Usage) int {
	if u.TotalTokens > 0 {
		return u.TotalTokens
	}
	return u.PromptTokens + u.CompletionTokens
}

// sourceBudget caps how much of the document pass prompts embed.
func sourceBudget(m modes.Mode) int {
	if b := prompt.CharBudget(m); b > 0 {
		return b
	}
	return 40000
}

// truncateForPrompt cuts s to at most limit bytes without splitting a
// rune.
func truncateForPrompt(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	for limit > 0 && !utf8.RuneStart(s[limit]) {
		limit--
	}
	return s[:limit]
}
