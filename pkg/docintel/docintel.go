// Package docintel is the document intelligence entry point. It wires
// vendor detection, model routing, grounded prompting, single- and
// multi-pass generation, validation, and record persistence behind one
// facade.
package docintel

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/mindsparkle/docintel/pkg/adapter"
	"github.com/mindsparkle/docintel/pkg/artifact"
	"github.com/mindsparkle/docintel/pkg/catalog"
	"github.com/mindsparkle/docintel/pkg/detect"
	"github.com/mindsparkle/docintel/pkg/modes"
	"github.com/mindsparkle/docintel/pkg/pipeline"
	"github.com/mindsparkle/docintel/pkg/profile"
	"github.com/mindsparkle/docintel/pkg/prompt"
	"github.com/mindsparkle/docintel/pkg/router"
	"github.com/mindsparkle/docintel/pkg/validation"
)

// generationPass is the single pass run for short-form modes.
const generationPass = "generation"

// Sink persists processing records. *store.Store satisfies it.
type Sink interface {
	SaveResult(ctx context.Context, rec *artifact.Record) (string, error)
	LatestForDocument(ctx context.Context, documentID, mode string) (*artifact.Record, error)
}

// Intelligence analyzes and processes documents. Construct once and
// share; it is safe for concurrent use.
type Intelligence struct {
	profiles  *profile.Registry
	catalog   *catalog.Catalog
	adapters  *adapter.Registry
	detector  *detect.Detector
	router    *router.Router
	builder   *prompt.Builder
	validator *validation.Validator
	sink      Sink
	logger    zerolog.Logger
	progress  pipeline.ProgressFunc
	minScore  float64
}

// Option configures an Intelligence.
type Option func(*Intelligence)

// WithStore sets the persistence sink for processing records.
func WithStore(s Sink) Option {
	return func(it *Intelligence) { it.sink = s }
}

// WithLogger sets the logger shared by the facade and its components.
func WithLogger(l zerolog.Logger) Option {
	return func(it *Intelligence) { it.logger = l }
}

// WithProgress registers a pass progress callback.
func WithProgress(fn pipeline.ProgressFunc) Option {
	return func(it *Intelligence) { it.progress = fn }
}

// WithMinValidationScore sets the default validation threshold, which
// individual requests may override.
func WithMinValidationScore(score float64) Option {
	return func(it *Intelligence) { it.minScore = score }
}

// New assembles an Intelligence. Nil profiles or catalog use the
// builtin tables; a nil adapter registry leaves Process unable to reach
// any provider but keeps Analyze working.
func New(profiles *profile.Registry, cat *catalog.Catalog, adapters *adapter.Registry, opts ...Option) *Intelligence {
	if profiles == nil {
		profiles = profile.MustRegistry(profile.Builtin())
	}
	if cat == nil {
		cat = catalog.Default()
	}
	if adapters == nil {
		adapters = adapter.NewRegistry()
	}

	it := &Intelligence{
		profiles: profiles,
		catalog:  cat,
		adapters: adapters,
		logger:   zerolog.Nop(),
		minScore: pipeline.DefaultMinValidationScore,
	}
	for _, opt := range opts {
		opt(it)
	}

	it.detector = detect.New(profiles)
	it.router = router.New(cat, router.WithLogger(it.logger))
	it.builder = prompt.NewBuilder(profiles)
	it.validator = validation.New(profiles)
	return it
}

// Profiles returns the vendor profile registry in use.
func (it *Intelligence) Profiles() *profile.Registry {
	return it.profiles
}

// Catalog returns the model catalog in use.
func (it *Intelligence) Catalog() *catalog.Catalog {
	return it.catalog
}

// Router returns the model router in use.
func (it *Intelligence) Router() *router.Router {
	return it.router
}

// Validate runs the heuristic check battery over generated content.
func (it *Intelligence) Validate(generated, source, vendorID string) *validation.Report {
	return it.validator.Validate(generated, source, vendorID)
}

// Analysis is what Analyze learns about a document without calling any
// model.
type Analysis struct {
	Detection     detect.Result     `json:"detection"`
	Routing       router.Decision   `json:"routing"`
	Mode          modes.Mode        `json:"mode"`
	Complexity    router.Complexity `json:"complexity"`
	Certification router.CertTier   `json:"certification,omitempty"`
	ContentLength int               `json:"contentLength"`
	MultiPass     bool              `json:"multiPass"`
	Passes        []string          `json:"passes"`
}

// Analyze inspects a document: vendor detection, complexity signals,
// the routing decision with its cost estimate, and the recommended
// pipeline shape. No generation happens.
func (it *Intelligence) Analyze(text, fileName string, mode modes.Mode) Analysis {
	det := it.detector.Detect(text, fileName)
	rc := router.BuildContext(det, mode, text)
	dec := it.router.SelectModel(rc)

	multi := MultiPassDefault(mode)
	passes := []string{generationPass}
	if multi {
		passes = pipeline.DefaultPassNames()
	}

	return Analysis{
		Detection:     det,
		Routing:       dec,
		Mode:          mode,
		Complexity:    rc.Complexity,
		Certification: rc.Certification,
		ContentLength: rc.ContentLength,
		MultiPass:     multi,
		Passes:        passes,
	}
}

// MultiPassDefault reports whether a mode runs the multi-pass pipeline
// by default. Deep study material gets the full chain; short-form modes
// run a single grounded pass.
func MultiPassDefault(m modes.Mode) bool {
	switch m {
	case modes.ModeStudy, modes.ModeLabs, modes.ModeInterview:
		return true
	default:
		return false
	}
}

// Request describes one processing job.
type Request struct {
	Text               string
	FileName           string
	Mode               modes.Mode
	MultiPass          *bool   // nil applies the mode default
	MinValidationScore float64 // 0 applies the configured default
	DocumentID         string
	UserID             string
}

// Outcome bundles a processing result with its analysis and, when a
// sink is configured and the save succeeded, the persisted record ID.
type Outcome struct {
	Result   *pipeline.Result `json:"result"`
	Analysis Analysis         `json:"analysis"`
	RecordID string           `json:"recordId,omitempty"`
}

// Process generates content for a document: analyze, route, run the
// single- or multi-pass pipeline, validate, and persist. Persistence
// failures are logged and never fail the call.
func (it *Intelligence) Process(ctx context.Context, req Request) (*Outcome, error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, fmt.Errorf("docintel: document text is required")
	}
	if !req.Mode.Valid() {
		return nil, fmt.Errorf("docintel: unknown mode %q", req.Mode)
	}

	analysis := it.Analyze(req.Text, req.FileName, req.Mode)

	multi := analysis.MultiPass
	if req.MultiPass != nil {
		multi = *req.MultiPass
	}
	minScore := it.minScore
	if req.MinValidationScore > 0 {
		minScore = req.MinValidationScore
	}

	proc, err := it.processor(req, analysis, multi, minScore)
	if err != nil {
		return nil, err
	}

	res, err := proc.Process(ctx, pipeline.Request{
		Source:    req.Text,
		Mode:      req.Mode,
		VendorID:  analysis.Detection.VendorID,
		Model:     analysis.Routing.Model,
		Provider:  analysis.Routing.Provider,
		Fallbacks: analysis.Routing.Fallbacks,
	})
	if err != nil {
		return nil, err
	}

	out := &Outcome{Result: res, Analysis: analysis}
	it.persist(ctx, req, res, out)

	it.logger.Info().
		Str("mode", req.Mode.String()).
		Str("vendor", res.Metadata.Vendor).
		Str("model", res.Metadata.Model).
		Bool("multiPass", multi).
		Bool("success", res.Success).
		Float64("score", res.Metadata.ValidationScore).
		Msg("document processed")
	return out, nil
}

// processor builds the pipeline for one request: the full pass chain,
// or a single generation pass carrying the mode's own prompt and
// decoding parameters.
func (it *Intelligence) processor(req Request, analysis Analysis, multi bool, minScore float64) (*pipeline.Processor, error) {
	gen := &dispatch{catalog: it.catalog, adapters: it.adapters}
	opts := []pipeline.Option{
		pipeline.WithValidator(it.validator),
		pipeline.WithLogger(it.logger),
		pipeline.WithMinValidationScore(minScore),
	}
	if it.progress != nil {
		opts = append(opts, pipeline.WithProgress(it.progress))
	}
	if multi {
		return pipeline.New(gen, it.profiles, opts...), nil
	}

	p, err := it.builder.Build(prompt.Config{
		Mode:     req.Mode,
		VendorID: analysis.Detection.VendorID,
		Model:    analysis.Routing.Model,
	}, req.Text)
	if err != nil {
		return nil, err
	}
	opts = append(opts, pipeline.WithPasses(pipeline.PassDef{
		Name:        generationPass,
		MaxTokens:   p.MaxTokens,
		Temperature: p.Temperature,
		Build: func(pipeline.PassContext) (string, string) {
			return p.System, p.User
		},
	}))
	return pipeline.New(gen, it.profiles, opts...), nil
}

// persist saves the record when a sink is configured. A prior record
// for the same document and mode makes this run a new version of it.
// Storage failures are logged and swallowed; generation results never
// depend on them.
func (it *Intelligence) persist(ctx context.Context, req Request, res *pipeline.Result, out *Outcome) {
	if it.sink == nil {
		return
	}

	rec := artifact.FromResult(res, req.Mode, req.DocumentID, req.UserID)
	if req.DocumentID != "" {
		prior, err := it.sink.LatestForDocument(ctx, req.DocumentID, req.Mode.String())
		switch {
		case err != nil:
			it.logger.Warn().Err(err).
				Str("document", req.DocumentID).
				Msg("prior record lookup failed, saving a fresh record")
		case prior != nil:
			rec = prior.NewVersion(res)
		}
	}

	if req.FileName != "" {
		rec = rec.WithMetadata("fileName", req.FileName)
	}
	if out.Analysis.Routing.Rule != "" {
		rec = rec.WithMetadata("routingRule", out.Analysis.Routing.Rule)
	}

	if _, err := it.sink.SaveResult(ctx, rec); err != nil {
		it.logger.Warn().Err(err).
			Str("record", rec.ID).
			Msg("failed to persist processing record")
		return
	}
	out.RecordID = rec.ID
}

// dispatch implements pipeline.Generator over the adapter registry,
// resolving each model to its provider through the catalog.
type dispatch struct {
	catalog  *catalog.Catalog
	adapters *adapter.Registry
}

func (d *dispatch) Generate(ctx context.Context, req adapter.Request) (*adapter.Response, error) {
	m, err := d.catalog.Get(req.Model)
	if err != nil {
		return nil, err
	}
	a, ok := d.adapters.Get(m.Provider)
	if !ok {
		return nil, fmt.Errorf("no adapter configured for provider %q", m.Provider)
	}
	return a.Generate(ctx, req)
}
