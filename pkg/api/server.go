// Package api exposes the document intelligence pipeline over HTTP:
// analysis and processing endpoints, vendor and model listings, and
// read access to persisted processing records.
package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/mindsparkle/docintel/pkg/artifact"
	"github.com/mindsparkle/docintel/pkg/docintel"
	"github.com/mindsparkle/docintel/pkg/modes"
)

const serviceName = "docintel"
const serviceVersion = "2.0.0"

// ResultStore reads persisted processing records. *store.Store
// satisfies it; a server without one serves every endpoint except the
// results reads.
type ResultStore interface {
	GetResult(ctx context.Context, id string) (*artifact.Record, error)
	ListResults(ctx context.Context, userID string, limit int) ([]*artifact.Record, error)
}

// Server holds the handler dependencies.
type Server struct {
	intel       *docintel.Intelligence
	results     ResultStore
	logger      zerolog.Logger
	defaultMode modes.Mode
}

// Option configures a Server.
type Option func(*Server)

// WithResults enables the results endpoints.
func WithResults(rs ResultStore) Option {
	return func(s *Server) { s.results = rs }
}

// WithLogger sets the request logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithDefaultMode sets the mode applied when a request omits one.
func WithDefaultMode(m modes.Mode) Option {
	return func(s *Server) { s.defaultMode = m }
}

// NewServer creates a Server around an Intelligence. A nil intel gets a
// builtin-profile instance with no adapters, which still serves the
// analysis and listing endpoints.
func NewServer(intel *docintel.Intelligence, opts ...Option) *Server {
	if intel == nil {
		intel = docintel.New(nil, nil, nil)
	}
	s := &Server{
		intel:       intel,
		logger:      zerolog.Nop(),
		defaultMode: modes.ModeStudy,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler builds the HTTP routing table.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(s.logRequests)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	}))

	r.Get("/", s.handleIndex)
	r.Get("/health", s.handleHealth)
	r.Post("/analyze", s.handleAnalyze)
	r.Post("/process", s.handleProcess)
	r.Get("/vendors", s.handleVendors)
	r.Get("/models", s.handleModels)
	r.Get("/results", s.handleListResults)
	r.Get("/results/{id}", s.handleGetResult)

	return r
}

// resolveMode parses a request mode, falling back to the server default
// when the field is empty.
func (s *Server) resolveMode(raw string) (modes.Mode, error) {
	if raw == "" {
		return s.defaultMode, nil
	}
	return modes.Parse(raw)
}
