package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mindsparkle/docintel/pkg/artifact"
	"github.com/mindsparkle/docintel/pkg/docintel"
)

type analyzeRequest struct {
	Text     string `json:"text"`
	FileName string `json:"fileName"`
	Mode     string `json:"mode"`
}

type processRequest struct {
	Text               string  `json:"text"`
	FileName           string  `json:"fileName"`
	Mode               string  `json:"mode"`
	MultiPass          *bool   `json:"multiPass"`
	MinValidationScore float64 `json:"minValidationScore"`
	DocumentID         string  `json:"documentId"`
	UserID             string  `json:"userId"`
}

// vendorInfo is the wire projection of a vendor profile.
type vendorInfo struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Keywords        []string `json:"keywords,omitempty"`
	CLIPatterns     []string `json:"cliPatterns,omitempty"`
	Certifications  []string `json:"certifications,omitempty"`
	TechnicalDepth  string   `json:"technicalDepth"`
	StrictGrounding bool     `json:"strictGrounding"`
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"service":      serviceName,
		"version":      serviceVersion,
		"status":       "healthy",
		"architecture": "vendor detection → model routing → grounded multi-pass generation → validation",
		"endpoints": map[string]string{
			"POST /analyze":     "Detect the vendor and preview the routing decision",
			"POST /process":     "Run the generation pipeline over a document",
			"GET /vendors":      "List vendor profiles",
			"GET /models":       "List the model catalog",
			"GET /results":      "List processing records",
			"GET /results/{id}": "Fetch one processing record",
			"GET /health":       "Health check",
		},
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	reqID := newRequestID()
	start := time.Now()

	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondRequestError(w, http.StatusBadRequest, reqID, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		respondRequestError(w, http.StatusBadRequest, reqID, "text is required")
		return
	}
	mode, err := s.resolveMode(req.Mode)
	if err != nil {
		respondRequestError(w, http.StatusBadRequest, reqID, err.Error())
		return
	}

	analysis := s.intel.Analyze(req.Text, req.FileName, mode)
	respondJSON(w, http.StatusOK, map[string]any{
		"success":        true,
		"requestId":      reqID,
		"processingTime": time.Since(start).Milliseconds(),
		"analysis":       analysis,
	})
}

func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	reqID := newRequestID()
	start := time.Now()

	var req processRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondRequestError(w, http.StatusBadRequest, reqID, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		respondRequestError(w, http.StatusBadRequest, reqID, "text is required")
		return
	}
	mode, err := s.resolveMode(req.Mode)
	if err != nil {
		respondRequestError(w, http.StatusBadRequest, reqID, err.Error())
		return
	}

	out, err := s.intel.Process(r.Context(), docintel.Request{
		Text:               req.Text,
		FileName:           req.FileName,
		Mode:               mode,
		MultiPass:          req.MultiPass,
		MinValidationScore: req.MinValidationScore,
		DocumentID:         req.DocumentID,
		UserID:             req.UserID,
	})
	if err != nil {
		s.logger.Error().Err(err).Str("requestId", reqID).Msg("processing failed")
		respondRequestError(w, http.StatusInternalServerError, reqID, err.Error())
		return
	}

	payload := map[string]any{
		"success":        out.Result.Success,
		"requestId":      reqID,
		"processingTime": time.Since(start).Milliseconds(),
		"result":         out.Result,
		"analysis":       out.Analysis,
	}
	if out.RecordID != "" {
		payload["recordId"] = out.RecordID
	}
	respondJSON(w, http.StatusOK, payload)
}

func (s *Server) handleVendors(w http.ResponseWriter, r *http.Request) {
	profiles := s.intel.Profiles().All()
	out := make([]vendorInfo, 0, len(profiles))
	for _, p := range profiles {
		patterns := make([]string, 0, len(p.CLIPatterns))
		for _, re := range p.CLIPatterns {
			patterns = append(patterns, re.String())
		}
		out = append(out, vendorInfo{
			ID:              p.ID,
			Name:            p.Name,
			Keywords:        p.Keywords,
			CLIPatterns:     patterns,
			Certifications:  p.Certifications,
			TechnicalDepth:  string(p.Rules.TechnicalDepth),
			StrictGrounding: p.Rules.UseStrictGrounding,
		})
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleModels(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.intel.Catalog().All())
}

func (s *Server) handleGetResult(w http.ResponseWriter, r *http.Request) {
	if s.results == nil {
		respondError(w, http.StatusServiceUnavailable, "result storage is not configured")
		return
	}
	rec, err := s.results.GetResult(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if rec == nil {
		respondError(w, http.StatusNotFound, "result not found")
		return
	}
	respondJSON(w, http.StatusOK, rec)
}

func (s *Server) handleListResults(w http.ResponseWriter, r *http.Request) {
	if s.results == nil {
		respondError(w, http.StatusServiceUnavailable, "result storage is not configured")
		return
	}
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			respondError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}
	recs, err := s.results.ListResults(r.Context(), r.URL.Query().Get("user"), limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if recs == nil {
		recs = []*artifact.Record{}
	}
	respondJSON(w, http.StatusOK, recs)
}

// newRequestID returns the short per-request id carried in responses
// and logs.
func newRequestID() string {
	return uuid.NewString()[:8]
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func respondRequestError(w http.ResponseWriter, status int, requestID, message string) {
	respondJSON(w, status, map[string]string{"error": message, "requestId": requestID})
}
