package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	service "github.com/okian/spinlens/internal/app"
	"github.com/okian/spinlens/internal/domain/model"
)

// maxAnalyzeBody bounds the size of a POST /analyze request body.
const maxAnalyzeBody = 16 << 20

// analyzeRequest mirrors the OpenAPI schema for POST /analyze.
type analyzeRequest struct {
	Records  []any               `json:"records"`
	Mapping  *model.FieldMapping `json:"mapping,omitempty"`
	Strategy string              `json:"strategy,omitempty"`
	K        int                 `json:"k,omitempty"`
	Decay    float64             `json:"decay,omitempty"`
}

func (a analyzeRequest) validate() error {
	switch {
	case a.K < 0:
		return errors.New("k must not be negative")
	case a.Decay < 0 || a.Decay >= 1:
		return errors.New("decay must be in (0,1)")
	case a.Mapping != nil && strings.TrimSpace(a.Mapping.Number) == "":
		return errors.New("mapping.number must not be empty")
	}
	return nil
}

func (a analyzeRequest) options() service.AnalyzeOptions {
	return service.AnalyzeOptions{
		Mapping:  a.Mapping,
		Strategy: a.Strategy,
		K:        a.K,
		Decay:    a.Decay,
	}
}

// AnalyzeHandler handles analysis of caller-supplied records.
type AnalyzeHandler struct {
	analyzer Analyzer
}

// NewAnalyzeHandler creates a new analyze handler.
func NewAnalyzeHandler(analyzer Analyzer) *AnalyzeHandler {
	return &AnalyzeHandler{analyzer: analyzer}
}

// HandlePostAnalyze handles POST /analyze requests.
func (h *AnalyzeHandler) HandlePostAnalyze(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_analyze"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxAnalyzeBody))
	dec.UseNumber()
	var req analyzeRequest
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	writeJSON(w, http.StatusOK, h.analyzer.Analyze(r.Context(), req.Records, req.options()))
}
