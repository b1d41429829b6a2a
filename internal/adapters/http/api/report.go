package api

import (
	"errors"
	"net/http"
	"strconv"

	service "github.com/okian/spinlens/internal/app"
)

// ReportHandler handles analysis of the configured upstream source.
type ReportHandler struct {
	analyzer Analyzer
}

// NewReportHandler creates a new report handler.
func NewReportHandler(analyzer Analyzer) *ReportHandler {
	return &ReportHandler{analyzer: analyzer}
}

// HandleGetReport handles GET /report?strategy=...&k=...&decay=... requests.
func (h *ReportHandler) HandleGetReport(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_report"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	opts, err := reportOptions(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	rep, err := h.analyzer.Report(r.Context(), opts)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, rep)
	case errors.Is(err, service.ErrSourceUnconfigured):
		writeError(w, http.StatusServiceUnavailable, "source_unconfigured", WrapKind(op, ErrSourceUnconfigured, nil))
	case errors.Is(err, service.ErrFetch):
		writeError(w, http.StatusBadGateway, "upstream_error", WrapKind(op, ErrUpstream, err))
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", WrapKind(op, ErrInternal, err))
	}
}

func reportOptions(r *http.Request) (service.AnalyzeOptions, error) {
	q := r.URL.Query()
	opts := service.AnalyzeOptions{Strategy: q.Get("strategy")}

	if v := q.Get("k"); v != "" {
		k, err := strconv.Atoi(v)
		if err != nil || k < 1 {
			return opts, errors.New("invalid k; must be a positive integer")
		}
		opts.K = k
	}
	if v := q.Get("decay"); v != "" {
		d, err := strconv.ParseFloat(v, 64)
		if err != nil || !(d > 0 && d < 1) {
			return opts, errors.New("invalid decay; must be in (0,1)")
		}
		opts.Decay = d
	}
	return opts, nil
}
