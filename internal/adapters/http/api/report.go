package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/okian/clubperf/internal/adapters/wire"
	service "github.com/okian/clubperf/internal/app"
	"github.com/okian/clubperf/internal/domain/model"
)

// maxReportBody bounds POST /reports/cod payloads.
const maxReportBody = 8 << 20

// reportRequest mirrors the OpenAPI schema for POST /reports/cod.
type reportRequest struct {
	Samples       []wire.Sample `json:"samples"`
	Language      string        `json:"language"`
	YThresholdPct *float64      `json:"y_threshold_pct"`
}

// ReportHandler serves 5-0-5 coaching reports.
type ReportHandler struct {
	deps ReportDependencies
}

// NewReportHandler creates a new report handler.
func NewReportHandler(deps ReportDependencies) *ReportHandler {
	return &ReportHandler{deps: deps}
}

// HandleReport handles POST /reports/cod (samples in the body) and
// GET /reports/cod (samples from the record store).
func (h *ReportHandler) HandleReport(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.handlePost(r.Context(), w, r)
	case http.MethodGet:
		h.handleGet(r.Context(), w, r)
	default:
		http.NotFound(w, r)
	}
}

func (h *ReportHandler) handlePost(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	const op = "api.post_report"

	var req reportRequest
	dec := json.NewDecoder(io.LimitReader(r.Body, maxReportBody))
	if err := dec.Decode(&req); err != nil {
		writeError(ctx, w, WrapKind(op, ErrBadRequest, err))
		return
	}
	if req.Samples == nil {
		writeError(ctx, w, WrapKind(op, ErrBadRequest, errors.New("missing samples")))
		return
	}

	samples, err := wire.ToModels(req.Samples)
	if err != nil {
		writeError(ctx, w, WrapKind(op, ErrMalformed, err))
		return
	}

	rep, err := h.deps.BuildReport(ctx, service.ReportRequest{
		Samples:    samples,
		Language:   model.Language(strings.ToLower(strings.TrimSpace(req.Language))),
		YThreshold: req.YThresholdPct,
	})
	if err != nil {
		writeError(ctx, w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func (h *ReportHandler) handleGet(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	const op = "api.get_report"

	q := newQueryParams(r.URL.Query())
	query := service.ReportQuery{
		ClubID:     q.str("club_id"),
		From:       q.timestamp("from"),
		To:         q.timestamp("to"),
		Cohort:     q.cohort(),
		Language:   q.language("lang"),
		YThreshold: q.number("y"),
	}
	if q.err != nil {
		writeError(ctx, w, WrapKind(op, ErrBadRequest, q.err))
		return
	}

	rep, err := h.deps.ReportFromStore(ctx, query)
	if err != nil {
		writeError(ctx, w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, rep)
}
