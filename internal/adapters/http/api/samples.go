package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/okian/clubperf/internal/adapters/wire"
	"github.com/okian/clubperf/internal/domain/model"
	"github.com/okian/clubperf/internal/domain/types"
)

// IngestDependencies defines the interface for recording test results.
type IngestDependencies interface {
	Ingest(ctx context.Context, clubID string, samples []model.TimingSample) (types.IngestResult, error)
}

// samplesRequest mirrors the OpenAPI schema for POST /samples.
type samplesRequest struct {
	ClubID  string        `json:"club_id"`
	Samples []wire.Sample `json:"samples"`
}

// SamplesHandler accepts test results for asynchronous storage.
type SamplesHandler struct {
	deps IngestDependencies
}

// NewSamplesHandler creates a new samples handler.
func NewSamplesHandler(deps IngestDependencies) *SamplesHandler {
	return &SamplesHandler{deps: deps}
}

// HandlePostSamples handles POST /samples. Accepted results are written by
// the ingestion workers after the response, so 202 is returned.
func (h *SamplesHandler) HandlePostSamples(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_samples"
	ctx := r.Context()

	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	var req samplesRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxReportBody)).Decode(&req); err != nil {
		writeError(ctx, w, WrapKind(op, ErrBadRequest, err))
		return
	}
	req.ClubID = strings.TrimSpace(req.ClubID)
	if req.ClubID == "" {
		writeError(ctx, w, WrapKind(op, ErrBadRequest, errors.New("missing club_id")))
		return
	}
	if len(req.Samples) == 0 {
		writeError(ctx, w, WrapKind(op, ErrBadRequest, errors.New("missing samples")))
		return
	}

	samples, err := wire.ToModels(req.Samples)
	if err != nil {
		writeError(ctx, w, WrapKind(op, ErrMalformed, err))
		return
	}

	res, err := h.deps.Ingest(ctx, req.ClubID, samples)
	if err != nil {
		writeError(ctx, w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusAccepted, res)
}
