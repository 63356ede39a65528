package api

import (
	"context"
	"net/http"

	service "github.com/okian/clubperf/internal/app"
	"github.com/okian/clubperf/internal/domain/types"
)

// BenchmarkDependencies defines the interface for benchmark operations.
type BenchmarkDependencies interface {
	Benchmarks(ctx context.Context, q service.BenchmarkQuery) (types.BenchmarkSummary, error)
}

// BenchmarkHandler handles benchmark requests.
type BenchmarkHandler struct {
	deps BenchmarkDependencies
}

// NewBenchmarkHandler creates a new benchmark handler.
func NewBenchmarkHandler(deps BenchmarkDependencies) *BenchmarkHandler {
	return &BenchmarkHandler{deps: deps}
}

// HandleGetBenchmarks handles GET /benchmarks?club_id=...&station_id=... requests.
func (h *BenchmarkHandler) HandleGetBenchmarks(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_benchmarks"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	q := newQueryParams(r.URL.Query())
	query := service.BenchmarkQuery{
		ClubID:    q.str("club_id"),
		StationID: q.str("station_id"),
		Cohort:    q.cohort(),
		Bins:      q.integer("bins"),
	}
	if q.err != nil {
		writeError(r.Context(), w, WrapKind(op, ErrBadRequest, q.err))
		return
	}

	summary, err := h.deps.Benchmarks(r.Context(), query)
	if err != nil {
		writeError(r.Context(), w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
