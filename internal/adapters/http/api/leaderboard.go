package api

import (
	"context"
	"net/http"

	service "github.com/okian/clubperf/internal/app"
	"github.com/okian/clubperf/internal/domain/types"
)

// LeaderboardDependencies defines the interface for leaderboard operations.
type LeaderboardDependencies interface {
	Leaderboard(ctx context.Context, q service.LeaderboardQuery) ([]types.LeaderboardStation, error)
}

// LeaderboardHandler handles leaderboard requests.
type LeaderboardHandler struct {
	deps     LeaderboardDependencies
	maxLimit int
}

// NewLeaderboardHandler creates a new leaderboard handler.
func NewLeaderboardHandler(deps LeaderboardDependencies, maxLimit int) *LeaderboardHandler {
	return &LeaderboardHandler{
		deps:     deps,
		maxLimit: maxLimit,
	}
}

// HandleGetLeaderboard handles GET /leaderboard?club_id=...&limit=N requests.
func (h *LeaderboardHandler) HandleGetLeaderboard(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_leaderboard"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	q := newQueryParams(r.URL.Query())
	query := service.LeaderboardQuery{
		ClubID:    q.str("club_id"),
		StationID: q.str("station_id"),
		From:      q.timestamp("from"),
		To:        q.timestamp("to"),
		Cohort:    q.cohort(),
		Top:       q.integer("limit"),
	}
	if q.err != nil {
		writeError(r.Context(), w, WrapKind(op, ErrBadRequest, q.err))
		return
	}
	if query.Top < 0 {
		writeError(r.Context(), w, NewKind(op, ErrBadRequest))
		return
	}
	if h.maxLimit > 0 && query.Top > h.maxLimit {
		writeError(r.Context(), w, NewKind(op, ErrBadRequest))
		return
	}

	board, err := h.deps.Leaderboard(r.Context(), query)
	if err != nil {
		writeError(r.Context(), w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, board)
}
