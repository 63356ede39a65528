// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	service "github.com/okian/clubperf/internal/app"
	"github.com/okian/clubperf/internal/domain/model"
	"github.com/okian/clubperf/internal/domain/types"
	"github.com/okian/clubperf/pkg/logger"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to the service implementation.
type Dependencies interface {
	ReportDependencies
	LeaderboardDependencies
	BenchmarkDependencies
	IngestDependencies
	Stations() []model.Station
}

// ReportDependencies defines the interface for coaching report operations.
type ReportDependencies interface {
	BuildReport(ctx context.Context, req service.ReportRequest) (types.CoachReport, error)
	ReportFromStore(ctx context.Context, q service.ReportQuery) (types.CoachReport, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	reportHandler      *ReportHandler
	leaderboardHandler *LeaderboardHandler
	benchmarkHandler   *BenchmarkHandler
	stationsHandler    *StationsHandler
	samplesHandler     *SamplesHandler
}

// NewServer creates a new API server with all handlers. maxLimit caps the
// leaderboard rows a client may request per station.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxLimit int) *Server {
	return &Server{
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(statsProvider),
		reportHandler:      NewReportHandler(deps),
		leaderboardHandler: NewLeaderboardHandler(deps, maxLimit),
		benchmarkHandler:   NewBenchmarkHandler(deps),
		stationsHandler:    NewStationsHandler(deps),
		samplesHandler:     NewSamplesHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/stations", MetricsMiddleware(s.stationsHandler.HandleGetStations, "stations"))
	mux.HandleFunc("/reports/cod", MetricsMiddleware(s.reportHandler.HandleReport, "reports_cod"))
	mux.HandleFunc("/leaderboard", MetricsMiddleware(s.leaderboardHandler.HandleGetLeaderboard, "leaderboard"))
	mux.HandleFunc("/benchmarks", MetricsMiddleware(s.benchmarkHandler.HandleGetBenchmarks, "benchmarks"))
	mux.HandleFunc("/samples", MetricsMiddleware(s.samplesHandler.HandlePostSamples, "samples"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeJSON encodes v before writing the status, so an unencodable value
// becomes a 500 instead of a truncated success.
func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		logger.Get().Named("api").Error(context.Background(), "encode response", logger.Error(err))
		status = http.StatusInternalServerError
		body, _ = json.Marshal(errorResponse{Code: "internal_error", Message: http.StatusText(status)})
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}

// writeError derives the status from the error chain and logs server-side failures.
func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	status, code := classify(err)
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	if status >= http.StatusInternalServerError {
		logger.Get().Named("api").Error(ctx, "request failed", logger.Int("status", status), logger.Error(err))
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
