package api

import (
	"net/http"

	"github.com/okian/clubperf/internal/domain/model"
)

// StationsProvider lists the test-station catalog.
type StationsProvider interface {
	Stations() []model.Station
}

// StationsHandler handles station catalog requests.
type StationsHandler struct {
	provider StationsProvider
}

// NewStationsHandler creates a new stations handler.
func NewStationsHandler(provider StationsProvider) *StationsHandler {
	return &StationsHandler{provider: provider}
}

// HandleGetStations handles GET /stations requests.
func (h *StationsHandler) HandleGetStations(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.provider.Stations())
}
