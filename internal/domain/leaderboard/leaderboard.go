// Package leaderboard ranks each athlete's best attempt per test station.
package leaderboard

import (
	"sort"
	"strings"

	"github.com/okian/clubperf/internal/domain/model"
	"github.com/okian/clubperf/internal/domain/types"
)

// DefaultTop is the number of rows kept per station.
const DefaultTop = 3

// Option configures Build.
type Option func(*options)

type options struct {
	top       int
	stationID string
}

// WithTop sets the number of rows per station. Non-positive values are ignored.
func WithTop(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.top = n
		}
	}
}

// WithStation restricts the board to a single station.
func WithStation(id string) Option {
	return func(o *options) {
		o.stationID = id
	}
}

type key struct {
	station string
	athlete string
}

// Build keeps the best attempt per station and athlete (lower time wins,
// equal times keep the earlier attempt) and returns the top rows per station.
// Stations follow catalog order; stations without rows are omitted.
func Build(samples []model.TimingSample, opts ...Option) []types.LeaderboardStation {
	o := options{top: DefaultTop}
	for _, opt := range opts {
		opt(&o)
	}

	best := make(map[key]model.TimingSample)
	order := make([]key, 0)
	for _, s := range samples {
		if !s.HasValidTime() || s.StationID == "" || s.AthleteID == "" {
			continue
		}
		if o.stationID != "" && s.StationID != o.stationID {
			continue
		}
		k := key{station: s.StationID, athlete: s.AthleteID}
		prev, ok := best[k]
		if !ok {
			order = append(order, k)
			best[k] = s
			continue
		}
		if beats(s, prev) {
			best[k] = s
		}
	}

	byStation := make(map[string][]model.TimingSample)
	for _, k := range order {
		byStation[k.station] = append(byStation[k.station], best[k])
	}

	out := make([]types.LeaderboardStation, 0)
	for _, sid := range stationOrder(o.stationID) {
		entries := byStation[sid]
		if len(entries) == 0 {
			continue
		}
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].TimeSeconds < entries[j].TimeSeconds
		})
		if len(entries) > o.top {
			entries = entries[:o.top]
		}

		short := shortName(sid)
		rows := make([]types.LeaderboardRow, 0, len(entries))
		for i, e := range entries {
			rows = append(rows, row(e, sid, short, i+1))
		}
		out = append(out, types.LeaderboardStation{StationID: sid, StationShortName: short, Rows: rows})
	}
	return out
}

func beats(s, prev model.TimingSample) bool {
	if s.TimeSeconds != prev.TimeSeconds {
		return s.TimeSeconds < prev.TimeSeconds
	}
	return s.TestedAt.Before(prev.TestedAt)
}

func stationOrder(filter string) []string {
	if filter != "" {
		return []string{filter}
	}
	ids := make([]string, 0, len(model.Stations))
	for _, st := range model.Stations {
		ids = append(ids, st.ID)
	}
	return ids
}

func shortName(stationID string) string {
	if st, ok := model.StationByID(stationID); ok {
		return st.ShortName
	}
	return stationID
}

func row(s model.TimingSample, stationID, short string, rank int) types.LeaderboardRow {
	r := types.LeaderboardRow{
		StationID:        stationID,
		StationShortName: short,
		Rank:             rank,
		TimeSeconds:      s.TimeSeconds,
		TestedAt:         s.TestedAt,
		UserID:           s.AthleteID,
		AthleteName:      s.AthleteID,
	}
	if s.Identity == nil {
		return r
	}
	if name := strings.TrimSpace(s.Identity.FirstName + " " + s.Identity.LastName); name != "" {
		r.AthleteName = name
	}
	if s.Identity.Sex != "" {
		r.Sex = types.String(s.Identity.Sex)
	}
	if age, ok := s.Identity.AgeAt(s.TestedAt); ok {
		r.AgeAtTest = types.Float(age)
	}
	return r
}
