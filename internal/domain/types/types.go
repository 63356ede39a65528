// Package types contains the report shapes shared by the engine, the API and
// the renderers. JSON field names are a stable schema.
package types

import (
	"time"

	"github.com/okian/clubperf/internal/domain/model"
)

// Advice is the per-athlete coaching block.
type Advice struct {
	Key     string   `json:"key"`
	Title   string   `json:"title"`
	Why     []string `json:"why"`
	Actions []string `json:"actions"`
}

// AthleteMetrics holds the derived 5-0-5 values for one athlete.
// Nil pointers mean "not computable".
type AthleteMetrics struct {
	UserID           string      `json:"user_id"`
	Name             string      `json:"name"`
	LeftBest         *float64    `json:"left_best"`
	RightBest        *float64    `json:"right_best"`
	Best             *float64    `json:"best"`
	AsymmetryPct     *float64    `json:"asymmetry_pct"`
	SlowerSide       *model.Side `json:"slower_side"`
	PerformanceIndex *float64    `json:"performance_index"`
	BalanceScore     *float64    `json:"balance_score"`
	OverallCODScore  *float64    `json:"overall_cod_score"`
	Category         *string     `json:"category"`
	Advice           *Advice     `json:"advice,omitempty"`
}

// TeamStats aggregates over the whole roster.
type TeamStats struct {
	AthletesN       int      `json:"athletes_n"`
	AttemptsN       int      `json:"attempts_n"`
	AvgBest         *float64 `json:"avg_best"`
	FastestBest     *float64 `json:"fastest_best"`
	SlowestBest     *float64 `json:"slowest_best"`
	AvgAsymmetryPct *float64 `json:"avg_asymmetry_pct"`
	AsymmetryLt5N   int      `json:"asymmetry_lt_5_n"`
	Asymmetry5To10N int      `json:"asymmetry_5_10_n"`
	AsymmetryGt10N  int      `json:"asymmetry_gt_10_n"`
	SlowerLeftN     int      `json:"slower_left_n"`
	SlowerRightN    int      `json:"slower_right_n"`
}

// ScatterPoint places one athlete on the speed/asymmetry plane.
type ScatterPoint struct {
	UserID     string  `json:"user_id"`
	Label      string  `json:"label"`
	XBest      float64 `json:"x_best"`
	YAsymmetry float64 `json:"y_asymmetry"`
}

// Scatter is the scatter-plot payload with its quadrant thresholds.
type Scatter struct {
	Points     []ScatterPoint `json:"points"`
	XThreshold float64        `json:"x_threshold"`
	YThreshold float64        `json:"y_threshold"`
}

// SessionBlock is one drill inside a training session.
type SessionBlock struct {
	Title    string   `json:"title"`
	Work     string   `json:"work"`
	Coaching []string `json:"coaching"`
}

// Session is a templated training session.
type Session struct {
	Title       string         `json:"title"`
	DurationMin int            `json:"duration_min"`
	Goal        string         `json:"goal"`
	Equipment   string         `json:"equipment"`
	Blocks      []SessionBlock `json:"blocks"`
}

// ActionBlock is a team-level recommendation. An empty RulesTriggered means
// the block is informational.
type ActionBlock struct {
	Title          string   `json:"title"`
	RulesTriggered []string `json:"rules_triggered"`
	Items          []string `json:"items"`
}

// CoachReport is the complete 5-0-5 coaching report.
type CoachReport struct {
	GeneratedAt    time.Time        `json:"generated_at"`
	TestedAtLatest *time.Time       `json:"tested_at_latest"`
	Language       model.Language   `json:"language"`
	Athletes       []AthleteMetrics `json:"athletes"`
	Team           TeamStats        `json:"team"`
	Scatter        Scatter          `json:"scatter"`
	Sessions       []Session        `json:"sessions"`
	Actions        []ActionBlock    `json:"actions"`
}

// LeaderboardRow is one ranked athlete on a station leaderboard.
type LeaderboardRow struct {
	StationID        string    `json:"station_id"`
	StationShortName string    `json:"station_short_name"`
	Rank             int       `json:"rank"`
	TimeSeconds      float64   `json:"time_seconds"`
	TestedAt         time.Time `json:"tested_at"`
	UserID           string    `json:"user_id"`
	AthleteName      string    `json:"athlete_name"`
	Sex              *string   `json:"sex"`
	AgeAtTest        *float64  `json:"age_at_test"`
}

// LeaderboardStation groups the top rows for one station.
type LeaderboardStation struct {
	StationID        string           `json:"station_id"`
	StationShortName string           `json:"station_short_name"`
	Rows             []LeaderboardRow `json:"rows"`
}

// HistogramBin is one equal-width bucket of a benchmark distribution.
type HistogramBin struct {
	Label string  `json:"x"`
	Count int     `json:"count"`
	From  float64 `json:"from"`
	To    float64 `json:"to"`
}

// BenchmarkSummary describes a cohort's time distribution on one station.
type BenchmarkSummary struct {
	StationID string         `json:"station_id"`
	N         int            `json:"n"`
	P10       *float64       `json:"p10"`
	P50       *float64       `json:"p50"`
	P90       *float64       `json:"p90"`
	Min       *float64       `json:"min"`
	Max       *float64       `json:"max"`
	Histogram []HistogramBin `json:"histogram"`
}

// Float returns a pointer to v, for optional numeric fields.
func Float(v float64) *float64 { return &v }

// String returns a pointer to v, for optional string fields.
func String(v string) *string { return &v }

// Rejection names a submitted result that was not stored.
type Rejection struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

// IngestResult summarizes one result submission.
type IngestResult struct {
	Accepted   int         `json:"accepted"`
	Duplicates int         `json:"duplicates"`
	Rejected   []Rejection `json:"rejected"`
}

// ServiceStats is the GET /stats payload. Store and ingest figures are only
// present while the service runs, and CachedReports only with a cache.
type ServiceStats struct {
	Started         bool    `json:"started"`
	DefaultLanguage string  `json:"default_language"`
	YThresholdPct   float64 `json:"y_threshold_pct"`
	SampleLimit     int     `json:"sample_limit"`
	StoredSamples   *int    `json:"stored_samples,omitempty"`
	CachedReports   *int64  `json:"cached_reports,omitempty"`
	IngestQueued    *int    `json:"ingest_queued,omitempty"`
	IngestWorkers   *int    `json:"ingest_workers,omitempty"`
	DedupeIDs       *int64  `json:"dedupe_ids,omitempty"`
}
