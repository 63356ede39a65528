// Package report builds the 5-0-5 coaching report: per-athlete metrics, team
// aggregates, the scatter payload, team action blocks and training sessions.
// Build is pure apart from the injected clock and is safe for concurrent use.
package report

import (
	"fmt"
	"math"
	"time"

	"github.com/okian/clubperf/internal/domain/locale"
	"github.com/okian/clubperf/internal/domain/model"
	"github.com/okian/clubperf/internal/domain/scoring"
	"github.com/okian/clubperf/internal/domain/types"
)

// DefaultYThresholdPct is the asymmetry threshold used when none is supplied.
const DefaultYThresholdPct = 10.0

// Option configures a single Build call.
type Option func(*builder)

type builder struct {
	language   model.Language
	yThreshold float64
	clock      func() time.Time
	scorer     *scoring.Scorer
}

// WithLanguage selects the report language. Empty means the default language.
func WithLanguage(lang model.Language) Option {
	return func(b *builder) {
		b.language = lang
	}
}

// WithYThreshold sets the asymmetry threshold in percent. Negative or
// non-finite values are ignored and the report keeps DefaultYThresholdPct;
// callers that must reject such input, like the service and the CLI,
// validate it before building.
func WithYThreshold(pct float64) Option {
	return func(b *builder) {
		if !math.IsNaN(pct) && !math.IsInf(pct, 0) && pct >= 0 {
			b.yThreshold = pct
		}
	}
}

// WithClock overrides the source of generated_at.
func WithClock(now func() time.Time) Option {
	return func(b *builder) {
		if now != nil {
			b.clock = now
		}
	}
}

// WithScorer replaces the default 5-0-5 scorer.
func WithScorer(s *scoring.Scorer) Option {
	return func(b *builder) {
		if s != nil {
			b.scorer = s
		}
	}
}

// Build turns raw timing samples into a complete coaching report. It fails
// only on malformed samples or an unsupported language; missing or invalid
// times are excluded from every aggregate.
func Build(samples []model.TimingSample, opts ...Option) (types.CoachReport, error) {
	b := builder{
		language:   model.DefaultLanguage,
		yThreshold: DefaultYThresholdPct,
		clock:      time.Now,
		scorer:     scoring.NewScorer(),
	}
	for _, opt := range opts {
		opt(&b)
	}

	dict, err := locale.Lookup(b.language)
	if err != nil {
		return types.CoachReport{}, err
	}
	if err := Validate(samples); err != nil {
		return types.CoachReport{}, err
	}

	groups := GroupByAthlete(samples)
	athletes := make([]types.AthleteMetrics, 0, groups.Len())
	for _, id := range groups.IDs {
		athletes = append(athletes, athleteMetrics(b.scorer, dict, id, groups.Attempts[id]))
	}
	rank(athletes)

	team := teamStats(athletes, len(samples))
	sc := scatter(athletes, b.yThreshold)

	return types.CoachReport{
		GeneratedAt:    b.clock().UTC(),
		TestedAtLatest: latest(samples),
		Language:       dict.Language,
		Athletes:       athletes,
		Team:           team,
		Scatter:        sc,
		Sessions:       sessions(dict, team, b.yThreshold),
		Actions:        actions(dict, team, sc.XThreshold, b.yThreshold),
	}, nil
}

// Validate checks that every sample has an athlete id and an identity
// snapshot. The error names the first offending index.
func Validate(samples []model.TimingSample) error {
	for i := range samples {
		switch {
		case samples[i].AthleteID == "":
			return fmt.Errorf("sample %d: missing athlete id: %w", i, ErrMalformedSample)
		case samples[i].Identity == nil:
			return fmt.Errorf("sample %d: missing athlete identity: %w", i, ErrMalformedSample)
		}
	}
	return nil
}

func latest(samples []model.TimingSample) *time.Time {
	var out *time.Time
	for i := range samples {
		t := samples[i].TestedAt
		if t.IsZero() {
			continue
		}
		if out == nil || t.After(*out) {
			v := t
			out = &v
		}
	}
	return out
}
