// Package scoring turns per-side 5-0-5 timings into normalized performance,
// balance and composite scores.
package scoring

import (
	"math"

	"github.com/okian/clubperf/internal/domain/model"
)

// Default scoring configuration constants for the 5-0-5 protocol.
const (
	defaultFastestSeconds = 2.0
	defaultSlowestSeconds = 2.4
	defaultPerfWeight     = 0.7
	defaultBalanceWeight  = 0.3
	defaultEliteMin       = 85
	defaultStrongMin      = 70
	defaultModerateMin    = 55
	defaultTailSlope      = 1.5
	maxScoreValue         = 100
	percent               = 100
)

// Category buckets a composite score.
type Category string

// Categories in descending order.
const (
	CategoryElite            Category = "Elite"
	CategoryStrong           Category = "Strong"
	CategoryModerate         Category = "Moderate"
	CategoryNeedsDevelopment Category = "Needs Development"
)

// NeedsAdvice reports whether athletes in this category get a coaching block.
func (c Category) NeedsAdvice() bool {
	return c == CategoryModerate || c == CategoryNeedsDevelopment
}

// BalanceSegment is one linear piece of the balance curve. Asymmetry values up
// to and including UpTo map linearly from From (at the previous breakpoint)
// down to To.
type BalanceSegment struct {
	UpTo float64
	From float64
	To   float64
}

var defaultBalanceCurve = []BalanceSegment{ //nolint:gochecknoglobals // immutable default table
	{UpTo: 5, From: 100, To: 80},
	{UpTo: 10, From: 80, To: 70},
	{UpTo: 15, From: 70, To: 60},
	{UpTo: 20, From: 60, To: 50},
	{UpTo: 30, From: 50, To: 30},
}

// Option applies a configuration option to the Scorer.
type Option func(*Scorer)

// WithReferenceBand sets the times mapped to performance 100 (fastest) and 0 (slowest).
func WithReferenceBand(fastest, slowest float64) Option {
	return func(s *Scorer) {
		if fastest > 0 && slowest > fastest {
			s.fastest = fastest
			s.slowest = slowest
		}
	}
}

// WithWeights sets the composite blend of performance and balance.
func WithWeights(performance, balance float64) Option {
	return func(s *Scorer) {
		if performance >= 0 && balance >= 0 && performance+balance > 0 {
			s.perfWeight = performance
			s.balanceWeight = balance
		}
	}
}

// WithCategoryThresholds sets the minimum composite score for each category.
func WithCategoryThresholds(elite, strong, moderate float64) Option {
	return func(s *Scorer) {
		if elite > strong && strong > moderate {
			s.eliteMin = elite
			s.strongMin = strong
			s.moderateMin = moderate
		}
	}
}

// WithBalanceCurve replaces the piecewise balance curve. Beyond the last
// segment the score falls by tailSlope per asymmetry point, floored at 0.
func WithBalanceCurve(segments []BalanceSegment, tailSlope float64) Option {
	return func(s *Scorer) {
		if len(segments) == 0 || tailSlope < 0 {
			return
		}
		s.curve = append([]BalanceSegment(nil), segments...)
		s.tailSlope = tailSlope
	}
}

// Scorer computes 5-0-5 scores. A Scorer is immutable after construction and
// safe for concurrent use.
type Scorer struct {
	fastest       float64
	slowest       float64
	perfWeight    float64
	balanceWeight float64
	eliteMin      float64
	strongMin     float64
	moderateMin   float64
	curve         []BalanceSegment
	tailSlope     float64
}

// NewScorer creates a scorer with the 5-0-5 defaults and applies opts.
func NewScorer(opts ...Option) *Scorer {
	s := &Scorer{
		fastest:       defaultFastestSeconds,
		slowest:       defaultSlowestSeconds,
		perfWeight:    defaultPerfWeight,
		balanceWeight: defaultBalanceWeight,
		eliteMin:      defaultEliteMin,
		strongMin:     defaultStrongMin,
		moderateMin:   defaultModerateMin,
		curve:         defaultBalanceCurve,
		tailSlope:     defaultTailSlope,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Result carries every derived value for one athlete. Nil means the value
// could not be computed from the attempts.
type Result struct {
	LeftBest         *float64
	RightBest        *float64
	Best             *float64
	AsymmetryPct     *float64
	SlowerSide       *model.Side
	PerformanceIndex *float64
	BalanceScore     *float64
	Composite        *float64
	Category         *Category
}

// Score derives the full result from one athlete's attempts.
func (s *Scorer) Score(attempts []model.TimingSample) Result {
	left, right := BestBySide(attempts)
	return s.ScoreSides(left, right)
}

// ScoreSides derives the full result from per-side best times.
func (s *Scorer) ScoreSides(left, right *float64) Result {
	r := Result{LeftBest: left, RightBest: right}

	switch {
	case left != nil && right != nil:
		r.Best = ptr(math.Min(*left, *right))
	case left != nil:
		r.Best = ptr(*left)
	case right != nil:
		r.Best = ptr(*right)
	}

	if left != nil && right != nil {
		side := SlowerSide(*left, *right)
		r.SlowerSide = &side
		if pct, ok := Asymmetry(*left, *right); ok {
			r.AsymmetryPct = ptr(pct)
		}
	}

	if r.Best != nil {
		r.PerformanceIndex = ptr(s.PerformanceIndex(*r.Best))
	}
	if r.AsymmetryPct != nil {
		r.BalanceScore = ptr(s.BalanceScore(*r.AsymmetryPct))
	}
	if r.PerformanceIndex != nil && r.BalanceScore != nil {
		c := s.Composite(*r.PerformanceIndex, *r.BalanceScore)
		r.Composite = ptr(c)
		cat := s.Categorize(c)
		r.Category = &cat
	}
	return r
}

// BestBySide returns the fastest valid time per side. Attempts with an
// unknown side or an invalid time are ignored.
func BestBySide(attempts []model.TimingSample) (left, right *float64) {
	for i := range attempts {
		a := &attempts[i]
		if !a.HasValidTime() {
			continue
		}
		switch a.Side {
		case model.SideLeft:
			left = minPtr(left, a.TimeSeconds)
		case model.SideRight:
			right = minPtr(right, a.TimeSeconds)
		}
	}
	return left, right
}

// Asymmetry returns (slower − faster) / faster × 100. It reports false when
// the faster time is not positive or the ratio overflows.
func Asymmetry(left, right float64) (float64, bool) {
	fast := math.Min(left, right)
	slow := math.Max(left, right)
	if fast <= 0 {
		return 0, false
	}
	v := (slow - fast) / fast * percent
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

// SlowerSide names the side with the larger best time. Equal times resolve
// to left.
func SlowerSide(left, right float64) model.Side {
	if left >= right {
		return model.SideLeft
	}
	return model.SideRight
}

// PerformanceIndex maps a best time onto [0,100] against the reference band.
func (s *Scorer) PerformanceIndex(best float64) float64 {
	return clamp((s.slowest-best)/(s.slowest-s.fastest)*percent, 0, maxScoreValue)
}

// BalanceScore maps an asymmetry percentage onto [0,100] along the curve.
func (s *Scorer) BalanceScore(asymmetryPct float64) float64 {
	a := math.Max(0, asymmetryPct)

	lo := 0.0
	for _, seg := range s.curve {
		if a <= seg.UpTo {
			return seg.From - ((a-lo)/(seg.UpTo-lo))*(seg.From-seg.To)
		}
		lo = seg.UpTo
	}

	last := s.curve[len(s.curve)-1]
	return math.Max(0, last.To-(a-last.UpTo)*s.tailSlope)
}

// Composite blends performance and balance.
func (s *Scorer) Composite(performance, balance float64) float64 {
	return performance*s.perfWeight + balance*s.balanceWeight
}

// Categorize buckets a composite score.
func (s *Scorer) Categorize(score float64) Category {
	switch {
	case score >= s.eliteMin:
		return CategoryElite
	case score >= s.strongMin:
		return CategoryStrong
	case score >= s.moderateMin:
		return CategoryModerate
	default:
		return CategoryNeedsDevelopment
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}

func minPtr(cur *float64, v float64) *float64 {
	if cur == nil || v < *cur {
		return ptr(v)
	}
	return cur
}

func ptr(v float64) *float64 { return &v }
