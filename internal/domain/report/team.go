package report

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"

	"github.com/okian/clubperf/internal/domain/model"
	"github.com/okian/clubperf/internal/domain/types"
)

const (
	fallbackXThreshold = 2.0
	bucketLowUpper     = 5
	bucketMidUpper     = 10
)

// rank orders athletes by composite descending, then best ascending. Missing
// composites sort last, missing bests sort after present ones.
func rank(athletes []types.AthleteMetrics) {
	sort.SliceStable(athletes, func(i, j int) bool {
		a, b := athletes[i], athletes[j]
		if !sameOptional(a.OverallCODScore, b.OverallCODScore) {
			if a.OverallCODScore == nil {
				return false
			}
			if b.OverallCODScore == nil {
				return true
			}
			return *a.OverallCODScore > *b.OverallCODScore
		}
		if b.Best == nil {
			return a.Best != nil
		}
		if a.Best == nil {
			return false
		}
		return *a.Best < *b.Best
	})
}

func sameOptional(a, b *float64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func teamStats(athletes []types.AthleteMetrics, attempts int) types.TeamStats {
	t := types.TeamStats{AthletesN: len(athletes), AttemptsN: attempts}

	bests := make(stats.Float64Data, 0, len(athletes))
	asyms := make(stats.Float64Data, 0, len(athletes))
	for i := range athletes {
		a := &athletes[i]
		if a.Best != nil {
			bests = append(bests, *a.Best)
		}
		if a.AsymmetryPct != nil {
			v := *a.AsymmetryPct
			asyms = append(asyms, v)
			switch {
			case v < 0:
			case v < bucketLowUpper:
				t.AsymmetryLt5N++
			case v <= bucketMidUpper:
				t.Asymmetry5To10N++
			default:
				t.AsymmetryGt10N++
			}
		}
		if a.SlowerSide != nil {
			switch *a.SlowerSide {
			case model.SideLeft:
				t.SlowerLeftN++
			case model.SideRight:
				t.SlowerRightN++
			}
		}
	}

	t.AvgBest = aggregate(stats.Mean, bests)
	t.FastestBest = aggregate(stats.Min, bests)
	t.SlowestBest = aggregate(stats.Max, bests)
	t.AvgAsymmetryPct = aggregate(stats.Mean, asyms)
	return t
}

// aggregate returns nil for empty input and for results that overflow.
func aggregate(fn func(stats.Float64Data) (float64, error), data stats.Float64Data) *float64 {
	if len(data) == 0 {
		return nil
	}
	v, err := fn(data)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return nil
	}
	return types.Float(v)
}

// scatter keeps ranked order and only athletes with both coordinates.
func scatter(athletes []types.AthleteMetrics, yThreshold float64) types.Scatter {
	s := types.Scatter{
		Points:     make([]types.ScatterPoint, 0, len(athletes)),
		XThreshold: fallbackXThreshold,
		YThreshold: yThreshold,
	}

	bests := make(stats.Float64Data, 0, len(athletes))
	for i := range athletes {
		a := &athletes[i]
		if a.Best != nil {
			bests = append(bests, *a.Best)
		}
		if a.Best == nil || a.AsymmetryPct == nil {
			continue
		}
		s.Points = append(s.Points, types.ScatterPoint{
			UserID:     a.UserID,
			Label:      a.Name,
			XBest:      *a.Best,
			YAsymmetry: *a.AsymmetryPct,
		})
	}

	if m := aggregate(stats.Median, bests); m != nil {
		s.XThreshold = *m
	}
	return s
}
