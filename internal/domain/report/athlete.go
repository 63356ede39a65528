package report

import (
	"math"
	"strings"

	"github.com/okian/clubperf/internal/domain/locale"
	"github.com/okian/clubperf/internal/domain/model"
	"github.com/okian/clubperf/internal/domain/scoring"
	"github.com/okian/clubperf/internal/domain/types"
)

const (
	adviceLowScore     = 70
	adviceHighAsym     = 10
	adviceMaxWhy       = 2
	adviceMaxActions   = 4
	adviceTrackCeiling = 5
)

func athleteMetrics(scorer *scoring.Scorer, dict *locale.Dictionary, id string, attempts []model.TimingSample) types.AthleteMetrics {
	r := scorer.Score(attempts)

	m := types.AthleteMetrics{
		UserID:           id,
		Name:             attempts[0].Identity.DisplayName(),
		LeftBest:         r.LeftBest,
		RightBest:        r.RightBest,
		Best:             r.Best,
		AsymmetryPct:     r.AsymmetryPct,
		SlowerSide:       r.SlowerSide,
		PerformanceIndex: r.PerformanceIndex,
		BalanceScore:     r.BalanceScore,
		OverallCODScore:  r.Composite,
	}
	if r.Category != nil {
		m.Category = types.String(string(*r.Category))
		if r.Category.NeedsAdvice() {
			m.Advice = buildAdvice(dict, r.PerformanceIndex, r.BalanceScore, r.AsymmetryPct)
		}
	}
	return m
}

// buildAdvice returns nil when no flag fires.
func buildAdvice(dict *locale.Dictionary, perf, bal, asym *float64) *types.Advice {
	perfLow := perf != nil && *perf < adviceLowScore
	balLow := bal != nil && *bal < adviceLowScore
	asymHigh := asym != nil && *asym >= adviceHighAsym

	if !perfLow && !balLow && !asymHigh {
		return nil
	}

	keys := make([]string, 0, 3)
	if perfLow {
		keys = append(keys, "perf")
	}
	if balLow {
		keys = append(keys, "bal")
	}
	if asymHigh {
		keys = append(keys, "asym")
	}

	text := dict.Advice
	var title string
	switch {
	case perfLow && balLow && asymHigh:
		title = text.TitlePerfBalAsym
	case perfLow && balLow:
		title = text.TitlePerfBal
	case perfLow:
		title = text.TitlePerf
	default:
		title = text.TitleBal
	}

	why := make([]string, 0, 3)
	actions := make([]string, 0, 5)
	if perfLow {
		why = append(why, dict.WhyPerf(roundHalfUp(*perf)))
		actions = append(actions, text.ActBraking, text.ActReaccel)
	}
	if balLow || asymHigh {
		if balLow {
			why = append(why, dict.WhyBal(roundHalfUp(*bal)))
		}
		if asymHigh {
			why = append(why, dict.WhyAsym(*asym))
		}
		actions = append(actions, text.ActPlant, text.ActWeakSide)
	}
	if len(actions) < adviceTrackCeiling {
		actions = append(actions, text.ActTrack)
	}

	return &types.Advice{
		Key:     strings.Join(keys, "+"),
		Title:   title,
		Why:     truncate(why, adviceMaxWhy),
		Actions: truncate(actions, adviceMaxActions),
	}
}

func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}

func truncate(s []string, n int) []string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
