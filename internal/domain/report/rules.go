package report

import (
	"math"

	"github.com/okian/clubperf/internal/domain/locale"
	"github.com/okian/clubperf/internal/domain/types"
)

const (
	rosterShareHighAsym = 0.3
	highAsymPct         = 10
)

// RuleBlock names one of the team action blocks, in emission order.
type RuleBlock string

// Team action blocks.
const (
	RuleBlockSymmetry RuleBlock = "symmetry"
	RuleBlockSpeed    RuleBlock = "speed"
	RuleBlockBias     RuleBlock = "bias"
)

// actions always emits the symmetry, speed and bias blocks in that order.
func actions(dict *locale.Dictionary, team types.TeamStats, xThreshold, yThreshold float64) []types.ActionBlock {
	return []types.ActionBlock{
		{
			Title:          dict.TitleAsym,
			RulesTriggered: symmetryRules(dict, team, yThreshold),
			Items:          clone(dict.AsymItems),
		},
		{
			Title:          dict.TitlePerf,
			RulesTriggered: speedRules(dict, team, xThreshold),
			Items:          clone(dict.PerfItems),
		},
		{
			Title:          dict.TitleBias,
			RulesTriggered: biasRules(dict, team),
			Items:          clone(dict.BiasItems),
		},
	}
}

func symmetryRules(dict *locale.Dictionary, team types.TeamStats, yThreshold float64) []string {
	out := make([]string, 0, 2)
	if team.AvgAsymmetryPct != nil && *team.AvgAsymmetryPct > yThreshold {
		out = append(out, dict.TrigTeamAsym(yThreshold))
	}
	if team.AsymmetryGt10N >= highAsymQuorum(team.AthletesN) {
		out = append(out, dict.Trig30)
	}
	return out
}

// highAsymQuorum is ceil(30% of the roster), at least one athlete.
func highAsymQuorum(athletes int) int {
	q := int(math.Ceil(float64(athletes) * rosterShareHighAsym))
	if q < 1 {
		return 1
	}
	return q
}

func speedRules(dict *locale.Dictionary, team types.TeamStats, xThreshold float64) []string {
	out := make([]string, 0, 1)
	if team.AvgBest != nil && *team.AvgBest > xThreshold {
		out = append(out, dict.TrigSlowerMedian)
	}
	return out
}

func biasRules(dict *locale.Dictionary, team types.TeamStats) []string {
	out := make([]string, 0, 1)
	if team.SlowerLeftN > team.SlowerRightN {
		out = append(out, dict.TrigMoreLeft)
	}
	if team.SlowerRightN > team.SlowerLeftN {
		out = append(out, dict.TrigMoreRight)
	}
	return out
}

// Triggered returns the blocks whose rules fired, keyed by block name.
func Triggered(r types.CoachReport) map[RuleBlock]int {
	names := []RuleBlock{RuleBlockSymmetry, RuleBlockSpeed, RuleBlockBias}
	out := make(map[RuleBlock]int, len(names))
	for i, b := range r.Actions {
		if i < len(names) && len(b.RulesTriggered) > 0 {
			out[names[i]] = len(b.RulesTriggered)
		}
	}
	return out
}

func clone(s []string) []string {
	return append(make([]string, 0, len(s)), s...)
}
