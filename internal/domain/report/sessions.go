package report

import (
	"github.com/okian/clubperf/internal/domain/locale"
	"github.com/okian/clubperf/internal/domain/types"
)

const sessionMinutes = 30

func sessions(dict *locale.Dictionary, team types.TeamStats, yThreshold float64) []types.Session {
	s := dict.Sessions

	symmetryFocus := (team.AvgAsymmetryPct != nil && *team.AvgAsymmetryPct > yThreshold) ||
		team.AsymmetryGt10N > 0

	second := baseBlocks(s)
	if symmetryFocus {
		second = append(second, block(s.WeakSide))
	}

	return []types.Session{
		{
			Title:       s.S1Title,
			DurationMin: sessionMinutes,
			Goal:        s.S1Goal,
			Equipment:   s.Equipment,
			Blocks:      baseBlocks(s),
		},
		{
			Title:       s.S2Title,
			DurationMin: sessionMinutes,
			Goal:        s.S2Goal,
			Equipment:   s.Equipment,
			Blocks:      second,
		},
	}
}

func baseBlocks(s locale.SessionText) []types.SessionBlock {
	return []types.SessionBlock{block(s.Warmup), block(s.Braking), block(s.COD505)}
}

func block(b locale.Block) types.SessionBlock {
	return types.SessionBlock{Title: b.Title, Work: b.Work, Coaching: clone(b.Coaching)}
}
