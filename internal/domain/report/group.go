package report

import "github.com/okian/clubperf/internal/domain/model"

// Groups maps athlete ids to their attempts. IDs preserves the order in which
// each athlete first appeared in the input.
type Groups struct {
	IDs      []string
	Attempts map[string][]model.TimingSample
}

// GroupByAthlete partitions samples by athlete id. Every attempt is kept and
// each athlete owns a fresh slice.
func GroupByAthlete(samples []model.TimingSample) Groups {
	g := Groups{
		IDs:      make([]string, 0),
		Attempts: make(map[string][]model.TimingSample),
	}
	for _, s := range samples {
		if _, seen := g.Attempts[s.AthleteID]; !seen {
			g.IDs = append(g.IDs, s.AthleteID)
		}
		g.Attempts[s.AthleteID] = append(g.Attempts[s.AthleteID], s)
	}
	return g
}

// Len returns the number of distinct athletes.
func (g Groups) Len() int { return len(g.IDs) }
