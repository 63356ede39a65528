package locale

import "github.com/okian/clubperf/internal/domain/model"

var english = &Dictionary{ //nolint:gochecknoglobals // static text table
	Language: model.LanguageEnglish,
	Advice: AdviceText{
		TitlePerf:        "Faster turn speed",
		TitleBal:         "Stronger plant + symmetry",
		TitlePerfBal:     "Faster turn + stronger plant",
		TitlePerfBalAsym: "Faster turn + symmetry",
		WhyPerfFormat:    "Turn speed is below target (%d/100).",
		WhyBalFormat:     "Left/right balance is below target (%d/100).",
		WhyAsymFormat:    "Left/right gap is high (%.1f%%).",
		ActBraking:       "Coach braking: low hips, chest over toes, strong last 2 steps.",
		ActReaccel:       "Explode out: push the ground away (first 2 steps).",
		ActPlant:         "Plant foot: stable ankle/knee, no knee collapse, hit the same spot.",
		ActWeakSide:      "Start reps on the weaker turn direction (extra 2–3 reps).",
		ActTrack:         "Re-test in 2–4 weeks; aim for <10% left/right gap.",
	},
	TrigTeamAsymFormat: "Team avg asymmetry > %s%%",
	Trig30:             "≥30% of athletes > 10% asymmetry",
	TitleAsym:          "Change-of-direction symmetry",
	AsymItems: []string{
		"Include left/right COD reps every session (balanced volume).",
		"Track asymmetry weekly; target <10% for most athletes.",
		"Prioritize deceleration + plant mechanics on the slower side.",
	},
	TrigSlowerMedian: "Team average slower than median best threshold",
	TitlePerf:        "5-0-5 performance (time)",
	PerfItems: []string{
		"Add 1–2 short COD exposures/week (quality reps, full recovery).",
		"Coach trunk stiffness + shin angle on entry and exit.",
		"Use timed sets to maintain intent (1–3 reps per set).",
	},
	TrigMoreLeft:  "More athletes slower on left turns",
	TrigMoreRight: "More athletes slower on right turns",
	TitleBias:     "Directional bias",
	BiasItems: []string{
		"If a bias exists, start COD blocks with the weaker turn direction.",
		"Keep total left/right turn volume equal across the week.",
		"Re-test after 2–4 weeks to confirm change.",
	},
	Sessions: SessionText{
		Equipment: "Cones + stopwatch (or timing gates)",
		S1Title:   "Session 1: Braking + plant",
		S1Goal:    "Better braking + a cleaner plant foot.",
		S2Title:   "Session 2: Turn speed + symmetry",
		S2Goal:    "Faster turns + smaller left/right gap.",
		Warmup: Block{
			Title:    "Warm-up (10 min)",
			Work:     "Mobility + 2×10m build-up + 2×decel & stick.",
			Coaching: []string{"Hips down before the turn.", "Stable trunk."},
		},
		Braking: Block{
			Title:    "Brake → plant (10–12 min)",
			Work:     "4×3 reps: 5m sprint → hard brake → plant → 2 steps out. Full rest.",
			Coaching: []string{"Chest over toes, hips low.", "Strong last 2 steps."},
		},
		COD505: Block{
			Title:    "Timed turns (10 min)",
			Work:     "2×3 reps each direction. Full rest. Time it.",
			Coaching: []string{"Attack in. Clean plant. Explode out.", "Same plant spot."},
		},
		WeakSide: Block{
			Title:    "Weak-side top-up (6–8 min)",
			Work:     "+2 reps each athlete on weaker turn (quality only).",
			Coaching: []string{"Start on weak side.", "Stop when quality drops."},
		},
	},
}
