package report_test

import (
	"encoding/json"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/okian/clubperf/internal/domain/locale"
	"github.com/okian/clubperf/internal/domain/model"
	"github.com/okian/clubperf/internal/domain/report"
	"github.com/okian/clubperf/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

var fixedNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func sample(id string, side model.Side, t float64, at time.Time) model.TimingSample {
	return model.TimingSample{
		AthleteID:   id,
		Side:        side,
		TimeSeconds: t,
		TestedAt:    at,
		Identity:    &model.Identity{FirstName: "Player", LastName: id, Sex: "M"},
	}
}

func pair(id string, left, right float64) []model.TimingSample {
	at := time.Date(2025, 2, 1, 10, 0, 0, 0, time.UTC)
	return []model.TimingSample{
		sample(id, model.SideLeft, left, at),
		sample(id, model.SideRight, right, at),
	}
}

func concat(groups ...[]model.TimingSample) []model.TimingSample {
	var out []model.TimingSample
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

func findAthlete(r types.CoachReport, id string) types.AthleteMetrics {
	for _, a := range r.Athletes {
		if a.UserID == id {
			return a
		}
	}
	return types.AthleteMetrics{}
}

func TestBuildEmpty(t *testing.T) {
	Convey("Given no samples", t, func() {
		r, err := report.Build(nil, report.WithClock(clock))

		Convey("Then a structurally complete report is produced", func() {
			So(err, ShouldBeNil)
			So(r.GeneratedAt, ShouldEqual, fixedNow)
			So(r.TestedAtLatest, ShouldBeNil)
			So(r.Language, ShouldEqual, model.LanguageEnglish)
			So(r.Athletes, ShouldNotBeNil)
			So(r.Athletes, ShouldBeEmpty)
			So(r.Team.AthletesN, ShouldEqual, 0)
			So(r.Team.AttemptsN, ShouldEqual, 0)
			So(r.Team.AvgBest, ShouldBeNil)
			So(r.Team.AvgAsymmetryPct, ShouldBeNil)
			So(r.Scatter.Points, ShouldNotBeNil)
			So(r.Scatter.Points, ShouldBeEmpty)
			So(r.Scatter.XThreshold, ShouldEqual, 2.0)
			So(r.Scatter.YThreshold, ShouldEqual, 10.0)
		})

		Convey("And all three action blocks are informational", func() {
			So(r.Actions, ShouldHaveLength, 3)
			for _, a := range r.Actions {
				So(a.RulesTriggered, ShouldNotBeNil)
				So(a.RulesTriggered, ShouldBeEmpty)
				So(a.Items, ShouldHaveLength, 3)
			}
		})

		Convey("And both sessions carry only the base blocks", func() {
			So(r.Sessions, ShouldHaveLength, 2)
			for _, s := range r.Sessions {
				So(s.DurationMin, ShouldEqual, 30)
				So(s.Blocks, ShouldHaveLength, 3)
			}
		})
	})
}

func TestBuildAthleteMetrics(t *testing.T) {
	Convey("Given an athlete with 2.10 left and 2.30 right", t, func() {
		samples := pair("a1", 2.10, 2.30)
		samples = append(samples, sample("a1", model.SideLeft, math.NaN(), time.Time{}))

		r, err := report.Build(samples, report.WithClock(clock))
		So(err, ShouldBeNil)
		So(r.Athletes, ShouldHaveLength, 1)
		a := r.Athletes[0]

		Convey("Then the side metrics follow the 5-0-5 formulas", func() {
			So(a.Name, ShouldEqual, "Player a1")
			So(*a.LeftBest, ShouldEqual, 2.10)
			So(*a.RightBest, ShouldEqual, 2.30)
			So(*a.Best, ShouldEqual, 2.10)
			So(*a.AsymmetryPct, ShouldAlmostEqual, 9.5238, 1e-4)
			So(*a.SlowerSide, ShouldEqual, model.SideRight)
			So(*a.PerformanceIndex, ShouldAlmostEqual, 75, 1e-6)
			So(*a.Category, ShouldEqual, "Strong")
			So(a.Advice, ShouldBeNil)
		})

		Convey("And every attempt is counted", func() {
			So(r.Team.AttemptsN, ShouldEqual, 3)
			So(r.Team.AthletesN, ShouldEqual, 1)
		})
	})

	Convey("Given an athlete with only one side", t, func() {
		r, err := report.Build(pair("solo", 2.2, math.NaN()), report.WithClock(clock))
		So(err, ShouldBeNil)
		a := r.Athletes[0]

		So(*a.Best, ShouldEqual, 2.2)
		So(a.RightBest, ShouldBeNil)
		So(a.AsymmetryPct, ShouldBeNil)
		So(a.OverallCODScore, ShouldBeNil)
		So(a.Category, ShouldBeNil)
		So(r.Scatter.Points, ShouldBeEmpty)
		So(r.Scatter.XThreshold, ShouldEqual, 2.2)
	})
}

func TestBuildAdvice(t *testing.T) {
	Convey("Given athletes in the advice categories", t, func() {
		samples := concat(
			pair("slow", 2.30, 2.35),
			pair("lopsided", 2.30, 2.60),
		)
		r, err := report.Build(samples, report.WithClock(clock))
		So(err, ShouldBeNil)

		Convey("When only performance is low", func() {
			a := findAthlete(r, "slow")
			So(*a.Category, ShouldEqual, "Needs Development")
			So(a.Advice, ShouldNotBeNil)
			So(a.Advice.Key, ShouldEqual, "perf")
			So(a.Advice.Title, ShouldEqual, "Faster turn speed")
			So(a.Advice.Why, ShouldResemble, []string{"Turn speed is below target (25/100)."})
			So(a.Advice.Actions, ShouldHaveLength, 3)
			So(a.Advice.Actions[2], ShouldEqual, "Re-test in 2–4 weeks; aim for <10% left/right gap.")
		})

		Convey("When every flag fires", func() {
			a := findAthlete(r, "lopsided")
			So(a.Advice, ShouldNotBeNil)
			So(a.Advice.Key, ShouldEqual, "perf+bal+asym")
			So(a.Advice.Title, ShouldEqual, "Faster turn + symmetry")
			So(a.Advice.Why, ShouldHaveLength, 2)
			So(a.Advice.Why[0], ShouldEqual, "Turn speed is below target (25/100).")
			So(a.Advice.Why[1], ShouldEqual, "Left/right balance is below target (64/100).")
			So(a.Advice.Actions, ShouldHaveLength, 4)
		})
	})

	Convey("Given a fast athlete with a large left/right gap", t, func() {
		r, err := report.Build(pair("onesided", 2.10, 2.52), report.WithClock(clock))
		So(err, ShouldBeNil)
		a := findAthlete(r, "onesided")

		Convey("Then the balance and gap template is used", func() {
			So(*a.PerformanceIndex, ShouldBeGreaterThanOrEqualTo, 70)
			So(*a.Category, ShouldEqual, "Moderate")
			So(a.Advice, ShouldNotBeNil)
			So(a.Advice.Key, ShouldEqual, "bal+asym")
			So(a.Advice.Title, ShouldEqual, "Stronger plant + symmetry")
			So(a.Advice.Why, ShouldResemble, []string{
				"Left/right balance is below target (50/100).",
				"Left/right gap is high (20.0%).",
			})
			So(a.Advice.Actions, ShouldResemble, []string{
				"Plant foot: stable ankle/knee, no knee collapse, hit the same spot.",
				"Start reps on the weaker turn direction (extra 2–3 reps).",
				"Re-test in 2–4 weeks; aim for <10% left/right gap.",
			})
		})
	})

	Convey("Given a gap of exactly ten percent", t, func() {
		r, err := report.Build(pair("edge", 2.5, 2.75), report.WithClock(clock))
		So(err, ShouldBeNil)
		a := findAthlete(r, "edge")

		Convey("Then balance sits at 70 and only the gap flag joins performance", func() {
			So(*a.AsymmetryPct, ShouldEqual, 10)
			So(*a.BalanceScore, ShouldEqual, 70)
			So(*a.Category, ShouldEqual, "Needs Development")
			So(a.Advice.Key, ShouldEqual, "perf+asym")
			So(a.Advice.Title, ShouldEqual, "Faster turn speed")
			So(a.Advice.Why, ShouldResemble, []string{
				"Turn speed is below target (0/100).",
				"Left/right gap is high (10.0%).",
			})
			So(a.Advice.Actions, ShouldHaveLength, 4)
			So(a.Advice.Actions[3], ShouldEqual, "Start reps on the weaker turn direction (extra 2–3 reps).")
		})
	})

	Convey("Given the Swedish language", t, func() {
		r, err := report.Build(pair("slow", 2.30, 2.35),
			report.WithClock(clock), report.WithLanguage(model.LanguageSwedish))
		So(err, ShouldBeNil)
		So(r.Language, ShouldEqual, model.LanguageSwedish)
		So(r.Athletes[0].Advice.Title, ShouldEqual, "Snabbare vändning")
		So(r.Actions[0].Title, ShouldEqual, "Symmetri vid riktningsförändring")
	})
}

func TestBuildRanking(t *testing.T) {
	Convey("Given athletes with and without composite scores", t, func() {
		samples := concat(
			pair("onlyleft-slow", 2.35, math.NaN()),
			pair("mid", 2.20, 2.25),
			pair("onlyleft-fast", 2.05, math.NaN()),
			pair("top", 2.05, 2.08),
			[]model.TimingSample{sample("none", model.SideUnknown, 2.0, time.Time{})},
		)
		r, err := report.Build(samples, report.WithClock(clock))
		So(err, ShouldBeNil)

		Convey("Then scored athletes come first and the rest sort by best time", func() {
			ids := make([]string, 0, len(r.Athletes))
			for _, a := range r.Athletes {
				ids = append(ids, a.UserID)
			}
			So(ids, ShouldResemble, []string{"top", "mid", "onlyleft-fast", "onlyleft-slow", "none"})
		})

		Convey("And scatter points follow the ranked order", func() {
			So(r.Scatter.Points, ShouldHaveLength, 2)
			So(r.Scatter.Points[0].UserID, ShouldEqual, "top")
			So(r.Scatter.Points[1].UserID, ShouldEqual, "mid")
		})

		Convey("And the x threshold is the median of defined bests", func() {
			// bests: 2.05, 2.05, 2.20, 2.35
			So(r.Scatter.XThreshold, ShouldAlmostEqual, 2.125, 1e-9)
		})
	})
}

func TestBuildRules(t *testing.T) {
	Convey("Given a single highly asymmetric athlete", t, func() {
		r, err := report.Build(pair("lopsided", 2.30, 2.60), report.WithClock(clock))
		So(err, ShouldBeNil)

		Convey("Then both symmetry rules fire", func() {
			So(r.Actions[0].RulesTriggered, ShouldResemble, []string{
				"Team avg asymmetry > 10%",
				"≥30% of athletes > 10% asymmetry",
			})
		})

		Convey("And speed does not fire against its own median", func() {
			So(r.Actions[1].RulesTriggered, ShouldBeEmpty)
		})

		Convey("And the right-side bias fires", func() {
			So(r.Actions[2].RulesTriggered, ShouldResemble, []string{"More athletes slower on right turns"})
		})

		Convey("And session two gets the weak-side block", func() {
			So(r.Sessions[0].Blocks, ShouldHaveLength, 3)
			So(r.Sessions[1].Blocks, ShouldHaveLength, 4)
			So(r.Sessions[1].Blocks[3].Title, ShouldEqual, "Weak-side top-up (6–8 min)")
		})

		Convey("And Triggered reports the symmetry and bias blocks", func() {
			tr := report.Triggered(r)
			So(tr[report.RuleBlockSymmetry], ShouldEqual, 2)
			So(tr[report.RuleBlockBias], ShouldEqual, 1)
			So(tr, ShouldNotContainKey, report.RuleBlockSpeed)
		})
	})

	Convey("Given a team whose mean best is above the median", t, func() {
		samples := concat(
			pair("a", 2.00, 2.02),
			pair("b", 2.10, 2.12),
			pair("c", 2.60, 2.62),
		)
		r, err := report.Build(samples, report.WithClock(clock))
		So(err, ShouldBeNil)
		So(r.Actions[1].RulesTriggered, ShouldResemble, []string{"Team average slower than median best threshold"})
		So(r.Actions[2].RulesTriggered, ShouldResemble, []string{"More athletes slower on right turns"})
		So(r.Sessions[1].Blocks, ShouldHaveLength, 3)
	})

	Convey("Given a custom y threshold", t, func() {
		r, err := report.Build(pair("x", 2.10, 2.30), report.WithClock(clock), report.WithYThreshold(7.5))
		So(err, ShouldBeNil)
		So(r.Scatter.YThreshold, ShouldEqual, 7.5)
		So(r.Actions[0].RulesTriggered, ShouldResemble, []string{"Team avg asymmetry > 7.5%"})
		So(r.Sessions[1].Blocks, ShouldHaveLength, 4)
	})

	Convey("Given unusable y thresholds", t, func() {
		for _, y := range []float64{-1, math.NaN(), math.Inf(1)} {
			r, err := report.Build(pair("x", 2.10, 2.30), report.WithClock(clock), report.WithYThreshold(y))
			So(err, ShouldBeNil)
			So(r.Scatter.YThreshold, ShouldEqual, report.DefaultYThresholdPct)
		}
	})
}

func TestBuildExtremeTimes(t *testing.T) {
	Convey("Given a faster side too small for a finite gap", t, func() {
		r, err := report.Build(pair("tiny", 5e-324, 2.2), report.WithClock(clock))
		So(err, ShouldBeNil)

		Convey("Then the gap is undefined and the report still encodes", func() {
			a := findAthlete(r, "tiny")
			So(a.Best, ShouldNotBeNil)
			So(a.AsymmetryPct, ShouldBeNil)
			So(a.BalanceScore, ShouldBeNil)
			So(r.Team.AvgAsymmetryPct, ShouldBeNil)
			So(r.Scatter.Points, ShouldBeEmpty)

			_, err := json.Marshal(r)
			So(err, ShouldBeNil)
		})
	})

	Convey("Given best times whose sum overflows", t, func() {
		r, err := report.Build(concat(pair("a", 1.7e308, 1.7e308), pair("b", 1.7e308, 1.7e308)),
			report.WithClock(clock))
		So(err, ShouldBeNil)

		Convey("Then the mean and median are undefined and the report still encodes", func() {
			So(r.Team.AvgBest, ShouldBeNil)
			So(*r.Team.FastestBest, ShouldEqual, 1.7e308)
			So(*r.Team.SlowestBest, ShouldEqual, 1.7e308)
			So(r.Scatter.XThreshold, ShouldEqual, 2.0)
			So(r.Actions[1].RulesTriggered, ShouldBeEmpty)

			_, err := json.Marshal(r)
			So(err, ShouldBeNil)
		})
	})
}

func TestBuildErrors(t *testing.T) {
	Convey("Given a sample without an athlete id", t, func() {
		samples := pair("a", 2.1, 2.2)
		samples = append(samples, sample("", model.SideLeft, 2.1, time.Time{}))

		_, err := report.Build(samples)
		So(errors.Is(err, report.ErrMalformedSample), ShouldBeTrue)
		So(err.Error(), ShouldContainSubstring, "sample 2")
	})

	Convey("Given a sample without identity", t, func() {
		s := sample("a", model.SideLeft, 2.1, time.Time{})
		s.Identity = nil

		_, err := report.Build([]model.TimingSample{s})
		So(errors.Is(err, report.ErrMalformedSample), ShouldBeTrue)
	})

	Convey("Given an unsupported language", t, func() {
		_, err := report.Build(nil, report.WithLanguage("fr"))
		So(errors.Is(err, locale.ErrUnsupportedLanguage), ShouldBeTrue)
	})
}

func TestBuildDeterminism(t *testing.T) {
	Convey("Given the same input twice", t, func() {
		samples := concat(
			pair("a", 2.10, 2.30),
			pair("b", 2.20, 2.21),
			pair("c", 2.40, 2.05),
		)
		first, err1 := report.Build(samples, report.WithClock(clock))
		second, err2 := report.Build(samples, report.WithClock(clock))

		So(err1, ShouldBeNil)
		So(err2, ShouldBeNil)
		So(first, ShouldResemble, second)
	})

	Convey("Given samples with timestamps", t, func() {
		early := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
		late := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
		samples := []model.TimingSample{
			sample("a", model.SideLeft, 2.1, late),
			sample("a", model.SideRight, 2.2, early),
			sample("b", model.SideRight, 2.2, time.Time{}),
		}
		r, err := report.Build(samples, report.WithClock(clock))
		So(err, ShouldBeNil)
		So(*r.TestedAtLatest, ShouldEqual, late)
	})
}
