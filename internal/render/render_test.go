package render

import (
	"bytes"
	"testing"
	"time"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/clubperf/internal/domain/model"
	"github.com/okian/clubperf/internal/domain/report"
	"github.com/okian/clubperf/internal/domain/types"
)

func sample(id, first string, side model.Side, t float64) model.TimingSample {
	return model.TimingSample{
		AthleteID:   id,
		TimeSeconds: t,
		Side:        side,
		TestedAt:    time.Date(2025, 2, 20, 17, 0, 0, 0, time.UTC),
		Identity:    &model.Identity{FirstName: first},
	}
}

func TestReport(t *testing.T) {
	convey.Convey("Given a built coaching report", t, func() {
		rep, err := report.Build([]model.TimingSample{
			sample("a", "Ann", model.SideLeft, 2.05),
			sample("a", "Ann", model.SideRight, 2.10),
			sample("b", "Bo", model.SideLeft, 2.45),
			sample("b", "Bo", model.SideRight, 2.15),
		})
		convey.So(err, convey.ShouldBeNil)

		convey.Convey("When rendering it without color", func() {
			var buf bytes.Buffer
			err := New(&buf).Report(rep)

			convey.Convey("Then every section is printed", func() {
				convey.So(err, convey.ShouldBeNil)
				out := buf.String()
				convey.So(out, convey.ShouldContainSubstring, "Ann")
				convey.So(out, convey.ShouldContainSubstring, "Bo")
				convey.So(out, convey.ShouldContainSubstring, "Elite")
				convey.So(out, convey.ShouldContainSubstring, "Team")
				convey.So(out, convey.ShouldContainSubstring, "Actions")
				convey.So(out, convey.ShouldContainSubstring, "Sessions")
				convey.So(out, convey.ShouldContainSubstring, rep.Sessions[0].Title)
				convey.So(out, convey.ShouldNotContainSubstring, "\x1b[")
			})
		})

		convey.Convey("When rendering it with color", func() {
			text.EnableColors()
			var buf bytes.Buffer
			convey.So(New(&buf, WithColor(true)).Report(rep), convey.ShouldBeNil)

			convey.Convey("Then categories carry ANSI escapes", func() {
				convey.So(buf.String(), convey.ShouldContainSubstring, "\x1b[")
			})
		})
	})

	convey.Convey("Given an empty report", t, func() {
		rep, err := report.Build(nil)
		convey.So(err, convey.ShouldBeNil)

		convey.Convey("Then missing aggregates render as dashes", func() {
			var buf bytes.Buffer
			convey.So(New(&buf).Report(rep), convey.ShouldBeNil)
			convey.So(buf.String(), convey.ShouldContainSubstring, missing)
		})
	})
}

func TestLeaderboardAndBenchmark(t *testing.T) {
	convey.Convey("Given a leaderboard", t, func() {
		board := []types.LeaderboardStation{{
			StationID:        model.COD505StationID,
			StationShortName: "5-0-5",
			Rows: []types.LeaderboardRow{{
				Rank:        1,
				TimeSeconds: 2.104,
				AthleteName: "Ann Lind",
				TestedAt:    time.Date(2025, 2, 20, 0, 0, 0, 0, time.UTC),
				Sex:         types.String("F"),
				AgeAtTest:   types.Float(14.26),
			}},
		}}

		convey.Convey("Then rows are printed with rounded values", func() {
			var buf bytes.Buffer
			convey.So(New(&buf).Leaderboard(board), convey.ShouldBeNil)
			out := buf.String()
			convey.So(out, convey.ShouldContainSubstring, "Ann Lind")
			convey.So(out, convey.ShouldContainSubstring, "2.10")
			convey.So(out, convey.ShouldContainSubstring, "14.3")
			convey.So(out, convey.ShouldContainSubstring, "2025-02-20")
		})
	})

	convey.Convey("Given a benchmark summary", t, func() {
		s := types.BenchmarkSummary{
			StationID: model.COD505StationID,
			N:         3,
			Min:       types.Float(2.1),
			P50:       types.Float(2.2),
			Max:       types.Float(2.3),
			Histogram: []types.HistogramBin{
				{Label: "2.10–2.20", Count: 2, From: 2.1, To: 2.2},
				{Label: "2.20–2.30", Count: 1, From: 2.2, To: 2.3},
			},
		}

		convey.Convey("Then quantiles and histogram bars are printed", func() {
			var buf bytes.Buffer
			convey.So(New(&buf).Benchmark(s), convey.ShouldBeNil)
			out := buf.String()
			convey.So(out, convey.ShouldContainSubstring, "2.10–2.20")
			convey.So(out, convey.ShouldContainSubstring, "Histogram")
			convey.So(out, convey.ShouldContainSubstring, bar(2, 2))
		})
	})

	convey.Convey("Given histogram bars", t, func() {
		convey.So(bar(0, 5), convey.ShouldEqual, "")
		convey.So(len(bar(5, 5)), convey.ShouldEqual, histogramWidth)
		convey.So(len(bar(1, 1000)), convey.ShouldEqual, 1)
	})
}
