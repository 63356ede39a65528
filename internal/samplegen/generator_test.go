package samplegen

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/clubperf/internal/domain/model"
	"github.com/okian/clubperf/pkg/logger"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func TestGenerate(t *testing.T) {
	start := time.Date(2025, 4, 2, 16, 0, 0, 0, time.UTC)

	Convey("Given a seeded generator", t, func() {
		ctx := context.Background()
		gen := New(WithAthletes(5), WithAttemptsPerSide(3), WithSeed(42), WithTestedAt(start))

		Convey("When generating a session", func() {
			samples, err := gen.Generate(ctx)
			So(err, ShouldBeNil)

			Convey("Then every athlete runs each side the requested number of times", func() {
				So(samples, ShouldHaveLength, 5*3*2)

				perAthlete := map[string]map[model.Side]int{}
				for _, s := range samples {
					if perAthlete[s.AthleteID] == nil {
						perAthlete[s.AthleteID] = map[model.Side]int{}
					}
					perAthlete[s.AthleteID][s.Side]++
				}
				So(perAthlete, ShouldHaveLength, 5)
				for _, sides := range perAthlete {
					So(sides[model.SideLeft], ShouldEqual, 3)
					So(sides[model.SideRight], ShouldEqual, 3)
				}
			})

			Convey("And every sample is a plausible 5-0-5 attempt", func() {
				for _, s := range samples {
					So(s.StationID, ShouldEqual, model.COD505StationID)
					So(s.Identity, ShouldNotBeNil)
					So(s.HasValidTime(), ShouldBeTrue)
					So(s.TimeSeconds, ShouldBeBetweenOrEqual, 2.0, 3.5)
					So(s.TestedAt.Before(start), ShouldBeFalse)

					So(s.Identity.FirstName, ShouldNotBeEmpty)
					So(s.Identity.LastName, ShouldNotBeEmpty)

					age, ok := s.Identity.AgeAt(s.TestedAt)
					So(ok, ShouldBeTrue)
					So(age, ShouldBeBetween, float64(minAgeYears-1), float64(minAgeYears+ageRangeYears+1))
				}
			})

			Convey("And the same seed reproduces the session", func() {
				again, err := New(WithAthletes(5), WithAttemptsPerSide(3), WithSeed(42), WithTestedAt(start)).Generate(ctx)
				So(err, ShouldBeNil)
				So(again, ShouldResemble, samples)
			})
		})
	})

	Convey("Given a generator that drops every time", t, func() {
		gen := New(WithAthletes(2), WithSeed(1), WithMissingRate(1))

		Convey("Then every attempt is missing its time", func() {
			samples, err := gen.Generate(context.Background())
			So(err, ShouldBeNil)
			for _, s := range samples {
				So(math.IsNaN(s.TimeSeconds), ShouldBeTrue)
			}
		})
	})

	Convey("Given a cancelled context", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		Convey("Then generation stops with the context error", func() {
			_, err := New(WithSeed(1)).Generate(ctx)
			So(errors.Is(err, context.Canceled), ShouldBeTrue)
		})
	})
}
