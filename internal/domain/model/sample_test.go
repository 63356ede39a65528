package model_test

import (
	"math"
	"testing"
	"time"

	model "github.com/okian/clubperf/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestParseSide(t *testing.T) {
	convey.Convey("Given raw side values", t, func() {
		convey.So(model.ParseSide("left"), convey.ShouldEqual, model.SideLeft)
		convey.So(model.ParseSide(" RIGHT "), convey.ShouldEqual, model.SideRight)
		convey.So(model.ParseSide(""), convey.ShouldEqual, model.SideUnknown)
		convey.So(model.ParseSide("both"), convey.ShouldEqual, model.SideUnknown)
	})
}

func TestParseLanguage(t *testing.T) {
	convey.Convey("Given language tags", t, func() {
		lang, ok := model.ParseLanguage("SV")
		convey.So(ok, convey.ShouldBeTrue)
		convey.So(lang, convey.ShouldEqual, model.LanguageSwedish)

		_, ok = model.ParseLanguage("de")
		convey.So(ok, convey.ShouldBeFalse)
	})
}

func TestIdentity(t *testing.T) {
	convey.Convey("Given an identity snapshot", t, func() {
		convey.Convey("When both names are present", func() {
			id := &model.Identity{FirstName: " Alva ", LastName: "Berg"}
			convey.So(id.DisplayName(), convey.ShouldEqual, "Alva Berg")
		})

		convey.Convey("When only the last name is present", func() {
			id := &model.Identity{LastName: "Berg"}
			convey.So(id.DisplayName(), convey.ShouldEqual, "Berg")
		})

		convey.Convey("When the names are blank", func() {
			convey.So((&model.Identity{}).DisplayName(), convey.ShouldEqual, "Unknown")
			var nilID *model.Identity
			convey.So(nilID.DisplayName(), convey.ShouldEqual, "Unknown")
		})

		convey.Convey("When computing age at test", func() {
			dob := time.Date(2010, 1, 1, 0, 0, 0, 0, time.UTC)
			id := &model.Identity{DateOfBirth: dob}

			age, ok := id.AgeAt(dob.Add(365*24*time.Hour + 6*time.Hour))
			convey.So(ok, convey.ShouldBeTrue)
			convey.So(age, convey.ShouldAlmostEqual, 1.0, 1e-9)

			_, ok = id.AgeAt(dob.Add(-time.Hour))
			convey.So(ok, convey.ShouldBeFalse)

			_, ok = (&model.Identity{}).AgeAt(dob)
			convey.So(ok, convey.ShouldBeFalse)
		})
	})
}

func TestValidTime(t *testing.T) {
	convey.Convey("Given attempt times", t, func() {
		convey.So(model.ValidTime(2.1), convey.ShouldBeTrue)
		convey.So(model.ValidTime(0), convey.ShouldBeFalse)
		convey.So(model.ValidTime(-1), convey.ShouldBeFalse)
		convey.So(model.ValidTime(math.NaN()), convey.ShouldBeFalse)
		convey.So(model.ValidTime(math.Inf(1)), convey.ShouldBeFalse)
	})
}

func TestStationByID(t *testing.T) {
	convey.Convey("Given the station catalog", t, func() {
		st, ok := model.StationByID(model.COD505StationID)
		convey.So(ok, convey.ShouldBeTrue)
		convey.So(st.ShortName, convey.ShouldEqual, "5-0-5")

		_, ok = model.StationByID("nope")
		convey.So(ok, convey.ShouldBeFalse)
		convey.So(len(model.Stations), convey.ShouldEqual, 6)
	})
}
