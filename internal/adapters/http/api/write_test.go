package api

import (
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/clubperf/pkg/logger"
)

func TestWriteJSON(t *testing.T) {
	convey.Convey("Given a response recorder", t, func() {
		convey.So(logger.Init(), convey.ShouldBeNil)
		w := httptest.NewRecorder()

		convey.Convey("When the value encodes", func() {
			writeJSON(w, http.StatusCreated, map[string]float64{"best": 2.05})

			convey.So(w.Code, convey.ShouldEqual, http.StatusCreated)
			convey.So(w.Body.String(), convey.ShouldEqual, "{\"best\":2.05}\n")
		})

		convey.Convey("When the value holds a non-finite number", func() {
			writeJSON(w, http.StatusOK, map[string]float64{"best": math.Inf(1)})

			convey.So(w.Code, convey.ShouldEqual, http.StatusInternalServerError)
			var body errorResponse
			convey.So(json.Unmarshal(w.Body.Bytes(), &body), convey.ShouldBeNil)
			convey.So(body.Code, convey.ShouldEqual, "internal_error")
		})
	})
}
