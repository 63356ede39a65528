package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/clubperf/internal/adapters/wire"
	"github.com/okian/clubperf/internal/domain/types"
)

func fakeServer(healthy bool) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		if !healthy {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte("# metrics\n"))
	})
	mux.HandleFunc("POST /samples", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ClubID  string        `json:"club_id"`
			Samples []wire.Sample `json:"samples"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ClubID == "" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"code":"bad_request","message":"missing club_id"}`))
			return
		}
		w.WriteHeader(http.StatusAccepted)
		_ = json.NewEncoder(w).Encode(types.IngestResult{Accepted: len(req.Samples), Rejected: []types.Rejection{}})
	})
	mux.HandleFunc("GET /leaderboard", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		_ = json.NewEncoder(w).Encode([]types.LeaderboardStation{{
			StationID: q.Get("station_id"),
			Rows:      []types.LeaderboardRow{{Rank: 1, UserID: q.Get("club_id") + "-" + q.Get("limit"), TimeSeconds: 2.1}},
		}})
	})
	return httptest.NewServer(mux)
}

func TestClient(t *testing.T) {
	ctx := context.Background()

	Convey("Given a healthy server", t, func() {
		srv := fakeServer(true)
		defer srv.Close()
		c := New(srv.URL+"/", WithTimeout(time.Second))

		Convey("Then the health check passes", func() {
			So(c.Health(ctx), ShouldBeNil)
		})

		Convey("Then samples are submitted", func() {
			tm := 2.2
			res, err := c.SubmitSamples(ctx, "c1", []wire.Sample{{AthleteID: "a", TimeSeconds: &tm}, {AthleteID: "b"}})
			So(err, ShouldBeNil)
			So(res.Accepted, ShouldEqual, 2)
		})

		Convey("Then API errors carry status and code", func() {
			_, err := c.SubmitSamples(ctx, "", nil)

			var apiErr *APIError
			So(errors.As(err, &apiErr), ShouldBeTrue)
			So(apiErr.Status, ShouldEqual, http.StatusBadRequest)
			So(apiErr.Code, ShouldEqual, "bad_request")
			So(err.Error(), ShouldContainSubstring, "missing club_id")
		})

		Convey("Then the leaderboard query is encoded", func() {
			board, err := c.Leaderboard(ctx, "c1", "5-0-5-test", 1)
			So(err, ShouldBeNil)
			So(board, ShouldHaveLength, 1)
			So(board[0].StationID, ShouldEqual, "5-0-5-test")
			So(board[0].Rows[0].UserID, ShouldEqual, "c1-1")
		})
	})

	Convey("Given an unhealthy server", t, func() {
		srv := fakeServer(false)
		defer srv.Close()

		err := New(srv.URL).Health(ctx)
		So(errors.Is(err, ErrUnhealthy), ShouldBeTrue)
	})

	Convey("Given an unreachable server", t, func() {
		srv := fakeServer(true)
		srv.Close()

		err := New(srv.URL, WithHTTPClient(&http.Client{Timeout: 100 * time.Millisecond})).Health(ctx)
		So(err, ShouldNotBeNil)
	})
}
