package api

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/okian/clubperf/internal/adapters/wire"
	"github.com/okian/clubperf/internal/domain/benchmark"
	"github.com/okian/clubperf/internal/domain/model"
)

// queryParams reads optional typed parameters. The first failure sticks;
// later reads become no-ops.
type queryParams struct {
	values url.Values
	err    error
}

func newQueryParams(v url.Values) *queryParams {
	return &queryParams{values: v}
}

func (q *queryParams) str(name string) string {
	return strings.TrimSpace(q.values.Get(name))
}

func (q *queryParams) timestamp(name string) time.Time {
	raw := q.str(name)
	if raw == "" || q.err != nil {
		return time.Time{}
	}
	t, err := wire.ParseTime(raw)
	if err != nil {
		q.err = fmt.Errorf("%s: %w", name, err)
		return time.Time{}
	}
	return t
}

func (q *queryParams) number(name string) *float64 {
	raw := q.str(name)
	if raw == "" || q.err != nil {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		q.err = fmt.Errorf("%s: not a number: %q", name, raw)
		return nil
	}
	return &v
}

func (q *queryParams) integer(name string) int {
	raw := q.str(name)
	if raw == "" || q.err != nil {
		return 0
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		q.err = fmt.Errorf("%s: not an integer: %q", name, raw)
		return 0
	}
	return v
}

func (q *queryParams) cohort() benchmark.Cohort {
	return benchmark.Cohort{
		Sex:    q.str("sex"),
		MinAge: q.number("min_age"),
		MaxAge: q.number("max_age"),
	}
}

func (q *queryParams) language(name string) model.Language {
	return model.Language(strings.ToLower(q.str(name)))
}
