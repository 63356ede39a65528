package api

import (
	"errors"
	"net/http"

	"github.com/okian/clubperf/internal/adapters/repository"
	service "github.com/okian/clubperf/internal/app"
	"github.com/okian/clubperf/internal/domain/benchmark"
	"github.com/okian/clubperf/internal/domain/locale"
	"github.com/okian/clubperf/internal/domain/report"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest = errors.New("bad request")
	ErrNotFound   = errors.New("not found")
	ErrMalformed  = errors.New("malformed sample")
	ErrUpstream   = errors.New("record store unavailable")
)

// Error tags a failure with the handler operation and an API kind.
type Error struct {
	Op   string
	Kind error
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Err == nil:
		return e.Op + ": " + e.Kind.Error()
	case e.Kind == nil:
		return e.Op + ": " + e.Err.Error()
	default:
		return e.Op + ": " + e.Kind.Error() + ": " + e.Err.Error()
	}
}

// Unwrap exposes both the kind and the cause to errors.Is.
func (e *Error) Unwrap() []error {
	out := make([]error, 0, 2)
	if e.Kind != nil {
		out = append(out, e.Kind)
	}
	if e.Err != nil {
		out = append(out, e.Err)
	}
	return out
}

// NewKind returns an error of the given kind raised by op.
func NewKind(op string, kind error) error {
	return &Error{Op: op, Kind: kind}
}

// Wrap tags err with op. The kind is derived from err when the response is written.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Err: err}
}

// WrapKind tags err with op and an explicit kind.
func WrapKind(op string, kind, err error) error {
	if err == nil {
		return NewKind(op, kind)
	}
	return &Error{Op: op, Kind: kind, Err: err}
}

// classify maps an error chain onto an HTTP status and a response code.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, locale.ErrUnsupportedLanguage):
		return http.StatusBadRequest, "unsupported_language"
	case errors.Is(err, ErrMalformed), errors.Is(err, report.ErrMalformedSample):
		return http.StatusUnprocessableEntity, "malformed_sample"
	case errors.Is(err, ErrUpstream), errors.Is(err, repository.ErrQueryFailed):
		return http.StatusBadGateway, "store_unavailable"
	case errors.Is(err, ErrNotFound), errors.Is(err, service.ErrUnknownStation):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, service.ErrInvalidThreshold),
		errors.Is(err, benchmark.ErrInvalidCohort),
		errors.Is(err, benchmark.ErrInvalidBins),
		errors.Is(err, repository.ErrMissingClub),
		errors.Is(err, repository.ErrInvalidLimit),
		errors.Is(err, repository.ErrInvalidRange):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, service.ErrNotStarted):
		return http.StatusServiceUnavailable, "unavailable"
	case errors.Is(err, service.ErrIngestUnavailable):
		return http.StatusServiceUnavailable, "ingest_unavailable"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
