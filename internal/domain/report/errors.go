package report

import "errors"

// ErrMalformedSample is returned when an input sample lacks the structure the
// engine needs (an athlete id and an identity snapshot).
var ErrMalformedSample = errors.New("malformed sample")
