package benchmark

import "errors"

var (
	// ErrInvalidCohort is returned when cohort bounds are inconsistent.
	ErrInvalidCohort = errors.New("invalid cohort")
	// ErrInvalidBins is returned for a non-positive histogram bin count.
	ErrInvalidBins = errors.New("invalid histogram bin count")
)
