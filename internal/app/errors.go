package service

import "errors"

var (
	// ErrUnknownStation is returned when a query names a station outside the catalog.
	ErrUnknownStation = errors.New("unknown test station")
	// ErrInvalidThreshold is returned for a negative or non-finite asymmetry threshold.
	ErrInvalidThreshold = errors.New("invalid asymmetry threshold")
	// ErrNotStarted is returned by store-backed operations before Start.
	ErrNotStarted = errors.New("service not started")
	// ErrIngestUnavailable is returned when submitted results cannot be queued.
	ErrIngestUnavailable = errors.New("ingestion unavailable")
)
