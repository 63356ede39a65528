package queue

import "errors"

// Sentinel kinds for enqueue failures.
var (
	ErrFull   = errors.New("ingest queue full")
	ErrClosed = errors.New("ingest queue closed")
)
