package repository

import "errors"

// Sentinel kinds for record store errors.
var (
	ErrMissingClub  = errors.New("club id is required")
	ErrInvalidLimit = errors.New("invalid sample limit")
	ErrInvalidRange = errors.New("from is after to")
	ErrQueryFailed  = errors.New("record store query failed")
	ErrWriteFailed  = errors.New("record store write failed")
)
