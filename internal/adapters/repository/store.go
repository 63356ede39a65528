// Package repository provides the record store that timing samples are read
// from and ingested into: an in-memory implementation and a Postgres one.
package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/clubperf/internal/domain/model"
)

// DefaultLimit caps rows returned by ListSamples when the query sets none.
const DefaultLimit = 5000

// Query selects samples for one club. Zero From/To leave the range open;
// both bounds are inclusive.
type Query struct {
	ClubID    string
	StationID string
	From      time.Time
	To        time.Time
	Limit     int
}

// Store provides access to recorded test results.
type Store interface {
	// Add records samples for a club.
	Add(ctx context.Context, clubID string, samples ...model.TimingSample) error

	// ListSamples returns samples newest first. Rows without an athlete
	// identity or without a finite time are dropped.
	ListSamples(ctx context.Context, q Query) ([]model.TimingSample, error)

	// Count returns the number of stored samples, -1 when unknown.
	Count(ctx context.Context) int

	// Close releases resources held by the store.
	Close() error
}

// normalize validates q and fills the default limit.
func (q Query) normalize(defaultLimit int) (Query, error) {
	if q.ClubID == "" {
		return q, ErrMissingClub
	}
	if q.Limit < 0 {
		return q, fmt.Errorf("%w: %d", ErrInvalidLimit, q.Limit)
	}
	if q.Limit == 0 {
		q.Limit = defaultLimit
	}
	if !q.From.IsZero() && !q.To.IsZero() && q.From.After(q.To) {
		return q, ErrInvalidRange
	}
	return q, nil
}

// Option configures a store.
type Option func(*options)

type options struct {
	defaultLimit int
}

func defaultOptions() options {
	return options{defaultLimit: DefaultLimit}
}

// WithDefaultLimit sets the row cap used when a query has no limit.
func WithDefaultLimit(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.defaultLimit = n
		}
	}
}
