// Package queue buffers submitted test results between the API and the
// ingestion workers that write them to the record store.
package queue

import (
	"context"
	"sync"

	"github.com/okian/clubperf/internal/domain/model"
	"github.com/okian/clubperf/pkg/metrics"
)

// DefaultCapacity bounds the queue when no capacity option is given.
const DefaultCapacity = 10000

// Record is one result waiting to be stored for a club.
type Record struct {
	ClubID string
	Sample model.TimingSample
}

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds a record. It fails with ErrFull, ErrClosed or the
	// context error without blocking.
	Enqueue(ctx context.Context, r Record) error

	// Dequeue returns the channel workers read from. It is closed once the
	// queue is closed and drained.
	Dequeue() <-chan Record

	// Len returns the current number of queued records.
	Len() int

	// Close stops accepting records.
	Close() error
}

// InMemoryQueue implements Queue using a buffered channel.
type InMemoryQueue struct {
	records  chan Record
	capacity int

	mu     sync.RWMutex
	closed bool
}

// NewInMemoryQueue creates a new in-memory queue with configuration options.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{capacity: DefaultCapacity}
	for _, opt := range opts {
		opt(q)
	}
	q.records = make(chan Record, q.capacity)

	metrics.UpdateIngestQueue(0, q.capacity)
	return q
}

// Enqueue implements Queue.
func (q *InMemoryQueue) Enqueue(ctx context.Context, r Record) error { //nolint:gocritic // hugeParam: records travel by value over the channel
	if err := ctx.Err(); err != nil {
		metrics.RecordIngestOutcome("cancelled", 1)
		return err
	}

	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordIngestOutcome("closed", 1)
		return ErrClosed
	}

	select {
	case q.records <- r:
		metrics.UpdateIngestQueue(len(q.records), q.capacity)
		return nil
	default:
		metrics.RecordIngestOutcome("full", 1)
		return ErrFull
	}
}

// Dequeue implements Queue.
func (q *InMemoryQueue) Dequeue() <-chan Record {
	return q.records
}

// Len implements Queue.
func (q *InMemoryQueue) Len() int {
	n := len(q.records)
	metrics.UpdateIngestQueue(n, q.capacity)
	return n
}

// Capacity returns the configured bound.
func (q *InMemoryQueue) Capacity() int {
	return q.capacity
}

// Close implements Queue. Closing twice is a no-op.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	close(q.records)
	q.closed = true
	return nil
}

// IsClosed reports whether Close has been called.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
