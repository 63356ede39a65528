// Package worker drains the ingestion queue into the record store.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/okian/clubperf/internal/adapters/mq/queue"
	"github.com/okian/clubperf/internal/domain/model"
	"github.com/okian/clubperf/pkg/logger"
	"github.com/okian/clubperf/pkg/metrics"
)

// Default worker configuration constants.
const (
	defaultWriteTimeout = 5 * time.Second
	maxDefaultWorkers   = 8
)

// Writer stores results for a club. repository.Store satisfies it.
type Writer interface {
	Add(ctx context.Context, clubID string, samples ...model.TimingSample) error
}

// Source is where workers read records from.
type Source interface {
	Dequeue() <-chan queue.Record
}

// InMemoryWorker writes queued records one by one.
type InMemoryWorker struct {
	source       Source
	writer       Writer
	name         string
	writeTimeout time.Duration
	onStored     func(clubID string)
	logger       logger.Logger

	done chan struct{}
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(source Source, writer Writer, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		source:       source,
		writer:       writer,
		name:         "worker",
		writeTimeout: defaultWriteTimeout,
		done:         make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = logger.Get().Named(w.name)
	}
	return w
}

// Run consumes records until the source channel is closed. Cancelling ctx
// does not abandon queued records; writes use a context detached from it.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	base := context.WithoutCancel(ctx)
	for r := range w.source.Dequeue() {
		if err := w.process(base, r); err != nil {
			w.logger.Error(base, "error storing record", logger.Error(err))
		}
	}
}

// Done is closed when Run returns.
func (w *InMemoryWorker) Done() <-chan struct{} {
	return w.done
}

func (w *InMemoryWorker) process(ctx context.Context, r queue.Record) error { //nolint:gocritic // hugeParam: records travel by value over the channel
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, w.writeTimeout)
	defer cancel()

	err := w.writer.Add(ctx, r.ClubID, r.Sample)
	metrics.RecordIngestWriteLatency(float64(time.Since(start).Microseconds()) / 1000)
	if err != nil {
		metrics.RecordIngestOutcome("failed", 1)
		metrics.RecordErrorByComponent("ingest", "write_failed")
		return fmt.Errorf("store result %s for club %s: %w", r.Sample.ResultID, r.ClubID, err)
	}

	metrics.RecordIngestOutcome("stored", 1)
	if w.onStored != nil {
		w.onStored(r.ClubID)
	}
	return nil
}

// Pool manages multiple workers over one queue.
type Pool struct {
	workers []*InMemoryWorker
	queue   queue.Queue
	logger  logger.Logger

	mu      sync.Mutex
	started bool
}

// NewPool creates workerCount workers. A count below 1 selects one worker
// per CPU, capped at eight. Worker options apply to every worker.
func NewPool(workerCount int, q queue.Queue, writer Writer, opts ...Option) *Pool {
	if workerCount < 1 {
		workerCount = min(runtime.NumCPU(), maxDefaultWorkers)
	}

	p := &Pool{
		workers: make([]*InMemoryWorker, workerCount),
		queue:   q,
		logger:  logger.Get().Named("worker-pool"),
	}
	for i := range p.workers {
		wopts := append([]Option{WithName("worker-" + strconv.Itoa(i))}, opts...)
		p.workers[i] = NewInMemoryWorker(q, writer, wopts...)
	}
	return p
}

// Size returns the number of workers.
func (p *Pool) Size() int {
	return len(p.workers)
}

// Start launches every worker. Starting twice is a no-op.
func (p *Pool) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started {
		return
	}
	p.started = true
	for _, w := range p.workers {
		go w.Run(ctx)
	}
	metrics.UpdateIngestWorkers(len(p.workers))
	p.logger.Info(ctx, "ingestion workers started", logger.Int("workers", len(p.workers)))
}

// Shutdown closes the queue and waits for the workers to drain it, or for
// ctx to expire.
func (p *Pool) Shutdown(ctx context.Context) error {
	if err := p.queue.Close(); err != nil {
		p.logger.Error(ctx, "error closing queue", logger.Error(err))
	}

	p.mu.Lock()
	started := p.started
	p.mu.Unlock()
	if !started {
		return nil
	}

	for i, w := range p.workers {
		select {
		case <-w.done:
		case <-ctx.Done():
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
			return fmt.Errorf("shutdown timed out: %w", ctx.Err())
		}
	}

	metrics.UpdateIngestWorkers(0)
	return nil
}
