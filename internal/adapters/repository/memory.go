package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/okian/clubperf/internal/adapters/wire"
	"github.com/okian/clubperf/internal/domain/model"
	"github.com/okian/clubperf/pkg/metrics"
)

const memoryStoreName = "memory"

type memoryRecord struct {
	clubID string
	sample model.TimingSample
}

// MemoryStore keeps samples in process memory. It is safe for concurrent use.
type MemoryStore struct {
	mu      sync.RWMutex
	records []memoryRecord
	opts    options
}

// NewMemoryStore creates an empty store.
func NewMemoryStore(opts ...Option) *MemoryStore {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &MemoryStore{opts: o}
}

// Add appends samples recorded for a club.
func (s *MemoryStore) Add(_ context.Context, clubID string, samples ...model.TimingSample) error {
	if clubID == "" {
		return ErrMissingClub
	}
	s.mu.Lock()
	for _, smp := range samples {
		s.records = append(s.records, memoryRecord{clubID: clubID, sample: smp})
	}
	n := len(s.records)
	s.mu.Unlock()

	metrics.UpdateStoredSamples(n)
	return nil
}

// LoadSeed reads a JSON array of wire samples, each carrying its club_id,
// and returns how many were stored.
func (s *MemoryStore) LoadSeed(ctx context.Context, r io.Reader) (int, error) {
	var in []wire.Sample
	if err := json.NewDecoder(r).Decode(&in); err != nil {
		return 0, fmt.Errorf("decode seed: %w", err)
	}
	for i := range in {
		smp, err := in[i].ToModel()
		if err != nil {
			return i, fmt.Errorf("seed sample %d: %w", i, err)
		}
		if err := s.Add(ctx, in[i].ClubID, smp); err != nil {
			return i, fmt.Errorf("seed sample %d: %w", i, err)
		}
	}
	return len(in), nil
}

// ListSamples implements Store.
func (s *MemoryStore) ListSamples(_ context.Context, q Query) ([]model.TimingSample, error) {
	start := time.Now()
	q, err := q.normalize(s.opts.defaultLimit)
	if err != nil {
		metrics.RecordStoreQueryLatency(memoryStoreName, "invalid", msSince(start))
		return nil, err
	}

	s.mu.RLock()
	out := make([]model.TimingSample, 0)
	for i := range s.records {
		r := &s.records[i]
		if r.clubID != q.ClubID || !matches(&r.sample, q) {
			continue
		}
		out = append(out, r.sample)
	}
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TestedAt.After(out[j].TestedAt)
	})
	if len(out) > q.Limit {
		out = out[:q.Limit]
	}

	metrics.RecordStoreQueryLatency(memoryStoreName, "ok", msSince(start))
	return out, nil
}

// Count implements Store.
func (s *MemoryStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Close implements Store.
func (s *MemoryStore) Close() error { return nil }

func matches(smp *model.TimingSample, q Query) bool {
	if smp.Identity == nil || !smp.HasValidTime() {
		return false
	}
	if q.StationID != "" && smp.StationID != q.StationID {
		return false
	}
	if !q.From.IsZero() && smp.TestedAt.Before(q.From) {
		return false
	}
	if !q.To.IsZero() && smp.TestedAt.After(q.To) {
		return false
	}
	return true
}

func msSince(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000
}
