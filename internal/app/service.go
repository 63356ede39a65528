// Package service provides the core business service that implements
// the dependencies required by the HTTP API and the CLI.
package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/okian/clubperf/internal/adapters/cache"
	"github.com/okian/clubperf/internal/adapters/mq/queue"
	"github.com/okian/clubperf/internal/adapters/mq/worker"
	"github.com/okian/clubperf/internal/adapters/repository"
	"github.com/okian/clubperf/internal/domain/benchmark"
	"github.com/okian/clubperf/internal/domain/dedupe"
	"github.com/okian/clubperf/internal/domain/leaderboard"
	"github.com/okian/clubperf/internal/domain/locale"
	"github.com/okian/clubperf/internal/domain/model"
	"github.com/okian/clubperf/internal/domain/report"
	"github.com/okian/clubperf/internal/domain/scoring"
	"github.com/okian/clubperf/internal/domain/types"
	"github.com/okian/clubperf/pkg/logger"
	"github.com/okian/clubperf/pkg/metrics"
)

// Ingestion defaults.
const (
	DefaultIngestWorkers = 4
	shutdownTimeout      = 30 * time.Second
)

// Report sources used for the reports_generated metric.
const (
	SourceRequest = "request"
	SourceStore   = "store"
	SourceCache   = "cache"
)

// Service builds coaching reports, leaderboards and benchmarks from either
// caller-supplied samples or the record store.
type Service struct {
	mu      sync.RWMutex
	started bool

	store  repository.Store
	cache  *cache.ReportCache
	scorer *scoring.Scorer
	logger logger.Logger

	defaultLanguage model.Language
	yThreshold      float64
	sampleLimit     int
	histogramBins   int
	leaderboardTop  int
	clock           func() time.Time

	ingestWorkers  int
	ingestCapacity int
	dedupeSize     int
	deduper        dedupe.Deduper
	queue          *queue.InMemoryQueue
	pool           *worker.Pool
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets the logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithStore sets the record store. Without one, Start creates an empty
// in-memory store.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithCache enables caching of store-backed reports.
func WithCache(c *cache.ReportCache) Option {
	return func(s *Service) {
		s.cache = c
	}
}

// WithScorer replaces the default 5-0-5 scorer.
func WithScorer(scorer *scoring.Scorer) Option {
	return func(s *Service) {
		if scorer != nil {
			s.scorer = scorer
		}
	}
}

// WithDefaultLanguage sets the language used when a request names none.
func WithDefaultLanguage(lang model.Language) Option {
	return func(s *Service) {
		if _, ok := model.ParseLanguage(string(lang)); ok {
			s.defaultLanguage = lang
		}
	}
}

// WithYThreshold sets the default asymmetry threshold in percent.
func WithYThreshold(pct float64) Option {
	return func(s *Service) {
		if validThreshold(pct) {
			s.yThreshold = pct
		}
	}
}

// WithSampleLimit caps the rows read from the store per query.
func WithSampleLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.sampleLimit = n
		}
	}
}

// WithHistogramBins sets the default benchmark histogram bin count.
func WithHistogramBins(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.histogramBins = n
		}
	}
}

// WithLeaderboardTop sets the default number of rows per station.
func WithLeaderboardTop(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.leaderboardTop = n
		}
	}
}

// WithIngestWorkers sets the number of goroutines writing submitted results.
func WithIngestWorkers(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.ingestWorkers = n
		}
	}
}

// WithIngestQueueCapacity bounds the results waiting to be written.
func WithIngestQueueCapacity(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.ingestCapacity = n
		}
	}
}

// WithDedupeSize sets how many result ids are remembered for duplicate
// detection. Zero or less remembers every id.
func WithDedupeSize(n int) Option {
	return func(s *Service) {
		s.dedupeSize = n
	}
}

// WithClock overrides the source of report timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.clock = now
		}
	}
}

// New creates a new service instance with the given options.
func New(opts ...Option) *Service {
	s := &Service{
		scorer:          scoring.NewScorer(),
		defaultLanguage: model.DefaultLanguage,
		yThreshold:      report.DefaultYThresholdPct,
		sampleLimit:     repository.DefaultLimit,
		histogramBins:   benchmark.DefaultBins,
		leaderboardTop:  leaderboard.DefaultTop,
		clock:           time.Now,
		ingestWorkers:   DefaultIngestWorkers,
		ingestCapacity:  queue.DefaultCapacity,
		dedupeSize:      dedupe.DefaultMaxSize,
		logger:          nil, // Will be replaced when service starts
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start prepares the service for store-backed queries.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	if s.store == nil {
		s.store = repository.NewMemoryStore(repository.WithDefaultLimit(s.sampleLimit))
		s.logger.Info(ctx, "no record store configured, using empty memory store")
	}

	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	s.queue = queue.NewInMemoryQueue(queue.WithCapacity(s.ingestCapacity))
	s.pool = worker.NewPool(s.ingestWorkers, s.queue, s.store,
		worker.WithOnStored(s.invalidateCache),
	)
	s.pool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "coaching report service started",
		logger.String("language", string(s.defaultLanguage)),
		logger.Float64("y_threshold_pct", s.yThreshold),
		logger.Int("sample_limit", s.sampleLimit),
		logger.Bool("cache", s.cache != nil),
	)
	return nil
}

// Stop drains the ingestion queue and releases the record store. Stopping a
// stopped service is a no-op.
func (s *Service) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return nil
	}

	var errs error
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.pool.Shutdown(ctx); err != nil {
		s.logger.Warn(ctx, "draining ingestion queue", logger.Error(err))
		errs = multierr.Append(errs, fmt.Errorf("drain ingestion queue: %w", err))
	}

	if s.store != nil {
		if err := s.store.Close(); err != nil {
			s.logger.Warn(context.Background(), "closing record store", logger.Error(err))
			errs = multierr.Append(errs, fmt.Errorf("close record store: %w", err))
		}
	}
	if s.cache != nil {
		s.cache.Clear()
	}

	s.started = false
	s.logger.Info(context.Background(), "coaching report service stopped")
	return errs
}

// ReportRequest carries caller-supplied samples. Empty Language and nil
// YThreshold fall back to the service defaults.
type ReportRequest struct {
	Samples    []model.TimingSample
	Language   model.Language
	YThreshold *float64
}

// BuildReport runs the engine over the samples in the request.
func (s *Service) BuildReport(ctx context.Context, req ReportRequest) (types.CoachReport, error) {
	lang, y, err := s.reportSettings(req.Language, req.YThreshold)
	if err != nil {
		return types.CoachReport{}, err
	}
	metrics.RecordSamplesIngested(len(req.Samples))

	return s.build(ctx, req.Samples, lang, y, SourceRequest)
}

// ReportQuery selects store samples for a coaching report. The station is
// always the 5-0-5 test.
type ReportQuery struct {
	ClubID     string
	From       time.Time
	To         time.Time
	Cohort     benchmark.Cohort
	Language   model.Language
	YThreshold *float64
}

// ReportFromStore builds a coaching report from recorded 5-0-5 results,
// serving repeated requests from the report cache.
func (s *Service) ReportFromStore(ctx context.Context, q ReportQuery) (types.CoachReport, error) {
	lang, y, err := s.reportSettings(q.Language, q.YThreshold)
	if err != nil {
		return types.CoachReport{}, err
	}
	if err := q.Cohort.Validate(); err != nil {
		return types.CoachReport{}, err
	}

	key := cache.Key{
		ClubID:     q.ClubID,
		From:       q.From,
		To:         q.To,
		Sex:        q.Cohort.Sex,
		MinAge:     q.Cohort.MinAge,
		MaxAge:     q.Cohort.MaxAge,
		Language:   string(lang),
		YThreshold: y,
	}
	if s.cache != nil {
		if cached, err := s.cache.Get(key); err == nil {
			metrics.RecordReportGenerated(string(lang), SourceCache)
			s.log().Debug(ctx, "coaching report served from cache", logger.String("club_id", q.ClubID))
			return cached, nil
		}
	}

	samples, err := s.listSamples(ctx, repository.Query{
		ClubID:    q.ClubID,
		StationID: model.COD505StationID,
		From:      q.From,
		To:        q.To,
	})
	if err != nil {
		return types.CoachReport{}, err
	}
	samples = q.Cohort.Filter(samples)

	r, err := s.build(ctx, samples, lang, y, SourceStore)
	if err != nil {
		return types.CoachReport{}, err
	}

	if s.cache != nil {
		if err := s.cache.Set(key, r); err != nil {
			s.log().Warn(ctx, "caching coaching report", logger.String("club_id", q.ClubID), logger.Error(err))
		}
	}
	return r, nil
}

// LeaderboardQuery selects store samples for a leaderboard. An empty
// StationID covers every station; a zero Top uses the service default.
type LeaderboardQuery struct {
	ClubID    string
	StationID string
	From      time.Time
	To        time.Time
	Cohort    benchmark.Cohort
	Top       int
}

// Leaderboard returns the top athletes per station.
func (s *Service) Leaderboard(ctx context.Context, q LeaderboardQuery) ([]types.LeaderboardStation, error) {
	if q.StationID != "" {
		if _, ok := model.StationByID(q.StationID); !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownStation, q.StationID)
		}
	}
	if q.Top < 0 {
		return nil, fmt.Errorf("%w: top %d", repository.ErrInvalidLimit, q.Top)
	}
	if err := q.Cohort.Validate(); err != nil {
		return nil, err
	}

	samples, err := s.listSamples(ctx, repository.Query{
		ClubID:    q.ClubID,
		StationID: q.StationID,
		From:      q.From,
		To:        q.To,
	})
	if err != nil {
		return nil, err
	}

	top := s.leaderboardTop
	if q.Top > 0 {
		top = q.Top
	}
	board := leaderboard.Build(q.Cohort.Filter(samples),
		leaderboard.WithTop(top),
		leaderboard.WithStation(q.StationID),
	)
	s.log().Debug(ctx, "leaderboard built",
		logger.String("club_id", q.ClubID),
		logger.String("station_id", q.StationID),
		logger.Int("stations", len(board)),
	)
	return board, nil
}

// BenchmarkQuery selects store samples for one station's distribution.
// A zero Bins uses the service default.
type BenchmarkQuery struct {
	ClubID    string
	StationID string
	Cohort    benchmark.Cohort
	Bins      int
}

// Benchmarks summarizes a cohort's times on one station.
func (s *Service) Benchmarks(ctx context.Context, q BenchmarkQuery) (types.BenchmarkSummary, error) {
	if _, ok := model.StationByID(q.StationID); !ok {
		return types.BenchmarkSummary{}, fmt.Errorf("%w: %q", ErrUnknownStation, q.StationID)
	}
	if q.Bins < 0 {
		return types.BenchmarkSummary{}, fmt.Errorf("%w: %d", benchmark.ErrInvalidBins, q.Bins)
	}
	if err := q.Cohort.Validate(); err != nil {
		return types.BenchmarkSummary{}, err
	}

	samples, err := s.listSamples(ctx, repository.Query{ClubID: q.ClubID, StationID: q.StationID})
	if err != nil {
		return types.BenchmarkSummary{}, err
	}

	bins := s.histogramBins
	if q.Bins > 0 {
		bins = q.Bins
	}
	summary := benchmark.Summarize(q.StationID, q.Cohort.Filter(samples), benchmark.WithBins(bins))
	s.log().Debug(ctx, "benchmark summarized",
		logger.String("club_id", q.ClubID),
		logger.String("station_id", q.StationID),
		logger.Int("n", summary.N),
	)
	return summary, nil
}

// Stations returns the test-station catalog.
func (s *Service) Stations() []model.Station {
	out := make([]model.Station, len(model.Stations))
	copy(out, model.Stations)
	return out
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats(ctx context.Context) types.ServiceStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := types.ServiceStats{
		Started:         s.started,
		DefaultLanguage: string(s.defaultLanguage),
		YThresholdPct:   s.yThreshold,
		SampleLimit:     s.sampleLimit,
	}

	if s.cache != nil {
		cached := s.cache.Len()
		stats.CachedReports = &cached
	}
	if !s.started {
		return stats
	}

	stored := s.store.Count(ctx)
	stats.StoredSamples = &stored
	if stored >= 0 {
		metrics.UpdateStoredSamples(stored)
	}
	queued, workers, ids := s.queue.Len(), s.pool.Size(), s.deduper.Size()
	stats.IngestQueued = &queued
	stats.IngestWorkers = &workers
	stats.DedupeIDs = &ids
	return stats
}

// Ingest validates submitted results and queues them for the record store.
// Results without a ResultID get a generated one; a ResultID seen before is
// counted as a duplicate. Queueing stops at the first full-queue error and
// the counts cover the results handled until then.
func (s *Service) Ingest(ctx context.Context, clubID string, samples []model.TimingSample) (types.IngestResult, error) {
	s.mu.RLock()
	q, deduper, started := s.queue, s.deduper, s.started
	s.mu.RUnlock()

	res := types.IngestResult{Rejected: []types.Rejection{}}
	if !started {
		return res, ErrNotStarted
	}
	if clubID == "" {
		return res, repository.ErrMissingClub
	}

	defer func() {
		metrics.RecordIngestOutcome("accepted", res.Accepted)
		metrics.RecordIngestOutcome("duplicate", res.Duplicates)
		metrics.RecordIngestOutcome("rejected", len(res.Rejected))
	}()

	for i := range samples {
		smp := samples[i]
		if smp.StationID == "" {
			smp.StationID = model.COD505StationID
		}
		if reason := ingestProblem(&smp); reason != "" {
			res.Rejected = append(res.Rejected, types.Rejection{Index: i, Reason: reason})
			continue
		}
		if smp.ResultID == "" {
			smp.ResultID = uuid.NewString()
		}
		if deduper.SeenAndRecord(ctx, smp.ResultID) {
			res.Duplicates++
			continue
		}

		if err := q.Enqueue(ctx, queue.Record{ClubID: clubID, Sample: smp}); err != nil {
			deduper.Unrecord(ctx, smp.ResultID)
			metrics.RecordErrorByComponent("service", "ingest_enqueue")
			s.log().Warn(ctx, "ingestion queue refused result",
				logger.String("club_id", clubID),
				logger.Int("index", i),
				logger.Error(err),
			)
			return res, fmt.Errorf("%w: result %d: %w", ErrIngestUnavailable, i, err)
		}
		res.Accepted++
	}

	s.log().Debug(ctx, "results queued",
		logger.String("club_id", clubID),
		logger.Int("accepted", res.Accepted),
		logger.Int("duplicates", res.Duplicates),
		logger.Int("rejected", len(res.Rejected)),
	)
	return res, nil
}

// ingestProblem names why a result cannot be stored, or returns "".
func ingestProblem(smp *model.TimingSample) string {
	switch {
	case smp.AthleteID == "":
		return "missing athlete_id"
	case smp.Identity == nil:
		return "missing athlete_identity"
	case smp.TestedAt.IsZero():
		return "missing tested_at"
	case !smp.HasValidTime():
		return "missing or invalid time_seconds"
	}
	if _, ok := model.StationByID(smp.StationID); !ok {
		return "unknown station_id " + strconv.Quote(smp.StationID)
	}
	return ""
}

func (s *Service) invalidateCache(string) {
	if s.cache != nil {
		s.cache.Clear()
	}
}

func (s *Service) build(ctx context.Context, samples []model.TimingSample, lang model.Language, y float64, source string) (types.CoachReport, error) {
	start := time.Now()
	r, err := report.Build(samples,
		report.WithLanguage(lang),
		report.WithYThreshold(y),
		report.WithScorer(s.scorer),
		report.WithClock(s.clock),
	)
	if err != nil {
		metrics.RecordErrorByComponent("service", "report_build")
		s.log().Error(ctx, "coaching report failed", logger.Int("samples", len(samples)), logger.Error(err))
		return types.CoachReport{}, err
	}

	metrics.RecordReportBuildLatency(float64(time.Since(start).Microseconds()) / 1000)
	metrics.RecordReportGenerated(string(lang), source)
	for i := range r.Athletes {
		category := ""
		if r.Athletes[i].Category != nil {
			category = *r.Athletes[i].Category
		}
		metrics.RecordAthleteScored(category)
	}
	for block, n := range report.Triggered(r) {
		metrics.RecordRulesTriggered(string(block), n)
	}

	s.log().Debug(ctx, "coaching report built",
		logger.String("source", source),
		logger.String("language", string(lang)),
		logger.Int("samples", len(samples)),
		logger.Int("athletes", len(r.Athletes)),
		logger.Elapsed(start),
	)
	return r, nil
}

func (s *Service) listSamples(ctx context.Context, q repository.Query) ([]model.TimingSample, error) {
	s.mu.RLock()
	store, started := s.store, s.started
	s.mu.RUnlock()
	if !started {
		return nil, ErrNotStarted
	}

	q.Limit = s.sampleLimit
	start := time.Now()
	samples, err := store.ListSamples(ctx, q)
	if err != nil {
		if errors.Is(err, repository.ErrQueryFailed) {
			metrics.RecordErrorByComponent("service", "store")
			s.log().Error(ctx, "listing samples",
				logger.String("club_id", q.ClubID),
				logger.String("station_id", q.StationID),
				logger.Error(err),
			)
		}
		return nil, err
	}
	s.log().Debug(ctx, "samples listed",
		logger.String("club_id", q.ClubID),
		logger.String("station_id", q.StationID),
		logger.Int("samples", len(samples)),
		logger.Elapsed(start),
	)
	return samples, nil
}

func (s *Service) reportSettings(lang model.Language, y *float64) (model.Language, float64, error) {
	if lang == "" {
		lang = s.defaultLanguage
	}
	if _, err := locale.Lookup(lang); err != nil {
		return "", 0, err
	}
	threshold := s.yThreshold
	if y != nil {
		if !validThreshold(*y) {
			return "", 0, fmt.Errorf("%w: %v", ErrInvalidThreshold, *y)
		}
		threshold = *y
	}
	return lang, threshold, nil
}

func (s *Service) log() logger.Logger {
	if s.logger == nil {
		return logger.Get().Named("service")
	}
	return s.logger
}

func validThreshold(pct float64) bool {
	return !math.IsNaN(pct) && !math.IsInf(pct, 0) && pct >= 0
}
