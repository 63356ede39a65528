package repository

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/IBM/pgxpoolprometheus"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/okian/clubperf/internal/domain/model"
	"github.com/okian/clubperf/pkg/metrics"
)

const postgresStoreName = "postgres"

// listSamplesSQL reads test results joined with the athlete snapshot. The
// inner join drops results whose athlete row is gone.
const listSamplesSQL = `
	SELECT
		tr.id::text, tr.user_id::text, tr.station_id, tr.time_seconds, tr.tested_at, tr.foot,
		cu.sex, cu.dob, cu.first_name, cu.last_name
	FROM test_results tr
		JOIN club_users cu ON cu.id = tr.user_id
	WHERE tr.club_id::text = $1
		AND ($2::text = '' OR tr.station_id = $2)
		AND ($3::timestamptz IS NULL OR tr.tested_at >= $3)
		AND ($4::timestamptz IS NULL OR tr.tested_at <= $4)
	ORDER BY tr.tested_at DESC
	LIMIT $5;`

const countSQL = `SELECT count(*) FROM test_results;`

// insertSampleSQL records one result. The athlete row in club_users is owned
// by the club roster and must already exist.
const insertSampleSQL = `
	INSERT INTO test_results (id, club_id, user_id, station_id, time_seconds, tested_at, foot)
	VALUES ($1::uuid, $2::uuid, $3::uuid, $4, $5, $6, $7)
	ON CONFLICT (id) DO NOTHING;`

// PostgresStore reads samples from the club database.
type PostgresStore struct {
	db   *pgxpool.Pool
	opts options
}

// NewPostgresStore connects a pool to connString and verifies it.
func NewPostgresStore(ctx context.Context, connString string, opts ...Option) (*PostgresStore, error) {
	poolConfig, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("parse db config: %w", err)
	}

	db, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}
	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	collector := pgxpoolprometheus.NewCollector(db, map[string]string{"db_name": poolConfig.ConnConfig.Database})
	if err := metrics.RegisterCollector(collector); err != nil {
		db.Close()
		return nil, fmt.Errorf("register pool metrics: %w", err)
	}

	return NewPostgresStoreFromPool(db, opts...), nil
}

// NewPostgresStoreFromPool wraps an existing pool.
func NewPostgresStoreFromPool(db *pgxpool.Pool, opts ...Option) *PostgresStore {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &PostgresStore{db: db, opts: o}
}

// ListSamples implements Store.
func (s *PostgresStore) ListSamples(ctx context.Context, q Query) (_ []model.TimingSample, err error) {
	start := time.Now()
	defer func() {
		outcome := "ok"
		if err != nil {
			outcome = "error"
		}
		metrics.RecordStoreQueryLatency(postgresStoreName, outcome, msSince(start))
	}()

	q, err = q.normalize(s.opts.defaultLimit)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(ctx, listSamplesSQL, listSamplesArgs(q)...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrQueryFailed, err)
	}
	defer rows.Close()

	out, err := rows2samples(rows)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrQueryFailed, err)
	}
	return out, nil
}

// Add implements Store. The batch is sent in one round trip; results whose
// id already exists are skipped.
func (s *PostgresStore) Add(ctx context.Context, clubID string, samples ...model.TimingSample) (err error) {
	if clubID == "" {
		return ErrMissingClub
	}
	if len(samples) == 0 {
		return nil
	}

	start := time.Now()
	defer func() {
		outcome := "ok"
		if err != nil {
			outcome = "error"
		}
		metrics.RecordStoreQueryLatency(postgresStoreName, outcome, msSince(start))
	}()

	batch := &pgx.Batch{}
	for i := range samples {
		batch.Queue(insertSampleSQL, insertSampleArgs(clubID, &samples[i])...)
	}

	br := s.db.SendBatch(ctx, batch)
	defer br.Close()
	for i := range samples {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("%w: sample %d: %w", ErrWriteFailed, i, err)
		}
	}
	return nil
}

// Count implements Store.
func (s *PostgresStore) Count(ctx context.Context) int {
	var n int
	if err := s.db.QueryRow(ctx, countSQL).Scan(&n); err != nil {
		return -1
	}
	return n
}

// Close implements Store.
func (s *PostgresStore) Close() error {
	s.db.Close()
	return nil
}

func listSamplesArgs(q Query) []any {
	return []any{q.ClubID, q.StationID, nullableTime(q.From), nullableTime(q.To), q.Limit}
}

func insertSampleArgs(clubID string, smp *model.TimingSample) []any {
	var foot *string
	if smp.Side != model.SideUnknown {
		side := string(smp.Side)
		foot = &side
	}
	var t *float64
	if smp.HasValidTime() {
		v := smp.TimeSeconds
		t = &v
	}
	return []any{smp.ResultID, clubID, smp.AthleteID, smp.StationID, t, smp.TestedAt, foot}
}

func nullableTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func rows2samples(rows pgx.Rows) ([]model.TimingSample, error) {
	out := make([]model.TimingSample, 0)
	for rows.Next() {
		var (
			resultID, userID, stationID string
			timeSeconds                 *float64
			testedAt                    time.Time
			foot                        *string
			sex, firstName, lastName    *string
			dob                         *time.Time
		)
		if err := rows.Scan(
			&resultID, &userID, &stationID, &timeSeconds, &testedAt, &foot,
			&sex, &dob, &firstName, &lastName,
		); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}

		smp := model.TimingSample{
			ResultID:    resultID,
			AthleteID:   userID,
			StationID:   stationID,
			TimeSeconds: math.NaN(),
			TestedAt:    testedAt,
			Identity: &model.Identity{
				Sex:       deref(sex),
				FirstName: deref(firstName),
				LastName:  deref(lastName),
			},
		}
		if timeSeconds != nil {
			smp.TimeSeconds = *timeSeconds
		}
		if !smp.HasValidTime() {
			continue
		}
		if foot != nil {
			smp.Side = model.ParseSide(*foot)
		}
		if dob != nil {
			smp.Identity.DateOfBirth = *dob
		}
		out = append(out, smp)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
