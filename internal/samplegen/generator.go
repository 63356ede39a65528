// Package samplegen produces synthetic 5-0-5 test sessions for demos, seed
// files and load tests.
package samplegen

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"

	"github.com/okian/clubperf/internal/domain/model"
	"github.com/okian/clubperf/pkg/logger"
)

// Defaults for a generated session.
const (
	DefaultAthletes        = 20
	DefaultAttemptsPerSide = 2
	attemptSpacing         = 90 * time.Second
	maxAttemptJitter       = 0.08
	minAgeYears            = 12
	ageRangeYears          = 7
)

// profile is a performer band: best-side time range and asymmetry range in percent.
type profile struct {
	bestMin  float64
	bestSpan float64
	asymMin  float64
	asymSpan float64
}

// Performer bands, weighted by repetition like a typical squad.
var profiles = []profile{ //nolint:gochecknoglobals // static distribution table
	{bestMin: 2.00, bestSpan: 0.10, asymMin: 0, asymSpan: 4},   // elite
	{bestMin: 2.10, bestSpan: 0.10, asymMin: 1, asymSpan: 6},   // strong
	{bestMin: 2.10, bestSpan: 0.10, asymMin: 5, asymSpan: 6},   // strong, one-sided
	{bestMin: 2.20, bestSpan: 0.12, asymMin: 2, asymSpan: 7},   // average
	{bestMin: 2.20, bestSpan: 0.12, asymMin: 2, asymSpan: 7},   // average
	{bestMin: 2.20, bestSpan: 0.12, asymMin: 8, asymSpan: 8},   // average, one-sided
	{bestMin: 2.32, bestSpan: 0.18, asymMin: 3, asymSpan: 10},  // developing
	{bestMin: 2.32, bestSpan: 0.18, asymMin: 12, asymSpan: 10}, // developing, one-sided
}

// Option applies a configuration option to the Generator.
type Option func(*Generator)

// WithAthletes sets the squad size.
func WithAthletes(n int) Option {
	return func(g *Generator) {
		if n >= 0 {
			g.athletes = n
		}
	}
}

// WithAttemptsPerSide sets how many runs each athlete makes per turn direction.
func WithAttemptsPerSide(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.attemptsPerSide = n
		}
	}
}

// WithSeed makes the output reproducible.
func WithSeed(seed uint64) Option {
	return func(g *Generator) {
		g.seed = seed
		g.seeded = true
	}
}

// WithTestedAt sets the start of the session.
func WithTestedAt(t time.Time) Option {
	return func(g *Generator) {
		if !t.IsZero() {
			g.testedAt = t.UTC()
		}
	}
}

// WithMissingRate sets the share of attempts recorded without a time.
func WithMissingRate(p float64) Option {
	return func(g *Generator) {
		if p >= 0 && p <= 1 {
			g.missingRate = p
		}
	}
}

// Generator builds synthetic sessions. It is not safe for concurrent use.
type Generator struct {
	athletes        int
	attemptsPerSide int
	testedAt        time.Time
	missingRate     float64
	seed            uint64
	seeded          bool

	rng   *rand.Rand
	src   *rand.ChaCha8
	names *gofakeit.Faker
}

// New creates a generator.
func New(opts ...Option) *Generator {
	g := &Generator{
		athletes:        DefaultAthletes,
		attemptsPerSide: DefaultAttemptsPerSide,
		testedAt:        time.Now().UTC().Truncate(time.Minute),
	}
	for _, opt := range opts {
		opt(g)
	}
	if !g.seeded {
		g.seed = uint64(time.Now().UnixNano())
	}

	var key [32]byte
	for i := 0; i < 4; i++ {
		for b := 0; b < 8; b++ {
			key[i*8+b] = byte(g.seed >> (8 * b))
		}
	}
	g.src = rand.NewChaCha8(key)
	g.rng = rand.New(g.src)
	// gofakeit seeds from crypto/rand when given 0.
	nameSeed := int64(g.seed)
	if nameSeed == 0 {
		nameSeed = 1
	}
	g.names = gofakeit.New(nameSeed)
	return g
}

// Generate returns every attempt of the session, athlete by athlete,
// alternating left and right.
func (g *Generator) Generate(ctx context.Context) ([]model.TimingSample, error) {
	logger.Get().Debug(ctx, "generating 5-0-5 session",
		logger.Int("athletes", g.athletes),
		logger.Int("attempts_per_side", g.attemptsPerSide),
	)

	out := make([]model.TimingSample, 0, g.athletes*g.attemptsPerSide*2)
	at := g.testedAt
	for i := 0; i < g.athletes; i++ {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("context cancelled during sample generation: %w", ctx.Err())
		default:
		}

		athleteID, err := uuid.NewRandomFromReader(g.src)
		if err != nil {
			return nil, fmt.Errorf("athlete id: %w", err)
		}
		identity := g.identity(at)
		left, right := g.sideBests()

		for a := 0; a < g.attemptsPerSide; a++ {
			for _, side := range []model.Side{model.SideLeft, model.SideRight} {
				best := left
				if side == model.SideRight {
					best = right
				}
				resultID, err := uuid.NewRandomFromReader(g.src)
				if err != nil {
					return nil, fmt.Errorf("result id: %w", err)
				}
				out = append(out, model.TimingSample{
					ResultID:    resultID.String(),
					AthleteID:   athleteID.String(),
					StationID:   model.COD505StationID,
					TimeSeconds: g.attemptTime(best, a == 0),
					TestedAt:    at,
					Side:        side,
					Identity:    identity,
				})
				at = at.Add(attemptSpacing)
			}
		}
	}
	return out, nil
}

// sideBests draws a performer band and returns the intended best per side.
func (g *Generator) sideBests() (left, right float64) {
	p := profiles[g.rng.IntN(len(profiles))]
	fast := round2(p.bestMin + g.rng.Float64()*p.bestSpan)
	slow := round2(fast * (1 + (p.asymMin+g.rng.Float64()*p.asymSpan)/100))
	if g.rng.IntN(2) == 0 {
		return slow, fast
	}
	return fast, slow
}

// attemptTime returns the side best on the first attempt and a slower run
// afterwards, or NaN for an attempt recorded without a time.
func (g *Generator) attemptTime(best float64, first bool) float64 {
	if g.missingRate > 0 && g.rng.Float64() < g.missingRate {
		return math.NaN()
	}
	if first {
		return best
	}
	return round2(best + g.rng.Float64()*maxAttemptJitter)
}

func (g *Generator) identity(at time.Time) *model.Identity {
	sex := "M"
	if g.rng.IntN(2) == 0 {
		sex = "F"
	}
	age := time.Duration((minAgeYears + g.rng.Float64()*ageRangeYears) * 365.25 * 24 * float64(time.Hour))
	return &model.Identity{
		Sex:         sex,
		DateOfBirth: at.Add(-age).Truncate(24 * time.Hour),
		FirstName:   g.names.FirstName(),
		LastName:    g.names.LastName(),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
