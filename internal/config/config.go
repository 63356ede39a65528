// Package config defines service configuration and its loading from defaults,
// an optional YAML file and CLUBPERF_ environment variables.
package config

import (
	"context"
	"fmt"

	"github.com/okian/clubperf/internal/domain/model"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects text or json log lines.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// DatabaseURL points at the Postgres record store. Empty selects the
	// in-memory store.
	DatabaseURL string `koanf:"database_url"`

	// SeedFile is a JSON array of samples loaded into the in-memory store.
	SeedFile string `koanf:"seed_file"`

	// DefaultLanguage is used when a report request names none.
	DefaultLanguage string `koanf:"default_language"`

	// YThresholdPct is the default team asymmetry threshold.
	YThresholdPct float64 `koanf:"y_threshold_pct"`

	// SampleLimit caps rows read from the record store per query.
	SampleLimit int `koanf:"sample_limit"`

	// HistogramBins is the default benchmark histogram resolution.
	HistogramBins int `koanf:"histogram_bins"`

	// LeaderboardTop is the default number of rows per station.
	LeaderboardTop int `koanf:"leaderboard_top"`

	// ReportCacheBytes sizes the store-backed report cache. Zero disables it.
	ReportCacheBytes int `koanf:"report_cache_bytes"`

	// ReportCacheTTLSeconds expires cached reports.
	ReportCacheTTLSeconds int `koanf:"report_cache_ttl_seconds"`

	// IngestWorkers is the number of goroutines writing submitted results.
	IngestWorkers int `koanf:"ingest_workers"`

	// IngestQueueCapacity bounds results waiting to be written.
	IngestQueueCapacity int `koanf:"ingest_queue_capacity"`

	// DedupeMaxIDs is how many result ids are remembered for duplicate
	// detection. Zero remembers all of them.
	DedupeMaxIDs int `koanf:"dedupe_max_ids"`
}

// New returns a Config holding the defaults.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:              "info",
		LogFormat:             "text",
		Addr:                  ":9080",
		DefaultLanguage:       string(model.DefaultLanguage),
		YThresholdPct:         10,
		SampleLimit:           5000,
		HistogramBins:         18,
		LeaderboardTop:        3,
		ReportCacheBytes:      16 << 20,
		ReportCacheTTLSeconds: 60,
		IngestWorkers:         4,
		IngestQueueCapacity:   10000,
		DedupeMaxIDs:          50000,
	}
}

// Validate reports the first inconsistent field.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.LogFormat != "text" && c.LogFormat != "json":
		return fmt.Errorf("%w: log_format %q", ErrInvalidConfig, c.LogFormat)
	case c.YThresholdPct <= 0:
		return fmt.Errorf("%w: y_threshold_pct must be positive", ErrInvalidConfig)
	case c.SampleLimit <= 0:
		return fmt.Errorf("%w: sample_limit must be positive", ErrInvalidConfig)
	case c.HistogramBins <= 0:
		return fmt.Errorf("%w: histogram_bins must be positive", ErrInvalidConfig)
	case c.LeaderboardTop <= 0:
		return fmt.Errorf("%w: leaderboard_top must be positive", ErrInvalidConfig)
	case c.ReportCacheBytes < 0 || c.ReportCacheTTLSeconds < 0:
		return fmt.Errorf("%w: report cache settings must not be negative", ErrInvalidConfig)
	case c.IngestWorkers <= 0 || c.IngestQueueCapacity <= 0:
		return fmt.Errorf("%w: ingest_workers and ingest_queue_capacity must be positive", ErrInvalidConfig)
	case c.DedupeMaxIDs < 0:
		return fmt.Errorf("%w: dedupe_max_ids must not be negative", ErrInvalidConfig)
	}
	if _, ok := model.ParseLanguage(c.DefaultLanguage); !ok {
		return fmt.Errorf("%w: default_language %q", ErrInvalidConfig, c.DefaultLanguage)
	}
	return nil
}

// Language returns the validated default language.
func (c *Config) Language() model.Language {
	if l, ok := model.ParseLanguage(c.DefaultLanguage); ok {
		return l
	}
	return model.DefaultLanguage
}
