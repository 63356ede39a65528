// Package cache keeps recently built coaching reports in a bounded,
// expiring in-process cache.
package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/coocood/freecache"

	"github.com/okian/clubperf/internal/domain/types"
	"github.com/okian/clubperf/pkg/metrics"
)

// ErrMiss is returned by Get when no usable entry exists.
var ErrMiss = errors.New("report cache miss")

// minCacheBytes is the smallest size freecache accepts.
const minCacheBytes = 512 * 1024

// Key identifies a store-backed report request.
type Key struct {
	ClubID     string
	From       time.Time
	To         time.Time
	Sex        string
	MinAge     *float64
	MaxAge     *float64
	Language   string
	YThreshold float64
}

// String renders a stable cache key.
func (k Key) String() string {
	parts := []string{
		"cod",
		k.ClubID,
		timePart(k.From),
		timePart(k.To),
		strings.ToUpper(k.Sex),
		floatPart(k.MinAge),
		floatPart(k.MaxAge),
		k.Language,
		strconv.FormatFloat(k.YThreshold, 'f', -1, 64),
	}
	return strings.Join(parts, "::")
}

// ReportCache stores JSON-encoded reports.
type ReportCache struct {
	cache *freecache.Cache
	ttl   time.Duration
}

// New creates a cache of roughly sizeBytes whose entries expire after ttl.
func New(sizeBytes int, ttl time.Duration) *ReportCache {
	if sizeBytes < minCacheBytes {
		sizeBytes = minCacheBytes
	}
	return &ReportCache{cache: freecache.NewCache(sizeBytes), ttl: ttl}
}

// Get returns a cached report or ErrMiss.
func (c *ReportCache) Get(k Key) (types.CoachReport, error) {
	var r types.CoachReport
	raw, err := c.cache.Get([]byte(k.String()))
	if err != nil {
		metrics.RecordCacheLookup(metrics.CacheMiss)
		return r, ErrMiss
	}
	if err := json.Unmarshal(raw, &r); err != nil {
		metrics.RecordCacheLookup(metrics.CacheMiss)
		c.cache.Del([]byte(k.String()))
		return r, fmt.Errorf("%w: decode: %w", ErrMiss, err)
	}
	metrics.RecordCacheLookup(metrics.CacheHit)
	return r, nil
}

// Set stores a report under k.
func (c *ReportCache) Set(k Key, r types.CoachReport) error {
	raw, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	if err := c.cache.Set([]byte(k.String()), raw, int(c.ttl.Seconds())); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// Len returns the number of live entries.
func (c *ReportCache) Len() int64 {
	return c.cache.EntryCount()
}

// Clear drops every entry.
func (c *ReportCache) Clear() {
	c.cache.Clear()
}

func timePart(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func floatPart(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
