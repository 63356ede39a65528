// Package benchmark summarizes a cohort's time distribution on one station.
package benchmark

import (
	"fmt"
	"math"
	"sort"

	"github.com/okian/clubperf/internal/domain/model"
	"github.com/okian/clubperf/internal/domain/types"
)

// DefaultBins is the histogram resolution used by the benchmarks view.
const DefaultBins = 18

// Option configures Summarize.
type Option func(*summarizer)

type summarizer struct {
	bins int
}

// WithBins sets the histogram bin count. Non-positive values are ignored.
func WithBins(n int) Option {
	return func(s *summarizer) {
		if n > 0 {
			s.bins = n
		}
	}
}

// Summarize computes quantiles and a histogram over the valid times of the
// given samples.
func Summarize(stationID string, samples []model.TimingSample, opts ...Option) types.BenchmarkSummary {
	s := summarizer{bins: DefaultBins}
	for _, opt := range opts {
		opt(&s)
	}

	times := SortedTimes(samples)
	out := types.BenchmarkSummary{
		StationID: stationID,
		N:         len(times),
		Histogram: Histogram(times, s.bins),
	}
	if len(times) == 0 {
		return out
	}
	out.P10 = quantilePtr(times, 0.1)
	out.P50 = quantilePtr(times, 0.5)
	out.P90 = quantilePtr(times, 0.9)
	out.Min = types.Float(times[0])
	out.Max = types.Float(times[len(times)-1])
	return out
}

// SortedTimes extracts valid times in ascending order.
func SortedTimes(samples []model.TimingSample) []float64 {
	times := make([]float64, 0, len(samples))
	for i := range samples {
		if samples[i].HasValidTime() {
			times = append(times, samples[i].TimeSeconds)
		}
	}
	sort.Float64s(times)
	return times
}

// Quantile interpolates linearly between the closest ranks of sorted, with
// position (n-1)*q. It reports false for empty input.
func Quantile(sorted []float64, q float64) (float64, bool) {
	n := len(sorted)
	switch n {
	case 0:
		return 0, false
	case 1:
		return sorted[0], true
	}
	q = math.Min(1, math.Max(0, q))
	pos := float64(n-1) * q
	base := int(math.Floor(pos))
	rest := pos - float64(base)
	a := sorted[base]
	b := sorted[min(base+1, n-1)]
	return a + rest*(b-a), true
}

func quantilePtr(sorted []float64, q float64) *float64 {
	v, ok := Quantile(sorted, q)
	if !ok {
		return nil
	}
	return types.Float(v)
}

// Histogram buckets sorted values into equal-width bins between min and max.
// The last bin is closed at max. When every value is equal a single bin is
// returned.
func Histogram(sorted []float64, bins int) []types.HistogramBin {
	out := make([]types.HistogramBin, 0, bins)
	if len(sorted) == 0 || bins <= 0 {
		return out
	}
	lo, hi := sorted[0], sorted[len(sorted)-1]
	if lo == hi {
		return append(out, types.HistogramBin{Label: binLabel(lo, hi), Count: len(sorted), From: lo, To: hi})
	}

	width := (hi - lo) / float64(bins)
	for i := range bins {
		from := lo + float64(i)*width
		to := lo + float64(i+1)*width
		if i == bins-1 {
			to = hi
		}
		out = append(out, types.HistogramBin{From: from, To: to})
	}
	for _, v := range sorted {
		idx := int(math.Floor((v - lo) / width))
		idx = min(bins-1, max(0, idx))
		out[idx].Count++
	}
	for i := range out {
		out[i].Label = binLabel(out[i].From, out[i].To)
	}
	return out
}

func binLabel(from, to float64) string {
	return fmt.Sprintf("%.2f–%.2f", from, to)
}
