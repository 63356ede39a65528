package benchmark

import (
	"fmt"
	"strings"

	"github.com/okian/clubperf/internal/domain/model"
)

// SexAll disables the sex filter.
const SexAll = "all"

// Cohort narrows samples by sex and age at test time.
type Cohort struct {
	Sex    string   // "all", "M" or "F"; empty means all
	MinAge *float64 // inclusive, years
	MaxAge *float64 // inclusive, years
}

// Validate checks the sex value and that the age bounds are ordered.
func (c Cohort) Validate() error {
	switch strings.ToUpper(c.Sex) {
	case "", "ALL", "M", "F":
	default:
		return fmt.Errorf("%w: sex %q", ErrInvalidCohort, c.Sex)
	}
	if c.MinAge != nil && *c.MinAge < 0 {
		return fmt.Errorf("%w: negative min age", ErrInvalidCohort)
	}
	if c.MinAge != nil && c.MaxAge != nil && *c.MinAge > *c.MaxAge {
		return fmt.Errorf("%w: min age %.1f above max age %.1f", ErrInvalidCohort, *c.MinAge, *c.MaxAge)
	}
	return nil
}

// Matches reports whether a sample belongs to the cohort. Samples without a
// usable date of birth are only excluded when an age bound is set.
func (c Cohort) Matches(s *model.TimingSample) bool {
	if sex := strings.ToUpper(c.Sex); sex != "" && sex != "ALL" {
		if s.Identity == nil || strings.ToUpper(s.Identity.Sex) != sex {
			return false
		}
	}
	if c.MinAge == nil && c.MaxAge == nil {
		return true
	}

	age, ok := s.Identity.AgeAt(s.TestedAt)
	if !ok {
		return false
	}
	if c.MinAge != nil && age < *c.MinAge {
		return false
	}
	if c.MaxAge != nil && age > *c.MaxAge {
		return false
	}
	return true
}

// Filter returns the samples that match the cohort, in input order.
func (c Cohort) Filter(samples []model.TimingSample) []model.TimingSample {
	out := make([]model.TimingSample, 0, len(samples))
	for i := range samples {
		if c.Matches(&samples[i]) {
			out = append(out, samples[i])
		}
	}
	return out
}
