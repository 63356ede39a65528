// Package model contains domain models passed between layers.
package model

import (
	"math"
	"strings"
	"time"
)

// Side identifies the turn direction an attempt was performed on.
type Side string

// Supported sides. SideUnknown covers attempts recorded without a side.
const (
	SideUnknown Side = ""
	SideLeft    Side = "left"
	SideRight   Side = "right"
)

// ParseSide normalizes a free-form side value. Anything other than
// left/right (case-insensitive) maps to SideUnknown.
func ParseSide(s string) Side {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "left":
		return SideLeft
	case "right":
		return SideRight
	default:
		return SideUnknown
	}
}

// Language selects the localized text used in reports.
type Language string

// Supported report languages.
const (
	LanguageEnglish Language = "en"
	LanguageSwedish Language = "sv"
)

// DefaultLanguage is used when a caller does not pick one.
const DefaultLanguage = LanguageEnglish

// ParseLanguage reports whether s names a supported language.
func ParseLanguage(s string) (Language, bool) {
	switch Language(strings.ToLower(strings.TrimSpace(s))) {
	case LanguageEnglish:
		return LanguageEnglish, true
	case LanguageSwedish:
		return LanguageSwedish, true
	}
	return "", false
}

// Identity is the athlete snapshot captured when the attempt was recorded.
// Every field may be empty.
type Identity struct {
	Sex         string
	DateOfBirth time.Time // zero when unknown
	FirstName   string
	LastName    string
}

// DisplayName joins first and last name, falling back to "Unknown".
func (i *Identity) DisplayName() string {
	if i == nil {
		return "Unknown"
	}
	name := strings.TrimSpace(strings.TrimSpace(i.FirstName) + " " + strings.TrimSpace(i.LastName))
	if name == "" {
		return "Unknown"
	}
	return name
}

// TimingSample is one timed attempt by one athlete.
type TimingSample struct {
	ResultID    string    // record store id, optional
	AthleteID   string    // subject identifier
	StationID   string    // test station, optional for engine input
	TimeSeconds float64   // NaN when the store had no value
	TestedAt    time.Time // zero when unknown
	Side        Side
	Identity    *Identity // required; fields inside may be empty
}

// HasValidTime reports whether the attempt carries a usable time.
func (s *TimingSample) HasValidTime() bool {
	return ValidTime(s.TimeSeconds)
}

// ValidTime reports whether t is finite and strictly positive.
func ValidTime(t float64) bool {
	return !math.IsNaN(t) && !math.IsInf(t, 0) && t > 0
}

const yearDuration = 365.25 * 24 * time.Hour

// AgeAt returns the athlete's age in years at the given instant. It reports
// false when the date of birth or the instant is unknown, or when the
// instant precedes the date of birth.
func (i *Identity) AgeAt(at time.Time) (float64, bool) {
	if i == nil || i.DateOfBirth.IsZero() || at.IsZero() {
		return 0, false
	}
	d := at.Sub(i.DateOfBirth)
	if d < 0 {
		return 0, false
	}
	return float64(d) / float64(yearDuration), true
}
