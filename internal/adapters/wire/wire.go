// Package wire converts timing samples between their JSON wire form and the
// domain model. The same shape is used by the HTTP API, the CLI and the
// in-memory store seed file.
package wire

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/okian/clubperf/internal/domain/model"
	"github.com/okian/clubperf/internal/domain/report"
)

const dateLayout = "2006-01-02"

// Identity is the athlete snapshot. Every field is nullable.
type Identity struct {
	Sex         *string `json:"sex"`
	DateOfBirth *string `json:"date_of_birth"`
	FirstName   *string `json:"first_name"`
	LastName    *string `json:"last_name"`
}

// Sample is one timing record.
type Sample struct {
	ResultID    string    `json:"result_id,omitempty"`
	ClubID      string    `json:"club_id,omitempty"`
	StationID   string    `json:"station_id,omitempty"`
	AthleteID   string    `json:"athlete_id"`
	TimeSeconds *float64  `json:"time_seconds"`
	TestedAt    string    `json:"tested_at"`
	Side        *string   `json:"side"`
	Identity    *Identity `json:"athlete_identity"`
}

// ToModel converts one record. A missing time becomes NaN and an unparsable
// date of birth is treated as unknown; an unparsable tested_at is malformed.
func (s Sample) ToModel() (model.TimingSample, error) {
	out := model.TimingSample{
		ResultID:    s.ResultID,
		AthleteID:   strings.TrimSpace(s.AthleteID),
		StationID:   s.StationID,
		TimeSeconds: math.NaN(),
	}
	if s.TimeSeconds != nil {
		out.TimeSeconds = *s.TimeSeconds
	}
	if s.Side != nil {
		out.Side = model.ParseSide(*s.Side)
	}
	if s.TestedAt != "" {
		t, err := parseTimestamp(s.TestedAt)
		if err != nil {
			return model.TimingSample{}, fmt.Errorf("tested_at %q: %w", s.TestedAt, report.ErrMalformedSample)
		}
		out.TestedAt = t
	}
	if s.Identity != nil {
		out.Identity = &model.Identity{
			Sex:       deref(s.Identity.Sex),
			FirstName: deref(s.Identity.FirstName),
			LastName:  deref(s.Identity.LastName),
		}
		if dob := deref(s.Identity.DateOfBirth); dob != "" {
			if t, err := parseTimestamp(dob); err == nil {
				out.Identity.DateOfBirth = t
			}
		}
	}
	return out, nil
}

// ToModels converts a batch. The error names the first bad index.
func ToModels(in []Sample) ([]model.TimingSample, error) {
	out := make([]model.TimingSample, 0, len(in))
	for i := range in {
		s, err := in[i].ToModel()
		if err != nil {
			return nil, fmt.Errorf("sample %d: %w", i, err)
		}
		out = append(out, s)
	}
	return out, nil
}

// FromModel converts a domain sample back to its wire form.
func FromModel(clubID string, s model.TimingSample) Sample {
	out := Sample{
		ResultID:  s.ResultID,
		ClubID:    clubID,
		StationID: s.StationID,
		AthleteID: s.AthleteID,
	}
	if s.HasValidTime() {
		t := s.TimeSeconds
		out.TimeSeconds = &t
	}
	if !s.TestedAt.IsZero() {
		out.TestedAt = s.TestedAt.UTC().Format(time.RFC3339Nano)
	}
	if s.Side != model.SideUnknown {
		side := string(s.Side)
		out.Side = &side
	}
	if s.Identity != nil {
		out.Identity = &Identity{
			Sex:       ref(s.Identity.Sex),
			FirstName: ref(s.Identity.FirstName),
			LastName:  ref(s.Identity.LastName),
		}
		if !s.Identity.DateOfBirth.IsZero() {
			out.Identity.DateOfBirth = ref(s.Identity.DateOfBirth.Format(dateLayout))
		}
	}
	return out
}

// ParseTime accepts RFC 3339 timestamps or plain dates.
func ParseTime(v string) (time.Time, error) {
	return parseTimestamp(v)
}

func parseTimestamp(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	if t, err := time.Parse(time.RFC3339Nano, v); err == nil {
		return t, nil
	}
	return time.Parse(dateLayout, v)
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return strings.TrimSpace(*p)
}

func ref(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
