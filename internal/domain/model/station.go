package model

// StationCategory groups stations by the quality they measure.
type StationCategory string

// Station categories.
const (
	CategorySpeed        StationCategory = "speed"
	CategoryAgility      StationCategory = "agility"
	CategoryAcceleration StationCategory = "acceleration"
)

// COD505StationID is the station coaching reports are built for.
const COD505StationID = "5-0-5-test"

// Station describes a test protocol that results are recorded against.
type Station struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	ShortName      string          `json:"short_name"`
	DistanceMeters int             `json:"distance_meters"`
	Category       StationCategory `json:"category"`
	Unit           string          `json:"unit"`
	Description    string          `json:"description"`
}

// Stations is the fixed station catalog, in display order.
var Stations = []Station{ //nolint:gochecknoglobals // read-only catalog
	{
		ID:             "flying-20",
		Name:           "Flying Twenty",
		ShortName:      "Flying 20m",
		DistanceMeters: 20,
		Category:       CategorySpeed,
		Unit:           "seconds",
		Description:    "Measures top-end sprint speed after a running start.",
	},
	{
		ID:             "five-ten-five",
		Name:           "Five-Ten-Five Agility Test",
		ShortName:      "5-10-5",
		DistanceMeters: 20,
		Category:       CategoryAgility,
		Unit:           "seconds",
		Description:    "Measures change-of-direction speed over short distances.",
	},
	{
		ID:             "ten-meter-sprint",
		Name:           "10 Meter Sprint",
		ShortName:      "10m Sprint",
		DistanceMeters: 10,
		Category:       CategoryAcceleration,
		Unit:           "seconds",
		Description:    "Measures short-distance acceleration from a static start.",
	},
	{
		ID:             "twenty-meter-sprint",
		Name:           "20 Meter Sprint",
		ShortName:      "20m Sprint",
		DistanceMeters: 20,
		Category:       CategoryAcceleration,
		Unit:           "seconds",
		Description:    "Measures short-distance acceleration from a static start.",
	},
	{
		ID:             COD505StationID,
		Name:           "5-0-5 Test",
		ShortName:      "5-0-5",
		DistanceMeters: 100,
		Category:       CategorySpeed,
		Unit:           "seconds",
		Description:    "Measures change of direction from a flying start.",
	},
	{
		ID:             "skill-test",
		Name:           "Skill Test",
		ShortName:      "skill",
		DistanceMeters: 100,
		Category:       CategorySpeed,
		Unit:           "seconds",
		Description:    "Measures a specific skill.",
	},
}

// StationByID looks up a catalog station.
func StationByID(id string) (Station, bool) {
	for _, s := range Stations {
		if s.ID == id {
			return s, true
		}
	}
	return Station{}, false
}
