// Package locale holds the localized report text for every supported language.
package locale

import (
	"fmt"
	"strconv"

	"github.com/okian/clubperf/internal/domain/model"
)

// Block is a reusable session drill.
type Block struct {
	Title    string
	Work     string
	Coaching []string
}

// AdviceText is the per-athlete coaching vocabulary.
type AdviceText struct {
	TitlePerf        string
	TitleBal         string
	TitlePerfBal     string
	TitlePerfBalAsym string

	WhyPerfFormat string // %d performance index
	WhyBalFormat  string // %d balance score
	WhyAsymFormat string // %.1f asymmetry

	ActBraking  string
	ActReaccel  string
	ActPlant    string
	ActWeakSide string
	ActTrack    string
}

// SessionText is the session library for one language.
type SessionText struct {
	Equipment string
	S1Title   string
	S1Goal    string
	S2Title   string
	S2Goal    string
	Warmup    Block
	Braking   Block
	COD505    Block
	WeakSide  Block
}

// Dictionary is every piece of text a coaching report needs.
type Dictionary struct {
	Language model.Language

	Advice AdviceText

	TrigTeamAsymFormat string // %s threshold
	Trig30             string
	TitleAsym          string
	AsymItems          []string

	TrigSlowerMedian string
	TitlePerf        string
	PerfItems        []string

	TrigMoreLeft  string
	TrigMoreRight string
	TitleBias     string
	BiasItems     []string

	Sessions SessionText
}

// WhyPerf formats the low-performance reason.
func (d *Dictionary) WhyPerf(v int) string { return fmt.Sprintf(d.Advice.WhyPerfFormat, v) }

// WhyBal formats the low-balance reason.
func (d *Dictionary) WhyBal(v int) string { return fmt.Sprintf(d.Advice.WhyBalFormat, v) }

// WhyAsym formats the high-asymmetry reason.
func (d *Dictionary) WhyAsym(v float64) string { return fmt.Sprintf(d.Advice.WhyAsymFormat, v) }

// TrigTeamAsym formats the team asymmetry trigger using the shortest
// representation of the threshold (10, 7.5).
func (d *Dictionary) TrigTeamAsym(threshold float64) string {
	return fmt.Sprintf(d.TrigTeamAsymFormat, strconv.FormatFloat(threshold, 'f', -1, 64))
}

var dictionaries = map[model.Language]*Dictionary{ //nolint:gochecknoglobals // static text tables
	model.LanguageEnglish: english,
	model.LanguageSwedish: swedish,
}

// Lookup returns the dictionary for lang. An empty language resolves to the
// default language.
func Lookup(lang model.Language) (*Dictionary, error) {
	if lang == "" {
		lang = model.DefaultLanguage
	}
	d, ok := dictionaries[lang]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedLanguage, lang)
	}
	return d, nil
}

// MustLookup is Lookup for callers that already validated the language.
func MustLookup(lang model.Language) *Dictionary {
	d, err := Lookup(lang)
	if err != nil {
		panic(err)
	}
	return d
}

// Supported lists the languages with a dictionary, default first.
func Supported() []model.Language {
	return []model.Language{model.LanguageEnglish, model.LanguageSwedish}
}
