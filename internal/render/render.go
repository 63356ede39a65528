// Package render prints coaching reports, leaderboards and benchmarks as
// terminal tables.
package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/okian/clubperf/internal/domain/scoring"
	"github.com/okian/clubperf/internal/domain/types"
)

const (
	missing        = "-"
	histogramWidth = 40
	histogramGlyph = "#"
)

// Option configures a Renderer.
type Option func(*Renderer)

// WithStyle sets the go-pretty table style.
func WithStyle(s table.Style) Option {
	return func(r *Renderer) {
		r.style = s
	}
}

// WithColor highlights categories and slower sides with ANSI colors.
func WithColor(enabled bool) Option {
	return func(r *Renderer) {
		r.color = enabled
	}
}

// Renderer writes tables to an output stream.
type Renderer struct {
	w     io.Writer
	style table.Style
	color bool
}

// New creates a renderer writing to w.
func New(w io.Writer, opts ...Option) *Renderer {
	r := &Renderer{w: w, style: table.StyleLight}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Report prints the ranked athletes, team aggregates, action blocks and
// sessions of a coaching report.
func (r *Renderer) Report(rep types.CoachReport) error {
	sections := []func(types.CoachReport) string{
		r.athletes,
		r.team,
		r.actions,
		r.sessions,
	}
	for _, section := range sections {
		if _, err := fmt.Fprintln(r.w, section(rep)); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
	}
	return nil
}

func (r *Renderer) athletes(rep types.CoachReport) string {
	t := r.table(fmt.Sprintf("5-0-5 (%s, %s)", rep.Language, rep.GeneratedAt.Format(time.RFC3339)))
	t.AppendHeader(table.Row{"#", "Athlete", "Left", "Right", "Best", "Asym %", "Slower", "Perf", "Balance", "COD", "Category", "Advice"})
	for i, a := range rep.Athletes {
		slower := missing
		if a.SlowerSide != nil {
			slower = string(*a.SlowerSide)
		}
		advice := missing
		if a.Advice != nil {
			advice = a.Advice.Title
		}
		t.AppendRow(table.Row{
			i + 1,
			a.Name,
			num(a.LeftBest, 2),
			num(a.RightBest, 2),
			num(a.Best, 2),
			num(a.AsymmetryPct, 1),
			slower,
			num(a.PerformanceIndex, 0),
			num(a.BalanceScore, 0),
			num(a.OverallCODScore, 1),
			r.category(a.Category),
			advice,
		})
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
		{Number: 8, Align: text.AlignRight},
		{Number: 9, Align: text.AlignRight},
		{Number: 10, Align: text.AlignRight},
	})
	return t.Render()
}

func (r *Renderer) team(rep types.CoachReport) string {
	s := rep.Team
	t := r.table("Team")
	t.AppendRows([]table.Row{
		{"Athletes", s.AthletesN},
		{"Attempts", s.AttemptsN},
		{"Average best (s)", num(s.AvgBest, 2)},
		{"Fastest best (s)", num(s.FastestBest, 2)},
		{"Slowest best (s)", num(s.SlowestBest, 2)},
		{"Average asymmetry (%)", num(s.AvgAsymmetryPct, 1)},
		{"Asymmetry <5% / 5-10% / >10%", fmt.Sprintf("%d / %d / %d", s.AsymmetryLt5N, s.Asymmetry5To10N, s.AsymmetryGt10N)},
		{"Slower left / right", fmt.Sprintf("%d / %d", s.SlowerLeftN, s.SlowerRightN)},
		{"Speed threshold (s)", strconv.FormatFloat(rep.Scatter.XThreshold, 'f', 2, 64)},
		{"Asymmetry threshold (%)", strconv.FormatFloat(rep.Scatter.YThreshold, 'f', -1, 64)},
	})
	return t.Render()
}

func (r *Renderer) actions(rep types.CoachReport) string {
	t := r.table("Actions")
	t.AppendHeader(table.Row{"Block", "Triggered by", "Items"})
	for _, a := range rep.Actions {
		trig := missing
		if len(a.RulesTriggered) > 0 {
			trig = strings.Join(a.RulesTriggered, "\n")
		}
		t.AppendRow(table.Row{a.Title, trig, bullets(a.Items)})
		t.AppendSeparator()
	}
	return t.Render()
}

func (r *Renderer) sessions(rep types.CoachReport) string {
	t := r.table("Sessions")
	t.AppendHeader(table.Row{"Session", "Block", "Work", "Coaching"})
	for _, s := range rep.Sessions {
		title := fmt.Sprintf("%s (%d min)\n%s\n%s", s.Title, s.DurationMin, s.Goal, s.Equipment)
		for i, b := range s.Blocks {
			if i > 0 {
				title = ""
			}
			t.AppendRow(table.Row{title, b.Title, b.Work, bullets(b.Coaching)})
		}
		t.AppendSeparator()
	}
	return t.Render()
}

// Leaderboard prints the ranked rows of every station.
func (r *Renderer) Leaderboard(board []types.LeaderboardStation) error {
	for _, st := range board {
		t := r.table(st.StationShortName)
		t.AppendHeader(table.Row{"Rank", "Athlete", "Time (s)", "Sex", "Age", "Tested"})
		for _, row := range st.Rows {
			sex := missing
			if row.Sex != nil {
				sex = *row.Sex
			}
			t.AppendRow(table.Row{
				row.Rank,
				row.AthleteName,
				strconv.FormatFloat(row.TimeSeconds, 'f', 2, 64),
				sex,
				num(row.AgeAtTest, 1),
				row.TestedAt.Format("2006-01-02"),
			})
		}
		if _, err := fmt.Fprintln(r.w, t.Render()); err != nil {
			return fmt.Errorf("write leaderboard: %w", err)
		}
	}
	return nil
}

// Benchmark prints the quantiles and a text histogram of a summary.
func (r *Renderer) Benchmark(s types.BenchmarkSummary) error {
	t := r.table(s.StationID)
	t.AppendHeader(table.Row{"n", "min", "p10", "p50", "p90", "max"})
	t.AppendRow(table.Row{s.N, num(s.Min, 2), num(s.P10, 2), num(s.P50, 2), num(s.P90, 2), num(s.Max, 2)})
	if _, err := fmt.Fprintln(r.w, t.Render()); err != nil {
		return fmt.Errorf("write benchmark: %w", err)
	}
	if len(s.Histogram) == 0 {
		return nil
	}

	peak := 0
	for _, b := range s.Histogram {
		peak = max(peak, b.Count)
	}
	h := r.table("Histogram")
	h.AppendHeader(table.Row{"Range (s)", "Count", ""})
	for _, b := range s.Histogram {
		h.AppendRow(table.Row{b.Label, b.Count, bar(b.Count, peak)})
	}
	if _, err := fmt.Fprintln(r.w, h.Render()); err != nil {
		return fmt.Errorf("write histogram: %w", err)
	}
	return nil
}

func (r *Renderer) table(title string) table.Writer {
	t := table.NewWriter()
	t.SetStyle(r.style)
	t.SetTitle(title)
	return t
}

func (r *Renderer) category(c *string) string {
	if c == nil {
		return missing
	}
	if !r.color {
		return *c
	}
	switch scoring.Category(*c) {
	case scoring.CategoryElite:
		return text.FgGreen.Sprint(*c)
	case scoring.CategoryStrong:
		return text.FgCyan.Sprint(*c)
	case scoring.CategoryModerate:
		return text.FgYellow.Sprint(*c)
	default:
		return text.FgRed.Sprint(*c)
	}
}

func num(v *float64, prec int) string {
	if v == nil {
		return missing
	}
	return strconv.FormatFloat(*v, 'f', prec, 64)
}

func bullets(items []string) string {
	if len(items) == 0 {
		return missing
	}
	return "• " + strings.Join(items, "\n• ")
}

func bar(count, peak int) string {
	if peak == 0 || count == 0 {
		return ""
	}
	n := count * histogramWidth / peak
	return strings.Repeat(histogramGlyph, max(1, n))
}
