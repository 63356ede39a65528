package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/okian/clubperf/internal/domain/benchmark"
	"github.com/okian/clubperf/internal/domain/leaderboard"
	"github.com/okian/clubperf/internal/domain/model"
	"github.com/okian/clubperf/internal/render"
)

var (
	benchInput   string
	benchStation string
	benchBins    int
	benchSex     string
	benchMinAge  float64
	benchMaxAge  float64
	benchFormat  string
	benchTop     int
)

// benchmarkCmd summarizes a cohort's times on one station.
var benchmarkCmd = &cobra.Command{
	Use:   "benchmark",
	Short: "Summarize a cohort's times on one station.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if message := validateBenchmarkFlags(); message != "" {
			return fmt.Errorf("%s", message)
		}

		samples, err := readStationSamples(cmd)
		if err != nil {
			return err
		}

		summary := benchmark.Summarize(benchStation, samples, benchmark.WithBins(benchBins))
		if benchFormat == formatTable {
			return render.New(cmd.OutOrStdout()).Benchmark(summary)
		}
		return writeJSON(cmd.OutOrStdout(), summary)
	},
}

// leaderboardCmd ranks each athlete's best time on one station.
var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Rank athletes by their best time on one station.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if message := validateLeaderboardFlags(); message != "" {
			return fmt.Errorf("%s", message)
		}

		samples, err := readStationSamples(cmd)
		if err != nil {
			return err
		}

		board := leaderboard.Build(samples,
			leaderboard.WithStation(benchStation),
			leaderboard.WithTop(benchTop),
		)
		if benchFormat == formatTable {
			return render.New(cmd.OutOrStdout()).Leaderboard(board)
		}
		return writeJSON(cmd.OutOrStdout(), board)
	},
}

// readStationSamples loads the input file and applies the cohort flags.
// Samples recorded without a station count as the selected one.
func readStationSamples(cmd *cobra.Command) ([]model.TimingSample, error) {
	samples, err := readSamples(cmd, benchInput)
	if err != nil {
		return nil, err
	}
	for i := range samples {
		if samples[i].StationID == "" {
			samples[i].StationID = benchStation
		}
	}

	cohort := benchmark.Cohort{Sex: benchSex}
	if cmd.Flags().Changed("min-age") {
		cohort.MinAge = &benchMinAge
	}
	if cmd.Flags().Changed("max-age") {
		cohort.MaxAge = &benchMaxAge
	}
	if err := cohort.Validate(); err != nil {
		return nil, err
	}
	return cohort.Filter(samples), nil
}

func init() {
	for _, c := range []*cobra.Command{benchmarkCmd, leaderboardCmd} {
		rootCmd.AddCommand(c)

		c.Flags().StringVarP(&benchInput, "input", "i", stdioPath,
			`Sample file, "-" for stdin.`)
		c.Flags().StringVarP(&benchStation, "station", "s", model.COD505StationID,
			"Station id.")
		c.Flags().StringVar(&benchSex, "sex", benchmark.SexAll,
			"Cohort sex: all, M or F.")
		c.Flags().Float64Var(&benchMinAge, "min-age", 0,
			"Minimum age at test, in years.")
		c.Flags().Float64Var(&benchMaxAge, "max-age", 0,
			"Maximum age at test, in years.")
		c.Flags().StringVarP(&benchFormat, "format", "f", formatJSON,
			"Output format: json or table.")
	}

	benchmarkCmd.Flags().IntVar(&benchBins, "bins", benchmark.DefaultBins,
		"Histogram bin count.")
	leaderboardCmd.Flags().IntVarP(&benchTop, "top", "t", leaderboard.DefaultTop,
		"Rows to show.")
}
