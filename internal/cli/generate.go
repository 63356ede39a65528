package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/okian/clubperf/internal/adapters/wire"
	"github.com/okian/clubperf/internal/samplegen"
)

var (
	generateAthletes    int
	generateAttempts    int
	generateSeed        uint64
	generateClub        string
	generateMissingRate float64
	generateOutput      string
)

// generateCmd writes a synthetic 5-0-5 session as a JSON sample file.
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a synthetic 5-0-5 session as JSON samples.",
	Long: `Generate a synthetic 5-0-5 session as JSON samples.
The output can be piped into build, or used as the server's seed file.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if message := validateGenerateFlags(); message != "" {
			return fmt.Errorf("%s", message)
		}

		opts := []samplegen.Option{
			samplegen.WithAthletes(generateAthletes),
			samplegen.WithAttemptsPerSide(generateAttempts),
			samplegen.WithMissingRate(generateMissingRate),
		}
		if cmd.Flags().Changed("seed") {
			opts = append(opts, samplegen.WithSeed(generateSeed))
		}
		samples, err := samplegen.New(opts...).Generate(cmd.Context())
		if err != nil {
			return err
		}

		out := make([]wire.Sample, 0, len(samples))
		for _, s := range samples {
			out = append(out, wire.FromModel(generateClub, s))
		}

		if generateOutput == stdioPath {
			return writeJSON(cmd.OutOrStdout(), out)
		}
		f, err := os.Create(generateOutput)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		return writeJSON(f, out)
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().IntVarP(&generateAthletes, "athletes", "n", samplegen.DefaultAthletes,
		"Number of athletes.")
	generateCmd.Flags().IntVar(&generateAttempts, "attempts", samplegen.DefaultAttemptsPerSide,
		"Attempts per athlete and side.")
	generateCmd.Flags().Uint64Var(&generateSeed, "seed", 0,
		"Random seed for a reproducible session.")
	generateCmd.Flags().StringVar(&generateClub, "club", "demo-club",
		"Club id written on every sample.")
	generateCmd.Flags().Float64Var(&generateMissingRate, "missing-rate", 0,
		"Share of attempts recorded without a time (0-1).")
	generateCmd.Flags().StringVarP(&generateOutput, "output", "o", stdioPath,
		`Output file, "-" for stdout.`)
}
