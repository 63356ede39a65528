package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	service "github.com/okian/clubperf/internal/app"
	"github.com/okian/clubperf/internal/domain/model"
	"github.com/okian/clubperf/internal/domain/report"
	"github.com/okian/clubperf/internal/render"
)

var (
	buildInput      string
	buildLanguage   string
	buildYThreshold float64
	buildFormat     string
	buildColor      bool
)

// buildCmd turns a sample file into a coaching report.
var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build a 5-0-5 coaching report from a JSON sample file.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if message := validateBuildFlags(); message != "" {
			return fmt.Errorf("%s", message)
		}

		samples, err := readSamples(cmd, buildInput)
		if err != nil {
			return err
		}

		lang, _ := model.ParseLanguage(buildLanguage)
		svc := service.New(service.WithDefaultLanguage(lang))
		rep, err := svc.BuildReport(cmd.Context(), service.ReportRequest{
			Samples:    samples,
			Language:   lang,
			YThreshold: &buildYThreshold,
		})
		if err != nil {
			return err
		}

		if buildFormat == formatTable {
			return render.New(cmd.OutOrStdout(), render.WithColor(buildColor)).Report(rep)
		}
		return writeJSON(cmd.OutOrStdout(), rep)
	},
}

func init() {
	rootCmd.AddCommand(buildCmd)

	buildCmd.Flags().StringVarP(&buildInput, "input", "i", stdioPath,
		`Sample file, "-" for stdin.`)
	buildCmd.Flags().StringVarP(&buildLanguage, "lang", "l", string(model.DefaultLanguage),
		"Report language: en or sv.")
	buildCmd.Flags().Float64VarP(&buildYThreshold, "y-threshold", "y", report.DefaultYThresholdPct,
		"Team asymmetry threshold in percent.")
	buildCmd.Flags().StringVarP(&buildFormat, "format", "f", formatJSON,
		"Output format: json or table.")
	buildCmd.Flags().BoolVar(&buildColor, "color", false,
		"Colorize categories in table output.")
}
