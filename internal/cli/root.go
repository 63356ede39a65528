// Package cli contains the coachreport command-line interface, powered by
// the cobra library. It defines the root command, the subcommands and their
// flags.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/okian/clubperf/internal/adapters/wire"
	"github.com/okian/clubperf/internal/domain/model"
	"github.com/okian/clubperf/pkg/logger"
)

// Output formats shared by the reporting subcommands.
const (
	formatJSON  = "json"
	formatTable = "table"
	stdioPath   = "-"
)

var (
	// rootLogLevel and rootLogFormat hold the values of the root command's
	// persistent flags. Logs go to stderr so stdout stays machine-readable.
	rootLogLevel  string
	rootLogFormat string
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "coachreport",
	Short: "Build 5-0-5 change-of-direction coaching reports from test results.",
	Long: `Build 5-0-5 change-of-direction coaching reports from test results.
Samples are read as a JSON array of timing records, the same shape the HTTP
API accepts and the generate subcommand produces.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if message := validateRootFlags(); message != "" {
			return fmt.Errorf("%s", message)
		}
		return logger.Init(
			logger.WithWriter(cmd.ErrOrStderr()),
			logger.WithFormat(rootLogFormat),
			logger.WithLevel(rootLogLevel),
		)
	},
}

// Execute is the primary entry point for the CLI application, called by main.go.
// The context passed to every command is cancelled on SIGINT or SIGTERM.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootLogLevel, "log-level", "warn",
		"Log level: debug, info, warn or error.")

	rootCmd.PersistentFlags().StringVar(&rootLogFormat, "log-format", logger.FormatText,
		"Log format: text or json.")
}

// readSamples decodes a JSON array of wire samples from path, or from the
// command's stdin when path is "-".
func readSamples(cmd *cobra.Command, path string) ([]model.TimingSample, error) {
	in, err := readWireSamples(cmd, path)
	if err != nil {
		return nil, err
	}
	return wire.ToModels(in)
}

func readWireSamples(cmd *cobra.Command, path string) ([]wire.Sample, error) {
	var r io.Reader = cmd.InOrStdin()
	if path != stdioPath {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open samples: %w", err)
		}
		defer f.Close()
		r = f
	}

	var in []wire.Sample
	if err := json.NewDecoder(r).Decode(&in); err != nil {
		return nil, fmt.Errorf("decode samples: %w", err)
	}
	return in, nil
}

// writeJSON encodes v, indented, to w.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}
