package cli

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"

	"github.com/okian/clubperf/internal/adapters/wire"
	"github.com/okian/clubperf/internal/client"
	"github.com/okian/clubperf/internal/domain/leaderboard"
	"github.com/okian/clubperf/internal/domain/model"
	"github.com/okian/clubperf/internal/samplegen"
	"github.com/okian/clubperf/pkg/logger"
)

const verifyPollInterval = 100 * time.Millisecond

var (
	submitServer    string
	submitClub      string
	submitInput     string
	submitAthletes  int
	submitSeed      uint64
	submitBatchSize int
	submitWorkers   int
	submitTimeout   time.Duration
	submitVerify    bool
	submitWait      time.Duration
)

// submitSummary is the JSON printed after a submit run.
type submitSummary struct {
	Batches       int      `json:"batches"`
	Samples       int      `json:"samples"`
	Accepted      int64    `json:"accepted"`
	Duplicates    int64    `json:"duplicates"`
	Rejected      int64    `json:"rejected"`
	FailedBatches int64    `json:"failed_batches"`
	DurationMs    int64    `json:"duration_ms"`
	Verified      *bool    `json:"verified,omitempty"`
	ServerBest    *float64 `json:"server_best,omitempty"`
	SubmittedBest *float64 `json:"submitted_best,omitempty"`
}

// submitCmd sends results to a running server.
var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Submit test results to a running clubperf server.",
	Long: `Submit test results to a running clubperf server.
Results come from --input, or from a generated session when no input is
given. Batches are posted concurrently to POST /samples. With --verify the
server's 5-0-5 leaderboard is polled until it reflects the submitted best time.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if message := validateSubmitFlags(); message != "" {
			return fmt.Errorf("%s", message)
		}
		ctx := cmd.Context()
		log := logger.Get().Named("submit")

		c := client.New(submitServer, client.WithTimeout(submitTimeout))
		if err := c.Health(ctx); err != nil {
			return fmt.Errorf("service health check failed: %w", err)
		}

		samples, err := submitSamples(cmd)
		if err != nil {
			return err
		}

		start := time.Now()
		summary := submitBatches(ctx, c, samples, log)
		summary.DurationMs = time.Since(start).Milliseconds()

		if submitVerify {
			verifyLeaderboard(ctx, c, samples, &summary, log)
		}
		if err := writeJSON(cmd.OutOrStdout(), summary); err != nil {
			return err
		}

		if summary.FailedBatches > 0 {
			return fmt.Errorf("%d of %d batches failed", summary.FailedBatches, summary.Batches)
		}
		if summary.Verified != nil && !*summary.Verified {
			return errors.New("leaderboard verification failed")
		}
		return nil
	},
}

// submitSamples loads the input file or generates a session.
func submitSamples(cmd *cobra.Command) ([]wire.Sample, error) {
	if submitInput != "" {
		return readWireSamples(cmd, submitInput)
	}

	opts := []samplegen.Option{samplegen.WithAthletes(submitAthletes)}
	if cmd.Flags().Changed("seed") {
		opts = append(opts, samplegen.WithSeed(submitSeed))
	}
	generated, err := samplegen.New(opts...).Generate(cmd.Context())
	if err != nil {
		return nil, err
	}
	out := make([]wire.Sample, 0, len(generated))
	for _, s := range generated {
		out = append(out, wire.FromModel(submitClub, s))
	}
	return out, nil
}

// submitBatches posts the samples in batches with a fixed number of workers.
func submitBatches(ctx context.Context, c *client.Client, samples []wire.Sample, log logger.Logger) submitSummary {
	batches := make(chan []wire.Sample, submitWorkers*2)
	var (
		wg                                   sync.WaitGroup
		accepted, duplicates, rejected, fail atomic.Int64
	)

	for i := 0; i < submitWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for batch := range batches {
				res, err := c.SubmitSamples(ctx, submitClub, batch)
				if err != nil {
					fail.Add(1)
					log.Warn(ctx, "batch failed", logger.Int("size", len(batch)), logger.Error(err))
					continue
				}
				accepted.Add(int64(res.Accepted))
				duplicates.Add(int64(res.Duplicates))
				rejected.Add(int64(len(res.Rejected)))
			}
		}()
	}

	n := 0
	func() {
		defer close(batches)
		for lo := 0; lo < len(samples); lo += submitBatchSize {
			hi := min(lo+submitBatchSize, len(samples))
			select {
			case <-ctx.Done():
				return
			case batches <- samples[lo:hi]:
				n++
			}
		}
	}()
	wg.Wait()

	log.Info(ctx, "submission completed",
		logger.Int("batches", n),
		logger.Int64("accepted", accepted.Load()),
		logger.Int64("duplicates", duplicates.Load()),
		logger.Int64("failed_batches", fail.Load()),
	)
	return submitSummary{
		Batches:       n,
		Samples:       len(samples),
		Accepted:      accepted.Load(),
		Duplicates:    duplicates.Load(),
		Rejected:      rejected.Load(),
		FailedBatches: fail.Load(),
	}
}

// verifyLeaderboard waits for the server's fastest 5-0-5 time to be at least
// as fast as the best submitted one. Earlier results of the club may be faster.
func verifyLeaderboard(ctx context.Context, c *client.Client, samples []wire.Sample, summary *submitSummary, log logger.Logger) {
	models, err := wire.ToModels(samples)
	if err != nil {
		log.Warn(ctx, "cannot verify malformed samples", logger.Error(err))
		return
	}
	for i := range models {
		if models[i].StationID == "" {
			models[i].StationID = model.COD505StationID
		}
	}
	local := leaderboard.Build(models, leaderboard.WithStation(model.COD505StationID), leaderboard.WithTop(1))
	if len(local) == 0 || len(local[0].Rows) == 0 {
		return
	}
	best := local[0].Rows[0].TimeSeconds
	summary.SubmittedBest = &best

	verified := false
	summary.Verified = &verified
	deadline := time.Now().Add(submitWait)
	for {
		board, err := c.Leaderboard(ctx, submitClub, model.COD505StationID, 1)
		if err == nil && len(board) > 0 && len(board[0].Rows) > 0 {
			top := board[0].Rows[0].TimeSeconds
			summary.ServerBest = &top
			if top <= best {
				verified = true
				return
			}
		}
		if time.Now().After(deadline) || ctx.Err() != nil {
			log.Warn(ctx, "leaderboard does not reflect submitted results",
				logger.Float64("submitted_best", best))
			return
		}
		time.Sleep(verifyPollInterval)
	}
}

func init() {
	rootCmd.AddCommand(submitCmd)

	submitCmd.Flags().StringVar(&submitServer, "server", "http://localhost:9080",
		"Base URL of the clubperf server.")
	submitCmd.Flags().StringVar(&submitClub, "club", "demo-club",
		"Club the results are recorded for.")
	submitCmd.Flags().StringVarP(&submitInput, "input", "i", "",
		`Sample file, "-" for stdin; empty generates a session.`)
	submitCmd.Flags().IntVarP(&submitAthletes, "athletes", "n", samplegen.DefaultAthletes,
		"Athletes in a generated session.")
	submitCmd.Flags().Uint64Var(&submitSeed, "seed", 0,
		"Random seed for a generated session.")
	submitCmd.Flags().IntVar(&submitBatchSize, "batch-size", 50,
		"Samples per request.")
	submitCmd.Flags().IntVar(&submitWorkers, "workers", 4,
		"Concurrent requests.")
	submitCmd.Flags().DurationVar(&submitTimeout, "timeout", client.DefaultTimeout,
		"Per-request timeout.")
	submitCmd.Flags().BoolVar(&submitVerify, "verify", false,
		"Check the leaderboard after submitting.")
	submitCmd.Flags().DurationVar(&submitWait, "wait", 5*time.Second,
		"How long --verify waits for the results to be stored.")
}
