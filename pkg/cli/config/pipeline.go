package config

import (
	"log/slog"
	"time"

	"github.com/secmon-lab/argus/pkg/reconciler"
	"github.com/urfave/cli/v3"
)

// Pipeline configures the state reconciliation engine.
type Pipeline struct {
	debounce  time.Duration
	batchSize int
	syncEvery time.Duration
}

func (x *Pipeline) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.DurationFlag{
			Name:        "pipeline-debounce",
			Usage:       "Quiet period before a batch flush",
			Category:    "Pipeline",
			Value:       150 * time.Millisecond,
			Destination: &x.debounce,
			Sources:     cli.EnvVars("ARGUS_PIPELINE_DEBOUNCE"),
		},
		&cli.IntFlag{
			Name:        "pipeline-batch-size",
			Usage:       "Queue length that forces an immediate flush",
			Category:    "Pipeline",
			Value:       10,
			Destination: &x.batchSize,
			Sources:     cli.EnvVars("ARGUS_PIPELINE_BATCH_SIZE"),
		},
		&cli.DurationFlag{
			Name:        "sync-interval",
			Usage:       "Interval of the repository polling loop (0 disables)",
			Category:    "Pipeline",
			Destination: &x.syncEvery,
			Sources:     cli.EnvVars("ARGUS_SYNC_INTERVAL"),
		},
	}
}

func (x *Pipeline) NewEngine() *reconciler.Engine {
	return reconciler.New(
		reconciler.WithDebounce(x.debounce),
		reconciler.WithBatchSize(x.batchSize),
	)
}

func (x *Pipeline) SyncInterval() time.Duration {
	return x.syncEvery
}

func (x Pipeline) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Any("debounce", x.debounce),
		slog.Int("batchSize", x.batchSize),
		slog.Any("syncEvery", x.syncEvery),
	)
}
