package cli

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fatih/color"
	"github.com/m-mizutani/gots/slice"
	"github.com/secmon-lab/argus/pkg/cli/config"
	"github.com/secmon-lab/argus/pkg/infra"
	"github.com/secmon-lab/argus/pkg/reconciler"
	"github.com/secmon-lab/argus/pkg/usecase"
	"github.com/secmon-lab/argus/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func syncCommand() *cli.Command {
	var githubCfg config.GitHub

	return &cli.Command{
		Name:  "sync",
		Usage: "Fetch repositories and alerts once and print a summary",
		Flags: slice.Flatten(
			githubCfg.Flags(),
		),
		Action: func(ctx context.Context, c *cli.Command) error {
			logging.Default().Info("starting sync", slog.Any("GitHub", githubCfg))

			ghClient, err := githubCfg.NewClient(ctx)
			if err != nil {
				return err
			}

			// one shot: no debounce, flush happens inside the sync
			engine := reconciler.New(
				reconciler.WithDebounce(time.Hour),
				reconciler.WithBatchSize(1 << 20),
			)
			defer engine.Close()

			uc := usecase.New(infra.New(infra.WithGitHubClient(ghClient)),
				usecase.WithEngine(engine),
				usecase.WithOrg(githubCfg.Org()),
			)

			if err := uc.SyncRepositories(ctx); err != nil {
				return err
			}

			printSummary(engine)
			return nil
		},
	}
}

func printSummary(engine *reconciler.Engine) {
	bold := color.New(color.Bold)
	critical := color.New(color.FgRed, color.Bold)
	high := color.New(color.FgRed)
	medium := color.New(color.FgYellow)

	snapshot := engine.Snapshot()
	bold.Printf("%-48s %9s %6s %8s %5s %5s\n", "REPOSITORY", "CRITICAL", "HIGH", "MEDIUM", "LOW", "TOTAL")
	for _, repo := range snapshot.Repositories {
		fmt.Printf("%-48s ", repo.FullName)
		critical.Printf("%9d ", repo.Findings.Critical)
		high.Printf("%6d ", repo.Findings.High)
		medium.Printf("%8d ", repo.Findings.Medium)
		fmt.Printf("%5d %5d\n", repo.Findings.Low, repo.Findings.Total)
	}
	bold.Printf("\n%d repositories\n", len(snapshot.Repositories))
}
