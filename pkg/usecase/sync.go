package usecase

import (
	"context"
	"log/slog"

	"github.com/google/go-github/v53/github"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/argus/pkg/domain/model"
	"github.com/secmon-lab/argus/pkg/domain/types"
	"github.com/secmon-lab/argus/pkg/normalizer"
	"github.com/secmon-lab/argus/pkg/utils/logging"
)

// SyncRepositories polls the organization's repositories and their open
// code-scanning alerts and feeds the results through the event pipeline.
// A repository whose alert listing fails is logged and skipped; the sync
// continues with the rest.
func (x *UseCase) SyncRepositories(ctx context.Context) error {
	if x.org == "" {
		return goerr.Wrap(types.ErrInvalidOption, "organization is not configured")
	}

	repos, err := x.clients.GitHub().ListOrgRepos(ctx, string(x.org))
	if err != nil {
		return err
	}

	logger := logging.From(ctx)
	synced := 0
	for _, repo := range repos {
		findings, err := x.collectFindings(ctx, repo)
		if err != nil {
			logger.Warn("failed to collect findings, skipping repository",
				slog.String("repo", repo.GetFullName()),
				slog.Any("error", err),
			)
			continue
		}

		ev, err := normalizer.FromRepository(repo, findings)
		if err != nil {
			logger.Warn("failed to normalize repository, skipping",
				slog.String("repo", repo.GetFullName()),
				slog.Any("error", err),
			)
			continue
		}

		x.engine.Enqueue(ctx, ev)
		synced++
	}

	x.engine.Flush(ctx)
	logger.Info("repository sync finished",
		slog.String("org", string(x.org)),
		slog.Int("total", len(repos)),
		slog.Int("synced", synced),
	)

	return nil
}

func (x *UseCase) collectFindings(ctx context.Context, repo *github.Repository) (*model.SecurityFindings, error) {
	alerts, err := x.clients.GitHub().ListCodeScanningAlerts(ctx, repo.GetOwner().GetLogin(), repo.GetName())
	if err != nil {
		return nil, err
	}

	findings := &model.SecurityFindings{}
	for _, alert := range alerts {
		bucket := alert.Rule.GetSecuritySeverityLevel()
		if bucket == "" {
			bucket = alert.Rule.GetSeverity()
		}
		findings.Add(types.ParseSeverity(bucket), 1)
	}

	return findings, nil
}
