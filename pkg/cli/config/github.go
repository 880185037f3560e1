package config

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/argus/pkg/domain/types"
	"github.com/secmon-lab/argus/pkg/infra/ghclient"
	"github.com/urfave/cli/v3"
)

// GitHub holds credentials for the GitHub API. Either a personal access
// token or an App installation (ID + install ID + private key) must be set.
type GitHub struct {
	token         types.GitHubToken `masq:"secret"`
	appID         types.GitHubAppID
	appInstallID  types.GitHubAppInstallID
	appPrivateKey types.GitHubAppPrivateKey `masq:"secret"`
	webhookSecret types.WebhookSecret       `masq:"secret"`
	org           types.OrgName
	workflowFile  string
	workflowRef   string
}

func (x *GitHub) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "github-token",
			Usage:       "GitHub personal access token",
			Category:    "GitHub",
			Destination: (*string)(&x.token),
			Sources:     cli.EnvVars("ARGUS_GITHUB_TOKEN"),
		},
		&cli.Int64Flag{
			Name:        "github-app-id",
			Usage:       "GitHub App ID",
			Category:    "GitHub",
			Destination: (*int64)(&x.appID),
			Sources:     cli.EnvVars("ARGUS_GITHUB_APP_ID"),
		},
		&cli.Int64Flag{
			Name:        "github-app-install-id",
			Usage:       "GitHub App installation ID",
			Category:    "GitHub",
			Destination: (*int64)(&x.appInstallID),
			Sources:     cli.EnvVars("ARGUS_GITHUB_APP_INSTALL_ID"),
		},
		&cli.StringFlag{
			Name:        "github-app-private-key",
			Usage:       "GitHub App private key (PEM)",
			Category:    "GitHub",
			Destination: (*string)(&x.appPrivateKey),
			Sources:     cli.EnvVars("ARGUS_GITHUB_APP_PRIVATE_KEY"),
		},
		&cli.StringFlag{
			Name:        "webhook-secret",
			Usage:       "Webhook HMAC secret",
			Category:    "GitHub",
			Destination: (*string)(&x.webhookSecret),
			Sources:     cli.EnvVars("ARGUS_WEBHOOK_SECRET"),
		},
		&cli.StringFlag{
			Name:        "github-org",
			Usage:       "GitHub organization to sync",
			Category:    "GitHub",
			Destination: (*string)(&x.org),
			Sources:     cli.EnvVars("ARGUS_GITHUB_ORG"),
		},
		&cli.StringFlag{
			Name:        "scan-workflow",
			Usage:       "Workflow file dispatched for on-demand scans",
			Category:    "GitHub",
			Value:       "security-scan.yml",
			Destination: &x.workflowFile,
			Sources:     cli.EnvVars("ARGUS_SCAN_WORKFLOW"),
		},
		&cli.StringFlag{
			Name:        "scan-workflow-ref",
			Usage:       "Git ref the scan workflow runs on",
			Category:    "GitHub",
			Value:       "main",
			Destination: &x.workflowRef,
			Sources:     cli.EnvVars("ARGUS_SCAN_WORKFLOW_REF"),
		},
	}
}

func (x *GitHub) NewClient(ctx context.Context) (*ghclient.Client, error) {
	switch {
	case x.token != "":
		return ghclient.New(ctx, x.token)
	case x.appID != 0:
		return ghclient.NewWithApp(x.appID, x.appInstallID, x.appPrivateKey)
	default:
		return nil, goerr.Wrap(types.ErrInvalidOption, "either github-token or github-app-id is required")
	}
}

func (x *GitHub) Secret() types.WebhookSecret { return x.webhookSecret }
func (x *GitHub) Org() types.OrgName          { return x.org }
func (x *GitHub) Workflow() (string, string)  { return x.workflowFile, x.workflowRef }

func (x GitHub) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("token.len", len(x.token)),
		slog.Int64("appID", int64(x.appID)),
		slog.Int64("appInstallID", int64(x.appInstallID)),
		slog.Int("privateKey.len", len(x.appPrivateKey)),
		slog.Int("webhookSecret.len", len(x.webhookSecret)),
		slog.Any("org", x.org),
		slog.Any("workflowFile", x.workflowFile),
		slog.Any("workflowRef", x.workflowRef),
	)
}
