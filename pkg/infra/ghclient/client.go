package ghclient

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/bradleyfalzon/ghinstallation/v2"
	"github.com/google/go-github/v53/github"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/argus/pkg/domain/interfaces"
	"github.com/secmon-lab/argus/pkg/domain/types"
	"github.com/secmon-lab/argus/pkg/utils/logging"
)

// Client is the read-mostly GitHub REST wrapper behind
// interfaces.GitHubClient. Auth is either a personal/installation token or a
// GitHub App private key.
type Client struct {
	gh *github.Client
}

var _ interfaces.GitHubClient = (*Client)(nil)

func New(ctx context.Context, token types.GitHubToken) (*Client, error) {
	if token == "" {
		return nil, goerr.Wrap(types.ErrInvalidOption, "GitHub token is empty")
	}

	return &Client{
		gh: github.NewTokenClient(ctx, string(token)),
	}, nil
}

func NewWithApp(appID types.GitHubAppID, installID types.GitHubAppInstallID, pem types.GitHubAppPrivateKey) (*Client, error) {
	if appID == 0 {
		return nil, goerr.Wrap(types.ErrInvalidOption, "appID is empty")
	}
	if installID == 0 {
		return nil, goerr.Wrap(types.ErrInvalidOption, "installID is empty")
	}
	if pem == "" {
		return nil, goerr.Wrap(types.ErrInvalidOption, "pem is empty")
	}

	itr, err := ghinstallation.New(http.DefaultTransport, int64(appID), int64(installID), []byte(pem))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create installation transport")
	}

	return &Client{
		gh: github.NewClient(&http.Client{Transport: itr}),
	}, nil
}

func (x *Client) ListOrgRepos(ctx context.Context, org string) ([]*github.Repository, error) {
	var allRepos []*github.Repository
	opts := &github.RepositoryListByOrgOptions{
		ListOptions: github.ListOptions{PerPage: 100},
	}

	for {
		repos, resp, err := x.gh.Repositories.ListByOrg(ctx, org, opts)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to list org repositories", goerr.V("org", org))
		}
		allRepos = append(allRepos, repos...)

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	logging.From(ctx).Debug("Listed org repositories",
		slog.String("org", org),
		slog.Int("count", len(allRepos)),
	)

	return allRepos, nil
}

func (x *Client) ListCodeScanningAlerts(ctx context.Context, owner, repo string) ([]*github.Alert, error) {
	var allAlerts []*github.Alert
	opts := &github.AlertListOptions{
		State:       "open",
		ListOptions: github.ListOptions{PerPage: 100},
	}

	for {
		alerts, resp, err := x.gh.CodeScanning.ListAlertsForRepo(ctx, owner, repo, opts)
		if err != nil {
			// repositories without code scanning respond 404; treat as empty
			if resp != nil && resp.StatusCode == http.StatusNotFound {
				return nil, nil
			}
			return nil, goerr.Wrap(err, "failed to list code scanning alerts",
				goerr.V("owner", owner),
				goerr.V("repo", repo),
			)
		}
		allAlerts = append(allAlerts, alerts...)

		if resp.NextPage == 0 {
			break
		}
		opts.ListOptions.Page = resp.NextPage
	}

	return allAlerts, nil
}

func (x *Client) DispatchWorkflow(ctx context.Context, owner, repo, workflowFile, ref string) error {
	logging.From(ctx).Info("Dispatching workflow",
		slog.String("owner", owner),
		slog.String("repo", repo),
		slog.String("workflow", workflowFile),
		slog.String("ref", ref),
	)

	_, err := x.gh.Actions.CreateWorkflowDispatchEventByFileName(ctx, owner, repo, workflowFile,
		github.CreateWorkflowDispatchEventRequest{Ref: ref})
	if err != nil {
		return goerr.Wrap(err, "failed to dispatch workflow",
			goerr.V("owner", owner),
			goerr.V("repo", repo),
			goerr.V("workflow", workflowFile),
		)
	}

	return nil
}
