package interfaces

//go:generate moq -out ../mock/infra.go -pkg mock . GitHubClient HTTPClient

import (
	"context"
	"net/http"

	"github.com/google/go-github/v53/github"
)

// GitHubClient is the read-mostly REST surface the pipeline needs: repository
// inventory, open code-scanning alerts, and workflow dispatch.
type GitHubClient interface {
	ListOrgRepos(ctx context.Context, org string) ([]*github.Repository, error)
	ListCodeScanningAlerts(ctx context.Context, owner, repo string) ([]*github.Alert, error)
	DispatchWorkflow(ctx context.Context, owner, repo, workflowFile, ref string) error
}

// HTTPClient abstracts http.Client for callback delivery and tests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}
