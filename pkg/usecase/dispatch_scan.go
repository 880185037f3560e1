package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/argus/pkg/domain/model"
	"github.com/secmon-lab/argus/pkg/domain/types"
	"github.com/secmon-lab/argus/pkg/normalizer"
)

// DispatchScan triggers the security-scan workflow for one repository and
// records the new scan request through the event pipeline.
func (x *UseCase) DispatchScan(ctx context.Context, repoFullName types.RepoFullName) (*model.ScanRequest, error) {
	owner, name, ok := strings.Cut(string(repoFullName), "/")
	if !ok || owner == "" || name == "" {
		return nil, goerr.Wrap(types.ErrValidationFailed, "repository full name must be owner/name",
			goerr.V("repo", repoFullName),
		)
	}

	if err := x.clients.GitHub().DispatchWorkflow(ctx, owner, name, x.workflowFile, x.workflowRef); err != nil {
		return nil, err
	}

	req := &model.ScanRequest{
		ID:           types.NewScanID(),
		RepoFullName: repoFullName,
		DispatchedAt: time.Now(),
		Status:       types.ScanRequestDispatched,
	}
	x.enqueueAndRoute(ctx, normalizer.NewScanDispatched(req))

	return req, nil
}
