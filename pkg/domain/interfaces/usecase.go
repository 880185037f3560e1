package interfaces

//go:generate moq -out ../mock/usecase.go -pkg mock . UseCase

import (
	"context"

	"github.com/secmon-lab/argus/pkg/domain/model"
	"github.com/secmon-lab/argus/pkg/domain/types"
	"github.com/secmon-lab/argus/pkg/reconciler"
)

type UseCase interface {
	HandleGitHubEvent(ctx context.Context, payload *model.WebhookPayload) error
	DispatchScan(ctx context.Context, repoFullName types.RepoFullName) (*model.ScanRequest, error)
	SyncRepositories(ctx context.Context) error

	Snapshot() *model.StateSnapshot
	ConnectionState() model.ConnectionState
	NotificationFeed(limit int) []*model.FeedEntry

	Subscribe(fn func(ctx context.Context, diff *model.StateDiff)) *reconciler.Subscription
	Unsubscribe(sub *reconciler.Subscription)
}
