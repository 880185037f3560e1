package usecase_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/go-github/v53/github"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/argus/pkg/domain/mock"
	"github.com/secmon-lab/argus/pkg/domain/model"
	"github.com/secmon-lab/argus/pkg/domain/types"
	"github.com/secmon-lab/argus/pkg/infra"
	"github.com/secmon-lab/argus/pkg/notify"
	"github.com/secmon-lab/argus/pkg/reconciler"
	"github.com/secmon-lab/argus/pkg/usecase"
)

func newTestEngine() *reconciler.Engine {
	return reconciler.New(reconciler.WithDebounce(time.Hour), reconciler.WithBatchSize(1000))
}

func webhookPayload(eventType string) *model.WebhookPayload {
	return &model.WebhookPayload{
		EventType:  eventType,
		DeliveryID: "d-1",
		Repository: &model.WebhookRepository{ID: 1, FullName: "org/repo"},
		Sender:     &model.WebhookSender{Login: "alice"},
	}
}

func TestHandleGitHubEvent(t *testing.T) {
	ctx := context.Background()

	t.Run("workflow_run payload lands on the engine", func(t *testing.T) {
		engine := newTestEngine()
		defer engine.Close()
		uc := usecase.New(infra.New(), usecase.WithEngine(engine))

		// the repository must be known before run conclusions apply
		engine.Enqueue(ctx, &model.NormalizedEvent{
			ID:        types.NewEventID(),
			Type:      types.EventRepositoryUpdate,
			Source:    types.SourcePolling,
			Timestamp: time.Now(),
			RepositoryUpdate: &model.RepositoryUpdate{
				RepoID:   1,
				FullName: "org/repo",
			},
		})
		engine.Flush(ctx)

		runID := int64(42)
		payload := webhookPayload(model.WebhookEventWorkflowRun)
		payload.Action = "completed"
		payload.WorkflowRun = &model.WebhookWorkflowRun{
			ID:         &runID,
			Status:     "completed",
			Conclusion: "success",
			UpdatedAt:  time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC),
		}

		gt.NoError(t, uc.HandleGitHubEvent(ctx, payload))
		gt.V(t, engine.QueueLen()).Equal(1)

		engine.Flush(ctx)
		rec, ok := engine.Repository(1)
		gt.True(t, ok)
		gt.V(t, rec.LastScanStatus).Equal(types.ScanStatusSuccess)
	})

	t.Run("unsupported event type returns ErrUnknownEvent", func(t *testing.T) {
		engine := newTestEngine()
		defer engine.Close()
		uc := usecase.New(infra.New(), usecase.WithEngine(engine))

		err := uc.HandleGitHubEvent(ctx, webhookPayload("release"))
		gt.True(t, errors.Is(err, types.ErrUnknownEvent))
		gt.V(t, engine.QueueLen()).Equal(0)
	})

	t.Run("critical alert reaches the notification feed", func(t *testing.T) {
		engine := newTestEngine()
		defer engine.Close()

		feed := notify.NewFeed(10)
		dispatcher := notify.NewDispatcher()
		gt.NoError(t, dispatcher.Add(feed, "alerts"))

		uc := usecase.New(infra.New(),
			usecase.WithEngine(engine),
			usecase.WithDispatcher(dispatcher),
			usecase.WithFeed(feed),
		)

		alertNumber := int64(7)
		payload := webhookPayload(model.WebhookEventCodeScanningAlert)
		payload.Action = "created"
		payload.Alert = &model.WebhookAlert{
			Number: &alertNumber,
			Rule:   &model.WebhookAlertRule{SecuritySeverityLevel: "critical"},
		}

		gt.NoError(t, uc.HandleGitHubEvent(ctx, payload))

		deadline := time.Now().Add(2 * time.Second)
		for len(uc.NotificationFeed(0)) == 0 && time.Now().Before(deadline) {
			time.Sleep(5 * time.Millisecond)
		}

		entries := uc.NotificationFeed(0)
		gt.A(t, entries).Length(1)
		gt.V(t, entries[0].Payload.Priority).Equal(types.PriorityUrgent)
	})
}

func TestDispatchScan(t *testing.T) {
	ctx := context.Background()

	t.Run("dispatches the workflow and records the request", func(t *testing.T) {
		engine := newTestEngine()
		defer engine.Close()

		mockGH := &mock.GitHubClientMock{
			DispatchWorkflowFunc: func(ctx context.Context, owner, repo, workflowFile, ref string) error {
				return nil
			},
		}
		uc := usecase.New(infra.New(infra.WithGitHubClient(mockGH)),
			usecase.WithEngine(engine),
			usecase.WithWorkflow("scan.yml", "develop"),
		)

		req := gt.R1(uc.DispatchScan(ctx, "org/repo")).NoError(t)
		gt.V(t, req.Status).Equal(types.ScanRequestDispatched)

		calls := mockGH.DispatchWorkflowCalls()
		gt.A(t, calls).Length(1)
		gt.V(t, calls[0].Owner).Equal("org")
		gt.V(t, calls[0].Repo).Equal("repo")
		gt.V(t, calls[0].WorkflowFile).Equal("scan.yml")
		gt.V(t, calls[0].Ref).Equal("develop")

		engine.Flush(ctx)
		stored, ok := engine.ScanRequest(req.ID)
		gt.True(t, ok)
		gt.V(t, stored.RepoFullName).Equal(types.RepoFullName("org/repo"))
	})

	t.Run("malformed repository name never reaches GitHub", func(t *testing.T) {
		mockGH := &mock.GitHubClientMock{}
		uc := usecase.New(infra.New(infra.WithGitHubClient(mockGH)))

		_, err := uc.DispatchScan(ctx, "not-a-full-name")
		gt.Error(t, err)
		gt.A(t, mockGH.DispatchWorkflowCalls()).Length(0)
	})

	t.Run("workflow dispatch failure is returned, nothing recorded", func(t *testing.T) {
		engine := newTestEngine()
		defer engine.Close()

		mockGH := &mock.GitHubClientMock{
			DispatchWorkflowFunc: func(ctx context.Context, owner, repo, workflowFile, ref string) error {
				return errors.New("api exploded")
			},
		}
		uc := usecase.New(infra.New(infra.WithGitHubClient(mockGH)), usecase.WithEngine(engine))

		_, err := uc.DispatchScan(ctx, "org/repo")
		gt.Error(t, err)
		gt.V(t, engine.QueueLen()).Equal(0)
	})
}

func TestSyncRepositories(t *testing.T) {
	ctx := context.Background()

	t.Run("repos and alerts become state", func(t *testing.T) {
		engine := newTestEngine()
		defer engine.Close()

		mockGH := &mock.GitHubClientMock{
			ListOrgReposFunc: func(ctx context.Context, org string) ([]*github.Repository, error) {
				return []*github.Repository{
					{
						ID:       github.Int64(1),
						FullName: github.String("org/app"),
						Name:     github.String("app"),
						Owner:    &github.User{Login: github.String("org")},
					},
					{
						ID:       github.Int64(2),
						FullName: github.String("org/lib"),
						Name:     github.String("lib"),
						Owner:    &github.User{Login: github.String("org")},
					},
				}, nil
			},
			ListCodeScanningAlertsFunc: func(ctx context.Context, owner, repo string) ([]*github.Alert, error) {
				if repo == "lib" {
					return nil, errors.New("code scanning unavailable")
				}
				return []*github.Alert{
					{Rule: &github.Rule{SecuritySeverityLevel: github.String("high")}},
					{Rule: &github.Rule{Severity: github.String("warning")}},
				}, nil
			},
		}

		uc := usecase.New(infra.New(infra.WithGitHubClient(mockGH)),
			usecase.WithEngine(engine),
			usecase.WithOrg("org"),
		)

		gt.NoError(t, uc.SyncRepositories(ctx))

		// sync flushes; the failing repository is skipped
		rec, ok := engine.Repository(1)
		gt.True(t, ok)
		gt.V(t, rec.Findings.High).Equal(1)
		gt.V(t, rec.Findings.Medium).Equal(1)
		gt.V(t, rec.Findings.Total).Equal(2)

		_, ok = engine.Repository(2)
		gt.V(t, ok).Equal(false)
	})

	t.Run("missing org configuration fails fast", func(t *testing.T) {
		uc := usecase.New(infra.New())
		gt.Error(t, uc.SyncRepositories(ctx))
	})
}

func TestConnectionEventSink(t *testing.T) {
	ctx := context.Background()

	engine := newTestEngine()
	defer engine.Close()
	uc := usecase.New(infra.New(), usecase.WithEngine(engine))

	ev := &model.NormalizedEvent{
		ID:        types.NewEventID(),
		Type:      types.EventSecurityAlert,
		Source:    types.SourceWebhook,
		Timestamp: time.Now().UTC(),
		SecurityAlert: &model.SecurityAlert{
			RepoFullName: "org/repo",
			Action:       types.AlertCreated,
			Severity:     types.SeverityLow,
		},
	}
	raw := gt.R1(json.Marshal(ev)).NoError(t)

	sink := uc.ConnectionEventSink()
	sink(ctx, &model.Frame{Kind: model.FrameEvent, Event: json.RawMessage(raw)})
	gt.V(t, engine.QueueLen()).Equal(1)

	// malformed frames are dropped without effect
	sink(ctx, &model.Frame{Kind: model.FrameEvent, Event: json.RawMessage(`{"type":"security_alert"}`)})
	gt.V(t, engine.QueueLen()).Equal(1)
}
