package usecase

import (
	"context"
	"log/slog"

	"github.com/secmon-lab/argus/pkg/domain/model"
	"github.com/secmon-lab/argus/pkg/normalizer"
	"github.com/secmon-lab/argus/pkg/utils/logging"
)

// HandleGitHubEvent normalizes a validated webhook payload and enqueues it.
// Unsupported event types return types.ErrUnknownEvent so the boundary can
// acknowledge without processing.
func (x *UseCase) HandleGitHubEvent(ctx context.Context, payload *model.WebhookPayload) error {
	ev, err := normalizer.FromWebhook(payload)
	if err != nil {
		return err
	}

	x.enqueueAndRoute(ctx, ev)
	return nil
}

// ConnectionEventSink returns the listener handed to the relay connection.
// Event frames flow through the normalizer into the same enqueue path as
// webhooks.
func (x *UseCase) ConnectionEventSink() func(ctx context.Context, frame *model.Frame) {
	return func(ctx context.Context, frame *model.Frame) {
		ev, err := normalizer.FromFrame(frame)
		if err != nil {
			logging.From(ctx).Warn("dropping relay frame", slog.Any("error", err))
			return
		}
		x.enqueueAndRoute(ctx, ev)
	}
}

// enqueueAndRoute feeds the engine and, for notification-worthy events,
// dispatches in the background so the caller's ack path stays fast.
func (x *UseCase) enqueueAndRoute(ctx context.Context, ev *model.NormalizedEvent) {
	x.engine.Enqueue(ctx, ev)

	payload := x.router.Route(ev)
	if payload == nil {
		return
	}

	bgCtx := logging.With(
		logging.InheritContextValues(context.Background(), ctx),
		logging.From(ctx),
	)
	go func() {
		results := x.dispatcher.Dispatch(bgCtx, payload)
		for _, result := range results {
			if result != nil && !result.Success {
				logging.From(bgCtx).Warn("notification delivery failed",
					slog.Any("channel", result.Channel),
					slog.String("error", result.Error),
				)
			}
		}
	}()
}
