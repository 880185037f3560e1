// Package normalizer translates every upstream event shape into the
// canonical NormalizedEvent envelope, exactly once per event. Webhook
// deliveries, REST polling results, relay frames, and user actions all pass
// through here before reaching the reconciler.
package normalizer

import (
	"encoding/json"
	"time"

	"github.com/google/go-github/v53/github"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/argus/pkg/domain/model"
	"github.com/secmon-lab/argus/pkg/domain/types"
)

// FromWebhook maps a validated webhook payload to a normalized event.
// Event types with no state effect (e.g. push) still become webhook-received
// events so observers can surface delivery activity. Types this system does
// not understand return ErrUnknownEvent.
func FromWebhook(payload *model.WebhookPayload) (*model.NormalizedEvent, error) {
	if payload == nil || payload.Repository == nil {
		return nil, goerr.Wrap(types.ErrInvalidPayload, "webhook payload is empty")
	}

	info := &model.WebhookInfo{
		EventType:    payload.EventType,
		DeliveryID:   payload.DeliveryID,
		Action:       types.AlertAction(payload.Action),
		RepoID:       payload.Repository.ID,
		RepoFullName: payload.Repository.FullName,
	}

	switch payload.EventType {
	case model.WebhookEventWorkflowRun:
		info.WorkflowRun = &model.WorkflowRunInfo{
			RunID:      *payload.WorkflowRun.ID,
			Status:     payload.WorkflowRun.Status,
			Conclusion: payload.WorkflowRun.Conclusion,
			UpdatedAt:  payload.WorkflowRun.UpdatedAt,
		}

	case model.WebhookEventCodeScanningAlert:
		info.Alert = &model.AlertInfo{
			Number:   *payload.Alert.Number,
			Severity: payload.Alert.SeverityBucket(),
		}

	case model.WebhookEventPush:
		// no state effect, recorded as activity only

	default:
		return nil, goerr.Wrap(types.ErrUnknownEvent, "unsupported webhook event type",
			goerr.V("eventType", payload.EventType),
		)
	}

	return &model.NormalizedEvent{
		ID:        types.NewEventID(),
		Type:      types.EventWebhookReceived,
		Source:    types.SourceWebhook,
		Timestamp: time.Now(),
		Webhook:   info,
	}, nil
}

// FromRepository maps one repository fetched from the REST API to a
// repository-update event. Findings may be attached separately once the
// repository's open alerts have been listed.
func FromRepository(repo *github.Repository, findings *model.SecurityFindings) (*model.NormalizedEvent, error) {
	if repo == nil || repo.GetID() == 0 || repo.GetFullName() == "" {
		return nil, goerr.Wrap(types.ErrInvalidPayload, "repository is missing identity")
	}

	private := repo.GetPrivate()
	// archived and disabled repositories cannot run workflows
	workflows := !repo.GetArchived() && !repo.GetDisabled()
	update := &model.RepositoryUpdate{
		RepoID:           types.RepoID(repo.GetID()),
		FullName:         types.RepoFullName(repo.GetFullName()),
		Owner:            repo.GetOwner().GetLogin(),
		AvatarURL:        repo.GetOwner().GetAvatarURL(),
		Private:          &private,
		DefaultBranch:    types.BranchName(repo.GetDefaultBranch()),
		WorkflowsEnabled: &workflows,
		Findings:         findings,
	}

	return &model.NormalizedEvent{
		ID:               types.NewEventID(),
		Type:             types.EventRepositoryUpdate,
		Source:           types.SourcePolling,
		Timestamp:        time.Now(),
		RepositoryUpdate: update,
	}, nil
}

// FromAlert maps one code-scanning alert fetched from the REST API to a
// security-alert event. Open alerts increment, resolved alerts decrement.
func FromAlert(repoFullName types.RepoFullName, alert *github.Alert) (*model.NormalizedEvent, error) {
	if alert == nil || alert.GetNumber() == 0 {
		return nil, goerr.Wrap(types.ErrInvalidPayload, "alert is missing its number")
	}

	action := types.AlertCreated
	switch alert.GetState() {
	case "open":
		action = types.AlertCreated
	case "fixed":
		action = types.AlertFixed
	case "dismissed", "closed":
		action = types.AlertClosed
	}

	severity := types.SeverityNote
	if rule := alert.GetRule(); rule != nil {
		if lvl := rule.GetSecuritySeverityLevel(); lvl != "" {
			severity = types.ParseSeverity(lvl)
		} else {
			severity = types.ParseSeverity(rule.GetSeverity())
		}
	}

	return &model.NormalizedEvent{
		ID:        types.NewEventID(),
		Type:      types.EventSecurityAlert,
		Source:    types.SourcePolling,
		Timestamp: time.Now(),
		SecurityAlert: &model.SecurityAlert{
			RepoFullName: repoFullName,
			AlertNumber:  int64(alert.GetNumber()),
			Action:       action,
			Severity:     severity,
		},
	}, nil
}

// NewScanDispatched synthesizes the scan-status event for a user-initiated
// scan request.
func NewScanDispatched(req *model.ScanRequest) *model.NormalizedEvent {
	return &model.NormalizedEvent{
		ID:        types.NewEventID(),
		Type:      types.EventScanStatus,
		Source:    types.SourceUserAction,
		Timestamp: time.Now(),
		ScanStatusChange: &model.ScanStatusChange{
			ScanID:       req.ID,
			RepoFullName: req.RepoFullName,
			Status:       req.Status,
		},
	}
}

// FromFrame decodes an event frame received over the relay connection into a
// normalized event. The frame body must itself be a serialized
// NormalizedEvent; identity and source are preserved when present.
func FromFrame(frame *model.Frame) (*model.NormalizedEvent, error) {
	if frame == nil || frame.Kind != model.FrameEvent {
		return nil, goerr.Wrap(types.ErrInvalidPayload, "frame is not an event frame")
	}

	var ev model.NormalizedEvent
	if err := json.Unmarshal(frame.Event, &ev); err != nil {
		return nil, goerr.Wrap(types.ErrInvalidPayload, "failed to decode event frame body")
	}
	if ev.ID == "" {
		ev.ID = types.NewEventID()
	}
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now()
	}
	if ev.Source == "" {
		ev.Source = types.SourceWebhook
	}
	if err := ev.Validate(); err != nil {
		return nil, err
	}

	return &ev, nil
}
