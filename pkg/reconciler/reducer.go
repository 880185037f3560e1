package reconciler

import (
	"context"
	"log/slog"

	"github.com/secmon-lab/argus/pkg/domain/model"
	"github.com/secmon-lab/argus/pkg/domain/types"
	"github.com/secmon-lab/argus/pkg/utils/logging"
)

// apply runs the reducer for one event. It is called with stateMu held and
// reports whether the event had an effect. Unknown types and missing record
// IDs are logged and skipped; the batch always continues.
func (x *Engine) apply(ctx context.Context, ev *model.NormalizedEvent, changedRepos map[types.RepoID]struct{}, changedScans map[types.ScanID]struct{}) bool {
	switch ev.Type {
	case types.EventRepositoryUpdate:
		return x.applyRepositoryUpdate(ctx, ev, changedRepos)

	case types.EventScanStatus:
		return x.applyScanStatus(ctx, ev, changedRepos, changedScans)

	case types.EventSecurityAlert:
		alert := ev.SecurityAlert
		if alert == nil {
			logging.From(ctx).Warn("security_alert event without payload", slog.Any("eventID", ev.ID))
			return false
		}
		return x.applyAlert(ctx, alert.RepoFullName, alert.Action, alert.Severity, changedRepos)

	case types.EventWebhookReceived:
		return x.applyWebhook(ctx, ev, changedRepos)

	case types.EventConnection, types.EventHeartbeat:
		// connection lifecycle events carry no repository state
		return false

	default:
		logging.From(ctx).Warn("unknown event type skipped",
			slog.Any("eventID", ev.ID),
			slog.Any("type", ev.Type),
		)
		return false
	}
}

// applyRepositoryUpdate upserts the record and shallow-merges the fields the
// event carries. Later events win on the fields they touch.
func (x *Engine) applyRepositoryUpdate(ctx context.Context, ev *model.NormalizedEvent, changedRepos map[types.RepoID]struct{}) bool {
	update := ev.RepositoryUpdate
	if update == nil || update.RepoID == 0 {
		logging.From(ctx).Warn("repository_update event without identity", slog.Any("eventID", ev.ID))
		return false
	}

	rec, ok := x.repos[update.RepoID]
	if !ok {
		rec = &model.RepositoryRecord{
			ID:             update.RepoID,
			FullName:       update.FullName,
			LastScanStatus: types.ScanStatusPending,
		}
		x.repos[update.RepoID] = rec
	}

	if update.FullName != "" {
		if rec.FullName != "" && rec.FullName != update.FullName {
			delete(x.byName, rec.FullName)
		}
		rec.FullName = update.FullName
	}
	x.byName[rec.FullName] = rec.ID

	if update.Owner != "" {
		rec.Owner = update.Owner
	}
	if update.AvatarURL != "" {
		rec.AvatarURL = update.AvatarURL
	}
	if update.Private != nil {
		rec.Private = *update.Private
	}
	if update.DefaultBranch != "" {
		rec.DefaultBranch = update.DefaultBranch
	}
	if update.WorkflowsEnabled != nil {
		rec.WorkflowsEnabled = *update.WorkflowsEnabled
	}
	if update.LastScanStatus != "" {
		rec.LastScanStatus = update.LastScanStatus
	}
	if update.LastScanAt != nil {
		t := *update.LastScanAt
		rec.LastScanAt = &t
	}
	if update.Findings != nil {
		rec.Findings = *update.Findings
	}
	rec.UpdatedAt = x.now()

	changedRepos[rec.ID] = struct{}{}
	return true
}

// applyScanStatus updates the scan request and, on completion, reflects the
// result onto the owning repository.
func (x *Engine) applyScanStatus(ctx context.Context, ev *model.NormalizedEvent, changedRepos map[types.RepoID]struct{}, changedScans map[types.ScanID]struct{}) bool {
	change := ev.ScanStatusChange
	if change == nil || change.ScanID == "" {
		logging.From(ctx).Warn("scan_status event without scan ID", slog.Any("eventID", ev.ID))
		return false
	}

	req, ok := x.scans[change.ScanID]
	if !ok {
		// first sight of this scan request
		req = &model.ScanRequest{
			ID:           change.ScanID,
			RepoFullName: change.RepoFullName,
			DispatchedAt: ev.Timestamp,
			Status:       types.ScanRequestDispatched,
		}
		x.scans[change.ScanID] = req
	}

	if change.Status != "" {
		if !req.CanTransition(change.Status) {
			logging.From(ctx).Warn("scan status regression ignored",
				slog.Any("scanID", req.ID),
				slog.Any("from", req.Status),
				slog.Any("to", change.Status),
			)
			return false
		}
		req.Status = change.Status
	}
	if change.Duration != nil {
		d := *change.Duration
		req.Duration = &d
	}
	if change.Findings != nil {
		f := *change.Findings
		req.Findings = &f
	}
	changedScans[req.ID] = struct{}{}

	if change.Status == types.ScanRequestCompleted {
		if id, ok := x.byName[req.RepoFullName]; ok {
			rec := x.repos[id]
			rec.LastScanStatus = types.ScanStatusSuccess
			t := ev.Timestamp
			rec.LastScanAt = &t
			if req.Findings != nil {
				rec.Findings = *req.Findings
			}
			rec.UpdatedAt = x.now()
			changedRepos[id] = struct{}{}
		} else {
			logging.From(ctx).Warn("completed scan for unknown repository",
				slog.Any("scanID", req.ID),
				slog.Any("repo", req.RepoFullName),
			)
		}
	}

	return true
}

// applyAlert adjusts one severity bucket, clamped at zero. A reopened alert
// re-increments, same as created.
func (x *Engine) applyAlert(ctx context.Context, name types.RepoFullName, action types.AlertAction, severity types.Severity, changedRepos map[types.RepoID]struct{}) bool {
	id, ok := x.byName[name]
	if !ok {
		logging.From(ctx).Warn("alert for unknown repository skipped",
			slog.Any("repo", name),
			slog.Any("action", action),
		)
		return false
	}

	rec := x.repos[id]
	switch {
	case action.Increments():
		rec.Findings.Add(severity, 1)
	case action.Decrements():
		rec.Findings.Add(severity, -1)
	default:
		logging.From(ctx).Warn("unrecognized alert action skipped",
			slog.Any("repo", name),
			slog.Any("action", action),
		)
		return false
	}
	rec.UpdatedAt = x.now()

	changedRepos[id] = struct{}{}
	return true
}

// applyWebhook handles webhook-received events: workflow runs reflect the
// run conclusion onto the repository, code-scanning alerts behave exactly
// like security-alert events.
func (x *Engine) applyWebhook(ctx context.Context, ev *model.NormalizedEvent, changedRepos map[types.RepoID]struct{}) bool {
	info := ev.Webhook
	if info == nil {
		logging.From(ctx).Warn("webhook_received event without payload", slog.Any("eventID", ev.ID))
		return false
	}

	switch {
	case info.WorkflowRun != nil:
		rec := x.lookupRepo(info.RepoID, info.RepoFullName)
		if rec == nil {
			logging.From(ctx).Warn("workflow run for unknown repository skipped",
				slog.Any("repo", info.RepoFullName),
			)
			return false
		}

		switch info.WorkflowRun.Conclusion {
		case "success":
			rec.LastScanStatus = types.ScanStatusSuccess
		case "failure":
			rec.LastScanStatus = types.ScanStatusFailure
		default:
			rec.LastScanStatus = types.ScanStatusInProgress
		}
		if !info.WorkflowRun.UpdatedAt.IsZero() {
			t := info.WorkflowRun.UpdatedAt
			rec.LastScanAt = &t
		}
		rec.UpdatedAt = x.now()
		changedRepos[rec.ID] = struct{}{}
		return true

	case info.Alert != nil:
		return x.applyAlert(ctx, info.RepoFullName, info.Action, info.Alert.Severity, changedRepos)

	default:
		// delivery with no state effect (e.g. push)
		return false
	}
}

func (x *Engine) lookupRepo(id types.RepoID, name types.RepoFullName) *model.RepositoryRecord {
	if rec, ok := x.repos[id]; ok {
		return rec
	}
	if rid, ok := x.byName[name]; ok {
		return x.repos[rid]
	}
	return nil
}
