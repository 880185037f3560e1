package notify

import (
	"fmt"

	"github.com/secmon-lab/argus/pkg/domain/model"
	"github.com/secmon-lab/argus/pkg/domain/types"
)

// Router decides which normalized events are worth a notification and
// formats them into channel-agnostic payloads.
type Router struct{}

func NewRouter() *Router {
	return &Router{}
}

// Route returns the payload for a notification-worthy event, or nil when
// the event should pass silently. Notification-worthy: new security alerts
// at high or critical severity, scan failures, and loss of the relay
// connection.
func (x *Router) Route(ev *model.NormalizedEvent) *model.NotificationPayload {
	switch {
	case ev.SecurityAlert != nil:
		return x.routeAlert(ev.SecurityAlert.RepoFullName, ev.SecurityAlert.Action, ev.SecurityAlert.Severity)

	case ev.Webhook != nil && ev.Webhook.Alert != nil:
		return x.routeAlert(ev.Webhook.RepoFullName, ev.Webhook.Action, ev.Webhook.Alert.Severity)

	case ev.ScanStatusChange != nil && ev.ScanStatusChange.Status == types.ScanRequestFailed:
		return &model.NotificationPayload{
			Priority: types.PriorityHigh,
			Title:    fmt.Sprintf("Scan failed: %s", ev.ScanStatusChange.RepoFullName),
			Body:     fmt.Sprintf("Security scan %s for %s did not complete.", ev.ScanStatusChange.ScanID, ev.ScanStatusChange.RepoFullName),
			Metadata: map[string]string{
				"repo":    string(ev.ScanStatusChange.RepoFullName),
				"scan_id": string(ev.ScanStatusChange.ScanID),
			},
		}

	case ev.Connection != nil && ev.Connection.Status == types.ConnError:
		return &model.NotificationPayload{
			Priority: types.PriorityHigh,
			Title:    "Event stream connection lost",
			Body:     fmt.Sprintf("The relay connection entered the error state: %s", ev.Connection.Message),
			Metadata: map[string]string{
				"status": string(ev.Connection.Status),
			},
		}
	}

	return nil
}

func (x *Router) routeAlert(repo types.RepoFullName, action types.AlertAction, severity types.Severity) *model.NotificationPayload {
	if !action.Increments() {
		return nil
	}

	var priority types.Priority
	switch severity {
	case types.SeverityCritical:
		priority = types.PriorityUrgent
	case types.SeverityHigh:
		priority = types.PriorityHigh
	default:
		return nil
	}

	return &model.NotificationPayload{
		Priority: priority,
		Title:    fmt.Sprintf("New %s severity alert: %s", severity, repo),
		Body:     fmt.Sprintf("A code scanning alert with %s severity was raised on %s.", severity, repo),
		Metadata: map[string]string{
			"repo":     string(repo),
			"severity": string(severity),
			"action":   string(action),
		},
	}
}
