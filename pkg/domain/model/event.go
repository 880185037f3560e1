package model

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/argus/pkg/domain/types"
)

// NormalizedEvent is the canonical envelope between ingestion and
// reconciliation. Every upstream shape is translated into this envelope
// exactly once, by the normalizer. Exactly one payload pointer matching
// Type must be set.
type NormalizedEvent struct {
	ID        types.EventID     `json:"id"`
	Type      types.EventType   `json:"type"`
	Source    types.EventSource `json:"source"`
	Timestamp time.Time         `json:"timestamp"`

	RepositoryUpdate *RepositoryUpdate `json:"repository_update,omitempty"`
	ScanStatusChange *ScanStatusChange `json:"scan_status_change,omitempty"`
	SecurityAlert    *SecurityAlert    `json:"security_alert,omitempty"`
	Webhook          *WebhookInfo      `json:"webhook,omitempty"`
	Connection       *ConnectionInfo   `json:"connection,omitempty"`
}

// RepositoryUpdate carries a shallow merge into a RepositoryRecord. Nil or
// zero-valued fields leave the record untouched; later events win on the
// fields they carry.
type RepositoryUpdate struct {
	RepoID           types.RepoID       `json:"repo_id"`
	FullName         types.RepoFullName `json:"full_name"`
	Owner            string             `json:"owner,omitempty"`
	AvatarURL        string             `json:"avatar_url,omitempty"`
	Private          *bool              `json:"private,omitempty"`
	DefaultBranch    types.BranchName   `json:"default_branch,omitempty"`
	WorkflowsEnabled *bool              `json:"workflows_enabled,omitempty"`
	LastScanStatus   types.ScanStatus   `json:"last_scan_status,omitempty"`
	LastScanAt       *time.Time         `json:"last_scan_at,omitempty"`
	Findings         *SecurityFindings  `json:"findings,omitempty"`
}

// ScanStatusChange updates a ScanRequest by ID.
type ScanStatusChange struct {
	ScanID       types.ScanID            `json:"scan_id"`
	RepoFullName types.RepoFullName      `json:"repo_full_name"`
	Status       types.ScanRequestStatus `json:"status"`
	Duration     *time.Duration          `json:"duration,omitempty"`
	Findings     *SecurityFindings       `json:"findings,omitempty"`
}

// SecurityAlert adjusts one severity bucket of the repository matched by
// full name.
type SecurityAlert struct {
	RepoFullName types.RepoFullName `json:"repo_full_name"`
	AlertNumber  int64              `json:"alert_number"`
	Action       types.AlertAction  `json:"action"`
	Severity     types.Severity     `json:"severity"`
}

// WebhookInfo records a received webhook delivery. WorkflowRun and Alert are
// set for the event types that carry state effects; a plain push carries
// neither.
type WebhookInfo struct {
	EventType    string             `json:"event_type"`
	DeliveryID   types.DeliveryID   `json:"delivery_id,omitempty"`
	Action       types.AlertAction  `json:"action,omitempty"`
	RepoID       types.RepoID       `json:"repo_id"`
	RepoFullName types.RepoFullName `json:"repo_full_name"`
	WorkflowRun  *WorkflowRunInfo   `json:"workflow_run,omitempty"`
	Alert        *AlertInfo         `json:"alert,omitempty"`
}

// WorkflowRunInfo is the state-relevant slice of a workflow_run event.
type WorkflowRunInfo struct {
	RunID      int64     `json:"run_id"`
	Status     string    `json:"status"`
	Conclusion string    `json:"conclusion"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// AlertInfo is the state-relevant slice of a code_scanning_alert event.
type AlertInfo struct {
	Number   int64          `json:"number"`
	Severity types.Severity `json:"severity"`
}

// ConnectionInfo reports a relay connection status change or heartbeat.
type ConnectionInfo struct {
	Status            types.ConnStatus `json:"status"`
	Message           string           `json:"message,omitempty"`
	ReconnectAttempts int              `json:"reconnect_attempts,omitempty"`
}

func (x *NormalizedEvent) Validate() error {
	if x.ID == "" {
		return goerr.Wrap(types.ErrValidationFailed, "event ID is empty")
	}
	if x.Source == "" {
		return goerr.Wrap(types.ErrValidationFailed, "event source is empty")
	}

	payloads := 0
	if x.RepositoryUpdate != nil {
		payloads++
	}
	if x.ScanStatusChange != nil {
		payloads++
	}
	if x.SecurityAlert != nil {
		payloads++
	}
	if x.Webhook != nil {
		payloads++
	}
	if x.Connection != nil {
		payloads++
	}
	if payloads != 1 {
		return goerr.Wrap(types.ErrValidationFailed, "event must carry exactly one payload",
			goerr.V("type", x.Type),
			goerr.V("payloads", payloads),
		)
	}

	matched := false
	switch x.Type {
	case types.EventRepositoryUpdate:
		matched = x.RepositoryUpdate != nil
	case types.EventScanStatus:
		matched = x.ScanStatusChange != nil
	case types.EventSecurityAlert:
		matched = x.SecurityAlert != nil
	case types.EventWebhookReceived:
		matched = x.Webhook != nil
	case types.EventConnection, types.EventHeartbeat:
		matched = x.Connection != nil
	default:
		return goerr.Wrap(types.ErrUnknownEvent, "unknown event type", goerr.V("type", x.Type))
	}
	if !matched {
		return goerr.Wrap(types.ErrValidationFailed, "payload does not match event type",
			goerr.V("type", x.Type),
		)
	}

	return nil
}
