package model

import (
	"encoding/json"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/argus/pkg/domain/types"
)

// GitHub webhook event names this system understands. Other event types are
// still structurally validated for the required top-level descriptors and
// acknowledged, but carry no state effect.
const (
	WebhookEventWorkflowRun       = "workflow_run"
	WebhookEventCodeScanningAlert = "code_scanning_alert"
	WebhookEventPush              = "push"
)

// WebhookPayload is the decoded shape of an inbound GitHub webhook body.
// Only the sections relevant to the declared event type are populated.
type WebhookPayload struct {
	EventType  string           `json:"-"`
	DeliveryID types.DeliveryID `json:"-"`

	Action     string             `json:"action,omitempty"`
	Repository *WebhookRepository `json:"repository"`
	Sender     *WebhookSender     `json:"sender"`

	WorkflowRun *WebhookWorkflowRun `json:"workflow_run,omitempty"`
	Alert       *WebhookAlert       `json:"alert,omitempty"`
	Commits     []WebhookCommit     `json:"commits,omitempty"`
	Ref         string              `json:"ref,omitempty"`
}

type WebhookRepository struct {
	ID            types.RepoID       `json:"id"`
	FullName      types.RepoFullName `json:"full_name"`
	Private       bool               `json:"private"`
	DefaultBranch types.BranchName   `json:"default_branch,omitempty"`
	Owner         *WebhookSender     `json:"owner,omitempty"`
}

type WebhookSender struct {
	Login     string `json:"login"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

type WebhookWorkflowRun struct {
	ID         *int64    `json:"id"`
	Name       string    `json:"name,omitempty"`
	Status     string    `json:"status,omitempty"`
	Conclusion string    `json:"conclusion,omitempty"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type WebhookAlert struct {
	Number *int64            `json:"number"`
	State  string            `json:"state,omitempty"`
	Rule   *WebhookAlertRule `json:"rule,omitempty"`
}

type WebhookAlertRule struct {
	ID                    string `json:"id,omitempty"`
	Severity              string `json:"severity,omitempty"`
	SecuritySeverityLevel string `json:"security_severity_level,omitempty"`
}

// SeverityBucket maps the rule's severity onto a bucket, preferring the
// security severity level when present.
func (x *WebhookAlert) SeverityBucket() types.Severity {
	if x == nil || x.Rule == nil {
		return types.SeverityNote
	}
	if x.Rule.SecuritySeverityLevel != "" {
		return types.ParseSeverity(x.Rule.SecuritySeverityLevel)
	}
	return types.ParseSeverity(x.Rule.Severity)
}

type WebhookCommit struct {
	ID      string `json:"id"`
	Message string `json:"message,omitempty"`
}

// DecodeWebhook parses a raw webhook body and validates that the declared
// event type carries its required fields. Unknown or partial shapes become
// an explicit decode error, never an undefined-field read.
func DecodeWebhook(eventType string, raw []byte) (*WebhookPayload, error) {
	var payload WebhookPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, goerr.Wrap(types.ErrInvalidPayload, "failed to decode webhook body",
			goerr.V("eventType", eventType),
		)
	}
	payload.EventType = eventType

	if payload.Repository == nil || payload.Repository.ID == 0 || payload.Repository.FullName == "" {
		return nil, goerr.Wrap(types.ErrInvalidPayload, "missing repository descriptor",
			goerr.V("eventType", eventType),
		)
	}
	if payload.Sender == nil || payload.Sender.Login == "" {
		return nil, goerr.Wrap(types.ErrInvalidPayload, "missing sender descriptor",
			goerr.V("eventType", eventType),
		)
	}

	switch eventType {
	case WebhookEventWorkflowRun:
		if payload.WorkflowRun == nil || payload.WorkflowRun.ID == nil {
			return nil, goerr.Wrap(types.ErrInvalidPayload, "workflow_run event requires a numeric run id",
				goerr.V("eventType", eventType),
			)
		}

	case WebhookEventCodeScanningAlert:
		if payload.Alert == nil || payload.Alert.Number == nil {
			return nil, goerr.Wrap(types.ErrInvalidPayload, "code_scanning_alert event requires a numeric alert number",
				goerr.V("eventType", eventType),
			)
		}

	case WebhookEventPush:
		if payload.Commits == nil {
			return nil, goerr.Wrap(types.ErrInvalidPayload, "push event requires a commit list",
				goerr.V("eventType", eventType),
			)
		}
		if payload.Ref == "" {
			return nil, goerr.Wrap(types.ErrInvalidPayload, "push event requires a ref",
				goerr.V("eventType", eventType),
			)
		}
	}

	return &payload, nil
}
