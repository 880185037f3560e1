package types

// EventType discriminates the normalized event envelope. Every upstream
// shape is translated into exactly one of these.
type EventType string

const (
	EventRepositoryUpdate EventType = "repository_update"
	EventScanStatus       EventType = "scan_status"
	EventSecurityAlert    EventType = "security_alert"
	EventWebhookReceived  EventType = "webhook_received"
	EventConnection       EventType = "connection"
	EventHeartbeat        EventType = "heartbeat"
)

// EventSource identifies which entry point produced an event.
type EventSource string

const (
	SourceWebhook    EventSource = "webhook"
	SourcePolling    EventSource = "polling"
	SourceUserAction EventSource = "user_action"
)

// ScanStatus is the last observed scan outcome of a repository.
type ScanStatus string

const (
	ScanStatusSuccess    ScanStatus = "success"
	ScanStatusFailure    ScanStatus = "failure"
	ScanStatusInProgress ScanStatus = "in_progress"
	ScanStatusPending    ScanStatus = "pending"
)

// ScanRequestStatus tracks a dispatched scan. Transitions are forward only:
// a request never regresses from completed/failed back to running.
type ScanRequestStatus string

const (
	ScanRequestDispatched ScanRequestStatus = "dispatched"
	ScanRequestRunning    ScanRequestStatus = "running"
	ScanRequestCompleted  ScanRequestStatus = "completed"
	ScanRequestFailed     ScanRequestStatus = "failed"
)

// Terminal returns true when no further transition is allowed.
func (x ScanRequestStatus) Terminal() bool {
	return x == ScanRequestCompleted || x == ScanRequestFailed
}

// Severity is one of the five ordered finding-severity buckets.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
	SeverityNote     Severity = "note"
)

// Severities lists all buckets in descending order.
var Severities = []Severity{
	SeverityCritical,
	SeverityHigh,
	SeverityMedium,
	SeverityLow,
	SeverityNote,
}

// ParseSeverity maps upstream severity strings (including code-scanning
// rule levels like "error" and "warning") onto a bucket.
func ParseSeverity(v string) Severity {
	switch v {
	case "critical":
		return SeverityCritical
	case "high", "error":
		return SeverityHigh
	case "medium", "warning":
		return SeverityMedium
	case "low":
		return SeverityLow
	default:
		return SeverityNote
	}
}

// AlertAction is the action field of a security-alert event.
type AlertAction string

const (
	AlertCreated      AlertAction = "created"
	AlertClosed       AlertAction = "closed"
	AlertClosedByUser AlertAction = "closed_by_user"
	AlertFixed        AlertAction = "fixed"
	AlertReopened     AlertAction = "reopened"
)

// Increments returns true for actions that add a finding. A reopened alert
// counts again, same as created.
func (x AlertAction) Increments() bool {
	return x == AlertCreated || x == AlertReopened
}

// Decrements returns true for actions that resolve a finding.
func (x AlertAction) Decrements() bool {
	return x == AlertClosed || x == AlertClosedByUser || x == AlertFixed
}

// ConnStatus is the observable status of the relay connection.
type ConnStatus string

const (
	ConnDisconnected ConnStatus = "disconnected"
	ConnConnecting   ConnStatus = "connecting"
	ConnConnected    ConnStatus = "connected"
	ConnReconnecting ConnStatus = "reconnecting"
	ConnError        ConnStatus = "error"
)

// Priority orders notification payloads. Low-priority payloads are subject
// to per-channel rate limiting.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// ChannelKind identifies a delivery back-end.
type ChannelKind string

const (
	ChannelMail     ChannelKind = "mail"
	ChannelSlack    ChannelKind = "slack"
	ChannelCallback ChannelKind = "callback"
	ChannelFeed     ChannelKind = "feed"
)
