package model

import (
	"encoding/json"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/argus/pkg/domain/types"
)

// FrameKind discriminates the relay wire envelope.
type FrameKind string

const (
	FrameEvent             FrameKind = "event"
	FrameHeartbeat         FrameKind = "heartbeat"
	FrameHeartbeatResponse FrameKind = "heartbeat_response"
	FrameError             FrameKind = "error"
	FrameReconnect         FrameKind = "reconnect"
)

// Frame is one message on the persistent relay connection.
type Frame struct {
	Kind    FrameKind       `json:"kind"`
	Event   json.RawMessage `json:"event,omitempty"`
	Message string          `json:"message,omitempty"`
}

// DecodeFrame parses a raw relay message into a Frame. Frames of an unknown
// kind or without the fields their kind requires are rejected.
func DecodeFrame(raw []byte) (*Frame, error) {
	var frame Frame
	if err := json.Unmarshal(raw, &frame); err != nil {
		return nil, goerr.Wrap(types.ErrInvalidPayload, "failed to decode frame")
	}

	switch frame.Kind {
	case FrameEvent:
		if len(frame.Event) == 0 {
			return nil, goerr.Wrap(types.ErrInvalidPayload, "event frame without event body")
		}
	case FrameHeartbeat, FrameHeartbeatResponse, FrameError, FrameReconnect:
		// no extra requirements
	default:
		return nil, goerr.Wrap(types.ErrInvalidPayload, "unknown frame kind",
			goerr.V("kind", frame.Kind),
		)
	}

	return &frame, nil
}

// ConnectionState is the observable state of the relay connection. Exactly
// one instance exists per connection manager; callers always receive copies.
type ConnectionState struct {
	Status            types.ConnStatus `json:"status"`
	ReconnectAttempts int              `json:"reconnect_attempts"`
	LastError         string           `json:"last_error,omitempty"`
	ConnectedAt       *time.Time       `json:"connected_at,omitempty"`
	LastHeartbeatAt   *time.Time       `json:"last_heartbeat_at,omitempty"`
}
