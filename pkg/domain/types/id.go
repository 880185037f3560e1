package types

import "github.com/google/uuid"

type (
	EventID    string
	ScanID     string
	RequestID  string
	DeliveryID string
)

func NewEventID() EventID {
	return EventID(uuid.NewString())
}

func NewScanID() ScanID {
	return ScanID(uuid.NewString())
}

func NewRequestID() RequestID {
	return RequestID(uuid.NewString())
}

func (x EventID) String() string   { return string(x) }
func (x ScanID) String() string    { return string(x) }
func (x RequestID) String() string { return string(x) }
