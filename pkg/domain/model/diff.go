package model

import (
	"time"

	"github.com/secmon-lab/argus/pkg/domain/types"
)

// StateDiff describes which top-level state slices changed during one flush.
// Observers receive exactly one diff per flush, never one per event.
type StateDiff struct {
	Repositories []types.RepoID `json:"repositories,omitempty"`
	ScanRequests []types.ScanID `json:"scan_requests,omitempty"`
	Applied      int            `json:"applied"`
	Skipped      int            `json:"skipped"`
	FlushedAt    time.Time      `json:"flushed_at"`
}

// Empty reports whether the flush changed nothing.
func (x *StateDiff) Empty() bool {
	return len(x.Repositories) == 0 && len(x.ScanRequests) == 0
}

// StateSnapshot is a deep copy of the authoritative state, safe to hand to
// collaborators.
type StateSnapshot struct {
	Repositories []*RepositoryRecord `json:"repositories"`
	ScanRequests []*ScanRequest      `json:"scan_requests"`
	TakenAt      time.Time           `json:"taken_at"`
}
