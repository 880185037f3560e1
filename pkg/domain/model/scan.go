package model

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/argus/pkg/domain/types"
)

// ScanRequest tracks a user- or webhook-initiated scan of one repository.
// Status transitions are forward only.
type ScanRequest struct {
	ID           types.ScanID            `json:"id"`
	RepoFullName types.RepoFullName      `json:"repo_full_name"`
	DispatchedAt time.Time               `json:"dispatched_at"`
	Status       types.ScanRequestStatus `json:"status"`
	Duration     *time.Duration          `json:"duration,omitempty"`
	Findings     *SecurityFindings       `json:"findings,omitempty"`
}

func (x *ScanRequest) Validate() error {
	if x.ID == "" {
		return goerr.Wrap(types.ErrValidationFailed, "scan ID is empty")
	}
	if x.RepoFullName == "" {
		return goerr.Wrap(types.ErrValidationFailed, "repo full name is empty")
	}
	return nil
}

// CanTransition reports whether a scan request may move from its current
// status to the given one. Terminal statuses never regress and running never
// goes back to dispatched.
func (x *ScanRequest) CanTransition(to types.ScanRequestStatus) bool {
	if x.Status == to {
		return true
	}
	if x.Status.Terminal() {
		return false
	}
	if x.Status == types.ScanRequestRunning && to == types.ScanRequestDispatched {
		return false
	}
	return true
}

// Clone returns a deep copy safe to hand to observers.
func (x *ScanRequest) Clone() *ScanRequest {
	if x == nil {
		return nil
	}
	cpy := *x
	if x.Duration != nil {
		d := *x.Duration
		cpy.Duration = &d
	}
	if x.Findings != nil {
		f := *x.Findings
		cpy.Findings = &f
	}
	return &cpy
}
