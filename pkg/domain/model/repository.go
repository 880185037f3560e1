package model

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/argus/pkg/domain/types"
)

// SecurityFindings aggregates open code-scanning findings per severity
// bucket. Total always equals the sum of the five counters and no counter
// goes below zero.
type SecurityFindings struct {
	Critical int `json:"critical"`
	High     int `json:"high"`
	Medium   int `json:"medium"`
	Low      int `json:"low"`
	Note     int `json:"note"`
	Total    int `json:"total"`
}

// Add applies delta to the given severity bucket, clamping the bucket at
// zero, and recomputes Total.
func (x *SecurityFindings) Add(sev types.Severity, delta int) {
	bucket := x.bucket(sev)
	*bucket += delta
	if *bucket < 0 {
		*bucket = 0
	}
	x.Total = x.Sum()
}

func (x *SecurityFindings) bucket(sev types.Severity) *int {
	switch sev {
	case types.SeverityCritical:
		return &x.Critical
	case types.SeverityHigh:
		return &x.High
	case types.SeverityMedium:
		return &x.Medium
	case types.SeverityLow:
		return &x.Low
	default:
		return &x.Note
	}
}

// Count returns the current value of the given severity bucket.
func (x SecurityFindings) Count(sev types.Severity) int {
	return *x.bucket(sev)
}

// Sum returns the sum of the five severity counters.
func (x SecurityFindings) Sum() int {
	return x.Critical + x.High + x.Medium + x.Low + x.Note
}

func (x SecurityFindings) Validate() error {
	if x.Critical < 0 || x.High < 0 || x.Medium < 0 || x.Low < 0 || x.Note < 0 {
		return goerr.Wrap(types.ErrValidationFailed, "negative severity counter")
	}
	if x.Total != x.Sum() {
		return goerr.Wrap(types.ErrValidationFailed, "total does not match sum of severity counters",
			goerr.V("total", x.Total),
			goerr.V("sum", x.Sum()),
		)
	}
	return nil
}

// RepositoryRecord is the authoritative compliance view of one repository.
// It is mutated only through the reconciler.
type RepositoryRecord struct {
	ID               types.RepoID       `json:"id"`
	FullName         types.RepoFullName `json:"full_name"`
	Owner            string             `json:"owner"`
	AvatarURL        string             `json:"avatar_url,omitempty"`
	Private          bool               `json:"private"`
	DefaultBranch    types.BranchName   `json:"default_branch,omitempty"`
	WorkflowsEnabled bool               `json:"workflows_enabled"`
	LastScanStatus   types.ScanStatus   `json:"last_scan_status"`
	LastScanAt       *time.Time         `json:"last_scan_at,omitempty"`
	Findings         SecurityFindings   `json:"security_findings"`
	UpdatedAt        time.Time          `json:"updated_at"`
}

func (x *RepositoryRecord) Validate() error {
	if x.ID == 0 {
		return goerr.Wrap(types.ErrValidationFailed, "repository ID is empty")
	}
	if x.FullName == "" {
		return goerr.Wrap(types.ErrValidationFailed, "repository full name is empty")
	}
	return x.Findings.Validate()
}

// Clone returns a deep copy safe to hand to observers.
func (x *RepositoryRecord) Clone() *RepositoryRecord {
	if x == nil {
		return nil
	}
	cpy := *x
	if x.LastScanAt != nil {
		t := *x.LastScanAt
		cpy.LastScanAt = &t
	}
	return &cpy
}
