package model_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/argus/pkg/domain/model"
	"github.com/secmon-lab/argus/pkg/domain/types"
)

func TestSecurityFindings(t *testing.T) {
	t.Run("add increments bucket and total", func(t *testing.T) {
		f := model.SecurityFindings{High: 1, Critical: 2, Medium: 1, Low: 1, Note: 1, Total: 6}
		f.Add(types.SeverityHigh, 1)
		gt.V(t, f.High).Equal(2)
		gt.V(t, f.Total).Equal(7)
	})

	t.Run("decrement clamps at zero", func(t *testing.T) {
		f := model.SecurityFindings{}
		f.Add(types.SeverityCritical, -1)
		gt.V(t, f.Critical).Equal(0)
		gt.V(t, f.Total).Equal(0)
	})

	t.Run("total always equals sum regardless of order", func(t *testing.T) {
		f := model.SecurityFindings{}
		ops := []struct {
			sev   types.Severity
			delta int
		}{
			{types.SeverityHigh, 1},
			{types.SeverityHigh, -1},
			{types.SeverityHigh, -1}, // already at zero
			{types.SeverityLow, 1},
			{types.SeverityNote, 1},
			{types.SeverityCritical, -1},
			{types.SeverityLow, -1},
		}
		for _, op := range ops {
			f.Add(op.sev, op.delta)
			gt.V(t, f.Total).Equal(f.Sum())
			gt.NoError(t, f.Validate())
		}
		gt.V(t, f.Note).Equal(1)
		gt.V(t, f.Total).Equal(1)
	})

	t.Run("validate rejects mismatched total", func(t *testing.T) {
		f := model.SecurityFindings{High: 1, Total: 5}
		gt.Error(t, f.Validate())
	})

	t.Run("count returns the requested bucket", func(t *testing.T) {
		f := model.SecurityFindings{Medium: 3, Total: 3}
		gt.V(t, f.Count(types.SeverityMedium)).Equal(3)
		gt.V(t, f.Count(types.SeverityHigh)).Equal(0)
	})
}

func TestRepositoryRecord(t *testing.T) {
	t.Run("validate requires identity", func(t *testing.T) {
		r := &model.RepositoryRecord{FullName: "org/repo"}
		gt.Error(t, r.Validate())

		r = &model.RepositoryRecord{ID: 1}
		gt.Error(t, r.Validate())

		r = &model.RepositoryRecord{ID: 1, FullName: "org/repo"}
		gt.NoError(t, r.Validate())
	})

	t.Run("clone is independent of the original", func(t *testing.T) {
		r := &model.RepositoryRecord{
			ID:       1,
			FullName: "org/repo",
			Findings: model.SecurityFindings{High: 1, Total: 1},
		}
		cpy := r.Clone()
		cpy.Findings.Add(types.SeverityHigh, 1)
		gt.V(t, r.Findings.High).Equal(1)
		gt.V(t, cpy.Findings.High).Equal(2)
	})
}
