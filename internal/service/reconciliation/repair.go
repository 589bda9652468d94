package reconciliation

import (
	"time"

	"github.com/HansOr04/testing-sub002/internal/domain/attendance"
)

// RepairResult reports what a repair pass did to one record.
type RepairResult struct {
	Record  attendance.Record
	Changed bool
	Applied []attendance.IssueKind
}

// RepairRecord applies exactly one deterministic transform per issue kind:
//
//	INCOMPLETE_PAIR, TIME_ORDER_VIOLATION -> status INCONSISTENT, hours kept
//	NEGATIVE_HOURS                        -> offending buckets clamped to zero
//	ORPHANED_EMPLOYEE, DUPLICATE          -> soft delete
//
// Repair never invents data: it does not synthesize a missing exit or
// recompute hours from a bad pair, it only nullifies or flags. Re-running
// repair on an already-repaired record is a no-op, so
// repair(repair(r)) == repair(r).
func RepairRecord(rec attendance.Record, issues []attendance.Issue, repairedBy string, now time.Time) RepairResult {
	result := RepairResult{Record: rec}

	for _, issue := range issues {
		switch issue.Kind {
		case attendance.IssueIncompletePair, attendance.IssueTimeOrderViolation:
			if result.Record.Status != attendance.StatusInconsistent {
				// Hours stay as last computed; flagging is the repair.
				result.Record.Status = attendance.StatusInconsistent
				result.markApplied(issue.Kind)
			}
		case attendance.IssueNegativeHours:
			if result.Record.Hours.HasNegative() {
				result.Record.Hours = result.Record.Hours.Clamped()
				result.markApplied(issue.Kind)
			}
		case attendance.IssueOrphanedEmployee, attendance.IssueDuplicate:
			if !result.Record.IsDeleted() {
				deletedAt := now
				result.Record.DeletedAt = &deletedAt
				result.markApplied(issue.Kind)
			}
		}
	}

	if result.Changed {
		result.Record.Touch(repairedBy, now)
	}
	return result
}

func (r *RepairResult) markApplied(kind attendance.IssueKind) {
	r.Changed = true
	r.Applied = append(r.Applied, kind)
}
