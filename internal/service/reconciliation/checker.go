package reconciliation

import (
	"fmt"
	"sort"
	"time"

	"github.com/HansOr04/testing-sub002/internal/domain/attendance"
)

// CheckInput carries a record plus the external facts the predicates need.
// The checker itself performs no I/O; the orchestrator resolves employees
// and fetches duplicate candidates before calling it.
type CheckInput struct {
	Record attendance.Record

	// EmployeeKnown is false when master data could not resolve the
	// record's employee reference.
	EmployeeKnown bool

	// SameDayRecords are the live records for the same employee-day
	// (including Record itself), for duplicate-group detection.
	SameDayRecords []attendance.Record

	// DuplicateThresholdMinutes is the window inside which two same-day
	// records count as one.
	DuplicateThresholdMinutes int
}

// CheckRecord runs the fixed, ordered predicate set and returns typed
// issues. Business-rule violations are data, not faults: the function never
// errors on them, is read-only, and yields the same list on every run over
// the same input.
func CheckRecord(in CheckInput) []attendance.Issue {
	var issues []attendance.Issue
	rec := in.Record

	// 1. INCOMPLETE_PAIR: an entry without its exit while the status
	// promises a resolved day.
	if rec.Status.ImpliesCompletion() && rec.HasIncompletePair() {
		issues = append(issues, attendance.Issue{
			Kind:     attendance.IssueIncompletePair,
			RecordID: rec.ID,
			Detail:   fmt.Sprintf("status %s implies completion but an exit is missing", rec.Status),
		})
	}

	// 2. TIME_ORDER_VIOLATION: exit earlier than entry in any pair.
	for i, p := range rec.Pairs() {
		if p.Complete() && p.Exit.Before(*p.Entry) {
			issues = append(issues, attendance.Issue{
				Kind:     attendance.IssueTimeOrderViolation,
				RecordID: rec.ID,
				Detail:   fmt.Sprintf("pair %d exit precedes entry", i+1),
			})
		}
	}

	// 3. NEGATIVE_HOURS: defensive, unreachable through the classifier.
	if rec.Hours.HasNegative() {
		issues = append(issues, attendance.Issue{
			Kind:     attendance.IssueNegativeHours,
			RecordID: rec.ID,
			Detail:   "one or more hour buckets are negative",
		})
	}

	// 4. DUPLICATE: this record belongs to a same-day group and is not the
	// group's earliest member.
	for _, group := range FindDuplicateGroups(in.SameDayRecords, in.DuplicateThresholdMinutes) {
		for _, dup := range group[1:] {
			if dup.ID != rec.ID {
				continue
			}
			var others []string
			for _, r := range group {
				if r.ID != rec.ID {
					others = append(others, r.ID)
				}
			}
			issues = append(issues, attendance.Issue{
				Kind:        attendance.IssueDuplicate,
				RecordID:    rec.ID,
				DuplicateOf: others,
				Detail:      fmt.Sprintf("duplicate of %d record(s) for the same employee-day", len(others)),
			})
		}
	}

	// 5. ORPHANED_EMPLOYEE: the employee reference is stale.
	if !in.EmployeeKnown {
		issues = append(issues, attendance.Issue{
			Kind:     attendance.IssueOrphanedEmployee,
			RecordID: rec.ID,
			Detail:   fmt.Sprintf("employee %s is no longer resolvable", rec.EmployeeID),
		})
	}

	return issues
}

// FindDuplicateGroups partitions live same-day records into duplicate
// groups. Two records belong together when their reference times are inside
// the threshold of the group's earliest member. Each returned group is
// ordered by creation time ascending, so group[0] is always the survivor.
// Groups of one are omitted.
func FindDuplicateGroups(records []attendance.Record, thresholdMinutes int) [][]attendance.Record {
	live := make([]attendance.Record, 0, len(records))
	for _, r := range records {
		if !r.IsDeleted() {
			live = append(live, r)
		}
	}
	if len(live) < 2 {
		return nil
	}

	sort.SliceStable(live, func(i, j int) bool {
		ti, tj := referenceTime(live[i]), referenceTime(live[j])
		if !ti.Equal(tj) {
			return ti.Before(tj)
		}
		return live[i].ID < live[j].ID
	})

	threshold := time.Duration(thresholdMinutes) * time.Minute
	var groups [][]attendance.Record
	var current []attendance.Record
	flush := func() {
		if len(current) > 1 {
			// The earliest-created member survives; everyone else in the
			// group is a repair candidate.
			sort.SliceStable(current, func(i, j int) bool {
				if !current[i].CreatedAt.Equal(current[j].CreatedAt) {
					return current[i].CreatedAt.Before(current[j].CreatedAt)
				}
				return current[i].ID < current[j].ID
			})
			groups = append(groups, current)
		}
	}
	for _, r := range live {
		if len(current) > 0 && referenceTime(r).Sub(referenceTime(current[0])) <= threshold {
			current = append(current, r)
			continue
		}
		flush()
		current = []attendance.Record{r}
	}
	flush()
	return groups
}

// referenceTime anchors duplicate comparison on the entry punch when
// present, falling back to creation time for entry-less records.
func referenceTime(r attendance.Record) time.Time {
	if r.Entry != nil {
		return *r.Entry
	}
	return r.CreatedAt
}
