package attendance

// IssueKind classifies a data-quality finding. Issues are values, never
// errors: inconsistent punches are the system's primary workload, not an
// exceptional condition.
type IssueKind string

const (
	IssueIncompletePair     IssueKind = "INCOMPLETE_PAIR"
	IssueTimeOrderViolation IssueKind = "TIME_ORDER_VIOLATION"
	IssueNegativeHours      IssueKind = "NEGATIVE_HOURS"
	IssueDuplicate          IssueKind = "DUPLICATE"
	IssueOrphanedEmployee   IssueKind = "ORPHANED_EMPLOYEE"
)

// Issue is one finding produced by the consistency checker or the matcher.
type Issue struct {
	Kind   IssueKind `json:"kind"`
	Detail string    `json:"detail,omitempty"`

	// RecordID is set when the issue refers to a stored record; DuplicateOf
	// lists the other record ids in a duplicate group.
	RecordID    string   `json:"record_id,omitempty"`
	DuplicateOf []string `json:"duplicate_of,omitempty"`
}

// HasKind reports whether the list contains an issue of the given kind.
func HasKind(issues []Issue, kind IssueKind) bool {
	for _, is := range issues {
		if is.Kind == kind {
			return true
		}
	}
	return false
}
