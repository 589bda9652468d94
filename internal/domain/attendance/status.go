package attendance

import "fmt"

// Status is the attendance record state machine. The source system carried
// these as string literals spliced into SQL; here they are a typed enum so
// classification and transitions are testable without a storage engine.
type Status string

const (
	StatusPending      Status = "PENDING"
	StatusComplete     Status = "COMPLETE"
	StatusModified     Status = "MODIFIED"
	StatusInconsistent Status = "INCONSISTENT"
	StatusUnderReview  Status = "UNDER_REVIEW"
	StatusAbsent       Status = "ABSENT"
)

// ParseStatus validates a raw status value.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusComplete, StatusModified,
		StatusInconsistent, StatusUnderReview, StatusAbsent:
		return Status(s), nil
	}
	return "", fmt.Errorf("unknown attendance status %q", s)
}

// Valid reports whether the status is a known variant.
func (s Status) Valid() bool {
	_, err := ParseStatus(string(s))
	return err == nil
}

// CanTransitionTo implements the automatic transition table:
//
//	PENDING                          -> COMPLETE | MODIFIED | INCONSISTENT | UNDER_REVIEW | ABSENT
//	any (except ABSENT)              -> INCONSISTENT
//	INCONSISTENT | UNDER_REVIEW      -> COMPLETE   (after repair + re-approval)
//
// ABSENT is terminal for the day; only a manual override (Transition with
// override set) leaves it.
func (s Status) CanTransitionTo(next Status) bool {
	if s == next {
		return true
	}
	if s == StatusAbsent {
		return false
	}
	if next == StatusInconsistent {
		return true
	}
	switch s {
	case StatusPending:
		return next == StatusComplete || next == StatusModified ||
			next == StatusUnderReview || next == StatusAbsent
	case StatusInconsistent, StatusUnderReview:
		return next == StatusComplete
	case StatusModified:
		return next == StatusUnderReview
	}
	return false
}

// Transition returns the next status or ErrInvalidTransition. Manual
// override bypasses the table, including leaving ABSENT.
func (s Status) Transition(next Status, override bool) (Status, error) {
	if !next.Valid() {
		return s, fmt.Errorf("%w: %q is not a status", ErrInvalidTransition, next)
	}
	if override || s.CanTransitionTo(next) {
		return next, nil
	}
	return s, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s, next)
}

// ImpliesCompletion reports whether the status promises a fully resolved
// day, i.e. an entry without a matching exit is a violation.
func (s Status) ImpliesCompletion() bool {
	return s != StatusPending && s != StatusAbsent
}
