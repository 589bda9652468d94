package master

import "errors"

// Master data errors. Stale references surface as ErrNotFound, never a
// panic; the consistency checker turns them into ORPHANED_EMPLOYEE issues.
var (
	ErrEmployeeNotFound = errors.New("employee not found")
	ErrAreaNotFound     = errors.New("area not found")
	ErrBranchNotFound   = errors.New("branch not found")
	ErrDeviceNotFound   = errors.New("device not found")
)
