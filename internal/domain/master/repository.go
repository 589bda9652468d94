package master

import "context"

// Repository resolves master-data references for filtering and grouping.
type Repository interface {
	// ResolveEmployee returns the employee with its area and branch, or
	// ErrEmployeeNotFound when the reference is stale.
	ResolveEmployee(ctx context.Context, employeeID string) (Employee, error)

	// ResolveDevice returns the device with its branch for device-scoped
	// queries, or ErrDeviceNotFound.
	ResolveDevice(ctx context.Context, deviceID string) (Device, error)

	// ListActiveEmployees returns the active employees of a branch, or of
	// every branch when branchID is nil.
	ListActiveEmployees(ctx context.Context, branchID *string) ([]Employee, error)

	// GetBranch returns a branch by id, or ErrBranchNotFound.
	GetBranch(ctx context.Context, id string) (Branch, error)

	// ListBranches returns all branches.
	ListBranches(ctx context.Context) ([]Branch, error)
}
