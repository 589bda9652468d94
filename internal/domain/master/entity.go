package master

import "time"

// Branch is a physical site of the organization.
type Branch struct {
	ID        string
	Name      string
	Timezone  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Area is a working area inside a branch.
type Area struct {
	ID        string
	BranchID  string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Employee is the master-data identity a punch event references.
type Employee struct {
	ID        string
	AreaID    string
	BranchID  string
	FullName  string
	Code      string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Device is a biometric terminal mounted at a branch.
type Device struct {
	ID        string
	BranchID  string
	Name      string
	Model     string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
