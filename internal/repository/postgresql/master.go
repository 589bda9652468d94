package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/HansOr04/testing-sub002/internal/domain/master"
	"github.com/HansOr04/testing-sub002/internal/pkg/database"
)

type masterRepository struct {
	db *database.DB
}

func NewMasterRepository(db *database.DB) master.Repository {
	return &masterRepository{db: db}
}

// ResolveEmployee implements master.Repository.
func (m *masterRepository) ResolveEmployee(ctx context.Context, employeeID string) (master.Employee, error) {
	q := GetQuerier(ctx, m.db)

	query := `
		SELECT id, area_id, branch_id, full_name, code, active, created_at, updated_at
		FROM employees
		WHERE id = $1
		  AND active = TRUE
	`

	var emp master.Employee
	err := q.QueryRow(ctx, query, employeeID).Scan(
		&emp.ID, &emp.AreaID, &emp.BranchID, &emp.FullName, &emp.Code, &emp.Active,
		&emp.CreatedAt, &emp.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return master.Employee{}, master.ErrEmployeeNotFound
		}
		return master.Employee{}, fmt.Errorf("failed to resolve employee: %w", err)
	}

	return emp, nil
}

// ResolveDevice implements master.Repository.
func (m *masterRepository) ResolveDevice(ctx context.Context, deviceID string) (master.Device, error) {
	q := GetQuerier(ctx, m.db)

	query := `
		SELECT id, branch_id, name, model, active, created_at, updated_at
		FROM devices
		WHERE id = $1
	`

	var dev master.Device
	err := q.QueryRow(ctx, query, deviceID).Scan(
		&dev.ID, &dev.BranchID, &dev.Name, &dev.Model, &dev.Active,
		&dev.CreatedAt, &dev.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return master.Device{}, master.ErrDeviceNotFound
		}
		return master.Device{}, fmt.Errorf("failed to resolve device: %w", err)
	}

	return dev, nil
}

// ListActiveEmployees implements master.Repository.
func (m *masterRepository) ListActiveEmployees(ctx context.Context, branchID *string) ([]master.Employee, error) {
	q := GetQuerier(ctx, m.db)

	query := `
		SELECT id, area_id, branch_id, full_name, code, active, created_at, updated_at
		FROM employees
		WHERE active = TRUE
	`
	args := []interface{}{}
	if branchID != nil {
		query += `
		  AND branch_id = $1`
		args = append(args, *branchID)
	}
	query += `
		ORDER BY full_name ASC`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list active employees: %w", err)
	}
	defer rows.Close()

	var employees []master.Employee
	for rows.Next() {
		var emp master.Employee
		err := rows.Scan(&emp.ID, &emp.AreaID, &emp.BranchID, &emp.FullName, &emp.Code, &emp.Active, &emp.CreatedAt, &emp.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, emp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read employees: %w", err)
	}

	return employees, nil
}

// GetBranch implements master.Repository.
func (m *masterRepository) GetBranch(ctx context.Context, id string) (master.Branch, error) {
	q := GetQuerier(ctx, m.db)

	query := `
		SELECT id, name, timezone, created_at, updated_at
		FROM branches
		WHERE id = $1
	`

	var b master.Branch
	err := q.QueryRow(ctx, query, id).Scan(&b.ID, &b.Name, &b.Timezone, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return master.Branch{}, master.ErrBranchNotFound
		}
		return master.Branch{}, fmt.Errorf("failed to get branch: %w", err)
	}

	return b, nil
}

// ListBranches implements master.Repository.
func (m *masterRepository) ListBranches(ctx context.Context) ([]master.Branch, error) {
	q := GetQuerier(ctx, m.db)

	query := `
		SELECT id, name, timezone, created_at, updated_at
		FROM branches
		ORDER BY name ASC
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list branches: %w", err)
	}
	defer rows.Close()

	var branches []master.Branch
	for rows.Next() {
		var b master.Branch
		if err := rows.Scan(&b.ID, &b.Name, &b.Timezone, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan branch: %w", err)
		}
		branches = append(branches, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read branches: %w", err)
	}

	return branches, nil
}
