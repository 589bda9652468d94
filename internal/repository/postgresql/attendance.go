package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/HansOr04/testing-sub002/internal/domain/attendance"
	"github.com/HansOr04/testing-sub002/internal/pkg/database"
)

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.RecordRepository {
	return &attendanceRepository{db: db}
}

const recordColumns = `
	id, employee_id, date,
	entry, exit, entry2, exit2,
	lunch_minutes,
	regular_hours, overtime_total, recargo25, suplementario50, extraordinario100, nocturnas,
	status, manual_entry, notes, config_version,
	modified_by, modified_at, deleted_at, version,
	created_at, updated_at
`

func scanRecord(row pgx.Row) (attendance.Record, error) {
	var rec attendance.Record
	var status string
	err := row.Scan(
		&rec.ID, &rec.EmployeeID, &rec.Date,
		&rec.Entry, &rec.Exit, &rec.Entry2, &rec.Exit2,
		&rec.LunchMinutes,
		&rec.Hours.Regular, &rec.Hours.OvertimeTotal, &rec.Hours.Recargo25,
		&rec.Hours.Suplementario50, &rec.Hours.Extraordinario100, &rec.Hours.Nocturnas,
		&status, &rec.ManualEntry, &rec.Notes, &rec.ConfigVersion,
		&rec.ModifiedBy, &rec.ModifiedAt, &rec.DeletedAt, &rec.Version,
		&rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		return attendance.Record{}, err
	}
	rec.Status = attendance.Status(status)
	return rec, nil
}

// Create implements attendance.RecordRepository.
func (a *attendanceRepository) Create(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		INSERT INTO attendance_records (
			employee_id, date,
			entry, exit, entry2, exit2,
			lunch_minutes,
			regular_hours, overtime_total, recargo25, suplementario50, extraordinario100, nocturnas,
			status, manual_entry, notes, config_version, version
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18
		) RETURNING id, version, created_at, updated_at
	`

	version := rec.Version
	if version == 0 {
		version = 1
	}

	err := q.QueryRow(ctx, query,
		rec.EmployeeID,
		rec.Date,
		rec.Entry,
		rec.Exit,
		rec.Entry2,
		rec.Exit2,
		rec.LunchMinutes,
		rec.Hours.Regular,
		rec.Hours.OvertimeTotal,
		rec.Hours.Recargo25,
		rec.Hours.Suplementario50,
		rec.Hours.Extraordinario100,
		rec.Hours.Nocturnas,
		string(rec.Status),
		rec.ManualEntry,
		rec.Notes,
		rec.ConfigVersion,
		version,
	).Scan(&rec.ID, &rec.Version, &rec.CreatedAt, &rec.UpdatedAt)

	if err != nil {
		return attendance.Record{}, fmt.Errorf("failed to create attendance record: %w", err)
	}

	return rec, nil
}

// GetByID implements attendance.RecordRepository. Soft-deleted records are
// returned too; repair needs to see them.
func (a *attendanceRepository) GetByID(ctx context.Context, id string) (attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT ` + recordColumns + ` FROM attendance_records WHERE id = $1`

	rec, err := scanRecord(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Record{}, attendance.ErrRecordNotFound
		}
		return attendance.Record{}, fmt.Errorf("failed to get attendance record: %w", err)
	}

	return rec, nil
}

// GetByEmployeeAndDate implements attendance.RecordRepository.
func (a *attendanceRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + recordColumns + `
		FROM attendance_records
		WHERE employee_id = $1
		  AND date = $2
		  AND deleted_at IS NULL
		LIMIT 1
	`

	rec, err := scanRecord(q.QueryRow(ctx, query, employeeID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get attendance record by employee and date: %w", err)
	}

	return &rec, nil
}

// ListByEmployeeRange implements attendance.RecordRepository.
func (a *attendanceRepository) ListByEmployeeRange(ctx context.Context, employeeID string, from, to time.Time) ([]attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + recordColumns + `
		FROM attendance_records
		WHERE employee_id = $1
		  AND date BETWEEN $2 AND $3
		  AND deleted_at IS NULL
		ORDER BY date ASC
	`

	rows, err := q.Query(ctx, query, employeeID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance records: %w", err)
	}
	defer rows.Close()

	return collectRecords(rows)
}

// ListByBranchRange implements attendance.RecordRepository. The branch scope
// goes through the employees table; records only carry the employee id.
func (a *attendanceRepository) ListByBranchRange(ctx context.Context, branchID string, from, to time.Time, limit, offset int) ([]attendance.Record, int64, error) {
	q := GetQuerier(ctx, a.db)

	countQuery := `
		SELECT COUNT(*)
		FROM attendance_records ar
		JOIN employees e ON e.id = ar.employee_id
		WHERE e.branch_id = $1
		  AND ar.date BETWEEN $2 AND $3
		  AND ar.deleted_at IS NULL
	`
	var total int64
	if err := q.QueryRow(ctx, countQuery, branchID, from, to).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendance records: %w", err)
	}

	query := `
		SELECT ` + prefixColumns("ar", recordColumns) + `
		FROM attendance_records ar
		JOIN employees e ON e.id = ar.employee_id
		WHERE e.branch_id = $1
		  AND ar.date BETWEEN $2 AND $3
		  AND ar.deleted_at IS NULL
		ORDER BY ar.date ASC, ar.employee_id ASC
		LIMIT $4 OFFSET $5
	`

	rows, err := q.Query(ctx, query, branchID, from, to, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list attendance records by branch: %w", err)
	}
	defer rows.Close()

	records, err := collectRecords(rows)
	if err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

// Update implements attendance.RecordRepository. The WHERE clause carries the
// optimistic version check; zero affected rows on an existing record means a
// concurrent writer won.
func (a *attendanceRepository) Update(ctx context.Context, rec attendance.Record, expectedVersion int64) (attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendance_records SET
			entry = $1, exit = $2, entry2 = $3, exit2 = $4,
			lunch_minutes = $5,
			regular_hours = $6, overtime_total = $7, recargo25 = $8,
			suplementario50 = $9, extraordinario100 = $10, nocturnas = $11,
			status = $12, manual_entry = $13, notes = $14, config_version = $15,
			modified_by = $16, modified_at = $17, deleted_at = $18,
			version = $19, updated_at = NOW()
		WHERE id = $20 AND version = $21
		RETURNING updated_at
	`

	err := q.QueryRow(ctx, query,
		rec.Entry, rec.Exit, rec.Entry2, rec.Exit2,
		rec.LunchMinutes,
		rec.Hours.Regular, rec.Hours.OvertimeTotal, rec.Hours.Recargo25,
		rec.Hours.Suplementario50, rec.Hours.Extraordinario100, rec.Hours.Nocturnas,
		string(rec.Status), rec.ManualEntry, rec.Notes, rec.ConfigVersion,
		rec.ModifiedBy, rec.ModifiedAt, rec.DeletedAt,
		rec.Version,
		rec.ID, expectedVersion,
	).Scan(&rec.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Record{}, a.conflictOrMissing(ctx, rec.ID)
		}
		return attendance.Record{}, fmt.Errorf("failed to update attendance record: %w", err)
	}

	return rec, nil
}

// ApplyPatch implements attendance.RecordRepository. Read and write run in
// one transaction so the version check and the patched write are atomic.
func (a *attendanceRepository) ApplyPatch(ctx context.Context, id string, expectedVersion int64, patch attendance.Patch, modifiedBy string) (attendance.Record, error) {
	var updated attendance.Record

	err := WithTransaction(ctx, a.db, func(tx pgx.Tx) error {
		txCtx := ContextWithTx(ctx, tx)

		rec, err := a.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		if rec.IsDeleted() {
			return attendance.ErrRecordDeleted
		}
		if rec.Version != expectedVersion {
			return attendance.ErrVersionConflict
		}

		next := patch.Apply(rec)
		next.Touch(modifiedBy, time.Now().UTC())

		updated, err = a.Update(txCtx, next, expectedVersion)
		return err
	})
	if err != nil {
		return attendance.Record{}, err
	}

	return updated, nil
}

// SoftDelete implements attendance.RecordRepository. Deleting an already
// deleted record is a no-op so repair stays idempotent.
func (a *attendanceRepository) SoftDelete(ctx context.Context, id string, deletedBy string) error {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendance_records SET
			deleted_at = NOW(),
			modified_by = $1, modified_at = NOW(),
			version = version + 1, updated_at = NOW()
		WHERE id = $2 AND deleted_at IS NULL
	`

	tag, err := q.Exec(ctx, query, deletedBy, id)
	if err != nil {
		return fmt.Errorf("failed to soft delete attendance record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		exists, err := a.exists(ctx, id)
		if err != nil {
			return err
		}
		if !exists {
			return attendance.ErrRecordNotFound
		}
	}
	return nil
}

// FindDuplicateCandidates implements attendance.RecordRepository.
func (a *attendanceRepository) FindDuplicateCandidates(ctx context.Context, employeeID string, date time.Time) ([]attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + recordColumns + `
		FROM attendance_records
		WHERE employee_id = $1
		  AND date = $2
		  AND deleted_at IS NULL
		ORDER BY created_at ASC, id ASC
	`

	rows, err := q.Query(ctx, query, employeeID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to find duplicate candidates: %w", err)
	}
	defer rows.Close()

	return collectRecords(rows)
}

func (a *attendanceRepository) exists(ctx context.Context, id string) (bool, error) {
	q := GetQuerier(ctx, a.db)
	var exists bool
	err := q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM attendance_records WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check attendance record existence: %w", err)
	}
	return exists, nil
}

// conflictOrMissing disambiguates a zero-row optimistic update.
func (a *attendanceRepository) conflictOrMissing(ctx context.Context, id string) error {
	exists, err := a.exists(ctx, id)
	if err != nil {
		return err
	}
	if exists {
		return attendance.ErrVersionConflict
	}
	return attendance.ErrRecordNotFound
}

func collectRecords(rows pgx.Rows) ([]attendance.Record, error) {
	var records []attendance.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read attendance records: %w", err)
	}
	return records, nil
}

// prefixColumns qualifies a comma-separated column list with a table alias
// for joined queries.
func prefixColumns(alias, columns string) string {
	parts := strings.Split(columns, ",")
	for i, p := range parts {
		parts[i] = alias + "." + strings.TrimSpace(p)
	}
	return strings.Join(parts, ", ")
}
