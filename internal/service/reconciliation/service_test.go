package reconciliation

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HansOr04/testing-sub002/internal/domain/attendance"
	"github.com/HansOr04/testing-sub002/internal/domain/master"
	"github.com/HansOr04/testing-sub002/internal/domain/punch"
	"github.com/HansOr04/testing-sub002/internal/domain/schedule"
)

// ===== IN-MEMORY FAKES =====

type fakeRecordRepo struct {
	mu      sync.Mutex
	records map[string]attendance.Record

	// createErrFor injects a Create failure for one employee id.
	createErrFor string
}

func newFakeRecordRepo() *fakeRecordRepo {
	return &fakeRecordRepo{records: map[string]attendance.Record{}}
}

func (f *fakeRecordRepo) Create(_ context.Context, rec attendance.Record) (attendance.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErrFor != "" && rec.EmployeeID == f.createErrFor {
		return attendance.Record{}, errors.New("storage unavailable")
	}
	rec.ID = uuid.NewString()
	now := time.Now().UTC()
	rec.CreatedAt = now
	rec.UpdatedAt = now
	if rec.Version == 0 {
		rec.Version = 1
	}
	f.records[rec.ID] = rec
	return rec, nil
}

func (f *fakeRecordRepo) GetByID(_ context.Context, id string) (attendance.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.records[id]
	if !ok {
		return attendance.Record{}, attendance.ErrRecordNotFound
	}
	return rec, nil
}

func (f *fakeRecordRepo) GetByEmployeeAndDate(_ context.Context, employeeID string, date time.Time) (*attendance.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, rec := range f.records {
		if rec.EmployeeID == employeeID && rec.Date.Equal(date) && !rec.IsDeleted() {
			r := rec
			return &r, nil
		}
	}
	return nil, nil
}

func (f *fakeRecordRepo) ListByEmployeeRange(_ context.Context, employeeID string, from, to time.Time) ([]attendance.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []attendance.Record
	for _, rec := range f.records {
		if rec.EmployeeID == employeeID && !rec.IsDeleted() && !rec.Date.Before(from) && !rec.Date.After(to) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (f *fakeRecordRepo) ListByBranchRange(_ context.Context, _ string, from, to time.Time, _, _ int) ([]attendance.Record, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []attendance.Record
	for _, rec := range f.records {
		if !rec.IsDeleted() && !rec.Date.Before(from) && !rec.Date.After(to) {
			out = append(out, rec)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeRecordRepo) Update(_ context.Context, rec attendance.Record, expectedVersion int64) (attendance.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.records[rec.ID]
	if !ok {
		return attendance.Record{}, attendance.ErrRecordNotFound
	}
	if stored.Version != expectedVersion {
		return attendance.Record{}, attendance.ErrVersionConflict
	}
	rec.UpdatedAt = time.Now().UTC()
	f.records[rec.ID] = rec
	return rec, nil
}

func (f *fakeRecordRepo) ApplyPatch(_ context.Context, id string, expectedVersion int64, patch attendance.Patch, modifiedBy string) (attendance.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.records[id]
	if !ok {
		return attendance.Record{}, attendance.ErrRecordNotFound
	}
	if stored.Version != expectedVersion {
		return attendance.Record{}, attendance.ErrVersionConflict
	}
	rec := patch.Apply(stored)
	rec.Touch(modifiedBy, time.Now().UTC())
	rec.UpdatedAt = time.Now().UTC()
	f.records[id] = rec
	return rec, nil
}

func (f *fakeRecordRepo) SoftDelete(_ context.Context, id string, deletedBy string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.records[id]
	if !ok {
		return attendance.ErrRecordNotFound
	}
	now := time.Now().UTC()
	rec.DeletedAt = &now
	rec.Touch(deletedBy, now)
	f.records[id] = rec
	return nil
}

func (f *fakeRecordRepo) FindDuplicateCandidates(_ context.Context, employeeID string, date time.Time) ([]attendance.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []attendance.Record
	for _, rec := range f.records {
		if rec.EmployeeID == employeeID && rec.Date.Equal(date) && !rec.IsDeleted() {
			out = append(out, rec)
		}
	}
	return out, nil
}

type fakeEventRepo struct {
	mu     sync.Mutex
	events map[string]punch.Event
}

func newFakeEventRepo(events ...punch.Event) *fakeEventRepo {
	f := &fakeEventRepo{events: map[string]punch.Event{}}
	for _, ev := range events {
		f.events[ev.ID] = ev
	}
	return f
}

func (f *fakeEventRepo) Create(_ context.Context, ev punch.Event) (punch.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	f.events[ev.ID] = ev
	return ev, nil
}

func (f *fakeEventRepo) GetUnprocessed(_ context.Context, employeeID string, date time.Time) ([]punch.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []punch.Event
	for _, ev := range f.events {
		if ev.EmployeeID == employeeID && !ev.Processed && ev.Date().Equal(date) {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (f *fakeEventRepo) ListEmployeesWithUnprocessed(_ context.Context, date time.Time, _ *string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	seen := map[string]bool{}
	var out []string
	for _, ev := range f.events {
		if !ev.Processed && ev.Date().Equal(date) && !seen[ev.EmployeeID] {
			seen[ev.EmployeeID] = true
			out = append(out, ev.EmployeeID)
		}
	}
	return out, nil
}

func (f *fakeEventRepo) MarkProcessed(_ context.Context, eventIDs []string, recordID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, id := range eventIDs {
		ev, ok := f.events[id]
		if !ok {
			return punch.ErrEventNotFound
		}
		ev.Processed = true
		ev.RecordID = &recordID
		f.events[id] = ev
	}
	return nil
}

func (f *fakeEventRepo) unprocessedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, ev := range f.events {
		if !ev.Processed {
			n++
		}
	}
	return n
}

type fakeMasterRepo struct {
	employees map[string]master.Employee
}

func newFakeMasterRepo(ids ...string) *fakeMasterRepo {
	f := &fakeMasterRepo{employees: map[string]master.Employee{}}
	for _, id := range ids {
		f.employees[id] = master.Employee{ID: id, BranchID: "branch-1", AreaID: "area-1", FullName: "Employee " + id, Active: true}
	}
	return f
}

func (f *fakeMasterRepo) ResolveEmployee(_ context.Context, id string) (master.Employee, error) {
	emp, ok := f.employees[id]
	if !ok {
		return master.Employee{}, master.ErrEmployeeNotFound
	}
	return emp, nil
}

func (f *fakeMasterRepo) ResolveDevice(_ context.Context, id string) (master.Device, error) {
	return master.Device{ID: id, BranchID: "branch-1", Active: true}, nil
}

func (f *fakeMasterRepo) ListActiveEmployees(_ context.Context, _ *string) ([]master.Employee, error) {
	var out []master.Employee
	for _, emp := range f.employees {
		out = append(out, emp)
	}
	return out, nil
}

func (f *fakeMasterRepo) GetBranch(_ context.Context, id string) (master.Branch, error) {
	return master.Branch{ID: id, Name: "Main"}, nil
}

func (f *fakeMasterRepo) ListBranches(_ context.Context) ([]master.Branch, error) {
	return []master.Branch{{ID: "branch-1", Name: "Main"}}, nil
}

// ===== FIXTURES =====

func punchAt(id, employeeID string, movement punch.MovementType, day time.Time, hour, minute int) punch.Event {
	return punch.Event{
		ID:         id,
		EmployeeID: employeeID,
		DeviceID:   "device-1",
		Movement:   movement,
		Timestamp:  time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, time.UTC),
		CreatedAt:  time.Now().UTC(),
	}
}

func newTestService(t *testing.T, records *fakeRecordRepo, events *fakeEventRepo, masters *fakeMasterRepo) attendance.ReconciliationService {
	t.Helper()
	svc, err := NewService(records, events, masters, schedule.DefaultShiftConfig())
	require.NoError(t, err)
	return svc
}

// ===== RECONCILE DAY =====

func TestReconcileDay_FullDay(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	records := newFakeRecordRepo()
	events := newFakeEventRepo(
		punchAt("e1", "emp-1", punch.MovementEntry, monday, 8, 0),
		punchAt("e2", "emp-1", punch.MovementExit, monday, 18, 0),
	)
	svc := newTestService(t, records, events, newFakeMasterRepo("emp-1"))

	result, err := svc.ReconcileDay(ctx, attendance.ReconcileDayRequest{EmployeeID: "emp-1", Date: "2025-06-02"})
	require.NoError(t, err)

	assert.Equal(t, attendance.StatusPending, result.Status)
	assert.Equal(t, 8.0, result.Hours.Regular)
	assert.Equal(t, 1.0, result.Hours.Recargo25)
	assert.Equal(t, 2, result.EventsProcessed)
	assert.Empty(t, result.Issues)

	rec, err := records.GetByID(ctx, result.RecordID)
	require.NoError(t, err)
	assert.Equal(t, 60, rec.LunchMinutes)
	assert.Equal(t, 8, rec.Entry.Hour())
	assert.Equal(t, 18, rec.Exit.Hour())
	assert.Equal(t, 0, events.unprocessedCount())
}

func TestReconcileDay_Idempotent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	records := newFakeRecordRepo()
	events := newFakeEventRepo(
		punchAt("e1", "emp-1", punch.MovementEntry, monday, 8, 0),
		punchAt("e2", "emp-1", punch.MovementExit, monday, 17, 0),
	)
	svc := newTestService(t, records, events, newFakeMasterRepo("emp-1"))
	req := attendance.ReconcileDayRequest{EmployeeID: "emp-1", Date: "2025-06-02"}

	first, err := svc.ReconcileDay(ctx, req)
	require.NoError(t, err)

	// Second run sees no unprocessed events and must not spawn a second
	// record or change the hours.
	second, err := svc.ReconcileDay(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, first.RecordID, second.RecordID)

	candidates, err := records.FindDuplicateCandidates(ctx, "emp-1", monday)
	require.NoError(t, err)
	assert.Len(t, candidates, 1)
	assert.Equal(t, first.Hours, candidates[0].Hours)
}

func TestReconcileDay_NoEventsOnScheduledDayIsAbsence(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	records := newFakeRecordRepo()
	svc := newTestService(t, records, newFakeEventRepo(), newFakeMasterRepo("emp-1"))

	result, err := svc.ReconcileDay(ctx, attendance.ReconcileDayRequest{EmployeeID: "emp-1", Date: "2025-06-02"})
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusAbsent, result.Status)
	require.NotEmpty(t, result.RecordID)

	rec, err := records.GetByID(ctx, result.RecordID)
	require.NoError(t, err)
	assert.Equal(t, attendance.HourBuckets{}, rec.Hours)
}

func TestReconcileDay_NoEventsOnRestDayProducesNothing(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	records := newFakeRecordRepo()
	svc := newTestService(t, records, newFakeEventRepo(), newFakeMasterRepo("emp-1"))

	result, err := svc.ReconcileDay(ctx, attendance.ReconcileDayRequest{EmployeeID: "emp-1", Date: "2025-06-01"})
	require.NoError(t, err)
	assert.Empty(t, result.RecordID)
}

func TestReconcileDay_MissingExitStaysPending(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	records := newFakeRecordRepo()
	events := newFakeEventRepo(punchAt("e1", "emp-1", punch.MovementEntry, monday, 8, 0))
	svc := newTestService(t, records, events, newFakeMasterRepo("emp-1"))

	result, err := svc.ReconcileDay(ctx, attendance.ReconcileDayRequest{EmployeeID: "emp-1", Date: "2025-06-02"})
	require.NoError(t, err)

	// PENDING does not promise completion, so an open pair is not a
	// violation yet; the incomplete-pair note still surfaces.
	assert.Equal(t, attendance.StatusPending, result.Status)
	assert.True(t, attendance.HasKind(result.Issues, attendance.IssueIncompletePair))
	assert.Equal(t, 0.0, result.Hours.Regular)
}

func TestReconcileDay_OrphanedEmployeeRepairedAway(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	records := newFakeRecordRepo()
	events := newFakeEventRepo(
		punchAt("e1", "ghost", punch.MovementEntry, monday, 8, 0),
		punchAt("e2", "ghost", punch.MovementExit, monday, 17, 0),
	)
	svc := newTestService(t, records, events, newFakeMasterRepo("emp-1"))

	result, err := svc.ReconcileDay(ctx, attendance.ReconcileDayRequest{EmployeeID: "ghost", Date: "2025-06-02"})
	require.NoError(t, err)
	require.True(t, attendance.HasKind(result.Issues, attendance.IssueOrphanedEmployee))

	rec, err := records.GetByID(ctx, result.RecordID)
	require.NoError(t, err)
	assert.True(t, rec.IsDeleted())
}

func TestReconcileDay_ExtraEventsGoToReview(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	records := newFakeRecordRepo()
	events := newFakeEventRepo(
		punchAt("e1", "emp-1", punch.MovementEntry, monday, 6, 0),
		punchAt("e2", "emp-1", punch.MovementExit, monday, 9, 0),
		punchAt("e3", "emp-1", punch.MovementEntry, monday, 10, 0),
		punchAt("e4", "emp-1", punch.MovementExit, monday, 13, 0),
		punchAt("e5", "emp-1", punch.MovementEntry, monday, 14, 0),
		punchAt("e6", "emp-1", punch.MovementExit, monday, 17, 0),
	)
	svc := newTestService(t, records, events, newFakeMasterRepo("emp-1"))

	result, err := svc.ReconcileDay(ctx, attendance.ReconcileDayRequest{EmployeeID: "emp-1", Date: "2025-06-02"})
	require.NoError(t, err)

	assert.Equal(t, attendance.StatusUnderReview, result.Status)
	assert.Equal(t, 2, result.EventsForReview)
	assert.Equal(t, 4, result.EventsProcessed)
	// Reviewed events stay unprocessed so a human still sees them.
	assert.Equal(t, 2, events.unprocessedCount())
}

func TestReconcileDay_ValidationAndContractFaults(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newTestService(t, newFakeRecordRepo(), newFakeEventRepo(), newFakeMasterRepo("emp-1"))

	_, err := svc.ReconcileDay(ctx, attendance.ReconcileDayRequest{EmployeeID: "", Date: "2025-06-02"})
	assert.Error(t, err)

	_, err = svc.ReconcileDay(ctx, attendance.ReconcileDayRequest{EmployeeID: "emp-1", Date: "02/06/2025"})
	assert.Error(t, err)
}

// ===== RECONCILE RANGE =====

func TestReconcileRange_ProcessesEveryEmployeeDay(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	tuesday := monday.AddDate(0, 0, 1)
	records := newFakeRecordRepo()
	events := newFakeEventRepo(
		punchAt("a1", "emp-1", punch.MovementEntry, monday, 8, 0),
		punchAt("a2", "emp-1", punch.MovementExit, monday, 17, 0),
		punchAt("b1", "emp-2", punch.MovementEntry, monday, 9, 0),
		punchAt("b2", "emp-2", punch.MovementExit, monday, 18, 0),
		punchAt("c1", "emp-1", punch.MovementEntry, tuesday, 8, 0),
		punchAt("c2", "emp-1", punch.MovementExit, tuesday, 17, 0),
	)
	svc := newTestService(t, records, events, newFakeMasterRepo("emp-1", "emp-2"))

	result, err := svc.ReconcileRange(ctx, attendance.ReconcileRangeRequest{From: "2025-06-02", To: "2025-06-03", ChunkSize: 2})
	require.NoError(t, err)

	assert.Equal(t, 3, result.Processed)
	assert.Equal(t, 0, result.Failed)
	assert.Len(t, result.Outcomes, 3)
	assert.Equal(t, 0, events.unprocessedCount())
}

func TestReconcileRange_OneBadDayDoesNotAbortTheBatch(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	records := newFakeRecordRepo()
	records.createErrFor = "emp-2"
	events := newFakeEventRepo(
		punchAt("a1", "emp-1", punch.MovementEntry, monday, 8, 0),
		punchAt("a2", "emp-1", punch.MovementExit, monday, 17, 0),
		punchAt("b1", "emp-2", punch.MovementEntry, monday, 9, 0),
		punchAt("b2", "emp-2", punch.MovementExit, monday, 18, 0),
	)
	svc := newTestService(t, records, events, newFakeMasterRepo("emp-1", "emp-2"))

	result, err := svc.ReconcileRange(ctx, attendance.ReconcileRangeRequest{From: "2025-06-02", To: "2025-06-02"})
	require.NoError(t, err)
	require.Len(t, result.Outcomes, 2)
	assert.Equal(t, 1, result.Processed)
	assert.Equal(t, 1, result.Failed)
	for _, outcome := range result.Outcomes {
		if outcome.EmployeeID == "emp-2" {
			assert.Contains(t, outcome.Err, "storage unavailable")
		} else {
			assert.Empty(t, outcome.Err)
		}
	}
}

func TestReconcileRange_HonorsCancellation(t *testing.T) {
	t.Parallel()

	events := newFakeEventRepo(
		punchAt("a1", "emp-1", punch.MovementEntry, monday, 8, 0),
	)
	svc := newTestService(t, newFakeRecordRepo(), events, newFakeMasterRepo("emp-1"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := svc.ReconcileRange(ctx, attendance.ReconcileRangeRequest{From: "2025-06-02", To: "2025-06-02"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestReconcileRange_RejectsInvertedRange(t *testing.T) {
	t.Parallel()
	svc := newTestService(t, newFakeRecordRepo(), newFakeEventRepo(), newFakeMasterRepo())

	_, err := svc.ReconcileRange(context.Background(), attendance.ReconcileRangeRequest{From: "2025-06-10", To: "2025-06-02"})
	assert.Error(t, err)
}

// ===== REVIEW OPERATIONS =====

func seedRecord(t *testing.T, records *fakeRecordRepo, rec attendance.Record) attendance.Record {
	t.Helper()
	created, err := records.Create(context.Background(), rec)
	require.NoError(t, err)
	return created
}

func TestApproveRecord(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	records := newFakeRecordRepo()
	svc := newTestService(t, records, newFakeEventRepo(), newFakeMasterRepo("emp-1"))

	rec := seedRecord(t, records, attendance.Record{
		EmployeeID: "emp-1",
		Date:       monday,
		Entry:      at(monday, 8, 0),
		Exit:       at(monday, 17, 0),
		Status:     attendance.StatusPending,
		Hours:      attendance.HourBuckets{Regular: 8},
	})

	resp, err := svc.ApproveRecord(ctx, rec.ID, "supervisor-1")
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusComplete, resp.Status)
	assert.Equal(t, rec.Version+1, resp.Version)
	require.NotNil(t, resp.ModifiedBy)
	assert.Equal(t, "supervisor-1", *resp.ModifiedBy)
}

func TestApproveRecord_RejectsIncompletePair(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	records := newFakeRecordRepo()
	svc := newTestService(t, records, newFakeEventRepo(), newFakeMasterRepo("emp-1"))

	rec := seedRecord(t, records, attendance.Record{
		EmployeeID: "emp-1",
		Date:       monday,
		Entry:      at(monday, 8, 0),
		Status:     attendance.StatusPending,
	})

	_, err := svc.ApproveRecord(ctx, rec.ID, "supervisor-1")
	assert.ErrorIs(t, err, attendance.ErrIncompleteForApproval)
}

func TestApproveRecord_InvalidTransition(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	records := newFakeRecordRepo()
	svc := newTestService(t, records, newFakeEventRepo(), newFakeMasterRepo("emp-1"))

	rec := seedRecord(t, records, attendance.Record{
		EmployeeID: "emp-1",
		Date:       monday,
		Entry:      at(monday, 8, 0),
		Exit:       at(monday, 17, 0),
		Status:     attendance.StatusAbsent,
	})

	_, err := svc.ApproveRecord(ctx, rec.ID, "supervisor-1")
	assert.ErrorIs(t, err, attendance.ErrInvalidTransition)
}

func TestRejectRecord(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	records := newFakeRecordRepo()
	svc := newTestService(t, records, newFakeEventRepo(), newFakeMasterRepo("emp-1"))

	rec := seedRecord(t, records, attendance.Record{
		EmployeeID: "emp-1",
		Date:       monday,
		Entry:      at(monday, 8, 0),
		Exit:       at(monday, 17, 0),
		Status:     attendance.StatusUnderReview,
	})

	resp, err := svc.RejectRecord(ctx, attendance.RejectRecordRequest{ID: rec.ID, Reason: "device clock skew"}, "supervisor-1")
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusInconsistent, resp.Status)
	assert.Contains(t, resp.Notes, "device clock skew")
}

func TestUpdateRecord_ReclassifiesHours(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	records := newFakeRecordRepo()
	svc := newTestService(t, records, newFakeEventRepo(), newFakeMasterRepo("emp-1"))

	rec := seedRecord(t, records, attendance.Record{
		EmployeeID: "emp-1",
		Date:       monday,
		Entry:      at(monday, 8, 0),
		Exit:       at(monday, 17, 0),
		Status:     attendance.StatusPending,
		Hours:      attendance.HourBuckets{Regular: 8},
	})

	exit := "18:00"
	resp, err := svc.UpdateRecord(ctx, attendance.UpdateRecordRequest{
		ID:      rec.ID,
		Version: rec.Version,
		Exit:    &exit,
	}, "supervisor-1")
	require.NoError(t, err)

	assert.Equal(t, attendance.StatusModified, resp.Status)
	assert.True(t, resp.ManualEntry)
	assert.Equal(t, 8.0, resp.Regular)
	assert.Equal(t, 1.0, resp.Recargo25)
}

func TestUpdateRecord_VersionConflict(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	records := newFakeRecordRepo()
	svc := newTestService(t, records, newFakeEventRepo(), newFakeMasterRepo("emp-1"))

	rec := seedRecord(t, records, attendance.Record{
		EmployeeID: "emp-1",
		Date:       monday,
		Entry:      at(monday, 8, 0),
		Exit:       at(monday, 17, 0),
		Status:     attendance.StatusPending,
	})

	exit := "18:00"
	_, err := svc.UpdateRecord(ctx, attendance.UpdateRecordRequest{
		ID:      rec.ID,
		Version: rec.Version + 7,
		Exit:    &exit,
	}, "supervisor-1")
	assert.ErrorIs(t, err, attendance.ErrVersionConflict)
}

func TestUpdateRecord_EmptyPatch(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	records := newFakeRecordRepo()
	svc := newTestService(t, records, newFakeEventRepo(), newFakeMasterRepo("emp-1"))

	rec := seedRecord(t, records, attendance.Record{
		EmployeeID: "emp-1",
		Date:       monday,
		Status:     attendance.StatusPending,
	})

	_, err := svc.UpdateRecord(ctx, attendance.UpdateRecordRequest{ID: rec.ID, Version: rec.Version}, "supervisor-1")
	assert.ErrorIs(t, err, attendance.ErrEmptyPatch)
}

func TestDeleteRecord_SoftDeletes(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	records := newFakeRecordRepo()
	svc := newTestService(t, records, newFakeEventRepo(), newFakeMasterRepo("emp-1"))

	rec := seedRecord(t, records, attendance.Record{
		EmployeeID: "emp-1",
		Date:       monday,
		Status:     attendance.StatusPending,
	})

	require.NoError(t, svc.DeleteRecord(ctx, rec.ID, "supervisor-1"))

	stored, err := records.GetByID(ctx, rec.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsDeleted())

	// Deleting an unknown record surfaces not-found, not a silent no-op.
	err = svc.DeleteRecord(ctx, uuid.NewString(), "supervisor-1")
	assert.ErrorIs(t, err, attendance.ErrRecordNotFound)
}

// ===== CHECK AND REPAIR =====

func TestCheckAndRepairRecords_EndToEnd(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	records := newFakeRecordRepo()
	svc := newTestService(t, records, newFakeEventRepo(), newFakeMasterRepo("emp-1"))

	// COMPLETE with a missing exit: flagged, then repaired to INCONSISTENT.
	rec := seedRecord(t, records, attendance.Record{
		EmployeeID: "emp-1",
		Date:       monday,
		Entry:      at(monday, 8, 0),
		Status:     attendance.StatusComplete,
		Hours:      attendance.HourBuckets{Regular: 4},
	})

	issues, err := svc.CheckRecord(ctx, rec.ID)
	require.NoError(t, err)
	require.True(t, attendance.HasKind(issues, attendance.IssueIncompletePair))

	outcomes, err := svc.RepairRecords(ctx, []string{rec.ID})
	require.NoError(t, err)
	require.Len(t, outcomes, 1)
	assert.True(t, outcomes[0].Repaired)

	repaired, err := records.GetByID(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusInconsistent, repaired.Status)
	assert.Equal(t, 4.0, repaired.Hours.Regular)

	// A second pass finds the record already consistent with its flags.
	outcomes, err = svc.RepairRecords(ctx, []string{rec.ID})
	require.NoError(t, err)
	assert.False(t, outcomes[0].Repaired)
}

func TestRepairRecords_SoftDeletesDuplicates(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	records := newFakeRecordRepo()
	svc := newTestService(t, records, newFakeEventRepo(), newFakeMasterRepo("emp-1"))

	first := seedRecord(t, records, attendance.Record{
		EmployeeID: "emp-1",
		Date:       monday,
		Entry:      at(monday, 8, 0),
		Exit:       at(monday, 17, 0),
		Status:     attendance.StatusComplete,
	})
	// Force a later creation time on the duplicate so the survivor is
	// deterministic.
	dup := seedRecord(t, records, attendance.Record{
		EmployeeID: "emp-1",
		Date:       monday,
		Entry:      at(monday, 8, 2),
		Exit:       at(monday, 17, 0),
		Status:     attendance.StatusComplete,
	})
	stored := records.records[dup.ID]
	stored.CreatedAt = records.records[first.ID].CreatedAt.Add(time.Minute)
	records.records[dup.ID] = stored

	outcomes, err := svc.RepairRecords(ctx, []string{first.ID, dup.ID})
	require.NoError(t, err)
	require.Len(t, outcomes, 2)
	assert.False(t, outcomes[0].Repaired)
	assert.True(t, outcomes[1].Repaired)

	survivor, err := records.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.False(t, survivor.IsDeleted())
	deleted, err := records.GetByID(ctx, dup.ID)
	require.NoError(t, err)
	assert.True(t, deleted.IsDeleted())
}

func TestCheckRecord_UnknownID(t *testing.T) {
	t.Parallel()
	svc := newTestService(t, newFakeRecordRepo(), newFakeEventRepo(), newFakeMasterRepo())

	_, err := svc.CheckRecord(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, attendance.ErrRecordNotFound)
}

// ===== LISTING =====

func TestGetAndListRecords(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	records := newFakeRecordRepo()
	svc := newTestService(t, records, newFakeEventRepo(), newFakeMasterRepo("emp-1"))

	var seeded []attendance.Record
	for day := 2; day <= 4; day++ {
		d := time.Date(2025, 6, day, 0, 0, 0, 0, time.UTC)
		seeded = append(seeded, seedRecord(t, records, attendance.Record{
			EmployeeID: "emp-1",
			Date:       d,
			Status:     attendance.StatusComplete,
			Hours:      attendance.HourBuckets{Regular: 8},
		}))
	}

	resp, err := svc.GetRecord(ctx, seeded[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "2025-06-02", resp.Date)
	assert.Equal(t, 8.0, resp.Regular)

	list, total, err := svc.ListRecords(ctx, "branch-1", monday, monday.AddDate(0, 0, 2), 50, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, list, 3)
}
