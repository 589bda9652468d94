package reconciliation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/HansOr04/testing-sub002/internal/domain/attendance"
	"github.com/HansOr04/testing-sub002/internal/domain/master"
	"github.com/HansOr04/testing-sub002/internal/domain/punch"
	"github.com/HansOr04/testing-sub002/internal/domain/schedule"
)

const (
	defaultChunkSize = 50
	maxWorkers       = 8

	// systemActor marks mutations performed by the engine itself.
	systemActor = "reconciliation-engine"
)

type ServiceImpl struct {
	records attendance.RecordRepository
	events  punch.EventRepository
	masters master.Repository
	cfg     schedule.ShiftConfig
}

// NewService wires the reconciliation engine to its collaborators. An
// invalid shift configuration is a caller bug and fails construction.
func NewService(
	records attendance.RecordRepository,
	events punch.EventRepository,
	masters master.Repository,
	cfg schedule.ShiftConfig,
) (attendance.ReconciliationService, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("reconciliation service: %w", err)
	}
	return &ServiceImpl{
		records: records,
		events:  events,
		masters: masters,
		cfg:     cfg,
	}, nil
}

// ReconcileDay implements attendance.ReconciliationService.
func (s *ServiceImpl) ReconcileDay(ctx context.Context, req attendance.ReconcileDayRequest) (attendance.DayResult, error) {
	if err := req.Validate(); err != nil {
		return attendance.DayResult{}, err
	}
	date, _ := time.Parse("2006-01-02", req.Date)

	result := attendance.DayResult{EmployeeID: req.EmployeeID, Date: req.Date}

	employeeKnown := true
	if _, err := s.masters.ResolveEmployee(ctx, req.EmployeeID); err != nil {
		if !errors.Is(err, master.ErrEmployeeNotFound) {
			return attendance.DayResult{}, fmt.Errorf("failed to resolve employee: %w", err)
		}
		employeeKnown = false
	}

	dayEvents, err := s.events.GetUnprocessed(ctx, req.EmployeeID, date)
	if err != nil {
		return attendance.DayResult{}, fmt.Errorf("failed to fetch unprocessed events: %w", err)
	}

	existing, err := s.records.GetByEmployeeAndDate(ctx, req.EmployeeID, date)
	if err != nil {
		return attendance.DayResult{}, fmt.Errorf("failed to fetch existing record: %w", err)
	}

	if len(dayEvents) == 0 && existing == nil {
		// A scheduled day with no punches at all is an absence; rest days
		// produce nothing.
		if s.cfg.IsRestDay(date) {
			return result, nil
		}
		absent, err := s.records.Create(ctx, attendance.Record{
			EmployeeID:    req.EmployeeID,
			Date:          date,
			Status:        attendance.StatusAbsent,
			ConfigVersion: s.cfg.Version,
			Version:       1,
		})
		if err != nil {
			return attendance.DayResult{}, fmt.Errorf("failed to create absence record: %w", err)
		}
		result.RecordID = absent.ID
		result.Status = absent.Status
		return result, nil
	}

	match, err := MatchEvents(dayEvents, s.cfg.DuplicateThresholdMinutes)
	if err != nil {
		return attendance.DayResult{}, err
	}
	result.DuplicateEvents = len(match.Duplicates)
	result.EventsForReview = len(match.ForReview)

	rec := s.buildRecord(existing, req.EmployeeID, date, match)

	// Classification runs over the merged record's pairs, not just the new
	// match, so re-reconciling a day with no fresh events reproduces the
	// stored hours instead of zeroing them.
	buckets, issues, err := ClassifyHours(date, rec.Pairs(), &s.cfg)
	if err != nil {
		return attendance.DayResult{}, err
	}
	if !attendance.HasKind(issues, attendance.IssueTimeOrderViolation) {
		rec.Hours = buckets
	}
	if hasCompletePair(rec.Pairs()) {
		rec.LunchMinutes = s.cfg.LunchMinutes
	}

	if existing == nil {
		rec, err = s.records.Create(ctx, rec)
		if err != nil {
			return attendance.DayResult{}, fmt.Errorf("failed to create record: %w", err)
		}
	} else {
		rec.Touch(systemActor, time.Now().UTC())
		rec, err = s.records.Update(ctx, rec, existing.Version)
		if err != nil {
			return attendance.DayResult{}, fmt.Errorf("failed to update record: %w", err)
		}
	}

	// Validate the persisted record with full context and repair in place.
	rec, checkIssues, err := s.checkAndRepair(ctx, rec, employeeKnown)
	if err != nil {
		return attendance.DayResult{}, err
	}
	issues = append(issues, checkIssues...)

	// Link consumed events (matched and merged duplicates) to the record.
	// Events flagged for review stay unprocessed so they surface to humans.
	consumed := eventIDs(match.Matched, match.Duplicates)
	if len(consumed) > 0 {
		if err := s.events.MarkProcessed(ctx, consumed, rec.ID); err != nil {
			return attendance.DayResult{}, fmt.Errorf("failed to mark events processed: %w", err)
		}
	}

	result.RecordID = rec.ID
	result.Status = rec.Status
	result.Hours = rec.Hours
	result.Issues = issues
	result.EventsProcessed = len(consumed)
	return result, nil
}

// buildRecord merges the match outcome into a fresh or existing record.
func (s *ServiceImpl) buildRecord(existing *attendance.Record, employeeID string, date time.Time, match MatchResult) attendance.Record {
	rec := attendance.Record{
		EmployeeID: employeeID,
		Date:       date,
		Status:     attendance.StatusPending,
		Version:    1,
	}
	if existing != nil {
		rec = *existing
	}

	if len(match.Pairs) > 0 {
		rec.Entry = match.Pairs[0].Entry
		rec.Exit = match.Pairs[0].Exit
	}
	if len(match.Pairs) > 1 {
		rec.Entry2 = match.Pairs[1].Entry
		rec.Exit2 = match.Pairs[1].Exit
	}
	rec.ConfigVersion = s.cfg.Version

	if len(match.InferredIDs) > 0 {
		rec.Notes = appendNote(rec.Notes, fmt.Sprintf("movement type inferred for %d event(s)", len(match.InferredIDs)))
	}
	if len(match.ForReview) > 0 {
		rec.Notes = appendNote(rec.Notes, fmt.Sprintf("%d event(s) flagged for manual review", len(match.ForReview)))
		rec.Status = attendance.StatusUnderReview
	}
	return rec
}

// checkAndRepair runs the consistency predicates over a committed record
// and applies the deterministic repairs. Both halves are idempotent, so
// re-reconciling a day cannot corrupt it.
func (s *ServiceImpl) checkAndRepair(ctx context.Context, rec attendance.Record, employeeKnown bool) (attendance.Record, []attendance.Issue, error) {
	sameDay, err := s.records.FindDuplicateCandidates(ctx, rec.EmployeeID, rec.Date)
	if err != nil {
		return rec, nil, fmt.Errorf("failed to fetch duplicate candidates: %w", err)
	}

	issues := CheckRecord(CheckInput{
		Record:                    rec,
		EmployeeKnown:             employeeKnown,
		SameDayRecords:            sameDay,
		DuplicateThresholdMinutes: s.cfg.DuplicateThresholdMinutes,
	})
	if len(issues) == 0 {
		return rec, nil, nil
	}

	repaired := RepairRecord(rec, issues, systemActor, time.Now().UTC())
	if !repaired.Changed {
		return rec, issues, nil
	}

	if repaired.Record.IsDeleted() && !rec.IsDeleted() {
		if err := s.records.SoftDelete(ctx, rec.ID, systemActor); err != nil {
			return rec, issues, fmt.Errorf("failed to soft delete record: %w", err)
		}
		return repaired.Record, issues, nil
	}

	// RepairRecord already bumped the version; the optimistic check runs
	// against the pre-repair version.
	updated, err := s.records.Update(ctx, repaired.Record, rec.Version)
	if err != nil {
		return rec, issues, fmt.Errorf("failed to persist repair: %w", err)
	}
	return updated, issues, nil
}

// ReconcileRange implements attendance.ReconciliationService. Employee-days
// are independent, so each chunk runs on a bounded worker pool;
// cancellation is honored between chunks, and every chunk commit is
// idempotent per employee-day, so a failed chunk never corrupts or
// re-processes committed ones.
func (s *ServiceImpl) ReconcileRange(ctx context.Context, req attendance.ReconcileRangeRequest) (attendance.RangeResult, error) {
	if err := req.Validate(); err != nil {
		return attendance.RangeResult{}, err
	}
	from, _ := time.Parse("2006-01-02", req.From)
	to, _ := time.Parse("2006-01-02", req.To)

	chunkSize := req.ChunkSize
	if chunkSize <= 0 {
		chunkSize = defaultChunkSize
	}

	var items []attendance.ReconcileDayRequest
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		employeeIDs, err := s.events.ListEmployeesWithUnprocessed(ctx, d, req.BranchID)
		if err != nil {
			return attendance.RangeResult{}, fmt.Errorf("failed to list employees with unprocessed events: %w", err)
		}
		for _, id := range employeeIDs {
			items = append(items, attendance.ReconcileDayRequest{EmployeeID: id, Date: d.Format("2006-01-02")})
		}
	}

	var result attendance.RangeResult
	for start := 0; start < len(items); start += chunkSize {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		end := start + chunkSize
		if end > len(items) {
			end = len(items)
		}
		outcomes := s.reconcileChunk(ctx, items[start:end])
		for _, o := range outcomes {
			if o.Err != "" {
				result.Failed++
			} else {
				result.Processed++
			}
		}
		result.Outcomes = append(result.Outcomes, outcomes...)
	}
	return result, nil
}

// reconcileChunk fans a chunk out over the worker pool and keeps outcomes
// in input order. One bad employee-day never aborts its chunk.
func (s *ServiceImpl) reconcileChunk(ctx context.Context, items []attendance.ReconcileDayRequest) []attendance.DayOutcome {
	outcomes := make([]attendance.DayOutcome, len(items))
	sem := make(chan struct{}, maxWorkers)
	var wg sync.WaitGroup

	for i := range items {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()

			item := items[i]
			outcome := attendance.DayOutcome{EmployeeID: item.EmployeeID, Date: item.Date}
			dayResult, err := s.ReconcileDay(ctx, item)
			if err != nil {
				outcome.Err = err.Error()
			} else {
				outcome.RecordID = dayResult.RecordID
				outcome.Status = dayResult.Status
				outcome.Issues = dayResult.Issues
			}
			outcomes[i] = outcome
		}(i)
	}
	wg.Wait()
	return outcomes
}

// CheckRecord implements attendance.ReconciliationService.
func (s *ServiceImpl) CheckRecord(ctx context.Context, id string) ([]attendance.Issue, error) {
	rec, err := s.records.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	employeeKnown := true
	if rec.EmployeeID == "" {
		return nil, attendance.ErrMissingEmployee
	}
	if _, err := s.masters.ResolveEmployee(ctx, rec.EmployeeID); err != nil {
		if !errors.Is(err, master.ErrEmployeeNotFound) {
			return nil, fmt.Errorf("failed to resolve employee: %w", err)
		}
		employeeKnown = false
	}

	sameDay, err := s.records.FindDuplicateCandidates(ctx, rec.EmployeeID, rec.Date)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch duplicate candidates: %w", err)
	}

	return CheckRecord(CheckInput{
		Record:                    rec,
		EmployeeKnown:             employeeKnown,
		SameDayRecords:            sameDay,
		DuplicateThresholdMinutes: s.cfg.DuplicateThresholdMinutes,
	}), nil
}

// RepairRecords implements attendance.ReconciliationService.
func (s *ServiceImpl) RepairRecords(ctx context.Context, ids []string) ([]attendance.RepairOutcome, error) {
	outcomes := make([]attendance.RepairOutcome, 0, len(ids))
	for _, id := range ids {
		outcome := attendance.RepairOutcome{RecordID: id}

		issues, err := s.CheckRecord(ctx, id)
		if err != nil {
			outcome.Err = err.Error()
			outcomes = append(outcomes, outcome)
			continue
		}
		outcome.Issues = issues
		if len(issues) == 0 {
			outcomes = append(outcomes, outcome)
			continue
		}

		rec, err := s.records.GetByID(ctx, id)
		if err != nil {
			outcome.Err = err.Error()
			outcomes = append(outcomes, outcome)
			continue
		}

		repaired := RepairRecord(rec, issues, systemActor, time.Now().UTC())
		if repaired.Changed {
			if repaired.Record.IsDeleted() && !rec.IsDeleted() {
				err = s.records.SoftDelete(ctx, rec.ID, systemActor)
			} else {
				_, err = s.records.Update(ctx, repaired.Record, rec.Version)
			}
			if err != nil {
				outcome.Err = err.Error()
				outcomes = append(outcomes, outcome)
				continue
			}
		}
		outcome.Repaired = repaired.Changed
		outcomes = append(outcomes, outcome)
	}
	return outcomes, nil
}

// GetRecord implements attendance.ReconciliationService.
func (s *ServiceImpl) GetRecord(ctx context.Context, id string) (attendance.RecordResponse, error) {
	rec, err := s.records.GetByID(ctx, id)
	if err != nil {
		return attendance.RecordResponse{}, err
	}
	return attendance.ToResponse(rec), nil
}

// ListRecords implements attendance.ReconciliationService.
func (s *ServiceImpl) ListRecords(ctx context.Context, branchID string, from, to time.Time, limit, offset int) ([]attendance.RecordResponse, int64, error) {
	records, total, err := s.records.ListByBranchRange(ctx, branchID, from, to, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list records: %w", err)
	}
	responses := make([]attendance.RecordResponse, 0, len(records))
	for _, rec := range records {
		responses = append(responses, attendance.ToResponse(rec))
	}
	return responses, total, nil
}

// ApproveRecord implements attendance.ReconciliationService.
func (s *ServiceImpl) ApproveRecord(ctx context.Context, id string, approvedBy string) (attendance.RecordResponse, error) {
	rec, err := s.records.GetByID(ctx, id)
	if err != nil {
		return attendance.RecordResponse{}, err
	}
	if rec.IsDeleted() {
		return attendance.RecordResponse{}, attendance.ErrRecordDeleted
	}
	if rec.HasIncompletePair() {
		return attendance.RecordResponse{}, attendance.ErrIncompleteForApproval
	}

	next, err := rec.Status.Transition(attendance.StatusComplete, false)
	if err != nil {
		return attendance.RecordResponse{}, err
	}
	expected := rec.Version
	rec.Status = next
	rec.Touch(approvedBy, time.Now().UTC())

	updated, err := s.records.Update(ctx, rec, expected)
	if err != nil {
		return attendance.RecordResponse{}, fmt.Errorf("failed to approve record: %w", err)
	}
	return attendance.ToResponse(updated), nil
}

// RejectRecord implements attendance.ReconciliationService.
func (s *ServiceImpl) RejectRecord(ctx context.Context, req attendance.RejectRecordRequest, rejectedBy string) (attendance.RecordResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.RecordResponse{}, err
	}

	rec, err := s.records.GetByID(ctx, req.ID)
	if err != nil {
		return attendance.RecordResponse{}, err
	}
	if rec.IsDeleted() {
		return attendance.RecordResponse{}, attendance.ErrRecordDeleted
	}

	next, err := rec.Status.Transition(attendance.StatusInconsistent, false)
	if err != nil {
		return attendance.RecordResponse{}, err
	}
	expected := rec.Version
	rec.Status = next
	rec.Notes = appendNote(rec.Notes, "rejected: "+req.Reason)
	rec.Touch(rejectedBy, time.Now().UTC())

	updated, err := s.records.Update(ctx, rec, expected)
	if err != nil {
		return attendance.RecordResponse{}, fmt.Errorf("failed to reject record: %w", err)
	}
	return attendance.ToResponse(updated), nil
}

// UpdateRecord implements attendance.ReconciliationService. Manual
// corrections reclassify the hours from the corrected pairs and leave the
// record MODIFIED under the caller's identity.
func (s *ServiceImpl) UpdateRecord(ctx context.Context, req attendance.UpdateRecordRequest, modifiedBy string) (attendance.RecordResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.RecordResponse{}, err
	}

	rec, err := s.records.GetByID(ctx, req.ID)
	if err != nil {
		return attendance.RecordResponse{}, err
	}
	if rec.IsDeleted() {
		return attendance.RecordResponse{}, attendance.ErrRecordDeleted
	}

	patch, err := s.buildPatch(req, rec)
	if err != nil {
		return attendance.RecordResponse{}, err
	}
	if patch.IsEmpty() {
		return attendance.RecordResponse{}, attendance.ErrEmptyPatch
	}

	updated, err := s.records.ApplyPatch(ctx, req.ID, req.Version, patch, modifiedBy)
	if err != nil {
		return attendance.RecordResponse{}, err
	}
	return attendance.ToResponse(updated), nil
}

// buildPatch turns a manual correction request into a typed patch,
// reclassifying hours when any punch time changed.
func (s *ServiceImpl) buildPatch(req attendance.UpdateRecordRequest, rec attendance.Record) (attendance.Patch, error) {
	var patch attendance.Patch

	parse := func(field string, v *string) (*time.Time, error) {
		if v == nil {
			return nil, nil
		}
		t, err := parsePunchTime(*v, rec.Date)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", field, err)
		}
		return &t, nil
	}

	var err error
	if patch.Entry, err = parse("entry", req.Entry); err != nil {
		return attendance.Patch{}, err
	}
	if patch.Exit, err = parse("exit", req.Exit); err != nil {
		return attendance.Patch{}, err
	}
	if patch.Entry2, err = parse("entry2", req.Entry2); err != nil {
		return attendance.Patch{}, err
	}
	if patch.Exit2, err = parse("exit2", req.Exit2); err != nil {
		return attendance.Patch{}, err
	}
	patch.LunchMinutes = req.LunchMinutes
	patch.Notes = req.Notes

	timesChanged := patch.Entry != nil || patch.Exit != nil || patch.Entry2 != nil || patch.Exit2 != nil
	if timesChanged {
		preview := patch.Apply(rec)
		buckets, issues, err := ClassifyHours(rec.Date, preview.Pairs(), &s.cfg)
		if err != nil {
			return attendance.Patch{}, err
		}
		if !attendance.HasKind(issues, attendance.IssueTimeOrderViolation) {
			patch.Hours = &buckets
		}
		manual := true
		patch.ManualEntry = &manual
	}
	if req.ManualEntry != nil {
		patch.ManualEntry = req.ManualEntry
	}

	if req.Status != nil {
		status, _ := attendance.ParseStatus(*req.Status)
		// Reviewer-supplied statuses are a manual override by definition,
		// including reopening an ABSENT day.
		next, err := rec.Status.Transition(status, true)
		if err != nil {
			return attendance.Patch{}, err
		}
		patch.Status = &next
	} else if timesChanged {
		next, err := rec.Status.Transition(attendance.StatusModified, true)
		if err != nil {
			return attendance.Patch{}, err
		}
		patch.Status = &next
	}

	return patch, nil
}

// DeleteRecord implements attendance.ReconciliationService.
func (s *ServiceImpl) DeleteRecord(ctx context.Context, id string, deletedBy string) error {
	if err := s.records.SoftDelete(ctx, id, deletedBy); err != nil {
		return err
	}
	return nil
}

// parsePunchTime accepts "15:04" (combined with the record date) or a full
// "2006-01-02 15:04:05" timestamp.
func parsePunchTime(v string, date time.Time) (time.Time, error) {
	if t, err := time.Parse("2006-01-02 15:04:05", v); err == nil {
		return t, nil
	}
	t, err := time.Parse("15:04", v)
	if err != nil {
		return time.Time{}, fmt.Errorf("unrecognized time %q", v)
	}
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour(), t.Minute(), 0, 0, date.Location()), nil
}

func hasCompletePair(pairs []attendance.Pair) bool {
	for _, p := range pairs {
		if p.Complete() {
			return true
		}
	}
	return false
}

func appendNote(notes, note string) string {
	if strings.Contains(notes, note) {
		return notes
	}
	if notes == "" {
		return note
	}
	return notes + "; " + note
}

func eventIDs(groups ...[]punch.Event) []string {
	var ids []string
	for _, g := range groups {
		for _, ev := range g {
			ids = append(ids, ev.ID)
		}
	}
	return ids
}
