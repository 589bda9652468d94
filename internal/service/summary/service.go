package summary

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/HansOr04/testing-sub002/internal/domain/attendance"
	"github.com/HansOr04/testing-sub002/internal/domain/master"
	"github.com/HansOr04/testing-sub002/internal/domain/schedule"
	"github.com/HansOr04/testing-sub002/internal/domain/summary"
)

type ServiceImpl struct {
	records attendance.RecordRepository
	masters master.Repository
	cfg     schedule.ShiftConfig
}

// NewService wires the summary fold to the record store and master data.
func NewService(records attendance.RecordRepository, masters master.Repository, cfg schedule.ShiftConfig) (summary.Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("summary service: %w", err)
	}
	return &ServiceImpl{records: records, masters: masters, cfg: cfg}, nil
}

// groupResolver maps a record to its group key and human label for one
// grouping dimension.
type groupResolver func(rec attendance.Record) (key, label string)

// GetSummary implements summary.Service.
func (s *ServiceImpl) GetSummary(ctx context.Context, req summary.SummaryRequest) (summary.SummaryReport, error) {
	if err := req.Validate(); err != nil {
		return summary.SummaryReport{}, err
	}
	from, _ := time.Parse("2006-01-02", req.From)
	to, _ := time.Parse("2006-01-02", req.To)

	records, resolve, err := s.load(ctx, req)
	if err != nil {
		return summary.SummaryReport{}, err
	}

	accs := map[string]*Accumulator{}
	labels := map[string]string{}
	for _, rec := range records {
		key, label := resolve(rec)
		if _, ok := accs[key]; !ok {
			accs[key] = &Accumulator{}
			labels[key] = label
		}
		accs[key].Add(rec, &s.cfg)
	}

	scheduled := s.cfg.ScheduledDays(from, to)
	report := summary.SummaryReport{GroupBy: req.GroupBy, From: req.From, To: req.To}
	for key, acc := range accs {
		report.Groups = append(report.Groups, acc.Finalize(key, labels[key], scheduled))
	}
	sort.Slice(report.Groups, func(i, j int) bool { return report.Groups[i].Key < report.Groups[j].Key })
	return report, nil
}

// GetTrend implements summary.Service. The per-window fold reuses the same
// accumulator, so a trend is exactly a summary split by window key.
func (s *ServiceImpl) GetTrend(ctx context.Context, req summary.TrendRequest) (summary.TrendReport, error) {
	if err := req.Validate(); err != nil {
		return summary.TrendReport{}, err
	}
	from, _ := time.Parse("2006-01-02", req.From)
	to, _ := time.Parse("2006-01-02", req.To)

	records, resolve, err := s.load(ctx, req.SummaryRequest)
	if err != nil {
		return summary.TrendReport{}, err
	}

	type bucket struct {
		accs   map[string]*Accumulator
		labels map[string]string
		days   map[string]bool
	}
	buckets := map[string]*bucket{}
	for _, rec := range records {
		wk := WindowKey(req.Window, rec.Date)
		b, ok := buckets[wk]
		if !ok {
			b = &bucket{accs: map[string]*Accumulator{}, labels: map[string]string{}, days: map[string]bool{}}
			buckets[wk] = b
		}
		key, label := resolve(rec)
		if _, ok := b.accs[key]; !ok {
			b.accs[key] = &Accumulator{}
			b.labels[key] = label
		}
		b.accs[key].Add(rec, &s.cfg)
	}

	// Scheduled days are counted per window over the clamped range so a
	// partial first or last window is not penalized.
	scheduledPerWindow := map[string]int{}
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		if !s.cfg.IsRestDay(d) {
			scheduledPerWindow[WindowKey(req.Window, d)]++
		}
	}

	report := summary.TrendReport{GroupBy: req.GroupBy, Window: req.Window, From: req.From, To: req.To}
	keys := make([]string, 0, len(buckets))
	for wk := range buckets {
		keys = append(keys, wk)
	}
	// Canonical window keys sort chronologically as strings.
	sort.Strings(keys)
	for _, wk := range keys {
		b := buckets[wk]
		point := summary.TrendPoint{WindowKey: wk}
		groupKeys := make([]string, 0, len(b.accs))
		for key := range b.accs {
			groupKeys = append(groupKeys, key)
		}
		sort.Strings(groupKeys)
		for _, key := range groupKeys {
			point.Groups = append(point.Groups, b.accs[key].Finalize(key, b.labels[key], scheduledPerWindow[wk]))
		}
		report.Points = append(report.Points, point)
	}
	return report, nil
}

// load fetches the range's records and builds the grouping resolver. Stale
// employee references group under their raw id with an empty label instead
// of failing the whole report.
func (s *ServiceImpl) load(ctx context.Context, req summary.SummaryRequest) ([]attendance.Record, groupResolver, error) {
	from, _ := time.Parse("2006-01-02", req.From)
	to, _ := time.Parse("2006-01-02", req.To)

	employees, err := s.masters.ListActiveEmployees(ctx, req.BranchID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list employees: %w", err)
	}
	byID := make(map[string]master.Employee, len(employees))
	for _, emp := range employees {
		byID[emp.ID] = emp
	}

	var records []attendance.Record
	for _, emp := range employees {
		recs, err := s.records.ListByEmployeeRange(ctx, emp.ID, from, to)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to list records for employee %s: %w", emp.ID, err)
		}
		records = append(records, recs...)
	}

	resolve, err := s.resolver(ctx, req.GroupBy, byID)
	if err != nil {
		return nil, nil, err
	}
	return records, resolve, nil
}

func (s *ServiceImpl) resolver(ctx context.Context, groupBy summary.GroupBy, employees map[string]master.Employee) (groupResolver, error) {
	switch groupBy {
	case summary.GroupByEmployee:
		return func(rec attendance.Record) (string, string) {
			if emp, ok := employees[rec.EmployeeID]; ok {
				return emp.ID, emp.FullName
			}
			return rec.EmployeeID, ""
		}, nil
	case summary.GroupByArea:
		return func(rec attendance.Record) (string, string) {
			if emp, ok := employees[rec.EmployeeID]; ok {
				return emp.AreaID, ""
			}
			return "unassigned", ""
		}, nil
	case summary.GroupByBranch:
		branches, err := s.masters.ListBranches(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list branches: %w", err)
		}
		names := make(map[string]string, len(branches))
		for _, b := range branches {
			names[b.ID] = b.Name
		}
		return func(rec attendance.Record) (string, string) {
			if emp, ok := employees[rec.EmployeeID]; ok {
				return emp.BranchID, names[emp.BranchID]
			}
			return "unassigned", ""
		}, nil
	}
	return nil, errors.New("unknown grouping dimension")
}
