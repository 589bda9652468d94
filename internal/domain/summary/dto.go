package summary

import (
	"github.com/HansOr04/testing-sub002/internal/pkg/validator"
)

// GroupBy selects the grouping dimension of a summary.
type GroupBy string

const (
	GroupByEmployee GroupBy = "employee"
	GroupByArea     GroupBy = "area"
	GroupByBranch   GroupBy = "branch"
)

// Window selects the sub-window size of a trend series.
type Window string

const (
	WindowDay   Window = "day"
	WindowWeek  Window = "week"
	WindowMonth Window = "month"
)

func validGroupBy(g GroupBy) bool {
	return g == GroupByEmployee || g == GroupByArea || g == GroupByBranch
}

func validWindow(w Window) bool {
	return w == WindowDay || w == WindowWeek || w == WindowMonth
}

// SummaryRequest asks for grouped totals over a date range.
type SummaryRequest struct {
	GroupBy  GroupBy `json:"group_by"`
	From     string  `json:"from"`
	To       string  `json:"to"`
	BranchID *string `json:"branch_id,omitempty"`
}

func (r *SummaryRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validGroupBy(r.GroupBy) {
		errs = append(errs, validator.ValidationError{Field: "group_by", Message: "group_by must be employee, area or branch"})
	}
	from, okFrom := validator.IsValidDate(r.From)
	if !okFrom {
		errs = append(errs, validator.ValidationError{Field: "from", Message: "from must be YYYY-MM-DD"})
	}
	to, okTo := validator.IsValidDate(r.To)
	if !okTo {
		errs = append(errs, validator.ValidationError{Field: "to", Message: "to must be YYYY-MM-DD"})
	}
	if okFrom && okTo && to.Before(from) {
		errs = append(errs, validator.ValidationError{Field: "to", Message: "to must not be before from"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// TrendRequest asks for the same fold applied per sub-window.
type TrendRequest struct {
	SummaryRequest
	Window Window `json:"window"`
}

func (r *TrendRequest) Validate() error {
	if err := r.SummaryRequest.Validate(); err != nil {
		errs := err.(validator.ValidationErrors)
		if !validWindow(r.Window) {
			errs = append(errs, validator.ValidationError{Field: "window", Message: "window must be day, week or month"})
		}
		return errs
	}
	if !validWindow(r.Window) {
		return validator.ValidationErrors{{Field: "window", Message: "window must be day, week or month"}}
	}
	return nil
}

// GroupSummary is the folded result for one group key.
type GroupSummary struct {
	Key   string `json:"key"`
	Label string `json:"label,omitempty"`

	TotalHours        float64 `json:"total_hours"`
	Regular           float64 `json:"regular"`
	Recargo25         float64 `json:"recargo25"`
	Suplementario50   float64 `json:"suplementario50"`
	Extraordinario100 float64 `json:"extraordinario100"`
	Nocturnas         float64 `json:"nocturnas"`

	DaysWorked      int `json:"days_worked"`
	DaysAbsent      int `json:"days_absent"`
	ScheduledDays   int `json:"scheduled_days"`
	LateArrivals    int `json:"late_arrivals"`
	EarlyDepartures int `json:"early_departures"`

	// AttendanceRate is worked/scheduled*100 rounded to two decimals,
	// zero when no days were scheduled.
	AttendanceRate float64 `json:"attendance_rate"`
}

// SummaryReport is the grouped answer for a range.
type SummaryReport struct {
	GroupBy GroupBy        `json:"group_by"`
	From    string         `json:"from"`
	To      string         `json:"to"`
	Groups  []GroupSummary `json:"groups"`
}

// TrendPoint is one sub-window of a trend series. Keys are canonical:
// "2006-01-02" for days, "2006-W##" ISO weeks, "2006-01" for months.
type TrendPoint struct {
	WindowKey string         `json:"window_key"`
	Groups    []GroupSummary `json:"groups"`
}

// TrendReport is a chronologically ascending series of sub-window folds.
type TrendReport struct {
	GroupBy GroupBy      `json:"group_by"`
	Window  Window       `json:"window"`
	From    string       `json:"from"`
	To      string       `json:"to"`
	Points  []TrendPoint `json:"points"`
}
