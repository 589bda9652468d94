package cron

import (
	"context"
	"log/slog"
	"time"

	"github.com/HansOr04/testing-sub002/internal/domain/attendance"
)

// ReconciliationJobs owns the scheduled engine runs. The nightly job closes
// out the previous day once all device batches have usually landed.
type ReconciliationJobs struct {
	reconciliation attendance.ReconciliationService
	interval       time.Duration
}

func NewReconciliationJobs(reconciliation attendance.ReconciliationService, interval time.Duration) *ReconciliationJobs {
	return &ReconciliationJobs{
		reconciliation: reconciliation,
		interval:       interval,
	}
}

func (j *ReconciliationJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("reconcile_previous_day", j.interval, j.ReconcilePreviousDay)
}

// ReconcilePreviousDay reconciles every employee-day with unprocessed
// punches from yesterday. Runs only in the 02:00 UTC hour; reconciliation
// is idempotent per employee-day, so a retriggered run is harmless.
func (j *ReconciliationJobs) ReconcilePreviousDay(ctx context.Context) error {
	if time.Now().UTC().Hour() != 2 {
		return nil
	}

	yesterday := time.Now().UTC().AddDate(0, 0, -1).Format("2006-01-02")
	slog.Info("Cron: starting previous-day reconciliation", "date", yesterday)

	result, err := j.reconciliation.ReconcileRange(ctx, attendance.ReconcileRangeRequest{
		From: yesterday,
		To:   yesterday,
	})
	if err != nil {
		return err
	}

	slog.Info("Cron: previous-day reconciliation finished",
		"date", yesterday,
		"processed", result.Processed,
		"failed", result.Failed,
	)
	for _, outcome := range result.Outcomes {
		if outcome.Err != "" {
			slog.Error("Cron: employee-day failed",
				"employee_id", outcome.EmployeeID,
				"date", outcome.Date,
				"error", outcome.Err,
			)
		}
	}
	return nil
}
