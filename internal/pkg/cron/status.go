package cron

import (
	"context"
	"log/slog"
	"time"
)

// Reconciler recomputes daily statuses for one calendar date.
type Reconciler interface {
	Run(ctx context.Context, date time.Time) error
}

// StatusJobs wires the daily status reconciler into the scheduler. The
// reconciler is idempotent, so running it repeatedly through the day is
// safe: a user flips from absent to present as soon as their check-out
// lands, and the final run after midnight freezes the previous day.
type StatusJobs struct {
	reconciler Reconciler
	loc        *time.Location
	now        func() time.Time
}

func NewStatusJobs(reconciler Reconciler, loc *time.Location) *StatusJobs {
	if loc == nil {
		loc = time.Local
	}
	return &StatusJobs{
		reconciler: reconciler,
		loc:        loc,
		now:        time.Now,
	}
}

func (j *StatusJobs) RegisterJobs(scheduler *Scheduler, interval time.Duration) {
	scheduler.AddJob("reconcile_daily_status", interval, j.ReconcileDailyStatuses)
}

// ReconcileDailyStatuses reconciles today, and during the first hour of a
// new day also re-reconciles yesterday so events recorded near midnight end
// up in the day they belong to.
func (j *StatusJobs) ReconcileDailyStatuses(ctx context.Context) error {
	now := j.now().In(j.loc)

	if now.Hour() == 0 {
		yesterday := now.AddDate(0, 0, -1)
		slog.Info("Cron: Reconciling previous day's statuses", "date", yesterday.Format("2006-01-02"))
		if err := j.reconciler.Run(ctx, yesterday); err != nil {
			return err
		}
	}

	slog.Info("Cron: Reconciling daily statuses", "date", now.Format("2006-01-02"))
	return j.reconciler.Run(ctx, now)
}
