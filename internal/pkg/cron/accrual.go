package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/staffsync-hq/staffsync-backend-go/internal/domain/leave"
	"github.com/staffsync-hq/staffsync-backend-go/internal/domain/user"
	"github.com/staffsync-hq/staffsync-backend-go/internal/pkg/database"
	"github.com/staffsync-hq/staffsync-backend-go/internal/repository/postgresql"
)

// AccrualJobs credits monthly leave allowance to active users. Each
// (user, month) accrual is recorded, so reruns within the same month are
// no-ops.
type AccrualJobs struct {
	db           *database.DB
	userRepo     user.UserRepository
	balanceRepo  leave.BalanceRepository
	daysPerMonth float64
	loc          *time.Location
	now          func() time.Time
}

func NewAccrualJobs(
	db *database.DB,
	userRepo user.UserRepository,
	balanceRepo leave.BalanceRepository,
	daysPerMonth float64,
	loc *time.Location,
) *AccrualJobs {
	if loc == nil {
		loc = time.Local
	}
	return &AccrualJobs{
		db:           db,
		userRepo:     userRepo,
		balanceRepo:  balanceRepo,
		daysPerMonth: daysPerMonth,
		loc:          loc,
		now:          time.Now,
	}
}

func (j *AccrualJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("accrue_monthly_leave", 1*time.Hour, j.AccrueMonthlyLeave)
}

// AccrueMonthlyLeave runs on the first day of the month. The accrual marker
// and the balance credit commit together per user, so a failure part-way
// leaves untouched users to be picked up by the next tick.
func (j *AccrualJobs) AccrueMonthlyLeave(ctx context.Context) error {
	now := j.now().In(j.loc)
	if now.Day() != 1 {
		return nil
	}

	period := now.Format("2006-01")
	slog.Info("Cron: Starting monthly leave accrual", "period", period)

	users, err := j.userRepo.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("list active users: %w", err)
	}

	credited := 0
	for _, u := range users {
		err := postgresql.WithTransaction(ctx, j.db, func(tx pgx.Tx) error {
			txCtx := context.WithValue(ctx, "tx", tx)

			fresh, err := j.balanceRepo.RecordAccrual(txCtx, u.ID, period)
			if err != nil {
				return err
			}
			if !fresh {
				return nil
			}
			if err := j.balanceRepo.Adjust(txCtx, u.ID, j.daysPerMonth); err != nil {
				return err
			}
			credited++
			return nil
		})
		if err != nil {
			slog.Error("Cron: Failed to accrue leave", "user_id", u.ID, "period", period, "error", err)
			continue
		}
	}

	slog.Info("Cron: Monthly leave accrual finished", "period", period, "credited", credited)
	return nil
}
