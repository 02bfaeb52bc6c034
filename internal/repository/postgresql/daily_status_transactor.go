package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/staffsync-hq/staffsync-backend-go/internal/pkg/database"
	"github.com/staffsync-hq/staffsync-backend-go/internal/service/reconcile"
)

// Advisory lock namespace for daily status reconciliation. The second lock
// key is the day number, so overlapping runs for the same date serialize
// while runs for different dates proceed independently.
const dailyStatusLockClass = 7342

type dailyStatusTransactor struct {
	db *database.DB
}

func NewDailyStatusTransactor(db *database.DB) reconcile.Transactor {
	return &dailyStatusTransactor{db: db}
}

// WithinDateLock implements reconcile.Transactor. fn runs inside a single
// transaction holding the per-date advisory lock; the lock releases on
// commit or rollback.
func (t *dailyStatusTransactor) WithinDateLock(ctx context.Context, date time.Time, fn func(ctx context.Context) error) error {
	return WithTransaction(ctx, t.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1, $2)`, int32(dailyStatusLockClass), lockKeyForDate(date)); err != nil {
			return fmt.Errorf("acquire reconcile lock for %s: %w", date.Format("2006-01-02"), err)
		}

		txCtx := context.WithValue(ctx, "tx", tx)
		return fn(txCtx)
	})
}

// lockKeyForDate maps a calendar date to its day number since the Unix
// epoch. Wall-clock components do not affect the key.
func lockKeyForDate(date time.Time) int32 {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	return int32(day.Unix() / 86400)
}
