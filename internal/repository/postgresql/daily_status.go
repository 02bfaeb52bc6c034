package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/staffsync-hq/staffsync-backend-go/internal/domain/dailystatus"
	"github.com/staffsync-hq/staffsync-backend-go/internal/pkg/database"
)

type dailyStatusRepository struct {
	db *database.DB
}

func NewDailyStatusRepository(db *database.DB) dailystatus.DailyStatusRepository {
	return &dailyStatusRepository{db: db}
}

// Upsert implements dailystatus.DailyStatusRepository.
// ON CONFLICT leaves created_at alone so recomputation keeps the original
// insertion timestamp.
func (r *dailyStatusRepository) Upsert(ctx context.Context, statuses []dailystatus.DailyStatus) error {
	q := GetQuerier(ctx, r.db)

	for _, ds := range statuses {
		_, err := q.Exec(ctx, `
			INSERT INTO daily_statuses (user_id, date, status)
			VALUES ($1, $2, $3)
			ON CONFLICT (user_id, date)
			DO UPDATE SET status = EXCLUDED.status, updated_at = NOW()
		`, ds.UserID, ds.Date, ds.Status)
		if err != nil {
			return fmt.Errorf("failed to upsert daily status for user %s on %s: %w",
				ds.UserID, ds.Date.Format("2006-01-02"), err)
		}
	}

	return nil
}

// ListByDate implements dailystatus.DailyStatusRepository.
func (r *dailyStatusRepository) ListByDate(ctx context.Context, date time.Time) ([]dailystatus.DailyStatus, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT user_id, date, status, created_at, updated_at
		FROM daily_statuses
		WHERE date = $1
		ORDER BY user_id
	`, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list daily statuses: %w", err)
	}
	defer rows.Close()

	return scanDailyStatuses(rows)
}

// ListByUserAndRange implements dailystatus.DailyStatusRepository.
func (r *dailyStatusRepository) ListByUserAndRange(ctx context.Context, userID string, from, to time.Time) ([]dailystatus.DailyStatus, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT user_id, date, status, created_at, updated_at
		FROM daily_statuses
		WHERE user_id = $1
		  AND date >= $2
		  AND date <= $3
		ORDER BY date
	`, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list daily statuses: %w", err)
	}
	defer rows.Close()

	return scanDailyStatuses(rows)
}

func scanDailyStatuses(rows pgx.Rows) ([]dailystatus.DailyStatus, error) {
	var statuses []dailystatus.DailyStatus
	for rows.Next() {
		var ds dailystatus.DailyStatus
		if err := rows.Scan(&ds.UserID, &ds.Date, &ds.Status, &ds.CreatedAt, &ds.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan daily status row: %w", err)
		}
		statuses = append(statuses, ds)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read daily status rows: %w", err)
	}

	return statuses, nil
}
