package dailystatus

import (
	"context"
	"time"
)

// DailyStatusRepository defines data access methods for daily statuses.
type DailyStatusRepository interface {
	// Upsert writes statuses keyed on (user_id, date). Existing rows keep
	// their created_at and get a fresh updated_at; new rows get both.
	Upsert(ctx context.Context, statuses []DailyStatus) error

	// ListByDate retrieves every user's status for date
	ListByDate(ctx context.Context, date time.Time) ([]DailyStatus, error)

	// ListByUserAndRange retrieves one user's statuses with date inside
	// [from, to], ordered by date
	ListByUserAndRange(ctx context.Context, userID string, from, to time.Time) ([]DailyStatus, error)
}
