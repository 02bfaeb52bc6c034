package holiday

import (
	"context"
	"time"
)

// HolidayRepository defines data access methods for the holiday calendar.
type HolidayRepository interface {
	// Create creates a holiday
	Create(ctx context.Context, holiday Holiday) (Holiday, error)

	// GetByDate retrieves the holiday on date, if any. Returns nil when the
	// date is a working day.
	GetByDate(ctx context.Context, date time.Time) (*Holiday, error)

	// ListByYear retrieves all holidays in a calendar year, ordered by date
	ListByYear(ctx context.Context, year int) ([]Holiday, error)

	// Delete removes the holiday on date
	Delete(ctx context.Context, date time.Time) error
}
