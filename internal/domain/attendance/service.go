package attendance

import "context"

// AttendanceService defines business logic for ledger operations
type AttendanceService interface {
	// CheckIn appends a check-in event for today; rejects a second check-in
	// on the same local date
	CheckIn(ctx context.Context, userID string) (EventResponse, error)

	// CheckOut appends a check-out event for today. A check-out with no
	// prior check-in that day is accepted but flagged unmatched.
	CheckOut(ctx context.Context, userID string) (CheckOutResponse, error)

	// GetMyEvents retrieves a user's ledger events in a time range
	GetMyEvents(ctx context.Context, userID string, filter MyEventsFilter) ([]EventResponse, error)
}
