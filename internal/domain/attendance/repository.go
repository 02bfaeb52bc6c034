package attendance

import (
	"context"
	"time"
)

// EventRepository defines data access methods for the attendance ledger.
type EventRepository interface {
	// Append appends an event to the ledger
	Append(ctx context.Context, event Event) (Event, error)

	// ListByUserAndRange retrieves a user's events with recorded_at inside
	// [from, to), ordered by recorded_at
	ListByUserAndRange(ctx context.Context, userID string, from, to time.Time) ([]Event, error)

	// ListByRange retrieves all users' events with recorded_at inside
	// [from, to). The reconciler reads one local day with this.
	ListByRange(ctx context.Context, from, to time.Time) ([]Event, error)

	// CountByUserAndTypeInRange counts events of one type for a user inside
	// [from, to). Used to reject duplicate same-day check-ins.
	CountByUserAndTypeInRange(ctx context.Context, userID string, eventType EventType, from, to time.Time) (int, error)
}
