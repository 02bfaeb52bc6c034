package attendance

import "time"

type EventType string

const (
	EventCheckIn  EventType = "check_in"
	EventCheckOut EventType = "check_out"
)

// Event is one row of the append-only attendance ledger. Events are never
// updated or deleted; corrections are new events.
type Event struct {
	ID         string
	UserID     string
	Type       EventType
	RecordedAt time.Time
	CreatedAt  time.Time
}
