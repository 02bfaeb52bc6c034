package attendance

import "time"

// EventResponse represents a ledger event in API responses
type EventResponse struct {
	ID         string `json:"id"`
	UserID     string `json:"user_id"`
	Type       string `json:"type"`
	RecordedAt string `json:"recorded_at"`
}

// CheckOutResponse wraps the appended event; Unmatched is set when no
// check-in exists earlier the same day, so clients can warn the user.
type CheckOutResponse struct {
	Event     EventResponse `json:"event"`
	Unmatched bool          `json:"unmatched,omitempty"`
}

// MyEventsFilter bounds a ledger listing for one user
type MyEventsFilter struct {
	From time.Time
	To   time.Time
}

func ToEventResponse(e Event) EventResponse {
	return EventResponse{
		ID:         e.ID,
		UserID:     e.UserID,
		Type:       string(e.Type),
		RecordedAt: e.RecordedAt.Format(time.RFC3339),
	}
}
