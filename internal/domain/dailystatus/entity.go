package dailystatus

import "time"

// Status is the single attendance classification for one user on one date.
// Precedence when several could apply: holiday > present > leave > absent.
type Status string

const (
	StatusHoliday Status = "holiday"
	StatusPresent Status = "present"
	StatusLeave   Status = "leave"
	StatusAbsent  Status = "absent"
)

// DailyStatus is one row per (user, date). Rows are written only by the
// reconciler; the rest of the system reads them.
type DailyStatus struct {
	UserID    string
	Date      time.Time
	Status    Status
	CreatedAt time.Time
	UpdatedAt time.Time
}
