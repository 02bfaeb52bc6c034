package leave

import "time"

type RequestStatus string

const (
	StatusPending  RequestStatus = "pending"
	StatusApproved RequestStatus = "approved"
	StatusRejected RequestStatus = "rejected"
)

// LeaveRequest covers the inclusive calendar-date range [StartDate, EndDate].
// Both bounds are date-only values (midnight, no wall-clock component).
type LeaveRequest struct {
	ID        string
	UserID    string
	StartDate time.Time
	EndDate   time.Time
	Status    RequestStatus
	Reason    string
	DecidedBy *string
	DecidedAt *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Balance is a user's remaining leave allowance in days.
type Balance struct {
	UserID      string
	BalanceDays float64
	UpdatedAt   time.Time
}

// Days returns the inclusive length of the request's range in calendar days.
// Malformed ranges (end before start) count as zero.
func (r LeaveRequest) Days() int {
	if r.EndDate.Before(r.StartDate) {
		return 0
	}
	return int(r.EndDate.Sub(r.StartDate).Hours()/24) + 1
}

// WorkingDays returns the number of weekdays (Mon-Fri) in the request's
// inclusive range. Approval debits this from the balance.
func (r LeaveRequest) WorkingDays() int {
	if r.EndDate.Before(r.StartDate) {
		return 0
	}
	count := 0
	for d := r.StartDate; !d.After(r.EndDate); d = d.AddDate(0, 0, 1) {
		if wd := d.Weekday(); wd != time.Saturday && wd != time.Sunday {
			count++
		}
	}
	return count
}

// Covers reports whether the request's inclusive range contains date.
// Rows with end_date < start_date never match.
func (r LeaveRequest) Covers(date time.Time) bool {
	if r.EndDate.Before(r.StartDate) {
		return false
	}
	return !date.Before(r.StartDate) && !date.After(r.EndDate)
}
