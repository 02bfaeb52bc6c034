package holiday

import "time"

// Holiday is one company-wide non-working day. Date is date-only.
type Holiday struct {
	Date      time.Time
	Name      string
	CreatedAt time.Time
}
