package leave

import (
	"context"
	"time"
)

// LeaveRequestRepository defines data access methods for leave requests.
type LeaveRequestRepository interface {
	// Create creates a new leave request in pending status
	Create(ctx context.Context, request LeaveRequest) (LeaveRequest, error)

	// GetByID retrieves a leave request by ID
	GetByID(ctx context.Context, id string) (LeaveRequest, error)

	// ListByUser retrieves a user's leave requests, newest first
	ListByUser(ctx context.Context, userID string) ([]LeaveRequest, error)

	// ListByStatus retrieves all leave requests with the given status
	ListByStatus(ctx context.Context, status RequestStatus) ([]LeaveRequest, error)

	// ListApprovedCovering retrieves approved requests whose inclusive
	// [start_date, end_date] range contains date. The reconciler's leave
	// classification reads exactly this set.
	ListApprovedCovering(ctx context.Context, date time.Time) ([]LeaveRequest, error)

	// HasOverlapping reports whether a pending or approved request for the
	// user overlaps [startDate, endDate]
	HasOverlapping(ctx context.Context, userID string, startDate, endDate time.Time) (bool, error)

	// UpdateStatus records an approve/reject decision
	UpdateStatus(ctx context.Context, id string, status RequestStatus, decidedBy string) error
}

// BalanceRepository defines data access methods for leave balances.
type BalanceRepository interface {
	// Get retrieves a user's balance; a user with no row has zero balance
	Get(ctx context.Context, userID string) (Balance, error)

	// Adjust adds delta (may be negative) to a user's balance, creating the
	// row if absent
	Adjust(ctx context.Context, userID string, delta float64) error

	// RecordAccrual inserts an accrual marker for (userID, period) and
	// reports whether it was new. Re-running a month's accrual is a no-op.
	RecordAccrual(ctx context.Context, userID string, period string) (bool, error)
}
