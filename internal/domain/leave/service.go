package leave

import "context"

// LeaveService defines business logic for leave requests and balances
type LeaveService interface {
	// Submit creates a pending leave request for the user
	Submit(ctx context.Context, userID string, req SubmitLeaveRequest) (LeaveRequestResponse, error)

	// GetMyRequests retrieves the user's own requests, newest first
	GetMyRequests(ctx context.Context, userID string) ([]LeaveRequestResponse, error)

	// GetBalance retrieves the user's remaining leave days
	GetBalance(ctx context.Context, userID string) (BalanceResponse, error)

	// List retrieves requests by status (admin)
	List(ctx context.Context, status RequestStatus) ([]LeaveRequestResponse, error)

	// Approve approves a pending request and debits the balance atomically
	Approve(ctx context.Context, id string, decidedBy string) (LeaveRequestResponse, error)

	// Reject rejects a pending request
	Reject(ctx context.Context, id string, decidedBy string) (LeaveRequestResponse, error)
}
