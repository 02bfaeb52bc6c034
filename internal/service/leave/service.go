package leave

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/staffsync-hq/staffsync-backend-go/internal/domain/leave"
	"github.com/staffsync-hq/staffsync-backend-go/internal/pkg/database"
	"github.com/staffsync-hq/staffsync-backend-go/internal/pkg/validator"
	"github.com/staffsync-hq/staffsync-backend-go/internal/repository/postgresql"
)

type leaveService struct {
	db          *database.DB
	requestRepo leave.LeaveRequestRepository
	balanceRepo leave.BalanceRepository
}

func NewLeaveService(db *database.DB, requestRepo leave.LeaveRequestRepository, balanceRepo leave.BalanceRepository) leave.LeaveService {
	return &leaveService{
		db:          db,
		requestRepo: requestRepo,
		balanceRepo: balanceRepo,
	}
}

// Submit implements leave.LeaveService.
func (s *leaveService) Submit(ctx context.Context, userID string, req leave.SubmitLeaveRequest) (leave.LeaveRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	startDate, _ := validator.IsValidDate(req.StartDate)
	endDate, _ := validator.IsValidDate(req.EndDate)

	if endDate.Before(startDate) {
		return leave.LeaveRequestResponse{}, leave.ErrInvalidDateRange
	}

	overlapping, err := s.requestRepo.HasOverlapping(ctx, userID, startDate, endDate)
	if err != nil {
		return leave.LeaveRequestResponse{}, fmt.Errorf("check overlapping requests: %w", err)
	}
	if overlapping {
		return leave.LeaveRequestResponse{}, leave.ErrOverlappingRequest
	}

	created, err := s.requestRepo.Create(ctx, leave.LeaveRequest{
		ID:        uuid.NewString(),
		UserID:    userID,
		StartDate: startDate,
		EndDate:   endDate,
		Status:    leave.StatusPending,
		Reason:    req.Reason,
	})
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	return leave.ToResponse(created), nil
}

// GetMyRequests implements leave.LeaveService.
func (s *leaveService) GetMyRequests(ctx context.Context, userID string) ([]leave.LeaveRequestResponse, error) {
	requests, err := s.requestRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toResponses(requests), nil
}

// GetBalance implements leave.LeaveService.
func (s *leaveService) GetBalance(ctx context.Context, userID string) (leave.BalanceResponse, error) {
	bal, err := s.balanceRepo.Get(ctx, userID)
	if err != nil {
		return leave.BalanceResponse{}, err
	}
	return leave.BalanceResponse{UserID: userID, BalanceDays: bal.BalanceDays}, nil
}

// List implements leave.LeaveService.
func (s *leaveService) List(ctx context.Context, status leave.RequestStatus) ([]leave.LeaveRequestResponse, error) {
	requests, err := s.requestRepo.ListByStatus(ctx, status)
	if err != nil {
		return nil, err
	}
	return toResponses(requests), nil
}

// Approve implements leave.LeaveService. The status flip and the balance
// debit commit together or not at all.
func (s *leaveService) Approve(ctx context.Context, id string, decidedBy string) (leave.LeaveRequestResponse, error) {
	var approved leave.LeaveRequest

	err := postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)

		request, err := s.requestRepo.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		if request.Status != leave.StatusPending {
			return leave.ErrLeaveRequestAlreadyProcessed
		}

		days := request.WorkingDays()
		if days > 0 {
			bal, err := s.balanceRepo.Get(txCtx, request.UserID)
			if err != nil {
				return err
			}
			if bal.BalanceDays < float64(days) {
				return leave.ErrInsufficientBalance
			}
			if err := s.balanceRepo.Adjust(txCtx, request.UserID, -float64(days)); err != nil {
				return err
			}
		}

		if err := s.requestRepo.UpdateStatus(txCtx, id, leave.StatusApproved, decidedBy); err != nil {
			return err
		}

		request.Status = leave.StatusApproved
		request.DecidedBy = &decidedBy
		now := time.Now()
		request.DecidedAt = &now
		approved = request
		return nil
	})
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	return leave.ToResponse(approved), nil
}

// Reject implements leave.LeaveService.
func (s *leaveService) Reject(ctx context.Context, id string, decidedBy string) (leave.LeaveRequestResponse, error) {
	request, err := s.requestRepo.GetByID(ctx, id)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	if request.Status != leave.StatusPending {
		return leave.LeaveRequestResponse{}, leave.ErrLeaveRequestAlreadyProcessed
	}

	if err := s.requestRepo.UpdateStatus(ctx, id, leave.StatusRejected, decidedBy); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	request.Status = leave.StatusRejected
	request.DecidedBy = &decidedBy
	now := time.Now()
	request.DecidedAt = &now
	return leave.ToResponse(request), nil
}

func toResponses(requests []leave.LeaveRequest) []leave.LeaveRequestResponse {
	responses := make([]leave.LeaveRequestResponse, 0, len(requests))
	for _, r := range requests {
		responses = append(responses, leave.ToResponse(r))
	}
	return responses
}
