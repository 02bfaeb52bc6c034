package dailystatus

import (
	"context"
	"time"

	"github.com/staffsync-hq/staffsync-backend-go/internal/domain/dailystatus"
	"github.com/staffsync-hq/staffsync-backend-go/internal/service/reconcile"
)

type Service struct {
	statusRepo dailystatus.DailyStatusRepository
	reconciler *reconcile.Service
}

func NewDailyStatusService(statusRepo dailystatus.DailyStatusRepository, reconciler *reconcile.Service) *Service {
	return &Service{statusRepo: statusRepo, reconciler: reconciler}
}

// ListByDate returns every user's status for one date.
func (s *Service) ListByDate(ctx context.Context, date time.Time) ([]dailystatus.DailyStatusResponse, error) {
	statuses, err := s.statusRepo.ListByDate(ctx, date)
	if err != nil {
		return nil, err
	}

	responses := make([]dailystatus.DailyStatusResponse, 0, len(statuses))
	for _, ds := range statuses {
		responses = append(responses, dailystatus.ToResponse(ds))
	}
	return responses, nil
}

// ListMine returns one user's statuses in [from, to].
func (s *Service) ListMine(ctx context.Context, userID string, from, to time.Time) ([]dailystatus.DailyStatusResponse, error) {
	statuses, err := s.statusRepo.ListByUserAndRange(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	responses := make([]dailystatus.DailyStatusResponse, 0, len(statuses))
	for _, ds := range statuses {
		responses = append(responses, dailystatus.ToResponse(ds))
	}
	return responses, nil
}

// Reconcile recomputes statuses for date. A zero date means today.
func (s *Service) Reconcile(ctx context.Context, date time.Time) (time.Time, error) {
	if date.IsZero() {
		date = s.reconciler.Today()
	}
	return date, s.reconciler.Run(ctx, date)
}
