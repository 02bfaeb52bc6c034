package attendance

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/staffsync-hq/staffsync-backend-go/internal/domain/attendance"
)

type attendanceService struct {
	eventRepo attendance.EventRepository
	loc       *time.Location
	now       func() time.Time
}

func NewAttendanceService(eventRepo attendance.EventRepository, loc *time.Location) attendance.AttendanceService {
	if loc == nil {
		loc = time.Local
	}
	return &attendanceService{
		eventRepo: eventRepo,
		loc:       loc,
		now:       time.Now,
	}
}

// CheckIn implements attendance.AttendanceService.
func (s *attendanceService) CheckIn(ctx context.Context, userID string) (attendance.EventResponse, error) {
	now := s.now().In(s.loc)
	dayStart, dayEnd := s.dayWindow(now)

	count, err := s.eventRepo.CountByUserAndTypeInRange(ctx, userID, attendance.EventCheckIn, dayStart, dayEnd)
	if err != nil {
		return attendance.EventResponse{}, fmt.Errorf("check existing check-ins: %w", err)
	}
	if count > 0 {
		return attendance.EventResponse{}, attendance.ErrAlreadyCheckedIn
	}

	event, err := s.eventRepo.Append(ctx, attendance.Event{
		ID:         uuid.NewString(),
		UserID:     userID,
		Type:       attendance.EventCheckIn,
		RecordedAt: now,
	})
	if err != nil {
		return attendance.EventResponse{}, err
	}

	return attendance.ToEventResponse(event), nil
}

// CheckOut implements attendance.AttendanceService.
func (s *attendanceService) CheckOut(ctx context.Context, userID string) (attendance.CheckOutResponse, error) {
	now := s.now().In(s.loc)
	dayStart, dayEnd := s.dayWindow(now)

	checkIns, err := s.eventRepo.CountByUserAndTypeInRange(ctx, userID, attendance.EventCheckIn, dayStart, dayEnd)
	if err != nil {
		return attendance.CheckOutResponse{}, fmt.Errorf("check existing check-ins: %w", err)
	}

	event, err := s.eventRepo.Append(ctx, attendance.Event{
		ID:         uuid.NewString(),
		UserID:     userID,
		Type:       attendance.EventCheckOut,
		RecordedAt: now,
	})
	if err != nil {
		return attendance.CheckOutResponse{}, err
	}

	return attendance.CheckOutResponse{
		Event:     attendance.ToEventResponse(event),
		Unmatched: checkIns == 0,
	}, nil
}

// GetMyEvents implements attendance.AttendanceService.
func (s *attendanceService) GetMyEvents(ctx context.Context, userID string, filter attendance.MyEventsFilter) ([]attendance.EventResponse, error) {
	to := filter.To
	if to.IsZero() {
		to = s.now()
	}
	from := filter.From
	if from.IsZero() {
		from = to.AddDate(0, -1, 0)
	}

	events, err := s.eventRepo.ListByUserAndRange(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	responses := make([]attendance.EventResponse, 0, len(events))
	for _, e := range events {
		responses = append(responses, attendance.ToEventResponse(e))
	}
	return responses, nil
}

// dayWindow returns the local calendar day containing t as [start, end).
func (s *attendanceService) dayWindow(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, s.loc)
	return start, start.AddDate(0, 0, 1)
}
