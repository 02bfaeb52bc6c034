package reconcile

import (
	"context"
	"fmt"
	"time"

	"github.com/staffsync-hq/staffsync-backend-go/internal/domain/attendance"
	"github.com/staffsync-hq/staffsync-backend-go/internal/domain/dailystatus"
	"github.com/staffsync-hq/staffsync-backend-go/internal/domain/holiday"
	"github.com/staffsync-hq/staffsync-backend-go/internal/domain/leave"
	"github.com/staffsync-hq/staffsync-backend-go/internal/domain/user"
)

// Transactor runs fn atomically under a per-date lock. Every read and write
// the reconciler performs for one date happens inside a single call; if fn
// returns an error nothing is persisted.
type Transactor interface {
	WithinDateLock(ctx context.Context, date time.Time, fn func(ctx context.Context) error) error
}

// Service recomputes the daily attendance status for every active user on a
// calendar date. Runs are idempotent: re-running for a date converges on the
// same rows, and retroactive data changes (a leave approved after the fact)
// update existing rows in place.
//
// Classification precedence is strict: holiday > present > leave > absent.
type Service struct {
	tx          Transactor
	userRepo    user.UserRepository
	eventRepo   attendance.EventRepository
	leaveRepo   leave.LeaveRequestRepository
	holidayRepo holiday.HolidayRepository
	statusRepo  dailystatus.DailyStatusRepository
	loc         *time.Location
	now         func() time.Time
}

func NewService(
	tx Transactor,
	userRepo user.UserRepository,
	eventRepo attendance.EventRepository,
	leaveRepo leave.LeaveRequestRepository,
	holidayRepo holiday.HolidayRepository,
	statusRepo dailystatus.DailyStatusRepository,
	loc *time.Location,
) *Service {
	if loc == nil {
		loc = time.Local
	}
	return &Service{
		tx:          tx,
		userRepo:    userRepo,
		eventRepo:   eventRepo,
		leaveRepo:   leaveRepo,
		holidayRepo: holidayRepo,
		statusRepo:  statusRepo,
		loc:         loc,
		now:         time.Now,
	}
}

// WithClock overrides the wall clock. Test hook.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Today returns the current calendar date in the service's configured
// timezone, normalized the way Run expects it.
func (s *Service) Today() time.Time {
	return dateOnly(s.now().In(s.loc))
}

// Run reconciles every active user's status for the calendar date carried by
// date (wall-clock and zone components are ignored). The whole run commits
// or rolls back as one transaction.
func (s *Service) Run(ctx context.Context, date time.Time) error {
	day := dateOnly(date)

	err := s.tx.WithinDateLock(ctx, day, func(ctx context.Context) error {
		// Holiday lookup comes first; a failure here aborts the run before
		// any writes.
		hol, err := s.holidayRepo.GetByDate(ctx, day)
		if err != nil {
			return fmt.Errorf("holiday lookup for %s: %w", day.Format("2006-01-02"), err)
		}

		users, err := s.userRepo.ListActive(ctx)
		if err != nil {
			return fmt.Errorf("list active users: %w", err)
		}
		if len(users) == 0 {
			return nil
		}

		if hol != nil {
			// A holiday overrides attendance and leave for everyone.
			return s.statusRepo.Upsert(ctx, statusesForAll(users, day, dailystatus.StatusHoliday))
		}

		windowStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, s.loc)
		windowEnd := windowStart.AddDate(0, 0, 1)

		events, err := s.eventRepo.ListByRange(ctx, windowStart, windowEnd)
		if err != nil {
			return fmt.Errorf("list attendance events: %w", err)
		}

		leaves, err := s.leaveRepo.ListApprovedCovering(ctx, day)
		if err != nil {
			return fmt.Errorf("list approved leave: %w", err)
		}

		eventsByUser := groupEventsByUser(events)
		leavesByUser := groupLeavesByUser(leaves)
		isFuture := day.After(s.Today())

		var statuses []dailystatus.DailyStatus
		for _, u := range users {
			status, ok := classify(eventsByUser[u.ID], leavesByUser[u.ID], day, isFuture)
			if !ok {
				continue
			}
			statuses = append(statuses, dailystatus.DailyStatus{
				UserID: u.ID,
				Date:   day,
				Status: status,
			})
		}

		if len(statuses) == 0 {
			return nil
		}
		return s.statusRepo.Upsert(ctx, statuses)
	})
	if err != nil {
		return fmt.Errorf("reconcile daily status for %s: %w", day.Format("2006-01-02"), err)
	}

	return nil
}

// classify resolves one user's status for day. The second return is false
// when no row should be written (future date with nothing recorded).
func classify(events []attendance.Event, leaves []leave.LeaveRequest, day time.Time, isFuture bool) (dailystatus.Status, bool) {
	switch {
	case hasCompletePresentPair(events):
		return dailystatus.StatusPresent, true
	case hasApprovedLeaveCovering(leaves, day):
		return dailystatus.StatusLeave, true
	case !isFuture:
		return dailystatus.StatusAbsent, true
	default:
		return "", false
	}
}

// hasCompletePresentPair reports whether the day's events contain at least
// one check-in and one check-out. A check-in alone does not count as
// present.
func hasCompletePresentPair(events []attendance.Event) bool {
	var in, out bool
	for _, e := range events {
		switch e.Type {
		case attendance.EventCheckIn:
			in = true
		case attendance.EventCheckOut:
			out = true
		}
		if in && out {
			return true
		}
	}
	return false
}

// hasApprovedLeaveCovering reports whether any approved request's inclusive
// range contains day. Covers rejects malformed ranges (end before start).
func hasApprovedLeaveCovering(leaves []leave.LeaveRequest, day time.Time) bool {
	for _, lr := range leaves {
		if lr.Status != leave.StatusApproved {
			continue
		}
		if lr.Covers(day) {
			return true
		}
	}
	return false
}

func statusesForAll(users []user.User, day time.Time, status dailystatus.Status) []dailystatus.DailyStatus {
	statuses := make([]dailystatus.DailyStatus, 0, len(users))
	for _, u := range users {
		statuses = append(statuses, dailystatus.DailyStatus{
			UserID: u.ID,
			Date:   day,
			Status: status,
		})
	}
	return statuses
}

func groupEventsByUser(events []attendance.Event) map[string][]attendance.Event {
	grouped := make(map[string][]attendance.Event)
	for _, e := range events {
		grouped[e.UserID] = append(grouped[e.UserID], e)
	}
	return grouped
}

func groupLeavesByUser(leaves []leave.LeaveRequest) map[string][]leave.LeaveRequest {
	grouped := make(map[string][]leave.LeaveRequest)
	for _, lr := range leaves {
		grouped[lr.UserID] = append(grouped[lr.UserID], lr)
	}
	return grouped
}

// dateOnly strips wall-clock and zone information, leaving a bare calendar
// date. Date-typed columns compare on exactly this.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
