package reconcile

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/staffsync-hq/staffsync-backend-go/internal/domain/attendance"
	"github.com/staffsync-hq/staffsync-backend-go/internal/domain/dailystatus"
	"github.com/staffsync-hq/staffsync-backend-go/internal/domain/holiday"
	"github.com/staffsync-hq/staffsync-backend-go/internal/domain/leave"
	"github.com/staffsync-hq/staffsync-backend-go/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ===== FAKES =====

type fakeTransactor struct {
	calls int
}

func (f *fakeTransactor) WithinDateLock(ctx context.Context, date time.Time, fn func(ctx context.Context) error) error {
	f.calls++
	return fn(ctx)
}

type fakeUserRepo struct {
	users []user.User
}

func (f *fakeUserRepo) Create(ctx context.Context, u user.User) (user.User, error) { return u, nil }
func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (user.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}
func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	return user.User{}, user.ErrUserNotFound
}
func (f *fakeUserRepo) List(ctx context.Context) ([]user.User, error) { return f.users, nil }
func (f *fakeUserRepo) ListActive(ctx context.Context) ([]user.User, error) {
	var active []user.User
	for _, u := range f.users {
		if u.IsActive {
			active = append(active, u)
		}
	}
	return active, nil
}
func (f *fakeUserRepo) SetActive(ctx context.Context, id string, active bool) error { return nil }

type fakeEventRepo struct {
	events []attendance.Event
}

func (f *fakeEventRepo) Append(ctx context.Context, e attendance.Event) (attendance.Event, error) {
	f.events = append(f.events, e)
	return e, nil
}
func (f *fakeEventRepo) ListByUserAndRange(ctx context.Context, userID string, from, to time.Time) ([]attendance.Event, error) {
	var out []attendance.Event
	for _, e := range f.events {
		if e.UserID == userID && !e.RecordedAt.Before(from) && e.RecordedAt.Before(to) {
			out = append(out, e)
		}
	}
	return out, nil
}
func (f *fakeEventRepo) ListByRange(ctx context.Context, from, to time.Time) ([]attendance.Event, error) {
	var out []attendance.Event
	for _, e := range f.events {
		if !e.RecordedAt.Before(from) && e.RecordedAt.Before(to) {
			out = append(out, e)
		}
	}
	return out, nil
}
func (f *fakeEventRepo) CountByUserAndTypeInRange(ctx context.Context, userID string, t attendance.EventType, from, to time.Time) (int, error) {
	events, _ := f.ListByUserAndRange(ctx, userID, from, to)
	count := 0
	for _, e := range events {
		if e.Type == t {
			count++
		}
	}
	return count, nil
}

type fakeLeaveRepo struct {
	requests []leave.LeaveRequest
}

func (f *fakeLeaveRepo) Create(ctx context.Context, r leave.LeaveRequest) (leave.LeaveRequest, error) {
	f.requests = append(f.requests, r)
	return r, nil
}
func (f *fakeLeaveRepo) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	for _, r := range f.requests {
		if r.ID == id {
			return r, nil
		}
	}
	return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
}
func (f *fakeLeaveRepo) ListByUser(ctx context.Context, userID string) ([]leave.LeaveRequest, error) {
	return nil, nil
}
func (f *fakeLeaveRepo) ListByStatus(ctx context.Context, status leave.RequestStatus) ([]leave.LeaveRequest, error) {
	return nil, nil
}
func (f *fakeLeaveRepo) ListApprovedCovering(ctx context.Context, date time.Time) ([]leave.LeaveRequest, error) {
	// Fetch stays dumb: status filter only. The service's predicates own the
	// range test, including rejection of malformed ranges.
	var out []leave.LeaveRequest
	for _, r := range f.requests {
		if r.Status == leave.StatusApproved {
			out = append(out, r)
		}
	}
	return out, nil
}
func (f *fakeLeaveRepo) HasOverlapping(ctx context.Context, userID string, startDate, endDate time.Time) (bool, error) {
	return false, nil
}
func (f *fakeLeaveRepo) UpdateStatus(ctx context.Context, id string, status leave.RequestStatus, decidedBy string) error {
	for i := range f.requests {
		if f.requests[i].ID == id {
			f.requests[i].Status = status
			return nil
		}
	}
	return leave.ErrLeaveRequestNotFound
}

type fakeHolidayRepo struct {
	holidays  map[string]holiday.Holiday
	lookupErr error
}

func (f *fakeHolidayRepo) Create(ctx context.Context, h holiday.Holiday) (holiday.Holiday, error) {
	if f.holidays == nil {
		f.holidays = make(map[string]holiday.Holiday)
	}
	f.holidays[h.Date.Format("2006-01-02")] = h
	return h, nil
}
func (f *fakeHolidayRepo) GetByDate(ctx context.Context, date time.Time) (*holiday.Holiday, error) {
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	if h, ok := f.holidays[date.Format("2006-01-02")]; ok {
		return &h, nil
	}
	return nil, nil
}
func (f *fakeHolidayRepo) ListByYear(ctx context.Context, year int) ([]holiday.Holiday, error) {
	return nil, nil
}
func (f *fakeHolidayRepo) Delete(ctx context.Context, date time.Time) error { return nil }

type fakeStatusRepo struct {
	rows      map[string]dailystatus.DailyStatus
	upsertErr error
	clock     func() time.Time
}

func newFakeStatusRepo(clock func() time.Time) *fakeStatusRepo {
	return &fakeStatusRepo{rows: make(map[string]dailystatus.DailyStatus), clock: clock}
}

func statusKey(userID string, date time.Time) string {
	return userID + "|" + date.Format("2006-01-02")
}

func (f *fakeStatusRepo) Upsert(ctx context.Context, statuses []dailystatus.DailyStatus) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	now := f.clock()
	for _, ds := range statuses {
		key := statusKey(ds.UserID, ds.Date)
		if existing, ok := f.rows[key]; ok {
			existing.Status = ds.Status
			existing.UpdatedAt = now
			f.rows[key] = existing
			continue
		}
		ds.CreatedAt = now
		ds.UpdatedAt = now
		f.rows[key] = ds
	}
	return nil
}
func (f *fakeStatusRepo) ListByDate(ctx context.Context, date time.Time) ([]dailystatus.DailyStatus, error) {
	var out []dailystatus.DailyStatus
	for _, ds := range f.rows {
		if ds.Date.Equal(date) {
			out = append(out, ds)
		}
	}
	return out, nil
}
func (f *fakeStatusRepo) ListByUserAndRange(ctx context.Context, userID string, from, to time.Time) ([]dailystatus.DailyStatus, error) {
	return nil, nil
}

func (f *fakeStatusRepo) get(t *testing.T, userID string, date time.Time) dailystatus.DailyStatus {
	t.Helper()
	ds, ok := f.rows[statusKey(userID, date)]
	require.True(t, ok, "expected a daily status row for user %s on %s", userID, date.Format("2006-01-02"))
	return ds
}

// ===== HARNESS =====

type harness struct {
	tx       *fakeTransactor
	users    *fakeUserRepo
	events   *fakeEventRepo
	leaves   *fakeLeaveRepo
	holidays *fakeHolidayRepo
	statuses *fakeStatusRepo
	svc      *Service
	wallTime time.Time
}

// newHarness fixes "now" at 2024-03-10 12:00 UTC, so March dates before the
// 10th are in the past and later ones in the future.
func newHarness(users ...user.User) *harness {
	h := &harness{
		tx:       &fakeTransactor{},
		users:    &fakeUserRepo{users: users},
		events:   &fakeEventRepo{},
		leaves:   &fakeLeaveRepo{},
		holidays: &fakeHolidayRepo{},
		wallTime: time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC),
	}
	h.statuses = newFakeStatusRepo(func() time.Time { return h.wallTime })
	h.svc = NewService(h.tx, h.users, h.events, h.leaves, h.holidays, h.statuses, time.UTC).
		WithClock(func() time.Time { return h.wallTime })
	return h
}

func activeUser(id string) user.User {
	return user.User{ID: id, FullName: "User " + id, Role: user.RoleStaff, IsActive: true}
}

func d(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func (h *harness) addEvent(userID string, eventType attendance.EventType, at time.Time) {
	h.events.events = append(h.events.events, attendance.Event{
		ID: "evt-" + at.Format("20060102150405") + "-" + userID, UserID: userID, Type: eventType, RecordedAt: at,
	})
}

func (h *harness) addLeave(id, userID string, status leave.RequestStatus, start, end time.Time) {
	h.leaves.requests = append(h.leaves.requests, leave.LeaveRequest{
		ID: id, UserID: userID, Status: status, StartDate: start, EndDate: end,
	})
}

// ===== TESTS =====

func TestRun_PresentRequiresCheckInAndCheckOut(t *testing.T) {
	t.Parallel()
	h := newHarness(activeUser("7"))
	day := d(2024, 3, 5)
	h.addEvent("7", attendance.EventCheckIn, time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC))
	h.addEvent("7", attendance.EventCheckOut, time.Date(2024, 3, 5, 18, 0, 0, 0, time.UTC))

	require.NoError(t, h.svc.Run(context.Background(), day))

	assert.Equal(t, dailystatus.StatusPresent, h.statuses.get(t, "7", day).Status)
}

func TestRun_CheckInWithoutCheckOutIsAbsent(t *testing.T) {
	t.Parallel()
	h := newHarness(activeUser("7"))
	day := d(2024, 3, 5)
	h.addEvent("7", attendance.EventCheckIn, time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC))

	require.NoError(t, h.svc.Run(context.Background(), day))

	assert.Equal(t, dailystatus.StatusAbsent, h.statuses.get(t, "7", day).Status)
}

func TestRun_CheckOutWithoutCheckInIsAbsent(t *testing.T) {
	t.Parallel()
	h := newHarness(activeUser("7"))
	day := d(2024, 3, 5)
	h.addEvent("7", attendance.EventCheckOut, time.Date(2024, 3, 5, 18, 0, 0, 0, time.UTC))

	require.NoError(t, h.svc.Run(context.Background(), day))

	assert.Equal(t, dailystatus.StatusAbsent, h.statuses.get(t, "7", day).Status)
}

func TestRun_HolidayOverridesEverything(t *testing.T) {
	t.Parallel()
	h := newHarness(activeUser("9"), activeUser("10"))
	day := d(2024, 3, 6)
	h.holidays.Create(context.Background(), holiday.Holiday{Date: day, Name: "Founders Day"})

	// User 9 also worked a full day and has approved leave; the holiday wins.
	h.addEvent("9", attendance.EventCheckIn, time.Date(2024, 3, 6, 9, 0, 0, 0, time.UTC))
	h.addEvent("9", attendance.EventCheckOut, time.Date(2024, 3, 6, 18, 0, 0, 0, time.UTC))
	h.addLeave("lr-1", "9", leave.StatusApproved, day, day)

	require.NoError(t, h.svc.Run(context.Background(), day))

	assert.Equal(t, dailystatus.StatusHoliday, h.statuses.get(t, "9", day).Status)
	assert.Equal(t, dailystatus.StatusHoliday, h.statuses.get(t, "10", day).Status)
}

func TestRun_ApprovedLeaveCoversRange(t *testing.T) {
	t.Parallel()
	h := newHarness(activeUser("3"))
	h.addLeave("lr-1", "3", leave.StatusApproved, d(2024, 3, 1), d(2024, 3, 3))

	for _, day := range []time.Time{d(2024, 3, 1), d(2024, 3, 2), d(2024, 3, 3)} {
		require.NoError(t, h.svc.Run(context.Background(), day))
		assert.Equal(t, dailystatus.StatusLeave, h.statuses.get(t, "3", day).Status, "day %s", day.Format("2006-01-02"))
	}

	// The day after the range is plain absence.
	after := d(2024, 3, 4)
	require.NoError(t, h.svc.Run(context.Background(), after))
	assert.Equal(t, dailystatus.StatusAbsent, h.statuses.get(t, "3", after).Status)
}

func TestRun_PresentBeatsLeave(t *testing.T) {
	t.Parallel()
	h := newHarness(activeUser("3"))
	day := d(2024, 3, 1)
	h.addLeave("lr-1", "3", leave.StatusApproved, day, day)
	h.addEvent("3", attendance.EventCheckIn, time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC))
	h.addEvent("3", attendance.EventCheckOut, time.Date(2024, 3, 1, 17, 0, 0, 0, time.UTC))

	require.NoError(t, h.svc.Run(context.Background(), day))

	assert.Equal(t, dailystatus.StatusPresent, h.statuses.get(t, "3", day).Status)
}

func TestRun_PendingAndRejectedLeaveDoNotCount(t *testing.T) {
	t.Parallel()
	h := newHarness(activeUser("3"))
	day := d(2024, 3, 1)
	h.addLeave("lr-1", "3", leave.StatusPending, day, day)
	h.addLeave("lr-2", "3", leave.StatusRejected, day, day)

	require.NoError(t, h.svc.Run(context.Background(), day))

	assert.Equal(t, dailystatus.StatusAbsent, h.statuses.get(t, "3", day).Status)
}

func TestRun_MalformedLeaveRangeIsIgnored(t *testing.T) {
	t.Parallel()
	h := newHarness(activeUser("3"))
	day := d(2024, 3, 2)
	// end_date before start_date: the range test must never match it.
	h.addLeave("lr-1", "3", leave.StatusApproved, d(2024, 3, 3), d(2024, 3, 1))

	require.NoError(t, h.svc.Run(context.Background(), day))

	assert.Equal(t, dailystatus.StatusAbsent, h.statuses.get(t, "3", day).Status)
}

func TestRun_NoRecordsOnPastDateIsAbsent(t *testing.T) {
	t.Parallel()
	h := newHarness(activeUser("12"))
	day := d(2024, 3, 7)

	require.NoError(t, h.svc.Run(context.Background(), day))

	assert.Equal(t, dailystatus.StatusAbsent, h.statuses.get(t, "12", day).Status)
}

func TestRun_FutureDateIsNeverAbsent(t *testing.T) {
	t.Parallel()
	h := newHarness(activeUser("12"))
	future := d(2024, 3, 15) // wall clock is fixed at 2024-03-10

	require.NoError(t, h.svc.Run(context.Background(), future))

	_, exists := h.statuses.rows[statusKey("12", future)]
	assert.False(t, exists, "future date must not produce an absent row")
}

func TestRun_FutureHolidayStillMarked(t *testing.T) {
	t.Parallel()
	h := newHarness(activeUser("12"))
	future := d(2024, 3, 15)
	h.holidays.Create(context.Background(), holiday.Holiday{Date: future, Name: "Planned Holiday"})

	require.NoError(t, h.svc.Run(context.Background(), future))

	assert.Equal(t, dailystatus.StatusHoliday, h.statuses.get(t, "12", future).Status)
}

func TestRun_InactiveUsersAreSkipped(t *testing.T) {
	t.Parallel()
	inactive := user.User{ID: "99", FullName: "Former Employee", Role: user.RoleStaff, IsActive: false}
	h := newHarness(activeUser("1"), inactive)
	day := d(2024, 3, 5)
	h.holidays.Create(context.Background(), holiday.Holiday{Date: day, Name: "Some Holiday"})

	require.NoError(t, h.svc.Run(context.Background(), day))

	assert.Equal(t, dailystatus.StatusHoliday, h.statuses.get(t, "1", day).Status)
	_, exists := h.statuses.rows[statusKey("99", day)]
	assert.False(t, exists, "inactive users must not be classified")
}

func TestRun_IdempotentRerunKeepsCreatedAt(t *testing.T) {
	t.Parallel()
	h := newHarness(activeUser("7"))
	day := d(2024, 3, 5)
	h.addEvent("7", attendance.EventCheckIn, time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC))
	h.addEvent("7", attendance.EventCheckOut, time.Date(2024, 3, 5, 18, 0, 0, 0, time.UTC))

	require.NoError(t, h.svc.Run(context.Background(), day))
	first := h.statuses.get(t, "7", day)

	// Advance the clock and re-run with unchanged data.
	h.wallTime = h.wallTime.Add(2 * time.Hour)
	require.NoError(t, h.svc.Run(context.Background(), day))
	second := h.statuses.get(t, "7", day)

	assert.Equal(t, first.Status, second.Status)
	assert.Equal(t, first.CreatedAt, second.CreatedAt, "created_at must survive recomputation")
	assert.True(t, second.UpdatedAt.After(first.UpdatedAt))
	assert.Len(t, h.statuses.rows, 1, "re-run must not create duplicate rows")
}

func TestRun_RetroactiveApprovalFlipsAbsentToLeave(t *testing.T) {
	t.Parallel()
	h := newHarness(activeUser("3"))
	day := d(2024, 3, 5)
	h.addLeave("lr-1", "3", leave.StatusPending, day, day)

	require.NoError(t, h.svc.Run(context.Background(), day))
	first := h.statuses.get(t, "3", day)
	require.Equal(t, dailystatus.StatusAbsent, first.Status)

	// Approve after the fact, then reconcile the same date again.
	require.NoError(t, h.leaves.UpdateStatus(context.Background(), "lr-1", leave.StatusApproved, "admin-1"))
	require.NoError(t, h.svc.Run(context.Background(), day))

	second := h.statuses.get(t, "3", day)
	assert.Equal(t, dailystatus.StatusLeave, second.Status)
	assert.Equal(t, first.CreatedAt, second.CreatedAt)
	assert.Len(t, h.statuses.rows, 1)
}

func TestRun_HolidayLookupFailureAbortsBeforeWrites(t *testing.T) {
	t.Parallel()
	h := newHarness(activeUser("1"), activeUser("2"))
	h.holidays.lookupErr = errors.New("connection reset")

	err := h.svc.Run(context.Background(), d(2024, 3, 5))

	require.Error(t, err)
	assert.ErrorContains(t, err, "holiday lookup")
	assert.Empty(t, h.statuses.rows, "no partial writes on lookup failure")
}

func TestRun_UpsertFailurePropagates(t *testing.T) {
	t.Parallel()
	h := newHarness(activeUser("1"))
	h.statuses.upsertErr = errors.New("deadlock detected")

	err := h.svc.Run(context.Background(), d(2024, 3, 5))

	require.Error(t, err)
	assert.ErrorContains(t, err, "deadlock detected")
}

func TestRun_WholeRunHappensInOneTransaction(t *testing.T) {
	t.Parallel()
	h := newHarness(activeUser("1"), activeUser("2"), activeUser("3"))

	require.NoError(t, h.svc.Run(context.Background(), d(2024, 3, 5)))

	assert.Equal(t, 1, h.tx.calls, "all users must be classified in a single transaction")
}

func TestRun_NormalizesWallClockInput(t *testing.T) {
	t.Parallel()
	h := newHarness(activeUser("7"))
	h.addEvent("7", attendance.EventCheckIn, time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC))
	h.addEvent("7", attendance.EventCheckOut, time.Date(2024, 3, 5, 18, 0, 0, 0, time.UTC))

	// A timestamp mid-day still reconciles the calendar date it falls on.
	require.NoError(t, h.svc.Run(context.Background(), time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC)))

	assert.Equal(t, dailystatus.StatusPresent, h.statuses.get(t, "7", d(2024, 3, 5)).Status)
}

func TestToday_UsesConfiguredTimezone(t *testing.T) {
	t.Parallel()
	jakarta := time.FixedZone("WIB", 7*3600)
	h := newHarness()
	h.svc = NewService(h.tx, h.users, h.events, h.leaves, h.holidays, h.statuses, jakarta).
		WithClock(func() time.Time {
			// 20:00 UTC on March 9 is already March 10 in UTC+7.
			return time.Date(2024, 3, 9, 20, 0, 0, 0, time.UTC)
		})

	assert.Equal(t, d(2024, 3, 10), h.svc.Today())
}

func TestHasCompletePresentPair(t *testing.T) {
	t.Parallel()
	in := attendance.Event{Type: attendance.EventCheckIn}
	out := attendance.Event{Type: attendance.EventCheckOut}

	cases := []struct {
		name   string
		events []attendance.Event
		want   bool
	}{
		{"no events", nil, false},
		{"check-in only", []attendance.Event{in}, false},
		{"check-out only", []attendance.Event{out}, false},
		{"complete pair", []attendance.Event{in, out}, true},
		{"pair out of order", []attendance.Event{out, in}, true},
		{"multiple pairs", []attendance.Event{in, out, in, out}, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, hasCompletePresentPair(c.events))
		})
	}
}

func TestHasApprovedLeaveCovering(t *testing.T) {
	t.Parallel()
	day := d(2024, 3, 2)

	cases := []struct {
		name   string
		leaves []leave.LeaveRequest
		want   bool
	}{
		{"no requests", nil, false},
		{"covering approved", []leave.LeaveRequest{{Status: leave.StatusApproved, StartDate: d(2024, 3, 1), EndDate: d(2024, 3, 3)}}, true},
		{"single-day boundary", []leave.LeaveRequest{{Status: leave.StatusApproved, StartDate: day, EndDate: day}}, true},
		{"covering pending", []leave.LeaveRequest{{Status: leave.StatusPending, StartDate: d(2024, 3, 1), EndDate: d(2024, 3, 3)}}, false},
		{"outside range", []leave.LeaveRequest{{Status: leave.StatusApproved, StartDate: d(2024, 3, 5), EndDate: d(2024, 3, 8)}}, false},
		{"inverted range", []leave.LeaveRequest{{Status: leave.StatusApproved, StartDate: d(2024, 3, 3), EndDate: d(2024, 3, 1)}}, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, hasApprovedLeaveCovering(c.leaves, day))
		})
	}
}
