package attendance

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/config"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/schedule"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/calendar"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/validator"
	scheduleService "github.com/cmlabs-hris/hris-payroll-engine/internal/service/schedule"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type passthroughTx struct{}

func (passthroughTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeAttendanceRepo struct {
	mu   sync.Mutex
	rows map[string]attendance.Record
}

func newFakeAttendanceRepo() *fakeAttendanceRepo {
	return &fakeAttendanceRepo{rows: make(map[string]attendance.Record)}
}

func rowKey(userID string, date time.Time) string {
	return userID + "|" + calendar.Key(date)
}

func (f *fakeAttendanceRepo) Create(_ context.Context, r attendance.Record) (attendance.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r.ID = uuid.NewString()
	f.rows[rowKey(r.UserID, r.Date)] = r
	return r, nil
}

func (f *fakeAttendanceRepo) GetByUserAndDate(_ context.Context, userID string, date time.Time) (*attendance.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rows[rowKey(userID, date)]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (f *fakeAttendanceRepo) Update(_ context.Context, r attendance.Record) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[rowKey(r.UserID, r.Date)]; !ok {
		return attendance.ErrAttendanceNotFound
	}
	f.rows[rowKey(r.UserID, r.Date)] = r
	return nil
}

func (f *fakeAttendanceRepo) ListBetween(_ context.Context, userID string, from, to time.Time) ([]attendance.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []attendance.Record
	for _, r := range f.rows {
		if r.UserID == userID && !r.Date.Before(from) && !r.Date.After(to) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (f *fakeAttendanceRepo) GetOpenSession(_ context.Context, userID string) (attendance.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var (
		found attendance.Record
		ok    bool
	)
	for _, r := range f.rows {
		if r.UserID == userID && r.CheckIn != nil && r.CheckOut == nil {
			if !ok || r.CheckIn.After(*found.CheckIn) {
				found, ok = r, true
			}
		}
	}
	if !ok {
		return attendance.Record{}, attendance.ErrAttendanceNotFound
	}
	return found, nil
}

func (f *fakeAttendanceRepo) ResetLeaveRows(context.Context, string, time.Time, time.Time) (int64, error) {
	return 0, nil
}

func (f *fakeAttendanceRepo) DeleteLeaveRows(context.Context, string, time.Time, time.Time) (int64, error) {
	return 0, nil
}

type staticHolidays []schedule.Holiday

func (s staticHolidays) Create(_ context.Context, h schedule.Holiday) (schedule.Holiday, error) {
	return h, nil
}

func (s staticHolidays) ListBetween(_ context.Context, from, to time.Time) ([]schedule.Holiday, error) {
	var out []schedule.Holiday
	for _, h := range s {
		if !h.Date.Before(from) && !h.Date.After(to) {
			out = append(out, h)
		}
	}
	return out, nil
}

type staticWeeklyOffs []schedule.WeeklyOffConfig

func (s staticWeeklyOffs) Create(_ context.Context, c schedule.WeeklyOffConfig) (schedule.WeeklyOffConfig, error) {
	return c, nil
}

func (s staticWeeklyOffs) ListByUser(context.Context, string) ([]schedule.WeeklyOffConfig, error) {
	return s, nil
}

var testShift = config.ShiftConfig{
	Start:         "09:30",
	GraceMinutes:  10,
	StandardHours: dec("8"),
	HalfDayHours:  dec("4"),
}

func newTestService(repo *fakeAttendanceRepo) *AttendanceServiceImpl {
	loader := scheduleService.NewCalendarLoader(
		staticHolidays{{Date: march(8), Name: "Festival"}},
		staticWeeklyOffs(sundaysOff()),
	)
	return NewAttendanceService(passthroughTx{}, repo, loader, testShift, time.UTC)
}

func stamp(t time.Time) *string {
	s := t.Format(time.RFC3339)
	return &s
}

func TestCheckIn_OnTimeAndLate(t *testing.T) {
	ctx := context.Background()
	repo := newFakeAttendanceRepo()
	svc := newTestService(repo)

	onTime, err := svc.CheckIn(ctx, attendance.CheckInRequest{
		UserID: uuid.NewString(),
		At:     stamp(time.Date(2024, time.March, 4, 9, 40, 0, 0, time.UTC)),
	})
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusPresent, onTime.Status)
	assert.Equal(t, 0, onTime.LateMinutes)

	late, err := svc.CheckIn(ctx, attendance.CheckInRequest{
		UserID: uuid.NewString(),
		At:     stamp(time.Date(2024, time.March, 4, 9, 41, 30, 0, time.UTC)),
	})
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusLate, late.Status)
	assert.Equal(t, 11, late.LateMinutes)
}

func TestCheckIn_Twice(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(newFakeAttendanceRepo())
	userID := uuid.NewString()

	_, err := svc.CheckIn(ctx, attendance.CheckInRequest{UserID: userID, At: stamp(time.Date(2024, time.March, 4, 9, 0, 0, 0, time.UTC))})
	require.NoError(t, err)

	_, err = svc.CheckIn(ctx, attendance.CheckInRequest{UserID: userID, At: stamp(time.Date(2024, time.March, 4, 13, 0, 0, 0, time.UTC))})
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)
}

func TestCheckIn_OnLeaveDay(t *testing.T) {
	ctx := context.Background()
	repo := newFakeAttendanceRepo()
	svc := newTestService(repo)
	userID := uuid.NewString()

	_, err := repo.Create(ctx, attendance.Record{UserID: userID, Date: march(4), Status: attendance.StatusOnLeave, DailyLeaveDuration: dec("1")})
	require.NoError(t, err)

	_, err = svc.CheckIn(ctx, attendance.CheckInRequest{UserID: userID, At: stamp(time.Date(2024, time.March, 4, 9, 0, 0, 0, time.UTC))})
	assert.ErrorIs(t, err, attendance.ErrOnLeave)
}

func TestCheckOut_ComputesHours(t *testing.T) {
	ctx := context.Background()
	repo := newFakeAttendanceRepo()
	svc := newTestService(repo)
	userID := uuid.NewString()

	_, err := svc.CheckIn(ctx, attendance.CheckInRequest{UserID: userID, At: stamp(time.Date(2024, time.March, 4, 9, 30, 0, 0, time.UTC))})
	require.NoError(t, err)

	out, err := svc.CheckOut(ctx, attendance.CheckOutRequest{UserID: userID, At: stamp(time.Date(2024, time.March, 4, 19, 15, 0, 0, time.UTC))})
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusPresent, out.Status)
	assert.True(t, out.WorkingHours.Equal(dec("9.75")), out.WorkingHours.String())
	assert.True(t, out.ExtraHours.Equal(dec("1.75")), out.ExtraHours.String())
}

func TestCheckOut_ShortSessionIsHalfDay(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(newFakeAttendanceRepo())
	userID := uuid.NewString()

	_, err := svc.CheckIn(ctx, attendance.CheckInRequest{UserID: userID, At: stamp(time.Date(2024, time.March, 4, 10, 0, 0, 0, time.UTC))})
	require.NoError(t, err)

	out, err := svc.CheckOut(ctx, attendance.CheckOutRequest{UserID: userID, At: stamp(time.Date(2024, time.March, 4, 13, 0, 0, 0, time.UTC))})
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusHalfDay, out.Status)
	assert.True(t, out.ExtraHours.IsZero())
}

func TestCheckOut_WithoutCheckIn(t *testing.T) {
	svc := newTestService(newFakeAttendanceRepo())
	_, err := svc.CheckOut(context.Background(), attendance.CheckOutRequest{UserID: uuid.NewString()})
	assert.ErrorIs(t, err, attendance.ErrNotCheckedIn)
}

func TestCheckOut_BeforeCheckIn(t *testing.T) {
	ctx := context.Background()
	repo := newFakeAttendanceRepo()
	svc := newTestService(repo)
	userID := uuid.NewString()

	_, err := svc.CheckIn(ctx, attendance.CheckInRequest{UserID: userID, At: stamp(time.Date(2024, time.March, 4, 10, 0, 0, 0, time.UTC))})
	require.NoError(t, err)

	_, err = svc.CheckOut(ctx, attendance.CheckOutRequest{UserID: userID, At: stamp(time.Date(2024, time.March, 4, 9, 0, 0, 0, time.UTC))})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "at")

	stored, err := repo.GetByUserAndDate(ctx, userID, march(4))
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Nil(t, stored.CheckOut, "the session stays open")
	assert.True(t, stored.WorkingHours.IsZero())
}

func TestWorkedHours(t *testing.T) {
	in := time.Date(2024, time.March, 4, 22, 0, 0, 0, time.UTC)

	// overnight shifts end on the next day's instant
	assert.True(t, WorkedHours(in, time.Date(2024, time.March, 5, 6, 30, 0, 0, time.UTC)).Equal(dec("8.5")))

	// an earlier instant is never worked time
	assert.True(t, WorkedHours(in, time.Date(2024, time.March, 4, 6, 30, 0, 0, time.UTC)).IsZero())
	assert.True(t, WorkedHours(in, in).IsZero())
}

func TestCorrect_CreatesAndRecomputes(t *testing.T) {
	ctx := context.Background()
	repo := newFakeAttendanceRepo()
	svc := newTestService(repo)
	userID := uuid.NewString()

	resp, err := svc.Correct(ctx, attendance.CorrectAttendanceRequest{
		UserID:   userID,
		Date:     "2024-03-05",
		Status:   string(attendance.StatusLate),
		CheckIn:  stamp(time.Date(2024, time.March, 5, 10, 0, 0, 0, time.UTC)),
		CheckOut: stamp(time.Date(2024, time.March, 5, 18, 0, 0, 0, time.UTC)),
	})
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusLate, resp.Status)
	assert.Equal(t, 30, resp.LateMinutes)
	assert.True(t, resp.WorkingHours.Equal(dec("8")))

	stored, err := repo.GetByUserAndDate(ctx, userID, march(5))
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, attendance.StatusLate, stored.Status)
}

func TestCorrect_RejectsLeaveStatus(t *testing.T) {
	svc := newTestService(newFakeAttendanceRepo())
	_, err := svc.Correct(context.Background(), attendance.CorrectAttendanceRequest{
		UserID: uuid.NewString(),
		Date:   "2024-03-05",
		Status: string(attendance.StatusOnLeave),
	})

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "status")
}

func TestCorrect_CheckOutBeforeCheckIn(t *testing.T) {
	repo := newFakeAttendanceRepo()
	svc := newTestService(repo)
	_, err := svc.Correct(context.Background(), attendance.CorrectAttendanceRequest{
		UserID:   uuid.NewString(),
		Date:     "2024-03-05",
		Status:   string(attendance.StatusPresent),
		CheckIn:  stamp(time.Date(2024, time.March, 5, 10, 0, 0, 0, time.UTC)),
		CheckOut: stamp(time.Date(2024, time.March, 5, 9, 0, 0, 0, time.UTC)),
	})

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "check_out")
	assert.Empty(t, repo.rows)
}

func TestCorrect_BadShiftStart(t *testing.T) {
	repo := newFakeAttendanceRepo()
	shift := testShift
	shift.Start = "half past nine"
	svc := NewAttendanceService(passthroughTx{}, repo, nil, shift, time.UTC)

	_, err := svc.Correct(context.Background(), attendance.CorrectAttendanceRequest{
		UserID:  uuid.NewString(),
		Date:    "2024-03-05",
		Status:  string(attendance.StatusPresent),
		CheckIn: stamp(time.Date(2024, time.March, 5, 10, 0, 0, 0, time.UTC)),
	})
	require.Error(t, err)
	assert.Empty(t, repo.rows, "nothing is written when lateness cannot be computed")
}

func TestClassifySession(t *testing.T) {
	svc := newTestService(newFakeAttendanceRepo())
	in := time.Date(2024, time.March, 5, 9, 50, 0, 0, time.UTC)
	out := in.Add(3 * time.Hour)

	rec, err := svc.ClassifySession(attendance.Record{
		Date: march(5), CheckIn: &in, CheckOut: &out,
		Status: attendance.StatusOnLeave, DailyLeaveDuration: dec("1"),
	})
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusHalfDay, rec.Status, "a late three hour session is a half day")
	assert.Equal(t, 20, rec.LateMinutes)
	assert.True(t, rec.DailyLeaveDuration.IsZero())
	assert.True(t, rec.WorkingHours.Equal(dec("3")))

	open, err := svc.ClassifySession(attendance.Record{Date: march(5), CheckIn: &in, Status: attendance.StatusLOP})
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusLate, open.Status)
	assert.True(t, open.WorkingHours.IsZero())
}

func TestGetMonthlySummary_LoadsFacts(t *testing.T) {
	ctx := context.Background()
	repo := newFakeAttendanceRepo()
	svc := newTestService(repo)
	userID := uuid.NewString()

	_, err := repo.Create(ctx, session(march(4), attendance.StatusPresent, "8"))
	require.NoError(t, err)
	rec := session(march(5), attendance.StatusPresent, "8")
	rec.UserID = userID
	_, err = repo.Create(ctx, rec)
	require.NoError(t, err)

	s, err := svc.GetMonthlySummary(ctx, userID, 2024, time.March, march(31))
	require.NoError(t, err)
	assert.Equal(t, 1, s.Holidays)
	assert.Equal(t, 5, s.WeeklyOffs)
	assert.True(t, s.PresentDays.Equal(dec("1")), "rows of other users are ignored")
	assert.Equal(t, 24, s.AbsentDays)
}
