package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/config"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/calendar"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/database"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/validator"
	scheduleService "github.com/cmlabs-hris/hris-payroll-engine/internal/service/schedule"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

var _ attendance.AttendanceService = (*AttendanceServiceImpl)(nil)

type AttendanceServiceImpl struct {
	tx             database.Transactor
	attendanceRepo attendance.AttendanceRepository
	calendarLoader *scheduleService.CalendarLoader
	shift          config.ShiftConfig
	loc            *time.Location
	now            func() time.Time
}

func NewAttendanceService(
	tx database.Transactor,
	attendanceRepo attendance.AttendanceRepository,
	calendarLoader *scheduleService.CalendarLoader,
	shift config.ShiftConfig,
	loc *time.Location,
) *AttendanceServiceImpl {
	if loc == nil {
		loc = time.UTC
	}
	return &AttendanceServiceImpl{
		tx:             tx,
		attendanceRepo: attendanceRepo,
		calendarLoader: calendarLoader,
		shift:          shift,
		loc:            loc,
		now:            time.Now,
	}
}

// CheckIn implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CheckIn(ctx context.Context, req attendance.CheckInRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	at := a.instant(req.At)
	date := calendar.Civil(at, a.loc)

	status, lateMinutes, err := a.arrivalStatus(date, at)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	var result attendance.Record
	err = a.tx.WithinTx(ctx, func(ctx context.Context) error {
		existing, err := a.attendanceRepo.GetByUserAndDate(ctx, req.UserID, date)
		if err != nil {
			return err
		}

		if existing == nil {
			result, err = a.attendanceRepo.Create(ctx, attendance.Record{
				UserID:      req.UserID,
				Date:        date,
				CheckIn:     &at,
				Status:      status,
				LateMinutes: lateMinutes,
			})
			return err
		}

		if existing.CheckIn != nil {
			return attendance.ErrAlreadyCheckedIn
		}
		if existing.Status.IsLeave() {
			return attendance.ErrOnLeave
		}

		existing.CheckIn = &at
		existing.Status = status
		existing.LateMinutes = lateMinutes
		if err := a.attendanceRepo.Update(ctx, *existing); err != nil {
			return err
		}
		result = *existing
		return nil
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	slog.Info("check-in recorded", "user_id", req.UserID, "date", calendar.Key(date), "status", status, "late_minutes", lateMinutes)
	return attendance.NewAttendanceResponse(result), nil
}

// CheckOut implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CheckOut(ctx context.Context, req attendance.CheckOutRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	at := a.instant(req.At)

	var result attendance.Record
	err := a.tx.WithinTx(ctx, func(ctx context.Context) error {
		rec, err := a.attendanceRepo.GetOpenSession(ctx, req.UserID)
		if err != nil {
			if errors.Is(err, attendance.ErrAttendanceNotFound) {
				return attendance.ErrNotCheckedIn
			}
			return err
		}

		if rec.CheckIn != nil && at.Before(*rec.CheckIn) {
			errs := validator.ValidationErrors{}
			errs.Add("at", "check-out must not be before check-in")
			return errs.Err()
		}

		rec.CheckOut = &at
		a.applySession(&rec, true)

		if err := a.attendanceRepo.Update(ctx, rec); err != nil {
			return err
		}
		result = rec
		return nil
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	slog.Info("check-out recorded", "user_id", req.UserID, "date", calendar.Key(result.Date), "working_hours", result.WorkingHours.String())
	return attendance.NewAttendanceResponse(result), nil
}

// Correct implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) Correct(ctx context.Context, req attendance.CorrectAttendanceRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	date, _ := calendar.Parse(req.Date)
	status := attendance.Status(req.Status)

	var checkIn, checkOut *time.Time
	if req.CheckIn != nil {
		t := a.instant(req.CheckIn)
		checkIn = &t
	}
	if req.CheckOut != nil {
		t := a.instant(req.CheckOut)
		checkOut = &t
	}

	var result attendance.Record
	err := a.tx.WithinTx(ctx, func(ctx context.Context) error {
		existing, err := a.attendanceRepo.GetByUserAndDate(ctx, req.UserID, date)
		if err != nil {
			return err
		}

		rec := attendance.Record{UserID: req.UserID, Date: date}
		if existing != nil {
			rec = *existing
		}

		rec.Status = status
		rec.CheckIn = checkIn
		rec.CheckOut = checkOut
		rec.DailyLeaveDuration = decimal.Zero
		rec.LateMinutes = 0
		rec.WorkingHours = decimal.Zero
		rec.ExtraHours = decimal.Zero

		if checkIn != nil {
			_, late, err := a.arrivalStatus(date, *checkIn)
			if err != nil {
				return err
			}
			rec.LateMinutes = late
		}
		a.applySession(&rec, false)

		if existing == nil {
			result, err = a.attendanceRepo.Create(ctx, rec)
			return err
		}
		if err := a.attendanceRepo.Update(ctx, rec); err != nil {
			return err
		}
		result = rec
		return nil
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	slog.Info("attendance corrected", "user_id", req.UserID, "date", req.Date, "status", status)
	return attendance.NewAttendanceResponse(result), nil
}

// GetMonthlySummary implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetMonthlySummary(ctx context.Context, userID string, year int, month time.Month, asOf time.Time) (attendance.Summary, error) {
	if month < time.January || month > time.December {
		return attendance.Summary{}, fmt.Errorf("invalid month %d", month)
	}
	from, to := calendar.MonthBounds(year, month)

	var (
		cal     *scheduleService.WorkCalendar
		records []attendance.Record
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		cal, err = a.calendarLoader.Load(gctx, userID, from, to)
		return err
	})
	g.Go(func() error {
		var err error
		records, err = a.attendanceRepo.ListBetween(gctx, userID, from, to)
		if err != nil {
			return fmt.Errorf("failed to load attendance records: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return attendance.Summary{}, err
	}

	resolver := NewDailyStatusResolver(cal, records, asOf)
	return Aggregate(userID, year, month, resolver), nil
}

// ClassifySession recomputes a row's status from its check-in and check-out
// as if no leave covered the day. Leave duration is cleared.
func (a *AttendanceServiceImpl) ClassifySession(rec attendance.Record) (attendance.Record, error) {
	rec.DailyLeaveDuration = decimal.Zero
	rec.WorkingHours = decimal.Zero
	rec.ExtraHours = decimal.Zero
	rec.LateMinutes = 0
	if rec.CheckIn == nil {
		rec.Status = attendance.StatusAbsent
		return rec, nil
	}

	status, late, err := a.arrivalStatus(rec.Date, *rec.CheckIn)
	if err != nil {
		return attendance.Record{}, err
	}
	rec.Status = status
	rec.LateMinutes = late
	a.applySession(&rec, true)
	return rec, nil
}

// Today returns the current civil date in the business timezone.
func (a *AttendanceServiceImpl) Today() time.Time {
	return calendar.Civil(a.now(), a.loc)
}

func (a *AttendanceServiceImpl) instant(raw *string) time.Time {
	if raw != nil {
		if t, err := time.Parse(time.RFC3339Nano, *raw); err == nil {
			return t
		}
	}
	return a.now()
}

// arrivalStatus compares a check-in against the shift start plus grace.
// Late minutes are counted from the shift start.
func (a *AttendanceServiceImpl) arrivalStatus(date, at time.Time) (attendance.Status, int, error) {
	start, err := calendar.ParseClock(date, a.shift.Start, a.loc)
	if err != nil {
		return "", 0, err
	}

	graceLimit := start.Add(time.Duration(a.shift.GraceMinutes) * time.Minute)
	if !at.After(graceLimit) {
		return attendance.StatusPresent, 0, nil
	}
	return attendance.StatusLate, int(math.Floor(at.Sub(start).Minutes())), nil
}

// applySession fills working and extra hours from check-in/out. When
// demote is set, a short PRESENT or LATE session becomes HALF_DAY.
func (a *AttendanceServiceImpl) applySession(rec *attendance.Record, demote bool) {
	if !rec.HasSession() {
		return
	}

	hours := WorkedHours(*rec.CheckIn, *rec.CheckOut)
	rec.WorkingHours = hours.Round(2)
	rec.ExtraHours = decimal.Max(decimal.Zero, hours.Sub(a.shift.StandardHours)).Round(2)

	if demote && hours.LessThan(a.shift.HalfDayHours) &&
		(rec.Status == attendance.StatusPresent || rec.Status == attendance.StatusLate) {
		rec.Status = attendance.StatusHalfDay
	}
}

// WorkedHours returns the hours between check-in and check-out. Both are
// full instants, so an overnight shift is already positive; a check-out
// before the check-in counts as zero.
func WorkedHours(checkIn, checkOut time.Time) decimal.Decimal {
	d := checkOut.Sub(checkIn)
	if d < 0 {
		return decimal.Zero
	}
	minutes := decimal.NewFromInt(int64(d / time.Minute))
	return minutes.Div(decimal.NewFromInt(60))
}
