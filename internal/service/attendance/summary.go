package attendance

import (
	"time"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/calendar"
	"github.com/shopspring/decimal"
)

var half = decimal.RequireFromString("0.5")

// Aggregate folds the resolved status of every day of the month into a Summary.
func Aggregate(userID string, year int, month time.Month, resolver *DailyStatusResolver) attendance.Summary {
	start, end := calendar.MonthBounds(year, month)

	s := attendance.Summary{
		UserID:            userID,
		Year:              year,
		Month:             month,
		AsOf:              resolver.asOf,
		PresentDays:       decimal.Zero,
		WorkingHours:      decimal.Zero,
		AverageDailyHours: decimal.Zero,
		PaidLeaveDays:     decimal.Zero,
		LOPDays:           decimal.Zero,
		StatusCounts:      make(map[attendance.DayStatus]int),
	}

	for _, date := range calendar.Days(start, end) {
		status, rec := resolver.Resolve(date)

		s.CalendarDays++
		s.StatusCounts[status]++
		s.Days = append(s.Days, attendance.Day{Date: date, Status: status})

		switch status {
		case attendance.DayHoliday:
			s.Holidays++
		case attendance.DayWeeklyOff:
			s.WeeklyOffs++
		case attendance.DayPresent:
			s.PresentDays = s.PresentDays.Add(decimal.NewFromInt(1))
		case attendance.DayLate:
			s.PresentDays = s.PresentDays.Add(decimal.NewFromInt(1))
			s.LateDays++
		case attendance.DayHalfDay:
			s.PresentDays = s.PresentDays.Add(half)
			s.HalfDays++
		case attendance.DayOnLeave:
			s.PaidLeaveDays = s.PaidLeaveDays.Add(leaveDuration(rec))
		case attendance.DayLOP:
			s.LOPDays = s.LOPDays.Add(leaveDuration(rec))
		case attendance.DayAbsent:
			s.AbsentDays++
		case attendance.DayNotApplicable:
			s.NotApplicableDays++
		}

		if rec != nil && rec.HasSession() {
			s.WorkingHours = s.WorkingHours.Add(rec.WorkingHours)
			s.LoggedDays++
		}
	}

	if s.LoggedDays > 0 {
		s.AverageDailyHours = s.WorkingHours.Div(decimal.NewFromInt(int64(s.LoggedDays)))
	}

	s.UnpaidLeaveDays = s.LOPDays.Add(decimal.NewFromInt(int64(s.AbsentDays)))
	s.TotalExpectedWorkingDays = s.CalendarDays - s.Holidays - s.WeeklyOffs
	s.PayableDaysForPayroll = decimal.NewFromInt(int64(s.CalendarDays)).Sub(s.UnpaidLeaveDays)

	return s
}

// leaveDuration reads daily_leave_duration, counting a missing or
// non-positive value as a full day.
func leaveDuration(rec *attendance.Record) decimal.Decimal {
	if rec == nil || !rec.DailyLeaveDuration.IsPositive() {
		return decimal.NewFromInt(1)
	}
	return rec.DailyLeaveDuration
}
