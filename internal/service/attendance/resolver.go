package attendance

import (
	"time"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/calendar"
	scheduleService "github.com/cmlabs-hris/hris-payroll-engine/internal/service/schedule"
)

var recordStatusToDay = map[attendance.Status]attendance.DayStatus{
	attendance.StatusPresent: attendance.DayPresent,
	attendance.StatusLate:    attendance.DayLate,
	attendance.StatusHalfDay: attendance.DayHalfDay,
	attendance.StatusOnLeave: attendance.DayOnLeave,
	attendance.StatusLOP:     attendance.DayLOP,
	attendance.StatusAbsent:  attendance.DayAbsent,
}

// DailyStatusResolver assigns exactly one status to each date. Precedence:
// holiday, weekly off, stored record, then ABSENT up to asOf and
// NOT_APPLICABLE after it.
type DailyStatusResolver struct {
	calendar *scheduleService.WorkCalendar
	records  map[string]attendance.Record
	asOf     time.Time
}

func NewDailyStatusResolver(cal *scheduleService.WorkCalendar, records []attendance.Record, asOf time.Time) *DailyStatusResolver {
	byDate := make(map[string]attendance.Record, len(records))
	for _, r := range records {
		byDate[calendar.Key(r.Date)] = r
	}
	return &DailyStatusResolver{
		calendar: cal,
		records:  byDate,
		asOf:     calendar.Truncate(asOf),
	}
}

// Resolve returns the day's status and, when the status came from a stored
// record, that record.
func (r *DailyStatusResolver) Resolve(date time.Time) (attendance.DayStatus, *attendance.Record) {
	date = calendar.Truncate(date)

	if r.calendar.IsHoliday(date) {
		return attendance.DayHoliday, nil
	}
	if r.calendar.IsWeeklyOff(date) {
		return attendance.DayWeeklyOff, nil
	}

	if rec, ok := r.records[calendar.Key(date)]; ok {
		if status, known := recordStatusToDay[rec.Status]; known {
			return status, &rec
		}
		// unrecognized stored status falls through to the no-record rule
	}

	if date.After(r.asOf) {
		return attendance.DayNotApplicable, nil
	}
	return attendance.DayAbsent, nil
}
