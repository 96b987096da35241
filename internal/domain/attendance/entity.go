package attendance

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status is the value stored on an attendance record.
type Status string

const (
	StatusPresent Status = "PRESENT"
	StatusLate    Status = "LATE"
	StatusHalfDay Status = "HALF_DAY"
	StatusOnLeave Status = "ON_LEAVE"
	StatusLOP     Status = "LOP"
	StatusAbsent  Status = "ABSENT"
)

var StatusValues = []string{
	string(StatusPresent),
	string(StatusLate),
	string(StatusHalfDay),
	string(StatusOnLeave),
	string(StatusLOP),
	string(StatusAbsent),
}

func (s Status) Valid() bool {
	switch s {
	case StatusPresent, StatusLate, StatusHalfDay, StatusOnLeave, StatusLOP, StatusAbsent:
		return true
	}
	return false
}

// IsLeave reports whether the status is written by the leave ledger.
func (s Status) IsLeave() bool {
	return s == StatusOnLeave || s == StatusLOP
}

// DayStatus is the resolved status of one calendar day.
type DayStatus string

const (
	DayPresent       DayStatus = "PRESENT"
	DayLate          DayStatus = "LATE"
	DayHalfDay       DayStatus = "HALF_DAY"
	DayOnLeave       DayStatus = "ON_LEAVE"
	DayLOP           DayStatus = "LOP"
	DayAbsent        DayStatus = "ABSENT"
	DayHoliday       DayStatus = "HOLIDAY"
	DayWeeklyOff     DayStatus = "WEEKLY_OFF"
	DayNotApplicable DayStatus = "NOT_APPLICABLE"
)

// Record is one attendance row, unique per (UserID, Date).
type Record struct {
	ID                 string
	UserID             string
	Date               time.Time
	CheckIn            *time.Time
	CheckOut           *time.Time
	Status             Status
	DailyLeaveDuration decimal.Decimal
	WorkingHours       decimal.Decimal
	LateMinutes        int
	ExtraHours         decimal.Decimal
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// HasSession reports whether the record has both check-in and check-out.
func (r Record) HasSession() bool {
	return r.CheckIn != nil && r.CheckOut != nil
}

// Day is one entry of the ordered day list in a Summary.
type Day struct {
	Date   time.Time
	Status DayStatus
}

// Summary is the month-level fold of resolved day statuses.
type Summary struct {
	UserID                   string
	Year                     int
	Month                    time.Month
	AsOf                     time.Time
	CalendarDays             int
	Holidays                 int
	WeeklyOffs               int
	PresentDays              decimal.Decimal
	LateDays                 int
	HalfDays                 int
	WorkingHours             decimal.Decimal
	LoggedDays               int
	AverageDailyHours        decimal.Decimal
	PaidLeaveDays            decimal.Decimal
	LOPDays                  decimal.Decimal
	AbsentDays               int
	UnpaidLeaveDays          decimal.Decimal
	NotApplicableDays        int
	TotalExpectedWorkingDays int
	PayableDaysForPayroll    decimal.Decimal
	StatusCounts             map[DayStatus]int
	Days                     []Day
}

// DayStatusMap returns the date key to status map used by correction and export.
func (s Summary) DayStatusMap() map[string]DayStatus {
	m := make(map[string]DayStatus, len(s.Days))
	for _, d := range s.Days {
		m[d.Date.Format("2006-01-02")] = d.Status
	}
	return m
}
