package attendance

import (
	"time"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type CheckInRequest struct {
	UserID string  `json:"user_id" validate:"required,uuid"`
	At     *string `json:"at,omitempty"`
}

func (r *CheckInRequest) Validate() error {
	errs := validator.Struct(r)
	validateInstant(&errs, "at", r.At)
	return errs.Err()
}

type CheckOutRequest struct {
	UserID string  `json:"user_id" validate:"required,uuid"`
	At     *string `json:"at,omitempty"`
}

func (r *CheckOutRequest) Validate() error {
	errs := validator.Struct(r)
	validateInstant(&errs, "at", r.At)
	return errs.Err()
}

type CorrectAttendanceRequest struct {
	UserID   string  `json:"user_id" validate:"required,uuid"`
	Date     string  `json:"date" validate:"required,date"`
	Status   string  `json:"status" validate:"required"`
	CheckIn  *string `json:"check_in,omitempty"`
	CheckOut *string `json:"check_out,omitempty"`
}

func (r *CorrectAttendanceRequest) Validate() error {
	errs := validator.Struct(r)

	if r.Status != "" {
		s := Status(r.Status)
		if !s.Valid() {
			errs.Add("status", "status must be one of PRESENT, LATE, HALF_DAY, ON_LEAVE, LOP, ABSENT")
		} else if s.IsLeave() {
			errs.Add("status", "leave statuses are managed through leave applications")
		}
	}

	validateInstant(&errs, "check_in", r.CheckIn)
	validateInstant(&errs, "check_out", r.CheckOut)
	if r.CheckOut != nil && r.CheckIn == nil {
		errs.Add("check_out", "check_out requires check_in")
	}
	if r.CheckIn != nil && r.CheckOut != nil {
		in, okIn := validator.IsValidDateTime(*r.CheckIn)
		out, okOut := validator.IsValidDateTime(*r.CheckOut)
		if okIn && okOut && out.Before(in) {
			errs.Add("check_out", "check_out must not be before check_in")
		}
	}

	return errs.Err()
}

type SummaryRequest struct {
	UserID string `json:"user_id" validate:"required,uuid"`
	Year   int    `json:"year" validate:"required,min=1900,max=9999"`
	Month  int    `json:"month" validate:"required,min=1,max=12"`
	AsOf   string `json:"as_of,omitempty" validate:"omitempty,date"`
}

func (r *SummaryRequest) Validate() error {
	return validator.Struct(r).Err()
}

func validateInstant(errs *validator.ValidationErrors, field string, value *string) {
	if value == nil {
		return
	}
	if _, ok := validator.IsValidDateTime(*value); !ok {
		errs.Add(field, field+" must be an RFC3339 timestamp")
	}
}

type AttendanceResponse struct {
	ID                 string          `json:"id"`
	UserID             string          `json:"user_id"`
	Date               string          `json:"date"`
	CheckIn            *time.Time      `json:"check_in,omitempty"`
	CheckOut           *time.Time      `json:"check_out,omitempty"`
	Status             Status          `json:"status"`
	DailyLeaveDuration decimal.Decimal `json:"daily_leave_duration"`
	WorkingHours       decimal.Decimal `json:"working_hours"`
	LateMinutes        int             `json:"late_minutes"`
	ExtraHours         decimal.Decimal `json:"extra_hours"`
}

func NewAttendanceResponse(r Record) AttendanceResponse {
	return AttendanceResponse{
		ID:                 r.ID,
		UserID:             r.UserID,
		Date:               r.Date.Format("2006-01-02"),
		CheckIn:            r.CheckIn,
		CheckOut:           r.CheckOut,
		Status:             r.Status,
		DailyLeaveDuration: r.DailyLeaveDuration,
		WorkingHours:       r.WorkingHours,
		LateMinutes:        r.LateMinutes,
		ExtraHours:         r.ExtraHours,
	}
}

type DayResponse struct {
	Date   string    `json:"date"`
	Status DayStatus `json:"status"`
}

type SummaryResponse struct {
	UserID                   string               `json:"user_id"`
	Year                     int                  `json:"year"`
	Month                    int                  `json:"month"`
	AsOf                     string               `json:"as_of"`
	CalendarDays             int                  `json:"calendar_days"`
	Holidays                 int                  `json:"holidays"`
	WeeklyOffs               int                  `json:"weekly_offs"`
	PresentDays              decimal.Decimal      `json:"present_days"`
	LateDays                 int                  `json:"late_days"`
	HalfDays                 int                  `json:"half_days"`
	WorkingHours             decimal.Decimal      `json:"working_hours"`
	LoggedDays               int                  `json:"logged_days"`
	AverageDailyHours        decimal.Decimal      `json:"average_daily_hours"`
	PaidLeaveDays            decimal.Decimal      `json:"paid_leave_days"`
	LOPDays                  decimal.Decimal      `json:"lop_days"`
	AbsentDays               int                  `json:"absent_days"`
	UnpaidLeaveDays          decimal.Decimal      `json:"unpaid_leave_days"`
	NotApplicableDays        int                  `json:"not_applicable_days"`
	TotalExpectedWorkingDays int                  `json:"total_expected_working_days"`
	PayableDaysForPayroll    decimal.Decimal      `json:"payable_days_for_payroll"`
	StatusCounts             map[DayStatus]int    `json:"status_counts"`
	DayStatus                map[string]DayStatus `json:"day_status"`
	Days                     []DayResponse        `json:"days"`
}

func NewSummaryResponse(s Summary) SummaryResponse {
	days := make([]DayResponse, 0, len(s.Days))
	for _, d := range s.Days {
		days = append(days, DayResponse{Date: d.Date.Format("2006-01-02"), Status: d.Status})
	}
	return SummaryResponse{
		UserID:                   s.UserID,
		Year:                     s.Year,
		Month:                    int(s.Month),
		AsOf:                     s.AsOf.Format("2006-01-02"),
		CalendarDays:             s.CalendarDays,
		Holidays:                 s.Holidays,
		WeeklyOffs:               s.WeeklyOffs,
		PresentDays:              s.PresentDays,
		LateDays:                 s.LateDays,
		HalfDays:                 s.HalfDays,
		WorkingHours:             s.WorkingHours.Round(2),
		LoggedDays:               s.LoggedDays,
		AverageDailyHours:        s.AverageDailyHours.Round(2),
		PaidLeaveDays:            s.PaidLeaveDays,
		LOPDays:                  s.LOPDays,
		AbsentDays:               s.AbsentDays,
		UnpaidLeaveDays:          s.UnpaidLeaveDays,
		NotApplicableDays:        s.NotApplicableDays,
		TotalExpectedWorkingDays: s.TotalExpectedWorkingDays,
		PayableDaysForPayroll:    s.PayableDaysForPayroll,
		StatusCounts:             s.StatusCounts,
		DayStatus:                s.DayStatusMap(),
		Days:                     days,
	}
}
