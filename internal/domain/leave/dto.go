package leave

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type CreateLeaveTypeRequest struct {
	Name               string          `json:"name" validate:"required,max=100"`
	IsPaid             *bool           `json:"is_paid,omitempty"`
	DefaultDaysPerYear decimal.Decimal `json:"default_days_per_year"`
}

func (r *CreateLeaveTypeRequest) Validate() error {
	errs := validator.Struct(r)
	if r.DefaultDaysPerYear.IsNegative() {
		errs.Add("default_days_per_year", "default_days_per_year must not be negative")
	}
	if r.DefaultDaysPerYear.GreaterThan(decimal.NewFromInt(366)) {
		errs.Add("default_days_per_year", "default_days_per_year must not exceed 366")
	}
	return errs.Err()
}

// AllocateBalanceRequest sets a user's balance for a leave type. Days falls
// back to the type's default_days_per_year when omitted.
type AllocateBalanceRequest struct {
	UserID      string           `json:"user_id" validate:"required,uuid"`
	LeaveTypeID string           `json:"leave_type_id" validate:"required,uuid"`
	Days        *decimal.Decimal `json:"days,omitempty"`
}

func (r *AllocateBalanceRequest) Validate() error {
	errs := validator.Struct(r)
	if r.Days != nil && r.Days.IsNegative() {
		errs.Add("days", "days must not be negative")
	}
	return errs.Err()
}

// MaxApplicationDays bounds the calendar days one application may span.
const MaxApplicationDays = 366

type ApplyLeaveRequest struct {
	UserID      string `json:"user_id" validate:"required,uuid"`
	LeaveTypeID string `json:"leave_type_id" validate:"required,uuid"`
	FromDate    string `json:"from_date" validate:"required,date"`
	ToDate      string `json:"to_date" validate:"required,date"`
	IsHalfDay   bool   `json:"is_half_day"`
	Reason      string `json:"reason" validate:"max=1000"`
}

func (r *ApplyLeaveRequest) Validate() error {
	errs := validator.Struct(r)

	from, okFrom := validator.IsValidDate(r.FromDate)
	to, okTo := validator.IsValidDate(r.ToDate)
	switch {
	case !okFrom || !okTo:
	case to.Before(from):
		errs.Add("to_date", "to_date must not be before from_date")
	case to.Sub(from) >= MaxApplicationDays*24*time.Hour:
		errs.Add("to_date", fmt.Sprintf("leave range must not exceed %d days", MaxApplicationDays))
	}

	return errs.Err()
}

type CancelLeaveRequest struct {
	UserID string `json:"user_id" validate:"required,uuid"`
}

func (r *CancelLeaveRequest) Validate() error {
	return validator.Struct(r).Err()
}

type LeaveTypeResponse struct {
	ID                 string          `json:"id"`
	Name               string          `json:"name"`
	IsPaid             bool            `json:"is_paid"`
	DefaultDaysPerYear decimal.Decimal `json:"default_days_per_year"`
}

func NewLeaveTypeResponse(t LeaveType) LeaveTypeResponse {
	return LeaveTypeResponse{
		ID:                 t.ID,
		Name:               t.Name,
		IsPaid:             t.IsPaid,
		DefaultDaysPerYear: t.DefaultDaysPerYear,
	}
}

type BalanceResponse struct {
	UserID             string          `json:"user_id"`
	LeaveType          string          `json:"leave_type"`
	CurrentBalance     decimal.Decimal `json:"current_balance"`
	TotalDaysAllocated decimal.Decimal `json:"total_days_allocated"`
}

func NewBalanceResponse(b Balance) BalanceResponse {
	return BalanceResponse{
		UserID:             b.UserID,
		LeaveType:          b.LeaveType,
		CurrentBalance:     b.CurrentBalance,
		TotalDaysAllocated: b.TotalDaysAllocated,
	}
}

type ApplicationResponse struct {
	ID                string          `json:"id"`
	UserID            string          `json:"user_id"`
	LeaveTypeID       string          `json:"leave_type_id"`
	LeaveTypeName     *string         `json:"leave_type_name,omitempty"`
	FromDate          string          `json:"from_date"`
	ToDate            string          `json:"to_date"`
	IsHalfDay         bool            `json:"is_half_day"`
	Duration          decimal.Decimal `json:"duration"`
	Reason            string          `json:"reason,omitempty"`
	Status            Status          `json:"status"`
	IsProcessedAsPaid *bool           `json:"is_processed_as_paid"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

func NewApplicationResponse(a Application) ApplicationResponse {
	return ApplicationResponse{
		ID:                a.ID,
		UserID:            a.UserID,
		LeaveTypeID:       a.LeaveTypeID,
		LeaveTypeName:     a.LeaveTypeName,
		FromDate:          a.FromDate.Format("2006-01-02"),
		ToDate:            a.ToDate.Format("2006-01-02"),
		IsHalfDay:         a.IsHalfDay,
		Duration:          a.Duration,
		Reason:            a.Reason,
		Status:            a.Status,
		IsProcessedAsPaid: a.IsProcessedAsPaid,
		CreatedAt:         a.CreatedAt,
		UpdatedAt:         a.UpdatedAt,
	}
}
