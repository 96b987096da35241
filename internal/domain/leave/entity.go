package leave

import (
	"time"

	"github.com/shopspring/decimal"
)

// LeaveType entity
type LeaveType struct {
	ID                 string
	Name               string
	IsPaid             bool
	DefaultDaysPerYear decimal.Decimal
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Application is a leave application. IsProcessedAsPaid is nil until approval.
type Application struct {
	ID                string
	UserID            string
	LeaveTypeID       string
	FromDate          time.Time
	ToDate            time.Time
	IsHalfDay         bool
	Duration          decimal.Decimal
	Reason            string
	Status            Status
	IsProcessedAsPaid *bool
	CreatedAt         time.Time
	UpdatedAt         time.Time

	// Relationships (for responses)
	LeaveTypeName *string
}

// ProcessedAsPaid treats an unset flag as unpaid.
func (a Application) ProcessedAsPaid() bool {
	return a.IsProcessedAsPaid != nil && *a.IsProcessedAsPaid
}

// Balance is keyed by (UserID, LeaveType) where LeaveType is the type name.
type Balance struct {
	ID                 string
	UserID             string
	LeaveType          string
	CurrentBalance     decimal.Decimal
	TotalDaysAllocated decimal.Decimal
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
