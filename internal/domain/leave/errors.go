package leave

import "errors"

var (
	ErrLeaveTypeNotFound    = errors.New("leave type not found")
	ErrLeaveTypeNameExists  = errors.New("leave type name already exists")
	ErrApplicationNotFound  = errors.New("leave application not found")
	ErrBalanceNotFound      = errors.New("leave balance not found")
	ErrInvalidTransition    = errors.New("invalid leave status transition")
	ErrUnknownStatus        = errors.New("unknown leave status")
	ErrNoWorkingDaysInRange = errors.New("leave range contains no working days")
	ErrOverlappingLeave     = errors.New("leave application overlaps an existing application")
)

var ErrNotApplicationOwner = errors.New("leave application belongs to another user")
