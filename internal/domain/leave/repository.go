package leave

import (
	"context"
	"time"
)

// LeaveTypeRepository - interface for leave_types table
type LeaveTypeRepository interface {
	Create(ctx context.Context, leaveType LeaveType) (LeaveType, error)
	GetByID(ctx context.Context, id string) (LeaveType, error)
	List(ctx context.Context) ([]LeaveType, error)
}

// ApplicationRepository - interface for leave_applications table
type ApplicationRepository interface {
	Create(ctx context.Context, application Application) (Application, error)
	GetByID(ctx context.Context, id string) (Application, error)
	// GetByIDForUpdate locks the row until the surrounding transaction ends.
	GetByIDForUpdate(ctx context.Context, id string) (Application, error)
	ListByUser(ctx context.Context, userID string) ([]Application, error)
	// HasOverlapping reports whether a non-terminal application of the user
	// covers any day in [from, to].
	HasOverlapping(ctx context.Context, userID string, from, to time.Time) (bool, error)
	UpdateStatus(ctx context.Context, application Application) error
}

// BalanceRepository - interface for leave_balances table
type BalanceRepository interface {
	// GetForUpdate returns ErrBalanceNotFound when the user has no row for leaveType.
	GetForUpdate(ctx context.Context, userID, leaveType string) (Balance, error)
	ListByUser(ctx context.Context, userID string) ([]Balance, error)
	Create(ctx context.Context, balance Balance) (Balance, error)
	Update(ctx context.Context, balance Balance) error
}
